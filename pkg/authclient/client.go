package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/apnabazaar/bazaar/internal/domain"
	"github.com/apnabazaar/bazaar/internal/transport"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(authServiceURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(authServiceURL, "/"),
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

func (c *Client) Login(ctx context.Context, email, password string, role domain.Role) (*transport.AuthResponse, error) {
	body := transport.LoginRequest{Email: email, Password: password, IsVendor: role == domain.RoleVendor}

	var out transport.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Signup(ctx context.Context, req transport.SignupRequest, role domain.Role) (*transport.AuthResponse, error) {
	req.Role = role.String()

	var out transport.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/signup", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Me(ctx context.Context, token string) (*transport.Principal, error) {
	var out transport.MeResponse
	if err := c.do(ctx, http.MethodGet, "/auth/me", token, nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %v: %w", err, domain.ErrUpstream)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return decodeError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %v: %w", err, domain.ErrUpstream)
	}
	return nil
}

// decodeError maps an error response back onto the domain kinds.
func decodeError(resp *http.Response) error {
	var eb transport.ErrorBody
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&eb)
	if eb.Message == "" {
		eb.Message = http.StatusText(resp.StatusCode)
	}

	if resp.StatusCode >= 500 {
		return fmt.Errorf("%s (status %d): %w", eb.Message, resp.StatusCode, domain.ErrUpstream)
	}
	if kind := domain.FromCode(eb.Code); kind != nil {
		return fmt.Errorf("%s: %w", eb.Message, kind)
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("%s: %w", eb.Message, domain.ErrUnauthenticated)
	case http.StatusForbidden:
		return fmt.Errorf("%s: %w", eb.Message, domain.ErrForbidden)
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w", eb.Message, domain.ErrNotFound)
	}
	return fmt.Errorf("%s (status %d): %w", eb.Message, resp.StatusCode, domain.ErrValidation)
}
