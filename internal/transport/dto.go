package transport

import (
	"fmt"

	"github.com/apnabazaar/bazaar/internal/domain"
	"github.com/apnabazaar/bazaar/internal/models"
)

type SignupRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Phone    string `json:"phone"    validate:"required"`
	Role     string `json:"role,omitempty"`

	ShopName     string `json:"shopName,omitempty"`
	BusinessType string `json:"businessType,omitempty"`
	Address      string `json:"address,omitempty"`
}

// VendorDetails holds the signup fields that only vendors must supply.
type VendorDetails struct {
	ShopName     string `validate:"required"`
	BusinessType string `validate:"required,oneof=food grocery clothing crafts produce other"`
	Address      string `validate:"required"`
}

func (r SignupRequest) VendorDetails() VendorDetails {
	return VendorDetails{ShopName: r.ShopName, BusinessType: r.BusinessType, Address: r.Address}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	IsVendor bool   `json:"isVendor"`
}

// UpdateVendorRequest is a partial update: empty fields keep their value.
type UpdateVendorRequest struct {
	Name         string `json:"name,omitempty"`
	Email        string `json:"email,omitempty"        validate:"omitempty,email"`
	Password     string `json:"password,omitempty"     validate:"omitempty,min=6,max=72"`
	Phone        string `json:"phone,omitempty"`
	ShopName     string `json:"shopName,omitempty"`
	BusinessType string `json:"businessType,omitempty" validate:"omitempty,oneof=food grocery clothing crafts produce other"`
	Address      string `json:"address,omitempty"`
}

// Principal is the client-facing view of a user or vendor. It never
// carries the password hash.
type Principal struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Phone string      `json:"phone"`
	Role  domain.Role `json:"role"`

	ShopName     string              `json:"shopName,omitempty"`
	BusinessType domain.BusinessType `json:"businessType,omitempty"`
	Address      string              `json:"address,omitempty"`
	IsVerified   *bool               `json:"isVerified,omitempty"`
}

func (p Principal) IsVendor() bool { return p.Role == domain.RoleVendor }

func FromPrincipal(p models.Principal) Principal {
	switch v := p.(type) {
	case *models.User:
		return Principal{
			ID:    v.ID.String(),
			Name:  v.Name,
			Email: v.Email,
			Phone: v.Phone,
			Role:  domain.RoleUser,
		}
	case *models.Vendor:
		verified := v.IsVerified
		return Principal{
			ID:           v.ID.String(),
			Name:         v.Name,
			Email:        v.Email,
			Phone:        v.Phone,
			Role:         domain.RoleVendor,
			ShopName:     v.ShopName,
			BusinessType: v.BusinessType,
			Address:      v.Address,
			IsVerified:   &verified,
		}
	default:
		panic(fmt.Sprintf("transport: unknown principal type %T", p))
	}
}

type AuthResponse struct {
	Token string    `json:"token"`
	User  Principal `json:"user"`
}

type MeResponse struct {
	User Principal `json:"user"`
}

// VendorAuthResponse is the flat shape returned by the /vendor routes.
type VendorAuthResponse struct {
	Principal
	Token string `json:"token"`
}

type ErrorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}
