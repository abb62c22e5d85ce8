// Package checkout prices an order summary and records payment-widget
// callbacks.
package checkout

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/apnabazaar/bazaar/internal/domain"
)

const (
	TaxRate  = 0.05
	Currency = "INR"
)

type ShippingOption struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Days  string  `json:"days"`
}

var (
	Standard = ShippingOption{ID: "standard", Name: "Standard Delivery", Price: 40, Days: "3-5"}
	Express  = ShippingOption{ID: "express", Name: "Express Delivery", Price: 100, Days: "1-2"}
)

func ShippingOptions() []ShippingOption {
	return []ShippingOption{Standard, Express}
}

func ShippingByID(id string) (ShippingOption, error) {
	for _, o := range ShippingOptions() {
		if o.ID == id {
			return o, nil
		}
	}
	return ShippingOption{}, fmt.Errorf("unknown shipping option %q: %w", id, domain.ErrValidation)
}

type Summary struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// Quote adds shipping and tax, rounded to whole currency units, to subtotal.
func Quote(subtotal float64, opt ShippingOption) Summary {
	tax := math.Round(subtotal * TaxRate)
	return Summary{
		Subtotal: subtotal,
		Shipping: opt.Price,
		Tax:      tax,
		Total:    subtotal + opt.Price + tax,
	}
}

// AmountMinor is the total in the smallest currency unit (paise).
func (s Summary) AmountMinor() int64 {
	return int64(math.Round(s.Total * 100))
}

type Address struct {
	Street     string `json:"street"     validate:"required"`
	City       string `json:"city"       validate:"required"`
	State      string `json:"state"      validate:"required"`
	PostalCode string `json:"postalCode" validate:"required"`
}

type Contact struct {
	Name    string  `json:"name"    validate:"required"`
	Email   string  `json:"email"   validate:"required,email"`
	Phone   string  `json:"phone"   validate:"required"`
	Address Address `json:"address" validate:"required"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (c Contact) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("please fill in all required fields: %w", domain.ErrValidation)
	}
	return nil
}

type PaymentStatus string

// PaymentUnverified is the only status a client-side callback can produce.
// An order must not be marked paid until the payment is verified with the
// provider server-side.
const PaymentUnverified PaymentStatus = "unverified"

// PaymentCallback is what the payment widget hands back on success.
type PaymentCallback struct {
	PaymentID string `json:"razorpay_payment_id"`
	OrderID   string `json:"razorpay_order_id,omitempty"`
	Signature string `json:"razorpay_signature,omitempty"`
}

type Receipt struct {
	ReceiptID   string        `json:"receiptId"`
	PaymentID   string        `json:"paymentId"`
	AmountMinor int64         `json:"amount"`
	Currency    string        `json:"currency"`
	Status      PaymentStatus `json:"status"`
	CreatedAt   time.Time     `json:"createdAt"`
}

func NewReceiptID() string {
	return "rcpt_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:13]
}

type CartClearer interface {
	Clear(ctx context.Context) error
}

// Complete records a widget callback and empties the cart. The returned
// receipt is always PaymentUnverified.
func Complete(ctx context.Context, cart CartClearer, s Summary, cb PaymentCallback) (Receipt, error) {
	if cb.PaymentID == "" {
		return Receipt{}, fmt.Errorf("payment callback without payment id: %w", domain.ErrUpstream)
	}

	r := Receipt{
		ReceiptID:   NewReceiptID(),
		PaymentID:   cb.PaymentID,
		AmountMinor: s.AmountMinor(),
		Currency:    Currency,
		Status:      PaymentUnverified,
		CreatedAt:   time.Now().UTC(),
	}
	if err := cart.Clear(ctx); err != nil {
		return r, err
	}
	return r, nil
}
