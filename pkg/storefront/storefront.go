// Package storefront wires the client-side state (session, cart, theme)
// over one storage backend and one authenticator.
package storefront

import (
	"context"
	"fmt"
	"io"

	"github.com/apnabazaar/bazaar/internal/config"
	"github.com/apnabazaar/bazaar/internal/domain"
	"github.com/apnabazaar/bazaar/pkg/authclient"
	"github.com/apnabazaar/bazaar/pkg/cart"
	"github.com/apnabazaar/bazaar/pkg/checkout"
	"github.com/apnabazaar/bazaar/pkg/logging"
	"github.com/apnabazaar/bazaar/pkg/session"
	"github.com/apnabazaar/bazaar/pkg/storage"
	"github.com/apnabazaar/bazaar/pkg/theme"
)

type Storefront struct {
	Auth    authclient.Authenticator
	Session *session.Session
	Cart    *cart.Cart
	Theme   *theme.Preference

	closer io.Closer
}

// Open builds the storage backend and authenticator named by cfg and
// restores persisted state.
func Open(ctx context.Context, cfg config.ClientConfig) (*Storefront, error) {
	store, closer, err := openStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}
	auth, err := authclient.New(cfg.AuthMode, cfg.APIURL)
	if err != nil {
		if closer != nil {
			closer.Close()
		}
		return nil, err
	}

	sf := New(store, auth)
	sf.closer = closer
	if err := sf.Restore(ctx); err != nil {
		sf.Close()
		return nil, err
	}
	return sf, nil
}

func New(store storage.Store, auth authclient.Authenticator) *Storefront {
	return &Storefront{
		Auth:    auth,
		Session: session.New(store, auth),
		Cart:    cart.New(store),
		Theme:   theme.New(store),
	}
}

// Restore reloads session, cart and theme from storage.
func (s *Storefront) Restore(ctx context.Context) error {
	if err := s.Session.Restore(ctx); err != nil {
		return err
	}
	s.Cart.Load(ctx)
	s.Theme.Load(ctx, false)

	logging.FromContext(ctx).Debug("storefront_restored",
		"session", s.Session.State().String(),
		"cart_items", s.Cart.Count(),
	)
	return nil
}

func (s *Storefront) Quote(shippingID string) (checkout.Summary, error) {
	opt, err := checkout.ShippingByID(shippingID)
	if err != nil {
		return checkout.Summary{}, err
	}
	return checkout.Quote(s.Cart.Subtotal(), opt), nil
}

// CompletePayment turns a payment-widget callback into a receipt for a
// signed-in shopper with a non-empty cart.
func (s *Storefront) CompletePayment(ctx context.Context, contact checkout.Contact, shippingID string, cb checkout.PaymentCallback) (checkout.Receipt, error) {
	if !s.Session.IsAuthenticated() {
		return checkout.Receipt{}, fmt.Errorf("sign in to check out: %w", domain.ErrUnauthenticated)
	}
	if s.Cart.Count() == 0 {
		return checkout.Receipt{}, fmt.Errorf("cart is empty: %w", domain.ErrValidation)
	}
	if err := contact.Validate(); err != nil {
		return checkout.Receipt{}, err
	}
	summary, err := s.Quote(shippingID)
	if err != nil {
		return checkout.Receipt{}, err
	}

	r, err := checkout.Complete(ctx, s.Cart, summary, cb)
	if err != nil {
		return r, err
	}
	logging.FromContext(ctx).Warn("payment_unverified",
		"receipt_id", r.ReceiptID,
		"payment_id", r.PaymentID,
		"amount", r.AmountMinor,
	)
	return r, nil
}

func (s *Storefront) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

func openStorage(ctx context.Context, cfg config.ClientConfig) (storage.Store, io.Closer, error) {
	switch cfg.Storage {
	case config.StorageMemory:
		return storage.NewMemory(), nil, nil
	case config.StorageFile, "":
		fs, err := storage.NewFile(cfg.StorageDir)
		if err != nil {
			return nil, nil, err
		}
		return fs, nil, nil
	case config.StorageRedis:
		rs, err := storage.DialRedis(ctx, cfg.RedisURL, cfg.StoragePrefix, 0)
		if err != nil {
			return nil, nil, err
		}
		return rs, rs, nil
	}
	return nil, nil, fmt.Errorf("storefront: unknown storage %q", cfg.Storage)
}
