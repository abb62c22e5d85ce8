// Package cart is the client-side shopping cart. Line items are persisted
// after every mutation.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/apnabazaar/bazaar/pkg/logging"
	"github.com/apnabazaar/bazaar/pkg/storage"
)

type Product struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Image      string  `json:"image,omitempty"`
	ShopID     string  `json:"shopId"`
	ShopName   string  `json:"shopName,omitempty"`
	MarketID   string  `json:"marketId"`
	MarketName string  `json:"marketName,omitempty"`
}

// Key identifies a line item: the same product sold by two shops is two
// lines.
type Key struct {
	ProductID string
	ShopID    string
	MarketID  string
}

func (p Product) Key() Key {
	return Key{ProductID: p.ID, ShopID: p.ShopID, MarketID: p.MarketID}
}

type Item struct {
	Product
	Quantity int `json:"quantity"`
}

type Cart struct {
	store storage.Store

	mu    sync.Mutex
	items []Item
	open  bool
}

func New(store storage.Store) *Cart {
	return &Cart{store: store}
}

// Load rehydrates the persisted line items. Anything unreadable yields an
// empty cart.
func (c *Cart) Load(ctx context.Context) {
	l := logging.FromContext(ctx).With("component", "cart")

	var items []Item
	data, err := c.store.Load(ctx, storage.KeyCart)
	switch {
	case err == nil:
		if jerr := json.Unmarshal(data, &items); jerr != nil {
			l.Warn("cart_blob_dropped", "error", jerr)
			items = nil
		}
	case !errors.Is(err, storage.ErrNotFound):
		// the cart starts empty; the next save overwrites whatever is there
		l.Warn("cart_load_failed", "error", err)
	}

	kept := items[:0]
	for _, it := range items {
		if it.Quantity >= 1 {
			kept = append(kept, it)
		}
	}

	c.mu.Lock()
	c.items = kept
	c.mu.Unlock()
}

// Add increments the matching line or appends a new one, and opens the
// cart view.
func (c *Cart) Add(ctx context.Context, p Product) error {
	return c.mutate(ctx, func() {
		c.open = true
		if i := c.index(p.Key()); i >= 0 {
			c.items[i].Quantity++
			return
		}
		c.items = append(c.items, Item{Product: p, Quantity: 1})
	})
}

func (c *Cart) Remove(ctx context.Context, k Key) error {
	return c.mutate(ctx, func() {
		if i := c.index(k); i >= 0 {
			c.items = append(c.items[:i], c.items[i+1:]...)
		}
	})
}

// RemoveProduct drops every line of the product, whichever shop or market
// it came from.
func (c *Cart) RemoveProduct(ctx context.Context, productID string) error {
	return c.mutate(ctx, func() {
		kept := c.items[:0]
		for _, it := range c.items {
			if it.ID != productID {
				kept = append(kept, it)
			}
		}
		c.items = kept
	})
}

// UpdateQuantity ignores quantities below 1.
func (c *Cart) UpdateQuantity(ctx context.Context, k Key, quantity int) error {
	if quantity < 1 {
		return nil
	}
	return c.mutate(ctx, func() {
		if i := c.index(k); i >= 0 {
			c.items[i].Quantity = quantity
		}
	})
}

func (c *Cart) Clear(ctx context.Context) error {
	return c.mutate(ctx, func() { c.items = nil })
}

func (c *Cart) Toggle() {
	c.mu.Lock()
	c.open = !c.open
	c.mu.Unlock()
}

func (c *Cart) Open() {
	c.mu.Lock()
	c.open = true
	c.mu.Unlock()
}

func (c *Cart) Close() {
	c.mu.Lock()
	c.open = false
	c.mu.Unlock()
}

func (c *Cart) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

func (c *Cart) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

func (c *Cart) Subtotal() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var sum float64
	for _, it := range c.items {
		sum += it.Price * float64(it.Quantity)
	}
	return sum
}

// index expects c.mu held.
func (c *Cart) index(k Key) int {
	for i, it := range c.items {
		if it.Key() == k {
			return i
		}
	}
	return -1
}

// mutate applies fn and persists the result under one lock, so saves land
// in mutation order. The in-memory change stands even when persisting fails.
func (c *Cart) mutate(ctx context.Context, fn func()) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	fn()
	data, err := json.Marshal(c.itemsOrEmpty())
	if err != nil {
		return fmt.Errorf("cart: encode: %w", err)
	}
	if err := c.store.Save(ctx, storage.KeyCart, data); err != nil {
		logging.FromContext(ctx).Error("cart_persist_failed", "error", err)
		return fmt.Errorf("cart: save: %w", err)
	}
	return nil
}

func (c *Cart) itemsOrEmpty() []Item {
	if c.items == nil {
		return []Item{}
	}
	return c.items
}
