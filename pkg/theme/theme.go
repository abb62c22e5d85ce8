// Package theme keeps the dark-mode preference.
package theme

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/apnabazaar/bazaar/pkg/storage"
)

type Preference struct {
	store storage.Store

	mu   sync.Mutex
	dark bool
}

func New(store storage.Store) *Preference {
	return &Preference{store: store}
}

// Load uses the stored preference, or systemDefault when none is stored or
// the stored value is unreadable.
func (p *Preference) Load(ctx context.Context, systemDefault bool) {
	dark := systemDefault
	if data, err := p.store.Load(ctx, storage.KeyDarkMode); err == nil {
		var v bool
		if json.Unmarshal(data, &v) == nil {
			dark = v
		}
	}

	p.mu.Lock()
	p.dark = dark
	p.mu.Unlock()
}

func (p *Preference) Dark() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dark
}

func (p *Preference) Toggle(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.set(ctx, !p.dark)
}

func (p *Preference) Set(ctx context.Context, dark bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.set(ctx, dark)
}

// set expects p.mu held.
func (p *Preference) set(ctx context.Context, dark bool) error {
	p.dark = dark
	data, _ := json.Marshal(dark)
	if err := p.store.Save(ctx, storage.KeyDarkMode, data); err != nil {
		return fmt.Errorf("theme: save: %w", err)
	}
	return nil
}
