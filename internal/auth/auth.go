// Package auth defines the identity collaborator contract. The core only
// ever sees an Identity value; where it came from is the provider's
// business. A missing or broken provider leaves the app in guest mode, it
// never touches task state.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
)

// ErrNotConfigured is returned by provider operations when no usable
// provider configuration was given.
var ErrNotConfigured = errors.New("auth provider not configured")

// Identity is a tagged variant: either the fixed guest identity or an
// externally authenticated user.
type Identity struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	PhotoURL string `json:"photo_url,omitempty"`
	Guest    bool   `json:"guest"`
}

// GuestIdentity is the identity the app falls back to when signed out.
func GuestIdentity() Identity {
	return Identity{ID: "guest", Name: "Guest Monk", Guest: true}
}

// Config is the auth block of the config file.
type Config struct {
	Profile string `toml:"profile"`
}

// Provider is the boundary to the external identity system.
type Provider interface {
	Login(ctx context.Context) (Identity, error)
	Logout(ctx context.Context) error
	Subscribe(fn func(Identity)) (cancel func())
	Configured() bool
}

// FileProvider resolves the signed-in identity from a local profile file
// written by an external sign-in flow. An empty profile path means the
// provider is not configured and the app stays in guest mode.
type FileProvider struct {
	mu      sync.Mutex
	path    string
	current Identity
	subs    map[int]func(Identity)
	nextSub int
}

// NewFileProvider builds a provider from config. A missing profile path is
// not an error here; it yields an unconfigured provider.
func NewFileProvider(cfg Config) *FileProvider {
	return &FileProvider{
		path:    cfg.Profile,
		current: GuestIdentity(),
		subs:    map[int]func(Identity){},
	}
}

func (p *FileProvider) Configured() bool {
	return p.path != ""
}

// Current returns the last resolved identity.
func (p *FileProvider) Current() Identity {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Login reads the profile file and switches to the authenticated identity.
// A malformed profile is a configuration failure, reported to the caller
// without changing the current identity.
func (p *FileProvider) Login(_ context.Context) (Identity, error) {
	if !p.Configured() {
		return Identity{}, ErrNotConfigured
	}

	data, err := os.ReadFile(p.path)
	if err != nil {
		return Identity{}, fmt.Errorf("read auth profile: %w", err)
	}

	var id Identity
	if err := json.Unmarshal(data, &id); err != nil {
		return Identity{}, fmt.Errorf("decode auth profile %s: %w", p.path, err)
	}
	if id.ID == "" {
		return Identity{}, fmt.Errorf("auth profile %s: missing id", p.path)
	}
	if id.Name == "" {
		id.Name = "Anonymous Monk"
	}
	id.Guest = false

	p.set(id)
	return id, nil
}

// Logout reverts to the fixed guest identity. Safe to call when already
// signed out.
func (p *FileProvider) Logout(_ context.Context) error {
	p.set(GuestIdentity())
	return nil
}

// Subscribe registers a callback fired on every identity change. The
// returned cancel func unregisters it.
func (p *FileProvider) Subscribe(fn func(Identity)) (cancel func()) {
	p.mu.Lock()
	id := p.nextSub
	p.nextSub++
	p.subs[id] = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.subs, id)
		p.mu.Unlock()
	}
}

func (p *FileProvider) set(id Identity) {
	p.mu.Lock()
	p.current = id
	subs := make([]func(Identity), 0, len(p.subs))
	for _, fn := range p.subs {
		subs = append(subs, fn)
	}
	p.mu.Unlock()

	for _, fn := range subs {
		fn(id)
	}
}
