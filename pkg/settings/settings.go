// pkg/settings/settings.go

// Package settings keeps the one persisted configuration value of the
// builder: the spreadsheet webhook URL.
package settings

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
)

// KeyWebhookURL is the key the webhook URL is stored under.
const KeyWebhookURL = "sheets.webhook_url"

// EnvWebhookURL is the environment variable that supplies the webhook URL.
const EnvWebhookURL = "GOOGLE_APPS_SCRIPT_URL"

var (
	// ErrNotFound is returned by a Store for a key that has no value.
	ErrNotFound = errors.New("settings: not found")
	// ErrInvalidURL rejects webhook URLs that are not absolute http(s) URLs.
	ErrInvalidURL = errors.New("settings: invalid webhook URL")
)

// Store persists string values by key.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// MemoryStore keeps values for the life of the process.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Get returns the value for key, or ErrNotFound.
func (m *MemoryStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// Set stores value under key.
func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// Origin tells where a resolved URL came from.
type Origin string

const (
	OriginStored   Origin = "stored"
	OriginEnv      Origin = "env"
	OriginFallback Origin = "fallback"
	OriginNone     Origin = "none"
)

// Resolver picks the webhook URL: a stored value wins over the environment,
// which wins over the fallback.
type Resolver struct {
	Store    Store
	EnvURL   string
	Fallback string
}

// Lookup returns the URL and where it came from. An empty URL has OriginNone.
func (r *Resolver) Lookup(ctx context.Context) (string, Origin, error) {
	if r.Store != nil {
		v, err := r.Store.Get(ctx, KeyWebhookURL)
		switch {
		case err == nil && strings.TrimSpace(v) != "":
			return v, OriginStored, nil
		case err != nil && !errors.Is(err, ErrNotFound):
			return "", OriginNone, fmt.Errorf("load webhook URL: %w", err)
		}
	}
	if strings.TrimSpace(r.EnvURL) != "" {
		return r.EnvURL, OriginEnv, nil
	}
	if strings.TrimSpace(r.Fallback) != "" {
		return r.Fallback, OriginFallback, nil
	}
	return "", OriginNone, nil
}

// Endpoint returns the resolved URL.
func (r *Resolver) Endpoint(ctx context.Context) (string, error) {
	v, _, err := r.Lookup(ctx)
	return v, err
}

// SetEndpoint validates and stores a new webhook URL.
func (r *Resolver) SetEndpoint(ctx context.Context, raw string) error {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}
	if r.Store == nil {
		return errors.New("settings: no store configured")
	}
	if err := r.Store.Set(ctx, KeyWebhookURL, raw); err != nil {
		return fmt.Errorf("save webhook URL: %w", err)
	}
	return nil
}
