package settings

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "settings.yaml")
	store := NewFileStore(path)

	if _, err := store.Get(ctx, KeyWebhookURL); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound before first write, got %v", err)
	}
	if err := store.Set(ctx, KeyWebhookURL, "https://example.com/hook"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Set(ctx, "other", "value"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	reopened := NewFileStore(path)
	got, err := reopened.Get(ctx, KeyWebhookURL)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != "https://example.com/hook" {
		t.Errorf("got %q", got)
	}
}

func TestFileStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte("- not\n- a map\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := NewFileStore(path).Get(context.Background(), KeyWebhookURL); err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("expected decode error, got %v", err)
	}
}

type failingStore struct{}

func (failingStore) Get(context.Context, string) (string, error) { return "", errors.New("disk on fire") }
func (failingStore) Set(context.Context, string, string) error  { return errors.New("disk on fire") }

func TestResolverPrecedence(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name       string
		stored     string
		env        string
		fallback   string
		wantURL    string
		wantOrigin Origin
	}{
		{"stored wins", "https://stored", "https://env", "https://fallback", "https://stored", OriginStored},
		{"env next", "", "https://env", "https://fallback", "https://env", OriginEnv},
		{"fallback last", "", "", "https://fallback", "https://fallback", OriginFallback},
		{"nothing", "", "", "", "", OriginNone},
		{"blank stored ignored", "   ", "https://env", "", "https://env", OriginEnv},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMemoryStore()
			if tt.stored != "" {
				_ = store.Set(ctx, KeyWebhookURL, tt.stored)
			}
			r := &Resolver{Store: store, EnvURL: tt.env, Fallback: tt.fallback}

			got, origin, err := r.Lookup(ctx)
			if err != nil {
				t.Fatalf("Lookup failed: %v", err)
			}
			if got != tt.wantURL || origin != tt.wantOrigin {
				t.Errorf("Lookup() = %q, %s; expected %q, %s", got, origin, tt.wantURL, tt.wantOrigin)
			}
		})
	}
}

func TestResolverStoreError(t *testing.T) {
	r := &Resolver{Store: failingStore{}, EnvURL: "https://env"}
	if _, err := r.Endpoint(context.Background()); err == nil {
		t.Error("expected store error to surface")
	}
}

func TestSetEndpoint(t *testing.T) {
	ctx := context.Background()
	r := &Resolver{Store: NewMemoryStore()}

	for _, bad := range []string{"", "not a url", "ftp://example.com", "https://"} {
		if err := r.SetEndpoint(ctx, bad); !errors.Is(err, ErrInvalidURL) {
			t.Errorf("SetEndpoint(%q): expected ErrInvalidURL, got %v", bad, err)
		}
	}

	if err := r.SetEndpoint(ctx, "  https://script.example.com/exec "); err != nil {
		t.Fatalf("SetEndpoint failed: %v", err)
	}
	got, origin, _ := r.Lookup(ctx)
	if got != "https://script.example.com/exec" || origin != OriginStored {
		t.Errorf("Lookup() = %q, %s", got, origin)
	}

	noStore := &Resolver{}
	if err := noStore.SetEndpoint(ctx, "https://example.com"); err == nil {
		t.Error("expected error without a store")
	}
}

func TestPGStore(t *testing.T) {
	dsn := os.Getenv("INVOICE_TEST_DSN")
	if dsn == "" {
		t.Skip("INVOICE_TEST_DSN not set")
	}
	ctx := context.Background()

	store, err := OpenPGStore(ctx, dsn)
	if err != nil {
		t.Fatalf("OpenPGStore failed: %v", err)
	}
	defer store.Close()

	if err := store.Set(ctx, "test.key", "one"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Set(ctx, "test.key", "two"); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	got, err := store.Get(ctx, "test.key")
	if err != nil || got != "two" {
		t.Errorf("Get() = %q, %v", got, err)
	}
	if _, err := store.Get(ctx, "test.missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
