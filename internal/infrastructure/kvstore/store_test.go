package kvstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/doeshing/pyfuturist/internal/domain"
	"github.com/doeshing/pyfuturist/internal/ports"
)

type closableStore interface {
	ports.KeyValueStore
	Close() error
	Path() string
}

func openStores(t *testing.T, quota int) map[string]closableStore {
	t.Helper()
	dir := t.TempDir()
	sqliteStore, err := NewSQLiteStore(filepath.Join(dir, "store.db"), quota)
	if err != nil {
		t.Fatalf("NewSQLiteStore error: %v", err)
	}
	t.Cleanup(func() { sqliteStore.Close() })
	return map[string]closableStore{
		"sqlite": sqliteStore,
		"file":   NewFileStore(filepath.Join(dir, "store.json"), quota),
	}
}

func TestStoreGetSet(t *testing.T) {
	ctx := context.Background()
	for name, store := range openStores(t, 0) {
		t.Run(name, func(t *testing.T) {
			if _, ok, err := store.Get(ctx, "missing"); err != nil || ok {
				t.Fatalf("Get(missing) = ok %v err %v", ok, err)
			}
			if err := store.Set(ctx, "k", "[]"); err != nil {
				t.Fatalf("Set error: %v", err)
			}
			if err := store.Set(ctx, "k", `[{"code":"1"}]`); err != nil {
				t.Fatalf("Set overwrite error: %v", err)
			}
			got, ok, err := store.Get(ctx, "k")
			if err != nil || !ok {
				t.Fatalf("Get(k) = ok %v err %v", ok, err)
			}
			if got != `[{"code":"1"}]` {
				t.Fatalf("Get(k) = %q", got)
			}
		})
	}
}

func TestStoreQuota(t *testing.T) {
	ctx := context.Background()
	for name, store := range openStores(t, 8) {
		t.Run(name, func(t *testing.T) {
			err := store.Set(ctx, "k", strings.Repeat("x", 9))
			if !errors.Is(err, domain.ErrQuotaExceeded) {
				t.Fatalf("expected ErrQuotaExceeded, got %v", err)
			}
			if _, ok, _ := store.Get(ctx, "k"); ok {
				t.Fatalf("oversize value must not be stored")
			}
			if err := store.Set(ctx, "k", strings.Repeat("x", 8)); err != nil {
				t.Fatalf("Set at quota error: %v", err)
			}
		})
	}
}

func TestSQLiteStorePersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "store.db")
	store, err := NewSQLiteStore(path, 0)
	if err != nil {
		t.Fatalf("NewSQLiteStore error: %v", err)
	}
	if err := store.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	store.Close()

	reopened, err := NewSQLiteStore(path, 0)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	defer reopened.Close()
	if got, ok, err := reopened.Get(ctx, "k"); err != nil || !ok || got != "v" {
		t.Fatalf("Get after reopen = %q ok %v err %v", got, ok, err)
	}
}

func TestFileStoreMalformedFileReadsEmpty(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	store := NewFileStore(path, 0)
	if _, ok, err := store.Get(ctx, "k"); err != nil || ok {
		t.Fatalf("Get on malformed file = ok %v err %v", ok, err)
	}
	if err := store.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if got, _, _ := store.Get(ctx, "k"); got != "v" {
		t.Fatalf("Get after heal = %q", got)
	}
	if store.Path() != path {
		t.Fatalf("Path = %q", store.Path())
	}
}
