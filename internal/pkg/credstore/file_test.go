package credstore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creds", "token")
	store, err := NewFileStore(path, "unit-test-secret")
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	ctx := context.Background()

	if err := store.Set(ctx, "tok-abc123"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	token, err := store.Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if token != "tok-abc123" {
		t.Fatalf("token = %q", token)
	}

	// Overwrite replaces, never appends.
	if err := store.Set(ctx, "tok-def456"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if token, _ = store.Get(ctx); token != "tok-def456" {
		t.Fatalf("token after overwrite = %q", token)
	}

	if err := store.Delete(ctx); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if token, err = store.Get(ctx); err != nil || token != "" {
		t.Fatalf("after delete: token=%q err=%v", token, err)
	}
	// Deleting an absent file is not an error.
	if err := store.Delete(ctx); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
}

func TestFileStoreMissingFileIsNoSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	store, err := NewFileStore(path, "unit-test-secret")
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	token, err := store.Get(context.Background())
	if err != nil || token != "" {
		t.Fatalf("missing file: token=%q err=%v", token, err)
	}
}

func TestFileStoreTokenNotStoredInPlaintext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	store, err := NewFileStore(path, "unit-test-secret")
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if err := store.Set(context.Background(), "tok-abc123"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if strings.Contains(string(raw), "tok-abc123") {
		t.Fatal("token written in plaintext")
	}
}

func TestFileStoreWrongSecretFailsDecrypt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	store, err := NewFileStore(path, "secret-one")
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if err := store.Set(context.Background(), "tok-abc123"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	other, err := NewFileStore(path, "secret-two")
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if _, err := other.Get(context.Background()); err == nil {
		t.Fatal("expected decrypt failure with the wrong secret")
	}
}

func TestFileStoreRequiresSecret(t *testing.T) {
	if _, err := NewFileStore("ignored", ""); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if token, err := store.Get(ctx); err != nil || token != "" {
		t.Fatalf("fresh store: token=%q err=%v", token, err)
	}
	if err := store.Set(ctx, "tok-abc123"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if token, _ := store.Get(ctx); token != "tok-abc123" {
		t.Fatalf("token = %q", token)
	}
	if err := store.Delete(ctx); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if token, _ := store.Get(ctx); token != "" {
		t.Fatalf("token after delete = %q", token)
	}
}
