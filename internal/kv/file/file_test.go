package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tally.json")
	s, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx := context.Background()
	if _, ok, err := s.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("Get(missing) = ok=%v err=%v, want absent", ok, err)
	}

	if err := s.Set(ctx, "selectedCurrency", `"EUR"`); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// A fresh store over the same file sees the persisted value.
	reopened, err := New(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	v, ok, err := reopened.Get(ctx, "selectedCurrency")
	if err != nil || !ok || v != `"EUR"` {
		t.Fatalf("reopened Get = %q ok=%v err=%v", v, ok, err)
	}

	if err := reopened.Delete(ctx, "selectedCurrency"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := reopened.Get(ctx, "selectedCurrency"); ok {
		t.Fatal("value still present after Delete")
	}
	if err := reopened.Delete(ctx, "selectedCurrency"); err != nil {
		t.Fatalf("Delete of absent key should be a no-op: %v", err)
	}
}

func TestNewWithCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tally.json")
	if err := os.WriteFile(path, []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := New(path); err == nil {
		t.Fatal("expected error for corrupt data file")
	}
}
