package backend

import (
	"context"
	"path/filepath"
	"testing"

	"tally/internal/config"
	"tally/internal/log"
)

func TestOpenMemory(t *testing.T) {
	store, err := Open(context.Background(), &config.Config{DataBackend: "memory"}, log.New(log.ComponentApp))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if v, ok, _ := store.Get(ctx, "k"); !ok || v != "v" {
		t.Fatalf("Get = %q, %v", v, ok)
	}
}

func TestOpenFile(t *testing.T) {
	cfg := &config.Config{
		DataBackend:    "file",
		LedgerFilePath: filepath.Join(t.TempDir(), "tally.json"),
	}
	store, err := Open(context.Background(), cfg, log.New(log.ComponentApp))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	store.Close()
}

func TestOpenRejectsUnknownType(t *testing.T) {
	if _, err := Open(context.Background(), &config.Config{DataBackend: "redis"}, log.New(log.ComponentApp)); err == nil {
		t.Fatal("Open should reject unknown backend types")
	}
}

func TestTypeIsValid(t *testing.T) {
	for _, valid := range []Type{Memory, File, SQLite, Postgres} {
		if !valid.IsValid() {
			t.Errorf("%s should be valid", valid)
		}
	}
	if Type("sheets").IsValid() {
		t.Error("sheets is not a kv backend")
	}
}
