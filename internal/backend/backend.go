// Package backend builds the kv store named by configuration. All backends
// satisfy kv.Store, so the ledger never knows which one it runs on.
package backend

import (
	"context"
	"fmt"

	"tally/internal/config"
	"tally/internal/kv"
	"tally/internal/kv/file"
	"tally/internal/kv/memory"
	"tally/internal/kv/postgres"
	"tally/internal/kv/sqlite"
	"tally/internal/log"
)

type Type string

const (
	Memory   Type = "memory"
	File     Type = "file"
	SQLite   Type = "sqlite"
	Postgres Type = "postgres"
)

func (t Type) String() string { return string(t) }

func (t Type) IsValid() bool {
	switch t {
	case Memory, File, SQLite, Postgres:
		return true
	default:
		return false
	}
}

// Open creates the configured store. The caller owns Close.
func Open(ctx context.Context, cfg *config.Config, logger *log.Logger) (kv.Store, error) {
	logger = logger.WithComponent(log.ComponentKV)
	t := Type(cfg.DataBackend)
	if !t.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", cfg.DataBackend)
	}

	switch t {
	case Memory:
		logger.InfoContext(ctx, "Using in-memory backend, state is lost on exit")
		return memory.New(), nil
	case File:
		store, err := file.New(cfg.LedgerFilePath)
		if err != nil {
			return nil, fmt.Errorf("open file backend: %w", err)
		}
		logger.InfoContext(ctx, "Opened file backend", "path", cfg.LedgerFilePath)
		return store, nil
	case SQLite:
		store, err := sqlite.New(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite backend: %w", err)
		}
		logger.InfoContext(ctx, "Opened sqlite backend", "path", cfg.SQLiteDBPath)
		return store, nil
	case Postgres:
		store, err := postgres.New(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("open postgres backend: %w", err)
		}
		logger.InfoContext(ctx, "Opened postgres backend")
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", t)
	}
}
