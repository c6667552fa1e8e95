// Package ledger owns the transaction collection, the savings goal and the
// selected display currency, and keeps them synchronized with a kv.Store.
// All other packages receive read-only snapshots.
package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"tally/internal/core"
	"tally/internal/kv"
)

type Store struct {
	mu       sync.Mutex
	kv       kv.Store
	txs      []core.Transaction
	goal     core.SavingsGoal
	currency string
	lastID   int64
}

func New(store kv.Store) *Store {
	return &Store{
		kv:       store,
		goal:     core.SavingsGoal{Period: core.DefaultGoalPeriod},
		currency: core.BaseCurrency,
	}
}

// Restore loads persisted state. Missing or corrupt entries yield the
// documented defaults rather than an error: an empty collection, no goal,
// the base display currency.
func (s *Store) Restore(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok, err := s.kv.Get(ctx, kv.KeyTransactions)
	if err != nil {
		return fmt.Errorf("restore transactions: %w", err)
	}
	if ok {
		var txs []core.Transaction
		if err := json.Unmarshal([]byte(raw), &txs); err != nil {
			slog.WarnContext(ctx, "Stored transactions are corrupt, starting empty", "error", err)
		} else {
			s.txs = txs
		}
	}
	for _, t := range s.txs {
		if t.ID > s.lastID {
			s.lastID = t.ID
		}
	}

	if raw, ok, err = s.kv.Get(ctx, kv.KeySavingsGoal); err != nil {
		return fmt.Errorf("restore savings goal: %w", err)
	} else if ok {
		if v, err := strconv.ParseFloat(raw, 64); err == nil && v >= 0 {
			s.goal.Target = v
		} else {
			slog.WarnContext(ctx, "Stored savings goal is corrupt, resetting", "value", raw)
		}
	}

	if raw, ok, err = s.kv.Get(ctx, kv.KeySavingsPeriod); err != nil {
		return fmt.Errorf("restore savings period: %w", err)
	} else if ok && raw != "" {
		s.goal.Period = raw
	}

	if raw, ok, err = s.kv.Get(ctx, kv.KeySelectedCurrency); err != nil {
		return fmt.Errorf("restore selected currency: %w", err)
	} else if ok && raw != "" {
		s.currency = raw
	}

	slog.InfoContext(ctx, "Ledger restored",
		"transactions", len(s.txs),
		"goal_target", s.goal.Target,
		"currency", s.currency)
	return nil
}

// Add records a new transaction at the front of the collection (newest
// first), persists, and returns the created record.
func (s *Store) Add(ctx context.Context, in core.TransactionInput) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := core.Transaction{
		ID:          s.nextID(),
		Type:        in.Type,
		Description: in.Description,
		Amount:      in.Signed(),
		Category:    in.Category,
		Date:        in.Date,
		Currency:    core.BaseCurrency,
	}
	s.txs = append([]core.Transaction{tx}, s.txs...)

	if err := s.persistTransactions(ctx); err != nil {
		return core.Transaction{}, err
	}
	return tx, nil
}

// Remove deletes the transaction with the given id. Removing an absent id is
// a no-op, not an error.
func (s *Store) Remove(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.txs {
		if t.ID == id {
			s.txs = append(s.txs[:i], s.txs[i+1:]...)
			return s.persistTransactions(ctx)
		}
	}
	slog.DebugContext(ctx, "Remove of absent transaction ignored", "id", id)
	return nil
}

// ReplaceAll swaps in a whole new collection, used by import. Individual
// record shape is accepted as-is; malformed entries flow into later
// computations unchanged.
func (s *Store) ReplaceAll(ctx context.Context, txs []core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.txs = append([]core.Transaction(nil), txs...)
	s.lastID = 0
	for _, t := range s.txs {
		if t.ID > s.lastID {
			s.lastID = t.ID
		}
	}
	return s.persistTransactions(ctx)
}

// List returns a snapshot copy in storage order, newest first.
func (s *Store) List() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, len(s.txs))
	copy(out, s.txs)
	return out
}

func (s *Store) Goal() core.SavingsGoal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.goal
}

func (s *Store) SetGoal(ctx context.Context, goal core.SavingsGoal) error {
	if err := goal.Validate(); err != nil {
		return err
	}
	if goal.Period == "" {
		goal.Period = core.DefaultGoalPeriod
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.goal = goal

	if err := s.kv.Set(ctx, kv.KeySavingsGoal, strconv.FormatFloat(goal.Target, 'f', -1, 64)); err != nil {
		return fmt.Errorf("persist savings goal: %w", err)
	}
	if err := s.kv.Set(ctx, kv.KeySavingsPeriod, goal.Period); err != nil {
		return fmt.Errorf("persist savings period: %w", err)
	}
	return nil
}

// ClearGoal resets both goal fields to their defaults and removes the
// persisted entries.
func (s *Store) ClearGoal(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goal = core.SavingsGoal{Period: core.DefaultGoalPeriod}

	if err := s.kv.Delete(ctx, kv.KeySavingsGoal); err != nil {
		return fmt.Errorf("clear savings goal: %w", err)
	}
	if err := s.kv.Delete(ctx, kv.KeySavingsPeriod); err != nil {
		return fmt.Errorf("clear savings period: %w", err)
	}
	return nil
}

func (s *Store) Currency() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currency
}

func (s *Store) SetCurrency(ctx context.Context, code string) error {
	if code == "" {
		code = core.BaseCurrency
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currency = code
	if err := s.kv.Set(ctx, kv.KeySelectedCurrency, code); err != nil {
		return fmt.Errorf("persist selected currency: %w", err)
	}
	return nil
}

func (s *Store) persistTransactions(ctx context.Context) error {
	data, err := json.Marshal(s.txs)
	if err != nil {
		return fmt.Errorf("marshal transactions: %w", err)
	}
	if err := s.kv.Set(ctx, kv.KeyTransactions, string(data)); err != nil {
		return fmt.Errorf("persist transactions: %w", err)
	}
	return nil
}

// nextID is creation-time based and bumped past the last issued id when two
// transactions land within the same millisecond. Uniqueness is best-effort.
func (s *Store) nextID() int64 {
	id := time.Now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}
