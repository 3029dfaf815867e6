// Package memory implements the store ports with mutex-guarded maps.
// It backs the default dev backend and the HTTP tests.
package memory

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"finsight/internal/core"
	"finsight/internal/store"
)

type Store struct {
	mu      sync.Mutex
	txs     []core.Transaction
	goals   []core.Goal
	digests map[core.Month]core.MonthlyDigest
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{digests: make(map[core.Month]core.MonthlyDigest)}
}

// seedTransaction is the JSON shape of a seed file row. Amounts are
// decimal strings and parse leniently, so a malformed row degrades to
// zero cents instead of aborting the seed.
type seedTransaction struct {
	Date        string `json:"date"`
	Type        string `json:"type"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

type seedGoal struct {
	Name    string `json:"name"`
	Current string `json:"current"`
	Target  string `json:"target"`
}

// NewFromFiles builds a store seeded from optional JSON files in base
// (seed_transactions.json, seed_goals.json). Missing or unreadable
// files leave the store empty.
func NewFromFiles(base string) *Store {
	s := New()

	var seedTxs []seedTransaction
	if readJSON(filepath.Join(base, "seed_transactions.json"), &seedTxs) {
		for _, row := range seedTxs {
			date, err := core.ParseDate(row.Date)
			if err != nil {
				continue
			}
			s.txs = append(s.txs, core.Transaction{
				ID:          uuid.NewString(),
				Date:        date,
				Type:        core.TransactionType(row.Type),
				Amount:      core.ParseAmount(row.Amount),
				Category:    row.Category,
				Description: row.Description,
			})
		}
	}

	var seedGoals []seedGoal
	if readJSON(filepath.Join(base, "seed_goals.json"), &seedGoals) {
		for _, row := range seedGoals {
			if row.Name == "" {
				continue
			}
			s.goals = append(s.goals, core.Goal{
				ID:      uuid.NewString(),
				Name:    row.Name,
				Current: core.ParseAmount(row.Current),
				Target:  core.ParseAmount(row.Target),
			})
		}
	}

	return s
}

func readJSON(path string, out any) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return json.Unmarshal(data, out) == nil
}

func (s *Store) CreateTransaction(_ context.Context, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	s.txs = append(s.txs, tx)
	return tx.ID, nil
}

func (s *Store) ListTransactions(_ context.Context, month core.Month) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, 0)
	for _, tx := range s.txs {
		if month.Contains(tx.Date) {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (s *Store) GetTransaction(_ context.Context, id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tx := range s.txs {
		if tx.ID == id {
			return tx, nil
		}
	}
	return core.Transaction{}, store.ErrNotFound
}

func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, tx := range s.txs {
		if tx.ID == id {
			s.txs = append(s.txs[:i], s.txs[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) CreateGoal(_ context.Context, g core.Goal) (string, error) {
	if err := g.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	s.goals = append(s.goals, g)
	return g.ID, nil
}

func (s *Store) ListGoals(_ context.Context) ([]core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Goal, len(s.goals))
	copy(out, s.goals)
	return out, nil
}

func (s *Store) GetGoal(_ context.Context, id string) (core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range s.goals {
		if g.ID == id {
			return g, nil
		}
	}
	return core.Goal{}, store.ErrNotFound
}

func (s *Store) UpdateGoal(_ context.Context, g core.Goal) error {
	if err := g.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.goals {
		if existing.ID == g.ID {
			s.goals[i] = g
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) DeleteGoal(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, g := range s.goals {
		if g.ID == id {
			s.goals = append(s.goals[:i], s.goals[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) UpsertDigest(_ context.Context, d core.MonthlyDigest) error {
	if err := d.Month.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.digests[d.Month] = d
	return nil
}

func (s *Store) GetDigest(_ context.Context, month core.Month) (core.MonthlyDigest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.digests[month]
	if !ok {
		return core.MonthlyDigest{}, store.ErrNotFound
	}
	return d, nil
}
