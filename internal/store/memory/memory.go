// Package memory is the in-memory store backend. It backs tests and the
// default zero-setup configuration.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"tally/internal/core"
	"tally/internal/store"
)

// Store implements store.RecordStore and store.SheetRegistry in process
// memory. A single mutex covers both, matching the synchronous access model
// of the session layer.
type Store struct {
	mu      sync.Mutex
	sheets  []core.Sheet
	records map[core.Kind][]core.Record
}

func New() *Store {
	return &Store{
		records: map[core.Kind][]core.Record{
			core.Expense: nil,
			core.Income:  nil,
		},
	}
}

// Fetch returns the sheet's records of one kind, newest date first. Records
// sharing a date keep insertion order.
func (s *Store) Fetch(_ context.Context, kind core.Kind, sheet string) ([]core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.Record
	for _, r := range s.records[kind] {
		if r.Sheet == sheet {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date.Time)
	})
	return out, nil
}

func (s *Store) Add(_ context.Context, kind core.Kind, r core.Record) (string, error) {
	if err := kind.Validate(); err != nil {
		return "", err
	}
	r.EnsureID()
	if err := r.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[kind] = append(s.records[kind], r)
	return r.ID, nil
}

func (s *Store) Update(_ context.Context, kind core.Kind, ref string, fields core.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.records[kind]
	for i := range items {
		if items[i].ID != ref {
			continue
		}
		// Identity and owning sheet stay as they are.
		items[i].Date = fields.Date
		items[i].Name = fields.Name
		items[i].Category = fields.Category
		items[i].Amount = fields.Amount
		return nil
	}
	return store.ErrRecordNotFound
}

func (s *Store) Delete(_ context.Context, kind core.Kind, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.records[kind]
	for i := range items {
		if items[i].ID == ref {
			s.records[kind] = append(items[:i:i], items[i+1:]...)
			return nil
		}
	}
	return store.ErrRecordNotFound
}

func (s *Store) DeleteAll(_ context.Context, kind core.Kind, sheet string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.records[kind][:0]
	for _, r := range s.records[kind] {
		if r.Sheet != sheet {
			kept = append(kept, r)
		}
	}
	s.records[kind] = kept
	return nil
}

func (s *Store) List(_ context.Context) ([]core.Sheet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := append([]core.Sheet(nil), s.sheets...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) EnsureDefault(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.find(core.DefaultSheet) >= 0 {
		return nil
	}
	s.sheets = append(s.sheets, core.Sheet{Name: core.DefaultSheet, CreatedAt: time.Now()})
	return nil
}

func (s *Store) Create(_ context.Context, name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.find(trimmed) >= 0 {
		return store.ErrSheetExists
	}
	s.sheets = append(s.sheets, core.Sheet{Name: trimmed, CreatedAt: time.Now()})
	return nil
}

func (s *Store) DeleteSheet(ctx context.Context, name string) error {
	if name == core.DefaultSheet {
		return store.ErrCannotDeleteDefault
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.find(name)
	if i < 0 {
		return nil
	}
	for _, kind := range []core.Kind{core.Expense, core.Income} {
		kept := s.records[kind][:0]
		for _, r := range s.records[kind] {
			if r.Sheet != name {
				kept = append(kept, r)
			}
		}
		s.records[kind] = kept
	}
	s.sheets = append(s.sheets[:i:i], s.sheets[i+1:]...)
	return nil
}

// find returns the sheet index by name, or -1. Caller holds the lock.
func (s *Store) find(name string) int {
	for i, sh := range s.sheets {
		if sh.Name == name {
			return i
		}
	}
	return -1
}
