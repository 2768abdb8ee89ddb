package memory

import (
	"context"
	"errors"
	"testing"

	"tally/internal/core"
	"tally/internal/store"
)

func add(t *testing.T, s *Store, kind core.Kind, sheet string, date core.Date, name string, cents int64) string {
	t.Helper()
	ref, err := s.Add(context.Background(), kind, core.Record{
		Date:     date,
		Name:     name,
		Category: "misc",
		Amount:   core.Money{Cents: cents},
		Sheet:    sheet,
	})
	if err != nil {
		t.Fatalf("add %s: %v", name, err)
	}
	return ref
}

func TestFetchSortsDateDescending(t *testing.T) {
	ctx := context.Background()
	s := New()
	add(t, s, core.Expense, "default", core.NewDate(2024, 1, 5), "older", 100)
	add(t, s, core.Expense, "default", core.NewDate(2024, 3, 1), "newest", 200)
	add(t, s, core.Expense, "default", core.NewDate(2024, 2, 1), "middle", 300)
	add(t, s, core.Expense, "trip", core.NewDate(2024, 2, 2), "elsewhere", 400)

	got, err := s.Fetch(ctx, core.Expense, "default")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d", len(got))
	}
	if got[0].Name != "newest" || got[1].Name != "middle" || got[2].Name != "older" {
		t.Fatalf("wrong order: %v", got)
	}
}

func TestAddValidates(t *testing.T) {
	s := New()
	_, err := s.Add(context.Background(), core.Expense, core.Record{Sheet: "default"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if _, err := s.Add(context.Background(), "transfer", core.Record{}); !errors.Is(err, core.ErrInvalidKind) {
		t.Fatalf("expected ErrInvalidKind, got %v", err)
	}
}

func TestUpdateKeepsIdentityAndSheet(t *testing.T) {
	ctx := context.Background()
	s := New()
	ref := add(t, s, core.Income, "default", core.NewDate(2024, 1, 10), "pay", 30000)

	err := s.Update(ctx, core.Income, ref, core.Record{
		Date:     core.NewDate(2024, 1, 11),
		Name:     "corrected pay",
		Category: "salary",
		Amount:   core.Money{Cents: 31000},
		Sheet:    "hijack", // must be ignored
	})
	if err != nil {
		t.Fatal(err)
	}

	got, _ := s.Fetch(ctx, core.Income, "default")
	if len(got) != 1 || got[0].ID != ref || got[0].Name != "corrected pay" {
		t.Fatalf("unexpected state after update: %v", got)
	}
	if got[0].Sheet != "default" {
		t.Fatalf("update must not move the record, sheet=%q", got[0].Sheet)
	}

	if err := s.Update(ctx, core.Income, "no-such-ref", got[0]); !errors.Is(err, store.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s := New()
	ref := add(t, s, core.Expense, "default", core.NewDate(2024, 1, 5), "lunch", 100)

	if err := s.Delete(ctx, core.Expense, ref); err != nil {
		t.Fatal(err)
	}
	got, _ := s.Fetch(ctx, core.Expense, "default")
	if len(got) != 0 {
		t.Fatalf("expected empty sheet, got %v", got)
	}
	if err := s.Delete(ctx, core.Expense, ref); !errors.Is(err, store.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestSheetLifecycle(t *testing.T) {
	ctx := context.Background()
	s := New()

	if err := s.EnsureDefault(ctx); err != nil {
		t.Fatal(err)
	}
	if err := s.EnsureDefault(ctx); err != nil {
		t.Fatal("EnsureDefault must be idempotent:", err)
	}

	if err := s.Create(ctx, "  trip  "); err != nil {
		t.Fatal(err)
	}
	if err := s.Create(ctx, "trip"); !errors.Is(err, store.ErrSheetExists) {
		t.Fatalf("expected ErrSheetExists, got %v", err)
	}
	// Blank names are silently ignored.
	if err := s.Create(ctx, "   "); err != nil {
		t.Fatalf("blank name must be a no-op, got %v", err)
	}

	sheets, _ := s.List(ctx)
	if len(sheets) != 2 || sheets[0].Name != "default" || sheets[1].Name != "trip" {
		t.Fatalf("unexpected sheets: %v", sheets)
	}
}

func TestDeleteSheetCascades(t *testing.T) {
	ctx := context.Background()
	s := New()
	_ = s.EnsureDefault(ctx)
	_ = s.Create(ctx, "trip")
	add(t, s, core.Expense, "trip", core.NewDate(2024, 1, 5), "hotel", 20000)
	add(t, s, core.Income, "trip", core.NewDate(2024, 1, 6), "refund", 5000)
	add(t, s, core.Expense, "default", core.NewDate(2024, 1, 7), "lunch", 100)

	if err := s.DeleteSheet(ctx, "trip"); err != nil {
		t.Fatal(err)
	}
	for _, kind := range []core.Kind{core.Expense, core.Income} {
		if got, _ := s.Fetch(ctx, kind, "trip"); len(got) != 0 {
			t.Fatalf("%s records must cascade, got %v", kind, got)
		}
	}
	if got, _ := s.Fetch(ctx, core.Expense, "default"); len(got) != 1 {
		t.Fatalf("other sheets must be untouched, got %v", got)
	}

	if err := s.DeleteSheet(ctx, "default"); !errors.Is(err, store.ErrCannotDeleteDefault) {
		t.Fatalf("expected ErrCannotDeleteDefault, got %v", err)
	}
}
