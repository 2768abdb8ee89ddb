package report

import (
	"testing"

	"tally/internal/core"
)

func rec(date core.Date, category string, cents int64) core.Record {
	return core.Record{
		Date:     date,
		Name:     "entry",
		Category: category,
		Amount:   core.Money{Cents: cents},
		Sheet:    core.DefaultSheet,
	}
}

func TestMonthKey(t *testing.T) {
	if got := MonthKey(core.NewDate(2024, 1, 5)); got != "2024-01" {
		t.Fatalf("expected 2024-01, got %q", got)
	}
	if got := MonthKey(core.NewDate(2024, 12, 31)); got != "2024-12" {
		t.Fatalf("expected 2024-12, got %q", got)
	}
}

func TestTotal(t *testing.T) {
	if got := Total(nil); got.Cents != 0 {
		t.Fatalf("empty input: expected 0, got %d", got.Cents)
	}
	records := []core.Record{
		rec(core.NewDate(2024, 1, 5), "food", 10000),
		rec(core.NewDate(2024, 2, 1), "food", 5000),
	}
	if got := Total(records); got.Cents != 15000 {
		t.Fatalf("expected 15000, got %d", got.Cents)
	}
}

func TestCashFlow(t *testing.T) {
	income := []core.Record{rec(core.NewDate(2024, 1, 10), "salary", 30000)}
	expenses := []core.Record{
		rec(core.NewDate(2024, 1, 5), "food", 10000),
		rec(core.NewDate(2024, 2, 1), "food", 5000),
	}
	if got := CashFlow(income, expenses); got.Cents != 15000 {
		t.Fatalf("expected 15000, got %d", got.Cents)
	}
	// More spending than earning goes negative.
	if got := CashFlow(nil, expenses); got.Cents != -15000 {
		t.Fatalf("expected -15000, got %d", got.Cents)
	}
}

func TestByCategoryReconcilesWithTotal(t *testing.T) {
	records := []core.Record{
		rec(core.NewDate(2024, 1, 5), "food", 100),
		rec(core.NewDate(2024, 1, 6), "Food", 200), // case-sensitive key
		rec(core.NewDate(2024, 1, 7), "food", 300),
		rec(core.NewDate(2024, 2, 1), "rent", 50000),
	}
	byCat := ByCategory(records)
	if len(byCat) != 3 {
		t.Fatalf("expected 3 category buckets, got %d", len(byCat))
	}
	if byCat["food"].Cents != 400 {
		t.Fatalf("food: expected 400, got %d", byCat["food"].Cents)
	}
	var sum int64
	for _, m := range byCat {
		sum += m.Cents
	}
	if sum != Total(records).Cents {
		t.Fatalf("category sums %d do not reconcile with total %d", sum, Total(records).Cents)
	}
}

func TestByMonthReconcilesWithTotal(t *testing.T) {
	records := []core.Record{
		rec(core.NewDate(2024, 1, 5), "food", 10000),
		rec(core.NewDate(2024, 2, 1), "food", 5000),
	}
	byMonth := ByMonth(records)
	if byMonth["2024-01"].Cents != 10000 || byMonth["2024-02"].Cents != 5000 {
		t.Fatalf("unexpected month buckets: %v", byMonth)
	}
	var sum int64
	for _, m := range byMonth {
		sum += m.Cents
	}
	if sum != Total(records).Cents {
		t.Fatalf("month sums %d do not reconcile with total %d", sum, Total(records).Cents)
	}
	if got := ByMonth(nil); len(got) != 0 {
		t.Fatalf("empty input: expected empty map, got %v", got)
	}
}

func TestFilterByCategoryAndMonth(t *testing.T) {
	records := []core.Record{
		rec(core.NewDate(2024, 2, 9), "food", 300),
		rec(core.NewDate(2024, 1, 5), "food", 100),
		rec(core.NewDate(2024, 1, 6), "rent", 200),
		rec(core.NewDate(2024, 1, 7), "food", 400),
	}

	both := FilterByCategoryAndMonth(records, "food", "2024-01")
	if len(both) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(both))
	}
	// Input order preserved.
	if both[0].Amount.Cents != 100 || both[1].Amount.Cents != 400 {
		t.Fatalf("expected input order, got %v", both)
	}

	catOnly := FilterByCategoryAndMonth(records, "food", "")
	if len(catOnly) != 3 {
		t.Fatalf("empty month must match category only, got %d matches", len(catOnly))
	}

	if got := FilterByCategoryAndMonth(records, "travel", ""); len(got) != 0 {
		t.Fatalf("expected no matches, got %v", got)
	}
}
