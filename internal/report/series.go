package report

import (
	"sort"

	"tally/internal/core"
)

// CategoryTotal is one row of a category breakdown.
type CategoryTotal struct {
	Category string
	Amount   core.Money
}

// MonthAxis returns the union of month keys present in either kind, sorted
// ascending. Lexicographic order is calendar order because keys are
// zero-padded.
func MonthAxis(expenses, income []core.Record) []string {
	seen := make(map[string]struct{})
	for _, r := range expenses {
		seen[MonthKey(r.Date)] = struct{}{}
	}
	for _, r := range income {
		seen[MonthKey(r.Date)] = struct{}{}
	}
	axis := make([]string, 0, len(seen))
	for key := range seen {
		axis = append(axis, key)
	}
	sort.Strings(axis)
	return axis
}

// AlignedTotals projects a month map onto an axis, one entry per axis month,
// zero where the map has no activity.
func AlignedTotals(axis []string, byMonth map[string]core.Money) []core.Money {
	out := make([]core.Money, len(axis))
	for i, month := range axis {
		out[i] = byMonth[month]
	}
	return out
}

// CategoryBreakdown returns per-category totals sorted by amount descending.
// Ties keep the first-seen order of the category in the input slice (stable
// sort), so the result is deterministic for any input.
func CategoryBreakdown(records []core.Record) []CategoryTotal {
	totals := make(map[string]core.Money, len(records))
	var order []string
	for _, r := range records {
		if _, ok := totals[r.Category]; !ok {
			order = append(order, r.Category)
		}
		totals[r.Category] = totals[r.Category].Add(r.Amount)
	}
	out := make([]CategoryTotal, 0, len(order))
	for _, cat := range order {
		out = append(out, CategoryTotal{Category: cat, Amount: totals[cat]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.Cents > out[j].Amount.Cents
	})
	return out
}

// CategorySeries is the per-month totals of one category, aligned to the
// axis. Months without activity in that category carry zero, so the series
// shows real trend variation rather than a flattened average.
func CategorySeries(category string, records []core.Record, axis []string) []core.Money {
	return AlignedTotals(axis, ByMonth(FilterByCategoryAndMonth(records, category, "")))
}
