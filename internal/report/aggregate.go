// Package report computes derived aggregates over record collections: totals,
// category and month breakdowns, and chart-ready month-aligned series.
//
// Every function here is pure and total: empty input yields zero values or
// empty collections, never an error.
package report

import (
	"tally/internal/core"
)

// MonthKey formats a date's UTC year and month as a zero-padded "YYYY-MM"
// string. Keys sort lexicographically in calendar order.
func MonthKey(d core.Date) string {
	return d.Format("2006-01")
}

// Total sums the amounts of a one-kind record slice.
func Total(records []core.Record) core.Money {
	var sum core.Money
	for _, r := range records {
		sum = sum.Add(r.Amount)
	}
	return sum
}

// CashFlow is total income minus total expenses. Negative when spending
// exceeds earnings.
func CashFlow(income, expenses []core.Record) core.Money {
	return Total(income).Sub(Total(expenses))
}

// ByCategory groups amounts by the raw category string (case-sensitive, no
// trimming). Map iteration order is unspecified; callers sort for display.
func ByCategory(records []core.Record) map[string]core.Money {
	out := make(map[string]core.Money, len(records))
	for _, r := range records {
		out[r.Category] = out[r.Category].Add(r.Amount)
	}
	return out
}

// ByMonth groups amounts by MonthKey.
func ByMonth(records []core.Record) map[string]core.Money {
	out := make(map[string]core.Money, len(records))
	for _, r := range records {
		key := MonthKey(r.Date)
		out[key] = out[key].Add(r.Amount)
	}
	return out
}

// FilterByCategoryAndMonth returns the records matching the category exactly
// and, when month is non-empty, the "YYYY-MM" month key too. Input order is
// preserved.
func FilterByCategoryAndMonth(records []core.Record, category, month string) []core.Record {
	var out []core.Record
	for _, r := range records {
		if r.Category != category {
			continue
		}
		if month != "" && MonthKey(r.Date) != month {
			continue
		}
		out = append(out, r)
	}
	return out
}
