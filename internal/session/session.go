// Package session is the stateful coordinator between the stores and the
// presentation layer. It owns the active sheet's loaded records, all derived
// aggregates, pagination, category vocabularies and drill-down state, and
// re-synchronizes everything on every mutation or sheet switch.
//
// The model is deliberately synchronous and reload-based: a mutation goes to
// the store, then the affected ledgers are fully reloaded and the chart
// state rebuilt. Nothing derived can go stale because nothing derived is
// ever patched in place.
package session

import (
	"context"
	"log/slog"
	"strings"

	"tally/internal/core"
	"tally/internal/csvio"
	"tally/internal/store"
)

// Session holds one user's working state: the active sheet, a ledger per
// kind, and the chart state.
type Session struct {
	records  store.RecordStore
	registry store.SheetRegistry

	current string
	sheets  []core.Sheet

	Expenses *Ledger
	Income   *Ledger
	Charts   *ChartState

	// ErrorMessage carries the latest user-facing failure, if any.
	ErrorMessage string
}

func New(records store.RecordStore, registry store.SheetRegistry) *Session {
	return &Session{
		records:  records,
		registry: registry,
		current:  core.DefaultSheet,
		Expenses: newLedger(core.Expense, records),
		Income:   newLedger(core.Income, records),
		Charts:   NewChartState(),
	}
}

// Start ensures the default sheet exists and loads it.
func (s *Session) Start(ctx context.Context) error {
	if err := s.registry.EnsureDefault(ctx); err != nil {
		return s.fail(err)
	}
	if err := s.refreshSheets(ctx); err != nil {
		return s.fail(err)
	}
	s.current = core.DefaultSheet
	return s.reload(ctx)
}

// CurrentSheet returns the active sheet name.
func (s *Session) CurrentSheet() string {
	return s.current
}

// SheetNames lists known sheets in creation order.
func (s *Session) SheetNames() []string {
	names := make([]string, len(s.sheets))
	for i, sh := range s.sheets {
		names[i] = sh.Name
	}
	return names
}

// Ledger returns the ledger of one kind.
func (s *Session) Ledger(kind core.Kind) *Ledger {
	if kind == core.Income {
		return s.Income
	}
	return s.Expenses
}

// CashFlow is total income minus total expenses for the active sheet.
func (s *Session) CashFlow() core.Money {
	return s.Income.Total().Sub(s.Expenses.Total())
}

// Save persists the kind's form (add or update) and resynchronizes.
func (s *Session) Save(ctx context.Context, kind core.Kind) error {
	if err := s.Ledger(kind).Save(ctx, s.current); err != nil {
		return s.fail(err)
	}
	s.recomputeCharts()
	return nil
}

// DeleteRecord removes one record and resynchronizes.
func (s *Session) DeleteRecord(ctx context.Context, kind core.Kind, ref string) error {
	if err := s.Ledger(kind).Delete(ctx, s.current, ref); err != nil {
		return s.fail(err)
	}
	s.recomputeCharts()
	return nil
}

// SwitchSheet makes another sheet active and rebuilds all derived state
// from scratch.
func (s *Session) SwitchSheet(ctx context.Context, name string) error {
	s.current = name
	return s.reload(ctx)
}

// CreateSheet registers a new sheet and switches to it. Blank names are a
// silent no-op; a duplicate surfaces as an error message.
func (s *Session) CreateSheet(ctx context.Context, name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil
	}
	if err := s.registry.Create(ctx, trimmed); err != nil {
		return s.fail(err)
	}
	if err := s.refreshSheets(ctx); err != nil {
		return s.fail(err)
	}
	return s.SwitchSheet(ctx, trimmed)
}

// DeleteSheet removes a sheet and its records. Deleting the active sheet
// falls back to the default one.
func (s *Session) DeleteSheet(ctx context.Context, name string) error {
	if err := s.registry.DeleteSheet(ctx, name); err != nil {
		return s.fail(err)
	}
	if err := s.refreshSheets(ctx); err != nil {
		return s.fail(err)
	}
	if s.current == name {
		s.current = core.DefaultSheet
	}
	return s.reload(ctx)
}

// ExportCSV renders the active sheet's records in the CSV dialect.
func (s *Session) ExportCSV(ctx context.Context) (string, error) {
	expenses, err := s.records.Fetch(ctx, core.Expense, s.current)
	if err != nil {
		return "", s.fail(err)
	}
	income, err := s.records.Fetch(ctx, core.Income, s.current)
	if err != nil {
		return "", s.fail(err)
	}
	return csvio.Export(expenses, income), nil
}

// ImportCSV parses a CSV body and adds every valid row to the active sheet,
// then resynchronizes. Rows the codec or the store reject are skipped
// silently; the returned report carries the counts.
func (s *Session) ImportCSV(ctx context.Context, data string) (csvio.Report, error) {
	rows, rep := csvio.Parse(data)

	added := 0
	for _, row := range rows {
		rec := row.Record
		rec.Sheet = s.current
		if _, err := s.records.Add(ctx, row.Kind, rec); err != nil {
			slog.WarnContext(ctx, "CSV row rejected by store",
				"kind", row.Kind, "sheet", s.current, "error", err)
			rep.Skipped++
			continue
		}
		added++
	}
	rep.Parsed = added

	if err := s.reload(ctx); err != nil {
		return rep, err
	}
	return rep, nil
}

// ClearError resets the surfaced error message.
func (s *Session) ClearError() {
	s.ErrorMessage = ""
}

// reload is the single resynchronization point: both ledgers are replaced
// from the store and the chart state rebuilt.
func (s *Session) reload(ctx context.Context) error {
	if err := s.Expenses.Load(ctx, s.current); err != nil {
		return s.fail(err)
	}
	if err := s.Income.Load(ctx, s.current); err != nil {
		return s.fail(err)
	}
	s.recomputeCharts()
	return nil
}

func (s *Session) recomputeCharts() {
	s.Charts.Recompute(s.Expenses.Records(), s.Income.Records())
}

func (s *Session) refreshSheets(ctx context.Context) error {
	sheets, err := s.registry.List(ctx)
	if err != nil {
		return err
	}
	s.sheets = sheets
	return nil
}

// fail records the failure for the presentation layer and passes it on.
// In-memory state is untouched; the next successful reload is the source
// of truth.
func (s *Session) fail(err error) error {
	s.ErrorMessage = err.Error()
	return err
}
