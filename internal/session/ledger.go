package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tally/internal/core"
	"tally/internal/report"
	"tally/internal/store"
)

// PageSize is the fixed number of records shown per page.
const PageSize = 15

// Ledger is the view state of one kind within the active sheet: the loaded
// records, their total, the pagination cursor, the category vocabulary, and
// the entry form. Every mutation ends in a full reload; derived state is
// recomputed from the store, never patched.
type Ledger struct {
	kind  core.Kind
	store store.RecordStore

	records []core.Record
	total   core.Money
	page    int

	// Form state
	FormDate   core.Date
	FormName   string
	FormAmount string
	Picker     *CategoryPicker
	editing    string

	set *CategorySet
}

func newLedger(kind core.Kind, recordStore store.RecordStore) *Ledger {
	set := NewCategorySet(core.DefaultCategories(kind))
	l := &Ledger{
		kind:   kind,
		store:  recordStore,
		page:   1,
		set:    set,
		Picker: NewCategoryPicker(set),
	}
	l.resetForm()
	return l
}

// Load replaces the ledger's records with the sheet's current contents
// (store order: date descending), recomputes the total, and resets
// pagination to the first page.
func (l *Ledger) Load(ctx context.Context, sheet string) error {
	records, err := l.store.Fetch(ctx, l.kind, sheet)
	if err != nil {
		return fmt.Errorf("load %s records: %w", l.kind, err)
	}
	l.records = records
	l.total = report.Total(records)
	l.page = 1
	return nil
}

// Save validates the form and persists it: an update when editing, an add
// otherwise, followed by a reload. An invalid form (unparsable or
// non-positive amount, blank name or category) is a silent no-op that
// leaves the form as the user typed it.
func (l *Ledger) Save(ctx context.Context, sheet string) error {
	amount, err := core.ParseMoney(l.FormAmount)
	if err != nil {
		return nil
	}
	if strings.TrimSpace(l.FormName) == "" || strings.TrimSpace(l.Picker.Selected()) == "" {
		return nil
	}

	fields := core.Record{
		Date:     l.FormDate,
		Name:     l.FormName,
		Category: l.Picker.Selected(),
		Amount:   amount,
		Sheet:    sheet,
	}

	if l.editing != "" {
		if err := l.store.Update(ctx, l.kind, l.editing, fields); err != nil {
			return fmt.Errorf("update %s record: %w", l.kind, err)
		}
	} else {
		if _, err := l.store.Add(ctx, l.kind, fields); err != nil {
			return fmt.Errorf("add %s record: %w", l.kind, err)
		}
	}

	l.resetForm()
	return l.Load(ctx, sheet)
}

// Delete removes one record and reloads.
func (l *Ledger) Delete(ctx context.Context, sheet, ref string) error {
	if err := l.store.Delete(ctx, l.kind, ref); err != nil {
		return fmt.Errorf("delete %s record: %w", l.kind, err)
	}
	return l.Load(ctx, sheet)
}

// StartEditing fills the form from an existing record; the next Save
// updates it in place.
func (l *Ledger) StartEditing(r core.Record) {
	l.editing = r.ID
	l.FormDate = r.Date
	l.FormName = r.Name
	l.FormAmount = r.Amount.String()
	l.Picker.Select(r.Category)
}

// CancelEditing discards the edit target and clears the form.
func (l *Ledger) CancelEditing() {
	l.resetForm()
}

// Editing reports whether a record is being edited.
func (l *Ledger) Editing() bool {
	return l.editing != ""
}

func (l *Ledger) resetForm() {
	l.editing = ""
	l.FormDate = core.DateOf(time.Now())
	l.FormName = ""
	l.FormAmount = ""
	l.Picker.Select(l.set.First())
}

func (l *Ledger) Kind() core.Kind {
	return l.kind
}

// Records returns all loaded records, newest first.
func (l *Ledger) Records() []core.Record {
	return l.records
}

func (l *Ledger) Total() core.Money {
	return l.total
}

// Categories returns the kind's vocabulary in insertion order.
func (l *Ledger) Categories() []string {
	return l.set.Items()
}

// Page is the 1-indexed current page.
func (l *Ledger) Page() int {
	return l.page
}

// TotalPages is never below one, even for an empty ledger.
func (l *Ledger) TotalPages() int {
	pages := (len(l.records) + PageSize - 1) / PageSize
	if pages < 1 {
		return 1
	}
	return pages
}

// PageRecords returns the current page's slice of records.
func (l *Ledger) PageRecords() []core.Record {
	start := (l.page - 1) * PageSize
	if start >= len(l.records) {
		return nil
	}
	end := start + PageSize
	if end > len(l.records) {
		end = len(l.records)
	}
	return l.records[start:end]
}

// PageLabel describes the visible range, e.g. "Showing 16–30 of 37".
func (l *Ledger) PageLabel() string {
	if len(l.records) == 0 {
		return "No entries"
	}
	start := (l.page-1)*PageSize + 1
	end := l.page * PageSize
	if end > len(l.records) {
		end = len(l.records)
	}
	return fmt.Sprintf("Showing %d–%d of %d", start, end, len(l.records))
}

// SetPage jumps to a page, clamped to the valid range.
func (l *Ledger) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	if max := l.TotalPages(); page > max {
		page = max
	}
	l.page = page
}

// NextPage advances one page, clamped at the last page.
func (l *Ledger) NextPage() {
	if l.page < l.TotalPages() {
		l.page++
	}
}

// PrevPage goes back one page, clamped at the first page.
func (l *Ledger) PrevPage() {
	if l.page > 1 {
		l.page--
	}
}
