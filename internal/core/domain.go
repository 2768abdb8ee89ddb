package core

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// Expense and Income are the two record kinds. They share one shape and
	// are distinguished only by this tag.
	Expense Kind = "expense"
	Income  Kind = "income"

	// DefaultSheet always exists and can never be deleted.
	DefaultSheet = "default"

	dateLayout = "2006-01-02"
)

type (
	Kind string

	// Date is a calendar date pinned to UTC midnight. Month bucketing, CSV
	// formatting and parsing all read the UTC calendar, so a record cannot
	// drift into a neighbouring month across export and re-import.
	Date struct {
		time.Time
	}

	// Record is a single dated entry in a sheet's ledger.
	Record struct {
		ID       string
		Date     Date
		Name     string
		Category string
		Amount   Money
		Sheet    string
	}

	// Sheet is a named, independent ledger of records.
	Sheet struct {
		Name      string
		CreatedAt time.Time
	}
)

var (
	ErrInvalidKind   = errors.New("invalid record kind")
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptySheet    = errors.New("empty sheet name")
)

// ParseKind matches a kind tag case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case Expense:
		return Expense, nil
	case Income:
		return Income, nil
	}
	return "", ErrInvalidKind
}

func (k Kind) Validate() error {
	if k != Expense && k != Income {
		return ErrInvalidKind
	}
	return nil
}

// NewDate creates a Date at UTC midnight.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an arbitrary instant to its UTC calendar date.
func DateOf(t time.Time) Date {
	u := t.UTC()
	return NewDate(u.Year(), int(u.Month()), u.Day())
}

// ParseDate parses a date-only ISO-8601 string (YYYY-MM-DD) as UTC.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// String formats the date as YYYY-MM-DD, the form used on the CSV wire.
func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// EnsureID assigns a fresh UUID if the record has none yet.
func (r *Record) EnsureID() {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
}

// Validate checks the fields every record must carry to be storable. Blank
// names and categories are storable on purpose: only the entry form requires
// them, and CSV import inserts such rows verbatim.
func (r Record) Validate() error {
	if err := r.Date.Validate(); err != nil {
		return err
	}
	if err := r.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(r.Sheet) == "" {
		return ErrEmptySheet
	}
	return nil
}
