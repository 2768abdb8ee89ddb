package core

import (
	"testing"
	"time"
)

func TestParseKind(t *testing.T) {
	cases := []struct {
		in   string
		want Kind
		ok   bool
	}{
		{"expense", Expense, true},
		{"EXPENSE", Expense, true},
		{" Income ", Income, true},
		{"transfer", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseKind(tc.in)
		if tc.ok {
			if err != nil || got != tc.want {
				t.Fatalf("%q: expected %q, got %q (err=%v)", tc.in, tc.want, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q: expected error", tc.in)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-05")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if d.Year() != 2024 || d.Month() != time.January || d.Day() != 5 {
		t.Fatalf("unexpected date %v", d)
	}
	if d.Location() != time.UTC {
		t.Fatalf("expected UTC, got %v", d.Location())
	}
	if s := d.String(); s != "2024-01-05" {
		t.Fatalf("expected round-trip string, got %q", s)
	}

	if _, err := ParseDate("05/01/2024"); err == nil {
		t.Fatalf("expected error for non-ISO date")
	}
}

func TestDateOfNormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	// 02:30 on the 5th in UTC+5 is still the 4th in UTC.
	d := DateOf(time.Date(2024, 3, 5, 2, 30, 0, 0, loc))
	if d.String() != "2024-03-04" {
		t.Fatalf("expected 2024-03-04, got %s", d)
	}
}

func TestRecordValidate(t *testing.T) {
	good := Record{
		Date:     NewDate(2024, 1, 5),
		Name:     "coffee",
		Category: "food & entertainment",
		Amount:   Money{Cents: 350},
		Sheet:    DefaultSheet,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []struct {
		mutate func(*Record)
		want   error
	}{
		{func(r *Record) { r.Date = Date{} }, ErrInvalidDate},
		{func(r *Record) { r.Amount = Money{} }, ErrInvalidAmount},
		{func(r *Record) { r.Sheet = "" }, ErrEmptySheet},
	}
	for i, tc := range bads {
		r := good
		tc.mutate(&r)
		if err := r.Validate(); err != tc.want {
			t.Fatalf("case %d: expected %v, got %v", i, tc.want, err)
		}
	}

	// Blank name and category are storable; only the entry form forbids them.
	r := good
	r.Name = ""
	r.Category = "  "
	if err := r.Validate(); err != nil {
		t.Fatalf("blank name/category must validate, got %v", err)
	}
}

func TestEnsureID(t *testing.T) {
	var r Record
	r.EnsureID()
	if r.ID == "" {
		t.Fatal("expected an ID to be assigned")
	}
	id := r.ID
	r.EnsureID()
	if r.ID != id {
		t.Fatal("EnsureID must not replace an existing ID")
	}
}

func TestDefaultCategoriesDistinctPerKind(t *testing.T) {
	exp := DefaultCategories(Expense)
	inc := DefaultCategories(Income)
	if len(exp) == 0 || len(inc) == 0 {
		t.Fatal("seed vocabularies must not be empty")
	}
	if exp[0] == inc[0] {
		t.Fatalf("expected distinct vocabularies, both start with %q", exp[0])
	}
}
