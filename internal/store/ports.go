// Package store defines the persistence ports the session layer talks to.
package store

import (
	"context"
	"errors"

	"tally/internal/core"
)

var (
	// ErrSheetExists is returned when creating a sheet whose trimmed name
	// is already taken.
	ErrSheetExists = errors.New("a sheet with this name already exists")

	// ErrCannotDeleteDefault guards the permanent "default" sheet.
	ErrCannotDeleteDefault = errors.New("the default sheet cannot be deleted")

	// ErrRecordNotFound is returned by Update and Delete for unknown refs.
	ErrRecordNotFound = errors.New("record not found")
)

type (
	// RecordStore owns the records of every sheet, partitioned by kind.
	RecordStore interface {
		// Fetch returns a sheet's records of one kind, sorted descending
		// by date.
		Fetch(ctx context.Context, kind core.Kind, sheet string) ([]core.Record, error)

		// Add persists a new record and returns its reference. The record's
		// ID is assigned when empty.
		Add(ctx context.Context, kind core.Kind, r core.Record) (string, error)

		// Update replaces the fields of the record with the given reference.
		// Identity and owning sheet are not replaceable.
		Update(ctx context.Context, kind core.Kind, ref string, fields core.Record) error

		// Delete removes a single record.
		Delete(ctx context.Context, kind core.Kind, ref string) error

		// DeleteAll removes every record of one kind in a sheet.
		DeleteAll(ctx context.Context, kind core.Kind, sheet string) error
	}

	// SheetRegistry owns sheet lifecycle. Deleting a sheet cascades to its
	// records; the "default" sheet is permanent.
	SheetRegistry interface {
		// List returns all sheets sorted by creation time ascending.
		List(ctx context.Context) ([]core.Sheet, error)

		// EnsureDefault idempotently creates the "default" sheet.
		EnsureDefault(ctx context.Context) error

		// Create adds a sheet under the trimmed name. Blank names are a
		// silent no-op; duplicates return ErrSheetExists.
		Create(ctx context.Context, name string) error

		// DeleteSheet removes a sheet and all its records, of both kinds.
		// Deleting "default" returns ErrCannotDeleteDefault.
		DeleteSheet(ctx context.Context, name string) error
	}
)
