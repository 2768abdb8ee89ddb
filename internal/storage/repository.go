// Package storage implements the store ports on SQLite.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tally/internal/core"
	"tally/internal/store"

	_ "modernc.org/sqlite"
)

// Repository is the SQLite-backed record store and sheet registry.
type Repository struct {
	db *sql.DB
}

var (
	_ store.RecordStore   = (*Repository)(nil)
	_ store.SheetRegistry = (*Repository)(nil)
)

func Open(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Fetch implements store.RecordStore. Rows come back newest date first;
// records sharing a date keep insertion order via rowid.
func (r *Repository) Fetch(ctx context.Context, kind core.Kind, sheet string) ([]core.Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, date, name, category, amount_cents, sheet_name
		FROM records
		WHERE kind = ? AND sheet_name = ?
		ORDER BY date DESC, rowid ASC`,
		string(kind), sheet)
	if err != nil {
		return nil, fmt.Errorf("fetch %s records: %w", kind, err)
	}
	defer rows.Close()

	var out []core.Record
	for rows.Next() {
		var (
			rec     core.Record
			dateStr string
			cents   int64
		)
		if err := rows.Scan(&rec.ID, &dateStr, &rec.Name, &rec.Category, &cents, &rec.Sheet); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		date, err := core.ParseDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("stored date %q: %w", dateStr, err)
		}
		rec.Date = date
		rec.Amount = core.Money{Cents: cents}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *Repository) Add(ctx context.Context, kind core.Kind, rec core.Record) (string, error) {
	if err := kind.Validate(); err != nil {
		return "", err
	}
	rec.EnsureID()
	if err := rec.Validate(); err != nil {
		return "", err
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO records (id, kind, date, name, category, amount_cents, sheet_name)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, string(kind), rec.Date.String(), rec.Name, rec.Category, rec.Amount.Cents, rec.Sheet)
	if err != nil {
		return "", fmt.Errorf("insert record: %w", err)
	}

	slog.DebugContext(ctx, "Record saved",
		"id", rec.ID,
		"kind", kind,
		"sheet", rec.Sheet,
		"amount_cents", rec.Amount.Cents)

	return rec.ID, nil
}

func (r *Repository) Update(ctx context.Context, kind core.Kind, ref string, fields core.Record) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE records
		SET date = ?, name = ?, category = ?, amount_cents = ?
		WHERE kind = ? AND id = ?`,
		fields.Date.String(), fields.Name, fields.Category, fields.Amount.Cents,
		string(kind), ref)
	if err != nil {
		return fmt.Errorf("update record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update record: %w", err)
	}
	if n == 0 {
		return store.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, kind core.Kind, ref string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM records WHERE kind = ? AND id = ?`, string(kind), ref)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if n == 0 {
		return store.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) DeleteAll(ctx context.Context, kind core.Kind, sheet string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM records WHERE kind = ? AND sheet_name = ?`, string(kind), sheet)
	if err != nil {
		return fmt.Errorf("delete %s records of %q: %w", kind, sheet, err)
	}
	return nil
}

func (r *Repository) List(ctx context.Context) ([]core.Sheet, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name, created_at FROM sheets ORDER BY created_at ASC, rowid ASC`)
	if err != nil {
		return nil, fmt.Errorf("list sheets: %w", err)
	}
	defer rows.Close()

	var out []core.Sheet
	for rows.Next() {
		var (
			sheet core.Sheet
			unix  int64
		)
		if err := rows.Scan(&sheet.Name, &unix); err != nil {
			return nil, fmt.Errorf("scan sheet: %w", err)
		}
		sheet.CreatedAt = time.Unix(unix, 0).UTC()
		out = append(out, sheet)
	}
	return out, rows.Err()
}

func (r *Repository) EnsureDefault(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sheets (name, created_at) VALUES (?, ?)
		ON CONFLICT (name) DO NOTHING`,
		core.DefaultSheet, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("ensure default sheet: %w", err)
	}
	return nil
}

func (r *Repository) Create(ctx context.Context, name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil
	}

	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM sheets WHERE name = ?)`, trimmed).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check sheet exists: %w", err)
	}
	if exists {
		return store.ErrSheetExists
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO sheets (name, created_at) VALUES (?, ?)`,
		trimmed, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("create sheet %q: %w", trimmed, err)
	}

	slog.InfoContext(ctx, "Sheet created", "sheet", trimmed)
	return nil
}

// DeleteSheet removes a sheet and cascades to its records of both kinds
// inside one transaction.
func (r *Repository) DeleteSheet(ctx context.Context, name string) error {
	if name == core.DefaultSheet {
		return store.ErrCannotDeleteDefault
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete sheet: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM records WHERE sheet_name = ?`, name); err != nil {
		return fmt.Errorf("delete sheet records: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM sheets WHERE name = ?`, name); err != nil {
		return fmt.Errorf("delete sheet: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete sheet: %w", err)
	}

	slog.InfoContext(ctx, "Sheet deleted", "sheet", name)
	return nil
}
