// Package storage caches analysis results in a local SQLite database so
// repeated runs skip files whose content has not changed.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"jankguard/internal/diag"
)

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates or opens a SQLite cache database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS files (
			path TEXT PRIMARY KEY,
			content_hash TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS diagnostics (
			path TEXT,
			code TEXT,
			severity INTEGER,
			span_start INTEGER,
			span_end INTEGER,
			scope_start INTEGER,
			scope_end INTEGER,
			message TEXT,
			snippet TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_diagnostics_path ON diagnostics(path);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// Lookup returns the cached diagnostics for path when the stored content
// hash matches. The second result is false on a miss (unknown path or
// changed content).
func (s *SQLiteStore) Lookup(ctx context.Context, path, hash string) ([]diag.Diagnostic, bool, error) {
	var stored string
	err := s.db.QueryRowContext(ctx, "SELECT content_hash FROM files WHERE path = ?", path).Scan(&stored)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if stored != hash {
		return nil, false, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT code, severity, span_start, span_end, scope_start, scope_end, message, snippet
		FROM diagnostics WHERE path = ? ORDER BY span_start, code
	`, path)
	if err != nil {
		return nil, false, fmt.Errorf("failed to query diagnostics: %w", err)
	}
	defer rows.Close()

	diags := make([]diag.Diagnostic, 0)
	for rows.Next() {
		var d diag.Diagnostic
		var code string
		var severity uint8
		if err := rows.Scan(&code, &severity, &d.Span.Start, &d.Span.End, &d.Scope.Start, &d.Scope.End, &d.Message, &d.Snippet); err != nil {
			return nil, false, fmt.Errorf("failed to scan diagnostic: %w", err)
		}
		d.Path = path
		d.Code = diag.Code(code)
		d.Severity = diag.Severity(severity)
		diags = append(diags, d)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}
	return diags, true, nil
}

// Save replaces the cached entry for path with the given hash and
// diagnostics.
func (s *SQLiteStore) Save(ctx context.Context, path, hash string, diags []diag.Diagnostic) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO files (path, content_hash) VALUES (?, ?)
		ON CONFLICT(path) DO UPDATE SET content_hash=excluded.content_hash
	`, path, hash); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM diagnostics WHERE path = ?", path); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO diagnostics (path, code, severity, span_start, span_end, scope_start, scope_end, message, snippet)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, d := range diags {
		if _, err := stmt.Exec(path, string(d.Code), uint8(d.Severity),
			d.Span.Start, d.Span.End, d.Scope.Start, d.Scope.End, d.Message, d.Snippet); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Forget drops the cached entry for path, if any.
func (s *SQLiteStore) Forget(ctx context.Context, path string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM files WHERE path = ?", path); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM diagnostics WHERE path = ?", path); err != nil {
		return err
	}
	return tx.Commit()
}
