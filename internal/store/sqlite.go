package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.

	"rrg/internal/domain"
)

// Compile-time interface check.
var _ WatchlistStore = (*SQLiteStore)(nil)

// SQLiteStore implements WatchlistStore backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath, runs the
// schema migration, and returns a ready-to-use SQLiteStore.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	const schema = `
CREATE TABLE IF NOT EXISTS watchlist_entries (
	name     TEXT    NOT NULL,
	position INTEGER NOT NULL,
	symbol   TEXT    NOT NULL,
	label    TEXT    NOT NULL DEFAULT '',
	PRIMARY KEY (name, position)
);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveWatchlist stores the entries under name, replacing any existing
// watchlist with that name. The write is transactional.
func (s *SQLiteStore) SaveWatchlist(ctx context.Context, name string, entries []domain.WatchlistEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM watchlist_entries WHERE name = ?`, name); err != nil {
		return fmt.Errorf("clearing watchlist %q: %w", name, err)
	}

	for i, e := range entries {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO watchlist_entries (name, position, symbol, label) VALUES (?, ?, ?, ?)`,
			name, i, e.Symbol, e.Name,
		)
		if err != nil {
			return fmt.Errorf("inserting %s into %q: %w", e.Symbol, name, err)
		}
	}

	return tx.Commit()
}

// GetWatchlist returns the entries of the named watchlist in saved order.
// An unknown name yields an empty slice, not an error.
func (s *SQLiteStore) GetWatchlist(ctx context.Context, name string) ([]domain.WatchlistEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT symbol, label FROM watchlist_entries WHERE name = ? ORDER BY position`, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.WatchlistEntry
	for rows.Next() {
		var e domain.WatchlistEntry
		if err := rows.Scan(&e.Symbol, &e.Name); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ListWatchlists returns the names of all stored watchlists.
func (s *SQLiteStore) ListWatchlists(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT name FROM watchlist_entries ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// DeleteWatchlist removes the named watchlist.
func (s *SQLiteStore) DeleteWatchlist(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM watchlist_entries WHERE name = ?`, name)
	return err
}
