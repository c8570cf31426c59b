// Package store persists market data and watchlists: daily bars in Parquet
// files, named watchlists in SQLite.
package store

import (
	"context"
	"time"

	"rrg/internal/domain"
)

// BarStore persists and retrieves daily OHLCV bar data.
type BarStore interface {
	// WriteBars persists a batch of bars, merging with existing data.
	WriteBars(ctx context.Context, bars []domain.Bar) error

	// ReadBars returns bars for the given symbol within [start, end],
	// sorted by timestamp.
	ReadBars(ctx context.Context, symbol string, start, end time.Time) ([]domain.Bar, error)

	// ListSymbols returns all distinct symbols with cached bars.
	ListSymbols(ctx context.Context) ([]string, error)
}

// WatchlistStore persists named watchlists.
type WatchlistStore interface {
	// SaveWatchlist stores the entries under name, replacing any existing
	// watchlist with that name.
	SaveWatchlist(ctx context.Context, name string, entries []domain.WatchlistEntry) error

	// GetWatchlist returns the entries of the named watchlist in saved
	// order, or an empty slice when the name is unknown.
	GetWatchlist(ctx context.Context, name string) ([]domain.WatchlistEntry, error)

	// ListWatchlists returns the names of all stored watchlists.
	ListWatchlists(ctx context.Context) ([]string, error)

	// DeleteWatchlist removes the named watchlist.
	DeleteWatchlist(ctx context.Context, name string) error
}
