// Package loader supplies date-indexed close-price series to the rotation
// engine. Loaders signal an absent or insufficient symbol with an empty
// series, not an error; errors are reserved for real I/O failures.
package loader

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"rrg/internal/domain"
	"rrg/internal/store"
)

// Loader fetches the close-price series for one ticker.
type Loader interface {
	// Get returns the close series for symbol, oldest first. A missing
	// symbol yields an empty series and a nil error.
	Get(ctx context.Context, symbol string) (domain.Series, error)
}

// ---------------------------------------------------------------------------
// StoreLoader
// ---------------------------------------------------------------------------

// Compile-time interface check.
var _ Loader = (*StoreLoader)(nil)

// StoreLoader reads daily bars from a BarStore over a fixed lookback window.
type StoreLoader struct {
	store    store.BarStore
	lookback time.Duration
	now      func() time.Time
	log      *slog.Logger
}

// NewStoreLoader creates a StoreLoader that reads the last minObservations
// trading days from the store. The calendar lookback is padded for weekends
// and holidays.
func NewStoreLoader(s store.BarStore, minObservations int) *StoreLoader {
	// ~252 trading days per 365 calendar days, plus slack.
	days := minObservations*2 + 30
	return &StoreLoader{
		store:    s,
		lookback: time.Duration(days) * 24 * time.Hour,
		now:      time.Now,
		log:      slog.Default().With("loader", "store"),
	}
}

// Get reads the cached daily bars for symbol and returns their close series.
func (l *StoreLoader) Get(ctx context.Context, symbol string) (domain.Series, error) {
	end := l.now().UTC()
	start := end.Add(-l.lookback)

	bars, err := l.store.ReadBars(ctx, symbol, start, end)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		l.log.Debug("no cached bars", "symbol", symbol)
		return nil, nil
	}
	return domain.CloseSeries(bars), nil
}

// ---------------------------------------------------------------------------
// ChainLoader
// ---------------------------------------------------------------------------

// Compile-time interface check.
var _ Loader = (*ChainLoader)(nil)

// ChainLoader tries a primary loader and falls back to a secondary one when
// the primary result is shorter than minLen observations.
type ChainLoader struct {
	primary  Loader
	fallback Loader
	minLen   int
	log      *slog.Logger
}

// NewChainLoader creates a ChainLoader. fallback may be nil, in which case
// the primary result is returned as-is.
func NewChainLoader(primary, fallback Loader, minLen int) *ChainLoader {
	return &ChainLoader{
		primary:  primary,
		fallback: fallback,
		minLen:   minLen,
		log:      slog.Default().With("loader", "chain"),
	}
}

// Get returns the primary series when it is long enough, otherwise the
// fallback's.
func (l *ChainLoader) Get(ctx context.Context, symbol string) (domain.Series, error) {
	ser, err := l.primary.Get(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if ser.Len() >= l.minLen || l.fallback == nil {
		return ser, nil
	}

	l.log.Info("primary series too short, falling back",
		"symbol", symbol, "have", ser.Len(), "want", l.minLen)
	return l.fallback.Get(ctx, symbol)
}

// ---------------------------------------------------------------------------
// Prefetch
// ---------------------------------------------------------------------------

// Prefetch loads the series for all symbols concurrently and returns them
// keyed by symbol. Individual loader errors fail the whole prefetch; absent
// symbols simply map to empty series.
func Prefetch(ctx context.Context, l Loader, symbols []string, workers int) (map[string]domain.Series, error) {
	if workers < 1 {
		workers = 1
	}

	var mu sync.Mutex
	result := make(map[string]domain.Series, len(symbols))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, symbol := range symbols {
		g.Go(func() error {
			ser, err := l.Get(ctx, symbol)
			if err != nil {
				return err
			}
			mu.Lock()
			result[symbol] = ser
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// ---------------------------------------------------------------------------
// cachedLoader
// ---------------------------------------------------------------------------

// Compile-time interface check.
var _ Loader = (*cachedLoader)(nil)

type cachedLoader struct {
	inner Loader
	mu    sync.Mutex
	seen  map[string]domain.Series
}

// WithCache wraps a loader with per-symbol memoization so repeated Get calls
// within a session hit the backend once.
func WithCache(inner Loader) Loader {
	return &cachedLoader{inner: inner, seen: make(map[string]domain.Series)}
}

func (l *cachedLoader) Get(ctx context.Context, symbol string) (domain.Series, error) {
	l.mu.Lock()
	if ser, ok := l.seen[symbol]; ok {
		l.mu.Unlock()
		return ser, nil
	}
	l.mu.Unlock()

	ser, err := l.inner.Get(ctx, symbol)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.seen[symbol] = ser
	l.mu.Unlock()
	return ser, nil
}
