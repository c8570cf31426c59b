package loader

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"rrg/internal/config"
	"rrg/internal/domain"
	"rrg/internal/store"
	"rrg/internal/util"
)

// Compile-time interface check.
var _ Loader = (*AlpacaLoader)(nil)

// AlpacaLoader fetches daily bars from the Alpaca market-data API and writes
// them back to the local Parquet cache so later sessions are served offline.
type AlpacaLoader struct {
	client    *marketdata.Client
	writeback store.BarStore // nil disables cache write-back
	limiter   *util.RateLimiter
	lookback  time.Duration
	now       func() time.Time
	log       *slog.Logger
}

// NewAlpacaLoader creates an AlpacaLoader from the Alpaca configuration.
// minObservations controls the calendar lookback requested per symbol.
func NewAlpacaLoader(cfg config.Alpaca, writeback store.BarStore, minObservations int) *AlpacaLoader {
	opts := marketdata.ClientOpts{
		APIKey:    cfg.APIKey,
		APISecret: cfg.APISecret,
	}
	if cfg.DataURL != "" {
		opts.BaseURL = cfg.DataURL
	}

	days := minObservations*2 + 30
	return &AlpacaLoader{
		client:    marketdata.NewClient(opts),
		writeback: writeback,
		limiter:   util.NewRateLimiter(cfg.RateLimitPerMin),
		lookback:  time.Duration(days) * 24 * time.Hour,
		now:       time.Now,
		log:       slog.Default().With("loader", "alpaca"),
	}
}

// Get fetches daily bars for symbol, caches them, and returns the close
// series. An empty API response maps to an empty series.
func (l *AlpacaLoader) Get(ctx context.Context, symbol string) (domain.Series, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	end := l.now().UTC()
	start := end.Add(-l.lookback)

	var alpacaBars []marketdata.Bar
	err := util.Retry(ctx, 3, time.Second, func() error {
		var ferr error
		alpacaBars, ferr = l.client.GetBars(symbol, marketdata.GetBarsRequest{
			TimeFrame: marketdata.OneDay,
			Start:     start,
			End:       end,
			Feed:      "sip",
		})
		return ferr
	})
	if err != nil {
		return nil, fmt.Errorf("fetching bars for %s: %w", symbol, err)
	}
	if len(alpacaBars) == 0 {
		l.log.Debug("no bars returned", "symbol", symbol)
		return nil, nil
	}

	bars := convertBars(symbol, alpacaBars)

	if l.writeback != nil {
		if werr := l.writeback.WriteBars(ctx, bars); werr != nil {
			// Cache write-back is best effort; the fetched data still serves
			// this session.
			l.log.Warn("cache write-back failed", "symbol", symbol, "error", werr)
		}
	}

	return domain.CloseSeries(bars), nil
}

func convertBars(symbol string, in []marketdata.Bar) []domain.Bar {
	bars := make([]domain.Bar, len(in))
	for i, ab := range in {
		bars[i] = domain.Bar{
			Symbol:     strings.ToUpper(symbol),
			Timestamp:  ab.Timestamp,
			Open:       ab.Open,
			High:       ab.High,
			Low:        ab.Low,
			Close:      ab.Close,
			Volume:     int64(ab.Volume),
			TradeCount: int64(ab.TradeCount),
			VWAP:       ab.VWAP,
		}
	}
	return bars
}

// RefreshBars fetches daily bars for all symbols in one multi-symbol API
// call per batch and merges them into the store. Used by rrg-data to warm
// the cache ahead of an interactive session.
func RefreshBars(ctx context.Context, cfg config.Alpaca, s store.BarStore, symbols []string, minObservations int, log *slog.Logger) error {
	opts := marketdata.ClientOpts{
		APIKey:    cfg.APIKey,
		APISecret: cfg.APISecret,
	}
	if cfg.DataURL != "" {
		opts.BaseURL = cfg.DataURL
	}
	client := marketdata.NewClient(opts)
	limiter := util.NewRateLimiter(cfg.RateLimitPerMin)

	end := time.Now().UTC()
	start := end.Add(-time.Duration(minObservations*2+30) * 24 * time.Hour)

	const batchSize = 200
	for i := 0; i < len(symbols); i += batchSize {
		batch := symbols[i:min(i+batchSize, len(symbols))]

		if err := limiter.Wait(ctx); err != nil {
			return err
		}

		var multiBars map[string][]marketdata.Bar
		err := util.Retry(ctx, 3, time.Second, func() error {
			var ferr error
			multiBars, ferr = client.GetMultiBars(batch, marketdata.GetBarsRequest{
				TimeFrame: marketdata.OneDay,
				Start:     start,
				End:       end,
				Feed:      "sip",
			})
			return ferr
		})
		if err != nil {
			return fmt.Errorf("GetMultiBars: %w", err)
		}

		var bars []domain.Bar
		for symbol, alpacaBars := range multiBars {
			bars = append(bars, convertBars(symbol, alpacaBars)...)
		}

		if len(bars) > 0 {
			if err := s.WriteBars(ctx, bars); err != nil {
				return fmt.Errorf("writing bars: %w", err)
			}
		}

		log.Info("batch refreshed",
			"symbols", len(batch),
			"bars", len(bars),
			"progress", fmt.Sprintf("%d/%d", min(i+batchSize, len(symbols)), len(symbols)),
		)
	}
	return nil
}
