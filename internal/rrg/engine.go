package rrg

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"rrg/internal/config"
	"rrg/internal/domain"
	"rrg/internal/loader"
)

// ErrInsufficientData reports a benchmark series too short for the
// configured window, period, and tail count. It is fatal for the whole
// plot.
var ErrInsufficientData = errors.New("benchmark data is insufficient to plot chart")

// Engine orchestrates loading, normalization, metric computation, and scene
// assembly for a watchlist against a benchmark.
type Engine struct {
	loader    loader.Loader
	benchmark string
	window    int
	period    int
	tailCount int
	baseDate  time.Time
	hasBase   bool
	smoother  Smoother
	log       *slog.Logger
}

// Option customizes an Engine.
type Option func(*Engine)

// WithSmoother sets the tail-path smoother. The default is SplineSmoother;
// pass IdentitySmoother for raw tails.
func WithSmoother(s Smoother) Option {
	return func(e *Engine) { e.smoother = s }
}

// WithLogger sets the engine logger.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// NewEngine creates an Engine from the configuration. benchmark, when
// non-empty, overrides the configured benchmark; having neither is an
// error. tailCount is clamped to a minimum of 2.
func NewEngine(cfg *config.Config, l loader.Loader, benchmark string, tailCount int, opts ...Option) (*Engine, error) {
	if benchmark == "" {
		benchmark = cfg.Benchmark
	}
	if benchmark == "" {
		return nil, errors.New("no benchmark index set: use -b or set `benchmark` in config")
	}
	if tailCount < 2 {
		tailCount = 2
	}

	baseDate, hasBase := cfg.BaseDateTime()
	e := &Engine{
		loader:    l,
		benchmark: strings.ToUpper(benchmark),
		window:    cfg.Window,
		period:    cfg.Period,
		tailCount: tailCount,
		baseDate:  baseDate,
		hasBase:   hasBase,
		smoother:  SplineSmoother{},
		log:       slog.Default().With("component", "engine"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Benchmark returns the resolved benchmark symbol.
func (e *Engine) Benchmark() string { return e.benchmark }

// TailCount returns the clamped tail length.
func (e *Engine) TailCount() int { return e.tailCount }

// MinimumDataLength is the observation count the benchmark (and ideally
// every ticker) must provide: two windows for the nested rolling averages,
// the larger of window and period for the momentum base, plus the tail.
func (e *Engine) MinimumDataLength() int {
	return e.window*2 + max(e.window, e.period) + e.tailCount
}

// BuildScene loads every watchlist ticker, computes its ratio/momentum
// tail, and assembles the renderable scene. Benchmark problems are fatal;
// per-ticker problems skip the ticker with a warning and keep going.
func (e *Engine) BuildScene(ctx context.Context, watchlist []domain.WatchlistEntry) (*Scene, error) {
	bm, err := e.loader.Get(ctx, e.benchmark)
	if err != nil {
		return nil, fmt.Errorf("loading benchmark %s: %w", e.benchmark, err)
	}
	if bm.Len() == 0 {
		return nil, fmt.Errorf("unable to load benchmark data for %s", e.benchmark)
	}
	if bm.Len() < e.MinimumDataLength() {
		return nil, fmt.Errorf("%w: have %d observations, need %d",
			ErrInsufficientData, bm.Len(), e.MinimumDataLength())
	}

	bmCloses := Normalize(bm)

	scene := &Scene{
		Benchmark: e.benchmark,
		AsOf:      bmCloses.Last().Date,
		Bounds:    Bounds{XMin: 200, YMin: 200, XMax: 0, YMax: 0},
	}
	scene.Title = fmt.Sprintf("RRG - %s - %s", e.benchmark, scene.AsOf.Format("02 Jan 2006"))

	for i, entry := range watchlist {
		ser, err := e.loader.Get(ctx, entry.Symbol)
		if err != nil {
			e.log.Warn("skipping ticker: load failed", "symbol", entry.Symbol, "error", err)
			continue
		}
		if ser.Len() == 0 {
			e.log.Info("skipping ticker: no data", "symbol", entry.Symbol)
			continue
		}

		rsr := RSRatio(Normalize(ser), bmCloses, e.window)
		rsm, err := RSMomentum(rsr, e.window, e.period, e.baseDate, e.hasBase)
		if err != nil {
			e.log.Warn("skipping ticker: momentum base", "symbol", entry.Symbol, "error", err)
			continue
		}

		if min(rsr.Len(), rsm.Len()) < e.tailCount {
			e.log.Warn("skipping ticker: insufficient data", "symbol", entry.Symbol,
				"ratio", rsr.Len(), "momentum", rsm.Len(), "need", e.tailCount)
			continue
		}

		scene.Entries = append(scene.Entries, e.buildEntry(i, entry, rsr, rsm))
	}

	e.padBounds(scene)

	e.log.Info("scene built",
		"benchmark", e.benchmark,
		"entries", len(scene.Entries),
		"skipped", len(watchlist)-len(scene.Entries),
	)
	return scene, nil
}

// buildEntry assembles one ticker's scene entry from its ratio and momentum
// tails, extending the scene bounds as a side effect handled by the caller.
func (e *Engine) buildEntry(index int, entry domain.WatchlistEntry, rsr, rsm domain.Series) *SceneEntry {
	ratioTail := rsr.Tail(e.tailCount)
	momTail := rsm.Tail(e.tailCount)

	tail := make([]TailPoint, e.tailCount)
	xs := make([]float64, e.tailCount)
	ys := make([]float64, e.tailCount)
	for i := 0; i < e.tailCount; i++ {
		tail[i] = TailPoint{
			Date:     momTail[i].Date,
			Ratio:    ratioTail[i].Value,
			Momentum: momTail[i].Value,
		}
		xs[i] = ratioTail[i].Value
		ys[i] = momTail[i].Value
	}

	pathX, pathY := xs, ys
	if e.tailCount > 2 {
		pathX, pathY = e.smoother.Smooth(xs, ys)
	}

	head := tail[len(tail)-1]
	return &SceneEntry{
		ID:       fmt.Sprintf("s%d", index),
		Symbol:   entry.Symbol,
		Label:    entry.Label(),
		Quadrant: domain.Classify(head.Ratio, head.Momentum),
		Tail:     tail,
		PathX:    pathX,
		PathY:    pathY,
	}
}

// padBounds computes the tail extent across all entries and applies the
// fixed margin.
func (e *Engine) padBounds(scene *Scene) {
	b := &scene.Bounds
	for _, entry := range scene.Entries {
		for _, p := range entry.Tail {
			if p.Ratio > b.XMax {
				b.XMax = p.Ratio
			}
			if p.Ratio < b.XMin {
				b.XMin = p.Ratio
			}
			if p.Momentum > b.YMax {
				b.YMax = p.Momentum
			}
			if p.Momentum < b.YMin {
				b.YMin = p.Momentum
			}
		}
	}
	b.XMin -= boundsPadding
	b.XMax += boundsPadding
	b.YMin -= boundsPadding
	b.YMax += boundsPadding
}
