// Package domain defines the core data types shared across the rrg
// application: daily bars, date-indexed price series, quadrant
// classification, and watchlist entries.
package domain

import (
	"sort"
	"strings"
	"time"
)

// ---------------------------------------------------------------------------
// Bars and price series
// ---------------------------------------------------------------------------

// Bar is a single daily OHLCV bar for one symbol.
type Bar struct {
	Symbol     string
	Timestamp  time.Time
	Open       float64
	High       float64
	Low        float64
	Close      float64
	Volume     int64
	TradeCount int64
	VWAP       float64
}

// Point is one (date, value) observation of a series.
type Point struct {
	Date  time.Time
	Value float64
}

// Series is a date-indexed sequence of float64 observations. Most operations
// assume unique, ascending dates; Normalize establishes that invariant for
// raw input.
type Series []Point

// Len returns the number of observations.
func (s Series) Len() int { return len(s) }

// Last returns the most recent observation. It panics on an empty series.
func (s Series) Last() Point { return s[len(s)-1] }

// Values returns the observation values in order.
func (s Series) Values() []float64 {
	vals := make([]float64, len(s))
	for i, p := range s {
		vals[i] = p.Value
	}
	return vals
}

// At returns the value at the given date and whether it exists. The series
// must be sorted ascending by date.
func (s Series) At(date time.Time) (float64, bool) {
	i := sort.Search(len(s), func(i int) bool { return !s[i].Date.Before(date) })
	if i < len(s) && s[i].Date.Equal(date) {
		return s[i].Value, true
	}
	return 0, false
}

// Tail returns the last n observations (or the whole series if shorter).
func (s Series) Tail(n int) Series {
	if n >= len(s) {
		return s
	}
	return s[len(s)-n:]
}

// CloseSeries extracts the close prices of the given bars as a Series, in
// bar order.
func CloseSeries(bars []Bar) Series {
	ser := make(Series, len(bars))
	for i, b := range bars {
		ser[i] = Point{Date: b.Timestamp, Value: b.Close}
	}
	return ser
}

// ---------------------------------------------------------------------------
// Quadrants
// ---------------------------------------------------------------------------

// Quadrant identifies one of the four regions of the ratio/momentum plane.
type Quadrant int

const (
	Lagging Quadrant = iota
	Improving
	Leading
	Weakening
)

// String returns the conventional quadrant name.
func (q Quadrant) String() string {
	switch q {
	case Leading:
		return "Leading"
	case Weakening:
		return "Weakening"
	case Improving:
		return "Improving"
	default:
		return "Lagging"
	}
}

// Color returns the fixed hex color assigned to the quadrant.
func (q Quadrant) Color() string {
	switch q {
	case Leading:
		return "#008217"
	case Weakening:
		return "#918000"
	case Improving:
		return "#00749D"
	default:
		return "#E0002B"
	}
}

// Classify maps an (x, y) coordinate of the ratio/momentum plane to its
// quadrant. The plane is partitioned strictly at x = 100 and y = 100;
// equality resolves to the below/left side on both axes, so (100, 100) is
// Lagging.
func Classify(x, y float64) Quadrant {
	if x > 100 {
		if y > 100 {
			return Leading
		}
		return Weakening
	}
	if y > 100 {
		return Improving
	}
	return Lagging
}

// ---------------------------------------------------------------------------
// Watchlists
// ---------------------------------------------------------------------------

// WatchlistEntry is one symbol on a watchlist, optionally paired with a
// display name. The symbol is the loader lookup key; Label is what appears
// on screen.
type WatchlistEntry struct {
	Symbol string
	Name   string // optional display short-name
}

// Label returns the on-screen label: the short name when present, otherwise
// the symbol. Labels are rendered uppercase.
func (e WatchlistEntry) Label() string {
	if e.Name != "" {
		return strings.ToUpper(e.Name)
	}
	return strings.ToUpper(e.Symbol)
}

// ParseWatchlistEntry parses a raw watchlist line of the form "TICKER" or
// "TICKER,Short Name". Whitespace around both parts is trimmed; the symbol
// is uppercased.
func ParseWatchlistEntry(raw string) WatchlistEntry {
	symbol, name, ok := strings.Cut(raw, ",")
	entry := WatchlistEntry{Symbol: strings.ToUpper(strings.TrimSpace(symbol))}
	if ok {
		entry.Name = strings.TrimSpace(name)
	}
	return entry
}
