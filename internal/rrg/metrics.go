// Package rrg implements the Relative Rotation Graph engine: the statistical
// transforms turning price series into ratio/momentum coordinates, scene
// assembly, and the interaction state machine governing what is visible.
package rrg

import (
	"errors"
	"math"
	"sort"
	"time"

	"rrg/internal/domain"
)

// Sentinel errors for momentum base selection. Both are recoverable per
// ticker: the caller skips the ticker and keeps plotting the rest.
var (
	// ErrBaseDateNotFound reports a configured base date absent from the
	// ratio series' index.
	ErrBaseDateNotFound = errors.New("base date not found in ratio series")

	// ErrPeriodOutOfRange reports a lookback period longer than the ratio
	// series.
	ErrPeriodOutOfRange = errors.New("period lookback exceeds series length")
)

// Normalize returns a copy of s with unique, ascending dates. Duplicate
// dates keep their first occurrence; out-of-order input is sorted (stable).
// Already-clean input is passed through unchanged.
func Normalize(s domain.Series) domain.Series {
	hasDup := false
	sorted := true
	seen := make(map[int64]struct{}, len(s))
	for i, p := range s {
		key := p.Date.UnixNano()
		if _, dup := seen[key]; dup {
			hasDup = true
		}
		seen[key] = struct{}{}
		if i > 0 && s[i].Date.Before(s[i-1].Date) {
			sorted = false
		}
	}
	if !hasDup && sorted {
		return s
	}

	out := make(domain.Series, 0, len(seen))
	kept := make(map[int64]struct{}, len(seen))
	for _, p := range s {
		key := p.Date.UnixNano()
		if _, dup := kept[key]; dup {
			continue
		}
		kept[key] = struct{}{}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// RSRatio computes the normalized relative-strength ratio of ticker against
// benchmark: rs = ticker/benchmark × 100 on the date intersection, then
// (rs − rollingMean) / rollingStd + 100 over the given window, with the
// warm-up prefix dropped. Both inputs must be normalized (unique ascending
// dates).
func RSRatio(ticker, benchmark domain.Series, window int) domain.Series {
	rs := alignDivide(ticker, benchmark)
	return rollingNormalize(rs, window)
}

// RSMomentum computes the normalized rate-of-change momentum of a ratio
// series. The base value is the ratio at baseDate when hasBase is true
// (ErrBaseDateNotFound if that date is absent), otherwise the value period
// observations before the end (ErrPeriodOutOfRange if the series is too
// short). The rate of change is then normalized with the same rolling
// transform as RSRatio.
func RSMomentum(ratio domain.Series, window, period int, baseDate time.Time, hasBase bool) (domain.Series, error) {
	var base float64
	if hasBase {
		v, ok := ratio.At(baseDate)
		if !ok {
			return nil, ErrBaseDateNotFound
		}
		base = v
	} else {
		if period < 1 || period > len(ratio) {
			return nil, ErrPeriodOutOfRange
		}
		base = ratio[len(ratio)-period].Value
	}

	roc := make(domain.Series, len(ratio))
	for i, p := range ratio {
		roc[i] = domain.Point{Date: p.Date, Value: (p.Value/base - 1) * 100}
	}
	return rollingNormalize(roc, window), nil
}

// alignDivide pairs the two series on their common dates and returns
// a/b × 100 per date. Both inputs must be sorted ascending.
func alignDivide(a, b domain.Series) domain.Series {
	out := make(domain.Series, 0, min(len(a), len(b)))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].Date.Before(b[j].Date):
			i++
		case b[j].Date.Before(a[i].Date):
			j++
		default:
			out = append(out, domain.Point{
				Date:  a[i].Date,
				Value: a[i].Value / b[j].Value * 100,
			})
			i++
			j++
		}
	}
	return out
}

// rollingNormalize recenters each point at 100 in units of the trailing
// window's sample standard deviation (ddof = 1). The first window−1 points
// have insufficient history and are dropped, as is any point whose window
// has zero or undefined deviation.
func rollingNormalize(s domain.Series, window int) domain.Series {
	if window < 1 || len(s) < window {
		return nil
	}

	out := make(domain.Series, 0, len(s)-window+1)
	for i := window - 1; i < len(s); i++ {
		mean, std := meanStd(s[i-window+1 : i+1])
		if std == 0 || math.IsNaN(std) || math.IsInf(std, 0) {
			continue
		}
		out = append(out, domain.Point{
			Date:  s[i].Date,
			Value: (s[i].Value-mean)/std + 100,
		})
	}
	return out
}

// meanStd returns the mean and sample standard deviation (ddof = 1) of the
// window's values.
func meanStd(window domain.Series) (mean, std float64) {
	n := float64(len(window))
	for _, p := range window {
		mean += p.Value
	}
	mean /= n

	if len(window) < 2 {
		return mean, math.NaN()
	}
	var ss float64
	for _, p := range window {
		d := p.Value - mean
		ss += d * d
	}
	return mean, math.Sqrt(ss / (n - 1))
}
