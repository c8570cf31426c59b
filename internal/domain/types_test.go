package domain

import (
	"testing"
	"time"
)

func TestClassifyQuadrants(t *testing.T) {
	tests := []struct {
		x, y float64
		want Quadrant
	}{
		{100.1, 100.1, Leading},
		{100.1, 99.9, Weakening},
		{99.9, 100.1, Improving},
		{99.9, 99.9, Lagging},
		// Boundary resolves below/left on both axes.
		{100.0, 100.0, Lagging},
		{100.0, 101.0, Improving},
		{101.0, 100.0, Weakening},
	}

	for _, tt := range tests {
		if got := Classify(tt.x, tt.y); got != tt.want {
			t.Errorf("Classify(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestQuadrantColors(t *testing.T) {
	colors := map[Quadrant]string{
		Leading:   "#008217",
		Weakening: "#918000",
		Improving: "#00749D",
		Lagging:   "#E0002B",
	}
	seen := make(map[string]Quadrant)
	for q, want := range colors {
		got := q.Color()
		if got != want {
			t.Errorf("%v.Color() = %q, want %q", q, got, want)
		}
		if prev, dup := seen[got]; dup {
			t.Errorf("color %q shared by %v and %v", got, prev, q)
		}
		seen[got] = q
	}
}

func TestParseWatchlistEntry(t *testing.T) {
	tests := []struct {
		raw    string
		symbol string
		label  string
	}{
		{"AAPL", "AAPL", "AAPL"},
		{"aapl", "AAPL", "AAPL"},
		{"MSFT,Microsoft", "MSFT", "MICROSOFT"},
		{" spy , S&P 500 ", "SPY", "S&P 500"},
	}

	for _, tt := range tests {
		e := ParseWatchlistEntry(tt.raw)
		if e.Symbol != tt.symbol {
			t.Errorf("ParseWatchlistEntry(%q).Symbol = %q, want %q", tt.raw, e.Symbol, tt.symbol)
		}
		if e.Label() != tt.label {
			t.Errorf("ParseWatchlistEntry(%q).Label() = %q, want %q", tt.raw, e.Label(), tt.label)
		}
	}
}

func TestSeriesAt(t *testing.T) {
	d := func(day int) time.Time {
		return time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC)
	}
	ser := Series{
		{Date: d(1), Value: 1},
		{Date: d(3), Value: 3},
		{Date: d(5), Value: 5},
	}

	if v, ok := ser.At(d(3)); !ok || v != 3 {
		t.Errorf("At(d3) = (%v, %v), want (3, true)", v, ok)
	}
	if _, ok := ser.At(d(4)); ok {
		t.Error("At(d4) should not be found")
	}
	if got := ser.Tail(2); got.Len() != 2 || got[0].Value != 3 {
		t.Errorf("Tail(2) = %v, want last two points", got)
	}
	if got := ser.Tail(10); got.Len() != 3 {
		t.Errorf("Tail(10) should return the whole series, got %d points", got.Len())
	}
}
