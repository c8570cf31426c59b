package loader

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"rrg/internal/domain"
)

// ReadWatchlistFile parses a watchlist file: one entry per line, either
// "TICKER" or "TICKER,Short Name". Blank lines and lines starting with '#'
// are ignored.
func ReadWatchlistFile(path string) ([]domain.WatchlistEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []domain.WatchlistEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entries = append(entries, domain.ParseWatchlistEntry(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return entries, nil
}
