package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"rrg/internal/config"
	"rrg/internal/domain"
	"rrg/internal/loader"
	"rrg/internal/rrg"
	"rrg/internal/store"
	"rrg/internal/tui"
	"rrg/internal/util"
)

func main() {
	cfgPath := flag.String("c", "", "config file (YAML)")
	wlPath := flag.String("w", "", "watchlist file: one SYMBOL[,Name] per line")
	wlName := flag.String("l", "", "named watchlist stored in the database")
	benchmark := flag.String("b", "", "benchmark symbol (overrides config)")
	tailCount := flag.Int("t", 4, "tail length in observations")
	flag.Parse()

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	// The terminal belongs to the TUI; logs go to a /tmp file.
	logPath := cfg.Logging.File
	if logPath == "" {
		logPath = fmt.Sprintf("/tmp/rrg-%s.log", time.Now().Format("2006-01-02"))
	}
	logger, closer, err := util.NewFileLogger(logPath, cfg.Logging.Level)
	if err != nil {
		log.Fatalf("opening log file: %v", err)
	}
	defer closer.Close()
	util.SetDefault(logger)

	watchlist, err := resolveWatchlist(cfg, *wlPath, *wlName)
	if err != nil {
		log.Fatalf("loading watchlist: %v", err)
	}
	if len(watchlist) == 0 {
		log.Fatal("empty watchlist: pass -w FILE or -l NAME")
	}

	pstore := store.NewParquetStore(cfg.Storage.DataDir)
	l := buildLoader(cfg, pstore)

	engine, err := rrg.NewEngine(cfg, l, *benchmark, *tailCount,
		rrg.WithLogger(logger))
	if err != nil {
		log.Fatal(err)
	}

	logger.Info("building scene",
		"benchmark", engine.Benchmark(),
		"tickers", len(watchlist),
		"window", cfg.Window,
		"period", cfg.Period,
	)

	// Warm the loader cache concurrently; BuildScene then hits memory only.
	symbols := make([]string, 0, len(watchlist)+1)
	symbols = append(symbols, engine.Benchmark())
	for _, e := range watchlist {
		symbols = append(symbols, e.Symbol)
	}
	if _, err := loader.Prefetch(context.Background(), l, symbols, 4); err != nil {
		logger.Warn("prefetch", "error", err)
	}

	scene, err := engine.BuildScene(context.Background(), watchlist)
	if err != nil {
		log.Fatal(err)
	}
	if len(scene.Entries) == 0 {
		log.Fatal("no ticker had enough data to plot")
	}

	p := tea.NewProgram(
		tui.NewModel(scene, logger),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if p := os.Getenv("RRG_CONFIG"); p != "" {
			path = p
		}
	}
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// buildLoader reads bars from the parquet store and falls back to Alpaca
// (with writeback) when the store is missing or short. Without API keys
// the store is the only source.
func buildLoader(cfg *config.Config, pstore *store.ParquetStore) loader.Loader {
	minLen := cfg.Window*2 + max(cfg.Window, cfg.Period)
	primary := loader.NewStoreLoader(pstore, minLen)
	if cfg.Alpaca.APIKey == "" {
		return loader.WithCache(primary)
	}
	remote := loader.NewAlpacaLoader(cfg.Alpaca, pstore, minLen)
	return loader.WithCache(loader.NewChainLoader(primary, remote, minLen))
}

func resolveWatchlist(cfg *config.Config, path, name string) ([]domain.WatchlistEntry, error) {
	switch {
	case path != "":
		return loader.ReadWatchlistFile(path)
	case name != "":
		db, err := store.NewSQLiteStore(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		entries, err := db.GetWatchlist(context.Background(), name)
		if err != nil {
			return nil, err
		}
		if len(entries) == 0 {
			return nil, fmt.Errorf("watchlist %q not found in %s", name, cfg.Storage.SQLitePath)
		}
		return entries, nil
	default:
		return nil, nil
	}
}
