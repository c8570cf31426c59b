package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rrg/internal/config"
	"rrg/internal/domain"
	"rrg/internal/loader"
	"rrg/internal/store"
	"rrg/internal/util"
)

func main() {
	cfgPath := flag.String("c", "", "config file (YAML)")
	wlPath := flag.String("w", "", "watchlist file: one SYMBOL[,Name] per line")
	wlName := flag.String("l", "", "named watchlist stored in the database")
	saveAs := flag.String("save", "", "save the -w file as a named watchlist and exit")
	list := flag.Bool("list", false, "list stored watchlists and exit")
	remove := flag.String("delete", "", "delete a stored watchlist and exit")
	benchmark := flag.String("b", "", "benchmark symbol to refresh alongside the watchlist")
	flag.Parse()

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	// Dual logger: stdout + /tmp log file.
	logFileName := fmt.Sprintf("/tmp/rrg-data-%s.log", time.Now().Format("2006-01-02"))
	logFile, err := os.Create(logFileName)
	if err != nil {
		log.Fatalf("creating log file: %v", err)
	}
	defer logFile.Close()
	w := io.MultiWriter(os.Stdout, logFile)
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: util.ParseLevel(cfg.Logging.Level)}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *list || *remove != "" || *saveAs != "" {
		if err := manageWatchlists(ctx, cfg, *list, *remove, *saveAs, *wlPath); err != nil {
			log.Fatal(err)
		}
		return
	}

	entries, err := resolveWatchlist(ctx, cfg, *wlPath, *wlName)
	if err != nil {
		log.Fatalf("loading watchlist: %v", err)
	}
	if len(entries) == 0 {
		log.Fatal("empty watchlist: pass -w FILE or -l NAME")
	}

	symbols := make([]string, 0, len(entries)+1)
	bench := *benchmark
	if bench == "" {
		bench = cfg.Benchmark
	}
	if bench != "" {
		symbols = append(symbols, bench)
	}
	for _, e := range entries {
		symbols = append(symbols, e.Symbol)
	}

	if cfg.Alpaca.APIKey == "" {
		log.Fatal("no Alpaca API key: set APCA_API_KEY_ID or `alpaca.api_key` in config")
	}

	pstore := store.NewParquetStore(cfg.Storage.DataDir)
	minLen := cfg.Window*2 + max(cfg.Window, cfg.Period)

	logger.Info("refreshing daily bars", "symbols", len(symbols), "dataDir", cfg.Storage.DataDir)
	if err := loader.RefreshBars(ctx, cfg.Alpaca, pstore, symbols, minLen, logger); err != nil {
		log.Fatalf("refresh failed: %v", err)
	}
	logger.Info("refresh complete", "symbols", len(symbols))
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

func resolveWatchlist(ctx context.Context, cfg *config.Config, path, name string) ([]domain.WatchlistEntry, error) {
	switch {
	case path != "":
		return loader.ReadWatchlistFile(path)
	case name != "":
		db, err := store.NewSQLiteStore(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		return db.GetWatchlist(ctx, name)
	default:
		return nil, nil
	}
}

func manageWatchlists(ctx context.Context, cfg *config.Config, list bool, remove, saveAs, wlPath string) error {
	db, err := store.NewSQLiteStore(cfg.Storage.SQLitePath)
	if err != nil {
		return err
	}
	defer db.Close()

	switch {
	case saveAs != "":
		if wlPath == "" {
			return fmt.Errorf("-save requires -w FILE")
		}
		entries, err := loader.ReadWatchlistFile(wlPath)
		if err != nil {
			return err
		}
		if err := db.SaveWatchlist(ctx, saveAs, entries); err != nil {
			return err
		}
		fmt.Printf("saved %q: %d symbols\n", saveAs, len(entries))
	case remove != "":
		if err := db.DeleteWatchlist(ctx, remove); err != nil {
			return err
		}
		fmt.Printf("deleted %q\n", remove)
	case list:
		names, err := db.ListWatchlists(ctx)
		if err != nil {
			return err
		}
		for _, n := range names {
			entries, err := db.GetWatchlist(ctx, n)
			if err != nil {
				return err
			}
			fmt.Printf("%-20s %d symbols\n", n, len(entries))
		}
	}
	return nil
}
