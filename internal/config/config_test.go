package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rrg.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "benchmark: SPY\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Benchmark != "SPY" {
		t.Errorf("Benchmark = %q, want SPY", cfg.Benchmark)
	}
	if cfg.Window != DefaultWindow {
		t.Errorf("Window = %d, want default %d", cfg.Window, DefaultWindow)
	}
	if cfg.Period != DefaultPeriod {
		t.Errorf("Period = %d, want default %d", cfg.Period, DefaultPeriod)
	}
	if _, ok := cfg.BaseDateTime(); ok {
		t.Error("BaseDateTime should report unset for empty base_date")
	}
}

func TestLoadExplicitValues(t *testing.T) {
	path := writeConfig(t, `
benchmark: QQQ
window: 10
period: 26
base_date: "2024-03-01"
storage:
  data_dir: /tmp/rrg-data
  sqlite_path: /tmp/rrg.db
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Window != 10 || cfg.Period != 26 {
		t.Errorf("Window/Period = %d/%d, want 10/26", cfg.Window, cfg.Period)
	}
	base, ok := cfg.BaseDateTime()
	if !ok {
		t.Fatal("BaseDateTime should be set")
	}
	if base.Format("2006-01-02") != "2024-03-01" {
		t.Errorf("base date = %s, want 2024-03-01", base.Format("2006-01-02"))
	}
	if cfg.Storage.DataDir != "/tmp/rrg-data" {
		t.Errorf("DataDir = %q, want /tmp/rrg-data", cfg.Storage.DataDir)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"negative window", "benchmark: SPY\nwindow: -1\n"},
		{"negative period", "benchmark: SPY\nperiod: -5\n"},
		{"bad base date", "benchmark: SPY\nbase_date: not-a-date\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			if _, err := Load(path); err == nil {
				t.Errorf("Load should reject %s", tt.name)
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("RRG_BENCHMARK", "IWM")
	t.Setenv("DATA_DIR", "/tmp/envdata")
	t.Setenv("APCA_API_KEY_ID", "key-from-env")

	path := writeConfig(t, "benchmark: SPY\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Benchmark != "IWM" {
		t.Errorf("Benchmark = %q, want env override IWM", cfg.Benchmark)
	}
	if cfg.Storage.DataDir != "/tmp/envdata" {
		t.Errorf("DataDir = %q, want env override /tmp/envdata", cfg.Storage.DataDir)
	}
	if cfg.Alpaca.APIKey != "key-from-env" {
		t.Errorf("APIKey = %q, want env override", cfg.Alpaca.APIKey)
	}
}
