package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.AccountsPath != defaultAccountsPath {
		t.Fatalf("expected default accounts path, got %s", cfg.AccountsPath)
	}
	if cfg.DBPath != ":memory:" {
		t.Fatalf("expected in-memory db default, got %s", cfg.DBPath)
	}
	if cfg.ReportsDir != filepath.Join("outputs", "reports") {
		t.Fatalf("unexpected reports dir %s", cfg.ReportsDir)
	}
	if cfg.Location == nil || cfg.Location.String() != "UTC" {
		t.Fatalf("expected UTC location, got %v", cfg.Location)
	}
}

func TestTopNClamp(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("TOP_N_ACCOUNTS", "5000")
	t.Setenv("TOP_N_COUNTRIES", "0")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.TopNAccounts != maxTopN {
		t.Fatalf("expected top accounts clamped to %d, got %d", maxTopN, cfg.TopNAccounts)
	}
	if cfg.TopNCountries != 1 {
		t.Fatalf("expected top countries raised to 1, got %d", cfg.TopNCountries)
	}
}

func TestChartDimensionClamp(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("CHART_WIDTH", "10")
	t.Setenv("CHART_HEIGHT", "99999")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.ChartWidth != minChartDim {
		t.Fatalf("expected width raised to %d, got %d", minChartDim, cfg.ChartWidth)
	}
	if cfg.ChartHeight != maxChartDim {
		t.Fatalf("expected height capped at %d, got %d", maxChartDim, cfg.ChartHeight)
	}
}

func TestFileConfigWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := "accounts_path: from-file.json\ncases_path: cases-file.json\ntimezone: America/New_York\ntop_n_industries: 3\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("CASES_PATH", "from-env.json")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.AccountsPath != "from-file.json" {
		t.Fatalf("expected file value, got %s", cfg.AccountsPath)
	}
	if cfg.CasesPath != "from-env.json" {
		t.Fatalf("env should win over file, got %s", cfg.CasesPath)
	}
	if cfg.TopNIndustries != 3 {
		t.Fatalf("expected top industries 3, got %d", cfg.TopNIndustries)
	}
	if cfg.Timezone != "America/New_York" {
		t.Fatalf("unexpected timezone %s", cfg.Timezone)
	}
}

func TestInvalidTimezoneFallsBack(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("TIMEZONE", "Not/AZone")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Timezone != "UTC" {
		t.Fatalf("expected fallback to UTC, got %s", cfg.Timezone)
	}
}

func TestInvalidTimezoneStrict(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("TIMEZONE", "Not/AZone")
	t.Setenv("STRICT_CONFIG", "1")
	if _, err := Load(); err == nil {
		t.Fatal("expected strict config to reject bad timezone")
	}
}
