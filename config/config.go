package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds pipeline configuration derived from the config file and
// environment variables.
type Config struct {
	AccountsPath   string
	CasesPath      string
	OutputDir      string
	ReportsDir     string
	VizDir         string
	ReportPath     string
	DBPath         string
	Timezone       string
	ChartWidth     int
	ChartHeight    int
	TopNAccounts   int
	TopNCountries  int
	TopNIndustries int
	EnableWatcher  bool
	StrictConfig   bool

	// Location is the resolved Timezone, used for day bucketing.
	Location *time.Location
}

type fileConfig struct {
	AccountsPath   string `json:"accounts_path" yaml:"accounts_path"`
	CasesPath      string `json:"cases_path" yaml:"cases_path"`
	OutputDir      string `json:"output_dir" yaml:"output_dir"`
	ReportsDir     string `json:"reports_dir" yaml:"reports_dir"`
	VizDir         string `json:"visualizations_dir" yaml:"visualizations_dir"`
	DBPath         string `json:"db_path" yaml:"db_path"`
	Timezone       string `json:"timezone" yaml:"timezone"`
	ChartWidth     *int   `json:"chart_width" yaml:"chart_width"`
	ChartHeight    *int   `json:"chart_height" yaml:"chart_height"`
	TopNAccounts   *int   `json:"top_n_accounts" yaml:"top_n_accounts"`
	TopNCountries  *int   `json:"top_n_countries" yaml:"top_n_countries"`
	TopNIndustries *int   `json:"top_n_industries" yaml:"top_n_industries"`
	EnableWatcher  *bool  `json:"enable_watcher" yaml:"enable_watcher"`
}

const (
	defaultAccountsPath   = "data/accounts.json"
	defaultCasesPath      = "data/support_cases.json"
	defaultOutputDir      = "outputs"
	defaultDBPath         = ":memory:"
	defaultTimezone       = "UTC"
	defaultChartWidth     = 1280
	defaultChartHeight    = 720
	minChartDim           = 320
	maxChartDim           = 4096
	defaultTopNAccounts   = 15
	defaultTopNCountries  = 15
	defaultTopNIndustries = 12
	maxTopN               = 100
)

// Load reads configuration from an optional yaml/json file plus environment
// variables and applies sane defaults.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		DBPath:         defaultDBPath,
		Timezone:       defaultTimezone,
		ChartWidth:     defaultChartWidth,
		ChartHeight:    defaultChartHeight,
		TopNAccounts:   defaultTopNAccounts,
		TopNCountries:  defaultTopNCountries,
		TopNIndustries: defaultTopNIndustries,
		StrictConfig:   parseBoolEnv("STRICT_CONFIG"),
	}

	configPath := getEnv("CONFIG_PATH", filepath.Join("config", "config.yaml"))
	fileCfg, fileErr := loadFileConfig(configPath)
	if fileErr != nil && !os.IsNotExist(fileErr) {
		if cfg.StrictConfig {
			return cfg, fmt.Errorf("config load failed (%s): %w", configPath, fileErr)
		}
		log.Printf("config load failed (%s): %v (using defaults)", configPath, fileErr)
	}

	cfg.AccountsPath = firstNonEmpty(os.Getenv("ACCOUNTS_PATH"), fileCfg.AccountsPath, defaultAccountsPath)
	cfg.CasesPath = firstNonEmpty(os.Getenv("CASES_PATH"), fileCfg.CasesPath, defaultCasesPath)
	cfg.OutputDir = firstNonEmpty(os.Getenv("OUTPUT_DIR"), fileCfg.OutputDir, defaultOutputDir)
	cfg.ReportsDir = firstNonEmpty(os.Getenv("REPORTS_DIR"), fileCfg.ReportsDir, filepath.Join(cfg.OutputDir, "reports"))
	cfg.VizDir = firstNonEmpty(os.Getenv("VIZ_DIR"), fileCfg.VizDir, filepath.Join(cfg.OutputDir, "visualizations"))
	cfg.ReportPath = firstNonEmpty(os.Getenv("REPORT_PATH"), filepath.Join(cfg.OutputDir, "report.md"))
	cfg.DBPath = firstNonEmpty(os.Getenv("DB_PATH"), fileCfg.DBPath, defaultDBPath)
	cfg.Timezone = firstNonEmpty(os.Getenv("TIMEZONE"), fileCfg.Timezone, defaultTimezone)

	cfg.ChartWidth = clampInt(resolveInt("CHART_WIDTH", fileCfg.ChartWidth, cfg.ChartWidth), minChartDim, maxChartDim)
	cfg.ChartHeight = clampInt(resolveInt("CHART_HEIGHT", fileCfg.ChartHeight, cfg.ChartHeight), minChartDim, maxChartDim)

	cfg.TopNAccounts = clampInt(resolveInt("TOP_N_ACCOUNTS", fileCfg.TopNAccounts, cfg.TopNAccounts), 1, maxTopN)
	cfg.TopNCountries = clampInt(resolveInt("TOP_N_COUNTRIES", fileCfg.TopNCountries, cfg.TopNCountries), 1, maxTopN)
	cfg.TopNIndustries = clampInt(resolveInt("TOP_N_INDUSTRIES", fileCfg.TopNIndustries, cfg.TopNIndustries), 1, maxTopN)

	cfg.EnableWatcher = resolveBool("ENABLE_WATCHER", fileCfg.EnableWatcher, false)

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		if cfg.StrictConfig {
			return cfg, fmt.Errorf("invalid TIMEZONE %q: %w", cfg.Timezone, err)
		}
		log.Printf("invalid TIMEZONE %q: %v (using UTC)", cfg.Timezone, err)
		cfg.Timezone = defaultTimezone
		loc = time.UTC
	}
	cfg.Location = loc

	if err := validateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadFileConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if len(data) == 0 {
		return cfg, errors.New("empty config file")
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

func validateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.AccountsPath) == "" {
		return errors.New("ACCOUNTS_PATH is required")
	}
	if strings.TrimSpace(cfg.CasesPath) == "" {
		return errors.New("CASES_PATH is required")
	}
	if strings.TrimSpace(cfg.OutputDir) == "" {
		return errors.New("OUTPUT_DIR is required")
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return errors.New("DB_PATH is required")
	}
	return nil
}

func resolveInt(key string, fileVal *int, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("invalid %s=%q, using default %d", key, v, def)
			return def
		}
		return n
	}
	if fileVal != nil && *fileVal > 0 {
		return *fileVal
	}
	return def
}

func resolveBool(key string, fileVal *bool, def bool) bool {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return parseBoolEnv(key)
	}
	if fileVal != nil {
		return *fileVal
	}
	return def
}

func firstNonEmpty(values ...string) string {
	for _, val := range values {
		if strings.TrimSpace(val) != "" {
			return val
		}
	}
	return ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBoolEnv(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "1" || v == "true" || v == "yes" || v == "on"
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
