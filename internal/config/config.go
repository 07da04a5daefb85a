package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"IndexCompare/internal/model"
)

// DefaultPath is used when CONFIG_PATH is unset.
const DefaultPath = "configs/config.yaml"

// Config holds all application configuration.
type Config struct {
	Provider struct {
		BaseURL        string        `yaml:"base_url"`
		HomeURL        string        `yaml:"home_url"`
		Timeout        time.Duration `yaml:"timeout"`
		RateLimit      int           `yaml:"rate_limit"`
		MaxSpanDays    int           `yaml:"max_span_days"`
		ParallelChunks int           `yaml:"parallel_chunks"`
	} `yaml:"provider"`
	Comparison struct {
		IndexA       string `yaml:"index_a"`
		IndexB       string `yaml:"index_b"`
		Start        string `yaml:"start"`
		End          string `yaml:"end"`
		LookbackDays int    `yaml:"lookback_days"`
	} `yaml:"comparison"`
	OverallTimeout time.Duration `yaml:"overall_timeout"`
	Chart          struct {
		Width      int    `yaml:"width"`
		Height     int    `yaml:"height"`
		OutputPath string `yaml:"output_path"`
	} `yaml:"chart"`
	Schedule struct {
		ReportCron string `yaml:"report_cron"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
	Proxy string `yaml:"proxy"`
}

// Path returns the config file location from CONFIG_PATH, falling back to DefaultPath.
func Path() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return DefaultPath
}

// Load reads config from a YAML file, then applies .env and environment variable overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// .env never overrides variables already set in the process environment
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	strs := map[string]*string{
		"TELEGRAM_BOT_TOKEN": &c.Telegram.BotToken,
		"TELEGRAM_CHAT_ID":   &c.Telegram.ChatID,
		"NSE_BASE_URL":       &c.Provider.BaseURL,
		"NSE_HOME_URL":       &c.Provider.HomeURL,
		"HTTPS_PROXY":        &c.Proxy,
		"INDEX_A":            &c.Comparison.IndexA,
		"INDEX_B":            &c.Comparison.IndexB,
		"COMPARE_START":      &c.Comparison.Start,
		"COMPARE_END":        &c.Comparison.End,
		"REPORT_CRON":        &c.Schedule.ReportCron,
		"SQLITE_PATH":        &c.Database.SQLitePath,
		"CHART_OUTPUT":       &c.Chart.OutputPath,
		"LOG_LEVEL":          &c.Logging.Level,
	}
	for key, dst := range strs {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"MAX_SPAN_DAYS":   &c.Provider.MaxSpanDays,
		"PARALLEL_CHUNKS": &c.Provider.ParallelChunks,
		"LOOKBACK_DAYS":   &c.Comparison.LookbackDays,
	}
	for key, dst := range ints {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("env %s: %w", key, err)
			}
			*dst = n
		}
	}

	if v := os.Getenv("OVERALL_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("env OVERALL_TIMEOUT: %w", err)
		}
		c.OverallTimeout = d
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Provider.BaseURL == "" {
		c.Provider.BaseURL = "https://www.nseindia.com/api/historical/indicesHistory"
	}
	if c.Provider.HomeURL == "" {
		c.Provider.HomeURL = "https://www.nseindia.com"
	}
	if c.Provider.Timeout == 0 {
		c.Provider.Timeout = 10 * time.Second
	}
	if c.Provider.RateLimit == 0 {
		c.Provider.RateLimit = 3
	}
	if c.Provider.MaxSpanDays == 0 {
		c.Provider.MaxSpanDays = 365
	}
	if c.Provider.ParallelChunks == 0 {
		c.Provider.ParallelChunks = 1
	}
	if c.Comparison.IndexA == "" {
		c.Comparison.IndexA = "NIFTY 50"
	}
	if c.Comparison.IndexB == "" {
		c.Comparison.IndexB = "NIFTY BANK"
	}
	if c.Comparison.LookbackDays == 0 {
		c.Comparison.LookbackDays = 365
	}
	if c.Chart.Width == 0 {
		c.Chart.Width = 1000
	}
	if c.Chart.Height == 0 {
		c.Chart.Height = 500
	}
	if c.Chart.OutputPath == "" {
		c.Chart.OutputPath = "data/comparison.png"
	}
	if c.Schedule.ReportCron == "" {
		c.Schedule.ReportCron = "0 0 18 * * 1-5"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/index_compare.db"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Validate checks the fields every mode needs.
func (c *Config) Validate() error {
	if c.Comparison.IndexA == "" || c.Comparison.IndexB == "" {
		return fmt.Errorf("comparison.index_a and comparison.index_b are required")
	}
	if c.Provider.MaxSpanDays < 1 {
		return fmt.Errorf("provider.max_span_days must be positive")
	}
	if c.Provider.ParallelChunks < 1 {
		return fmt.Errorf("provider.parallel_chunks must be positive")
	}
	if c.Provider.RateLimit < 1 {
		return fmt.Errorf("provider.rate_limit must be positive")
	}
	if c.Comparison.LookbackDays < 1 {
		return fmt.Errorf("comparison.lookback_days must be positive")
	}
	if c.OverallTimeout < 0 {
		return fmt.Errorf("overall_timeout must not be negative")
	}
	if (c.Comparison.Start == "") != (c.Comparison.End == "") {
		return fmt.Errorf("comparison.start and comparison.end must be set together")
	}
	if c.Comparison.Start != "" {
		if _, err := model.ParseDate(c.Comparison.Start); err != nil {
			return fmt.Errorf("comparison.start: %w", err)
		}
		if _, err := model.ParseDate(c.Comparison.End); err != nil {
			return fmt.Errorf("comparison.end: %w", err)
		}
	}
	if _, err := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow).Parse(c.Schedule.ReportCron); err != nil {
		return fmt.Errorf("schedule.report_cron: %w", err)
	}
	return nil
}

// ValidateDaemon additionally requires the Telegram credentials the long-running mode needs.
func (c *Config) ValidateDaemon() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	return nil
}

// ComparisonRange returns the configured fixed range, or the trailing window of LookbackDays
// calendar days ending today, both ends included.
func (c *Config) ComparisonRange(now time.Time) (model.DateRange, error) {
	if c.Comparison.Start != "" && c.Comparison.End != "" {
		start, err := model.ParseDate(c.Comparison.Start)
		if err != nil {
			return model.DateRange{}, err
		}
		end, err := model.ParseDate(c.Comparison.End)
		if err != nil {
			return model.DateRange{}, err
		}
		return model.DateRange{Start: start, End: end}, nil
	}
	end := model.Day(now)
	return model.DateRange{Start: end.AddDate(0, 0, -(c.Comparison.LookbackDays - 1)), End: end}, nil
}
