package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Yahoo struct {
		HistoryPeriod time.Duration `yaml:"history_period"` // window fetched per symbol
		FetchTimeout  time.Duration `yaml:"fetch_timeout"`
		CacheTTL      time.Duration `yaml:"cache_ttl"`
	} `yaml:"yahoo"`
	Analysis struct {
		SymbolDelay  time.Duration `yaml:"symbol_delay"` // courtesy pause between symbols
		PatternBars  int           `yaml:"pattern_bars"`
		DefaultTitle string        `yaml:"default_title"`
	} `yaml:"analysis"`
	Reports struct {
		Dir           string `yaml:"dir"`
		RetentionDays int    `yaml:"retention_days"`
		TimeZone      string `yaml:"time_zone"`
	} `yaml:"reports"`
	Watchlists struct {
		Dir string `yaml:"dir"`
	} `yaml:"watchlists"`
	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("REPORTS_DIR"); v != "" {
		c.Reports.Dir = v
	}
	if v := os.Getenv("WATCHLISTS_DIR"); v != "" {
		c.Watchlists.Dir = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Enabled = true
		c.Redis.Addr = v
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
	if c.Yahoo.HistoryPeriod == 0 {
		c.Yahoo.HistoryPeriod = 365 * 24 * time.Hour
	}
	if c.Yahoo.FetchTimeout == 0 {
		c.Yahoo.FetchTimeout = 30 * time.Second
	}
	if c.Analysis.SymbolDelay == 0 {
		c.Analysis.SymbolDelay = 500 * time.Millisecond
	}
	if c.Analysis.PatternBars == 0 {
		c.Analysis.PatternBars = 5
	}
	if c.Analysis.DefaultTitle == "" {
		c.Analysis.DefaultTitle = "Technical Analysis Report"
	}
	if c.Reports.Dir == "" {
		c.Reports.Dir = "reports"
	}
	if c.Reports.RetentionDays == 0 {
		c.Reports.RetentionDays = 30
	}
	if c.Reports.TimeZone == "" {
		c.Reports.TimeZone = "America/Los_Angeles"
	}
	if c.Watchlists.Dir == "" {
		c.Watchlists.Dir = "config/users"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	if c.Yahoo.HistoryPeriod < 24*time.Hour {
		return fmt.Errorf("yahoo.history_period must be at least one day")
	}
	if c.Analysis.SymbolDelay < 0 {
		return fmt.Errorf("analysis.symbol_delay cannot be negative")
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required when redis is enabled")
	}
	if strings.ContainsAny(c.Reports.Dir, "\x00") {
		return fmt.Errorf("reports.dir is invalid")
	}
	return nil
}
