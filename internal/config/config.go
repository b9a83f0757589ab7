package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultTickers is the initial ticker set shown before the user builds a
// watchlist.
var DefaultTickers = []string{"AAPL", "GOOGL", "AMZN", "MSFT", "TSLA", "NVDA"}

// DefaultIntervalMap maps a requested period to the bar interval used when the
// caller does not ask for one explicitly.
var DefaultIntervalMap = map[string]string{
	"1d":  "1m",
	"5d":  "5m",
	"1mo": "1h",
	"3mo": "1d",
	"6mo": "1d",
	"1y":  "1wk",
	"5y":  "1mo",
	"max": "1mo",
}

// Config holds all application configuration.
type Config struct {
	Server struct {
		ListenAddr  string   `yaml:"listen_addr"`
		CORSOrigins []string `yaml:"cors_origins"`
	} `yaml:"server"`
	Database struct {
		SQLitePath    string `yaml:"sqlite_path"`
		RetentionDays int    `yaml:"retention_days"`
	} `yaml:"database"`
	MarketData struct {
		DisplayTimezone string            `yaml:"display_timezone"`
		FetchTimeoutSec int               `yaml:"fetch_timeout_seconds"`
		DefaultTickers  []string          `yaml:"default_tickers"`
		IntervalMap     map[string]string `yaml:"interval_map"`
	} `yaml:"market_data"`
	Cache struct {
		TTLMinutes int    `yaml:"ttl_minutes"`
		PurgeCron  string `yaml:"purge_cron"`
	} `yaml:"cache"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides. A missing file is not an error; defaults fill the gaps.
func Load(path string) (*Config, error) {
	// Optional .env for local development.
	_ = godotenv.Load()

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

	// Environment variable overrides
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Server.ListenAddr = v
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.Server.CORSOrigins = strings.Split(v, ",")
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("CACHE_TTL_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Cache.TTLMinutes = n
		}
	}
	if v := os.Getenv("RETENTION_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Database.RetentionDays = n
		}
	}
	if v := os.Getenv("DISPLAY_TIMEZONE"); v != "" {
		cfg.MarketData.DisplayTimezone = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = ":8080"
	}
	if len(cfg.Server.CORSOrigins) == 0 {
		cfg.Server.CORSOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/stock_dashboard.db"
	}
	if cfg.Database.RetentionDays == 0 {
		cfg.Database.RetentionDays = 30
	}
	if cfg.MarketData.DisplayTimezone == "" {
		cfg.MarketData.DisplayTimezone = "America/New_York"
	}
	if cfg.MarketData.FetchTimeoutSec == 0 {
		cfg.MarketData.FetchTimeoutSec = 10
	}
	if len(cfg.MarketData.DefaultTickers) == 0 {
		cfg.MarketData.DefaultTickers = DefaultTickers
	}
	if cfg.MarketData.IntervalMap == nil {
		cfg.MarketData.IntervalMap = DefaultIntervalMap
	} else {
		// User maps extend the defaults rather than replacing them.
		for k, v := range DefaultIntervalMap {
			if _, ok := cfg.MarketData.IntervalMap[k]; !ok {
				cfg.MarketData.IntervalMap[k] = v
			}
		}
	}
	if cfg.Cache.TTLMinutes == 0 {
		cfg.Cache.TTLMinutes = 5
	}
	if cfg.Cache.PurgeCron == "" {
		cfg.Cache.PurgeCron = "0 0 3 * * *"
	}

	return cfg, nil
}

// Validate checks that all required fields are consistent.
func (c *Config) Validate() error {
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("server.listen_addr is required")
	}
	if c.Cache.TTLMinutes <= 0 {
		return fmt.Errorf("cache.ttl_minutes must be positive")
	}
	if c.Database.RetentionDays <= 0 {
		return fmt.Errorf("database.retention_days must be positive")
	}
	if c.MarketData.FetchTimeoutSec <= 0 {
		return fmt.Errorf("market_data.fetch_timeout_seconds must be positive")
	}
	if _, err := time.LoadLocation(c.MarketData.DisplayTimezone); err != nil {
		return fmt.Errorf("market_data.display_timezone: %w", err)
	}
	return nil
}

// Location resolves the configured display timezone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.MarketData.DisplayTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// TTL returns the cache time-to-live as a duration.
func (c *Config) TTL() time.Duration {
	return time.Duration(c.Cache.TTLMinutes) * time.Minute
}

// FetchTimeout returns the gateway fetch timeout as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.MarketData.FetchTimeoutSec) * time.Second
}
