package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when Load is called without a path and the file exists.
const DefaultPath = "config.yaml"

// DataSource selects and tunes the market data sources.
type DataSource struct {
	PrimarySource         string `yaml:"primary_source"`
	EnableYahooFallback   bool   `yaml:"enable_yahoo_fallback"`
	EnableAlphaVantage    bool   `yaml:"enable_alphavantage"`
	AlphaVantageAPIKey    string `yaml:"alphavantage_api_key"`
	CacheDurationMinutes  int    `yaml:"cache_duration_minutes"`
	RequestTimeoutSeconds int    `yaml:"request_timeout_seconds"`
	// MaxRetries is the total number of attempts per request.
	MaxRetries int `yaml:"max_retries"`
}

// Endpoints override upstream base URLs. Empty means the client default.
type Endpoints struct {
	Bourse       string `yaml:"bourse"`
	Yahoo        string `yaml:"yahoo"`
	AlphaVantage string `yaml:"alphavantage"`
}

// AlphaVantage holds the indicator provider rate limit. The free tier
// allows 5 requests per minute.
type AlphaVantage struct {
	MaxRequestsPerMinute  int `yaml:"max_requests_per_minute"`
	Burst                 int `yaml:"burst"`
	MinRequestIntervalSec int `yaml:"min_request_interval_sec"`
}

// Synthetic are the constants used to derive index levels from fallback quotes.
type Synthetic struct {
	MASIBase        float64 `yaml:"masi_base"`
	MADEXBase       float64 `yaml:"madex_base"`
	MADEXMultiplier float64 `yaml:"madex_multiplier"`
}

type Config struct {
	DataSource DataSource `yaml:"data_source"`
	// Symbols overrides both source universes when set.
	Symbols              []string     `yaml:"symbols,omitempty"`
	LogLevel             string       `yaml:"log_level"`
	LogFile              string       `yaml:"log_file"`
	EnableDataValidation bool         `yaml:"enable_data_validation"`
	AutoFallback         bool         `yaml:"auto_fallback"`
	MetricsAddr          string       `yaml:"metrics_addr"`
	Endpoints            Endpoints    `yaml:"endpoints"`
	AlphaVantage         AlphaVantage `yaml:"alphavantage"`
	Synthetic            Synthetic    `yaml:"synthetic"`
}

func Default() Config {
	return Config{
		DataSource: DataSource{
			PrimarySource:         "casablanca_bourse",
			EnableYahooFallback:   true,
			EnableAlphaVantage:    false,
			CacheDurationMinutes:  5,
			RequestTimeoutSeconds: 10,
			MaxRetries:            3,
		},
		LogLevel:             "info",
		EnableDataValidation: true,
		AutoFallback:         true,
		AlphaVantage: AlphaVantage{
			MaxRequestsPerMinute: 5,
			Burst:                1,
		},
		Synthetic: Synthetic{
			MASIBase:        12847.35,
			MADEXBase:       10452.18,
			MADEXMultiplier: 1.1,
		},
	}
}

// Load reads YAML config from path, then applies environment overrides. A
// .env file in the working directory is loaded first when present. If path
// is empty and DefaultPath does not exist, defaults are used.
//
// Load never leaves the caller without a usable Config: unreadable files,
// bad YAML and out-of-range values fall back to defaults and are reported
// together in the returned error.
func Load(path string) (Config, error) {
	_ = godotenv.Load() // best-effort

	cfg := Default()
	var errs []error
	if path == "" {
		if _, err := os.Stat(DefaultPath); err == nil {
			path = DefaultPath
		}
	}
	if path != "" {
		if err := readFile(path, &cfg); err != nil {
			cfg = Default()
			errs = append(errs, err)
		}
	}
	errs = append(errs, applyEnv(&cfg)...)
	errs = append(errs, cfg.normalize()...)
	return cfg, errors.Join(errs...)
}

func readFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

// Save persists cfg to path as YAML.
func (c Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// normalize replaces out-of-range values with their defaults.
func (c *Config) normalize() []error {
	def := Default()
	var errs []error
	replace := func(name string, bad any) {
		errs = append(errs, fmt.Errorf("%s: invalid value %v, using default", name, bad))
	}
	ds := &c.DataSource
	if strings.TrimSpace(ds.PrimarySource) == "" {
		replace("primary_source", `""`)
		ds.PrimarySource = def.DataSource.PrimarySource
	}
	if ds.CacheDurationMinutes < 0 {
		replace("cache_duration_minutes", ds.CacheDurationMinutes)
		ds.CacheDurationMinutes = def.DataSource.CacheDurationMinutes
	}
	if ds.RequestTimeoutSeconds <= 0 {
		replace("request_timeout_seconds", ds.RequestTimeoutSeconds)
		ds.RequestTimeoutSeconds = def.DataSource.RequestTimeoutSeconds
	}
	if ds.MaxRetries < 1 {
		replace("max_retries", ds.MaxRetries)
		ds.MaxRetries = def.DataSource.MaxRetries
	}
	if len(c.Symbols) > 0 {
		c.Symbols = splitCSV(strings.ToUpper(strings.Join(c.Symbols, ",")))
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.AlphaVantage.MaxRequestsPerMinute < 0 {
		replace("alphavantage.max_requests_per_minute", c.AlphaVantage.MaxRequestsPerMinute)
		c.AlphaVantage.MaxRequestsPerMinute = def.AlphaVantage.MaxRequestsPerMinute
	}
	if c.AlphaVantage.Burst <= 0 {
		c.AlphaVantage.Burst = def.AlphaVantage.Burst
	}
	if c.AlphaVantage.MinRequestIntervalSec < 0 {
		replace("alphavantage.min_request_interval_sec", c.AlphaVantage.MinRequestIntervalSec)
		c.AlphaVantage.MinRequestIntervalSec = 0
	}
	if c.Synthetic.MASIBase <= 0 {
		replace("synthetic.masi_base", c.Synthetic.MASIBase)
		c.Synthetic.MASIBase = def.Synthetic.MASIBase
	}
	if c.Synthetic.MADEXBase <= 0 {
		replace("synthetic.madex_base", c.Synthetic.MADEXBase)
		c.Synthetic.MADEXBase = def.Synthetic.MADEXBase
	}
	if c.Synthetic.MADEXMultiplier <= 0 {
		replace("synthetic.madex_multiplier", c.Synthetic.MADEXMultiplier)
		c.Synthetic.MADEXMultiplier = def.Synthetic.MADEXMultiplier
	}
	return errs
}

func applyEnv(cfg *Config) []error {
	var errs []error
	str := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	boolean := func(key string, dst *bool) {
		v := os.Getenv(key)
		if v == "" {
			return
		}
		b, err := parseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return
		}
		*dst = b
	}
	integer := func(key string, dst *int) {
		v := os.Getenv(key)
		if v == "" {
			return
		}
		x, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return
		}
		*dst = x
	}

	if v := os.Getenv("SYMBOLS"); v != "" {
		cfg.Symbols = splitCSV(v)
	}
	str("PRIMARY_DATA_SOURCE", &cfg.DataSource.PrimarySource)
	boolean("ENABLE_YAHOO_FALLBACK", &cfg.DataSource.EnableYahooFallback)
	boolean("ENABLE_ALPHAVANTAGE", &cfg.DataSource.EnableAlphaVantage)
	str("ALPHAVANTAGE_API_KEY", &cfg.DataSource.AlphaVantageAPIKey)
	integer("CACHE_DURATION_MINUTES", &cfg.DataSource.CacheDurationMinutes)
	integer("REQUEST_TIMEOUT_SECONDS", &cfg.DataSource.RequestTimeoutSeconds)
	integer("MAX_RETRIES", &cfg.DataSource.MaxRetries)
	boolean("AUTO_FALLBACK", &cfg.AutoFallback)
	boolean("ENABLE_DATA_VALIDATION", &cfg.EnableDataValidation)
	str("LOG_LEVEL", &cfg.LogLevel)
	str("LOG_FILE", &cfg.LogFile)
	str("METRICS_ADDR", &cfg.MetricsAddr)
	str("BOURSE_BASE_URL", &cfg.Endpoints.Bourse)
	str("YAHOO_BASE_URL", &cfg.Endpoints.Yahoo)
	str("ALPHAVANTAGE_BASE_URL", &cfg.Endpoints.AlphaVantage)
	integer("ALPHAVANTAGE_MAX_RPM", &cfg.AlphaVantage.MaxRequestsPerMinute)
	integer("ALPHAVANTAGE_BURST", &cfg.AlphaVantage.Burst)
	integer("ALPHAVANTAGE_MIN_INTERVAL_SEC", &cfg.AlphaVantage.MinRequestIntervalSec)
	return errs
}

func parseBool(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y":
		return true, nil
	case "0", "false", "no", "n":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", v)
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
