package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // Asia/Kolkata without a system zoneinfo

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/tradebook/charges"
	"github.com/rustyeddy/tradebook/logger"
	"github.com/rustyeddy/tradebook/risk"
)

// Config represents the complete tradebook configuration
type Config struct {
	Account  AccountConfig  `json:"account" yaml:"account"`
	Risk     RiskConfig     `json:"risk" yaml:"risk"`
	Broker   BrokerConfig   `json:"broker" yaml:"broker"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
	Server   ServerConfig   `json:"server" yaml:"server"`
	Log      logger.Config  `json:"log" yaml:"log"`
	Cache    CacheConfig    `json:"cache" yaml:"cache"`
	Funds    FundsConfig    `json:"funds" yaml:"funds"`
	Schedule ScheduleConfig `json:"schedule" yaml:"schedule"`
}

type AccountConfig struct {
	Currency string  `json:"currency" yaml:"currency"`
	Capital  float64 `json:"capital" yaml:"capital"`
}

// RiskConfig percentages are whole percent, MaxCapitalPerTrade is a fraction.
type RiskConfig struct {
	RiskPercent        float64 `json:"risk_percent" yaml:"risk_percent"`
	MaxRiskPercent     float64 `json:"max_risk_percent" yaml:"max_risk_percent"`
	DailyLossLimit     float64 `json:"daily_loss_limit" yaml:"daily_loss_limit"`
	MaxCapitalPerTrade float64 `json:"max_capital_per_trade" yaml:"max_capital_per_trade"`
	MinRR              float64 `json:"min_rr" yaml:"min_rr"`
}

// BrokerConfig names the default broker. Profile overrides the built-in
// schedule for that broker when set.
type BrokerConfig struct {
	Name    string                       `json:"name" yaml:"name"`
	Profile *charges.BrokerChargeProfile `json:"profile,omitempty" yaml:"profile,omitempty"`
}

type JournalConfig struct {
	DBPath     string `json:"db_path" yaml:"db_path"`
	ExportFile string `json:"export_file,omitempty" yaml:"export_file,omitempty"`
	Timezone   string `json:"timezone" yaml:"timezone"`
}

type ServerConfig struct {
	Addr        string   `json:"addr" yaml:"addr"`
	CORSOrigins []string `json:"cors_origins,omitempty" yaml:"cors_origins,omitempty"`
}

type CacheConfig struct {
	TTL           string `json:"ttl" yaml:"ttl"` // e.g. "12h"
	RedisAddr     string `json:"redis_addr,omitempty" yaml:"redis_addr,omitempty"`
	RedisPassword string `json:"redis_password,omitempty" yaml:"redis_password,omitempty"`
}

type FundsConfig struct {
	URL string `json:"url" yaml:"url"`
}

// ScheduleConfig holds six-field cron specs (seconds first) evaluated in
// the journal timezone. Empty disables a job.
type ScheduleConfig struct {
	FundRefresh string `json:"fund_refresh" yaml:"fund_refresh"`
	DaySummary  string `json:"day_summary" yaml:"day_summary"`
}

// CacheTTL parses Cache.TTL; empty means zero.
func (c CacheConfig) CacheTTL() (time.Duration, error) {
	if c.TTL == "" {
		return 0, nil
	}
	return time.ParseDuration(c.TTL)
}

// Location resolves Journal.Timezone used for day boundaries.
func (j JournalConfig) Location() (*time.Location, error) {
	if j.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(j.Timezone)
}

// Policy converts the risk section into the evaluator's policy.
func (c *Config) Policy() risk.Policy {
	return risk.Policy{
		Capital:            c.Account.Capital,
		RiskPercent:        c.Risk.RiskPercent,
		MaxRiskPercent:     c.Risk.MaxRiskPercent,
		DailyLossLimit:     c.Risk.DailyLossLimit,
		MaxCapitalPerTrade: c.Risk.MaxCapitalPerTrade,
		MinRR:              c.Risk.MinRR,
	}
}

// BrokerProfile resolves the configured broker's charge schedule.
func (c *Config) BrokerProfile() charges.BrokerChargeProfile {
	if c.Broker.Profile != nil {
		return *c.Broker.Profile
	}
	return charges.ProfileForBroker(c.Broker.Name)
}

// LoadFromFile loads configuration from a file (YAML, falling back to JSON)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		cfg = Default()
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Load reads path when it is non-empty, otherwise starts from Default, then
// applies the environment. An optional .env file in the working directory
// is loaded first.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = LoadFromFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overlays TRADEBOOK_* variables read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	str := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *float64) error {
		v := getenv(key)
		if v == "" {
			return nil
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = f
		return nil
	}

	str("TRADEBOOK_DB", &c.Journal.DBPath)
	str("TRADEBOOK_TIMEZONE", &c.Journal.Timezone)
	str("TRADEBOOK_BROKER", &c.Broker.Name)
	str("TRADEBOOK_ADDR", &c.Server.Addr)
	str("TRADEBOOK_LOG_LEVEL", &c.Log.Level)
	str("TRADEBOOK_REDIS_ADDR", &c.Cache.RedisAddr)
	str("TRADEBOOK_REDIS_PASSWORD", &c.Cache.RedisPassword)
	str("TRADEBOOK_CACHE_TTL", &c.Cache.TTL)
	str("TRADEBOOK_FUNDS_URL", &c.Funds.URL)
	if v := getenv("TRADEBOOK_CORS_ORIGINS"); v != "" {
		c.Server.CORSOrigins = strings.Split(v, ",")
	}

	if err := num("TRADEBOOK_CAPITAL", &c.Account.Capital); err != nil {
		return err
	}
	if err := num("TRADEBOOK_RISK_PERCENT", &c.Risk.RiskPercent); err != nil {
		return err
	}
	return num("TRADEBOOK_DAILY_LOSS_LIMIT", &c.Risk.DailyLossLimit)
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Account.Currency == "" {
		return fmt.Errorf("account.currency is required")
	}
	if c.Account.Capital <= 0 {
		return fmt.Errorf("account.capital must be positive")
	}
	if c.Risk.RiskPercent <= 0 || c.Risk.RiskPercent > 100 {
		return fmt.Errorf("risk.risk_percent must be between 0 and 100")
	}
	if c.Risk.MaxRiskPercent != 0 && c.Risk.MaxRiskPercent < c.Risk.RiskPercent {
		return fmt.Errorf("risk.max_risk_percent must not be below risk.risk_percent")
	}
	if c.Risk.DailyLossLimit < 0 {
		return fmt.Errorf("risk.daily_loss_limit must not be negative")
	}
	if c.Risk.MaxCapitalPerTrade < 0 || c.Risk.MaxCapitalPerTrade > 1 {
		return fmt.Errorf("risk.max_capital_per_trade must be between 0 and 1")
	}
	if c.Broker.Profile != nil {
		if err := c.Broker.Profile.Validate(); err != nil {
			return fmt.Errorf("broker.profile: %w", err)
		}
	}
	if c.Journal.DBPath == "" {
		return fmt.Errorf("journal.db_path is required")
	}
	if _, err := c.Journal.Location(); err != nil {
		return fmt.Errorf("journal.timezone: %w", err)
	}
	if _, err := c.Cache.CacheTTL(); err != nil {
		return fmt.Errorf("cache.ttl: %w", err)
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			Currency: "INR",
			Capital:  100000,
		},
		Risk: RiskConfig{
			RiskPercent:        1,
			MaxRiskPercent:     2,
			DailyLossLimit:     2000,
			MaxCapitalPerTrade: risk.MaxCapitalPerTrade,
			MinRR:              1.5,
		},
		Broker: BrokerConfig{
			Name: "zerodha",
		},
		Journal: JournalConfig{
			DBPath:   "./tradebook.sqlite",
			Timezone: "Asia/Kolkata",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Log: logger.Config{
			Level: "info",
		},
		Cache: CacheConfig{
			TTL: "12h",
		},
		Funds: FundsConfig{
			URL: "https://api.mfapi.in/mf",
		},
		Schedule: ScheduleConfig{
			FundRefresh: "0 0 6 * * *",
			DaySummary:  "0 45 15 * * MON-FRI",
		},
	}
}
