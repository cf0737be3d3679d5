package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradebook/charges"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NotNil(t, cfg)
	assert.Equal(t, "INR", cfg.Account.Currency)
	assert.Equal(t, 100000.0, cfg.Account.Capital)
	assert.Equal(t, 1.0, cfg.Risk.RiskPercent)
	assert.Equal(t, 0.10, cfg.Risk.MaxCapitalPerTrade)
	assert.NoError(t, cfg.Validate())

	ttl, err := cfg.Cache.CacheTTL()
	require.NoError(t, err)
	assert.Equal(t, 12*time.Hour, ttl)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{name: "valid config", mutate: func(*Config) {}},
		{
			name:   "missing currency",
			mutate: func(c *Config) { c.Account.Currency = "" },
			errMsg: "account.currency is required",
		},
		{
			name:   "negative capital",
			mutate: func(c *Config) { c.Account.Capital = -1000 },
			errMsg: "account.capital must be positive",
		},
		{
			name:   "risk percent out of range",
			mutate: func(c *Config) { c.Risk.RiskPercent = 150 },
			errMsg: "risk.risk_percent must be between 0 and 100",
		},
		{
			name:   "max risk below risk",
			mutate: func(c *Config) { c.Risk.RiskPercent = 3; c.Risk.MaxRiskPercent = 2 },
			errMsg: "risk.max_risk_percent",
		},
		{
			name:   "negative daily loss limit",
			mutate: func(c *Config) { c.Risk.DailyLossLimit = -1 },
			errMsg: "risk.daily_loss_limit must not be negative",
		},
		{
			name:   "capital cap above one",
			mutate: func(c *Config) { c.Risk.MaxCapitalPerTrade = 10 },
			errMsg: "risk.max_capital_per_trade",
		},
		{
			name: "bad broker profile",
			mutate: func(c *Config) {
				c.Broker.Profile = &charges.BrokerChargeProfile{Kind: charges.Flat, FlatFee: -5}
			},
			errMsg: "broker.profile",
		},
		{
			name:   "missing db path",
			mutate: func(c *Config) { c.Journal.DBPath = "" },
			errMsg: "journal.db_path is required",
		},
		{
			name:   "unknown timezone",
			mutate: func(c *Config) { c.Journal.Timezone = "Mars/Olympus" },
			errMsg: "journal.timezone",
		},
		{
			name:   "bad cache ttl",
			mutate: func(c *Config) { c.Cache.TTL = "soon" },
			errMsg: "cache.ttl",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestSaveAndLoadYAML(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "tradebook.yaml")

	cfg := Default()
	cfg.Account.Capital = 250000
	cfg.Broker.Name = "upstox"
	cfg.Server.CORSOrigins = []string{"http://localhost:5173"}

	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSaveAndLoadJSON(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "tradebook.json")

	cfg := Default()
	cfg.Risk.MinRR = 2
	p := charges.FlatProfile(15)
	cfg.Broker.Profile = &p

	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2.0, loaded.Risk.MinRR)
	require.NotNil(t, loaded.Broker.Profile)
	assert.Equal(t, 15.0, loaded.BrokerProfile().FlatFee)
}

func TestLoadFromFilePartialKeepsDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("account:\n  capital: 50000\n"), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 50000.0, cfg.Account.Capital)
	assert.Equal(t, "INR", cfg.Account.Currency)
	assert.Equal(t, "zerodha", cfg.Broker.Name)
}

func TestLoadFromFileErrors(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("account: [unclosed"), 0644))
	_, err = LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")

	path = filepath.Join(t.TempDir(), "invalid.yaml")
	require.NoError(t, os.WriteFile(path, []byte("account:\n  capital: -1\n"), 0644))
	_, err = LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"TRADEBOOK_DB":           "/tmp/tb.sqlite",
		"TRADEBOOK_BROKER":       "dhan",
		"TRADEBOOK_CAPITAL":      "500000",
		"TRADEBOOK_RISK_PERCENT": "0.5",
		"TRADEBOOK_CORS_ORIGINS": "http://a,http://b",
	}
	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(func(k string) string { return env[k] }))

	assert.Equal(t, "/tmp/tb.sqlite", cfg.Journal.DBPath)
	assert.Equal(t, "dhan", cfg.Broker.Name)
	assert.Equal(t, 500000.0, cfg.Account.Capital)
	assert.Equal(t, 0.5, cfg.Risk.RiskPercent)
	assert.Equal(t, []string{"http://a", "http://b"}, cfg.Server.CORSOrigins)
	assert.Equal(t, ":8080", cfg.Server.Addr)

	err := Default().ApplyEnv(func(k string) string {
		if k == "TRADEBOOK_CAPITAL" {
			return "lots"
		}
		return ""
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TRADEBOOK_CAPITAL")
}

func TestPolicyAndBrokerProfile(t *testing.T) {
	cfg := Default()
	p := cfg.Policy()
	assert.Equal(t, cfg.Account.Capital, p.Capital)
	assert.Equal(t, cfg.Risk.DailyLossLimit, p.DailyLossLimit)
	assert.Equal(t, cfg.Risk.MinRR, p.MinRR)

	assert.Equal(t, charges.Percentage, cfg.BrokerProfile().Kind)

	cfg.Broker.Name = "nobody"
	assert.Equal(t, charges.DefaultProfile, cfg.BrokerProfile())
}
