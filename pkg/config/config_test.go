package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable load reads. Viper treats an empty value as
// unset, and real environment variables would otherwise win over defaults and
// the .env file.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SEARCH_TERMS", "MAX_WORKERS", "ITEMS_PER_TERM", "PROFILE_BASE_PATH", "PROFIT_LOG_FILE",
		"RESOLVER_STRATEGY", "AI_PROVIDER", "AI_MODEL", "AI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY",
		"LOG_LEVEL", "LOG_FORMAT", "HEADLESS", "USER_AGENT", "PAGE_LOAD_TIMEOUT", "ELEMENT_TIMEOUT",
		"RETAILER_RPS", "POSTGRES_URL", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "VISITED_TTL", "METRICS_FILE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, DefaultSearchTerms, cfg.SearchTerms)
	assert.Equal(t, 5, cfg.MaxWorkers)
	assert.Equal(t, 200, cfg.ItemsPerTerm)
	assert.Equal(t, "potential_profits_log.txt", cfg.ProfitLogFile)
	assert.Equal(t, StrategyRanked, cfg.ResolverStrategy)
	assert.Equal(t, 48*time.Hour, cfg.VisitedTTL)
	assert.True(t, cfg.Headless)
	assert.NotEmpty(t, cfg.ProfileBasePath)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("SEARCH_TERMS", "PS5 games, Xbox One games ,")
	t.Setenv("MAX_WORKERS", "3")
	t.Setenv("RESOLVER_STRATEGY", StrategyFirstResult)
	t.Setenv("ELEMENT_TIMEOUT", "4s")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, []string{"PS5 games", "Xbox One games"}, cfg.SearchTerms)
	assert.Equal(t, 3, cfg.MaxWorkers)
	assert.Equal(t, StrategyFirstResult, cfg.ResolverStrategy)
	assert.Equal(t, 4*time.Second, cfg.ElementTimeout)
	assert.Equal(t, "sk-test", cfg.AIAPIKey)
}

func TestLoadFromEnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("ITEMS_PER_TERM=25\nAI_PROVIDER=claude\nANTHROPIC_API_KEY=ak-test\n"), 0o600))

	cfg, err := load(path)
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.ItemsPerTerm)
	assert.Equal(t, "claude", cfg.AIProvider)
	assert.Equal(t, "ak-test", cfg.AIAPIKey)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			SearchTerms:      []string{"PS5 games"},
			MaxWorkers:       5,
			ItemsPerTerm:     10,
			ResolverStrategy: StrategyRanked,
			PageLoadTimeout:  time.Second,
			ElementTimeout:   time.Second,
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"valid", func(*Config) {}, nil},
		{"no terms", func(c *Config) { c.SearchTerms = nil }, ErrNoSearchTerms},
		{"zero workers", func(c *Config) { c.MaxWorkers = 0 }, ErrInvalidWorkers},
		{"zero budget", func(c *Config) { c.ItemsPerTerm = 0 }, ErrInvalidBudget},
		{"bad strategy", func(c *Config) { c.ResolverStrategy = "best" }, ErrUnknownStrategy},
		{"zero timeout", func(c *Config) { c.ElementTimeout = 0 }, ErrInvalidTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.want)
		})
	}
}
