package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// Resolver strategies.
const (
	StrategyRanked      = "ranked"
	StrategyFirstResult = "first_result"
)

const appName = "arbitrage"

// DefaultSearchTerms are evaluated in order when SEARCH_TERMS is not set.
var DefaultSearchTerms = []string{
	"PS5 games",
	"Xbox Series X games",
	"Nintendo Switch games",
	"PS4 games",
	"Xbox One games",
	"Nintendo Switch Lite",
	"Xbox One Controller",
	"PS4 Controller",
	"Nintendo Switch Controller",
}

// Config holds the application configuration.
type Config struct {
	SearchTerms      []string `mapstructure:"SEARCH_TERMS"`
	MaxWorkers       int      `mapstructure:"MAX_WORKERS"`
	ItemsPerTerm     int      `mapstructure:"ITEMS_PER_TERM"`
	ProfileBasePath  string   `mapstructure:"PROFILE_BASE_PATH"`
	ProfitLogFile    string   `mapstructure:"PROFIT_LOG_FILE"`
	ResolverStrategy string   `mapstructure:"RESOLVER_STRATEGY"`

	AIProvider string `mapstructure:"AI_PROVIDER"`
	AIModel    string `mapstructure:"AI_MODEL"`
	AIAPIKey   string `mapstructure:"AI_API_KEY"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	Headless        bool          `mapstructure:"HEADLESS"`
	UserAgent       string        `mapstructure:"USER_AGENT"`
	PageLoadTimeout time.Duration `mapstructure:"PAGE_LOAD_TIMEOUT"`
	ElementTimeout  time.Duration `mapstructure:"ELEMENT_TIMEOUT"`
	RetailerRPS     float64       `mapstructure:"RETAILER_RPS"`

	PostgresURL   string        `mapstructure:"POSTGRES_URL"`
	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB"`
	VisitedTTL    time.Duration `mapstructure:"VISITED_TTL"`

	MetricsFile string `mapstructure:"METRICS_FILE"`
}

// Load reads configuration from an optional .env file and environment variables.
func Load() (*Config, error) {
	return load(".env")
}

func load(envFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(envFile)
	v.SetConfigType("env")
	v.AutomaticEnv()

	// A missing .env is fine; production configures purely through the environment.
	_ = v.ReadInConfig()

	v.SetDefault("SEARCH_TERMS", DefaultSearchTerms)
	v.SetDefault("MAX_WORKERS", 5)
	v.SetDefault("ITEMS_PER_TERM", 200)
	v.SetDefault("PROFILE_BASE_PATH", filepath.Join(xdg.CacheHome, appName, "chrome-profile"))
	v.SetDefault("PROFIT_LOG_FILE", "potential_profits_log.txt")
	v.SetDefault("RESOLVER_STRATEGY", StrategyRanked)
	v.SetDefault("AI_PROVIDER", "openai")
	v.SetDefault("AI_MODEL", "")
	v.SetDefault("AI_API_KEY", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("HEADLESS", true)
	v.SetDefault("USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/108.0.0.0 Safari/537.36")
	v.SetDefault("PAGE_LOAD_TIMEOUT", 30*time.Second)
	v.SetDefault("ELEMENT_TIMEOUT", 10*time.Second)
	v.SetDefault("RETAILER_RPS", 2.0)
	v.SetDefault("POSTGRES_URL", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("VISITED_TTL", 48*time.Hour)
	v.SetDefault("METRICS_FILE", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.AIAPIKey == "" {
		cfg.AIAPIKey = providerKey(v, cfg.AIProvider)
	}
	cfg.SearchTerms = trimTerms(cfg.SearchTerms)
	return &cfg, nil
}

// providerKey falls back to the provider's conventional environment variable.
func providerKey(v *viper.Viper, provider string) string {
	switch provider {
	case "claude", "anthropic":
		return v.GetString("ANTHROPIC_API_KEY")
	default:
		return v.GetString("OPENAI_API_KEY")
	}
}

func trimTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Validate checks if the configuration is usable.
func (c *Config) Validate() error {
	if len(c.SearchTerms) == 0 {
		return ErrNoSearchTerms
	}
	if c.MaxWorkers <= 0 {
		return ErrInvalidWorkers
	}
	if c.ItemsPerTerm <= 0 {
		return ErrInvalidBudget
	}
	if c.ResolverStrategy != StrategyRanked && c.ResolverStrategy != StrategyFirstResult {
		return ErrUnknownStrategy
	}
	if c.PageLoadTimeout <= 0 || c.ElementTimeout <= 0 {
		return ErrInvalidTimeout
	}
	return nil
}
