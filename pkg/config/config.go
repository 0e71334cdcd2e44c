package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: all environment variables are read here
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database (optional: enables the Postgres-backed universe)
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// External APIs
	Yahoo     YahooConfig
	Finnhub   FinnhubConfig
	CoinGecko CoinGeckoConfig
	FMP       FMPConfig
	NewsAPI   NewsAPIConfig

	// Provider routing
	Providers ProviderConfig

	// Universe
	Universe UniverseConfig

	// Cache
	Cache CacheConfig

	// Scheduler
	Scheduler SchedulerConfig

	// Logging
	LogLevel  string
	LogFormat string

	// Monitoring
	MetricsEnabled bool
	MetricsPort    string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Enabled reports whether a database URL was provided
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// YahooConfig holds Yahoo Finance endpoints
type YahooConfig struct {
	QuoteURL  string // v7 quote / v8 chart host
	SearchURL string // v1 search host (news, suggestions)
	RSSURL    string // headline RSS feed
	BatchSize int    // symbols per quote request
}

// FinnhubConfig holds Finnhub API configuration
type FinnhubConfig struct {
	APIKey  string
	BaseURL string
}

// CoinGeckoConfig holds CoinGecko API configuration
type CoinGeckoConfig struct {
	APIKey   string // optional demo/pro key
	BaseURL  string
	Currency string
}

// FMPConfig holds Financial Modeling Prep API configuration
type FMPConfig struct {
	APIKey  string
	BaseURL string
}

// NewsAPIConfig holds NewsAPI.org configuration
type NewsAPIConfig struct {
	APIKey       string
	BaseURL      string
	PageSize     int
	LookbackDays int
}

// ProviderConfig selects which upstream serves each request kind
type ProviderConfig struct {
	Quote  string // yahoo | fmp
	Crypto string // yahoo | coingecko
	News   string // yahoo | rss | finnhub | newsapi
	Search string // finnhub | yahoo
}

// UniverseConfig controls the tracked symbol list
type UniverseConfig struct {
	Symbols []string // explicit override (SYMBOLS=AAPL,MSFT)
	File    string   // YAML universe file
}

// CacheConfig holds TTLs for the fetch cache
type CacheConfig struct {
	QuoteTTL time.Duration
	NewsTTL  time.Duration
	ChartTTL time.Duration
}

// SchedulerConfig controls the background refresh
type SchedulerConfig struct {
	Enabled         bool
	RefreshSchedule string // cron expression with seconds
}

var (
	validEnvs            = []string{"development", "staging", "production"}
	validQuoteProviders  = []string{"yahoo", "fmp"}
	validCryptoProviders = []string{"yahoo", "coingecko"}
	validNewsProviders   = []string{"yahoo", "rss", "finnhub", "newsapi"}
	validSearchProviders = []string{"finnhub", "yahoo"}
)

// Load reads configuration from environment variables
// ⭐ SSOT: the only function that calls os.Getenv()
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		// Database
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 1),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		// External APIs
		Yahoo: YahooConfig{
			QuoteURL:  getEnv("YAHOO_QUOTE_URL", "https://query1.finance.yahoo.com"),
			SearchURL: getEnv("YAHOO_SEARCH_URL", "https://query2.finance.yahoo.com"),
			RSSURL:    getEnv("YAHOO_RSS_URL", "https://feeds.finance.yahoo.com/rss/2.0/headline"),
			BatchSize: getEnvAsInt("YAHOO_BATCH_SIZE", 50),
		},

		Finnhub: FinnhubConfig{
			APIKey:  getEnv("FINNHUB_API_KEY", ""),
			BaseURL: getEnv("FINNHUB_BASE_URL", "https://finnhub.io/api/v1"),
		},

		CoinGecko: CoinGeckoConfig{
			APIKey:   getEnv("COINGECKO_API_KEY", ""),
			BaseURL:  getEnv("COINGECKO_BASE_URL", "https://api.coingecko.com/api/v3"),
			Currency: getEnv("COINGECKO_CURRENCY", "usd"),
		},

		FMP: FMPConfig{
			APIKey:  getEnv("FMP_API_KEY", ""),
			BaseURL: getEnv("FMP_BASE_URL", "https://financialmodelingprep.com/api/v3"),
		},

		NewsAPI: NewsAPIConfig{
			APIKey:       getEnv("NEWSAPI_KEY", ""),
			BaseURL:      getEnv("NEWSAPI_BASE_URL", "https://newsapi.org/v2"),
			PageSize:     getEnvAsInt("NEWSAPI_PAGE_SIZE", 20),
			LookbackDays: getEnvAsInt("NEWSAPI_LOOKBACK_DAYS", 3),
		},

		Providers: ProviderConfig{
			Quote:  strings.ToLower(getEnv("QUOTE_PROVIDER", "yahoo")),
			Crypto: strings.ToLower(getEnv("CRYPTO_PROVIDER", "yahoo")),
			News:   strings.ToLower(getEnv("NEWS_PROVIDER", "yahoo")),
			Search: strings.ToLower(getEnv("SEARCH_PROVIDER", "finnhub")),
		},

		Universe: UniverseConfig{
			Symbols: getEnvAsList("SYMBOLS"),
			File:    getEnv("UNIVERSE_FILE", ""),
		},

		Cache: CacheConfig{
			QuoteTTL: getEnvAsDuration("CACHE_QUOTE_TTL", "60s"),
			NewsTTL:  getEnvAsDuration("CACHE_NEWS_TTL", "5m"),
			ChartTTL: getEnvAsDuration("CACHE_CHART_TTL", "5m"),
		},

		Scheduler: SchedulerConfig{
			Enabled:         getEnvAsBool("SCHEDULER_ENABLED", true),
			RefreshSchedule: getEnv("REFRESH_SCHEDULE", "0 */1 * * * *"),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		// Monitoring
		MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
		MetricsPort:    getEnv("METRICS_PORT", "9090"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if configuration values are consistent
func (c *Config) validate() error {
	if !contains(validEnvs, c.Env) {
		return fmt.Errorf("ENV must be one of: %s", strings.Join(validEnvs, ", "))
	}
	if !contains(validQuoteProviders, c.Providers.Quote) {
		return fmt.Errorf("QUOTE_PROVIDER must be one of: %s", strings.Join(validQuoteProviders, ", "))
	}
	if !contains(validCryptoProviders, c.Providers.Crypto) {
		return fmt.Errorf("CRYPTO_PROVIDER must be one of: %s", strings.Join(validCryptoProviders, ", "))
	}
	if !contains(validNewsProviders, c.Providers.News) {
		return fmt.Errorf("NEWS_PROVIDER must be one of: %s", strings.Join(validNewsProviders, ", "))
	}
	if !contains(validSearchProviders, c.Providers.Search) {
		return fmt.Errorf("SEARCH_PROVIDER must be one of: %s", strings.Join(validSearchProviders, ", "))
	}
	if c.Yahoo.BatchSize <= 0 {
		return fmt.Errorf("YAHOO_BATCH_SIZE must be positive")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{".env"}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}

// getEnvAsList splits a comma separated value, dropping blanks
func getEnvAsList(key string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, strings.ToUpper(part))
		}
	}
	return out
}
