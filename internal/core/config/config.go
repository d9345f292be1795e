package config

import (
	"time"

	redisclient "github.com/vietddude/chainlens/internal/infra/redis"
	"github.com/vietddude/chainlens/internal/infra/storage/postgres"
)

// Comment storage backends.
const (
	BackendAuto     = "auto"
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server   ServerConfig       `yaml:"server"`
	Logging  LoggingConfig      `yaml:"logging"`
	Upstream UpstreamConfig     `yaml:"upstream"`
	Price    PriceConfig        `yaml:"price"`
	Comments CommentsConfig     `yaml:"comments"`
	Lookup   LookupConfig       `yaml:"lookup"`
	Redis    redisclient.Config `yaml:"redis"`
	Database postgres.Config    `yaml:"database"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// UpstreamConfig holds the third-party data providers.
type UpstreamConfig struct {
	Timeout     time.Duration  `yaml:"timeout"`
	UserAgent   string         `yaml:"user_agent"`
	TonAPI      ProviderConfig `yaml:"tonapi"`
	BlockCypher ProviderConfig `yaml:"blockcypher"`
	Tronscan    ProviderConfig `yaml:"tronscan"`
	CoinGecko   ProviderConfig `yaml:"coingecko"`
}

// ProviderConfig holds settings for one upstream provider.
type ProviderConfig struct {
	URL       string        `yaml:"url"`
	APIKey    string        `yaml:"api_key"`
	Timeout   time.Duration `yaml:"timeout"`    // overrides upstream.timeout
	RateLimit float64       `yaml:"rate_limit"` // requests per second, 0 = unlimited
	Burst     int           `yaml:"burst"`
}

// PriceConfig holds the price cache settings.
type PriceConfig struct {
	CacheTTL  time.Duration `yaml:"cache_ttl"` // 0 disables the cache
	CacheSize int           `yaml:"cache_size"`
}

// CommentsConfig holds comment store settings.
type CommentsConfig struct {
	Backend string `yaml:"backend"` // auto, memory, redis, postgres
	Salt    string `yaml:"salt"`
}

// LookupConfig holds lookup engine settings.
type LookupConfig struct {
	// StrictNetwork rejects input that does not conform to an explicitly chosen network
	StrictNetwork bool `yaml:"strict_network"`
}
