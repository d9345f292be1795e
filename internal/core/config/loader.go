package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

// Load reads configuration from a YAML file.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg AppConfig
	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *AppConfig {
	var cfg AppConfig
	_ = cfg.applyDefaults()
	return &cfg
}

func (cfg *AppConfig) applyDefaults() error {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 15 * time.Second
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	up := &cfg.Upstream
	if up.Timeout == 0 {
		up.Timeout = 10 * time.Second
	}
	if up.UserAgent == "" {
		up.UserAgent = "explorer-ui"
	}
	setURL(&up.TonAPI, "https://tonapi.io")
	setURL(&up.BlockCypher, "https://api.blockcypher.com")
	setURL(&up.Tronscan, "https://apilist.tronscanapi.com")
	setURL(&up.CoinGecko, "https://api.coingecko.com")

	if cfg.Price.CacheSize == 0 {
		cfg.Price.CacheSize = 16
	}

	c := &cfg.Comments
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	switch c.Backend {
	case "":
		c.Backend = BackendAuto
	case BackendAuto, BackendMemory, BackendRedis, BackendPostgres:
	default:
		return fmt.Errorf("unknown comments backend %q", c.Backend)
	}
	if c.Salt == "" {
		c.Salt = "chainlens-comments-salt"
	}
	return nil
}

// CommentsBackend resolves "auto" to redis, then postgres, then memory depending on
// which connection is configured.
func (cfg *AppConfig) CommentsBackend() string {
	if cfg.Comments.Backend != BackendAuto {
		return cfg.Comments.Backend
	}
	switch {
	case cfg.Redis.URL != "":
		return BackendRedis
	case cfg.Database.URL != "":
		return BackendPostgres
	}
	return BackendMemory
}

func setURL(p *ProviderConfig, def string) {
	if p.URL == "" {
		p.URL = def
	}
}
