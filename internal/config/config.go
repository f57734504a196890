// Package config loads orderdesk settings: defaults, then an optional YAML (or JSON) file,
// then a .env file, then ORDERDESK_* environment variables. Command flags apply last.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/orderdesk/pkg/persistence/middleware"
)

// DefaultPath is read when no config file is named; it may be absent.
const DefaultPath = "orderdesk.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "ORDERDESK_"

var (
	storeDrivers   = []string{"memory", "sqlite", "postgres"}
	sessionDrivers = []string{"memory", "file", "sqlite", "redis"}
	mcpTransports  = []string{"stdio", "sse"}
)

type Config struct {
	LogLevel string         `yaml:"log_level" json:"log_level"`
	HTTP     HTTPConfig     `yaml:"http" json:"http"`
	MCP      MCPConfig      `yaml:"mcp" json:"mcp"`
	Store    StoreConfig    `yaml:"store" json:"store"`
	Sessions SessionsConfig `yaml:"sessions" json:"sessions"`
	Redis    RedisConfig    `yaml:"redis" json:"redis"`
	Locking  LockingConfig  `yaml:"locking" json:"locking"`
	Retry    RetryConfig    `yaml:"retry" json:"retry"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr" json:"addr"`
}

type MCPConfig struct {
	Transport string `yaml:"transport" json:"transport"`
	Addr      string `yaml:"addr" json:"addr"`
	BaseURL   string `yaml:"base_url" json:"base_url"`
}

// StoreConfig selects the durable store. Catalog optionally names a YAML vehicle list
// upserted on startup.
type StoreConfig struct {
	Driver  string `yaml:"driver" json:"driver"`
	DSN     string `yaml:"dsn" json:"dsn"`
	Seed    bool   `yaml:"seed" json:"seed"`
	Catalog string `yaml:"catalog" json:"catalog"`
}

// SessionsConfig selects session persistence. EncryptionKey (base64, 32 bytes) seals
// stored sessions; FallbackKeys still decrypt sessions sealed before a rotation.
type SessionsConfig struct {
	Driver        string        `yaml:"driver" json:"driver"`
	Dir           string        `yaml:"dir" json:"dir"`
	TTL           time.Duration `yaml:"ttl" json:"ttl"`
	EncryptionKey string        `yaml:"encryption_key" json:"encryption_key"`
	FallbackKeys  []string      `yaml:"fallback_keys" json:"fallback_keys"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" json:"addr"`
	Password string `yaml:"password" json:"password"`
	DB       int    `yaml:"db" json:"db"`
	Prefix   string `yaml:"prefix" json:"prefix"`
}

type LockingConfig struct {
	Distributed bool          `yaml:"distributed" json:"distributed"`
	TTL         time.Duration `yaml:"ttl" json:"ttl"`
}

// RetryConfig tunes the stock adjustment retry and the store call decorator.
type RetryConfig struct {
	StockAttempts uint64        `yaml:"stock_attempts" json:"stock_attempts"`
	StockBase     time.Duration `yaml:"stock_base" json:"stock_base"`
	StoreAttempts uint64        `yaml:"store_attempts" json:"store_attempts"`
	StoreTimeout  time.Duration `yaml:"store_timeout" json:"store_timeout"`
}

// Default returns the settings used when nothing is configured: everything in memory,
// seeded with the default inventory.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		HTTP:     HTTPConfig{Addr: ":8080"},
		MCP:      MCPConfig{Transport: "stdio", Addr: ":8081", BaseURL: "http://localhost:8081"},
		Store:    StoreConfig{Driver: "memory", DSN: "orderdesk.db", Seed: true},
		Sessions: SessionsConfig{Driver: "memory", Dir: filepath.Join(".orderdesk", "sessions")},
		Redis:    RedisConfig{Addr: "localhost:6379", Prefix: "orderdesk:"},
		Locking:  LockingConfig{TTL: 30 * time.Second},
		Retry: RetryConfig{
			StockAttempts: 3,
			StockBase:     100 * time.Millisecond,
			StoreAttempts: 3,
			StoreTimeout:  5 * time.Second,
		},
	}
}

// Load builds the configuration. An empty path reads DefaultPath when it exists;
// a named path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	if err := cfg.loadFile(path); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, c); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
		return nil
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides fields from ORDERDESK_* variables, e.g. ORDERDESK_STORE_DRIVER.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}
	var errs []error
	boolean := func(key string, dst *bool) {
		if v, ok := lookup(EnvPrefix + key); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = b
		}
	}
	integer := func(key string, dst *int) {
		if v, ok := lookup(EnvPrefix + key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = n
		}
	}
	unsigned := func(key string, dst *uint64) {
		if v, ok := lookup(EnvPrefix + key); ok {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = n
		}
	}
	duration := func(key string, dst *time.Duration) {
		if v, ok := lookup(EnvPrefix + key); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = d
		}
	}

	str("LOG_LEVEL", &c.LogLevel)
	str("HTTP_ADDR", &c.HTTP.Addr)
	str("MCP_TRANSPORT", &c.MCP.Transport)
	str("MCP_ADDR", &c.MCP.Addr)
	str("MCP_BASE_URL", &c.MCP.BaseURL)
	str("STORE_DRIVER", &c.Store.Driver)
	str("STORE_DSN", &c.Store.DSN)
	boolean("STORE_SEED", &c.Store.Seed)
	str("STORE_CATALOG", &c.Store.Catalog)
	str("SESSIONS_DRIVER", &c.Sessions.Driver)
	str("SESSIONS_DIR", &c.Sessions.Dir)
	duration("SESSIONS_TTL", &c.Sessions.TTL)
	str("SESSIONS_ENCRYPTION_KEY", &c.Sessions.EncryptionKey)
	str("REDIS_ADDR", &c.Redis.Addr)
	str("REDIS_PASSWORD", &c.Redis.Password)
	integer("REDIS_DB", &c.Redis.DB)
	str("REDIS_PREFIX", &c.Redis.Prefix)
	boolean("LOCKING_DISTRIBUTED", &c.Locking.Distributed)
	duration("LOCKING_TTL", &c.Locking.TTL)
	unsigned("RETRY_STOCK_ATTEMPTS", &c.Retry.StockAttempts)
	duration("RETRY_STOCK_BASE", &c.Retry.StockBase)
	unsigned("RETRY_STORE_ATTEMPTS", &c.Retry.StoreAttempts)
	duration("RETRY_STORE_TIMEOUT", &c.Retry.StoreTimeout)

	return errors.Join(errs...)
}

// Validate rejects unknown drivers and combinations that cannot work.
func (c *Config) Validate() error {
	var errs []error
	oneOf := func(field, v string, allowed []string) {
		for _, a := range allowed {
			if v == a {
				return
			}
		}
		errs = append(errs, fmt.Errorf("%s: unknown value %q (want one of %s)", field, v, strings.Join(allowed, ", ")))
	}

	oneOf("store.driver", c.Store.Driver, storeDrivers)
	oneOf("sessions.driver", c.Sessions.Driver, sessionDrivers)
	oneOf("mcp.transport", c.MCP.Transport, mcpTransports)

	if c.Store.Driver == "postgres" && c.Store.DSN == "" {
		errs = append(errs, errors.New("store.dsn is required for postgres"))
	}
	if c.Sessions.Driver == "sqlite" && c.Store.Driver != "sqlite" {
		errs = append(errs, errors.New("sessions.driver sqlite requires store.driver sqlite"))
	}
	if c.Locking.Distributed && c.Sessions.Driver != "redis" {
		errs = append(errs, errors.New("locking.distributed requires sessions.driver redis"))
	}
	if c.Sessions.EncryptionKey != "" {
		if _, err := middleware.DecodeKey(c.Sessions.EncryptionKey); err != nil {
			errs = append(errs, fmt.Errorf("sessions.encryption_key: %w", err))
		}
		for i, k := range c.Sessions.FallbackKeys {
			if _, err := middleware.DecodeKey(k); err != nil {
				errs = append(errs, fmt.Errorf("sessions.fallback_keys[%d]: %w", i, err))
			}
		}
	}
	if c.Retry.StockAttempts == 0 {
		errs = append(errs, errors.New("retry.stock_attempts must be at least 1"))
	}
	return errors.Join(errs...)
}
