package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/moore/internal/logging"
)

type (
	// Config holds the settings shared by every moore command
	Config struct {
		LogLevel string

		// Snapshot storage
		Store    string
		StoreDir string
		Redis    RedisConfig

		// Hex encoded AES-256 keys; when StoreKey is set snapshots are sealed at rest
		StoreKey          string
		StoreFallbackKeys []string

		// API Server
		APIHost string
		APIPort int

		// Definition file loaded at startup, if any
		Definition      string
		ShutdownTimeout time.Duration
	}

	// RedisConfig configures the Redis snapshot store
	RedisConfig struct {
		Addr     string
		Password string
		DB       int
		Prefix   string
		TTL      time.Duration
	}
)

const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"

	DefaultAPIPort         = 8080
	DefaultAPIHost         = "127.0.0.1"
	MaxTCPPort             = 65535
	DefaultStoreDir        = ".moore/snapshots"
	DefaultRedisEndpoint   = "localhost:6379"
	DefaultRedisPrefix     = "moore:snapshot:"
	DefaultShutdownTimeout = 5 * time.Second
	MaxRedisDB             = 15
)

var (
	ErrInvalidAPIPort  = errors.New("invalid API port")
	ErrInvalidStore    = errors.New("invalid snapshot store")
	ErrInvalidLogLevel = errors.New("invalid log level")
	ErrMissingStoreDir = errors.New("file store requires a directory")
	ErrMissingRedis    = errors.New("redis store requires an address")
	ErrInvalidRedisTTL = errors.New("redis TTL cannot be negative")
	ErrInvalidStoreKey = errors.New("store key must be 64 hex characters")
)

// NewDefaultConfig creates a configuration that keeps snapshots in memory
func NewDefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Store:    StoreMemory,
		StoreDir: DefaultStoreDir,
		Redis: RedisConfig{
			Addr:   DefaultRedisEndpoint,
			Prefix: DefaultRedisPrefix,
		},
		APIHost:         DefaultAPIHost,
		APIPort:         DefaultAPIPort,
		ShutdownTimeout: DefaultShutdownTimeout,
	}
}

// LoadFromEnv populates configuration values from MOORE_* environment
// variables. Returns an error if any env var cannot be parsed.
func (c *Config) LoadFromEnv() error {
	loadEnvString("MOORE_LOG_LEVEL", &c.LogLevel)
	loadEnvString("MOORE_STORE", &c.Store)
	loadEnvString("MOORE_STORE_DIR", &c.StoreDir)
	loadEnvString("MOORE_REDIS_ADDR", &c.Redis.Addr)
	loadEnvString("MOORE_REDIS_PASSWORD", &c.Redis.Password)
	loadEnvString("MOORE_REDIS_PREFIX", &c.Redis.Prefix)
	loadEnvString("MOORE_API_HOST", &c.APIHost)
	loadEnvString("MOORE_DEFINITION", &c.Definition)
	loadEnvString("MOORE_STORE_KEY", &c.StoreKey)
	if keys := os.Getenv("MOORE_STORE_FALLBACK_KEYS"); keys != "" {
		c.StoreFallbackKeys = strings.Split(keys, ",")
	}

	if err := loadEnvInt("MOORE_API_PORT", &c.APIPort, 0, MaxTCPPort); err != nil {
		return err
	}
	if err := loadEnvInt("MOORE_REDIS_DB", &c.Redis.DB, -1, MaxRedisDB); err != nil {
		return err
	}
	if ttl := os.Getenv("MOORE_REDIS_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return fmt.Errorf("invalid MOORE_REDIS_TTL: %q", ttl)
		}
		c.Redis.TTL = d
	}
	return nil
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidLogLevel, c.LogLevel)
	}

	if c.APIPort <= 0 || c.APIPort > MaxTCPPort {
		return fmt.Errorf("%w: %d", ErrInvalidAPIPort, c.APIPort)
	}

	if c.StoreKey != "" {
		if _, err := c.StoreKeys(); err != nil {
			return err
		}
	}

	switch c.Store {
	case StoreMemory:
	case StoreFile:
		if c.StoreDir == "" {
			return ErrMissingStoreDir
		}
	case StoreRedis:
		if c.Redis.Addr == "" {
			return ErrMissingRedis
		}
		if c.Redis.TTL < 0 {
			return ErrInvalidRedisTTL
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidStore, c.Store)
	}
	return nil
}

// StoreKeys decodes the active store key followed by the fallback keys
func (c *Config) StoreKeys() ([][]byte, error) {
	var keys [][]byte
	for _, k := range append([]string{c.StoreKey}, c.StoreFallbackKeys...) {
		b, err := hex.DecodeString(strings.TrimSpace(k))
		if err != nil || len(b) != 32 {
			return nil, ErrInvalidStoreKey
		}
		keys = append(keys, b)
	}
	return keys, nil
}

// APIAddr returns host:port for the HTTP server
func (c *Config) APIAddr() string {
	return fmt.Sprintf("%s:%d", c.APIHost, c.APIPort)
}

func loadEnvString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// loadEnvInt reads key from the environment, parses it as an integer, and
// sets *dst if the value is in the range (min, max]
func loadEnvInt[T ~int | ~int64](key string, dst *T, min, max T) error {
	s := os.Getenv(key)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid %s: %q", key, s)
	}
	tv := T(v)
	if tv <= min || tv > max {
		return fmt.Errorf("invalid %s: %d out of range [%d, %d]",
			key, tv, min+1, max)
	}
	*dst = tv
	return nil
}
