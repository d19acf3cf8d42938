// Package config loads the twbisect configuration file.
//
// The file is TOML and every key is optional:
//
//	workers   = 8
//	log_level = "debug"
//
//	[cache]
//	backend    = "redis"          # file (default), redis or none
//	dir        = "/var/cache/twbisect"
//	redis_addr = "localhost:6379"
//	ttl        = "72h"
//	prefix     = "staging:"       # prepended to every cache key
//
//	[server]
//	addr         = ":8080"
//	max_vertices = 5000           # 0 disables the bound
//	max_width    = 20
//
//	[store]
//	mongo_uri = "mongodb://localhost:27017"
//	database  = "twbisect"
//
// A missing file yields [Default]. Unknown keys are rejected so that typos
// do not silently fall back to defaults.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/twbisect/pkg/cache"
	twerrors "github.com/matzehuels/twbisect/pkg/errors"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the parsed configuration file.
type Config struct {
	Workers  int    `toml:"workers"`
	LogLevel string `toml:"log_level"`

	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
	Store  StoreConfig  `toml:"store"`
}

// CacheConfig selects the result cache.
type CacheConfig struct {
	Backend   string        `toml:"backend"`
	Dir       string        `toml:"dir"` // file backend; empty = cache.DefaultDir()
	RedisAddr string        `toml:"redis_addr"`
	TTL       time.Duration `toml:"ttl"`
	Prefix    string        `toml:"prefix"`
}

// ServerConfig configures `twbisect serve`. The bounds reject requests whose
// graph or decomposition would not fit in memory.
type ServerConfig struct {
	Addr        string `toml:"addr"`
	MaxVertices int    `toml:"max_vertices"`
	MaxWidth    int    `toml:"max_width"`
}

// Server limit defaults. A width-20 table has 2^21 rows per forgotten count.
const (
	DefaultMaxVertices = 5000
	DefaultMaxWidth    = 20
)

// StoreConfig configures run history. An empty MongoURI keeps runs in memory.
type StoreConfig struct {
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		LogLevel: "info",
		Cache: CacheConfig{
			Backend: BackendFile,
			TTL:     cache.TTLResult,
		},
		Server: ServerConfig{
			Addr:        ":8080",
			MaxVertices: DefaultMaxVertices,
			MaxWidth:    DefaultMaxWidth,
		},
		Store:  StoreConfig{Database: "twbisect"},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/twbisect/config.toml, falling back to
// the platform's user config directory.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "twbisect", "config.toml"), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "twbisect", "config.toml"), nil
}

// Load reads the file at path on top of [Default]. An empty path means
// [DefaultPath]. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return cfg, twerrors.Wrap(twerrors.ErrCodeInvalidFormat, err, "config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, twerrors.New(twerrors.ErrCodeInvalidInput, "config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return cfg, cfg.Validate()
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if err := twerrors.ValidateWorkers(c.Workers); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	switch c.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			return twerrors.New(twerrors.ErrCodeInvalidInput, "cache backend redis needs redis_addr")
		}
	default:
		return twerrors.New(twerrors.ErrCodeInvalidInput, "unknown cache backend %q (want file, redis or none)", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return twerrors.New(twerrors.ErrCodeInvalidInput, "cache ttl must not be negative, got %s", c.Cache.TTL)
	}
	if c.Server.MaxVertices < 0 || c.Server.MaxWidth < 0 {
		return twerrors.New(twerrors.ErrCodeInvalidInput, "server limits must not be negative")
	}
	return nil
}

// Level parses LogLevel. Empty means info.
func (c Config) Level() (log.Level, error) {
	if c.LogLevel == "" {
		return log.InfoLevel, nil
	}
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel, twerrors.Wrap(twerrors.ErrCodeInvalidInput, err, "log_level")
	}
	return lvl, nil
}
