package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/twbisect/pkg/cache"
	twerrors "github.com/matzehuels/twbisect/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
	if cfg.Cache.TTL != cache.TTLResult {
		t.Errorf("default ttl = %s", cfg.Cache.TTL)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
workers = 4
log_level = "debug"

[cache]
backend = "redis"
redis_addr = "localhost:6379"
ttl = "2h"
prefix = "staging:"

[server]
addr = "127.0.0.1:9000"
max_width = 12

[store]
mongo_uri = "mongodb://localhost:27017"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Workers != 4 {
		t.Errorf("Workers = %d", cfg.Workers)
	}
	if cfg.Cache.Backend != BackendRedis || cfg.Cache.RedisAddr != "localhost:6379" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Cache.TTL != 2*time.Hour {
		t.Errorf("TTL = %s, want 2h", cfg.Cache.TTL)
	}
	if cfg.Cache.Prefix != "staging:" {
		t.Errorf("Cache.Prefix = %q", cfg.Cache.Prefix)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.Server.MaxWidth != 12 || cfg.Server.MaxVertices != DefaultMaxVertices {
		t.Errorf("Server limits = %d, %d", cfg.Server.MaxWidth, cfg.Server.MaxVertices)
	}
	// Unset keys keep their defaults.
	if cfg.Store.Database != "twbisect" {
		t.Errorf("Store.Database = %q, want default", cfg.Store.Database)
	}
	lvl, err := cfg.Level()
	if err != nil || lvl != log.DebugLevel {
		t.Errorf("Level() = %v, %v", lvl, err)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    twerrors.Code
	}{
		{"syntax", "workers = = 1", twerrors.ErrCodeInvalidFormat},
		{"unknown key", "wrokers = 2", twerrors.ErrCodeInvalidInput},
		{"negative workers", "workers = -1", twerrors.ErrCodeInvalidInput},
		{"bad level", `log_level = "loud"`, twerrors.ErrCodeInvalidInput},
		{"bad backend", "[cache]\nbackend = \"s3\"", twerrors.ErrCodeInvalidInput},
		{"redis without addr", "[cache]\nbackend = \"redis\"", twerrors.ErrCodeInvalidInput},
		{"negative max width", "[server]\nmax_width = -1", twerrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("Load() succeeded, want error")
			}
			if got := twerrors.GetCode(err); got != tt.code {
				t.Errorf("code = %s, want %s (%v)", got, tt.code, err)
			}
		})
	}
}

func TestDefaultPathXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	path, err := DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/tmp/xdg", "twbisect", "config.toml"); path != want {
		t.Errorf("DefaultPath() = %q, want %q", path, want)
	}
}

func TestLoadEmptyPathUsesDefault(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load(\"\") = %+v, want defaults", cfg)
	}
}
