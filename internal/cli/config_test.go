package cli

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/matzehuels/rnagraph/pkg/cache"
	"github.com/matzehuels/rnagraph/pkg/errors"
	"github.com/matzehuels/rnagraph/pkg/store"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.toml")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.Cache.Backend != backendFile {
		t.Errorf("Cache.Backend = %q, want %q", cfg.Cache.Backend, backendFile)
	}
	if !slices.Equal(cfg.Output.Formats, []string{"bg"}) {
		t.Errorf("Output.Formats = %v", cfg.Output.Formats)
	}
	if cfg.Server.Addr != ":8080" || cfg.Mongo.Database != appName {
		t.Errorf("defaults = %+v", cfg)
	}
}

func TestLoadConfigFile(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	writeConfig(t, filepath.Join(xdg, appName), `
[output]
formats = ["svg", "elements"]
detailed = true

[cache]
backend = "Redis"

[redis]
addr = "cache:6379"
db = 2

[server]
addr = ":9000"
timeout = "5s"
`)

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if !slices.Equal(cfg.Output.Formats, []string{"svg", "elements"}) || !cfg.Output.Detailed {
		t.Errorf("Output = %+v", cfg.Output)
	}
	if cfg.Cache.Backend != backendRedis {
		t.Errorf("Cache.Backend = %q, want %q", cfg.Cache.Backend, backendRedis)
	}
	if cfg.Redis.Addr != "cache:6379" || cfg.Redis.DB != 2 {
		t.Errorf("Redis = %+v", cfg.Redis)
	}
	// Unset keys keep their defaults.
	if cfg.Redis.Prefix != appName+":" || cfg.Output.Scale != 2 {
		t.Errorf("defaults lost: %+v", cfg)
	}
	if d, err := cfg.timeout(); err != nil || d != 5*time.Second {
		t.Errorf("timeout() = %v, %v", d, err)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
		code    errors.Code
	}{
		{"syntax", "[output\nformats = 1", errors.ErrCodeInvalidFormat},
		{"backend", "[cache]\nbackend = \"memcached\"", errors.ErrCodeInvalidInput},
		{"format", "[output]\nformats = [\"gif\"]", errors.ErrCodeInvalidInput},
		{"timeout", "[server]\ntimeout = \"soon\"", errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, filepath.Join(dir, tt.name), tt.content)
			if _, err := loadConfig(path); !errors.Is(err, tt.code) {
				t.Errorf("loadConfig() error = %v, want %s", err, tt.code)
			}
		})
	}

	if _, err := loadConfig(filepath.Join(dir, "missing.toml")); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("explicit missing config error = %v", err)
	}
}

func TestOpenCache(t *testing.T) {
	ctx := context.Background()

	cfg := defaultConfig()
	cfg.Cache.Backend = backendNone
	c, err := cfg.openCache(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(cache.NullCache); !ok {
		t.Errorf("none backend = %T", c)
	}

	cfg.Cache.Backend = backendFile
	cfg.Cache.Dir = t.TempDir()
	c, err = cfg.openCache(ctx)
	if err != nil {
		t.Fatal(err)
	}
	fc, ok := c.(*cache.FileCache)
	if !ok || fc.Dir() != cfg.Cache.Dir {
		t.Errorf("file backend = %T", c)
	}
}

func TestOpenStore(t *testing.T) {
	cfg := defaultConfig()
	st, err := cfg.openStore(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := st.(*store.MemoryStore); !ok {
		t.Errorf("store without URI = %T, want *store.MemoryStore", st)
	}
}
