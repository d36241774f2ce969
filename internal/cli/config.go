package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/rnagraph/pkg/cache"
	"github.com/matzehuels/rnagraph/pkg/errors"
	"github.com/matzehuels/rnagraph/pkg/pipeline"
	"github.com/matzehuels/rnagraph/pkg/store"
)

// Cache backends accepted in the config file and by --cache.
const (
	backendFile  = "file"
	backendRedis = "redis"
	backendNone  = "none"
)

// Config is the contents of config.toml. Zero values mean "use the
// default"; command-line flags take precedence over every field.
//
//	[output]
//	formats = ["bg", "svg"]
//	detailed = true
//
//	[cache]
//	backend = "redis"
//
//	[redis]
//	addr = "localhost:6379"
//
//	[mongo]
//	uri = "mongodb://localhost:27017"
//	database = "rnagraph"
//
//	[server]
//	addr = ":8080"
//	timeout = "30s"
type Config struct {
	Output OutputConfig `toml:"output"`
	Cache  CacheConfig  `toml:"cache"`
	Redis  RedisConfig  `toml:"redis"`
	Mongo  MongoConfig  `toml:"mongo"`
	Server ServerConfig `toml:"server"`
}

type OutputConfig struct {
	Formats  []string `toml:"formats"`
	Detailed bool     `toml:"detailed"`
	Analysis bool     `toml:"analysis"`
	Scale    float64  `toml:"scale"`
}

type CacheConfig struct {
	Backend string `toml:"backend"`
	// Dir overrides the XDG cache directory for the file backend.
	Dir string `toml:"dir"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

type ServerConfig struct {
	Addr    string `toml:"addr"`
	Timeout string `toml:"timeout"`
}

// defaultConfig is what an absent config file amounts to.
func defaultConfig() Config {
	return Config{
		Output: OutputConfig{Formats: []string{pipeline.DefaultFormat}, Scale: pipeline.DefaultScale},
		Cache:  CacheConfig{Backend: backendFile},
		Redis:  RedisConfig{Addr: "localhost:6379", Prefix: appName + ":"},
		Mongo:  MongoConfig{Database: appName},
		Server: ServerConfig{Addr: ":8080", Timeout: "30s"},
	}
}

// loadConfig reads path on top of the defaults. An empty path selects the
// default location, which may be absent; an explicit path must exist.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(dir, "config.toml")
	}

	if _, err := os.Stat(path); err != nil {
		if !explicit && os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "config %s", path)
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidFormat, err, "config %s", path)
	}
	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	c.Cache.Backend = strings.ToLower(c.Cache.Backend)
	switch c.Cache.Backend {
	case "":
		c.Cache.Backend = backendFile
	case backendFile, backendRedis, backendNone:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown cache backend %q (must be file, redis or none)", c.Cache.Backend)
	}
	if len(c.Output.Formats) == 0 {
		c.Output.Formats = []string{pipeline.DefaultFormat}
	}
	if err := pipeline.ValidateFormats(c.Output.Formats); err != nil {
		return err
	}
	if _, err := c.timeout(); err != nil {
		return err
	}
	return nil
}

func (c *Config) timeout() (time.Duration, error) {
	if c.Server.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Server.Timeout)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "server timeout")
	}
	return d, nil
}

// openCache returns the configured cache backend. The file backend falls
// back to no caching when no cache directory can be determined.
func (c *Config) openCache(ctx context.Context) (cache.Cache, error) {
	switch c.Cache.Backend {
	case backendNone:
		return cache.NewNullCache(), nil
	case backendRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     c.Redis.Addr,
			Password: c.Redis.Password,
			DB:       c.Redis.DB,
			Prefix:   c.Redis.Prefix,
		})
	}
	dir := c.Cache.Dir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	return cache.NewFileCache(dir)
}

// openStore returns a MongoDB store when a URI is configured and an
// in-memory store otherwise.
func (c *Config) openStore(ctx context.Context) (store.Store, error) {
	if c.Mongo.URI == "" {
		return store.NewMemoryStore(), nil
	}
	return store.NewMongoStore(ctx, store.MongoConfig{
		URI:        c.Mongo.URI,
		Database:   c.Mongo.Database,
		Collection: c.Mongo.Collection,
	})
}
