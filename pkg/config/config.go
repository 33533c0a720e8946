// Package config loads proctex settings from a TOML file.
//
// Defaults are applied first, then the file is decoded over them. Keys the
// file sets that no field knows about are rejected so typos do not pass
// silently. Command-line flags override the loaded values.
//
//	[render]
//	width = 512
//	height = 512
//	format = "png"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/proctex/pkg/errors"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the full configuration file.
type Config struct {
	Render RenderConfig `toml:"render"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
	Noise  NoiseConfig  `toml:"noise"`
}

// RenderConfig holds surface and encoding defaults.
type RenderConfig struct {
	Width   uint32   `toml:"width"`
	Height  uint32   `toml:"height"`
	Workers int      `toml:"workers"`
	Format  string   `toml:"format"`
	Scale   int      `toml:"scale"`
	Timeout Duration `toml:"timeout"`
}

// CacheConfig selects and configures the artifact cache.
type CacheConfig struct {
	Backend       string   `toml:"backend"`
	Dir           string   `toml:"dir"`
	TTL           Duration `toml:"ttl"`
	RedisAddr     string   `toml:"redis_addr"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr       string   `toml:"addr"`
	SessionTTL Duration `toml:"session_ttl"`
	// MaxPixels caps width x height x scale² of one HTTP render.
	MaxPixels int64 `toml:"max_pixels"`
}

// NoiseConfig sets the defaults passed to presets.
type NoiseConfig struct {
	Seed  int64   `toml:"seed"`
	Scale float64 `toml:"scale"`
}

// Duration is a time.Duration written as a string such as "30s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Render: RenderConfig{
			Width:   256,
			Height:  256,
			Format:  "png",
			Scale:   1,
			Timeout: Duration{30 * time.Second},
		},
		Cache: CacheConfig{
			Backend:   BackendFile,
			TTL:       Duration{7 * 24 * time.Hour},
			RedisAddr: "localhost:6379",
		},
		Server: ServerConfig{
			Addr:       ":8080",
			SessionTTL: Duration{time.Hour},
			MaxPixels:  4096 * 4096,
		},
		Noise: NoiseConfig{
			Seed:  1,
			Scale: 4,
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/proctex/config.toml, falling back to
// ~/.config/proctex/config.toml.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "proctex", "config.toml")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "proctex", "config.toml")
	}
	return ""
}

// Load reads path over the defaults. A missing file at the default path is
// not an error; a missing explicit path is.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Default(), errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Default(), errors.New(errors.ErrCodeInvalidConfig, "unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Default(), errors.Annotate(err, "config %s", path)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if err := errors.ValidateDimensions(c.Render.Width, c.Render.Height); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "render size")
	}
	if c.Render.Scale < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "render.scale must be at least 1")
	}
	if c.Render.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "render.workers must not be negative")
	}
	if c.Server.MaxPixels < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "server.max_pixels must be at least 1")
	}
	if !slices.Contains([]string{BackendFile, BackendRedis, BackendNone}, c.Cache.Backend) {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	return nil
}
