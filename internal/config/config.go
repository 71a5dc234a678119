// Package config loads the conetree configuration file.
//
// Configuration is TOML, read from the XDG config directory
// (~/.config/conetree/config.toml) unless an explicit path is given.
// A missing file is not an error: every field has a default, and the
// file only overrides what it names.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/conetree/pkg/layout"
	"github.com/matzehuels/conetree/pkg/pipeline"
	"github.com/matzehuels/conetree/pkg/session"
)

// appName is the application name used for directories.
const appName = "conetree"

// Config is the full configuration tree.
type Config struct {
	Layout  Layout  `toml:"layout"`
	Viewer  Viewer  `toml:"viewer"`
	Render  Render  `toml:"render"`
	Cache   Cache   `toml:"cache"`
	Session Session `toml:"session"`
	Serve   Serve   `toml:"serve"`
}

// Layout sets the default layout parameters for every command.
type Layout struct {
	Axis         string  `toml:"axis"`
	Proportional bool    `toml:"proportional"`
	LevelHeight  float64 `toml:"level_height"`
	RadiusFactor float64 `toml:"radius_factor"`
	BottomMargin float64 `toml:"bottom_margin"`
}

// Viewer configures the interactive terminal viewer.
type Viewer struct {
	// Speed is the initial animation speed multiplier.
	Speed float64 `toml:"speed"`
	// AutoSpin starts the animation clock immediately.
	AutoSpin bool `toml:"auto_spin"`
}

// Render sets the default output options.
type Render struct {
	Style  string `toml:"style"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

// Cache selects and configures the cache backend.
type Cache struct {
	// Backend is "file", "redis", or "none".
	Backend string `toml:"backend"`
	// Dir overrides the file cache directory.
	Dir string `toml:"dir"`

	RedisAddress  string `toml:"redis_address"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// Session selects and configures saved-session storage.
type Session struct {
	// Backend is "file" or "mongo".
	Backend string `toml:"backend"`
	// Dir overrides the file store directory.
	Dir string `toml:"dir"`

	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`

	// TTLHours is the session lifetime in hours.
	TTLHours int `toml:"ttl_hours"`
}

// Serve configures the HTTP API server.
type Serve struct {
	// Address is the listen address, host:port.
	Address string `toml:"address"`
	// TimeoutSeconds bounds each request.
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// Default returns the configuration used when no file overrides it.
func Default() Config {
	return Config{
		Layout: Layout{
			Axis:         "vertical",
			LevelHeight:  layout.DefaultLevelHeight,
			RadiusFactor: layout.DefaultBaseRadiusFactor,
			BottomMargin: layout.DefaultBottomMargin,
		},
		Viewer: Viewer{
			Speed: 1.0,
		},
		Render: Render{
			Style:  pipeline.DefaultStyle,
			Width:  pipeline.DefaultWidth,
			Height: pipeline.DefaultHeight,
		},
		Cache: Cache{
			Backend: "file",
		},
		Session: Session{
			Backend:  "file",
			TTLHours: int(session.DefaultTTL.Hours()),
		},
		Serve: Serve{
			Address:        ":8080",
			TimeoutSeconds: 60,
		},
	}
}

// Load reads the configuration at path, or the default location when
// path is empty. Missing files yield the defaults.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return Default(), nil
		}
	}

	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) && !explicit {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// DefaultPath returns the XDG config file location
// (~/.config/conetree/config.toml).
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// CacheDir returns the configured file cache directory, defaulting to
// the XDG cache home (~/.cache/conetree).
func (c Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// SessionDir returns the configured session store directory, defaulting
// to a sessions/ directory under the cache home.
func (c Config) SessionDir() (string, error) {
	if c.Session.Dir != "" {
		return c.Session.Dir, nil
	}
	dir, err := c.CacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "sessions"), nil
}

func (c Config) validate() error {
	if _, err := layout.ParseAxis(c.Layout.Axis); err != nil {
		return err
	}
	if err := pipeline.ValidateStyle(c.Render.Style); err != nil {
		return err
	}
	switch c.Cache.Backend {
	case "file", "redis", "none":
	default:
		return fmt.Errorf("invalid cache backend: %q (must be file, redis, or none)", c.Cache.Backend)
	}
	switch c.Session.Backend {
	case "file", "mongo":
	default:
		return fmt.Errorf("invalid session backend: %q (must be file or mongo)", c.Session.Backend)
	}
	if c.Viewer.Speed <= 0 {
		return fmt.Errorf("viewer speed must be positive")
	}
	return nil
}
