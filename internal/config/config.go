// Package config loads seatmap settings from a TOML file and the
// environment.
//
// Precedence, lowest first: built-in defaults, the config file, SEATMAP_*
// variables from a .env file in the working directory, the process
// environment, command-line flags (applied by the CLI).
//
//	[store]
//	backend = "redis"
//
//	[store.redis]
//	addr = "localhost:6379"
//
//	[editor]
//	history_limit = 100
//	drag_delay = "150ms"
//
//	[server]
//	addr = ":8080"
//
//	[export]
//	cache_ttl = "168h"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/matzehuels/seatmap/pkg/editor"
	"github.com/matzehuels/seatmap/pkg/errors"
	"github.com/matzehuels/seatmap/pkg/layout"
	"github.com/matzehuels/seatmap/pkg/records"
	"github.com/matzehuels/seatmap/pkg/store"
)

const (
	appName    = "seatmap"
	dotenvFile = ".env"
)

// Config is the complete settings tree.
type Config struct {
	Store  StoreConfig  `toml:"store"`
	Editor EditorConfig `toml:"editor"`
	Server ServerConfig `toml:"server"`
	Export ExportConfig `toml:"export"`
}

// StoreConfig selects the layout record backend.
type StoreConfig struct {
	Backend string      `toml:"backend"`
	Dir     string      `toml:"dir"`
	Redis   RedisConfig `toml:"redis"`
	Mongo   MongoConfig `toml:"mongo"`
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

// EditorConfig tunes the interactive editor.
type EditorConfig struct {
	HistoryLimit int  `toml:"history_limit"`
	AutoNumber   bool `toml:"auto_number"`

	DefaultRows int `toml:"default_rows"`
	DefaultCols int `toml:"default_cols"`
	MinRows     int `toml:"min_rows"`
	MaxRows     int `toml:"max_rows"`
	MinCols     int `toml:"min_cols"`
	MaxCols     int `toml:"max_cols"`

	DragDistance int           `toml:"drag_distance"`
	DragDelay    time.Duration `toml:"drag_delay"`
	DoubleClick  time.Duration `toml:"double_click"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr         string        `toml:"addr"`
	ReadTimeout  time.Duration `toml:"read_timeout"`
	WriteTimeout time.Duration `toml:"write_timeout"`
	MaxBodyBytes int64         `toml:"max_body_bytes"`
}

// ExportConfig controls PDF and PNG conversion. An empty CacheDir means
// $XDG_CACHE_HOME/seatmap.
type ExportConfig struct {
	Cache    bool          `toml:"cache"`
	CacheDir string        `toml:"cache_dir"`
	CacheTTL time.Duration `toml:"cache_ttl"`
	Scale    float64       `toml:"scale"`
}

// Default returns the built-in settings.
func Default() Config {
	g := editor.DefaultGestureConfig
	b := layout.DefaultBounds
	return Config{
		Store: StoreConfig{
			Backend: records.BackendFile,
			Redis:   RedisConfig{Addr: "localhost:6379", Prefix: records.DefaultRedisPrefix},
			Mongo: MongoConfig{
				URI:        records.DefaultMongoURI,
				Database:   records.DefaultMongoDatabase,
				Collection: records.DefaultMongoCollection,
			},
		},
		Editor: EditorConfig{
			HistoryLimit: store.DefaultHistoryLimit,
			AutoNumber:   true,
			DefaultRows:  12,
			DefaultCols:  4,
			MinRows:      b.MinRows,
			MaxRows:      b.MaxRows,
			MinCols:      b.MinCols,
			MaxCols:      b.MaxCols,
			DragDistance: g.MinDistance,
			DragDelay:    g.MinDelay,
			DoubleClick:  g.DoubleClickInterval,
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			MaxBodyBytes: 1 << 20,
		},
		Export: ExportConfig{
			Cache:    true,
			CacheTTL: 7 * 24 * time.Hour,
			Scale:    2,
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/seatmap/config.toml, falling back
// to ~/.config/seatmap/config.toml.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// DefaultCacheDir returns $XDG_CACHE_HOME/seatmap, falling back to
// ~/.cache/seatmap.
func DefaultCacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// Load reads path on top of the defaults and applies environment
// overrides. An empty path reads the default location if it exists; an
// explicit path must exist. Unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil || explicit {
			md, err := toml.DecodeFile(path, &cfg)
			if err != nil {
				return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config %s", path)
			}
			if undecoded := md.Undecoded(); len(undecoded) > 0 {
				keys := make([]string, len(undecoded))
				for i, k := range undecoded {
					keys[i] = k.String()
				}
				sort.Strings(keys)
				return cfg, errors.New(errors.ErrCodeInvalidInput, "config %s: unknown keys %s", path, strings.Join(keys, ", "))
			}
		}
	}

	lookup, err := EnvLookup(dotenvFile)
	if err != nil {
		return cfg, err
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// EnvLookup returns a lookup that prefers the process environment and
// falls back to the variables in dotenv. A missing file is not an error.
func EnvLookup(dotenv string) (LookupFunc, error) {
	vars, err := godotenv.Read(dotenv)
	if os.IsNotExist(err) {
		return os.LookupEnv, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", dotenv)
	}
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := vars[key]
		return v, ok
	}, nil
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overrides settings from SEATMAP_* variables.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.New(errors.ErrCodeInvalidInput, "%s: %q is not an integer", key, v)
		}
		*dst = n
		return nil
	}

	str("SEATMAP_STORE_BACKEND", &c.Store.Backend)
	str("SEATMAP_STORE_DIR", &c.Store.Dir)
	str("SEATMAP_REDIS_ADDR", &c.Store.Redis.Addr)
	str("SEATMAP_REDIS_PASSWORD", &c.Store.Redis.Password)
	str("SEATMAP_REDIS_PREFIX", &c.Store.Redis.Prefix)
	str("SEATMAP_MONGO_URI", &c.Store.Mongo.URI)
	str("SEATMAP_MONGO_DATABASE", &c.Store.Mongo.Database)
	str("SEATMAP_MONGO_COLLECTION", &c.Store.Mongo.Collection)
	str("SEATMAP_SERVER_ADDR", &c.Server.Addr)
	str("SEATMAP_CACHE_DIR", &c.Export.CacheDir)

	if err := num("SEATMAP_REDIS_DB", &c.Store.Redis.DB); err != nil {
		return err
	}
	return num("SEATMAP_HISTORY_LIMIT", &c.Editor.HistoryLimit)
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case records.BackendFile, records.BackendMemory, records.BackendRedis, records.BackendMongo:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown store backend %q", c.Store.Backend)
	}

	e := c.Editor
	if e.HistoryLimit < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "history_limit must be positive")
	}
	if e.MinRows < 1 || e.MinCols < 1 || e.MinRows > e.MaxRows || e.MinCols > e.MaxCols {
		return errors.New(errors.ErrCodeInvalidDimensions, "invalid grid bounds %dx%d..%dx%d", e.MinRows, e.MinCols, e.MaxRows, e.MaxCols)
	}
	if e.MaxRows > layout.MaxGridSpan || e.MaxCols > layout.MaxGridSpan {
		return errors.New(errors.ErrCodeInvalidDimensions, "grid bounds must not exceed %dx%d", layout.MaxGridSpan, layout.MaxGridSpan)
	}
	if err := errors.ValidateDimensions(e.DefaultRows, e.DefaultCols, e.Bounds()); err != nil {
		return fmt.Errorf("default grid: %w", err)
	}
	if e.DragDistance < 0 || e.DragDelay < 0 || e.DoubleClick < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "gesture thresholds must not be negative")
	}
	if c.Export.CacheTTL < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cache_ttl must not be negative")
	}
	if c.Export.Scale <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "export scale must be positive")
	}
	return nil
}

// Dir returns the artifact cache directory.
func (e ExportConfig) Dir() (string, error) {
	if e.CacheDir != "" {
		return e.CacheDir, nil
	}
	return DefaultCacheDir()
}

// Records returns the record store settings.
func (c Config) Records() records.Config {
	s := c.Store
	return records.Config{
		Backend:         s.Backend,
		Dir:             s.Dir,
		RedisAddr:       s.Redis.Addr,
		RedisPassword:   s.Redis.Password,
		RedisDB:         s.Redis.DB,
		RedisPrefix:     s.Redis.Prefix,
		MongoURI:        s.Mongo.URI,
		MongoDatabase:   s.Mongo.Database,
		MongoCollection: s.Mongo.Collection,
	}
}

// Bounds returns the grid size limits.
func (e EditorConfig) Bounds() layout.Bounds {
	return layout.Bounds{MinRows: e.MinRows, MaxRows: e.MaxRows, MinCols: e.MinCols, MaxCols: e.MaxCols}
}

// Gesture returns the pointer classification thresholds.
func (e EditorConfig) Gesture() editor.GestureConfig {
	return editor.GestureConfig{
		MinDistance:         e.DragDistance,
		MinDelay:            e.DragDelay,
		DoubleClickInterval: e.DoubleClick,
	}
}

// DefaultDimensions returns the grid size for a new layout.
func (e EditorConfig) DefaultDimensions() layout.Dimensions {
	return layout.Dimensions{Rows: e.DefaultRows, Cols: e.DefaultCols}
}
