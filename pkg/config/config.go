// Package config loads topicmap settings from a TOML file and the
// environment.
//
// Precedence, lowest to highest: built-in defaults, the config file
// ($XDG_CONFIG_HOME/topicmap/config.toml unless a path is given), then
// environment variables. Command-line flags are applied by the caller on
// top of the returned Config.
//
// Example file:
//
//	[openai]
//	model = "gpt-4o"
//
//	[store]
//	driver = "sqlite"
//
//	[cache]
//	driver = "redis"
//	redis_addr = "localhost:6379"
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// AppName names the config, data and cache directories.
const AppName = "topicmap"

// Store drivers.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
	StoreMongo  = "mongo"
)

// Cache drivers.
const (
	CacheFile   = "file"
	CacheRedis  = "redis"
	CacheMemory = "memory"
	CacheNone   = "none"
)

// Environment variables read by [Load].
const (
	EnvOpenAIKey   = "OPENAI_API_KEY"
	EnvOpenAIModel = "TOPICMAP_OPENAI_MODEL"
	EnvOpenAIURL   = "TOPICMAP_OPENAI_BASE_URL"
	EnvStore       = "TOPICMAP_STORE"
	EnvSQLitePath  = "TOPICMAP_SQLITE_PATH"
	EnvMongoURI    = "TOPICMAP_MONGO_URI"
	EnvCache       = "TOPICMAP_CACHE"
	EnvRedisAddr   = "TOPICMAP_REDIS_ADDR"
	EnvServerAddr  = "TOPICMAP_ADDR"
)

// Config is the full application configuration.
type Config struct {
	OpenAI OpenAI `toml:"openai"`
	Store  Store  `toml:"store"`
	Cache  Cache  `toml:"cache"`
	Server Server `toml:"server"`
	Layout Layout `toml:"layout"`
}

// OpenAI configures the topic generation client.
type OpenAI struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	MaxTokens      int    `toml:"max_tokens"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	// MaxDocumentRunes bounds the document text sent per request.
	MaxDocumentRunes int `toml:"max_document_runes"`
}

// Store selects and configures the saved-map backend.
type Store struct {
	Driver   string `toml:"driver"`
	Path     string `toml:"path"` // sqlite database file
	URI      string `toml:"uri"`  // mongo connection string
	Database string `toml:"database"`
}

// Cache selects and configures the pipeline cache.
type Cache struct {
	Driver        string `toml:"driver"`
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	RedisPrefix   string `toml:"redis_prefix"`
}

// Server configures the HTTP API.
type Server struct {
	Addr        string `toml:"addr"`
	MaxUploadMB int    `toml:"max_upload_mb"`
	// LinkTemplate is the default href for interactive nodes, with {topic}
	// replaced by the escaped title.
	LinkTemplate string `toml:"link_template"`
}

// Layout holds layout defaults. Zero values defer to the engine defaults.
type Layout struct {
	Iterations int    `toml:"iterations"`
	Seed       uint64 `toml:"seed"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		OpenAI: OpenAI{
			BaseURL:          "https://api.openai.com/v1",
			Model:            "gpt-4o",
			MaxTokens:        3000,
			TimeoutSeconds:   120,
			MaxDocumentRunes: 60000,
		},
		Store: Store{
			Driver:   StoreSQLite,
			Database: AppName,
		},
		Cache: Cache{
			Driver:      CacheFile,
			RedisPrefix: AppName + ":",
		},
		Server: Server{
			Addr:         ":8080",
			MaxUploadMB:  20,
			LinkTemplate: "/topics/{topic}",
		},
	}
}

// Load reads the config file at path and applies environment overrides.
// An empty path means [Path]; a missing default file is not an error, a
// missing explicit file is.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err == nil {
			path = p
		}
	}

	if path != "" {
		meta, err := toml.DecodeFile(path, cfg)
		switch {
		case errors.Is(err, fs.ErrNotExist) && !explicit:
		case err != nil:
			return nil, fmt.Errorf("load config %s: %w", path, err)
		default:
			if undecoded := meta.Undecoded(); len(undecoded) > 0 {
				keys := make([]string, len(undecoded))
				for i, k := range undecoded {
					keys[i] = k.String()
				}
				return nil, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
			}
		}
	}

	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	cfg.fillPaths()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.OpenAI.APIKey, EnvOpenAIKey)
	set(&c.OpenAI.Model, EnvOpenAIModel)
	set(&c.OpenAI.BaseURL, EnvOpenAIURL)
	set(&c.Store.Driver, EnvStore)
	set(&c.Store.Path, EnvSQLitePath)
	set(&c.Cache.Driver, EnvCache)
	set(&c.Cache.RedisAddr, EnvRedisAddr)
	set(&c.Server.Addr, EnvServerAddr)

	if uri := getenv(EnvMongoURI); uri != "" {
		c.Store.URI = uri
		if getenv(EnvStore) == "" {
			c.Store.Driver = StoreMongo
		}
	}
	if v := getenv("TOPICMAP_REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TOPICMAP_REDIS_DB: %w", err)
		}
		c.Cache.RedisDB = db
	}
	return nil
}

// fillPaths resolves empty file locations to their XDG defaults.
func (c *Config) fillPaths() {
	if c.Store.Driver == StoreSQLite && c.Store.Path == "" {
		if dir, err := DataDir(); err == nil {
			c.Store.Path = filepath.Join(dir, AppName+".db")
		}
	}
	if c.Cache.Driver == CacheFile && c.Cache.Dir == "" {
		if dir, err := CacheDir(); err == nil {
			c.Cache.Dir = dir
		}
	}
}

// Validate reports settings that cannot work.
func (c *Config) Validate() error {
	var errs []error
	if !slices.Contains([]string{StoreMemory, StoreSQLite, StoreMongo}, c.Store.Driver) {
		errs = append(errs, fmt.Errorf("store.driver: unknown driver %q", c.Store.Driver))
	}
	if c.Store.Driver == StoreMongo && c.Store.URI == "" {
		errs = append(errs, errors.New("store.uri: required for the mongo driver"))
	}
	if !slices.Contains([]string{CacheFile, CacheRedis, CacheMemory, CacheNone}, c.Cache.Driver) {
		errs = append(errs, fmt.Errorf("cache.driver: unknown driver %q", c.Cache.Driver))
	}
	if c.Cache.Driver == CacheRedis && c.Cache.RedisAddr == "" {
		errs = append(errs, errors.New("cache.redis_addr: required for the redis driver"))
	}
	if c.OpenAI.MaxTokens < 0 {
		errs = append(errs, fmt.Errorf("openai.max_tokens: must not be negative, got %d", c.OpenAI.MaxTokens))
	}
	if c.Server.MaxUploadMB < 0 {
		errs = append(errs, fmt.Errorf("server.max_upload_mb: must not be negative, got %d", c.Server.MaxUploadMB))
	}
	return errors.Join(errs...)
}

// =============================================================================
// Paths
// =============================================================================

// Path returns the default config file location.
func Path() (string, error) {
	dir, err := xdgDir("XDG_CONFIG_HOME", ".config")
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// CacheDir returns the cache directory (~/.cache/topicmap/).
func CacheDir() (string, error) { return xdgDir("XDG_CACHE_HOME", ".cache") }

// DataDir returns the data directory (~/.local/share/topicmap/).
func DataDir() (string, error) { return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share")) }

func xdgDir(env, fallback string) (string, error) {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, fallback, AppName), nil
}
