// Package config loads Lineascope configuration from a TOML file with
// environment variable overrides for deployment settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const (
	envListenAddr = "LINEASCOPE_LISTEN_ADDR"
	envExtractURL = "LINEASCOPE_EXTRACT_URL"
	envExtractKey = "LINEASCOPE_EXTRACT_API_KEY"
	envRedisAddr  = "LINEASCOPE_REDIS_ADDR"
	envMongoURI   = "LINEASCOPE_MONGO_URI"
)

// Config is the root configuration document.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Extract ExtractConfig `toml:"extract"`
	Cache   CacheConfig   `toml:"cache"`
	Store   StoreConfig   `toml:"store"`
	Render  RenderConfig  `toml:"render"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	ListenAddr string `toml:"listen_addr"`
}

// ExtractConfig configures the lineage extraction service client.
type ExtractConfig struct {
	URL    string `toml:"url"`
	APIKey string `toml:"api_key"`
}

// CacheConfig selects and configures the cache backend.
// Backend is one of "file", "redis", or "none".
type CacheConfig struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// StoreConfig selects and configures the document store backend.
// Backend is one of "file" or "mongo".
type StoreConfig struct {
	Backend         string `toml:"backend"`
	Dir             string `toml:"dir"`
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// RenderConfig holds rendering defaults.
type RenderConfig struct {
	Theme string `toml:"theme"`
}

// Default returns the baseline configuration used when no file exists.
func Default() *Config {
	return &Config{
		Server:  ServerConfig{ListenAddr: ":8080"},
		Cache:   CacheConfig{Backend: "file"},
		Store:   StoreConfig{Backend: "file"},
		Render:  RenderConfig{Theme: "light"},
		Extract: ExtractConfig{},
	}
}

// DefaultPath returns the standard config file location,
// ~/.config/lineascope/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "lineascope", "config.toml"), nil
}

// Load reads configuration from the given path, falling back to defaults
// for anything unset. A missing file is not an error; environment
// variables override file values either way. An empty path means the
// default location.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err == nil {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(envListenAddr); v != "" {
		cfg.Server.ListenAddr = v
	}
	if v := os.Getenv(envExtractURL); v != "" {
		cfg.Extract.URL = v
	}
	if v := os.Getenv(envExtractKey); v != "" {
		cfg.Extract.APIKey = v
	}
	if v := os.Getenv(envRedisAddr); v != "" {
		cfg.Cache.Backend = "redis"
		cfg.Cache.RedisAddr = v
	}
	if v := os.Getenv(envMongoURI); v != "" {
		cfg.Store.Backend = "mongo"
		cfg.Store.MongoURI = v
	}
}
