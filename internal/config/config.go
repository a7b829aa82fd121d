// Package config loads the igitt configuration file and applies
// environment overrides on top of it.
//
// The file is TOML, read from $IGITT_CONFIG or ~/.config/igitt/config.toml:
//
//	[github]
//	token = "ghp_..."
//
//	[gitlab]
//	token = "glpat-..."
//	token_type = "private"
//
//	[cache]
//	backend = "file"
//	ttl = "24h"
//
//	[webhook]
//	addr = ":8080"
//	github_secret = "..."
//
// A missing file is not an error; every field has a usable default.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// CacheBackend selects where conditional-request validators are stored.
type CacheBackend string

const (
	CacheMemory CacheBackend = "memory"
	CacheFile   CacheBackend = "file"
	CacheRedis  CacheBackend = "redis"
	CacheNone   CacheBackend = "none"
)

// GitLab token kinds.
const (
	TokenPrivate = "private"
	TokenOAuth   = "oauth"
)

// Config is the complete igitt configuration.
type Config struct {
	GitHub  GitHub  `toml:"github"`
	GitLab  GitLab  `toml:"gitlab"`
	Cache   Cache   `toml:"cache"`
	Webhook Webhook `toml:"webhook"`

	// Path is the file the configuration was read from, or "" if none.
	Path string `toml:"-"`
}

type GitHub struct {
	Token   string `toml:"token"`
	BaseURL string `toml:"base_url"`

	// GitHub App credentials. When AppID is set the CLI authenticates as
	// the installation instead of using Token.
	AppID          int64  `toml:"app_id"`
	InstallationID int64  `toml:"installation_id"`
	PrivateKeyFile string `toml:"private_key_file"`
}

type GitLab struct {
	Token     string `toml:"token"`
	TokenType string `toml:"token_type"`
	BaseURL   string `toml:"base_url"`
}

type Cache struct {
	Backend       CacheBackend `toml:"backend"`
	Dir           string       `toml:"dir"`
	RedisAddr     string       `toml:"redis_addr"`
	RedisPassword string       `toml:"redis_password"`
	RedisDB       int          `toml:"redis_db"`
	TTL           Duration     `toml:"ttl"`
}

type Webhook struct {
	Addr         string `toml:"addr"`
	GitHubSecret string `toml:"github_secret"`
	GitLabSecret string `toml:"gitlab_secret"`
}

// Duration is a time.Duration written as a string such as "90m".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		GitLab:  GitLab{TokenType: TokenPrivate},
		Cache:   Cache{Backend: CacheMemory},
		Webhook: Webhook{Addr: ":8080"},
	}
}

// DefaultPath returns ~/.config/igitt/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "igitt", "config.toml"), nil
}

// Load reads the configuration from path, or from $IGITT_CONFIG or
// [DefaultPath] when path is empty, and applies environment overrides.
func Load(path string) (Config, error) {
	return LoadWithEnv(path, os.Getenv)
}

// LoadWithEnv is Load with an injectable environment lookup.
func LoadWithEnv(path string, getenv func(string) string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		if p := getenv("IGITT_CONFIG"); p != "" {
			path, explicit = p, true
		} else if p, err := DefaultPath(); err == nil {
			path = p
		}
	}

	if path != "" {
		_, err := toml.DecodeFile(path, &cfg)
		switch {
		case err == nil:
			cfg.Path = path
		case errors.Is(err, os.ErrNotExist) && !explicit:
		default:
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(getenv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("GITHUB_TOKEN"); v != "" {
		c.GitHub.Token = v
	}
	if v := getenv("GITLAB_TOKEN"); v != "" {
		c.GitLab.Token = v
	}
	if v := getenv("IGITT_CACHE"); v != "" {
		c.Cache.Backend = CacheBackend(v)
	}
	if v := getenv("REDIS_ADDR"); v != "" {
		c.Cache.RedisAddr = v
		if getenv("IGITT_CACHE") == "" && c.Cache.Backend == CacheMemory {
			c.Cache.Backend = CacheRedis
		}
	}
	if v := getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("REDIS_DB must be an integer, got %q", v)
		}
		c.Cache.RedisDB = db
	}
	return nil
}

// Validate rejects unknown enum values and incomplete credentials.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case CacheMemory, CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New("cache backend redis requires redis_addr or REDIS_ADDR")
		}
	default:
		return fmt.Errorf("unknown cache backend %q (want memory, file, redis or none)", c.Cache.Backend)
	}

	switch c.GitLab.TokenType {
	case TokenPrivate, TokenOAuth:
	default:
		return fmt.Errorf("unknown gitlab token_type %q (want private or oauth)", c.GitLab.TokenType)
	}

	if c.GitHub.AppID != 0 {
		if c.GitHub.InstallationID <= 0 {
			return errors.New("github app_id requires installation_id")
		}
		if c.GitHub.PrivateKeyFile == "" {
			return errors.New("github app_id requires private_key_file")
		}
	}
	if c.Cache.TTL.Duration < 0 {
		return fmt.Errorf("cache ttl must not be negative, got %s", c.Cache.TTL)
	}
	return nil
}
