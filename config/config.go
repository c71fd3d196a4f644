// Package config loads websession settings from a YAML file, an optional
// .env file, and WEBSESSION_* environment variables, in that order of
// precedence (environment wins).
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Credential media.
const (
	MediumFile   = "file"
	MediumRedis  = "redis"
	MediumMemory = "memory"
)

// Config contains everything a host needs to wire a session.
type Config struct {
	Origin     string       `yaml:"origin"`
	LogLevel   string       `yaml:"log_level"`
	Medium     string       `yaml:"medium"`
	ProfileDir string       `yaml:"profile_dir"`
	Redis      RedisConfig  `yaml:"redis"`
	Routes     RoutesConfig `yaml:"routes"`
	HTTP       HTTPConfig   `yaml:"http"`
}

type RedisConfig struct {
	Addr   string `yaml:"addr"`
	DB     int    `yaml:"db"`
	Prefix string `yaml:"prefix"`
}

type RoutesConfig struct {
	Protected  []string `yaml:"protected"`
	GuestOnly  []string `yaml:"guest_only"`
	Login      string   `yaml:"login"`
	Register   string   `yaml:"register"`
	Home       string   `yaml:"home"`
	AfterLogin string   `yaml:"after_login"`
}

type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout"`
	LogoutTimeout time.Duration `yaml:"logout_timeout"`
	UserAgent     string        `yaml:"user_agent"`
}

// Load reads the YAML file at path (a missing file is fine), applies
// defaults and then environment overrides.
func Load(path string) (Config, error) {
	// a .env next to the working directory is optional
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg = applyDefaults(cfg)
	cfg = applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings that cannot be defaulted.
func (c Config) Validate() error {
	u, err := url.Parse(c.Origin)
	if err != nil || !u.IsAbs() {
		return fmt.Errorf("config: origin %q must be an absolute url", c.Origin)
	}

	switch c.Medium {
	case MediumFile:
		if c.ProfileDir == "" {
			return errors.New("config: profile_dir is required for the file medium")
		}
	case MediumRedis:
		if c.Redis.Addr == "" {
			return errors.New("config: redis.addr is required for the redis medium")
		}
	case MediumMemory:
	default:
		return fmt.Errorf("config: unknown medium %q", c.Medium)
	}
	return nil
}

func applyDefaults(cfg Config) Config {
	if cfg.Origin == "" {
		cfg.Origin = "http://localhost:8000"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Medium == "" {
		cfg.Medium = MediumFile
	}
	if cfg.ProfileDir == "" {
		cfg.ProfileDir = defaultProfileDir()
	}
	if cfg.Redis.Prefix == "" {
		cfg.Redis.Prefix = "websession"
	}
	if len(cfg.Routes.Protected) == 0 {
		cfg.Routes.Protected = []string{"/dashboard", "/upload"}
	}
	if cfg.Routes.Login == "" {
		cfg.Routes.Login = "/login"
	}
	if cfg.Routes.Register == "" {
		cfg.Routes.Register = "/register"
	}
	if cfg.Routes.Home == "" {
		cfg.Routes.Home = "/"
	}
	if cfg.Routes.AfterLogin == "" {
		cfg.Routes.AfterLogin = "/dashboard"
	}
	if cfg.HTTP.Timeout == 0 {
		cfg.HTTP.Timeout = 30 * time.Second
	}
	if cfg.HTTP.UserAgent == "" {
		cfg.HTTP.UserAgent = "websession/1"
	}
	return cfg
}

func applyEnv(cfg Config) Config {
	cfg.Origin = EnvString("WEBSESSION_ORIGIN", cfg.Origin)
	cfg.LogLevel = EnvString("WEBSESSION_LOG_LEVEL", cfg.LogLevel)
	cfg.Medium = EnvString("WEBSESSION_MEDIUM", cfg.Medium)
	cfg.ProfileDir = EnvString("WEBSESSION_PROFILE_DIR", cfg.ProfileDir)
	cfg.Redis.Addr = EnvString("WEBSESSION_REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.DB = EnvInt("WEBSESSION_REDIS_DB", cfg.Redis.DB)
	cfg.Redis.Prefix = EnvString("WEBSESSION_REDIS_PREFIX", cfg.Redis.Prefix)
	cfg.Routes.Protected = EnvList("WEBSESSION_PROTECTED_ROUTES", cfg.Routes.Protected)
	cfg.Routes.GuestOnly = EnvList("WEBSESSION_GUEST_ONLY_ROUTES", cfg.Routes.GuestOnly)
	cfg.HTTP.Timeout = EnvDuration("WEBSESSION_HTTP_TIMEOUT", cfg.HTTP.Timeout)
	cfg.HTTP.LogoutTimeout = EnvDuration("WEBSESSION_LOGOUT_TIMEOUT", cfg.HTTP.LogoutTimeout)
	return cfg
}

func defaultProfileDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "websession")
}
