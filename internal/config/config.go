package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config is the runtime configuration shared by the client, logger and UI.
type Config struct {
	APIBaseURL string
	APITimeout time.Duration
	AppName    string
	AppVersion string
	Debug      bool
	RateLimit  float64
	LogFile    string
	Theme      string
}

const (
	defaultConfigPath = "~/.config/roster/config.toml"
	defaultEnvFile    = ".env"
	defaultTimeout    = 10000 * time.Millisecond
	defaultAppName    = "roster"
	defaultAppVersion = "1.0.0"
	defaultRateLimit  = 10
	defaultLogFile    = "~/.local/state/roster/roster.log"
	defaultTheme      = "Nightfox"

	// BaseURLEnv names the variable that must supply the API root when the
	// config file does not.
	BaseURLEnv = "ROSTER_API_BASE_URL"
)

// ErrMissingBaseURL is returned by Validate when no source set the API root.
var ErrMissingBaseURL = errors.New("missing required configuration: " + BaseURLEnv)

// fileConfig mirrors config.toml. Pointers separate "absent" from zero.
type fileConfig struct {
	APIBaseURL   string   `toml:"api_base_url"`
	APITimeoutMS *int64   `toml:"api_timeout_ms"`
	AppName      string   `toml:"app_name"`
	AppVersion   string   `toml:"app_version"`
	Debug        *bool    `toml:"debug"`
	RateLimit    *float64 `toml:"rate_limit"`
	LogFile      string   `toml:"log_file"`
	Theme        string   `toml:"theme"`
}

// envConfig is decoded as strings so malformed numbers fall back instead of
// failing startup.
type envConfig struct {
	APIBaseURL string `env:"ROSTER_API_BASE_URL"`
	APITimeout string `env:"ROSTER_API_TIMEOUT"`
	AppName    string `env:"ROSTER_APP_NAME"`
	AppVersion string `env:"ROSTER_APP_VERSION"`
	Debug      string `env:"ROSTER_DEBUG"`
	RateLimit  string `env:"ROSTER_RATE_LIMIT"`
	LogFile    string `env:"ROSTER_LOG_FILE"`
	Theme      string `env:"ROSTER_THEME"`
}

// Default returns the built-in configuration. APIBaseURL is left empty.
func Default() Config {
	return Config{
		APITimeout: defaultTimeout,
		AppName:    defaultAppName,
		AppVersion: defaultAppVersion,
		RateLimit:  defaultRateLimit,
		LogFile:    mustExpand(defaultLogFile),
		Theme:      defaultTheme,
	}
}

// Load layers defaults, the TOML file at path, the dotenv file and the process
// environment, in that order. A blank path means the default config location
// and a blank envFile means ./.env; either may be missing unless named
// explicitly. Load does not validate; call Validate before use.
func Load(path, envFile string) (Config, error) {
	cfg := Default()

	if err := applyFile(&cfg, path); err != nil {
		return Config{}, err
	}
	if err := loadDotenv(envFile); err != nil {
		return Config{}, err
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	cfg.LogFile = mustExpand(cfg.LogFile)
	return cfg, nil
}

// Validate reports configuration that would make every request fail.
func (c Config) Validate() error {
	raw := strings.TrimSpace(c.APIBaseURL)
	if raw == "" {
		return ErrMissingBaseURL
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid api base url %q", raw)
	}
	return nil
}

func applyFile(cfg *Config, path string) error {
	explicit := strings.TrimSpace(path) != ""
	resolved, err := resolvePath(path)
	if err != nil {
		return err
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return nil
		}
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var raw fileConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	setString(&cfg.APIBaseURL, raw.APIBaseURL)
	setString(&cfg.AppName, raw.AppName)
	setString(&cfg.AppVersion, raw.AppVersion)
	setString(&cfg.LogFile, raw.LogFile)
	setString(&cfg.Theme, raw.Theme)
	if raw.APITimeoutMS != nil && *raw.APITimeoutMS > 0 {
		cfg.APITimeout = time.Duration(*raw.APITimeoutMS) * time.Millisecond
	}
	if raw.Debug != nil {
		cfg.Debug = *raw.Debug
	}
	if raw.RateLimit != nil {
		cfg.RateLimit = *raw.RateLimit
	}
	return nil
}

// loadDotenv never overrides variables already present in the environment.
func loadDotenv(envFile string) error {
	name := strings.TrimSpace(envFile)
	if name == "" {
		if err := godotenv.Load(defaultEnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", defaultEnvFile, err)
		}
		return nil
	}
	resolved, err := expandPath(name)
	if err != nil {
		return err
	}
	if err := godotenv.Load(resolved); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	var env envConfig
	if err := envdecode.Decode(&env); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return fmt.Errorf("decode environment: %w", err)
	}

	setString(&cfg.APIBaseURL, env.APIBaseURL)
	setString(&cfg.AppName, env.AppName)
	setString(&cfg.AppVersion, env.AppVersion)
	setString(&cfg.LogFile, env.LogFile)
	setString(&cfg.Theme, env.Theme)

	if ms, err := strconv.ParseInt(strings.TrimSpace(env.APITimeout), 10, 64); err == nil && ms > 0 {
		cfg.APITimeout = time.Duration(ms) * time.Millisecond
	}
	if v := strings.TrimSpace(env.Debug); v != "" {
		cfg.Debug = v == "true"
	}
	if rps, err := strconv.ParseFloat(strings.TrimSpace(env.RateLimit), 64); err == nil {
		cfg.RateLimit = rps
	}
	return nil
}

func setString(dst *string, value string) {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		*dst = trimmed
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
