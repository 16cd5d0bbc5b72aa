package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir %s: %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Errorf("restore working directory: %v", err)
		}
	})
}

var envKeys = []string{
	"ROSTER_API_BASE_URL",
	"ROSTER_API_TIMEOUT",
	"ROSTER_APP_NAME",
	"ROSTER_APP_VERSION",
	"ROSTER_DEBUG",
	"ROSTER_RATE_LIMIT",
	"ROSTER_LOG_FILE",
	"ROSTER_THEME",
}

// isolate unsets every roster variable for the test and points HOME and the
// working directory at temp dirs so no real config or .env is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	for _, key := range envKeys {
		if old, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { _ = os.Setenv(key, old) })
		} else {
			t.Cleanup(func() { _ = os.Unsetenv(key) })
		}
		_ = os.Unsetenv(key)
	}
	home := t.TempDir()
	t.Setenv("HOME", home)
	chdir(t, t.TempDir())
	return home
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load("", "")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APITimeout != 10*time.Second {
		t.Fatalf("APITimeout = %v, want 10s", cfg.APITimeout)
	}
	if cfg.AppName != "roster" || cfg.AppVersion != "1.0.0" {
		t.Fatalf("app = %q %q, want roster 1.0.0", cfg.AppName, cfg.AppVersion)
	}
	if cfg.Debug {
		t.Fatalf("Debug = true, want false")
	}
	if cfg.RateLimit != 10 {
		t.Fatalf("RateLimit = %v, want 10", cfg.RateLimit)
	}
	if cfg.Theme != "Nightfox" {
		t.Fatalf("Theme = %q, want Nightfox", cfg.Theme)
	}
	want := filepath.Join(home, ".local", "state", "roster", "roster.log")
	if cfg.LogFile != want {
		t.Fatalf("LogFile = %q, want %q", cfg.LogFile, want)
	}
	if cfg.APIBaseURL != "" {
		t.Fatalf("APIBaseURL = %q, want empty", cfg.APIBaseURL)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := isolate(t)

	path := writeFile(t, "config.toml", `
api_base_url = "  https://api.example.com/v1  "
api_timeout_ms = 2500
app_name = "Roster Dev"
debug = true
rate_limit = 0
log_file = "  ~/logs/roster.log  "
theme = "Kanagawa"
`)

	cfg, err := Load(path, "")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBaseURL != "https://api.example.com/v1" {
		t.Fatalf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.APITimeout != 2500*time.Millisecond {
		t.Fatalf("APITimeout = %v, want 2.5s", cfg.APITimeout)
	}
	if cfg.AppName != "Roster Dev" || cfg.AppVersion != "1.0.0" {
		t.Fatalf("app = %q %q", cfg.AppName, cfg.AppVersion)
	}
	if !cfg.Debug {
		t.Fatalf("Debug = false, want true")
	}
	if cfg.RateLimit != 0 {
		t.Fatalf("RateLimit = %v, want explicit 0", cfg.RateLimit)
	}
	if !strings.HasPrefix(cfg.LogFile, home) {
		t.Fatalf("LogFile = %q, want it under HOME %q", cfg.LogFile, home)
	}
	if cfg.Theme != "Kanagawa" {
		t.Fatalf("Theme = %q", cfg.Theme)
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	isolate(t)
	path := writeFile(t, "config.toml", "api_base_url = [")

	_, err := Load(path, "")
	if err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("err = %v, want parse config error", err)
	}
}

func TestLoad_ExplicitMissingPathFails(t *testing.T) {
	isolate(t)

	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml"), ""); err == nil {
		t.Fatalf("expected error for explicit missing config")
	}
	if _, err := Load("", filepath.Join(t.TempDir(), "nope.env")); err == nil {
		t.Fatalf("expected error for explicit missing env file")
	}
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	isolate(t)
	path := writeFile(t, "config.toml", `
api_base_url = "https://file.example.com"
api_timeout_ms = 2500
debug = true
`)
	t.Setenv("ROSTER_API_BASE_URL", "https://env.example.com")
	t.Setenv("ROSTER_API_TIMEOUT", "3000")
	t.Setenv("ROSTER_DEBUG", "yes")
	t.Setenv("ROSTER_RATE_LIMIT", "2.5")
	t.Setenv("ROSTER_APP_VERSION", "2.0.0")

	cfg, err := Load(path, "")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBaseURL != "https://env.example.com" {
		t.Fatalf("APIBaseURL = %q, want env value", cfg.APIBaseURL)
	}
	if cfg.APITimeout != 3*time.Second {
		t.Fatalf("APITimeout = %v, want 3s", cfg.APITimeout)
	}
	if cfg.Debug {
		t.Fatalf("Debug = true, only the literal \"true\" enables it")
	}
	if cfg.RateLimit != 2.5 {
		t.Fatalf("RateLimit = %v, want 2.5", cfg.RateLimit)
	}
	if cfg.AppVersion != "2.0.0" {
		t.Fatalf("AppVersion = %q", cfg.AppVersion)
	}
}

func TestLoad_NonNumericTimeoutKeepsDefault(t *testing.T) {
	isolate(t)
	t.Setenv("ROSTER_API_TIMEOUT", "soon")
	t.Setenv("ROSTER_RATE_LIMIT", "fast")

	cfg, err := Load("", "")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APITimeout != 10*time.Second {
		t.Fatalf("APITimeout = %v, want default", cfg.APITimeout)
	}
	if cfg.RateLimit != 10 {
		t.Fatalf("RateLimit = %v, want default", cfg.RateLimit)
	}
}

func TestLoad_DotenvDoesNotOverrideEnvironment(t *testing.T) {
	isolate(t)
	envFile := writeFile(t, "roster.env", "ROSTER_API_BASE_URL=https://dotenv.example.com\nROSTER_APP_NAME=from-dotenv\n")
	t.Setenv("ROSTER_APP_NAME", "from-env")

	cfg, err := Load("", envFile)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBaseURL != "https://dotenv.example.com" {
		t.Fatalf("APIBaseURL = %q, want dotenv value", cfg.APIBaseURL)
	}
	if cfg.AppName != "from-env" {
		t.Fatalf("AppName = %q, want environment to win", cfg.AppName)
	}
}

func TestLoad_PicksUpDotenvInWorkingDir(t *testing.T) {
	isolate(t)
	if err := os.WriteFile(".env", []byte("ROSTER_THEME=Slate\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load("", "")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Theme != "Slate" {
		t.Fatalf("Theme = %q, want Slate", cfg.Theme)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); !errors.Is(err, ErrMissingBaseURL) {
		t.Fatalf("Validate() = %v, want ErrMissingBaseURL", err)
	}
	if got := ErrMissingBaseURL.Error(); got != "missing required configuration: ROSTER_API_BASE_URL" {
		t.Fatalf("message = %q", got)
	}

	for _, bad := range []string{"not a url", "ftp://example.com", "/relative/path", "https://"} {
		cfg.APIBaseURL = bad
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), "invalid api base url") {
			t.Fatalf("Validate(%q) = %v, want invalid api base url", bad, err)
		}
	}

	cfg.APIBaseURL = "https://jsonplaceholder.typicode.com"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}
