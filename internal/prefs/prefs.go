// Package prefs persists settings roster changes at runtime, such as the
// theme picked with T. They live apart from config.toml so roster never
// rewrites a file the user edits by hand.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Prefs holds remembered UI choices. Empty fields mean "not chosen yet".
type Prefs struct {
	Theme string `toml:"theme,omitempty"`
}

const defaultPath = "~/.config/roster/prefs.toml"

// DefaultPath returns the unexpanded default preferences path.
func DefaultPath() string {
	return defaultPath
}

// Load reads preferences from path, or the default path when empty. A
// missing file yields zero Prefs and no error.
func Load(path string) (Prefs, error) {
	resolved, err := resolve(path)
	if err != nil {
		return Prefs{}, err
	}

	raw, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Prefs{}, nil
		}
		return Prefs{}, fmt.Errorf("read prefs: %w", err)
	}

	var p Prefs
	if err := toml.Unmarshal(raw, &p); err != nil {
		return Prefs{}, fmt.Errorf("parse prefs %s: %w", resolved, err)
	}
	p.Theme = strings.TrimSpace(p.Theme)
	return p, nil
}

// Save writes p to path, creating parent directories. The file is replaced
// atomically so a crash never leaves half a file behind.
func Save(path string, p Prefs) error {
	resolved, err := resolve(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	raw, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".prefs-*.toml")
	if err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := os.Rename(tmp.Name(), resolved); err != nil {
		return fmt.Errorf("replace prefs: %w", err)
	}
	return nil
}

func resolve(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		trimmed = defaultPath
	}
	if rest, ok := strings.CutPrefix(trimmed, "~"); ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, rest)
	}
	return filepath.Abs(trimmed)
}
