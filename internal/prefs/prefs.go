// Package prefs persists the renderer host's per-user choices: the loading
// screen theme and the graphics quality preset. The file lives at
// ~/.config/rendererhost/prefs.toml unless a path is given.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Prefs is the content of prefs.toml.
type Prefs struct {
	Theme   string `toml:"theme"`
	Quality string `toml:"quality"` // preset name; empty selects the collection default
}

const (
	defaultPrefsPath = "~/.config/rendererhost/prefs.toml"
	defaultTheme     = "Dusk"
)

// DefaultPath is the location used when callers pass an empty path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Defaults returns the preferences of a fresh install.
func Defaults() Prefs {
	return Prefs{Theme: defaultTheme}
}

// Load returns the stored preferences. A missing, unreadable or malformed
// file yields Defaults; the error is always nil so callers never block
// startup on a preferences problem.
func Load(path string) (Prefs, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Defaults(), nil
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return Defaults(), nil
	}

	var p Prefs
	if err := toml.Unmarshal(data, &p); err != nil {
		return Defaults(), nil
	}
	return p.normalized(), nil
}

// Save writes p to path. The file is replaced through a temporary sibling so
// a crash mid-write never leaves a truncated prefs.toml behind.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve prefs path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	data, err := toml.Marshal(p.normalized())
	if err != nil {
		return fmt.Errorf("encode prefs: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(resolved), ".prefs-*.toml")
	if err != nil {
		return fmt.Errorf("create temp prefs: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
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

func (p Prefs) normalized() Prefs {
	p.Theme = strings.TrimSpace(p.Theme)
	if p.Theme == "" {
		p.Theme = defaultTheme
	}
	p.Quality = strings.TrimSpace(p.Quality)
	return p
}

func resolvePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = defaultPrefsPath
	}
	if rest, ok := strings.CutPrefix(path, "~"); ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		path = filepath.Join(home, rest)
	}
	return filepath.Abs(path)
}
