package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/rendererhost/internal/kernel"
)

// Config captures the renderer host settings.
type Config struct {
	LogFile   string
	FPS       int
	Transport Transport
	Debug     Debug
	Display   Display
	Settings  Settings
}

// Transport configures the kernel WebSocket endpoint.
type Transport struct {
	StartPort int
	CertFile  string
	KeyFile   string
}

// Debug mirrors the editor override: when enabled it pins the start port and
// decides whether the transport uses TLS.
type Debug struct {
	Enabled      bool
	WebSocketSSL bool
	StartPort    int
}

// DisplayMode is one supported resolution.
type DisplayMode struct {
	Width       int     `toml:"width"`
	Height      int     `toml:"height"`
	RefreshRate float64 `toml:"refresh_rate"`
}

// Display describes the display surface the host reports to the guard.
type Display struct {
	Modes      []DisplayMode
	Current    DisplayMode
	Fullscreen string
}

// Settings locates the graphics quality presets.
type Settings struct {
	PresetsDir string
	PresetPath string
}

const (
	defaultConfigPath = "~/.config/rendererhost/config.toml"
	defaultLogFile    = "~/.local/share/rendererhost/logs/rendererhost.log"
	defaultPresetsDir = "~/.config/rendererhost/presets"
	defaultPresetPath = "DesktopGraphicsQualityPresets"
	defaultFullscreen = "fullscreen_window"
	defaultFPS        = 30
)

var defaultModes = []DisplayMode{
	{Width: 800, Height: 600, RefreshRate: 60},
	{Width: 1024, Height: 768, RefreshRate: 60},
	{Width: 1280, Height: 720, RefreshRate: 60},
	{Width: 1600, Height: 900, RefreshRate: 60},
	{Width: 1920, Height: 1080, RefreshRate: 60},
}

// Default returns the configuration used when no file exists.
func Default() Config {
	modes := make([]DisplayMode, len(defaultModes))
	copy(modes, defaultModes)
	return Config{
		LogFile:   mustExpand(defaultLogFile),
		FPS:       defaultFPS,
		Transport: Transport{StartPort: kernel.DefaultStartPort},
		Debug:     Debug{StartPort: kernel.DefaultDebugStartPort},
		Display: Display{
			Modes:      modes,
			Current:    modes[len(modes)-1],
			Fullscreen: defaultFullscreen,
		},
		Settings: Settings{
			PresetsDir: mustExpand(defaultPresetsDir),
			PresetPath: defaultPresetPath,
		},
	}
}

// Load locates and parses the config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		LogFile   string `toml:"log_file"`
		FPS       int    `toml:"fps"`
		Transport struct {
			StartPort int    `toml:"start_port"`
			CertFile  string `toml:"cert_file"`
			KeyFile   string `toml:"key_file"`
		} `toml:"transport"`
		Debug struct {
			Enabled      bool `toml:"enabled"`
			WebSocketSSL bool `toml:"websocket_ssl"`
			StartPort    int  `toml:"start_port"`
		} `toml:"debug"`
		Display struct {
			Modes      []DisplayMode `toml:"modes"`
			Current    *DisplayMode  `toml:"current"`
			Fullscreen string        `toml:"fullscreen"`
		} `toml:"display"`
		Settings struct {
			PresetsDir string `toml:"presets_dir"`
			Preset     string `toml:"preset"`
		} `toml:"settings"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if logFile := strings.TrimSpace(raw.LogFile); logFile != "" {
		cfg.LogFile = mustExpand(logFile)
	}
	if raw.FPS > 0 {
		cfg.FPS = raw.FPS
	}

	if raw.Transport.StartPort != 0 {
		cfg.Transport.StartPort = raw.Transport.StartPort
	}
	if err := validatePort("transport.start_port", cfg.Transport.StartPort); err != nil {
		return Config{}, err
	}
	if certFile := strings.TrimSpace(raw.Transport.CertFile); certFile != "" {
		cfg.Transport.CertFile = mustExpand(certFile)
	}
	if keyFile := strings.TrimSpace(raw.Transport.KeyFile); keyFile != "" {
		cfg.Transport.KeyFile = mustExpand(keyFile)
	}

	cfg.Debug.Enabled = raw.Debug.Enabled
	cfg.Debug.WebSocketSSL = raw.Debug.WebSocketSSL
	if raw.Debug.StartPort != 0 {
		cfg.Debug.StartPort = raw.Debug.StartPort
	}
	if err := validatePort("debug.start_port", cfg.Debug.StartPort); err != nil {
		return Config{}, err
	}

	if len(raw.Display.Modes) > 0 {
		cfg.Display.Modes = raw.Display.Modes
		cfg.Display.Current = raw.Display.Modes[len(raw.Display.Modes)-1]
	}
	if raw.Display.Current != nil {
		cfg.Display.Current = *raw.Display.Current
	}
	if fullscreen := strings.TrimSpace(raw.Display.Fullscreen); fullscreen != "" {
		cfg.Display.Fullscreen = fullscreen
	}

	if dir := strings.TrimSpace(raw.Settings.PresetsDir); dir != "" {
		cfg.Settings.PresetsDir = mustExpand(dir)
	}
	if preset := strings.TrimSpace(raw.Settings.Preset); preset != "" {
		cfg.Settings.PresetPath = preset
	}

	return cfg, nil
}

func validatePort(field string, port int) error {
	if port < 1 || port > kernel.MaxStartPort {
		return fmt.Errorf("invalid %s %d: must be between 1 and %d", field, port, kernel.MaxStartPort)
	}
	return nil
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

