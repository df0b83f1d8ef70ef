package settings

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

//go:embed presets/*.toml
var embedded embed.FS

// ErrUnknownPreset is returned when a quality name is not in the collection.
var ErrUnknownPreset = errors.New("unknown quality preset")

// Preset is one graphics quality level.
type Preset struct {
	Name           string  `toml:"name"`
	RenderScale    float64 `toml:"render_scale"`
	Shadows        bool    `toml:"shadows"`
	ShadowDistance float64 `toml:"shadow_distance"`
	AntiAliasing   int     `toml:"anti_aliasing"`
	DrawDistance   float64 `toml:"draw_distance"`
	FPSCap         int     `toml:"fps_cap"` // zero means uncapped
}

// Collection is a named set of presets with a default entry.
type Collection struct {
	Name    string   `toml:"name"`
	Default string   `toml:"default"`
	Presets []Preset `toml:"presets"`
}

// Find returns the preset called name.
func (c Collection) Find(name string) (Preset, bool) {
	for _, p := range c.Presets {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Preset{}, false
}

// Settings is the shared configuration instance built at startup and handed
// to the components that need it.
type Settings struct {
	collection Collection
	quality    Preset
}

// Collection returns the preset collection the settings were built from.
func (s *Settings) Collection() Collection {
	presets := make([]Preset, len(s.collection.Presets))
	copy(presets, s.collection.Presets)
	c := s.collection
	c.Presets = presets
	return c
}

// Quality returns the active preset.
func (s *Settings) Quality() Preset {
	return s.quality
}

// SetQuality switches the active preset.
func (s *Settings) SetQuality(name string) error {
	p, ok := s.collection.Find(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	s.quality = p
	return nil
}

type options struct {
	presetsDir string
	quality    string
}

// Option customises CreateShared.
type Option func(*options)

// WithPresetsDir sets the directory searched for preset collections before
// the built-in ones.
func WithPresetsDir(dir string) Option {
	return func(o *options) { o.presetsDir = dir }
}

// WithQuality selects the active preset by name. An unknown name falls back
// to the collection default.
func WithQuality(name string) Option {
	return func(o *options) { o.quality = strings.TrimSpace(name) }
}

// CreateShared builds the settings instance from the preset collection at
// presetPath. presetPath is either a file path or a collection name; names are
// resolved against the presets directory first and the built-in collections
// second.
func CreateShared(presetPath string, opts ...Option) (*Settings, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	collection, err := loadCollection(presetPath, o.presetsDir)
	if err != nil {
		return nil, err
	}
	if len(collection.Presets) == 0 {
		return nil, fmt.Errorf("preset collection %q has no presets", collection.Name)
	}

	s := &Settings{collection: collection}

	quality := o.quality
	if quality == "" {
		quality = collection.Default
	}
	if err := s.SetQuality(quality); err != nil {
		if err := s.SetQuality(collection.Default); err != nil {
			s.quality = collection.Presets[0]
		}
	}
	return s, nil
}

func loadCollection(presetPath, presetsDir string) (Collection, error) {
	name := strings.TrimSpace(presetPath)
	if name == "" {
		return Collection{}, fmt.Errorf("preset path is empty")
	}

	var (
		data []byte
		err  error
	)
	switch {
	case strings.HasSuffix(name, ".toml") || filepath.IsAbs(name):
		data, err = os.ReadFile(name)
		if err != nil {
			return Collection{}, fmt.Errorf("read preset collection: %w", err)
		}
	default:
		data, err = readNamed(name, presetsDir)
		if err != nil {
			return Collection{}, err
		}
	}

	var c Collection
	if err := toml.Unmarshal(data, &c); err != nil {
		return Collection{}, fmt.Errorf("parse preset collection: %w", err)
	}
	if strings.TrimSpace(c.Name) == "" {
		c.Name = strings.TrimSuffix(filepath.Base(name), ".toml")
	}
	return c, nil
}

func readNamed(name, presetsDir string) ([]byte, error) {
	file := name + ".toml"
	if dir := strings.TrimSpace(presetsDir); dir != "" {
		data, err := os.ReadFile(filepath.Join(dir, file))
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read preset collection: %w", err)
		}
	}
	data, err := embedded.ReadFile("presets/" + file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("preset collection %q not found", name)
		}
		return nil, fmt.Errorf("read built-in preset collection: %w", err)
	}
	return data, nil
}
