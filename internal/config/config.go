// Package config loads the startup settings of the globe viewer. Files may be
// JSON, YAML or TOML; the format is picked from the extension.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"globe/internal/renderer"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var ErrUnknownFormat = errors.New("unknown config format")

// Duration is a time.Duration written as "15s" in every config format.
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

type WindowConfig struct {
	Width  int32  `json:"width" yaml:"width" toml:"width"`
	Height int32  `json:"height" yaml:"height" toml:"height"`
	Title  string `json:"title" yaml:"title" toml:"title"`
}

type SceneConfig struct {
	MeshResolution int     `json:"mesh_resolution" yaml:"mesh_resolution" toml:"mesh_resolution"`
	Lighting       string  `json:"lighting" yaml:"lighting" toml:"lighting"`
	UseTexture     bool    `json:"use_texture" yaml:"use_texture" toml:"use_texture"`
	CameraDistance float32 `json:"camera_distance" yaml:"camera_distance" toml:"camera_distance"`
	TiltAngle      float32 `json:"tilt_angle" yaml:"tilt_angle" toml:"tilt_angle"`
	MultiInstance  bool    `json:"multi_instance" yaml:"multi_instance" toml:"multi_instance"`
}

type BoundsConfig struct {
	MinResolution int     `json:"min_resolution" yaml:"min_resolution" toml:"min_resolution"`
	MaxResolution int     `json:"max_resolution" yaml:"max_resolution" toml:"max_resolution"`
	MinDistance   float32 `json:"min_distance" yaml:"min_distance" toml:"min_distance"`
	MaxDistance   float32 `json:"max_distance" yaml:"max_distance" toml:"max_distance"`
	MinTilt       float32 `json:"min_tilt" yaml:"min_tilt" toml:"min_tilt"`
	MaxTilt       float32 `json:"max_tilt" yaml:"max_tilt" toml:"max_tilt"`
}

type TextureConfig struct {
	// Location is a file path, a file:// or http(s):// URL, or procedural:<seed>.
	Location string   `json:"location" yaml:"location" toml:"location"`
	Timeout  Duration `json:"timeout" yaml:"timeout" toml:"timeout"`
	MaxSize  int      `json:"max_size" yaml:"max_size" toml:"max_size"`
}

type LogConfig struct {
	Level       string `json:"level" yaml:"level" toml:"level"`
	Development bool   `json:"development" yaml:"development" toml:"development"`
}

type Config struct {
	Window  WindowConfig  `json:"window" yaml:"window" toml:"window"`
	Scene   SceneConfig   `json:"scene" yaml:"scene" toml:"scene"`
	Bounds  BoundsConfig  `json:"bounds" yaml:"bounds" toml:"bounds"`
	Texture TextureConfig `json:"texture" yaml:"texture" toml:"texture"`
	Log     LogConfig     `json:"log" yaml:"log" toml:"log"`
	// Watch reloads the config file on change and applies scene edits live.
	Watch bool `json:"watch" yaml:"watch" toml:"watch"`

	path  string
	found bool
}

func Default() *Config {
	b := renderer.DefaultBounds()
	return &Config{
		Window: WindowConfig{Width: 630, Height: 400, Title: "Globe"},
		Scene: SceneConfig{
			MeshResolution: 30,
			Lighting:       renderer.LightingUniform.String(),
			CameraDistance: 6,
		},
		Bounds: BoundsConfig{
			MinResolution: b.MinResolution,
			MaxResolution: b.MaxResolution,
			MinDistance:   b.MinDistance,
			MaxDistance:   b.MaxDistance,
			MinTilt:       b.MinTilt,
			MaxTilt:       b.MaxTilt,
		},
		Texture: TextureConfig{
			Location: "procedural:1",
			Timeout:  Duration(30 * time.Second),
			MaxSize:  4096,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads path over the defaults. An empty path or a missing file yields
// the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("expanding %s: %w", path, err)
	}
	cfg.path = expanded

	data, err := os.ReadFile(expanded)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := Decode(data, formatOf(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", expanded, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", expanded, err)
	}
	cfg.found = true
	return cfg, nil
}

// Path is the expanded file the config was read from, if any.
func (c *Config) Path() string {
	return c.path
}

// Found reports whether Path existed and was decoded.
func (c *Config) Found() bool {
	return c.found
}

// Report logs where the settings came from. Load runs before the logger is
// configured from the result, so callers report once it is.
func (c *Config) Report(log *zap.Logger) {
	if !c.found {
		log.Info("No config file found, using defaults", zap.String("path", c.path))
		return
	}
	log.Info("Config loaded",
		zap.String("path", c.path),
		zap.Int("meshResolution", c.Scene.MeshResolution),
		zap.String("lighting", c.Scene.Lighting),
		zap.String("texture", c.Texture.Location))
}

func formatOf(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}

// Decode unmarshals data in the given format ("json", "yaml", "yml" or
// "toml") into cfg, leaving fields absent from data untouched.
func Decode(data []byte, format string, cfg *Config) error {
	switch format {
	case "json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		return dec.Decode(cfg)
	case "yaml", "yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return nil
	case "toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		return dec.Decode(cfg)
	}
	return fmt.Errorf("%w %q", ErrUnknownFormat, format)
}

// Validate rejects settings that cannot be rendered and clamps the initial
// scene into its bounds.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	b := c.Bounds
	if b.MinResolution < 1 || b.MaxResolution < b.MinResolution {
		return fmt.Errorf("resolution bounds [%d,%d] are invalid", b.MinResolution, b.MaxResolution)
	}
	if b.MinDistance <= 0 || b.MaxDistance < b.MinDistance {
		return fmt.Errorf("distance bounds [%g,%g] are invalid", b.MinDistance, b.MaxDistance)
	}
	if b.MaxTilt < b.MinTilt {
		return fmt.Errorf("tilt bounds [%g,%g] are invalid", b.MinTilt, b.MaxTilt)
	}
	lighting, err := renderer.ParseLighting(c.Scene.Lighting)
	if err != nil {
		return err
	}
	c.Scene.Lighting = lighting.String()
	if c.Texture.Timeout < 0 {
		return fmt.Errorf("texture timeout %s is negative", time.Duration(c.Texture.Timeout))
	}

	rb := c.RendererBounds()
	c.Scene.MeshResolution = rb.Resolution(c.Scene.MeshResolution)
	c.Scene.CameraDistance = rb.Distance(c.Scene.CameraDistance)
	c.Scene.TiltAngle = rb.Tilt(c.Scene.TiltAngle)
	return nil
}

func (c *Config) RendererBounds() renderer.Bounds {
	return renderer.Bounds{
		MinResolution: c.Bounds.MinResolution,
		MaxResolution: c.Bounds.MaxResolution,
		MinDistance:   c.Bounds.MinDistance,
		MaxDistance:   c.Bounds.MaxDistance,
		MinTilt:       c.Bounds.MinTilt,
		MaxTilt:       c.Bounds.MaxTilt,
	}
}

// Parameters builds the initial live parameters. The mesh is left nil for the
// render loop to build.
func (c *Config) Parameters() *renderer.Parameters {
	lighting, _ := renderer.ParseLighting(c.Scene.Lighting)
	p := &renderer.Parameters{
		UseTexture:     c.Scene.UseTexture,
		Lighting:       lighting,
		MeshResolution: c.Scene.MeshResolution,
		CameraDistance: c.Scene.CameraDistance,
		TiltAngle:      c.Scene.TiltAngle,
		MultiInstance:  c.Scene.MultiInstance,
		Bounds:         c.RendererBounds(),
	}
	p.Clamp()
	return p
}
