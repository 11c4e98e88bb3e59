package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"globe/internal/renderer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, int32(630), cfg.Window.Width)
	assert.Equal(t, int32(400), cfg.Window.Height)
	assert.Equal(t, 30, cfg.Scene.MeshResolution)
	assert.Equal(t, "uniform", cfg.Scene.Lighting)
	assert.False(t, cfg.Scene.UseTexture)
	assert.False(t, cfg.Scene.MultiInstance)
	assert.Equal(t, float32(6), cfg.Scene.CameraDistance)
	assert.Equal(t, float32(0), cfg.Scene.TiltAngle)
	assert.Equal(t, renderer.DefaultBounds(), cfg.RendererBounds())
}

func TestLoadEmptyPathAndMissingFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Scene.MeshResolution)
}

func TestReportAfterLoad(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	log := zap.New(core)

	missing, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.False(t, missing.Found())
	missing.Report(log)

	found, err := Load(writeFile(t, "globe.yaml", "scene:\n  mesh_resolution: 12\n"))
	require.NoError(t, err)
	assert.True(t, found.Found())
	found.Report(log)

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, "No config file found, using defaults", entries[0].Message)
	assert.Equal(t, "Config loaded", entries[1].Message)
	assert.Equal(t, int64(12), entries[1].ContextMap()["meshResolution"])
}

func TestLoadFormats(t *testing.T) {
	cases := map[string]string{
		"globe.json": `{
  "scene": {"mesh_resolution": 40, "lighting": "Directional", "camera_distance": 8.5, "multi_instance": true},
  "texture": {"location": "earth.jpg", "timeout": "5s"}
}`,
		"globe.yaml": `
scene:
  mesh_resolution: 40
  lighting: Directional
  camera_distance: 8.5
  multi_instance: true
texture:
  location: earth.jpg
  timeout: 5s
`,
		"globe.toml": `
[scene]
mesh_resolution = 40
lighting = "Directional"
camera_distance = 8.5
multi_instance = true

[texture]
location = "earth.jpg"
timeout = "5s"
`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			cfg, err := Load(writeFile(t, name, body))
			require.NoError(t, err)

			assert.Equal(t, 40, cfg.Scene.MeshResolution)
			assert.Equal(t, "directional", cfg.Scene.Lighting, "lighting should be normalised")
			assert.Equal(t, float32(8.5), cfg.Scene.CameraDistance)
			assert.True(t, cfg.Scene.MultiInstance)
			assert.Equal(t, "earth.jpg", cfg.Texture.Location)
			assert.Equal(t, 5*time.Second, time.Duration(cfg.Texture.Timeout))
			// untouched sections keep their defaults
			assert.Equal(t, int32(630), cfg.Window.Width)
			assert.Equal(t, 4096, cfg.Texture.MaxSize)
		})
	}
}

func TestLoadClampsIntoBounds(t *testing.T) {
	path := writeFile(t, "globe.yaml", `
scene:
  mesh_resolution: 500
  camera_distance: 0.5
  tilt_angle: 135
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 75, cfg.Scene.MeshResolution)
	assert.Equal(t, float32(2), cfg.Scene.CameraDistance)
	assert.Equal(t, float32(90), cfg.Scene.TiltAngle)
}

func TestLoadRejects(t *testing.T) {
	cases := map[string]struct{ name, body string }{
		"unknown lighting": {"a.yaml", "scene:\n  lighting: phong\n"},
		"unknown field":    {"b.json", `{"scene": {"resolution": 3}}`},
		"bad window":       {"c.toml", "[window]\nwidth = 0\n"},
		"inverted bounds":  {"d.yaml", "bounds:\n  min_resolution: 50\n  max_resolution: 10\n"},
		"bad timeout":      {"e.yaml", "texture:\n  timeout: soon\n"},
		"malformed":        {"f.json", `{"scene": `},
	}
	for label, c := range cases {
		t.Run(label, func(t *testing.T) {
			_, err := Load(writeFile(t, c.name, c.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadUnknownExtension(t *testing.T) {
	_, err := Load(writeFile(t, "globe.ini", "x=1"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestEmptyYAMLKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeFile(t, "empty.yml", ""))
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Scene.MeshResolution)
}

func TestParameters(t *testing.T) {
	cfg := Default()
	cfg.Scene.Lighting = "directional"
	cfg.Scene.UseTexture = true
	cfg.Scene.TiltAngle = 23.5

	p := cfg.Parameters()

	assert.Equal(t, renderer.LightingDirectional, p.Lighting)
	assert.True(t, p.UseTexture)
	assert.Equal(t, 30, p.MeshResolution)
	assert.Equal(t, float32(23.5), p.TiltAngle)
	assert.Nil(t, p.Mesh)
}
