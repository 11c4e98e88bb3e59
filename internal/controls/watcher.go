package controls

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"globe/internal/config"
	"globe/internal/logger"
	"globe/internal/renderer"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Diff returns one Commit event per scene field that differs between old and
// updated.
func Diff(old, updated config.SceneConfig) []Event {
	var events []Event
	if updated.UseTexture != old.UseTexture {
		events = append(events, UseTexture(updated.UseTexture))
	}
	if updated.Lighting != old.Lighting {
		l, err := renderer.ParseLighting(updated.Lighting)
		if err == nil {
			events = append(events, SetLighting(l))
		}
	}
	if updated.MultiInstance != old.MultiInstance {
		events = append(events, MultiInstance(updated.MultiInstance))
	}
	if updated.MeshResolution != old.MeshResolution {
		events = append(events, Resolution(float64(updated.MeshResolution), Commit))
	}
	if updated.CameraDistance != old.CameraDistance {
		events = append(events, Distance(updated.CameraDistance, Commit))
	}
	if updated.TiltAngle != old.TiltAngle {
		events = append(events, Tilt(updated.TiltAngle, Commit))
	}
	return events
}

// WatchConfig reloads cfg's file whenever it changes and sends the scene
// differences as Commit events. Only the scene section is live; other edits
// need a restart. The channel is closed when ctx is done.
func WatchConfig(ctx context.Context, cfg *config.Config) (<-chan Event, error) {
	path := cfg.Path()
	if path == "" {
		return nil, fmt.Errorf("config was not loaded from a file")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Editors often replace the file instead of writing it, so watch the
	// directory and filter by name.
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watching %s: %w", path, err)
	}

	out := make(chan Event, 16)
	last := *cfg
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")

	go func() {
		defer close(out)
		defer w.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Log.Warn("Config watcher error", zap.Error(err))
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != filepath.Clean(path) || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				next, err := reload(path, format, last)
				if err != nil {
					logger.Log.Warn("Ignoring config change", zap.String("path", path), zap.Error(err))
					continue
				}
				for _, e := range Diff(last.Scene, next.Scene) {
					select {
					case out <- e:
					case <-ctx.Done():
						return
					}
				}
				last = next
			}
		}
	}()

	logger.Log.Info("Watching config for live changes", zap.String("path", path))
	return out, nil
}

// reload decodes path over the last applied config, so a half-written or
// empty file produces no changes.
func reload(path, format string, last config.Config) (config.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return last, err
	}
	next := last
	if err := config.Decode(data, format, &next); err != nil {
		return last, err
	}
	if err := next.Validate(); err != nil {
		return last, err
	}
	return next, nil
}
