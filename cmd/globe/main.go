package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"globe/internal/assets"
	"globe/internal/config"
	"globe/internal/controls"
	"globe/internal/controls/keys"
	"globe/internal/engine"
	"globe/internal/logger"
	"globe/internal/renderer"

	"go.uber.org/zap"
)

func init() {
	// glfw and OpenGL calls must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "path to a .json, .yaml or .toml config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		logger.Log.Error("Globe exited with error", zap.Error(err))
		logger.Sync()
		fmt.Fprintln(os.Stderr, "globe:", err)
		os.Exit(1)
	}
	logger.Sync()
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Development); err != nil {
		return fmt.Errorf("logger init: %w", err)
	}
	cfg.Report(logger.Log)
	logger.Log.Info("Configuration",
		zap.String("path", cfg.Path()),
		zap.Int32("width", cfg.Window.Width),
		zap.Int32("height", cfg.Window.Height),
		zap.String("texture", cfg.Texture.Location))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	window, err := engine.NewWindow(cfg.Window)
	if err != nil {
		return err
	}
	defer window.Close()

	dev, err := renderer.NewOpenGLDevice()
	if err != nil {
		return err
	}
	defer dev.Cleanup()

	fetcher := assets.NewFetcher(time.Duration(cfg.Texture.Timeout), cfg.Texture.MaxSize)
	globe := engine.NewGlobe(cfg, window, dev, fetcher)

	keyboard := keys.NewKeyboard(globe.Controller())
	keyboard.Attach(window.GLFW())
	globe.AddQueue(keyboard)

	if cfg.Watch {
		events, err := controls.WatchConfig(ctx, cfg)
		if err != nil {
			logger.Log.Warn("Config watching disabled", zap.Error(err))
		} else {
			globe.AddFeed(events)
		}
	}

	err = globe.Run(ctx)
	if errors.Is(err, context.Canceled) {
		logger.Log.Info("Interrupted, shutting down")
		return nil
	}
	return err
}
