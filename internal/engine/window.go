package engine

import (
	"fmt"
	"runtime"
	"time"

	"globe/internal/config"
	"globe/internal/logger"
	"globe/internal/renderer"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Window is the glfw host surface with a current OpenGL 4.1 core context.
// It must be created and used on the main OS thread.
type Window struct {
	window *glfw.Window
}

func NewWindow(cfg config.WindowConfig) (*Window, error) {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("could not initialize glfw: %w", err)
	}

	glfw.WindowHint(glfw.Decorated, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.DepthBits, 24)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	title := cfg.Title
	if title == "" {
		title = "Globe"
	}
	w, err := glfw.CreateWindow(int(cfg.Width), int(cfg.Height), title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("could not create glfw window: %w", err)
	}
	w.MakeContextCurrent()
	glfw.SwapInterval(1)
	MatchTitleBar(w, renderer.ClearColor)

	fw, fh := w.GetFramebufferSize()
	logger.Log.Info("Window created",
		zap.String("title", title),
		zap.Int("width", fw),
		zap.Int("height", fh))
	return &Window{window: w}, nil
}

// GLFW exposes the underlying window for input callbacks.
func (w *Window) GLFW() *glfw.Window {
	return w.window
}

func (w *Window) FramebufferSize() (int32, int32) {
	fw, fh := w.window.GetFramebufferSize()
	return int32(fw), int32(fh)
}

func (w *Window) Time() time.Duration {
	return time.Duration(glfw.GetTime() * float64(time.Second))
}

func (w *Window) ShouldClose() bool {
	return w.window.ShouldClose()
}

func (w *Window) EndFrame() {
	w.window.SwapBuffers()
	glfw.PollEvents()
}

func (w *Window) Close() {
	w.window.Destroy()
	glfw.Terminate()
}

// colorRef packs an RGBA color as a Win32 COLORREF (0x00BBGGRR).
func colorRef(c mgl32.Vec4) uint32 {
	channel := func(v float32) uint32 {
		return uint32(mgl32.Clamp(v, 0, 1)*255 + 0.5)
	}
	return channel(c[0]) | channel(c[1])<<8 | channel(c[2])<<16
}

// isDark uses Rec. 601 luma.
func isDark(c mgl32.Vec4) bool {
	return 0.299*c[0]+0.587*c[1]+0.114*c[2] < 0.5
}
