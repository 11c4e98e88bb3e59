package engine

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"
	"time"

	"globe/internal/config"
	"globe/internal/controls"
	"globe/internal/renderer"
	"globe/internal/renderer/devicetest"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHost struct {
	width, height int32
	now           time.Duration
	step          time.Duration
	frames        int
	closeAfter    int
	onFrame       func(frame int)
}

func (h *fakeHost) FramebufferSize() (int32, int32) { return h.width, h.height }
func (h *fakeHost) Time() time.Duration             { return h.now }
func (h *fakeHost) ShouldClose() bool               { return h.closeAfter > 0 && h.frames >= h.closeAfter }

func (h *fakeHost) EndFrame() {
	h.frames++
	h.now += h.step
	if h.onFrame != nil {
		h.onFrame(h.frames)
	}
}

// gatedFetcher blocks until open is closed.
type gatedFetcher struct {
	open chan struct{}
	img  image.Image
	err  error
}

func newGatedFetcher(img image.Image, err error) *gatedFetcher {
	return &gatedFetcher{open: make(chan struct{}), img: img, err: err}
}

func (f *gatedFetcher) Fetch(ctx context.Context, _ string) (image.Image, error) {
	select {
	case <-f.open:
		return f.img, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func tiny() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for i := 0; i < 4; i++ {
		img.SetRGBA(i%2, i/2, color.RGBA{200, 100, 50, 255})
	}
	return img
}

func newTestGlobe(t *testing.T, fetcher renderer.ImageFetcher) (*Globe, *fakeHost, *devicetest.Device) {
	t.Helper()
	cfg := config.Default()
	cfg.Scene.MeshResolution = 8
	host := &fakeHost{width: 630, height: 400, step: 16 * time.Millisecond}
	dev := devicetest.New()
	return NewGlobe(cfg, host, dev, fetcher), host, dev
}

func tickUntilRunning(t *testing.T, g *Globe) int {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if draws := g.Tick(); g.State() == Running {
			return draws
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("globe never entered the running state")
	return 0
}

func TestStartupOrder(t *testing.T) {
	fetcher := newGatedFetcher(tiny(), nil)
	g, _, dev := newTestGlobe(t, fetcher)
	assert.Equal(t, Uninitialized, g.State())

	require.NoError(t, g.Start(context.Background()))
	defer g.Stop()

	assert.Equal(t, AwaitingTexture, g.State())
	assert.Len(t, dev.Programs, 1)
	assert.Len(t, dev.Buffers, 5)
	assert.Len(t, dev.Textures, 1)
	require.NotNil(t, g.Params().Mesh)
	assert.Equal(t, 8, g.Params().Mesh.Resolution)

	// No draws until the texture continuation fires.
	assert.Equal(t, 0, g.Tick())
	assert.Equal(t, 0, g.Tick())
	assert.Empty(t, dev.Draws)
	assert.Equal(t, 2, dev.Clears)

	close(fetcher.open)
	assert.Equal(t, 1, tickUntilRunning(t, g))
	assert.True(t, g.texture.Loaded())
	assert.Equal(t, []uint8{200, 100, 50, 255}, dev.Draws[0].Texels[:4])
}

func TestTextureFailureStillRuns(t *testing.T) {
	fetcher := newGatedFetcher(nil, errors.New("no such file"))
	close(fetcher.open)
	g, _, dev := newTestGlobe(t, fetcher)

	require.NoError(t, g.Start(context.Background()))
	defer g.Stop()

	assert.Equal(t, 1, tickUntilRunning(t, g))
	assert.False(t, g.texture.Loaded())
	assert.Equal(t, renderer.PlaceholderPixel[:], dev.Draws[0].Texels)
}

func TestShaderFailureIsFatal(t *testing.T) {
	g, _, dev := newTestGlobe(t, newGatedFetcher(tiny(), nil))
	dev.CompileLogs[renderer.FragmentStage] = "0:1: error"

	err := g.Run(context.Background())

	var shaderErr *renderer.ShaderError
	require.ErrorAs(t, err, &shaderErr)
	assert.Equal(t, "fragment", shaderErr.Stage)
	assert.Equal(t, Stopped, g.State())
	assert.Empty(t, dev.Buffers, "no mesh should be built after a shader failure")
	assert.Empty(t, dev.Textures)
}

func TestRunStopsOnHostCloseAndReleases(t *testing.T) {
	fetcher := newGatedFetcher(tiny(), nil)
	close(fetcher.open)
	g, host, dev := newTestGlobe(t, fetcher)
	host.closeAfter = 50

	require.NoError(t, g.Run(context.Background()))

	assert.Equal(t, 50, host.frames)
	assert.Equal(t, Stopped, g.State())
	assert.Empty(t, dev.Buffers)
	assert.Empty(t, dev.Textures)
	assert.Empty(t, dev.Programs)
}

func TestRunCancelledAtTickBoundary(t *testing.T) {
	g, host, dev := newTestGlobe(t, newGatedFetcher(tiny(), nil))
	ctx, cancel := context.WithCancel(context.Background())
	host.onFrame = func(frame int) {
		if frame == 3 {
			cancel()
		}
	}

	err := g.Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 3, host.frames)
	assert.Equal(t, Stopped, g.State())
	assert.Empty(t, dev.Buffers)
}

func TestElapsedStartsAtFirstRunningTick(t *testing.T) {
	fetcher := newGatedFetcher(tiny(), nil)
	g, host, dev := newTestGlobe(t, fetcher)
	require.NoError(t, g.Start(context.Background()))
	defer g.Stop()

	host.now = 10 * time.Second
	g.Tick()
	close(fetcher.open)
	tickUntilRunning(t, g)

	first := dev.Draws[0].ModelView
	want := renderer.ModelView(mgl32.Vec2{}, 6, 0, 0)
	assert.True(t, first.ApproxEqualThreshold(want, 1e-5), "first running tick should be at elapsed 0")

	host.now += 5 * time.Second
	g.Tick()
	later := dev.Draws[len(dev.Draws)-1].ModelView
	assert.True(t, later.ApproxEqualThreshold(renderer.ModelView(mgl32.Vec2{}, 6, 0, 5), 1e-5))
}

type queue []controls.Event

func (q *queue) Drain() []controls.Event {
	out := *q
	*q = nil
	return out
}

func TestControlsAppliedBetweenTicks(t *testing.T) {
	fetcher := newGatedFetcher(tiny(), nil)
	close(fetcher.open)
	g, _, dev := newTestGlobe(t, fetcher)
	keys := &queue{}
	g.AddQueue(keys)
	feed := make(chan controls.Event, 4)
	g.AddFeed(feed)

	require.NoError(t, g.Start(context.Background()))
	defer g.Stop()
	tickUntilRunning(t, g)
	dev.Reset()

	*keys = append(*keys, controls.MultiInstance(true))
	feed <- controls.Resolution(12, controls.Commit)
	feed <- controls.SetLighting(renderer.LightingDirectional)

	assert.Equal(t, 5, g.Tick())
	assert.Equal(t, 12, g.Params().MeshResolution)
	require.Len(t, dev.Draws, 5)
	for _, d := range dev.Draws {
		assert.Equal(t, int32(12*12*12), d.IndexCount)
		assert.Equal(t, float32(1), d.Directional)
	}
	assert.Len(t, dev.Buffers, 5, "the previous mesh should be released")

	close(feed)
	g.Tick()
	assert.Empty(t, g.feeds, "closed feeds are dropped")
}

func TestStopIsIdempotent(t *testing.T) {
	g, _, dev := newTestGlobe(t, newGatedFetcher(tiny(), nil))
	require.NoError(t, g.Start(context.Background()))

	g.Stop()
	g.Stop()

	assert.Equal(t, 0, g.Tick())
	assert.Empty(t, dev.Programs)
	assert.Equal(t, "stopped", g.State().String())
}
