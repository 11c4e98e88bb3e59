package engine

import (
	"context"
	"time"

	"globe/internal/config"
	"globe/internal/controls"
	"globe/internal/logger"
	"globe/internal/renderer"

	"go.uber.org/zap"
)

type State int

const (
	Uninitialized State = iota
	AwaitingTexture
	Running
	Stopped
)

func (s State) String() string {
	switch s {
	case AwaitingTexture:
		return "awaiting-texture"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	}
	return "uninitialized"
}

// Host is the surface the globe draws into.
type Host interface {
	FramebufferSize() (width, height int32)
	// Time is the host clock, monotonic from an arbitrary origin.
	Time() time.Duration
	ShouldClose() bool
	// EndFrame presents the frame and pumps input; it requests the next tick.
	EndFrame()
}

// EventQueue is a control source drained on the render goroutine.
type EventQueue interface {
	Drain() []controls.Event
}

type Globe struct {
	cfg     *config.Config
	host    Host
	dev     renderer.Device
	fetcher renderer.ImageFetcher

	params *renderer.Parameters
	ctrl   *controls.Controller
	queues []EventQueue
	feeds  []<-chan controls.Event

	state      State
	program    *renderer.ProgramInfo
	texture    *renderer.Texture
	textureCh  <-chan renderer.TextureResult
	cancelLoad context.CancelFunc
	scene      *renderer.SceneRenderer
	startTime  time.Duration
	frameCount int
}

func NewGlobe(cfg *config.Config, host Host, dev renderer.Device, fetcher renderer.ImageFetcher) *Globe {
	g := &Globe{
		cfg:     cfg,
		host:    host,
		dev:     dev,
		fetcher: fetcher,
		params:  cfg.Parameters(),
	}
	g.ctrl = controls.NewController(g.params, func(r int) (*renderer.Mesh, error) {
		return renderer.BuildMesh(g.dev, r)
	})
	return g
}

func (g *Globe) Controller() *controls.Controller {
	return g.ctrl
}

func (g *Globe) Params() *renderer.Parameters {
	return g.params
}

func (g *Globe) State() State {
	return g.state
}

// AddQueue registers a source polled between ticks, such as the keyboard.
func (g *Globe) AddQueue(q EventQueue) {
	g.queues = append(g.queues, q)
}

// AddFeed registers a channel of events produced on another goroutine.
func (g *Globe) AddFeed(ch <-chan controls.Event) {
	if ch != nil {
		g.feeds = append(g.feeds, ch)
	}
}

// Start compiles the program, builds the initial mesh and begins the texture
// fetch. On error everything created so far is released.
func (g *Globe) Start(ctx context.Context) error {
	if g.state != Uninitialized {
		return nil
	}
	logger.Log.Info("Globe initializing...",
		zap.Int("meshResolution", g.params.MeshResolution),
		zap.Stringer("lighting", g.params.Lighting),
		zap.Bool("useTexture", g.params.UseTexture))

	program, err := renderer.NewProgram(g.dev, renderer.GlobeVertexShader, renderer.GlobeFragmentShader)
	if err != nil {
		g.state = Stopped
		return err
	}
	g.program = program

	mesh, err := renderer.BuildMesh(g.dev, g.params.MeshResolution)
	if err != nil {
		g.Stop()
		return err
	}
	g.params.Mesh = mesh

	loadCtx, cancel := context.WithCancel(ctx)
	g.cancelLoad = cancel
	g.texture, g.textureCh = renderer.LoadTexture(loadCtx, g.dev, g.fetcher, g.cfg.Texture.Location)

	w, h := g.host.FramebufferSize()
	g.scene = renderer.NewSceneRenderer(g.dev, g.program, g.texture, w, h)
	g.state = AwaitingTexture
	return nil
}

// Tick runs one frame: pending control changes and a finished texture load
// are applied first, then the scene is drawn. It returns the draw call count.
func (g *Globe) Tick() int {
	if g.state != AwaitingTexture && g.state != Running {
		return 0
	}
	g.applyControls()
	g.pollTexture()

	w, h := g.host.FramebufferSize()
	if g.state == AwaitingTexture {
		g.dev.Clear()
		return 0
	}

	now := g.host.Time()
	if g.frameCount == 0 {
		g.startTime = now
	}
	g.frameCount++
	return g.scene.Render(g.params, now-g.startTime, w, h)
}

func (g *Globe) pollTexture() {
	if g.textureCh == nil {
		return
	}
	select {
	case res, ok := <-g.textureCh:
		g.textureCh = nil
		if ok {
			// Failures are logged by Apply and leave the placeholder bound.
			_ = g.texture.Apply(res)
		}
		g.state = Running
		logger.Log.Info("Render loop running", zap.Bool("textureLoaded", g.texture.Loaded()))
	default:
	}
}

func (g *Globe) applyControls() {
	for _, q := range g.queues {
		for _, ev := range q.Drain() {
			g.apply(ev)
		}
	}

	live := g.feeds[:0]
	for _, ch := range g.feeds {
		open := true
	drain:
		for {
			select {
			case ev, ok := <-ch:
				if !ok {
					open = false
					break drain
				}
				g.apply(ev)
			default:
				break drain
			}
		}
		if open {
			live = append(live, ch)
		}
	}
	g.feeds = live
}

func (g *Globe) apply(ev controls.Event) {
	if err := g.ctrl.Apply(ev); err != nil {
		logger.Log.Warn("Control change rejected",
			zap.Stringer("field", ev.Field),
			zap.Error(err))
	}
}

// Run drives ticks until ctx is cancelled or the host asks to close. It
// returns nil on host close and ctx.Err() on cancellation.
func (g *Globe) Run(ctx context.Context) error {
	if err := g.Start(ctx); err != nil {
		return err
	}
	defer g.Stop()

	for {
		if err := ctx.Err(); err != nil {
			logger.Log.Info("Render loop cancelled", zap.Int("frames", g.frameCount))
			return err
		}
		if g.host.ShouldClose() {
			logger.Log.Info("Window closed", zap.Int("frames", g.frameCount))
			return nil
		}
		g.Tick()
		g.host.EndFrame()
	}
}

// Stop releases the mesh, texture and program. It is safe to call more than
// once.
func (g *Globe) Stop() {
	if g.state == Stopped {
		return
	}
	if g.cancelLoad != nil {
		g.cancelLoad()
	}
	g.params.Mesh.Release()
	g.params.Mesh = nil
	g.texture.Release()
	if g.program != nil {
		g.program.Release()
	}
	g.state = Stopped
}

// FrameCount is the number of ticks drawn in the Running state.
func (g *Globe) FrameCount() int {
	return g.frameCount
}
