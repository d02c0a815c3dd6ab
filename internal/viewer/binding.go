package viewer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// State is the binding's lifecycle position.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateRendering
	StateFailed
	StateReleased
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateRendering:
		return "rendering"
	case StateFailed:
		return "failed"
	case StateReleased:
		return "released"
	default:
		return "unknown"
	}
}

// LoadResult is delivered once per mount when the asset load settles.
// Mount is the mount generation it belongs to.
type LoadResult struct {
	Mount uint64
	Err   error
}

// Binding owns one engine instance for the duration of the viewer step.
type Binding struct {
	engine Engine
	log    *slog.Logger

	mu       sync.Mutex
	state    State
	mount    uint64
	cancel   context.CancelFunc
	scene    Scene
	camera   Camera
	renderer Renderer
	controls Controls
	progress float64
}

func NewBinding(engine Engine, logger *slog.Logger) *Binding {
	if logger == nil {
		logger = slog.Default()
	}
	return &Binding{engine: engine, log: logger.With("component", "viewer")}
}

// Mount builds scene, camera, renderer and controls on surface and starts
// loading assetURL in the background. done, if set, is called from the load
// goroutine unless the binding was released first. A renderer construction
// failure leaves the binding Failed; the caller is expected to carry on.
func (b *Binding) Mount(ctx context.Context, surface Surface, assetURL string, done func(LoadResult)) (uint64, error) {
	b.mu.Lock()
	b.releaseLocked()
	b.mount++
	gen := b.mount
	b.progress = 0

	renderer, err := b.engine.NewRenderer(surface)
	if err != nil {
		b.state = StateFailed
		b.mu.Unlock()
		b.log.Error("renderer init failed", "err", err)
		return gen, fmt.Errorf("viewer: new renderer: %w", err)
	}
	b.scene = b.engine.NewScene()
	b.camera = b.engine.NewCamera()
	b.renderer = renderer
	b.controls = b.engine.NewControls(b.camera, surface)
	w, h := surface.Size()
	b.renderer.SetSize(w, h)

	loadCtx, cancel := context.WithCancel(ctx)
	b.cancel = cancel
	b.state = StateLoading
	scene := b.scene
	b.mu.Unlock()

	b.log.Info("loading asset", "url", assetURL, "mount", gen)
	go b.load(loadCtx, gen, assetURL, scene, done)
	return gen, nil
}

func (b *Binding) load(ctx context.Context, gen uint64, url string, scene Scene, done func(LoadResult)) {
	err := b.engine.Load(ctx, url, scene, func(p float64) {
		b.mu.Lock()
		if b.mount == gen {
			b.progress = p
		}
		b.mu.Unlock()
	})

	b.mu.Lock()
	if b.mount != gen || b.state != StateLoading {
		b.mu.Unlock()
		b.log.Debug("load settled after release", "mount", gen, "err", err)
		return
	}
	if err != nil {
		b.state = StateFailed
		b.mu.Unlock()
		b.log.Error("asset load failed", "url", url, "err", err)
	} else {
		b.state = StateRendering
		b.progress = 1
		b.mu.Unlock()
		b.log.Info("asset loaded", "url", url, "mount", gen)
	}
	if done != nil {
		done(LoadResult{Mount: gen, Err: err})
	}
}

// Frame runs one render-loop iteration: update controls, then render. It
// returns false when the loop should stop (not rendering, or released).
func (b *Binding) Frame() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state != StateRendering {
		return false
	}
	b.controls.Update()
	b.renderer.Render(b.scene, b.camera)
	return true
}

// Resize keeps the renderer output matched to the container.
func (b *Binding) Resize(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.renderer == nil || width <= 0 || height <= 0 {
		return
	}
	b.renderer.SetSize(width, height)
}

// Release cancels any in-flight load and disposes the renderer. Safe to call repeatedly.
func (b *Binding) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.releaseLocked()
}

func (b *Binding) releaseLocked() {
	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}
	if b.renderer != nil {
		b.renderer.Dispose()
		b.renderer = nil
	}
	b.scene, b.camera, b.controls = nil, nil, nil
	if b.state != StateIdle {
		b.state = StateReleased
		b.log.Debug("released", "mount", b.mount)
	}
	b.mount++
}

func (b *Binding) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Mounted reports the current mount generation.
func (b *Binding) Mounted() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mount
}

// LoadProgress is the last reported load fraction for the current mount.
func (b *Binding) LoadProgress() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.progress
}

// Renderer exposes the live renderer so hosts can present its output.
func (b *Binding) Renderer() Renderer {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.renderer
}

// Controls exposes the live controls so hosts can feed them input.
func (b *Binding) Controls() Controls {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.controls
}
