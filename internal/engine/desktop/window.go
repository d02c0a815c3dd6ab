package desktop

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/jask/splatcam/internal/viewer"
)

// WindowConfig sizes the viewer window.
type WindowConfig struct {
	Title  string
	Width  int
	Height int
	TPS    int
}

// Window hosts a viewer binding in an ebiten game loop.
type Window struct {
	binding *viewer.Binding
	cfg     WindowConfig
	ctx     context.Context
	log     *slog.Logger

	mu  sync.Mutex
	w   int
	h   int
	tex *ebiten.Image
}

func NewWindow(ctx context.Context, binding *viewer.Binding, cfg WindowConfig, logger *slog.Logger) *Window {
	if cfg.Width <= 0 {
		cfg.Width = 800
	}
	if cfg.Height <= 0 {
		cfg.Height = 500
	}
	if cfg.TPS <= 0 {
		cfg.TPS = 60
	}
	if cfg.Title == "" {
		cfg.Title = "splatcam"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Window{binding: binding, cfg: cfg, ctx: ctx, log: logger, w: cfg.Width, h: cfg.Height}
}

// Size implements viewer.Surface.
func (w *Window) Size() (int, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.w, w.h
}

// Run mounts asset and blocks until the window closes or ctx is done. The
// binding is released on return.
func (w *Window) Run(asset string) error {
	if _, err := w.binding.Mount(w.ctx, w, asset, nil); err != nil {
		// a blank window is still shown; the failure is already logged
		w.log.Warn("viewer mount failed", "err", err)
	}
	defer w.binding.Release()

	ebiten.SetWindowTitle(w.cfg.Title)
	ebiten.SetWindowSize(w.cfg.Width, w.cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(w.cfg.TPS)
	err := ebiten.RunGame(w)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

func (w *Window) Update() error {
	if w.ctx.Err() != nil {
		return ebiten.Termination
	}
	w.binding.Frame()
	return nil
}

func (w *Window) Draw(screen *ebiten.Image) {
	r, ok := w.binding.Renderer().(*Renderer)
	if !ok || r.Frames() == 0 {
		return
	}
	fb := r.Framebuffer()
	b := fb.Bounds()
	if w.tex == nil || w.tex.Bounds().Dx() != b.Dx() || w.tex.Bounds().Dy() != b.Dy() {
		if w.tex != nil {
			w.tex.Deallocate()
		}
		w.tex = ebiten.NewImage(b.Dx(), b.Dy())
	}
	w.tex.WritePixels(fb.Pix)
	screen.DrawImage(w.tex, nil)
}

func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	w.mu.Lock()
	changed := outsideWidth != w.w || outsideHeight != w.h
	w.w, w.h = outsideWidth, outsideHeight
	w.mu.Unlock()
	if changed {
		w.binding.Resize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}
