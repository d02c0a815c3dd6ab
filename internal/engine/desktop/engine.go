// Package desktop renders splat assets in an ebiten window.
package desktop

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"net/http"
	"sync"

	"github.com/jask/splatcam/internal/splat"
	"github.com/jask/splatcam/internal/viewer"
)

var background = color.RGBA{A: 0xFF}

// Engine implements viewer.Engine with a CPU framebuffer presented by ebiten.
type Engine struct {
	Client   *http.Client
	MaxBytes int64
	// Input feeds the orbit controls; nil means the live ebiten pointer.
	Input Input
}

var _ viewer.Engine = (*Engine)(nil)

type scene struct {
	mu    sync.RWMutex
	cloud *splat.Cloud
}

type camera struct {
	orbit  splat.Orbit
	framed bool
}

func (e *Engine) NewScene() viewer.Scene   { return &scene{} }
func (e *Engine) NewCamera() viewer.Camera { return &camera{orbit: splat.DefaultOrbit(nil)} }

func (e *Engine) NewRenderer(surface viewer.Surface) (viewer.Renderer, error) {
	w, h := surface.Size()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("desktop: surface has no area (%dx%d)", w, h)
	}
	return &Renderer{fb: image.NewRGBA(image.Rect(0, 0, w, h))}, nil
}

func (e *Engine) NewControls(cam viewer.Camera, _ viewer.Surface) viewer.Controls {
	in := e.Input
	if in == nil {
		in = ebitenInput{}
	}
	var orbit *splat.Orbit
	if c, ok := cam.(*camera); ok {
		orbit = &c.orbit
	}
	return &Controls{orbit: splat.NewOrbitControls(orbit), input: in}
}

func (e *Engine) Load(ctx context.Context, url string, sc viewer.Scene, progress func(float64)) error {
	s, ok := sc.(*scene)
	if !ok {
		return fmt.Errorf("desktop: foreign scene %T", sc)
	}
	cloud, err := splat.Fetch(ctx, e.Client, url, e.MaxBytes, progress)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.cloud = cloud
	s.mu.Unlock()
	return nil
}

// Renderer draws points as small squares into an RGBA framebuffer.
type Renderer struct {
	fb       *image.RGBA
	disposed bool
	frames   int
}

// PointSize is the edge length in pixels of one drawn splat.
const PointSize = 2

func (r *Renderer) Render(sc viewer.Scene, cam viewer.Camera) {
	s, _ := sc.(*scene)
	c, _ := cam.(*camera)
	if r.disposed || s == nil || c == nil {
		return
	}
	s.mu.RLock()
	cloud := s.cloud
	s.mu.RUnlock()
	if cloud == nil {
		return
	}
	if !c.framed {
		c.orbit = splat.DefaultOrbit(cloud)
		c.framed = true
	}

	b := r.fb.Bounds()
	for i := 0; i < len(r.fb.Pix); i += 4 {
		r.fb.Pix[i], r.fb.Pix[i+1], r.fb.Pix[i+2], r.fb.Pix[i+3] = background.R, background.G, background.B, background.A
	}
	for _, f := range splat.Project(cloud, c.orbit, b.Dx(), b.Dy(), 1) {
		col := f.Color
		col.A = 0xFF
		for dy := 0; dy < PointSize; dy++ {
			for dx := 0; dx < PointSize; dx++ {
				r.fb.SetRGBA(f.X+dx, f.Y+dy, col)
			}
		}
	}
	r.frames++
}

func (r *Renderer) SetSize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if b := r.fb.Bounds(); b.Dx() == width && b.Dy() == height {
		return
	}
	r.fb = image.NewRGBA(image.Rect(0, 0, width, height))
}

func (r *Renderer) Dispose() {
	r.disposed = true
	r.fb = image.NewRGBA(image.Rect(0, 0, 1, 1))
}

// Framebuffer is the last rendered frame.
func (r *Renderer) Framebuffer() *image.RGBA { return r.fb }

func (r *Renderer) Frames() int { return r.frames }
