// Package term renders splat assets into a terminal cell grid.
package term

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/jask/splatcam/internal/splat"
	"github.com/jask/splatcam/internal/viewer"
)

// CellAspect compensates for terminal cells being about twice as tall as wide.
const CellAspect = 2.0

// Engine implements viewer.Engine on an ntcharts canvas.
type Engine struct {
	Client *http.Client
	// MaxBytes caps asset downloads; zero means splat.DefaultMaxBytes.
	MaxBytes int64
}

var _ viewer.Engine = (*Engine)(nil)

// Panel is the terminal region the viewer is drawn into.
type Panel struct {
	mu     sync.Mutex
	width  int
	height int
}

func NewPanel(width, height int) *Panel { return &Panel{width: width, height: height} }

func (p *Panel) Size() (int, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.width, p.height
}

// SetSize records the container size; callers forward it to the binding.
func (p *Panel) SetSize(width, height int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.width, p.height = width, height
}

type scene struct {
	mu    sync.RWMutex
	cloud *splat.Cloud
}

func (s *scene) set(c *splat.Cloud) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cloud = c
}

func (s *scene) get() *splat.Cloud {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cloud
}

type camera struct {
	orbit  splat.Orbit
	framed bool
}

func (e *Engine) NewScene() viewer.Scene   { return &scene{} }
func (e *Engine) NewCamera() viewer.Camera { return &camera{orbit: splat.DefaultOrbit(nil)} }

func (e *Engine) NewRenderer(surface viewer.Surface) (viewer.Renderer, error) {
	w, h := surface.Size()
	return newRenderer(w, h), nil
}

func (e *Engine) NewControls(cam viewer.Camera, _ viewer.Surface) viewer.Controls {
	c, ok := cam.(*camera)
	if !ok {
		return &Controls{OrbitControls: splat.NewOrbitControls(nil)}
	}
	return &Controls{OrbitControls: splat.NewOrbitControls(&c.orbit)}
}

func (e *Engine) Load(ctx context.Context, url string, sc viewer.Scene, progress func(float64)) error {
	s, ok := sc.(*scene)
	if !ok {
		return fmt.Errorf("term: foreign scene %T", sc)
	}
	cloud, err := splat.Fetch(ctx, e.Client, url, e.MaxBytes, progress)
	if err != nil {
		return err
	}
	s.set(cloud)
	return nil
}
