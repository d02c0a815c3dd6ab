package term

import (
	"fmt"

	"github.com/NimbleMarkets/ntcharts/canvas"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/splatcam/internal/splat"
	"github.com/jask/splatcam/internal/viewer"
)

// Renderer rasterizes into a canvas; View returns the last frame.
type Renderer struct {
	canvas   canvas.Model
	width    int
	height   int
	frames   int
	disposed bool
	styles   map[uint32]lipgloss.Style
}

func newRenderer(w, h int) *Renderer {
	w, h = max(w, 1), max(h, 1)
	return &Renderer{canvas: canvas.New(w, h), width: w, height: h, styles: map[uint32]lipgloss.Style{}}
}

func (r *Renderer) Render(sc viewer.Scene, cam viewer.Camera) {
	if r.disposed {
		return
	}
	s, _ := sc.(*scene)
	c, _ := cam.(*camera)
	if s == nil || c == nil {
		return
	}
	cloud := s.get()
	if cloud == nil {
		return
	}
	if !c.framed {
		c.orbit = splat.DefaultOrbit(cloud)
		c.framed = true
	}

	r.canvas.Clear()
	for _, f := range splat.Project(cloud, c.orbit, r.width, r.height, CellAspect) {
		r.canvas.SetCell(canvas.Point{X: f.X, Y: f.Y}, canvas.Cell{
			Rune:  glyph(f.Depth / c.orbit.Distance),
			Style: r.style(f.Color.R, f.Color.G, f.Color.B),
		})
	}
	r.frames++
}

func (r *Renderer) SetSize(width, height int) {
	if width <= 0 || height <= 0 || (width == r.width && height == r.height) {
		return
	}
	r.width, r.height = width, height
	r.canvas.Resize(width, height)
}

func (r *Renderer) Dispose() {
	r.disposed = true
	r.canvas.Clear()
	r.styles = map[uint32]lipgloss.Style{}
}

// View returns the rendered frame, or blank rows before the first frame.
func (r *Renderer) View() string {
	return r.canvas.View()
}

func (r *Renderer) Size() (int, int) { return r.width, r.height }

// Frames counts completed renders.
func (r *Renderer) Frames() int { return r.frames }

// style caches one lipgloss style per 4-bit-per-channel color.
func (r *Renderer) style(red, green, blue uint8) lipgloss.Style {
	key := uint32(red>>4)<<8 | uint32(green>>4)<<4 | uint32(blue>>4)
	if st, ok := r.styles[key]; ok {
		return st
	}
	st := lipgloss.NewStyle().Foreground(lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", red&0xf0, green&0xf0, blue&0xf0)))
	r.styles[key] = st
	return st
}

func glyph(relDepth float64) rune {
	switch {
	case relDepth < 0.85:
		return '●'
	case relDepth < 1.15:
		return '•'
	default:
		return '·'
	}
}
