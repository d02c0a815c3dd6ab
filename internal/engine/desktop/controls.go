package desktop

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/jask/splatcam/internal/splat"
)

// Input is the pointer state the controls read each frame.
type Input interface {
	Cursor() (x, y int)
	Dragging() bool
	Wheel() float64
}

type ebitenInput struct{}

func (ebitenInput) Cursor() (int, int) { return ebiten.CursorPosition() }
func (ebitenInput) Dragging() bool     { return ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) }
func (ebitenInput) Wheel() float64 {
	_, y := ebiten.Wheel()
	return y
}

const (
	radiansPerPixel = 0.005
	zoomPerNotch    = 0.1
)

// Controls orbit on left-drag and zoom on the wheel.
type Controls struct {
	orbit    *splat.OrbitControls
	input    Input
	lastX    int
	lastY    int
	dragging bool
}

func (c *Controls) Update() {
	x, y := c.input.Cursor()
	if c.input.Dragging() {
		if c.dragging {
			c.orbit.Rotate(float64(x-c.lastX)*radiansPerPixel, float64(y-c.lastY)*radiansPerPixel)
		}
		c.dragging = true
	} else {
		c.dragging = false
	}
	c.lastX, c.lastY = x, y
	if w := c.input.Wheel(); w != 0 {
		c.orbit.Zoom(1 - w*zoomPerNotch)
	}
	c.orbit.Update()
}
