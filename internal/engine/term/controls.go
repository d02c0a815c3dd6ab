package term

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/splatcam/internal/splat"
)

const (
	rotateStep = 0.06
	zoomStep   = 0.9
)

// Controls are keyboard-driven orbit controls.
type Controls struct {
	*splat.OrbitControls
}

// HandleKey applies a key press and reports whether it was an orbit key.
func (c *Controls) HandleKey(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "left", "h":
		c.Rotate(-rotateStep, 0)
	case "right", "l":
		c.Rotate(rotateStep, 0)
	case "up", "k":
		c.Rotate(0, rotateStep)
	case "down", "j":
		c.Rotate(0, -rotateStep)
	case "+", "=":
		c.Zoom(zoomStep)
	case "-", "_":
		c.Zoom(1 / zoomStep)
	default:
		return false
	}
	return true
}
