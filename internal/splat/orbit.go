package splat

import (
	"image/color"
	"math"
)

// Orbit is a camera circling a target point.
type Orbit struct {
	Yaw      float64 // radians around the vertical axis
	Pitch    float64 // radians above the horizon
	Distance float64
	Target   [3]float64
	FOV      float64 // vertical field of view, radians
}

const maxPitch = math.Pi/2 - 0.05

// DefaultOrbit frames a cloud from a slight elevation.
func DefaultOrbit(c *Cloud) Orbit {
	o := Orbit{Pitch: 0.3, Distance: 4, FOV: math.Pi / 3}
	if c == nil || len(c.Points) == 0 {
		return o
	}
	ctr := c.Center()
	o.Target = [3]float64{float64(ctr[0]), float64(ctr[1]), float64(ctr[2])}
	if r := float64(c.Radius()); r > 0 {
		o.Distance = r * 2.2
	}
	return o
}

// Clamp keeps pitch off the poles and distance positive.
func (o *Orbit) Clamp() {
	o.Pitch = math.Max(-maxPitch, math.Min(maxPitch, o.Pitch))
	if o.Distance < 0.05 {
		o.Distance = 0.05
	}
	o.Yaw = math.Mod(o.Yaw, 2*math.Pi)
}

// Fragment is one projected point.
type Fragment struct {
	X, Y  int
	Depth float64
	Color color.RGBA
}

// Project maps the cloud onto a w×h grid, keeping the nearest point per cell.
// aspect scales x to compensate for non-square cells (terminal cells are
// roughly twice as tall as wide; pass 1 for pixels).
func Project(c *Cloud, o Orbit, w, h int, aspect float64) []Fragment {
	if c == nil || w <= 0 || h <= 0 {
		return nil
	}
	if aspect <= 0 {
		aspect = 1
	}
	cy, sy := math.Cos(o.Yaw), math.Sin(o.Yaw)
	cp, sp := math.Cos(o.Pitch), math.Sin(o.Pitch)
	focal := float64(h) / 2 / math.Tan(o.FOV/2)

	zbuf := make([]float64, w*h)
	idx := make([]int, w*h)
	for i := range idx {
		idx[i] = -1
	}
	frags := make([]Fragment, 0, len(c.Points)/4)

	for _, p := range c.Points {
		if p.Color.A == 0 {
			continue
		}
		x := float64(p.Pos[0]) - o.Target[0]
		y := float64(p.Pos[1]) - o.Target[1]
		z := float64(p.Pos[2]) - o.Target[2]
		// yaw about Y, then pitch about X, then push back by distance
		x, z = x*cy-z*sy, x*sy+z*cy
		y, z = y*cp-z*sp, y*sp+z*cp
		z += o.Distance
		if z <= 0.01 {
			continue
		}
		px := int(math.Round(float64(w)/2 + x/z*focal*aspect))
		// splat scenes are stored y-down
		py := int(math.Round(float64(h)/2 + y/z*focal))
		if px < 0 || px >= w || py < 0 || py >= h {
			continue
		}
		cell := py*w + px
		if j := idx[cell]; j >= 0 {
			if z >= zbuf[cell] {
				continue
			}
			frags[j] = Fragment{X: px, Y: py, Depth: z, Color: p.Color}
			zbuf[cell] = z
			continue
		}
		zbuf[cell] = z
		idx[cell] = len(frags)
		frags = append(frags, Fragment{X: px, Y: py, Depth: z, Color: p.Color})
	}
	return frags
}
