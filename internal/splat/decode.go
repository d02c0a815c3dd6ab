// Package splat decodes the flat .splat point-cloud layout and projects it
// through an orbiting camera. It backs the render engine adapters.
package splat

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
)

// RecordSize is the byte length of one splat: position (3×f32), scale
// (3×f32), RGBA (4×u8) and a packed rotation quaternion (4×u8).
const RecordSize = 32

// ErrTruncated means the payload is not a whole number of records.
var ErrTruncated = errors.New("splat: truncated record")

type Point struct {
	Pos   [3]float32
	Scale [3]float32
	Color color.RGBA
	Rot   [4]float32
}

// Cloud is a decoded asset with its bounding box.
type Cloud struct {
	Points []Point
	Min    [3]float32
	Max    [3]float32
}

// Decode reads a whole .splat payload.
func Decode(r io.Reader) (*Cloud, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("splat: read: %w", err)
	}
	return DecodeBytes(data)
}

func DecodeBytes(data []byte) (*Cloud, error) {
	if len(data)%RecordSize != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrTruncated, len(data)%RecordSize)
	}
	n := len(data) / RecordSize
	c := &Cloud{Points: make([]Point, n)}
	for i := 0; i < n; i++ {
		rec := data[i*RecordSize : (i+1)*RecordSize]
		p := &c.Points[i]
		for k := 0; k < 3; k++ {
			p.Pos[k] = f32(rec[k*4:])
			p.Scale[k] = f32(rec[12+k*4:])
		}
		p.Color = color.RGBA{R: rec[24], G: rec[25], B: rec[26], A: rec[27]}
		for k := 0; k < 4; k++ {
			p.Rot[k] = (float32(rec[28+k]) - 128) / 128
		}
		c.grow(p.Pos, i == 0)
	}
	return c, nil
}

// Encode writes points in the same layout; used for fixtures and exports.
func Encode(w io.Writer, points []Point) error {
	buf := make([]byte, RecordSize)
	for _, p := range points {
		for k := 0; k < 3; k++ {
			binary.LittleEndian.PutUint32(buf[k*4:], math.Float32bits(p.Pos[k]))
			binary.LittleEndian.PutUint32(buf[12+k*4:], math.Float32bits(p.Scale[k]))
		}
		buf[24], buf[25], buf[26], buf[27] = p.Color.R, p.Color.G, p.Color.B, p.Color.A
		for k := 0; k < 4; k++ {
			buf[28+k] = byte(clamp(p.Rot[k]*128+128, 0, 255))
		}
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}

// Center is the midpoint of the bounding box.
func (c *Cloud) Center() [3]float32 {
	return [3]float32{
		(c.Min[0] + c.Max[0]) / 2,
		(c.Min[1] + c.Max[1]) / 2,
		(c.Min[2] + c.Max[2]) / 2,
	}
}

// Radius is half the bounding box diagonal.
func (c *Cloud) Radius() float32 {
	dx, dy, dz := c.Max[0]-c.Min[0], c.Max[1]-c.Min[1], c.Max[2]-c.Min[2]
	return float32(math.Sqrt(float64(dx*dx+dy*dy+dz*dz))) / 2
}

func (c *Cloud) grow(p [3]float32, first bool) {
	for k := 0; k < 3; k++ {
		if first || p[k] < c.Min[k] {
			c.Min[k] = p[k]
		}
		if first || p[k] > c.Max[k] {
			c.Max[k] = p[k]
		}
	}
}

func f32(b []byte) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(b)) }

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
