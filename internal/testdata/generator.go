// Package testdata generates fixtures for tests: small splat assets and
// placeholder photos.
package testdata

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/jask/splatcam/internal/splat"
)

// Cloud returns n points on a jittered unit sphere shell, colored by height.
// The same seed yields the same cloud.
func Cloud(n int, seed int64) []splat.Point {
	rng := rand.New(rand.NewSource(seed))
	pts := make([]splat.Point, 0, n)
	for i := 0; i < n; i++ {
		theta := rng.Float64() * 2 * math.Pi
		z := rng.Float64()*2 - 1
		r := 1 + (rng.Float64()-0.5)*0.1
		ring := math.Sqrt(1 - z*z)
		shade := uint8(80 + (z+1)*80)
		pts = append(pts, splat.Point{
			Pos:   [3]float32{float32(r * ring * math.Cos(theta)), float32(r * z), float32(r * ring * math.Sin(theta))},
			Scale: [3]float32{0.02, 0.02, 0.02},
			Color: color.RGBA{R: shade, G: 200 - shade/2, B: 120, A: 255},
			Rot:   [4]float32{1, 0, 0, 0},
		})
	}
	return pts
}

// WriteSplat encodes points into dir/name and returns the file path.
func WriteSplat(dir, name string, points []splat.Point) (string, error) {
	var buf bytes.Buffer
	if err := splat.Encode(&buf, points); err != nil {
		return "", err
	}
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", p, err)
	}
	return p, nil
}

// WritePhotos writes n small PNGs with distinct pixels into dir, named
// shot-0.png, shot-1.png and so on.
func WritePhotos(dir string, n int) ([]string, error) {
	paths := make([]string, 0, n)
	for i := 0; i < n; i++ {
		img := image.NewRGBA(image.Rect(0, 0, 2, 2))
		img.Set(0, 0, color.RGBA{R: uint8(i), G: uint8(i >> 8), B: 7, A: 255})
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return nil, err
		}
		p := filepath.Join(dir, fmt.Sprintf("shot-%d.png", i))
		if err := os.WriteFile(p, buf.Bytes(), 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", p, err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}
