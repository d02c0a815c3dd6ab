package term

import (
	"bytes"
	"context"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/jask/splatcam/internal/splat"
	"github.com/jask/splatcam/internal/viewer"
)

func writeAsset(t *testing.T) string {
	t.Helper()
	var pts []splat.Point
	for i := -5; i <= 5; i++ {
		pts = append(pts, splat.Point{
			Pos:   [3]float32{float32(i) / 5, float32(i%2) / 5, 0},
			Color: color.RGBA{R: 200, G: 120, B: 40, A: 255},
		})
	}
	var buf bytes.Buffer
	require.NoError(t, splat.Encode(&buf, pts))
	p := filepath.Join(t.TempDir(), "tiny.splat")
	require.NoError(t, os.WriteFile(p, buf.Bytes(), 0o644))
	return p
}

func TestBindingDrivesTerminalEngine(t *testing.T) {
	asset := writeAsset(t)
	b := viewer.NewBinding(&Engine{}, nil)
	panel := NewPanel(40, 12)

	done := make(chan viewer.LoadResult, 1)
	_, err := b.Mount(context.Background(), panel, asset, func(r viewer.LoadResult) { done <- r })
	require.NoError(t, err)

	select {
	case r := <-done:
		require.NoError(t, r.Err)
	case <-time.After(2 * time.Second):
		t.Fatal("load timed out")
	}

	require.True(t, b.Frame())
	r, ok := b.Renderer().(*Renderer)
	require.True(t, ok)
	require.Equal(t, 1, r.Frames())
	view := r.View()
	require.True(t, strings.ContainsAny(view, "●•·"), "frame should contain points:\n%s", view)

	b.Resize(60, 12)
	w, h := r.Size()
	require.Equal(t, 60, w)
	require.Equal(t, 12, h)

	b.Release()
	require.False(t, b.Frame())
}

func TestLoadFailureForMissingAsset(t *testing.T) {
	e := &Engine{}
	err := e.Load(context.Background(), filepath.Join(t.TempDir(), "missing.splat"), e.NewScene(), nil)
	require.Error(t, err)
}

func TestRenderBeforeLoadIsBlank(t *testing.T) {
	e := &Engine{}
	r, err := e.NewRenderer(NewPanel(10, 3))
	require.NoError(t, err)
	r.Render(e.NewScene(), e.NewCamera())
	require.Zero(t, r.(*Renderer).Frames())
	require.False(t, strings.ContainsAny(r.(*Renderer).View(), "●•·"))
}

func TestControlsHandleOrbitKeys(t *testing.T) {
	e := &Engine{}
	cam := e.NewCamera().(*camera)
	ctl := e.NewControls(cam, NewPanel(1, 1)).(*Controls)

	require.True(t, ctl.HandleKey(tea.KeyMsg{Type: tea.KeyRight}))
	require.True(t, ctl.HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'+'}}))
	require.False(t, ctl.HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}}))

	before := cam.orbit
	ctl.Update()
	require.Greater(t, cam.orbit.Yaw, before.Yaw)
	require.Less(t, cam.orbit.Distance, before.Distance)
}

func TestGlyphByDepth(t *testing.T) {
	require.Equal(t, '●', glyph(0.5))
	require.Equal(t, '•', glyph(1.0))
	require.Equal(t, '·', glyph(1.5))
}
