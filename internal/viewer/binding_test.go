package viewer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeSurface struct{ w, h int }

func (s fakeSurface) Size() (int, int) { return s.w, s.h }

// fakeEngine records every capability call instead of drawing anything.
type fakeEngine struct {
	mu        sync.Mutex
	calls     []string
	gates     []chan error
	loadCtxs  []context.Context
	rendererE error
}

func newFakeEngine() *fakeEngine { return &fakeEngine{} }

func (e *fakeEngine) loads() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.gates)
}

// finish settles the n-th (1-based) load with err.
func (e *fakeEngine) finish(n int, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.gates[n-1] <- err
}

func (e *fakeEngine) record(format string, args ...any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, fmt.Sprintf(format, args...))
}

func (e *fakeEngine) Calls() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.calls...)
}

func (e *fakeEngine) NewScene() Scene   { e.record("scene"); return "scene" }
func (e *fakeEngine) NewCamera() Camera { e.record("camera"); return "camera" }

func (e *fakeEngine) NewRenderer(s Surface) (Renderer, error) {
	w, h := s.Size()
	e.record("renderer %dx%d", w, h)
	if e.rendererE != nil {
		return nil, e.rendererE
	}
	return &fakeRenderer{e: e}, nil
}

func (e *fakeEngine) NewControls(Camera, Surface) Controls {
	e.record("controls")
	return fakeControls{e: e}
}

func (e *fakeEngine) Load(ctx context.Context, url string, _ Scene, progress func(float64)) error {
	e.record("load %s", url)
	gate := make(chan error, 1)
	e.mu.Lock()
	e.loadCtxs = append(e.loadCtxs, ctx)
	e.gates = append(e.gates, gate)
	e.mu.Unlock()
	progress(0.5)
	select {
	case err := <-gate:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

type fakeRenderer struct{ e *fakeEngine }

func (r *fakeRenderer) Render(Scene, Camera) { r.e.record("render") }
func (r *fakeRenderer) SetSize(w, h int)     { r.e.record("size %dx%d", w, h) }
func (r *fakeRenderer) Dispose()             { r.e.record("dispose") }

type fakeControls struct{ e *fakeEngine }

func (c fakeControls) Update() { c.e.record("controls.update") }

func mountAndWait(t *testing.T, b *Binding, e *fakeEngine, loadErr error) LoadResult {
	t.Helper()
	results := make(chan LoadResult, 1)
	n := e.loads() + 1
	_, err := b.Mount(context.Background(), fakeSurface{80, 20}, SampleAssetURL, func(r LoadResult) { results <- r })
	require.NoError(t, err)
	require.Eventually(t, func() bool { return e.loads() >= n }, time.Second, time.Millisecond)
	e.finish(n, loadErr)
	select {
	case r := <-results:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("load never settled")
		return LoadResult{}
	}
}

func TestMountBuildsEngineAndRendersAfterLoad(t *testing.T) {
	e := newFakeEngine()
	b := NewBinding(e, nil)

	res := mountAndWait(t, b, e, nil)
	require.NoError(t, res.Err)
	require.Equal(t, StateRendering, b.State())
	require.Equal(t, 1.0, b.LoadProgress())

	require.True(t, b.Frame())
	require.Equal(t, []string{
		"renderer 80x20",
		"scene",
		"camera",
		"controls",
		"size 80x20",
		"load " + SampleAssetURL,
		"controls.update",
		"render",
	}, e.Calls())
}

func TestFramesDoNotRunWhileLoading(t *testing.T) {
	e := newFakeEngine()
	b := NewBinding(e, nil)
	_, err := b.Mount(context.Background(), fakeSurface{10, 10}, SampleAssetURL, nil)
	require.NoError(t, err)
	require.Equal(t, StateLoading, b.State())
	require.False(t, b.Frame())
	b.Release()
}

func TestLoadFailureLeavesLoopUnstarted(t *testing.T) {
	e := newFakeEngine()
	b := NewBinding(e, nil)

	res := mountAndWait(t, b, e, errors.New("network down"))
	require.EqualError(t, res.Err, "network down")
	require.Equal(t, StateFailed, b.State())
	require.False(t, b.Frame())
	require.NotContains(t, e.Calls(), "render")

	b.Release()
	require.Equal(t, StateReleased, b.State())
}

func TestReleaseCancelsInFlightLoadAndSuppressesCallback(t *testing.T) {
	e := newFakeEngine()
	b := NewBinding(e, nil)
	called := make(chan LoadResult, 1)
	_, err := b.Mount(context.Background(), fakeSurface{10, 10}, SampleAssetURL, func(r LoadResult) { called <- r })
	require.NoError(t, err)

	require.Eventually(t, func() bool { return e.loads() == 1 }, time.Second, time.Millisecond)

	b.Release()
	e.mu.Lock()
	ctx := e.loadCtxs[0]
	e.mu.Unlock()
	require.ErrorIs(t, ctx.Err(), context.Canceled)
	require.Contains(t, e.Calls(), "dispose")

	select {
	case r := <-called:
		t.Fatalf("callback after release: %+v", r)
	case <-time.After(50 * time.Millisecond):
	}
	require.False(t, b.Frame())
}

func TestReleaseStopsRenderLoop(t *testing.T) {
	e := newFakeEngine()
	b := NewBinding(e, nil)
	mountAndWait(t, b, e, nil)
	require.True(t, b.Frame())

	b.Release()
	b.Release()
	require.False(t, b.Frame())
	require.Nil(t, b.Renderer())

	disposals := 0
	for _, c := range e.Calls() {
		if c == "dispose" {
			disposals++
		}
	}
	require.Equal(t, 1, disposals)
}

func TestResizeFollowsContainer(t *testing.T) {
	e := newFakeEngine()
	b := NewBinding(e, nil)
	b.Resize(5, 5) // nothing mounted yet
	mountAndWait(t, b, e, nil)

	b.Resize(120, 30)
	b.Resize(0, 30)
	calls := e.Calls()
	require.Equal(t, "size 120x30", calls[len(calls)-1])
}

func TestRendererFailureDoesNotPanic(t *testing.T) {
	e := newFakeEngine()
	e.rendererE = errors.New("no gpu")
	b := NewBinding(e, nil)
	_, err := b.Mount(context.Background(), fakeSurface{1, 1}, SampleAssetURL, nil)
	require.Error(t, err)
	require.Equal(t, StateFailed, b.State())
	require.False(t, b.Frame())
	b.Release()
}

func TestRemountDropsPreviousLoad(t *testing.T) {
	e := newFakeEngine()
	b := NewBinding(e, nil)
	first, err := b.Mount(context.Background(), fakeSurface{1, 1}, SampleAssetURL, nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return e.loads() == 1 }, time.Second, time.Millisecond)

	res := mountAndWait(t, b, e, nil)
	require.Greater(t, res.Mount, first)
	require.Equal(t, StateRendering, b.State())
}
