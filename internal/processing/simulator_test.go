package processing

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func noPause(ctx context.Context, _ time.Duration) error { return ctx.Err() }

func TestRunPerformsExactlyHundredTicks(t *testing.T) {
	var got []Progress
	err := Simulator{Pause: noPause}.Run(context.Background(), func(p Progress) {
		got = append(got, p)
	})
	require.NoError(t, err)
	require.Len(t, got, Ticks)
	for i, p := range got {
		require.Equal(t, i+1, p.Percent)
		require.Equal(t, i == Ticks-1, p.Done)
	}
	require.InDelta(t, 1.0, got[Ticks-1].Fraction(), 1e-9)
}

func TestCaptionsChangeOnlyAtCheckpoints(t *testing.T) {
	var changes []int
	var captions []string
	err := Simulator{Pause: noPause}.Run(context.Background(), func(p Progress) {
		if p.CaptionChanged {
			changes = append(changes, p.Tick)
			captions = append(captions, p.Caption)
		}
	})
	require.NoError(t, err)
	require.Equal(t, []int{0, 20, 40, 60, 80}, changes)
	require.Equal(t, Captions[:], captions)
}

func TestJitterDoesNotChangeTickCount(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	jitter := func(ctx context.Context, _ time.Duration) error {
		time.Sleep(time.Duration(rng.Intn(50)) * time.Microsecond)
		return ctx.Err()
	}
	n := 0
	done := false
	err := Simulator{Interval: time.Millisecond, Pause: jitter}.Run(context.Background(), func(p Progress) {
		n++
		done = p.Done
	})
	require.NoError(t, err)
	require.Equal(t, Ticks, n)
	require.True(t, done)
}

func TestCancelStopsBeforeCompletion(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var last Progress
	n := 0
	err := Simulator{Pause: noPause}.Run(ctx, func(p Progress) {
		n++
		last = p
		if p.Tick == 41 {
			cancel()
		}
	})
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 42, n)
	require.False(t, last.Done)
}

func TestDefaultPauseHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n := 0
	err := Simulator{Interval: time.Hour}.Run(ctx, func(Progress) { n++ })
	require.ErrorIs(t, err, context.Canceled)
	require.Zero(t, n)
}

func TestCaptionAt(t *testing.T) {
	c, ok := CaptionAt(60)
	require.True(t, ok)
	require.Equal(t, "Optimizing SH coefficients...", c)
	for _, tick := range []int{-20, 1, 19, 99, 100} {
		_, ok := CaptionAt(tick)
		require.False(t, ok, "tick %d", tick)
	}
}
