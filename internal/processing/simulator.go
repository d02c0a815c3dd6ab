// Package processing simulates the reconstruction step: a fixed run of
// progress ticks with staged captions. No real work happens here.
package processing

import (
	"context"
	"time"
)

const (
	// Ticks is the number of progress units in one run.
	Ticks = 100
	// CaptionEvery is the tick spacing between caption changes.
	CaptionEvery = 20
	// DefaultInterval is the pause before each tick.
	DefaultInterval = 50 * time.Millisecond
)

// Captions are shown in order at ticks 0, 20, 40, 60 and 80.
var Captions = [...]string{
	"Initializing FFN nodes...",
	"Extracting depth maps...",
	"Synthesizing Gaussian ellipsoids...",
	"Optimizing SH coefficients...",
	"Finalizing mobile assets...",
}

// Progress is reported once per tick.
type Progress struct {
	Tick    int // zero-based index of the tick just completed
	Percent int // 1..100
	Caption string
	// CaptionChanged is true only on the checkpoint ticks.
	CaptionChanged bool
	Done           bool
}

// Fraction is Percent as 0..1, the form bubbles/progress wants.
func (p Progress) Fraction() float64 { return float64(p.Percent) / Ticks }

// PauseFunc waits d or until ctx is done.
type PauseFunc func(ctx context.Context, d time.Duration) error

// Simulator paces a run. The zero value uses DefaultInterval and a real timer.
type Simulator struct {
	Interval time.Duration
	Pause    PauseFunc
}

// CaptionAt returns the caption that becomes visible at tick, if tick is a checkpoint.
func CaptionAt(tick int) (string, bool) {
	if tick < 0 || tick%CaptionEvery != 0 || tick/CaptionEvery >= len(Captions) {
		return "", false
	}
	return Captions[tick/CaptionEvery], true
}

// Run performs exactly Ticks ticks, calling report after each. It returns nil
// once the final tick (Done) has been reported, or ctx.Err() if cancelled; a
// cancelled run reports nothing further.
func (s Simulator) Run(ctx context.Context, report func(Progress)) error {
	interval := s.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	pause := s.Pause
	if pause == nil {
		pause = sleep
	}

	caption := ""
	for i := 0; i < Ticks; i++ {
		if err := pause(ctx, interval); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		next, changed := CaptionAt(i)
		if changed {
			caption = next
		}
		report(Progress{
			Tick:           i,
			Percent:        i + 1,
			Caption:        caption,
			CaptionChanged: changed,
			Done:           i == Ticks-1,
		})
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
