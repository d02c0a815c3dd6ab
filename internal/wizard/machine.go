package wizard

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jask/splatcam/internal/gallery"
)

// Session is the per-user wizard state. Only the Machine changes Step and
// only the gallery store changes the images.
type Session struct {
	ID        string
	Step      Step
	StartedAt time.Time
	Gallery   *gallery.Store
}

// Snapshot is a read-only copy of a session.
type Snapshot struct {
	SessionID    string
	Step         Step
	StartedAt    time.Time
	Count        int
	Fingerprints []string
}

// Change describes one applied transition.
type Change struct {
	From   Step
	To     Step
	Event  Event
	Before Snapshot
	After  Snapshot
	At     time.Time
}

// Observer is called after each applied transition, while the machine is
// still locked. Observers must not call back into the machine.
type Observer func(Change)

// Processor starts the simulated reconstruction for run. It must not block;
// when the run completes the caller fires EventProcessingDone with the same
// run number. Cancelling ctx aborts the run before it reports completion.
type Processor interface {
	Start(ctx context.Context, run uint64, images int)
}

// Viewport owns the viewer step's resources.
type Viewport interface {
	Enter(sessionID string)
	Leave()
}

// Options configures a Machine.
type Options struct {
	MinImages int
	Dedup     gallery.DedupPolicy
	Processor Processor
	Viewport  Viewport
	Logger    *slog.Logger
	NewID     func() string
	Now       func() time.Time
}

// Machine applies wizard transitions one at a time.
type Machine struct {
	mu        sync.Mutex
	opts      Options
	session   Session
	run       uint64
	cancelRun context.CancelFunc
	observers []Observer
	log       *slog.Logger
}

func NewMachine(opts Options) *Machine {
	if opts.MinImages <= 0 {
		opts.MinImages = DefaultMinImages
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	m := &Machine{opts: opts, log: opts.Logger.With("component", "wizard")}
	m.session = m.freshSession()
	return m
}

// Observe registers fn for every subsequent transition.
func (m *Machine) Observe(fn Observer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, fn)
}

// Fire applies ev if it is valid for the current step and reports whether it was applied.
func (m *Machine) Fire(ev Event) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	from := m.session.Step
	before := m.snapshotLocked()
	to, ok := Next(from, ev.Kind, m.session.Gallery.Count(), m.opts.MinImages)
	if !ok {
		m.log.Debug("event ignored", "step", from, "event", ev.Kind)
		return false
	}
	if ev.Kind == EventProcessingDone && ev.Run != m.run {
		m.log.Debug("stale processing completion", "run", ev.Run, "current", m.run)
		return false
	}

	if from == StepViewer && to != StepViewer {
		m.leaveViewer()
	}

	switch ev.Kind {
	case EventStartScan:
		m.session.Gallery.Clear()
		m.session.Step = StepCapture
	case EventClearAll:
		m.session.Gallery.Clear()
	case EventGenerate:
		m.session.Step = StepProcessing
		m.startRun()
	case EventProcessingDone:
		m.stopRun()
		m.session.Step = StepViewer
	case EventViewSample:
		m.session.Step = StepViewer
	case EventBackToWelcome, EventCancel, EventNewScan:
		m.resetLocked()
	}

	if to == StepViewer && from != StepViewer && m.opts.Viewport != nil {
		m.opts.Viewport.Enter(m.session.ID)
	}
	m.notify(before, to, ev)
	return true
}

// Reset returns to welcome from any step, cancelling processing and
// releasing the viewer.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	before := m.snapshotLocked()
	if before.Step == StepViewer {
		m.leaveViewer()
	}
	m.resetLocked()
	m.notify(before, StepWelcome, On(EventNewScan))
}

// AddImages hands candidates to the gallery. Uploads outside the capture step are dropped.
func (m *Machine) AddImages(candidates ...gallery.Upload) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session.Step != StepCapture {
		return 0
	}
	return m.session.Gallery.Add(candidates...)
}

func (m *Machine) Step() Step {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.Step
}

func (m *Machine) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.Gallery.Count()
}

func (m *Machine) Images() []gallery.Upload {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.Gallery.Images()
}

// Remaining is how many more images the generate guard needs.
func (m *Machine) Remaining() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.Gallery.Remaining(m.opts.MinImages)
}

func (m *Machine) MinImages() int { return m.opts.MinImages }

// Run is the number of the current (or last) processing run.
func (m *Machine) Run() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.run
}

// Offered lists the user events valid right now.
func (m *Machine) Offered() []EventKind {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Offered(m.session.Step, m.session.Gallery.Count(), m.opts.MinImages)
}

// Can reports whether kind is currently offered.
func (m *Machine) Can(kind EventKind) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := Next(m.session.Step, kind, m.session.Gallery.Count(), m.opts.MinImages)
	return ok
}

func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Close cancels outstanding work; used when the program exits.
func (m *Machine) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopRun()
	if m.session.Step == StepViewer {
		m.leaveViewer()
	}
}

func (m *Machine) freshSession() Session {
	return Session{
		ID:        m.opts.NewID(),
		Step:      StepWelcome,
		StartedAt: m.opts.Now(),
		Gallery:   gallery.NewStore(m.opts.Dedup),
	}
}

func (m *Machine) resetLocked() {
	m.stopRun()
	m.session = m.freshSession()
}

func (m *Machine) startRun() {
	m.stopRun()
	m.run++
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelRun = cancel
	if m.opts.Processor != nil {
		m.opts.Processor.Start(ctx, m.run, m.session.Gallery.Count())
	}
}

func (m *Machine) stopRun() {
	if m.cancelRun != nil {
		m.cancelRun()
		m.cancelRun = nil
	}
}

func (m *Machine) leaveViewer() {
	if m.opts.Viewport != nil {
		m.opts.Viewport.Leave()
	}
}

func (m *Machine) snapshotLocked() Snapshot {
	return Snapshot{
		SessionID:    m.session.ID,
		Step:         m.session.Step,
		StartedAt:    m.session.StartedAt,
		Count:        m.session.Gallery.Count(),
		Fingerprints: m.session.Gallery.Fingerprints(),
	}
}

func (m *Machine) notify(before Snapshot, to Step, ev Event) {
	m.log.Info("transition", "from", before.Step, "to", to, "event", ev.Kind, "session", before.SessionID)
	if len(m.observers) == 0 {
		return
	}
	c := Change{From: before.Step, To: to, Event: ev, Before: before, After: m.snapshotLocked(), At: m.opts.Now()}
	for _, fn := range m.observers {
		fn(c)
	}
}
