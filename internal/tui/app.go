package tui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/splatcam/internal/config"
	"github.com/jask/splatcam/internal/engine/term"
	"github.com/jask/splatcam/internal/gallery"
	"github.com/jask/splatcam/internal/processing"
	"github.com/jask/splatcam/internal/viewer"
	"github.com/jask/splatcam/internal/wizard"
)

// App is the wizard's bubbletea model. The machine owns the step; App only
// renders it and turns key presses and background results into events.
type App struct {
	cfg     config.Config
	machine *wizard.Machine
	binding *viewer.Binding
	panel   *term.Panel
	events  events
	keys    keyMap
	help    help.Model
	picker  filepicker.Model
	bar     progress.Model
	spin    spinner.Model
	last    processing.Progress
	seed    []string
	width   int
	height  int
	log     *slog.Logger
}

// Options carries the collaborators the command line wires in.
type Options struct {
	// Observers are registered on the machine, e.g. the scan journal.
	Observers []wizard.Observer
	// Paths pre-seed the gallery when the first scan starts.
	Paths []string
	// Engine defaults to the terminal engine.
	Engine viewer.Engine
	// Pause overrides the simulator's timer.
	Pause  processing.PauseFunc
	Logger *slog.Logger
}

func New(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	policy, err := cfg.DedupPolicy()
	if err != nil {
		return nil, fmt.Errorf("tui: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	engine := opts.Engine
	if engine == nil {
		engine = &term.Engine{MaxBytes: cfg.Viewer.MaxAssetBytes()}
	}

	ev := make(events, 16)
	panel := term.NewPanel(80, cfg.Viewer.Height)
	binding := viewer.NewBinding(engine, logger)
	machine := wizard.NewMachine(wizard.Options{
		MinImages: cfg.Gallery.MinImages,
		Dedup:     policy,
		Processor: &simProcessor{
			sim:    processing.Simulator{Interval: cfg.Processing.Interval, Pause: opts.Pause},
			events: ev,
			log:    logger,
		},
		Viewport: &panelViewport{
			ctx:     ctx,
			binding: binding,
			panel:   panel,
			asset:   cfg.Viewer.AssetURL,
			events:  ev,
			log:     logger,
		},
		Logger: logger,
	})
	for _, o := range opts.Observers {
		machine.Observe(o)
	}

	picker := filepicker.New()
	picker.AllowedTypes = gallery.AllowedExtensions
	picker.CurrentDirectory = cfg.Gallery.StartDir
	picker.Height = 8
	// g is Generate here.
	picker.KeyMap.GoToTop = key.NewBinding(key.WithKeys("home"), key.WithHelp("home", "first"))
	picker.KeyMap.GoToLast = key.NewBinding(key.WithKeys("end"), key.WithHelp("end", "last"))

	a := &App{
		cfg:     cfg,
		machine: machine,
		binding: binding,
		panel:   panel,
		events:  ev,
		keys:    defaultKeyMap(),
		help:    help.New(),
		picker:  picker,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		spin:    spinner.New(spinner.WithSpinner(spinner.Dot)),
		seed:    opts.Paths,
		width:   80,
		log:     logger.With("component", "tui"),
	}
	a.keys.sync(machine.Offered(), machine.Step())
	return a, nil
}

// Machine exposes the wizard so the caller can close it on exit.
func (a *App) Machine() *wizard.Machine { return a.machine }

func (a *App) Init() tea.Cmd {
	return a.events.listen()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.KeyMsg:
		return a.handleKey(m)
	case tea.WindowSizeMsg:
		a.resize(m.Width, m.Height)
	case importedMsg:
		a.applyImport(m)
	case progressMsg:
		if m.Run == a.machine.Run() && a.machine.Step() == wizard.StepProcessing {
			a.last = m.Progress
		}
		return a, a.events.listen()
	case processingDoneMsg:
		_, cmd := a.fire(wizard.Event{Kind: wizard.EventProcessingDone, Run: m.Run})
		return a, tea.Batch(cmd, a.events.listen())
	case loadedMsg:
		// A failed load leaves the container blank; the error is in the log.
		if m.Mount != a.binding.Mounted() || m.Err != nil {
			return a, a.events.listen()
		}
		return a, tea.Batch(a.frame(m.Mount), a.events.listen())
	case frameMsg:
		if m.Mount != a.binding.Mounted() || !a.binding.Frame() {
			return a, nil
		}
		return a, a.frame(m.Mount)
	case spinner.TickMsg:
		if a.binding.State() != viewer.StateLoading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(m)
		return a, cmd
	default:
		if a.machine.Step() == wizard.StepCapture {
			var cmd tea.Cmd
			a.picker, cmd = a.picker.Update(msg)
			return a, cmd
		}
	}
	return a, nil
}

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(m, a.keys.Quit) {
		a.machine.Reset()
		return a, tea.Quit
	}
	for _, e := range a.keys.events() {
		if key.Matches(m, *e.binding) {
			return a.fire(wizard.On(e.kind))
		}
	}

	switch a.machine.Step() {
	case wizard.StepViewer:
		if key.Matches(m, a.keys.Orbit) {
			if c, ok := a.binding.Controls().(*term.Controls); ok {
				c.HandleKey(m)
			}
		}
	case wizard.StepCapture:
		return a.handlePickerKey(m)
	}
	return a, nil
}

func (a *App) handlePickerKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	a.picker, cmd = a.picker.Update(m)
	if ok, path := a.picker.DidSelectFile(m); ok {
		return a, tea.Batch(cmd, a.importCmd(path))
	}
	if ok, path := a.picker.DidSelectDisabledFile(m); ok {
		a.log.Debug("upload rejected", "path", path, "err", gallery.ErrUnsupportedType)
	}
	return a, cmd
}

// fire hands ev to the machine and sets up the screen it lands on.
func (a *App) fire(ev wizard.Event) (tea.Model, tea.Cmd) {
	from := a.machine.Step()
	if !a.machine.Fire(ev) {
		return a, nil
	}
	to := a.machine.Step()
	a.keys.sync(a.machine.Offered(), to)
	if from == to {
		return a, nil
	}
	a.last = processing.Progress{}

	switch to {
	case wizard.StepCapture:
		cmds := []tea.Cmd{a.picker.Init()}
		if len(a.seed) > 0 {
			cmds = append(cmds, a.importCmd(a.seed...))
			a.seed = nil
		}
		return a, tea.Batch(cmds...)
	case wizard.StepViewer:
		return a, a.spin.Tick
	}
	return a, nil
}

func (a *App) resize(width, height int) {
	a.width, a.height = width, height
	a.help.Width = width
	a.bar.Width = min(max(width-8, 10), 60)

	ph := a.cfg.Viewer.Height
	if height > 0 {
		// title, badge and help lines
		ph = min(ph, max(height-6, 4))
	}
	a.panel.SetSize(width, ph)
	a.binding.Resize(width, ph)
	a.picker.Height = max(height-14, 4)
}

// applyImport adds uploads to the current session. Rejected and duplicate
// files are dropped without comment; only the gallery count reflects them.
func (a *App) applyImport(m importedMsg) {
	if m.Session != a.machine.Snapshot().SessionID {
		a.log.Debug("dropping import for previous session", "session", m.Session)
		return
	}
	for _, err := range m.Errs {
		a.log.Debug("upload rejected", "err", err)
	}
	added := a.machine.AddImages(m.Uploads...)
	if dup := len(m.Uploads) - added; dup > 0 {
		a.log.Debug("duplicate uploads dropped", "count", dup)
	}
	a.keys.sync(a.machine.Offered(), a.machine.Step())
}

// commands

func (a *App) importCmd(paths ...string) tea.Cmd {
	session := a.machine.Snapshot().SessionID
	return func() tea.Msg {
		msg := importedMsg{Session: session}
		for _, p := range paths {
			u, err := gallery.Open(p)
			if err != nil {
				msg.Errs = append(msg.Errs, err)
				continue
			}
			msg.Uploads = append(msg.Uploads, u)
		}
		return msg
	}
}

func (a *App) frame(mount uint64) tea.Cmd {
	fps := a.cfg.Viewer.FPS
	if fps <= 0 {
		fps = 30
	}
	return tea.Tick(time.Second/time.Duration(fps), func(time.Time) tea.Msg {
		return frameMsg{Mount: mount}
	})
}
