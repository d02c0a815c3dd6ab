package tui

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/splatcam/internal/engine/term"
	"github.com/jask/splatcam/internal/processing"
	"github.com/jask/splatcam/internal/viewer"
	"github.com/jask/splatcam/internal/wizard"
)

// events is the single inbox goroutines use to reach the update loop.
type events chan tea.Msg

func (e events) send(ctx context.Context, msg tea.Msg) bool {
	select {
	case e <- msg:
		return true
	case <-ctx.Done():
		return false
	}
}

// listen waits for the next background message.
func (e events) listen() tea.Cmd {
	return func() tea.Msg { return <-e }
}

// simProcessor runs the simulator on a goroutine and reports through events.
type simProcessor struct {
	sim    processing.Simulator
	events events
	log    *slog.Logger
}

var _ wizard.Processor = (*simProcessor)(nil)

func (p *simProcessor) Start(ctx context.Context, run uint64, images int) {
	p.log.Info("processing started", "run", run, "images", images)
	go func() {
		err := p.sim.Run(ctx, func(pr processing.Progress) {
			p.events.send(ctx, progressMsg{Run: run, Progress: pr})
		})
		if err != nil {
			p.log.Info("processing cancelled", "run", run, "err", err)
			return
		}
		p.events.send(ctx, processingDoneMsg{Run: run})
	}()
}

// panelViewport mounts the viewer binding into the terminal panel.
type panelViewport struct {
	ctx     context.Context
	binding *viewer.Binding
	panel   *term.Panel
	asset   string
	events  events
	log     *slog.Logger
}

var _ wizard.Viewport = (*panelViewport)(nil)

func (v *panelViewport) Enter(sessionID string) {
	_, err := v.binding.Mount(v.ctx, v.panel, v.asset, func(r viewer.LoadResult) {
		v.events.send(v.ctx, loadedMsg(r))
	})
	if err != nil {
		v.log.Warn("viewer mount failed", "session", sessionID, "err", err)
	}
}

func (v *panelViewport) Leave() {
	v.binding.Release()
}
