package main

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/jask/splatcam/internal/gallery"
	"github.com/jask/splatcam/internal/wizard"
)

type idleProcessor struct{}

func (idleProcessor) Start(context.Context, uint64, int) {}

type idleViewport struct{}

func (idleViewport) Enter(string) {}
func (idleViewport) Leave()       {}

func TestFinishWizardResetsKilledProgram(t *testing.T) {
	m := wizard.NewMachine(wizard.Options{
		MinImages: 1,
		Dedup:     gallery.DedupIdentity,
		Processor: idleProcessor{},
		Viewport:  idleViewport{},
	})
	var changes []wizard.Change
	m.Observe(func(c wizard.Change) { changes = append(changes, c) })
	m.Fire(wizard.On(wizard.EventStartScan))

	require.NoError(t, finishWizard(m, tea.ErrProgramKilled))
	require.Equal(t, wizard.StepWelcome, m.Step())
	last := changes[len(changes)-1]
	require.Equal(t, wizard.StepCapture, last.From)
	require.Equal(t, wizard.StepWelcome, last.To)
}

func TestFinishWizardWrapsOtherErrors(t *testing.T) {
	m := wizard.NewMachine(wizard.Options{MinImages: 1, Dedup: gallery.DedupIdentity, Processor: idleProcessor{}, Viewport: idleViewport{}})
	m.Fire(wizard.On(wizard.EventStartScan))

	err := finishWizard(m, errors.New("tty gone"))
	require.ErrorContains(t, err, "run wizard: tty gone")
	require.Equal(t, wizard.StepCapture, m.Step())

	require.NoError(t, finishWizard(m, nil))
}
