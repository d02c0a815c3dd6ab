package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/jask/splatcam/internal/wizard"
)

// keyMap binds each wizard event to a key. Bindings are enabled only while
// the machine offers their event, so help never lists an unusable control.
type keyMap struct {
	StartScan     key.Binding
	ViewSample    key.Binding
	ClearAll      key.Binding
	Generate      key.Binding
	BackToWelcome key.Binding
	Cancel        key.Binding
	NewScan       key.Binding
	Orbit         key.Binding
	Quit          key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		StartScan:     key.NewBinding(key.WithKeys("s", "enter"), key.WithHelp("s", "start new scan")),
		ViewSample:    key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "view sample")),
		ClearAll:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear all")),
		Generate:      key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "generate splat")),
		BackToWelcome: key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "back to welcome")),
		Cancel:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		NewScan:       key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new scan")),
		Orbit:         key.NewBinding(key.WithKeys("left", "right", "up", "down", "h", "j", "k", "l", "+", "=", "-", "_"), key.WithHelp("←→↑↓ +/-", "orbit")),
		Quit:          key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// events pairs each event binding with its wizard event, in display order.
func (k *keyMap) events() []struct {
	kind    wizard.EventKind
	binding *key.Binding
} {
	return []struct {
		kind    wizard.EventKind
		binding *key.Binding
	}{
		{wizard.EventStartScan, &k.StartScan},
		{wizard.EventViewSample, &k.ViewSample},
		{wizard.EventClearAll, &k.ClearAll},
		{wizard.EventGenerate, &k.Generate},
		{wizard.EventBackToWelcome, &k.BackToWelcome},
		{wizard.EventCancel, &k.Cancel},
		{wizard.EventNewScan, &k.NewScan},
	}
}

// sync enables exactly the bindings whose events are offered.
func (k *keyMap) sync(offered []wizard.EventKind, step wizard.Step) {
	on := make(map[wizard.EventKind]bool, len(offered))
	for _, e := range offered {
		on[e] = true
	}
	for _, e := range k.events() {
		e.binding.SetEnabled(on[e.kind])
	}
	k.Orbit.SetEnabled(step == wizard.StepViewer)
}

// ShortHelp lists enabled bindings; bubbles/help skips disabled ones.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.StartScan, k.ViewSample, k.ClearAll, k.Generate, k.BackToWelcome, k.Cancel, k.NewScan, k.Orbit, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }
