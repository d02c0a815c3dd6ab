package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jask/splatcam/internal/engine/term"
	"github.com/jask/splatcam/internal/gallery"
	"github.com/jask/splatcam/internal/viewer"
	"github.com/jask/splatcam/internal/wizard"
)

const galleryColumns = 3

// View renders exactly one screen: the one for the machine's current step.
func (a *App) View() string {
	var body string
	switch a.machine.Step() {
	case wizard.StepCapture:
		body = a.renderCapture()
	case wizard.StepProcessing:
		body = a.renderProcessing()
	case wizard.StepViewer:
		body = a.renderViewer()
	default:
		body = a.renderWelcome()
	}
	return body + "\n\n" + a.help.ShortHelpView(a.keys.ShortHelp())
}

func (a *App) renderWelcome() string {
	title := brandStyle.Render("SplatCam")
	body := "Turn any object into a 3D Gaussian Splat instantly.\n\n" +
		"Instructions\n" +
		fmt.Sprintf("1. Capture: add %d or more photos of an object from different angles.\n", a.machine.MinImages()) +
		"2. Generate: the reconstruction runs in a few seconds.\n" +
		"3. View: orbit the splat in real time."
	return fmt.Sprintf("%s\n%s", title, body)
}

func (a *App) renderCapture() string {
	var b strings.Builder
	b.WriteString(badgeStyle.Render("STEP 1: UPLOAD PHOTOS") + "\n")
	b.WriteString("Pick photos of your object. They will be added to the gallery below.\n\n")
	b.WriteString(a.picker.View() + "\n")

	images := a.machine.Images()
	if len(images) > 0 {
		b.WriteString(titleStyle.Render(fmt.Sprintf("Gallery (%d photos)", len(images))) + "\n")
		b.WriteString(a.renderGrid(images) + "\n")
		b.WriteString(mutedStyle.Render("latest: "+images[len(images)-1].Name) + "\n")
	}

	if need := a.machine.Remaining(); need > 0 {
		b.WriteString(disabledStyle.Render(fmt.Sprintf("Need %d more", need)))
	} else {
		b.WriteString(readyStyle.Render("Ready: press g to generate the splat"))
	}
	return b.String()
}

// renderGrid lays image names out row-major in fixed-width columns.
func (a *App) renderGrid(images []gallery.Upload) string {
	colWidth := max((a.width-2)/galleryColumns, 8)
	cell := lipgloss.NewStyle().Width(colWidth)
	var rows []string
	for i := 0; i < len(images); i += galleryColumns {
		var cols []string
		for j := i; j < min(i+galleryColumns, len(images)); j++ {
			cols = append(cols, cell.Render(ansi.Truncate(images[j].Name, colWidth-1, "…")))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cols...))
	}
	return strings.Join(rows, "\n")
}

func (a *App) renderProcessing() string {
	p := a.last
	caption := p.Caption
	if caption == "" {
		caption = "Starting..."
	}
	return fmt.Sprintf("%s\n%s\n%s\n\n%s\n%s %3d%%",
		badgeStyle.Render("STEP 2: FFN RECONSTRUCTION"),
		"AI is building your splat...",
		mutedStyle.Render(fmt.Sprintf("Processing %d captures...", a.machine.Count())),
		captionStyle.Render(a.fit(caption)),
		a.bar.ViewAs(p.Fraction()),
		p.Percent,
	)
}

func (a *App) renderViewer() string {
	title := badgeStyle.Render("STEP 3: 3D VIEW") + "\n" + titleStyle.Render("Interactive Splat")
	w, h := a.panel.Size()
	switch a.binding.State() {
	case viewer.StateRendering:
		if r, ok := a.binding.Renderer().(*term.Renderer); ok {
			return title + "\n" + r.View()
		}
	case viewer.StateLoading:
		base := blank(w, h)
		if r, ok := a.binding.Renderer().(*term.Renderer); ok {
			base = r.View()
		}
		box := overlayStyle.Render(fmt.Sprintf("%s Streaming 3D data... %3.0f%%", a.spin.View(), a.binding.LoadProgress()*100))
		return title + "\n" + overlayCenter(base, box, w, h)
	}
	return title + "\n" + blank(w, h)
}

func blank(w, h int) string {
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, "")
}

// fit truncates s to the terminal width.
func (a *App) fit(s string) string {
	if a.width <= 0 {
		return s
	}
	return ansi.Truncate(s, a.width, "…")
}
