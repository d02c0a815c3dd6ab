// Package wizard holds the capture session and the step machine that drives
// welcome -> capture -> processing -> viewer and back.
package wizard

// Step is the wizard screen currently shown.
type Step string

const (
	StepWelcome    Step = "welcome"
	StepCapture    Step = "capture"
	StepProcessing Step = "processing"
	StepViewer     Step = "viewer"
)

// EventKind names a transition trigger.
type EventKind string

const (
	EventStartScan      EventKind = "start_scan"
	EventViewSample     EventKind = "view_sample"
	EventGenerate       EventKind = "generate"
	EventClearAll       EventKind = "clear_all"
	EventBackToWelcome  EventKind = "back_to_welcome"
	EventCancel         EventKind = "cancel"
	EventProcessingDone EventKind = "processing_done"
	EventNewScan        EventKind = "new_scan"
)

// Event is a transition request. Run is only meaningful for
// EventProcessingDone, where it names the processing run that finished.
type Event struct {
	Kind EventKind
	Run  uint64
}

// On is shorthand for an event without payload.
func On(kind EventKind) Event { return Event{Kind: kind} }

// DefaultMinImages is the gallery size required before generating.
const DefaultMinImages = 3

// Next is the transition table. It reports the destination step and whether
// the event is valid in from given the current gallery count. Invalid events
// are not errors; callers ignore them.
func Next(from Step, kind EventKind, count, minImages int) (Step, bool) {
	switch from {
	case StepWelcome:
		switch kind {
		case EventStartScan:
			return StepCapture, true
		case EventViewSample:
			return StepViewer, true
		}
	case StepCapture:
		switch kind {
		case EventGenerate:
			if count >= minImages {
				return StepProcessing, true
			}
		case EventClearAll:
			return StepCapture, true
		case EventBackToWelcome:
			return StepWelcome, true
		}
	case StepProcessing:
		switch kind {
		case EventProcessingDone:
			return StepViewer, true
		case EventCancel:
			return StepWelcome, true
		}
	case StepViewer:
		if kind == EventNewScan {
			return StepWelcome, true
		}
	}
	return from, false
}

// userEvents are the kinds a person can trigger, in display order.
var userEvents = []EventKind{
	EventStartScan,
	EventViewSample,
	EventClearAll,
	EventGenerate,
	EventBackToWelcome,
	EventCancel,
	EventNewScan,
}

// Offered lists the user-triggerable events whose guards pass.
func Offered(from Step, count, minImages int) []EventKind {
	var out []EventKind
	for _, k := range userEvents {
		if _, ok := Next(from, k, count, minImages); ok {
			out = append(out, k)
		}
	}
	return out
}
