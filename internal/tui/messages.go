package tui

import (
	"github.com/jask/splatcam/internal/gallery"
	"github.com/jask/splatcam/internal/processing"
	"github.com/jask/splatcam/internal/viewer"
)

// progressMsg is one simulator tick for run.
type progressMsg struct {
	Run      uint64
	Progress processing.Progress
}

// processingDoneMsg is sent once when run completes without cancellation.
type processingDoneMsg struct {
	Run uint64
}

// loadedMsg reports the viewer asset load result.
type loadedMsg viewer.LoadResult

// frameMsg drives one render-loop iteration for a mount.
type frameMsg struct {
	Mount uint64
}

// importedMsg carries uploads read from disk off the update loop. Session
// guards against adding them to a gallery that was reset meanwhile.
type importedMsg struct {
	Session string
	Uploads []gallery.Upload
	Errs    []error
}
