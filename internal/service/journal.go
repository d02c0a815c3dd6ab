package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jask/splatcam/internal/database/repository"
	"github.com/jask/splatcam/internal/wizard"
)

// ScanStore is the part of the scan repository the journal writes to.
type ScanStore interface {
	Upsert(ctx context.Context, s repository.Scan) error
	UpdateStatus(ctx context.Context, id string, status repository.ScanStatus, at time.Time) error
}

// Journal records wizard sessions as scan rows. Writes happen on a background
// worker so a slow disk never stalls a transition; failures are only logged.
type Journal struct {
	Scans    ScanStore
	AssetURL string
	Log      *slog.Logger

	queue chan wizard.Change
	wg    sync.WaitGroup
	once  sync.Once
}

const journalQueue = 64

// Start launches the writer. Observe may be called before Start; changes queue up.
func (j *Journal) Start(ctx context.Context) {
	j.init()
	j.wg.Add(1)
	go func() {
		defer j.wg.Done()
		for c := range j.queue {
			if err := j.Apply(ctx, c); err != nil {
				j.logger().Warn("journal write failed", "session", c.Before.SessionID, "to", c.To, "err", err)
			}
		}
	}()
}

// Observe is a wizard.Observer. It never blocks; when the queue is full the change is dropped.
func (j *Journal) Observe(c wizard.Change) {
	j.init()
	select {
	case j.queue <- c:
	default:
		j.logger().Warn("journal queue full, dropping change", "to", c.To)
	}
}

// Close flushes queued changes and stops the writer.
func (j *Journal) Close() {
	j.init()
	close(j.queue)
	j.wg.Wait()
}

// Apply writes the effect of one transition.
func (j *Journal) Apply(ctx context.Context, c wizard.Change) error {
	switch {
	case c.Event.Kind == wizard.EventStartScan:
		return j.Scans.Upsert(ctx, repository.Scan{
			ID:        c.After.SessionID,
			Status:    repository.ScanCapturing,
			StartedAt: c.After.StartedAt,
			UpdatedAt: c.At,
		})
	case c.To == wizard.StepProcessing:
		return j.Scans.Upsert(ctx, repository.Scan{
			ID:           c.After.SessionID,
			Status:       repository.ScanProcessing,
			ImageCount:   c.After.Count,
			Fingerprints: c.After.Fingerprints,
			StartedAt:    c.After.StartedAt,
			UpdatedAt:    c.At,
		})
	case c.From == wizard.StepProcessing && c.To == wizard.StepViewer:
		var asset *string
		if j.AssetURL != "" {
			asset = &j.AssetURL
		}
		return j.Scans.Upsert(ctx, repository.Scan{
			ID:           c.After.SessionID,
			Status:       repository.ScanViewed,
			ImageCount:   c.After.Count,
			Fingerprints: c.After.Fingerprints,
			AssetURL:     asset,
			StartedAt:    c.After.StartedAt,
			UpdatedAt:    c.At,
		})
	case c.To == wizard.StepWelcome && (c.From == wizard.StepCapture || c.From == wizard.StepProcessing):
		return j.Scans.UpdateStatus(ctx, c.Before.SessionID, repository.ScanAbandoned, c.At)
	}
	return nil
}

func (j *Journal) init() {
	j.once.Do(func() { j.queue = make(chan wizard.Change, journalQueue) })
}

func (j *Journal) logger() *slog.Logger {
	if j.Log == nil {
		return slog.Default()
	}
	return j.Log
}
