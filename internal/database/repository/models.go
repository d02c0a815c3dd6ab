package repository

import "time"

// ScanStatus tracks how far a scan session got.
type ScanStatus string

const (
	ScanCapturing  ScanStatus = "capturing"
	ScanProcessing ScanStatus = "processing"
	ScanViewed     ScanStatus = "viewed"
	ScanAbandoned  ScanStatus = "abandoned"
)

// Scan represents a scans row. Fingerprints are the gallery's content
// fingerprints at the time processing started; no image bytes are stored.
type Scan struct {
	ID           string
	Status       ScanStatus
	ImageCount   int
	Fingerprints []string
	AssetURL     *string
	StartedAt    time.Time
	UpdatedAt    time.Time
}
