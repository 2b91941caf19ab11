package queue

import "time"

// Status represents the lifecycle of a render job.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

var allStatuses = []Status{StatusQueued, StatusRunning, StatusSucceeded, StatusFailed}

// Valid reports whether s is a known lifecycle status.
func (s Status) Valid() bool {
	for _, status := range allStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Terminal reports whether the status is final.
func (s Status) Terminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}

// Job represents a render job persisted in SQLite.
type Job struct {
	ID              int64
	Project         string
	Status          Status
	ManifestJSON    string
	Progress        float64
	ProgressStage   string
	ProgressMessage string
	VideoPath       string
	SubtitlePath    string
	SegmentCount    int
	DurationMS      int64
	ErrorMessage    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	StartedAt       *time.Time
	FinishedAt      *time.Time
}

// Stats aggregates job counts per lifecycle state.
type Stats struct {
	Total     int
	Queued    int
	Running   int
	Succeeded int
	Failed    int
}
