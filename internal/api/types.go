package api

import (
	"time"

	"slidecast/internal/queue"
)

// JobView is the transport representation of a render job.
type JobView struct {
	ID              int64   `json:"id"`
	Project         string  `json:"project"`
	Status          string  `json:"status"`
	Progress        float64 `json:"progress"`
	ProgressStage   string  `json:"progressStage,omitempty"`
	ProgressMessage string  `json:"progressMessage,omitempty"`
	VideoPath       string  `json:"videoPath,omitempty"`
	SubtitlePath    string  `json:"subtitlePath,omitempty"`
	SegmentCount    int     `json:"segmentCount,omitempty"`
	DurationMS      int64   `json:"durationMs,omitempty"`
	Error           string  `json:"error,omitempty"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
	StartedAt       string  `json:"startedAt,omitempty"`
	FinishedAt      string  `json:"finishedAt,omitempty"`
}

// StatsView is the transport representation of queue statistics.
type StatsView struct {
	Total     int `json:"total"`
	Queued    int `json:"queued"`
	Running   int `json:"running"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// ProgressEvent is one websocket frame on the job event stream.
type ProgressEvent struct {
	JobID    int64   `json:"jobId"`
	Status   string  `json:"status"`
	Stage    string  `json:"stage,omitempty"`
	Percent  float64 `json:"percent"`
	Message  string  `json:"message,omitempty"`
	Terminal bool    `json:"terminal"`
}

// FromJob converts a queue job into its transport view.
func FromJob(job *queue.Job) JobView {
	return JobView{
		ID:              job.ID,
		Project:         job.Project,
		Status:          string(job.Status),
		Progress:        job.Progress,
		ProgressStage:   job.ProgressStage,
		ProgressMessage: job.ProgressMessage,
		VideoPath:       job.VideoPath,
		SubtitlePath:    job.SubtitlePath,
		SegmentCount:    job.SegmentCount,
		DurationMS:      job.DurationMS,
		Error:           job.ErrorMessage,
		CreatedAt:       formatAPITime(job.CreatedAt),
		UpdatedAt:       formatAPITime(job.UpdatedAt),
		StartedAt:       formatOptionalTime(job.StartedAt),
		FinishedAt:      formatOptionalTime(job.FinishedAt),
	}
}

// FromStats converts queue statistics into their transport view.
func FromStats(stats queue.Stats) StatsView {
	return StatsView{
		Total:     stats.Total,
		Queued:    stats.Queued,
		Running:   stats.Running,
		Succeeded: stats.Succeeded,
		Failed:    stats.Failed,
	}
}

func formatAPITime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatAPITime(*t)
}
