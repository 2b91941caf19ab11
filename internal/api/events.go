package api

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"slidecast/internal/logging"
	"slidecast/internal/queue"
	"slidecast/internal/render"
)

// eventBuffer bounds the per-subscriber queue. Slow websocket readers drop
// intermediate progress frames rather than stalling the renderer.
const eventBuffer = 16

type hub struct {
	mu   sync.Mutex
	subs map[int64]map[chan ProgressEvent]struct{}
}

func newHub() *hub {
	return &hub{subs: make(map[int64]map[chan ProgressEvent]struct{})}
}

func (h *hub) subscribe(jobID int64) (chan ProgressEvent, func()) {
	ch := make(chan ProgressEvent, eventBuffer)
	h.mu.Lock()
	set, ok := h.subs[jobID]
	if !ok {
		set = make(map[chan ProgressEvent]struct{})
		h.subs[jobID] = set
	}
	set[ch] = struct{}{}
	h.mu.Unlock()

	return ch, func() {
		h.mu.Lock()
		delete(set, ch)
		if len(set) == 0 {
			delete(h.subs, jobID)
		}
		h.mu.Unlock()
	}
}

func (h *hub) publish(event ProgressEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[event.JobID] {
		select {
		case ch <- event:
		default:
		}
	}
}

// PublishProgress forwards a renderer progress update to websocket
// subscribers. Wire it to render.JobRunner.OnProgress.
func (s *Server) PublishProgress(job *queue.Job, progress render.Progress) {
	s.hub.publish(ProgressEvent{
		JobID:   job.ID,
		Status:  string(job.Status),
		Stage:   progress.Stage,
		Percent: progress.Percent,
		Message: progress.Message,
	})
}

// PublishFinished announces a job's terminal state to websocket
// subscribers. Wire it to render.JobRunner.OnFinished.
func (s *Server) PublishFinished(job *queue.Job) {
	s.hub.publish(ProgressEvent{
		JobID:    job.ID,
		Status:   string(job.Status),
		Percent:  job.Progress,
		Message:  job.ErrorMessage,
		Terminal: true,
	})
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The API binds to loopback; cross-origin browser clients are expected
	// during local development.
	CheckOrigin: func(*http.Request) bool { return true },
}

// handleJobEvents streams progress frames for one job until it reaches a
// terminal state or the client disconnects.
func (s *Server) handleJobEvents(w http.ResponseWriter, r *http.Request) {
	job, ok := s.jobFromRequest(w, r)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", logging.Error(err))
		return
	}
	defer conn.Close()

	events, cancel := s.hub.subscribe(job.ID)
	defer cancel()

	// Snapshot first so late subscribers see the current state.
	snapshot := ProgressEvent{
		JobID:    job.ID,
		Status:   string(job.Status),
		Stage:    job.ProgressStage,
		Percent:  job.Progress,
		Message:  job.ProgressMessage,
		Terminal: job.Status.Terminal(),
	}
	if err := conn.WriteJSON(snapshot); err != nil {
		return
	}
	if snapshot.Terminal {
		return
	}

	// Reader goroutine surfaces client disconnects.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case event := <-events:
			if err := conn.WriteJSON(event); err != nil {
				return
			}
			if event.Terminal {
				return
			}
		}
	}
}
