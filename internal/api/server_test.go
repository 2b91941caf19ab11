package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"slidecast/internal/queue"
	"slidecast/internal/render"
	"slidecast/internal/testsupport"
)

const manifestDoc = `{
	"project": "demo",
	"segments": [
		{"narration_text": "你好。", "scenes": [{"path": "/tmp/a.jpg"}]}
	]
}`

func testServer(t *testing.T) (*Server, *queue.Store) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	return NewServer(cfg, store, nil), store
}

func postManifest(t *testing.T, ts *httptest.Server, doc string) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL+"/api/jobs", "application/json", bytes.NewReader([]byte(doc)))
	if err != nil {
		t.Fatalf("post manifest: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestCreateAndGetJob(t *testing.T) {
	server, _ := testServer(t)
	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	resp := postManifest(t, ts, manifestDoc)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	var created JobView
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}
	if created.Project != "demo" || created.Status != string(queue.StatusQueued) {
		t.Fatalf("unexpected job view: %+v", created)
	}

	getResp, err := http.Get(ts.URL + "/api/jobs/" + strconv.FormatInt(created.ID, 10))
	if err != nil {
		t.Fatal(err)
	}
	defer getResp.Body.Close()
	if getResp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d", getResp.StatusCode)
	}
	var fetched JobView
	if err := json.NewDecoder(getResp.Body).Decode(&fetched); err != nil {
		t.Fatal(err)
	}
	if fetched.ID != created.ID {
		t.Errorf("fetched job %d, created %d", fetched.ID, created.ID)
	}
	if fetched.CreatedAt == "" {
		t.Error("createdAt missing from view")
	}
}

func TestCreateJobRejectsInvalidManifest(t *testing.T) {
	server, _ := testServer(t)
	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	resp := postManifest(t, ts, `{"project": "p", "segments": []}`)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(body["error"], "no segments") {
		t.Errorf("error message %q lacks cause", body["error"])
	}
}

func TestGetJobNotFound(t *testing.T) {
	server, _ := testServer(t)
	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/jobs/999")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestListJobsAndStats(t *testing.T) {
	server, _ := testServer(t)
	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	postManifest(t, ts, manifestDoc)
	postManifest(t, ts, manifestDoc)

	listResp, err := http.Get(ts.URL + "/api/jobs")
	if err != nil {
		t.Fatal(err)
	}
	defer listResp.Body.Close()
	var jobs []JobView
	if err := json.NewDecoder(listResp.Body).Decode(&jobs); err != nil {
		t.Fatal(err)
	}
	if len(jobs) != 2 {
		t.Fatalf("listed %d jobs, want 2", len(jobs))
	}

	statsResp, err := http.Get(ts.URL + "/api/stats")
	if err != nil {
		t.Fatal(err)
	}
	defer statsResp.Body.Close()
	var stats StatsView
	if err := json.NewDecoder(statsResp.Body).Decode(&stats); err != nil {
		t.Fatal(err)
	}
	if stats.Total != 2 || stats.Queued != 2 {
		t.Errorf("stats = %+v, want 2 queued of 2", stats)
	}
}

func TestClearTerminalJobs(t *testing.T) {
	server, store := testServer(t)
	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	resp := postManifest(t, ts, manifestDoc)
	var created JobView
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}
	job, err := store.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.MarkRunning(context.Background(), job); err != nil {
		t.Fatal(err)
	}
	if err := store.MarkFailed(context.Background(), job, "boom"); err != nil {
		t.Fatal(err)
	}

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/api/jobs", nil)
	if err != nil {
		t.Fatal(err)
	}
	delResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer delResp.Body.Close()
	var body map[string]int64
	if err := json.NewDecoder(delResp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["removed"] != 1 {
		t.Errorf("removed = %d, want 1", body["removed"])
	}
}

func TestJobEventsStream(t *testing.T) {
	server, store := testServer(t)
	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	resp := postManifest(t, ts, manifestDoc)
	var created JobView
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}
	job, err := store.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatal(err)
	}

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/jobs/" + strconv.FormatInt(created.ID, 10) + "/events"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var snapshot ProgressEvent
	if err := conn.ReadJSON(&snapshot); err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if snapshot.JobID != created.ID || snapshot.Terminal {
		t.Fatalf("unexpected snapshot: %+v", snapshot)
	}

	server.PublishProgress(job, render.Progress{Stage: render.StageAssembly, Percent: 40, Message: "segment 1 of 2"})
	var event ProgressEvent
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("read progress: %v", err)
	}
	if event.Percent != 40 || event.Stage != render.StageAssembly {
		t.Fatalf("unexpected event: %+v", event)
	}

	job.Status = queue.StatusSucceeded
	job.Progress = 100
	server.PublishFinished(job)
	var final ProgressEvent
	if err := conn.ReadJSON(&final); err != nil {
		t.Fatalf("read final: %v", err)
	}
	if !final.Terminal {
		t.Fatalf("final event not terminal: %+v", final)
	}
}
