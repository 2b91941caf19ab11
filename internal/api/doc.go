// Package api exposes the render queue over HTTP. It translates queue
// models into transport-friendly DTOs and serves job submission, job
// inspection, queue statistics, and a per-job websocket progress stream.
//
// DTOs use camelCase JSON tags for JavaScript consumers. Internal enums
// are exposed as lowercase strings and timestamps use RFC3339 with
// milliseconds.
package api
