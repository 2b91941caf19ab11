// Package queue persists render jobs in SQLite. A job records the segment
// manifest it was created with, its lifecycle status, live progress, and the
// output paths on success. Terminal states are final: retrying means
// creating a new job.
package queue
