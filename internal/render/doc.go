// Package render implements the slideshow rendering pipeline: per-scene
// motion clips, segment assembly with audio and burned captions, the
// crossfade chain joining segments into one timeline, and finalization of
// the output video plus sidecar subtitles.
//
// The pipeline is sequential per job. Failure handling is local wherever
// possible: a failed scene drops that scene, a failed segment drops that
// segment, a failed crossfade falls back to hard-cut concatenation. A job
// only fails outright when zero segment clips survive or the final output
// cannot be persisted.
package render
