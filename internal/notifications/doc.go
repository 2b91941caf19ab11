// Package notifications delivers render outcomes via ntfy.
//
// The default implementation publishes to the topic configured in
// config.toml and gracefully degrades to a no-op when no topic is set, so
// the job runner can notify unconditionally.
package notifications
