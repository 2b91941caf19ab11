// Package config loads, normalizes, and validates slidecast configuration.
// Configuration is TOML on disk; every pipeline component receives the
// loaded Config value explicitly and never reads ambient state.
package config
