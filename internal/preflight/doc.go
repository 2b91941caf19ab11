// Package preflight provides readiness checks for filesystem paths and
// external binaries that slidecast depends on.
//
// The CLI "slidecast doctor" command runs the full set before a render so
// misconfiguration surfaces as a table instead of a mid-render failure.
package preflight
