// Package services holds the error taxonomy shared by pipeline components.
// Every component catches its own failures and reports them through these
// markers so callers can tell a recoverable scene failure from a job-fatal
// one without inspecting error text.
package services
