// Package ffmpeg wraps the ffmpeg command-line encoder. Every render step
// is one blocking invocation with a bounded wall-clock timeout; the exit
// code is the sole success signal and stderr is captured for diagnostics
// only.
package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	"slidecast/internal/services"
)

var commandContext = exec.CommandContext

// stderrTailLimit bounds how much captured stderr ends up in error text.
const stderrTailLimit = 500

// Runner executes one encoder invocation.
type Runner interface {
	Run(ctx context.Context, args []string) error
}

// Option configures the CLI runner.
type Option func(*CLI)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if strings.TrimSpace(binary) != "" {
			c.binary = binary
		}
	}
}

// WithTimeout overrides the per-invocation wall-clock budget.
func WithTimeout(timeout time.Duration) Option {
	return func(c *CLI) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// CLI wraps the ffmpeg binary.
type CLI struct {
	binary  string
	timeout time.Duration
}

// NewCLI constructs a CLI runner using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "ffmpeg", timeout: 5 * time.Minute}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Run executes ffmpeg with the given arguments. A nonzero exit maps to
// services.ErrExternalTool with the stderr tail attached; exceeding the
// wall-clock budget kills the process and maps to services.ErrTimeout.
func (c *CLI) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return services.Wrap(services.ErrValidation, "ffmpeg", "run", "no arguments", nil)
	}

	runCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := commandContext(runCtx, c.binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return services.Wrap(services.ErrTimeout, "ffmpeg", "run",
			"invocation exceeded "+c.timeout.String(), err)
	}
	return services.Wrap(services.ErrExternalTool, "ffmpeg", "run", stderrTail(stderr.String()), err)
}

func stderrTail(text string) string {
	text = strings.TrimSpace(text)
	if len(text) <= stderrTailLimit {
		return text
	}
	return "..." + text[len(text)-stderrTailLimit:]
}

var _ Runner = (*CLI)(nil)
