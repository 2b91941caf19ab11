package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrExternalTool marks a nonzero exit or unreadable output from the
	// wrapped encoder binary.
	ErrExternalTool = errors.New("external tool error")
	// ErrTimeout marks an invocation that exceeded its wall-clock budget.
	ErrTimeout = errors.New("timeout")
	// ErrValidation marks malformed or missing input data.
	ErrValidation = errors.New("validation error")
	// ErrConfiguration marks unusable configuration values.
	ErrConfiguration = errors.New("configuration error")
	// ErrJobFatal marks conditions that must fail the whole render job:
	// zero surviving segment clips or an unpersistable final output.
	ErrJobFatal = errors.New("job fatal")
)

// Wrap builds an error that carries component context while tagging it with
// the provided marker for later classification. The marker should be one of
// the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsJobFatal reports whether err must fail the render job rather than
// degrade it.
func IsJobFatal(err error) bool {
	return errors.Is(err, ErrJobFatal)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
