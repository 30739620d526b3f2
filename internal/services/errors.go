package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"deadair/internal/history"
)

var (
	ErrExternalTool  = errors.New("external tool error")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrTimeout       = errors.New("timeout")
	ErrTransient     = errors.New("transient failure")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later status classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// WrapTool wraps a failed external command, classifying deadline overruns
// as ErrTimeout and everything else as ErrExternalTool.
func WrapTool(stage, operation, message string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return Wrap(ErrTimeout, stage, operation, message, err)
	}
	return Wrap(ErrExternalTool, stage, operation, message, err)
}

// FailureStatus maps a pipeline error to the history status recorded for
// the file. Problems with the input or settings need a human and go to
// review; everything else is a plain failure.
func FailureStatus(err error) history.Status {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrConfiguration), errors.Is(err, ErrNotFound):
		return history.StatusReview
	default:
		return history.StatusFailed
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	for _, part := range []string{stage, operation, message} {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
