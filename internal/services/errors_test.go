package services_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"deadair/internal/history"
	"deadair/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "render", "ffmpeg", "exit status 1", base)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"render", "ffmpeg", "exit status 1"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected placeholder detail, got %q", err)
	}
}

func TestWrapToolClassifiesTimeouts(t *testing.T) {
	timeout := services.WrapTool("detect", "silencedetect", "ffmpeg timed out", fmt.Errorf("wait: %w", context.DeadlineExceeded))
	if !errors.Is(timeout, services.ErrTimeout) {
		t.Fatalf("expected timeout marker, got %v", timeout)
	}
	failure := services.WrapTool("detect", "silencedetect", "ffmpeg failed", errors.New("exit status 1"))
	if !errors.Is(failure, services.ErrExternalTool) {
		t.Fatalf("expected external tool marker, got %v", failure)
	}
}

func TestFailureStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want history.Status
	}{
		{"validation", services.Wrap(services.ErrValidation, "plan", "cut", "nothing to keep", nil), history.StatusReview},
		{"configuration", services.Wrap(services.ErrConfiguration, "render", "", "bad codec", nil), history.StatusReview},
		{"not found", services.Wrap(services.ErrNotFound, "probe", "", "missing", nil), history.StatusReview},
		{"transient", services.Wrap(services.ErrTransient, "render", "rename", "io", errors.New("io")), history.StatusFailed},
		{"timeout", services.Wrap(services.ErrTimeout, "render", "", "", nil), history.StatusFailed},
		{"nil", nil, history.StatusFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := services.FailureStatus(tt.err); got != tt.want {
				t.Fatalf("FailureStatus = %s, want %s", got, tt.want)
			}
		})
	}
}
