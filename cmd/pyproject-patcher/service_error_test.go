// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"pyproject-patcher/internal/issue"
)

var discardLogger = log.New(io.Discard)

func TestNewServiceError_PanicsOnNilErr(t *testing.T) {
	t.Parallel()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic on nil Err, got none")
		}
		msg, ok := r.(string)
		if !ok {
			t.Fatalf("expected string panic, got %T", r)
		}
		if msg != "ServiceError: Err must not be nil" {
			t.Fatalf("unexpected panic message: %s", msg)
		}
	}()

	newServiceError(nil, 0, "")
}

func TestServiceError_ErrorAndUnwrap(t *testing.T) {
	t.Parallel()

	underlying := errors.New("underlying error")
	svcErr := newServiceError(underlying, issue.KeyMissingId, "styled message")

	if svcErr.Error() != "underlying error" {
		t.Errorf("Error() = %q, want %q", svcErr.Error(), "underlying error")
	}
	if !errors.Is(svcErr, underlying) {
		t.Error("errors.Is should find underlying error via Unwrap")
	}
	if svcErr.IssueID != issue.KeyMissingId {
		t.Errorf("IssueID = %d, want %d", svcErr.IssueID, issue.KeyMissingId)
	}
}

func TestRenderServiceError(t *testing.T) {
	t.Parallel()

	t.Run("nil", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		renderServiceError(&buf, discardLogger, nil)
		if buf.Len() != 0 {
			t.Errorf("expected no output for nil ServiceError, got %q", buf.String())
		}
	})

	t.Run("zero issue id skips catalog", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		renderServiceError(&buf, discardLogger, newServiceError(errors.New("test"), 0, "only this"))
		if buf.String() != "only this" {
			t.Errorf("output = %q, want %q", buf.String(), "only this")
		}
	})

	t.Run("styled message and issue", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		renderServiceError(&buf, discardLogger, newServiceError(errors.New("test"), issue.ManifestNotFoundId, "styled: "))
		output := buf.String()
		if len(output) <= len("styled: ") || output[:len("styled: ")] != "styled: " {
			t.Errorf("expected styled message followed by the issue guide, got %q", output)
		}
	})
}
