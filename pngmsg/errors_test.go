package pngmsg

import (
	"errors"
	"strings"
	"testing"
)

func TestPngError_Error(t *testing.T) {
	tests := []struct {
		name    string
		err     *PngError
		wantStr string
	}{
		{
			name: "basic error",
			err: &PngError{
				Code:    "TEST_ERROR",
				Message: "test message",
			},
			wantStr: "[TEST_ERROR] test message",
		},
		{
			name: "error with cause",
			err: &PngError{
				Code:    "TEST_ERROR",
				Message: "test message",
				Cause:   errors.New("underlying error"),
			},
			wantStr: "[TEST_ERROR] test message: underlying error",
		},
		{
			name: "error with details",
			err: &PngError{
				Code:    "TEST_ERROR",
				Message: "test message",
				Details: map[string]interface{}{"key": "value"},
			},
			wantStr: "details",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			if !strings.Contains(got, tt.wantStr) {
				t.Errorf("Error() = %q, want to contain %q", got, tt.wantStr)
			}
		})
	}
}

func TestPngError_WithCause(t *testing.T) {
	cause := errors.New("root cause")
	err := ErrTruncated.WithCause(cause)

	if err.Cause != cause {
		t.Errorf("WithCause() cause = %v, want %v", err.Cause, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("WithCause() should allow errors.Is to work")
	}
}

func TestPngError_WithDetail(t *testing.T) {
	err := ErrInvalidCRC.WithDetail("chunkType", "ruSt")

	if err.Details["chunkType"] != "ruSt" {
		t.Errorf("WithDetail() chunkType = %v, want ruSt", err.Details["chunkType"])
	}
}

func TestPngError_WithMessage(t *testing.T) {
	err := ErrInvalidCRC.WithMessage("custom message")

	if err.Message != "custom message" {
		t.Errorf("WithMessage() message = %q, want 'custom message'", err.Message)
	}
}

// Derived errors still match their sentinel through errors.Is, which is what
// callers use to tell the error kinds of the taxonomy apart.
func TestPngError_SentinelMatching(t *testing.T) {
	derived := ErrInvalidChunkLength.WithDetail("length", int64(1)<<32).WithCause(errors.New("boom"))

	if !errors.Is(derived, ErrInvalidChunkLength) {
		t.Error("derived error should match its sentinel")
	}
	if errors.Is(derived, ErrInvalidCRC) {
		t.Error("derived error should not match a different sentinel")
	}
}

func TestGetErrorCode(t *testing.T) {
	if got := GetErrorCode(ErrInvalidCRC); got != "INVALID_CRC" {
		t.Errorf("GetErrorCode() = %q, want INVALID_CRC", got)
	}
	if got := GetErrorCode(errors.New("plain")); got != "" {
		t.Errorf("GetErrorCode() = %q, want empty", got)
	}
}

func TestIsPngError(t *testing.T) {
	if !IsPngError(ErrTruncated) {
		t.Error("IsPngError() = false for a PngError")
	}
	if IsPngError(errors.New("plain")) {
		t.Error("IsPngError() = true for a plain error")
	}
}
