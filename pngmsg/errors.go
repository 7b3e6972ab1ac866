package pngmsg

import "fmt"

// Error types for pngmsg operations
var (
	// ErrInvalidChunkLength is returned when a chunk's declared or actual data
	// length exceeds 2^31 bytes
	ErrInvalidChunkLength = &PngError{Code: "INVALID_CHUNK_LENGTH", Message: "chunk data length exceeds 2^31 bytes"}

	// ErrInvalidCRC is returned when the checksum computed over a chunk's type
	// and data does not match the checksum present in the input
	ErrInvalidCRC = &PngError{Code: "INVALID_CRC", Message: "chunk checksum mismatch"}

	// ErrTruncated is returned when fewer bytes are available than the chunk
	// format requires at the current parse step
	ErrTruncated = &PngError{Code: "TRUNCATED", Message: "input shorter than the chunk format requires"}

	// ErrNumericConversion is returned when a length value does not fit the
	// target numeric width
	ErrNumericConversion = &PngError{Code: "NUMERIC_CONVERSION", Message: "length does not fit the target numeric width"}

	// ErrInvalidUTF8 is returned by the strict string accessor when chunk data
	// is not valid UTF-8
	ErrInvalidUTF8 = &PngError{Code: "INVALID_UTF8", Message: "chunk data is not valid UTF-8"}

	// ErrInvalidChunkType is returned when a chunk type string is not exactly
	// 4 bytes long
	ErrInvalidChunkType = &PngError{Code: "INVALID_CHUNK_TYPE", Message: "chunk type must be exactly 4 bytes"}

	// ErrInvalidSignature is returned when a buffer does not start with the
	// PNG file signature
	ErrInvalidSignature = &PngError{Code: "INVALID_SIGNATURE", Message: "missing PNG file signature"}

	// ErrChunkNotFound is returned when no chunk with the requested type
	// exists in the container
	ErrChunkNotFound = &PngError{Code: "CHUNK_NOT_FOUND", Message: "chunk not found"}
)

// PngError represents a structured error in pngmsg operations
type PngError struct {
	Code    string                 // Error code for programmatic handling
	Message string                 // Human-readable error message
	Cause   error                  // Underlying error, if any
	Details map[string]interface{} // Additional context
}

// Error implements the error interface
func (e *PngError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	if len(e.Details) > 0 {
		return fmt.Sprintf("[%s] %s (details: %v)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *PngError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a PngError carrying the same code, so that
// errors.Is matches sentinel values against derived errors built with
// WithCause and WithDetail
func (e *PngError) Is(target error) bool {
	t, ok := target.(*PngError)
	return ok && t.Code == e.Code
}

// WithCause adds a cause to the error
func (e *PngError) WithCause(cause error) *PngError {
	return &PngError{
		Code:    e.Code,
		Message: e.Message,
		Cause:   cause,
		Details: e.Details,
	}
}

// WithDetail adds a detail key-value pair to the error
func (e *PngError) WithDetail(key string, value interface{}) *PngError {
	details := make(map[string]interface{})
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	return &PngError{
		Code:    e.Code,
		Message: e.Message,
		Cause:   e.Cause,
		Details: details,
	}
}

// WithMessage overrides the error message
func (e *PngError) WithMessage(message string) *PngError {
	return &PngError{
		Code:    e.Code,
		Message: message,
		Cause:   e.Cause,
		Details: e.Details,
	}
}

// IsPngError checks if an error is a PngError
func IsPngError(err error) bool {
	_, ok := err.(*PngError)
	return ok
}

// GetErrorCode extracts the error code from a PngError
func GetErrorCode(err error) string {
	if pngErr, ok := err.(*PngError); ok {
		return pngErr.Code
	}
	return ""
}
