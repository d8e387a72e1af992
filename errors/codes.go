package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Deadline errors (retryable)
const (
	// ErrCodeTimeout indicates a producer did not resolve before its deadline.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
)

// Usage errors. These signal a caller defect and are raised with panic.
const (
	// ErrCodePolledAfterCompletion indicates a producer was polled after it
	// already yielded its terminal result.
	ErrCodePolledAfterCompletion ErrorCode = "POLLED_AFTER_COMPLETION"
)

// Validation errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected internal failure.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeTimeout:               true,
	ErrCodePolledAfterCompletion: false,
	ErrCodeInternal:              false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
