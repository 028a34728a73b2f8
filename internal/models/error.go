package models

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Details map[string]string `json:"details,omitempty"`
}

// Error codes
const (
	ErrCodeInvalidRequest     = "INVALID_REQUEST"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeValidationFailed   = "VALIDATION_FAILED"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeStepLocked         = "STEP_LOCKED"
	ErrCodeInvalidOption      = "INVALID_OPTION"
	ErrCodeNotReady           = "NOT_READY"
	ErrCodeGenerationInFlight = "GENERATION_IN_FLIGHT"
	ErrCodeNoFiles            = "NO_FILES"
	ErrCodeArchiveFailed      = "ARCHIVE_FAILED"
)
