package core

// Error codes for domain errors.
const (
	ErrCodeMissingMeetingID = "missing_meeting_id"
	ErrCodeMeetingNotFound  = "meeting_not_found"
	ErrCodeEmptyMessage     = "empty_message"
	ErrCodeNotInMeeting     = "not_in_meeting"
	ErrCodeBadRequest       = "bad_request"
	ErrCodeUnauthorized     = "unauthorized"
)

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}
