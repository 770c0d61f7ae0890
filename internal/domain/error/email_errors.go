package error

import "errors"

// ErrUnknownEmailTemplate is returned when a queued job names a template the renderer does not have.
var ErrUnknownEmailTemplate = errors.New("unknown email template")

// EmailErrorCode identifies an email delivery failure. Format: EMAIL-XXYYYY.
type EmailErrorCode string

const (
	ErrCodeEmailQueueFailed EmailErrorCode = "EMAIL-010001"

	// A permanent failure is never retried; a temporary one is retried with backoff.
	ErrCodePermanentEmailFailure EmailErrorCode = "EMAIL-020002"
	ErrCodeTemporaryEmailFailure EmailErrorCode = "EMAIL-020003"

	ErrCodeInvalidTemplate EmailErrorCode = "EMAIL-030001"
)

// EmailError is raised while queueing, rendering or sending sign-up mail.
type EmailError struct {
	Code    EmailErrorCode
	Message string
	Err     error
}

func (e *EmailError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *EmailError) Unwrap() error {
	return e.Err
}

// NewEmailError creates a new EmailError.
func NewEmailError(code EmailErrorCode, message string, err error) *EmailError {
	return &EmailError{Code: code, Message: message, Err: err}
}

// IsPermanentEmailFailure reports whether err marks a delivery that must not be retried.
// Unknown templates are permanent as well.
func IsPermanentEmailFailure(err error) bool {
	var emailErr *EmailError
	if !errors.As(err, &emailErr) {
		return false
	}
	return emailErr.Code == ErrCodePermanentEmailFailure || emailErr.Code == ErrCodeInvalidTemplate
}
