package email

import (
	"context"
	"fmt"
	"sync"

	"github.com/multibook/backend/internal/application/adapter"
	domainerror "github.com/multibook/backend/internal/domain/error"
)

// RecordingSender keeps sent emails in memory. It is used when no Resend key is configured
// and by the HTTP scenarios.
type RecordingSender struct {
	mu        sync.Mutex
	sent      []adapter.SendEmailInput
	failWith  error
	permanent bool
}

// NewRecordingSender creates an empty RecordingSender.
func NewRecordingSender() *RecordingSender {
	return &RecordingSender{}
}

// Send records the email, or fails when a failure has been configured.
func (s *RecordingSender) Send(_ context.Context, input adapter.SendEmailInput) (*adapter.SendEmailResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWith != nil {
		code := domainerror.ErrCodeTemporaryEmailFailure
		if s.permanent {
			code = domainerror.ErrCodePermanentEmailFailure
		}
		return nil, domainerror.NewEmailError(code, "send failed", s.failWith)
	}

	s.sent = append(s.sent, input)
	return &adapter.SendEmailResult{ResendID: fmt.Sprintf("local-%d", len(s.sent))}, nil
}

// SetFailure makes subsequent sends fail with err. A nil err clears the failure.
func (s *RecordingSender) SetFailure(err error, permanent bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWith = err
	s.permanent = permanent
}

// Sent returns a copy of the recorded emails.
func (s *RecordingSender) Sent() []adapter.SendEmailInput {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]adapter.SendEmailInput(nil), s.sent...)
}

// Reset drops recorded emails and any configured failure.
func (s *RecordingSender) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = nil
	s.failWith = nil
	s.permanent = false
}

var _ adapter.EmailSender = (*RecordingSender)(nil)
