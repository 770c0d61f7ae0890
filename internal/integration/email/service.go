// Package email provides email queueing, rendering and delivery.
package email

import (
	"context"

	"github.com/multibook/backend/internal/application/adapter"
	"github.com/multibook/backend/internal/domain/entity"
	domainerror "github.com/multibook/backend/internal/domain/error"
)

const signupConfirmationSubject = "Confirm your Multi Book account"

// Service handles email queueing operations.
type Service struct {
	queue adapter.EmailQueueRepository
}

// NewService creates a new email service.
func NewService(queue adapter.EmailQueueRepository) *Service {
	return &Service{
		queue: queue,
	}
}

// QueueSignupConfirmationEmail queues the email that confirms a new account.
func (s *Service) QueueSignupConfirmationEmail(ctx context.Context, input adapter.QueueSignupConfirmationInput) error {
	job := entity.NewEmailJob(
		entity.TemplateSignupConfirmation,
		input.UserEmail,
		input.UserName,
		signupConfirmationSubject,
		map[string]interface{}{
			"user_name":   input.UserName,
			"confirm_url": input.ConfirmURL,
			"expires_in":  input.ExpiresIn,
		},
	)

	if err := s.queue.Create(ctx, job); err != nil {
		return domainerror.NewEmailError(
			domainerror.ErrCodeEmailQueueFailed,
			"failed to queue signup confirmation email",
			err,
		)
	}
	return nil
}

var _ adapter.EmailService = (*Service)(nil)
