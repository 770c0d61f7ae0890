package adapter

import (
	"context"
)

// SendEmailInput represents the input for sending an email.
type SendEmailInput struct {
	To      string
	Name    string
	Subject string
	HTML    string
	Text    string
}

// SendEmailResult represents the result of sending an email.
type SendEmailResult struct {
	ResendID string
}

// EmailSender defines the interface for sending emails via an external provider.
type EmailSender interface {
	// Send sends an email via the email provider (e.g., Resend).
	Send(ctx context.Context, input SendEmailInput) (*SendEmailResult, error)
}

// EmailService defines the interface for queueing emails.
type EmailService interface {
	// QueueSignupConfirmationEmail queues the email that confirms a new account.
	QueueSignupConfirmationEmail(ctx context.Context, input QueueSignupConfirmationInput) error
}

// QueueSignupConfirmationInput represents the input for queueing a sign-up confirmation email.
type QueueSignupConfirmationInput struct {
	UserEmail  string
	UserName   string
	ConfirmURL string
	ExpiresIn  string
}
