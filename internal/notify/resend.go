package notify

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/doreen/portfolio/pkg/logging"
)

// resendEmails is the slice of the Resend SDK the sender needs.
type resendEmails interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// ResendSender sends emails via the Resend API.
type ResendSender struct {
	emails resendEmails
	logger *logging.Logger
}

// NewResendSender creates a Resend sender. It returns nil when apiKey is empty.
func NewResendSender(apiKey string, logger *logging.Logger) *ResendSender {
	if apiKey == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	client := resend.NewClient(apiKey)
	return &ResendSender{emails: client.Emails, logger: logger}
}

// Send sends an email via Resend.
func (s *ResendSender) Send(ctx context.Context, msg EmailMessage) error {
	if s == nil || s.emails == nil {
		return fmt.Errorf("notify: resend client: %w", ErrNotConfigured)
	}
	if err := msg.validate(); err != nil {
		return err
	}

	ctx, span := notifyTracer.Start(ctx, "notify.resend.send")
	defer span.End()
	span.SetAttributes(attribute.String("portfolio.email.provider", ProviderResend))

	params := &resend.SendEmailRequest{
		From:    msg.fromAddress(),
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Body,
		ReplyTo: msg.ReplyTo,
	}

	sent, err := s.emails.SendWithContext(ctx, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "resend send failed")
		s.logger.Error("resend send failed", "error", err, "to", msg.To)
		return fmt.Errorf("notify: resend send failed: %w", err)
	}

	id := ""
	if sent != nil {
		id = sent.Id
	}
	s.logger.Info("email sent via resend", "to", msg.To, "subject", msg.Subject, "message_id", id)
	return nil
}

var _ EmailSender = (*ResendSender)(nil)
