package notify

import (
	"context"
	"fmt"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/doreen/portfolio/pkg/logging"
)

type sendgridClient interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// SendGridSender sends emails via SendGrid API.
type SendGridSender struct {
	client sendgridClient
	logger *logging.Logger
}

// NewSendGridSender creates a new SendGrid email sender.
func NewSendGridSender(apiKey string, logger *logging.Logger) *SendGridSender {
	if apiKey == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SendGridSender{
		client: sendgrid.NewSendClient(apiKey),
		logger: logger,
	}
}

// Send sends an email via SendGrid.
func (s *SendGridSender) Send(ctx context.Context, msg EmailMessage) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("notify: sendgrid client: %w", ErrNotConfigured)
	}
	if err := msg.validate(); err != nil {
		return err
	}

	ctx, span := notifyTracer.Start(ctx, "notify.sendgrid.send")
	defer span.End()
	span.SetAttributes(attribute.String("portfolio.email.provider", ProviderSendGrid))

	from := mail.NewEmail(msg.FromName, msg.From)
	to := mail.NewEmail(msg.ToName, msg.To)

	plain := msg.Body
	if plain == "" {
		plain = msg.HTML
	}
	html := msg.HTML
	if html == "" {
		html = msg.Body
	}
	message := mail.NewSingleEmail(from, msg.Subject, to, plain, html)
	if msg.ReplyTo != "" {
		message.SetReplyTo(mail.NewEmail("", msg.ReplyTo))
	}

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "sendgrid send failed")
		s.logger.Error("sendgrid send failed", "error", err, "to", msg.To)
		return fmt.Errorf("notify: sendgrid send failed: %w", err)
	}

	if response.StatusCode >= 400 {
		span.SetStatus(codes.Error, "sendgrid error status")
		s.logger.Error("sendgrid returned error status", "status", response.StatusCode, "body", response.Body, "to", msg.To)
		return fmt.Errorf("notify: sendgrid returned status %d", response.StatusCode)
	}

	s.logger.Info("email sent via sendgrid", "to", msg.To, "subject", msg.Subject, "status", response.StatusCode)
	return nil
}

var _ EmailSender = (*SendGridSender)(nil)
