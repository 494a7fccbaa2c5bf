package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/doreen/portfolio/pkg/logging"
)

var notifyTracer = otel.Tracer("portfolio.internal.notify")

// ErrNotConfigured is returned by senders that were built without a client.
var ErrNotConfigured = errors.New("notify: sender not configured")

// Provider names accepted by NewSender.
const (
	ProviderAuto     = "auto"
	ProviderResend   = "resend"
	ProviderSendGrid = "sendgrid"
	ProviderSES      = "ses"
	ProviderStub     = "stub"
)

// EmailSender defines the interface for sending emails.
// Implementations can be swapped (Resend, SendGrid, SES) without changing callers.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// EmailMessage represents an email to be sent.
type EmailMessage struct {
	From     string
	FromName string
	To       string
	ToName   string
	ReplyTo  string
	Subject  string
	Body     string // Plain text body
	HTML     string // Optional HTML body
}

func (m EmailMessage) validate() error {
	if strings.TrimSpace(m.From) == "" {
		return errors.New("notify: from address required")
	}
	if strings.TrimSpace(m.To) == "" {
		return errors.New("notify: to address required")
	}
	if m.Body == "" && m.HTML == "" {
		return errors.New("notify: body required")
	}
	return nil
}

// fromAddress renders the RFC 5322 display form used by every provider.
func (m EmailMessage) fromAddress() string {
	if m.FromName == "" {
		return m.From
	}
	return fmt.Sprintf("%s <%s>", m.FromName, m.From)
}

// StubEmailSender is a no-op sender for testing or when email is disabled.
type StubEmailSender struct {
	logger *logging.Logger
}

// NewStubEmailSender creates a stub email sender that logs but doesn't send.
func NewStubEmailSender(logger *logging.Logger) *StubEmailSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &StubEmailSender{logger: logger}
}

// Send logs the email but doesn't actually send it.
func (s *StubEmailSender) Send(ctx context.Context, msg EmailMessage) error {
	s.logger.Info("stub email sender: would send email", "to", msg.To, "reply_to", msg.ReplyTo, "subject", msg.Subject)
	return nil
}

// DispatchObserver receives one observation per send attempt.
type DispatchObserver interface {
	ObserveDispatch(provider, status string, seconds float64)
}

// InstrumentedSender reports the outcome and latency of every send.
type InstrumentedSender struct {
	next     EmailSender
	provider string
	observer DispatchObserver
}

// Instrument wraps next so each Send is reported to observer under provider.
func Instrument(next EmailSender, provider string, observer DispatchObserver) *InstrumentedSender {
	return &InstrumentedSender{next: next, provider: provider, observer: observer}
}

// Provider returns the name the wrapped sender is reported under.
func (s *InstrumentedSender) Provider() string {
	return s.provider
}

// Send delegates to the wrapped sender.
func (s *InstrumentedSender) Send(ctx context.Context, msg EmailMessage) (err error) {
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("notify: %s sender panic: %v", s.provider, rec)
		}
		if s.observer != nil {
			status := "sent"
			if err != nil {
				status = "error"
			}
			s.observer.ObserveDispatch(s.provider, status, time.Since(start).Seconds())
		}
	}()
	return s.next.Send(ctx, msg)
}

var (
	_ EmailSender = (*StubEmailSender)(nil)
	_ EmailSender = (*InstrumentedSender)(nil)
)
