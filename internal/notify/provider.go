package notify

import (
	"fmt"
	"strings"

	"github.com/doreen/portfolio/pkg/logging"
)

// ProviderConfig selects and configures the email provider.
type ProviderConfig struct {
	Provider       string
	ResendAPIKey   string
	SendGridAPIKey string
	SESClient      SESAPI
}

// NewSender builds the configured sender and reports which provider it chose.
// With ProviderAuto the first provider that has credentials wins, in the
// order resend, sendgrid, ses; with none configured the stub sender is used.
func NewSender(cfg ProviderConfig, logger *logging.Logger) (EmailSender, string, error) {
	if logger == nil {
		logger = logging.Default()
	}
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "" {
		provider = ProviderAuto
	}

	switch provider {
	case ProviderResend:
		if s := NewResendSender(cfg.ResendAPIKey, logger); s != nil {
			return s, ProviderResend, nil
		}
		return nil, "", fmt.Errorf("notify: resend selected but RESEND_API_KEY is empty")
	case ProviderSendGrid:
		if s := NewSendGridSender(cfg.SendGridAPIKey, logger); s != nil {
			return s, ProviderSendGrid, nil
		}
		return nil, "", fmt.Errorf("notify: sendgrid selected but SENDGRID_API_KEY is empty")
	case ProviderSES:
		if s := NewSESSender(cfg.SESClient, logger); s != nil {
			return s, ProviderSES, nil
		}
		return nil, "", fmt.Errorf("notify: ses selected but no SES client was provided")
	case ProviderStub:
		return NewStubEmailSender(logger), ProviderStub, nil
	case ProviderAuto:
		if s := NewResendSender(cfg.ResendAPIKey, logger); s != nil {
			return s, ProviderResend, nil
		}
		if s := NewSendGridSender(cfg.SendGridAPIKey, logger); s != nil {
			return s, ProviderSendGrid, nil
		}
		if s := NewSESSender(cfg.SESClient, logger); s != nil {
			return s, ProviderSES, nil
		}
		logger.Warn("no email provider configured; contact submissions will only be logged")
		return NewStubEmailSender(logger), ProviderStub, nil
	default:
		return nil, "", fmt.Errorf("notify: unknown email provider %q", cfg.Provider)
	}
}
