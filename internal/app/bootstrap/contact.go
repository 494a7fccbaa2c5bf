package bootstrap

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/doreen/portfolio/internal/api/router"
	"github.com/doreen/portfolio/internal/contact"
	appconfig "github.com/doreen/portfolio/internal/config"
	"github.com/doreen/portfolio/internal/notify"
	"github.com/doreen/portfolio/internal/observability/metrics"
	"github.com/doreen/portfolio/pkg/logging"
)

// NeedsSES reports whether the configured provider requires an SES client.
// In auto mode SES is only considered when static AWS credentials are set
// and no API-key provider is configured.
func NeedsSES(cfg *appconfig.Config) bool {
	switch cfg.EmailProvider {
	case notify.ProviderSES:
		return true
	case notify.ProviderAuto, "":
		return cfg.ResendAPIKey == "" && cfg.SendGridAPIKey == "" && cfg.AWSAccessKeyID != ""
	default:
		return false
	}
}

// SetupMetrics returns a private registry with runtime collectors, the
// contact metrics registered on it, and the /metrics handler.
func SetupMetrics() (*metrics.ContactMetrics, http.Handler) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return metrics.NewContactMetrics(reg), promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// BuildAPI wires sender, metrics, contact handler and router from config.
// ses may be nil unless NeedsSES(cfg) is true.
func BuildAPI(cfg *appconfig.Config, ses notify.SESAPI, logger *logging.Logger) (http.Handler, error) {
	if logger == nil {
		logger = logging.Default()
	}

	var (
		m             *metrics.ContactMetrics
		metricsHTTP   http.Handler
		observer      contact.SubmissionObserver
		dispatchStats notify.DispatchObserver
	)
	if cfg.MetricsEnabled {
		m, metricsHTTP = SetupMetrics()
		observer, dispatchStats = m, m
	}

	sender, provider, err := notify.NewSender(notify.ProviderConfig{
		Provider:       cfg.EmailProvider,
		ResendAPIKey:   cfg.ResendAPIKey,
		SendGridAPIKey: cfg.SendGridAPIKey,
		SESClient:      ses,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: email sender: %w", err)
	}
	logger.Info("email provider selected", "provider", provider, "to", cfg.ContactToEmail)
	if provider == notify.ProviderStub && cfg.IsProduction() {
		logger.Warn("stub email sender active in production; contact messages will not be delivered", "env", cfg.Env)
	}

	contactHandler := contact.NewHandler(notify.Instrument(sender, provider, dispatchStats), contact.Config{
		Addressing: contact.Addressing{
			From:          cfg.ContactFromEmail,
			FromName:      cfg.ContactFromName,
			To:            cfg.ContactToEmail,
			SubjectPrefix: cfg.ContactSubjectPrefix,
		},
		SendTimeout:  cfg.EmailSendTimeout,
		MaxBodyBytes: int64(cfg.ContactMaxBodyBytes),
	}, observer, logger)

	return router.New(&router.Config{
		Logger:             logger,
		ContactHandler:     contactHandler,
		MetricsHandler:     metricsHTTP,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	}), nil
}
