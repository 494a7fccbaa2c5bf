package contact

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/doreen/portfolio/internal/notify"
	"github.com/doreen/portfolio/pkg/logging"
)

var contactTracer = otel.Tracer("portfolio.internal.contact")

// MaxBodyBytes caps the request body when Config.MaxBodyBytes is unset.
const MaxBodyBytes = 64 << 10

// Submission outcomes reported to the SubmissionObserver.
const (
	OutcomeAccepted  = "accepted"
	OutcomeInvalid   = "invalid"
	OutcomeMalformed = "malformed"
	OutcomeFailed    = "failed"
)

// SubmissionObserver counts handled requests by outcome.
type SubmissionObserver interface {
	ObserveSubmission(outcome string)
}

// Config tunes the contact handler.
type Config struct {
	Addressing
	// SendTimeout bounds the single dispatch attempt. Zero means no bound.
	SendTimeout  time.Duration
	MaxBodyBytes int64
}

// SubmitResponse is the 200 body.
type SubmitResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ErrorResponse is the 4xx/5xx body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Handler serves the contact form endpoint.
type Handler struct {
	sender   notify.EmailSender
	cfg      Config
	observer SubmissionObserver
	logger   *logging.Logger
}

// NewHandler creates a new contact handler
func NewHandler(sender notify.EmailSender, cfg Config, observer SubmissionObserver, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if sender == nil {
		sender = notify.NewStubEmailSender(logger)
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = MaxBodyBytes
	}
	return &Handler{
		sender:   sender,
		cfg:      cfg,
		observer: observer,
		logger:   logger,
	}
}

// Submit handles POST /api/contact requests
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx, span := contactTracer.Start(r.Context(), "contact.submit")
	defer span.End()

	defer func() {
		if rec := recover(); rec != nil {
			err := fmt.Errorf("contact: panic: %v", rec)
			span.RecordError(err)
			span.SetStatus(codes.Error, "panic")
			h.logger.Error("contact form error", "error", err)
			h.observe(OutcomeFailed)
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: MsgUnexpected})
		}
	}()

	sub, err := h.decode(w, r)
	if err != nil {
		h.logger.Warn("failed to decode contact submission", "error", err)
		span.SetStatus(codes.Error, "malformed payload")
		h.observe(OutcomeMalformed)
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: MsgMalformed})
		return
	}

	if err := sub.Validate(); err != nil {
		var verr *ValidationError
		if !errors.As(err, &verr) {
			h.fail(w, span, err)
			return
		}
		h.logger.Info("contact submission rejected", "reason", verr.Error())
		span.SetAttributes(attribute.String("portfolio.contact.rejected", verr.Message()))
		h.observe(OutcomeInvalid)
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: verr.Message()})
		return
	}

	msg, err := ComposeEmail(sub, h.cfg.Addressing)
	if err != nil {
		h.fail(w, span, err)
		return
	}

	h.dispatch(ctx, span, sub, msg)

	h.observe(OutcomeAccepted)
	writeJSON(w, http.StatusOK, SubmitResponse{Success: true, Message: MsgAcknowledged})
}

// dispatch makes one send attempt. A failure is logged and recorded but
// never reaches the caller. The attempt outlives a disconnected client.
func (h *Handler) dispatch(ctx context.Context, span trace.Span, sub Submission, msg notify.EmailMessage) {
	sendCtx := context.WithoutCancel(ctx)
	if h.cfg.SendTimeout > 0 {
		var cancel context.CancelFunc
		sendCtx, cancel = context.WithTimeout(sendCtx, h.cfg.SendTimeout)
		defer cancel()
	}

	if err := h.send(sendCtx, msg); err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("portfolio.contact.delivered", false))
		h.logger.Error("failed to send email", "error", err, "name", sub.Name, "email", sub.Email, "subject", sub.Subject)
		return
	}
	span.SetAttributes(attribute.Bool("portfolio.contact.delivered", true))
	h.logger.Info("email sent successfully", "name", sub.Name, "email", sub.Email, "subject", sub.Subject)
}

// send turns a sender panic into a delivery error.
func (h *Handler) send(ctx context.Context, msg notify.EmailMessage) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("contact: sender panic: %v", rec)
		}
	}()
	return h.sender.Send(ctx, msg)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (Submission, error) {
	var sub Submission
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.cfg.MaxBodyBytes))
	if err := dec.Decode(&sub); err != nil {
		return Submission{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Submission{}, fmt.Errorf("%w: trailing data after JSON object", ErrMalformedPayload)
	}
	return sub, nil
}

func (h *Handler) fail(w http.ResponseWriter, span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, "unexpected error")
	h.logger.Error("contact form error", "error", err)
	h.observe(OutcomeFailed)
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: MsgUnexpected})
}

func (h *Handler) observe(outcome string) {
	if h.observer != nil {
		h.observer.ObserveSubmission(outcome)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
