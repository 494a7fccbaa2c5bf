// Package form is the client half of the contact flow: it owns the four
// field values, drives idle → submitting → settled, and posts one request
// per submit.
package form

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/doreen/portfolio/pkg/logging"
)

const (
	// MsgGenericError is shown when the server rejected the submission without a reason.
	MsgGenericError = "Something went wrong"
	// MsgNetworkError is shown when no usable response came back.
	MsgNetworkError = "Network error. Please check your connection and try again."
)

var (
	ErrDisabled         = errors.New("form: inputs are disabled while submitting")
	ErrSubmitInProgress = errors.New("form: submission already in progress")
	ErrUnknownField     = errors.New("form: unknown field")
)

// State is the controller's position in its lifecycle.
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateSettled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateSettled:
		return "settled"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// OutcomeKind distinguishes the two settled results.
type OutcomeKind int

const (
	OutcomeNone OutcomeKind = iota
	OutcomeSuccess
	OutcomeError
)

// Outcome is what the user sees after a submission settles.
type Outcome struct {
	Kind    OutcomeKind
	Message string
}

// Fields mirrors the JSON payload of POST /api/contact.
type Fields struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Snapshot is a consistent view of the controller handed to observers.
type Snapshot struct {
	State    State
	Fields   Fields
	Outcome  Outcome
	Disabled bool
}

// Observer is called after every state transition, outside the lock.
type Observer func(Snapshot)

// Controller holds form state and submits it to the contact endpoint.
type Controller struct {
	endpoint string
	client   *http.Client
	logger   *logging.Logger

	mu        sync.Mutex
	fields    Fields
	state     State
	outcome   Outcome
	observers []Observer
}

// Option configures a Controller.
type Option func(*Controller)

// WithHTTPClient overrides the client used for submissions.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Controller) {
		if client != nil {
			c.client = client
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *logging.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithObserver registers fn for state transitions.
func WithObserver(fn Observer) Option {
	return func(c *Controller) {
		if fn != nil {
			c.observers = append(c.observers, fn)
		}
	}
}

// New builds an idle controller posting to endpoint.
func New(endpoint string, opts ...Option) *Controller {
	c := &Controller{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
		logger:   logging.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Set updates one field by its payload name.
func (c *Controller) Set(field, value string) error {
	c.mu.Lock()
	if c.state == StateSubmitting {
		c.mu.Unlock()
		return ErrDisabled
	}
	switch field {
	case "name":
		c.fields.Name = value
	case "email":
		c.fields.Email = value
	case "subject":
		c.fields.Subject = value
	case "message":
		c.fields.Message = value
	default:
		c.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	c.mu.Unlock()
	return nil
}

// SetFields replaces all four fields.
func (c *Controller) SetFields(f Fields) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateSubmitting {
		return ErrDisabled
	}
	c.fields = f
	return nil
}

func (c *Controller) Fields() Fields {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fields
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Outcome() Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.outcome
}

// Disabled reports whether inputs are currently locked.
func (c *Controller) Disabled() bool {
	return c.State() == StateSubmitting
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		State:    c.state,
		Fields:   c.fields,
		Outcome:  c.outcome,
		Disabled: c.state == StateSubmitting,
	}
}

// Submit posts the current fields once and settles the controller. It never
// retries; the returned Outcome is also available from Outcome().
func (c *Controller) Submit(ctx context.Context) (Outcome, error) {
	c.mu.Lock()
	if c.state == StateSubmitting {
		c.mu.Unlock()
		return Outcome{}, ErrSubmitInProgress
	}
	c.state = StateSubmitting
	c.outcome = Outcome{}
	payload := c.fields
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)

	outcome, ok := c.post(ctx, payload)

	c.mu.Lock()
	c.state = StateSettled
	c.outcome = outcome
	if ok {
		c.fields = Fields{}
	}
	snap = c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)

	return outcome, nil
}

type serverReply struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// post performs the single request; ok is true only for a 2xx reply.
func (c *Controller) post(ctx context.Context, payload Fields) (Outcome, bool) {
	body, err := json.Marshal(payload)
	if err != nil {
		c.logger.Error("form: encode payload", "error", err)
		return Outcome{Kind: OutcomeError, Message: MsgNetworkError}, false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		c.logger.Error("form: build request", "error", err)
		return Outcome{Kind: OutcomeError, Message: MsgNetworkError}, false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("form: submission failed", "error", err)
		return Outcome{Kind: OutcomeError, Message: MsgNetworkError}, false
	}
	defer resp.Body.Close()

	var reply serverReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		c.logger.Warn("form: undecodable response", "status", resp.StatusCode, "error", err)
		return Outcome{Kind: OutcomeError, Message: MsgNetworkError}, false
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return Outcome{Kind: OutcomeSuccess, Message: reply.Message}, true
	}

	msg := reply.Error
	if msg == "" {
		msg = MsgGenericError
	}
	return Outcome{Kind: OutcomeError, Message: msg}, false
}

func (c *Controller) notify(s Snapshot) {
	for _, fn := range c.observers {
		fn(s)
	}
}
