package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSender_Selection(t *testing.T) {
	tests := []struct {
		name     string
		cfg      ProviderConfig
		provider string
	}{
		{"auto prefers resend", ProviderConfig{ResendAPIKey: "re", SendGridAPIKey: "sg"}, ProviderResend},
		{"auto falls back to sendgrid", ProviderConfig{Provider: "auto", SendGridAPIKey: "sg"}, ProviderSendGrid},
		{"auto falls back to ses", ProviderConfig{SESClient: &fakeSES{}}, ProviderSES},
		{"auto without credentials uses stub", ProviderConfig{}, ProviderStub},
		{"explicit sendgrid", ProviderConfig{Provider: "SendGrid", ResendAPIKey: "re", SendGridAPIKey: "sg"}, ProviderSendGrid},
		{"explicit stub", ProviderConfig{Provider: "stub", ResendAPIKey: "re"}, ProviderStub},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender, provider, err := NewSender(tt.cfg, quietLogger())
			require.NoError(t, err)
			require.NotNil(t, sender)
			assert.Equal(t, tt.provider, provider)
		})
	}
}

func TestNewSender_Errors(t *testing.T) {
	for _, cfg := range []ProviderConfig{
		{Provider: "resend"},
		{Provider: "sendgrid"},
		{Provider: "ses"},
		{Provider: "carrier-pigeon"},
	} {
		_, _, err := NewSender(cfg, quietLogger())
		assert.Error(t, err, "provider %q", cfg.Provider)
	}
}

type recordingObserver struct {
	provider string
	status   string
	calls    int
}

func (r *recordingObserver) ObserveDispatch(provider, status string, _ float64) {
	r.provider = provider
	r.status = status
	r.calls++
}

func TestInstrumentedSender(t *testing.T) {
	obs := &recordingObserver{}
	ok := Instrument(NewStubEmailSender(quietLogger()), ProviderStub, obs)

	require.NoError(t, ok.Send(context.Background(), contactMessage()))
	assert.Equal(t, ProviderStub, obs.provider)
	assert.Equal(t, "sent", obs.status)
	assert.Equal(t, ProviderStub, ok.Provider())

	boom := errors.New("boom")
	failing := Instrument(&ResendSender{emails: &fakeResend{err: boom}, logger: quietLogger()}, ProviderResend, obs)
	err := failing.Send(context.Background(), contactMessage())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "error", obs.status)
	assert.Equal(t, 2, obs.calls)
}

type panickingSender struct{}

func (panickingSender) Send(context.Context, EmailMessage) error {
	panic("sdk: nil client")
}

func TestInstrumentedSender_PanicCountsAsError(t *testing.T) {
	obs := &recordingObserver{}
	s := Instrument(panickingSender{}, ProviderResend, obs)

	var err error
	require.NotPanics(t, func() { err = s.Send(context.Background(), contactMessage()) })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sdk: nil client")
	assert.Equal(t, ProviderResend, obs.provider)
	assert.Equal(t, "error", obs.status)
	assert.Equal(t, 1, obs.calls)
}
