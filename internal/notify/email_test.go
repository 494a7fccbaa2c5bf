package notify

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/resend/resend-go/v2"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/doreen/portfolio/pkg/logging"
)

func quietLogger() *logging.Logger {
	return logging.NewWithWriter(io.Discard, "error")
}

func contactMessage() EmailMessage {
	return EmailMessage{
		From:     "noreply@yourdomain.com",
		FromName: "Portfolio Contact",
		To:       "owner@example.com",
		ReplyTo:  "jane@x.com",
		Subject:  "Portfolio Contact: Hi",
		Body:     "Hello\nWorld",
		HTML:     "<p>Hello<br>World</p>",
	}
}

type fakeResend struct {
	got *resend.SendEmailRequest
	err error
}

func (f *fakeResend) SendWithContext(_ context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	f.got = params
	if f.err != nil {
		return nil, f.err
	}
	return &resend.SendEmailResponse{Id: "re_1"}, nil
}

type fakeSendGrid struct {
	got    *mail.SGMailV3
	status int
	err    error
}

func (f *fakeSendGrid) SendWithContext(_ context.Context, email *mail.SGMailV3) (*rest.Response, error) {
	f.got = email
	if f.err != nil {
		return nil, f.err
	}
	return &rest.Response{StatusCode: f.status, Body: "{}"}, nil
}

type fakeSES struct {
	got *sesv2.SendEmailInput
	err error
}

func (f *fakeSES) SendEmail(_ context.Context, params *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.got = params
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("ses-1")}, nil
}

func TestNewResendSender_NilWithoutAPIKey(t *testing.T) {
	if sender := NewResendSender("", nil); sender != nil {
		t.Error("expected nil sender when API key is empty")
	}
}

func TestResendSender_Send(t *testing.T) {
	fake := &fakeResend{}
	sender := &ResendSender{emails: fake, logger: quietLogger()}

	if err := sender.Send(context.Background(), contactMessage()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fake.got == nil {
		t.Fatal("expected resend to be called")
	}
	if fake.got.From != "Portfolio Contact <noreply@yourdomain.com>" {
		t.Errorf("unexpected from: %s", fake.got.From)
	}
	if len(fake.got.To) != 1 || fake.got.To[0] != "owner@example.com" {
		t.Errorf("unexpected to: %v", fake.got.To)
	}
	if fake.got.ReplyTo != "jane@x.com" {
		t.Errorf("expected reply-to to be the submitter, got %q", fake.got.ReplyTo)
	}
	if fake.got.Html != "<p>Hello<br>World</p>" {
		t.Errorf("unexpected html: %s", fake.got.Html)
	}
}

func TestResendSender_SendError(t *testing.T) {
	boom := errors.New("boom")
	sender := &ResendSender{emails: &fakeResend{err: boom}, logger: quietLogger()}

	err := sender.Send(context.Background(), contactMessage())
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped provider error, got %v", err)
	}
}

func TestResendSender_NilClient(t *testing.T) {
	var sender *ResendSender
	err := sender.Send(context.Background(), contactMessage())
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestSendGridSender_Send_NilClient(t *testing.T) {
	sender := &SendGridSender{client: nil}

	err := sender.Send(context.Background(), contactMessage())
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured when client is nil, got %v", err)
	}
}

func TestSendGridSender_SetsReplyTo(t *testing.T) {
	fake := &fakeSendGrid{status: 202}
	sender := &SendGridSender{client: fake, logger: quietLogger()}

	if err := sender.Send(context.Background(), contactMessage()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fake.got.ReplyTo == nil || fake.got.ReplyTo.Address != "jane@x.com" {
		t.Errorf("expected reply-to jane@x.com, got %+v", fake.got.ReplyTo)
	}
	if fake.got.From.Name != "Portfolio Contact" {
		t.Errorf("unexpected from name: %s", fake.got.From.Name)
	}
	if fake.got.Subject != "Portfolio Contact: Hi" {
		t.Errorf("unexpected subject: %s", fake.got.Subject)
	}
}

func TestSendGridSender_ErrorStatus(t *testing.T) {
	sender := &SendGridSender{client: &fakeSendGrid{status: 401}, logger: quietLogger()}

	if err := sender.Send(context.Background(), contactMessage()); err == nil {
		t.Fatal("expected error for 401 response")
	}
}

func TestSESSender_Send(t *testing.T) {
	fake := &fakeSES{}
	sender := NewSESSender(fake, quietLogger())

	if err := sender.Send(context.Background(), contactMessage()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := aws.ToString(fake.got.FromEmailAddress); got != "Portfolio Contact <noreply@yourdomain.com>" {
		t.Errorf("unexpected from: %s", got)
	}
	if len(fake.got.ReplyToAddresses) != 1 || fake.got.ReplyToAddresses[0] != "jane@x.com" {
		t.Errorf("unexpected reply-to: %v", fake.got.ReplyToAddresses)
	}
	if aws.ToString(fake.got.Content.Simple.Body.Html.Data) != "<p>Hello<br>World</p>" {
		t.Errorf("unexpected html body")
	}
	if aws.ToString(fake.got.Content.Simple.Body.Text.Data) != "Hello\nWorld" {
		t.Errorf("unexpected text body")
	}
}

func TestNewSESSender_NilWithoutClient(t *testing.T) {
	if sender := NewSESSender(nil, nil); sender != nil {
		t.Error("expected nil sender without client")
	}
}

func TestSenders_RejectIncompleteMessage(t *testing.T) {
	fake := &fakeResend{}
	sender := &ResendSender{emails: fake, logger: quietLogger()}

	msg := contactMessage()
	msg.To = ""
	if err := sender.Send(context.Background(), msg); err == nil {
		t.Fatal("expected error for missing recipient")
	}
	if fake.got != nil {
		t.Fatal("provider should not be called for an incomplete message")
	}
}

func TestStubEmailSender_Send(t *testing.T) {
	sender := NewStubEmailSender(nil)

	err := sender.Send(context.Background(), contactMessage())
	if err != nil {
		t.Errorf("stub sender should not return error, got: %v", err)
	}
}
