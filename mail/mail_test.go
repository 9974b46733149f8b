package mail

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/MrEthical07/learnhub"
	gomail "github.com/wneessen/go-mail"
)

func TestRenderActivation(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer failed: %v", err)
	}

	html, err := r.Render("activation", map[string]any{
		"user":           map[string]string{"name": "Ada <admin>"},
		"activationCode": "4821",
	})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(html, "4821") {
		t.Fatal("expected activation code in body")
	}
	if !strings.Contains(html, "Ada &lt;admin&gt;") {
		t.Fatalf("expected escaped name in body:\n%s", html)
	}
}

func TestRenderOrderConfirmation(t *testing.T) {
	r, _ := NewRenderer()
	html, err := r.Render("order-confirmation.html", map[string]any{
		"order": map[string]any{"_id": "abc123", "name": "Go Basics", "price": 49.0, "date": "March 10, 2026"},
	})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	for _, want := range []string{"#abc123", "Go Basics", "March 10, 2026"} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in body", want)
		}
	}
}

func TestRenderQuestionReply(t *testing.T) {
	r, _ := NewRenderer()
	html, err := r.Render("question-reply", map[string]any{
		"name": "Ada", "title": "Channels", "question": "Buffered?", "answer": "<b>Start unbuffered</b>",
	})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	for _, want := range []string{"Hello Ada", "Channels", "Buffered?", "&lt;b&gt;Start unbuffered"} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in body", want)
		}
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	r, _ := NewRenderer()
	if _, err := r.Render("password-reset", nil); !errors.Is(err, ErrUnknownTemplate) {
		t.Fatalf("expected ErrUnknownTemplate, got %v", err)
	}
}

func TestSMTPSendBuildsMessage(t *testing.T) {
	s, err := NewSMTP(SMTPConfig{Host: "smtp.test", Port: 2525, Username: "u", Password: "p", From: "noreply@learnhub.test"}, nil)
	if err != nil {
		t.Fatalf("NewSMTP failed: %v", err)
	}
	s.now = func() time.Time { return time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC) }

	var sent []*gomail.Msg
	s.deliver = func(_ context.Context, msgs ...*gomail.Msg) error {
		sent = append(sent, msgs...)
		return nil
	}

	err = s.Send(context.Background(), "ada@example.com", "Activate your account", "activation",
		map[string]any{"user": map[string]string{"name": "Ada"}, "activationCode": "1234"})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if len(sent) != 1 {
		t.Fatalf("expected one message, got %d", len(sent))
	}
	rcpts, err := sent[0].GetRecipients()
	if err != nil || len(rcpts) != 1 || rcpts[0] != "ada@example.com" {
		t.Fatalf("unexpected recipients %v (%v)", rcpts, err)
	}

	var raw bytes.Buffer
	if _, err := sent[0].WriteTo(&raw); err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}
	msg := raw.String()
	for _, want := range []string{"Subject: Activate your account", "noreply@learnhub.test", "text/html", "1234"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message lacks %q:\n%s", want, msg)
		}
	}
}

func TestSMTPSendFailure(t *testing.T) {
	s, _ := NewSMTP(SMTPConfig{Host: "smtp.test", From: "noreply@learnhub.test"}, nil)
	s.deliver = func(context.Context, ...*gomail.Msg) error { return errors.New("connection refused") }

	data := map[string]any{"user": map[string]string{"name": "Ada"}, "activationCode": "1234"}
	err := s.Send(context.Background(), "ada@example.com", "x", "activation", data)
	if err == nil || !strings.Contains(err.Error(), "connection refused") {
		t.Fatalf("expected delivery error, got %v", err)
	}
}

func TestSMTPSendRejectsBadRecipient(t *testing.T) {
	s, _ := NewSMTP(SMTPConfig{Host: "smtp.test", Port: 465, From: "noreply@learnhub.test"}, nil)
	s.deliver = func(context.Context, ...*gomail.Msg) error {
		t.Fatal("nothing should be delivered")
		return nil
	}

	data := map[string]any{"user": map[string]string{"name": "Ada"}, "activationCode": "1234"}
	if err := s.Send(context.Background(), "not an address", "x", "activation", data); !errors.Is(err, learnhub.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestNewSMTPRequiresHostAndSender(t *testing.T) {
	if _, err := NewSMTP(SMTPConfig{Host: "smtp.test"}, nil); err == nil {
		t.Fatal("expected error without sender")
	}
}

func TestSMTPSendHonorsCanceledContext(t *testing.T) {
	s, _ := NewSMTP(SMTPConfig{Host: "smtp.test", From: "noreply@learnhub.test"}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Send(ctx, "a@example.com", "x", "activation", nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	if err := r.Send(context.Background(), "a@example.com", "Order Confirmation", "order-confirmation",
		map[string]any{"order": map[string]any{"_id": "x"}}); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	last, ok := r.Last()
	if !ok || last.Template != "order-confirmation" || last.HTML == "" {
		t.Fatalf("unexpected message %+v", last)
	}

	r.Err = errors.New("down")
	if err := r.Send(context.Background(), "a@example.com", "x", "activation", nil); err == nil {
		t.Fatal("expected injected error")
	}
	if len(r.Messages()) != 1 {
		t.Fatal("failed sends must not be recorded")
	}
}
