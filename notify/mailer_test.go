package notify_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/savishkar/mediakit/notify"
)

func fastOpts() notify.Options {
	return notify.Options{
		MaxAttempts: 3,
		BaseDelay:   time.Millisecond,
		Deadline:    time.Second,
	}
}

func TestSend_Success(t *testing.T) {
	var got *gomail.Message
	n := notify.NewWithSender(func(m *gomail.Message) error {
		got = m
		return nil
	}, "noreply@example.com", fastOpts(), nil)

	err := n.Send(context.Background(), notify.Message{
		To:      "attendee@example.com",
		Subject: "Registration confirmed",
		HTML:    "<p>See you there.</p>",
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if got == nil {
		t.Fatal("sender not invoked")
	}
	if to := got.GetHeader("To"); len(to) != 1 || to[0] != "attendee@example.com" {
		t.Errorf("To header: %v", to)
	}
	if from := got.GetHeader("From"); len(from) != 1 || from[0] != "noreply@example.com" {
		t.Errorf("From header: %v", from)
	}
}

func TestSend_RetriesThenSucceeds(t *testing.T) {
	attempts := 0
	n := notify.NewWithSender(func(*gomail.Message) error {
		attempts++
		if attempts < 3 {
			return errors.New("454 temporary failure")
		}
		return nil
	}, "noreply@example.com", fastOpts(), nil)

	if err := n.Send(context.Background(), notify.Message{To: "a@b"}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts: got %d, want 3", attempts)
	}
}

func TestSend_ExhaustsAttempts(t *testing.T) {
	attempts := 0
	n := notify.NewWithSender(func(*gomail.Message) error {
		attempts++
		return errors.New("connection refused")
	}, "noreply@example.com", fastOpts(), nil)

	err := n.Send(context.Background(), notify.Message{To: "a@b"})
	if err == nil {
		t.Fatal("expected failure")
	}
	if attempts != 3 {
		t.Errorf("attempts: got %d, want 3", attempts)
	}
}

func TestSend_DeadlineCutsRetries(t *testing.T) {
	n := notify.NewWithSender(func(*gomail.Message) error {
		return errors.New("down")
	}, "noreply@example.com", notify.Options{
		MaxAttempts: 10,
		BaseDelay:   50 * time.Millisecond,
		Deadline:    60 * time.Millisecond,
	}, nil)

	start := time.Now()
	if err := n.Send(context.Background(), notify.Message{To: "a@b"}); err == nil {
		t.Fatal("expected failure")
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("deadline not honoured, took %s", elapsed)
	}
}

func TestNew_MissingCredentials(t *testing.T) {
	_, err := notify.New(notify.SMTPConfig{Host: "smtp.example.com"}, notify.Options{}, nil)
	if err == nil {
		t.Fatal("expected config error for missing credentials")
	}
}
