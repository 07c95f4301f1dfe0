// Package notify delivers fire-and-forget email notifications.  Delivery is
// retried with linear backoff under an overall deadline; failures are logged
// and surfaced as warnings, never blocking the pipeline that triggered them.
package notify

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/savishkar/mediakit/core"
	apperrors "github.com/savishkar/mediakit/errors"
)

// Message is one outbound notification payload.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// SMTPConfig holds the mail transport settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Options tunes retry behaviour.  Zero values take the defaults below.
type Options struct {
	MaxAttempts int
	BaseDelay   time.Duration // wait = BaseDelay × attempt number
	Deadline    time.Duration // overall budget across all attempts
}

const (
	defaultMaxAttempts = 3
	defaultBaseDelay   = 2 * time.Second
	defaultDeadline    = 60 * time.Second
)

// SendFunc performs one delivery attempt.
type SendFunc func(m *gomail.Message) error

// Notifier sends email through SMTP.
type Notifier struct {
	send SendFunc
	from string
	opts Options
	log  core.Logger
}

// New creates a Notifier over a gomail SMTP dialer.  Missing credentials fail
// fast with a config-category error.
func New(cfg SMTPConfig, opts Options, logger core.Logger) (*Notifier, error) {
	if cfg.Host == "" || cfg.Username == "" || cfg.Password == "" {
		return nil, apperrors.New(apperrors.CategoryConfig, "notify.new",
			apperrors.ErrMissingCredentials)
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	send := func(m *gomail.Message) error { return dialer.DialAndSend(m) }
	return NewWithSender(send, cfg.From, opts, logger), nil
}

// NewWithSender creates a Notifier with a custom delivery function; tests
// inject a fake sender here.
func NewWithSender(send SendFunc, from string, opts Options, logger core.Logger) *Notifier {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = defaultBaseDelay
	}
	if opts.Deadline <= 0 {
		opts.Deadline = defaultDeadline
	}
	return &Notifier{send: send, from: from, opts: opts, log: core.OrNop(logger)}
}

// Send delivers msg, retrying transient failures.  The returned error is a
// non-fatal warning for the caller; pipelines must not treat it as a failure.
func (n *Notifier) Send(ctx context.Context, msg Message) error {
	ctx, cancel := context.WithTimeout(ctx, n.opts.Deadline)
	defer cancel()

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)

	var lastErr error
	for attempt := 1; attempt <= n.opts.MaxAttempts; attempt++ {
		if err := n.attempt(ctx, m); err == nil {
			n.log.Info("notify.sent", "to", msg.To, "subject", msg.Subject, "attempt", attempt)
			return nil
		} else {
			lastErr = err
		}

		if attempt == n.opts.MaxAttempts || ctx.Err() != nil {
			break
		}
		wait := n.opts.BaseDelay * time.Duration(attempt)
		n.log.Warn("notify.retry",
			"to", msg.To,
			"attempt", attempt,
			"max_attempts", n.opts.MaxAttempts,
			"wait", wait.String(),
			"error", lastErr.Error(),
		)
		select {
		case <-ctx.Done():
			lastErr = ctx.Err()
		case <-time.After(wait):
		}
	}

	n.log.Error("notify.failed", "to", msg.To, "subject", msg.Subject, "error", lastErr.Error())
	return fmt.Errorf("send notification to %s: %w", msg.To, lastErr)
}

// attempt runs the blocking SMTP send in a goroutine so the overall deadline
// can abandon it; gomail has no context support of its own.
func (n *Notifier) attempt(ctx context.Context, m *gomail.Message) error {
	done := make(chan error, 1)
	go func() { done <- n.send(m) }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
