// Package upload wraps a storage sink with per-attempt deadlines, bounded
// retries, and linear backoff, translating sink responses into the module's
// own result and error types.
package upload

import (
	"context"
	"errors"
	"time"

	"github.com/savishkar/mediakit/core"
	apperrors "github.com/savishkar/mediakit/errors"
)

// Options tunes the retry behaviour.  Zero values take the defaults below.
type Options struct {
	AttemptTimeout time.Duration // hard deadline per attempt
	MaxAttempts    int           // total attempts, first try included
	BaseDelay      time.Duration // wait = BaseDelay × attempt number
}

const (
	defaultAttemptTimeout = 45 * time.Second
	defaultMaxAttempts    = 3
	defaultBaseDelay      = 2 * time.Second
)

// Orchestrator drives sink writes.  Each invocation is independent; unrelated
// uploads may run concurrently.
type Orchestrator struct {
	sink core.Sink
	opts Options
	log  core.Logger
}

// New returns an Orchestrator over the given sink.  logger may be nil.
func New(s core.Sink, opts Options, logger core.Logger) *Orchestrator {
	if opts.AttemptTimeout <= 0 {
		opts.AttemptTimeout = defaultAttemptTimeout
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = defaultBaseDelay
	}
	return &Orchestrator{sink: s, opts: opts, log: core.OrNop(logger)}
}

// Upload persists data under dest.  Transient failures and per-attempt
// timeouts are retried up to the attempt ceiling; fatal failures surface
// immediately.  Partial attempts are durable write intents against the store
// and are not cleaned up automatically — use Remove for explicit rollback.
func (o *Orchestrator) Upload(ctx context.Context, data []byte, dest core.PutOptions) (*core.UploadResult, error) {
	if len(data) == 0 {
		return nil, apperrors.New(apperrors.CategoryInput, "upload", apperrors.ErrEmptyInput)
	}

	var lastErr error
	for attempt := 1; attempt <= o.opts.MaxAttempts; attempt++ {
		info, err := o.attempt(ctx, data, dest)
		if err == nil {
			o.log.Info("upload.done",
				"public_id", info.PublicID,
				"bytes", info.Bytes,
				"attempt", attempt,
			)
			return normalize(info), nil
		}
		lastErr = err

		if !apperrors.IsRetryable(err) {
			return nil, err
		}
		if attempt == o.opts.MaxAttempts {
			break
		}

		wait := o.opts.BaseDelay * time.Duration(attempt)
		o.log.Warn("upload.retry",
			"attempt", attempt,
			"max_attempts", o.opts.MaxAttempts,
			"wait", wait.String(),
			"error", err.Error(),
		)
		select {
		case <-ctx.Done():
			return nil, apperrors.Wrap(apperrors.CategoryUpload, "upload", ctx.Err())
		case <-time.After(wait):
		}
	}
	return nil, lastErr
}

// attempt runs one bounded write.  On expiry the in-flight call is abandoned:
// the deadline tears down the underlying connection rather than awaiting it.
func (o *Orchestrator) attempt(ctx context.Context, data []byte, dest core.PutOptions) (*core.ObjectInfo, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, o.opts.AttemptTimeout)
	defer cancel()

	info, err := o.sink.PutObject(attemptCtx, data, dest)
	if err == nil {
		return info, nil
	}
	// Sinks unaware of the taxonomy may surface the raw deadline error.
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		return nil, apperrors.Timeout("upload.attempt", err)
	}
	return nil, err
}

// Remove deletes a stored object by key.  It exists for explicit rollback of
// partial uploads and is never invoked automatically.
func (o *Orchestrator) Remove(ctx context.Context, storageKey string) error {
	return o.sink.DeleteObject(ctx, storageKey)
}

// normalize translates the sink's response shape so the rest of the system
// never sees sink vocabulary.
func normalize(info *core.ObjectInfo) *core.UploadResult {
	return &core.UploadResult{
		URL:        info.SecureURL,
		StorageKey: info.PublicID,
		Bytes:      info.Bytes,
		Width:      info.Width,
		Height:     info.Height,
		Format:     info.Format,
	}
}
