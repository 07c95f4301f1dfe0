package upload_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/savishkar/mediakit/core"
	apperrors "github.com/savishkar/mediakit/errors"
	"github.com/savishkar/mediakit/upload"
)

// scriptedSink returns the queued errors in order, then succeeds.
type scriptedSink struct {
	errs    []error
	calls   int
	deletes []string
	block   time.Duration // hold each attempt open before answering
}

func (s *scriptedSink) PutObject(ctx context.Context, data []byte, opts core.PutOptions) (*core.ObjectInfo, error) {
	s.calls++
	if s.block > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.block):
		}
	}
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	return &core.ObjectInfo{
		SecureURL: "https://cdn.example.com/" + opts.PublicID,
		PublicID:  opts.PublicID,
		Bytes:     int64(len(data)),
		Width:     10,
		Height:    10,
		Format:    core.FormatWebP,
	}, nil
}

func (s *scriptedSink) DeleteObject(_ context.Context, publicID string) error {
	s.deletes = append(s.deletes, publicID)
	return nil
}

func fastOpts() upload.Options {
	return upload.Options{
		AttemptTimeout: 100 * time.Millisecond,
		MaxAttempts:    3,
		BaseDelay:      time.Millisecond,
	}
}

func TestUpload_Success(t *testing.T) {
	sink := &scriptedSink{}
	o := upload.New(sink, fastOpts(), nil)

	res, err := o.Upload(context.Background(), []byte("payload"), core.PutOptions{PublicID: "a1"})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if sink.calls != 1 {
		t.Errorf("calls: got %d, want 1", sink.calls)
	}
	if res.URL != "https://cdn.example.com/a1" || res.StorageKey != "a1" {
		t.Errorf("result not normalized: %+v", res)
	}
	if res.Bytes != int64(len("payload")) {
		t.Errorf("bytes: got %d", res.Bytes)
	}
}

func TestUpload_RetriesTransientThenSucceeds(t *testing.T) {
	sink := &scriptedSink{errs: []error{
		apperrors.Transient("put", errors.New("connection reset")),
		apperrors.Transient("put", errors.New("connection reset")),
	}}
	o := upload.New(sink, fastOpts(), nil)

	if _, err := o.Upload(context.Background(), []byte("x"), core.PutOptions{PublicID: "b"}); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if sink.calls != 3 {
		t.Errorf("calls: got %d, want 3", sink.calls)
	}
}

func TestUpload_ExhaustsAttempts(t *testing.T) {
	transient := apperrors.Transient("put", errors.New("still down"))
	sink := &scriptedSink{errs: []error{transient, transient, transient}}
	o := upload.New(sink, fastOpts(), nil)

	_, err := o.Upload(context.Background(), []byte("x"), core.PutOptions{PublicID: "c"})
	if err == nil {
		t.Fatal("expected failure after exhausting attempts")
	}
	if sink.calls != 3 {
		t.Errorf("calls: got %d, want 3", sink.calls)
	}
	if !apperrors.IsRetryable(err) {
		t.Error("final error should keep its transient classification")
	}
}

func TestUpload_FatalFailsImmediately(t *testing.T) {
	sink := &scriptedSink{errs: []error{apperrors.Fatal("put", errors.New("access denied"))}}
	o := upload.New(sink, fastOpts(), nil)

	_, err := o.Upload(context.Background(), []byte("x"), core.PutOptions{PublicID: "d"})
	if err == nil {
		t.Fatal("expected fatal error")
	}
	if sink.calls != 1 {
		t.Errorf("calls: got %d, want 1", sink.calls)
	}
}

func TestUpload_AttemptTimeoutIsRetried(t *testing.T) {
	sink := &scriptedSink{block: time.Second}
	o := upload.New(sink, upload.Options{
		AttemptTimeout: 10 * time.Millisecond,
		MaxAttempts:    2,
		BaseDelay:      time.Millisecond,
	}, nil)

	_, err := o.Upload(context.Background(), []byte("x"), core.PutOptions{PublicID: "e"})
	if !errors.Is(err, apperrors.ErrAttemptTimeout) {
		t.Fatalf("got %v, want ErrAttemptTimeout", err)
	}
	if sink.calls != 2 {
		t.Errorf("calls: got %d, want 2", sink.calls)
	}
}

func TestUpload_ParentCancelStopsRetrying(t *testing.T) {
	sink := &scriptedSink{errs: []error{apperrors.Transient("put", errors.New("down"))}}
	o := upload.New(sink, upload.Options{
		AttemptTimeout: 100 * time.Millisecond,
		MaxAttempts:    3,
		BaseDelay:      time.Hour, // backoff long enough that cancel always wins
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := o.Upload(ctx, []byte("x"), core.PutOptions{PublicID: "f"})
	if err == nil {
		t.Fatal("expected cancellation error")
	}
	if sink.calls != 1 {
		t.Errorf("calls: got %d, want 1", sink.calls)
	}
}

func TestUpload_EmptyInput(t *testing.T) {
	o := upload.New(&scriptedSink{}, fastOpts(), nil)
	_, err := o.Upload(context.Background(), nil, core.PutOptions{PublicID: "g"})
	if !errors.Is(err, apperrors.ErrEmptyInput) {
		t.Fatalf("got %v, want ErrEmptyInput", err)
	}
}

func TestRemove_DelegatesToSink(t *testing.T) {
	sink := &scriptedSink{}
	o := upload.New(sink, fastOpts(), nil)
	if err := o.Remove(context.Background(), "events/old.webp"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if len(sink.deletes) != 1 || sink.deletes[0] != "events/old.webp" {
		t.Errorf("deletes: %v", sink.deletes)
	}
}
