package sink_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/savishkar/mediakit/adapters/sink"
	"github.com/savishkar/mediakit/core"
	apperrors "github.com/savishkar/mediakit/errors"
)

func TestLocal_PutAndDelete(t *testing.T) {
	dir := t.TempDir()
	s, err := sink.NewLocal(dir, 0)
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}

	info, err := s.PutObject(context.Background(), []byte("webp bytes"), core.PutOptions{
		Folder:   "events",
		PublicID: "poster",
	})
	if err != nil {
		t.Fatalf("PutObject: %v", err)
	}
	if info.PublicID != "events/poster.webp" {
		t.Errorf("public id: got %q", info.PublicID)
	}
	if !strings.HasPrefix(info.SecureURL, "file://") {
		t.Errorf("url: got %q", info.SecureURL)
	}
	if _, err := os.Stat(filepath.Join(dir, "events", "poster.webp")); err != nil {
		t.Errorf("stored file missing: %v", err)
	}

	if err := s.DeleteObject(context.Background(), info.PublicID); err != nil {
		t.Fatalf("DeleteObject: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "events", "poster.webp")); !errors.Is(err, os.ErrNotExist) {
		t.Error("file still present after delete")
	}
	// Deleting a missing object is not an error.
	if err := s.DeleteObject(context.Background(), info.PublicID); err != nil {
		t.Errorf("second delete: %v", err)
	}
}

func TestLocal_NoOverwriteByDefault(t *testing.T) {
	s, err := sink.NewLocal(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	opts := core.PutOptions{PublicID: "dup"}

	if _, err := s.PutObject(context.Background(), []byte("one"), opts); err != nil {
		t.Fatalf("first put: %v", err)
	}
	_, err = s.PutObject(context.Background(), []byte("two"), opts)
	if err == nil {
		t.Fatal("second put should fail without Overwrite")
	}
	if apperrors.IsRetryable(err) {
		t.Error("existing-object conflict must not be retried")
	}

	opts.Overwrite = true
	if _, err := s.PutObject(context.Background(), []byte("two"), opts); err != nil {
		t.Fatalf("overwrite put: %v", err)
	}
}

func TestObjectKey_Shape(t *testing.T) {
	a := sink.ObjectKey("avatar")
	b := sink.ObjectKey("avatar")
	if a == b {
		t.Error("keys must be unique")
	}
	if !strings.HasPrefix(a, "avatar-") {
		t.Errorf("key: got %q, want avatar- prefix", a)
	}
	if parts := strings.Split(a, "-"); len(parts) < 3 {
		t.Errorf("key shape: %q", a)
	}
}
