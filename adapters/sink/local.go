package sink

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/savishkar/mediakit/core"
	apperrors "github.com/savishkar/mediakit/errors"
)

// Local stores objects on the local filesystem.  URLs are file paths; it
// conforms to core.Sink so the pipeline can run without a remote store.
type Local struct {
	rootDir string
	perm    os.FileMode
}

// NewLocal creates a Local sink rooted at dir.
func NewLocal(dir string, perm os.FileMode) (*Local, error) {
	if perm == 0 {
		perm = 0o644
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryConfig, "local.new", err)
	}
	return &Local{rootDir: dir, perm: perm}, nil
}

func (l *Local) absPath(name string) string {
	return filepath.Join(l.rootDir, filepath.Clean(name))
}

// PutObject writes data under rootDir and returns a file:// locator.
func (l *Local) PutObject(ctx context.Context, data []byte, opts core.PutOptions) (*core.ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Timeout("local.put", err)
	}

	name, format := objectName(opts)
	path := l.absPath(name)

	if !opts.Overwrite {
		if _, err := os.Stat(path); err == nil {
			return nil, apperrors.Fatal("local.put",
				fmt.Errorf("object %q already exists", name))
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, apperrors.Transient("local.put.mkdir", err)
	}
	if err := os.WriteFile(path, data, l.perm); err != nil {
		return nil, apperrors.Transient("local.put.write", err)
	}

	w, h := dimensions(data)
	return &core.ObjectInfo{
		SecureURL: "file://" + path,
		PublicID:  name,
		Bytes:     int64(len(data)),
		Width:     w,
		Height:    h,
		Format:    format,
	}, nil
}

// DeleteObject removes the stored file; missing objects are not an error.
func (l *Local) DeleteObject(ctx context.Context, publicID string) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Timeout("local.delete", err)
	}
	if err := os.Remove(l.absPath(publicID)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return apperrors.Transient("local.delete", err)
	}
	return nil
}
