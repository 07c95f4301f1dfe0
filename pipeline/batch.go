package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/savishkar/mediakit/core"
	apperrors "github.com/savishkar/mediakit/errors"
	"github.com/savishkar/mediakit/profile"
	"github.com/savishkar/mediakit/utils"
)

// BatchOptions applies to every item of a batch run.
type BatchOptions struct {
	Category  string
	Overrides profile.Overrides
	Folder    string
	Overwrite bool
}

// BatchSuccess records one uploaded item.
type BatchSuccess struct {
	Path   string
	Result *core.UploadResult
}

// BatchFailure records one failed item without aborting the batch.
type BatchFailure struct {
	Path string
	Err  error
}

// BatchResult aggregates per-item outcomes and byte totals.
type BatchResult struct {
	Successes []BatchSuccess
	Failures  []BatchFailure
	BytesIn   int64
	BytesOut  int64
}

// RunBatch processes paths strictly sequentially.  Serializing keeps memory
// bounded and stays inside the sink's per-account rate limits; throughput is
// traded for predictable resource use and simple partial-failure reporting.
// Item failures are collected, never propagated; only input-level problems
// (empty path list) fail the call.
func (p *Pipeline) RunBatch(ctx context.Context, paths []string, opts BatchOptions) (*BatchResult, error) {
	if len(paths) == 0 {
		return nil, apperrors.New(apperrors.CategoryInput, "batch", apperrors.ErrEmptyInput)
	}

	res := &BatchResult{}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return res, apperrors.Wrap(apperrors.CategoryInput, "batch", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			p.log.Warn("batch.item.skip", "path", path, "error", err.Error())
			res.Failures = append(res.Failures, BatchFailure{Path: path,
				Err: apperrors.Wrap(apperrors.CategoryInput, "batch.read", err)})
			continue
		}
		res.BytesIn += int64(len(data))

		result, err := p.Run(ctx, Request{
			Data:      data,
			Category:  opts.Category,
			Overrides: opts.Overrides,
			Folder:    opts.Folder,
			PublicID:  batchPublicID(path),
			Overwrite: opts.Overwrite,
		})
		if err != nil {
			p.log.Warn("batch.item.failed", "path", path, "error", err.Error())
			res.Failures = append(res.Failures, BatchFailure{Path: path, Err: err})
			continue
		}

		res.BytesOut += result.Bytes
		res.Successes = append(res.Successes, BatchSuccess{Path: path, Result: result})
	}

	p.log.Info("batch.done",
		"total", len(paths),
		"succeeded", len(res.Successes),
		"failed", len(res.Failures),
		"bytes_in", res.BytesIn,
		"bytes_out", res.BytesOut,
	)
	return res, nil
}

// RunDir expands dir through the raster extension allow-list (sorted for a
// stable order) and runs the batch over the matches.
func (p *Pipeline) RunDir(ctx context.Context, dir string, opts BatchOptions) (*BatchResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryInput, "batch.dir", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !utils.IsRasterFile(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)

	if len(paths) == 0 {
		return nil, apperrors.New(apperrors.CategoryInput, "batch.dir",
			fmt.Errorf("no image files in %s", dir))
	}
	return p.RunBatch(ctx, paths, opts)
}

// batchPublicID derives a stable-but-unique public ID from the file name.
func batchPublicID(path string) string {
	return fmt.Sprintf("%s-%d", utils.BaseName(path), time.Now().UnixMilli())
}
