// Package vips provides a libvips-backed transcoder.  It trades the pure-Go
// codec stack for CGO and native throughput; the output contract is identical.
package vips

import (
	"context"
	"fmt"
	"runtime"

	govips "github.com/davidbyttow/govips/v2/vips"

	"github.com/savishkar/mediakit/core"
	apperrors "github.com/savishkar/mediakit/errors"
	"github.com/savishkar/mediakit/pipeline"
	"github.com/savishkar/mediakit/profile"
	"github.com/savishkar/mediakit/transcode"
	"github.com/savishkar/mediakit/utils"
)

var _ pipeline.Transcoder = (*Backend)(nil)

// BackendConfig configures the libvips backend.
type BackendConfig struct {
	DefaultQuality int
	MaxCacheSize   int
	MaxWorkers     int
	ReportLeaks    bool
}

// Backend converts raw bytes to WebP using libvips.
// Safe for concurrent use across goroutines.
type Backend struct {
	cfg BackendConfig
	log core.Logger
}

// NewBackend initialises libvips and returns a ready Backend.
// Call Shutdown() when the process exits.
func NewBackend(cfg BackendConfig, logger core.Logger) *Backend {
	if cfg.DefaultQuality <= 0 {
		cfg.DefaultQuality = 80
	}
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = runtime.NumCPU()
	}
	govips.Startup(&govips.Config{
		ConcurrencyLevel: cfg.MaxWorkers,
		MaxCacheSize:     cfg.MaxCacheSize,
		ReportLeaks:      cfg.ReportLeaks,
		CollectStats:     true,
	})
	return &Backend{cfg: cfg, log: core.OrNop(logger)}
}

// Shutdown releases all libvips resources. Call once at process exit.
func (b *Backend) Shutdown() {
	govips.Shutdown()
}

// Transcode decodes data, applies the profile's resize rules, and encodes the
// result as lossy or lossless WebP at maximum compression effort.
func (b *Backend) Transcode(ctx context.Context, data []byte, prof profile.ConversionProfile) (*core.MediaAsset, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryConvert, "vips.transcode", err)
	}
	if len(data) == 0 {
		return nil, apperrors.New(apperrors.CategoryConvert, "vips.transcode", apperrors.ErrEmptyInput)
	}

	srcFormat := core.Format(utils.DetectFormat(data))
	if srcFormat == core.FormatUnknown {
		return nil, apperrors.New(apperrors.CategoryConvert, "vips.transcode.detect",
			apperrors.ErrUnsupportedFormat)
	}

	ref, err := govips.NewImageFromBuffer(data)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryConvert, "vips.transcode.decode",
			fmt.Errorf("%w: %v", apperrors.ErrCorruptInput, err))
	}
	defer ref.Close()

	if err := ref.AutoRotate(); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryConvert, "vips.transcode.rotate", err)
	}

	if err := b.resize(ref, prof); err != nil {
		return nil, err
	}

	quality := prof.Quality
	if quality <= 0 {
		quality = b.cfg.DefaultQuality
	}
	ep := govips.NewWebpExportParams()
	ep.Quality = quality
	ep.Lossless = prof.Lossless
	ep.StripMetadata = true
	ep.ReductionEffort = 6
	out, _, err := ref.ExportWebp(ep)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryConvert, "vips.transcode.encode", err)
	}

	asset := &core.MediaAsset{
		Data:         out,
		Format:       core.FormatWebP,
		Width:        ref.Width(),
		Height:       ref.Height(),
		SourceFormat: srcFormat,
		SourceBytes:  int64(len(data)),
	}
	b.log.Info("transcode.done",
		"backend", "vips",
		"source_format", string(srcFormat),
		"width", asset.Width,
		"height", asset.Height,
		"bytes_in", asset.SourceBytes,
		"bytes_out", len(asset.Data),
		"savings_pct", fmt.Sprintf("%.2f", asset.Ratio()*100),
	)
	return asset, nil
}

// resize applies the shared fit geometry to ref in place.
func (b *Backend) resize(ref *govips.ImageRef, prof profile.ConversionProfile) error {
	srcW, srcH := ref.Width(), ref.Height()
	plan := transcode.PlanFit(srcW, srcH, prof.Width, prof.Height, prof.Fit)

	if plan.ScaledW != srcW || plan.ScaledH != srcH {
		hscale := float64(plan.ScaledW) / float64(srcW)
		vscale := float64(plan.ScaledH) / float64(srcH)
		if err := ref.ResizeWithVScale(hscale, vscale, govips.KernelLanczos3); err != nil {
			return apperrors.Wrap(apperrors.CategoryConvert, "vips.transcode.resize", err)
		}
	}

	switch {
	case plan.CanvasW < ref.Width() || plan.CanvasH < ref.Height():
		left := (ref.Width() - plan.CanvasW) / 2
		top := (ref.Height() - plan.CanvasH) / 2
		if err := ref.ExtractArea(left, top, plan.CanvasW, plan.CanvasH); err != nil {
			return apperrors.Wrap(apperrors.CategoryConvert, "vips.transcode.crop", err)
		}
	case plan.CanvasW > ref.Width() || plan.CanvasH > ref.Height():
		left := (plan.CanvasW - ref.Width()) / 2
		top := (plan.CanvasH - ref.Height()) / 2
		if err := ref.Embed(left, top, plan.CanvasW, plan.CanvasH, govips.ExtendWhite); err != nil {
			return apperrors.Wrap(apperrors.CategoryConvert, "vips.transcode.pad", err)
		}
	}
	return nil
}
