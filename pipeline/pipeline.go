// Package pipeline glues the preset resolver, transcoder, and upload
// orchestrator into the single-file and batch entry points.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/savishkar/mediakit/adapters/sink"
	"github.com/savishkar/mediakit/core"
	apperrors "github.com/savishkar/mediakit/errors"
	"github.com/savishkar/mediakit/profile"
	"github.com/savishkar/mediakit/upload"
)

// Transcoder converts raw bytes into a compact asset under a profile.  The
// default implementation is transcode.Transcoder; the vips adapter provides a
// CGO-backed drop-in.
type Transcoder interface {
	Transcode(ctx context.Context, data []byte, prof profile.ConversionProfile) (*core.MediaAsset, error)
}

// StageError tags a failure with the pipeline stage that produced it.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("stage %s: %v", e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

// Request is one single-file pipeline run.
type Request struct {
	Data      []byte
	Category  string
	Overrides profile.Overrides

	// Destination. PublicID defaults to a generated category key; Folder
	// defaults to the category name.
	Folder    string
	PublicID  string
	Overwrite bool
}

// Pipeline runs resolve → transcode → upload for one input.
type Pipeline struct {
	transcoder Transcoder
	uploader   *upload.Orchestrator
	hooks      []core.Hook
	log        core.Logger
}

// New wires a Pipeline.  logger may be nil.
func New(t Transcoder, u *upload.Orchestrator, logger core.Logger) *Pipeline {
	return &Pipeline{transcoder: t, uploader: u, log: core.OrNop(logger)}
}

// AddHook registers an observer for stage events.
func (p *Pipeline) AddHook(h core.Hook) { p.hooks = append(p.hooks, h) }

// Run executes the full pipeline.  Transcode failures abort before any bytes
// reach the sink; the returned error identifies the failing stage.
func (p *Pipeline) Run(ctx context.Context, req Request) (*core.UploadResult, error) {
	if len(req.Data) == 0 {
		return nil, &StageError{Stage: core.StageResolve,
			Err: apperrors.New(apperrors.CategoryInput, "pipeline.run", apperrors.ErrEmptyInput)}
	}

	// Resolve: explicit overrides win field-by-field over the preset.
	var prof profile.ConversionProfile
	p.stage(ctx, core.StageResolve, func() (core.StageResult, error) {
		prof = req.Overrides.Apply(profile.Resolve(req.Category))
		return core.StageResult{}, nil
	})

	var asset *core.MediaAsset
	err := p.stage(ctx, core.StageTranscode, func() (core.StageResult, error) {
		a, err := p.transcoder.Transcode(ctx, req.Data, prof)
		asset = a
		return core.StageResult{Asset: a}, err
	})
	if err != nil {
		return nil, &StageError{Stage: core.StageTranscode, Err: err}
	}

	dest := core.PutOptions{
		Folder:    req.Folder,
		PublicID:  req.PublicID,
		Format:    asset.Format,
		Overwrite: req.Overwrite,
	}
	if dest.Folder == "" {
		dest.Folder = categoryFolder(req.Category)
	}
	if dest.PublicID == "" {
		dest.PublicID = sink.ObjectKey(categoryName(req.Category))
	}

	var result *core.UploadResult
	err = p.stage(ctx, core.StageUpload, func() (core.StageResult, error) {
		r, err := p.uploader.Upload(ctx, asset.Data, dest)
		result = r
		return core.StageResult{Asset: asset, Result: r}, err
	})
	if err != nil {
		return nil, &StageError{Stage: core.StageUpload, Err: err}
	}
	return result, nil
}

// stage runs fn and notifies hooks with its timing and outcome.
func (p *Pipeline) stage(ctx context.Context, name string, fn func() (core.StageResult, error)) error {
	for _, h := range p.hooks {
		h.BeforeStage(ctx, name)
	}
	start := time.Now()
	res, err := fn()
	res.Elapsed = time.Since(start)
	for _, h := range p.hooks {
		h.AfterStage(ctx, name, res, err)
	}
	return err
}

func categoryName(category string) string {
	if category == "" {
		return profile.CategoryGeneral
	}
	return category
}

// categoryFolder maps a category to its default sink folder.
func categoryFolder(category string) string {
	switch category {
	case profile.CategoryAvatar:
		return "avatars"
	case profile.CategoryEvent:
		return "events"
	case profile.CategoryPayment:
		return "payments"
	case profile.CategoryQRCode:
		return "qrcodes"
	default:
		return "uploads"
	}
}
