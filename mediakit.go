// Package mediakit converts user-supplied images to compact WebP and uploads
// them to an object store, with preset-driven sizing per upload category and
// bounded retries around the store.  The rotation and eventstore packages add
// usage-capped payment QR slot rotation on top of the same ambient stack.
package mediakit

import (
	"context"
	"io"

	"github.com/savishkar/mediakit/adapters/decoder"
	"github.com/savishkar/mediakit/adapters/encoder"
	"github.com/savishkar/mediakit/core"
	apperrors "github.com/savishkar/mediakit/errors"
	"github.com/savishkar/mediakit/pipeline"
	"github.com/savishkar/mediakit/profile"
	"github.com/savishkar/mediakit/transcode"
	"github.com/savishkar/mediakit/upload"
	"github.com/savishkar/mediakit/utils"
)

// MaxStreamBytes caps how much UploadStream will read from a single source.
const MaxStreamBytes = 32 << 20

// Re-export the preset categories for convenience.
const (
	CategoryAvatar  = profile.CategoryAvatar
	CategoryEvent   = profile.CategoryEvent
	CategoryPayment = profile.CategoryPayment
	CategoryQRCode  = profile.CategoryQRCode
	CategoryGeneral = profile.CategoryGeneral
)

// Options configures a Service.  The zero value is usable.
type Options struct {
	// DefaultQuality applies when a profile leaves quality unset (1-100).
	DefaultQuality int
	// Upload tunes retry behaviour around the sink.
	Upload upload.Options
	// Logger receives structured events from every component.  Nil disables
	// logging.
	Logger core.Logger
	// Transcoder replaces the built-in pure-Go converter, e.g. with the
	// libvips backend.  Nil selects the default.
	Transcoder pipeline.Transcoder
}

// Service is the primary entry point.  Safe for concurrent use.
type Service struct {
	reg      *core.DefaultRegistry
	pipeline *pipeline.Pipeline
}

// New creates a fully wired Service over the given sink, with decoders for
// every supported raster format registered.
func New(s core.Sink, opts Options) *Service {
	reg := core.NewRegistry()
	reg.RegisterDecoder(core.FormatJPEG, decoder.NewJPEG())
	reg.RegisterDecoder(core.FormatPNG, decoder.NewPNG())
	reg.RegisterDecoder(core.FormatGIF, decoder.NewGIF())
	reg.RegisterDecoder(core.FormatBMP, decoder.NewBMP())
	reg.RegisterDecoder(core.FormatTIFF, decoder.NewTIFF())
	reg.RegisterDecoder(core.FormatWebP, decoder.NewWebP())
	reg.RegisterEncoder(core.FormatJPEG, encoder.NewJPEG(opts.DefaultQuality))
	reg.RegisterEncoder(core.FormatPNG, encoder.NewPNG())
	reg.RegisterEncoder(core.FormatWebP, encoder.NewWebP(opts.DefaultQuality))

	t := opts.Transcoder
	if t == nil {
		t = transcode.New(reg, opts.Logger)
	}
	u := upload.New(s, opts.Upload, opts.Logger)
	return &Service{
		reg:      reg,
		pipeline: pipeline.New(t, u, opts.Logger),
	}
}

// AddHook registers an observer for pipeline stage events.
func (s *Service) AddHook(h core.Hook) { s.pipeline.AddHook(h) }

// RegisterDecoder registers a custom decoder for the given format.
func (s *Service) RegisterDecoder(f core.Format, d core.Decoder) { s.reg.RegisterDecoder(f, d) }

// RegisterEncoder registers a custom encoder for the given format.
func (s *Service) RegisterEncoder(f core.Format, e core.Encoder) { s.reg.RegisterEncoder(f, e) }

// Upload converts data under the category's preset and stores the result.
func (s *Service) Upload(ctx context.Context, data []byte, category string) (*core.UploadResult, error) {
	return s.pipeline.Run(ctx, pipeline.Request{Data: data, Category: category})
}

// UploadStream drains r (bounded at MaxStreamBytes) and uploads the content
// under the category's preset.  Intended for HTTP multipart handlers, which
// hand over the file as a stream of unknown size.
func (s *Service) UploadStream(ctx context.Context, r io.Reader, category string) (*core.UploadResult, error) {
	buf, err := utils.DrainReader(ctx, &utils.LimitedReader{R: r, Max: MaxStreamBytes}, 0)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryInput, "upload.stream", err)
	}
	data := utils.CloneBytes(buf.Bytes())
	utils.ReleaseBuffer(buf)
	return s.Upload(ctx, data, category)
}

// UploadWith is Upload with full control over overrides and destination.
func (s *Service) UploadWith(ctx context.Context, req pipeline.Request) (*core.UploadResult, error) {
	return s.pipeline.Run(ctx, req)
}

// BatchFiles converts and uploads the given files one at a time.  Per-item
// failures are reported in the result, not as an error.
func (s *Service) BatchFiles(ctx context.Context, paths []string, opts pipeline.BatchOptions) (*pipeline.BatchResult, error) {
	return s.pipeline.RunBatch(ctx, paths, opts)
}

// BatchDir runs BatchFiles over every image file directly inside dir.
func (s *Service) BatchDir(ctx context.Context, dir string, opts pipeline.BatchOptions) (*pipeline.BatchResult, error) {
	return s.pipeline.RunDir(ctx, dir, opts)
}
