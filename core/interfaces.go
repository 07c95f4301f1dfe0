package core

import (
	"context"
	"io"
)

// Decoder converts raw bytes into a decoded pixel buffer plus dimensions.
// Implementations live in adapters/decoder/.
type Decoder interface {
	// Decode reads from r and returns the decoded image.
	Decode(ctx context.Context, r io.Reader) (*DecodedImage, error)
	// CanDecode reports whether this decoder handles the given format.
	CanDecode(format Format) bool
}

// DecodedImage carries the pixel buffer between decode and encode.
// Pixels holds an image.Image; declared as interface{} so CGO-backed
// adapters can satisfy Decoder with their own pixel types.
type DecodedImage struct {
	Pixels interface{}
	Format Format
	Width  int
	Height int
}

// Encoder serialises a decoded image to bytes in a target format.
// Implementations live in adapters/encoder/.
type Encoder interface {
	Encode(ctx context.Context, img *DecodedImage, opts EncodeOptions) ([]byte, error)
	CanEncode(format Format) bool
}

// EncodeOptions carries format-specific encoding parameters.  Encoder effort
// is pinned at each codec's maximum and is deliberately not configurable here.
type EncodeOptions struct {
	Quality  int  // 1-100; 0 = encoder default
	Lossless bool // WebP lossless mode
}

// Sink durably persists bytes and returns a locator.  Any conforming
// implementation (local disk, object store, CDN-backed store) is
// interchangeable without touching the upload orchestrator.
type Sink interface {
	PutObject(ctx context.Context, data []byte, opts PutOptions) (*ObjectInfo, error)
	DeleteObject(ctx context.Context, publicID string) error
}

// Logger is a minimal structured logging interface.
type Logger interface {
	Debug(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
}

// Hook is an optional observer invoked around pipeline stages.
type Hook interface {
	BeforeStage(ctx context.Context, stage string)
	AfterStage(ctx context.Context, stage string, res StageResult, err error)
}

// Registry maps Format values to Decoder/Encoder implementations.
type Registry interface {
	DecoderFor(format Format) (Decoder, bool)
	EncoderFor(format Format) (Encoder, bool)
	RegisterDecoder(format Format, d Decoder)
	RegisterEncoder(format Format, e Encoder)
}
