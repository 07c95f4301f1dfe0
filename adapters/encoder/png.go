package encoder

import (
	"bytes"
	"context"
	"image/png"

	"github.com/savishkar/mediakit/core"
	apperrors "github.com/savishkar/mediakit/errors"
)

// PNG encodes images to PNG format.  PNG is always lossless; compression is
// pinned at the encoder's best level, trading encode time for smaller output.
type PNG struct{}

// NewPNG returns an initialised PNG encoder.
func NewPNG() *PNG { return &PNG{} }

func (p *PNG) CanEncode(format core.Format) bool {
	return format == core.FormatPNG
}

func (p *PNG) Encode(ctx context.Context, img *core.DecodedImage, _ core.EncodeOptions) ([]byte, error) {
	if err := checkCtx(ctx, "png.encode"); err != nil {
		return nil, err
	}
	src, err := pixels("png.encode", img)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, src); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryConvert, "png.encode", err)
	}
	return buf.Bytes(), nil
}
