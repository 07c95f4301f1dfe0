package encoder

import (
	"bytes"
	"context"

	"github.com/chai2010/webp"

	"github.com/savishkar/mediakit/core"
	apperrors "github.com/savishkar/mediakit/errors"
)

// WebP encodes images to WebP using github.com/chai2010/webp.
// Exact mode is always on so fully transparent pixels keep their colour
// values; QR codes depend on pixel-exact edges surviving the round trip.
type WebP struct {
	DefaultQuality int
}

// NewWebP returns a WebP encoder with the given default quality.
func NewWebP(defaultQuality int) *WebP {
	if defaultQuality <= 0 {
		defaultQuality = 80
	}
	return &WebP{DefaultQuality: defaultQuality}
}

func (w *WebP) CanEncode(format core.Format) bool { return format == core.FormatWebP }

func (w *WebP) Encode(ctx context.Context, img *core.DecodedImage, opts core.EncodeOptions) ([]byte, error) {
	if err := checkCtx(ctx, "webp.encode"); err != nil {
		return nil, err
	}
	src, err := pixels("webp.encode", img)
	if err != nil {
		return nil, err
	}

	quality := opts.Quality
	if quality <= 0 {
		quality = w.DefaultQuality
	}

	var buf bytes.Buffer
	err = webp.Encode(&buf, src, &webp.Options{
		Lossless: opts.Lossless,
		Quality:  float32(quality),
		Exact:    true,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryConvert, "webp.encode", err)
	}
	return buf.Bytes(), nil
}
