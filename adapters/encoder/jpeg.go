package encoder

import (
	"bytes"
	"context"
	"image/jpeg"

	"github.com/savishkar/mediakit/core"
	apperrors "github.com/savishkar/mediakit/errors"
)

// JPEG encodes images to JPEG format.
type JPEG struct {
	DefaultQuality int // used when EncodeOptions.Quality == 0
}

// NewJPEG returns a JPEG encoder with the given default quality.
func NewJPEG(defaultQuality int) *JPEG {
	if defaultQuality <= 0 {
		defaultQuality = 80
	}
	return &JPEG{DefaultQuality: defaultQuality}
}

func (j *JPEG) CanEncode(format core.Format) bool {
	return format == core.FormatJPEG
}

func (j *JPEG) Encode(ctx context.Context, img *core.DecodedImage, opts core.EncodeOptions) ([]byte, error) {
	if err := checkCtx(ctx, "jpeg.encode"); err != nil {
		return nil, err
	}
	src, err := pixels("jpeg.encode", img)
	if err != nil {
		return nil, err
	}

	quality := opts.Quality
	if quality <= 0 {
		quality = j.DefaultQuality
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: quality}); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryConvert, "jpeg.encode", err)
	}
	return buf.Bytes(), nil
}
