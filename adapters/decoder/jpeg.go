package decoder

import (
	"context"
	"image/jpeg"
	"io"

	"github.com/savishkar/mediakit/core"
)

// JPEG decodes JPEG images using the standard library.
type JPEG struct{}

// NewJPEG returns an initialised JPEG decoder.
func NewJPEG() *JPEG { return &JPEG{} }

func (j *JPEG) CanDecode(format core.Format) bool {
	return format == core.FormatJPEG
}

func (j *JPEG) Decode(ctx context.Context, r io.Reader) (*core.DecodedImage, error) {
	if err := checkCtx(ctx, "jpeg.decode"); err != nil {
		return nil, err
	}
	img, err := jpeg.Decode(r)
	if err != nil {
		return nil, corrupt("jpeg.decode", err)
	}
	return wrap(img, core.FormatJPEG), nil
}
