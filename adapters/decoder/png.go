package decoder

import (
	"context"
	"image/png"
	"io"

	"github.com/savishkar/mediakit/core"
)

// PNG decodes PNG images using the standard library.
type PNG struct{}

// NewPNG returns an initialised PNG decoder.
func NewPNG() *PNG { return &PNG{} }

func (p *PNG) CanDecode(format core.Format) bool {
	return format == core.FormatPNG
}

func (p *PNG) Decode(ctx context.Context, r io.Reader) (*core.DecodedImage, error) {
	if err := checkCtx(ctx, "png.decode"); err != nil {
		return nil, err
	}
	img, err := png.Decode(r)
	if err != nil {
		return nil, corrupt("png.decode", err)
	}
	return wrap(img, core.FormatPNG), nil
}
