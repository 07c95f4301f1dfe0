package decoder

import (
	"context"
	"io"

	"golang.org/x/image/bmp"

	"github.com/savishkar/mediakit/core"
)

// BMP decodes BMP images using golang.org/x/image/bmp.
type BMP struct{}

// NewBMP returns an initialised BMP decoder.
func NewBMP() *BMP { return &BMP{} }

func (b *BMP) CanDecode(format core.Format) bool {
	return format == core.FormatBMP
}

func (b *BMP) Decode(ctx context.Context, r io.Reader) (*core.DecodedImage, error) {
	if err := checkCtx(ctx, "bmp.decode"); err != nil {
		return nil, err
	}
	img, err := bmp.Decode(r)
	if err != nil {
		return nil, corrupt("bmp.decode", err)
	}
	return wrap(img, core.FormatBMP), nil
}
