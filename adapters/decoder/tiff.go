package decoder

import (
	"context"
	"io"

	"golang.org/x/image/tiff"

	"github.com/savishkar/mediakit/core"
)

// TIFF decodes TIFF images using golang.org/x/image/tiff.
type TIFF struct{}

// NewTIFF returns an initialised TIFF decoder.
func NewTIFF() *TIFF { return &TIFF{} }

func (t *TIFF) CanDecode(format core.Format) bool {
	return format == core.FormatTIFF
}

func (t *TIFF) Decode(ctx context.Context, r io.Reader) (*core.DecodedImage, error) {
	if err := checkCtx(ctx, "tiff.decode"); err != nil {
		return nil, err
	}
	img, err := tiff.Decode(r)
	if err != nil {
		return nil, corrupt("tiff.decode", err)
	}
	return wrap(img, core.FormatTIFF), nil
}
