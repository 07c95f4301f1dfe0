package decoder

import (
	"context"
	"image/gif"
	"io"

	"github.com/savishkar/mediakit/core"
)

// GIF decodes GIF images using the standard library.  Animated GIFs collapse
// to their first frame; the pipeline produces still images only.
type GIF struct{}

// NewGIF returns an initialised GIF decoder.
func NewGIF() *GIF { return &GIF{} }

func (g *GIF) CanDecode(format core.Format) bool {
	return format == core.FormatGIF
}

func (g *GIF) Decode(ctx context.Context, r io.Reader) (*core.DecodedImage, error) {
	if err := checkCtx(ctx, "gif.decode"); err != nil {
		return nil, err
	}
	img, err := gif.Decode(r)
	if err != nil {
		return nil, corrupt("gif.decode", err)
	}
	return wrap(img, core.FormatGIF), nil
}
