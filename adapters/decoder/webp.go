package decoder

import (
	"context"
	"io"

	"golang.org/x/image/webp"

	"github.com/savishkar/mediakit/core"
)

// WebP decodes WebP images using golang.org/x/image/webp.
// Lossy and lossless stills are supported; animated WebP is not.
type WebP struct{}

// NewWebP returns an initialised WebP decoder.
func NewWebP() *WebP { return &WebP{} }

func (w *WebP) CanDecode(format core.Format) bool {
	return format == core.FormatWebP
}

func (w *WebP) Decode(ctx context.Context, r io.Reader) (*core.DecodedImage, error) {
	if err := checkCtx(ctx, "webp.decode"); err != nil {
		return nil, err
	}
	img, err := webp.Decode(r)
	if err != nil {
		return nil, corrupt("webp.decode", err)
	}
	return wrap(img, core.FormatWebP), nil
}
