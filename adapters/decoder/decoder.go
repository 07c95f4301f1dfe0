// Package decoder provides format-specific image decoders.
package decoder

import (
	"context"
	"fmt"
	"image"

	"github.com/savishkar/mediakit/core"
	apperrors "github.com/savishkar/mediakit/errors"
)

// corrupt tags a mid-stream decode failure as corrupt input.
func corrupt(op string, err error) error {
	return apperrors.New(apperrors.CategoryConvert, op,
		fmt.Errorf("%w: %v", apperrors.ErrCorruptInput, err))
}

// wrap builds a DecodedImage from a stdlib image.Image.
func wrap(img image.Image, format core.Format) *core.DecodedImage {
	b := img.Bounds()
	return &core.DecodedImage{
		Pixels: img,
		Format: format,
		Width:  b.Dx(),
		Height: b.Dy(),
	}
}

// checkCtx returns the context error wrapped for the given op, or nil.
func checkCtx(ctx context.Context, op string) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Wrap(apperrors.CategoryConvert, op, err)
	}
	return nil
}
