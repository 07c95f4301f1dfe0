// Package encoder provides format-specific image encoders.
package encoder

import (
	"context"
	"image"

	"github.com/savishkar/mediakit/core"
	apperrors "github.com/savishkar/mediakit/errors"
)

// pixels extracts the stdlib image.Image from a DecodedImage.
func pixels(op string, img *core.DecodedImage) (image.Image, error) {
	if img == nil {
		return nil, apperrors.New(apperrors.CategoryConvert, op, apperrors.ErrEmptyInput)
	}
	src, ok := img.Pixels.(image.Image)
	if !ok || src == nil {
		return nil, apperrors.New(apperrors.CategoryConvert, op, apperrors.ErrEmptyInput)
	}
	return src, nil
}

func checkCtx(ctx context.Context, op string) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Wrap(apperrors.CategoryConvert, op, err)
	}
	return nil
}
