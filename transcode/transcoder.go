// Package transcode converts raw image bytes into compact WebP output under a
// conversion profile.  It performs no I/O beyond decoding and encoding and is
// safe for concurrent use.
package transcode

import (
	"context"
	"fmt"
	"image"

	"github.com/savishkar/mediakit/core"
	apperrors "github.com/savishkar/mediakit/errors"
	"github.com/savishkar/mediakit/profile"
	"github.com/savishkar/mediakit/utils"
)

// TargetFormat is the codec every profile encodes to.
const TargetFormat = core.FormatWebP

// Transcoder is a pure byte-to-byte converter with no shared mutable state.
type Transcoder struct {
	reg core.Registry
	log core.Logger
}

// New returns a Transcoder using the given codec registry.  logger may be nil.
func New(reg core.Registry, logger core.Logger) *Transcoder {
	return &Transcoder{reg: reg, log: core.OrNop(logger)}
}

// Transcode decodes data, applies the profile's resize rules, and encodes the
// result as WebP.  The returned asset is transient; callers own it.
func (t *Transcoder) Transcode(ctx context.Context, data []byte, prof profile.ConversionProfile) (*core.MediaAsset, error) {
	if len(data) == 0 {
		return nil, apperrors.New(apperrors.CategoryConvert, "transcode", apperrors.ErrEmptyInput)
	}

	srcFormat := core.Format(utils.DetectFormat(data))
	if srcFormat == core.FormatUnknown {
		return nil, apperrors.New(apperrors.CategoryConvert, "transcode.detect",
			apperrors.ErrUnsupportedFormat)
	}

	dec, ok := t.reg.DecoderFor(srcFormat)
	if !ok {
		return nil, apperrors.New(apperrors.CategoryConvert, "transcode.detect",
			fmt.Errorf("%w: %s", apperrors.ErrUnsupportedFormat, srcFormat))
	}

	decoded, err := dec.Decode(ctx, utils.BytesReader(data))
	if err != nil {
		return nil, err
	}

	src, ok := decoded.Pixels.(image.Image)
	if !ok || src == nil {
		return nil, apperrors.New(apperrors.CategoryConvert, "transcode.decode",
			apperrors.ErrCorruptInput)
	}

	t.log.Debug("transcode.start",
		"source_format", string(srcFormat),
		"width", decoded.Width,
		"height", decoded.Height,
	)

	resized := resizeFit(src, prof)
	bounds := resized.Bounds()

	enc, ok := t.reg.EncoderFor(TargetFormat)
	if !ok {
		return nil, apperrors.New(apperrors.CategoryConvert, "transcode.encode",
			fmt.Errorf("%w: %s", apperrors.ErrUnsupportedFormat, TargetFormat))
	}

	out, err := enc.Encode(ctx, &core.DecodedImage{
		Pixels: resized,
		Format: TargetFormat,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, core.EncodeOptions{Quality: prof.Quality, Lossless: prof.Lossless})
	if err != nil {
		return nil, err
	}

	asset := &core.MediaAsset{
		Data:         out,
		Format:       TargetFormat,
		Width:        bounds.Dx(),
		Height:       bounds.Dy(),
		SourceFormat: srcFormat,
		SourceBytes:  int64(len(data)),
	}

	t.log.Info("transcode.done",
		"source_format", string(srcFormat),
		"width", asset.Width,
		"height", asset.Height,
		"bytes_in", asset.SourceBytes,
		"bytes_out", len(asset.Data),
		"savings_pct", fmt.Sprintf("%.2f", asset.Ratio()*100),
	)
	return asset, nil
}
