// Package sink provides Sink implementations for durably persisting
// transcoded images.  The MinIO sink works with any S3-compatible provider;
// the local sink writes to disk for offline and test use.
package sink

import (
	"bytes"
	"fmt"
	"image"
	"time"

	// Register DecodeConfig support for every format a sink may store.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/google/uuid"

	"github.com/savishkar/mediakit/core"
)

// ObjectKey builds a unique public ID for a category, e.g.
// "avatar-1714066800123-1b9d6bcd".
func ObjectKey(category string) string {
	return fmt.Sprintf("%s-%d-%s", category, time.Now().UnixMilli(), uuid.NewString()[:8])
}

// dimensions reads the pixel size from encoded image bytes without a full
// decode.  Returns zeros when the header cannot be parsed.
func dimensions(data []byte) (int, int) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0
	}
	return cfg.Width, cfg.Height
}

// objectName joins folder, public ID, and format into the stored key.
func objectName(opts core.PutOptions) (string, core.Format) {
	format := opts.Format
	if format == "" {
		format = core.FormatWebP
	}
	name := opts.PublicID + "." + string(format)
	if opts.Folder != "" {
		name = opts.Folder + "/" + name
	}
	return name, format
}

func contentType(format core.Format) string {
	return "image/" + string(format)
}
