// Package utils holds small helpers shared across the module.
package utils

import (
	"bytes"
	"net/http"
	"path/filepath"
	"strings"
)

const (
	formatJPEG    = "jpeg"
	formatPNG     = "png"
	formatGIF     = "gif"
	formatBMP     = "bmp"
	formatTIFF    = "tiff"
	formatWebP    = "webp"
	formatUnknown = "unknown"
)

// DetectFormat sniffs the leading bytes of data and returns the image format.
func DetectFormat(data []byte) string {
	if len(data) < 4 {
		return formatUnknown
	}
	// JPEG: FF D8 FF
	if data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF {
		return formatJPEG
	}
	// PNG: 89 50 4E 47
	if data[0] == 0x89 && data[1] == 0x50 && data[2] == 0x4E && data[3] == 0x47 {
		return formatPNG
	}
	// GIF: GIF87a / GIF89a
	if len(data) >= 6 && data[0] == 'G' && data[1] == 'I' && data[2] == 'F' && data[3] == '8' {
		return formatGIF
	}
	// BMP: BM
	if data[0] == 'B' && data[1] == 'M' {
		return formatBMP
	}
	// TIFF: II*\0 (little endian) or MM\0* (big endian)
	if (data[0] == 'I' && data[1] == 'I' && data[2] == 0x2A && data[3] == 0x00) ||
		(data[0] == 'M' && data[1] == 'M' && data[2] == 0x00 && data[3] == 0x2A) {
		return formatTIFF
	}
	// WebP: RIFF....WEBP
	if len(data) >= 12 &&
		data[0] == 'R' && data[1] == 'I' && data[2] == 'F' && data[3] == 'F' &&
		data[8] == 'W' && data[9] == 'E' && data[10] == 'B' && data[11] == 'P' {
		return formatWebP
	}
	// Fallback to net/http sniffing.
	switch http.DetectContentType(data) {
	case "image/jpeg":
		return formatJPEG
	case "image/png":
		return formatPNG
	case "image/gif":
		return formatGIF
	case "image/bmp":
		return formatBMP
	case "image/webp":
		return formatWebP
	}
	return formatUnknown
}

// rasterExtensions is the fixed allow-list the batch runner filters on.
var rasterExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".webp": true,
}

// IsRasterFile reports whether path carries an extension from the raster
// allow-list.  The batch runner skips everything else.
func IsRasterFile(path string) bool {
	return rasterExtensions[strings.ToLower(filepath.Ext(path))]
}

// BaseName returns the file name without its directory or extension, used to
// derive storage public IDs from input paths.
func BaseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// CloneBytes returns a copy of b (safe for use after the source buffer is released).
func CloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// BytesReader creates an io.Reader backed by b without allocation.
func BytesReader(b []byte) *bytes.Reader {
	return bytes.NewReader(b)
}
