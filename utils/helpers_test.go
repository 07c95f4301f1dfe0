package utils_test

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/savishkar/mediakit/utils"
)

func TestDetectFormat(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		want string
	}{
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10}, "jpeg"},
		{"png", []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, "png"},
		{"gif87a", []byte("GIF87a trailing"), "gif"},
		{"gif89a", []byte("GIF89a trailing"), "gif"},
		{"bmp", []byte{'B', 'M', 0x36, 0x00}, "bmp"},
		{"tiff little endian", []byte{'I', 'I', 0x2A, 0x00}, "tiff"},
		{"tiff big endian", []byte{'M', 'M', 0x00, 0x2A}, "tiff"},
		{"webp", []byte("RIFF\x24\x00\x00\x00WEBPVP8 "), "webp"},
		{"text", []byte("hello, world"), "unknown"},
		{"too short", []byte{0xFF}, "unknown"},
		{"empty", nil, "unknown"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := utils.DetectFormat(tc.data); got != tc.want {
				t.Errorf("got %s, want %s", got, tc.want)
			}
		})
	}
}

func TestDetectFormat_RealPNG(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got := utils.DetectFormat(buf.Bytes()); got != "png" {
		t.Errorf("got %s, want png", got)
	}
}

func TestIsRasterFile(t *testing.T) {
	for _, path := range []string{"a.jpg", "b.JPEG", "dir/c.png", "d.webp", "e.tif", "f.TIFF", "g.gif", "h.bmp"} {
		if !utils.IsRasterFile(path) {
			t.Errorf("%s should be accepted", path)
		}
	}
	for _, path := range []string{"a.txt", "b.pdf", "c", "d.svg", ".jpg.bak"} {
		if utils.IsRasterFile(path) {
			t.Errorf("%s should be rejected", path)
		}
	}
}

func TestBaseName(t *testing.T) {
	cases := map[string]string{
		"photo.jpg":           "photo",
		"/tmp/dir/shot.webp":  "shot",
		"noext":               "noext",
		"archive.tar.gz":      "archive.tar",
		"dir.with.dots/x.png": "x",
	}
	for in, want := range cases {
		if got := utils.BaseName(in); got != want {
			t.Errorf("BaseName(%q): got %q, want %q", in, got, want)
		}
	}
}

func TestCloneBytes(t *testing.T) {
	src := []byte{1, 2, 3}
	dst := utils.CloneBytes(src)
	src[0] = 9
	if dst[0] != 1 {
		t.Error("clone shares backing array with source")
	}
}
