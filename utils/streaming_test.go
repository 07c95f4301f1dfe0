package utils_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/savishkar/mediakit/utils"
)

func TestLimitedReader_ExactlyMaxBytesReadsClean(t *testing.T) {
	src := bytes.Repeat([]byte{0xAB}, 64)
	lr := &utils.LimitedReader{R: bytes.NewReader(src), Max: 64}

	got, err := io.ReadAll(lr)
	if err != nil {
		t.Fatalf("source of exactly Max bytes must not error: %v", err)
	}
	if !bytes.Equal(got, src) {
		t.Errorf("got %d bytes, want %d", len(got), len(src))
	}
}

func TestLimitedReader_OneBytePastMaxOverflows(t *testing.T) {
	src := bytes.Repeat([]byte{0xAB}, 65)
	lr := &utils.LimitedReader{R: bytes.NewReader(src), Max: 64}

	_, err := io.ReadAll(lr)
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("got %v, want io.ErrUnexpectedEOF", err)
	}
}

func TestLimitedReader_NoCapPassesThrough(t *testing.T) {
	src := bytes.Repeat([]byte{0x01}, 128)
	lr := &utils.LimitedReader{R: bytes.NewReader(src)}

	got, err := io.ReadAll(lr)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != len(src) {
		t.Errorf("got %d bytes, want %d", len(got), len(src))
	}
}

func TestDrainReader_BoundedSource(t *testing.T) {
	src := bytes.Repeat([]byte{0x7F}, 100)
	lr := &utils.LimitedReader{R: bytes.NewReader(src), Max: 100}

	buf, err := utils.DrainReader(context.Background(), lr, 16)
	if err != nil {
		t.Fatalf("drain: %v", err)
	}
	defer utils.ReleaseBuffer(buf)
	if buf.Len() != 100 {
		t.Errorf("got %d bytes, want 100", buf.Len())
	}
}
