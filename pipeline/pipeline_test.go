package pipeline_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"strings"
	"testing"
	"time"

	_ "golang.org/x/image/webp"

	"github.com/savishkar/mediakit/adapters/decoder"
	"github.com/savishkar/mediakit/adapters/encoder"
	"github.com/savishkar/mediakit/core"
	apperrors "github.com/savishkar/mediakit/errors"
	"github.com/savishkar/mediakit/pipeline"
	"github.com/savishkar/mediakit/profile"
	"github.com/savishkar/mediakit/transcode"
	"github.com/savishkar/mediakit/upload"
)

// captureSink records every put and succeeds unless failWith is set.
type captureSink struct {
	puts     []core.PutOptions
	failWith error
}

func (s *captureSink) PutObject(_ context.Context, data []byte, opts core.PutOptions) (*core.ObjectInfo, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	s.puts = append(s.puts, opts)
	cfg, _, _ := image.DecodeConfig(bytes.NewReader(data))
	return &core.ObjectInfo{
		SecureURL: "https://cdn.example.com/" + opts.Folder + "/" + opts.PublicID,
		PublicID:  opts.Folder + "/" + opts.PublicID,
		Bytes:     int64(len(data)),
		Width:     cfg.Width,
		Height:    cfg.Height,
		Format:    opts.Format,
	}, nil
}

func (s *captureSink) DeleteObject(context.Context, string) error { return nil }

func newPipeline(t *testing.T, sink core.Sink) *pipeline.Pipeline {
	t.Helper()
	reg := core.NewRegistry()
	reg.RegisterDecoder(core.FormatJPEG, decoder.NewJPEG())
	reg.RegisterDecoder(core.FormatPNG, decoder.NewPNG())
	reg.RegisterEncoder(core.FormatWebP, encoder.NewWebP(80))

	u := upload.New(sink, upload.Options{
		AttemptTimeout: time.Second,
		MaxAttempts:    2,
		BaseDelay:      time.Millisecond,
	}, nil)
	return pipeline.New(transcode.New(reg, nil), u, nil)
}

func newJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 50, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("encode test jpeg: %v", err)
	}
	return buf.Bytes()
}

func TestRun_DefaultsDestinationFromCategory(t *testing.T) {
	sink := &captureSink{}
	p := newPipeline(t, sink)

	res, err := p.Run(context.Background(), pipeline.Request{
		Data:     newJPEG(t, 800, 600),
		Category: profile.CategoryAvatar,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(sink.puts) != 1 {
		t.Fatalf("puts: got %d, want 1", len(sink.puts))
	}
	put := sink.puts[0]
	if put.Folder != "avatars" {
		t.Errorf("folder: got %q, want avatars", put.Folder)
	}
	if !strings.HasPrefix(put.PublicID, "avatar-") {
		t.Errorf("public id: got %q, want avatar- prefix", put.PublicID)
	}
	if put.Format != core.FormatWebP {
		t.Errorf("format: got %s, want webp", put.Format)
	}
	if res.URL == "" || res.StorageKey == "" {
		t.Errorf("result incomplete: %+v", res)
	}
}

func TestRun_ExplicitDestinationWins(t *testing.T) {
	sink := &captureSink{}
	p := newPipeline(t, sink)

	_, err := p.Run(context.Background(), pipeline.Request{
		Data:     newJPEG(t, 100, 100),
		Category: profile.CategoryEvent,
		Folder:   "custom",
		PublicID: "poster-v2",
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	put := sink.puts[0]
	if put.Folder != "custom" || put.PublicID != "poster-v2" {
		t.Errorf("destination: got %+v", put)
	}
}

func TestRun_OverridesBeatPreset(t *testing.T) {
	sink := &captureSink{}
	p := newPipeline(t, sink)

	w, h := 200, 200
	fit := profile.FitCover
	res, err := p.Run(context.Background(), pipeline.Request{
		Data:      newJPEG(t, 800, 600),
		Category:  profile.CategoryEvent,
		Overrides: profile.Overrides{Width: &w, Height: &h, Fit: &fit},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Width != 200 || res.Height != 200 {
		t.Errorf("dimensions: got %dx%d, want 200x200", res.Width, res.Height)
	}
}

func TestRun_TranscodeFailureSkipsSink(t *testing.T) {
	sink := &captureSink{}
	p := newPipeline(t, sink)

	_, err := p.Run(context.Background(), pipeline.Request{
		Data:     []byte("not an image"),
		Category: profile.CategoryGeneral,
	})
	var se *pipeline.StageError
	if !errors.As(err, &se) {
		t.Fatalf("got %T, want StageError", err)
	}
	if se.Stage != core.StageTranscode {
		t.Errorf("stage: got %s, want transcode", se.Stage)
	}
	if len(sink.puts) != 0 {
		t.Error("no bytes may reach the sink when transcoding fails")
	}
}

func TestRun_UploadFailureTagged(t *testing.T) {
	sink := &captureSink{failWith: apperrors.Fatal("put", errors.New("denied"))}
	p := newPipeline(t, sink)

	_, err := p.Run(context.Background(), pipeline.Request{
		Data:     newJPEG(t, 100, 100),
		Category: profile.CategoryGeneral,
	})
	var se *pipeline.StageError
	if !errors.As(err, &se) {
		t.Fatalf("got %T, want StageError", err)
	}
	if se.Stage != core.StageUpload {
		t.Errorf("stage: got %s, want upload", se.Stage)
	}
}

func TestRun_EmptyInput(t *testing.T) {
	p := newPipeline(t, &captureSink{})
	_, err := p.Run(context.Background(), pipeline.Request{Category: profile.CategoryGeneral})
	if !errors.Is(err, apperrors.ErrEmptyInput) {
		t.Fatalf("got %v, want ErrEmptyInput", err)
	}
}

// stageRecorder collects the order of observed stages.
type stageRecorder struct {
	before []string
	after  []string
}

func (r *stageRecorder) BeforeStage(_ context.Context, stage string) {
	r.before = append(r.before, stage)
}

func (r *stageRecorder) AfterStage(_ context.Context, stage string, _ core.StageResult, _ error) {
	r.after = append(r.after, stage)
}

func TestRun_HooksSeeEveryStage(t *testing.T) {
	p := newPipeline(t, &captureSink{})
	rec := &stageRecorder{}
	p.AddHook(rec)

	if _, err := p.Run(context.Background(), pipeline.Request{
		Data:     newJPEG(t, 100, 100),
		Category: profile.CategoryGeneral,
	}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []string{core.StageResolve, core.StageTranscode, core.StageUpload}
	if len(rec.before) != len(want) || len(rec.after) != len(want) {
		t.Fatalf("hook calls: before=%v after=%v", rec.before, rec.after)
	}
	for i, stage := range want {
		if rec.before[i] != stage || rec.after[i] != stage {
			t.Errorf("stage %d: before=%s after=%s, want %s", i, rec.before[i], rec.after[i], stage)
		}
	}
}
