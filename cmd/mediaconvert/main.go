// Command mediaconvert converts images to WebP and uploads them to an
// S3-compatible store.  It accepts a single file or a directory; directory
// runs are strictly sequential and report per-file outcomes.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/savishkar/mediakit"
	"github.com/savishkar/mediakit/adapters/sink"
	"github.com/savishkar/mediakit/config"
	"github.com/savishkar/mediakit/core"
	"github.com/savishkar/mediakit/hooks"
	"github.com/savishkar/mediakit/pipeline"
	"github.com/savishkar/mediakit/profile"
	"github.com/savishkar/mediakit/upload"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "mediaconvert:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		path      = flag.String("path", "", "image file to convert and upload")
		dir       = flag.String("dir", "", "directory of images to convert and upload")
		category  = flag.String("category", profile.CategoryGeneral, "upload category (avatar, event, payment, qrcode, general)")
		folder    = flag.String("folder", "", "destination folder (defaults per category)")
		quality   = flag.Int("quality", 0, "override encode quality (1-100)")
		width     = flag.Int("width", 0, "override target width")
		height    = flag.Int("height", 0, "override target height")
		fit       = flag.String("fit", "", "override fit mode (cover, contain, fill, inside, outside)")
		overwrite = flag.Bool("overwrite", false, "replace existing objects")
		local     = flag.String("local", "", "write to this directory instead of object storage")
	)
	flag.Parse()

	if (*path == "") == (*dir == "") {
		return fmt.Errorf("exactly one of -path or -dir is required")
	}

	cfg := config.Load()
	logger := newLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dst, err := newSink(ctx, cfg, *local)
	if err != nil {
		return err
	}

	backend, shutdown, err := newBackend(cfg, logger)
	if err != nil {
		return err
	}
	defer shutdown()

	svc := mediakit.New(dst, mediakit.Options{
		DefaultQuality: cfg.DefaultQuality,
		Upload: upload.Options{
			AttemptTimeout: cfg.AttemptTimeout,
			MaxAttempts:    cfg.MaxAttempts,
			BaseDelay:      cfg.RetryBaseDelay,
		},
		Logger:     logger,
		Transcoder: backend,
	})
	metrics := hooks.NewInMemoryMetrics()
	svc.AddHook(hooks.NewLoggingHook(logger))
	svc.AddHook(metrics)

	overrides := profile.Overrides{}
	if *quality > 0 {
		overrides.Quality = quality
	}
	if *width > 0 {
		overrides.Width = width
	}
	if *height > 0 {
		overrides.Height = height
	}
	if *fit != "" {
		m := profile.FitMode(*fit)
		overrides.Fit = &m
	}

	if *path != "" {
		data, err := os.ReadFile(*path)
		if err != nil {
			return err
		}
		res, err := svc.UploadWith(ctx, pipeline.Request{
			Data:      data,
			Category:  *category,
			Overrides: overrides,
			Folder:    *folder,
			Overwrite: *overwrite,
		})
		if err != nil {
			return err
		}
		fmt.Printf("%s  %dx%d  %d bytes\n", res.URL, res.Width, res.Height, res.Bytes)
		return nil
	}

	res, err := svc.BatchDir(ctx, *dir, pipeline.BatchOptions{
		Category:  *category,
		Overrides: overrides,
		Folder:    *folder,
		Overwrite: *overwrite,
	})
	if err != nil {
		return err
	}
	for _, s := range res.Successes {
		fmt.Printf("ok    %s  %s\n", s.Path, s.Result.URL)
	}
	for _, f := range res.Failures {
		fmt.Printf("fail  %s  %v\n", f.Path, f.Err)
	}
	fmt.Printf("%d succeeded, %d failed, %d bytes in, %d bytes out\n",
		len(res.Successes), len(res.Failures), res.BytesIn, res.BytesOut)
	return nil
}

func newSink(ctx context.Context, cfg *config.Config, localDir string) (core.Sink, error) {
	if localDir != "" {
		return sink.NewLocal(localDir, 0)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return sink.NewMinio(ctx, sink.MinioConfig{
		Endpoint:   cfg.SinkEndpoint,
		AccessKey:  cfg.SinkAccessKey,
		SecretKey:  cfg.SinkSecretKey,
		Bucket:     cfg.SinkBucket,
		PublicBase: cfg.SinkPublicBase,
		UseSSL:     cfg.SinkUseSSL,
	})
}

func newLogger(level string) core.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	h := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	return hooks.NewSlogLogger(slog.New(h))
}
