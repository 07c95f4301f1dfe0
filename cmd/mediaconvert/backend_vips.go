//go:build vips

package main

import (
	"github.com/savishkar/mediakit/adapters/vips"
	"github.com/savishkar/mediakit/config"
	"github.com/savishkar/mediakit/core"
	"github.com/savishkar/mediakit/pipeline"
)

// newBackend starts libvips and returns its transcoder.  The returned
// shutdown func must run before process exit.
func newBackend(cfg *config.Config, logger core.Logger) (pipeline.Transcoder, func(), error) {
	b := vips.NewBackend(vips.BackendConfig{DefaultQuality: cfg.DefaultQuality}, logger)
	return b, b.Shutdown, nil
}
