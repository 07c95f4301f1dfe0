//go:build !vips

package main

import (
	"github.com/savishkar/mediakit/config"
	"github.com/savishkar/mediakit/core"
	"github.com/savishkar/mediakit/pipeline"
)

// newBackend returns the pure-Go transcoder.  Build with -tags vips for the
// libvips backend.
func newBackend(_ *config.Config, _ core.Logger) (pipeline.Transcoder, func(), error) {
	return nil, func() {}, nil
}
