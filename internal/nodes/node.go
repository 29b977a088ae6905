// Package nodes declares the video editing nodes and the contract a host
// uses to discover, validate and execute them.
package nodes

import (
	"context"
	"image"

	"github.com/kikiluvv/reelgraph/internal/config"
	"github.com/kikiluvv/reelgraph/internal/ffmpeg"
	"github.com/rs/zerolog"
)

// Node is one operation exposed to the host.
type Node interface {
	Describe() Descriptor
	// Execute runs the node on inputs already resolved against Describe().
	// The returned slice matches Descriptor.Outputs in length and order.
	Execute(ctx context.Context, env *Env, in Inputs) ([]any, error)
}

// Fingerprinter is implemented by nodes whose output depends on external
// state, such as files on disk. Hosts re-run the node when the value changes.
type Fingerprinter interface {
	Fingerprint(env *Env, in Inputs) (string, error)
}

// MediaTool is the backend that reads and writes container files.
// *ffmpeg.Executor implements it.
type MediaTool interface {
	ProbeVideo(ctx context.Context, path string) (*ffmpeg.VideoInfo, error)
	DecodeFrames(ctx context.Context, path string, info *ffmpeg.VideoInfo, opts ffmpeg.DecodeOptions) ([]*image.NRGBA, error)
	EncodeFrames(ctx context.Context, frames []*image.NRGBA, opts ffmpeg.EncodeOptions) error
}

// Env carries the services a node may use during one call.
type Env struct {
	Logger zerolog.Logger
	Media  MediaTool
	Config *config.Config
	// OnProgress, when set, receives encoder progress for the named output.
	OnProgress func(output string, p *ffmpeg.Progress)
}

// NewEnv builds an Env, substituting defaults for a nil config.
func NewEnv(logger zerolog.Logger, media MediaTool, cfg *config.Config) *Env {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Env{Logger: logger, Media: media, Config: cfg}
}

func (e *Env) config() *config.Config {
	if e.Config == nil {
		return config.Default()
	}
	return e.Config
}
