package nodes

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/kikiluvv/reelgraph/internal/clip"
	"github.com/kikiluvv/reelgraph/internal/ffmpeg"
	"github.com/kikiluvv/reelgraph/internal/mediaerr"
	"github.com/kikiluvv/reelgraph/pkg/util"
)

// LoadVideo decodes a container file into a VIDEO.
type LoadVideo struct{}

func (LoadVideo) Describe() Descriptor {
	return Descriptor{
		Name:        "LoadVideo",
		DisplayName: "Load Video",
		Category:    "video/load",
		Description: "Load a video file from the input directory or an absolute path.",
		Inputs: []ParamSpec{
			stringInput("video_path", ""),
			boolInput("audio", true),
			optional(withTooltip(floatInput("force_rate", 0, 0, 120, 0.1), "Resample to this frame rate; 0 keeps the source rate.")),
			optional(withTooltip(floatInput("start_time", 0, 0, 100000, 0.1), "Seconds to skip before the first decoded frame.")),
			optional(withTooltip(floatInput("duration", 0, 0, 100000, 0.1), "Seconds to decode; 0 reads to the end.")),
		},
		Outputs: []Output{{Name: "video", Type: TypeVideo}},
	}
}

func (n LoadVideo) Execute(ctx context.Context, env *Env, in Inputs) ([]any, error) {
	path, err := n.locate(env, in)
	if err != nil {
		return nil, err
	}
	if err := checkVideoMIME(path); err != nil {
		return nil, err
	}

	info, err := env.Media.ProbeVideo(ctx, path)
	if err != nil {
		if errors.Is(err, ffmpeg.ErrNoVideoStream) {
			return nil, fmt.Errorf("%s: %w", path, mediaerr.ErrUnsupportedMedia)
		}
		return nil, fmt.Errorf("failed to probe %s: %w", path, err)
	}

	rate := in.Float("force_rate")
	start := clip.Seconds(in.Float("start_time"))
	if info.Duration > 0 && start >= info.Duration {
		return nil, mediaerr.Incompatible("start_time %v is past the end of %s (%v)", start, path, info.Duration)
	}
	imgs, err := env.Media.DecodeFrames(ctx, path, info, ffmpeg.DecodeOptions{
		FPS:      rate,
		Start:    start,
		Duration: clip.Seconds(in.Float("duration")),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load video: %w", err)
	}

	fps := rate
	if fps <= 0 {
		fps = info.FPS
	}
	if fps <= 0 {
		fps = env.config().Encoding.FPS
	}

	c, err := clip.New(imgs, fps, 3)
	if err != nil {
		return nil, fmt.Errorf("failed to load video: %w", err)
	}

	if in.Bool("audio") && info.HasAudio {
		c = c.WithAudio(clip.AudioTrack{Source: path, Offset: start, Duration: c.Duration()})
	}

	env.Logger.Info().
		Str("path", path).
		Int("frames", c.Len()).
		Float64("fps", c.FPS()).
		Bool("audio", c.Audio() != nil).
		Msg("video loaded")

	return []any{c}, nil
}

// Fingerprint hashes the referenced file so hosts can detect edits.
func (n LoadVideo) Fingerprint(env *Env, in Inputs) (string, error) {
	path, err := n.locate(env, in)
	if err != nil {
		return "", err
	}
	return util.FileHash(path)
}

// locate resolves video_path to an absolute path of an existing file.
func (LoadVideo) locate(env *Env, in Inputs) (string, error) {
	raw := util.StripPath(in.String("video_path"))
	if raw == "" {
		return "", &mediaerr.ParamError{Node: "LoadVideo", Param: "video_path", Reason: "must not be empty"}
	}

	candidates := []string{util.ResolvePath(env.config().InputDir, raw)}
	if !filepath.IsAbs(raw) {
		candidates = append(candidates, raw)
	}
	for _, p := range candidates {
		if util.FileExists(p) {
			abs, err := filepath.Abs(p)
			if err != nil {
				return p, nil
			}
			return abs, nil
		}
	}
	return "", &mediaerr.FileNotFoundError{Path: raw}
}

// checkVideoMIME rejects files whose content sniffs as a known non-video
// type. Unrecognized binary data is left for the backend to judge.
func checkVideoMIME(path string) error {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &mediaerr.FileNotFoundError{Path: path, Err: err}
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	for m := mt; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "video/") {
			return nil
		}
	}
	if mt.Is("application/octet-stream") {
		return nil
	}
	return fmt.Errorf("%s is %s: %w", path, mt.String(), mediaerr.ErrUnsupportedMedia)
}

// SaveVideo encodes a VIDEO to a container file.
type SaveVideo struct{}

func (SaveVideo) Describe() Descriptor {
	return Descriptor{
		Name:        "SaveVideo",
		DisplayName: "Save Video",
		Category:    "video/save",
		Description: "Encode a video to a file, creating parent directories as needed.",
		Inputs: []ParamSpec{
			videoInput("video"),
			withTooltip(stringInput("filename", "output.mp4"), "Relative paths are placed under the output directory."),
			withTooltip(optionalChoice("codec", "libx264", "libx265", "mpeg4"), "Unset uses the configured codec."),
			withTooltip(optional(stringInput("bitrate", "")), "Empty uses the configured bitrate."),
			optionalChoice("audio_codec", "aac", "mp3", "libvorbis"),
			optionalChoice("preset", "ultrafast", "fast", "medium", "slow"),
		},
		Outputs:    []Output{{Name: "file_path", Type: TypeString}},
		OutputNode: true,
	}
}

func (SaveVideo) Execute(ctx context.Context, env *Env, in Inputs) ([]any, error) {
	cfg := env.config()
	c := in.Video("video")

	name := strings.TrimSpace(in.String("filename"))
	if name == "" {
		return nil, &mediaerr.ParamError{Node: "SaveVideo", Param: "filename", Reason: "must not be empty"}
	}
	output, err := filepath.Abs(util.ResolvePath(cfg.OutputDir, name))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", name, err)
	}

	if err := util.EnsureParentDir(output); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	opts := ffmpeg.EncodeOptions{
		Output:     output,
		FPS:        c.FPS(),
		VideoCodec: in.StringOr("codec", cfg.Encoding.VideoCodec),
		Bitrate:    in.StringOr("bitrate", cfg.Encoding.Bitrate),
		CRF:        cfg.Encoding.CRF,
		Preset:     in.StringOr("preset", cfg.Encoding.Preset),
		AudioCodec: in.StringOr("audio_codec", cfg.Encoding.AudioCodec),
		ProgressFunc: func(p *ffmpeg.Progress) {
			env.Logger.Debug().
				Str("output", output).
				Int("frame", p.Frame).
				Float64("percent", p.Percentage).
				Str("speed", p.Speed).
				Msg("encode progress")
			if env.OnProgress != nil {
				env.OnProgress(output, p)
			}
		},
	}
	for _, seg := range c.Audio() {
		opts.Audio = append(opts.Audio, ffmpeg.AudioSource{
			Path:     seg.Source,
			Offset:   seg.Offset,
			Duration: seg.Duration,
			Overlap:  seg.Overlap,
		})
	}

	if err := env.Media.EncodeFrames(ctx, c.Frames(), opts); err != nil {
		_ = os.Remove(output)
		return nil, &mediaerr.EncodingError{Output: output, Err: err}
	}

	env.Logger.Info().Str("output", output).Int("frames", c.Len()).Msg("video saved")
	return []any{output}, nil
}
