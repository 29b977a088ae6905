package ffmpeg

import (
	"context"
	"fmt"
	"image"

	"github.com/kikiluvv/reelgraph/pkg/util"
)

// DecodeFrames decodes the video stream of path into RGBA frames.
// info must come from ProbeVideo on the same file.
func (e *Executor) DecodeFrames(ctx context.Context, path string, info *VideoInfo, opts DecodeOptions) ([]*image.NRGBA, error) {
	if info == nil {
		return nil, fmt.Errorf("video info is required")
	}
	width, height := info.DisplaySize()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", width, height)
	}

	e.logger.Info().
		Str("input", path).
		Int("width", width).
		Int("height", height).
		Float64("fps", opts.FPS).
		Dur("start", opts.Start).
		Dur("duration", opts.Duration).
		Msg("decoding frames")

	sink := newFrameSink(width, height)
	err := e.Run(ctx, RunOptions{
		Args:   buildDecodeArgs(path, opts),
		Stdout: sink,
		LogHandler: func(line string) {
			if !isProgressLine(line) {
				e.logger.Debug().Str("ffmpeg", line).Msg("decode")
			}
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	if sink.partial() {
		return nil, fmt.Errorf("failed to decode %s: truncated frame", path)
	}

	e.logger.Debug().Int("frames", len(sink.frames)).Msg("decode complete")
	return sink.frames, nil
}

func buildDecodeArgs(path string, opts DecodeOptions) []string {
	var args []string
	if opts.Start > 0 {
		args = append(args, "-ss", util.FormatDuration(opts.Start))
	}
	args = append(args, "-i", path)
	if opts.Duration > 0 {
		args = append(args, "-t", util.FormatDuration(opts.Duration))
	}
	args = append(args, "-map", "0:v:0", "-an", "-sn")

	args = append(args, videoFilters{}.resample(opts.FPS).args()...)

	return append(args, "-f", "rawvideo", "-pix_fmt", "rgba", "pipe:1")
}

// frameSink slices a raw RGBA byte stream into images.
type frameSink struct {
	width  int
	height int
	cur    *image.NRGBA
	n      int
	frames []*image.NRGBA
}

func newFrameSink(width, height int) *frameSink {
	return &frameSink{width: width, height: height}
}

func (s *frameSink) Write(p []byte) (int, error) {
	written := len(p)
	for len(p) > 0 {
		if s.cur == nil {
			s.cur = image.NewNRGBA(image.Rect(0, 0, s.width, s.height))
			s.n = 0
		}
		c := copy(s.cur.Pix[s.n:], p)
		s.n += c
		p = p[c:]
		if s.n == len(s.cur.Pix) {
			s.frames = append(s.frames, s.cur)
			s.cur = nil
		}
	}
	return written, nil
}

func (s *frameSink) partial() bool {
	return s.cur != nil && s.n > 0
}
