package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"strconv"
)

// EncodeFrames pipes RGBA frames into ffmpeg and writes opts.Output.
// All frames must share the size of the first one.
func (e *Executor) EncodeFrames(ctx context.Context, frames []*image.NRGBA, opts EncodeOptions) error {
	if len(frames) == 0 {
		return fmt.Errorf("no frames to encode")
	}
	if opts.Output == "" {
		return fmt.Errorf("output path is required")
	}
	if opts.FPS <= 0 {
		return fmt.Errorf("invalid frame rate %v", opts.FPS)
	}

	b := frames[0].Bounds()
	readers := make([]io.Reader, len(frames))
	for i, f := range frames {
		if f.Bounds().Size() != b.Size() {
			return fmt.Errorf("frame %d is %v, want %v", i, f.Bounds().Size(), b.Size())
		}
		readers[i] = bytes.NewReader(packedPix(f))
	}

	e.logger.Info().
		Str("output", opts.Output).
		Int("frames", len(frames)).
		Int("width", b.Dx()).
		Int("height", b.Dy()).
		Float64("fps", opts.FPS).
		Int("audio_segments", len(opts.Audio)).
		Msg("encoding frames")

	return e.Run(ctx, RunOptions{
		Args:            buildEncodeArgs(b.Dx(), b.Dy(), opts),
		Stdin:           io.MultiReader(readers...),
		ProgressHandler: withPercentage(opts.ProgressFunc, len(frames)),
		LogHandler: func(line string) {
			if !isProgressLine(line) {
				e.logger.Debug().Str("ffmpeg", line).Msg("encode")
			}
		},
	})
}

func buildEncodeArgs(width, height int, opts EncodeOptions) []string {
	args := []string{
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-s", fmt.Sprintf("%dx%d", width, height),
		"-r", strconv.FormatFloat(opts.FPS, 'f', -1, 64),
		"-i", "pipe:0",
	}
	audio := hasAudio(opts.Audio)
	if audio {
		for _, seg := range opts.Audio {
			args = append(args, seg.inputArgs()...)
		}
	}
	args = append(args, "-map", "0:v:0")

	args = append(args, videoFilters{}.padEven(width, height).args()...)

	codec := opts.VideoCodec
	if codec == "" {
		codec = DefaultVideoCodec
	}
	args = append(args, "-c:v", codec)

	if supportsPreset(codec) {
		preset := opts.Preset
		if preset == "" {
			preset = DefaultPreset
		}
		args = append(args, "-preset", preset)
	}

	switch {
	case opts.Bitrate != "":
		args = append(args, "-b:v", opts.Bitrate)
	case supportsPreset(codec):
		crf := opts.CRF
		if crf == 0 {
			crf = DefaultCRF
		}
		args = append(args, "-crf", strconv.Itoa(crf))
	}

	pixFmt := opts.PixelFormat
	if pixFmt == "" {
		pixFmt = DefaultPixFmt
	}
	args = append(args, "-pix_fmt", pixFmt)

	if audio {
		args = append(args, audioOutputArgs(opts.Audio, opts.AudioCodec)...)
	} else {
		args = append(args, "-an")
	}

	return append(args, opts.Output)
}

// withPercentage fills Progress.Percentage from the number of frames piped in.
func withPercentage(fn ProgressFunc, total int) func(*Progress) {
	if fn == nil || total <= 0 {
		return fn
	}
	return func(p *Progress) {
		p.Percentage = min(100, float64(p.Frame)*100/float64(total))
		fn(p)
	}
}

func supportsPreset(codec string) bool {
	return codec == "libx264" || codec == "libx265"
}

// packedPix returns the frame's pixel rows without stride padding.
func packedPix(img *image.NRGBA) []byte {
	b := img.Bounds()
	rowLen := b.Dx() * 4
	if img.Stride == rowLen && b.Min == (image.Point{}) {
		return img.Pix[:rowLen*b.Dy()]
	}
	out := make([]byte, 0, rowLen*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := img.PixOffset(b.Min.X, y)
		out = append(out, img.Pix[off:off+rowLen]...)
	}
	return out
}
