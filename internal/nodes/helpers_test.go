package nodes

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/kikiluvv/reelgraph/internal/clip"
	"github.com/kikiluvv/reelgraph/internal/config"
	"github.com/kikiluvv/reelgraph/internal/ffmpeg"
	"github.com/kikiluvv/reelgraph/internal/frames"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// fakeMedia is an in-memory MediaTool.
type fakeMedia struct {
	info      *ffmpeg.VideoInfo
	frames    []*image.NRGBA
	probeErr  error
	decodeErr error
	encodeErr error
	progress  []ffmpeg.Progress

	probed     int
	decoded    int
	decodeOpts ffmpeg.DecodeOptions
	encoded    []ffmpeg.EncodeOptions
	encodedN   int
}

func (f *fakeMedia) ProbeVideo(_ context.Context, path string) (*ffmpeg.VideoInfo, error) {
	f.probed++
	if f.probeErr != nil {
		return nil, f.probeErr
	}
	info := *f.info
	info.FilePath = path
	return &info, nil
}

func (f *fakeMedia) DecodeFrames(_ context.Context, _ string, _ *ffmpeg.VideoInfo, opts ffmpeg.DecodeOptions) ([]*image.NRGBA, error) {
	f.decoded++
	f.decodeOpts = opts
	if f.decodeErr != nil {
		return nil, f.decodeErr
	}
	return f.frames, nil
}

func (f *fakeMedia) EncodeFrames(_ context.Context, imgs []*image.NRGBA, opts ffmpeg.EncodeOptions) error {
	f.encoded = append(f.encoded, opts)
	f.encodedN = len(imgs)
	for _, p := range f.progress {
		if opts.ProgressFunc != nil {
			opts.ProgressFunc(&p)
		}
	}
	if err := os.WriteFile(opts.Output, []byte("partial"), 0644); err != nil {
		return err
	}
	return f.encodeErr
}

func testEnv(t *testing.T, media MediaTool) *Env {
	t.Helper()
	cfg := config.Default()
	cfg.InputDir = t.TempDir()
	cfg.OutputDir = t.TempDir()
	return NewEnv(zerolog.Nop(), media, cfg)
}

// mp4Header is enough of an ISO BMFF file for content sniffing.
var mp4Header = []byte{
	0x00, 0x00, 0x00, 0x18, 'f', 't', 'y', 'p', 'i', 's', 'o', 'm',
	0x00, 0x00, 0x02, 0x00, 'i', 's', 'o', 'm', 'i', 's', 'o', '2',
}

func writeVideoFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, mp4Header, 0644))
	return path
}

func solidFrames(n, w, h int, level uint8) []*image.NRGBA {
	out := make([]*image.NRGBA, n)
	for i := range out {
		img := image.NewNRGBA(image.Rect(0, 0, w, h))
		for p := 0; p < len(img.Pix); p += 4 {
			img.Pix[p], img.Pix[p+1], img.Pix[p+2], img.Pix[p+3] = level, level, level, 255
		}
		out[i] = img
	}
	return out
}

func testClip(t *testing.T, n, w, h int, fps float64) *clip.Clip {
	t.Helper()
	c, err := clip.New(solidFrames(n, w, h, 100), fps, 3)
	require.NoError(t, err)
	return c
}

func gradientSequence(n, h, w int) frames.Sequence {
	seq := frames.New(n, h, w, 3)
	for i, f := range seq {
		for p := range f.Pix {
			f.Pix[p] = float32((p+i)%256) / 255
		}
	}
	return seq
}

func run(t *testing.T, env *Env, n Node, in Inputs) ([]any, error) {
	t.Helper()
	return Run(context.Background(), env, n, in)
}
