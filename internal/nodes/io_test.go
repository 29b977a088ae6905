package nodes

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kikiluvv/reelgraph/internal/clip"
	"github.com/kikiluvv/reelgraph/internal/ffmpeg"
	"github.com/kikiluvv/reelgraph/internal/mediaerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoadMedia() *fakeMedia {
	return &fakeMedia{
		info:   &ffmpeg.VideoInfo{Width: 8, Height: 6, FPS: 30, HasAudio: true},
		frames: solidFrames(30, 8, 6, 50),
	}
}

func TestLoadVideoMissingFile(t *testing.T) {
	media := newLoadMedia()
	env := testEnv(t, media)

	before, err := os.ReadDir(env.Config.InputDir)
	require.NoError(t, err)

	_, err = run(t, env, LoadVideo{}, Inputs{"video_path": "nope.mp4"})
	var nf *mediaerr.FileNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Equal(t, "nope.mp4", nf.Path)

	after, err := os.ReadDir(env.Config.InputDir)
	require.NoError(t, err)
	assert.Equal(t, len(before), len(after))
	assert.Zero(t, media.probed)
	assert.Zero(t, media.decoded)
}

func TestLoadVideoResolvesInputDir(t *testing.T) {
	media := newLoadMedia()
	env := testEnv(t, media)
	path := writeVideoFile(t, env.Config.InputDir, "clips/a.mp4")

	out, err := run(t, env, LoadVideo{}, Inputs{"video_path": "[input] clips/a.mp4"})
	require.NoError(t, err)
	c := out[0].(*clip.Clip)

	assert.Equal(t, 30, c.Len())
	assert.Equal(t, 30.0, c.FPS())
	require.Len(t, c.Audio(), 1)
	assert.Equal(t, path, c.Audio()[0].Source)
	assert.Equal(t, time.Second, c.Audio()[0].Duration)
}

func TestLoadVideoSpan(t *testing.T) {
	media := newLoadMedia()
	media.info.Duration = 10 * time.Second
	env := testEnv(t, media)
	path := writeVideoFile(t, env.Config.InputDir, "a.mp4")

	out, err := run(t, env, LoadVideo{}, Inputs{"video_path": "a.mp4", "start_time": 2.5, "duration": 1.0})
	require.NoError(t, err)
	assert.Equal(t, 2500*time.Millisecond, media.decodeOpts.Start)
	assert.Equal(t, time.Second, media.decodeOpts.Duration)

	audio := out[0].(*clip.Clip).Audio()
	require.Len(t, audio, 1)
	assert.Equal(t, path, audio[0].Source)
	assert.Equal(t, 2500*time.Millisecond, audio[0].Offset)

	_, err = run(t, env, LoadVideo{}, Inputs{"video_path": "a.mp4", "start_time": 12.0})
	var incompatible *mediaerr.IncompatibleInputError
	assert.ErrorAs(t, err, &incompatible)
}

func TestLoadVideoWithoutAudioAndForcedRate(t *testing.T) {
	media := newLoadMedia()
	env := testEnv(t, media)
	path := writeVideoFile(t, t.TempDir(), "b.mp4")

	out, err := run(t, env, LoadVideo{}, Inputs{"video_path": path, "audio": false, "force_rate": 15.0})
	require.NoError(t, err)
	c := out[0].(*clip.Clip)

	assert.Nil(t, c.Audio())
	assert.Equal(t, 15.0, c.FPS())
	assert.Equal(t, 15.0, media.decodeOpts.FPS)
}

func TestLoadVideoRejectsNonVideo(t *testing.T) {
	media := newLoadMedia()
	env := testEnv(t, media)
	path := filepath.Join(env.Config.InputDir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("just some text\n"), 0644))

	_, err := run(t, env, LoadVideo{}, Inputs{"video_path": "notes.txt"})
	assert.True(t, errors.Is(err, mediaerr.ErrUnsupportedMedia), "got %v", err)
	assert.Zero(t, media.probed)
}

func TestLoadVideoNoVideoStream(t *testing.T) {
	media := newLoadMedia()
	media.probeErr = ffmpeg.ErrNoVideoStream
	env := testEnv(t, media)
	writeVideoFile(t, env.Config.InputDir, "a.mp4")

	_, err := run(t, env, LoadVideo{}, Inputs{"video_path": "a.mp4"})
	assert.True(t, errors.Is(err, mediaerr.ErrUnsupportedMedia), "got %v", err)
}

func TestLoadVideoEmptyPath(t *testing.T) {
	_, err := run(t, testEnv(t, newLoadMedia()), LoadVideo{}, Inputs{"video_path": "  "})
	var pe *mediaerr.ParamError
	assert.ErrorAs(t, err, &pe)
}

func TestLoadVideoFingerprint(t *testing.T) {
	env := testEnv(t, newLoadMedia())
	path := writeVideoFile(t, env.Config.InputDir, "a.mp4")
	in := Inputs{"video_path": "a.mp4"}

	first, err := LoadVideo{}.Fingerprint(env, in)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, append(mp4Header, 1, 2, 3), 0644))
	second, err := LoadVideo{}.Fingerprint(env, in)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestSaveVideoCreatesParentDirs(t *testing.T) {
	media := &fakeMedia{}
	env := testEnv(t, media)
	c := testClip(t, 12, 8, 6, 24).WithAudio(clip.AudioTrack{Source: "/in.mp4", Offset: time.Second, Duration: 500 * time.Millisecond})

	out, err := run(t, env, SaveVideo{}, Inputs{"video": c, "filename": "a/b/c/out.mp4", "codec": "libx265"})
	require.NoError(t, err)

	path := out[0].(string)
	assert.True(t, filepath.IsAbs(path))
	assert.Equal(t, filepath.Join(env.Config.OutputDir, "a", "b", "c", "out.mp4"), path)
	assert.FileExists(t, path)

	require.Len(t, media.encoded, 1)
	opts := media.encoded[0]
	assert.Equal(t, 12, media.encodedN)
	assert.Equal(t, "libx265", opts.VideoCodec)
	assert.Equal(t, "8000k", opts.Bitrate)
	assert.Equal(t, "aac", opts.AudioCodec)
	assert.Equal(t, "ultrafast", opts.Preset)
	assert.Equal(t, 24.0, opts.FPS)
	require.Len(t, opts.Audio, 1)
	assert.Equal(t, "/in.mp4", opts.Audio[0].Path)
	assert.Equal(t, time.Second, opts.Audio[0].Offset)
}

func TestSaveVideoFallsBackToConfig(t *testing.T) {
	media := &fakeMedia{}
	env := testEnv(t, media)
	env.Config.Encoding.VideoCodec = "libx265"
	env.Config.Encoding.AudioCodec = "libvorbis"
	env.Config.Encoding.Preset = "slow"
	env.Config.Encoding.Bitrate = "2500k"

	_, err := run(t, env, SaveVideo{}, Inputs{"video": testClip(t, 4, 8, 6, 24), "filename": "cfg.mp4"})
	require.NoError(t, err)

	require.Len(t, media.encoded, 1)
	opts := media.encoded[0]
	assert.Equal(t, "libx265", opts.VideoCodec)
	assert.Equal(t, "libvorbis", opts.AudioCodec)
	assert.Equal(t, "slow", opts.Preset)
	assert.Equal(t, "2500k", opts.Bitrate)

	_, err = run(t, env, SaveVideo{}, Inputs{"video": testClip(t, 4, 8, 6, 24), "filename": "cfg.mp4", "preset": "fast", "bitrate": " "})
	require.NoError(t, err)
	assert.Equal(t, "fast", media.encoded[1].Preset)
	assert.Equal(t, "2500k", media.encoded[1].Bitrate)
}

func TestSaveVideoJoinedSoundtrack(t *testing.T) {
	media := &fakeMedia{}
	env := testEnv(t, media)
	a := testClip(t, 24, 8, 6, 24).WithAudio(clip.AudioTrack{Source: "/a.mp4", Duration: time.Second})
	b := testClip(t, 12, 8, 6, 24)
	joined, err := clip.Concat(a, b)
	require.NoError(t, err)

	_, err = run(t, env, SaveVideo{}, Inputs{"video": joined, "filename": "joined.mp4"})
	require.NoError(t, err)

	audio := media.encoded[0].Audio
	require.Len(t, audio, 2)
	assert.Equal(t, "/a.mp4", audio[0].Path)
	assert.Empty(t, audio[1].Path)
	assert.Equal(t, 500*time.Millisecond, audio[1].Duration)
}

func TestSaveVideoReportsProgress(t *testing.T) {
	media := &fakeMedia{progress: []ffmpeg.Progress{{Frame: 2, Percentage: 50}, {Frame: 4, Percentage: 100}}}
	env := testEnv(t, media)
	var seen []float64
	env.OnProgress = func(output string, p *ffmpeg.Progress) {
		assert.Equal(t, filepath.Join(env.Config.OutputDir, "p.mp4"), output)
		seen = append(seen, p.Percentage)
	}

	_, err := run(t, env, SaveVideo{}, Inputs{"video": testClip(t, 4, 8, 6, 24), "filename": "p.mp4"})
	require.NoError(t, err)
	assert.Equal(t, []float64{50, 100}, seen)
}

func TestSaveVideoEncodingError(t *testing.T) {
	media := &fakeMedia{encodeErr: errors.New("encoder exploded")}
	env := testEnv(t, media)
	target := filepath.Join(t.TempDir(), "x", "out.mp4")

	_, err := run(t, env, SaveVideo{}, Inputs{"video": testClip(t, 2, 4, 4, 24), "filename": target})
	var ee *mediaerr.EncodingError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, target, ee.Output)
	assert.NoFileExists(t, target)
}
