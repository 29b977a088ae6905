package ffmpeg

import (
	"io"
	"time"
)

// VideoInfo contains metadata about a video file
type VideoInfo struct {
	FilePath     string
	Duration     time.Duration
	Width        int
	Height       int
	Rotation     int
	FPS          float64
	Frames       int
	Bitrate      int64
	VideoCodec   string
	PixelFormat  string
	HasAudio     bool
	AudioCodec   string
	AudioBitrate int64
}

// DisplaySize returns the frame size after applying rotation metadata, which
// is what ffmpeg emits when decoding with autorotate enabled.
func (v *VideoInfo) DisplaySize() (width, height int) {
	switch ((v.Rotation % 360) + 360) % 360 {
	case 90, 270:
		return v.Height, v.Width
	}
	return v.Width, v.Height
}

// Progress represents ffmpeg progress data
type Progress struct {
	Frame      int
	FPS        float64
	Bitrate    string
	Time       string
	Speed      string
	Percentage float64
}

// RunOptions configures ffmpeg execution
type RunOptions struct {
	Args            []string
	Stdin           io.Reader
	Stdout          io.Writer
	ProgressHandler func(*Progress)
	LogHandler      func(line string)
}

// Default encoding settings
const (
	DefaultCRF        = 23
	DefaultPreset     = "ultrafast"
	DefaultVideoCodec = "libx264"
	DefaultAudioCodec = "aac"
	DefaultBitrate    = "8000k"
	DefaultPixFmt     = "yuv420p"
)

// DecodeOptions selects which frames are decoded. Zero values keep the
// source rate and span.
type DecodeOptions struct {
	FPS      float64
	Start    time.Duration
	Duration time.Duration
}

// EncodeOptions configures writing raw frames to a container file
type EncodeOptions struct {
	Output       string
	FPS          float64
	VideoCodec   string
	Bitrate      string
	CRF          int
	Preset       string
	AudioCodec   string
	PixelFormat  string
	Audio        []AudioSource
	ProgressFunc ProgressFunc
}

// ProgressFunc is a callback for progress updates during ffmpeg operations.
// Called periodically with progress information as the operation executes.
type ProgressFunc func(*Progress)
