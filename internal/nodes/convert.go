package nodes

import (
	"context"
	"image"
	"math"

	"github.com/kikiluvv/reelgraph/internal/clip"
	"github.com/kikiluvv/reelgraph/internal/mediaerr"
)

// ImagesToVideo wraps an IMAGE batch as a VIDEO at a fixed rate.
type ImagesToVideo struct{}

func (ImagesToVideo) Describe() Descriptor {
	return Descriptor{
		Name:        "ImagesToVideo",
		DisplayName: "Images to Video",
		Category:    "video/convert",
		Inputs: []ParamSpec{
			imageInput("images"),
			floatInput("fps", 24, 1, 120, 0.1),
		},
		Outputs: []Output{{Name: "video", Type: TypeVideo}},
	}
}

func (ImagesToVideo) Execute(_ context.Context, _ *Env, in Inputs) ([]any, error) {
	c, err := clip.ToClip(in.Image("images"), in.Float("fps"))
	if err != nil {
		return nil, err
	}
	return []any{c}, nil
}

// VideoToImages samples a VIDEO into an IMAGE batch.
type VideoToImages struct{}

func (VideoToImages) Describe() Descriptor {
	return Descriptor{
		Name:        "VideoToImages",
		DisplayName: "Video to Images",
		Category:    "video/convert",
		Inputs: []ParamSpec{
			videoInput("video"),
			optional(withTooltip(floatInput("fps", 0, 0, 120, 0.1), "Sampling rate; 0 uses the video's rate.")),
			optional(floatInput("start_time", 0, 0, 10000, 0.1)),
			optional(withTooltip(floatInput("end_time", 0, 0, 10000, 0.1), "0 means the end of the video.")),
		},
		Outputs: []Output{{Name: "images", Type: TypeImage}},
	}
}

// sampleEpsilon absorbs float error when counting samples in a span.
const sampleEpsilon = 1e-6

func (VideoToImages) Execute(_ context.Context, _ *Env, in Inputs) ([]any, error) {
	c := in.Video("video")
	duration := c.Duration().Seconds()

	fps := in.Float("fps")
	if fps <= 0 {
		fps = c.FPS()
	}
	start := math.Min(math.Max(in.Float("start_time"), 0), duration)
	end := in.Float("end_time")
	if end <= 0 || end > duration {
		end = duration
	}
	if end <= start {
		return nil, mediaerr.Incompatible("time range %.3fs-%.3fs selects no frames", start, end)
	}

	count := int((end-start)*fps + sampleEpsilon)
	if count < 1 {
		return nil, mediaerr.Incompatible("time range %.3fs-%.3fs at %v fps selects no frames", start, end, fps)
	}

	span, err := c.Subclip(clip.Seconds(start), clip.Seconds(end))
	if err != nil {
		return nil, err
	}
	origin := c.StartTime(c.IndexAt(clip.Seconds(start)))
	imgs := make([]*image.NRGBA, count)
	for i := range imgs {
		imgs[i] = span.FrameAt(clip.Seconds(start+float64(i)/fps) - origin)
	}

	sampled, err := clip.New(imgs, fps, c.Channels())
	if err != nil {
		return nil, err
	}
	seq, err := clip.FromClip(sampled)
	if err != nil {
		return nil, err
	}
	return []any{seq}, nil
}
