package nodes

import (
	"context"
	"fmt"

	"github.com/kikiluvv/reelgraph/internal/clip"
	"github.com/kikiluvv/reelgraph/internal/frames"
	"github.com/kikiluvv/reelgraph/internal/mediaerr"
	"github.com/kikiluvv/reelgraph/internal/transitions"
)

// maxCombineInputs is the number of IMAGE sockets on CombineVideos.
const maxCombineInputs = 10

// normalizeClips resizes every clip to the first clip's resolution and
// channel count and resamples it to fps.
func normalizeClips(clips []*clip.Clip, fps float64) ([]*clip.Clip, error) {
	if len(clips) == 0 {
		return nil, mediaerr.Incompatible("no inputs")
	}
	w, h := clips[0].Size()
	channels := clips[0].Channels()

	out := make([]*clip.Clip, len(clips))
	for i, c := range clips {
		if c == nil || c.Len() == 0 {
			return nil, mediaerr.Incompatible("input %d is empty", i+1)
		}
		var err error
		if c, err = c.Resize(w, h); err != nil {
			return nil, err
		}
		if c, err = c.WithFPS(fps); err != nil {
			return nil, err
		}
		if c, err = c.WithChannels(channels); err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

func kindNames(kinds []transitions.Kind) []string {
	out := make([]string, len(kinds))
	for i, k := range kinds {
		out[i] = string(k)
	}
	return out
}

// CombineVideos concatenates up to ten IMAGE batches end to end.
type CombineVideos struct{}

func (CombineVideos) Describe() Descriptor {
	inputs := []ParamSpec{
		imageInput("IMAGE1"),
		floatInput("fps", 24, 1, 120, 0.1),
	}
	for i := 2; i <= maxCombineInputs; i++ {
		inputs = append(inputs, optional(imageInput(fmt.Sprintf("IMAGE%d", i))))
	}
	return Descriptor{
		Name:        "CombineVideos",
		DisplayName: "Combine Videos",
		Category:    "video/edit",
		Description: "Concatenate frame batches, resizing each to the first batch's resolution.",
		Inputs:      inputs,
		Outputs:     []Output{{Name: "images", Type: TypeImage}},
	}
}

func (CombineVideos) Execute(_ context.Context, env *Env, in Inputs) ([]any, error) {
	fps := in.Float("fps")

	var seqs []frames.Sequence
	for i := 1; i <= maxCombineInputs; i++ {
		name := fmt.Sprintf("IMAGE%d", i)
		if !in.Has(name) {
			continue
		}
		seq := in.Image(name)
		if len(seq) == 0 {
			return nil, mediaerr.Incompatible("%s has no frames", name)
		}
		seqs = append(seqs, seq)
	}
	if len(seqs) == 1 {
		return []any{seqs[0]}, nil
	}

	clips := make([]*clip.Clip, len(seqs))
	for i, seq := range seqs {
		c, err := clip.ToClip(seq, fps)
		if err != nil {
			return nil, err
		}
		clips[i] = c
	}
	clips, err := normalizeClips(clips, fps)
	if err != nil {
		return nil, err
	}
	joined, err := clip.Concat(clips...)
	if err != nil {
		return nil, err
	}

	env.Logger.Debug().Int("inputs", len(clips)).Int("frames", joined.Len()).Msg("combined")

	seq, err := clip.FromClip(joined)
	if err != nil {
		return nil, err
	}
	return []any{seq}, nil
}

// VideoConcatenate joins a list of VIDEOs, optionally with transitions.
type VideoConcatenate struct{}

func (VideoConcatenate) Describe() Descriptor {
	videos := videoInput("videos")
	videos.List = true
	return Descriptor{
		Name:        "VideoConcatenate",
		DisplayName: "Concatenate Videos",
		Category:    "video/edit",
		Description: "Join videos in order. Inputs are normalized to the first video's resolution and frame rate.",
		Inputs: []ParamSpec{
			videos,
			choiceInput("mode", "simple", "transition"),
			choiceInput("transition_type", kindNames(transitions.ConcatKinds())...),
			floatInput("transition_duration", 1, 0.1, 10, 0.1),
		},
		Outputs:     []Output{{Name: "video", Type: TypeVideo}},
		InputIsList: true,
	}
}

func (VideoConcatenate) Execute(_ context.Context, env *Env, in Inputs) ([]any, error) {
	videos := in.Videos("videos")
	if len(videos) == 0 {
		return nil, mediaerr.Incompatible("no videos to concatenate")
	}
	for i, v := range videos {
		if v == nil || v.Len() == 0 {
			return nil, mediaerr.Incompatible("video %d is empty", i+1)
		}
	}
	if len(videos) == 1 {
		return []any{videos[0]}, nil
	}

	fps := videos[0].FPS()
	clips, err := normalizeClips(videos, fps)
	if err != nil {
		return nil, err
	}

	kind := transitions.None
	if in.String("mode") == "transition" {
		kind = transitions.Kind(in.String("transition_type"))
	}
	n := transitions.FrameCount(in.Float("transition_duration"), fps)

	joined, err := transitions.Concatenate(clips, kind, n)
	if err != nil {
		return nil, err
	}

	env.Logger.Debug().
		Int("inputs", len(clips)).
		Str("transition", string(kind)).
		Int("transition_frames", n).
		Int("frames", joined.Len()).
		Msg("concatenated")

	return []any{joined}, nil
}

// VideoTransition joins two IMAGE batches with a transition.
type VideoTransition struct{}

func (VideoTransition) Describe() Descriptor {
	return Descriptor{
		Name:        "VideoTransition",
		DisplayName: "Video Transition",
		Category:    "video/edit",
		Inputs: []ParamSpec{
			imageInput("IMAGE1"),
			imageInput("IMAGE2"),
			choiceInput("transition_type", kindNames(transitions.PairKinds())...),
			floatInput("duration", 1, 0.1, 10, 0.1),
			floatInput("fps", 24, 1, 120, 0.1),
		},
		Outputs: []Output{{Name: "images", Type: TypeImage}},
	}
}

func (VideoTransition) Execute(_ context.Context, _ *Env, in Inputs) ([]any, error) {
	fps := in.Float("fps")
	first, second := in.Image("IMAGE1"), in.Image("IMAGE2")
	if len(first) == 0 || len(second) == 0 {
		return nil, mediaerr.Incompatible("both inputs need at least one frame")
	}

	a, err := clip.ToClip(first, fps)
	if err != nil {
		return nil, err
	}
	b, err := clip.ToClip(second, fps)
	if err != nil {
		return nil, err
	}
	clips, err := normalizeClips([]*clip.Clip{a, b}, fps)
	if err != nil {
		return nil, err
	}

	n := transitions.FrameCount(in.Float("duration"), fps)
	joined, err := transitions.Pair(clips[0], clips[1], transitions.Kind(in.String("transition_type")), n)
	if err != nil {
		return nil, err
	}

	seq, err := clip.FromClip(joined)
	if err != nil {
		return nil, err
	}
	return []any{seq}, nil
}
