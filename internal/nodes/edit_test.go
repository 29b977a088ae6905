package nodes

import (
	"testing"

	"github.com/kikiluvv/reelgraph/internal/clip"
	"github.com/kikiluvv/reelgraph/internal/frames"
	"github.com/kikiluvv/reelgraph/internal/mediaerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombineVideos(t *testing.T) {
	env := testEnv(t, &fakeMedia{})
	a := gradientSequence(4, 6, 8)
	b := gradientSequence(3, 12, 16)
	c := gradientSequence(2, 6, 8)

	out, err := run(t, env, CombineVideos{}, Inputs{"IMAGE1": a, "IMAGE2": b, "IMAGE5": c})
	require.NoError(t, err)
	seq := out[0].(frames.Sequence)
	assert.Len(t, seq, 9)
	shape, err := seq.Shape()
	require.NoError(t, err)
	assert.Equal(t, frames.Shape{Height: 6, Width: 8, Channels: 3}, shape)
}

func TestCombineVideosSingleInputUnchanged(t *testing.T) {
	a := gradientSequence(4, 6, 8)
	out, err := run(t, testEnv(t, &fakeMedia{}), CombineVideos{}, Inputs{"IMAGE1": a})
	require.NoError(t, err)
	assert.Equal(t, a, out[0].(frames.Sequence))
}

func TestCombineVideosZeroLengthInput(t *testing.T) {
	_, err := run(t, testEnv(t, &fakeMedia{}), CombineVideos{}, Inputs{
		"IMAGE1": gradientSequence(2, 4, 4),
		"IMAGE2": frames.Sequence{},
	})
	var ie *mediaerr.IncompatibleInputError
	assert.ErrorAs(t, err, &ie)
}

func TestVideoConcatenate(t *testing.T) {
	env := testEnv(t, &fakeMedia{})
	a := testClip(t, 24, 8, 6, 24)
	b := testClip(t, 48, 16, 12, 24)
	c := testClip(t, 30, 8, 6, 30)

	tests := []struct {
		name string
		in   Inputs
		want int
	}{
		{"simple", Inputs{"mode": "simple"}, 24 + 48 + 24},
		{"transition none", Inputs{"mode": "transition", "transition_type": "none"}, 96},
		{"crossfade", Inputs{"mode": "transition", "transition_type": "crossfade", "transition_duration": 0.5}, 96 - 2*12},
		{"slide", Inputs{"mode": "transition", "transition_type": "slide_left", "transition_duration": 0.25}, 96 - 2*6},
		{"fade black keeps length", Inputs{"mode": "transition", "transition_type": "fade_black", "transition_duration": 0.5}, 96},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in["videos"] = []any{a, b, c}
			out, err := run(t, env, VideoConcatenate{}, tt.in)
			require.NoError(t, err)
			joined := out[0].(*clip.Clip)
			assert.Equal(t, tt.want, joined.Len())
			assert.Equal(t, 24.0, joined.FPS())
			w, h := joined.Size()
			assert.Equal(t, 8, w)
			assert.Equal(t, 6, h)
		})
	}
}

func TestVideoConcatenateSingleUnchanged(t *testing.T) {
	a := testClip(t, 5, 4, 4, 24)
	out, err := run(t, testEnv(t, &fakeMedia{}), VideoConcatenate{}, Inputs{"videos": []any{a}})
	require.NoError(t, err)
	assert.Same(t, a, out[0].(*clip.Clip))
}

func TestVideoConcatenateTransitionTooLong(t *testing.T) {
	a, b := testClip(t, 24, 4, 4, 24), testClip(t, 12, 4, 4, 24)
	_, err := run(t, testEnv(t, &fakeMedia{}), VideoConcatenate{}, Inputs{
		"videos":              []any{a, b},
		"mode":                "transition",
		"transition_type":     "crossfade",
		"transition_duration": 0.5,
	})
	var ie *mediaerr.IncompatibleInputError
	assert.ErrorAs(t, err, &ie)
}

func TestVideoTransition(t *testing.T) {
	env := testEnv(t, &fakeMedia{})
	a, b := gradientSequence(20, 4, 4), gradientSequence(10, 8, 8)

	tests := []struct {
		kind string
		want int
	}{
		{"crossfade", 30 - 5},
		{"fadein", 30},
		{"fadeout", 30},
		{"fadeinout", 30},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			out, err := run(t, env, VideoTransition{}, Inputs{
				"IMAGE1": a, "IMAGE2": b,
				"transition_type": tt.kind,
				"duration":        0.5,
				"fps":             10.0,
			})
			require.NoError(t, err)
			assert.Len(t, out[0].(frames.Sequence), tt.want)
		})
	}
}

func TestVideoTransitionTooLong(t *testing.T) {
	_, err := run(t, testEnv(t, &fakeMedia{}), VideoTransition{}, Inputs{
		"IMAGE1":   gradientSequence(20, 4, 4),
		"IMAGE2":   gradientSequence(10, 4, 4),
		"duration": 1.0,
		"fps":      10.0,
	})
	var ie *mediaerr.IncompatibleInputError
	assert.ErrorAs(t, err, &ie)
}

func TestVideoTransitionShortDurationAtLowRate(t *testing.T) {
	out, err := run(t, testEnv(t, &fakeMedia{}), VideoTransition{}, Inputs{
		"IMAGE1":          gradientSequence(20, 4, 4),
		"IMAGE2":          gradientSequence(20, 4, 4),
		"transition_type": "crossfade",
		"duration":        0.4,
		"fps":             1.0,
	})
	require.NoError(t, err)
	assert.Len(t, out[0].(frames.Sequence), 39)
}
