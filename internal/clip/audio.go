package clip

import (
	"slices"
	"time"
)

// AudioTrack is one segment of a clip's soundtrack: a span of audio in a
// source container, or silence when Source is empty. The samples stay in the
// source file until the clip is encoded. Overlap is how long the segment
// plays over the end of the previous one; overlapping segments crossfade.
type AudioTrack struct {
	Source   string
	Offset   time.Duration
	Duration time.Duration
	Overlap  time.Duration
}

// Silent reports whether the segment is a gap.
func (a AudioTrack) Silent() bool { return a.Source == "" }

// Audio returns the soundtrack segments in playback order, or nil when the
// clip has no sound.
func (c *Clip) Audio() []AudioTrack {
	return slices.Clone(c.audio)
}

// WithAudio returns a copy of the clip carrying the given soundtrack. A
// soundtrack made only of silence is dropped.
func (c *Clip) WithAudio(tracks ...AudioTrack) *Clip {
	out := *c
	out.audio = normalizeAudio(tracks)
	return &out
}

// JoinAudio lays the soundtracks of clips end to end, each clip after the
// first overlapping its predecessor by overlap. A clip without sound
// contributes a gap of its own length. Returns nil when every clip is silent.
func JoinAudio(clips []*Clip, overlap time.Duration) []AudioTrack {
	var out []AudioTrack
	for i, c := range clips {
		segs := c.audio
		if len(segs) == 0 {
			segs = []AudioTrack{{Duration: c.Duration()}}
		}
		for j, seg := range segs {
			if j == 0 && i > 0 {
				seg.Overlap = overlap
			}
			out = append(out, seg)
		}
	}
	return normalizeAudio(out)
}

// normalizeAudio drops empty segments and clamps overlaps to what both
// neighbours can cover. It returns nil when nothing audible remains.
func normalizeAudio(tracks []AudioTrack) []AudioTrack {
	out := make([]AudioTrack, 0, len(tracks))
	audible := false
	for _, t := range tracks {
		if t.Duration <= 0 {
			continue
		}
		if len(out) == 0 {
			t.Overlap = 0
		} else {
			t.Overlap = max(0, min(t.Overlap, t.Duration, out[len(out)-1].Duration))
		}
		if !t.Silent() {
			audible = true
		}
		out = append(out, t)
	}
	if !audible {
		return nil
	}
	return out
}

// audioStarts returns where each segment begins on the clip's timeline.
func audioStarts(tracks []AudioTrack) []time.Duration {
	starts := make([]time.Duration, len(tracks))
	var end time.Duration
	for i, t := range tracks {
		starts[i] = end - t.Overlap
		end = starts[i] + t.Duration
	}
	return starts
}

// sliceAudio returns the part of the soundtrack playing during [from, to).
func sliceAudio(tracks []AudioTrack, from, to time.Duration) []AudioTrack {
	starts := audioStarts(tracks)
	var out []AudioTrack
	var prevEnd time.Duration
	for i, t := range tracks {
		start, end := starts[i], starts[i]+t.Duration
		lo, hi := max(start, from), min(end, to)
		if hi <= lo {
			continue
		}
		seg := AudioTrack{Source: t.Source, Duration: hi - lo}
		if !t.Silent() {
			seg.Offset = t.Offset + (lo - start)
		}
		if len(out) > 0 {
			seg.Overlap = max(0, prevEnd-lo)
		}
		out = append(out, seg)
		prevEnd = hi
	}
	return normalizeAudio(out)
}
