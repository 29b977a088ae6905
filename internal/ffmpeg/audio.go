package ffmpeg

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kikiluvv/reelgraph/pkg/util"
)

// Joined soundtracks are normalized to this layout before concatenation.
const (
	audioSampleRate = 48000
	audioLayout     = "stereo"
)

// AudioSource points at a span of audio in an existing container. It is
// muxed into the output at encode time instead of being decoded. An empty
// Path stands for silence. Overlap is how long the span plays over the end
// of the previous one.
type AudioSource struct {
	Path     string
	Offset   time.Duration
	Duration time.Duration
	Overlap  time.Duration
}

// inputArgs returns the ffmpeg input arguments that seek into the source,
// or generate silence of the same length.
func (a AudioSource) inputArgs() []string {
	if a.Path == "" {
		return []string{
			"-f", "lavfi",
			"-t", util.FormatDuration(a.Duration),
			"-i", fmt.Sprintf("anullsrc=r=%d:cl=%s", audioSampleRate, audioLayout),
		}
	}
	var args []string
	if a.Offset > 0 {
		args = append(args, "-ss", util.FormatDuration(a.Offset))
	}
	if a.Duration > 0 {
		args = append(args, "-t", util.FormatDuration(a.Duration))
	}
	return append(args, "-i", a.Path)
}

// hasAudio reports whether any segment carries sound.
func hasAudio(segs []AudioSource) bool {
	for _, s := range segs {
		if s.Path != "" {
			return true
		}
	}
	return false
}

// audioOutputArgs maps the soundtrack built from inputs 1..len(segs) and
// picks the codec. A single source is mapped directly; the trailing "?"
// keeps ffmpeg from failing when it has no audio stream.
func audioOutputArgs(segs []AudioSource, codec string) []string {
	if codec == "" {
		codec = DefaultAudioCodec
	}
	if len(segs) == 1 {
		return []string{"-map", "1:a:0?", "-c:a", codec}
	}
	return []string{"-filter_complex", audioFilterGraph(segs), "-map", "[aout]", "-c:a", codec}
}

// audioFilterGraph pads each segment to its length in a common format, then
// joins neighbours with acrossfade where they overlap and concat elsewhere.
func audioFilterGraph(segs []AudioSource) string {
	chains := make([]string, 0, 2*len(segs))
	for i, s := range segs {
		chains = append(chains, fmt.Sprintf(
			"[%d:a]aresample=%d,aformat=channel_layouts=%s,apad,atrim=duration=%s[a%d]",
			i+1, audioSampleRate, audioLayout, seconds(s.Duration), i))
	}

	prev := "[a0]"
	for i := 1; i < len(segs); i++ {
		out := fmt.Sprintf("[j%d]", i)
		if i == len(segs)-1 {
			out = "[aout]"
		}
		if ov := segs[i].Overlap; ov > 0 {
			chains = append(chains, fmt.Sprintf("%s[a%d]acrossfade=d=%s%s", prev, i, seconds(ov), out))
		} else {
			chains = append(chains, fmt.Sprintf("%s[a%d]concat=n=2:v=0:a=1%s", prev, i, out))
		}
		prev = out
	}
	return strings.Join(chains, ";")
}

func seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}
