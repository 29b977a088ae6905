package ffmpeg

import (
	"strconv"
	"strings"
)

// videoFilters is a -vf chain, applied in order.
type videoFilters []string

// resample drops or repeats frames to reach rate. Non-positive rates keep
// the source timing.
func (vf videoFilters) resample(rate float64) videoFilters {
	if rate <= 0 {
		return vf
	}
	return append(vf, "fps="+strconv.FormatFloat(rate, 'f', -1, 64))
}

// padEven grows odd dimensions by one pixel; yuv420p needs even sizes.
func (vf videoFilters) padEven(width, height int) videoFilters {
	if width%2 == 0 && height%2 == 0 {
		return vf
	}
	return append(vf, "pad=ceil(iw/2)*2:ceil(ih/2)*2")
}

func (vf videoFilters) String() string {
	return strings.Join(vf, ",")
}

// args returns the -vf flag pair, or nothing for an empty chain.
func (vf videoFilters) args() []string {
	if len(vf) == 0 {
		return nil
	}
	return []string{"-vf", vf.String()}
}
