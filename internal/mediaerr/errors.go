// Package mediaerr defines the error kinds surfaced by nodes to the host.
package mediaerr

import (
	"errors"
	"fmt"
	"io/fs"
)

// ErrUnsupportedMedia is returned when an input file is not a video container.
var ErrUnsupportedMedia = errors.New("unsupported media type")

// FileNotFoundError reports a missing or unreadable input file.
type FileNotFoundError struct {
	Path string
	Err  error
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("video file not found: %s", e.Path)
}

// Unwrap lets errors.Is(err, fs.ErrNotExist) match.
func (e *FileNotFoundError) Unwrap() error {
	if e.Err == nil {
		return fs.ErrNotExist
	}
	return e.Err
}

// InvalidShapeError reports frames that disagree on height, width or channels.
type InvalidShapeError struct {
	Index  int
	Reason string
}

func (e *InvalidShapeError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("invalid frame shape: %s", e.Reason)
	}
	return fmt.Sprintf("invalid frame shape at frame %d: %s", e.Index, e.Reason)
}

// IncompatibleInputError reports inputs that cannot be normalized or combined.
type IncompatibleInputError struct {
	Reason string
}

func (e *IncompatibleInputError) Error() string {
	return "incompatible input: " + e.Reason
}

// Incompatible is a shorthand for building an IncompatibleInputError.
func Incompatible(format string, args ...any) error {
	return &IncompatibleInputError{Reason: fmt.Sprintf(format, args...)}
}

// ParamError reports an input that failed descriptor validation.
type ParamError struct {
	Node   string
	Param  string
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s: input %q %s", e.Node, e.Param, e.Reason)
}

// EncodingError wraps a backend failure while writing a container file.
type EncodingError struct {
	Output string
	Err    error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("failed to encode %s: %v", e.Output, e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }
