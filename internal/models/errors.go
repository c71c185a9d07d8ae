package models

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the client matches exactly one of these with errors.Is.
var (
	// ErrFileNotFound is returned when the input path does not exist.
	ErrFileNotFound = errors.New("smretrofit: file not found")

	// ErrInvalidMediaType is returned when the input fails the image or video sniff check.
	ErrInvalidMediaType = errors.New("smretrofit: invalid media type")

	// ErrRemoteRequestFailed is returned on network-layer failures talking to the detection service.
	ErrRemoteRequestFailed = errors.New("smretrofit: remote request failed")

	// ErrInvalidResponseFormat is returned on non-200 or non-JSON responses.
	ErrInvalidResponseFormat = errors.New("smretrofit: invalid response format")

	// ErrInvalidDetectMode is returned for a detect mode outside all, defect, rating.
	ErrInvalidDetectMode = errors.New("smretrofit: invalid detect mode")

	// ErrInvalidLabelMode is returned for a label mode outside all, defect, rating.
	ErrInvalidLabelMode = errors.New("smretrofit: invalid label mode")

	// ErrInvalidSample is returned when more frames are requested than the video holds.
	ErrInvalidSample = errors.New("smretrofit: invalid sample size")

	// ErrUnknownClass is returned by color lookups for ids outside the fixed tables.
	// Callers treat it as non-fatal and skip the item.
	ErrUnknownClass = errors.New("smretrofit: unknown class")

	// ErrUnexpected wraps any other fault surfaced at a call boundary.
	ErrUnexpected = errors.New("smretrofit: unexpected error")
)

var kinds = []error{
	ErrFileNotFound,
	ErrInvalidMediaType,
	ErrRemoteRequestFailed,
	ErrInvalidResponseFormat,
	ErrInvalidDetectMode,
	ErrInvalidLabelMode,
	ErrInvalidSample,
	ErrUnknownClass,
	ErrUnexpected,
}

// OpError records the operation and path that failed along with the error kind and its cause.
type OpError struct {
	Op   string
	Path string
	Kind error
	Err  error
}

// Error implements the error interface.
func (e *OpError) Error() string {
	msg := e.Op
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Err == nil || e.Err == e.Kind {
		return fmt.Sprintf("%s: %v", msg, e.Kind)
	}
	return fmt.Sprintf("%s: %v", msg, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *OpError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// KindOf returns the error kind err matches, or ErrUnexpected when it matches none.
func KindOf(err error) error {
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return ErrUnexpected
}

// Wrap attaches op and path context to err. Errors that already carry a kind keep it,
// anything else is classified as ErrUnexpected.
func Wrap(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Op: op, Path: path, Kind: KindOf(err), Err: err}
}
