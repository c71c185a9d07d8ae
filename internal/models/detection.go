package models

import (
	"fmt"
	"image"
	"math"
	"strconv"
	"strings"
)

// Kind identifies which detection head a result or a label belongs to
type Kind string

const (
	KindDefect Kind = "defect"
	KindRating Kind = "rating"
)

// String returns the string representation of Kind
func (k Kind) String() string {
	return string(k)
}

// Mode selects which heads are reported, drawn or labelled
type Mode string

const (
	ModeAll    Mode = "all"
	ModeDefect Mode = "defect"
	ModeRating Mode = "rating"
)

// String returns the string representation of Mode
func (m Mode) String() string {
	return string(m)
}

// IsValid checks if the mode is one of all, defect or rating
func (m Mode) IsValid() bool {
	switch m {
	case ModeAll, ModeDefect, ModeRating:
		return true
	default:
		return false
	}
}

// Includes reports whether boxes or labels of the given head pass this mode
func (m Mode) Includes(k Kind) bool {
	switch m {
	case ModeAll:
		return true
	case ModeDefect:
		return k == KindDefect
	case ModeRating:
		return k == KindRating
	default:
		return false
	}
}

// ParseDetectMode parses a detect mode, failing with ErrInvalidDetectMode
func ParseDetectMode(s string) (Mode, error) {
	m := Mode(strings.TrimSpace(s))
	if !m.IsValid() {
		return "", fmt.Errorf("%w: %q (choose all, defect or rating)", ErrInvalidDetectMode, s)
	}
	return m, nil
}

// ParseLabelMode parses a label mode, failing with ErrInvalidLabelMode
func ParseLabelMode(s string) (Mode, error) {
	m := Mode(strings.TrimSpace(s))
	if !m.IsValid() {
		return "", fmt.Errorf("%w: %q (choose all, defect or rating)", ErrInvalidLabelMode, s)
	}
	return m, nil
}

// ClassNames maps a string-keyed class id to its class name, as sent per response
type ClassNames map[string]string

// BoxRecord is a single detection box from the remote service
type BoxRecord struct {
	BoxXYXY [4]float64 `json:"box_xyxy"` // x1, y1, x2, y2 in pixels
	BoxCls  int        `json:"box_cls"`
}

// maxCoord bounds box coordinates before they are truncated to int
const maxCoord = 1 << 30

// Rect truncates the box coordinates to whole pixels. Coordinates beyond ±maxCoord are
// pinned there and NaN becomes 0.
func (b BoxRecord) Rect() image.Rectangle {
	return image.Rectangle{
		Min: image.Pt(pixel(b.BoxXYXY[0]), pixel(b.BoxXYXY[1])),
		Max: image.Pt(pixel(b.BoxXYXY[2]), pixel(b.BoxXYXY[3])),
	}
}

func pixel(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	return int(math.Max(-maxCoord, math.Min(maxCoord, v)))
}

// DetectionResult is the output of one detection head for one frame
type DetectionResult struct {
	Data    []BoxRecord `json:"data"`
	Classes ClassNames  `json:"cls"`
}

// ClassName resolves a class id through the per-response name table
func (r DetectionResult) ClassName(id int) (string, bool) {
	name, ok := r.Classes[strconv.Itoa(id)]
	return name, ok
}

// ClassID resolves a class name back to its id through the per-response name table.
// When a table repeats a name the lowest id wins.
func (r DetectionResult) ClassID(name string) (int, bool) {
	found := false
	lowest := 0
	for key, value := range r.Classes {
		if value != name {
			continue
		}
		id, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		if !found || id < lowest {
			lowest = id
			found = true
		}
	}
	return lowest, found
}

// FrameResults holds both head results the service returns for one frame
type FrameResults struct {
	Defect DetectionResult
	Rating DetectionResult
}

// Report is what callers receive per image or frame after detect-mode projection.
// A nil head was excluded by the mode.
type Report struct {
	Frame  int              `json:"frame,omitempty"` // 1-based frame index, 0 for still images
	Defect *DetectionResult `json:"defect,omitempty"`
	Rating *DetectionResult `json:"rating,omitempty"`
}

// NewReport builds the full report for a frame
func NewReport(frame int, results FrameResults) Report {
	defect := results.Defect
	rating := results.Rating
	return Report{Frame: frame, Defect: &defect, Rating: &rating}
}

// Project keeps only the heads selected by the detect mode
func (r Report) Project(mode Mode) (Report, error) {
	if !mode.IsValid() {
		return Report{}, fmt.Errorf("%w: %q", ErrInvalidDetectMode, mode)
	}
	out := Report{Frame: r.Frame}
	if mode.Includes(KindDefect) {
		out.Defect = r.Defect
	}
	if mode.Includes(KindRating) {
		out.Rating = r.Rating
	}
	return out, nil
}

// MessagePublisher interface for publishing per-frame reports
type MessagePublisher interface {
	Publish(subject string, data interface{}) error
}
