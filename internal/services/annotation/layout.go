package annotation

import (
	"image"
	"image/color"
	"strings"

	"github.com/somikoronAI-Source/smretrofit/internal/models"
)

// Layout margins, in pixels.
const (
	RightMargin = 30
	TopMargin   = 30
	LabelIndent = 10
	LabelGap    = 10
	BottomGuard = 10
)

// TextMeasurer returns the rendered size of text for a font scale and thickness
type TextMeasurer interface {
	Measure(text string, fontScale float64, thickness int) (width, height int)
}

// TextStyle holds the font settings shared by every label on a frame
type TextStyle struct {
	FontScale   float64
	Thickness   int
	LineSpacing int
}

// DrawCommand is one positioned, colored label run. Origin is the text baseline start.
type DrawCommand struct {
	Text   string
	Kind   models.Kind
	Key    int
	Origin image.Point
	Color  color.RGBA
}

// FontScale derives the font scale from the frame height and the configured font size
func FontScale(frameHeight, fontSize int) float64 {
	return float64(frameHeight) / float64(70*max(1, 20-fontSize))
}

// StrokeWidth returns the box stroke for a box and head divisor, never below MinStrokeWidth
func StrokeWidth(box image.Rectangle, divisor int) int {
	if divisor <= 0 {
		return MinStrokeWidth
	}
	return max(MinStrokeWidth, min(box.Dx(), box.Dy())/divisor)
}

// LabelColor resolves a label's color: the label name is mapped back to a class id through the
// response table of its head, then to the fixed color table.
func LabelColor(l Label, results models.FrameResults) (color.RGBA, error) {
	head := results.Defect
	if l.Kind == models.KindRating {
		head = results.Rating
	}
	id, ok := head.ClassID(l.Text)
	if !ok {
		return color.RGBA{}, models.ErrUnknownClass
	}
	return ColorOf(l.Kind, id)
}

// Layout positions the label set as a right-aligned block at the top of the frame. Each group
// takes one row; labels in a row run left to right. Rows stop once the next label would cross
// the bottom of the frame. Horizontal overflow is not checked.
func Layout(set LabelSet, results models.FrameResults, frame image.Point, style TextStyle, m TextMeasurer) []DrawCommand {
	maxWidth := 0
	for _, g := range set {
		w, _ := m.Measure(strings.Join(g.Texts(), " "), style.FontScale, style.Thickness)
		maxWidth = max(maxWidth, w)
	}

	startX := frame.X - maxWidth - RightMargin
	y := TopMargin

	var cmds []DrawCommand
	for _, g := range set {
		x := startX + LabelIndent
		rowHeight := 0
		for _, l := range g.Labels {
			w, h := m.Measure(l.Text, style.FontScale, style.Thickness)
			if y+h+BottomGuard > frame.Y {
				return cmds
			}
			if c, err := LabelColor(l, results); err == nil {
				cmds = append(cmds, DrawCommand{
					Text:   l.Text,
					Kind:   l.Kind,
					Key:    g.Key,
					Origin: image.Pt(x, y+h),
					Color:  c,
				})
			}
			x += w + LabelGap
			rowHeight = h
		}
		y += rowHeight + style.LineSpacing
	}
	return cmds
}
