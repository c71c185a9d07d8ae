// Package render rasterizes detection boxes and merged labels onto frames with gocv.
package render

import (
	"fmt"
	"image"

	"github.com/rs/zerolog/log"
	"gocv.io/x/gocv"

	"github.com/somikoronAI-Source/smretrofit/internal/helpers"
	"github.com/somikoronAI-Source/smretrofit/internal/models"
	"github.com/somikoronAI-Source/smretrofit/internal/services/annotation"
)

const fontFace = gocv.FontHersheySimplex

// Options holds the drawing configuration, fixed at construction
type Options struct {
	DetectMode    models.Mode
	LabelMode     models.Mode
	FontSize      int
	FontThickness int
	LineSpacing   int
}

// Renderer draws boxes and labels for one frame at a time. It holds no per-frame state
// and is safe for concurrent use.
type Renderer struct {
	opts     Options
	measurer annotation.TextMeasurer
}

// NewRenderer validates the options and creates a renderer
func NewRenderer(opts Options) (*Renderer, error) {
	if !opts.DetectMode.IsValid() {
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidDetectMode, opts.DetectMode)
	}
	if !opts.LabelMode.IsValid() {
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidLabelMode, opts.LabelMode)
	}
	if opts.LineSpacing < 1 {
		return nil, fmt.Errorf("line spacing must be positive, got %d", opts.LineSpacing)
	}
	if opts.FontThickness < 1 {
		opts.FontThickness = 1
	}
	return &Renderer{opts: opts, measurer: HersheyMeasurer{}}, nil
}

// Annotate draws the boxes selected by the detect mode, then the merged label block, onto frame
// in place. Both modes are checked before any pixel is touched.
func (r *Renderer) Annotate(frame *gocv.Mat, results models.FrameResults) error {
	if !r.opts.DetectMode.IsValid() {
		return fmt.Errorf("%w: %q", models.ErrInvalidDetectMode, r.opts.DetectMode)
	}
	set, err := annotation.Merge(results.Defect, results.Rating, r.opts.LabelMode)
	if err != nil {
		return err
	}
	if frame == nil || frame.Empty() {
		return fmt.Errorf("empty frame")
	}

	if r.opts.DetectMode.Includes(models.KindDefect) {
		r.drawBoxes(frame, models.KindDefect, results.Defect, annotation.DefectStrokeDivisor)
	}
	if r.opts.DetectMode.Includes(models.KindRating) {
		r.drawBoxes(frame, models.KindRating, results.Rating, annotation.RatingStrokeDivisor)
	}

	size := image.Pt(frame.Cols(), frame.Rows())
	style := annotation.TextStyle{
		FontScale:   annotation.FontScale(size.Y, r.opts.FontSize),
		Thickness:   r.opts.FontThickness,
		LineSpacing: r.opts.LineSpacing,
	}
	for _, cmd := range annotation.Layout(set, results, size, style, r.measurer) {
		gocv.PutText(frame, cmd.Text, cmd.Origin, fontFace, style.FontScale, cmd.Color, style.Thickness)
	}
	return nil
}

func (r *Renderer) drawBoxes(frame *gocv.Mat, head models.Kind, result models.DetectionResult, divisor int) {
	bounds := image.Rect(0, 0, frame.Cols(), frame.Rows())
	for _, box := range result.Data {
		c, err := annotation.ColorOf(head, box.BoxCls)
		if err != nil {
			log.Warn().
				Err(err).
				Str("head", head.String()).
				Int("box_cls", box.BoxCls).
				Msg("No color for class, skipping box")
			continue
		}
		rect := helpers.ClampRect(box.Rect(), bounds)
		if rect.Empty() {
			log.Debug().
				Str("head", head.String()).
				Int("box_cls", box.BoxCls).
				Floats64("box_xyxy", box.BoxXYXY[:]).
				Msg("Box outside frame, skipping")
			continue
		}
		gocv.Rectangle(frame, rect, c, annotation.StrokeWidth(rect, divisor))
	}
}

// HersheyMeasurer measures text with the Hershey simplex font used for drawing
type HersheyMeasurer struct{}

// Measure implements annotation.TextMeasurer
func (HersheyMeasurer) Measure(text string, fontScale float64, thickness int) (int, int) {
	size := gocv.GetTextSize(text, fontFace, fontScale, thickness)
	return size.X, size.Y
}
