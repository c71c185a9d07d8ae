// Package annotation holds the pure compositing logic: static class colors, the
// defect/rating label merge and the right-aligned label layout. Drawing lives in render.
package annotation

import (
	"fmt"
	"image/color"

	"github.com/somikoronAI-Source/smretrofit/internal/models"
)

// Stroke divisors per head: thinner strokes on smaller boxes.
const (
	DefectStrokeDivisor = 40
	RatingStrokeDivisor = 45
	MinStrokeWidth      = 2
)

var defectColors = [...]color.RGBA{
	{R: 255, G: 0, B: 0, A: 255},   // Corrosion: Red
	{R: 0, G: 255, B: 0, A: 255},   // Crack: Green
	{R: 0, G: 0, B: 255, A: 255},   // Abnormal Spacing: Blue
	{R: 255, G: 165, B: 0, A: 255}, // Functional Disorder of Bearing: Orange
	{R: 128, G: 0, B: 128, A: 255}, // Spalling/Exposed Rebar: Purple
}

var ratingColors = [...]color.RGBA{
	{R: 95, G: 15, B: 64, A: 255},    // Corrosion_Dt: Dark Magenta
	{R: 0, G: 255, B: 255, A: 255},   // Crack_Ct: Cyan
	{R: 0, G: 255, B: 255, A: 255},   // Abnormal Spacing_Ct: Cyan
	{R: 0, G: 255, B: 255, A: 255},   // Functional Disorder of Bearing_Ct: Cyan
	{R: 0, G: 255, B: 255, A: 255},   // Spalling/Exposed Rebar_Ct: Cyan
	{R: 0, G: 255, B: 255, A: 255},   // Corrosion_Ct: Cyan
	{R: 95, G: 15, B: 64, A: 255},    // Crack_Dt: Dark Magenta
	{R: 255, G: 255, B: 255, A: 255}, // Abnormal Spacing_Bt: White
	{R: 255, G: 255, B: 255, A: 255}, // Functional Disorder of Bearing_Bt: White
	{R: 255, G: 255, B: 255, A: 255}, // Spalling/Exposed Rebar_Bt: White
}

// labelMap ties each defect class name to its count-type and defect/bearing-type rating names.
var labelMap = map[string][2]string{
	"Corrosion":                      {"Corrosion_Ct", "Corrosion_Dt"},
	"Crack":                          {"Crack_Ct", "Crack_Dt"},
	"Abnormal Spacing":               {"Abnormal Spacing_Ct", "Abnormal Spacing_Bt"},
	"Functional Disorder of Bearing": {"Functional Disorder of Bearing_Ct", "Functional Disorder of Bearing_Bt"},
	"Spalling/Exposed Rebar":         {"Spalling/Exposed Rebar_Ct", "Spalling/Exposed Rebar_Bt"},
}

var parentIndex = invertLabelMap(labelMap)

func invertLabelMap(m map[string][2]string) map[string]string {
	out := make(map[string]string, len(m)*2)
	for defect, ratings := range m {
		for _, r := range ratings {
			out[r] = defect
		}
	}
	return out
}

// ColorOf returns the fixed color for a class id of the given head
func ColorOf(head models.Kind, classID int) (color.RGBA, error) {
	var table []color.RGBA
	switch head {
	case models.KindDefect:
		table = defectColors[:]
	case models.KindRating:
		table = ratingColors[:]
	default:
		return color.RGBA{}, fmt.Errorf("%w: unknown head %q", models.ErrUnknownClass, head)
	}
	if classID < 0 || classID >= len(table) {
		return color.RGBA{}, fmt.Errorf("%w: %s class %d", models.ErrUnknownClass, head, classID)
	}
	return table[classID], nil
}

// ParentDefectName maps a rating class name back to the defect class it qualifies
func ParentDefectName(ratingName string) (string, bool) {
	parent, ok := parentIndex[ratingName]
	return parent, ok
}

// RatingNames returns the rating class names associated with a defect class name
func RatingNames(defectName string) ([]string, bool) {
	ratings, ok := labelMap[defectName]
	if !ok {
		return nil, false
	}
	return []string{ratings[0], ratings[1]}, true
}

// DefectClassCount and RatingClassCount are the sizes of the fixed taxonomies
func DefectClassCount() int { return len(defectColors) }

func RatingClassCount() int { return len(ratingColors) }
