package annotation

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/somikoronAI-Source/smretrofit/internal/models"
)

func TestColorOf(t *testing.T) {
	tests := []struct {
		name    string
		head    models.Kind
		classID int
		want    color.RGBA
		wantErr bool
	}{
		{name: "corrosion is red", head: models.KindDefect, classID: 0, want: color.RGBA{R: 255, A: 255}},
		{name: "spalling is purple", head: models.KindDefect, classID: 4, want: color.RGBA{R: 128, B: 128, A: 255}},
		{name: "corrosion dt is dark magenta", head: models.KindRating, classID: 0, want: color.RGBA{R: 95, G: 15, B: 64, A: 255}},
		{name: "last rating is white", head: models.KindRating, classID: 9, want: color.RGBA{R: 255, G: 255, B: 255, A: 255}},
		{name: "defect out of range", head: models.KindDefect, classID: 5, wantErr: true},
		{name: "rating out of range", head: models.KindRating, classID: 10, wantErr: true},
		{name: "negative id", head: models.KindDefect, classID: -1, wantErr: true},
		{name: "unknown head", head: models.Kind("other"), classID: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ColorOf(tt.head, tt.classID)
			if tt.wantErr {
				require.ErrorIs(t, err, models.ErrUnknownClass)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestParentDefectNameCoversEveryRating(t *testing.T) {
	for defect, ratings := range labelMap {
		for _, r := range ratings {
			parent, ok := ParentDefectName(r)
			require.True(t, ok, r)
			require.Equal(t, defect, parent)
		}
	}

	_, ok := ParentDefectName("Corrosion")
	require.False(t, ok)
}

func TestRatingNamesReturnsCopy(t *testing.T) {
	names, ok := RatingNames("Crack")
	require.True(t, ok)
	require.Equal(t, []string{"Crack_Ct", "Crack_Dt"}, names)

	names[0] = "mutated"
	again, _ := RatingNames("Crack")
	require.Equal(t, "Crack_Ct", again[0])

	_, ok = RatingNames("Rust")
	require.False(t, ok)
}

func TestTaxonomySizes(t *testing.T) {
	require.Equal(t, 5, DefectClassCount())
	require.Equal(t, 10, RatingClassCount())
	require.Len(t, labelMap, DefectClassCount())
	require.Len(t, parentIndex, RatingClassCount())
}
