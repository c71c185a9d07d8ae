package annotation

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/somikoronAI-Source/smretrofit/internal/models"
)

// Label is one piece of text shown next to a defect class row
type Label struct {
	Text string
	Kind models.Kind
}

// LabelGroup is the ordered, deduplicated label set for one defect class id
type LabelGroup struct {
	Key    int // defect class id
	Labels []Label
}

// Texts returns the label texts in display order
func (g LabelGroup) Texts() []string {
	texts := make([]string, len(g.Labels))
	for i, l := range g.Labels {
		texts[i] = l.Text
	}
	return texts
}

// DefectName returns the defect label that seeded the group, if it survived filtering
func (g LabelGroup) DefectName() (string, bool) {
	for _, l := range g.Labels {
		if l.Kind == models.KindDefect {
			return l.Text, true
		}
	}
	return "", false
}

func (g *LabelGroup) add(l Label) {
	for _, existing := range g.Labels {
		if existing == l {
			return
		}
	}
	g.Labels = append(g.Labels, l)
}

// LabelSet is the per-frame combined label set, in first-appearance order of defect classes
type LabelSet []LabelGroup

// Group returns the group for a defect class id
func (s LabelSet) Group(key int) (LabelGroup, bool) {
	for _, g := range s {
		if g.Key == key {
			return g, true
		}
	}
	return LabelGroup{}, false
}

// Merge combines the defect and rating results of one frame into per-defect-class label
// sets. Ratings attach to the row of their parent defect; a rating whose parent defect
// was not detected in the same frame is dropped.
func Merge(defect, rating models.DetectionResult, labelMode models.Mode) (LabelSet, error) {
	if !labelMode.IsValid() {
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidLabelMode, labelMode)
	}

	var set LabelSet
	seeded := make(map[int]bool)
	for _, box := range defect.Data {
		if seeded[box.BoxCls] {
			continue
		}
		name, ok := defect.ClassName(box.BoxCls)
		if !ok {
			log.Warn().Int("box_cls", box.BoxCls).Msg("Defect class missing from response class table, skipping label")
			continue
		}
		seeded[box.BoxCls] = true
		set = append(set, LabelGroup{
			Key:    box.BoxCls,
			Labels: []Label{{Text: name, Kind: models.KindDefect}},
		})
	}

	for _, cls := range distinctClasses(rating.Data) {
		name, ok := rating.ClassName(cls)
		if !ok {
			log.Warn().Int("box_cls", cls).Msg("Rating class missing from response class table, skipping label")
			continue
		}
		parent, ok := ParentDefectName(name)
		if !ok {
			continue
		}
		for i := range set {
			if set[i].Labels[0].Text == parent {
				set[i].add(Label{Text: name, Kind: models.KindRating})
			}
		}
	}

	for i := range set {
		set[i].Labels = filterLabels(set[i].Labels, labelMode)
		sortDefectFirst(set[i].Labels)
	}
	return set, nil
}

// distinctClasses returns the class ids present in boxes, in first-appearance order
func distinctClasses(boxes []models.BoxRecord) []int {
	seen := make(map[int]bool, len(boxes))
	var out []int
	for _, b := range boxes {
		if seen[b.BoxCls] {
			continue
		}
		seen[b.BoxCls] = true
		out = append(out, b.BoxCls)
	}
	return out
}

func filterLabels(labels []Label, mode models.Mode) []Label {
	out := make([]Label, 0, len(labels))
	for _, l := range labels {
		if mode.Includes(l.Kind) {
			out = append(out, l)
		}
	}
	return out
}

func sortDefectFirst(labels []Label) {
	sort.SliceStable(labels, func(i, j int) bool {
		return labels[i].Kind == models.KindDefect && labels[j].Kind != models.KindDefect
	})
}
