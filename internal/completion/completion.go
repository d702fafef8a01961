// Package completion turns a course manifest and a learner's progress into
// a completion percentage. Everything here is pure.
package completion

import (
	"math"

	"github.com/Shruthi057/Clinigoal-project-sub001/internal/course"
	"github.com/Shruthi057/Clinigoal-project-sub001/internal/progress"
)

var kinds = []course.ItemKind{course.KindVideo, course.KindNote, course.KindQuiz}

// KindCount is done/total for one content type.
type KindCount struct {
	Done  int `json:"done"`
	Total int `json:"total"`
}

type Breakdown struct {
	Videos  KindCount `json:"videos"`
	Notes   KindCount `json:"notes"`
	Quizzes KindCount `json:"quizzes"`
	Percent int       `json:"percent"`
}

// Compute returns round(100*k/n) where n counts manifest items and k counts
// the manifest items present in st. Progress entries outside the manifest
// are ignored. An empty manifest yields 0.
func Compute(m course.Manifest, st progress.State) int {
	return Summarize(m, st).Percent
}

// IsComplete reports whether every manifest item is done. For manifests
// of fewer than 200 items this is exactly Compute == 100; above that,
// rounding alone could reach 100 with an item still missing.
func IsComplete(m course.Manifest, st progress.State) bool {
	b := Summarize(m, st)
	done := b.Videos.Done + b.Notes.Done + b.Quizzes.Done
	total := b.Videos.Total + b.Notes.Total + b.Quizzes.Total
	return total > 0 && done == total
}

func Summarize(m course.Manifest, st progress.State) Breakdown {
	var b Breakdown
	done, total := 0, 0
	for _, kind := range kinds {
		kc := count(m, st, kind)
		done += kc.Done
		total += kc.Total
		switch kind {
		case course.KindVideo:
			b.Videos = kc
		case course.KindNote:
			b.Notes = kc
		case course.KindQuiz:
			b.Quizzes = kc
		}
	}
	if total == 0 {
		return b
	}
	b.Percent = int(math.Round(100 * float64(done) / float64(total)))
	return b
}

func count(m course.Manifest, st progress.State, kind course.ItemKind) KindCount {
	seen := map[string]struct{}{}
	var kc KindCount
	for _, id := range m.Items(kind) {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		kc.Total++
		if st.Has(kind, id) {
			kc.Done++
		}
	}
	return kc
}
