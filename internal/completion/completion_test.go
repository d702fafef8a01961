package completion

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Shruthi057/Clinigoal-project-sub001/internal/course"
	"github.com/Shruthi057/Clinigoal-project-sub001/internal/progress"
)

func manifest(videos, notes, quizzes int) course.Manifest {
	m := course.Manifest{CourseID: "c1"}
	for i := 0; i < videos; i++ {
		m.Videos = append(m.Videos, fmt.Sprintf("v%d", i))
	}
	for i := 0; i < notes; i++ {
		m.Notes = append(m.Notes, fmt.Sprintf("n%d", i))
	}
	for i := 0; i < quizzes; i++ {
		m.Quizzes = append(m.Quizzes, fmt.Sprintf("q%d", i))
	}
	return m
}

// stateWith marks the first k manifest items done, walking videos, notes, quizzes.
func stateWith(m course.Manifest, k int) progress.State {
	st := progress.NewState()
	for _, kind := range kinds {
		for _, id := range m.Items(kind) {
			if k == 0 {
				return st
			}
			st.Add(kind, id)
			k--
		}
	}
	return st
}

func TestComputeRoundsOverAllKinds(t *testing.T) {
	for _, n := range []int{1, 3, 7, 9, 12} {
		m := manifest(n/3+n%3, n/3, n/3)
		for k := 0; k <= n; k++ {
			want := int(math.Round(100 * float64(k) / float64(n)))
			assert.Equal(t, want, Compute(m, stateWith(m, k)), "n=%d k=%d", n, k)
		}
	}
}

func TestComputeEmptyManifestIsZero(t *testing.T) {
	st := progress.NewState()
	st.Add(course.KindVideo, "v0")
	assert.Equal(t, 0, Compute(course.Manifest{}, st))
	assert.False(t, IsComplete(course.Manifest{}, st))
}

func TestStaleProgressIsIgnored(t *testing.T) {
	m := manifest(2, 0, 0)
	st := stateWith(m, 1)
	st.Add(course.KindVideo, "removed-video")
	st.Add(course.KindNote, "n-old")

	assert.Equal(t, 50, Compute(m, st))
}

func TestSameItemIDInOtherKindDoesNotCount(t *testing.T) {
	m := course.Manifest{Videos: []string{"x"}, Notes: []string{"y"}}
	st := progress.NewState()
	st.Add(course.KindNote, "x")
	assert.Equal(t, 0, Compute(m, st))
}

func TestIsCompleteNeedsEveryItem(t *testing.T) {
	m := manifest(50, 50, 100)
	assert.False(t, IsComplete(m, stateWith(m, 199)))
	assert.True(t, IsComplete(m, stateWith(m, 200)))

	small := manifest(2, 1, 1)
	assert.Equal(t, 75, Compute(small, stateWith(small, 3)))
	assert.False(t, IsComplete(small, stateWith(small, 3)))
	assert.True(t, IsComplete(small, stateWith(small, 4)))
}

func TestSummarizeBreakdown(t *testing.T) {
	m := manifest(2, 2, 1)
	st := progress.NewState()
	st.Add(course.KindVideo, "v1")
	st.Add(course.KindQuiz, "q0")

	b := Summarize(m, st)
	assert.Equal(t, KindCount{Done: 1, Total: 2}, b.Videos)
	assert.Equal(t, KindCount{Done: 0, Total: 2}, b.Notes)
	assert.Equal(t, KindCount{Done: 1, Total: 1}, b.Quizzes)
	assert.Equal(t, 40, b.Percent)
}

func TestComputeIsDeterministic(t *testing.T) {
	m := manifest(3, 2, 2)
	st := stateWith(m, 5)
	first := Compute(m, st)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, Compute(m, st))
	}
}
