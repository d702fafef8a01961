package progress

import (
	"sort"

	"github.com/Shruthi057/Clinigoal-project-sub001/internal/course"
)

// State is the set of content items a learner completed in one course.
// It only grows, except through an explicit reset.
type State struct {
	WatchedVideos    map[string]struct{}
	CompletedNotes   map[string]struct{}
	CompletedQuizzes map[string]struct{}
}

func NewState() State {
	return State{
		WatchedVideos:    map[string]struct{}{},
		CompletedNotes:   map[string]struct{}{},
		CompletedQuizzes: map[string]struct{}{},
	}
}

func (s State) set(kind course.ItemKind) map[string]struct{} {
	switch kind {
	case course.KindVideo:
		return s.WatchedVideos
	case course.KindNote:
		return s.CompletedNotes
	case course.KindQuiz:
		return s.CompletedQuizzes
	}
	return nil
}

func (s State) Has(kind course.ItemKind, id string) bool {
	_, ok := s.set(kind)[id]
	return ok
}

// Add is used by repositories while loading rows.
func (s State) Add(kind course.ItemKind, id string) {
	if m := s.set(kind); m != nil {
		m[id] = struct{}{}
	}
}

// Snapshot is the JSON form of State.
type Snapshot struct {
	WatchedVideos    []string `json:"watched_videos"`
	CompletedNotes   []string `json:"completed_notes"`
	CompletedQuizzes []string `json:"completed_quizzes"`
}

func (s State) Snapshot() Snapshot {
	return Snapshot{
		WatchedVideos:    sortedKeys(s.WatchedVideos),
		CompletedNotes:   sortedKeys(s.CompletedNotes),
		CompletedQuizzes: sortedKeys(s.CompletedQuizzes),
	}
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
