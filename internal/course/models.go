package course

import "errors"

var (
	ErrCourseNotFound    = errors.New("course not found")
	ErrQuizNotInManifest = errors.New("quiz is not in the course manifest")
)

// ItemKind names one of the content types that count toward completion.
type ItemKind string

const (
	KindVideo ItemKind = "video"
	KindNote  ItemKind = "note"
	KindQuiz  ItemKind = "quiz"
)

// Manifest is the full set of gradable/watchable items of one course
// revision. It is the denominator for completion.
type Manifest struct {
	CourseID string   `json:"course_id"`
	Revision int      `json:"revision"`
	Videos   []string `json:"videos"`
	Notes    []string `json:"notes"`
	Quizzes  []string `json:"quizzes"`
}

func (m Manifest) Items(kind ItemKind) []string {
	switch kind {
	case KindVideo:
		return m.Videos
	case KindNote:
		return m.Notes
	case KindQuiz:
		return m.Quizzes
	}
	return nil
}

func (m Manifest) Contains(kind ItemKind, id string) bool {
	for _, it := range m.Items(kind) {
		if it == id {
			return true
		}
	}
	return false
}

type Course struct {
	ID         string   `json:"id" validate:"required,max=64"`
	Title      string   `json:"title" validate:"required"`
	Instructor string   `json:"instructor"`
	Duration   string   `json:"duration"` // display string, e.g. "6 weeks"
	Manifest   Manifest `json:"manifest"`
}
