package course

import (
	"context"

	"github.com/Shruthi057/Clinigoal-project-sub001/internal/quiz"
)

// Catalog is the content manifest provider. Implementations return
// ErrCourseNotFound for unknown ids.
type Catalog interface {
	GetCourse(ctx context.Context, id string) (Course, error)
}

// Writer is implemented by catalogs that accept authored courses. The
// course and its quizzes are stored together or not at all.
type Writer interface {
	Publish(ctx context.Context, c Course, quizzes []quiz.Quiz) error
}
