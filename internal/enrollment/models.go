package enrollment

import (
	"context"
	"errors"
	"time"

	"github.com/Shruthi057/Clinigoal-project-sub001/internal/certificate"
	"github.com/Shruthi057/Clinigoal-project-sub001/internal/quiz"
)

var ErrNotEnrolled = errors.New("not enrolled in course")

// Record is the durable learner/course relationship. Completed flips to
// true once and stays true.
type Record struct {
	ID                    string              `json:"id"`
	LearnerID             string              `json:"learner_id"`
	CourseID              string              `json:"course_id"`
	ProgressPercent       int                 `json:"progress_percent"`
	Completed             bool                `json:"completed"`
	CompletedAt           *time.Time          `json:"completed_at,omitempty"`
	ManifestRevision      int                 `json:"manifest_revision"`
	QuizAttempts          []quiz.Result       `json:"quiz_attempts"`
	TotalTimeSpentMinutes int                 `json:"total_time_spent_minutes"`
	EnrolledAt            time.Time           `json:"enrolled_at"`
	Certificate           *certificate.Record `json:"certificate,omitempty"`
}

type Repository interface {
	// Create inserts rec unless the pair is already enrolled and returns
	// the stored record either way.
	Create(ctx context.Context, rec Record) (stored Record, created bool, err error)
	Get(ctx context.Context, learnerID, courseID string) (Record, error)
	ListByLearner(ctx context.Context, learnerID string) ([]Record, error)
	// UpdateProgress stores the recomputed percentage. When complete is
	// true it also sets completed_at if unset and reports whether this
	// call was the one that set it.
	UpdateProgress(ctx context.Context, learnerID, courseID string, percent, revision int, complete bool, at time.Time) (firstCompletion bool, err error)
	// AppendQuizAttempt adds r to the history and its duration to the
	// time spent, atomically.
	AppendQuizAttempt(ctx context.Context, learnerID string, r quiz.Result) error
	AddTimeSpent(ctx context.Context, learnerID, courseID string, seconds int) error
}
