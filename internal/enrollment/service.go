package enrollment

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Shruthi057/Clinigoal-project-sub001/internal/certificate"
	"github.com/Shruthi057/Clinigoal-project-sub001/internal/completion"
	"github.com/Shruthi057/Clinigoal-project-sub001/internal/course"
	"github.com/Shruthi057/Clinigoal-project-sub001/internal/progress"
	"github.com/Shruthi057/Clinigoal-project-sub001/internal/quiz"
	syncx "github.com/Shruthi057/Clinigoal-project-sub001/internal/sync"
)

// ProgressReader is the read side of the progress store.
type ProgressReader interface {
	Load(ctx context.Context, learnerID, courseID string) (progress.State, error)
}

// EventSink receives domain events. Failures are logged, never returned.
type EventSink interface {
	Append(ctx context.Context, typ, key string, payload any) error
}

type Service struct {
	repo     Repository
	catalog  course.Catalog
	progress ProgressReader
	issuer   *certificate.Issuer
	events   EventSink
	now      func() time.Time
}

func NewService(repo Repository, catalog course.Catalog, pr ProgressReader, issuer *certificate.Issuer, events EventSink) *Service {
	return &Service{repo: repo, catalog: catalog, progress: pr, issuer: issuer, events: events, now: time.Now}
}

func (s *Service) emit(ctx context.Context, typ, learnerID, courseID string, payload any) {
	if s.events == nil {
		return
	}
	if err := s.events.Append(ctx, typ, learnerID+"/"+courseID, payload); err != nil {
		log.Printf("enrollment: event %s for %s/%s: %v", typ, learnerID, courseID, err)
	}
}

// Enroll is idempotent. Progress recorded before enrolling is counted
// right away.
func (s *Service) Enroll(ctx context.Context, learnerID, courseID string) (Record, error) {
	if learnerID == "" || courseID == "" {
		return Record{}, errors.New("enrollment: learner and course are required")
	}
	if _, err := s.catalog.GetCourse(ctx, courseID); err != nil {
		return Record{}, err
	}
	rec, created, err := s.repo.Create(ctx, Record{LearnerID: learnerID, CourseID: courseID, EnrolledAt: s.now().UTC()})
	if err != nil || !created {
		return rec, err
	}
	st, err := s.progress.Load(ctx, learnerID, courseID)
	if err != nil {
		return rec, err
	}
	if err := s.Recompute(ctx, learnerID, courseID, st); err != nil {
		return rec, err
	}
	return s.repo.Get(ctx, learnerID, courseID)
}

func (s *Service) Get(ctx context.Context, learnerID, courseID string) (Record, error) {
	return s.repo.Get(ctx, learnerID, courseID)
}

func (s *Service) List(ctx context.Context, learnerID string) ([]Record, error) {
	return s.repo.ListByLearner(ctx, learnerID)
}

// Recompute refreshes the percentage against the current manifest. It is
// called by the progress store after every durable change.
func (s *Service) Recompute(ctx context.Context, learnerID, courseID string, st progress.State) error {
	c, err := s.catalog.GetCourse(ctx, courseID)
	if err != nil {
		return err
	}
	pct := completion.Compute(c.Manifest, st)
	complete := completion.IsComplete(c.Manifest, st)
	first, err := s.repo.UpdateProgress(ctx, learnerID, courseID, pct, c.Manifest.Revision, complete, s.now().UTC())
	if err != nil {
		return err
	}
	s.emit(ctx, syncx.TypeProgressRecorded, learnerID, courseID, map[string]any{"percent": pct, "revision": c.Manifest.Revision})
	if first {
		s.emit(ctx, syncx.TypeEnrollmentCompleted, learnerID, courseID, map[string]any{"revision": c.Manifest.Revision})
	}
	return nil
}

func (s *Service) RecordQuizAttempt(ctx context.Context, learnerID string, r quiz.Result) error {
	if err := s.repo.AppendQuizAttempt(ctx, learnerID, r); err != nil {
		return err
	}
	s.emit(ctx, syncx.TypeQuizSubmitted, learnerID, r.CourseID, map[string]any{
		"quiz_id": r.QuizID, "score": r.Score, "passed": r.Passed,
	})
	return nil
}

func (s *Service) AddTimeSpent(ctx context.Context, learnerID, courseID string, seconds int) (Record, error) {
	if seconds <= 0 {
		return Record{}, fmt.Errorf("enrollment: time spent must be positive, got %d", seconds)
	}
	if err := s.repo.AddTimeSpent(ctx, learnerID, courseID, seconds); err != nil {
		return Record{}, err
	}
	return s.repo.Get(ctx, learnerID, courseID)
}

// IssueCertificate hands back the attached certificate if one exists.
// Otherwise the learner must have finished every item of the current
// manifest.
func (s *Service) IssueCertificate(ctx context.Context, learner certificate.Learner, courseID string) (certificate.Record, error) {
	rec, err := s.repo.Get(ctx, learner.ID, courseID)
	if err != nil {
		return certificate.Record{}, err
	}
	if rec.Certificate != nil {
		return *rec.Certificate, nil
	}
	c, err := s.catalog.GetCourse(ctx, courseID)
	if err != nil {
		return certificate.Record{}, err
	}
	st, err := s.progress.Load(ctx, learner.ID, courseID)
	if err != nil {
		return certificate.Record{}, err
	}
	cert, created, err := s.issuer.Issue(ctx, certificate.Request{Learner: learner, Course: c, Progress: st})
	if err != nil {
		return certificate.Record{}, err
	}
	if created {
		s.emit(ctx, syncx.TypeCertificateIssued, learner.ID, courseID, cert)
	}
	return cert, nil
}

// View is the dashboard's progress panel for one course.
type View struct {
	CourseID  string               `json:"course_id"`
	Revision  int                  `json:"revision"`
	Breakdown completion.Breakdown `json:"breakdown"`
	Items     progress.Snapshot    `json:"items"`
	Completed bool                 `json:"completed"`
	Eligible  bool                 `json:"certificate_eligible"`
}

func (s *Service) Progress(ctx context.Context, learnerID, courseID string) (View, error) {
	rec, err := s.repo.Get(ctx, learnerID, courseID)
	if err != nil {
		return View{}, err
	}
	c, err := s.catalog.GetCourse(ctx, courseID)
	if err != nil {
		return View{}, err
	}
	st, err := s.progress.Load(ctx, learnerID, courseID)
	if err != nil {
		return View{}, err
	}
	return View{
		CourseID:  courseID,
		Revision:  c.Manifest.Revision,
		Breakdown: completion.Summarize(c.Manifest, st),
		Items:     st.Snapshot(),
		Completed: rec.Completed,
		Eligible:  rec.Certificate != nil || completion.IsComplete(c.Manifest, st),
	}, nil
}

// QuizRecorder persists quiz outcomes: completion goes through the
// progress store so it triggers recomputation.
type QuizRecorder struct {
	svc   *Service
	store *progress.Store
}

func NewQuizRecorder(svc *Service, store *progress.Store) *QuizRecorder {
	return &QuizRecorder{svc: svc, store: store}
}

func (q *QuizRecorder) RecordQuizAttempt(ctx context.Context, learnerID string, r quiz.Result) error {
	return q.svc.RecordQuizAttempt(ctx, learnerID, r)
}

func (q *QuizRecorder) RecordQuizCompleted(ctx context.Context, learnerID, courseID, quizID string) error {
	_, err := q.store.RecordQuizCompleted(ctx, learnerID, courseID, quizID)
	return err
}
