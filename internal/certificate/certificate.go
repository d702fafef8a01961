// Package certificate issues course certificates once a learner finished
// every item of a course.
package certificate

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Shruthi057/Clinigoal-project-sub001/internal/completion"
	"github.com/Shruthi057/Clinigoal-project-sub001/internal/course"
	"github.com/Shruthi057/Clinigoal-project-sub001/internal/progress"
)

var ErrNotEligible = errors.New("certificate: course not complete")

type Record struct {
	CertificateID string    `json:"certificate_id"`
	CourseID      string    `json:"course_id"`
	LearnerID     string    `json:"learner_id"`
	IssueDate     time.Time `json:"issue_date"`
	StudentName   string    `json:"student_name"`
	Instructor    string    `json:"instructor"`
	Duration      string    `json:"duration"`
}

// Learner is the identity snapshot printed on the certificate.
type Learner struct {
	ID   string
	Name string
}

// Repository stores certificates under a unique (learner, course) key.
// InsertIfAbsent returns the stored record, which is rec only if no
// certificate existed for the pair.
type Repository interface {
	InsertIfAbsent(ctx context.Context, rec Record) (stored Record, created bool, err error)
	Get(ctx context.Context, learnerID, courseID string) (Record, error)
}

var ErrNotFound = errors.New("certificate not found")

type Request struct {
	Learner  Learner
	Course   course.Course
	Progress progress.State
	// Existing is the certificate already attached to the enrollment.
	Existing *Record
}

type Issuer struct {
	repo Repository
	now  func() time.Time
}

func NewIssuer(repo Repository) *Issuer {
	return &Issuer{repo: repo, now: time.Now}
}

// Issue returns the existing certificate unchanged if there is one.
// Otherwise it checks completion against the course manifest and inserts
// a new record. created is false whenever an existing record is returned.
func (i *Issuer) Issue(ctx context.Context, req Request) (Record, bool, error) {
	if req.Existing != nil {
		return *req.Existing, false, nil
	}
	if !completion.IsComplete(req.Course.Manifest, req.Progress) {
		return Record{}, false, fmt.Errorf("%w: %d%%", ErrNotEligible, completion.Compute(req.Course.Manifest, req.Progress))
	}
	now := i.now().UTC()
	rec := Record{
		CertificateID: NewID(req.Course.ID, now),
		CourseID:      req.Course.ID,
		LearnerID:     req.Learner.ID,
		IssueDate:     now,
		StudentName:   req.Learner.Name,
		Instructor:    req.Course.Instructor,
		Duration:      req.Course.Duration,
	}
	return i.repo.InsertIfAbsent(ctx, rec)
}

// NewID derives an id from the course and a nanosecond timestamp, plus a
// random suffix so concurrent issues in the same nanosecond do not clash.
func NewID(courseID string, at time.Time) string {
	ts := strings.ToUpper(strconv.FormatInt(at.UnixNano(), 36))
	return fmt.Sprintf("CERT-%s-%s-%s", strings.ToUpper(courseID), ts, strings.ToUpper(uuid.NewString()[:8]))
}
