package course

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/Shruthi057/Clinigoal-project-sub001/internal/db"
	"github.com/Shruthi057/Clinigoal-project-sub001/internal/quiz"
)

// RemoteCatalog reads courses and their quizzes from an external catalog
// service:
//
//	GET {base}/courses/{id}  -> Course JSON
//	GET {base}/quizzes/{id}  -> Quiz JSON, answer key included
//
// It serves as both the manifest provider and the quiz session source.
type RemoteCatalog struct {
	client *resty.Client
}

func NewRemoteCatalog(baseURL string, timeout time.Duration) *RemoteCatalog {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	c := resty.New().
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(200*time.Millisecond).
		SetHeader("Accept", "application/json")
	return &RemoteCatalog{client: c}
}

// get fetches path into out. A 404 becomes notFound; transport failures
// and other statuses become persistence errors.
func (r *RemoteCatalog) get(ctx context.Context, op, path, id string, out any, notFound error) error {
	resp, err := r.client.R().
		SetContext(ctx).
		SetPathParam("id", id).
		SetResult(out).
		Get(path)
	if err != nil {
		return db.Wrap(op, err)
	}
	switch resp.StatusCode() {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return notFound
	default:
		return db.Wrap(op, fmt.Errorf("catalog returned %s", resp.Status()))
	}
}

func (r *RemoteCatalog) GetCourse(ctx context.Context, id string) (Course, error) {
	var out Course
	if err := r.get(ctx, "catalog.get", "/courses/{id}", id, &out, ErrCourseNotFound); err != nil {
		return Course{}, err
	}
	if out.ID == "" {
		out.ID = id
	}
	out.Manifest.CourseID = out.ID
	return out, nil
}

// GetQuiz returns the quiz only if it passes the same checks as locally
// authored quizzes.
func (r *RemoteCatalog) GetQuiz(ctx context.Context, id string) (quiz.Quiz, error) {
	var out quiz.Quiz
	if err := r.get(ctx, "catalog.quiz", "/quizzes/{id}", id, &out, quiz.ErrQuizNotFound); err != nil {
		return quiz.Quiz{}, err
	}
	if out.ID == "" {
		out.ID = id
	}
	if err := quiz.Validate(out); err != nil {
		return quiz.Quiz{}, db.Wrap("catalog.quiz", fmt.Errorf("invalid quiz %s: %w", id, err))
	}
	return out, nil
}
