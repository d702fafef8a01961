package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auth "github.com/Shruthi057/Clinigoal-project-sub001/internal/auth/middleware"
	"github.com/Shruthi057/Clinigoal-project-sub001/internal/certificate"
	"github.com/Shruthi057/Clinigoal-project-sub001/internal/course"
	"github.com/Shruthi057/Clinigoal-project-sub001/internal/db"
	"github.com/Shruthi057/Clinigoal-project-sub001/internal/enrollment"
	"github.com/Shruthi057/Clinigoal-project-sub001/internal/progress"
	"github.com/Shruthi057/Clinigoal-project-sub001/internal/quiz"
	syncx "github.com/Shruthi057/Clinigoal-project-sub001/internal/sync"
)

type testServer struct {
	t       *testing.T
	srv     *httptest.Server
	authSvc *auth.AuthService
}

// newTestServer wires the real stack; wrap, when given, sits between the
// session manager and the enrollment recorder.
func newTestServer(t *testing.T, wrap ...func(quiz.Recorder) quiz.Recorder) *testServer {
	t.Helper()
	dbh, err := db.Open(context.Background(), db.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = dbh.Close() })

	cat := course.NewSQLCatalog(dbh)
	quizzes := quiz.NewSQLStore(dbh)
	progRepo := progress.NewSQLRepository(dbh)
	events := syncx.NewEventRepo(dbh, "")
	svc := enrollment.NewService(enrollment.NewSQLRepository(dbh), cat, progRepo,
		certificate.NewIssuer(certificate.NewSQLRepository(dbh)), events)
	store := progress.NewStore(progRepo, svc)
	var rec quiz.Recorder = enrollment.NewQuizRecorder(svc, store)
	for _, w := range wrap {
		rec = w(rec)
	}
	sessions := quiz.NewManager(quizzes, rec)
	t.Cleanup(sessions.Close)

	a := auth.NewAuthService("test-secret")
	r := chi.NewRouter()
	Mount(r, Deps{
		Auth: a, Catalog: cat, CatalogWriter: cat,
		Progress: store, Enrollments: svc, Sessions: sessions, Events: events,
		EnableDevTokens: true,
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return &testServer{t: t, srv: srv, authSvc: a}
}

func (ts *testServer) token(sub, name, role string) string {
	tok, err := ts.authSvc.IssueJWT(sub, name, role)
	require.NoError(ts.t, err)
	return tok
}

// do sends body as JSON and decodes the response into out when non-nil.
func (ts *testServer) do(method, path, tok string, body any, out any) int {
	ts.t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(ts.t, err)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, ts.srv.URL+path, rd)
	require.NoError(ts.t, err)
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(ts.t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(ts.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func seedCourse() putCourseRequest {
	return putCourseRequest{
		Course: course.Course{
			ID: "c1", Title: "Clinical Basics", Instructor: "Dr. Rao", Duration: "6 weeks",
			Manifest: course.Manifest{Videos: []string{"v1"}, Notes: []string{"n1"}, Quizzes: []string{"qz1"}},
		},
		Quizzes: []quiz.Quiz{{
			ID: "qz1", Title: "Check", PassingScorePercent: 50,
			Questions: []quiz.Question{
				{ID: "q1", Text: "1+1?", Options: []quiz.Option{{ID: "a", Text: "2", IsCorrect: true}, {ID: "b", Text: "3"}}},
				{ID: "q2", Text: "2+2?", Options: []quiz.Option{{ID: "a", Text: "4", IsCorrect: true}, {ID: "b", Text: "5"}}},
			},
		}},
	}
}

func TestLearnerJourney(t *testing.T) {
	ts := newTestServer(t)
	instr := ts.token("i1", "Dr. Rao", "instructor")
	learner := ts.token("u1", "Ada Lovelace", "learner")

	require.Equal(t, http.StatusForbidden, ts.do(http.MethodPut, "/catalog/courses", learner, seedCourse(), nil))
	require.Equal(t, http.StatusOK, ts.do(http.MethodPut, "/catalog/courses", instr, seedCourse(), nil))

	// not enrolled yet
	assert.Equal(t, http.StatusNotFound, ts.do(http.MethodPost, "/courses/c1/videos/v1/watched", learner, nil, nil))

	var rec enrollment.Record
	require.Equal(t, http.StatusOK, ts.do(http.MethodPost, "/courses/c1/enroll", learner, nil, &rec))
	assert.Equal(t, "c1", rec.CourseID)

	var snap progress.Snapshot
	require.Equal(t, http.StatusOK, ts.do(http.MethodPost, "/courses/c1/videos/v1/watched", learner, nil, &snap))
	assert.Equal(t, []string{"v1"}, snap.WatchedVideos)
	assert.Equal(t, http.StatusNotFound, ts.do(http.MethodPost, "/courses/c1/videos/v9/watched", learner, nil, nil))
	require.Equal(t, http.StatusOK, ts.do(http.MethodPost, "/courses/c1/notes/n1/completed", learner, nil, nil))

	// 2 of 3 items done
	assert.Equal(t, http.StatusForbidden, ts.do(http.MethodPost, "/courses/c1/certificate", learner, nil, nil))

	var started struct {
		Quiz    quiz.Quiz    `json:"quiz"`
		Session quiz.Session `json:"session"`
	}
	require.Equal(t, http.StatusOK, ts.do(http.MethodPost, "/courses/c1/quizzes/qz1/start", learner, nil, &started))
	assert.False(t, started.Quiz.Questions[0].Options[0].IsCorrect)
	assert.Equal(t, quiz.StateInProgress, started.Session.State)

	require.Equal(t, http.StatusOK, ts.do(http.MethodPost, "/quiz-session/answers", learner, answerRequest{QuestionID: "q1", OptionID: "a"}, nil))
	assert.Equal(t, http.StatusBadRequest, ts.do(http.MethodPost, "/quiz-session/answers", learner, answerRequest{QuestionID: "q1", OptionID: "zz"}, nil))

	var res quiz.Result
	require.Equal(t, http.StatusOK, ts.do(http.MethodPost, "/quiz-session/submit", learner, nil, &res))
	assert.Equal(t, 50, res.Score)
	assert.True(t, res.Passed)
	assert.True(t, res.Persisted)

	assert.Equal(t, http.StatusNotFound, ts.do(http.MethodPost, "/quiz-session/answers", learner, answerRequest{QuestionID: "q1", OptionID: "a"}, nil))
	assert.Equal(t, http.StatusConflict, ts.do(http.MethodPost, "/quiz-session/retry-persist", learner, nil, nil))

	var cert certificate.Record
	require.Equal(t, http.StatusOK, ts.do(http.MethodPost, "/courses/c1/certificate", learner, nil, &cert))
	assert.Equal(t, "Ada Lovelace", cert.StudentName)
	var again certificate.Record
	require.Equal(t, http.StatusOK, ts.do(http.MethodPost, "/courses/c1/certificate", learner, nil, &again))
	assert.Equal(t, cert.CertificateID, again.CertificateID)

	require.Equal(t, http.StatusOK, ts.do(http.MethodGet, "/courses/c1/enrollment", learner, nil, &rec))
	assert.True(t, rec.Completed)
	assert.Equal(t, 100, rec.ProgressPercent)
	require.Len(t, rec.QuizAttempts, 1)
	require.NotNil(t, rec.Certificate)
	assert.Equal(t, cert.CertificateID, rec.Certificate.CertificateID)

	var events []syncx.Event
	assert.Equal(t, http.StatusForbidden, ts.do(http.MethodGet, "/events", learner, nil, nil))
	require.Equal(t, http.StatusOK, ts.do(http.MethodGet, "/events", instr, nil, &events))
	assert.NotEmpty(t, events)
	var page []syncx.Event
	require.Equal(t, http.StatusOK, ts.do(http.MethodGet, "/events?after=1&limit=2", instr, nil, &page))
	assert.Len(t, page, 2)
	assert.Equal(t, int64(2), page[0].Seq)
	assert.Equal(t, http.StatusBadRequest, ts.do(http.MethodGet, "/events?after=abc", instr, nil, nil))
	assert.Equal(t, http.StatusBadRequest, ts.do(http.MethodGet, "/events?limit=-1", instr, nil, nil))
}

func TestQuizSessionEndpoints(t *testing.T) {
	ts := newTestServer(t)
	instr := ts.token("i1", "", "instructor")
	learner := ts.token("u1", "", "learner")
	require.Equal(t, http.StatusOK, ts.do(http.MethodPut, "/catalog/courses", instr, seedCourse(), nil))

	assert.Equal(t, http.StatusNotFound, ts.do(http.MethodPost, "/courses/c1/quizzes/qz1/start", learner, nil, nil))
	require.Equal(t, http.StatusOK, ts.do(http.MethodPost, "/courses/c1/enroll", learner, nil, nil))
	assert.Equal(t, http.StatusNotFound, ts.do(http.MethodPost, "/courses/c1/quizzes/nope/start", learner, nil, nil))
	assert.Equal(t, http.StatusNotFound, ts.do(http.MethodGet, "/quiz-session", learner, nil, nil))

	require.Equal(t, http.StatusOK, ts.do(http.MethodPost, "/courses/c1/quizzes/qz1/start", learner, nil, nil))
	var s quiz.Session
	require.Equal(t, http.StatusOK, ts.do(http.MethodGet, "/quiz-session", learner, nil, &s))
	assert.Equal(t, "qz1", s.QuizID)

	assert.Equal(t, http.StatusNoContent, ts.do(http.MethodPost, "/quiz-session/cancel", learner, nil, nil))
	assert.Equal(t, http.StatusNoContent, ts.do(http.MethodPost, "/quiz-session/cancel", learner, nil, nil))
	assert.Equal(t, http.StatusNotFound, ts.do(http.MethodPost, "/quiz-session/submit", learner, nil, nil))
	assert.Equal(t, http.StatusNotFound, ts.do(http.MethodGet, "/quiz-session/result", learner, nil, nil))
}

func TestCatalogRejectsBadQuiz(t *testing.T) {
	ts := newTestServer(t)
	instr := ts.token("i1", "", "instructor")

	req := seedCourse()
	req.Quizzes[0].Questions[0].Options[1].IsCorrect = true
	assert.Equal(t, http.StatusBadRequest, ts.do(http.MethodPut, "/catalog/courses", instr, req, nil))

	req = seedCourse()
	req.Course.Manifest.Quizzes = nil
	assert.Equal(t, http.StatusBadRequest, ts.do(http.MethodPut, "/catalog/courses", instr, req, nil))

	req = seedCourse()
	req.Course.Title = ""
	assert.Equal(t, http.StatusBadRequest, ts.do(http.MethodPut, "/catalog/courses", instr, req, nil))

	req = seedCourse()
	req.Quizzes[0].Questions = nil
	assert.Equal(t, http.StatusBadRequest, ts.do(http.MethodPut, "/catalog/courses", instr, req, nil))

	assert.Equal(t, http.StatusNotFound, ts.do(http.MethodGet, "/courses/c1", instr, nil, nil))
}

func TestAuthAndTime(t *testing.T) {
	ts := newTestServer(t)
	assert.Equal(t, http.StatusUnauthorized, ts.do(http.MethodGet, "/enrollments", "", nil, nil))

	var tok map[string]string
	require.Equal(t, http.StatusOK, ts.do(http.MethodPost, "/auth/token", "", map[string]string{"sub": "u1", "role": "learner"}, &tok))
	learner := tok["access_token"]
	require.NotEmpty(t, learner)

	var list []enrollment.Record
	require.Equal(t, http.StatusOK, ts.do(http.MethodGet, "/enrollments", learner, nil, &list))
	assert.Empty(t, list)

	instr := ts.token("i1", "", "instructor")
	require.Equal(t, http.StatusOK, ts.do(http.MethodPut, "/catalog/courses", instr, seedCourse(), nil))
	require.Equal(t, http.StatusOK, ts.do(http.MethodPost, "/courses/c1/enroll", learner, nil, nil))

	assert.Equal(t, http.StatusBadRequest, ts.do(http.MethodPost, "/courses/c1/time", learner, timeSpentRequest{Seconds: -5}, nil))
	var rec enrollment.Record
	require.Equal(t, http.StatusOK, ts.do(http.MethodPost, "/courses/c1/time", learner, timeSpentRequest{Seconds: 180}, &rec))
	assert.Equal(t, 3, rec.TotalTimeSpentMinutes)

	var view enrollment.View
	require.Equal(t, http.StatusOK, ts.do(http.MethodGet, "/courses/c1/progress", learner, nil, &view))
	assert.Equal(t, 3, view.Breakdown.Videos.Total+view.Breakdown.Notes.Total+view.Breakdown.Quizzes.Total)
	assert.Equal(t, http.StatusNotFound, ts.do(http.MethodGet, "/courses/c1/certificate", learner, nil, nil))

	require.Equal(t, http.StatusOK, ts.do(http.MethodPost, "/courses/c1/videos/v1/watched", learner, nil, nil))
	var snap progress.Snapshot
	require.Equal(t, http.StatusOK, ts.do(http.MethodDelete, "/courses/c1/progress", learner, nil, &snap))
	assert.Empty(t, snap.WatchedVideos)
	require.Equal(t, http.StatusOK, ts.do(http.MethodGet, "/courses/c1/enrollment", learner, nil, &rec))
	assert.Equal(t, 0, rec.ProgressPercent)
}

// failingCompletions fails the first n completion writes, then delegates.
type failingCompletions struct {
	quiz.Recorder
	mu sync.Mutex
	n  int
}

func (f *failingCompletions) RecordQuizCompleted(ctx context.Context, learnerID, courseID, quizID string) error {
	f.mu.Lock()
	fail := f.n > 0
	if fail {
		f.n--
	}
	f.mu.Unlock()
	if fail {
		return db.Wrap("progress.add", errors.New("database is locked"))
	}
	return f.Recorder.RecordQuizCompleted(ctx, learnerID, courseID, quizID)
}

func TestSubmitWithFailedWritesIsAcceptedAndRetried(t *testing.T) {
	ts := newTestServer(t, func(r quiz.Recorder) quiz.Recorder {
		return &failingCompletions{Recorder: r, n: 1}
	})
	instr := ts.token("i1", "", "instructor")
	learner := ts.token("u1", "", "learner")
	require.Equal(t, http.StatusOK, ts.do(http.MethodPut, "/catalog/courses", instr, seedCourse(), nil))
	require.Equal(t, http.StatusOK, ts.do(http.MethodPost, "/courses/c1/enroll", learner, nil, nil))

	require.Equal(t, http.StatusOK, ts.do(http.MethodPost, "/courses/c1/quizzes/qz1/start", learner, nil, nil))
	require.Equal(t, http.StatusOK, ts.do(http.MethodPost, "/quiz-session/answers", learner, answerRequest{QuestionID: "q1", OptionID: "a"}, nil))
	require.Equal(t, http.StatusOK, ts.do(http.MethodPost, "/quiz-session/answers", learner, answerRequest{QuestionID: "q2", OptionID: "a"}, nil))

	var accepted struct {
		Result quiz.Result `json:"result"`
		Error  string      `json:"error"`
	}
	require.Equal(t, http.StatusAccepted, ts.do(http.MethodPost, "/quiz-session/submit", learner, nil, &accepted))
	assert.Equal(t, 100, accepted.Result.Score)
	assert.True(t, accepted.Result.Passed)
	assert.False(t, accepted.Result.Persisted)
	assert.Contains(t, accepted.Error, "database is locked")

	var rec enrollment.Record
	require.Equal(t, http.StatusOK, ts.do(http.MethodGet, "/courses/c1/enrollment", learner, nil, &rec))
	assert.Empty(t, rec.QuizAttempts)
	assert.Equal(t, 0, rec.ProgressPercent)

	var unsaved []quiz.Result
	require.Equal(t, http.StatusOK, ts.do(http.MethodGet, "/quiz-session/unsaved", learner, nil, &unsaved))
	require.Len(t, unsaved, 1)
	assert.Equal(t, "qz1", unsaved[0].QuizID)

	var retried struct {
		Results []quiz.Result `json:"results"`
	}
	require.Equal(t, http.StatusOK, ts.do(http.MethodPost, "/quiz-session/retry-persist", learner, nil, &retried))
	require.Len(t, retried.Results, 1)
	assert.True(t, retried.Results[0].Persisted)
	assert.Equal(t, accepted.Result.SubmittedAt.Unix(), retried.Results[0].SubmittedAt.Unix())

	require.Equal(t, http.StatusOK, ts.do(http.MethodGet, "/courses/c1/enrollment", learner, nil, &rec))
	require.Len(t, rec.QuizAttempts, 1)
	assert.Equal(t, 33, rec.ProgressPercent)
	assert.Equal(t, http.StatusConflict, ts.do(http.MethodPost, "/quiz-session/retry-persist", learner, nil, nil))
	require.Equal(t, http.StatusOK, ts.do(http.MethodGet, "/quiz-session/unsaved", learner, nil, &unsaved))
	assert.Empty(t, unsaved)
}
