package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	auth "github.com/Shruthi057/Clinigoal-project-sub001/internal/auth/middleware"
	"github.com/Shruthi057/Clinigoal-project-sub001/internal/enrollment"
	"github.com/Shruthi057/Clinigoal-project-sub001/internal/quiz"
)

// POST /courses/{courseID}/quizzes/{quizID}/start
// Any session the learner still has open is cancelled first.
func StartQuizHandler(svc *enrollment.Service, m *quiz.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		learnerID := auth.SubjectFromContext(ctx)
		courseID := chi.URLParam(r, "courseID")
		if _, err := svc.Get(ctx, learnerID, courseID); err != nil {
			writeError(w, err)
			return
		}
		q, err := m.Start(ctx, learnerID, courseID, chi.URLParam(r, "quizID"))
		if err != nil {
			writeError(w, err)
			return
		}
		s, _ := m.Active(learnerID)
		writeJSON(w, http.StatusOK, map[string]any{"quiz": q, "session": s})
	}
}

// GET /quiz-session
func GetSessionHandler(m *quiz.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := m.Active(auth.SubjectFromContext(r.Context()))
		if !ok {
			writeError(w, quiz.ErrNoActiveSession)
			return
		}
		writeJSON(w, http.StatusOK, s)
	}
}

type answerRequest struct {
	QuestionID string `json:"question_id" validate:"required"`
	OptionID   string `json:"option_id" validate:"required"`
}

// POST /quiz-session/answers  {"question_id": "...", "option_id": "..."}
func SelectAnswerHandler(m *quiz.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req answerRequest
		if err := decode(r, &req); err != nil {
			writeError(w, err)
			return
		}
		learnerID := auth.SubjectFromContext(r.Context())
		if err := m.SelectAnswer(learnerID, req.QuestionID, req.OptionID); err != nil {
			writeError(w, err)
			return
		}
		s, _ := m.Active(learnerID)
		writeJSON(w, http.StatusOK, s)
	}
}

// writeResult answers 202 with the result when scoring succeeded but the
// follow-up writes did not.
func writeResult(w http.ResponseWriter, res quiz.Result, err error) {
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, res)
	case res.TotalQuestions > 0 && !res.Persisted:
		writeJSON(w, http.StatusAccepted, map[string]any{"result": res, "error": err.Error()})
	default:
		writeError(w, err)
	}
}

// POST /quiz-session/submit
func SubmitQuizHandler(m *quiz.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := m.Submit(r.Context(), auth.SubjectFromContext(r.Context()))
		writeResult(w, res, err)
	}
}

// POST /quiz-session/retry-persist
// Flushes every unsaved result of the learner. 202 when some are still
// unsaved afterwards.
func RetryPersistHandler(m *quiz.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		results, err := m.RetryPersist(r.Context(), auth.SubjectFromContext(r.Context()))
		switch {
		case err == nil:
			writeJSON(w, http.StatusOK, map[string]any{"results": results})
		case len(results) > 0:
			writeJSON(w, http.StatusAccepted, map[string]any{"results": results, "error": err.Error()})
		default:
			writeError(w, err)
		}
	}
}

// GET /quiz-session/unsaved
func UnsavedResultsHandler(m *quiz.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, m.Unsaved(auth.SubjectFromContext(r.Context())))
	}
}

// POST /quiz-session/cancel
func CancelQuizHandler(m *quiz.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := m.Cancel(auth.SubjectFromContext(r.Context())); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// GET /quiz-session/result
func LastResultHandler(m *quiz.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, ok := m.LastResult(auth.SubjectFromContext(r.Context()))
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no quiz result"})
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}
