package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	auth "github.com/Shruthi057/Clinigoal-project-sub001/internal/auth/middleware"
	"github.com/Shruthi057/Clinigoal-project-sub001/internal/enrollment"
)

// POST /courses/{courseID}/enroll
func EnrollHandler(svc *enrollment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := svc.Enroll(r.Context(), auth.SubjectFromContext(r.Context()), chi.URLParam(r, "courseID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

// GET /enrollments
func ListEnrollmentsHandler(svc *enrollment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recs, err := svc.List(r.Context(), auth.SubjectFromContext(r.Context()))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, recs)
	}
}

// GET /courses/{courseID}/enrollment
func GetEnrollmentHandler(svc *enrollment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := svc.Get(r.Context(), auth.SubjectFromContext(r.Context()), chi.URLParam(r, "courseID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

// GET /courses/{courseID}/progress
func ProgressHandler(svc *enrollment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := svc.Progress(r.Context(), auth.SubjectFromContext(r.Context()), chi.URLParam(r, "courseID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

type timeSpentRequest struct {
	Seconds int `json:"seconds" validate:"required,gt=0,lte=86400"`
}

// POST /courses/{courseID}/time  {"seconds": 120}
func AddTimeSpentHandler(svc *enrollment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req timeSpentRequest
		if err := decode(r, &req); err != nil {
			writeError(w, err)
			return
		}
		rec, err := svc.AddTimeSpent(r.Context(), auth.SubjectFromContext(r.Context()), chi.URLParam(r, "courseID"), req.Seconds)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}
