package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	auth "github.com/Shruthi057/Clinigoal-project-sub001/internal/auth/middleware"
	"github.com/Shruthi057/Clinigoal-project-sub001/internal/certificate"
	"github.com/Shruthi057/Clinigoal-project-sub001/internal/enrollment"
)

// POST /courses/{courseID}/certificate
// Idempotent: a learner who already holds a certificate gets it back.
func IssueCertificateHandler(svc *enrollment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		learner := certificate.Learner{ID: auth.SubjectFromContext(ctx), Name: auth.NameFromContext(ctx)}
		cert, err := svc.IssueCertificate(ctx, learner, chi.URLParam(r, "courseID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, cert)
	}
}

// GET /courses/{courseID}/certificate
func GetCertificateHandler(svc *enrollment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := svc.Get(r.Context(), auth.SubjectFromContext(r.Context()), chi.URLParam(r, "courseID"))
		if err != nil {
			writeError(w, err)
			return
		}
		if rec.Certificate == nil {
			writeError(w, certificate.ErrNotFound)
			return
		}
		writeJSON(w, http.StatusOK, rec.Certificate)
	}
}
