package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	auth "github.com/Shruthi057/Clinigoal-project-sub001/internal/auth/middleware"
	"github.com/Shruthi057/Clinigoal-project-sub001/internal/course"
	"github.com/Shruthi057/Clinigoal-project-sub001/internal/enrollment"
	"github.com/Shruthi057/Clinigoal-project-sub001/internal/progress"
	"github.com/Shruthi057/Clinigoal-project-sub001/internal/quiz"
	"github.com/Shruthi057/Clinigoal-project-sub001/internal/rbac"
	syncx "github.com/Shruthi057/Clinigoal-project-sub001/internal/sync"
)

type Deps struct {
	Auth *auth.AuthService

	Catalog course.Catalog
	// CatalogWriter is nil when courses come from a remote catalog.
	CatalogWriter course.Writer

	Progress    *progress.Store
	Enrollments *enrollment.Service
	Sessions    *quiz.Manager
	Events      *syncx.EventRepo

	EnableDevTokens bool
}

// Mount registers every route on r.
func Mount(r chi.Router, d Deps) {
	if d.EnableDevTokens {
		r.Post("/auth/token", auth.DevTokenHandler(d.Auth))
	}

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(d.Auth))

		if d.CatalogWriter != nil {
			pr.With(rbac.Require(rbac.PermCatalogWrite)).
				Put("/catalog/courses", PutCourseHandler(d.CatalogWriter))
		}
		pr.With(rbac.Require(rbac.PermCourseView)).
			Get("/courses/{courseID}", GetCourseHandler(d.Catalog))

		// Enrollment
		pr.With(rbac.Require(rbac.PermEnrollmentCreate)).
			Post("/courses/{courseID}/enroll", EnrollHandler(d.Enrollments))
		pr.With(rbac.Require(rbac.PermEnrollmentViewOwn)).
			Get("/enrollments", ListEnrollmentsHandler(d.Enrollments))
		pr.With(rbac.Require(rbac.PermEnrollmentViewOwn)).
			Get("/courses/{courseID}/enrollment", GetEnrollmentHandler(d.Enrollments))
		pr.With(rbac.Require(rbac.PermEnrollmentViewOwn)).
			Get("/courses/{courseID}/progress", ProgressHandler(d.Enrollments))

		// Content interaction
		pr.With(rbac.Require(rbac.PermProgressRecord)).
			Post("/courses/{courseID}/videos/{itemID}/watched", VideoWatchedHandler(d.Catalog, d.Enrollments, d.Progress))
		pr.With(rbac.Require(rbac.PermProgressRecord)).
			Post("/courses/{courseID}/notes/{itemID}/completed", NoteCompletedHandler(d.Catalog, d.Enrollments, d.Progress))
		pr.With(rbac.Require(rbac.PermProgressRecord)).
			Post("/courses/{courseID}/time", AddTimeSpentHandler(d.Enrollments))
		pr.With(rbac.Require(rbac.PermProgressRecord)).
			Delete("/courses/{courseID}/progress", ResetProgressHandler(d.Enrollments, d.Progress))

		// Quiz session
		pr.With(rbac.Require(rbac.PermQuizTake)).
			Post("/courses/{courseID}/quizzes/{quizID}/start", StartQuizHandler(d.Enrollments, d.Sessions))
		pr.Route("/quiz-session", func(qr chi.Router) {
			qr.Use(rbac.Require(rbac.PermQuizTake))
			qr.Get("/", GetSessionHandler(d.Sessions))
			qr.Post("/answers", SelectAnswerHandler(d.Sessions))
			qr.Post("/submit", SubmitQuizHandler(d.Sessions))
			qr.Post("/cancel", CancelQuizHandler(d.Sessions))
			qr.Post("/retry-persist", RetryPersistHandler(d.Sessions))
			qr.Get("/unsaved", UnsavedResultsHandler(d.Sessions))
			qr.Get("/result", LastResultHandler(d.Sessions))
		})

		// Certificates
		pr.With(rbac.Require(rbac.PermCertificateIssue)).
			Post("/courses/{courseID}/certificate", IssueCertificateHandler(d.Enrollments))
		pr.With(rbac.Require(rbac.PermEnrollmentViewOwn)).
			Get("/courses/{courseID}/certificate", GetCertificateHandler(d.Enrollments))

		if d.Events != nil {
			pr.With(rbac.Require(rbac.PermEventsView)).
				Get("/events", ListEventsHandler(d.Events))
		}
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
}
