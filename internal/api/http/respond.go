package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/Shruthi057/Clinigoal-project-sub001/internal/certificate"
	"github.com/Shruthi057/Clinigoal-project-sub001/internal/course"
	"github.com/Shruthi057/Clinigoal-project-sub001/internal/db"
	"github.com/Shruthi057/Clinigoal-project-sub001/internal/enrollment"
	"github.com/Shruthi057/Clinigoal-project-sub001/internal/quiz"
)

var (
	errItemNotInCourse = errors.New("item not in course")
	errBadJSON         = errors.New("bad json")
	errBadQuery        = errors.New("bad query parameter")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	var pe *db.PersistenceError
	var ve validator.ValidationErrors
	switch {
	case errors.As(err, &pe):
		return http.StatusServiceUnavailable
	case errors.As(err, &ve), errors.Is(err, errBadJSON), errors.Is(err, errBadQuery),
		errors.Is(err, course.ErrQuizNotInManifest),
		errors.Is(err, quiz.ErrUnknownQuestion), errors.Is(err, quiz.ErrUnknownOption):
		return http.StatusBadRequest
	case errors.Is(err, course.ErrCourseNotFound), errors.Is(err, quiz.ErrQuizNotFound),
		errors.Is(err, enrollment.ErrNotEnrolled), errors.Is(err, certificate.ErrNotFound),
		errors.Is(err, quiz.ErrNoActiveSession), errors.Is(err, errItemNotInCourse):
		return http.StatusNotFound
	case errors.Is(err, quiz.ErrInvalidStateTransition), errors.Is(err, quiz.ErrQuestionSetEmpty),
		errors.Is(err, quiz.ErrNothingToPersist), errors.Is(err, quiz.ErrTimeLimitReached):
		return http.StatusConflict
	case errors.Is(err, quiz.ErrIncompleteAnswers):
		return http.StatusUnprocessableEntity
	case errors.Is(err, certificate.ErrNotEligible):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("api: %v", err)
		msg = "internal error"
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

// decode reads a JSON body into v and runs struct validation.
func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errBadJSON
	}
	return validate.Struct(v)
}
