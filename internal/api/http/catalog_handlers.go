package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Shruthi057/Clinigoal-project-sub001/internal/course"
	"github.com/Shruthi057/Clinigoal-project-sub001/internal/quiz"
)

type putCourseRequest struct {
	Course  course.Course `json:"course"`
	Quizzes []quiz.Quiz   `json:"quizzes" validate:"dive"`
}

// PUT /catalog/courses
// Stores the course with its manifest and the quizzes it references, all
// or nothing.
func PutCourseHandler(cw course.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req putCourseRequest
		if err := decode(r, &req); err != nil {
			writeError(w, err)
			return
		}
		if err := cw.Publish(r.Context(), req.Course, req.Quizzes); err != nil {
			writeError(w, err)
			return
		}
		stored, err := courseOf(r.Context(), cw, req.Course.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, stored)
	}
}

func courseOf(ctx context.Context, cw course.Writer, id string) (course.Course, error) {
	if cat, ok := cw.(course.Catalog); ok {
		return cat.GetCourse(ctx, id)
	}
	return course.Course{ID: id}, nil
}

// GET /courses/{courseID}
func GetCourseHandler(cat course.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := cat.GetCourse(r.Context(), chi.URLParam(r, "courseID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}
