package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	auth "github.com/Shruthi057/Clinigoal-project-sub001/internal/auth/middleware"
	"github.com/Shruthi057/Clinigoal-project-sub001/internal/course"
	"github.com/Shruthi057/Clinigoal-project-sub001/internal/enrollment"
	"github.com/Shruthi057/Clinigoal-project-sub001/internal/progress"
)

type recordFunc func(ctx context.Context, learnerID, courseID, itemID string) (progress.State, error)

// recordItemHandler checks enrollment and the current manifest before
// recording. The response is the state as saved, never ahead of it.
func recordItemHandler(cat course.Catalog, svc *enrollment.Service, kind course.ItemKind, record recordFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		learnerID := auth.SubjectFromContext(ctx)
		courseID := chi.URLParam(r, "courseID")
		itemID := chi.URLParam(r, "itemID")

		if _, err := svc.Get(ctx, learnerID, courseID); err != nil {
			writeError(w, err)
			return
		}
		c, err := cat.GetCourse(ctx, courseID)
		if err != nil {
			writeError(w, err)
			return
		}
		if !c.Manifest.Contains(kind, itemID) {
			writeError(w, fmt.Errorf("%w: %s %s", errItemNotInCourse, kind, itemID))
			return
		}
		st, err := record(ctx, learnerID, courseID, itemID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, st.Snapshot())
	}
}

// POST /courses/{courseID}/videos/{itemID}/watched
func VideoWatchedHandler(cat course.Catalog, svc *enrollment.Service, store *progress.Store) http.HandlerFunc {
	return recordItemHandler(cat, svc, course.KindVideo, store.RecordVideoWatched)
}

// POST /courses/{courseID}/notes/{itemID}/completed
func NoteCompletedHandler(cat course.Catalog, svc *enrollment.Service, store *progress.Store) http.HandlerFunc {
	return recordItemHandler(cat, svc, course.KindNote, store.RecordNoteCompleted)
}

// DELETE /courses/{courseID}/progress
// Clears the learner's recorded items. A completed enrollment stays completed.
func ResetProgressHandler(svc *enrollment.Service, store *progress.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		learnerID := auth.SubjectFromContext(ctx)
		courseID := chi.URLParam(r, "courseID")
		if _, err := svc.Get(ctx, learnerID, courseID); err != nil {
			writeError(w, err)
			return
		}
		st, err := store.Reset(ctx, learnerID, courseID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, st.Snapshot())
	}
}
