package http

import (
	"fmt"
	"net/http"
	"strconv"

	syncx "github.com/Shruthi057/Clinigoal-project-sub001/internal/sync"
)

// GET /events?after=0&limit=100
func ListEventsHandler(events *syncx.EventRepo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		after, err := queryInt(r, "after")
		if err != nil {
			writeError(w, err)
			return
		}
		limit, err := queryInt(r, "limit")
		if err != nil {
			writeError(w, err)
			return
		}
		list, err := events.ListSince(r.Context(), after, int(limit))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// queryInt reads an optional non-negative integer; absent means 0.
func queryInt(r *http.Request, name string) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s=%q", errBadQuery, name, raw)
	}
	return n, nil
}
