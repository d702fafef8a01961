package syncx

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/Shruthi057/Clinigoal-project-sub001/internal/db"
)

const (
	TypeProgressRecorded    = "ProgressRecorded"
	TypeEnrollmentCompleted = "EnrollmentCompleted"
	TypeQuizSubmitted       = "QuizSubmitted"
	TypeCertificateIssued   = "CertificateIssued"
)

type Event struct {
	Seq       int64           `json:"seq"`
	SiteID    string          `json:"site_id"`
	Type      string          `json:"type"`
	Key       string          `json:"key"`
	Data      json.RawMessage `json:"data"`
	CreatedAt int64           `json:"created_at"`
}

type EventRepo struct {
	db     *sql.DB
	siteID string
}

func NewEventRepo(dbh *sql.DB, siteID string) *EventRepo {
	if siteID == "" {
		siteID = "local"
	}
	return &EventRepo{db: dbh, siteID: siteID}
}

// Append marshals payload and adds it at the end of the log.
func (r *EventRepo) Append(ctx context.Context, typ, key string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO event_log (site_id, typ, key, data, created_at)
		 VALUES ($1,$2,$3,$4,$5)`,
		r.siteID, typ, key, string(data), time.Now().Unix())
	return db.Wrap("eventlog.append", err)
}

// ListSince returns up to limit events with seq > after, oldest first.
func (r *EventRepo) ListSince(ctx context.Context, after int64, limit int) ([]Event, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT seq, site_id, typ, key, data, created_at FROM event_log
		 WHERE seq > $1 ORDER BY seq LIMIT $2`, after, limit)
	if err != nil {
		return nil, db.Wrap("eventlog.list", err)
	}
	defer rows.Close()
	out := []Event{}
	for rows.Next() {
		var e Event
		var data string
		if err := rows.Scan(&e.Seq, &e.SiteID, &e.Type, &e.Key, &data, &e.CreatedAt); err != nil {
			return nil, db.Wrap("eventlog.list", err)
		}
		e.Data = json.RawMessage(data)
		out = append(out, e)
	}
	return out, db.Wrap("eventlog.list", rows.Err())
}
