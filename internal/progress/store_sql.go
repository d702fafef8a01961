package progress

import (
	"context"
	"database/sql"
	"time"

	"github.com/Shruthi057/Clinigoal-project-sub001/internal/course"
	"github.com/Shruthi057/Clinigoal-project-sub001/internal/db"
)

type SQLRepository struct {
	db *sql.DB
}

func NewSQLRepository(dbh *sql.DB) *SQLRepository {
	return &SQLRepository{db: dbh}
}

func (r *SQLRepository) AddItem(ctx context.Context, learnerID, courseID string, kind course.ItemKind, itemID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO progress_items (learner_id,course_id,kind,item_id,recorded_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (learner_id,course_id,kind,item_id) DO NOTHING`,
		learnerID, courseID, string(kind), itemID, time.Now().Unix())
	if err != nil {
		return false, db.Wrap("progress.add", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, db.Wrap("progress.add", err)
	}
	return n > 0, nil
}

func (r *SQLRepository) Load(ctx context.Context, learnerID, courseID string) (State, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT kind,item_id FROM progress_items WHERE learner_id=$1 AND course_id=$2`,
		learnerID, courseID)
	if err != nil {
		return State{}, db.Wrap("progress.load", err)
	}
	defer rows.Close()

	st := NewState()
	for rows.Next() {
		var kind, item string
		if err := rows.Scan(&kind, &item); err != nil {
			return State{}, db.Wrap("progress.load", err)
		}
		st.Add(course.ItemKind(kind), item)
	}
	if err := rows.Err(); err != nil {
		return State{}, db.Wrap("progress.load", err)
	}
	return st, nil
}

func (r *SQLRepository) Reset(ctx context.Context, learnerID, courseID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM progress_items WHERE learner_id=$1 AND course_id=$2`, learnerID, courseID)
	return db.Wrap("progress.reset", err)
}
