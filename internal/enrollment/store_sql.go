package enrollment

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Shruthi057/Clinigoal-project-sub001/internal/certificate"
	"github.com/Shruthi057/Clinigoal-project-sub001/internal/db"
	"github.com/Shruthi057/Clinigoal-project-sub001/internal/quiz"
)

type SQLRepository struct {
	db    *sql.DB
	certs *certificate.SQLRepository
}

func NewSQLRepository(dbh *sql.DB) *SQLRepository {
	return &SQLRepository{db: dbh, certs: certificate.NewSQLRepository(dbh)}
}

func (r *SQLRepository) Create(ctx context.Context, rec Record) (Record, bool, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	res, err := r.db.ExecContext(ctx, `INSERT INTO enrollments
		(id,learner_id,course_id,progress_percent,manifest_revision,time_spent_sec,enrolled_at)
		VALUES ($1,$2,$3,0,0,0,$4)
		ON CONFLICT (learner_id,course_id) DO NOTHING`,
		rec.ID, rec.LearnerID, rec.CourseID, rec.EnrolledAt.Unix())
	if err != nil {
		return Record{}, false, db.Wrap("enrollment.create", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Record{}, false, db.Wrap("enrollment.create", err)
	}
	stored, err := r.Get(ctx, rec.LearnerID, rec.CourseID)
	return stored, n > 0, err
}

const selectEnrollment = `SELECT id,learner_id,course_id,progress_percent,manifest_revision,completed_at,time_spent_sec,enrolled_at
	FROM enrollments`

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (Record, error) {
	var rec Record
	var completedAt sql.NullInt64
	var spent, enrolled int64
	err := s.Scan(&rec.ID, &rec.LearnerID, &rec.CourseID, &rec.ProgressPercent, &rec.ManifestRevision,
		&completedAt, &spent, &enrolled)
	if err != nil {
		return Record{}, err
	}
	if completedAt.Valid {
		t := time.Unix(completedAt.Int64, 0).UTC()
		rec.Completed = true
		rec.CompletedAt = &t
	}
	rec.TotalTimeSpentMinutes = int(spent / 60)
	rec.EnrolledAt = time.Unix(enrolled, 0).UTC()
	return rec, nil
}

func (r *SQLRepository) Get(ctx context.Context, learnerID, courseID string) (Record, error) {
	rec, err := scanRecord(r.db.QueryRowContext(ctx,
		selectEnrollment+` WHERE learner_id=$1 AND course_id=$2`, learnerID, courseID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, ErrNotEnrolled
		}
		return Record{}, db.Wrap("enrollment.get", err)
	}
	return rec, r.attach(ctx, &rec)
}

func (r *SQLRepository) ListByLearner(ctx context.Context, learnerID string) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, selectEnrollment+` WHERE learner_id=$1 ORDER BY enrolled_at, course_id`, learnerID)
	if err != nil {
		return nil, db.Wrap("enrollment.list", err)
	}
	out := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			rows.Close()
			return nil, db.Wrap("enrollment.list", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, db.Wrap("enrollment.list", err)
	}
	rows.Close()
	for i := range out {
		if err := r.attach(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// attach loads the quiz history and certificate of rec.
func (r *SQLRepository) attach(ctx context.Context, rec *Record) error {
	rows, err := r.db.QueryContext(ctx, `SELECT result_json FROM quiz_attempts
		WHERE learner_id=$1 AND course_id=$2 ORDER BY submitted_at, id`, rec.LearnerID, rec.CourseID)
	if err != nil {
		return db.Wrap("enrollment.attempts", err)
	}
	defer rows.Close()
	rec.QuizAttempts = []quiz.Result{}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return db.Wrap("enrollment.attempts", err)
		}
		var res quiz.Result
		if err := json.Unmarshal([]byte(raw), &res); err != nil {
			return db.Wrap("enrollment.attempts decode", err)
		}
		rec.QuizAttempts = append(rec.QuizAttempts, res)
	}
	if err := rows.Err(); err != nil {
		return db.Wrap("enrollment.attempts", err)
	}

	cert, err := r.certs.Get(ctx, rec.LearnerID, rec.CourseID)
	switch {
	case err == nil:
		rec.Certificate = &cert
	case errors.Is(err, certificate.ErrNotFound):
		rec.Certificate = nil
	default:
		return err
	}
	return nil
}

func (r *SQLRepository) UpdateProgress(ctx context.Context, learnerID, courseID string, percent, revision int, complete bool, at time.Time) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, db.Wrap("enrollment.progress", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `UPDATE enrollments SET progress_percent=$1, manifest_revision=$2
		WHERE learner_id=$3 AND course_id=$4`, percent, revision, learnerID, courseID)
	if err != nil {
		return false, db.Wrap("enrollment.progress", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return false, db.Wrap("enrollment.progress", err)
	} else if n == 0 {
		return false, ErrNotEnrolled
	}

	first := false
	if complete {
		res, err := tx.ExecContext(ctx, `UPDATE enrollments SET completed_at=$1
			WHERE learner_id=$2 AND course_id=$3 AND completed_at IS NULL`, at.Unix(), learnerID, courseID)
		if err != nil {
			return false, db.Wrap("enrollment.complete", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return false, db.Wrap("enrollment.complete", err)
		}
		first = n > 0
	}
	if err := tx.Commit(); err != nil {
		return false, db.Wrap("enrollment.progress commit", err)
	}
	return first, nil
}

func (r *SQLRepository) AppendQuizAttempt(ctx context.Context, learnerID string, res quiz.Result) error {
	raw, err := json.Marshal(res)
	if err != nil {
		return err
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return db.Wrap("enrollment.attempt", err)
	}
	defer func() { _ = tx.Rollback() }()

	upd, err := tx.ExecContext(ctx, `UPDATE enrollments SET time_spent_sec=time_spent_sec+$1
		WHERE learner_id=$2 AND course_id=$3`, res.TimeSpentSeconds, learnerID, res.CourseID)
	if err != nil {
		return db.Wrap("enrollment.attempt", err)
	}
	if n, err := upd.RowsAffected(); err != nil {
		return db.Wrap("enrollment.attempt", err)
	} else if n == 0 {
		return ErrNotEnrolled
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO quiz_attempts (id,learner_id,course_id,quiz_id,score,result_json,submitted_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		uuid.NewString(), learnerID, res.CourseID, res.QuizID, res.Score, string(raw), res.SubmittedAt.UnixNano())
	if err != nil {
		return db.Wrap("enrollment.attempt", err)
	}
	return db.Wrap("enrollment.attempt commit", tx.Commit())
}

func (r *SQLRepository) AddTimeSpent(ctx context.Context, learnerID, courseID string, seconds int) error {
	res, err := r.db.ExecContext(ctx, `UPDATE enrollments SET time_spent_sec=time_spent_sec+$1
		WHERE learner_id=$2 AND course_id=$3`, seconds, learnerID, courseID)
	if err != nil {
		return db.Wrap("enrollment.time", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return db.Wrap("enrollment.time", err)
	}
	if n == 0 {
		return ErrNotEnrolled
	}
	return nil
}
