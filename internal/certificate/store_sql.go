package certificate

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Shruthi057/Clinigoal-project-sub001/internal/db"
)

type SQLRepository struct {
	db *sql.DB
}

func NewSQLRepository(dbh *sql.DB) *SQLRepository {
	return &SQLRepository{db: dbh}
}

// InsertIfAbsent relies on UNIQUE(learner_id, course_id): of two racing
// inserts for one pair only one row lands, and both callers read it back.
func (r *SQLRepository) InsertIfAbsent(ctx context.Context, rec Record) (Record, bool, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO certificates
		(certificate_id,learner_id,course_id,issued_at,student_name,instructor,duration)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (learner_id,course_id) DO NOTHING`,
		rec.CertificateID, rec.LearnerID, rec.CourseID, rec.IssueDate.UnixNano(),
		rec.StudentName, rec.Instructor, rec.Duration)
	if err != nil {
		return Record{}, false, db.Wrap("certificate.insert", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Record{}, false, db.Wrap("certificate.insert", err)
	}
	stored, err := r.Get(ctx, rec.LearnerID, rec.CourseID)
	if err != nil {
		return Record{}, false, err
	}
	return stored, n > 0, nil
}

func (r *SQLRepository) Get(ctx context.Context, learnerID, courseID string) (Record, error) {
	var rec Record
	var issued int64
	err := r.db.QueryRowContext(ctx, `SELECT certificate_id,learner_id,course_id,issued_at,student_name,instructor,duration
		FROM certificates WHERE learner_id=$1 AND course_id=$2`, learnerID, courseID).
		Scan(&rec.CertificateID, &rec.LearnerID, &rec.CourseID, &issued, &rec.StudentName, &rec.Instructor, &rec.Duration)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, db.Wrap("certificate.get", err)
	}
	rec.IssueDate = time.Unix(0, issued).UTC()
	return rec, nil
}
