package quiz

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/Shruthi057/Clinigoal-project-sub001/internal/db"
)

// SQLStore reads authored quizzes from the local database. Quizzes are
// written with Save, usually inside course.SQLCatalog.Publish.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(dbh *sql.DB) *SQLStore {
	return &SQLStore{db: dbh}
}

// Save validates q and upserts it through ex, which may be a transaction.
func Save(ctx context.Context, ex db.Execer, q Quiz) error {
	if err := Validate(q); err != nil {
		return err
	}
	qj, err := json.Marshal(q.Questions)
	if err != nil {
		return err
	}
	_, err = ex.ExecContext(ctx, `INSERT INTO quizzes (id,course_id,title,time_limit_min,passing_score,questions_json,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (id) DO UPDATE SET course_id=EXCLUDED.course_id, title=EXCLUDED.title,
			time_limit_min=EXCLUDED.time_limit_min, passing_score=EXCLUDED.passing_score,
			questions_json=EXCLUDED.questions_json`,
		q.ID, q.CourseID, q.Title, q.TimeLimitMinutes, q.PassingScorePercent, string(qj), time.Now().Unix())
	return db.Wrap("quiz.put", err)
}

// GetQuiz returns the full quiz including the answer key. Use Quiz.Public
// before handing it to a learner.
func (s *SQLStore) GetQuiz(ctx context.Context, id string) (Quiz, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,course_id,title,time_limit_min,passing_score,questions_json FROM quizzes WHERE id=$1`, id)
	var q Quiz
	var qjson string
	if err := row.Scan(&q.ID, &q.CourseID, &q.Title, &q.TimeLimitMinutes, &q.PassingScorePercent, &qjson); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Quiz{}, ErrQuizNotFound
		}
		return Quiz{}, db.Wrap("quiz.get", err)
	}
	if err := json.Unmarshal([]byte(qjson), &q.Questions); err != nil {
		return Quiz{}, db.Wrap("quiz.get decode", err)
	}
	return q, nil
}
