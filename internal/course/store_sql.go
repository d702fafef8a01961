package course

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Shruthi057/Clinigoal-project-sub001/internal/db"
	"github.com/Shruthi057/Clinigoal-project-sub001/internal/quiz"
)

// SQLCatalog keeps courses and their manifest items in the local database.
type SQLCatalog struct {
	db *sql.DB
}

func NewSQLCatalog(dbh *sql.DB) *SQLCatalog {
	return &SQLCatalog{db: dbh}
}

// Publish stores the course, its manifest and the quizzes it lists in one
// transaction, so a stored manifest never names a quiz that failed to
// save. Every update bumps the revision.
func (s *SQLCatalog) Publish(ctx context.Context, c Course, quizzes []quiz.Quiz) error {
	c.Manifest.CourseID = c.ID
	return db.InTx(ctx, s.db, "course.put", func(tx *sql.Tx) error {
		if err := putCourse(ctx, tx, c); err != nil {
			return err
		}
		for _, q := range quizzes {
			if !c.Manifest.Contains(KindQuiz, q.ID) {
				return fmt.Errorf("%w: %s", ErrQuizNotInManifest, q.ID)
			}
			q.CourseID = c.ID
			if err := quiz.Save(ctx, tx, q); err != nil {
				return err
			}
		}
		return nil
	})
}

// putCourse upserts the course row and replaces its manifest items.
func putCourse(ctx context.Context, tx *sql.Tx, c Course) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO courses (id,title,instructor,duration,revision,created_at)
		VALUES ($1,$2,$3,$4,1,$5)
		ON CONFLICT (id) DO UPDATE SET title=EXCLUDED.title, instructor=EXCLUDED.instructor,
			duration=EXCLUDED.duration, revision=courses.revision+1`,
		c.ID, c.Title, c.Instructor, c.Duration, time.Now().Unix())
	if err != nil {
		return db.Wrap("course.put", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM course_items WHERE course_id=$1`, c.ID); err != nil {
		return db.Wrap("course.put items", err)
	}
	for _, kind := range []ItemKind{KindVideo, KindNote, KindQuiz} {
		for pos, id := range c.Manifest.Items(kind) {
			_, err := tx.ExecContext(ctx, `INSERT INTO course_items (course_id,kind,item_id,position)
				VALUES ($1,$2,$3,$4) ON CONFLICT (course_id,kind,item_id) DO NOTHING`,
				c.ID, string(kind), id, pos)
			if err != nil {
				return db.Wrap("course.put items", err)
			}
		}
	}
	return nil
}

func (s *SQLCatalog) GetCourse(ctx context.Context, id string) (Course, error) {
	var c Course
	err := s.db.QueryRowContext(ctx,
		`SELECT id,title,instructor,duration,revision FROM courses WHERE id=$1`, id).
		Scan(&c.ID, &c.Title, &c.Instructor, &c.Duration, &c.Manifest.Revision)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Course{}, ErrCourseNotFound
		}
		return Course{}, db.Wrap("course.get", err)
	}
	c.Manifest.CourseID = c.ID

	rows, err := s.db.QueryContext(ctx,
		`SELECT kind,item_id FROM course_items WHERE course_id=$1 ORDER BY kind, position`, id)
	if err != nil {
		return Course{}, db.Wrap("course.get items", err)
	}
	defer rows.Close()
	for rows.Next() {
		var kind, item string
		if err := rows.Scan(&kind, &item); err != nil {
			return Course{}, db.Wrap("course.get items", err)
		}
		switch ItemKind(kind) {
		case KindVideo:
			c.Manifest.Videos = append(c.Manifest.Videos, item)
		case KindNote:
			c.Manifest.Notes = append(c.Manifest.Notes, item)
		case KindQuiz:
			c.Manifest.Quizzes = append(c.Manifest.Quizzes, item)
		}
	}
	if err := rows.Err(); err != nil {
		return Course{}, db.Wrap("course.get items", err)
	}
	return c, nil
}
