package progress

import (
	"context"
	"fmt"
	"strings"

	"github.com/Shruthi057/Clinigoal-project-sub001/internal/course"
)

// Repository persists progress items. AddItem must be an atomic
// "add to set": a second add of the same item reports added=false.
type Repository interface {
	AddItem(ctx context.Context, learnerID, courseID string, kind course.ItemKind, itemID string) (added bool, err error)
	Load(ctx context.Context, learnerID, courseID string) (State, error)
	Reset(ctx context.Context, learnerID, courseID string) error
}

// Recomputer is told about every durable progress change.
type Recomputer interface {
	Recompute(ctx context.Context, learnerID, courseID string, st State) error
}

type Store struct {
	repo       Repository
	recomputer Recomputer
}

func NewStore(repo Repository, rc Recomputer) *Store {
	return &Store{repo: repo, recomputer: rc}
}

func (s *Store) RecordVideoWatched(ctx context.Context, learnerID, courseID, videoID string) (State, error) {
	return s.record(ctx, learnerID, courseID, course.KindVideo, videoID)
}

func (s *Store) RecordNoteCompleted(ctx context.Context, learnerID, courseID, noteID string) (State, error) {
	return s.record(ctx, learnerID, courseID, course.KindNote, noteID)
}

func (s *Store) RecordQuizCompleted(ctx context.Context, learnerID, courseID, quizID string) (State, error) {
	return s.record(ctx, learnerID, courseID, course.KindQuiz, quizID)
}

func (s *Store) Load(ctx context.Context, learnerID, courseID string) (State, error) {
	return s.repo.Load(ctx, learnerID, courseID)
}

// Reset clears the learner's progress for a course and recomputes.
func (s *Store) Reset(ctx context.Context, learnerID, courseID string) (State, error) {
	if err := s.repo.Reset(ctx, learnerID, courseID); err != nil {
		return State{}, err
	}
	return s.reload(ctx, learnerID, courseID)
}

// record returns the state as re-read from storage, never an optimistic copy.
func (s *Store) record(ctx context.Context, learnerID, courseID string, kind course.ItemKind, itemID string) (State, error) {
	itemID = strings.TrimSpace(itemID)
	if learnerID == "" || courseID == "" || itemID == "" {
		return State{}, fmt.Errorf("progress: learner, course and %s id are required", kind)
	}
	if _, err := s.repo.AddItem(ctx, learnerID, courseID, kind, itemID); err != nil {
		return State{}, err
	}
	return s.reload(ctx, learnerID, courseID)
}

func (s *Store) reload(ctx context.Context, learnerID, courseID string) (State, error) {
	st, err := s.repo.Load(ctx, learnerID, courseID)
	if err != nil {
		return State{}, err
	}
	if s.recomputer != nil {
		if err := s.recomputer.Recompute(ctx, learnerID, courseID, st); err != nil {
			return st, err
		}
	}
	return st, nil
}
