package progress

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shruthi057/Clinigoal-project-sub001/internal/course"
	"github.com/Shruthi057/Clinigoal-project-sub001/internal/db"
)

type fakeRecomputer struct {
	calls []State
	err   error
}

func (f *fakeRecomputer) Recompute(_ context.Context, _, _ string, st State) error {
	f.calls = append(f.calls, st)
	return f.err
}

type failingRepo struct{ Repository }

func (failingRepo) AddItem(context.Context, string, string, course.ItemKind, string) (bool, error) {
	return false, db.Wrap("progress.add", errors.New("disk full"))
}

func newSQLStore(t *testing.T, rc Recomputer) *Store {
	t.Helper()
	dbh, err := db.Open(context.Background(), db.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = dbh.Close() })
	return NewStore(NewSQLRepository(dbh), rc)
}

func TestRecordVideoWatchedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	rc := &fakeRecomputer{}
	s := newSQLStore(t, rc)

	once, err := s.RecordVideoWatched(ctx, "u1", "c1", "v1")
	require.NoError(t, err)
	twice, err := s.RecordVideoWatched(ctx, "u1", "c1", "v1")
	require.NoError(t, err)

	assert.Equal(t, once.Snapshot(), twice.Snapshot())
	assert.Equal(t, []string{"v1"}, twice.Snapshot().WatchedVideos)
	assert.Len(t, rc.calls, 2)
}

func TestRecordKeepsKindsAndLearnersApart(t *testing.T) {
	ctx := context.Background()
	s := newSQLStore(t, nil)

	_, err := s.RecordNoteCompleted(ctx, "u1", "c1", "x")
	require.NoError(t, err)
	_, err = s.RecordQuizCompleted(ctx, "u1", "c1", "x")
	require.NoError(t, err)
	_, err = s.RecordVideoWatched(ctx, "u2", "c1", "x")
	require.NoError(t, err)

	st, err := s.Load(ctx, "u1", "c1")
	require.NoError(t, err)
	assert.True(t, st.Has(course.KindNote, "x"))
	assert.True(t, st.Has(course.KindQuiz, "x"))
	assert.False(t, st.Has(course.KindVideo, "x"))

	st, err = s.Reset(ctx, "u1", "c1")
	require.NoError(t, err)
	assert.Empty(t, st.Snapshot().CompletedNotes)
	assert.Empty(t, st.Snapshot().CompletedQuizzes)
}

func TestRecordSurfacesPersistenceErrorWithoutRecompute(t *testing.T) {
	rc := &fakeRecomputer{}
	s := NewStore(failingRepo{}, rc)

	_, err := s.RecordVideoWatched(context.Background(), "u1", "c1", "v1")
	var pe *db.PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "progress.add", pe.Op)
	assert.Empty(t, rc.calls)
}

func TestRecordRequiresIDs(t *testing.T) {
	s := newSQLStore(t, nil)
	_, err := s.RecordVideoWatched(context.Background(), "u1", "c1", "  ")
	assert.Error(t, err)
}

func TestRecomputeErrorStillReturnsSavedState(t *testing.T) {
	rc := &fakeRecomputer{err: errors.New("boom")}
	s := newSQLStore(t, rc)

	st, err := s.RecordVideoWatched(context.Background(), "u1", "c1", "v1")
	assert.Error(t, err)
	assert.True(t, st.Has(course.KindVideo, "v1"))
}
