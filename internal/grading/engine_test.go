package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSingleChoice(t *testing.T) {
	g := NewDefaultGrader()
	q := Q{Points: 1, AnswerKey: []string{"b"}}

	res, err := g.Grade(q, "b")
	require.NoError(t, err)
	assert.True(t, res.Correct)
	assert.Equal(t, 1.0, res.AutoPoints)

	res, err = g.Grade(q, "a")
	require.NoError(t, err)
	assert.False(t, res.Correct)
	assert.Equal(t, 0.0, res.AutoPoints)
	assert.Equal(t, 1.0, res.MaxPoints)
}

func TestUnansweredIsIncorrectNotError(t *testing.T) {
	g := NewDefaultGrader()
	res, err := g.Grade(Q{Type: TypeSingleChoice, Points: 1, AnswerKey: []string{"a"}}, "")
	require.NoError(t, err)
	assert.False(t, res.Correct)
}

func TestTrueFalseNormalizes(t *testing.T) {
	g := NewDefaultGrader()
	res, err := g.Grade(Q{Type: TypeTrueFalse, Points: 1, AnswerKey: []string{"True"}}, " true. ")
	require.NoError(t, err)
	assert.True(t, res.Correct)

	res, err = g.Grade(Q{Type: TypeTrueFalse, Points: 1, AnswerKey: []string{"false"}}, "No")
	require.NoError(t, err)
	assert.True(t, res.Correct)

	res, err = g.Grade(Q{Type: TypeTrueFalse, Points: 1, AnswerKey: []string{"false"}}, "yes")
	require.NoError(t, err)
	assert.False(t, res.Correct)

	// option ids that are not truth values match exactly
	res, err = g.Grade(Q{Type: TypeTrueFalse, Points: 1, AnswerKey: []string{"opt-b"}}, "opt-b")
	require.NoError(t, err)
	assert.True(t, res.Correct)
	res, err = g.Grade(Q{Type: TypeTrueFalse, Points: 1, AnswerKey: []string{"opt-b"}}, "opt-a")
	require.NoError(t, err)
	assert.False(t, res.Correct)
}

type alwaysRight struct{}

func (alwaysRight) Grade(q Q, _ string) (Result, error) {
	return Result{AutoPoints: q.Points, MaxPoints: q.Points, Correct: true}, nil
}

func TestUnknownTypeAndCustomStrategy(t *testing.T) {
	_, err := NewDefaultGrader().Grade(Q{Type: "essay"}, "x")
	assert.ErrorIs(t, err, ErrNoStrategy)

	g := NewDefaultGrader(WithStrategy("essay", alwaysRight{}))
	res, err := g.Grade(Q{Type: "essay", Points: 2}, "anything")
	require.NoError(t, err)
	assert.True(t, res.Correct)
}
