package grading

import (
	"errors"
	"fmt"
	"strings"
)

var ErrNoStrategy = errors.New("grading: no strategy for question type")

// Q is a minimal view of a question needed for grading.
type Q struct {
	Type      string
	Points    float64
	AnswerKey []string // accepted option ids
}

// Result is the outcome of grading a single question response.
type Result struct {
	AutoPoints float64
	MaxPoints  float64
	Correct    bool
}

// Strategy grades a single question.
type Strategy interface {
	Grade(q Q, response string) (Result, error)
}

// Grader routes by question type to the correct Strategy.
type Grader interface {
	Grade(q Q, response string) (Result, error)
}

const (
	TypeSingleChoice = "mcq_single"
	TypeTrueFalse    = "true_false"
)

type defaultGrader struct {
	strategies map[string]Strategy
	fallback   string
}

func (g *defaultGrader) Grade(q Q, response string) (Result, error) {
	typ := q.Type
	if typ == "" {
		typ = g.fallback
	}
	s, ok := g.strategies[typ]
	if !ok {
		return Result{MaxPoints: q.Points}, fmt.Errorf("%w: %q", ErrNoStrategy, typ)
	}
	return s.Grade(q, response)
}

type Option func(*defaultGrader)

// WithStrategy registers or replaces the strategy for a question type.
func WithStrategy(typ string, s Strategy) Option {
	return func(g *defaultGrader) { g.strategies[typ] = s }
}

// WithFallbackType sets the type used for questions that carry none.
func WithFallbackType(typ string) Option { return func(g *defaultGrader) { g.fallback = typ } }

// NewDefaultGrader installs built-in strategies. Untyped questions are
// graded as single choice.
func NewDefaultGrader(opts ...Option) Grader {
	g := &defaultGrader{
		strategies: map[string]Strategy{
			TypeSingleChoice: singleChoiceStrategy{},
			TypeTrueFalse:    trueFalseStrategy{},
		},
		fallback: TypeSingleChoice,
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// --- Strategies ---

type singleChoiceStrategy struct{}

func (singleChoiceStrategy) Grade(q Q, response string) (Result, error) {
	res := Result{MaxPoints: q.Points}
	if response == "" {
		return res, nil
	}
	for _, k := range q.AnswerKey {
		if response == k {
			res.AutoPoints = q.Points
			res.Correct = true
			return res, nil
		}
	}
	return res, nil
}

// trueFalseStrategy accepts "True", "yes" and " t. " alike.
type trueFalseStrategy struct{}

func (trueFalseStrategy) Grade(q Q, response string) (Result, error) {
	res := Result{MaxPoints: q.Points}
	if strings.TrimSpace(response) == "" {
		return res, nil
	}
	for _, k := range q.AnswerKey {
		if sameAnswer(k, response) {
			res.AutoPoints = q.Points
			res.Correct = true
			return res, nil
		}
	}
	return res, nil
}
