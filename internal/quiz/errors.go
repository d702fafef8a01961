package quiz

import "errors"

var (
	ErrQuestionSetEmpty       = errors.New("quiz has no questions")
	ErrIncompleteAnswers      = errors.New("not all questions are answered")
	ErrInvalidStateTransition = errors.New("invalid quiz state transition")
	ErrNoActiveSession        = errors.New("no active quiz session")
	ErrQuizNotFound           = errors.New("quiz not found")
	ErrUnknownQuestion        = errors.New("unknown question")
	ErrUnknownOption          = errors.New("unknown option")
	ErrNothingToPersist       = errors.New("no unsaved quiz result")
	ErrTimeLimitReached       = errors.New("quiz time limit reached")
)
