package quiz

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/Shruthi057/Clinigoal-project-sub001/internal/grading"
)

const DefaultPassingScore = 70

// Ticker drives the elapsed-time counter. Only whole seconds are surfaced,
// so drift is acceptable.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct{ t *time.Ticker }

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

func secondTicker() Ticker { return timeTicker{time.NewTicker(time.Second)} }

// Engine runs a single quiz attempt:
//
//	NotStarted -> InProgress -> Submitted | Cancelled
//
// It is safe for concurrent use. Every terminal transition stops the timer.
type Engine struct {
	mu sync.Mutex

	state   State
	quiz    Quiz
	session Session
	result  *Result

	markAt int // elapsed seconds when CurrentQuestionID became active
	ticker Ticker
	done   chan struct{}

	newTicker      func() Ticker
	grader         grading.Grader
	requireAll     bool
	defaultPassing int
	now            func() time.Time
}

type EngineOption func(*Engine)

func WithTicker(f func() Ticker) EngineOption { return func(e *Engine) { e.newTicker = f } }

func WithGrader(g grading.Grader) EngineOption { return func(e *Engine) { e.grader = g } }

// RequireAllAnswered makes Submit fail with ErrIncompleteAnswers while any
// question is unanswered. Forced submits ignore it.
func RequireAllAnswered(on bool) EngineOption { return func(e *Engine) { e.requireAll = on } }

// WithDefaultPassingScore applies to quizzes that do not set their own.
func WithDefaultPassingScore(p int) EngineOption {
	return func(e *Engine) {
		if p > 0 && p <= 100 {
			e.defaultPassing = p
		}
	}
}

func WithClock(now func() time.Time) EngineOption { return func(e *Engine) { e.now = now } }

func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		state:          StateNotStarted,
		newTicker:      secondTicker,
		grader:         grading.NewDefaultGrader(),
		defaultPassing: DefaultPassingScore,
		now:            time.Now,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

func (e *Engine) Start(q Quiz) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateNotStarted {
		return fmt.Errorf("%w: start from %s", ErrInvalidStateTransition, e.state)
	}
	if len(q.Questions) == 0 {
		return ErrQuestionSetEmpty
	}
	e.quiz = q
	e.session = Session{
		QuizID:                    q.ID,
		CourseID:                  q.CourseID,
		Answers:                   map[string]string{},
		PerQuestionElapsedSeconds: map[string]int{},
		StartedAt:                 e.now().UTC(),
	}
	e.state = StateInProgress

	e.ticker = e.newTicker()
	e.done = make(chan struct{})
	go e.run(e.ticker, e.done)
	return nil
}

func (e *Engine) run(t Ticker, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case <-t.C():
			e.tick()
		}
	}
}

func (e *Engine) tick() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateInProgress {
		e.session.ElapsedSeconds++
	}
}

// stopTimer must be called with mu held.
func (e *Engine) stopTimer() {
	if e.done == nil {
		return
	}
	close(e.done)
	e.ticker.Stop()
	e.done = nil
}

// SelectAnswer records optionID for questionID, replacing any earlier
// answer. Moving to a different question closes out the time of the one
// the learner was on.
func (e *Engine) SelectAnswer(questionID, optionID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateInProgress {
		return fmt.Errorf("%w: select answer in %s", ErrInvalidStateTransition, e.state)
	}
	if e.expired() {
		return ErrTimeLimitReached
	}
	q, ok := e.quiz.question(questionID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownQuestion, questionID)
	}
	if !q.hasOption(optionID) {
		return fmt.Errorf("%w: %s", ErrUnknownOption, optionID)
	}
	e.moveTo(questionID)
	e.session.Answers[questionID] = optionID
	return nil
}

func (e *Engine) moveTo(questionID string) {
	cur := e.session.CurrentQuestionID
	if cur == questionID {
		return
	}
	if cur != "" {
		e.closeOut()
	}
	e.session.CurrentQuestionID = questionID
}

func (e *Engine) closeOut() {
	if cur := e.session.CurrentQuestionID; cur != "" {
		e.session.PerQuestionElapsedSeconds[cur] += e.session.ElapsedSeconds - e.markAt
	}
	e.markAt = e.session.ElapsedSeconds
}

func (e *Engine) Submit() (Result, error) {
	return e.submit(false)
}

// ForceSubmit scores the attempt regardless of unanswered questions. Used
// when the time limit runs out. Submit behaves the same way once the
// limit has passed.
func (e *Engine) ForceSubmit() (Result, error) {
	return e.submit(true)
}

func (e *Engine) submit(forced bool) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateInProgress {
		return Result{}, fmt.Errorf("%w: submit in %s", ErrInvalidStateTransition, e.state)
	}
	// Past the time limit a submit is treated like the sweeper's.
	forced = forced || e.expired()
	if e.requireAll && !forced && len(e.session.Answers) < len(e.quiz.Questions) {
		return Result{}, ErrIncompleteAnswers
	}
	e.stopTimer()
	e.closeOut()

	res := e.score()
	res.AutoSubmitted = forced
	e.result = &res
	e.state = StateSubmitted
	return cloneResult(res), nil
}

// score treats unanswered and ungradable questions as incorrect.
func (e *Engine) score() Result {
	res := Result{
		QuizID:           e.quiz.ID,
		CourseID:         e.quiz.CourseID,
		TotalQuestions:   len(e.quiz.Questions),
		TimeSpentSeconds: e.session.ElapsedSeconds,
		SubmittedAt:      e.now().UTC(),
		Breakdown:        make([]QuestionOutcome, 0, len(e.quiz.Questions)),
	}
	for _, q := range e.quiz.Questions {
		selected := e.session.Answers[q.ID]
		correct := q.CorrectOptionID()
		gr, err := e.grader.Grade(grading.Q{Type: q.Type, Points: 1, AnswerKey: []string{correct}}, selected)
		ok := err == nil && gr.Correct
		if ok {
			res.CorrectCount++
		}
		res.Breakdown = append(res.Breakdown, QuestionOutcome{
			QuestionID:       q.ID,
			SelectedOptionID: selected,
			CorrectOptionID:  correct,
			IsCorrect:        ok,
			TimeSpentSeconds: e.session.PerQuestionElapsedSeconds[q.ID],
		})
	}
	res.Score = int(math.Round(100 * float64(res.CorrectCount) / float64(res.TotalQuestions)))
	passing := e.quiz.PassingScorePercent
	if passing <= 0 {
		passing = e.defaultPassing
	}
	res.Passed = res.Score >= passing
	return res
}

// Cancel discards the session. It is a no-op once terminal.
func (e *Engine) Cancel() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.Terminal() {
		return nil
	}
	if e.state == StateNotStarted {
		return fmt.Errorf("%w: cancel before start", ErrInvalidStateTransition)
	}
	e.stopTimer()
	e.state = StateCancelled
	e.session = Session{}
	return nil
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Session returns a copy of the live session.
func (e *Engine) Session() Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.session
	s.State = e.state
	s.Answers = make(map[string]string, len(e.session.Answers))
	for k, v := range e.session.Answers {
		s.Answers[k] = v
	}
	s.PerQuestionElapsedSeconds = make(map[string]int, len(e.session.PerQuestionElapsedSeconds))
	for k, v := range e.session.PerQuestionElapsedSeconds {
		s.PerQuestionElapsedSeconds[k] = v
	}
	return s
}

func (e *Engine) Result() (Result, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.result == nil {
		return Result{}, false
	}
	return cloneResult(*e.result), true
}

// Expired reports whether an in-progress attempt used up its time limit.
func (e *Engine) Expired() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.expired()
}

// expired must be called with mu held.
func (e *Engine) expired() bool {
	limit := e.quiz.TimeLimitMinutes
	return e.state == StateInProgress && limit > 0 && e.session.ElapsedSeconds >= limit*60
}

func cloneResult(r Result) Result {
	r.Breakdown = append([]QuestionOutcome(nil), r.Breakdown...)
	return r
}
