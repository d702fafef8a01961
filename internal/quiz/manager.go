package quiz

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
)

// Source loads authored quizzes.
type Source interface {
	GetQuiz(ctx context.Context, id string) (Quiz, error)
}

// Recorder persists what a submitted attempt changes outside the engine.
type Recorder interface {
	RecordQuizAttempt(ctx context.Context, learnerID string, r Result) error
	RecordQuizCompleted(ctx context.Context, learnerID, courseID, quizID string) error
}

type pending struct {
	mu              sync.Mutex
	result          Result
	learnerID       string
	completionSaved bool
	attemptSaved    bool
}

// Manager keeps at most one active session per learner.
type Manager struct {
	src  Source
	rec  Recorder
	opts []EngineOption

	mu     sync.Mutex
	active map[string]*Engine
	last   map[string]*pending
	// unsaved holds every result whose writes have not all succeeded, in
	// submit order. A later submit never replaces an entry here.
	unsaved map[string][]*pending
}

func NewManager(src Source, rec Recorder, opts ...EngineOption) *Manager {
	return &Manager{
		src:    src,
		rec:    rec,
		opts:   opts,
		active:  map[string]*Engine{},
		last:    map[string]*pending{},
		unsaved: map[string][]*pending{},
	}
}

// Start cancels any session the learner still has open and begins a new
// one. The returned quiz has its answer key stripped.
func (m *Manager) Start(ctx context.Context, learnerID, courseID, quizID string) (Quiz, error) {
	q, err := m.src.GetQuiz(ctx, quizID)
	if err != nil {
		return Quiz{}, err
	}
	if courseID != "" && q.CourseID != "" && q.CourseID != courseID {
		return Quiz{}, fmt.Errorf("%w: %s in course %s", ErrQuizNotFound, quizID, courseID)
	}
	if q.CourseID == "" {
		q.CourseID = courseID
	}

	e := NewEngine(m.opts...)
	if err := e.Start(q); err != nil {
		return Quiz{}, err
	}

	m.mu.Lock()
	prev := m.active[learnerID]
	m.active[learnerID] = e
	m.mu.Unlock()
	if prev != nil {
		_ = prev.Cancel()
	}
	return q.Public(), nil
}

func (m *Manager) engine(learnerID string) (*Engine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.active[learnerID]
	if !ok {
		return nil, ErrNoActiveSession
	}
	return e, nil
}

func (m *Manager) SelectAnswer(learnerID, questionID, optionID string) error {
	e, err := m.engine(learnerID)
	if err != nil {
		return err
	}
	return e.SelectAnswer(questionID, optionID)
}

func (m *Manager) Active(learnerID string) (Session, bool) {
	e, err := m.engine(learnerID)
	if err != nil {
		return Session{}, false
	}
	return e.Session(), true
}

// Cancel is a no-op when the learner has no open session.
func (m *Manager) Cancel(learnerID string) error {
	m.mu.Lock()
	e := m.active[learnerID]
	delete(m.active, learnerID)
	m.mu.Unlock()
	if e == nil {
		return nil
	}
	return e.Cancel()
}

// Submit scores the open session and persists its side effects. A result
// whose writes failed is returned with Persisted=false together with the
// persistence error; RetryPersist finishes the writes later.
func (m *Manager) Submit(ctx context.Context, learnerID string) (Result, error) {
	e, err := m.engine(learnerID)
	if err != nil {
		return Result{}, err
	}
	res, err := e.Submit()
	if err != nil {
		return Result{}, err
	}
	m.mu.Lock()
	if m.active[learnerID] == e {
		delete(m.active, learnerID)
	}
	m.mu.Unlock()
	return m.finish(ctx, learnerID, res)
}

func (m *Manager) finish(ctx context.Context, learnerID string, res Result) (Result, error) {
	p := &pending{result: res, learnerID: learnerID}
	err := m.persist(ctx, p)
	m.mu.Lock()
	m.last[learnerID] = p
	if err != nil {
		m.unsaved[learnerID] = append(m.unsaved[learnerID], p)
	}
	m.mu.Unlock()
	return p.snapshot(), err
}

func (p *pending) snapshot() Result {
	p.mu.Lock()
	defer p.mu.Unlock()
	return cloneResult(p.result)
}

// persist records completion before the attempt so a passed quiz counts
// toward progress as soon as it is reported.
func (m *Manager) persist(ctx context.Context, p *pending) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.result.Persisted {
		return nil
	}
	r := p.result
	if r.Passed && !p.completionSaved {
		if err := m.rec.RecordQuizCompleted(ctx, p.learnerID, r.CourseID, r.QuizID); err != nil {
			log.Printf("quiz: record completion learner=%s quiz=%s: %v", p.learnerID, r.QuizID, err)
			p.result.Persisted = false
			return err
		}
	}
	p.completionSaved = true
	if !p.attemptSaved {
		saved := cloneResult(r)
		saved.Persisted = true
		if err := m.rec.RecordQuizAttempt(ctx, p.learnerID, saved); err != nil {
			log.Printf("quiz: record attempt learner=%s quiz=%s: %v", p.learnerID, r.QuizID, err)
			p.result.Persisted = false
			return err
		}
	}
	p.attemptSaved = true
	p.result.Persisted = true
	return nil
}

// RetryPersist repeats the outstanding writes of every unsaved result of
// the learner, oldest first, without re-scoring. It returns those results
// with their current Persisted flag; results that fail again stay queued.
func (m *Manager) RetryPersist(ctx context.Context, learnerID string) ([]Result, error) {
	m.mu.Lock()
	queue := append([]*pending(nil), m.unsaved[learnerID]...)
	m.mu.Unlock()
	if len(queue) == 0 {
		return nil, ErrNothingToPersist
	}

	out := make([]Result, 0, len(queue))
	var errs []error
	for _, p := range queue {
		if err := m.persist(ctx, p); err != nil {
			errs = append(errs, err)
		}
		out = append(out, p.snapshot())
	}

	m.mu.Lock()
	var kept []*pending
	for _, p := range m.unsaved[learnerID] {
		if !p.snapshot().Persisted {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		delete(m.unsaved, learnerID)
	} else {
		m.unsaved[learnerID] = kept
	}
	m.mu.Unlock()
	return out, errors.Join(errs...)
}

// Unsaved lists the learner's results still waiting for RetryPersist.
func (m *Manager) Unsaved(learnerID string) []Result {
	m.mu.Lock()
	queue := append([]*pending(nil), m.unsaved[learnerID]...)
	m.mu.Unlock()
	out := make([]Result, 0, len(queue))
	for _, p := range queue {
		out = append(out, p.snapshot())
	}
	return out
}

func (m *Manager) LastResult(learnerID string) (Result, bool) {
	m.mu.Lock()
	p := m.last[learnerID]
	m.mu.Unlock()
	if p == nil {
		return Result{}, false
	}
	return p.snapshot(), true
}

// SweepExpired force-submits every session past its time limit and
// returns how many it closed.
func (m *Manager) SweepExpired(ctx context.Context) int {
	type item struct {
		learnerID string
		e         *Engine
	}
	var expired []item
	m.mu.Lock()
	for learnerID, e := range m.active {
		if e.Expired() {
			expired = append(expired, item{learnerID, e})
			delete(m.active, learnerID)
		}
	}
	m.mu.Unlock()

	n := 0
	for _, it := range expired {
		res, err := it.e.ForceSubmit()
		if err != nil {
			continue
		}
		n++
		if _, err := m.finish(ctx, it.learnerID, res); err != nil {
			log.Printf("quiz: auto-submit learner=%s quiz=%s not persisted: %v", it.learnerID, res.QuizID, err)
		}
	}
	return n
}

// Close cancels every open session and stops their timers.
func (m *Manager) Close() {
	m.mu.Lock()
	open := m.active
	m.active = map[string]*Engine{}
	m.mu.Unlock()
	for _, e := range open {
		_ = e.Cancel()
	}
}
