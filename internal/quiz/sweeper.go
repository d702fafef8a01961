package quiz

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"
)

// Sweeper auto-submits sessions that ran past their time limit.
type Sweeper struct {
	c *cron.Cron
}

// NewSweeper schedules m.SweepExpired on spec, e.g. "@every 5s".
func NewSweeper(m *Manager, spec string) (*Sweeper, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if n := m.SweepExpired(context.Background()); n > 0 {
			log.Printf("[QUIZ-SWEEPER] auto-submitted %d expired session(s)", n)
		}
	})
	if err != nil {
		return nil, err
	}
	return &Sweeper{c: c}, nil
}

func (s *Sweeper) Start() { s.c.Start() }

// Stop waits for a running sweep to finish.
func (s *Sweeper) Stop() { <-s.c.Stop().Done() }
