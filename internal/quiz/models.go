package quiz

import "time"

type State string

const (
	StateNotStarted State = "not_started"
	StateInProgress State = "in_progress"
	StateSubmitted  State = "submitted"
	StateCancelled  State = "cancelled"
)

func (s State) Terminal() bool { return s == StateSubmitted || s == StateCancelled }

type Option struct {
	ID        string `json:"id" validate:"required"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct,omitempty"`
}

type Question struct {
	ID      string   `json:"id" validate:"required"`
	Type    string   `json:"type,omitempty"` // mcq_single (default), true_false
	Text    string   `json:"text" validate:"required"`
	Options []Option `json:"options" validate:"min=2,dive"`
}

// CorrectOptionID returns the first option marked correct. Authoring
// validation guarantees there is exactly one.
func (q Question) CorrectOptionID() string {
	for _, o := range q.Options {
		if o.IsCorrect {
			return o.ID
		}
	}
	return ""
}

func (q Question) hasOption(id string) bool {
	for _, o := range q.Options {
		if o.ID == id {
			return true
		}
	}
	return false
}

type Quiz struct {
	ID                  string     `json:"id" validate:"required,max=64"`
	CourseID            string     `json:"course_id"`
	Title               string     `json:"title" validate:"required"`
	Questions           []Question `json:"questions" validate:"min=1,dive"`
	TimeLimitMinutes    int        `json:"time_limit_minutes" validate:"gte=0"`
	PassingScorePercent int        `json:"passing_score_percent" validate:"gte=0,lte=100"`
}

func (q Quiz) question(id string) (Question, bool) {
	for _, qq := range q.Questions {
		if qq.ID == id {
			return qq, true
		}
	}
	return Question{}, false
}

// Public strips the answer key for learners.
func (q Quiz) Public() Quiz {
	out := q
	out.Questions = make([]Question, len(q.Questions))
	for i, qq := range q.Questions {
		opts := make([]Option, len(qq.Options))
		for j, o := range qq.Options {
			opts[j] = Option{ID: o.ID, Text: o.Text}
		}
		qq.Options = opts
		out.Questions[i] = qq
	}
	return out
}

// Session is the in-memory state of one attempt. It is never persisted.
type Session struct {
	QuizID                    string            `json:"quiz_id"`
	CourseID                  string            `json:"course_id"`
	State                     State             `json:"state"`
	Answers                   map[string]string `json:"answers"`
	ElapsedSeconds            int               `json:"elapsed_seconds"`
	PerQuestionElapsedSeconds map[string]int    `json:"per_question_elapsed_seconds"`
	CurrentQuestionID         string            `json:"current_question_id,omitempty"`
	StartedAt                 time.Time         `json:"started_at"`
}

type QuestionOutcome struct {
	QuestionID       string `json:"question_id"`
	SelectedOptionID string `json:"selected_option_id,omitempty"`
	CorrectOptionID  string `json:"correct_option_id"`
	IsCorrect        bool   `json:"is_correct"`
	TimeSpentSeconds int    `json:"time_spent_seconds"`
}

type Result struct {
	QuizID           string            `json:"quiz_id"`
	CourseID         string            `json:"course_id"`
	Score            int               `json:"score"`
	Passed           bool              `json:"passed"`
	CorrectCount     int               `json:"correct_count"`
	TotalQuestions   int               `json:"total_questions"`
	Breakdown        []QuestionOutcome `json:"per_question_breakdown"`
	TimeSpentSeconds int               `json:"time_spent_seconds"`
	SubmittedAt      time.Time         `json:"submitted_at"`
	AutoSubmitted    bool              `json:"auto_submitted,omitempty"`
	// Persisted is false when the result was computed but the follow-up
	// writes failed. RetryPersist repeats them without re-scoring.
	Persisted bool `json:"persisted"`
}
