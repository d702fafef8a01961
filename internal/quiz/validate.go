package quiz

import (
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(questionRules, Question{})
	v.RegisterStructValidation(quizRules, Quiz{})
	return v
}

// questionRules: exactly one correct option, option ids unique.
func questionRules(sl validator.StructLevel) {
	q := sl.Current().Interface().(Question)
	correct := 0
	seen := map[string]bool{}
	for _, o := range q.Options {
		if o.IsCorrect {
			correct++
		}
		if seen[o.ID] {
			sl.ReportError(q.Options, "Options", "options", "unique_option_ids", o.ID)
		}
		seen[o.ID] = true
	}
	if correct != 1 {
		sl.ReportError(q.Options, "Options", "options", "exactly_one_correct", "")
	}
	switch q.Type {
	case "", "mcq_single", "true_false":
	default:
		sl.ReportError(q.Type, "Type", "type", "oneof", "mcq_single true_false")
	}
}

func quizRules(sl validator.StructLevel) {
	qz := sl.Current().Interface().(Quiz)
	seen := map[string]bool{}
	for _, q := range qz.Questions {
		if seen[q.ID] {
			sl.ReportError(qz.Questions, "Questions", "questions", "unique_question_ids", q.ID)
		}
		seen[q.ID] = true
	}
}

// Validate checks an authored quiz. The engine itself assumes a valid
// quiz and never re-checks the answer key.
func Validate(q Quiz) error {
	return validate.Struct(q)
}
