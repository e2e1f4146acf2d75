package grading

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mind-engage/mindengage-portal/internal/content"
)

var (
	// ErrIncompleteSubmission is returned by CheckComplete when an answer is blank.
	ErrIncompleteSubmission = errors.New("please answer all questions")
	// ErrAnswerCountMismatch means the attempt is not index-aligned with the set.
	ErrAnswerCountMismatch = errors.New("answer count does not match question count")
)

// Attempt is a learner's answers; Answers[i] answers Questions[i].
type Attempt struct {
	Answers []string
}

// Verdict is the outcome for one question, in question order.
type Verdict struct {
	Index    int    `json:"index"`
	Correct  bool   `json:"correct"`
	Given    string `json:"given"`
	Expected string `json:"expected"`
}

type Result struct {
	Score    int       `json:"score"`
	Total    int       `json:"totalQuestions"`
	Verdicts []Verdict `json:"verdicts"`
}

// Strategy decides correctness of a single answer.
type Strategy interface {
	Correct(q content.Question, answer string) bool
	Expected(q content.Question) string
}

// Engine routes by content kind to the matching Strategy.
type Engine struct {
	strategies map[content.Kind]Strategy
}

func NewEngine() *Engine {
	return &Engine{
		strategies: map[content.Kind]Strategy{
			content.KindOpenAnswer:     openAnswerStrategy{},
			content.KindMultipleChoice: multipleChoiceStrategy{},
		},
	}
}

// CheckComplete rejects attempts with any blank answer. Callers run it before
// Grade; the engine itself does not treat blanks specially.
func CheckComplete(answers []string) error {
	for _, a := range answers {
		if strings.TrimSpace(a) == "" {
			return ErrIncompleteSubmission
		}
	}
	return nil
}

// Grade scores an attempt against a set. It is pure: no I/O, no shared state.
func (e *Engine) Grade(set content.QuestionSet, a Attempt) (Result, error) {
	if err := content.Validate(set); err != nil {
		return Result{}, err
	}
	if len(a.Answers) != len(set.Questions) {
		return Result{}, fmt.Errorf("%w: %d answers for %d questions", ErrAnswerCountMismatch, len(a.Answers), len(set.Questions))
	}
	s, ok := e.strategies[set.Kind]
	if !ok {
		return Result{}, fmt.Errorf("%w: no strategy for kind %q", content.ErrMalformedQuestionSet, set.Kind)
	}

	res := Result{Total: len(set.Questions), Verdicts: make([]Verdict, len(set.Questions))}
	for i, q := range set.Questions {
		correct := s.Correct(q, a.Answers[i])
		if correct {
			res.Score++
		}
		res.Verdicts[i] = Verdict{Index: i, Correct: correct, Given: a.Answers[i], Expected: s.Expected(q)}
	}
	return res, nil
}

// --- Strategies ---

// openAnswerStrategy: exact match after trimming and lower-casing. No fuzzy
// matching and no partial credit.
type openAnswerStrategy struct{}

func (openAnswerStrategy) Correct(q content.Question, answer string) bool {
	return normalize(answer) == normalize(q.ExpectedAnswer)
}

func (openAnswerStrategy) Expected(q content.Question) string { return q.ExpectedAnswer }

// multipleChoiceStrategy compares labels exactly; "c" does not match "C".
type multipleChoiceStrategy struct{}

func (multipleChoiceStrategy) Correct(q content.Question, answer string) bool {
	return answer == q.CorrectOption
}

func (multipleChoiceStrategy) Expected(q content.Question) string { return q.CorrectOption }
