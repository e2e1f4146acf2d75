package content

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrParseEmpty means non-empty operator text produced no valid question.
	ErrParseEmpty = errors.New("no valid questions found; check the format")
	// ErrMalformedQuestionSet means a stored set breaks the QuestionSet invariants.
	ErrMalformedQuestionSet = errors.New("malformed question set")
)

// Validate checks the QuestionSet invariants. It is applied before a set is
// persisted and again before it is graded.
func Validate(s QuestionSet) error {
	if strings.TrimSpace(s.Title) == "" {
		return fmt.Errorf("%w: title required", ErrMalformedQuestionSet)
	}
	if !s.Kind.Valid() {
		return fmt.Errorf("%w: unknown kind %q", ErrMalformedQuestionSet, s.Kind)
	}
	if s.Semester != "" && !ValidSemester(s.Semester) {
		return fmt.Errorf("%w: unknown semester %q", ErrMalformedQuestionSet, s.Semester)
	}
	if len(s.Questions) == 0 {
		return fmt.Errorf("%w: no questions", ErrMalformedQuestionSet)
	}
	for i, q := range s.Questions {
		if err := validateQuestion(s.Kind, q); err != nil {
			return fmt.Errorf("%w: question %d: %s", ErrMalformedQuestionSet, i+1, err)
		}
	}
	return nil
}

func validateQuestion(kind Kind, q Question) error {
	if strings.TrimSpace(q.Prompt) == "" {
		return errors.New("empty prompt")
	}
	switch kind {
	case KindOpenAnswer:
		if strings.TrimSpace(q.ExpectedAnswer) == "" {
			return errors.New("empty expected answer")
		}
		if len(q.Options) > 0 || q.CorrectOption != "" {
			return errors.New("open-answer question carries options")
		}
	case KindMultipleChoice:
		if len(q.Options) != OptionCount {
			return fmt.Errorf("want %d options, got %d", OptionCount, len(q.Options))
		}
		if OptionIndex(q.CorrectOption) < 0 {
			return fmt.Errorf("correct label %q is not one of A-D", q.CorrectOption)
		}
		if q.ExpectedAnswer != "" {
			return errors.New("multiple-choice question carries an expected answer")
		}
	}
	return nil
}
