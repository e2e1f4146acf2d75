package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mcSet() QuestionSet {
	return QuestionSet{
		Title: "Quiz",
		Kind:  KindMultipleChoice,
		Questions: []Question{
			{Prompt: "X?", Options: []string{"a", "b", "c", "d"}, CorrectOption: "B"},
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*QuestionSet)
		wantErr bool
	}{
		{"valid", func(*QuestionSet) {}, false},
		{"valid with semester", func(s *QuestionSet) { s.Semester = "sem-8" }, false},
		{"blank title", func(s *QuestionSet) { s.Title = "  " }, true},
		{"unknown kind", func(s *QuestionSet) { s.Kind = "essay" }, true},
		{"unknown semester", func(s *QuestionSet) { s.Semester = "sem-9" }, true},
		{"no questions", func(s *QuestionSet) { s.Questions = nil }, true},
		{"three options", func(s *QuestionSet) { s.Questions[0].Options = []string{"a", "b", "c"} }, true},
		{"label out of range", func(s *QuestionSet) { s.Questions[0].CorrectOption = "E" }, true},
		{"lower-case label", func(s *QuestionSet) { s.Questions[0].CorrectOption = "b" }, true},
		{"mixed kinds", func(s *QuestionSet) {
			s.Questions = append(s.Questions, Question{Prompt: "open", ExpectedAnswer: "x"})
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mcSet()
			tt.mutate(&s)
			err := Validate(s)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrMalformedQuestionSet)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestValidateOpenAnswer(t *testing.T) {
	s := QuestionSet{Title: "HW", Kind: KindOpenAnswer, Questions: []Question{{Prompt: "p", ExpectedAnswer: "a"}}}
	require.NoError(t, Validate(s))

	s.Questions[0].ExpectedAnswer = ""
	require.ErrorIs(t, Validate(s), ErrMalformedQuestionSet)

	s.Questions[0] = Question{Prompt: "p", ExpectedAnswer: "a", Options: []string{"a", "b", "c", "d"}}
	require.ErrorIs(t, Validate(s), ErrMalformedQuestionSet)
}

func TestStudentViewStripsKeys(t *testing.T) {
	s := mcSet()
	s.Questions = append(s.Questions, Question{Prompt: "Y?", Options: []string{"1", "2", "3", "4"}, CorrectOption: "D"})

	v := s.StudentView()
	for _, q := range v.Questions {
		assert.Empty(t, q.CorrectOption)
		assert.Empty(t, q.ExpectedAnswer)
		assert.Len(t, q.Options, OptionCount)
	}
	// original untouched
	assert.Equal(t, "B", s.Questions[0].CorrectOption)
	v.Questions[0].Options[0] = "changed"
	assert.Equal(t, "a", s.Questions[0].Options[0])
}

func TestVisibleTo(t *testing.T) {
	assert.True(t, QuestionSet{}.VisibleTo("sem-3"))
	assert.True(t, QuestionSet{Semester: "sem-3"}.VisibleTo("sem-3"))
	assert.False(t, QuestionSet{Semester: "sem-2"}.VisibleTo("sem-3"))
}

func TestOptionIndex(t *testing.T) {
	assert.Equal(t, 0, OptionIndex("A"))
	assert.Equal(t, 3, OptionIndex("D"))
	assert.Equal(t, -1, OptionIndex("a"))
	assert.Equal(t, -1, OptionIndex(""))
}
