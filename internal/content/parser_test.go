package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOpenAnswer(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Question
	}{
		{
			name: "single pair",
			text: "Q1: Capital of France?\nA1: Paris",
			want: []Question{{Prompt: "Capital of France?", ExpectedAnswer: "Paris"}},
		},
		{
			name: "labels are decorative",
			text: "Q1: one\nA1: 1\nQ1: two\nA1: 2",
			want: []Question{
				{Prompt: "one", ExpectedAnswer: "1"},
				{Prompt: "two", ExpectedAnswer: "2"},
			},
		},
		{
			name: "out of order label accepted at first position",
			text: "Q5: five\nA9: 5",
			want: []Question{{Prompt: "five", ExpectedAnswer: "5"}},
		},
		{
			name: "lower-case labels and blank lines",
			text: "\n  q1:  Hello  \n\n a1:   Bonjour \n\n",
			want: []Question{{Prompt: "Hello", ExpectedAnswer: "Bonjour"}},
		},
		{
			name: "unlabelled lines used verbatim",
			text: "What is 2+2?\nfour",
			want: []Question{{Prompt: "What is 2+2?", ExpectedAnswer: "four"}},
		},
		{
			name: "dangling question dropped",
			text: "Q1: a\nA1: b\nQ2: c",
			want: []Question{{Prompt: "a", ExpectedAnswer: "b"}},
		},
		{
			name: "empty remainder skips the pair",
			text: "Q1:\nA1: orphan\nQ2: kept\nA2: yes",
			want: []Question{{Prompt: "kept", ExpectedAnswer: "yes"}},
		},
		{
			name: "windows line endings",
			text: "Q1: x\r\nA1: y\r\n",
			want: []Question{{Prompt: "x", ExpectedAnswer: "y"}},
		},
		{name: "empty input", text: "", want: []Question{}},
		{name: "whitespace only", text: " \n\t\n", want: []Question{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseOpenAnswer(tt.text))
		})
	}
}

func TestParseOpenAnswerPairCount(t *testing.T) {
	// floor(lines/2) questions for any count of well-formed lines
	for n := 0; n <= 7; n++ {
		text := ""
		for i := 0; i < n; i++ {
			if i%2 == 0 {
				text += "Q1: prompt\n"
			} else {
				text += "A1: answer\n"
			}
		}
		assert.Len(t, ParseOpenAnswer(text), n/2, "lines=%d", n)
	}
}

func TestParseMultipleChoice(t *testing.T) {
	opts := []string{"a", "b", "c", "d"}
	tests := []struct {
		name string
		text string
		want []Question
	}{
		{
			name: "single record",
			text: "Q1: X?\nA) a\nB) b\nC) c\nD) d\nCorrect: B",
			want: []Question{{Prompt: "X?", Options: opts, CorrectOption: "B"}},
		},
		{
			name: "correct label upper-cased",
			text: "q1: X?\na) a\nb) b\nc) c\nd) d\ncorrect: c",
			want: []Question{{Prompt: "X?", Options: opts, CorrectOption: "C"}},
		},
		{
			name: "two records with separator noise",
			text: "Q1: one\nA) a\nB) b\nC) c\nD) d\nCorrect: A\n---\nQ2: two\nA) a\nB) b\nC) c\nD) d\nCorrect: D\n",
			want: []Question{
				{Prompt: "one", Options: opts, CorrectOption: "A"},
				{Prompt: "two", Options: opts, CorrectOption: "D"},
			},
		},
		{
			name: "three options rejected",
			text: "Q1: X?\nA) a\nB) b\nC) c\nCorrect: A",
			want: []Question{},
		},
		{
			name: "five options rejected",
			text: "Q1: X?\nA) a\nB) b\nC) c\nD) d\nA) e\nCorrect: A",
			want: []Question{},
		},
		{
			name: "missing correct line rejected, next record kept",
			text: "Q1: X?\nA) a\nB) b\nC) c\nD) d\nQ2: Y?\nA) a\nB) b\nC) c\nD) d\nCorrect: A",
			want: []Question{{Prompt: "Y?", Options: opts, CorrectOption: "A"}},
		},
		{
			name: "label outside A-D rejected",
			text: "Q1: X?\nA) a\nB) b\nC) c\nD) d\nCorrect: E",
			want: []Question{},
		},
		{
			name: "empty correct label rejected",
			text: "Q1: X?\nA) a\nB) b\nC) c\nD) d\nCorrect:",
			want: []Question{},
		},
		{
			name: "empty prompt rejected",
			text: "Q1:\nA) a\nB) b\nC) c\nD) d\nCorrect: A",
			want: []Question{},
		},
		{
			name: "options kept in encountered order",
			text: "Q1: X?\nD) d\nC) c\nB) b\nA) a\nCorrect: A",
			want: []Question{{Prompt: "X?", Options: []string{"d", "c", "b", "a"}, CorrectOption: "A"}},
		},
		{
			name: "duplicate option text allowed",
			text: "Q1: X?\nA) same\nB) same\nC) same\nD) same\nCorrect: B",
			want: []Question{{Prompt: "X?", Options: []string{"same", "same", "same", "same"}, CorrectOption: "B"}},
		},
		{
			name: "truncated record at end of input",
			text: "Q1: X?\nA) a\nB) b",
			want: []Question{},
		},
		{name: "empty input", text: "", want: []Question{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseMultipleChoice(tt.text))
		})
	}
}

func TestParseIsIdempotent(t *testing.T) {
	texts := map[Kind]string{
		KindOpenAnswer:     "Q1: a\nA1: b\nQ2: c\nA2: d\nQ3: e",
		KindMultipleChoice: "Q1: X?\nA) a\nB) b\nC) c\nD) d\nCorrect: B\nQ2: bad\nA) a",
	}
	for kind, text := range texts {
		first := Parse(kind, text)
		second := Parse(kind, text)
		assert.Equal(t, first, second, "kind=%s", kind)
	}
}

func TestParseUnknownKind(t *testing.T) {
	require.Empty(t, Parse(Kind("essay"), "Q1: a\nA1: b"))
}
