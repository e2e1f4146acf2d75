package content

import "strings"

// Parse converts operator text into questions of the given kind. Malformed
// input yields an empty slice; it never fails.
func Parse(kind Kind, text string) []Question {
	switch kind {
	case KindOpenAnswer:
		return ParseOpenAnswer(text)
	case KindMultipleChoice:
		return ParseMultipleChoice(text)
	default:
		return nil
	}
}

// ParseOpenAnswer reads lines in fixed pairs:
//
//	Q1: Capital of France?
//	A1: Paris
//
// The Q/A labels are optional and decorative; output order is input order.
// A trailing unpaired line is dropped.
func ParseOpenAnswer(text string) []Question {
	toks := tokenize(text)
	out := make([]Question, 0, len(toks)/2)
	for i := 0; i+1 < len(toks); i += 2 {
		prompt := toks[i].line
		if toks[i].kind == tokQuestion {
			prompt = toks[i].body
		}
		answer := toks[i+1].line
		if toks[i+1].kind == tokAnswer {
			answer = toks[i+1].body
		}
		if prompt == "" || answer == "" {
			continue
		}
		out = append(out, Question{Prompt: prompt, ExpectedAnswer: answer})
	}
	return out
}

type mcState int

const (
	stateAwaitRecord mcState = iota
	stateCollectingOptions
	stateAwaitCorrectLabel
)

// ParseMultipleChoice reads records of the form
//
//	Q1: Question text?
//	A) Option 1
//	B) Option 2
//	C) Option 3
//	D) Option 4
//	Correct: A
//
// A record is kept only with a non-empty prompt, exactly four options and a
// correct label in A..D. Lines outside a record are skipped.
func ParseMultipleChoice(text string) []Question {
	toks := tokenize(text)
	var (
		out   = []Question{}
		cur   Question
		state = stateAwaitRecord
	)
	finish := func() {
		if cur.Prompt != "" && len(cur.Options) == OptionCount && OptionIndex(cur.CorrectOption) >= 0 {
			out = append(out, cur)
		}
		cur = Question{}
		state = stateAwaitRecord
	}

	for i := 0; i < len(toks); {
		t := toks[i]
		switch state {
		case stateAwaitRecord:
			if t.kind == tokQuestion {
				cur = Question{Prompt: t.body, Options: []string{}}
				state = stateCollectingOptions
			}
			i++
		case stateCollectingOptions:
			if t.kind == tokOption {
				cur.Options = append(cur.Options, t.body)
				i++
				continue
			}
			state = stateAwaitCorrectLabel
		case stateAwaitCorrectLabel:
			if t.kind == tokCorrect {
				cur.CorrectOption = strings.ToUpper(t.body)
				i++
			}
			finish()
		}
	}
	if state != stateAwaitRecord {
		finish()
	}
	return out
}
