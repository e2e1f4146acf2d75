package content

// Kind is the content kind of a question set. The stored values match the
// "type" field of the assignments collection.
type Kind string

const (
	KindOpenAnswer     Kind = "assignment"
	KindMultipleChoice Kind = "quiz"
)

func (k Kind) Valid() bool { return k == KindOpenAnswer || k == KindMultipleChoice }

// OptionCount is the number of options every multiple-choice question carries.
const OptionCount = 4

// OptionLabels are the option labels in positional order (A=index0 ... D=index3).
var OptionLabels = [OptionCount]string{"A", "B", "C", "D"}

// Semester tags; an empty semester means the set is visible to every student.
var Semesters = []string{"sem-1", "sem-2", "sem-3", "sem-4", "sem-5", "sem-6", "sem-7", "sem-8"}

const DefaultSemester = "sem-1"

func ValidSemester(s string) bool {
	for _, v := range Semesters {
		if v == s {
			return true
		}
	}
	return false
}

// Question is one entry of a QuestionSet. Open-answer questions use Prompt and
// ExpectedAnswer; multiple-choice questions use Prompt, Options and
// CorrectOption.
type Question struct {
	Prompt         string   `json:"question"`
	ExpectedAnswer string   `json:"answer,omitempty"`
	Options        []string `json:"options,omitempty"`
	CorrectOption  string   `json:"correctAnswer,omitempty"`
}

type QuestionSet struct {
	ID        string     `json:"-"`
	Title     string     `json:"title"`
	Kind      Kind       `json:"type"`
	Semester  string     `json:"semester,omitempty"`
	Questions []Question `json:"questions"`
	CreatedAt int64      `json:"createdAt"` // unix millis
}

// VisibleTo reports whether a student enrolled in semester may see the set.
func (s QuestionSet) VisibleTo(semester string) bool {
	return s.Semester == "" || s.Semester == semester
}

// StudentView returns a copy without answer keys.
func (s QuestionSet) StudentView() QuestionSet {
	out := s
	out.Questions = make([]Question, len(s.Questions))
	for i, q := range s.Questions {
		q.ExpectedAnswer = ""
		q.CorrectOption = ""
		if q.Options != nil {
			q.Options = append([]string(nil), q.Options...)
		}
		out.Questions[i] = q
	}
	return out
}

// OptionIndex maps a label A..D to its option position, or -1.
func OptionIndex(label string) int {
	for i, l := range OptionLabels {
		if l == label {
			return i
		}
	}
	return -1
}
