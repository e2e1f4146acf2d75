// Package portal is the collaborator layer around the content parser and the
// grading engine: profiles, content records, submissions and scores.
package portal

import (
	"errors"

	"github.com/mind-engage/mindengage-portal/internal/content"
	"github.com/mind-engage/mindengage-portal/internal/grading"
)

// Collections, named as in the original store.
const (
	CollUsers       = "users"
	CollAssignments = "assignments"
	CollScores      = "scores"
)

const (
	UnknownStudent = "Unknown Student"
	AdminName      = "Administrator"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrContentNotFound = errors.New("content not found")
	ErrSourceNotFound  = errors.New("content source not archived")
	ErrTitleRequired   = errors.New("title is required")
	ErrNameRequired    = errors.New("name is required")
	ErrInvalidSemester = errors.New("invalid semester")
	ErrInvalidKind     = errors.New("kind must be assignment or quiz")
	ErrNotStudent      = errors.New("profile is not a student")
	ErrInvalidEvent    = errors.New("unknown event type")
)

// Profile is a users document; its id is the identity uid.
type Profile struct {
	UID       string `json:"-"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	Semester  string `json:"semester,omitempty"`
	CreatedAt int64  `json:"createdAt"`
}

// ScoreRecord is one graded attempt. Records are append-only.
type ScoreRecord struct {
	ID             string `json:"-"`
	StudentID      string `json:"studentId"`
	StudentName    string `json:"studentName"`
	ContentID      string `json:"assignmentId"`
	ContentTitle   string `json:"assignmentTitle"`
	Score          int    `json:"score"`
	TotalQuestions int    `json:"totalQuestions"`
	Timestamp      int64  `json:"timestamp"` // unix millis
}

// Percentage is the record's score out of 100, one decimal.
func (r ScoreRecord) Percentage() float64 { return grading.Percentage(r.Score, r.TotalQuestions) }

type SignUpInput struct {
	Email    string
	Password string
	Name     string
	Semester string
}

type CreateContentInput struct {
	Title    string
	Kind     content.Kind
	Semester string
	Text     string
}

// StudentItem is a content record as a student sees it: no answer keys, plus
// their latest score when they have attempted it.
type StudentItem struct {
	Content   content.QuestionSet `json:"content"`
	Attempted bool                `json:"attempted"`
	Latest    *ScoreRecord        `json:"latest,omitempty"`
}

// Submission is the outcome of Submit.
type Submission struct {
	Record   ScoreRecord       `json:"record"`
	Verdicts []grading.Verdict `json:"verdicts"`
}
