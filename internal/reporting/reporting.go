// Package reporting derives the admin dashboard and student statistics from
// profiles, content records and score records.
package reporting

import (
	"math"
	"strings"

	"github.com/mind-engage/mindengage-portal/internal/content"
	"github.com/mind-engage/mindengage-portal/internal/portal"
)

const (
	performanceLimit = 10
	completionLimit  = 5
)

type StudentPerformance struct {
	StudentID string `json:"studentId"`
	Name      string `json:"name"`
	Average   int    `json:"average"` // rounded percentage
	Attempts  int    `json:"attempts"`
}

type Completion struct {
	ContentID string `json:"assignmentId"`
	Title     string `json:"title"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
}

type Bucket struct {
	Range string `json:"range"`
	Count int    `json:"count"`
}

type Overview struct {
	TotalStudents    int                  `json:"totalStudents"`
	TotalAssignments int                  `json:"totalAssignments"`
	TotalQuizzes     int                  `json:"totalQuizzes"`
	AverageScore     float64              `json:"averageScore"`
	Performance      []StudentPerformance `json:"performance"`
	Completion       []Completion         `json:"completion"`
	Distribution     []Bucket             `json:"distribution"`
}

type Summary struct {
	Attempts int     `json:"attempts"`
	Average  float64 `json:"average"`
	Best     float64 `json:"best"`
}

// BuildOverview computes the admin dashboard. sets is expected newest first,
// as ListContent returns it.
func BuildOverview(students []portal.Profile, sets []content.QuestionSet, scores []portal.ScoreRecord) Overview {
	o := Overview{
		TotalStudents: len(students),
		AverageScore:  average(scores),
		Performance:   []StudentPerformance{},
		Completion:    []Completion{},
		Distribution:  distribution(scores),
	}
	for _, s := range sets {
		switch s.Kind {
		case content.KindOpenAnswer:
			o.TotalAssignments++
		case content.KindMultipleChoice:
			o.TotalQuizzes++
		}
	}

	byStudent := map[string][]portal.ScoreRecord{}
	byContent := map[string]int{}
	for _, r := range scores {
		byStudent[r.StudentID] = append(byStudent[r.StudentID], r)
		byContent[r.ContentID]++
	}
	for i, p := range students {
		if i == performanceLimit {
			break
		}
		recs := byStudent[p.UID]
		o.Performance = append(o.Performance, StudentPerformance{
			StudentID: p.UID,
			Name:      firstName(p.Name),
			Average:   int(math.Round(rawAverage(recs))),
			Attempts:  len(recs),
		})
	}
	for i, s := range sets {
		if i == completionLimit {
			break
		}
		o.Completion = append(o.Completion, Completion{
			ContentID: s.ID,
			Title:     s.Title,
			Completed: byContent[s.ID],
			Total:     len(students),
		})
	}
	return o
}

// StudentSummary computes attempts, average and best percentage.
func StudentSummary(scores []portal.ScoreRecord) Summary {
	s := Summary{Attempts: len(scores), Average: average(scores)}
	for _, r := range scores {
		if p := r.Percentage(); p > s.Best {
			s.Best = p
		}
	}
	return s
}

func average(scores []portal.ScoreRecord) float64 {
	return math.Round(rawAverage(scores)*10) / 10
}

func rawAverage(scores []portal.ScoreRecord) float64 {
	if len(scores) == 0 {
		return 0
	}
	var sum float64
	for _, r := range scores {
		sum += pct(r)
	}
	return sum / float64(len(scores))
}

// pct is the unrounded percentage.
func pct(r portal.ScoreRecord) float64 {
	if r.TotalQuestions <= 0 {
		return 0
	}
	return float64(r.Score) / float64(r.TotalQuestions) * 100
}

var bucketRanges = [...]string{"0-20", "21-40", "41-60", "61-80", "81-100"}

func distribution(scores []portal.ScoreRecord) []Bucket {
	out := make([]Bucket, len(bucketRanges))
	for i, r := range bucketRanges {
		out[i].Range = r
	}
	for _, r := range scores {
		p := pct(r)
		var i int
		switch {
		case p <= 20:
			i = 0
		case p <= 40:
			i = 1
		case p <= 60:
			i = 2
		case p <= 80:
			i = 3
		default:
			i = 4
		}
		out[i].Count++
	}
	return out
}

func firstName(name string) string {
	if f := strings.Fields(name); len(f) > 0 {
		return f[0]
	}
	return name
}
