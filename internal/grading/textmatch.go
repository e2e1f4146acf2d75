package grading

import (
	"math"
	"strings"
)

// normalize trims surrounding whitespace and lower-cases.
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Percentage returns score/total*100 rounded to one decimal place. A zero
// total yields 0.
func Percentage(score, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(score)/float64(total)*1000) / 10
}
