package assessment

import (
	"time"

	"github.com/abhisek/fluentz/internal/performance"
)

// Result is the immutable record of one finalized session.
type Result struct {
	SessionID             string                       `json:"session_id"`
	Kind                  Kind                         `json:"kind"`
	CompletedAt           time.Time                    `json:"completed_at"`
	Questions             []Question                   `json:"questions"`
	Answers               map[int]string               `json:"answers"`
	SecondsElapsed        int                          `json:"seconds_elapsed"`
	Score                 int                          `json:"score"`
	TotalQuestions        int                          `json:"total_questions"`
	PerformanceByCategory map[string]performance.Tally `json:"performance_by_category"`

	// Expired is true when the countdown, not the learner, ended the session.
	Expired bool `json:"expired"`
}

// Perfect reports whether every question was answered correctly.
func (r Result) Perfect() bool {
	return r.TotalQuestions > 0 && r.Score == r.TotalQuestions
}

// Accuracy returns Score/TotalQuestions.
func (r Result) Accuracy() float64 {
	if r.TotalQuestions == 0 {
		return 0
	}
	return float64(r.Score) / float64(r.TotalQuestions)
}

// score counts answers matching the correct key. Unanswered questions
// count as incorrect.
func score(questions []Question, answers map[int]string) (int, map[string]performance.Tally) {
	correct := 0
	byCategory := make(map[string]performance.Tally)
	for _, q := range questions {
		t := byCategory[q.Category]
		t.Total++
		if key, ok := answers[q.Ordinal]; ok && key == q.CorrectKey {
			t.Correct++
			correct++
		}
		byCategory[q.Category] = t
	}
	return correct, byCategory
}
