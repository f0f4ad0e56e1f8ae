package achievements

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/fluentz/internal/assessment"
	"github.com/abhisek/fluentz/internal/challenge"
	"github.com/abhisek/fluentz/internal/history"
)

func results(n int, kind assessment.Kind, score, total int) []assessment.Result {
	out := make([]assessment.Result, n)
	for i := range out {
		out[i] = assessment.Result{
			SessionID:      fmt.Sprintf("s%d", i),
			Kind:           kind,
			Score:          score,
			TotalQuestions: total,
		}
	}
	return out
}

func words(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("word%d", i)
	}
	return out
}

func unlockedIDs(in Input) []string {
	var ids []string
	for _, d := range Unlocked(Defaults(), in) {
		ids = append(ids, d.ID)
	}
	return ids
}

func TestEmptyInputUnlocksNothing(t *testing.T) {
	assert.NotPanics(t, func() {
		assert.Empty(t, Unlocked(Defaults(), Input{}))
	})
}

func TestDefaultsHaveUniqueIDs(t *testing.T) {
	seen := map[string]bool{}
	for _, d := range Defaults() {
		require.NotNil(t, d.Unlocked, d.ID)
		assert.False(t, seen[d.ID], "duplicate id %s", d.ID)
		assert.NotEmpty(t, d.Title)
		assert.NotEmpty(t, d.Icon)
		seen[d.ID] = true
	}
}

func TestDefaultRules(t *testing.T) {
	cases := []struct {
		name string
		in   Input
		want []string
		not  []string
	}{
		{
			name: "one imperfect exam",
			in:   Input{History: results(1, assessment.KindExam, 2, 5)},
			want: []string{FirstAssessment},
			not:  []string{FiveAssessments, PerfectScore},
		},
		{
			name: "five exams with a perfect score",
			in:   Input{History: results(5, assessment.KindExam, 5, 5)},
			want: []string{FirstAssessment, FiveAssessments, PerfectScore},
			not:  []string{FullHistory},
		},
		{
			name: "full history",
			in:   Input{History: results(history.MaxEntries, assessment.KindExam, 1, 5)},
			want: []string{FullHistory},
		},
		{
			name: "zero question result is not perfect",
			in:   Input{History: results(1, assessment.KindExam, 0, 0)},
			not:  []string{PerfectScore},
		},
		{
			name: "ten words",
			in:   Input{Vocabulary: words(10)},
			want: []string{Words10},
			not:  []string{Words50},
		},
		{
			name: "fifty words",
			in:   Input{Vocabulary: words(50)},
			want: []string{Words10, Words50},
		},
		{
			name: "completed a goal",
			in:   Input{Challenge: challenge.State{Streak: 1, LastCompletedDate: "2026-03-02"}},
			want: []string{FirstDailyGoal},
			not:  []string{Streak3},
		},
		{
			name: "week streak",
			in:   Input{Challenge: challenge.State{Streak: 7, LastCompletedDate: "2026-03-02"}},
			want: []string{FirstDailyGoal, Streak3, Streak7},
		},
		{
			name: "listening at 80 percent",
			in:   Input{History: results(1, assessment.KindListening, 4, 5)},
			want: []string{ListeningSpecialist},
			not:  []string{ReadingSpecialist},
		},
		{
			name: "reading below 80 percent",
			in:   Input{History: results(1, assessment.KindReading, 3, 5)},
			not:  []string{ReadingSpecialist},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ids := unlockedIDs(tc.in)
			for _, id := range tc.want {
				assert.Contains(t, ids, id)
			}
			for _, id := range tc.not {
				assert.NotContains(t, ids, id)
			}
		})
	}
}

func TestEvaluateKeepsTableOrder(t *testing.T) {
	defs := Defaults()
	st := Evaluate(defs, Input{History: results(1, assessment.KindExam, 1, 1)})
	require.Len(t, st, len(defs))
	for i := range defs {
		assert.Equal(t, defs[i].ID, st[i].ID)
	}
	assert.True(t, st[0].Unlocked)
}

func TestBadgesFollowCurrentData(t *testing.T) {
	in := Input{History: results(1, assessment.KindExam, 5, 5)}
	assert.Contains(t, unlockedIDs(in), PerfectScore)

	in.History = nil
	assert.NotContains(t, unlockedIDs(in), PerfectScore)
}

func TestNilPredicateIsLocked(t *testing.T) {
	st := Evaluate([]Definition{{ID: "x"}}, Input{})
	require.Len(t, st, 1)
	assert.False(t, st[0].Unlocked)
}
