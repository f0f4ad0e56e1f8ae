package achievements

import (
	"github.com/abhisek/fluentz/internal/assessment"
	"github.com/abhisek/fluentz/internal/history"
)

// Badge IDs.
const (
	FirstAssessment     = "first_assessment"
	FiveAssessments     = "five_assessments"
	PerfectScore        = "perfect_score"
	FullHistory         = "full_history"
	Words10             = "words_10"
	Words50             = "words_50"
	FirstDailyGoal      = "first_daily_goal"
	Streak3             = "streak_3"
	Streak7             = "streak_7"
	ListeningSpecialist = "listening_specialist"
	ReadingSpecialist   = "reading_specialist"
)

// Defaults returns the built-in badge table.
func Defaults() []Definition {
	return []Definition{
		{
			ID: FirstAssessment, Title: "First Steps", Icon: "🎯",
			Description: "Finish your first assessment",
			Unlocked:    historyAtLeast(1),
		},
		{
			ID: FiveAssessments, Title: "Test Taker", Icon: "📝",
			Description: "Finish five assessments",
			Unlocked:    historyAtLeast(5),
		},
		{
			ID: PerfectScore, Title: "Flawless", Icon: "💎",
			Description: "Answer every question of an assessment correctly",
			Unlocked: func(in Input) bool {
				return anyResult(in.History, assessment.Result.Perfect)
			},
		},
		{
			ID: FullHistory, Title: "Regular", Icon: "📚",
			Description: "Fill your assessment history",
			Unlocked:    historyAtLeast(history.MaxEntries),
		},
		{
			ID: Words10, Title: "Word Collector", Icon: "🔤",
			Description: "Save 10 words to your vocabulary",
			Unlocked:    vocabularyAtLeast(10),
		},
		{
			ID: Words50, Title: "Lexicon", Icon: "📖",
			Description: "Save 50 words to your vocabulary",
			Unlocked:    vocabularyAtLeast(50),
		},
		{
			ID: FirstDailyGoal, Title: "Goal Getter", Icon: "✅",
			Description: "Complete a daily challenge",
			Unlocked: func(in Input) bool {
				return in.Challenge.LastCompletedDate != ""
			},
		},
		{
			ID: Streak3, Title: "On a Roll", Icon: "🔥",
			Description: "Keep a 3-day streak",
			Unlocked:    streakAtLeast(3),
		},
		{
			ID: Streak7, Title: "Week Warrior", Icon: "⚡",
			Description: "Keep a 7-day streak",
			Unlocked:    streakAtLeast(7),
		},
		{
			ID: ListeningSpecialist, Title: "Good Ears", Icon: "🎧",
			Description: "Score at least 80% on a listening assessment",
			Unlocked:    kindAccuracyAtLeast(assessment.KindListening, 80),
		},
		{
			ID: ReadingSpecialist, Title: "Bookworm", Icon: "📰",
			Description: "Score at least 80% on a reading assessment",
			Unlocked:    kindAccuracyAtLeast(assessment.KindReading, 80),
		},
	}
}

func historyAtLeast(n int) func(Input) bool {
	return func(in Input) bool { return len(in.History) >= n }
}

func vocabularyAtLeast(n int) func(Input) bool {
	return func(in Input) bool { return len(in.Vocabulary) >= n }
}

func streakAtLeast(n int) func(Input) bool {
	return func(in Input) bool { return in.Challenge.Streak >= n }
}

func kindAccuracyAtLeast(kind assessment.Kind, percent int) func(Input) bool {
	return func(in Input) bool {
		return anyResult(in.History, func(r assessment.Result) bool {
			return r.Kind == kind && r.TotalQuestions > 0 && r.Score*100 >= percent*r.TotalQuestions
		})
	}
}

func anyResult(results []assessment.Result, pred func(assessment.Result) bool) bool {
	for _, r := range results {
		if pred(r) {
			return true
		}
	}
	return false
}
