package challenge

import (
	"context"
	"time"
)

// Goal is a catalog entry for a daily challenge.
type Goal struct {
	Type        ActionType
	Description string
	Target      int
}

// DefaultCatalog returns the rotating daily goals.
func DefaultCatalog() []Goal {
	return []Goal{
		{ActionReading, "Read two passages", 2},
		{ActionListening, "Finish a listening exercise", 1},
		{ActionDictionary, "Look up five new words", 5},
		{ActionGrammar, "Complete three grammar drills", 3},
		{ActionVocabulary, "Practice ten vocabulary cards", 10},
		{ActionWriting, "Write one short paragraph", 1},
		{ActionGame, "Win two word games", 2},
		{ActionAssessment, "Finish a timed assessment", 1},
	}
}

// GoalFor picks the catalog goal for a calendar date. The choice depends
// only on the date, so every reload on the same day agrees.
func GoalFor(catalog []Goal, date string) (Goal, bool) {
	if len(catalog) == 0 {
		return Goal{}, false
	}
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return Goal{}, false
	}
	n := len(catalog)
	day := int(t.Unix() / 86400)
	return catalog[(day%n+n)%n], true
}

// EnsureDaily sets today's goal from the catalog when there is no
// challenge for today yet. It reports whether a goal was set.
func (e *Engine) EnsureDaily(ctx context.Context) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	today := e.Today()
	if cur := e.state.Current; cur != nil && cur.Date == today {
		return false, nil
	}
	goal, ok := GoalFor(e.catalog, today)
	if !ok || goal.Target < 1 || goal.Type == "" {
		return false, nil
	}
	return true, e.setLocked(ctx, goal.Type, goal.Description, goal.Target)
}
