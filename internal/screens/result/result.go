// Package result shows a finished assessment.
package result

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/fluentz/internal/achievements"
	"github.com/abhisek/fluentz/internal/assessment"
	"github.com/abhisek/fluentz/internal/screen"
	"github.com/abhisek/fluentz/internal/ui/components"
	"github.com/abhisek/fluentz/internal/ui/layout"
	"github.com/abhisek/fluentz/internal/ui/theme"
)

// DoneMsg is emitted when the learner dismisses the result.
type DoneMsg struct{}

type keyMap struct {
	Done key.Binding
}

func (k keyMap) ShortHelp() []key.Binding  { return []key.Binding{k.Done} }
func (k keyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

// ResultScreen displays the score, per-category breakdown and the badges
// unlocked after the session was recorded.
type ResultScreen struct {
	result   assessment.Result
	unlocked []achievements.Definition
	keys     keyMap
}

var _ screen.Screen = (*ResultScreen)(nil)

// New creates a ResultScreen.
func New(res assessment.Result, unlocked []achievements.Definition) *ResultScreen {
	return &ResultScreen{
		result:   res,
		unlocked: unlocked,
		keys: keyMap{
			Done: key.NewBinding(key.WithKeys("enter", "esc", "q"), key.WithHelp("enter", "done")),
		},
	}
}

func (s *ResultScreen) Init() tea.Cmd {
	return nil
}

func (s *ResultScreen) Title() string {
	return "Results"
}

func (s *ResultScreen) Keys() help.KeyMap {
	return s.keys
}

func (s *ResultScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && key.Matches(kmsg, s.keys.Done) {
		return s, func() tea.Msg { return DoneMsg{} }
	}
	return s, nil
}

func (s *ResultScreen) View(width, height int) string {
	res := s.result
	var b strings.Builder

	heading := "Assessment complete!"
	if res.Expired {
		heading = "Time's up!"
	}
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render(heading))
	b.WriteString("\n\n")

	scoreStyle := theme.Correct
	if res.Accuracy() < 0.5 {
		scoreStyle = theme.Incorrect
	}
	b.WriteString(scoreStyle.Render(fmt.Sprintf("Score: %d / %d", res.Score, res.TotalQuestions)))
	b.WriteString(theme.Hint.Render(fmt.Sprintf("   time used %s", layout.FormatClock(res.SecondsElapsed))))
	b.WriteString("\n\n")

	barWidth := min(width, 60)
	for _, cat := range slices.Sorted(maps.Keys(res.PerformanceByCategory)) {
		t := res.PerformanceByCategory[cat]
		bar := components.NewProgressBar(fmt.Sprintf("%-18s", cat), t.Accuracy(), barWidth)
		bar.Suffix = fmt.Sprintf("%d/%d", t.Correct, t.Total)
		b.WriteString(bar.View())
		b.WriteString("\n")
	}

	if len(s.unlocked) > 0 {
		b.WriteString("\n")
		b.WriteString(theme.Title.Render("Badges"))
		b.WriteString("\n")
		for _, d := range s.unlocked {
			b.WriteString(theme.Body.Render(fmt.Sprintf("%s %s", d.Icon, d.Title)))
			b.WriteString(theme.Hint.Render("  " + d.Description))
			b.WriteString("\n")
		}
	}
	return b.String()
}
