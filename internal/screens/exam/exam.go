// Package exam is the screen for a running timed assessment.
package exam

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/fluentz/internal/assessment"
	"github.com/abhisek/fluentz/internal/screen"
	"github.com/abhisek/fluentz/internal/ui/components"
	"github.com/abhisek/fluentz/internal/ui/layout"
	"github.com/abhisek/fluentz/internal/ui/theme"
)

// FinishedMsg is emitted once the session has a result, whether the
// learner finished it or the countdown expired.
type FinishedMsg struct {
	Result assessment.Result
}

// AbandonedMsg is emitted after the learner discarded the session.
type AbandonedMsg struct{}

// ExamScreen renders the controller's active session. All session state
// lives in the controller; the screen only keeps the cursor.
type ExamScreen struct {
	ctx         context.Context
	ctrl        *assessment.Controller
	title       string
	index       int
	choice      components.Choice
	confirm     bool
	warning     string
	keys        keyMap
	confirmKeys confirmKeys
}

var _ screen.Screen = (*ExamScreen)(nil)

// New creates the screen for ctrl's active session.
func New(ctx context.Context, ctrl *assessment.Controller, title string) *ExamScreen {
	s := &ExamScreen{
		ctx:         ctx,
		ctrl:        ctrl,
		title:       title,
		keys:        defaultKeys(),
		confirmKeys: defaultConfirmKeys(),
	}
	s.syncChoice(ctrl.View())
	return s
}

func (s *ExamScreen) Init() tea.Cmd {
	return nil
}

func (s *ExamScreen) Title() string {
	if s.title == "" {
		return "Assessment"
	}
	return s.title
}

func (s *ExamScreen) Keys() help.KeyMap {
	if s.confirm {
		return s.confirmKeys
	}
	return s.keys
}

func (s *ExamScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case assessment.Update:
		if msg.Result != nil {
			return s, finished(*msg.Result)
		}
		return s, nil

	case tea.KeyMsg:
		if s.confirm {
			return s.updateConfirm(msg)
		}
		return s.updateKeys(msg)
	}
	return s, nil
}

func (s *ExamScreen) updateConfirm(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch {
	case key.Matches(msg, s.confirmKeys.Yes):
		s.confirm = false
		s.ctrl.Abandon(s.ctx)
		return s, func() tea.Msg { return AbandonedMsg{} }
	case key.Matches(msg, s.confirmKeys.No):
		s.confirm = false
	}
	return s, nil
}

func (s *ExamScreen) updateKeys(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	view := s.ctrl.View()
	if view.Status != assessment.StatusActive {
		return s, nil
	}

	switch {
	case key.Matches(msg, s.keys.Up):
		s.choice.Up()
	case key.Matches(msg, s.keys.Down):
		s.choice.Down()
	case key.Matches(msg, s.keys.Prev):
		if s.index > 0 {
			s.index--
			s.syncChoice(view)
		}
	case key.Matches(msg, s.keys.Next):
		if s.index < len(view.Questions)-1 {
			s.index++
			s.syncChoice(view)
		}
	case key.Matches(msg, s.keys.Answer):
		return s, s.answer(view)
	case key.Matches(msg, s.keys.Finish):
		res, err := s.ctrl.Finish(s.ctx)
		s.noteError(err)
		if res != nil {
			return s, finished(*res)
		}
	case key.Matches(msg, s.keys.Abandon):
		s.confirm = true
	}
	return s, nil
}

func (s *ExamScreen) answer(view assessment.View) tea.Cmd {
	q := view.Questions[s.index]
	err := s.ctrl.RecordAnswer(s.ctx, q.Ordinal, s.choice.Current())
	if errors.Is(err, assessment.ErrNotActive) {
		return nil
	}
	s.noteError(err)

	view = s.ctrl.View()
	if s.index < len(view.Questions)-1 {
		s.index++
	}
	s.syncChoice(view)
	return nil
}

// noteError keeps going on persistence failures; the answer is held in
// memory and saved with the next successful write.
func (s *ExamScreen) noteError(err error) {
	if err == nil {
		s.warning = ""
		return
	}
	s.warning = "progress not saved: " + err.Error()
}

func (s *ExamScreen) syncChoice(view assessment.View) {
	if s.index >= len(view.Questions) {
		s.choice = components.Choice{}
		return
	}
	q := view.Questions[s.index]
	s.choice = components.NewChoice(q.Options, view.Answers[q.Ordinal])
}

func (s *ExamScreen) View(width, height int) string {
	view := s.ctrl.View()
	if view.Status != assessment.StatusActive || len(view.Questions) == 0 {
		return theme.Hint.Render("No assessment in progress.")
	}
	q := view.Questions[s.index]

	var b strings.Builder
	b.WriteString(theme.Title.Render(fmt.Sprintf("Question %d of %d", s.index+1, len(view.Questions))))
	b.WriteString("   ")
	b.WriteString(clockStyle(view.SecondsRemaining).Render(layout.FormatClock(view.SecondsRemaining)))
	b.WriteString("\n\n")

	if q.Passage != "" {
		b.WriteString(theme.Passage.Width(max(width-4, 20)).Render(q.Passage))
		b.WriteString("\n\n")
	}
	b.WriteString(theme.Body.Bold(true).Render(q.Prompt))
	b.WriteString("\n\n")
	b.WriteString(s.choice.View())
	b.WriteString("\n")

	answered := len(view.Answers)
	bar := components.NewProgressBar("Answered", float64(answered)/float64(len(view.Questions)), min(width, 60))
	bar.Suffix = fmt.Sprintf("%d/%d", answered, len(view.Questions))
	b.WriteString(bar.View())

	if s.confirm {
		b.WriteString("\n\n")
		b.WriteString(theme.Incorrect.Render("Abandon this assessment? Nothing will be recorded. (y/n)"))
	}
	if s.warning != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.Hint.Render(s.warning))
	}
	return b.String()
}

func clockStyle(remaining int) lipgloss.Style {
	if remaining <= 60 {
		return theme.Urgent
	}
	return theme.Clock
}

func finished(res assessment.Result) tea.Cmd {
	return func() tea.Msg { return FinishedMsg{Result: res} }
}
