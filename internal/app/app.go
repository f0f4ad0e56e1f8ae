// Package app runs the terminal exam runner.
package app

import (
	"context"
	"fmt"

	"charm.land/bubbles/v2/help"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/fluentz/internal/assessment"
	"github.com/abhisek/fluentz/internal/screen"
	"github.com/abhisek/fluentz/internal/screens/exam"
	"github.com/abhisek/fluentz/internal/screens/result"
	"github.com/abhisek/fluentz/internal/tracker"
	"github.com/abhisek/fluentz/internal/ui/layout"
)

// Options configures Run.
type Options struct {
	Tracker *tracker.Tracker
	Title   string
}

// Outcome reports how the program ended.
type Outcome int

const (
	// OutcomePaused means the learner quit with the session still active;
	// it resumes on the next run.
	OutcomePaused Outcome = iota
	OutcomeFinished
	OutcomeAbandoned
)

// updateMsg carries a countdown update from the driver.
type updateMsg assessment.Update

// AppModel is the root Bubble Tea model.
type AppModel struct {
	ctx     context.Context
	tr      *tracker.Tracker
	active  screen.Screen
	help    help.Model
	outcome Outcome
	width   int
	height  int
}

func newAppModel(ctx context.Context, opts Options) AppModel {
	return AppModel{
		ctx:    ctx,
		tr:     opts.Tracker,
		active: exam.New(ctx, opts.Tracker.Assessment, opts.Title),
		help:   help.New(),
	}
}

// waitForUpdate blocks on the driver's channel. It is re-armed after
// every update so at most one read is pending.
func waitForUpdate(ctx context.Context, updates <-chan assessment.Update) tea.Cmd {
	return func() tea.Msg {
		select {
		case u := <-updates:
			return updateMsg(u)
		case <-ctx.Done():
			return nil
		}
	}
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.active.Init(), waitForUpdate(m.ctx, m.tr.Updates()))
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case updateMsg:
		var cmd tea.Cmd
		m.active, cmd = m.active.Update(assessment.Update(msg))
		return m, tea.Batch(cmd, waitForUpdate(m.ctx, m.tr.Updates()))

	case exam.FinishedMsg:
		// The tracker recorded the result before this message was sent.
		m.active = result.New(msg.Result, m.tr.UnlockedAchievements())
		m.outcome = OutcomeFinished
		return m, m.active.Init()

	case exam.AbandonedMsg:
		m.outcome = OutcomeAbandoned
		return m, tea.Quit

	case result.DoneMsg:
		m.tr.Assessment.Acknowledge()
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.active, cmd = m.active.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	clock := ""
	if m.tr.Assessment.Status() == assessment.StatusActive {
		clock = layout.FormatClock(m.tr.Assessment.Remaining())
	}
	header := layout.RenderHeader(m.active.Title(), clock, m.tr.Challenge().Streak, m.width)
	footer := layout.RenderFooter(m.help.View(m.active.Keys()), m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.active.View(m.width, contentHeight)

	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run shows the active session until it is finished, abandoned or paused.
// The tracker's driver must already be started.
func Run(ctx context.Context, opts Options) (Outcome, error) {
	if opts.Tracker == nil {
		return OutcomePaused, fmt.Errorf("app: tracker is required")
	}
	p := tea.NewProgram(newAppModel(ctx, opts), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return OutcomePaused, fmt.Errorf("run exam: %w", err)
	}
	if m, ok := final.(AppModel); ok {
		return m.outcome, nil
	}
	return OutcomePaused, nil
}
