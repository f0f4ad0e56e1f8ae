package app

import (
	"context"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/fluentz/internal/assessment"
	"github.com/abhisek/fluentz/internal/screens/exam"
	"github.com/abhisek/fluentz/internal/screens/result"
	"github.com/abhisek/fluentz/internal/tracker"
)

func testModel(t *testing.T) AppModel {
	t.Helper()
	ctx := context.Background()
	tr, err := tracker.New(ctx, tracker.Options{Location: time.UTC})
	require.NoError(t, err)
	t.Cleanup(func() { _ = tr.Close() })

	opts := []assessment.Option{{Key: "A", Text: "yes"}, {Key: "B", Text: "no"}}
	require.NoError(t, tr.Assessment.Start(ctx, assessment.KindListening, []assessment.Question{
		{Ordinal: 1, Prompt: "Did you hear 'ship'?", Options: opts, CorrectKey: "A", Category: "listening"},
	}, 90))
	return newAppModel(ctx, Options{Tracker: tr, Title: "Listening"})
}

func update(t *testing.T, m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	am, ok := next.(AppModel)
	require.True(t, ok)
	return am, cmd
}

func TestAppModel_FinishShowsResult(t *testing.T) {
	m := testModel(t)

	m, _ = update(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	m, cmd := update(t, m, tea.KeyPressMsg{Code: 'f', Text: "f"})
	require.NotNil(t, cmd)

	m, _ = update(t, m, cmd())
	assert.IsType(t, &result.ResultScreen{}, m.active)
	assert.Equal(t, OutcomeFinished, m.outcome)
	assert.Equal(t, 1, m.tr.History.Len())

	m, cmd = update(t, m, result.DoneMsg{})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, assessment.StatusIdle, m.tr.Assessment.Status())
}

func TestAppModel_AbandonQuits(t *testing.T) {
	m := testModel(t)
	m, cmd := update(t, m, exam.AbandonedMsg{})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, OutcomeAbandoned, m.outcome)
}

func TestAppModel_CtrlCPausesSession(t *testing.T) {
	m := testModel(t)
	m, cmd := update(t, m, tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, OutcomePaused, m.outcome)
	assert.Equal(t, assessment.StatusActive, m.tr.Assessment.Status())
}

func TestAppModel_View(t *testing.T) {
	m := testModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	assert.True(t, m.View().AltScreen)
	out := m.render()
	assert.Contains(t, out, "Listening")
	assert.Contains(t, out, "1:30")
	assert.Contains(t, out, "Did you hear")
}

func TestAppModel_TooSmall(t *testing.T) {
	m := testModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 20, Height: 5})
	assert.Contains(t, m.render(), "Terminal too small")
}

func TestWaitForUpdate(t *testing.T) {
	ch := make(chan assessment.Update, 1)
	ch <- assessment.Update{Remaining: 7}
	msg := waitForUpdate(context.Background(), ch)()
	assert.Equal(t, updateMsg(assessment.Update{Remaining: 7}), msg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Nil(t, waitForUpdate(ctx, make(chan assessment.Update))())
}
