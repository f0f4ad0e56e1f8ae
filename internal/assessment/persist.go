package assessment

import (
	"context"
	"fmt"
	"time"
)

// savedSession is the persisted form of an active session.
type savedSession struct {
	SessionID string         `json:"session_id"`
	Kind      Kind           `json:"kind"`
	Questions []Question     `json:"questions"`
	Answers   map[int]string `json:"answers"`
	Duration  int            `json:"duration_seconds"`
	Remaining int            `json:"seconds_remaining"`
	StartedAt time.Time      `json:"started_at"`
}

// Restore resumes a session persisted by a previous process. The
// countdown continues from the last persisted tick. A saved session that
// no longer validates, or that was already finalized, is discarded.
func (c *Controller) Restore(ctx context.Context) (bool, error) {
	if c.docs == nil {
		return false, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status == StatusActive {
		return false, ErrSessionAlreadyActive
	}
	if c.dirty {
		// The saved session ended in this process; only its removal failed.
		c.clearPersistedLocked(ctx)
		return false, nil
	}

	var saved savedSession
	ok, err := c.docs.Load(ctx, Feature, &saved)
	if err != nil {
		return false, fmt.Errorf("load session: %w", err)
	}
	if !ok {
		return false, nil
	}

	if !saved.Kind.Valid() || saved.Duration <= 0 || saved.Remaining <= 0 ||
		saved.Remaining > saved.Duration || ValidateQuestions(saved.Questions) != nil {
		c.logger.Warn("discarding unusable saved session", "kind", saved.Kind, "remaining", saved.Remaining)
		c.clearPersistedLocked(ctx)
		return false, nil
	}
	if saved.SessionID != "" && c.finalized != nil && c.finalized(saved.SessionID) {
		c.logger.Warn("discarding saved session that already finished", "session", saved.SessionID)
		c.clearPersistedLocked(ctx)
		return false, nil
	}

	c.resetLocked()
	c.status = StatusActive
	c.sessionID = saved.SessionID
	c.kind = saved.Kind
	c.questions = saved.Questions
	for i, q := range c.questions {
		c.byOrdinal[q.Ordinal] = i
	}
	for ord, key := range saved.Answers {
		if i, ok := c.byOrdinal[ord]; ok && c.questions[i].HasOption(key) {
			c.answers[ord] = key
		}
	}
	c.duration = saved.Duration
	c.remaining = saved.Remaining
	c.startedAt = saved.StartedAt
	return true, nil
}

func (c *Controller) persistLocked(ctx context.Context) error {
	if c.docs == nil {
		return nil
	}
	err := c.docs.Save(ctx, Feature, savedSession{
		SessionID: c.sessionID,
		Kind:      c.kind,
		Questions: c.questions,
		Answers:   c.answers,
		Duration:  c.duration,
		Remaining: c.remaining,
		StartedAt: c.startedAt,
	})
	c.dirty = err != nil
	return err
}

func (c *Controller) clearPersistedLocked(ctx context.Context) error {
	if c.docs == nil {
		return nil
	}
	err := c.docs.Remove(ctx, Feature)
	if err != nil {
		c.logger.Warn("failed to clear saved session", "err", err)
	}
	c.dirty = err != nil
	return err
}
