// Package skills rolls per-category counters up into the skill tree.
// Everything here is pure: identical counters always yield identical views.
package skills

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/abhisek/fluentz/internal/performance"
)

// ErrInvalidGroups is returned by NewClassifier for a bad group table.
var ErrInvalidGroups = errors.New("invalid skill groups")

// Group is a configured bundle of categories shown as one skill.
type Group struct {
	ID         string
	Name       string
	Categories []string
}

// Skill is the derived view of one group.
type Skill struct {
	Group   Group
	Correct int
	Total   int
	Percent int // rounded correct/total, 0 when unrated
	Tier    Tier
	Band    Band
}

// Rated reports whether the group has any attempts.
func (s Skill) Rated() bool {
	return s.Total > 0
}

// Classifier maps category counters to skill groups.
type Classifier struct {
	groups     []Group
	categoryOf map[string]string
}

// NewClassifier validates the group table: IDs must be unique and
// non-empty, and a category may belong to at most one group.
func NewClassifier(groups []Group) (*Classifier, error) {
	c := &Classifier{categoryOf: make(map[string]string)}
	seen := make(map[string]bool)
	for _, g := range groups {
		if g.ID == "" {
			return nil, fmt.Errorf("%w: empty group id", ErrInvalidGroups)
		}
		if seen[g.ID] {
			return nil, fmt.Errorf("%w: duplicate group %q", ErrInvalidGroups, g.ID)
		}
		seen[g.ID] = true
		for _, cat := range g.Categories {
			if owner, ok := c.categoryOf[cat]; ok {
				return nil, fmt.Errorf("%w: category %q in both %q and %q", ErrInvalidGroups, cat, owner, g.ID)
			}
			c.categoryOf[cat] = g.ID
		}
		c.groups = append(c.groups, g.clone())
	}
	return c, nil
}

// Groups returns a copy of the configured groups in order.
func (c *Classifier) Groups() []Group {
	out := make([]Group, len(c.groups))
	for i, g := range c.groups {
		out[i] = g.clone()
	}
	return out
}

func (g Group) clone() Group {
	g.Categories = slices.Clone(g.Categories)
	return g
}

// GroupOf returns the group ID owning category, if any.
func (c *Classifier) GroupOf(category string) (string, bool) {
	id, ok := c.categoryOf[category]
	return id, ok
}

// Classify returns one Skill per group, in configuration order. Unrated
// groups are included so the full tree stays enumerable.
func (c *Classifier) Classify(counters map[string]performance.Tally) []Skill {
	out := make([]Skill, 0, len(c.groups))
	for _, g := range c.groups {
		var sum performance.Tally
		for _, cat := range g.Categories {
			sum = sum.Add(counters[cat])
		}
		out = append(out, Skill{
			Group:   g.clone(),
			Correct: sum.Correct,
			Total:   sum.Total,
			Percent: percent(sum.Correct, sum.Total),
			Tier:    TierFor(sum.Total),
			Band:    BandFor(sum.Correct, sum.Total),
		})
	}
	return out
}

// Tracked filters out unrated skills.
func Tracked(all []Skill) []Skill {
	var out []Skill
	for _, s := range all {
		if s.Rated() {
			out = append(out, s)
		}
	}
	return out
}

func percent(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) * 100 / float64(total)))
}
