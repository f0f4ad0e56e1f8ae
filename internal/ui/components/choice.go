package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/fluentz/internal/assessment"
	"github.com/abhisek/fluentz/internal/ui/theme"
)

// Choice renders one question's options with a cursor and the currently
// recorded answer. It holds no answer state of its own.
type Choice struct {
	Options []assessment.Option
	Cursor  int
	Chosen  string
}

// NewChoice creates a Choice with the cursor on the chosen option, or on
// the first option when nothing is chosen yet.
func NewChoice(options []assessment.Option, chosen string) Choice {
	c := Choice{Options: options, Chosen: chosen}
	for i, o := range options {
		if o.Key == chosen {
			c.Cursor = i
		}
	}
	return c
}

// Up moves the cursor up, stopping at the first option.
func (c *Choice) Up() {
	if c.Cursor > 0 {
		c.Cursor--
	}
}

// Down moves the cursor down, stopping at the last option.
func (c *Choice) Down() {
	if c.Cursor < len(c.Options)-1 {
		c.Cursor++
	}
}

// Current returns the option key under the cursor.
func (c Choice) Current() string {
	if c.Cursor < 0 || c.Cursor >= len(c.Options) {
		return ""
	}
	return c.Options[c.Cursor].Key
}

// View renders the options.
func (c Choice) View() string {
	var b strings.Builder
	for i, opt := range c.Options {
		prefix := "  "
		if i == c.Cursor {
			prefix = "▸ "
		}
		mark := " "
		if opt.Key == c.Chosen {
			mark = "✓"
		}
		line := fmt.Sprintf("%s%s %s)  %s", prefix, mark, opt.Key, opt.Text)

		var style lipgloss.Style
		switch {
		case i == c.Cursor:
			style = theme.Selected
		case opt.Key == c.Chosen:
			style = theme.Answered
		default:
			style = theme.Unselected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
