package layout

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatClock(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "0:00"},
		{9, "0:09"},
		{60, "1:00"},
		{605, "10:05"},
		{-3, "0:00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatClock(tt.seconds))
	}
}

func TestRenderHeaderShowsClockAndStreak(t *testing.T) {
	h := RenderHeader("Exam", "4:59", 3, 80)
	assert.Contains(t, h, "Fluentz")
	assert.Contains(t, h, "Exam")
	assert.Contains(t, h, "4:59")
	assert.Contains(t, h, "3")
}

func TestRenderFrameStacksSections(t *testing.T) {
	frame := RenderFrame("HEAD", "BODY", "FOOT", 20, 10)
	lines := strings.Split(frame, "\n")
	assert.Equal(t, "HEAD", lines[0])
	assert.Equal(t, "FOOT", lines[len(lines)-1])
	assert.Contains(t, frame, "BODY")
}

func TestIsTooSmall(t *testing.T) {
	assert.True(t, IsTooSmall(MinWidth-1, MinHeight))
	assert.True(t, IsTooSmall(MinWidth, MinHeight-1))
	assert.False(t, IsTooSmall(MinWidth, MinHeight))
}
