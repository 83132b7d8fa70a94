package formatter

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/meetmeter/internal/domain"
)

// ansiPattern matches ANSI escape sequences so assertions are terminal-independent.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func sampleResult() *domain.AnalysisResult {
	return &domain.AnalysisResult{
		IndependencePercentage: 40,
		WittyMessage:           "You're 40% independent.",
		DetailedAnalysis:       "Tuesdays are a write-off.",
		MeetingStats: domain.MeetingStats{
			TotalMeetings:           12,
			TotalHours:              9.5,
			AvgMeetingLength:        0.75,
			LongestMeetingFreeBlock: "Thursday afternoon",
		},
		Recommendations: []string{"Decline the sync", "Block focus time", "Shorten standups"},
	}
}

func TestRenderFreedomBar(t *testing.T) {
	tests := []struct {
		name   string
		pct    int
		width  int
		filled int
		label  string
	}{
		{"empty", 0, 10, 0, "  0%"},
		{"half", 50, 10, 5, " 50%"},
		{"full", 100, 10, 10, "100%"},
		{"over clamps", 150, 10, 10, "100%"},
		{"negative clamps", -5, 10, 0, "  0%"},
		{"tiny width", 50, 1, 1, " 50%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stripANSI(RenderFreedomBar(tt.pct, tt.width))
			assert.Equal(t, tt.filled, strings.Count(got, filledBlock))
			assert.True(t, strings.HasSuffix(got, tt.label), got)
		})
	}
}

func TestFreedomStyle(t *testing.T) {
	assert.Equal(t, StyleRed.GetForeground(), FreedomStyle(10).GetForeground())
	assert.Equal(t, StyleYellow.GetForeground(), FreedomStyle(50).GetForeground())
	assert.Equal(t, StyleGreen.GetForeground(), FreedomStyle(90).GetForeground())
}

func TestWrap(t *testing.T) {
	got := Wrap("one two three four", 9)
	assert.Equal(t, "one two\nthree\nfour", got)
	assert.Equal(t, "unchanged text", Wrap("unchanged text", 0))
}

func TestWriteStatsTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteStatsTable(&buf, sampleResult().MeetingStats))

	out := buf.String()
	assert.Contains(t, out, "9.5")
	assert.Contains(t, out, "0.75")
	assert.Contains(t, out, "Thursday afternoon")
}

func TestWriteResult(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteResult(&buf, "Meeting Oppression", sampleResult()))

	out := stripANSI(buf.String())
	assert.Contains(t, out, "MEETING OPPRESSION")
	assert.Contains(t, out, "You're 40% independent.")
	assert.Contains(t, out, "RECOMMENDATIONS")
	assert.Contains(t, out, "3. Shorten standups")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleResult()))
	assert.Contains(t, buf.String(), `"independence_percentage": 40`)
	assert.Contains(t, buf.String(), `"longest_meeting_free_block": "Thursday afternoon"`)
}
