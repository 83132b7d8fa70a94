package analysis

import (
	"fmt"
	"strings"
)

// Prompt is the system/user message pair sent to the model.
type Prompt struct {
	System string
	User   string
}

// BuildPrompt renders the themed prompt for the formatted calendar text.
func BuildPrompt(theme Theme, eventsText, period string) Prompt {
	var b strings.Builder

	b.WriteString(theme.Intro)
	fmt.Fprintf(&b, "\n\nCalendar Data for %s:\n%s\n\n", periodLabel(period), eventsText)

	b.WriteString("Please analyze this calendar data and provide:\n")
	fmt.Fprintf(&b, "1. An \"independence percentage\" (0-100%%) - %s\n", theme.ScoreDescription)
	fmt.Fprintf(&b, "2. %s (like %q)\n", theme.MessageStyle, theme.MessageExample)
	b.WriteString("3. Detailed analysis of their meeting patterns\n")
	b.WriteString("4. Basic meeting statistics (total meetings, hours in meetings, etc.)\n")
	fmt.Fprintf(&b, "5. %d-%d actionable recommendations to %s\n\n", minRecommendations, maxRecommendations, theme.RecommendationGoal)

	b.WriteString("Consider factors like:\n")
	for _, f := range theme.Factors {
		b.WriteString("- ")
		b.WriteString(f)
		b.WriteString("\n")
	}

	b.WriteString("\nRespond in JSON format:\n")
	b.WriteString(SchemaText())
	b.WriteString("\n\nUse strict JSON numeric literals. All meeting_stats numbers must be numbers, not text.")

	return Prompt{System: theme.SystemPrompt, User: b.String()}
}

// periodLabel turns "this_week" into "this week" for display in the prompt.
func periodLabel(period string) string {
	p := strings.TrimSpace(strings.ReplaceAll(period, "_", " "))
	if p == "" {
		return DefaultPeriodLabel
	}
	return p
}
