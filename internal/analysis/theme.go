package analysis

import (
	"sort"
	"strings"

	"github.com/alexanderramin/meetmeter/internal/domain"
)

const (
	ThemeOppression = "oppression"
	ThemePatriotic  = "patriotic"
)

// Theme is a deployment-wide wording variant. One theme is selected at
// startup and applied to the banner, both prompts and every canned result.
type Theme struct {
	ID     string
	Banner string

	SystemPrompt string
	// Intro opens the user prompt and frames the task.
	Intro              string
	ScoreDescription   string
	MessageStyle       string
	MessageExample     string
	RecommendationGoal string
	Factors            []string

	// Fallback replaces any model reply that cannot be parsed.
	Fallback domain.AnalysisResult
	// FreeSchedule is returned without a model call when no events were found.
	FreeSchedule domain.AnalysisResult
}

var themes = map[string]Theme{
	ThemeOppression: {
		ID:     ThemeOppression,
		Banner: "Meeting Oppression Calculator API",
		SystemPrompt: "You are a witty meeting oppression calculator that helps people realize " +
			"how much their calendar controls their life.",
		Intro: `You are a witty AI assistant that analyzes people's meeting schedules to calculate ` +
			`their "meeting oppression" level.`,
		ScoreDescription:   "higher means less oppressed by meetings",
		MessageStyle:       "A witty, sarcastic message about their meeting situation",
		MessageExample:     "You're 38% independent. Take back your damn day.",
		RecommendationGoal: "reduce meeting oppression",
		Factors: []string{
			"Meeting frequency and density",
			"Back-to-back meetings",
			"Meeting length and types",
			"Time blocks for focused work",
			"Meeting-free periods",
		},
		Fallback: domain.AnalysisResult{
			IndependencePercentage: 50,
			WittyMessage:           "Your calendar is a hot mess, but at least you're consistently chaotic.",
			DetailedAnalysis:       "Your meeting schedule suggests you're stuck in corporate purgatory. Time to rebel.",
			MeetingStats: domain.MeetingStats{
				LongestMeetingFreeBlock: "Probably lunch",
			},
			Recommendations: []string{
				"Block calendar time for actual work",
				"Question every recurring meeting",
				"Learn to say 'Could this be an email?'",
			},
		},
		FreeSchedule: domain.AnalysisResult{
			IndependencePercentage: 100,
			WittyMessage:           "You're 100% independent. No meetings found. Are you even employed?",
			DetailedAnalysis: "Your calendar is completely empty for this period. Not a single meeting stands " +
				"between you and your focus. Guard this freedom jealously.",
			MeetingStats: domain.MeetingStats{
				LongestMeetingFreeBlock: "The entire period",
			},
			Recommendations: []string{
				"Protect this empty calendar at all costs",
				"Use the open time for deep, focused work",
				"Decline new recurring meetings by default",
			},
		},
	},
	ThemePatriotic: {
		ID:     ThemePatriotic,
		Banner: "Declaration of Time Independence API",
		SystemPrompt: "You are a patriotic time-freedom analyst who helps people declare independence " +
			"from the tyranny of their meeting schedule.",
		Intro: `You are a spirited AI patriot that reviews people's meeting schedules and measures how ` +
			`close they are to declaring "time independence" from meeting tyranny.`,
		ScoreDescription:   "higher means more liberated from meetings",
		MessageStyle:       "A rousing, revolutionary message about their fight for time freedom",
		MessageExample:     "You're 38% free. The revolution starts with your next declined invite.",
		RecommendationGoal: "win back their time independence",
		Factors: []string{
			"Meeting frequency and density",
			"Back-to-back meetings",
			"Meeting length and types",
			"Territory held for focused work",
			"Meeting-free periods",
		},
		Fallback: domain.AnalysisResult{
			IndependencePercentage: 50,
			WittyMessage:           "Your calendar is a house divided, half free and half in meeting servitude.",
			DetailedAnalysis:       "Your schedule shows a nation still under the rule of recurring meetings. Time to rise up.",
			MeetingStats: domain.MeetingStats{
				LongestMeetingFreeBlock: "Probably lunch",
			},
			Recommendations: []string{
				"Declare focus blocks as sovereign territory",
				"Challenge every recurring meeting's right to rule",
				"Proclaim 'Could this be an email?' at every invite",
			},
		},
		FreeSchedule: domain.AnalysisResult{
			IndependencePercentage: 100,
			WittyMessage:           "You're 100% free. Your calendar has achieved total time independence.",
			DetailedAnalysis: "Not a single meeting occupies your calendar for this period. You hold every hour " +
				"as free territory. Defend it.",
			MeetingStats: domain.MeetingStats{
				LongestMeetingFreeBlock: "The entire period",
			},
			Recommendations: []string{
				"Defend your liberated calendar from new invasions",
				"Spend your freedom on deep, focused work",
				"Decline new recurring meetings by default",
			},
		},
	},
}

// LookupTheme returns the theme registered under id (case-insensitive).
func LookupTheme(id string) (Theme, bool) {
	t, ok := themes[strings.ToLower(strings.TrimSpace(id))]
	return t, ok
}

// Themes lists the registered theme ids in sorted order.
func Themes() []string {
	ids := make([]string, 0, len(themes))
	for id := range themes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
