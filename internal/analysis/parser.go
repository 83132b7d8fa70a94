package analysis

import (
	"github.com/alexanderramin/meetmeter/internal/domain"
	"github.com/alexanderramin/meetmeter/internal/llm"
)

const (
	minRecommendations = 3
	maxRecommendations = 5
)

// ParseResult maps a raw model reply onto an AnalysisResult. It never fails:
// anything that does not match the schema yields the theme's fallback.
func ParseResult(raw string, theme Theme) *domain.AnalysisResult {
	res, err := parseResult(raw)
	if err != nil {
		return theme.Fallback.Clone()
	}
	return res
}

func parseResult(raw string) (*domain.AnalysisResult, error) {
	doc, err := llm.ExtractJSON[map[string]any](raw, Validate)
	if err != nil {
		return nil, err
	}

	stats := doc["meeting_stats"].(map[string]any)
	res := &domain.AnalysisResult{
		IndependencePercentage: domain.ClampPercentage(doc["independence_percentage"].(float64)),
		WittyMessage:           doc["witty_message"].(string),
		DetailedAnalysis:       doc["detailed_analysis"].(string),
		MeetingStats: domain.MeetingStats{
			TotalMeetings:           stats["total_meetings"].(float64),
			TotalHours:              stats["total_hours"].(float64),
			AvgMeetingLength:        stats["avg_meeting_length"].(float64),
			LongestMeetingFreeBlock: stats["longest_meeting_free_block"].(string),
		},
	}
	for _, item := range doc["recommendations"].([]any) {
		if len(res.Recommendations) == maxRecommendations {
			break
		}
		res.Recommendations = append(res.Recommendations, item.(string))
	}
	return res, nil
}
