package domain

import "math"

const (
	MinIndependencePct = 0
	MaxIndependencePct = 100
)

type MeetingStats struct {
	TotalMeetings           float64 `json:"total_meetings"`
	TotalHours              float64 `json:"total_hours"`
	AvgMeetingLength        float64 `json:"avg_meeting_length"`
	LongestMeetingFreeBlock string  `json:"longest_meeting_free_block"`
}

type AnalysisResult struct {
	IndependencePercentage int          `json:"independence_percentage"`
	WittyMessage           string       `json:"witty_message"`
	DetailedAnalysis       string       `json:"detailed_analysis"`
	MeetingStats           MeetingStats `json:"meeting_stats"`
	Recommendations        []string     `json:"recommendations"`
}

// ClampPercentage rounds p and bounds it to [MinIndependencePct, MaxIndependencePct].
// The bound is applied before the int conversion so huge values cannot overflow.
func ClampPercentage(p float64) int {
	if math.IsNaN(p) {
		return MinIndependencePct
	}
	return int(math.Max(MinIndependencePct, math.Min(MaxIndependencePct, math.Round(p))))
}

// Clone returns a deep copy so shared fallback values are never aliased by callers.
func (r AnalysisResult) Clone() *AnalysisResult {
	out := r
	out.Recommendations = append([]string(nil), r.Recommendations...)
	return &out
}
