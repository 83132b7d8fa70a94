package formatter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/alexanderramin/meetmeter/internal/domain"
)

const freedomBarWidth = 20

// WriteResult renders an analysis result for a terminal: a verdict box with
// the independence bar, the stats table and the recommendations.
func WriteResult(w io.Writer, title string, res *domain.AnalysisResult) error {
	var verdict strings.Builder
	verdict.WriteString(RenderFreedomBar(res.IndependencePercentage, freedomBarWidth))
	verdict.WriteString("\n\n")
	verdict.WriteString(Bold(Wrap(res.WittyMessage, wrapWidth)))
	verdict.WriteString("\n\n")
	verdict.WriteString(StyleFg.Render(Wrap(res.DetailedAnalysis, wrapWidth)))

	if _, err := fmt.Fprintln(w, RenderBox(title, verdict.String())); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	if err := WriteStatsTable(w, res.MeetingStats); err != nil {
		return err
	}

	var recs strings.Builder
	recs.WriteString("\n")
	recs.WriteString(Header("Recommendations"))
	recs.WriteString("\n")
	for i, r := range res.Recommendations {
		fmt.Fprintf(&recs, "%s %s\n", StyleBlue.Render(fmt.Sprintf("%d.", i+1)), Wrap(r, wrapWidth))
	}
	_, err := io.WriteString(w, recs.String())
	return err
}

// WriteJSON writes v as indented JSON, for pipes and scripts.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
