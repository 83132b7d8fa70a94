package formatter

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/alexanderramin/meetmeter/internal/domain"
)

// WriteStatsTable renders meeting statistics as a two-column table.
func WriteStatsTable(w io.Writer, stats domain.MeetingStats) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Metric", "Value"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	data := [][]string{
		{"Meetings", formatNumber(stats.TotalMeetings)},
		{"Hours in meetings", formatNumber(stats.TotalHours)},
		{"Avg length (h)", formatNumber(stats.AvgMeetingLength)},
		{"Longest free block", stats.LongestMeetingFreeBlock},
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
