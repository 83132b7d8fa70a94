package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleICS = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//meetmeter//test//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:standup-1\r\n" +
	"DTSTAMP:20240101T000000Z\r\n" +
	"DTSTART:20240115T090000Z\r\n" +
	"DTEND:20240115T093000Z\r\n" +
	"SUMMARY:Daily Standup\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:offsite-1\r\n" +
	"DTSTAMP:20240101T000000Z\r\n" +
	"DTSTART;VALUE=DATE:20240116\r\n" +
	"DTEND;VALUE=DATE:20240117\r\n" +
	"SUMMARY:Offsite\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func TestParseICS(t *testing.T) {
	events, err := ParseICS(strings.NewReader(sampleICS), time.UTC)
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, "standup-1", events[0].ID)
	assert.Equal(t, "Daily Standup", events[0].Summary)
	assert.Equal(t, "2024-01-15T09:00:00Z", events[0].Start.DateTime)
	assert.Equal(t, "2024-01-15T09:30:00Z", events[0].End.DateTime)

	assert.Equal(t, "2024-01-16", events[1].Start.Date)
	assert.Empty(t, events[1].Start.DateTime)
}

func TestFormatICS(t *testing.T) {
	require.True(t, LooksLikeICS("  "+sampleICS))

	text, err := FormatICS(sampleICS, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15 09:00 AM - 09:30 AM: Daily Standup\n2024-01-16: Offsite (All day)", text)
}

func TestParseICS_Malformed(t *testing.T) {
	_, err := ParseICS(strings.NewReader("BEGIN:VCALENDAR\r\nBROKEN"), time.UTC)
	assert.Error(t, err)
}
