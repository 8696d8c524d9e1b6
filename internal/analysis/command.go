// Package analysis implements channel activity analysis and summarization.
package analysis

import (
	"regexp"
	"strings"
	"time"
)

// Window selects how far back channel messages are fetched.
type Window string

const (
	WindowToday     Window = "today"
	WindowYesterday Window = "yesterday"
	WindowWeek      Window = "week"
	WindowMonth     Window = "month"
)

// Start returns the oldest timestamp covered by the window. Today and
// yesterday anchor at local midnight, week and month are rolling.
func (w Window) Start(now time.Time) time.Time {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch w {
	case WindowYesterday:
		return midnight.AddDate(0, 0, -1)
	case WindowWeek:
		return now.AddDate(0, 0, -7)
	case WindowMonth:
		return now.AddDate(0, 0, -30)
	default:
		return midnight
	}
}

// Operation is what the user asked to be done with the channel.
type Operation string

const (
	OpSummarize Operation = "summarize"
	OpActivity  Operation = "activity"
)

// Command is a parsed channel request such as
// "summarize <#C0123456|> yesterday".
type Command struct {
	ChannelID string
	Operation Operation
	Window    Window
	RawQuery  string
}

var channelPattern = regexp.MustCompile(`<#([a-z0-9]+)\|>`)

var activityWords = []string{
	"analyze",
	"recent",
	"activity",
	"overview",
	"happen",
	"happening",
	"happened",
}

// ParseCommand recognizes channel requests in free-form text. It reports
// false when the text mentions no channel, in which case the text should be
// treated as a regular question.
func ParseCommand(text string) (Command, bool) {
	lowered := strings.ToLower(strings.TrimSpace(text))

	match := channelPattern.FindStringSubmatch(lowered)
	if match == nil {
		return Command{}, false
	}

	cmd := Command{
		ChannelID: strings.ToUpper(match[1]),
		Operation: OpSummarize,
		Window:    WindowToday,
		RawQuery:  strings.TrimSpace(text),
	}

	for _, word := range activityWords {
		if strings.Contains(lowered, word) {
			cmd.Operation = OpActivity
			break
		}
	}

	switch {
	case strings.Contains(lowered, "yesterday"):
		cmd.Window = WindowYesterday
	case strings.Contains(lowered, "week"):
		cmd.Window = WindowWeek
	case strings.Contains(lowered, "month"):
		cmd.Window = WindowMonth
	}

	return cmd, true
}
