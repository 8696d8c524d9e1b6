package analysis

import (
	"fmt"
	"strings"
	"time"
)

// Message is one channel message inside the requested window.
type Message struct {
	Timestamp time.Time
	Author    string
	Text      string
}

const (
	highlightCount  = 3
	highlightLength = 100
)

// ActivityReport builds an activity overview for the given messages. Messages
// are expected in chronological order.
func ActivityReport(messages []Message, window Window) string {
	if len(messages) == 0 {
		return fmt.Sprintf("📭 No activity found in the channel for %s.", window)
	}

	authorOrder := make([]string, 0, len(messages))
	authorCounts := make(map[string]int)
	hourCounts := make(map[int]int)
	hourOrder := make([]int, 0, 24)

	for _, msg := range messages {
		if authorCounts[msg.Author] == 0 {
			authorOrder = append(authorOrder, msg.Author)
		}
		authorCounts[msg.Author]++

		hour := msg.Timestamp.Hour()
		if hourCounts[hour] == 0 {
			hourOrder = append(hourOrder, hour)
		}
		hourCounts[hour]++
	}

	// ties resolve to whoever appeared first
	mostActive := authorOrder[0]
	for _, author := range authorOrder[1:] {
		if authorCounts[author] > authorCounts[mostActive] {
			mostActive = author
		}
	}
	peakHour := hourOrder[0]
	for _, hour := range hourOrder[1:] {
		if hourCounts[hour] > hourCounts[peakHour] {
			peakHour = hour
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📈 *Activity Summary* (%s):\n\n", window)
	fmt.Fprintf(&b, "• *%d* total messages\n", len(messages))
	fmt.Fprintf(&b, "• *%d* active participants\n", len(authorOrder))
	fmt.Fprintf(&b, "• Most active: *%s*\n", mostActive)
	fmt.Fprintf(&b, "• Peak activity: *%d:00*\n\n", peakHour)
	b.WriteString("Recent highlights:")

	highlights := messages
	if len(highlights) > highlightCount {
		highlights = highlights[len(highlights)-highlightCount:]
	}
	for _, msg := range highlights {
		fmt.Fprintf(&b, "\n• %s: %s", msg.Author, truncate(msg.Text, highlightLength))
	}

	return b.String()
}

func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
