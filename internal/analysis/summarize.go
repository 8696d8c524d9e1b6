package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nestieai/nestie/internal/llm"
)

// transcriptLimit caps how much conversation text is sent to the model.
const transcriptLimit = 8000

const summaryPromptTemplate = `Please provide a concise summary of the following Slack channel conversation (%s):

%s

Focus on:
- Main topics discussed
- Key decisions or announcements
- Important questions or issues raised
- Action items mentioned`

// Summarizer condenses a channel conversation with the language model.
type Summarizer struct {
	generator llm.Generator
	logger    *slog.Logger
}

func NewSummarizer(log *slog.Logger, generator llm.Generator) *Summarizer {
	return &Summarizer{generator: generator, logger: log}
}

// Summarize produces a formatted summary of the messages. An empty window
// yields a placeholder without calling the model.
func (s *Summarizer) Summarize(ctx context.Context, messages []Message, window Window) (string, error) {
	if len(messages) == 0 {
		return fmt.Sprintf("📭 No messages found in the channel for %s.", window), nil
	}

	prompt := fmt.Sprintf(summaryPromptTemplate, window, Transcript(messages))

	summary, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		s.logger.Error("channel summary generation failed", slog.Any("error", err))
		return "", fmt.Errorf("summarize channel: %w", err)
	}

	return fmt.Sprintf("📊 *Channel Summary* (%s):\n\n%s\n\n_Analyzed %d messages_",
		window, strings.TrimSpace(summary), len(messages)), nil
}

// Transcript renders messages as "[HH:MM] author: text" lines. When the full
// transcript exceeds the limit, the newest messages that fit are kept and
// older ones are dropped whole.
func Transcript(messages []Message) string {
	lines := make([]string, len(messages))
	for i, msg := range messages {
		lines[i] = fmt.Sprintf("[%s] %s: %s", msg.Timestamp.Format("15:04"), msg.Author, msg.Text)
	}

	full := strings.Join(lines, "\n")
	if len(full) <= transcriptLimit {
		return full
	}

	size := 0
	start := len(lines)
	for i := len(lines) - 1; i >= 0; i-- {
		if size+len(lines[i])+1 > transcriptLimit {
			break
		}
		size += len(lines[i]) + 1
		start = i
	}
	return strings.Join(lines[start:], "\n")
}
