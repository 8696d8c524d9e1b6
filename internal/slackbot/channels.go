package slackbot

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/slack-go/slack"

	"github.com/nestieai/nestie/internal/analysis"
)

const unknownUser = "Unknown User"

// fetchMessages loads the channel history for the window, oldest first.
func (b *Bot) fetchMessages(ctx context.Context, channelID string, window analysis.Window) ([]analysis.Message, error) {
	oldest := window.Start(b.now())

	resp, err := b.api.GetConversationHistoryContext(ctx, &slack.GetConversationHistoryParameters{
		ChannelID: channelID,
		Oldest:    strconv.FormatInt(oldest.Unix(), 10),
		Limit:     b.maxMessages,
	})
	if err != nil {
		return nil, err
	}

	messages := make([]analysis.Message, 0, len(resp.Messages))
	for _, msg := range resp.Messages {
		text := msg.Text
		if text == "" {
			continue
		}
		ts, err := parseSlackTimestamp(msg.Timestamp)
		if err != nil {
			continue
		}
		messages = append(messages, analysis.Message{
			Timestamp: ts,
			Author:    b.displayName(ctx, msg.User),
			Text:      text,
		})
	}

	sort.Slice(messages, func(i, j int) bool {
		return messages[i].Timestamp.Before(messages[j].Timestamp)
	})
	return messages, nil
}

// displayName resolves a user ID to a display name, caching lookups for the
// lifetime of the bot.
func (b *Bot) displayName(ctx context.Context, userID string) string {
	if userID == "" {
		return unknownUser
	}

	b.mu.Lock()
	name, ok := b.userNames[userID]
	b.mu.Unlock()
	if ok {
		return name
	}

	name = unknownUser
	if user, err := b.api.GetUserInfoContext(ctx, userID); err == nil && user.Profile.DisplayName != "" {
		name = user.Profile.DisplayName
	}

	b.mu.Lock()
	b.userNames[userID] = name
	b.mu.Unlock()
	return name
}

// parseSlackTimestamp converts a Slack "seconds.fraction" timestamp.
func parseSlackTimestamp(ts string) (time.Time, error) {
	seconds, err := strconv.ParseFloat(ts, 64)
	if err != nil {
		return time.Time{}, err
	}
	sec := int64(seconds)
	nsec := int64((seconds - float64(sec)) * float64(time.Second))
	return time.Unix(sec, nsec), nil
}
