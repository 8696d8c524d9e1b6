package slackbot

import (
	"context"
	"log/slog"
	"strings"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"

	"github.com/nestieai/nestie/internal/analysis"
	"github.com/nestieai/nestie/internal/chat"
)

func (b *Bot) handleEventsAPI(ctx context.Context, apiEvent slackevents.EventsAPIEvent) {
	if apiEvent.Type != slackevents.CallbackEvent {
		return
	}

	switch ev := apiEvent.InnerEvent.Data.(type) {
	case *slackevents.AppMentionEvent:
		b.handleMention(ctx, ev)
	case *slackevents.MessageEvent:
		b.handleMessage(ctx, ev)
	}
}

func (b *Bot) handleMention(ctx context.Context, ev *slackevents.AppMentionEvent) {
	text := stripMention(ev.Text)
	b.logger.Info("app mention", slog.String("user", ev.User))

	if text == "" {
		b.post(ctx, ev.Channel, "<@"+ev.User+"> 👋 Hi, you can ask me any question!")
		return
	}
	b.post(ctx, ev.Channel, "<@"+ev.User+"> "+b.answer(ctx, ev.User, text))
}

// handleMessage processes direct messages. Channel chatter that is not a
// mention is ignored.
func (b *Bot) handleMessage(ctx context.Context, ev *slackevents.MessageEvent) {
	if ev.ChannelType != "im" || ev.BotID != "" || ev.SubType != "" {
		return
	}

	text := strings.TrimSpace(ev.Text)
	if text == "" {
		b.post(ctx, ev.Channel, "🤔 Please ask me a specific question!")
		return
	}

	switch strings.ToLower(text) {
	case "hello":
		b.post(ctx, ev.Channel, helloText(ev.User))
		return
	case "help":
		b.post(ctx, ev.Channel, helpText)
		return
	case "status":
		b.post(ctx, ev.Channel, b.statusText())
		return
	}

	b.logger.Info("direct message", slog.String("user", ev.User))
	b.post(ctx, ev.Channel, "<@"+ev.User+"> "+b.answer(ctx, ev.User, text))
}

func (b *Bot) handleSlashCommand(ctx context.Context, cmd slack.SlashCommand) string {
	text := strings.TrimSpace(cmd.Text)
	b.logger.Info("slash command", slog.String("user", cmd.UserID), slog.String("command", cmd.Command))

	if text == "" {
		return "Hi! You can ask me questions using the slash command. For example: `/nestie what are our working hours?`"
	}
	return b.answer(ctx, cmd.UserID, text)
}

// respondSlashCommand delivers the slash reply through the response URL; the
// envelope was already acknowledged by the dispatcher.
func (b *Bot) respondSlashCommand(ctx context.Context, cmd slack.SlashCommand) {
	reply := b.handleSlashCommand(ctx, cmd)
	if cmd.ResponseURL == "" {
		b.post(ctx, cmd.ChannelID, reply)
		return
	}
	if err := slack.PostWebhookContext(ctx, cmd.ResponseURL, &slack.WebhookMessage{Text: reply}); err != nil {
		b.logger.Error("failed to respond to slash command",
			slog.String("user", cmd.UserID), slog.Any("error", err))
	}
}

// answer routes a piece of text either to a channel command or to the
// per-user chat session.
func (b *Bot) answer(ctx context.Context, userID, text string) string {
	if cmd, ok := analysis.ParseCommand(text); ok {
		return b.handleChannelCommand(ctx, cmd)
	}

	answer := b.hub.Session(userID).Ask(ctx, text)
	if strings.Contains(answer, chat.NoInfoAnswer) {
		return "🤔 Please try rephrasing your question so that I can understand you better."
	}
	return answer
}

func (b *Bot) handleChannelCommand(ctx context.Context, cmd analysis.Command) string {
	b.logger.Info("channel command",
		slog.String("channel", cmd.ChannelID),
		slog.String("operation", string(cmd.Operation)),
		slog.String("window", string(cmd.Window)))

	messages, err := b.fetchMessages(ctx, cmd.ChannelID, cmd.Window)
	if err != nil {
		b.logger.Warn("channel fetch failed", slog.String("channel", cmd.ChannelID), slog.Any("error", err))
		return "I couldn't find any recent messages in that channel or I don't have access to it."
	}
	if len(messages) == 0 {
		return "I couldn't find any recent messages in that channel or I don't have access to it."
	}

	if cmd.Operation == analysis.OpActivity {
		return analysis.ActivityReport(messages, cmd.Window)
	}

	summary, err := b.summarizer.Summarize(ctx, messages, cmd.Window)
	if err != nil {
		return "😅 Sorry, I encountered an error processing the channel command. Please try again or contact support."
	}
	return summary
}

func (b *Bot) post(ctx context.Context, channel, text string) {
	if _, _, err := b.api.PostMessageContext(ctx, channel, slack.MsgOptionText(text, false)); err != nil {
		b.logger.Error("failed to post message", slog.String("channel", channel), slog.Any("error", err))
	}
}

// stripMention drops the leading <@BOTID> tag from a mention.
func stripMention(text string) string {
	if _, rest, found := strings.Cut(text, ">"); found {
		return strings.TrimSpace(rest)
	}
	return strings.TrimSpace(text)
}
