// Package slackbot connects the assistant to Slack over Socket Mode.
package slackbot

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"

	"github.com/nestieai/nestie/internal/analysis"
	"github.com/nestieai/nestie/internal/chat"
	"github.com/nestieai/nestie/internal/config"
)

// Bot runs the Socket Mode event loop and routes events to the chat service
// and the channel analyzers.
type Bot struct {
	logger      *slog.Logger
	api         *slack.Client
	socket      *socketmode.Client
	hub         *chat.Hub
	chatSvc     *chat.Service
	summarizer  *analysis.Summarizer
	maxMessages int

	mu        sync.Mutex
	userNames map[string]string

	now    func() time.Time
	cancel context.CancelFunc
	done   chan struct{}
}

func New(log *slog.Logger, cfg config.Config, hub *chat.Hub, svc *chat.Service, summarizer *analysis.Summarizer) *Bot {
	api := slack.New(cfg.Slack.BotToken, slack.OptionAppLevelToken(cfg.Slack.AppToken))
	return &Bot{
		logger:      log,
		api:         api,
		socket:      socketmode.New(api),
		hub:         hub,
		chatSvc:     svc,
		summarizer:  summarizer,
		maxMessages: cfg.Channels.MaxMessages,
		userNames:   make(map[string]string),
		now:         time.Now,
		done:        make(chan struct{}),
	}
}

// Start launches the Socket Mode connection and the event loop.
func (b *Bot) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel

	go func() {
		if err := b.socket.RunContext(runCtx); err != nil && runCtx.Err() == nil {
			b.logger.Error("socket mode connection ended", slog.Any("error", err))
		}
	}()
	go b.run(runCtx)

	b.logger.Info("slack bot started")
	return nil
}

// Stop tears down the connection and waits for the event loop to drain.
func (b *Bot) Stop(ctx context.Context) error {
	if b.cancel != nil {
		b.cancel()
	}
	select {
	case <-b.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	b.logger.Info("slack bot stopped")
	return nil
}

func (b *Bot) run(ctx context.Context) {
	defer close(b.done)

	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-b.socket.Events:
			if !ok {
				return
			}
			b.dispatch(ctx, evt)
		}
	}
}

// dispatch acknowledges the envelope right away and hands the event to its
// own goroutine; an LLM round-trip for one user must not hold up the consumer
// loop or the slash-command ack deadline.
func (b *Bot) dispatch(ctx context.Context, evt socketmode.Event) {
	switch evt.Type {
	case socketmode.EventTypeConnecting:
		b.logger.Info("connecting to slack")
	case socketmode.EventTypeConnected:
		b.logger.Info("connected to slack")
	case socketmode.EventTypeConnectionError:
		b.logger.Warn("slack connection error", slog.Any("data", evt.Data))
	case socketmode.EventTypeEventsAPI:
		apiEvent, ok := evt.Data.(slackevents.EventsAPIEvent)
		if !ok {
			return
		}
		if evt.Request != nil {
			b.socket.Ack(*evt.Request)
		}
		b.spawn(string(evt.Type), func() {
			b.handleEventsAPI(ctx, apiEvent)
		})
	case socketmode.EventTypeSlashCommand:
		cmd, ok := evt.Data.(slack.SlashCommand)
		if !ok {
			return
		}
		if evt.Request != nil {
			b.socket.Ack(*evt.Request)
		}
		b.spawn(string(evt.Type), func() {
			b.respondSlashCommand(ctx, cmd)
		})
	}
}

// spawn runs a handler in its own goroutine, containing panics so that one
// bad event never takes the bot down.
func (b *Bot) spawn(eventType string, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				b.logger.Error("panic while handling slack event",
					slog.Any("panic", r), slog.String("type", eventType))
			}
		}()
		fn()
	}()
}
