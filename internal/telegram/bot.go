// Package telegram runs the bot's long-poll loop: it receives pasted
// stat exports, parses them, records snapshots, and acknowledges each
// line with the store's outcome.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/primecycle/statsnap/internal/stats"
	"github.com/primecycle/statsnap/internal/storage"
)

// Recorder is the slice of the snapshot store the bot depends on.
type Recorder interface {
	RecordSnapshot(snap storage.Snapshot) (storage.WriteResult, error)
	GetSnapshot(agent, date, timeOfDay string) (storage.Snapshot, error)
}

type Bot struct {
	api         *tgbotapi.BotAPI
	recorder    Recorder
	parser      *stats.Parser
	pollTimeout int
	logger      *slog.Logger
}

// New authorizes against the bot API and prepares the update loop.
func New(token string, recorder Recorder, pollTimeout int) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("authorizing bot: %w", err)
	}

	return &Bot{
		api:         api,
		recorder:    recorder,
		parser:      stats.NewParser(),
		pollTimeout: pollTimeout,
		logger:      slog.Default(),
	}, nil
}

// Start consumes updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("bot authorized", "account", b.api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.pollTimeout
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message != nil {
				b.handleMessage(update.Message)
			}
		}
	}
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	if msg.IsCommand() {
		if msg.Command() == "start" {
			b.reply(msg.Chat.ID, "Send me exported stat lines.")
		}
		return
	}

	text := msg.Text
	if text == "" {
		text = msg.Caption
	}
	if text == "" {
		return
	}

	if !ShouldHandle(msg, b.api.Self.ID, b.api.Self.UserName) {
		return
	}

	cid := uuid.NewString()
	parsed := b.parser.Parse(text)
	if len(parsed) == 0 {
		b.logger.Debug("no stats in message", "cid", cid, "chat", msg.Chat.ID)
		b.reply(msg.Chat.ID, "Unable to parse stats. Please paste the raw Prime stats export text.")
		return
	}

	for _, snap := range parsed {
		res, err := b.recorder.RecordSnapshot(snap)
		if err != nil {
			b.logger.Error("recording snapshot failed",
				"cid", cid, "agent", snap.AgentName, "error", err)
			b.reply(msg.Chat.ID, transientFailureReply(snap))
			continue
		}

		b.logger.Info("snapshot processed",
			"cid", cid, "agent", snap.AgentName,
			"date", snap.Date, "time", snap.Time, "result", res.String())

		b.reply(msg.Chat.ID, b.buildReply(res, snap))
	}
}

// buildReply maps the store outcome to the user-facing acknowledgment:
// Inserted confirms the save, Skipped reports the earlier observation.
func (b *Bot) buildReply(res storage.WriteResult, snap storage.Snapshot) string {
	if res == storage.Inserted {
		return "Saved.\n" + stats.FormatSnapshot(snap)
	}

	prior, err := b.recorder.GetSnapshot(snap.AgentName, snap.Date, snap.Time)
	if err == nil {
		return fmt.Sprintf("Already recorded for %s at %s %s (first seen %s).",
			snap.AgentName, snap.Date, snap.Time,
			prior.RecordedAt.Format("2006-01-02 15:04:05"))
	}
	return fmt.Sprintf("Already recorded for %s at %s %s.",
		snap.AgentName, snap.Date, snap.Time)
}

func transientFailureReply(snap storage.Snapshot) string {
	return fmt.Sprintf("Could not save the snapshot for %s right now. Please resend it in a moment.",
		snap.AgentName)
}

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("sending reply failed", "chat", chatID, "error", err)
	}
}

// ShouldHandle decides whether a message is addressed to the bot. Direct
// messages always are; in groups the bot only reacts when mentioned or
// when the message replies to one of its own.
func ShouldHandle(msg *tgbotapi.Message, botID int64, botUsername string) bool {
	if msg.Chat == nil {
		return false
	}
	if msg.Chat.IsPrivate() {
		return true
	}

	text := msg.Text
	if text == "" {
		text = msg.Caption
	}

	for _, entity := range msg.Entities {
		if entity.Type == "mention" {
			end := entity.Offset + entity.Length
			if entity.Offset < 0 || end > len(text) {
				continue
			}
			mention := strings.TrimPrefix(text[entity.Offset:end], "@")
			if strings.EqualFold(mention, botUsername) {
				return true
			}
		}
		if entity.Type == "text_mention" && entity.User != nil && entity.User.ID == botID {
			return true
		}
	}

	if msg.ReplyToMessage != nil && msg.ReplyToMessage.From != nil &&
		msg.ReplyToMessage.From.ID == botID {
		return true
	}
	return false
}
