// Package bot is the Telegram shim around the exchange service: it
// turns updates into service calls, sequences per-user input through
// the conversation state machine, and renders menus and notices.
// Payment screenshots pass through by file id and are never inspected.
package bot

import (
	"context"
	"errors"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/avdeyev/goldex/internal/ops"
	"github.com/avdeyev/goldex/internal/repos/requests"
	"github.com/avdeyev/goldex/internal/repos/users"
	"github.com/avdeyev/goldex/internal/services/exchange"
)

type Config struct {
	AdminID     int64
	Wallet      string // payment destination shown in deposit instructions
	GoldAccount string // in-game account shown in gold deposit instructions
}

type Bot struct {
	api  *tgbotapi.BotAPI
	svc  *exchange.Service
	conv *conversations
	seq  *sequencer
	cfg  Config
}

func New(api *tgbotapi.BotAPI, svc *exchange.Service, cfg Config) *Bot {
	return &Bot{
		api:  api,
		svc:  svc,
		conv: newConversations(),
		seq:  newSequencer(),
		cfg:  cfg,
	}
}

// Run consumes updates until ctx is cancelled, then waits for the
// in-flight per-user queues to drain.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 50

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.seq.wait()

			return nil
		case up, ok := <-updates:
			if !ok {
				b.seq.wait()

				return nil
			}

			b.dispatch(ctx, up)
		}
	}
}

// dispatch hands the update to its sender's FIFO queue. Updates without
// an identifiable sender carry nothing this bot reacts to.
func (b *Bot) dispatch(ctx context.Context, up tgbotapi.Update) {
	from := updateSender(up)
	if from == nil {
		return
	}

	ops.UpdatesTotal.Inc()

	b.seq.submit(from.ID, func() {
		b.handle(ctx, up)
	})
}

func updateSender(up tgbotapi.Update) *tgbotapi.User {
	switch {
	case up.Message != nil:
		return up.Message.From
	case up.CallbackQuery != nil:
		return up.CallbackQuery.From
	default:
		return nil
	}
}

// handle is the recovery boundary: whatever goes wrong inside a
// handler, the user ends up notified and back at the main menu instead
// of stuck mid-flow.
func (b *Bot) handle(ctx context.Context, up tgbotapi.Update) {
	from := updateSender(up)
	chatID := updateChatID(up)

	defer func() {
		r := recover()
		if r != nil {
			ops.HandlerErrorsTotal.Inc()
			slog.Error("handler panic", "user_id", from.ID, "panic", r)
			b.recoverToMenu(chatID, from.ID)
		}
	}()

	var err error

	switch {
	case up.Message != nil:
		err = b.handleMessage(ctx, up.Message)
	case up.CallbackQuery != nil:
		err = b.handleCallback(ctx, up.CallbackQuery)
	}

	if err != nil {
		ops.HandlerErrorsTotal.Inc()
		slog.Error("handler failed", "user_id", from.ID, "error", err)
		b.recoverToMenu(chatID, from.ID)
	}
}

func updateChatID(up tgbotapi.Update) int64 {
	switch {
	case up.Message != nil:
		return up.Message.Chat.ID
	case up.CallbackQuery != nil && up.CallbackQuery.Message != nil:
		return up.CallbackQuery.Message.Chat.ID
	case up.CallbackQuery != nil:
		return up.CallbackQuery.From.ID
	default:
		return 0
	}
}

func (b *Bot) recoverToMenu(chatID, userID int64) {
	b.conv.clear(userID)
	b.send(chatID, textInternalError)
	b.sendMainMenu(chatID, userID == b.cfg.AdminID)
}

// --- outbound helpers ---

func (b *Bot) send(chatID int64, text string) {
	_, err := b.api.Send(tgbotapi.NewMessage(chatID, text))
	if err != nil {
		slog.Warn("send failed", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) sendMarkup(chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = kb

	_, err := b.api.Send(msg)
	if err != nil {
		slog.Warn("send failed", "chat_id", chatID, "error", err)
	}
}

// edit rewrites the message the button lived on; when the edit is not
// possible (message too old, deleted) it falls back to a fresh send.
func (b *Bot) edit(cq *tgbotapi.CallbackQuery, text string, kb tgbotapi.InlineKeyboardMarkup) {
	if cq.Message == nil {
		b.sendMarkup(cq.From.ID, text, kb)
		return
	}

	msg := tgbotapi.NewEditMessageTextAndMarkup(cq.Message.Chat.ID, cq.Message.MessageID, text, kb)

	_, err := b.api.Send(msg)
	if err != nil {
		b.sendMarkup(cq.Message.Chat.ID, text, kb)
	}
}

func (b *Bot) sendPhoto(chatID int64, fileID, caption string, kb tgbotapi.InlineKeyboardMarkup) {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(fileID))
	photo.Caption = caption
	photo.ReplyMarkup = kb

	_, err := b.api.Send(photo)
	if err != nil {
		slog.Warn("send photo failed", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) answer(cqID, text string) {
	_, err := b.api.Request(tgbotapi.NewCallback(cqID, text))
	if err != nil {
		slog.Warn("answer callback failed", "error", err)
	}
}

func (b *Bot) alert(cqID, text string) {
	_, err := b.api.Request(tgbotapi.NewCallbackWithAlert(cqID, text))
	if err != nil {
		slog.Warn("alert callback failed", "error", err)
	}
}

// notice maps domain errors to a short user-facing line; unexpected
// errors return false so the caller escalates to the recovery path.
func notice(err error) (string, bool) {
	switch {
	case errors.Is(err, users.ErrInsufficientFunds):
		return textNoFunds, true
	case errors.Is(err, exchange.ErrBelowMinimum):
		return textBelowMinMoney, true
	case errors.Is(err, requests.ErrAlreadyProcessed):
		return textAlreadyProcessed, true
	case errors.Is(err, requests.ErrIllegalTransition):
		return textIllegalTransition, true
	case errors.Is(err, requests.ErrRequestNotFound):
		return textRequestNotFound, true
	case errors.Is(err, users.ErrUserNotFound):
		return textUserNotFound, true
	default:
		return "", false
	}
}
