package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/avdeyev/goldex/internal/ops"
	"github.com/avdeyev/goldex/internal/repos/requests"
)

const (
	adminPageSize       = 10
	adminPendingPreview = 10
)

func (b *Bot) renderAdminPanel(ctx context.Context, cq *tgbotapi.CallbackQuery, page int) error {
	if page < 0 {
		page = 0
	}

	list, total, err := b.svc.ListUsers(ctx, adminPageSize, page*adminPageSize)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, "Панель администратора. Пользователей: %d.\n\n", total)

	for _, u := range list {
		sb.WriteString(adminLineUser(u))
		sb.WriteByte('\n')
	}

	if len(list) == 0 {
		sb.WriteString("На этой странице никого нет.")
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(list)+3)

	for _, u := range list {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			dataButton(fmt.Sprintf("Пополнить %s (%d)", u.Name, u.ID), AdminDeposit{UserID: u.ID}),
		))
	}

	var nav []tgbotapi.InlineKeyboardButton
	if page > 0 {
		nav = append(nav, dataButton("⬅️", OpenAdminPanel{Page: page - 1}))
	}

	if int64((page+1)*adminPageSize) < total {
		nav = append(nav, dataButton("➡️", OpenAdminPanel{Page: page + 1}))
	}

	if len(nav) > 0 {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(nav...))
	}

	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(
			dataButton("Заявки 📨", OpenAdminRequests{}),
			dataButton("Изменить баланс ✏️", AdminSetValues{}),
		),
		backRow(),
	)

	b.answer(cq.ID, "")
	b.edit(cq, sb.String(), tgbotapi.NewInlineKeyboardMarkup(rows...))

	return nil
}

// renderPendingRequests sends the oldest pending requests, each with
// its own verdict keyboard so the admin can act on them one by one.
func (b *Bot) renderPendingRequests(ctx context.Context, cq *tgbotapi.CallbackQuery) error {
	pending, err := b.svc.ListPending(ctx, "")
	if err != nil {
		return fmt.Errorf("list pending: %w", err)
	}

	ops.PendingRequestsGauge.Set(float64(len(pending)))

	if len(pending) == 0 {
		b.answer(cq.ID, "")
		b.edit(cq, "Заявок в ожидании нет.", backKeyboard())

		return nil
	}

	b.answer(cq.ID, fmt.Sprintf("Заявок: %d", len(pending)))

	shown := pending
	if len(shown) > adminPendingPreview {
		shown = shown[:adminPendingPreview]
	}

	for _, req := range shown {
		b.sendMarkup(cq.From.ID, adminLineRequest(req), verdictKeyboard(req.ID))
	}

	if rest := len(pending) - len(shown); rest > 0 {
		b.send(cq.From.ID, fmt.Sprintf("И ещё %d заявок в очереди.", rest))
	}

	return nil
}

// startAdminDeposit opens a balance deposit on the user's behalf, for
// payments the admin received outside the bot.
func (b *Bot) startAdminDeposit(ctx context.Context, cq *tgbotapi.CallbackQuery, userID int64) error {
	req, err := b.svc.CreateDeposit(ctx, userID, requests.TypeDepositBalance)
	if err != nil {
		if msg, known := notice(err); known {
			b.alert(cq.ID, msg)
			return nil
		}

		return fmt.Errorf("open deposit: %w", err)
	}

	ops.RequestsCreatedTotal.WithLabelValues(string(req.Type)).Inc()

	b.conv.set(cq.From.ID, expectAmount{flow: flowDepositAmount, requestID: req.ID})
	b.answer(cq.ID, "")
	b.send(cq.From.ID, textEnterDepositAmount)

	return nil
}
