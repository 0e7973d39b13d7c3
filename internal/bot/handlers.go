package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/avdeyev/goldex/internal/ops"
	"github.com/avdeyev/goldex/internal/repos/requests"
	"github.com/avdeyev/goldex/internal/repos/users"
	"github.com/avdeyev/goldex/internal/services/exchange"
)

func displayName(u *tgbotapi.User) string {
	if u.UserName != "" {
		return u.UserName
	}

	return u.FirstName
}

func (b *Bot) handleMessage(ctx context.Context, m *tgbotapi.Message) error {
	if m.From == nil || m.Chat == nil {
		return nil
	}

	userID := m.From.ID

	_, err := b.svc.GetOrCreate(ctx, userID, displayName(m.From))
	if err != nil {
		return fmt.Errorf("register user: %w", err)
	}

	if m.IsCommand() {
		b.conv.clear(userID)

		switch m.Command() {
		case "start", "help":
			b.send(m.Chat.ID, textWelcome)
			b.sendMainMenu(m.Chat.ID, userID == b.cfg.AdminID)
		default:
			b.send(m.Chat.ID, textUnknownCommand)
		}

		return nil
	}

	exp, ok := b.conv.take(userID)
	if !ok {
		b.send(m.Chat.ID, textNoStep)
		return nil
	}

	return b.advance(ctx, m, exp)
}

// advance feeds the message into the user's current expectation.
// Validation failures re-register the same expectation and re-prompt;
// only unexpected errors propagate to the recovery path.
func (b *Bot) advance(ctx context.Context, m *tgbotapi.Message, exp expectation) error {
	switch e := exp.(type) {
	case expectAmount:
		return b.advanceAmount(ctx, m, e)
	case expectPhoneAndAmount:
		return b.advancePhoneAndAmount(ctx, m)
	case expectScreenshot:
		return b.advanceScreenshot(ctx, m, e)
	case expectBalanceGold:
		return b.advanceSetValues(ctx, m)
	default:
		return fmt.Errorf("unknown expectation %T", exp)
	}
}

func (b *Bot) reprompt(m *tgbotapi.Message, exp expectation, text string) {
	b.conv.set(m.From.ID, exp)
	b.send(m.Chat.ID, text)
}

func (b *Bot) advanceAmount(ctx context.Context, m *tgbotapi.Message, e expectAmount) error {
	switch e.flow {
	case flowBuyGold:
		return b.amountBuy(ctx, m, e)
	case flowWithdrawGold:
		return b.amountWithdrawGold(ctx, m, e)
	case flowSellGold:
		return b.amountSell(ctx, m, e)
	case flowDepositAmount:
		return b.amountDeposit(ctx, m, e)
	case flowAssignBuyer:
		return b.amountAssignBuyer(ctx, m, e)
	default:
		return fmt.Errorf("unknown amount flow %d", e.flow)
	}
}

func (b *Bot) amountBuy(ctx context.Context, m *tgbotapi.Message, e expectAmount) error {
	gold, err := parseGold(m.Text)
	if err != nil {
		b.reprompt(m, e, textBadNumber)
		return nil
	}

	u, err := b.svc.BuyGold(ctx, m.From.ID, gold)
	if err != nil {
		if errors.Is(err, users.ErrInsufficientFunds) {
			b.send(m.Chat.ID, "Недостаточно средств для покупки.")
			b.sendMainMenu(m.Chat.ID, m.From.ID == b.cfg.AdminID)
			return nil
		}

		return fmt.Errorf("buy gold: %w", err)
	}

	b.send(m.Chat.ID, textBuyDone(u))
	b.sendMainMenu(m.Chat.ID, m.From.ID == b.cfg.AdminID)

	return nil
}

func (b *Bot) amountWithdrawGold(ctx context.Context, m *tgbotapi.Message, e expectAmount) error {
	gold, err := parseGold(m.Text)
	if err != nil {
		b.reprompt(m, e, textBadNumber)
		return nil
	}

	req, err := b.svc.CreateWithdrawGold(ctx, m.From.ID, gold)
	if err != nil {
		switch {
		case errors.Is(err, exchange.ErrBelowMinimum):
			b.reprompt(m, e, textBelowMinGold)
			return nil
		case errors.Is(err, users.ErrInsufficientFunds):
			b.send(m.Chat.ID, textNoGold)
			b.sendMainMenu(m.Chat.ID, m.From.ID == b.cfg.AdminID)
			return nil
		}

		return fmt.Errorf("create withdraw gold: %w", err)
	}

	ops.RequestsCreatedTotal.WithLabelValues(string(req.Type)).Inc()

	// The gold is already debited; the request now waits for payment
	// evidence before the admin sees it.
	b.conv.set(m.From.ID, expectScreenshot{purpose: purposeWithdrawGold, requestID: req.ID})
	b.send(m.Chat.ID, textSendScreenshot)

	return nil
}

func (b *Bot) amountSell(ctx context.Context, m *tgbotapi.Message, e expectAmount) error {
	gold, err := parseGold(m.Text)
	if err != nil {
		b.reprompt(m, e, textBadNumber)
		return nil
	}

	req, err := b.svc.CreateSellGold(ctx, m.From.ID, gold)
	if err != nil {
		if errors.Is(err, users.ErrInsufficientFunds) {
			b.send(m.Chat.ID, textNoGold)
			b.sendMainMenu(m.Chat.ID, m.From.ID == b.cfg.AdminID)
			return nil
		}

		return fmt.Errorf("create sell gold: %w", err)
	}

	ops.RequestsCreatedTotal.WithLabelValues(string(req.Type)).Inc()

	b.sendMarkup(b.cfg.AdminID, adminTextSell(req, displayName(m.From)), verdictKeyboard(req.ID))
	b.send(m.Chat.ID, textSellSent)
	b.sendMainMenu(m.Chat.ID, m.From.ID == b.cfg.AdminID)

	return nil
}

// amountDeposit is the admin entering the amount verified on the
// payment screenshot. Balance deposits take decimals, gold deposits
// whole units.
func (b *Bot) amountDeposit(ctx context.Context, m *tgbotapi.Message, e expectAmount) error {
	req, err := b.svc.GetRequest(ctx, e.requestID)
	if err != nil {
		if msg, known := notice(err); known {
			b.send(m.Chat.ID, msg)
			return nil
		}

		return fmt.Errorf("load deposit request: %w", err)
	}

	var amount int64
	if req.Type == requests.TypeDepositGold {
		amount, err = parseGold(m.Text)
	} else {
		amount, err = parseAmountMinor(m.Text)
	}
	if err != nil {
		b.reprompt(m, e, textBadNumber)
		return nil
	}

	accepted, err := b.svc.AcceptDeposit(ctx, e.requestID, amount)
	if err != nil {
		if msg, known := notice(err); known {
			b.send(m.Chat.ID, msg)
			return nil
		}

		return fmt.Errorf("accept deposit: %w", err)
	}

	ops.SettlementsTotal.WithLabelValues(string(requests.StatusAccepted)).Inc()

	b.send(m.Chat.ID, fmt.Sprintf("Заявка #%d подтверждена.", accepted.ID))
	b.send(accepted.UserID, textDepositCredited(accepted))

	return nil
}

func (b *Bot) amountAssignBuyer(ctx context.Context, m *tgbotapi.Message, e expectAmount) error {
	buyerID, err := strconv.ParseInt(strings.TrimSpace(m.Text), 10, 64)
	if err != nil {
		b.reprompt(m, e, textBadNumber)
		return nil
	}

	req, err := b.svc.AssignBuyer(ctx, e.requestID, buyerID)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrUserNotFound):
			b.reprompt(m, e, textUserNotFound)
			return nil
		case errors.Is(err, exchange.ErrSelfDeal):
			b.reprompt(m, e, textSelfDeal)
			return nil
		}

		if msg, known := notice(err); known {
			b.send(m.Chat.ID, msg)
			return nil
		}

		return fmt.Errorf("assign buyer: %w", err)
	}

	b.sendMarkup(buyerID, textBuyerOffer(req), buyerKeyboard(req.ID))
	b.send(m.Chat.ID, fmt.Sprintf("Покупателю %d отправлено подтверждение по заявке #%d.", buyerID, req.ID))

	return nil
}

func (b *Bot) advancePhoneAndAmount(ctx context.Context, m *tgbotapi.Message) error {
	tokens := strings.Fields(m.Text)
	if len(tokens) != 2 {
		b.reprompt(m, expectPhoneAndAmount{}, textBadPhoneAmount)
		return nil
	}

	phone := tokens[0]

	amount, err := parseAmountMinor(tokens[1])
	if err != nil {
		b.reprompt(m, expectPhoneAndAmount{}, textBadNumber)
		return nil
	}

	req, err := b.svc.CreateWithdrawMoney(ctx, m.From.ID, amount, phone)
	if err != nil {
		switch {
		case errors.Is(err, exchange.ErrBelowMinimum):
			b.reprompt(m, expectPhoneAndAmount{}, textBelowMinMoney)
			return nil
		case errors.Is(err, users.ErrInsufficientFunds):
			b.send(m.Chat.ID, textNoFunds)
			b.sendMainMenu(m.Chat.ID, m.From.ID == b.cfg.AdminID)
			return nil
		}

		return fmt.Errorf("create withdraw money: %w", err)
	}

	ops.RequestsCreatedTotal.WithLabelValues(string(req.Type)).Inc()

	b.sendMarkup(b.cfg.AdminID, adminTextWithdrawMoney(req, displayName(m.From)), verdictKeyboard(req.ID))
	b.send(m.Chat.ID, textWithdrawSent)

	return nil
}

// advanceScreenshot accepts only an image; anything else loops the same
// expectation. The image itself is opaque evidence and travels to the
// admin untouched, by file id.
func (b *Bot) advanceScreenshot(ctx context.Context, m *tgbotapi.Message, e expectScreenshot) error {
	if len(m.Photo) == 0 {
		b.reprompt(m, e, textNeedScreenshot)
		return nil
	}

	fileID := m.Photo[len(m.Photo)-1].FileID

	switch e.purpose {
	case purposeDepositBalance, purposeDepositGold:
		typ := requests.TypeDepositBalance
		if e.purpose == purposeDepositGold {
			typ = requests.TypeDepositGold
		}

		req, err := b.svc.CreateDeposit(ctx, m.From.ID, typ)
		if err != nil {
			return fmt.Errorf("create deposit: %w", err)
		}

		ops.RequestsCreatedTotal.WithLabelValues(string(req.Type)).Inc()

		b.sendPhoto(b.cfg.AdminID, fileID, adminCaptionDeposit(req, displayName(m.From)), verdictKeyboard(req.ID))
		b.send(m.Chat.ID, textEvidenceSent)

		return nil
	case purposeWithdrawGold:
		req, err := b.svc.GetRequest(ctx, e.requestID)
		if err != nil {
			return fmt.Errorf("load withdraw request: %w", err)
		}

		b.sendPhoto(b.cfg.AdminID, fileID, adminCaptionWithdrawGold(req, displayName(m.From)), verdictKeyboard(req.ID))
		b.send(m.Chat.ID, textWithdrawSent)

		return nil
	default:
		return fmt.Errorf("unknown screenshot purpose %d", e.purpose)
	}
}

// advanceSetValues is the admin override: "<userId> <balance> <gold>".
func (b *Bot) advanceSetValues(ctx context.Context, m *tgbotapi.Message) error {
	tokens := strings.Fields(m.Text)
	if len(tokens) != 3 {
		b.reprompt(m, expectBalanceGold{}, textBadSetValues)
		return nil
	}

	userID, err := strconv.ParseInt(tokens[0], 10, 64)
	if err != nil {
		b.reprompt(m, expectBalanceGold{}, textBadSetValues)
		return nil
	}

	balance, err := parseMinor(tokens[1])
	if err != nil {
		b.reprompt(m, expectBalanceGold{}, textBadSetValues)
		return nil
	}

	gold, err := strconv.ParseInt(tokens[2], 10, 64)
	if err != nil || gold < 0 {
		b.reprompt(m, expectBalanceGold{}, textBadSetValues)
		return nil
	}

	err = b.svc.SetValues(ctx, userID, balance, gold)
	if err != nil {
		switch {
		case errors.Is(err, exchange.ErrNegativeOverride):
			b.reprompt(m, expectBalanceGold{}, textBadSetValues)
			return nil
		case errors.Is(err, users.ErrUserNotFound):
			b.send(m.Chat.ID, textUserNotFound)
			b.sendMainMenu(m.Chat.ID, true)
			return nil
		}

		return fmt.Errorf("set values: %w", err)
	}

	b.send(m.Chat.ID, fmt.Sprintf("Баланс и голда для пользователя с ID %d обновлены.", userID))
	b.sendMainMenu(m.Chat.ID, true)

	return nil
}
