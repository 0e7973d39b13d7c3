package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/avdeyev/goldex/internal/ops"
	"github.com/avdeyev/goldex/internal/repos/requests"
	"github.com/avdeyev/goldex/internal/repos/users"
)

func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) error {
	if cq.From == nil {
		return nil
	}

	userID := cq.From.ID

	_, err := b.svc.GetOrCreate(ctx, userID, displayName(cq.From))
	if err != nil {
		return fmt.Errorf("register user: %w", err)
	}

	action, err := DecodeAction(cq.Data)
	if err != nil {
		slog.Warn("undecodable callback", "user_id", userID, "data", cq.Data)
		b.alert(cq.ID, textBadAction)

		return nil
	}

	isAdmin := userID == b.cfg.AdminID

	switch a := action.(type) {
	case OpenMenu:
		b.conv.clear(userID)
		b.answer(cq.ID, "")
		b.edit(cq, textChooseAction, mainMenuKeyboard(isAdmin))
	case OpenSell:
		b.conv.set(userID, expectAmount{flow: flowSellGold})
		b.answer(cq.ID, "")
		b.edit(cq, textEnterSellAmount, backKeyboard())
	case OpenBuy:
		b.conv.set(userID, expectAmount{flow: flowBuyGold})
		b.answer(cq.ID, "")
		b.edit(cq, textEnterBuyAmount, backKeyboard())
	case OpenProfile:
		u, uerr := b.svc.GetUser(ctx, userID)
		if uerr != nil {
			return fmt.Errorf("profile: %w", uerr)
		}

		b.answer(cq.ID, "")
		b.edit(cq, textProfile(u), profileKeyboard())
	case OpenDeposit:
		b.conv.set(userID, expectScreenshot{purpose: purposeDepositBalance})
		b.answer(cq.ID, "")
		b.edit(cq, textDepositInstructions(b.cfg.Wallet), backKeyboard())
	case OpenDepositGold:
		b.conv.set(userID, expectScreenshot{purpose: purposeDepositGold})
		b.answer(cq.ID, "")
		b.edit(cq, textDepositGoldInstructions(b.cfg.GoldAccount), backKeyboard())
	case OpenWithdrawGold:
		b.conv.set(userID, expectAmount{flow: flowWithdrawGold})
		b.answer(cq.ID, "")
		b.edit(cq, textEnterWithdrawGold, backKeyboard())
	case OpenWithdrawMoney:
		b.conv.set(userID, expectPhoneAndAmount{})
		b.answer(cq.ID, "")
		b.edit(cq, textEnterPhoneAndAmount, backKeyboard())

	case OpenAdminPanel:
		if !isAdmin {
			b.alert(cq.ID, textAccessDenied)
			return nil
		}

		return b.renderAdminPanel(ctx, cq, a.Page)
	case OpenAdminRequests:
		if !isAdmin {
			b.alert(cq.ID, textAccessDenied)
			return nil
		}

		return b.renderPendingRequests(ctx, cq)
	case AdminSetValues:
		if !isAdmin {
			b.alert(cq.ID, textAccessDenied)
			return nil
		}

		b.conv.set(userID, expectBalanceGold{})
		b.answer(cq.ID, "")
		b.edit(cq, textEnterSetValues, backKeyboard())
	case AdminDeposit:
		if !isAdmin {
			b.alert(cq.ID, textAccessDenied)
			return nil
		}

		return b.startAdminDeposit(ctx, cq, a.UserID)

	case AcceptRequest:
		if !isAdmin {
			b.alert(cq.ID, textAccessDenied)
			return nil
		}

		return b.acceptRequest(ctx, cq, a.RequestID)
	case RejectRequest:
		if !isAdmin {
			b.alert(cq.ID, textAccessDenied)
			return nil
		}

		return b.terminateRequest(ctx, cq, a.RequestID, requests.StatusRejected)
	case CancelRequest:
		if !isAdmin {
			b.alert(cq.ID, textAccessDenied)
			return nil
		}

		return b.terminateRequest(ctx, cq, a.RequestID, requests.StatusCancelled)

	case ConfirmPurchase:
		return b.confirmPurchase(ctx, cq, a.RequestID)
	case DeclinePurchase:
		return b.declinePurchase(ctx, cq, a.RequestID)
	default:
		b.alert(cq.ID, textBadAction)
	}

	return nil
}

// acceptRequest routes the admin's accept by request type: deposits
// need a verified amount first, sales continue into buyer assignment,
// withdrawals settle immediately (their debit already happened).
func (b *Bot) acceptRequest(ctx context.Context, cq *tgbotapi.CallbackQuery, requestID int64) error {
	req, err := b.svc.GetRequest(ctx, requestID)
	if err != nil {
		if msg, known := notice(err); known {
			b.alert(cq.ID, msg)
			return nil
		}

		return fmt.Errorf("load request: %w", err)
	}

	switch req.Type {
	case requests.TypeDepositBalance, requests.TypeDepositGold:
		b.conv.set(cq.From.ID, expectAmount{flow: flowDepositAmount, requestID: requestID})
		b.answer(cq.ID, "")
		b.send(cq.From.ID, textEnterDepositAmount)

		return nil
	case requests.TypeSellGold:
		_, err = b.svc.Accept(ctx, requestID)
		if err != nil {
			if msg, known := notice(err); known {
				b.alert(cq.ID, msg)
				return nil
			}

			return fmt.Errorf("accept sale: %w", err)
		}

		ops.SettlementsTotal.WithLabelValues(string(requests.StatusAccepted)).Inc()

		b.conv.set(cq.From.ID, expectAmount{flow: flowAssignBuyer, requestID: requestID})
		b.answer(cq.ID, "")
		b.send(cq.From.ID, textEnterBuyerID)

		return nil
	default:
		accepted, aerr := b.svc.Accept(ctx, requestID)
		if aerr != nil {
			if msg, known := notice(aerr); known {
				b.alert(cq.ID, msg)
				return nil
			}

			return fmt.Errorf("accept request: %w", aerr)
		}

		ops.SettlementsTotal.WithLabelValues(string(requests.StatusAccepted)).Inc()

		b.answer(cq.ID, "OK")
		b.send(accepted.UserID, textWithdrawDone)

		return nil
	}
}

func (b *Bot) terminateRequest(ctx context.Context, cq *tgbotapi.CallbackQuery, requestID int64, status requests.Status) error {
	var (
		req requests.Request
		err error
	)

	if status == requests.StatusCancelled {
		req, err = b.svc.Cancel(ctx, requestID)
	} else {
		req, err = b.svc.Reject(ctx, requestID)
	}
	if err != nil {
		if msg, known := notice(err); known {
			b.alert(cq.ID, msg)
			return nil
		}

		return fmt.Errorf("terminate request: %w", err)
	}

	ops.SettlementsTotal.WithLabelValues(string(status)).Inc()

	b.answer(cq.ID, "OK")

	switch req.Type {
	case requests.TypeSellGold:
		b.send(req.UserID, textSellRefused)
	case requests.TypeDepositBalance, requests.TypeDepositGold:
		b.send(req.UserID, "Ваша заявка на пополнение отклонена.")
	default:
		b.send(req.UserID, textWithdrawRefused)
	}

	return nil
}

func (b *Bot) confirmPurchase(ctx context.Context, cq *tgbotapi.CallbackQuery, requestID int64) error {
	req, err := b.svc.GetRequest(ctx, requestID)
	if err != nil {
		if msg, known := notice(err); known {
			b.alert(cq.ID, msg)
			return nil
		}

		return fmt.Errorf("load sale: %w", err)
	}

	if req.Details.CounterpartID != cq.From.ID {
		b.alert(cq.ID, textAccessDenied)
		return nil
	}

	done, err := b.svc.CompleteSale(ctx, requestID)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrInsufficientFunds):
			// The sale stays accepted; the buyer can fund the balance
			// and confirm again.
			b.alert(cq.ID, textNoFunds)
			return nil
		}

		if msg, known := notice(err); known {
			b.alert(cq.ID, msg)
			return nil
		}

		return fmt.Errorf("complete sale: %w", err)
	}

	ops.SettlementsTotal.WithLabelValues(string(requests.StatusCompleted)).Inc()

	b.answer(cq.ID, "")
	b.edit(cq, textPurchaseDone(done), tgbotapi.NewInlineKeyboardMarkup(backRow()))
	b.send(done.UserID, textSaleCompleted(done))
	b.send(b.cfg.AdminID, fmt.Sprintf("Заявка #%d завершена покупателем %d.", done.ID, cq.From.ID))

	return nil
}

func (b *Bot) declinePurchase(ctx context.Context, cq *tgbotapi.CallbackQuery, requestID int64) error {
	req, err := b.svc.GetRequest(ctx, requestID)
	if err != nil {
		if msg, known := notice(err); known {
			b.alert(cq.ID, msg)
			return nil
		}

		return fmt.Errorf("load sale: %w", err)
	}

	if req.Details.CounterpartID != cq.From.ID {
		b.alert(cq.ID, textAccessDenied)
		return nil
	}

	disputed, err := b.svc.DisputeSale(ctx, requestID)
	if err != nil {
		if msg, known := notice(err); known {
			b.alert(cq.ID, msg)
			return nil
		}

		return fmt.Errorf("dispute sale: %w", err)
	}

	ops.SettlementsTotal.WithLabelValues(string(requests.StatusDisputed)).Inc()

	b.answer(cq.ID, "")
	b.edit(cq, textPurchaseDeclined, tgbotapi.NewInlineKeyboardMarkup(backRow()))
	b.send(b.cfg.AdminID, fmt.Sprintf("Покупатель %d отклонил заявку #%d, заявка помечена спорной.", cq.From.ID, disputed.ID))
	b.send(disputed.UserID, fmt.Sprintf("По вашей заявке #%d возник спор, администратор свяжется с вами.", disputed.ID))

	return nil
}
