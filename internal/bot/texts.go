package bot

import (
	"fmt"

	"github.com/avdeyev/goldex/internal/repos/requests"
	"github.com/avdeyev/goldex/internal/repos/users"
)

// User-facing texts. The audience is Russian-speaking, the codebase is
// not.

const (
	textWelcome        = "Добро пожаловать в бот для торговли голдой StandOff 2!"
	textChooseAction   = "Выберите действие:"
	textUnknownCommand = "Неизвестная команда. Нажмите /start"
	textNoStep         = "Сейчас ввод не ожидается. Нажмите /start"
	textAccessDenied   = "У вас нет доступа к этой функции."
	textBadAction      = "Неизвестное действие."
	textInternalError  = "Произошла ошибка. Возвращаю в главное меню."

	textEnterBuyAmount      = "Введите количество голды для покупки:"
	textEnterSellAmount     = "Введите количество голды для продажи:"
	textEnterWithdrawGold   = "Введите количество голды для вывода (не менее 100):"
	textEnterPhoneAndAmount = "Введите номер телефона и сумму вывода через пробел (минимум 100):"
	textEnterSetValues      = "Введите ID пользователя, затем новое значение баланса и голды (через пробел):"
	textEnterDepositAmount  = "Введите подтверждённую сумму пополнения:"
	textEnterBuyerID        = "Введите ID покупателя:"

	textBadNumber      = "Введите корректное число."
	textBadPhoneAmount = "Неверный формат. Нужно два значения: телефон и сумма через пробел."
	textBadSetValues   = "Неверный формат. Нужно три значения: ID, баланс и голда через пробел."
	textNeedScreenshot = "Пожалуйста, отправьте скриншот платежа."

	textBelowMinGold      = "Минимальная сумма для вывода 100 голды."
	textBelowMinMoney     = "Минимальная сумма для вывода 100."
	textNoFunds           = "Недостаточно средств."
	textNoGold            = "Недостаточно голды на балансе."
	textAlreadyProcessed  = "Заявка уже обработана."
	textIllegalTransition = "Заявка закрыта, действие невозможно."
	textRequestNotFound   = "Заявка не найдена."
	textUserNotFound      = "Пользователь не найден."
	textSelfDeal          = "Покупатель не может совпадать с продавцом."

	textSendScreenshot   = "Пожалуйста, отправьте скриншот подтверждения платежа."
	textEvidenceSent     = "Скриншот отправлен администратору. Ожидайте подтверждения."
	textWithdrawSent     = "Заявка на вывод отправлена администратору."
	textWithdrawDone     = "Ваша заявка на вывод успешно обработана."
	textWithdrawRefused  = "Ваша заявка отклонена, средства возвращены."
	textSellSent         = "Заявка на продажу голды отправлена администратору."
	textSellRefused      = "Заявка на продажу отклонена, голда возвращена."
	textPurchaseDeclined = "Покупка отклонена. Заявка передана администратору как спорная."
)

func textDepositInstructions(wallet string) string {
	return fmt.Sprintf(
		"Для пополнения баланса переведите средства на кошелёк ЮMoney:\n\n%s\n\n"+
			"После перевода отправьте скриншот платежа (на скрине должны быть сумма, время, дата, откуда и куда).",
		wallet)
}

func textDepositGoldInstructions(contact string) string {
	return fmt.Sprintf(
		"Для пополнения голды передайте голду внутри игры аккаунту:\n\n%s\n\n"+
			"После передачи отправьте скриншот подтверждения.", contact)
}

func textProfile(u users.User) string {
	return fmt.Sprintf("Профиль:\nID: %d\nИмя: @%s\nБаланс: %s\nГолда: %d",
		u.ID, u.Name, formatMinor(u.BalanceMinor), u.Gold)
}

func textBuyDone(u users.User) string {
	return fmt.Sprintf("Покупка успешна! Ваш новый баланс: %s, голда: %d",
		formatMinor(u.BalanceMinor), u.Gold)
}

func textDepositCredited(req requests.Request) string {
	if req.Type == requests.TypeDepositGold {
		return fmt.Sprintf("Ваша голда пополнена на %d.", req.Amount)
	}

	return fmt.Sprintf("Ваш баланс пополнен на %s.", formatMinor(req.Amount))
}

func textBuyerOffer(req requests.Request) string {
	return fmt.Sprintf("Вам предложена покупка %d голды за %s (заявка #%d). Подтвердить?",
		req.Amount, formatMinor(req.Details.ProceedsMinor), req.ID)
}

func textPurchaseDone(req requests.Request) string {
	return fmt.Sprintf("Покупка подтверждена: %d голды за %s (заявка #%d).",
		req.Amount, formatMinor(req.Details.ProceedsMinor), req.ID)
}

func textSaleCompleted(req requests.Request) string {
	return fmt.Sprintf("Ваша заявка #%d на продажу %d голды завершена.", req.ID, req.Amount)
}

func adminCaptionDeposit(req requests.Request, name string) string {
	kind := "баланс"
	if req.Type == requests.TypeDepositGold {
		kind = "голду"
	}

	return fmt.Sprintf("Пользователь @%s (ID %d) хочет пополнить %s. Заявка #%d. Подтвердите сумму по скриншоту.",
		name, req.UserID, kind, req.ID)
}

func adminCaptionWithdrawGold(req requests.Request, name string) string {
	return fmt.Sprintf("Пользователь @%s (ID %d) запрашивает вывод %d голды, сумма: %s. Заявка #%d.",
		name, req.UserID, req.Amount, formatMinor(req.Details.PayoutMinor), req.ID)
}

func adminTextWithdrawMoney(req requests.Request, name string) string {
	return fmt.Sprintf("Пользователь @%s (ID %d) запрашивает вывод %s на номер %s. Заявка #%d.",
		name, req.UserID, formatMinor(req.Amount), req.Details.Phone, req.ID)
}

func adminTextSell(req requests.Request, name string) string {
	return fmt.Sprintf("Пользователь @%s (ID %d) продаёт %d голды, к выплате покупателем: %s. Заявка #%d.",
		name, req.UserID, req.Amount, formatMinor(req.Details.ProceedsMinor), req.ID)
}

func adminLineUser(u users.User) string {
	return fmt.Sprintf("ID: %d, Ник: @%s, Баланс: %s, Голда: %d",
		u.ID, u.Name, formatMinor(u.BalanceMinor), u.Gold)
}

func adminLineRequest(req requests.Request) string {
	return fmt.Sprintf("#%d %s от %d, сумма %d, статус %s", req.ID, req.Type, req.UserID, req.Amount, req.Status)
}
