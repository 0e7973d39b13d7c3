package bot

import tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

func dataButton(label string, a Action) tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardButtonData(label, a.Encode())
}

func backRow() []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(dataButton("В главное меню 🔙", OpenMenu{}))
}

func backKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(backRow())
}

func mainMenuKeyboard(isAdmin bool) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(dataButton("Продать голду 💰", OpenSell{})),
		tgbotapi.NewInlineKeyboardRow(dataButton("Купить голду 🛒", OpenBuy{})),
		tgbotapi.NewInlineKeyboardRow(dataButton("Профиль 👤", OpenProfile{})),
	}

	if isAdmin {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(dataButton("Админ панель ⚙️", OpenAdminPanel{Page: 0})))
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func profileKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(dataButton("Вывести голду 🟡", OpenWithdrawGold{})),
		tgbotapi.NewInlineKeyboardRow(dataButton("Вывести деньги 💸", OpenWithdrawMoney{})),
		tgbotapi.NewInlineKeyboardRow(dataButton("Пополнить баланс 🔄", OpenDeposit{})),
		tgbotapi.NewInlineKeyboardRow(dataButton("Пополнить голду 🟨", OpenDepositGold{})),
		backRow(),
	)
}

// verdictKeyboard is what the admin sees under every pending request.
func verdictKeyboard(requestID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(dataButton("Принять ✅", AcceptRequest{RequestID: requestID})),
		tgbotapi.NewInlineKeyboardRow(
			dataButton("Отклонить ❌", RejectRequest{RequestID: requestID}),
			dataButton("Отменить 🚫", CancelRequest{RequestID: requestID}),
		),
	)
}

func buyerKeyboard(requestID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			dataButton("Подтвердить ✅", ConfirmPurchase{RequestID: requestID}),
			dataButton("Отказаться ❌", DeclinePurchase{RequestID: requestID}),
		),
	)
}

func (b *Bot) sendMainMenu(chatID int64, isAdmin bool) {
	b.sendMarkup(chatID, textChooseAction, mainMenuKeyboard(isAdmin))
}
