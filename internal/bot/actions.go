package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrBadAction reports callback data that does not decode to a known
// action. It is surfaced to the sender as an alert, never acted on.
var ErrBadAction = errors.New("bad callback action")

// Action is the decoded form of inline-button callback data. The wire
// format stays "<verb>" or "<verb>_<id>" because Telegram only carries
// strings, but nothing outside this file touches the raw encoding.
type Action interface {
	Encode() string
}

type (
	// OpenMenu returns to the main menu.
	OpenMenu struct{}
	// OpenSell starts the sell-gold flow.
	OpenSell struct{}
	// OpenBuy starts the buy-gold flow.
	OpenBuy struct{}
	// OpenProfile shows the profile card.
	OpenProfile struct{}
	// OpenDeposit shows balance top-up instructions.
	OpenDeposit struct{}
	// OpenDepositGold shows gold top-up instructions.
	OpenDepositGold struct{}
	// OpenWithdrawGold starts the gold withdrawal flow.
	OpenWithdrawGold struct{}
	// OpenWithdrawMoney starts the money withdrawal flow.
	OpenWithdrawMoney struct{}

	// OpenAdminPanel shows one page of the user list.
	OpenAdminPanel struct{ Page int }
	// OpenAdminRequests shows pending requests.
	OpenAdminRequests struct{}
	// AdminSetValues starts the balance/gold override step.
	AdminSetValues struct{}
	// AdminDeposit starts a deposit confirmation for a chosen user.
	AdminDeposit struct{ UserID int64 }

	// AcceptRequest is the admin verdict that settles or advances a request.
	AcceptRequest struct{ RequestID int64 }
	// RejectRequest terminates a pending request with a refund.
	RejectRequest struct{ RequestID int64 }
	// CancelRequest terminates a pending request with a refund.
	CancelRequest struct{ RequestID int64 }

	// ConfirmPurchase is the buyer's confirmation of an assigned sale.
	ConfirmPurchase struct{ RequestID int64 }
	// DeclinePurchase is the buyer's refusal; the sale becomes disputed.
	DeclinePurchase struct{ RequestID int64 }
)

func (OpenMenu) Encode() string          { return "menu" }
func (OpenSell) Encode() string          { return "sell" }
func (OpenBuy) Encode() string           { return "buy" }
func (OpenProfile) Encode() string       { return "profile" }
func (OpenDeposit) Encode() string       { return "deposit" }
func (OpenDepositGold) Encode() string   { return "deposit_gold" }
func (OpenWithdrawGold) Encode() string  { return "withdraw_gold" }
func (OpenWithdrawMoney) Encode() string { return "withdraw_money" }

func (a OpenAdminPanel) Encode() string { return fmt.Sprintf("admin_%d", a.Page) }
func (OpenAdminRequests) Encode() string { return "adminreqs" }
func (AdminSetValues) Encode() string    { return "setvalues" }
func (a AdminDeposit) Encode() string    { return fmt.Sprintf("admdep_%d", a.UserID) }

func (a AcceptRequest) Encode() string { return fmt.Sprintf("accept_%d", a.RequestID) }
func (a RejectRequest) Encode() string { return fmt.Sprintf("reject_%d", a.RequestID) }
func (a CancelRequest) Encode() string { return fmt.Sprintf("cancel_%d", a.RequestID) }

func (a ConfirmPurchase) Encode() string { return fmt.Sprintf("buyok_%d", a.RequestID) }
func (a DeclinePurchase) Encode() string { return fmt.Sprintf("buyno_%d", a.RequestID) }

// DecodeAction parses callback data strictly: unknown verbs, wrong
// argument counts and malformed numbers all fail with ErrBadAction.
func DecodeAction(data string) (Action, error) {
	switch data {
	case "menu":
		return OpenMenu{}, nil
	case "sell":
		return OpenSell{}, nil
	case "buy":
		return OpenBuy{}, nil
	case "profile":
		return OpenProfile{}, nil
	case "deposit":
		return OpenDeposit{}, nil
	case "deposit_gold":
		return OpenDepositGold{}, nil
	case "withdraw_gold":
		return OpenWithdrawGold{}, nil
	case "withdraw_money":
		return OpenWithdrawMoney{}, nil
	case "adminreqs":
		return OpenAdminRequests{}, nil
	case "setvalues":
		return AdminSetValues{}, nil
	}

	verb, arg, ok := strings.Cut(data, "_")
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBadAction, data)
	}

	n, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrBadAction, data)
	}

	switch verb {
	case "admin":
		if n < 0 {
			return nil, fmt.Errorf("%w: %q", ErrBadAction, data)
		}
		return OpenAdminPanel{Page: int(n)}, nil
	case "admdep":
		return AdminDeposit{UserID: n}, nil
	case "accept":
		return AcceptRequest{RequestID: n}, nil
	case "reject":
		return RejectRequest{RequestID: n}, nil
	case "cancel":
		return CancelRequest{RequestID: n}, nil
	case "buyok":
		return ConfirmPurchase{RequestID: n}, nil
	case "buyno":
		return DeclinePurchase{RequestID: n}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrBadAction, data)
	}
}
