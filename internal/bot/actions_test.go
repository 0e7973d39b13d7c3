package bot

import (
	"errors"
	"testing"
)

func TestActionRoundTrip(t *testing.T) {
	t.Parallel()

	actions := []Action{
		OpenMenu{},
		OpenSell{},
		OpenBuy{},
		OpenProfile{},
		OpenDeposit{},
		OpenDepositGold{},
		OpenWithdrawGold{},
		OpenWithdrawMoney{},
		OpenAdminPanel{Page: 0},
		OpenAdminPanel{Page: 7},
		OpenAdminRequests{},
		AdminSetValues{},
		AdminDeposit{UserID: 123456789},
		AcceptRequest{RequestID: 42},
		RejectRequest{RequestID: 42},
		CancelRequest{RequestID: 42},
		ConfirmPurchase{RequestID: 9000},
		DeclinePurchase{RequestID: 9000},
	}

	for _, a := range actions {
		wire := a.Encode()

		got, err := DecodeAction(wire)
		if err != nil {
			t.Errorf("DecodeAction(%q): %v", wire, err)
			continue
		}

		if got != a {
			t.Errorf("round trip %q: got %#v, want %#v", wire, got, a)
		}
	}
}

func TestDecodeActionRejectsGarbage(t *testing.T) {
	t.Parallel()

	bad := []string{
		"",
		"unknown",
		"accept",        // missing id
		"accept_",       // empty id
		"accept_abc",    // non-numeric id
		"accept_1_2",    // extra segment
		"admin_-1",      // negative page
		"buyok",         // missing id
		"menu_1",        // argument on a fixed verb
		"ACCEPT_1",      // wrong case
		"accept_1 ",     // trailing space
		"withdraw_cash", // unknown compound verb
	}

	for _, wire := range bad {
		_, err := DecodeAction(wire)
		if !errors.Is(err, ErrBadAction) {
			t.Errorf("DecodeAction(%q): expected ErrBadAction, got %v", wire, err)
		}
	}
}
