package bot

import "testing"

func TestConversationsTakeRemoves(t *testing.T) {
	t.Parallel()

	c := newConversations()

	c.set(1, expectAmount{flow: flowBuyGold})

	e, ok := c.take(1)
	if !ok {
		t.Fatal("expected a registered expectation")
	}

	if got, isAmount := e.(expectAmount); !isAmount || got.flow != flowBuyGold {
		t.Fatalf("wrong expectation taken: %#v", e)
	}

	// take is consuming: a second message finds nothing.
	if _, ok := c.take(1); ok {
		t.Fatal("expectation should be gone after take")
	}
}

func TestConversationsSetReplaces(t *testing.T) {
	t.Parallel()

	c := newConversations()

	c.set(1, expectAmount{flow: flowBuyGold})
	c.set(1, expectPhoneAndAmount{})

	e, ok := c.take(1)
	if !ok {
		t.Fatal("expected a registered expectation")
	}

	if _, isPhone := e.(expectPhoneAndAmount); !isPhone {
		t.Fatalf("later registration should win, got %#v", e)
	}
}

func TestConversationsPerUserIsolation(t *testing.T) {
	t.Parallel()

	c := newConversations()

	c.set(1, expectAmount{flow: flowSellGold})
	c.set(2, expectScreenshot{purpose: purposeDepositBalance})

	c.clear(1)

	if _, ok := c.take(1); ok {
		t.Fatal("cleared user should have no expectation")
	}

	if _, ok := c.take(2); !ok {
		t.Fatal("other user's expectation must survive")
	}
}
