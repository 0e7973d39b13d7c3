package bot

import "sync"

// The conversation state machine: at most one expectation per user,
// held in memory only. A process restart drops all of them — users
// simply start their flow again. Registering a new expectation
// replaces the previous one.

type expectation interface{ isExpectation() }

type amountFlow int

const (
	flowBuyGold amountFlow = iota
	flowWithdrawGold
	flowSellGold
	flowDepositAmount // admin enters the verified deposit amount
	flowAssignBuyer   // admin enters the buyer's user id for a sale
)

// expectAmount awaits a single numeric message. RequestID binds the
// admin flows to the request they are advancing.
type expectAmount struct {
	flow      amountFlow
	requestID int64
}

// expectPhoneAndAmount awaits "<phone> <amount>" for a money withdrawal.
type expectPhoneAndAmount struct{}

type screenshotPurpose int

const (
	purposeDepositBalance screenshotPurpose = iota
	purposeDepositGold
	purposeWithdrawGold
)

// expectScreenshot awaits an image and nothing else; any other input
// re-registers it. There is no timeout on this wait.
type expectScreenshot struct {
	purpose   screenshotPurpose
	requestID int64 // set when evidence follows an already-created request
}

// expectBalanceGold awaits "<userId> <balance> <gold>" from the admin.
type expectBalanceGold struct{}

func (expectAmount) isExpectation()         {}
func (expectPhoneAndAmount) isExpectation() {}
func (expectScreenshot) isExpectation()     {}
func (expectBalanceGold) isExpectation()    {}

type conversations struct {
	mu sync.Mutex
	m  map[int64]expectation
}

func newConversations() *conversations {
	return &conversations{m: make(map[int64]expectation)}
}

func (c *conversations) set(userID int64, e expectation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[userID] = e
}

// take removes and returns the current expectation. The caller
// re-registers it on validation failure, so a crashing handler leaves
// the user without a stale half-step.
func (c *conversations) take(userID int64) (expectation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.m[userID]
	if ok {
		delete(c.m, userID)
	}

	return e, ok
}

func (c *conversations) clear(userID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, userID)
}
