package exchange

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/avdeyev/goldex/internal/infra/pgtestutil"
	"github.com/avdeyev/goldex/internal/repos/requests"
	"github.com/avdeyev/goldex/internal/repos/users"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	db, cleanup := pgtestutil.NewTestDB(t)
	t.Cleanup(cleanup)

	return New(db, DefaultPricing())
}

func mustUser(t *testing.T, svc *Service, ctx context.Context, id, balance, gold int64) users.User {
	t.Helper()

	u, err := svc.GetOrCreate(ctx, id, "test")
	if err != nil {
		t.Fatalf("get or create user %d: %v", id, err)
	}

	if balance != 0 || gold != 0 {
		u, err = svc.ApplyDelta(ctx, id, balance, gold)
		if err != nil {
			t.Fatalf("fund user %d: %v", id, err)
		}
	}

	return u
}

func TestWithdrawGold_RoundTrip(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Second)
	defer cancel()

	mustUser(t, svc, ctx, 1, 0, 500)

	req, err := svc.CreateWithdrawGold(ctx, 1, 100)
	if err != nil {
		t.Fatalf("create withdraw: %v", err)
	}

	if req.Details.PayoutMinor != 125_52 {
		t.Fatalf("payout = %d, want 12552", req.Details.PayoutMinor)
	}

	u, err := svc.GetUser(ctx, 1)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}

	if u.Gold != 400 {
		t.Fatalf("gold after debit = %d, want 400", u.Gold)
	}

	// Reject refunds exactly the creation debit.
	if _, err := svc.Reject(ctx, req.ID); err != nil {
		t.Fatalf("reject: %v", err)
	}

	u, err = svc.GetUser(ctx, 1)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}

	if u.Gold != 500 {
		t.Fatalf("gold after refund = %d, want 500", u.Gold)
	}
}

func TestWithdrawGold_BelowMinimum(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Second)
	defer cancel()

	mustUser(t, svc, ctx, 1, 0, 500)

	_, err := svc.CreateWithdrawGold(ctx, 1, 99)
	if !errors.Is(err, ErrBelowMinimum) {
		t.Fatalf("expected ErrBelowMinimum, got %v", err)
	}

	u, err := svc.GetUser(ctx, 1)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}

	if u.Gold != 500 {
		t.Fatalf("rejected request must not touch the ledger, gold = %d", u.Gold)
	}
}

func TestWithdrawGold_InsufficientGold(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Second)
	defer cancel()

	mustUser(t, svc, ctx, 1, 0, 50)

	_, err := svc.CreateWithdrawGold(ctx, 1, 100)
	if !errors.Is(err, users.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	pending, err := svc.ListPending(ctx, requests.TypeWithdrawGold)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}

	if len(pending) != 0 {
		t.Fatalf("failed debit must not leave a request behind, got %d", len(pending))
	}
}

func TestWithdrawMoney_BelowMinimum(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Second)
	defer cancel()

	mustUser(t, svc, ctx, 1, 500_00, 0)

	_, err := svc.CreateWithdrawMoney(ctx, 1, 50_00, "+79990001122")
	if !errors.Is(err, ErrBelowMinimum) {
		t.Fatalf("expected ErrBelowMinimum, got %v", err)
	}

	u, err := svc.GetUser(ctx, 1)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}

	if u.BalanceMinor != 500_00 {
		t.Fatalf("rejected request must not touch the ledger, balance = %d", u.BalanceMinor)
	}

	pending, err := svc.ListPending(ctx, requests.TypeWithdrawMoney)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}

	if len(pending) != 0 {
		t.Fatalf("rejected request must not be recorded, got %d", len(pending))
	}
}

func TestWithdrawMoney_RefundOnCancel(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Second)
	defer cancel()

	mustUser(t, svc, ctx, 1, 500_00, 0)

	req, err := svc.CreateWithdrawMoney(ctx, 1, 150_00, "+79990001122")
	if err != nil {
		t.Fatalf("create withdraw money: %v", err)
	}

	if req.Details.Phone != "+79990001122" {
		t.Fatalf("phone not stored: %+v", req.Details)
	}

	u, err := svc.GetUser(ctx, 1)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}

	if u.BalanceMinor != 350_00 {
		t.Fatalf("balance after debit = %d, want 35000", u.BalanceMinor)
	}

	if _, err := svc.Cancel(ctx, req.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	u, err = svc.GetUser(ctx, 1)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}

	if u.BalanceMinor != 500_00 {
		t.Fatalf("balance after refund = %d, want 50000", u.BalanceMinor)
	}
}

// A verdict settles at most once: the second terminal attempt fails and
// no second refund happens.
func TestTerminate_AtMostOnce(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Second)
	defer cancel()

	mustUser(t, svc, ctx, 1, 0, 500)

	req, err := svc.CreateWithdrawGold(ctx, 1, 100)
	if err != nil {
		t.Fatalf("create withdraw: %v", err)
	}

	if _, err := svc.Reject(ctx, req.ID); err != nil {
		t.Fatalf("first reject: %v", err)
	}

	_, err = svc.Reject(ctx, req.ID)
	if !errors.Is(err, requests.ErrAlreadyProcessed) {
		t.Fatalf("second reject: expected ErrAlreadyProcessed, got %v", err)
	}

	_, err = svc.Cancel(ctx, req.ID)
	if !errors.Is(err, requests.ErrIllegalTransition) {
		t.Fatalf("cancel after reject: expected ErrIllegalTransition, got %v", err)
	}

	u, err := svc.GetUser(ctx, 1)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}

	if u.Gold != 500 {
		t.Fatalf("refund applied more than once, gold = %d", u.Gold)
	}
}

func TestDeposit_CreditOnAccept(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Second)
	defer cancel()

	mustUser(t, svc, ctx, 1, 0, 0)

	req, err := svc.CreateDeposit(ctx, 1, requests.TypeDepositBalance)
	if err != nil {
		t.Fatalf("create deposit: %v", err)
	}

	if req.Amount != 0 {
		t.Fatalf("deposit amount before verification = %d, want 0", req.Amount)
	}

	u, err := svc.GetUser(ctx, 1)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}

	if u.BalanceMinor != 0 {
		t.Fatalf("deposit must not credit before acceptance, balance = %d", u.BalanceMinor)
	}

	accepted, err := svc.AcceptDeposit(ctx, req.ID, 250_00)
	if err != nil {
		t.Fatalf("accept deposit: %v", err)
	}

	if accepted.Amount != 250_00 {
		t.Fatalf("accepted amount = %d, want 25000", accepted.Amount)
	}

	u, err = svc.GetUser(ctx, 1)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}

	if u.BalanceMinor != 250_00 {
		t.Fatalf("balance after credit = %d, want 25000", u.BalanceMinor)
	}

	// Accepting again must not double-credit.
	_, err = svc.AcceptDeposit(ctx, req.ID, 250_00)
	if !errors.Is(err, requests.ErrAlreadyProcessed) {
		t.Fatalf("second accept: expected ErrAlreadyProcessed, got %v", err)
	}

	u, err = svc.GetUser(ctx, 1)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}

	if u.BalanceMinor != 250_00 {
		t.Fatalf("double credit detected, balance = %d", u.BalanceMinor)
	}
}

func TestDepositGold_CreditOnAccept(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Second)
	defer cancel()

	mustUser(t, svc, ctx, 1, 0, 0)

	req, err := svc.CreateDeposit(ctx, 1, requests.TypeDepositGold)
	if err != nil {
		t.Fatalf("create gold deposit: %v", err)
	}

	if _, err := svc.AcceptDeposit(ctx, req.ID, 300); err != nil {
		t.Fatalf("accept gold deposit: %v", err)
	}

	u, err := svc.GetUser(ctx, 1)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}

	if u.Gold != 300 {
		t.Fatalf("gold after credit = %d, want 300", u.Gold)
	}
}

func TestSellGold_FullFlow(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Second)
	defer cancel()

	mustUser(t, svc, ctx, 1, 0, 100)      // seller
	mustUser(t, svc, ctx, 2, 100_00, 0)   // buyer

	req, err := svc.CreateSellGold(ctx, 1, 50)
	if err != nil {
		t.Fatalf("create sale: %v", err)
	}

	if req.Details.ProceedsMinor != 40_00 {
		t.Fatalf("proceeds = %d, want 4000", req.Details.ProceedsMinor)
	}

	seller, err := svc.GetUser(ctx, 1)
	if err != nil {
		t.Fatalf("get seller: %v", err)
	}

	if seller.Gold != 50 {
		t.Fatalf("seller gold after escrow = %d, want 50", seller.Gold)
	}

	if _, err := svc.Accept(ctx, req.ID); err != nil {
		t.Fatalf("accept sale: %v", err)
	}

	if _, err := svc.AssignBuyer(ctx, req.ID, 2); err != nil {
		t.Fatalf("assign buyer: %v", err)
	}

	done, err := svc.CompleteSale(ctx, req.ID)
	if err != nil {
		t.Fatalf("complete sale: %v", err)
	}

	if done.Status != requests.StatusCompleted {
		t.Fatalf("status = %s, want completed", done.Status)
	}

	buyer, err := svc.GetUser(ctx, 2)
	if err != nil {
		t.Fatalf("get buyer: %v", err)
	}

	if buyer.BalanceMinor != 60_00 {
		t.Fatalf("buyer balance = %d, want 6000", buyer.BalanceMinor)
	}

	// Seller proceeds are settled off-ledger; the balance stays put.
	seller, err = svc.GetUser(ctx, 1)
	if err != nil {
		t.Fatalf("get seller: %v", err)
	}

	if seller.BalanceMinor != 0 {
		t.Fatalf("seller balance = %d, want 0", seller.BalanceMinor)
	}
}

func TestSellGold_Guards(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Second)
	defer cancel()

	mustUser(t, svc, ctx, 1, 0, 100)
	mustUser(t, svc, ctx, 2, 10_00, 0)

	req, err := svc.CreateSellGold(ctx, 1, 50)
	if err != nil {
		t.Fatalf("create sale: %v", err)
	}

	// Buyer assignment needs an accepted sale.
	_, err = svc.AssignBuyer(ctx, req.ID, 2)
	if !errors.Is(err, ErrNotAccepted) {
		t.Fatalf("assign on pending: expected ErrNotAccepted, got %v", err)
	}

	if _, err := svc.Accept(ctx, req.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}

	_, err = svc.AssignBuyer(ctx, req.ID, 1)
	if !errors.Is(err, ErrSelfDeal) {
		t.Fatalf("self deal: expected ErrSelfDeal, got %v", err)
	}

	// Completion without a counterpart cannot settle.
	_, err = svc.CompleteSale(ctx, req.ID)
	if !errors.Is(err, ErrNoCounterpart) {
		t.Fatalf("complete without buyer: expected ErrNoCounterpart, got %v", err)
	}

	if _, err := svc.AssignBuyer(ctx, req.ID, 2); err != nil {
		t.Fatalf("assign buyer: %v", err)
	}

	// Buyer cannot afford 4000; the sale stays accepted.
	_, err = svc.CompleteSale(ctx, req.ID)
	if !errors.Is(err, users.ErrInsufficientFunds) {
		t.Fatalf("underfunded buyer: expected ErrInsufficientFunds, got %v", err)
	}

	got, err := svc.GetRequest(ctx, req.ID)
	if err != nil {
		t.Fatalf("get request: %v", err)
	}

	if got.Status != requests.StatusAccepted {
		t.Fatalf("failed settlement must roll back, status = %s", got.Status)
	}
}

func TestDisputeSale_NoLedgerEffect(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Second)
	defer cancel()

	mustUser(t, svc, ctx, 1, 0, 100)
	mustUser(t, svc, ctx, 2, 100_00, 0)

	req, err := svc.CreateSellGold(ctx, 1, 50)
	if err != nil {
		t.Fatalf("create sale: %v", err)
	}

	if _, err := svc.Accept(ctx, req.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}

	if _, err := svc.AssignBuyer(ctx, req.ID, 2); err != nil {
		t.Fatalf("assign buyer: %v", err)
	}

	disputed, err := svc.DisputeSale(ctx, req.ID)
	if err != nil {
		t.Fatalf("dispute: %v", err)
	}

	if disputed.Status != requests.StatusDisputed {
		t.Fatalf("status = %s, want disputed", disputed.Status)
	}

	buyer, err := svc.GetUser(ctx, 2)
	if err != nil {
		t.Fatalf("get buyer: %v", err)
	}

	if buyer.BalanceMinor != 100_00 {
		t.Fatalf("dispute must not move money, buyer balance = %d", buyer.BalanceMinor)
	}

	// Disputed is terminal.
	_, err = svc.CompleteSale(ctx, req.ID)
	if !errors.Is(err, requests.ErrIllegalTransition) {
		t.Fatalf("complete after dispute: expected ErrIllegalTransition, got %v", err)
	}
}

func TestBuyGold_Instant(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Second)
	defer cancel()

	mustUser(t, svc, ctx, 1, 100_00, 0)

	u, err := svc.BuyGold(ctx, 1, 100)
	if err != nil {
		t.Fatalf("buy gold: %v", err)
	}

	if u.BalanceMinor != 30_00 || u.Gold != 100 {
		t.Fatalf("after purchase: balance=%d gold=%d, want 3000/100", u.BalanceMinor, u.Gold)
	}

	_, err = svc.BuyGold(ctx, 1, 100)
	if !errors.Is(err, users.ErrInsufficientFunds) {
		t.Fatalf("second purchase: expected ErrInsufficientFunds, got %v", err)
	}
}

func TestSetValues_RejectsNegative(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Second)
	defer cancel()

	mustUser(t, svc, ctx, 1, 10_00, 10)

	err := svc.SetValues(ctx, 1, -1, 0)
	if !errors.Is(err, ErrNegativeOverride) {
		t.Fatalf("expected ErrNegativeOverride, got %v", err)
	}

	if err := svc.SetValues(ctx, 1, 0, 0); err != nil {
		t.Fatalf("zero override: %v", err)
	}

	u, err := svc.GetUser(ctx, 1)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}

	if u.BalanceMinor != 0 || u.Gold != 0 {
		t.Fatalf("override not applied: %+v", u)
	}
}
