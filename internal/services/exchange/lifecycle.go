package exchange

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/avdeyev/goldex/internal/infra/pgutils"
	"github.com/avdeyev/goldex/internal/repos/requests"
)

// CreateWithdrawGold debits the gold and records the request in one
// transaction. Withdraw and sell requests debit at creation; the later
// reject/cancel refund reverses exactly this delta.
func (s *Service) CreateWithdrawGold(ctx context.Context, userID, gold int64) (requests.Request, error) {
	if gold < s.pricing.MinWithdrawGold {
		return requests.Request{}, ErrBelowMinimum
	}

	det := requests.Details{PayoutMinor: s.pricing.WithdrawGoldPayout(gold)}

	req, err := s.createDebited(ctx, userID, requests.TypeWithdrawGold, gold, det)
	if err != nil {
		return requests.Request{}, fmt.Errorf("create withdraw gold: %w", err)
	}

	return req, nil
}

// CreateWithdrawMoney debits the balance and records the request in one
// transaction. The phone number travels with the request as the payout
// destination.
func (s *Service) CreateWithdrawMoney(ctx context.Context, userID, amountMinor int64, phone string) (requests.Request, error) {
	if amountMinor < s.pricing.MinWithdrawMinor {
		return requests.Request{}, ErrBelowMinimum
	}

	det := requests.Details{Phone: phone}

	req, err := s.createDebited(ctx, userID, requests.TypeWithdrawMoney, amountMinor, det)
	if err != nil {
		return requests.Request{}, fmt.Errorf("create withdraw money: %w", err)
	}

	return req, nil
}

// CreateSellGold escrows the seller's gold and records the sale with
// its computed proceeds.
func (s *Service) CreateSellGold(ctx context.Context, userID, gold int64) (requests.Request, error) {
	if gold <= 0 {
		return requests.Request{}, ErrInvalidAmount
	}

	det := requests.Details{ProceedsMinor: s.pricing.SellProceeds(gold)}

	req, err := s.createDebited(ctx, userID, requests.TypeSellGold, gold, det)
	if err != nil {
		return requests.Request{}, fmt.Errorf("create sell gold: %w", err)
	}

	return req, nil
}

func (s *Service) createDebited(ctx context.Context, userID int64, typ requests.Type, amount int64, det requests.Details) (requests.Request, error) {
	var req requests.Request

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		_, terr := s.users.LockAndGet(tx, userID)
		if terr != nil {
			return fmt.Errorf("lock user: %w", terr)
		}

		switch typ {
		case requests.TypeWithdrawGold, requests.TypeSellGold:
			terr = s.users.AddGold(tx, userID, -amount)
		case requests.TypeWithdrawMoney:
			terr = s.users.AddBalance(tx, userID, -amount)
		default:
			return ErrWrongRequestType
		}
		if terr != nil {
			return fmt.Errorf("debit: %w", terr)
		}

		id, terr := s.reqs.Create(tx, userID, typ, amount, det)
		if terr != nil {
			return fmt.Errorf("create request: %w", terr)
		}

		req = requests.Request{ID: id, UserID: userID, Type: typ, Amount: amount, Status: requests.StatusPending, Details: det}

		return nil
	})
	if err != nil {
		return requests.Request{}, err
	}

	return req, nil
}

// CreateDeposit records a deposit request once the user's payment
// evidence arrives. The amount stays zero until the admin verifies it
// on the screenshot; nothing a user sends can credit their own ledger.
func (s *Service) CreateDeposit(ctx context.Context, userID int64, typ requests.Type) (requests.Request, error) {
	if typ != requests.TypeDepositBalance && typ != requests.TypeDepositGold {
		return requests.Request{}, ErrWrongRequestType
	}

	var req requests.Request

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		id, terr := s.reqs.Create(tx, userID, typ, 0, requests.Details{})
		if terr != nil {
			return terr
		}

		req = requests.Request{ID: id, UserID: userID, Type: typ, Status: requests.StatusPending}

		return nil
	})
	if err != nil {
		return requests.Request{}, fmt.Errorf("create deposit: %w", err)
	}

	return req, nil
}

// Accept moves a pending withdraw or sale to accepted. The money was
// already debited at creation, so no ledger effect fires here.
func (s *Service) Accept(ctx context.Context, requestID int64) (requests.Request, error) {
	var req requests.Request

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		cur, terr := s.reqs.LockAndGet(tx, requestID)
		if terr != nil {
			return terr
		}

		if cur.Type == requests.TypeDepositBalance || cur.Type == requests.TypeDepositGold {
			return ErrWrongRequestType
		}

		terr = s.reqs.SetStatus(tx, requestID, requests.StatusAccepted)
		if terr != nil {
			return terr
		}

		req = cur
		req.Status = requests.StatusAccepted

		return nil
	})
	if err != nil {
		return requests.Request{}, fmt.Errorf("accept request %d: %w", requestID, err)
	}

	return req, nil
}

// AcceptDeposit accepts a deposit with the admin-verified amount and
// credits it, all in one transaction.
func (s *Service) AcceptDeposit(ctx context.Context, requestID, amount int64) (requests.Request, error) {
	if amount <= 0 {
		return requests.Request{}, ErrInvalidAmount
	}

	var req requests.Request

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		cur, terr := s.reqs.LockAndGet(tx, requestID)
		if terr != nil {
			return terr
		}

		terr = s.reqs.SetStatus(tx, requestID, requests.StatusAccepted)
		if terr != nil {
			return terr
		}

		switch cur.Type {
		case requests.TypeDepositBalance:
			terr = s.users.AddBalance(tx, cur.UserID, amount)
		case requests.TypeDepositGold:
			terr = s.users.AddGold(tx, cur.UserID, amount)
		default:
			return ErrWrongRequestType
		}
		if terr != nil {
			return fmt.Errorf("credit deposit: %w", terr)
		}

		terr = s.reqs.SetAmount(tx, requestID, amount)
		if terr != nil {
			return terr
		}

		req = cur
		req.Amount = amount
		req.Status = requests.StatusAccepted

		return nil
	})
	if err != nil {
		return requests.Request{}, fmt.Errorf("accept deposit %d: %w", requestID, err)
	}

	return req, nil
}

// Reject terminates a pending request and refunds whatever its creation
// debited.
func (s *Service) Reject(ctx context.Context, requestID int64) (requests.Request, error) {
	return s.terminate(ctx, requestID, requests.StatusRejected)
}

// Cancel is the admin's other terminal verdict on a pending request,
// with the same refund semantics as Reject.
func (s *Service) Cancel(ctx context.Context, requestID int64) (requests.Request, error) {
	return s.terminate(ctx, requestID, requests.StatusCancelled)
}

func (s *Service) terminate(ctx context.Context, requestID int64, status requests.Status) (requests.Request, error) {
	var req requests.Request

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		cur, terr := s.reqs.LockAndGet(tx, requestID)
		if terr != nil {
			return terr
		}

		terr = s.reqs.SetStatus(tx, requestID, status)
		if terr != nil {
			return terr
		}

		// Refund the creation-time debit. Deposits debited nothing.
		switch cur.Type {
		case requests.TypeWithdrawGold, requests.TypeSellGold:
			terr = s.users.AddGold(tx, cur.UserID, cur.Amount)
		case requests.TypeWithdrawMoney:
			terr = s.users.AddBalance(tx, cur.UserID, cur.Amount)
		}
		if terr != nil {
			return fmt.Errorf("refund: %w", terr)
		}

		req = cur
		req.Status = status

		return nil
	})
	if err != nil {
		return requests.Request{}, fmt.Errorf("terminate request %d: %w", requestID, err)
	}

	return req, nil
}

// AssignBuyer binds the counterpart to an accepted sale before the
// buyer is asked to confirm.
func (s *Service) AssignBuyer(ctx context.Context, requestID, buyerID int64) (requests.Request, error) {
	var req requests.Request

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		cur, terr := s.reqs.LockAndGet(tx, requestID)
		if terr != nil {
			return terr
		}

		if cur.Type != requests.TypeSellGold {
			return ErrWrongRequestType
		}

		if cur.Status != requests.StatusAccepted {
			return ErrNotAccepted
		}

		if buyerID == cur.UserID {
			return ErrSelfDeal
		}

		_, terr = s.users.LockAndGet(tx, buyerID)
		if terr != nil {
			return fmt.Errorf("buyer: %w", terr)
		}

		cur.Details.CounterpartID = buyerID

		terr = s.reqs.SetDetails(tx, requestID, cur.Details)
		if terr != nil {
			return terr
		}

		req = cur

		return nil
	})
	if err != nil {
		return requests.Request{}, fmt.Errorf("assign buyer for request %d: %w", requestID, err)
	}

	return req, nil
}

// CompleteSale settles an accepted sale on the buyer's confirmation:
// the buyer's balance is debited the proceeds and the request turns
// completed, atomically. Both party rows are locked in ascending user
// id order; no operation ever holds more than these two user locks.
//
// The seller's balance is intentionally not credited here: seller
// proceeds are settled manually by the admin outside the ledger. See
// DESIGN.md before "fixing" this.
func (s *Service) CompleteSale(ctx context.Context, requestID int64) (requests.Request, error) {
	var req requests.Request

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		cur, terr := s.reqs.LockAndGet(tx, requestID)
		if terr != nil {
			return terr
		}

		if cur.Type != requests.TypeSellGold {
			return ErrWrongRequestType
		}

		buyerID := cur.Details.CounterpartID
		if buyerID == 0 {
			return ErrNoCounterpart
		}

		terr = s.reqs.SetStatus(tx, requestID, requests.StatusCompleted)
		if terr != nil {
			return terr
		}

		first, second := cur.UserID, buyerID
		if first > second {
			first, second = second, first
		}

		for _, id := range []int64{first, second} {
			_, terr = s.users.LockAndGet(tx, id)
			if terr != nil {
				return fmt.Errorf("lock party %d: %w", id, terr)
			}
		}

		terr = s.users.AddBalance(tx, buyerID, -cur.Details.ProceedsMinor)
		if terr != nil {
			return fmt.Errorf("debit buyer: %w", terr)
		}

		req = cur
		req.Status = requests.StatusCompleted

		return nil
	})
	if err != nil {
		return requests.Request{}, fmt.Errorf("complete sale %d: %w", requestID, err)
	}

	slog.Info("sale completed, seller proceeds settled manually",
		"request_id", req.ID, "seller_id", req.UserID, "buyer_id", req.Details.CounterpartID,
		"gold", req.Amount, "proceeds_minor", req.Details.ProceedsMinor)

	return req, nil
}

// DisputeSale records the buyer's refusal. Disputed is terminal and
// carries no ledger effect; resolution happens off-ledger.
func (s *Service) DisputeSale(ctx context.Context, requestID int64) (requests.Request, error) {
	var req requests.Request

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		cur, terr := s.reqs.LockAndGet(tx, requestID)
		if terr != nil {
			return terr
		}

		if cur.Type != requests.TypeSellGold {
			return ErrWrongRequestType
		}

		terr = s.reqs.SetStatus(tx, requestID, requests.StatusDisputed)
		if terr != nil {
			return terr
		}

		req = cur
		req.Status = requests.StatusDisputed

		return nil
	})
	if err != nil {
		return requests.Request{}, fmt.Errorf("dispute sale %d: %w", requestID, err)
	}

	return req, nil
}

// GetRequest reads one request outside any settlement path.
func (s *Service) GetRequest(ctx context.Context, requestID int64) (requests.Request, error) {
	req, err := s.reqs.Get(ctx, requestID)
	if err != nil {
		return requests.Request{}, fmt.Errorf("get request: %w", err)
	}

	return req, nil
}

// ListPending lists pending requests in creation order, optionally
// filtered by type.
func (s *Service) ListPending(ctx context.Context, typ requests.Type) ([]requests.Request, error) {
	list, err := s.reqs.ListPending(ctx, typ)
	if err != nil {
		return nil, fmt.Errorf("list pending: %w", err)
	}

	return list, nil
}
