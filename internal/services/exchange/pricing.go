package exchange

// Pricing holds the business constants. Rates are expressed as minor
// units per gold unit (a 0.70 balance/gold rate is 70), so every
// computation stays in integer arithmetic. Values come from
// configuration, not literals.
type Pricing struct {
	BuyRateMinor     int64 // minor units charged per gold bought
	SellRateMinor    int64 // minor units credited per gold sold (net of commission)
	WithdrawRatePct  int64 // payout rate for gold withdrawals, percent
	WithdrawFeeMinor int64 // flat offset added to every gold payout
	MinWithdrawGold  int64 // minimum gold units per withdrawal
	MinWithdrawMinor int64 // minimum balance withdrawal, minor units
}

// DefaultPricing mirrors the historical rates: buy at 0.70, sell at
// 0.80, withdraw payout floor(amount/0.8)+0.52, minimums of 100.
func DefaultPricing() Pricing {
	return Pricing{
		BuyRateMinor:     70,
		SellRateMinor:    80,
		WithdrawRatePct:  80,
		WithdrawFeeMinor: 52,
		MinWithdrawGold:  100,
		MinWithdrawMinor: 100_00,
	}
}

// BuyCost is the balance price, in minor units, of buying gold units.
func (p Pricing) BuyCost(gold int64) int64 {
	return gold * p.BuyRateMinor
}

// SellProceeds is the balance value, in minor units, of a gold sale
// after commission.
func (p Pricing) SellProceeds(gold int64) int64 {
	return gold * p.SellRateMinor
}

// WithdrawGoldPayout is the money owed for a gold withdrawal:
// floor(gold / rate) whole balance units plus the flat fee offset.
func (p Pricing) WithdrawGoldPayout(gold int64) int64 {
	whole := gold * 100 / p.WithdrawRatePct

	return whole*100 + p.WithdrawFeeMinor
}
