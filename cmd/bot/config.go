package main

import (
	"log/slog"
	"time"

	"github.com/avdeyev/goldex/internal/services/exchange"
)

type botConfig struct {
	Token   string `env:"TELEGRAM_TOKEN,required"`
	AdminID int64  `env:"ADMIN_ID,required"`
	DSN     string `env:"PG_DSN,required"`

	Wallet      string `env:"PAYMENT_WALLET,required"`
	GoldAccount string `env:"GOLD_ACCOUNT,required"`

	OpsPort         uint16        `env:"OPS_PORT" envDefault:"8080"`
	LogLevel        slog.Level    `env:"APP_LOG_LEVEL" envDefault:"info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	BuyRateMinor     int64 `env:"RATE_BUY_MINOR" envDefault:"70"`
	SellRateMinor    int64 `env:"RATE_SELL_MINOR" envDefault:"80"`
	WithdrawRatePct  int64 `env:"RATE_WITHDRAW_PCT" envDefault:"80"`
	WithdrawFeeMinor int64 `env:"WITHDRAW_FEE_MINOR" envDefault:"52"`
	MinWithdrawGold  int64 `env:"MIN_WITHDRAW_GOLD" envDefault:"100"`
	MinWithdrawMinor int64 `env:"MIN_WITHDRAW_MINOR" envDefault:"10000"`
}

func (c botConfig) pricing() exchange.Pricing {
	return exchange.Pricing{
		BuyRateMinor:     c.BuyRateMinor,
		SellRateMinor:    c.SellRateMinor,
		WithdrawRatePct:  c.WithdrawRatePct,
		WithdrawFeeMinor: c.WithdrawFeeMinor,
		MinWithdrawGold:  c.MinWithdrawGold,
		MinWithdrawMinor: c.MinWithdrawMinor,
	}
}
