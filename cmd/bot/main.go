package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v11"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/avdeyev/goldex/internal/bot"
	"github.com/avdeyev/goldex/internal/infra/logging"
	"github.com/avdeyev/goldex/internal/infra/pgutils"
	"github.com/avdeyev/goldex/internal/ops"
	"github.com/avdeyev/goldex/internal/services/exchange"
	"github.com/avdeyev/goldex/pkg/shutdownqueue"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error running bot: %v", err)
		//nolint:gocritic
		os.Exit(1)
	}
}

func run(ctx context.Context) (retErr error) {
	cfg, err := env.ParseAs[botConfig]()
	if err != nil {
		return fmt.Errorf("init config: %w", err)
	}

	logging.SetupJSON(cfg.LogLevel)

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		serr := shutdownqueue.Shutdown(shutdownCtx)
		if serr != nil {
			retErr = errors.Join(retErr, serr)
		}
	}()

	// --- Infra ---
	dbConns, err := pgutils.OpenDB(ctx, cfg.DSN)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}

	shutdownqueue.Add(func(context.Context) error {
		slog.Info("Close db")

		return dbConns.Close()
	})

	svc := exchange.New(dbConns, cfg.pricing())

	// --- Telegram ---
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return fmt.Errorf("telegram api: %w", err)
	}

	slog.Info("Authorized on telegram", "username", api.Self.UserName)

	tgBot := bot.New(api, svc, bot.Config{
		AdminID:     cfg.AdminID,
		Wallet:      cfg.Wallet,
		GoldAccount: cfg.GoldAccount,
	})

	// --- Ops server ---
	srv := ops.NewServer(cfg.OpsPort, dbConns)

	shutdownqueue.Add(func(c context.Context) error {
		slog.Info("Shut down ops server")

		err := srv.Shutdown(c)
		if err != nil {
			return fmt.Errorf("shutdown ops srv: %w", err)
		}

		return nil
	})

	errCh := make(chan error, 2)

	go func() {
		serr := srv.ListenAndServe()
		// http.ErrServerClosed is the normal path during Shutdown
		if serr != nil && !errors.Is(serr, http.ErrServerClosed) {
			errCh <- serr
			return
		}

		errCh <- nil
	}()

	go func() {
		errCh <- tgBot.Run(ctx)
	}()

	slog.Info("Bot started")

	// --- Wait until either context cancels or a component errors out ---
	select {
	case <-ctx.Done():
		// graceful path; deferred shutdownqueue.Shutdown will run
		return nil
	case serr := <-errCh:
		if serr != nil {
			return fmt.Errorf("component error: %w", serr)
		}

		return nil
	}
}
