// Package main запускает Telegram-бота маркетплейса и HTTP-сервер
// административного API.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/drnine9/marketplace-web/internal/bot"
	"github.com/drnine9/marketplace-web/internal/config"
	"github.com/drnine9/marketplace-web/internal/handler"
	"github.com/drnine9/marketplace-web/internal/middleware"
	"github.com/drnine9/marketplace-web/internal/service"
	"github.com/drnine9/marketplace-web/internal/storage"
	"github.com/drnine9/marketplace-web/internal/storage/jsonfile"
	"github.com/drnine9/marketplace-web/internal/storage/postgres"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	// Суммы счетов сериализуются числами, как их ожидает веб-интерфейс.
	decimal.MarshalJSONWithoutQuotes = true

	_ = godotenv.Load()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	var store storage.Store
	if cfg.DatabaseURI != "" {
		store, err = postgres.New(cfg.DatabaseURI)
	} else {
		store, err = jsonfile.New(cfg.FileStoragePath)
	}
	if err != nil {
		sugar.Fatalw("storage initialization error", "error", err.Error())
	}

	// Notifier подключается после создания бота: транспорт и есть отправитель.
	svc := service.New(store, nil, logger, cfg.StrictInvoiceStatus)
	defer svc.Close()

	tgBot, err := bot.New(cfg.BotToken, svc, logger)
	if err != nil {
		sugar.Fatalw("bot initialization error", "error", err.Error())
	}
	svc.SetNotifier(tgBot)

	authMiddleware := middleware.NewAuthMiddleware(cfg.AdminToken)
	h := handler.NewHandler(svc, logger, authMiddleware, cfg.PublicDir)

	server := &http.Server{
		Addr:    cfg.RunAddress,
		Handler: h.SetupRouter(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return tgBot.Run(ctx)
	})

	g.Go(func() error {
		sugar.Infow("starting admin server", "addr", cfg.RunAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		sugar.Info("server stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}
