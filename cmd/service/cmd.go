package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/felipeboubee/agro-marketplace-sub001/internal/bootstrap"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/config"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/services"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/store"
	"github.com/felipeboubee/agro-marketplace-sub001/pkg/logger"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	// bootstrap
	cfg := config.New()
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	// stores
	bistore := store.NewBankIntegrationStore(bs.Firestore)
	wlstore := store.NewWebhookLogStore(bs.Firestore)
	obstore := store.NewOutboxStore(bs.Firestore)
	wsstore := store.NewWebhookSecretStore(bs.Secrets, cfg.ProjectID)

	// services
	whserv := services.NewWebhookService(bistore, wsstore, wlstore, cfg.WebhookTimeout)
	worker := services.NewOutboxWorker(obstore, whserv, cfg.OutboxInterval, cfg.MaxAttempts)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.ToContext(ctx, bs.Log)

	bs.Log.Info("outbox worker starting", "interval", cfg.OutboxInterval, "maxAttempts", cfg.MaxAttempts)
	err = worker.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		exitOnError("outbox worker stopped", err, bs.Log)
	}
	bs.Log.Info("outbox worker stopped")
}
