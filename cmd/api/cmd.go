package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/felipeboubee/agro-marketplace-sub001/internal/bootstrap"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/config"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/crypto"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/handlers"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/response"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/router"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/services"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/store"
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

	// helpers
	kmsHelper := crypto.NewKMS(bs.KMS, cfg.KMSKeyName)

	// stores
	ustore := store.NewUserStore(bs.Firestore)
	lstore := store.NewListingStore(bs.Firestore)
	ostore := store.NewOfferStore(bs.Firestore)
	tstore := store.NewTradeStore(bs.Firestore)
	postore := store.NewPaymentOrderStore(bs.Firestore)
	pmstore := store.NewPaymentMethodStore(bs.Firestore)
	bastore := store.NewBankAccountStore(bs.Firestore)
	bistore := store.NewBankIntegrationStore(bs.Firestore)
	cstore := store.NewCertificationStore(bs.Firestore)
	nstore := store.NewNotificationStore(bs.Firestore)
	wlstore := store.NewWebhookLogStore(bs.Firestore)
	wsstore := store.NewWebhookSecretStore(bs.Secrets, cfg.ProjectID)

	// services
	ntserv := services.NewNotificationService(nstore)
	seserv := services.NewSettlementService(bastore, pmstore, bistore, ntserv, services.ZeroCommission)
	userv := services.NewUserService(ustore)
	oserv := services.NewOfferService(ostore, lstore, pmstore, cstore, seserv, ntserv)
	trserv := services.NewTradeService(tstore)
	poserv := services.NewPaymentOrderService(postore, ntserv)
	crserv := services.NewCredentialService(bistore, wsstore, kmsHelper)
	whserv := services.NewWebhookService(bistore, wsstore, wlstore, cfg.WebhookTimeout)
	certserv := services.NewCertificationService(cstore)

	// response handler
	rh := response.New(bs.Log)

	// dependancies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = rh
	deps.Firebase = bs.Firebase
	deps.UserSvc = userv
	deps.OfferSvc = oserv
	deps.TradeSvc = trserv
	deps.OrderSvc = poserv
	deps.CredentialSvc = crserv
	deps.WebhookSvc = whserv
	deps.NotificationSvc = ntserv
	deps.CertificationSvc = certserv

	// router
	r := router.NewRouter(deps)
	err = http.ListenAndServe(":8080", r)
	exitOnError("server start failed", err, bs.Log)
}
