package handlers

import (
	"log/slog"

	"firebase.google.com/go/v4/auth"

	"github.com/felipeboubee/agro-marketplace-sub001/internal/response"
)

type Deps struct {
	Log             *slog.Logger
	ResponseHandler response.ResponseHandler
	Firebase        *auth.Client

	UserSvc          UserService
	OfferSvc         OfferService
	TradeSvc         TradeService
	OrderSvc         PaymentOrderService
	CredentialSvc    CredentialService
	WebhookSvc       WebhookService
	NotificationSvc  NotificationService
	CertificationSvc CertificationService
}
