package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/felipeboubee/agro-marketplace-sub001/internal/errs"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/models"
)

type paymentMethodStore struct {
	client *firestore.Client
}

func NewPaymentMethodStore(client *firestore.Client) *paymentMethodStore {
	return &paymentMethodStore{client: client}
}

func (s *paymentMethodStore) collection() *firestore.CollectionRef {
	return s.client.Collection("payment_methods")
}

func (s *paymentMethodStore) Get(ctx context.Context, methodID string) (*models.PaymentMethod, error) {
	doc, err := s.collection().Doc(methodID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("payment method not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get payment method", err)
	}
	var m models.PaymentMethod
	if err := doc.DataTo(&m); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse payment method data", err)
	}
	return &m, nil
}

func (s *paymentMethodStore) ListByUser(ctx context.Context, userID string) ([]*models.PaymentMethod, error) {
	docs, err := s.collection().Where("userId", "==", userID).Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list payment methods", err)
	}
	methods := make([]*models.PaymentMethod, 0, len(docs))
	for _, d := range docs {
		var m models.PaymentMethod
		if err := d.DataTo(&m); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse payment method data", err)
		}
		methods = append(methods, &m)
	}
	return methods, nil
}

// SetDefault keeps the single-active-default invariant the same way the
// bank account store does.
func (s *paymentMethodStore) SetDefault(ctx context.Context, userID, methodID string) error {
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		target := s.collection().Doc(methodID)
		doc, err := tx.Get(target)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errs.NewNotFoundError("payment method not found")
			}
			return err
		}
		var m models.PaymentMethod
		if err := doc.DataTo(&m); err != nil {
			return errs.NewDatabaseError("read", "failed to parse payment method data", err)
		}
		if m.UserID != userID {
			return errs.NewForbiddenError("payment method belongs to another user")
		}

		defaults, err := tx.Documents(s.collection().
			Where("userId", "==", userID).
			Where("isDefault", "==", true)).GetAll()
		if err != nil {
			return err
		}

		now := time.Now()
		for _, d := range defaults {
			if d.Ref.ID == methodID {
				continue
			}
			if err := tx.Update(d.Ref, []firestore.Update{
				{Path: "isDefault", Value: false},
				{Path: "updatedAt", Value: now},
			}); err != nil {
				return err
			}
		}
		return tx.Update(target, []firestore.Update{
			{Path: "isDefault", Value: true},
			{Path: "updatedAt", Value: now},
		})
	})
	if err != nil {
		return storeErr("update", "failed to set default payment method", err)
	}
	return nil
}
