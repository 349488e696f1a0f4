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

// bankIntegrationStore keys documents by bank ID, so the upsert that
// regenerates credentials replaces everything in one write and the old API
// key stops resolving immediately.
type bankIntegrationStore struct {
	client *firestore.Client
}

func NewBankIntegrationStore(client *firestore.Client) *bankIntegrationStore {
	return &bankIntegrationStore{client: client}
}

func (s *bankIntegrationStore) collection() *firestore.CollectionRef {
	return s.client.Collection("bank_integrations")
}

func (s *bankIntegrationStore) Upsert(ctx context.Context, bi *models.BankIntegration) error {
	now := time.Now()
	if bi.CreatedAt.IsZero() {
		bi.CreatedAt = now
	}
	bi.UpdatedAt = now
	_, err := s.collection().Doc(bi.BankID).Set(ctx, bi)
	if err != nil {
		return errs.NewDatabaseError("upsert", "failed to upsert bank integration", err)
	}
	return nil
}

func (s *bankIntegrationStore) GetByBankID(ctx context.Context, bankID string) (*models.BankIntegration, error) {
	doc, err := s.collection().Doc(bankID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("bank integration not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get bank integration", err)
	}
	return docToIntegration(doc)
}

// GetByAPIKey resolves an active integration and touches lastUsedAt. The
// touch is a plain update; losing it on a crash is acceptable.
func (s *bankIntegrationStore) GetByAPIKey(ctx context.Context, apiKey string) (*models.BankIntegration, error) {
	docs, err := s.collection().
		Where("apiKey", "==", apiKey).
		Where("isActive", "==", true).
		Limit(1).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to look up api key", err)
	}
	if len(docs) == 0 {
		return nil, errs.NewAuthError("invalid or inactive api key")
	}
	bi, err := docToIntegration(docs[0])
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if _, err := docs[0].Ref.Update(ctx, []firestore.Update{
		{Path: "lastUsedAt", Value: now},
	}); err != nil {
		return nil, errs.NewDatabaseError("update", "failed to touch integration", err)
	}
	bi.LastUsedAt = &now
	return bi, nil
}

func (s *bankIntegrationStore) SetActive(ctx context.Context, bankID string, active bool) error {
	_, err := s.collection().Doc(bankID).Update(ctx, []firestore.Update{
		{Path: "isActive", Value: active},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errs.NewNotFoundError("bank integration not found")
		}
		return errs.NewDatabaseError("update", "failed to toggle bank integration", err)
	}
	return nil
}

func (s *bankIntegrationStore) SetWebhook(ctx context.Context, bankID, url, secretName string) error {
	_, err := s.collection().Doc(bankID).Update(ctx, []firestore.Update{
		{Path: "webhookUrl", Value: url},
		{Path: "webhookSecretName", Value: secretName},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errs.NewNotFoundError("bank integration not found")
		}
		return errs.NewDatabaseError("update", "failed to update webhook config", err)
	}
	return nil
}

func docToIntegration(doc *firestore.DocumentSnapshot) (*models.BankIntegration, error) {
	var bi models.BankIntegration
	if err := doc.DataTo(&bi); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse bank integration data", err)
	}
	return &bi, nil
}

type bankAccountStore struct {
	client *firestore.Client
}

func NewBankAccountStore(client *firestore.Client) *bankAccountStore {
	return &bankAccountStore{client: client}
}

func (s *bankAccountStore) collection() *firestore.CollectionRef {
	return s.client.Collection("bank_accounts")
}

// GetDefault returns nil without error when the user has no default payout
// account; settlement treats that as a to-be-filled-in reference.
func (s *bankAccountStore) GetDefault(ctx context.Context, userID string) (*models.BankAccount, error) {
	docs, err := s.collection().
		Where("userId", "==", userID).
		Where("isDefault", "==", true).
		Limit(1).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to get default bank account", err)
	}
	if len(docs) == 0 {
		return nil, nil
	}
	var acc models.BankAccount
	if err := docs[0].DataTo(&acc); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse bank account data", err)
	}
	return &acc, nil
}

// SetDefault demotes every current default for the user and promotes the
// given account in one transaction, keeping the single-active-default
// invariant under concurrent calls.
func (s *bankAccountStore) SetDefault(ctx context.Context, userID, accountID string) error {
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		target := s.collection().Doc(accountID)
		doc, err := tx.Get(target)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errs.NewNotFoundError("bank account not found")
			}
			return err
		}
		var acc models.BankAccount
		if err := doc.DataTo(&acc); err != nil {
			return errs.NewDatabaseError("read", "failed to parse bank account data", err)
		}
		if acc.UserID != userID {
			return errs.NewForbiddenError("bank account belongs to another user")
		}

		defaults, err := tx.Documents(s.collection().
			Where("userId", "==", userID).
			Where("isDefault", "==", true)).GetAll()
		if err != nil {
			return err
		}

		now := time.Now()
		for _, d := range defaults {
			if d.Ref.ID == accountID {
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
		return storeErr("update", "failed to set default bank account", err)
	}
	return nil
}
