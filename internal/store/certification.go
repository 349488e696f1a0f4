package store

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/felipeboubee/agro-marketplace-sub001/internal/dto"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/errs"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/models"
)

type certificationStore struct {
	client *firestore.Client
}

func NewCertificationStore(client *firestore.Client) *certificationStore {
	return &certificationStore{client: client}
}

func (s *certificationStore) collection() *firestore.CollectionRef {
	return s.client.Collection("certifications")
}

func (s *certificationStore) Get(ctx context.Context, certID string) (*models.Certification, error) {
	doc, err := s.collection().Doc(certID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("certification not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get certification", err)
	}
	var c models.Certification
	if err := doc.DataTo(&c); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse certification data", err)
	}
	return &c, nil
}

// ListByBank serves the bank pull API: certifications the bank issued,
// optionally narrowed by status.
func (s *certificationStore) ListByBank(ctx context.Context, bankID string, q dto.CertQuery) ([]*models.Certification, error) {
	query := s.collection().Where("bankId", "==", bankID)
	if q.Status != "" {
		query = query.Where("status", "==", q.Status)
	}
	limit := q.Limit
	if limit <= 0 {
		limit = defaultOrderLimit
	}
	if limit > maxOrderLimit {
		limit = maxOrderLimit
	}
	docs, err := query.
		OrderBy("issuedAt", firestore.Desc).
		Offset(q.Offset).
		Limit(limit).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list certifications", err)
	}
	certs := make([]*models.Certification, 0, len(docs))
	for _, d := range docs {
		var c models.Certification
		if err := d.DataTo(&c); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse certification data", err)
		}
		certs = append(certs, &c)
	}
	return certs, nil
}

// HasActiveForBuyer backs the certification snapshot flag on new offers.
func (s *certificationStore) HasActiveForBuyer(ctx context.Context, buyerID string) (bool, error) {
	docs, err := s.collection().
		Where("buyerId", "==", buyerID).
		Where("status", "==", models.CertificationActive).
		Limit(1).
		Documents(ctx).GetAll()
	if err != nil {
		return false, errs.NewDatabaseError("read", "failed to check buyer certification", err)
	}
	return len(docs) > 0, nil
}
