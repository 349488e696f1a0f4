package services

import (
	"context"

	"github.com/felipeboubee/agro-marketplace-sub001/internal/dto"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/errs"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/models"
)

type certificationCSStore interface {
	Get(ctx context.Context, certID string) (*models.Certification, error)
	ListByBank(ctx context.Context, bankID string, q dto.CertQuery) ([]*models.Certification, error)
}

// certificationService serves the bank pull API. Certifications are issued
// through the admin flow; banks only read the ones they issued.
type certificationService struct {
	certs certificationCSStore
}

func NewCertificationService(certs certificationCSStore) *certificationService {
	return &certificationService{certs: certs}
}

func (s *certificationService) ListForBank(ctx context.Context, bankID string, q dto.CertQuery) ([]*models.Certification, error) {
	return s.certs.ListByBank(ctx, bankID, q)
}

func (s *certificationService) GetForBank(ctx context.Context, bankID, certID string) (*models.Certification, error) {
	cert, err := s.certs.Get(ctx, certID)
	if err != nil {
		return nil, err
	}
	if cert.BankID != bankID {
		return nil, errs.NewNotFoundError("certification not found")
	}
	return cert, nil
}
