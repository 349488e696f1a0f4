package services

import (
	"context"
	"testing"

	"github.com/felipeboubee/agro-marketplace-sub001/internal/dto"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/errs"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/models"
)

type certFakeCSStore struct {
	cert       *models.Certification
	listedBank string
	listedQ    dto.CertQuery
}

func (f *certFakeCSStore) Get(ctx context.Context, certID string) (*models.Certification, error) {
	if f.cert == nil || f.cert.CertificationID != certID {
		return nil, errs.NewNotFoundError("certification not found")
	}
	return f.cert, nil
}

func (f *certFakeCSStore) ListByBank(ctx context.Context, bankID string, q dto.CertQuery) ([]*models.Certification, error) {
	f.listedBank = bankID
	f.listedQ = q
	return nil, nil
}

func TestGetForBankScopedToIssuer(t *testing.T) {
	store := &certFakeCSStore{cert: &models.Certification{
		CertificationID: "cert-1",
		BankID:          "bank-1",
		Status:          models.CertificationActive,
	}}
	svc := NewCertificationService(store)

	cert, err := svc.GetForBank(testCtx(), "bank-1", "cert-1")
	if err != nil {
		t.Fatalf("GetForBank returned error: %v", err)
	}
	if cert.CertificationID != "cert-1" {
		t.Fatalf("got cert %q, want cert-1", cert.CertificationID)
	}

	// Another bank's key must not reveal the certification exists.
	_, err = svc.GetForBank(testCtx(), "bank-2", "cert-1")
	if _, ok := err.(*errs.NotFoundError); !ok {
		t.Fatalf("expected NotFoundError for a foreign bank, got %v", err)
	}
}

func TestListForBankForwardsQuery(t *testing.T) {
	store := &certFakeCSStore{}
	svc := NewCertificationService(store)

	q := dto.CertQuery{Status: models.CertificationActive, Limit: 10, Offset: 20}
	if _, err := svc.ListForBank(testCtx(), "bank-1", q); err != nil {
		t.Fatalf("ListForBank returned error: %v", err)
	}
	if store.listedBank != "bank-1" || store.listedQ != q {
		t.Fatalf("listed bank=%q q=%+v", store.listedBank, store.listedQ)
	}
}
