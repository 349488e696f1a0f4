package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/felipeboubee/agro-marketplace-sub001/internal/dto"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/errs"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/middleware"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/models"
)

// --- Stub service ---

type stubCertificationService struct {
	certs      []*models.Certification
	cert       *models.Certification
	err        error
	lastBankID string
	lastCertID string
	lastQ      dto.CertQuery
}

func (s *stubCertificationService) ListForBank(_ context.Context, bankID string, q dto.CertQuery) ([]*models.Certification, error) {
	s.lastBankID = bankID
	s.lastQ = q
	return s.certs, s.err
}

func (s *stubCertificationService) GetForBank(_ context.Context, bankID, certID string) (*models.Certification, error) {
	s.lastBankID = bankID
	s.lastCertID = certID
	return s.cert, s.err
}

// withBank injects an API-key-authenticated integration into the context.
func withBank(r *http.Request, bi *models.BankIntegration) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.BankKey, bi)
	return r.WithContext(ctx)
}

// --- Tests ---

func TestPullCertifications_ScopedToBank(t *testing.T) {
	svc := &stubCertificationService{certs: []*models.Certification{{CertificationID: "cert-1"}}}
	resp := &stubResponseHandler{}
	h := NewBankAPIHandlers(&Deps{ResponseHandler: resp, CertificationSvc: svc})

	req := httptest.NewRequest(http.MethodGet, "/bank/certifications?status=vigente&limit=10", nil)
	req = withBank(req, &models.BankIntegration{BankID: "bank-1"})
	rr := httptest.NewRecorder()
	h.PullCertifications(rr, req)

	if !resp.writeSuccessCalled || resp.writeSuccessStatus != http.StatusOK {
		t.Fatalf("expected WriteSuccess 200")
	}
	if svc.lastBankID != "bank-1" {
		t.Errorf("expected bankId=bank-1, got %s", svc.lastBankID)
	}
	if svc.lastQ.Status != models.CertificationActive || svc.lastQ.Limit != 10 {
		t.Errorf("unexpected query passed to service: %+v", svc.lastQ)
	}
}

func TestPullCertification_OK(t *testing.T) {
	svc := &stubCertificationService{cert: &models.Certification{CertificationID: "cert-1", BankID: "bank-1"}}
	resp := &stubResponseHandler{}
	h := NewBankAPIHandlers(&Deps{ResponseHandler: resp, CertificationSvc: svc})

	req := httptest.NewRequest(http.MethodGet, "/bank/certifications/cert-1", nil)
	req = withBank(req, &models.BankIntegration{BankID: "bank-1"})
	req = withChiParam(req, "certId", "cert-1")
	rr := httptest.NewRecorder()
	h.PullCertification(rr, req)

	if !resp.writeSuccessCalled {
		t.Fatal("expected WriteSuccess")
	}
	if svc.lastBankID != "bank-1" || svc.lastCertID != "cert-1" {
		t.Errorf("unexpected call: bank=%s cert=%s", svc.lastBankID, svc.lastCertID)
	}
}

func TestPullCertification_ForeignBank(t *testing.T) {
	svc := &stubCertificationService{err: errs.NewNotFoundError("certification not found")}
	resp := &stubResponseHandler{}
	h := NewBankAPIHandlers(&Deps{ResponseHandler: resp, CertificationSvc: svc})

	req := httptest.NewRequest(http.MethodGet, "/bank/certifications/cert-1", nil)
	req = withBank(req, &models.BankIntegration{BankID: "bank-2"})
	req = withChiParam(req, "certId", "cert-1")
	rr := httptest.NewRecorder()
	h.PullCertification(rr, req)

	if !resp.handleErrorCalled {
		t.Fatal("expected HandleError for a foreign bank's certification")
	}
}
