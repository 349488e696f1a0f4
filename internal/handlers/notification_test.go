package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/felipeboubee/agro-marketplace-sub001/internal/models"
)

// --- Stub service ---

type stubNotificationService struct {
	notifications []*models.Notification
	err           error
	lastUserID    string
	lastLimit     int
	lastMarkedID  string
}

func (s *stubNotificationService) List(_ context.Context, userID string, limit int) ([]*models.Notification, error) {
	s.lastUserID = userID
	s.lastLimit = limit
	return s.notifications, s.err
}

func (s *stubNotificationService) MarkRead(_ context.Context, userID, notificationID string) error {
	s.lastUserID = userID
	s.lastMarkedID = notificationID
	return s.err
}

// --- Tests ---

func TestListNotifications_OK(t *testing.T) {
	svc := &stubNotificationService{notifications: []*models.Notification{{NotificationID: "n1"}}}
	resp := &stubResponseHandler{}
	h := NewNotificationHandlers(&Deps{ResponseHandler: resp, NotificationSvc: svc})

	req := httptest.NewRequest(http.MethodGet, "/notifications?limit=20", nil)
	req = withActor(req, testBuyer())
	rr := httptest.NewRecorder()
	h.ListNotifications(rr, req)

	if !resp.writeSuccessCalled || resp.writeSuccessStatus != http.StatusOK {
		t.Fatalf("expected WriteSuccess 200")
	}
	if svc.lastUserID != "buyer-1" || svc.lastLimit != 20 {
		t.Errorf("unexpected call: user=%s limit=%d", svc.lastUserID, svc.lastLimit)
	}
}

func TestListNotifications_BankSharesInbox(t *testing.T) {
	svc := &stubNotificationService{}
	resp := &stubResponseHandler{}
	h := NewNotificationHandlers(&Deps{ResponseHandler: resp, NotificationSvc: svc})

	req := httptest.NewRequest(http.MethodGet, "/notifications", nil)
	req = withActor(req, bankActor())
	rr := httptest.NewRecorder()
	h.ListNotifications(rr, req)

	if svc.lastUserID != "bank-1" {
		t.Errorf("bank operators should read the bank inbox, got %s", svc.lastUserID)
	}
}

func TestMarkRead_OK(t *testing.T) {
	svc := &stubNotificationService{}
	resp := &stubResponseHandler{}
	h := NewNotificationHandlers(&Deps{ResponseHandler: resp, NotificationSvc: svc})

	req := httptest.NewRequest(http.MethodPut, "/notifications/n1/read", nil)
	req = withActor(req, testBuyer())
	req = withChiParam(req, "notificationId", "n1")
	rr := httptest.NewRecorder()
	h.MarkRead(rr, req)

	if !resp.writeSuccessCalled {
		t.Fatal("expected WriteSuccess")
	}
	if svc.lastMarkedID != "n1" {
		t.Errorf("expected notificationId=n1, got %s", svc.lastMarkedID)
	}
}
