package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/felipeboubee/agro-marketplace-sub001/internal/dto"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/errs"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/middleware"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/models"
)

// --- Shared stubs ---

type stubResponseHandler struct {
	writeSuccessCalled bool
	writeSuccessStatus int
	writeSuccessData   any

	handleErrorCalled bool
	handleError       error

	writeErrorCalled bool
	writeErrorStatus int
	writeErrorCode   string
	writeErrorMsg    string
}

func (s *stubResponseHandler) WriteSuccess(w http.ResponseWriter, r *http.Request, status int, data any) {
	s.writeSuccessCalled = true
	s.writeSuccessStatus = status
	s.writeSuccessData = data

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"success":true}`))
}

func (s *stubResponseHandler) WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	s.writeErrorCalled = true
	s.writeErrorStatus = status
	s.writeErrorCode = code
	s.writeErrorMsg = message
	w.WriteHeader(status)
}

func (s *stubResponseHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	s.handleErrorCalled = true
	s.handleError = err
	w.WriteHeader(http.StatusInternalServerError)
}

// withUID injects an authenticated UID into the request context.
func withUID(r *http.Request, uid string) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.UIDKey, uid)
	return r.WithContext(ctx)
}

// withEmail injects the token email into the request context.
func withEmail(r *http.Request, email string) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.EmailKey, email)
	return r.WithContext(ctx)
}

// withActor injects a resolved platform user into the request context.
func withActor(r *http.Request, actor *models.User) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.ActorKey, actor)
	return r.WithContext(ctx)
}

// withChiParam injects a chi URL parameter into the request context.
func withChiParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	return r.WithContext(ctx)
}

// --- Stub service ---

type stubUserService struct {
	registerErr  error
	lastUID      string
	lastEmail    string
	lastRegister dto.RegisterInput

	getUser *models.User
	getErr  error
}

func (s *stubUserService) Register(_ context.Context, uid, email string, in dto.RegisterInput) error {
	s.lastUID = uid
	s.lastEmail = email
	s.lastRegister = in
	return s.registerErr
}

func (s *stubUserService) Get(_ context.Context, uid string) (*models.User, error) {
	return s.getUser, s.getErr
}

// --- Tests ---

func TestRegister_OK(t *testing.T) {
	svc := &stubUserService{}
	resp := &stubResponseHandler{}
	h := NewUserHandlers(&Deps{ResponseHandler: resp, UserSvc: svc})

	body := `{"firstName":"Ana","lastName":"Paz","role":"comprador"}`
	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
	req = withUID(req, "uid1")
	req = withEmail(req, "ana@example.com")
	rr := httptest.NewRecorder()
	h.Register(rr, req)

	if !resp.writeSuccessCalled || resp.writeSuccessStatus != http.StatusCreated {
		t.Fatalf("expected WriteSuccess with 201, got called=%v status=%d", resp.writeSuccessCalled, resp.writeSuccessStatus)
	}
	if svc.lastUID != "uid1" || svc.lastEmail != "ana@example.com" {
		t.Errorf("unexpected identity passed to service: uid=%s email=%s", svc.lastUID, svc.lastEmail)
	}
	if svc.lastRegister.Role != models.RoleBuyer {
		t.Errorf("unexpected role passed to service: %s", svc.lastRegister.Role)
	}
}

func TestRegister_InvalidJSON(t *testing.T) {
	svc := &stubUserService{}
	resp := &stubResponseHandler{}
	h := NewUserHandlers(&Deps{ResponseHandler: resp, UserSvc: svc})

	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader("not-json"))
	req = withUID(req, "uid1")
	rr := httptest.NewRecorder()
	h.Register(rr, req)

	if !resp.handleErrorCalled {
		t.Fatal("expected HandleError on invalid JSON")
	}
	if resp.writeSuccessCalled {
		t.Fatal("WriteSuccess should not be called on invalid JSON")
	}
}

func TestRegister_ServiceError(t *testing.T) {
	svc := &stubUserService{registerErr: errs.NewValidationError("role must be comprador, vendedor or banco")}
	resp := &stubResponseHandler{}
	h := NewUserHandlers(&Deps{ResponseHandler: resp, UserSvc: svc})

	body := `{"firstName":"Ana","lastName":"Paz","role":"admin"}`
	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
	req = withUID(req, "uid1")
	rr := httptest.NewRecorder()
	h.Register(rr, req)

	if !resp.handleErrorCalled {
		t.Fatal("expected HandleError on service error")
	}
}

func TestMe_OK(t *testing.T) {
	svc := &stubUserService{getUser: &models.User{UID: "uid1", Role: models.RoleSeller}}
	resp := &stubResponseHandler{}
	h := NewUserHandlers(&Deps{ResponseHandler: resp, UserSvc: svc})

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req = withUID(req, "uid1")
	rr := httptest.NewRecorder()
	h.Me(rr, req)

	if !resp.writeSuccessCalled || resp.writeSuccessStatus != http.StatusOK {
		t.Fatalf("expected WriteSuccess 200")
	}
	user, ok := resp.writeSuccessData.(*models.User)
	if !ok || user.UID != "uid1" {
		t.Fatalf("expected the resolved user, got %#v", resp.writeSuccessData)
	}
}

func TestMe_NotRegistered(t *testing.T) {
	svc := &stubUserService{getErr: errs.NewNotFoundError("user not found")}
	resp := &stubResponseHandler{}
	h := NewUserHandlers(&Deps{ResponseHandler: resp, UserSvc: svc})

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req = withUID(req, "uid1")
	rr := httptest.NewRecorder()
	h.Me(rr, req)

	if !resp.handleErrorCalled {
		t.Fatal("expected HandleError when the profile does not exist")
	}
}
