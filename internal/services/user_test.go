package services

import (
	"context"
	"testing"

	"github.com/felipeboubee/agro-marketplace-sub001/internal/dto"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/errs"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/models"
)

type userFakeStore struct {
	created *models.User
	err     error
}

func (f *userFakeStore) CreateUser(ctx context.Context, user *models.User) error {
	f.created = user
	return f.err
}

func (f *userFakeStore) GetUser(ctx context.Context, uid string) (*models.User, error) {
	if f.created != nil && f.created.UID == uid {
		return f.created, nil
	}
	return nil, errs.NewNotFoundError("user not found")
}

func TestRegisterValidatesRole(t *testing.T) {
	store := &userFakeStore{}
	svc := NewUserService(store)

	err := svc.Register(testCtx(), "uid-1", "a@b.com", dto.RegisterInput{FirstName: "Ana", LastName: "Paz", Role: "admin"})
	if _, ok := err.(*errs.ValidationError); !ok {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if store.created != nil {
		t.Fatalf("no user should be created for a bad role")
	}
}

func TestRegisterBankRequiresBankID(t *testing.T) {
	store := &userFakeStore{}
	svc := NewUserService(store)

	err := svc.Register(testCtx(), "uid-1", "a@b.com", dto.RegisterInput{FirstName: "Ana", LastName: "Paz", Role: models.RoleBank})
	if _, ok := err.(*errs.ValidationError); !ok {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	err = svc.Register(testCtx(), "uid-1", "a@b.com", dto.RegisterInput{FirstName: "Ana", LastName: "Paz", Role: models.RoleBank, BankID: "bank-1"})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if store.created.BankID != "bank-1" {
		t.Fatalf("BankID = %q, want bank-1", store.created.BankID)
	}
}

func TestRegisterPersistsProfile(t *testing.T) {
	store := &userFakeStore{}
	svc := NewUserService(store)

	if err := svc.Register(testCtx(), "uid-1", "a@b.com", dto.RegisterInput{FirstName: "Ana", LastName: "Paz", Role: models.RoleSeller}); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	u := store.created
	if u.UID != "uid-1" || u.Email != "a@b.com" || u.Role != models.RoleSeller {
		t.Fatalf("unexpected user: %+v", u)
	}

	got, err := svc.Get(testCtx(), "uid-1")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got != u {
		t.Fatalf("Get returned a different user")
	}
}
