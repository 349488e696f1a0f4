package services

import (
	"context"

	"github.com/felipeboubee/agro-marketplace-sub001/internal/dto"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/errs"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/models"
	"github.com/felipeboubee/agro-marketplace-sub001/pkg/logger"
)

type userUSStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, uid string) (*models.User, error)
}

type userService struct {
	users userUSStore
}

func NewUserService(users userUSStore) *userService {
	return &userService{users: users}
}

func (s *userService) Register(ctx context.Context, uid, email string, in dto.RegisterInput) error {
	switch in.Role {
	case models.RoleBuyer, models.RoleSeller:
	case models.RoleBank:
		if in.BankID == "" {
			return errs.NewValidationError("bankId is required for banco users")
		}
	default:
		return errs.NewValidationError("role must be comprador, vendedor or banco")
	}

	err := s.users.CreateUser(ctx, &models.User{
		UID:       uid,
		Email:     email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Role:      in.Role,
		BankID:    in.BankID,
	})
	if err != nil {
		return err
	}

	log := logger.FromContext(ctx)
	log.Info("user registered", "role", in.Role)
	return nil
}

func (s *userService) Get(ctx context.Context, uid string) (*models.User, error) {
	return s.users.GetUser(ctx, uid)
}
