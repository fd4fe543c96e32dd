package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"kelana.id/travelapp/internal/modules/admin/dto"
	userRepo "kelana.id/travelapp/internal/modules/user/repository"
	"kelana.id/travelapp/pkg/apperror"
	commonDto "kelana.id/travelapp/pkg/dto"
)

type AdminService interface {
	GetAllUsers(ctx context.Context, page, limit int) (*dto.PaginatedUsersResponse, error)
	DeleteUser(ctx context.Context, actorID, targetID uuid.UUID) error
}

type adminService struct {
	users userRepo.UserRepository
}

func NewAdminService(users userRepo.UserRepository) AdminService {
	return &adminService{users: users}
}

func (s *adminService) GetAllUsers(ctx context.Context, page, limit int) (*dto.PaginatedUsersResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	users, total, err := s.users.FindAll(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return &dto.PaginatedUsersResponse{
		Data: users,
		Meta: commonDto.NewPaginationMeta(page, limit, total),
	}, nil
}

func (s *adminService) DeleteUser(ctx context.Context, actorID, targetID uuid.UUID) error {
	if actorID == targetID {
		return fmt.Errorf("admins cannot delete their own account: %w", apperror.ErrBadRequest)
	}

	if _, err := s.users.FindByID(ctx, targetID.String()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user not found: %w", apperror.ErrNotFound)
		}
		return err
	}

	return s.users.Delete(ctx, targetID.String())
}
