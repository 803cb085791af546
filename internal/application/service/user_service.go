package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/invex-billing/internal/domain/entity"
	"github.com/sangkips/invex-billing/internal/domain/repository"
	"github.com/sangkips/invex-billing/pkg/apperror"
	"github.com/sangkips/invex-billing/pkg/pagination"
	"go.uber.org/zap"
)

// UserService handles staff management
type UserService struct {
	userRepo repository.UserRepository
	roleRepo repository.RoleRepository
	log      *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository, roleRepo repository.RoleRepository, log *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		roleRepo: roleRepo,
		log:      log.Named("users"),
	}
}

// ListUsers returns a paginated list of users with their roles
func (s *UserService) ListUsers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.User], error) {
	users, total, err := s.userRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(users, pag), nil
}

// GetUser returns a user by ID with roles and permissions
func (s *UserService) GetUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetWithRoles(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}
	return user, nil
}

// SetUserRole makes roleName the only role of a user. Admins cannot demote
// themselves.
func (s *UserService) SetUserRole(ctx context.Context, actorID, userID uuid.UUID, roleName string) (*entity.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	role, err := s.roleRepo.GetByName(ctx, roleName)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, apperror.NewNotFoundError("Role")
	}

	if actorID == userID && user.HasRole(entity.RoleAdmin) && role.Name != entity.RoleAdmin {
		return nil, apperror.NewUnprocessableError("You cannot remove your own admin role")
	}

	for _, current := range user.Roles {
		if current.ID == role.ID {
			continue
		}
		if err := s.userRepo.RemoveRole(ctx, userID, current.ID); err != nil {
			return nil, err
		}
	}
	if err := s.userRepo.AssignRole(ctx, userID, role.ID); err != nil {
		return nil, err
	}

	s.log.Info("user role changed",
		zap.String("actor_id", actorID.String()),
		zap.String("user_id", userID.String()),
		zap.String("role", role.Name),
	)
	return s.GetUser(ctx, userID)
}

// ListRoles returns all available roles
func (s *UserService) ListRoles(ctx context.Context) ([]entity.Role, error) {
	return s.roleRepo.List(ctx)
}
