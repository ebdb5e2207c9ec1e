package identity

import (
	"context"
	"time"

	"github.com/bizledger/backend/internal/domain/identity"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TokenRevoker invalidates every token a user holds
type TokenRevoker interface {
	AddUserTokensToBlacklist(ctx context.Context, userID string, ttl time.Duration) error
}

// Actor is the authenticated user performing a management operation
type Actor struct {
	UserID uuid.UUID
	Role   identity.Role
}

var (
	ErrEmailTaken        = shared.NewDomainError("ALREADY_EXISTS", "Email is already registered")
	ErrCannotModifySelf  = shared.NewDomainError("INVALID_STATE", "You cannot change your own role or remove yourself")
	ErrOutrankedByTarget = shared.NewDomainError("FORBIDDEN", "Cannot manage a user with a higher role")
)

// UserService manages the users of a company
type UserService struct {
	userRepo identity.UserRepository
	revoker  TokenRevoker
	tokenTTL time.Duration
	logger   *zap.Logger
}

// NewUserService creates a new UserService. tokenTTL should cover the refresh token lifetime.
func NewUserService(userRepo identity.UserRepository, revoker TokenRevoker, tokenTTL time.Duration, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		revoker:  revoker,
		tokenTTL: tokenTTL,
		logger:   logger,
	}
}

// List returns a page of the company's users
func (s *UserService) List(ctx context.Context, companyID uuid.UUID, filter UserListFilter) ([]UserResponse, int64, error) {
	domainFilter := identity.UserFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
			Search:   filter.Search,
		},
		Active: filter.Active,
	}
	if filter.Role != "" {
		role, err := identity.ParseRole(filter.Role)
		if err != nil {
			return nil, 0, err
		}
		domainFilter.Role = &role
	}

	users, total, err := s.userRepo.FindAllForCompany(ctx, companyID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToUserResponses(users), total, nil
}

// GetByID returns one user of the company
func (s *UserService) GetByID(ctx context.Context, companyID, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByIDForCompany(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// Create adds a user. The actor cannot grant a role above their own.
func (s *UserService) Create(ctx context.Context, companyID uuid.UUID, actor Actor, req CreateUserRequest) (*UserResponse, error) {
	role, err := identity.ParseRole(req.Role)
	if err != nil {
		return nil, err
	}
	if !actor.Role.CanAssign(role) {
		return nil, identity.ErrRoleNotAssignable
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	user, err := identity.NewUser(companyID, req.Email, req.Name, req.Password, role)
	if err != nil {
		return nil, err
	}
	user.CreatedBy = &actor.UserID
	user.SetUpdatedBy(actor.UserID)

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("role", user.Role.String()),
		zap.String("created_by", actor.UserID.String()))

	resp := ToUserResponse(user)
	return &resp, nil
}

// Update changes profile fields and the active flag. Deactivation revokes the user's tokens.
func (s *UserService) Update(ctx context.Context, companyID uuid.UUID, actor Actor, id uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByIDForCompany(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if !actor.Role.CanAssign(user.Role) {
		return nil, ErrOutrankedByTarget
	}

	if req.Name != nil || req.Email != nil {
		name, email := user.Name, user.Email
		if req.Name != nil {
			name = *req.Name
		}
		if req.Email != nil && *req.Email != user.Email {
			exists, err := s.userRepo.ExistsByEmail(ctx, *req.Email)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, ErrEmailTaken
			}
			email = *req.Email
		}
		if err := user.UpdateProfile(name, email); err != nil {
			return nil, err
		}
	}

	deactivated := false
	if req.IsActive != nil && *req.IsActive != user.Active {
		if id == actor.UserID {
			return nil, ErrCannotModifySelf
		}
		if *req.IsActive {
			user.Activate()
		} else {
			user.Deactivate()
			deactivated = true
		}
	}
	user.SetUpdatedBy(actor.UserID)

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	if deactivated {
		s.revoke(ctx, user.ID)
	}

	resp := ToUserResponse(user)
	return &resp, nil
}

// ChangeRole assigns a new role. Existing tokens are revoked so the new role applies at next sign-in.
func (s *UserService) ChangeRole(ctx context.Context, companyID uuid.UUID, actor Actor, id uuid.UUID, req ChangeRoleRequest) (*UserResponse, error) {
	if id == actor.UserID {
		return nil, ErrCannotModifySelf
	}
	role, err := identity.ParseRole(req.Role)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByIDForCompany(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if !actor.Role.CanAssign(user.Role) {
		return nil, ErrOutrankedByTarget
	}
	if err := user.ChangeRole(actor.Role, role); err != nil {
		return nil, err
	}
	user.SetUpdatedBy(actor.UserID)

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	s.revoke(ctx, user.ID)

	s.logger.Info("User role changed",
		zap.String("user_id", user.ID.String()),
		zap.String("role", role.String()),
		zap.String("changed_by", actor.UserID.String()))

	resp := ToUserResponse(user)
	return &resp, nil
}

// Delete removes a user from the company
func (s *UserService) Delete(ctx context.Context, companyID uuid.UUID, actor Actor, id uuid.UUID) error {
	if id == actor.UserID {
		return ErrCannotModifySelf
	}
	user, err := s.userRepo.FindByIDForCompany(ctx, companyID, id)
	if err != nil {
		return err
	}
	if !actor.Role.CanAssign(user.Role) {
		return ErrOutrankedByTarget
	}
	if err := s.userRepo.DeleteForCompany(ctx, companyID, id); err != nil {
		return err
	}
	s.revoke(ctx, id)
	return nil
}

func (s *UserService) revoke(ctx context.Context, userID uuid.UUID) {
	if s.revoker == nil {
		return
	}
	if err := s.revoker.AddUserTokensToBlacklist(ctx, userID.String(), s.tokenTTL); err != nil {
		s.logger.Error("Failed to revoke user tokens", zap.String("user_id", userID.String()), zap.Error(err))
	}
}
