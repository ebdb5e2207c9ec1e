package identity

import (
	"context"
	"errors"
	"time"

	"github.com/bizledger/backend/internal/domain/company"
	"github.com/bizledger/backend/internal/domain/identity"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrCompanySuspended = shared.NewDomainError("UNAUTHORIZED", "Company account is suspended")
	ErrTokenRevoked     = shared.NewDomainError("UNAUTHORIZED", "Token has been revoked")
)

// AuthService handles sign-in, token rotation and password changes
type AuthService struct {
	userRepo    identity.UserRepository
	companyRepo company.Repository
	jwtService  *auth.JWTService
	blacklist   *auth.TokenBlacklist
	logger      *zap.Logger
	now         func() time.Time
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	companyRepo company.Repository,
	jwtService *auth.JWTService,
	blacklist *auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		companyRepo: companyRepo,
		jwtService:  jwtService,
		blacklist:   blacklist,
		logger:      logger,
		now:         time.Now,
	}
}

// Login authenticates a user and returns tokens
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Login attempt for unknown email", zap.String("ip", input.IP))
			return nil, identity.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := user.Authenticate(input.Password); err != nil {
		s.logger.Warn("Login rejected",
			zap.String("user_id", user.ID.String()),
			zap.String("ip", input.IP),
			zap.Error(err))
		return nil, err
	}
	if err := s.ensureCompanyActive(ctx, user.CompanyID); err != nil {
		return nil, err
	}

	pair, err := s.jwtService.GenerateTokenPair(tokenInputFor(user))
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	user.RecordLogin(s.now())
	if err := s.userRepo.Save(ctx, user); err != nil {
		// the tokens are valid either way
		s.logger.Error("Failed to record login", zap.String("user_id", user.ID.String()), zap.Error(err))
	}

	s.logger.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("company_id", user.CompanyID.String()))

	return &LoginResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
		User:                  toUserInfo(user),
	}, nil
}

// RefreshToken exchanges a refresh token for a new pair. The presented refresh
// token is revoked, so each one can be used once.
func (s *AuthService) RefreshToken(ctx context.Context, input RefreshTokenInput) (*RefreshTokenResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		s.logger.Warn("Refresh token validation failed", zap.Error(err))
		return nil, tokenError(err)
	}
	if err := s.blacklist.Check(ctx, claims); err != nil {
		if errors.Is(err, auth.ErrTokenBlacklisted) {
			return nil, ErrTokenRevoked
		}
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserUUID())
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("UNAUTHORIZED", "User no longer exists")
		}
		return nil, err
	}
	if !user.IsActive() {
		return nil, identity.ErrUserInactive
	}
	if err := s.ensureCompanyActive(ctx, user.CompanyID); err != nil {
		return nil, err
	}

	pair, err := s.jwtService.RotateTokenPair(claims, tokenInputFor(user))
	if err != nil {
		s.logger.Warn("Token rotation refused", zap.String("user_id", user.ID.String()), zap.Error(err))
		return nil, tokenError(err)
	}
	if err := s.blacklist.Revoke(ctx, claims); err != nil {
		s.logger.Error("Failed to revoke used refresh token", zap.Error(err))
	}

	return &RefreshTokenResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
	}, nil
}

// Logout revokes the access token and, when supplied, the refresh token
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	if input.Claims == nil {
		return shared.ErrUnauthorized
	}
	if err := s.blacklist.Revoke(ctx, input.Claims); err != nil {
		return err
	}
	if input.RefreshToken != "" {
		refresh, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
		if err == nil && refresh.UserID == input.Claims.UserID {
			if err := s.blacklist.Revoke(ctx, refresh); err != nil {
				return err
			}
		}
	}
	s.logger.Info("User logged out", zap.String("user_id", input.Claims.UserID))
	return nil
}

// GetCurrentUser returns the profile of the signed-in user
func (s *AuthService) GetCurrentUser(ctx context.Context, companyID, userID uuid.UUID) (*UserInfo, error) {
	user, err := s.userRepo.FindByIDForCompany(ctx, companyID, userID)
	if err != nil {
		return nil, err
	}
	info := toUserInfo(user)
	return &info, nil
}

// ChangePassword replaces the password and invalidates every token issued before now
func (s *AuthService) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	user, err := s.userRepo.FindByIDForCompany(ctx, input.CompanyID, input.UserID)
	if err != nil {
		return err
	}
	if err := user.ChangePassword(input.CurrentPassword, input.NewPassword); err != nil {
		return err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}
	if err := s.blacklist.AddUserTokensToBlacklist(ctx, user.ID.String(), s.jwtService.RefreshTokenExpiration()); err != nil {
		s.logger.Error("Failed to invalidate tokens after password change", zap.Error(err))
	}
	s.logger.Info("Password changed", zap.String("user_id", user.ID.String()))
	return nil
}

func (s *AuthService) ensureCompanyActive(ctx context.Context, companyID uuid.UUID) error {
	c, err := s.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		return err
	}
	if !c.Active {
		return ErrCompanySuspended
	}
	return nil
}

func tokenInputFor(u *identity.User) auth.GenerateTokenInput {
	return auth.GenerateTokenInput{
		CompanyID: u.CompanyID,
		UserID:    u.ID,
		Email:     u.Email,
		Role:      u.Role.String(),
	}
}

func tokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return shared.NewDomainError("UNAUTHORIZED", "Token has expired")
	case errors.Is(err, auth.ErrMaxRefreshExceeded):
		return shared.NewDomainError("UNAUTHORIZED", "Maximum token refresh count exceeded. Please log in again")
	default:
		return shared.NewDomainError("UNAUTHORIZED", "Invalid token")
	}
}
