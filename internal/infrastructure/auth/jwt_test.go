package auth

import (
	"testing"
	"time"

	"github.com/bizledger/backend/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "bizledger-test",
		MaxRefreshCount:        3,
	}
}

func newTestJWTService() *JWTService {
	return NewJWTService(testJWTConfig())
}

func newTestInput() GenerateTokenInput {
	return GenerateTokenInput{
		CompanyID: uuid.New(),
		UserID:    uuid.New(),
		Email:     "owner@acme.test",
		Role:      "accountant",
	}
}

func TestNewJWTService_RefreshSecretDefaultsToAccessSecret(t *testing.T) {
	cfg := testJWTConfig()
	cfg.RefreshSecret = ""
	svc := NewJWTService(cfg)
	assert.Equal(t, svc.accessSecret, svc.refreshSecret)
	assert.Equal(t, 15*time.Minute, svc.AccessTokenExpiration())
	assert.Equal(t, 7*24*time.Hour, svc.RefreshTokenExpiration())
}

func TestGenerateTokenPair(t *testing.T) {
	svc := newTestJWTService()
	in := newTestInput()

	pair, err := svc.GenerateTokenPair(in)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), pair.AccessTokenExpiresAt, 5*time.Second)

	access, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, in.CompanyID, access.CompanyUUID())
	assert.Equal(t, in.UserID, access.UserUUID())
	assert.Equal(t, in.Email, access.Email)
	assert.Equal(t, "accountant", access.Role)
	assert.NotEmpty(t, access.ID)
	assert.InDelta(t, (15 * time.Minute).Seconds(), access.RemainingTTL().Seconds(), 5)

	refresh, err := svc.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Empty(t, refresh.Role, "refresh tokens do not carry the role")
	assert.Zero(t, refresh.RefreshCount)
	assert.NotEqual(t, access.ID, refresh.ID)
}

func TestValidateToken_Rejections(t *testing.T) {
	svc := newTestJWTService()
	pair, err := svc.GenerateTokenPair(newTestInput())
	require.NoError(t, err)

	other := testJWTConfig()
	other.Secret = "another-secret-key-at-least-32-chars"
	foreign, err := NewJWTService(other).GenerateTokenPair(newTestInput())
	require.NoError(t, err)

	expiredCfg := testJWTConfig()
	expiredCfg.AccessTokenExpiration = -time.Minute
	expired, err := NewJWTService(expiredCfg).GenerateTokenPair(newTestInput())
	require.NoError(t, err)

	otherIssuer := testJWTConfig()
	otherIssuer.Issuer = "someone-else"
	wrongIssuer, err := NewJWTService(otherIssuer).GenerateTokenPair(newTestInput())
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		refresh bool
		wantErr error
	}{
		{"garbage", "not.a.token", false, ErrInvalidToken},
		{"wrong secret", foreign.AccessToken, false, ErrInvalidToken},
		{"expired", expired.AccessToken, false, ErrExpiredToken},
		{"wrong issuer", wrongIssuer.AccessToken, false, ErrInvalidToken},
		{"refresh used as access", pair.RefreshToken, false, ErrInvalidToken},
		{"access used as refresh", pair.AccessToken, true, ErrInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validate := svc.ValidateAccessToken
			if tt.refresh {
				validate = svc.ValidateRefreshToken
			}
			_, err := validate(tt.token)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateToken_TypeAndRequiredClaims(t *testing.T) {
	svc := newTestJWTService()
	now := time.Now()
	base := svc.registered(uuid.New(), now, now.Add(time.Minute))

	tests := []struct {
		name    string
		claims  *Claims
		wantErr error
	}{
		{"refresh type signed with access secret", &Claims{RegisteredClaims: base, CompanyID: uuid.NewString(), UserID: uuid.NewString(), TokenType: TokenTypeRefresh}, ErrInvalidTokenType},
		{"missing company", &Claims{RegisteredClaims: base, UserID: uuid.NewString(), TokenType: TokenTypeAccess}, ErrMissingCompanyID},
		{"missing user", &Claims{RegisteredClaims: base, CompanyID: uuid.NewString(), TokenType: TokenTypeAccess}, ErrMissingUserID},
		{"malformed company", &Claims{RegisteredClaims: base, CompanyID: "acme", UserID: uuid.NewString(), TokenType: TokenTypeAccess}, ErrInvalidClaims},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := sign(tt.claims, svc.accessSecret)
			require.NoError(t, err)
			_, err = svc.ValidateAccessToken(token)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateToken_RejectsNonHMAC(t *testing.T) {
	svc := newTestJWTService()
	claims := &Claims{RegisteredClaims: svc.registered(uuid.New(), time.Now(), time.Now().Add(time.Minute))}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRotateTokenPair(t *testing.T) {
	svc := newTestJWTService()
	in := newTestInput()
	pair, err := svc.GenerateTokenPair(in)
	require.NoError(t, err)

	t.Run("increments the refresh count and picks up the current role", func(t *testing.T) {
		refresh, err := svc.ValidateRefreshToken(pair.RefreshToken)
		require.NoError(t, err)

		promoted := in
		promoted.Role = "admin"
		next, err := svc.RotateTokenPair(refresh, promoted)
		require.NoError(t, err)

		access, err := svc.ValidateAccessToken(next.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "admin", access.Role)

		nextRefresh, err := svc.ValidateRefreshToken(next.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, 1, nextRefresh.RefreshCount)
	})

	t.Run("stops at the configured maximum", func(t *testing.T) {
		refresh, err := svc.ValidateRefreshToken(pair.RefreshToken)
		require.NoError(t, err)
		for i := 0; i < 3; i++ {
			next, err := svc.RotateTokenPair(refresh, in)
			require.NoError(t, err)
			refresh, err = svc.ValidateRefreshToken(next.RefreshToken)
			require.NoError(t, err)
		}
		_, err = svc.RotateTokenPair(refresh, in)
		assert.ErrorIs(t, err, ErrMaxRefreshExceeded)
	})

	t.Run("rejects a different principal", func(t *testing.T) {
		refresh, err := svc.ValidateRefreshToken(pair.RefreshToken)
		require.NoError(t, err)
		_, err = svc.RotateTokenPair(refresh, newTestInput())
		assert.ErrorIs(t, err, ErrInvalidClaims)
	})

	t.Run("rejects access claims", func(t *testing.T) {
		access, err := svc.ValidateAccessToken(pair.AccessToken)
		require.NoError(t, err)
		_, err = svc.RotateTokenPair(access, in)
		assert.ErrorIs(t, err, ErrInvalidTokenType)
	})
}

func TestClaims_TimeHelpers(t *testing.T) {
	var c Claims
	assert.True(t, c.IssuedAtTime().IsZero())
	assert.Zero(t, c.RemainingTTL())

	c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	assert.Zero(t, c.RemainingTTL(), "never negative")
}
