package auth

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/bizledger/backend/internal/infrastructure/cache"
)

const blacklistPrefix = "token:blacklist:"

// TokenBlacklist revokes tokens before they expire. It lives in the shared
// cache, so revocations are visible to every instance when the cache is Redis.
type TokenBlacklist struct {
	cache cache.Cache
	now   func() time.Time
}

// NewTokenBlacklist creates a blacklist backed by c
func NewTokenBlacklist(c cache.Cache) *TokenBlacklist {
	return &TokenBlacklist{cache: c, now: time.Now}
}

func jtiKey(jti string) string     { return blacklistPrefix + "jti:" + jti }
func userKey(userID string) string { return blacklistPrefix + "user:" + userID }

// Revoke blacklists the token's jti until the token would have expired anyway.
func (b *TokenBlacklist) Revoke(ctx context.Context, claims *Claims) error {
	ttl := claims.RemainingTTL()
	if ttl <= 0 || claims.ID == "" {
		return nil
	}
	return b.AddToBlacklist(ctx, claims.ID, ttl)
}

// AddToBlacklist blacklists a jti for ttl
func (b *TokenBlacklist) AddToBlacklist(ctx context.Context, jti string, ttl time.Duration) error {
	if err := b.cache.Set(ctx, jtiKey(jti), []byte("1"), ttl); err != nil {
		return fmt.Errorf("failed to add token to blacklist: %w", err)
	}
	return nil
}

// IsBlacklisted reports whether jti has been revoked
func (b *TokenBlacklist) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	_, ok, err := b.cache.Get(ctx, jtiKey(jti))
	if err != nil {
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	return ok, nil
}

// AddUserTokensToBlacklist invalidates every token the user holds that was
// issued before now. ttl should cover the refresh token lifetime.
func (b *TokenBlacklist) AddUserTokensToBlacklist(ctx context.Context, userID string, ttl time.Duration) error {
	at := strconv.FormatInt(b.now().Unix(), 10)
	if err := b.cache.Set(ctx, userKey(userID), []byte(at), ttl); err != nil {
		return fmt.Errorf("failed to invalidate user tokens: %w", err)
	}
	return nil
}

// IsUserTokenInvalidated reports whether a token issued at issuedAt predates
// the user's last invalidation. iat has second resolution, so a token issued
// in the same second as the invalidation stays valid; that lets the user log
// straight back in after a password change.
func (b *TokenBlacklist) IsUserTokenInvalidated(ctx context.Context, userID string, issuedAt time.Time) (bool, error) {
	raw, ok, err := b.cache.Get(ctx, userKey(userID))
	if err != nil {
		return false, fmt.Errorf("failed to check user token invalidation: %w", err)
	}
	if !ok {
		return false, nil
	}
	invalidatedAt, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return false, fmt.Errorf("failed to parse invalidation timestamp: %w", err)
	}
	return issuedAt.Unix() < invalidatedAt, nil
}

// Check returns ErrTokenBlacklisted when claims belong to a revoked token.
func (b *TokenBlacklist) Check(ctx context.Context, claims *Claims) error {
	revoked, err := b.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		return err
	}
	if revoked {
		return ErrTokenBlacklisted
	}
	invalidated, err := b.IsUserTokenInvalidated(ctx, claims.UserID, claims.IssuedAtTime())
	if err != nil {
		return err
	}
	if invalidated {
		return ErrTokenBlacklisted
	}
	return nil
}
