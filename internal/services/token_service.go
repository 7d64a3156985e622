package services

import (
	"context"
	"fmt"
	"log"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"aura/internal/google"
	"aura/internal/models"
)

// TokenService resolves a usable Google access token for a user.
//
// Resolution order: stored unexpired token, then cached refreshed token, then
// a refresh-token exchange. Refreshed tokens are cached until shortly before
// expiry but never written back to the vault; the stored credential stays the
// source of truth for the refresh token. An empty result means the user has
// to reauthorize.
type TokenService struct {
	credentials *CredentialService
	google      *google.Client
	redis       *RedisService
	local       *gocache.Cache
}

// NewTokenService creates a token resolver. redis may be nil; an in-process
// cache covers single-instance deployments.
func NewTokenService(credentials *CredentialService, googleClient *google.Client, redis *RedisService) *TokenService {
	return &TokenService{
		credentials: credentials,
		google:      googleClient,
		redis:       redis,
		local:       gocache.New(30*time.Minute, 10*time.Minute),
	}
}

// ErrNoCredential is returned when resolution cannot produce a token.
// Adapters degrade to local-only behavior instead of failing the command.
var ErrNoCredential = fmt.Errorf("no usable google credential")

func tokenCacheKey(userID string) string {
	return "google:access_token:" + userID
}

// AccessToken returns a usable Google access token for the user, or
// ErrNoCredential when none can be resolved.
func (s *TokenService) AccessToken(ctx context.Context, userID string) (string, error) {
	if s.credentials == nil {
		return "", ErrNoCredential
	}

	var cred models.GoogleCredential
	if err := s.credentials.Get(ctx, userID, models.ProviderGoogle, &cred); err != nil {
		if err != ErrCredentialNotFound {
			log.Printf("⚠️  [TOKEN] Credential lookup failed for user %s: %v", userID, err)
		}
		return "", ErrNoCredential
	}

	if cred.AccessToken != "" && !cred.Expired() {
		s.countResolution("stored")
		return cred.AccessToken, nil
	}

	if token := s.cachedToken(ctx, userID); token != "" {
		s.countResolution("cached")
		return token, nil
	}

	if cred.RefreshToken == "" {
		s.countResolution("unavailable")
		return "", ErrNoCredential
	}

	refreshed, err := s.google.RefreshAccessToken(ctx, cred.RefreshToken)
	if err != nil {
		log.Printf("⚠️  [TOKEN] Refresh failed for user %s: %v", userID, err)
		s.countResolution("unavailable")
		return "", ErrNoCredential
	}

	s.cacheToken(ctx, userID, refreshed.AccessToken, refreshed.ExpiresIn)
	s.countResolution("refreshed")
	return refreshed.AccessToken, nil
}

func (s *TokenService) cachedToken(ctx context.Context, userID string) string {
	key := tokenCacheKey(userID)

	if s.redis != nil {
		token, err := s.redis.Get(ctx, key)
		if err == nil && token != "" {
			return token
		}
	}

	if v, ok := s.local.Get(key); ok {
		if token, ok := v.(string); ok {
			return token
		}
	}
	return ""
}

func (s *TokenService) cacheToken(ctx context.Context, userID, token string, expiresIn int) {
	if token == "" {
		return
	}

	// Cache for slightly less than the token lifetime
	ttl := time.Duration(expiresIn) * time.Second
	if ttl > time.Minute {
		ttl -= time.Minute
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	key := tokenCacheKey(userID)
	if s.redis != nil {
		if err := s.redis.Set(ctx, key, token, ttl); err != nil {
			log.Printf("⚠️  [TOKEN] Failed to cache token in Redis: %v", err)
		}
	}
	s.local.Set(key, token, ttl)
}

// Invalidate drops cached tokens for a user, forcing a fresh resolution
func (s *TokenService) Invalidate(ctx context.Context, userID string) {
	key := tokenCacheKey(userID)
	if s.redis != nil {
		if err := s.redis.Delete(ctx, key); err != nil {
			log.Printf("⚠️  [TOKEN] Failed to drop cached token: %v", err)
		}
	}
	s.local.Delete(key)
}

func (s *TokenService) countResolution(outcome string) {
	if m := GetMetrics(); m != nil {
		m.TokenResolutions.WithLabelValues(outcome).Inc()
	}
}
