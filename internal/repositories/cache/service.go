package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"disputekit/internal/models"

	"github.com/redis/go-redis/v9"
)

type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	return &CacheService{
		client: client,
		ttl:    defaultTTL,
	}
}

// Base operations
func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	return s.SetWithTTL(ctx, key, value, s.ttl)
}

func (s *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

func (s *CacheService) Close() error {
	return s.client.Close()
}

// Dispute list caching

func disputeListKey(userID uint) string {
	return fmt.Sprintf("disputes:user:%d", userID)
}

func (s *CacheService) CacheDisputeList(ctx context.Context, userID uint, disputes []models.Dispute) error {
	return s.Set(ctx, disputeListKey(userID), disputes)
}

func (s *CacheService) GetDisputeList(ctx context.Context, userID uint) ([]models.Dispute, bool, error) {
	var disputes []models.Dispute
	found, err := s.Get(ctx, disputeListKey(userID), &disputes)
	if err != nil || !found {
		return nil, false, err
	}
	return disputes, true, nil
}

// InvalidateDisputeList drops the cached listing after a sync or a
// submission changes the underlying rows.
func (s *CacheService) InvalidateDisputeList(ctx context.Context, userID uint) error {
	return s.Delete(ctx, disputeListKey(userID))
}

// OAuth state nonces

func oauthStateKey(userID uint) string {
	return fmt.Sprintf("oauth:state:%d", userID)
}

// SetOAuthState stores the connect flow's state nonce for the user. The
// TTL bounds how long an authorization round trip may take.
func (s *CacheService) SetOAuthState(ctx context.Context, userID uint, state string, ttl time.Duration) error {
	return s.client.Set(ctx, oauthStateKey(userID), state, ttl).Err()
}

// TakeOAuthState returns the stored nonce and deletes it, so a state
// value can be redeemed once.
func (s *CacheService) TakeOAuthState(ctx context.Context, userID uint) (string, error) {
	key := oauthStateKey(userID)
	state, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", err
	}
	_ = s.client.Del(ctx, key).Err()
	return state, nil
}
