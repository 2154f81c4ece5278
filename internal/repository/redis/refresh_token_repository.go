package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"behaviorOpt/domain"

	"github.com/redis/go-redis/v9"
)

// RefreshTokenRepository keeps the single live refresh token of each user.
type RefreshTokenRepository struct {
	client *redis.Client
}

func NewRefreshTokenRepository(client *redis.Client) *RefreshTokenRepository {
	return &RefreshTokenRepository{
		client: client,
	}
}

func refreshTokenKey(userID string) string {
	// key format: "refresh_token:{user_id}"
	return fmt.Sprintf("refresh_token:%s", userID)
}

// Store replaces any refresh token previously issued to userID.
func (r *RefreshTokenRepository) Store(ctx context.Context, userID, token string, ttl time.Duration) error {
	if err := r.client.Set(ctx, refreshTokenKey(userID), token, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store refresh token in Redis: %w", err)
	}

	return nil
}

func (r *RefreshTokenRepository) Get(ctx context.Context, userID string) (string, error) {
	val, err := r.client.Get(ctx, refreshTokenKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrRefreshTokenNotFound
		}
		return "", fmt.Errorf("failed to get refresh token from Redis: %w", err)
	}

	return val, nil
}

func (r *RefreshTokenRepository) Delete(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, refreshTokenKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}

	return nil
}
