package redis

import (
	"context"
	"fmt"
	"time"

	"behaviorOpt/domain"

	"github.com/redis/go-redis/v9"
)

type ExposureRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewExposureRepository keeps each day's exposure set for ttl, which must
// outlive the day it covers.
func NewExposureRepository(client *redis.Client, ttl time.Duration) *ExposureRepository {
	return &ExposureRepository{
		client: client,
		ttl:    ttl,
	}
}

func exposureKey(experimentID, variantID string, date time.Time) string {
	// key format: "exposure:{experiment_id}:{variant_id}:{yyyy-mm-dd}"
	return fmt.Sprintf("exposure:%s:%s:%s", experimentID, variantID, domain.DayOf(date).Format(domain.DateLayout))
}

// MarkExposed adds userID to the day's exposure set and reports whether this
// was the user's first exposure to the variant that day.
func (r *ExposureRepository) MarkExposed(ctx context.Context, experimentID, variantID string, date time.Time, userID string) (bool, error) {
	key := exposureKey(experimentID, variantID, date)

	var added *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		added = pipe.SAdd(ctx, key, userID)
		pipe.Expire(ctx, key, r.ttl)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to record exposure in Redis: %w", err)
	}

	return added.Val() == 1, nil
}

// CountExposed returns the number of distinct users exposed to the variant on date.
func (r *ExposureRepository) CountExposed(ctx context.Context, experimentID, variantID string, date time.Time) (int64, error) {
	n, err := r.client.SCard(ctx, exposureKey(experimentID, variantID, date)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count exposures: %w", err)
	}

	return n, nil
}
