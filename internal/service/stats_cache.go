package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/aula-go-api/internal/dto"
)

// StatsCache keeps student statistics in Redis so the dashboard read path
// stays cheap. The cache is optional: a nil client disables it. Writers that
// mutate grades must invalidate the affected student so no stale derived
// value is ever served past a mutation.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewStatsCache constructs the cache wrapper.
func NewStatsCache(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *StatsCache {
	return &StatsCache{
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("component", "stats_cache").Logger(),
	}
}

func studentStatsKey(studentID string) string {
	return fmt.Sprintf("stats:student:%s", studentID)
}

// GetStudentStats returns the cached stats for the student, when present.
func (c *StatsCache) GetStudentStats(ctx context.Context, studentID string) (dto.StudentStatsResponse, bool) {
	if c == nil || c.client == nil {
		return dto.StudentStatsResponse{}, false
	}

	cached, err := c.client.Get(ctx, studentStatsKey(studentID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn().Err(err).Msg("failed to read student stats cache")
		}
		return dto.StudentStatsResponse{}, false
	}

	var stats dto.StudentStatsResponse
	if err := json.Unmarshal([]byte(cached), &stats); err != nil {
		return dto.StudentStatsResponse{}, false
	}

	return stats, true
}

// SetStudentStats stores the stats for the student with the configured TTL.
func (c *StatsCache) SetStudentStats(ctx context.Context, studentID string, stats dto.StudentStatsResponse) {
	if c == nil || c.client == nil {
		return
	}

	payload, err := json.Marshal(stats)
	if err != nil {
		return
	}

	if err := c.client.Set(ctx, studentStatsKey(studentID), payload, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Msg("failed to store student stats cache")
	}
}

// InvalidateStudent drops the cached stats for the student.
func (c *StatsCache) InvalidateStudent(ctx context.Context, studentID string) {
	if c == nil || c.client == nil {
		return
	}

	if err := c.client.Del(ctx, studentStatsKey(studentID)).Err(); err != nil {
		c.logger.Warn().Err(err).Str("student_id", studentID).Msg("failed to invalidate student stats cache")
	}
}
