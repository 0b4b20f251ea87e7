package service

import (
	"context"
	"encoding/json"
	"time"

	"rollbook/backend/internal/pkg/attendance"

	"github.com/redis/go-redis/v9"
)

const scheduleKeyPrefix = "schedule:"

// SessionSource loads the subject sessions scheduled on one work day.
type SessionSource interface {
	SessionsForDay(ctx context.Context, day string) ([]attendance.Session, error)
}

// ScheduleCache keeps per-day session lists in redis so badge scans do not
// hit postgres for the timetable on every event.
type ScheduleCache struct {
	client *redis.Client
	source SessionSource
	ttl    time.Duration
}

func NewScheduleCache(client *redis.Client, source SessionSource, ttl time.Duration) *ScheduleCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ScheduleCache{client: client, source: source, ttl: ttl}
}

func (s *ScheduleCache) SessionsForDay(ctx context.Context, day string) ([]attendance.Session, error) {
	key := scheduleKeyPrefix + day

	if s.client != nil {
		payload, err := s.client.Get(ctx, key).Result()
		if err == nil {
			var sessions []attendance.Session
			if err := json.Unmarshal([]byte(payload), &sessions); err == nil {
				return sessions, nil
			}
			// stale or corrupt payload, drop it and reload from the source
			s.client.Del(ctx, key)
		}
	}

	sessions, err := s.source.SessionsForDay(ctx, day)
	if err != nil {
		return nil, err
	}

	if s.client != nil {
		if payload, err := json.Marshal(sessions); err == nil {
			s.client.Set(ctx, key, payload, s.ttl)
		}
	}

	return sessions, nil
}

// Invalidate drops the cached sessions for one day. Called after subject edits.
func (s *ScheduleCache) Invalidate(ctx context.Context, day string) {
	if s.client == nil {
		return
	}
	s.client.Del(ctx, scheduleKeyPrefix+day)
}
