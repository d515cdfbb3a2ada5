package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimitService counts daily and monthly requests per API client in Redis
type RateLimitService struct {
	client *redis.Client
	now    func() time.Time
}

// NewRateLimitService connects to Redis and creates a new rate limit service
func NewRateLimitService(redisURL string) (*RateLimitService, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRateLimitServiceWithClient(client), nil
}

// NewRateLimitServiceWithClient creates a rate limit service over an existing client
func NewRateLimitServiceWithClient(client *redis.Client) *RateLimitService {
	return &RateLimitService{client: client, now: time.Now}
}

// RateLimitResult contains the result of a rate limit check
type RateLimitResult struct {
	Allowed        bool
	DailyUsed      int
	DailyLimit     int
	MonthlyUsed    int
	MonthlyLimit   int
	RetryAfterSecs int
}

// CheckAndIncrement checks if the request is within rate limits and increments counters
func (s *RateLimitService) CheckAndIncrement(ctx context.Context, clientID string, dailyLimit, monthlyLimit int) (*RateLimitResult, error) {
	now := s.now()
	dailyKey := fmt.Sprintf("ratelimit:daily:%s:%s", clientID, now.Format("2006-01-02"))
	monthlyKey := fmt.Sprintf("ratelimit:monthly:%s:%s", clientID, now.Format("2006-01"))

	dailyCount, err := s.client.Get(ctx, dailyKey).Int()
	if err != nil && err != redis.Nil {
		return nil, err
	}

	monthlyCount, err := s.client.Get(ctx, monthlyKey).Int()
	if err != nil && err != redis.Nil {
		return nil, err
	}

	result := &RateLimitResult{
		DailyUsed:    dailyCount,
		DailyLimit:   dailyLimit,
		MonthlyUsed:  monthlyCount,
		MonthlyLimit: monthlyLimit,
	}

	tomorrow := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
	nextMonth := time.Date(now.Year(), now.Month()+1, 1, 0, 0, 0, 0, now.Location())

	if dailyCount >= dailyLimit {
		result.RetryAfterSecs = int(tomorrow.Sub(now).Seconds())
		return result, nil
	}

	if monthlyCount >= monthlyLimit {
		result.RetryAfterSecs = int(nextMonth.Sub(now).Seconds())
		return result, nil
	}

	pipe := s.client.Pipeline()
	pipe.Incr(ctx, dailyKey)
	pipe.ExpireAt(ctx, dailyKey, tomorrow)
	pipe.Incr(ctx, monthlyKey)
	pipe.ExpireAt(ctx, monthlyKey, nextMonth)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	result.Allowed = true
	result.DailyUsed++
	result.MonthlyUsed++

	return result, nil
}

// Ping checks the Redis connection
func (s *RateLimitService) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (s *RateLimitService) Close() error {
	return s.client.Close()
}
