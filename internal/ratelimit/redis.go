package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"jobboard-backend/internal/shared/telemetry"
)

// RedisLedger is a Ledger backed by Redis counters with TTLs matching the
// rolling windows, for multi-process deployments where a per-process map
// would undercount. Infrastructure errors fail open: the check degrades to
// "allow with zero counts" and the error is logged.
type RedisLedger struct {
	Client *redis.Client
	// Prefix namespaces the ledger keys; defaults to "notify:rl".
	Prefix string
}

// NewRedisClient creates a Redis client and verifies connectivity.
func NewRedisClient(addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return client, nil
}

func (l *RedisLedger) prefix() string {
	if l.Prefix != "" {
		return l.Prefix
	}
	return "notify:rl"
}

func (l *RedisLedger) keys(userID string) [5]string {
	p := l.prefix()
	return [5]string{
		fmt.Sprintf("%s:%s:total:1h", p, userID),
		fmt.Sprintf("%s:%s:total:24h", p, userID),
		fmt.Sprintf("%s:%s:status:1h", p, userID),
		fmt.Sprintf("%s:%s:jobalert:1h", p, userID),
		fmt.Sprintf("%s:%s:jobalert:24h", p, userID),
	}
}

func (l *RedisLedger) Check(ctx context.Context, userID, category, eventType string) CheckResult {
	if userID == "" {
		return CheckResult{ShouldAllow: true}
	}
	counts := l.Snapshot(ctx, userID)
	reason := exceededReason(counts, eventType)
	if reason == "" {
		return CheckResult{ShouldAllow: true}
	}
	snapshot := counts
	return CheckResult{ShouldAllow: true, Reason: reason, Counts: &snapshot}
}

func (l *RedisLedger) Record(ctx context.Context, userID, category, eventType string) error {
	if userID == "" {
		return nil
	}
	keys := l.keys(userID)
	type incr struct {
		key string
		ttl time.Duration
	}
	increments := []incr{
		{keys[0], time.Hour},
		{keys[1], 24 * time.Hour},
	}
	if isStatusEmail(eventType) {
		increments = append(increments, incr{keys[2], time.Hour})
	}
	if isJobAlert(eventType) {
		increments = append(increments, incr{keys[3], time.Hour}, incr{keys[4], 24 * time.Hour})
	}

	pipe := l.Client.TxPipeline()
	for _, inc := range increments {
		pipe.Incr(ctx, inc.key)
		// NX: the window starts at the first send and is never extended.
		pipe.ExpireNX(ctx, inc.key, inc.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		telemetry.Error("ratelimit.redis.record", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
		return err
	}
	return nil
}

func (l *RedisLedger) Snapshot(ctx context.Context, userID string) Counts {
	if userID == "" {
		return Counts{}
	}
	keys := l.keys(userID)
	vals, err := l.Client.MGet(ctx, keys[0], keys[1], keys[2], keys[3], keys[4]).Result()
	if err != nil {
		telemetry.Error("ratelimit.redis.snapshot", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
		return Counts{}
	}
	nums := [5]int{}
	for i, v := range vals {
		if i >= len(nums) {
			break
		}
		if raw, ok := v.(string); ok {
			if n, err := strconv.Atoi(raw); err == nil {
				nums[i] = n
			}
		}
	}
	return Counts{
		TotalHourly:    nums[0],
		TotalDaily:     nums[1],
		StatusHourly:   nums[2],
		JobAlertHourly: nums[3],
		JobAlertDaily:  nums[4],
	}
}

func (l *RedisLedger) Reset(ctx context.Context, userID string) error {
	keys := l.keys(userID)
	return l.Client.Del(ctx, keys[0], keys[1], keys[2], keys[3], keys[4]).Err()
}

var _ Ledger = (*RedisLedger)(nil)
