package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dtroode/gophcheck-server/internal/model"
)

const keyPrefix = "ratelimit:"

// Counters outlive their window by this much so a quiet key eventually disappears.
const staleAfter = 24 * time.Hour

// The whole bump runs inside one script, so Redis executes it without interleaving.
// lock_until = 0 means unlocked.
var bumpScript = redis.NewScript(`
local key = KEYS[1]
local window = tonumber(ARGV[1])
local now = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local lock = tonumber(ARGV[4])
local ttl = tonumber(ARGV[5])

local state = redis.call('HMGET', key, 'window', 'count', 'lock_until')
local cur_window = tonumber(state[1])
local count = tonumber(state[2]) or 0
local lock_until = tonumber(state[3]) or 0

if lock_until > now then
  return {count, lock_until}
end

if lock_until == 0 and cur_window == window then
  count = count + 1
else
  count = 1
end

local new_lock = 0
if count > limit then
  new_lock = now + lock
end

redis.call('HSET', key, 'window', window, 'count', count, 'lock_until', new_lock)
redis.call('PEXPIRE', key, ttl)
return {count, new_lock}
`)

var _ model.CounterStore = (*CounterStore)(nil)

// CounterStore keeps rate limit counters in Redis hashes.
type CounterStore struct {
	client redis.Scripter
}

func NewCounterStore(client redis.Scripter) *CounterStore {
	return &CounterStore{client: client}
}

func (s *CounterStore) Bump(ctx context.Context, key string, windowStart, now time.Time, limit int, lock time.Duration) (model.Counter, error) {
	ttl := lock + staleAfter

	res, err := bumpScript.Run(ctx, s.client, []string{keyPrefix + key},
		windowStart.UnixMilli(),
		now.UnixMilli(),
		limit,
		lock.Milliseconds(),
		ttl.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return model.Counter{}, fmt.Errorf("failed to bump rate limit counter: %w", err)
	}
	if len(res) != 2 {
		return model.Counter{}, fmt.Errorf("unexpected rate limit reply of %d values", len(res))
	}

	counter := model.Counter{Count: int(res[0])}
	if res[1] > 0 {
		until := time.UnixMilli(res[1]).UTC()
		counter.LockUntil = &until
		counter.Locked = until.After(now)
	}
	return counter, nil
}
