package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dtroode/gophcheck-server/internal/model"
)

var _ model.CounterStore = (*CounterRepository)(nil)

type CounterRepository struct {
	db *Provider
}

func NewCounterRepository(db *Provider) *CounterRepository {
	return &CounterRepository{db: db}
}

// Bump is a single upsert. Every SET expression reads the pre-update row, and
// the row lock taken by ON CONFLICT serialises concurrent bumps of one key.
//
// An active lock leaves the row as it is. Otherwise the count grows inside the
// same window and restarts at 1 when the window rolled or a lock has elapsed.
func (r *CounterRepository) Bump(ctx context.Context, key string, windowStart, now time.Time, limit int, lock time.Duration) (model.Counter, error) {
	const query = `
        INSERT INTO rate_limit_counters AS c (key, window_start, count, lock_until, updated_at)
        VALUES ($1, $2, 1, NULL, $5)
        ON CONFLICT (key) DO UPDATE SET
            count = CASE
                WHEN c.lock_until > $5 THEN c.count
                WHEN c.lock_until IS NULL AND c.window_start = EXCLUDED.window_start THEN c.count + 1
                ELSE 1
            END,
            window_start = CASE
                WHEN c.lock_until > $5 THEN c.window_start
                ELSE EXCLUDED.window_start
            END,
            lock_until = CASE
                WHEN c.lock_until > $5 THEN c.lock_until
                WHEN c.lock_until IS NULL AND c.window_start = EXCLUDED.window_start AND c.count + 1 > $3 THEN $4::timestamptz
                ELSE NULL
            END,
            updated_at = $5
        RETURNING count, lock_until
    `

	db, err := r.db.DB(ctx)
	if err != nil {
		return model.Counter{}, err
	}

	var (
		count     int
		lockUntil sql.NullTime
	)
	err = db.QueryRowContext(ctx, query,
		key,
		windowStart.UTC(),
		limit,
		now.Add(lock).UTC(),
		now.UTC(),
	).Scan(&count, &lockUntil)
	if err != nil {
		return model.Counter{}, fmt.Errorf("failed to bump rate limit counter: %w", err)
	}

	counter := model.Counter{Count: count}
	if lockUntil.Valid {
		until := lockUntil.Time.UTC()
		counter.LockUntil = &until
		counter.Locked = until.After(now)
	}
	return counter, nil
}
