package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrSwipeLimitReached     = errors.New("swipe daily limit reached")
	ErrSuperLikeLimitReached = errors.New("superlike daily limit reached")
)

type QuotaRepo struct {
	pool *pgxpool.Pool
}

func NewQuotaRepo(pool *pgxpool.Pool) *QuotaRepo {
	return &QuotaRepo{pool: pool}
}

type QuotaUsage struct {
	SwipesUsed     int
	SuperLikesUsed int
}

func (r *QuotaRepo) GetUsage(ctx context.Context, userID int64, dayKey string) (QuotaUsage, error) {
	if userID <= 0 || strings.TrimSpace(dayKey) == "" {
		return QuotaUsage{}, fmt.Errorf("invalid quota lookup payload")
	}
	if r.pool == nil {
		return QuotaUsage{}, nil
	}

	var usage QuotaUsage
	err := r.pool.QueryRow(ctx, `
SELECT swipes_used, superlikes_used
FROM quotas_daily
WHERE user_id = $1 AND day_key = $2::date
LIMIT 1
`, userID, dayKey).Scan(&usage.SwipesUsed, &usage.SuperLikesUsed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return QuotaUsage{}, nil
		}
		return QuotaUsage{}, fmt.Errorf("get daily quota usage: %w", err)
	}

	return usage, nil
}

// ConsumeSwipeWithLimit atomically takes one unit of the day's swipe
// allowance. The conditional upsert keeps the check and the increment in a
// single statement, so concurrent swipes cannot both slip under the cap.
// ErrSwipeLimitReached means the cap was already spent.
func (r *QuotaRepo) ConsumeSwipeWithLimit(ctx context.Context, tx pgx.Tx, userID int64, dayKey string, limit int) (int, error) {
	if userID <= 0 || strings.TrimSpace(dayKey) == "" || limit <= 0 {
		return 0, fmt.Errorf("invalid swipe quota consume payload")
	}
	if tx == nil {
		return 0, fmt.Errorf("transaction is required")
	}

	var swipesUsed int
	err := tx.QueryRow(ctx, `
INSERT INTO quotas_daily (
	user_id,
	day_key,
	swipes_used,
	superlikes_used,
	updated_at
) VALUES ($1, $2::date, 1, 0, NOW())
ON CONFLICT (user_id, day_key) DO UPDATE SET
	swipes_used = quotas_daily.swipes_used + 1,
	updated_at = NOW()
WHERE quotas_daily.swipes_used < $3
RETURNING swipes_used
`, userID, dayKey, limit).Scan(&swipesUsed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrSwipeLimitReached
		}
		return 0, fmt.Errorf("consume swipe quota with limit: %w", err)
	}

	return swipesUsed, nil
}

func (r *QuotaRepo) ConsumeSuperLikeWithLimit(ctx context.Context, tx pgx.Tx, userID int64, dayKey string, limit int) (int, error) {
	if userID <= 0 || strings.TrimSpace(dayKey) == "" || limit <= 0 {
		return 0, fmt.Errorf("invalid superlike quota consume payload")
	}
	if tx == nil {
		return 0, fmt.Errorf("transaction is required")
	}

	var superLikesUsed int
	err := tx.QueryRow(ctx, `
INSERT INTO quotas_daily (
	user_id,
	day_key,
	swipes_used,
	superlikes_used,
	updated_at
) VALUES ($1, $2::date, 0, 1, NOW())
ON CONFLICT (user_id, day_key) DO UPDATE SET
	superlikes_used = quotas_daily.superlikes_used + 1,
	updated_at = NOW()
WHERE quotas_daily.superlikes_used < $3
RETURNING superlikes_used
`, userID, dayKey, limit).Scan(&superLikesUsed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrSuperLikeLimitReached
		}
		return 0, fmt.Errorf("consume superlike quota with limit: %w", err)
	}

	return superLikesUsed, nil
}
