package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sidgureja7803/dev-tinder-server/internal/domain/enums"
	"github.com/sidgureja7803/dev-tinder-server/internal/domain/model"
)

var ErrSwipeNotFound = errors.New("swipe not found")

type SwipeRepo struct {
	pool *pgxpool.Pool
}

func NewSwipeRepo(pool *pgxpool.Pool) *SwipeRepo {
	return &SwipeRepo{pool: pool}
}

// Upsert records one directional action with last-write-wins semantics: a
// repeat swipe overwrites the prior action and timestamp instead of adding a
// second row.
func (r *SwipeRepo) Upsert(ctx context.Context, tx pgx.Tx, actorUserID, targetUserID int64, action enums.SwipeAction, now time.Time) (model.Swipe, error) {
	if actorUserID <= 0 || targetUserID <= 0 || !action.Valid() {
		return model.Swipe{}, fmt.Errorf("invalid swipe payload")
	}
	if tx == nil {
		return model.Swipe{}, fmt.Errorf("transaction is required")
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	var rec model.Swipe
	err := tx.QueryRow(ctx, `
INSERT INTO swipes (
	actor_user_id,
	target_user_id,
	action,
	created_at
) VALUES ($1, $2, $3, $4)
ON CONFLICT (actor_user_id, target_user_id) DO UPDATE SET
	action = EXCLUDED.action,
	created_at = EXCLUDED.created_at
RETURNING id, actor_user_id, target_user_id, action, created_at
`, actorUserID, targetUserID, string(action), now.UTC()).Scan(
		&rec.ID,
		&rec.ActorUserID,
		&rec.TargetUserID,
		&rec.Action,
		&rec.CreatedAt,
	)
	if err != nil {
		return model.Swipe{}, fmt.Errorf("upsert swipe: %w", err)
	}

	return rec, nil
}

func (r *SwipeRepo) GetDirectional(ctx context.Context, tx pgx.Tx, actorUserID, targetUserID int64) (model.Swipe, error) {
	if actorUserID <= 0 || targetUserID <= 0 {
		return model.Swipe{}, fmt.Errorf("invalid swipe lookup payload")
	}
	if tx == nil {
		return model.Swipe{}, fmt.Errorf("transaction is required")
	}

	var rec model.Swipe
	err := tx.QueryRow(ctx, `
SELECT id, actor_user_id, target_user_id, action, created_at
FROM swipes
WHERE actor_user_id = $1 AND target_user_id = $2
LIMIT 1
`, actorUserID, targetUserID).Scan(
		&rec.ID,
		&rec.ActorUserID,
		&rec.TargetUserID,
		&rec.Action,
		&rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Swipe{}, ErrSwipeNotFound
		}
		return model.Swipe{}, fmt.Errorf("get directional swipe: %w", err)
	}

	return rec, nil
}

// HasMutualLike reports whether both directions carry a live like or
// superlike. A pass in either direction never qualifies, and rows past the
// retention cutoff are ignored the same way the candidate exclusion query
// ignores them, whether or not the sweeper got to them yet.
func (r *SwipeRepo) HasMutualLike(ctx context.Context, tx pgx.Tx, userA, userB int64, cutoff time.Time) (bool, error) {
	if userA <= 0 || userB <= 0 {
		return false, fmt.Errorf("invalid mutual like payload")
	}
	if tx == nil {
		return false, fmt.Errorf("transaction is required")
	}

	var mutual bool
	err := tx.QueryRow(ctx, `
SELECT
	EXISTS (
		SELECT 1 FROM swipes
		WHERE actor_user_id = $1 AND target_user_id = $2
			AND action IN ('like', 'superlike')
			AND created_at > $3::timestamptz
	)
	AND EXISTS (
		SELECT 1 FROM swipes
		WHERE actor_user_id = $2 AND target_user_id = $1
			AND action IN ('like', 'superlike')
			AND created_at > $3::timestamptz
	)
`, userA, userB, cutoff.UTC()).Scan(&mutual)
	if err != nil {
		return false, fmt.Errorf("check mutual like: %w", err)
	}

	return mutual, nil
}

type SwipeActionCounts struct {
	Likes      int
	Passes     int
	SuperLikes int
}

type SwipeStatsRecord struct {
	Sent     SwipeActionCounts
	Received SwipeActionCounts
}

func (r *SwipeRepo) CountsByAction(ctx context.Context, userID int64) (SwipeStatsRecord, error) {
	if userID <= 0 {
		return SwipeStatsRecord{}, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return SwipeStatsRecord{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT
	action,
	COUNT(*) FILTER (WHERE actor_user_id = $1),
	COUNT(*) FILTER (WHERE target_user_id = $1)
FROM swipes
WHERE actor_user_id = $1 OR target_user_id = $1
GROUP BY action
`, userID)
	if err != nil {
		return SwipeStatsRecord{}, fmt.Errorf("count swipes by action: %w", err)
	}
	defer rows.Close()

	var stats SwipeStatsRecord
	for rows.Next() {
		var (
			action   string
			sent     int
			received int
		)
		if err := rows.Scan(&action, &sent, &received); err != nil {
			return SwipeStatsRecord{}, fmt.Errorf("scan swipe counts: %w", err)
		}
		switch enums.SwipeAction(action) {
		case enums.SwipeActionLike:
			stats.Sent.Likes = sent
			stats.Received.Likes = received
		case enums.SwipeActionPass:
			stats.Sent.Passes = sent
			stats.Received.Passes = received
		case enums.SwipeActionSuperLike:
			stats.Sent.SuperLikes = sent
			stats.Received.SuperLikes = received
		}
	}
	if rows.Err() != nil {
		return SwipeStatsRecord{}, fmt.Errorf("iterate swipe counts: %w", rows.Err())
	}

	return stats, nil
}

// DeleteOlderThan removes expired ledger rows. Exclusion sets and mutual-like
// checks read live rows, so expiry needs no bookkeeping beyond this delete.
func (r *SwipeRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	if cutoff.IsZero() {
		return 0, fmt.Errorf("cutoff is required")
	}
	if r.pool == nil {
		return 0, nil
	}

	result, err := r.pool.Exec(ctx, `
DELETE FROM swipes
WHERE created_at < $1
`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired swipes: %w", err)
	}

	return result.RowsAffected(), nil
}
