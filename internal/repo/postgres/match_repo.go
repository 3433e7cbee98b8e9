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

var ErrMatchNotFound = errors.New("match not found")

type MatchRepo struct {
	pool *pgxpool.Pool
}

func NewMatchRepo(pool *pgxpool.Pool) *MatchRepo {
	return &MatchRepo{pool: pool}
}

// CreateOrReactivate inserts the match for a pair or, when a row already
// exists (active or previously unmatched), flips it back to active. The
// unique index on the sorted pair makes concurrent creates race-safe: the
// loser of the race lands in the DO UPDATE arm and gets the winner's row.
// Score, type and mutual interests are written once on insert and preserved
// on reactivation.
func (r *MatchRepo) CreateOrReactivate(
	ctx context.Context,
	tx pgx.Tx,
	userA, userB int64,
	initiatorID int64,
	matchType enums.MatchType,
	score int,
	mutualInterests []string,
	now time.Time,
) (model.Match, bool, error) {
	if userA <= 0 || userB <= 0 || userA == userB || initiatorID <= 0 {
		return model.Match{}, false, fmt.Errorf("invalid match payload")
	}
	if tx == nil {
		return model.Match{}, false, fmt.Errorf("transaction is required")
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	a, b := model.CanonicalPair(userA, userB)
	if mutualInterests == nil {
		mutualInterests = []string{}
	}

	var (
		rec      model.Match
		inserted bool
	)
	err := tx.QueryRow(ctx, `
INSERT INTO matches (
	user_a_id,
	user_b_id,
	initiator_id,
	match_type,
	match_score,
	mutual_interests,
	is_active,
	matched_at
) VALUES ($1, $2, $3, $4, $5, $6, TRUE, $7)
ON CONFLICT (user_a_id, user_b_id) DO UPDATE SET
	is_active = TRUE
RETURNING
	id, user_a_id, user_b_id, initiator_id, match_type, match_score,
	mutual_interests, is_active, matched_at, last_message_at,
	(xmax = 0) AS inserted
`, a, b, initiatorID, string(matchType), score, mutualInterests, now.UTC()).Scan(
		&rec.ID,
		&rec.UserAID,
		&rec.UserBID,
		&rec.InitiatorID,
		&rec.MatchType,
		&rec.MatchScore,
		&rec.MutualInterests,
		&rec.IsActive,
		&rec.MatchedAt,
		&rec.LastMessageAt,
		&inserted,
	)
	if err != nil {
		return model.Match{}, false, fmt.Errorf("create or reactivate match: %w", err)
	}

	return rec, inserted, nil
}

// FindByPair returns the match row for an unordered pair regardless of its
// active flag, so callers can tell "never matched" from "unmatched".
func (r *MatchRepo) FindByPair(ctx context.Context, userA, userB int64) (model.Match, error) {
	if userA <= 0 || userB <= 0 {
		return model.Match{}, fmt.Errorf("invalid match lookup payload")
	}
	if r.pool == nil {
		return model.Match{}, ErrMatchNotFound
	}

	a, b := model.CanonicalPair(userA, userB)

	var rec model.Match
	err := r.pool.QueryRow(ctx, `
SELECT
	id, user_a_id, user_b_id, initiator_id, match_type, match_score,
	mutual_interests, is_active, matched_at, last_message_at
FROM matches
WHERE user_a_id = $1 AND user_b_id = $2
LIMIT 1
`, a, b).Scan(
		&rec.ID,
		&rec.UserAID,
		&rec.UserBID,
		&rec.InitiatorID,
		&rec.MatchType,
		&rec.MatchScore,
		&rec.MutualInterests,
		&rec.IsActive,
		&rec.MatchedAt,
		&rec.LastMessageAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Match{}, ErrMatchNotFound
		}
		return model.Match{}, fmt.Errorf("find match by pair: %w", err)
	}

	return rec, nil
}

type MatchListRecord struct {
	Match           model.Match
	TargetUserID    int64
	TargetFirstName string
	TargetLastName  string
	TargetPhotoKey  string
}

func (r *MatchRepo) ListActiveForUser(ctx context.Context, userID int64, limit int) ([]MatchListRecord, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if limit <= 0 {
		limit = 100
	}
	if r.pool == nil {
		return []MatchListRecord{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT
	m.id, m.user_a_id, m.user_b_id, m.initiator_id, m.match_type,
	m.match_score, m.mutual_interests, m.is_active, m.matched_at,
	m.last_message_at,
	p.user_id,
	COALESCE(p.first_name, ''),
	COALESCE(p.last_name, ''),
	COALESCE((
		SELECT photo->>'object_key'
		FROM jsonb_array_elements(COALESCE(p.photos, '[]'::jsonb)) photo
		ORDER BY (photo->>'is_primary')::boolean DESC NULLS LAST
		LIMIT 1
	), '')
FROM matches m
JOIN profiles p ON p.user_id = CASE WHEN m.user_a_id = $1 THEN m.user_b_id ELSE m.user_a_id END
WHERE
	(m.user_a_id = $1 OR m.user_b_id = $1)
	AND m.is_active = TRUE
ORDER BY m.matched_at DESC, m.id DESC
LIMIT $2
`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list active matches: %w", err)
	}
	defer rows.Close()

	items := make([]MatchListRecord, 0, limit)
	for rows.Next() {
		var item MatchListRecord
		if err := rows.Scan(
			&item.Match.ID,
			&item.Match.UserAID,
			&item.Match.UserBID,
			&item.Match.InitiatorID,
			&item.Match.MatchType,
			&item.Match.MatchScore,
			&item.Match.MutualInterests,
			&item.Match.IsActive,
			&item.Match.MatchedAt,
			&item.Match.LastMessageAt,
			&item.TargetUserID,
			&item.TargetFirstName,
			&item.TargetLastName,
			&item.TargetPhotoKey,
		); err != nil {
			return nil, fmt.Errorf("scan active match: %w", err)
		}
		items = append(items, item)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate active matches: %w", rows.Err())
	}

	return items, nil
}

// Deactivate soft-deletes the pair's match. The row is kept so a later mutual
// like reactivates it instead of violating the pair uniqueness constraint.
func (r *MatchRepo) Deactivate(ctx context.Context, tx pgx.Tx, userID, targetID int64) (bool, error) {
	if userID <= 0 || targetID <= 0 {
		return false, fmt.Errorf("invalid unmatch payload")
	}
	if tx == nil {
		return false, fmt.Errorf("transaction is required")
	}

	a, b := model.CanonicalPair(userID, targetID)

	result, err := tx.Exec(ctx, `
UPDATE matches
SET is_active = FALSE
WHERE user_a_id = $1 AND user_b_id = $2 AND is_active = TRUE
`, a, b)
	if err != nil {
		return false, fmt.Errorf("deactivate match: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *MatchRepo) CountActiveForUser(ctx context.Context, userID int64) (int, error) {
	if userID <= 0 {
		return 0, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return 0, nil
	}

	var count int
	err := r.pool.QueryRow(ctx, `
SELECT COUNT(*)
FROM matches
WHERE (user_a_id = $1 OR user_b_id = $1) AND is_active = TRUE
`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count active matches: %w", err)
	}

	return count, nil
}
