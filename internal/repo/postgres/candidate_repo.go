package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sidgureja7803/dev-tinder-server/internal/domain/model"
)

type CandidateRepo struct {
	pool *pgxpool.Pool
}

func NewCandidateRepo(pool *pgxpool.Pool) *CandidateRepo {
	return &CandidateRepo{pool: pool}
}

type CandidateQuery struct {
	ViewerUserID int64
	AgeMin       int
	AgeMax       int
	Genders      []string
	Religions    []string
	Professions  []string
	RadiusKM     int
	ViewerLat    *float64
	ViewerLon    *float64
	SwipeCutoff  time.Time
	Limit        int
	Now          time.Time
}

// ListCandidates returns discoverable profiles for the viewer: verified,
// complete, never the viewer, not covered by a live swipe and not already
// an active match. Preference filters apply only when the viewer set them.
// With a radius the list comes back nearest first, otherwise most recently
// active first.
func (r *CandidateRepo) ListCandidates(ctx context.Context, q CandidateQuery) ([]model.Profile, error) {
	if q.ViewerUserID <= 0 {
		return nil, fmt.Errorf("invalid viewer id")
	}
	if q.Limit <= 0 {
		q.Limit = 100
	}
	if q.Now.IsZero() {
		q.Now = time.Now().UTC()
	}
	if r.pool == nil {
		return []model.Profile{}, nil
	}

	applyAge := q.AgeMin > 0 && q.AgeMax >= q.AgeMin
	genders := normalizeTerms(q.Genders)
	religions := normalizeTerms(q.Religions)
	professions := normalizeTerms(q.Professions)
	applyGenders := len(genders) > 0
	applyReligions := len(religions) > 0
	applyProfessions := len(professions) > 0
	applyRadius := q.ViewerLat != nil && q.ViewerLon != nil && q.RadiusKM > 0
	swipeCutoff := q.SwipeCutoff.UTC()
	if swipeCutoff.IsZero() {
		swipeCutoff = time.Unix(0, 0).UTC()
	}

	rows, err := r.pool.Query(ctx, `
SELECT`+profileColumns+`
FROM profiles p
WHERE
	p.user_id <> $1
	AND p.is_verified = TRUE
	AND p.profile_complete = TRUE
	AND (
		$3::boolean = FALSE
		OR (
			p.birth_date IS NOT NULL
			AND DATE_PART('year', AGE($2::timestamptz, p.birth_date::timestamp))::int BETWEEN $4 AND $5
		)
	)
	AND ($6::boolean = FALSE OR LOWER(p.gender) = ANY($7::text[]))
	AND ($8::boolean = FALSE OR LOWER(p.religion) = ANY($9::text[]))
	AND ($10::boolean = FALSE OR LOWER(p.profession) = ANY($11::text[]))
	AND NOT EXISTS (
		SELECT 1
		FROM swipes s
		WHERE s.actor_user_id = $1
			AND s.target_user_id = p.user_id
			AND s.created_at > $12::timestamptz
	)
	AND NOT EXISTS (
		SELECT 1
		FROM matches m
		WHERE m.is_active = TRUE
			AND (
				(m.user_a_id = $1 AND m.user_b_id = p.user_id)
				OR (m.user_a_id = p.user_id AND m.user_b_id = $1)
			)
	)
	AND (
		$13::boolean = FALSE
		OR (
			p.lat IS NOT NULL
			AND p.lon IS NOT NULL
			AND (
				6371.0 * ACOS(LEAST(1.0, GREATEST(-1.0,
					COS(RADIANS($14::float8)) * COS(RADIANS(p.lat)) * COS(RADIANS(p.lon) - RADIANS($15::float8))
					+ SIN(RADIANS($14::float8)) * SIN(RADIANS(p.lat))
				)))
			) <= $16::float8
		)
	)
ORDER BY
	CASE
		WHEN $13::boolean = TRUE AND p.lat IS NOT NULL AND p.lon IS NOT NULL
		THEN 6371.0 * ACOS(LEAST(1.0, GREATEST(-1.0,
			COS(RADIANS($14::float8)) * COS(RADIANS(p.lat)) * COS(RADIANS(p.lon) - RADIANS($15::float8))
			+ SIN(RADIANS($14::float8)) * SIN(RADIANS(p.lat))
		)))
		ELSE NULL
	END ASC NULLS LAST,
	p.last_active DESC,
	p.user_id DESC
LIMIT $17
`,
		q.ViewerUserID,           // $1
		q.Now.UTC(),              // $2
		applyAge,                 // $3
		q.AgeMin,                 // $4
		q.AgeMax,                 // $5
		applyGenders,             // $6
		genders,                  // $7
		applyReligions,           // $8
		religions,                // $9
		applyProfessions,         // $10
		professions,              // $11
		swipeCutoff,              // $12
		applyRadius,              // $13
		floatOrZero(q.ViewerLat), // $14
		floatOrZero(q.ViewerLon), // $15
		float64(q.RadiusKM),      // $16
		q.Limit,                  // $17
	)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	defer rows.Close()

	items := make([]model.Profile, 0, q.Limit)
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		items = append(items, profile)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate candidates: %w", rows.Err())
	}

	return items, nil
}

func normalizeTerms(terms []string) []string {
	if len(terms) == 0 {
		return nil
	}

	out := make([]string, 0, len(terms))
	seen := make(map[string]struct{}, len(terms))
	for _, term := range terms {
		value := strings.ToLower(strings.TrimSpace(term))
		if value == "" || value == "any" || value == "all" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}

func floatOrZero(value *float64) float64 {
	if value == nil {
		return 0
	}
	return *value
}
