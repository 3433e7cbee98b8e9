package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sidgureja7803/dev-tinder-server/internal/domain/model"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfileRepo struct {
	pool *pgxpool.Pool
}

func NewProfileRepo(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

const profileColumns = `
	user_id,
	COALESCE(first_name, ''),
	COALESCE(last_name, ''),
	birth_date,
	COALESCE(gender, ''),
	COALESCE(religion, ''),
	COALESCE(profession, ''),
	COALESCE(education_level, ''),
	COALESCE(skills, '{}'),
	lat,
	lon,
	COALESCE(city, ''),
	COALESCE(country, ''),
	is_verified,
	is_premium,
	profile_complete,
	profile_completion,
	pref_age_min,
	pref_age_max,
	COALESCE(pref_genders, '{}'),
	COALESCE(pref_religions, '{}'),
	COALESCE(pref_professions, '{}'),
	COALESCE(pref_max_distance_km, 0),
	last_active,
	COALESCE(photos, '[]'),
	created_at,
	updated_at`

func (r *ProfileRepo) GetByID(ctx context.Context, userID int64) (model.Profile, error) {
	if userID <= 0 {
		return model.Profile{}, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return model.Profile{}, ErrProfileNotFound
	}

	row := r.pool.QueryRow(ctx, `
SELECT`+profileColumns+`
FROM profiles
WHERE user_id = $1
LIMIT 1
`, userID)

	profile, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Profile{}, ErrProfileNotFound
		}
		return model.Profile{}, fmt.Errorf("get profile by id: %w", err)
	}

	return profile, nil
}

// GetPair loads both members of a pair in one round trip. Missing profiles
// surface as ErrProfileNotFound.
func (r *ProfileRepo) GetPair(ctx context.Context, userA, userB int64) (model.Profile, model.Profile, error) {
	if userA <= 0 || userB <= 0 || userA == userB {
		return model.Profile{}, model.Profile{}, fmt.Errorf("invalid profile pair")
	}
	if r.pool == nil {
		return model.Profile{}, model.Profile{}, ErrProfileNotFound
	}

	rows, err := r.pool.Query(ctx, `
SELECT`+profileColumns+`
FROM profiles
WHERE user_id = ANY($1::bigint[])
`, []int64{userA, userB})
	if err != nil {
		return model.Profile{}, model.Profile{}, fmt.Errorf("get profile pair: %w", err)
	}
	defer rows.Close()

	found := make(map[int64]model.Profile, 2)
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return model.Profile{}, model.Profile{}, fmt.Errorf("scan profile pair: %w", err)
		}
		found[profile.UserID] = profile
	}
	if rows.Err() != nil {
		return model.Profile{}, model.Profile{}, fmt.Errorf("iterate profile pair: %w", rows.Err())
	}

	first, ok := found[userA]
	if !ok {
		return model.Profile{}, model.Profile{}, ErrProfileNotFound
	}
	second, ok := found[userB]
	if !ok {
		return model.Profile{}, model.Profile{}, ErrProfileNotFound
	}

	return first, second, nil
}

func (r *ProfileRepo) UpdateLastActive(ctx context.Context, userID int64, at time.Time) error {
	if userID <= 0 {
		return fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return nil
	}
	if at.IsZero() {
		at = time.Now().UTC()
	}

	if _, err := r.pool.Exec(ctx, `
UPDATE profiles
SET last_active = $2, updated_at = NOW()
WHERE user_id = $1
`, userID, at.UTC()); err != nil {
		return fmt.Errorf("update last active: %w", err)
	}

	return nil
}

type profileScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row profileScanner) (model.Profile, error) {
	var (
		p          model.Profile
		ageMin     *int
		ageMax     *int
		photosJSON []byte
	)

	if err := row.Scan(
		&p.UserID,
		&p.FirstName,
		&p.LastName,
		&p.BirthDate,
		&p.Gender,
		&p.Religion,
		&p.Profession,
		&p.EducationLevel,
		&p.Skills,
		&p.Lat,
		&p.Lon,
		&p.City,
		&p.Country,
		&p.IsVerified,
		&p.IsPremium,
		&p.ProfileComplete,
		&p.ProfileCompletion,
		&ageMin,
		&ageMax,
		&p.Preferences.Genders,
		&p.Preferences.Religions,
		&p.Preferences.Professions,
		&p.Preferences.MaxDistanceKM,
		&p.LastActive,
		&photosJSON,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return model.Profile{}, err
	}

	if ageMin != nil && ageMax != nil {
		p.Preferences.AgeRange = &model.AgeRange{Min: *ageMin, Max: *ageMax}
	}
	if len(photosJSON) > 0 {
		if err := json.Unmarshal(photosJSON, &p.Photos); err != nil {
			return model.Profile{}, fmt.Errorf("decode profile photos: %w", err)
		}
	}

	return p, nil
}
