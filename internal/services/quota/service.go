package quota

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sidgureja7803/dev-tinder-server/internal/domain/rules"
	pgrepo "github.com/sidgureja7803/dev-tinder-server/internal/repo/postgres"
)

var (
	ErrValidation      = errors.New("validation error")
	ErrDependenciesNil = errors.New("quota dependencies are not configured")
)

type UsageStore interface {
	GetUsage(ctx context.Context, userID int64, dayKey string) (pgrepo.QuotaUsage, error)
}

type Config struct {
	// Enabled switches daily caps on. Off means unlimited swipes and
	// superlikes for everyone, which is the shipped default.
	Enabled bool

	FreeSwipesPerDay        int
	PremiumSuperLikesPerDay int
}

// Snapshot is what clients render in the quota widget. -1 means unlimited.
type Snapshot struct {
	SwipesLeft     int       `json:"swipes_left"`
	SuperLikesLeft int       `json:"superlikes_left"`
	ResetAt        time.Time `json:"reset_at"`
	IsPremium      bool      `json:"is_premium"`
}

type Service struct {
	usage UsageStore
	cfg   Config
	now   func() time.Time
}

func NewService(usage UsageStore, cfg Config) *Service {
	if cfg.FreeSwipesPerDay <= 0 {
		cfg.FreeSwipesPerDay = rules.FreeSwipesPerDay
	}
	if cfg.PremiumSuperLikesPerDay <= 0 {
		cfg.PremiumSuperLikesPerDay = rules.PremiumSuperLikesPerDay
	}

	return &Service{
		usage: usage,
		cfg:   cfg,
		now:   time.Now,
	}
}

// SwipeLimitFor returns the actor's daily swipe cap, 0 when no cap applies.
// Premium accounts are never swipe-capped.
func (s *Service) SwipeLimitFor(isPremium bool) int {
	if !s.cfg.Enabled || isPremium {
		return 0
	}
	return s.cfg.FreeSwipesPerDay
}

// SuperLikeAllowed reports whether the actor may superlike at all. With caps
// on, superlikes are a premium feature.
func (s *Service) SuperLikeAllowed(isPremium bool) bool {
	return !s.cfg.Enabled || isPremium
}

// SuperLikeLimitFor returns the actor's daily superlike cap, 0 when no cap
// applies. Free accounts have no cap to speak of because they cannot
// superlike while caps are on.
func (s *Service) SuperLikeLimitFor(isPremium bool) int {
	if !s.cfg.Enabled || !isPremium {
		return 0
	}
	return s.cfg.PremiumSuperLikesPerDay
}

func (s *Service) GetSnapshot(ctx context.Context, userID int64, isPremium bool) (Snapshot, error) {
	if userID <= 0 {
		return Snapshot{}, ErrValidation
	}
	if s.usage == nil {
		return Snapshot{}, ErrDependenciesNil
	}

	now := s.now().UTC()
	snapshot := Snapshot{
		SwipesLeft:     -1,
		SuperLikesLeft: -1,
		ResetAt:        rules.NextResetAt(now, time.UTC),
		IsPremium:      isPremium,
	}
	if !s.cfg.Enabled {
		return snapshot, nil
	}

	usage, err := s.usage.GetUsage(ctx, userID, rules.DayKey(now, time.UTC))
	if err != nil {
		return Snapshot{}, fmt.Errorf("read daily quota: %w", err)
	}

	if limit := s.SwipeLimitFor(isPremium); limit > 0 {
		snapshot.SwipesLeft = clampNonNegative(limit - usage.SwipesUsed)
	}
	if !s.SuperLikeAllowed(isPremium) {
		snapshot.SuperLikesLeft = 0
	} else if limit := s.SuperLikeLimitFor(isPremium); limit > 0 {
		snapshot.SuperLikesLeft = clampNonNegative(limit - usage.SuperLikesUsed)
	}

	return snapshot, nil
}

func clampNonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
