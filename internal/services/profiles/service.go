package profiles

import (
	"context"
	"errors"
	"fmt"
	"time"

	pgrepo "github.com/sidgureja7803/dev-tinder-server/internal/repo/postgres"

	"github.com/sidgureja7803/dev-tinder-server/internal/domain/model"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("profile not found")
)

type Store interface {
	GetByID(ctx context.Context, userID int64) (model.Profile, error)
	UpdateLastActive(ctx context.Context, userID int64, at time.Time) error
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{
		store: store,
		now:   time.Now,
	}
}

func (s *Service) GetByID(ctx context.Context, userID int64) (model.Profile, error) {
	if userID <= 0 {
		return model.Profile{}, ErrValidation
	}
	if s.store == nil {
		return model.Profile{}, fmt.Errorf("profile store is not configured")
	}

	profile, err := s.store.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrProfileNotFound) {
			return model.Profile{}, ErrNotFound
		}
		return model.Profile{}, err
	}

	return profile, nil
}

// TouchLastActive bumps the activity timestamp used by feed ranking and the
// recency bonus. Failures are surfaced but callers treat them as advisory.
func (s *Service) TouchLastActive(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return ErrValidation
	}
	if s.store == nil {
		return fmt.Errorf("profile store is not configured")
	}

	return s.store.UpdateLastActive(ctx, userID, s.now().UTC())
}
