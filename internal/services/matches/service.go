package matches

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sidgureja7803/dev-tinder-server/internal/domain/enums"
	"github.com/sidgureja7803/dev-tinder-server/internal/domain/model"
	pgrepo "github.com/sidgureja7803/dev-tinder-server/internal/repo/postgres"
)

const (
	defaultListLimit = 100
	photoURLTTL      = 5 * time.Minute
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("match not found")
)

type Store interface {
	ListActiveForUser(ctx context.Context, userID int64, limit int) ([]pgrepo.MatchListRecord, error)
	FindByPair(ctx context.Context, userA, userB int64) (model.Match, error)
	Deactivate(ctx context.Context, tx pgx.Tx, userID, targetID int64) (bool, error)
}

type PhotoURLSigner interface {
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type Item struct {
	MatchID         int64
	UserID          int64
	FirstName       string
	LastName        string
	PhotoURL        *string
	MatchType       enums.MatchType
	Score           int
	MutualInterests []string
	MatchedAt       time.Time
	LastMessageAt   *time.Time
}

type Service struct {
	pool      *pgxpool.Pool
	store     Store
	photoSign PhotoURLSigner
}

type Dependencies struct {
	Pool      *pgxpool.Pool
	Store     Store
	PhotoSign PhotoURLSigner
}

func NewService(deps Dependencies) *Service {
	return &Service{
		pool:      deps.Pool,
		store:     deps.Store,
		photoSign: deps.PhotoSign,
	}
}

// List returns the user's active matches, newest first, with the other
// member's card data attached.
func (s *Service) List(ctx context.Context, userID int64, limit int) ([]Item, error) {
	if userID <= 0 {
		return nil, ErrValidation
	}
	if s.store == nil {
		return nil, fmt.Errorf("match dependencies are not configured")
	}
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}

	records, err := s.store.ListActiveForUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}

	items := make([]Item, 0, len(records))
	for _, record := range records {
		item := Item{
			MatchID:         record.Match.ID,
			UserID:          record.TargetUserID,
			FirstName:       record.TargetFirstName,
			LastName:        record.TargetLastName,
			MatchType:       record.Match.MatchType,
			Score:           record.Match.MatchScore,
			MutualInterests: record.Match.MutualInterests,
			MatchedAt:       record.Match.MatchedAt,
			LastMessageAt:   record.Match.LastMessageAt,
		}
		if s.photoSign != nil && record.TargetPhotoKey != "" {
			if url, err := s.photoSign.PresignGet(ctx, record.TargetPhotoKey, photoURLTTL); err == nil {
				item.PhotoURL = &url
			}
		}
		items = append(items, item)
	}

	return items, nil
}

// GetForPair loads the pair's match row regardless of active state. The
// second return reports whether the match is currently active, so callers can
// tell "never matched" from "unmatched".
func (s *Service) GetForPair(ctx context.Context, userID, targetID int64) (Item, bool, error) {
	if userID <= 0 || targetID <= 0 || userID == targetID {
		return Item{}, false, ErrValidation
	}
	if s.store == nil {
		return Item{}, false, fmt.Errorf("match dependencies are not configured")
	}

	rec, err := s.store.FindByPair(ctx, userID, targetID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrMatchNotFound) {
			return Item{}, false, ErrNotFound
		}
		return Item{}, false, fmt.Errorf("find match: %w", err)
	}

	return Item{
		MatchID:         rec.ID,
		UserID:          rec.OtherUserID(userID),
		MatchType:       rec.MatchType,
		Score:           rec.MatchScore,
		MutualInterests: rec.MutualInterests,
		MatchedAt:       rec.MatchedAt,
		LastMessageAt:   rec.LastMessageAt,
	}, rec.IsActive, nil
}

// Unmatch soft-deactivates the pair's match. The row survives so a later
// mutual like quietly reactivates it.
func (s *Service) Unmatch(ctx context.Context, userID, targetID int64) error {
	if userID <= 0 || targetID <= 0 || userID == targetID {
		return ErrValidation
	}
	if s.pool == nil || s.store == nil {
		return fmt.Errorf("match dependencies are not configured")
	}

	return pgrepo.WithTx(ctx, s.pool, func(txCtx context.Context, tx pgx.Tx) error {
		deactivated, err := s.store.Deactivate(txCtx, tx, userID, targetID)
		if err != nil {
			return err
		}
		if !deactivated {
			return ErrNotFound
		}
		return nil
	})
}
