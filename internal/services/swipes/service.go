package swipes

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sidgureja7803/dev-tinder-server/internal/domain/enums"
	"github.com/sidgureja7803/dev-tinder-server/internal/domain/model"
	"github.com/sidgureja7803/dev-tinder-server/internal/domain/rules"
	"github.com/sidgureja7803/dev-tinder-server/internal/domain/scoring"
	pgrepo "github.com/sidgureja7803/dev-tinder-server/internal/repo/postgres"
	quotasvc "github.com/sidgureja7803/dev-tinder-server/internal/services/quota"
)

const mutualInterestsLimit = 5

var (
	ErrValidation           = errors.New("validation error")
	ErrUnsupportedAction    = errors.New("unsupported action")
	ErrTargetNotFound       = errors.New("target profile not found")
	ErrDailyLimit           = errors.New("daily swipe limit reached")
	ErrSuperLikeLimit       = errors.New("daily superlike limit reached")
	ErrSuperLikePremiumOnly = errors.New("superlike is a premium feature")
)

type TooFastError struct {
	RetryAfterSec int64
}

func (e TooFastError) Error() string {
	return "too fast"
}

func (e TooFastError) RetryAfter() int64 {
	if e.RetryAfterSec <= 0 {
		return 1
	}
	return e.RetryAfterSec
}

func IsTooFast(err error) (*TooFastError, bool) {
	var tf TooFastError
	if errors.As(err, &tf) {
		return &tf, true
	}
	return nil, false
}

type SwipeStore interface {
	Upsert(ctx context.Context, tx pgx.Tx, actorUserID, targetUserID int64, action enums.SwipeAction, now time.Time) (model.Swipe, error)
	GetDirectional(ctx context.Context, tx pgx.Tx, actorUserID, targetUserID int64) (model.Swipe, error)
	HasMutualLike(ctx context.Context, tx pgx.Tx, userA, userB int64, cutoff time.Time) (bool, error)
	CountsByAction(ctx context.Context, userID int64) (pgrepo.SwipeStatsRecord, error)
}

type MatchStore interface {
	CreateOrReactivate(ctx context.Context, tx pgx.Tx, userA, userB, initiatorID int64, matchType enums.MatchType, score int, mutualInterests []string, now time.Time) (model.Match, bool, error)
	CountActiveForUser(ctx context.Context, userID int64) (int, error)
}

type ProfileStore interface {
	GetByID(ctx context.Context, userID int64) (model.Profile, error)
	GetPair(ctx context.Context, userA, userB int64) (model.Profile, model.Profile, error)
}

type QuotaStore interface {
	ConsumeSwipeWithLimit(ctx context.Context, tx pgx.Tx, userID int64, dayKey string, limit int) (int, error)
	ConsumeSuperLikeWithLimit(ctx context.Context, tx pgx.Tx, userID int64, dayKey string, limit int) (int, error)
}

type RateLimiter interface {
	AllowSwipe(ctx context.Context, userID int64) (int64, bool, error)
}

type QuotaView interface {
	SwipeLimitFor(isPremium bool) int
	SuperLikeAllowed(isPremium bool) bool
	SuperLikeLimitFor(isPremium bool) int
	GetSnapshot(ctx context.Context, userID int64, isPremium bool) (quotasvc.Snapshot, error)
}

// TxRunner executes fn inside one database transaction.
type TxRunner func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error

type Dependencies struct {
	Pool         *pgxpool.Pool
	TxRunner     TxRunner
	SwipeStore   SwipeStore
	MatchStore   MatchStore
	ProfileStore ProfileStore
	QuotaStore   QuotaStore
	RateLimiter  RateLimiter
	QuotaView    QuotaView
}

// MatchSummary is the client-facing slice of a fresh or reactivated match.
type MatchSummary struct {
	ID              int64
	TargetUserID    int64
	MatchType       enums.MatchType
	Score           int
	MutualInterests []string
	MatchedAt       time.Time
	Reactivated     bool
}

type SwipeResult struct {
	Swipe   model.Swipe
	IsMatch bool
	Match   *MatchSummary
	Quota   quotasvc.Snapshot
}

type Stats struct {
	Sent              pgrepo.SwipeActionCounts
	Received          pgrepo.SwipeActionCounts
	ActiveMatches     int
	MatchRate         float64
	ProfileCompletion int
	Quota             quotasvc.Snapshot
}

type Service struct {
	runTx        TxRunner
	swipeStore   SwipeStore
	matchStore   MatchStore
	profileStore ProfileStore
	quotaStore   QuotaStore
	rateLimiter  RateLimiter
	quotaView    QuotaView
	now          func() time.Time
}

func NewService(deps Dependencies) *Service {
	runTx := deps.TxRunner
	if runTx == nil && deps.Pool != nil {
		pool := deps.Pool
		runTx = func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
			return pgrepo.WithTx(ctx, pool, fn)
		}
	}

	return &Service{
		runTx:        runTx,
		swipeStore:   deps.SwipeStore,
		matchStore:   deps.MatchStore,
		profileStore: deps.ProfileStore,
		quotaStore:   deps.QuotaStore,
		rateLimiter:  deps.RateLimiter,
		quotaView:    deps.QuotaView,
		now:          time.Now,
	}
}

// Swipe records one directional action and, on a mutual like, creates or
// reactivates the pair's match in the same transaction. The compatibility
// score and mutual interests are computed at match time and never recomputed
// afterwards.
func (s *Service) Swipe(ctx context.Context, userID, targetID int64, action string) (SwipeResult, error) {
	if userID <= 0 || targetID <= 0 {
		return SwipeResult{}, ErrValidation
	}
	if userID == targetID {
		return SwipeResult{}, ErrValidation
	}

	normalized, err := normalizeAction(action)
	if err != nil {
		return SwipeResult{}, err
	}

	if s.runTx == nil || s.swipeStore == nil || s.matchStore == nil || s.profileStore == nil {
		return SwipeResult{}, fmt.Errorf("swipe dependencies are not configured")
	}

	now := s.now().UTC()

	actor, target, err := s.profileStore.GetPair(ctx, userID, targetID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrProfileNotFound) {
			return SwipeResult{}, ErrTargetNotFound
		}
		return SwipeResult{}, fmt.Errorf("load swipe pair: %w", err)
	}

	if normalized == enums.SwipeActionSuperLike && s.quotaView != nil && !s.quotaView.SuperLikeAllowed(actor.IsPremium) {
		return SwipeResult{}, ErrSuperLikePremiumOnly
	}

	if normalized.IsLike() && s.rateLimiter != nil {
		retryAfter, allowed, err := s.rateLimiter.AllowSwipe(ctx, userID)
		if err != nil {
			return SwipeResult{}, fmt.Errorf("apply swipe rate limiter: %w", err)
		}
		if !allowed {
			return SwipeResult{}, TooFastError{RetryAfterSec: retryAfter}
		}
	}

	result := SwipeResult{}
	if err := s.runTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		if err := s.consumeQuotas(txCtx, tx, userID, actor.IsPremium, normalized, now); err != nil {
			return err
		}

		swipe, err := s.swipeStore.Upsert(txCtx, tx, userID, targetID, normalized, now)
		if err != nil {
			return err
		}
		result.Swipe = swipe

		if !normalized.IsLike() {
			return nil
		}

		mutual, err := s.swipeStore.HasMutualLike(txCtx, tx, userID, targetID, now.Add(-rules.SwipeRetention))
		if err != nil {
			return err
		}
		if !mutual {
			return nil
		}

		matchType, err := s.resolveMatchType(txCtx, tx, userID, targetID, normalized)
		if err != nil {
			return err
		}

		score := scoring.Score(actor, target, now)
		interests := scoring.TopMutualInterests(actor, target, mutualInterestsLimit)

		match, inserted, err := s.matchStore.CreateOrReactivate(
			txCtx, tx, userID, targetID, userID, matchType, score, interests, now,
		)
		if err != nil {
			return err
		}

		result.IsMatch = true
		result.Match = &MatchSummary{
			ID:              match.ID,
			TargetUserID:    targetID,
			MatchType:       match.MatchType,
			Score:           match.MatchScore,
			MutualInterests: match.MutualInterests,
			MatchedAt:       match.MatchedAt,
			Reactivated:     !inserted,
		}
		return nil
	}); err != nil {
		return SwipeResult{}, err
	}

	snapshot, err := s.snapshot(ctx, userID, actor.IsPremium)
	if err != nil {
		return SwipeResult{}, err
	}
	result.Quota = snapshot

	return result, nil
}

func (s *Service) Stats(ctx context.Context, userID int64) (Stats, error) {
	if userID <= 0 {
		return Stats{}, ErrValidation
	}
	if s.swipeStore == nil || s.matchStore == nil || s.profileStore == nil {
		return Stats{}, fmt.Errorf("swipe dependencies are not configured")
	}

	counts, err := s.swipeStore.CountsByAction(ctx, userID)
	if err != nil {
		return Stats{}, fmt.Errorf("read swipe counts: %w", err)
	}

	activeMatches, err := s.matchStore.CountActiveForUser(ctx, userID)
	if err != nil {
		return Stats{}, fmt.Errorf("count active matches: %w", err)
	}

	stats := Stats{
		Sent:          counts.Sent,
		Received:      counts.Received,
		ActiveMatches: activeMatches,
	}

	likesSent := counts.Sent.Likes + counts.Sent.SuperLikes
	if likesSent > 0 {
		stats.MatchRate = math.Round(float64(activeMatches)/float64(likesSent)*1000) / 10
	}

	actor, err := s.profileStore.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrProfileNotFound) {
			return Stats{}, ErrTargetNotFound
		}
		return Stats{}, fmt.Errorf("load actor profile: %w", err)
	}
	stats.ProfileCompletion = actor.ProfileCompletion

	snapshot, err := s.snapshot(ctx, userID, actor.IsPremium)
	if err != nil {
		return Stats{}, err
	}
	stats.Quota = snapshot

	return stats, nil
}

func (s *Service) consumeQuotas(ctx context.Context, tx pgx.Tx, userID int64, isPremium bool, action enums.SwipeAction, now time.Time) error {
	if s.quotaStore == nil || s.quotaView == nil {
		return nil
	}

	dayKey := rules.DayKey(now, time.UTC)

	if limit := s.quotaView.SwipeLimitFor(isPremium); limit > 0 {
		if _, err := s.quotaStore.ConsumeSwipeWithLimit(ctx, tx, userID, dayKey, limit); err != nil {
			if errors.Is(err, pgrepo.ErrSwipeLimitReached) {
				return ErrDailyLimit
			}
			return err
		}
	}

	if action == enums.SwipeActionSuperLike {
		if limit := s.quotaView.SuperLikeLimitFor(isPremium); limit > 0 {
			if _, err := s.quotaStore.ConsumeSuperLikeWithLimit(ctx, tx, userID, dayKey, limit); err != nil {
				if errors.Is(err, pgrepo.ErrSuperLikeLimitReached) {
					return ErrSuperLikeLimit
				}
				return err
			}
		}
	}

	return nil
}

// resolveMatchType marks the match as a superlike match if either direction
// superliked.
func (s *Service) resolveMatchType(ctx context.Context, tx pgx.Tx, userID, targetID int64, action enums.SwipeAction) (enums.MatchType, error) {
	if action == enums.SwipeActionSuperLike {
		return enums.MatchTypeSuperLike, nil
	}

	reverse, err := s.swipeStore.GetDirectional(ctx, tx, targetID, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrSwipeNotFound) {
			return enums.MatchTypeRegular, nil
		}
		return "", err
	}
	if reverse.Action == enums.SwipeActionSuperLike {
		return enums.MatchTypeSuperLike, nil
	}
	return enums.MatchTypeRegular, nil
}

func (s *Service) snapshot(ctx context.Context, userID int64, isPremium bool) (quotasvc.Snapshot, error) {
	if s.quotaView == nil {
		return quotasvc.Snapshot{}, nil
	}
	snapshot, err := s.quotaView.GetSnapshot(ctx, userID, isPremium)
	if err != nil {
		return quotasvc.Snapshot{}, fmt.Errorf("read quota snapshot: %w", err)
	}
	return snapshot, nil
}

func normalizeAction(input string) (enums.SwipeAction, error) {
	value := enums.SwipeAction(strings.ToLower(strings.TrimSpace(input)))
	if !value.Valid() {
		return "", ErrUnsupportedAction
	}
	return value, nil
}

