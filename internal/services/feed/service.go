package feed

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/sidgureja7803/dev-tinder-server/internal/domain/model"
	"github.com/sidgureja7803/dev-tinder-server/internal/domain/rules"
	"github.com/sidgureja7803/dev-tinder-server/internal/domain/scoring"
	pgrepo "github.com/sidgureja7803/dev-tinder-server/internal/repo/postgres"
	"github.com/sidgureja7803/dev-tinder-server/internal/services/geo"
	quotasvc "github.com/sidgureja7803/dev-tinder-server/internal/services/quota"
)

const feedPhotoURLTTL = 5 * time.Minute

var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("not found")
	ErrProfileIncomplete = errors.New("profile incomplete")
)

type CandidateStore interface {
	ListCandidates(ctx context.Context, q pgrepo.CandidateQuery) ([]model.Profile, error)
}

type ProfileStore interface {
	GetByID(ctx context.Context, userID int64) (model.Profile, error)
}

type PhotoURLSigner interface {
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type QuotaView interface {
	GetSnapshot(ctx context.Context, userID int64, isPremium bool) (quotasvc.Snapshot, error)
}

type Config struct {
	FreePageSize      int
	PremiumPageSize   int
	FreeQueryLimit    int
	PremiumQueryLimit int
	MaxRadiusKM       int
}

type Item struct {
	UserID          int64
	FirstName       string
	Age             int
	City            string
	Country         string
	Profession      string
	Skills          []string
	Score           int
	IsVerified      bool
	DistanceKM      *float64
	PrimaryPhotoURL *string
}

type Result struct {
	Items      []Item
	PageSize   int
	TotalFound int
	Quota      quotasvc.Snapshot
}

type Service struct {
	candidates CandidateStore
	profiles   ProfileStore
	photoSign  PhotoURLSigner
	quota      QuotaView
	cfg        Config
	now        func() time.Time
	shuffle    func(n int, swap func(i, j int))
}

type Dependencies struct {
	Candidates CandidateStore
	Profiles   ProfileStore
	PhotoSign  PhotoURLSigner
	Quota      QuotaView
}

func NewService(deps Dependencies, cfg Config) *Service {
	if cfg.FreePageSize <= 0 {
		cfg.FreePageSize = 20
	}
	if cfg.PremiumPageSize <= 0 {
		cfg.PremiumPageSize = 50
	}
	if cfg.FreeQueryLimit <= 0 {
		cfg.FreeQueryLimit = 100
	}
	if cfg.PremiumQueryLimit <= 0 {
		cfg.PremiumQueryLimit = 200
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Service{
		candidates: deps.Candidates,
		profiles:   deps.Profiles,
		photoSign:  deps.PhotoSign,
		quota:      deps.Quota,
		cfg:        cfg,
		now:        time.Now,
		shuffle:    rng.Shuffle,
	}
}

// GetFeed selects, scores and orders candidates for the viewer. The ranked
// page is shuffled before it leaves, so the client never learns the exact
// ordering of scores.
func (s *Service) GetFeed(ctx context.Context, userID int64, pageSize int) (Result, error) {
	if userID <= 0 {
		return Result{}, ErrValidation
	}
	if s.candidates == nil || s.profiles == nil {
		return Result{}, fmt.Errorf("feed dependencies are not configured")
	}

	viewer, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrProfileNotFound) {
			return Result{}, ErrNotFound
		}
		return Result{}, fmt.Errorf("load feed viewer: %w", err)
	}
	if viewer.ProfileCompletion < rules.MinProfileCompletion {
		return Result{}, ErrProfileIncomplete
	}

	now := s.now().UTC()
	pageSize = s.resolvePageSize(viewer.IsPremium, pageSize)

	candidates, err := s.candidates.ListCandidates(ctx, s.buildQuery(viewer, now))
	if err != nil {
		return Result{}, fmt.Errorf("list feed candidates: %w", err)
	}

	ranked := s.rank(viewer, candidates, now)
	totalFound := len(ranked)
	if len(ranked) > pageSize {
		ranked = ranked[:pageSize]
	}
	s.shuffle(len(ranked), func(i, j int) {
		ranked[i], ranked[j] = ranked[j], ranked[i]
	})

	items := make([]Item, 0, len(ranked))
	for _, rc := range ranked {
		items = append(items, s.buildItem(ctx, viewer, rc, now))
	}

	result := Result{Items: items, PageSize: pageSize, TotalFound: totalFound}
	if s.quota != nil {
		snapshot, err := s.quota.GetSnapshot(ctx, userID, viewer.IsPremium)
		if err != nil {
			return Result{}, fmt.Errorf("read quota snapshot: %w", err)
		}
		result.Quota = snapshot
	}

	return result, nil
}

type rankedCandidate struct {
	profile model.Profile
	score   int
}

// rank orders candidates best first by the advanced compatibility score.
// Premium viewers sort on score alone; free viewers see verified candidates
// ahead of unverified ones, then score. Ties break on recency.
func (s *Service) rank(viewer model.Profile, candidates []model.Profile, now time.Time) []rankedCandidate {
	ranked := make([]rankedCandidate, 0, len(candidates))
	for _, candidate := range candidates {
		ranked = append(ranked, rankedCandidate{
			profile: candidate,
			score:   scoring.AdvancedScore(viewer, candidate, now),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if !viewer.IsPremium && a.profile.IsVerified != b.profile.IsVerified {
			return a.profile.IsVerified
		}
		if a.score != b.score {
			return a.score > b.score
		}
		return a.profile.LastActive.After(b.profile.LastActive)
	})

	return ranked
}

func (s *Service) buildQuery(viewer model.Profile, now time.Time) pgrepo.CandidateQuery {
	q := pgrepo.CandidateQuery{
		ViewerUserID: viewer.UserID,
		Genders:      viewer.Preferences.Genders,
		Religions:    viewer.Preferences.Religions,
		Professions:  viewer.Preferences.Professions,
		SwipeCutoff:  now.Add(-rules.SwipeRetention),
		Limit:        s.cfg.FreeQueryLimit,
		Now:          now,
	}
	if viewer.IsPremium {
		q.Limit = s.cfg.PremiumQueryLimit
	}
	if rng := viewer.Preferences.AgeRange; rng != nil {
		q.AgeMin = rng.Min
		q.AgeMax = rng.Max
	}
	if viewer.HasCoordinates() && viewer.Preferences.MaxDistanceKM > 0 {
		radius := viewer.Preferences.MaxDistanceKM
		if s.cfg.MaxRadiusKM > 0 && radius > s.cfg.MaxRadiusKM {
			radius = s.cfg.MaxRadiusKM
		}
		q.RadiusKM = radius
		q.ViewerLat = viewer.Lat
		q.ViewerLon = viewer.Lon
	}
	return q
}

func (s *Service) buildItem(ctx context.Context, viewer model.Profile, rc rankedCandidate, now time.Time) Item {
	candidate := rc.profile
	item := Item{
		UserID:     candidate.UserID,
		FirstName:  candidate.FirstName,
		City:       candidate.City,
		Country:    candidate.Country,
		Profession: candidate.Profession,
		Skills:     candidate.Skills,
		Score:      rc.score,
		IsVerified: candidate.IsVerified,
	}
	if candidate.BirthDate != nil {
		item.Age = candidate.AgeAt(now)
	}
	if viewer.HasCoordinates() && candidate.HasCoordinates() {
		distance := geo.DistanceKM(*viewer.Lat, *viewer.Lon, *candidate.Lat, *candidate.Lon)
		item.DistanceKM = &distance
	}
	if s.photoSign != nil {
		if key := candidate.PrimaryPhotoKey(); key != "" {
			// A failed presign drops the photo, not the card.
			if url, err := s.photoSign.PresignGet(ctx, key, feedPhotoURLTTL); err == nil {
				item.PrimaryPhotoURL = &url
			}
		}
	}
	return item
}

func (s *Service) resolvePageSize(isPremium bool, requested int) int {
	limit := s.cfg.FreePageSize
	if isPremium {
		limit = s.cfg.PremiumPageSize
	}
	if requested <= 0 || requested > limit {
		return limit
	}
	return requested
}
