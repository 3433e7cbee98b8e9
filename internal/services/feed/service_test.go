package feed

import (
	"context"
	"testing"
	"time"

	"github.com/sidgureja7803/dev-tinder-server/internal/domain/model"
	"github.com/sidgureja7803/dev-tinder-server/internal/domain/scoring"
	pgrepo "github.com/sidgureja7803/dev-tinder-server/internal/repo/postgres"
	quotasvc "github.com/sidgureja7803/dev-tinder-server/internal/services/quota"
)

var feedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type candidateStoreStub struct {
	lastQuery  pgrepo.CandidateQuery
	candidates []model.Profile
	err        error
}

func (s *candidateStoreStub) ListCandidates(_ context.Context, q pgrepo.CandidateQuery) ([]model.Profile, error) {
	s.lastQuery = q
	return s.candidates, s.err
}

type profileStoreStub struct {
	profiles map[int64]model.Profile
}

func (s *profileStoreStub) GetByID(_ context.Context, userID int64) (model.Profile, error) {
	profile, ok := s.profiles[userID]
	if !ok {
		return model.Profile{}, pgrepo.ErrProfileNotFound
	}
	return profile, nil
}

type quotaViewStub struct {
	snapshot quotasvc.Snapshot
}

func (s *quotaViewStub) GetSnapshot(context.Context, int64, bool) (quotasvc.Snapshot, error) {
	return s.snapshot, nil
}

type signerStub struct {
	calls []string
}

func (s *signerStub) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	s.calls = append(s.calls, key)
	return "https://cdn.test/" + key, nil
}

func newTestService(candidates *candidateStoreStub, profiles *profileStoreStub, signer PhotoURLSigner) *Service {
	svc := NewService(Dependencies{
		Candidates: candidates,
		Profiles:   profiles,
		PhotoSign:  signer,
	}, Config{})
	svc.now = func() time.Time { return feedNow }
	svc.shuffle = func(int, func(i, j int)) {}
	return svc
}

func candidateAged(id int64, age int, skills ...string) model.Profile {
	birth := feedNow.AddDate(-age, 0, -1)
	return model.Profile{
		UserID:     id,
		BirthDate:  &birth,
		Skills:     skills,
		IsVerified: true,
	}
}

func viewerProfile() model.Profile {
	return model.Profile{
		UserID:            1,
		Skills:            []string{"Go", "Python"},
		ProfileCompletion: 90,
		Preferences: model.Preferences{
			AgeRange: &model.AgeRange{Min: 25, Max: 35},
		},
	}
}

func TestGetFeedRejectsIncompleteProfile(t *testing.T) {
	viewer := viewerProfile()
	viewer.ProfileCompletion = 40

	svc := newTestService(
		&candidateStoreStub{},
		&profileStoreStub{profiles: map[int64]model.Profile{1: viewer}},
		nil,
	)

	if _, err := svc.GetFeed(context.Background(), 1, 0); err != ErrProfileIncomplete {
		t.Fatalf("expected ErrProfileIncomplete, got %v", err)
	}
}

func TestGetFeedUnknownViewer(t *testing.T) {
	svc := newTestService(&candidateStoreStub{}, &profileStoreStub{profiles: map[int64]model.Profile{}}, nil)

	if _, err := svc.GetFeed(context.Background(), 99, 0); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetFeedBuildsQueryFromPreferences(t *testing.T) {
	lat, lon := 12.97, 77.59
	viewer := viewerProfile()
	viewer.Lat = &lat
	viewer.Lon = &lon
	viewer.Preferences.Genders = []string{"female"}
	viewer.Preferences.MaxDistanceKM = 50

	store := &candidateStoreStub{}
	svc := newTestService(store, &profileStoreStub{profiles: map[int64]model.Profile{1: viewer}}, nil)

	if _, err := svc.GetFeed(context.Background(), 1, 0); err != nil {
		t.Fatalf("get feed: %v", err)
	}

	q := store.lastQuery
	if q.AgeMin != 25 || q.AgeMax != 35 {
		t.Fatalf("age bounds: got [%d,%d]", q.AgeMin, q.AgeMax)
	}
	if len(q.Genders) != 1 || q.Genders[0] != "female" {
		t.Fatalf("genders: got %v", q.Genders)
	}
	if q.RadiusKM != 50 || q.ViewerLat == nil || q.ViewerLon == nil {
		t.Fatalf("radius not propagated: %+v", q)
	}
	if q.Limit != 100 {
		t.Fatalf("free query limit: got %d want 100", q.Limit)
	}
	wantCutoff := feedNow.Add(-30 * 24 * time.Hour)
	if !q.SwipeCutoff.Equal(wantCutoff) {
		t.Fatalf("swipe cutoff: got %v want %v", q.SwipeCutoff, wantCutoff)
	}
}

func TestGetFeedPremiumGetsLargerWindow(t *testing.T) {
	viewer := viewerProfile()
	viewer.IsPremium = true

	store := &candidateStoreStub{}
	svc := newTestService(store, &profileStoreStub{profiles: map[int64]model.Profile{1: viewer}}, nil)

	result, err := svc.GetFeed(context.Background(), 1, 0)
	if err != nil {
		t.Fatalf("get feed: %v", err)
	}
	if store.lastQuery.Limit != 200 {
		t.Fatalf("premium query limit: got %d want 200", store.lastQuery.Limit)
	}
	if result.PageSize != 50 {
		t.Fatalf("premium page size: got %d want 50", result.PageSize)
	}
}

func TestGetFeedRanksBestFirst(t *testing.T) {
	viewer := viewerProfile()

	// Strong skill overlap beats none.
	strong := candidateAged(2, 28, "Go", "Python")
	weak := candidateAged(3, 28, "Cooking")
	store := &candidateStoreStub{candidates: []model.Profile{weak, strong}}
	svc := newTestService(store, &profileStoreStub{profiles: map[int64]model.Profile{1: viewer}}, nil)

	result, err := svc.GetFeed(context.Background(), 1, 0)
	if err != nil {
		t.Fatalf("get feed: %v", err)
	}
	if len(result.Items) != 2 {
		t.Fatalf("items: got %d want 2", len(result.Items))
	}
	if result.Items[0].UserID != 2 {
		t.Fatalf("expected candidate 2 first, got %d", result.Items[0].UserID)
	}
	if result.Items[0].Score <= result.Items[1].Score {
		t.Fatalf("scores not descending: %d then %d", result.Items[0].Score, result.Items[1].Score)
	}
}

func TestGetFeedFreeTierRanksVerifiedFirst(t *testing.T) {
	viewer := viewerProfile()

	unverifiedStrong := candidateAged(2, 28, "Go", "Python")
	unverifiedStrong.IsVerified = false
	verifiedWeak := candidateAged(3, 28, "Cooking")

	store := &candidateStoreStub{candidates: []model.Profile{unverifiedStrong, verifiedWeak}}
	svc := newTestService(store, &profileStoreStub{profiles: map[int64]model.Profile{1: viewer}}, nil)

	result, err := svc.GetFeed(context.Background(), 1, 0)
	if err != nil {
		t.Fatalf("get feed: %v", err)
	}
	if len(result.Items) != 2 {
		t.Fatalf("items: got %d want 2", len(result.Items))
	}
	if result.Items[0].UserID != 3 {
		t.Fatalf("expected verified candidate 3 first, got %d (scores %d, %d)",
			result.Items[0].UserID, result.Items[0].Score, result.Items[1].Score)
	}
	if result.Items[0].Score >= result.Items[1].Score {
		t.Fatalf("verified candidate should outrank despite lower score: %d vs %d",
			result.Items[0].Score, result.Items[1].Score)
	}
}

func TestGetFeedScoresCarryBonuses(t *testing.T) {
	viewer := viewerProfile()

	candidate := candidateAged(2, 28, "Cooking")
	candidate.LastActive = feedNow.Add(-time.Hour)

	store := &candidateStoreStub{candidates: []model.Profile{candidate}}
	svc := newTestService(store, &profileStoreStub{profiles: map[int64]model.Profile{1: viewer}}, nil)

	result, err := svc.GetFeed(context.Background(), 1, 0)
	if err != nil {
		t.Fatalf("get feed: %v", err)
	}

	// Free viewers rank on the same advanced score premium viewers see.
	want := scoring.AdvancedScore(viewer, candidate, feedNow)
	if result.Items[0].Score != want {
		t.Fatalf("score: got %d want %d", result.Items[0].Score, want)
	}
	if base := scoring.Score(viewer, candidate, feedNow); result.Items[0].Score <= base {
		t.Fatalf("bonuses not applied: advanced %d vs base %d", result.Items[0].Score, base)
	}
}

func TestGetFeedTruncatesToPageSize(t *testing.T) {
	viewer := viewerProfile()

	candidates := make([]model.Profile, 0, 30)
	for i := int64(2); i < 32; i++ {
		candidates = append(candidates, candidateAged(i, 28, "Go"))
	}
	store := &candidateStoreStub{candidates: candidates}
	svc := newTestService(store, &profileStoreStub{profiles: map[int64]model.Profile{1: viewer}}, nil)

	result, err := svc.GetFeed(context.Background(), 1, 0)
	if err != nil {
		t.Fatalf("get feed: %v", err)
	}
	if len(result.Items) != 20 {
		t.Fatalf("items: got %d want 20", len(result.Items))
	}
	if result.TotalFound != 30 {
		t.Fatalf("total found: got %d want 30", result.TotalFound)
	}
}

func TestGetFeedIncludesQuotaSnapshot(t *testing.T) {
	viewer := viewerProfile()
	store := &candidateStoreStub{}
	svc := newTestService(store, &profileStoreStub{profiles: map[int64]model.Profile{1: viewer}}, nil)
	svc.quota = &quotaViewStub{snapshot: quotasvc.Snapshot{SwipesLeft: 12, SuperLikesLeft: 1}}

	result, err := svc.GetFeed(context.Background(), 1, 0)
	if err != nil {
		t.Fatalf("get feed: %v", err)
	}
	if result.Quota.SwipesLeft != 12 || result.Quota.SuperLikesLeft != 1 {
		t.Fatalf("quota snapshot: got %+v", result.Quota)
	}
}

func TestGetFeedAttachesDistanceAndPhoto(t *testing.T) {
	lat, lon := 12.9716, 77.5946
	viewer := viewerProfile()
	viewer.Lat = &lat
	viewer.Lon = &lon

	candLat, candLon := 13.0827, 80.2707
	candidate := candidateAged(2, 28, "Go")
	candidate.Lat = &candLat
	candidate.Lon = &candLon
	candidate.Photos = []model.Photo{{ObjectKey: "photos/2/main.jpg", IsPrimary: true}}

	signer := &signerStub{}
	store := &candidateStoreStub{candidates: []model.Profile{candidate}}
	svc := newTestService(store, &profileStoreStub{profiles: map[int64]model.Profile{1: viewer}}, signer)

	result, err := svc.GetFeed(context.Background(), 1, 0)
	if err != nil {
		t.Fatalf("get feed: %v", err)
	}
	item := result.Items[0]
	if item.DistanceKM == nil || *item.DistanceKM < 280 || *item.DistanceKM > 300 {
		t.Fatalf("distance: got %v, expected ~290", item.DistanceKM)
	}
	if item.PrimaryPhotoURL == nil || *item.PrimaryPhotoURL != "https://cdn.test/photos/2/main.jpg" {
		t.Fatalf("photo url: got %v", item.PrimaryPhotoURL)
	}
	if len(signer.calls) != 1 {
		t.Fatalf("signer calls: got %d want 1", len(signer.calls))
	}
}

func TestGetFeedRequestedPageSizeCapped(t *testing.T) {
	viewer := viewerProfile()
	store := &candidateStoreStub{}
	svc := newTestService(store, &profileStoreStub{profiles: map[int64]model.Profile{1: viewer}}, nil)

	result, err := svc.GetFeed(context.Background(), 1, 500)
	if err != nil {
		t.Fatalf("get feed: %v", err)
	}
	if result.PageSize != 20 {
		t.Fatalf("page size: got %d want 20", result.PageSize)
	}

	result, err = svc.GetFeed(context.Background(), 1, 5)
	if err != nil {
		t.Fatalf("get feed: %v", err)
	}
	if result.PageSize != 5 {
		t.Fatalf("page size: got %d want 5", result.PageSize)
	}
}
