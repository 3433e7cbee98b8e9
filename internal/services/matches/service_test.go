package matches

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sidgureja7803/dev-tinder-server/internal/domain/enums"
	"github.com/sidgureja7803/dev-tinder-server/internal/domain/model"
	pgrepo "github.com/sidgureja7803/dev-tinder-server/internal/repo/postgres"
)

type matchStoreStub struct {
	records   []pgrepo.MatchListRecord
	pairMatch *model.Match
	lastLimit int
}

func (s *matchStoreStub) ListActiveForUser(_ context.Context, _ int64, limit int) ([]pgrepo.MatchListRecord, error) {
	s.lastLimit = limit
	return s.records, nil
}

func (s *matchStoreStub) FindByPair(context.Context, int64, int64) (model.Match, error) {
	if s.pairMatch == nil {
		return model.Match{}, pgrepo.ErrMatchNotFound
	}
	return *s.pairMatch, nil
}

func (s *matchStoreStub) Deactivate(context.Context, pgx.Tx, int64, int64) (bool, error) {
	return false, nil
}

type signerStub struct {
	calls int
}

func (s *signerStub) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	s.calls++
	return "https://cdn.test/" + key, nil
}

func TestListMapsRecords(t *testing.T) {
	matchedAt := time.Date(2026, 2, 14, 9, 0, 0, 0, time.UTC)
	store := &matchStoreStub{records: []pgrepo.MatchListRecord{
		{
			Match: model.Match{
				ID:              11,
				UserAID:         1,
				UserBID:         2,
				MatchType:       enums.MatchTypeSuperLike,
				MatchScore:      88,
				MutualInterests: []string{"Go"},
				IsActive:        true,
				MatchedAt:       matchedAt,
			},
			TargetUserID:    2,
			TargetFirstName: "Asha",
			TargetPhotoKey:  "photos/2/main.jpg",
		},
	}}
	signer := &signerStub{}
	svc := NewService(Dependencies{Store: store, PhotoSign: signer})

	items, err := svc.List(context.Background(), 1, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if store.lastLimit != 100 {
		t.Fatalf("default limit: got %d want 100", store.lastLimit)
	}
	if len(items) != 1 {
		t.Fatalf("items: got %d want 1", len(items))
	}
	item := items[0]
	if item.MatchID != 11 || item.UserID != 2 || item.FirstName != "Asha" {
		t.Fatalf("mapped item: %+v", item)
	}
	if item.MatchType != enums.MatchTypeSuperLike || item.Score != 88 {
		t.Fatalf("match metadata: %+v", item)
	}
	if item.PhotoURL == nil || *item.PhotoURL != "https://cdn.test/photos/2/main.jpg" {
		t.Fatalf("photo url: %v", item.PhotoURL)
	}
	if signer.calls != 1 {
		t.Fatalf("signer calls: got %d want 1", signer.calls)
	}
}

func TestListRejectsInvalidUser(t *testing.T) {
	svc := NewService(Dependencies{Store: &matchStoreStub{}})
	if _, err := svc.List(context.Background(), 0, 10); err != ErrValidation {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestUnmatchRejectsSelf(t *testing.T) {
	svc := NewService(Dependencies{Store: &matchStoreStub{}})
	if err := svc.Unmatch(context.Background(), 4, 4); err != ErrValidation {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestGetForPairResolvesOtherUser(t *testing.T) {
	store := &matchStoreStub{pairMatch: &model.Match{
		ID:         9,
		UserAID:    1,
		UserBID:    7,
		MatchType:  enums.MatchTypeRegular,
		MatchScore: 64,
		IsActive:   false,
	}}
	svc := NewService(Dependencies{Store: store})

	item, active, err := svc.GetForPair(context.Background(), 7, 1)
	if err != nil {
		t.Fatalf("get for pair: %v", err)
	}
	if item.MatchID != 9 || item.UserID != 1 {
		t.Fatalf("mapped item: %+v", item)
	}
	if active {
		t.Fatalf("deactivated match must report inactive")
	}
}

func TestGetForPairMissingMatch(t *testing.T) {
	svc := NewService(Dependencies{Store: &matchStoreStub{}})

	if _, _, err := svc.GetForPair(context.Background(), 1, 2); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
