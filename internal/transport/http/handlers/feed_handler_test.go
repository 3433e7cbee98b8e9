package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sidgureja7803/dev-tinder-server/internal/domain/model"
	pgrepo "github.com/sidgureja7803/dev-tinder-server/internal/repo/postgres"
	authsvc "github.com/sidgureja7803/dev-tinder-server/internal/services/auth"
	feedsvc "github.com/sidgureja7803/dev-tinder-server/internal/services/feed"
)

type feedCandidatesStub struct {
	profiles []model.Profile
}

func (s *feedCandidatesStub) ListCandidates(context.Context, pgrepo.CandidateQuery) ([]model.Profile, error) {
	return s.profiles, nil
}

type feedProfilesStub struct {
	profiles map[int64]model.Profile
}

func (s *feedProfilesStub) GetByID(_ context.Context, userID int64) (model.Profile, error) {
	profile, ok := s.profiles[userID]
	if !ok {
		return model.Profile{}, pgrepo.ErrProfileNotFound
	}
	return profile, nil
}

func TestFeedHandlerReturnsRankedPage(t *testing.T) {
	birth := time.Date(1998, 6, 15, 0, 0, 0, 0, time.UTC)
	viewer := model.Profile{
		UserID:            101,
		FirstName:         "Asha",
		ProfileCompletion: 90,
		LastActive:        time.Now().UTC(),
	}
	candidate := model.Profile{
		UserID:     202,
		FirstName:  "Rohan",
		BirthDate:  &birth,
		City:       "Bangalore",
		Country:    "India",
		Profession: "engineer",
		Skills:     []string{"go", "react"},
		IsVerified: true,
		LastActive: time.Now().UTC(),
	}

	service := feedsvc.NewService(feedsvc.Dependencies{
		Candidates: &feedCandidatesStub{profiles: []model.Profile{candidate}},
		Profiles:   &feedProfilesStub{profiles: map[int64]model.Profile{101: viewer}},
	}, feedsvc.Config{})
	h := NewFeedHandler(service)

	req := httptest.NewRequest(http.MethodGet, "/v1/feed", nil)
	req = req.WithContext(authsvc.WithIdentity(context.Background(), authsvc.Identity{UserID: 101}))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var payload struct {
		Items []struct {
			UserID     int64  `json:"user_id"`
			FirstName  string `json:"first_name"`
			Age        int    `json:"age"`
			IsVerified bool   `json:"is_verified"`
		} `json:"items"`
		PageSize int `json:"page_size"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload.Items) != 1 {
		t.Fatalf("unexpected item count: got %d want 1", len(payload.Items))
	}
	if payload.Items[0].UserID != 202 || payload.Items[0].FirstName != "Rohan" {
		t.Fatalf("unexpected item: %+v", payload.Items[0])
	}
	if payload.Items[0].Age <= 0 {
		t.Fatalf("expected computed age, got %d", payload.Items[0].Age)
	}
	if !payload.Items[0].IsVerified {
		t.Fatalf("expected verified candidate")
	}
	if payload.PageSize != 20 {
		t.Fatalf("unexpected page size: got %d want 20", payload.PageSize)
	}
}

func TestFeedHandlerRejectsIncompleteProfile(t *testing.T) {
	viewer := model.Profile{UserID: 101, ProfileCompletion: 30}

	service := feedsvc.NewService(feedsvc.Dependencies{
		Candidates: &feedCandidatesStub{},
		Profiles:   &feedProfilesStub{profiles: map[int64]model.Profile{101: viewer}},
	}, feedsvc.Config{})
	h := NewFeedHandler(service)

	req := httptest.NewRequest(http.MethodGet, "/v1/feed", nil)
	req = req.WithContext(authsvc.WithIdentity(context.Background(), authsvc.Identity{UserID: 101}))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusForbidden)
	}

	var payload struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Code != "PROFILE_INCOMPLETE" {
		t.Fatalf("unexpected error code: got %q want %q", payload.Code, "PROFILE_INCOMPLETE")
	}
}

func TestFeedHandlerReturnsNotFoundForUnknownViewer(t *testing.T) {
	service := feedsvc.NewService(feedsvc.Dependencies{
		Candidates: &feedCandidatesStub{},
		Profiles:   &feedProfilesStub{profiles: map[int64]model.Profile{}},
	}, feedsvc.Config{})
	h := NewFeedHandler(service)

	req := httptest.NewRequest(http.MethodGet, "/v1/feed", nil)
	req = req.WithContext(authsvc.WithIdentity(context.Background(), authsvc.Identity{UserID: 999}))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusNotFound)
	}
}
