package handlers

import (
	"errors"
	"net/http"

	authsvc "github.com/sidgureja7803/dev-tinder-server/internal/services/auth"
	swipesvc "github.com/sidgureja7803/dev-tinder-server/internal/services/swipes"
	"github.com/sidgureja7803/dev-tinder-server/internal/transport/http/dto"
	httperrors "github.com/sidgureja7803/dev-tinder-server/internal/transport/http/errors"
)

type StatsHandler struct {
	service *swipesvc.Service
}

func NewStatsHandler(service *swipesvc.Service) *StatsHandler {
	return &StatsHandler{service: service}
}

func (h *StatsHandler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "SWIPE_SERVICE_UNAVAILABLE", "swipe service is unavailable")
		return
	}

	stats, err := h.service.Stats(r.Context(), identity.UserID)
	if err != nil {
		switch {
		case errors.Is(err, swipesvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid stats request")
		case errors.Is(err, swipesvc.ErrTargetNotFound):
			writeNotFound(w, "PROFILE_NOT_FOUND", "profile not found")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to load swipe stats")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.StatsResponse{
		Sent: dto.SwipeActionCountsResponse{
			Likes:      stats.Sent.Likes,
			Passes:     stats.Sent.Passes,
			SuperLikes: stats.Sent.SuperLikes,
		},
		Received: dto.SwipeActionCountsResponse{
			Likes:      stats.Received.Likes,
			Passes:     stats.Received.Passes,
			SuperLikes: stats.Received.SuperLikes,
		},
		ActiveMatches:     stats.ActiveMatches,
		MatchRate:         stats.MatchRate,
		ProfileCompletion: stats.ProfileCompletion,
		Quota:             mapQuotaSnapshot(stats.Quota),
	})
}
