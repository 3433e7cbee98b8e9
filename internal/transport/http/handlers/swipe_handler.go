package handlers

import (
	"errors"
	"net/http"
	"time"

	authsvc "github.com/sidgureja7803/dev-tinder-server/internal/services/auth"
	swipesvc "github.com/sidgureja7803/dev-tinder-server/internal/services/swipes"
	"github.com/sidgureja7803/dev-tinder-server/internal/transport/http/dto"
	httperrors "github.com/sidgureja7803/dev-tinder-server/internal/transport/http/errors"
)

type SwipeHandler struct {
	service *swipesvc.Service
}

func NewSwipeHandler(service *swipesvc.Service) *SwipeHandler {
	return &SwipeHandler{service: service}
}

func (h *SwipeHandler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "SWIPE_SERVICE_UNAVAILABLE", "swipe service is unavailable")
		return
	}

	var req dto.SwipeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	result, err := h.service.Swipe(r.Context(), identity.UserID, req.TargetID, req.Action)
	if err != nil {
		h.writeSwipeError(w, err)
		return
	}

	response := dto.SwipeResponse{
		Action:  string(result.Swipe.Action),
		IsMatch: result.IsMatch,
		Quota:   mapQuotaSnapshot(result.Quota),
	}
	if result.Match != nil {
		response.Match = &dto.MatchSummaryResponse{
			ID:              result.Match.ID,
			TargetUserID:    result.Match.TargetUserID,
			MatchType:       string(result.Match.MatchType),
			Score:           result.Match.Score,
			MutualInterests: result.Match.MutualInterests,
			MatchedAt:       result.Match.MatchedAt,
			Reactivated:     result.Match.Reactivated,
		}
	}

	httperrors.Write(w, http.StatusOK, response)
}

func (h *SwipeHandler) writeSwipeError(w http.ResponseWriter, err error) {
	if tooFast, ok := swipesvc.IsTooFast(err); ok {
		cooldownUntil := time.Now().UTC().Add(time.Duration(tooFast.RetryAfter()) * time.Second)
		httperrors.Write(w, http.StatusTooManyRequests, httperrors.RateLimitError{
			Code:          "TOO_FAST",
			Message:       "swiping too fast, slow down",
			RetryAfterSec: tooFast.RetryAfter(),
			CooldownUntil: &cooldownUntil,
		})
		return
	}

	switch {
	case errors.Is(err, swipesvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid swipe request")
	case errors.Is(err, swipesvc.ErrUnsupportedAction):
		writeBadRequest(w, "UNSUPPORTED_ACTION", "action must be like, superlike or pass")
	case errors.Is(err, swipesvc.ErrTargetNotFound):
		writeNotFound(w, "TARGET_NOT_FOUND", "target profile not found")
	case errors.Is(err, swipesvc.ErrSuperLikePremiumOnly):
		writeForbidden(w, "SUPERLIKE_PREMIUM_ONLY", "superlikes are a premium feature")
	case errors.Is(err, swipesvc.ErrDailyLimit):
		httperrors.Write(w, http.StatusTooManyRequests, httperrors.APIError{
			Code:    "DAILY_LIMIT_REACHED",
			Message: "daily swipe limit reached",
		})
	case errors.Is(err, swipesvc.ErrSuperLikeLimit):
		httperrors.Write(w, http.StatusTooManyRequests, httperrors.APIError{
			Code:    "SUPERLIKE_LIMIT_REACHED",
			Message: "daily superlike limit reached",
		})
	default:
		writeInternal(w, "INTERNAL_ERROR", "failed to record swipe")
	}
}
