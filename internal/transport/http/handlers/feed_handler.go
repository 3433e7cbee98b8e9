package handlers

import (
	"errors"
	"net/http"

	authsvc "github.com/sidgureja7803/dev-tinder-server/internal/services/auth"
	feedsvc "github.com/sidgureja7803/dev-tinder-server/internal/services/feed"
	"github.com/sidgureja7803/dev-tinder-server/internal/transport/http/dto"
	httperrors "github.com/sidgureja7803/dev-tinder-server/internal/transport/http/errors"
)

type FeedHandler struct {
	service *feedsvc.Service
}

func NewFeedHandler(service *feedsvc.Service) *FeedHandler {
	return &FeedHandler{service: service}
}

func (h *FeedHandler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "FEED_SERVICE_UNAVAILABLE", "feed service is unavailable")
		return
	}

	pageSize := parseIntOrDefault(r.URL.Query().Get("page_size"), 0)

	result, err := h.service.GetFeed(r.Context(), identity.UserID, pageSize)
	if err != nil {
		switch {
		case errors.Is(err, feedsvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid feed request")
		case errors.Is(err, feedsvc.ErrNotFound):
			writeNotFound(w, "PROFILE_NOT_FOUND", "viewer profile not found")
		case errors.Is(err, feedsvc.ErrProfileIncomplete):
			writeForbidden(w, "PROFILE_INCOMPLETE", "complete your profile to browse the feed")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to load feed")
		}
		return
	}

	items := make([]dto.FeedItemResponse, 0, len(result.Items))
	for _, item := range result.Items {
		items = append(items, dto.FeedItemResponse{
			UserID:          item.UserID,
			FirstName:       item.FirstName,
			Age:             item.Age,
			City:            item.City,
			Country:         item.Country,
			Profession:      item.Profession,
			Skills:          item.Skills,
			Score:           item.Score,
			IsVerified:      item.IsVerified,
			DistanceKM:      item.DistanceKM,
			PrimaryPhotoURL: item.PrimaryPhotoURL,
		})
	}

	httperrors.Write(w, http.StatusOK, dto.FeedResponse{
		Items:      items,
		PageSize:   result.PageSize,
		TotalFound: result.TotalFound,
		Quota:      mapQuotaSnapshot(result.Quota),
	})
}
