package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	authsvc "github.com/sidgureja7803/dev-tinder-server/internal/services/auth"
	matchessvc "github.com/sidgureja7803/dev-tinder-server/internal/services/matches"
	"github.com/sidgureja7803/dev-tinder-server/internal/transport/http/dto"
	httperrors "github.com/sidgureja7803/dev-tinder-server/internal/transport/http/errors"
)

type MatchesHandler struct {
	service *matchessvc.Service
}

func NewMatchesHandler(service *matchessvc.Service) *MatchesHandler {
	return &MatchesHandler{service: service}
}

func (h *MatchesHandler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MATCHES_SERVICE_UNAVAILABLE", "matches service is unavailable")
		return
	}

	items, err := h.service.List(r.Context(), identity.UserID, parseIntOrDefault(r.URL.Query().Get("limit"), 0))
	if err != nil {
		switch {
		case errors.Is(err, matchessvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid matches request")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to load matches")
		}
		return
	}

	responseItems := make([]dto.MatchItemResponse, 0, len(items))
	for _, item := range items {
		responseItems = append(responseItems, dto.MatchItemResponse{
			MatchID:         item.MatchID,
			UserID:          item.UserID,
			FirstName:       item.FirstName,
			LastName:        item.LastName,
			PhotoURL:        item.PhotoURL,
			MatchType:       string(item.MatchType),
			Score:           item.Score,
			MutualInterests: item.MutualInterests,
			MatchedAt:       item.MatchedAt,
			LastMessageAt:   item.LastMessageAt,
		})
	}

	httperrors.Write(w, http.StatusOK, dto.MatchesResponse{Items: responseItems})
}

func (h *MatchesHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MATCHES_SERVICE_UNAVAILABLE", "matches service is unavailable")
		return
	}

	targetID, err := strconv.ParseInt(chi.URLParam(r, "user_id"), 10, 64)
	if err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid user id")
		return
	}

	item, active, err := h.service.GetForPair(r.Context(), identity.UserID, targetID)
	if err != nil {
		switch {
		case errors.Is(err, matchessvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid match request")
		case errors.Is(err, matchessvc.ErrNotFound):
			writeNotFound(w, "MATCH_NOT_FOUND", "no match with this user")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to load match")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.MatchDetailResponse{
		MatchItemResponse: dto.MatchItemResponse{
			MatchID:         item.MatchID,
			UserID:          item.UserID,
			MatchType:       string(item.MatchType),
			Score:           item.Score,
			MutualInterests: item.MutualInterests,
			MatchedAt:       item.MatchedAt,
			LastMessageAt:   item.LastMessageAt,
		},
		IsActive: active,
	})
}

func (h *MatchesHandler) Unmatch(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MATCHES_SERVICE_UNAVAILABLE", "matches service is unavailable")
		return
	}

	var req dto.UnmatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	if err := h.service.Unmatch(r.Context(), identity.UserID, req.TargetID); err != nil {
		switch {
		case errors.Is(err, matchessvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid unmatch request")
		case errors.Is(err, matchessvc.ErrNotFound):
			writeNotFound(w, "MATCH_NOT_FOUND", "no active match with this user")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to unmatch")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.UnmatchResponse{OK: true})
}
