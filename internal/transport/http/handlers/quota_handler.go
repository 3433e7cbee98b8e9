package handlers

import (
	"errors"
	"net/http"

	authsvc "github.com/sidgureja7803/dev-tinder-server/internal/services/auth"
	profilesvc "github.com/sidgureja7803/dev-tinder-server/internal/services/profiles"
	quotasvc "github.com/sidgureja7803/dev-tinder-server/internal/services/quota"
	httperrors "github.com/sidgureja7803/dev-tinder-server/internal/transport/http/errors"
)

type QuotaHandler struct {
	quota    *quotasvc.Service
	profiles *profilesvc.Service
}

func NewQuotaHandler(quota *quotasvc.Service, profiles *profilesvc.Service) *QuotaHandler {
	return &QuotaHandler{quota: quota, profiles: profiles}
}

func (h *QuotaHandler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.quota == nil || h.profiles == nil {
		writeInternal(w, "QUOTA_SERVICE_UNAVAILABLE", "quota service is unavailable")
		return
	}

	profile, err := h.profiles.GetByID(r.Context(), identity.UserID)
	if err != nil {
		if errors.Is(err, profilesvc.ErrNotFound) {
			writeNotFound(w, "PROFILE_NOT_FOUND", "profile not found")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to load quota")
		return
	}

	snapshot, err := h.quota.GetSnapshot(r.Context(), identity.UserID, profile.IsPremium)
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to load quota")
		return
	}

	httperrors.Write(w, http.StatusOK, mapQuotaSnapshot(snapshot))
}
