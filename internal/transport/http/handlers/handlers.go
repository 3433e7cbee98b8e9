package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	quotasvc "github.com/sidgureja7803/dev-tinder-server/internal/services/quota"
	"github.com/sidgureja7803/dev-tinder-server/internal/transport/http/dto"
	httperrors "github.com/sidgureja7803/dev-tinder-server/internal/transport/http/errors"
)

func decodeJSON(r *http.Request, target any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

func writeBadRequest(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusBadRequest, httperrors.APIError{Code: code, Message: message})
}

func writeUnauthorized(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusUnauthorized, httperrors.APIError{Code: code, Message: message})
}

func writeNotFound(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusNotFound, httperrors.APIError{Code: code, Message: message})
}

func writeForbidden(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusForbidden, httperrors.APIError{Code: code, Message: message})
}

func writeInternal(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusInternalServerError, httperrors.APIError{Code: code, Message: message})
}

func parseIntOrDefault(raw string, fallback int) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return value
}

func mapQuotaSnapshot(snapshot quotasvc.Snapshot) dto.QuotaSnapshotResponse {
	return dto.QuotaSnapshotResponse{
		SwipesLeft:     snapshot.SwipesLeft,
		SuperLikesLeft: snapshot.SuperLikesLeft,
		ResetAt:        snapshot.ResetAt.UTC(),
		IsPremium:      snapshot.IsPremium,
	}
}
