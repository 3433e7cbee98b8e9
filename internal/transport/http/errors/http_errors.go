package errors

import (
	"encoding/json"
	"net/http"
	"time"
)

// APIError is the error body every endpoint returns; Code is a stable
// machine-readable identifier, Message is for humans.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RateLimitError extends APIError for 429 responses with the swipe cooldown.
type RateLimitError struct {
	Code          string     `json:"code"`
	Message       string     `json:"message"`
	RetryAfterSec int64      `json:"retry_after_sec"`
	CooldownUntil *time.Time `json:"cooldown_until"`
}

// Write serializes any payload as JSON with the given status.
func Write(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
