package dto

import "time"

// QuotaSnapshotResponse mirrors the quota widget. -1 means unlimited.
type QuotaSnapshotResponse struct {
	SwipesLeft     int       `json:"swipes_left"`
	SuperLikesLeft int       `json:"superlikes_left"`
	ResetAt        time.Time `json:"reset_at"`
	IsPremium      bool      `json:"is_premium"`
}
