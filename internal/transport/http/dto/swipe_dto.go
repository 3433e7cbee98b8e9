package dto

import "time"

type SwipeRequest struct {
	TargetID int64  `json:"target_id"`
	Action   string `json:"action"`
}

type MatchSummaryResponse struct {
	ID              int64     `json:"id"`
	TargetUserID    int64     `json:"target_user_id"`
	MatchType       string    `json:"match_type"`
	Score           int       `json:"score"`
	MutualInterests []string  `json:"mutual_interests"`
	MatchedAt       time.Time `json:"matched_at"`
	Reactivated     bool      `json:"reactivated"`
}

type SwipeResponse struct {
	Action  string                `json:"action"`
	IsMatch bool                  `json:"is_match"`
	Match   *MatchSummaryResponse `json:"match,omitempty"`
	Quota   QuotaSnapshotResponse `json:"quota"`
}
