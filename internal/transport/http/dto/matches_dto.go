package dto

import "time"

type MatchItemResponse struct {
	MatchID         int64      `json:"match_id"`
	UserID          int64      `json:"user_id"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name,omitempty"`
	PhotoURL        *string    `json:"photo_url,omitempty"`
	MatchType       string     `json:"match_type"`
	Score           int        `json:"score"`
	MutualInterests []string   `json:"mutual_interests"`
	MatchedAt       time.Time  `json:"matched_at"`
	LastMessageAt   *time.Time `json:"last_message_at,omitempty"`
}

type MatchesResponse struct {
	Items []MatchItemResponse `json:"items"`
}

type MatchDetailResponse struct {
	MatchItemResponse
	IsActive bool `json:"is_active"`
}

type UnmatchRequest struct {
	TargetID int64 `json:"target_id"`
}

type UnmatchResponse struct {
	OK bool `json:"ok"`
}
