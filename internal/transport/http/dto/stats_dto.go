package dto

type SwipeActionCountsResponse struct {
	Likes      int `json:"likes"`
	Passes     int `json:"passes"`
	SuperLikes int `json:"superlikes"`
}

type StatsResponse struct {
	Sent              SwipeActionCountsResponse `json:"sent"`
	Received          SwipeActionCountsResponse `json:"received"`
	ActiveMatches     int                       `json:"active_matches"`
	MatchRate         float64                   `json:"match_rate"`
	ProfileCompletion int                       `json:"profile_completion"`
	Quota             QuotaSnapshotResponse     `json:"quota"`
}
