package dto

type FeedItemResponse struct {
	UserID          int64    `json:"user_id"`
	FirstName       string   `json:"first_name"`
	Age             int      `json:"age,omitempty"`
	City            string   `json:"city,omitempty"`
	Country         string   `json:"country,omitempty"`
	Profession      string   `json:"profession,omitempty"`
	Skills          []string `json:"skills,omitempty"`
	Score           int      `json:"score"`
	IsVerified      bool     `json:"is_verified"`
	DistanceKM      *float64 `json:"distance_km,omitempty"`
	PrimaryPhotoURL *string  `json:"primary_photo_url,omitempty"`
}

type FeedResponse struct {
	Items      []FeedItemResponse    `json:"items"`
	PageSize   int                   `json:"page_size"`
	TotalFound int                   `json:"total_found"`
	Quota      QuotaSnapshotResponse `json:"quota"`
}
