package model

import (
	"time"

	"github.com/sidgureja7803/dev-tinder-server/internal/domain/enums"
)

// Match is the single record for an unordered user pair, stored with
// UserAID < UserBID. Score and mutual interests are computed once at creation
// and preserved across unmatch/re-match.
type Match struct {
	ID              int64           `json:"id"`
	UserAID         int64           `json:"user_a_id"`
	UserBID         int64           `json:"user_b_id"`
	InitiatorID     int64           `json:"initiator_id"`
	MatchType       enums.MatchType `json:"match_type"`
	MatchScore      int             `json:"match_score"`
	MutualInterests []string        `json:"mutual_interests"`
	IsActive        bool            `json:"is_active"`
	MatchedAt       time.Time       `json:"matched_at"`
	LastMessageAt   *time.Time      `json:"last_message_at"`
}

func (m Match) OtherUserID(userID int64) int64 {
	if m.UserAID == userID {
		return m.UserBID
	}
	return m.UserAID
}

// CanonicalPair returns the two ids in stored order.
func CanonicalPair(a, b int64) (int64, int64) {
	if a > b {
		return b, a
	}
	return a, b
}
