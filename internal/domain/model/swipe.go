package model

import (
	"time"

	"github.com/sidgureja7803/dev-tinder-server/internal/domain/enums"
)

// Swipe is one directional action. At most one row exists per ordered
// (actor, target) pair; re-swiping overwrites action and timestamp.
type Swipe struct {
	ID           int64             `json:"id"`
	ActorUserID  int64             `json:"actor_user_id"`
	TargetUserID int64             `json:"target_user_id"`
	Action       enums.SwipeAction `json:"action"`
	CreatedAt    time.Time         `json:"created_at"`
}
