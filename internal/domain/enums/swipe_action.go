package enums

type SwipeAction string

const (
	SwipeActionLike      SwipeAction = "like"
	SwipeActionPass      SwipeAction = "pass"
	SwipeActionSuperLike SwipeAction = "superlike"
)

func (a SwipeAction) Valid() bool {
	switch a {
	case SwipeActionLike, SwipeActionPass, SwipeActionSuperLike:
		return true
	default:
		return false
	}
}

// IsLike reports whether the action counts toward mutual-like detection.
// A pass never does, regardless of the opposite direction.
func (a SwipeAction) IsLike() bool {
	return a == SwipeActionLike || a == SwipeActionSuperLike
}
