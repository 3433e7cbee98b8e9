package enums

type MatchType string

const (
	MatchTypeRegular   MatchType = "regular"
	MatchTypeSuperLike MatchType = "superlike"
)
