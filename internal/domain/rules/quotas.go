package rules

import "time"

const (
	// FreeSwipesPerDay is the historical free-tier ceiling. Quotas ship
	// disabled (unlimited swipes); the limit stays as the configured default
	// for deployments that re-enable them.
	FreeSwipesPerDay = 50

	// Superlikes are premium-only while caps are on.
	PremiumSuperLikesPerDay = 5
)

// SwipeRetention is how long a swipe stays in the ledger. Exclusion sets and
// mutual-like checks read live rows only, so an expired swipe stops excluding
// the pair from each other's feeds.
const SwipeRetention = 30 * 24 * time.Hour

// MinProfileCompletion gates feed access; below it the caller is told to
// finish onboarding instead of getting candidates.
const MinProfileCompletion = 70

func DayKey(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return now.In(loc).Format("2006-01-02")
}

func NextResetAt(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day()+1, 0, 0, 0, 0, loc)
	return next.UTC()
}
