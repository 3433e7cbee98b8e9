package scoring

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/sidgureja7803/dev-tinder-server/internal/domain/model"
)

// Factor weights. The denominator only accumulates weights whose required
// fields are present on both sides, so missing data never drags the score
// toward zero.
const (
	weightAge        = 20
	weightSkills     = 25
	weightEducation  = 15
	weightProfession = 15
	weightReligion   = 10
	weightLocation   = 15
)

// Bonus points layered on top of the base score by AdvancedScore.
const (
	bonusActiveDay      = 10
	bonusActiveWeek     = 5
	bonusVerified       = 5
	bonusComplete       = 5
	bonusPhotos         = 5
	photoBonusThreshold = 3
)

var educationLevels = []string{"high-school", "diploma", "bachelors", "masters", "phd"}

var techProfessions = map[string]struct{}{
	"software-engineer": {},
	"data-scientist":    {},
	"product-manager":   {},
	"designer":          {},
}

// Score computes the base compatibility of b for a, 0..100. Pure and
// deterministic; now is only used to derive b's age. Not guaranteed symmetric:
// the age and religion factors apply a's stated preferences to b.
func Score(a, b model.Profile, now time.Time) int {
	achieved := 0.0
	achievable := 0

	if pts, ok := ageFit(a, b, now); ok {
		achieved += pts
		achievable += weightAge
	}
	if pts, ok := skillOverlap(a, b); ok {
		achieved += pts
		achievable += weightSkills
	}
	if pts, ok := educationFit(a, b); ok {
		achieved += pts
		achievable += weightEducation
	}
	if pts, ok := professionFit(a, b); ok {
		achieved += pts
		achievable += weightProfession
	}
	if pts, ok := religionFit(a, b); ok {
		achieved += pts
		achievable += weightReligion
	}
	if pts, ok := locationFit(a, b); ok {
		achieved += pts
		achievable += weightLocation
	}

	if achievable == 0 {
		return 0
	}
	return int(math.Round(achieved / float64(achievable) * 100))
}

// AdvancedScore adds activity, verification, completeness and photo bonuses
// on top of the base score, clamped to 100. Used for feed ranking; match
// records store the base score.
func AdvancedScore(a, b model.Profile, now time.Time) int {
	score := Score(a, b, now)

	sinceActive := now.Sub(b.LastActive)
	switch {
	case !b.LastActive.IsZero() && sinceActive < 24*time.Hour:
		score += bonusActiveDay
	case !b.LastActive.IsZero() && sinceActive < 7*24*time.Hour:
		score += bonusActiveWeek
	}

	if b.IsVerified {
		score += bonusVerified
	}
	if b.ProfileComplete {
		score += bonusComplete
	}
	if len(b.Photos) >= photoBonusThreshold {
		score += bonusPhotos
	}

	if score > 100 {
		return 100
	}
	return score
}

// MutualInterests returns the sorted intersection of both skill sets.
func MutualInterests(a, b model.Profile) []string {
	if len(a.Skills) == 0 || len(b.Skills) == 0 {
		return nil
	}

	theirs := make(map[string]struct{}, len(b.Skills))
	for _, skill := range b.Skills {
		theirs[normalizeSkill(skill)] = struct{}{}
	}

	seen := make(map[string]struct{})
	var common []string
	for _, skill := range a.Skills {
		key := normalizeSkill(skill)
		if key == "" {
			continue
		}
		if _, ok := theirs[key]; !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		common = append(common, skill)
	}

	sort.Strings(common)
	return common
}

// TopMutualInterests caps the intersection for match metadata.
func TopMutualInterests(a, b model.Profile, n int) []string {
	common := MutualInterests(a, b)
	if n > 0 && len(common) > n {
		common = common[:n]
	}
	return common
}

func ageFit(a, b model.Profile, now time.Time) (float64, bool) {
	if a.Preferences.AgeRange == nil || b.BirthDate == nil {
		return 0, false
	}

	age := b.AgeAt(now)
	rng := a.Preferences.AgeRange
	if age >= rng.Min && age <= rng.Max {
		return weightAge, true
	}

	dist := minInt(absInt(age-rng.Min), absInt(age-rng.Max))
	pts := weightAge - 2*dist
	if pts < 0 {
		pts = 0
	}
	return float64(pts), true
}

func skillOverlap(a, b model.Profile) (float64, bool) {
	if len(a.Skills) == 0 || len(b.Skills) == 0 {
		return 0, false
	}

	common := len(MutualInterests(a, b))
	larger := maxInt(len(a.Skills), len(b.Skills))
	return float64(common) / float64(larger) * weightSkills, true
}

func educationFit(a, b model.Profile) (float64, bool) {
	levelA := educationIndex(a.EducationLevel)
	levelB := educationIndex(b.EducationLevel)
	if levelA < 0 || levelB < 0 {
		return 0, false
	}

	if levelA == levelB {
		return weightEducation, true
	}
	pts := weightEducation - 3*absInt(levelA-levelB)
	if pts < 0 {
		pts = 0
	}
	return float64(pts), true
}

func professionFit(a, b model.Profile) (float64, bool) {
	profA := strings.ToLower(strings.TrimSpace(a.Profession))
	profB := strings.ToLower(strings.TrimSpace(b.Profession))
	if profA == "" || profB == "" {
		return 0, false
	}

	if profA == profB {
		return weightProfession, true
	}
	_, techA := techProfessions[profA]
	_, techB := techProfessions[profB]
	if techA && techB {
		return 8, true
	}
	return 3, true
}

func religionFit(a, b model.Profile) (float64, bool) {
	if len(a.Preferences.Religions) == 0 || strings.TrimSpace(b.Religion) == "" {
		return 0, false
	}

	target := strings.ToLower(strings.TrimSpace(b.Religion))
	for _, accepted := range a.Preferences.Religions {
		value := strings.ToLower(strings.TrimSpace(accepted))
		if value == "any" || value == target {
			return weightReligion, true
		}
	}
	return 0, true
}

// locationFit awards full credit whenever both sides carry coordinates; the
// distance constraint itself is enforced by the candidate query.
func locationFit(a, b model.Profile) (float64, bool) {
	if !a.HasCoordinates() || !b.HasCoordinates() {
		return 0, false
	}
	return weightLocation, true
}

func educationIndex(level string) int {
	value := strings.ToLower(strings.TrimSpace(level))
	for i, known := range educationLevels {
		if known == value {
			return i
		}
	}
	return -1
}

func normalizeSkill(skill string) string {
	return strings.ToLower(strings.TrimSpace(skill))
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
