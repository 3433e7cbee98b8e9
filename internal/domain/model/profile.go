package model

import "time"

type Photo struct {
	ObjectKey string `json:"object_key"`
	IsPrimary bool   `json:"is_primary"`
}

type AgeRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Preferences holds the actor-side matching filters. Nil / empty fields mean
// "no preference stated" and are skipped by both the candidate query and the
// scorer; the wildcard religion value "any" accepts everything.
type Preferences struct {
	AgeRange      *AgeRange `json:"age_range"`
	Genders       []string  `json:"genders"`
	Religions     []string  `json:"religions"`
	Professions   []string  `json:"professions"`
	MaxDistanceKM int       `json:"max_distance_km"`
}

type Profile struct {
	UserID            int64       `json:"user_id"`
	FirstName         string      `json:"first_name"`
	LastName          string      `json:"last_name"`
	BirthDate         *time.Time  `json:"birth_date"`
	Gender            string      `json:"gender"`
	Religion          string      `json:"religion"`
	Profession        string      `json:"profession"`
	EducationLevel    string      `json:"education_level"`
	Skills            []string    `json:"skills"`
	Lat               *float64    `json:"lat"`
	Lon               *float64    `json:"lon"`
	City              string      `json:"city"`
	Country           string      `json:"country"`
	IsVerified        bool        `json:"is_verified"`
	IsPremium         bool        `json:"is_premium"`
	ProfileComplete   bool        `json:"profile_complete"`
	ProfileCompletion int         `json:"profile_completion"`
	Preferences       Preferences `json:"preferences"`
	LastActive        time.Time   `json:"last_active"`
	Photos            []Photo     `json:"photos"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

func (p Profile) AgeAt(now time.Time) int {
	if p.BirthDate == nil {
		return 0
	}
	birth := p.BirthDate.UTC()
	now = now.UTC()
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}

func (p Profile) HasCoordinates() bool {
	return p.Lat != nil && p.Lon != nil
}

// PrimaryPhotoKey returns the primary photo's object key, falling back to the
// first photo when none is flagged.
func (p Profile) PrimaryPhotoKey() string {
	for _, photo := range p.Photos {
		if photo.IsPrimary {
			return photo.ObjectKey
		}
	}
	if len(p.Photos) > 0 {
		return p.Photos[0].ObjectKey
	}
	return ""
}
