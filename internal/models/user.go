package models

import (
	"strings"
	"time"

	"github.com/joshua-takyi/localinsights/internal/helpers"
)

const avatarServiceURL = "https://ui-avatars.com/api/"

// User is the session identity. It is fabricated client-side on login or
// registration; nothing about it is verified.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// AvatarFor builds the generated-initials avatar URL for a display name.
func AvatarFor(name string) string {
	return avatarServiceURL + "?name=" + helpers.EncodeURIComponent(name) + "&background=random"
}

// EmailKey normalises an email for directory lookups.
func EmailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type Budget string

const (
	BudgetLow    Budget = "low"
	BudgetMedium Budget = "medium"
	BudgetHigh   Budget = "high"
)

type Mood string

const (
	MoodExplorer    Mood = "explorer"
	MoodRelaxed     Mood = "relaxed"
	MoodAdventurous Mood = "adventurous"
	MoodSocial      Mood = "social"
)

type Language string

const (
	LanguageFR Language = "fr"
	LanguageEN Language = "en"
	LanguageES Language = "es"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ProfileLocation is where the user says they are.
type ProfileLocation struct {
	Lat  float64 `json:"lat" validate:"latitude"`
	Lng  float64 `json:"lng" validate:"longitude"`
	City string  `json:"city"`
}

// UserProfile is captured by onboarding.
type UserProfile struct {
	ID            string           `json:"id"`
	Name          string           `json:"name" validate:"required"`
	Email         string           `json:"email" validate:"omitempty,email"`
	Interests     []string         `json:"interests"`
	Budget        Budget           `json:"budget" validate:"required,oneof=low medium high"`
	Accessibility []string         `json:"accessibility"`
	Mood          Mood             `json:"mood" validate:"required,oneof=explorer relaxed adventurous social"`
	Language      Language         `json:"language" validate:"required,oneof=fr en es"`
	Location      *ProfileLocation `json:"location,omitempty" validate:"omitempty"`
}

type Preferences struct {
	Theme    Theme    `json:"theme" validate:"omitempty,oneof=light dark"`
	Language Language `json:"language" validate:"omitempty,oneof=fr en es"`
}

func DefaultPreferences() Preferences {
	return Preferences{Theme: ThemeLight, Language: LanguageFR}
}
