package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventDateLayout = "2006-01-02"
	EventTimeLayout = "15:04"
)

type OrganizerType string

const (
	OrganizerVenue        OrganizerType = "venue"
	OrganizerArtist       OrganizerType = "artist"
	OrganizerOrganization OrganizerType = "organization"
)

type Location struct {
	Name    string  `json:"name" validate:"required"`
	Address string  `json:"address" validate:"required"`
	Lat     float64 `json:"lat" validate:"latitude"`
	Lng     float64 `json:"lng" validate:"longitude"`
	City    string  `json:"city"`
}

// Coordinates returns the location as a point usable for distance checks.
func (l Location) Coordinates() Coordinates {
	return Coordinates{Latitude: l.Lat, Longitude: l.Lng}
}

// Price is the ticket price span of an event. Min == Max == 0 means free.
type Price struct {
	Min      decimal.Decimal `json:"min"`
	Max      decimal.Decimal `json:"max"`
	Currency string          `json:"currency"`
}

func (p Price) IsFree() bool {
	return p.Min.IsZero() && p.Max.IsZero()
}

type Organizer struct {
	Name string        `json:"name"`
	Type OrganizerType `json:"type" validate:"oneof=venue artist organization"`
}

type Review struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id,omitempty"`
	UserName string `json:"user_name"`
	Rating   int    `json:"rating" validate:"min=1,max=5"`
	Comment  string `json:"comment"`
	Date     string `json:"date"`
}

type Event struct {
	ID            string    `json:"id" validate:"required"`
	Title         string    `json:"title" validate:"required"`
	Description   string    `json:"description"`
	Date          string    `json:"date" validate:"required,datetime=2006-01-02"` // e.g. "2024-01-15"
	Time          string    `json:"time" validate:"required,datetime=15:04"`      // e.g. "20:00"
	Location      Location  `json:"location"`
	Category      string    `json:"category" validate:"required"`
	Price         Price     `json:"price"`
	Accessibility []string  `json:"accessibility,omitempty"`
	Image         string    `json:"image,omitempty"`
	Organizer     Organizer `json:"organizer"`
	Tags          []string  `json:"tags,omitempty"`
	Capacity      int       `json:"capacity,omitempty"`
	SoldOut       bool      `json:"sold_out,omitempty"`
	Rating        float64   `json:"rating,omitempty"`
	Reviews       []Review  `json:"reviews,omitempty" validate:"dive"`
}

// StartsAt resolves the event's local date and time in loc.
func (e Event) StartsAt(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(EventDateLayout+" "+EventTimeLayout, e.Date+" "+e.Time, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("event %s has invalid date/time: %w", e.ID, err)
	}
	return t, nil
}

// Day returns the event date at midnight UTC, used for date-range comparisons.
func (e Event) Day() (time.Time, error) {
	return time.Parse(EventDateLayout, e.Date)
}

// HasAccessibility reports whether the event carries every tag in need.
func (e Event) HasAccessibility(need []string) bool {
	for _, n := range need {
		found := false
		for _, a := range e.Accessibility {
			if a == n {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// IndexEvents builds an id lookup for the given events.
func IndexEvents(events []Event) map[string]Event {
	out := make(map[string]Event, len(events))
	for _, e := range events {
		out[e.ID] = e
	}
	return out
}
