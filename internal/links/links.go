// Package links builds the outbound URLs and files offered for an event.
package links

import (
	"fmt"
	"time"

	"github.com/joshua-takyi/localinsights/internal/helpers"
	"github.com/joshua-takyi/localinsights/internal/models"
)

const (
	mapsSearchURL     = "https://www.google.com/maps/search/?api=1&query="
	calendarRenderURL = "https://calendar.google.com/calendar/render?action=TEMPLATE"
	calendarStampFmt  = "20060102T150405Z"

	// EventDuration is assumed for every event; fixtures carry no end time.
	EventDuration = 2 * time.Hour
)

// MapsURL searches the venue name and address on Google Maps.
func MapsURL(e models.Event) string {
	return mapsSearchURL + helpers.EncodeURIComponent(e.Location.Name+", "+e.Location.Address)
}

// CalendarURL opens a prefilled Google Calendar event. Date and time are
// read in loc and written in UTC.
func CalendarURL(e models.Event, loc *time.Location) (string, error) {
	start, err := e.StartsAt(loc)
	if err != nil {
		return "", err
	}
	end := start.Add(EventDuration)

	return calendarRenderURL +
		"&text=" + helpers.EncodeURIComponent(e.Title) +
		"&dates=" + start.UTC().Format(calendarStampFmt) + "/" + end.UTC().Format(calendarStampFmt) +
		"&details=" + helpers.EncodeURIComponent(calendarDetails(e)) +
		"&location=" + helpers.EncodeURIComponent(e.Location.Address), nil
}

func calendarDetails(e models.Event) string {
	return fmt.Sprintf("%s\n\nLocation: %s\nAddress: %s", e.Description, e.Location.Name, e.Location.Address)
}

// PriceLabel renders a price as "Free", "15€" or "10-20€".
func PriceLabel(p models.Price) string {
	if p.IsFree() {
		return "Free"
	}
	if p.Min.Equal(p.Max) {
		return p.Min.String() + "€"
	}
	return p.Min.String() + "-" + p.Max.String() + "€"
}
