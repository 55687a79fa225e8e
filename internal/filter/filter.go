// Package filter computes what part of the catalogue is shown. Every
// function here is pure and keeps the input order.
package filter

import (
	"strings"
	"time"

	"github.com/joshua-takyi/localinsights/internal/models"
)

// CategoryAll selects every category.
const CategoryAll = "all"

// Query is the search bar: free text plus one selected category.
type Query struct {
	Text     string `form:"q"`
	Category string `form:"category"`
}

// MatchesText reports whether query occurs in the title or description,
// ignoring case. An empty query matches everything.
func MatchesText(e models.Event, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(e.Title), q) ||
		strings.Contains(strings.ToLower(e.Description), q)
}

// MatchesCategory reports whether e is in category. No selection, or
// CategoryAll, matches everything.
func MatchesCategory(e models.Event, category string) bool {
	return category == "" || category == CategoryAll || e.Category == category
}

// Events keeps the events matching both the text and the category.
func Events(events []models.Event, q Query) []models.Event {
	out := make([]models.Event, 0, len(events))
	for _, e := range events {
		if MatchesText(e, q.Text) && MatchesCategory(e, q.Category) {
			out = append(out, e)
		}
	}
	return out
}

// Apply keeps the events matching every part of f. The distance radius is
// only checked when origin is known and f.Distance is positive.
func Apply(events []models.Event, f models.FilterState, origin *models.Coordinates) []models.Event {
	out := make([]models.Event, 0, len(events))
	for _, e := range events {
		if matchesState(e, f, origin) {
			out = append(out, e)
		}
	}
	return out
}

func matchesState(e models.Event, f models.FilterState, origin *models.Coordinates) bool {
	if !MatchesText(e, f.SearchQuery) {
		return false
	}
	if len(f.Categories) > 0 && !contains(f.Categories, e.Category) {
		return false
	}
	if !e.HasAccessibility(f.Accessibility) {
		return false
	}
	if !inDateRange(e, f.DateRange) {
		return false
	}
	if !priceOverlaps(e.Price, f.PriceRange) {
		return false
	}
	if origin != nil && f.Distance > 0 {
		if origin.DistanceKm(e.Location.Coordinates()) > f.Distance {
			return false
		}
	}
	return true
}

// inDateRange compares calendar days; empty bounds are open.
func inDateRange(e models.Event, r models.DateRange) bool {
	if r.Start == "" && r.End == "" {
		return true
	}
	day, err := e.Day()
	if err != nil {
		return false
	}
	if r.Start != "" {
		start, err := parseDay(r.Start)
		if err == nil && day.Before(start) {
			return false
		}
	}
	if r.End != "" {
		end, err := parseDay(r.End)
		if err == nil && day.After(end) {
			return false
		}
	}
	return true
}

// priceOverlaps keeps events whose price span intersects the wanted range.
func priceOverlaps(p models.Price, r models.PriceRange) bool {
	if r.Min.IsZero() && r.Max.IsZero() {
		return p.IsFree()
	}
	return p.Min.LessThanOrEqual(r.Max) && p.Max.GreaterThanOrEqual(r.Min)
}

// SpotlightArtists keeps the artists flagged for the spotlight.
func SpotlightArtists(artists []models.Artist) []models.Artist {
	out := make([]models.Artist, 0, len(artists))
	for _, a := range artists {
		if a.IsSpotlight {
			out = append(out, a)
		}
	}
	return out
}

// PostsByType keeps posts of type t; empty or CategoryAll keeps all.
func PostsByType(posts []models.CommunityPost, t string) []models.CommunityPost {
	if t == "" || t == CategoryAll {
		return append([]models.CommunityPost{}, posts...)
	}
	out := make([]models.CommunityPost, 0, len(posts))
	for _, p := range posts {
		if string(p.Type) == t {
			out = append(out, p)
		}
	}
	return out
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

func parseDay(s string) (time.Time, error) {
	return time.Parse(models.EventDateLayout, s)
}
