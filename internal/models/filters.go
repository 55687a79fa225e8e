package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultDistanceKm  = 10
	DefaultWindowDays  = 30
	DefaultMaxPriceEUR = 100
)

type DateRange struct {
	Start string `json:"start"` // YYYY-MM-DD
	End   string `json:"end"`   // YYYY-MM-DD
}

type PriceRange struct {
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`
}

// FilterState describes the active view filter of a device. It is never
// applied to stored data, only to what is shown.
type FilterState struct {
	DateRange     DateRange  `json:"date_range"`
	Distance      float64    `json:"distance"` // km
	PriceRange    PriceRange `json:"price_range"`
	Categories    []string   `json:"categories"`
	Accessibility []string   `json:"accessibility"`
	SearchQuery   string     `json:"search_query"`
}

// DefaultFilterState covers the next thirty days from now.
func DefaultFilterState(now time.Time) FilterState {
	return FilterState{
		DateRange: DateRange{
			Start: now.UTC().Format(EventDateLayout),
			End:   now.UTC().AddDate(0, 0, DefaultWindowDays).Format(EventDateLayout),
		},
		Distance: DefaultDistanceKm,
		PriceRange: PriceRange{
			Min: decimal.Zero,
			Max: decimal.NewFromInt(DefaultMaxPriceEUR),
		},
		Categories:    []string{},
		Accessibility: []string{},
	}
}

// FilterPatch is a partial FilterState update; nil fields are left alone.
type FilterPatch struct {
	DateRange     *DateRange  `json:"date_range,omitempty"`
	Distance      *float64    `json:"distance,omitempty" validate:"omitempty,min=0"`
	PriceRange    *PriceRange `json:"price_range,omitempty"`
	Categories    *[]string   `json:"categories,omitempty"`
	Accessibility *[]string   `json:"accessibility,omitempty"`
	SearchQuery   *string     `json:"search_query,omitempty"`
}

// Merge applies p on top of f and returns the result.
func (f FilterState) Merge(p FilterPatch) FilterState {
	out := f
	if p.DateRange != nil {
		out.DateRange = *p.DateRange
	}
	if p.Distance != nil {
		out.Distance = *p.Distance
	}
	if p.PriceRange != nil {
		out.PriceRange = *p.PriceRange
	}
	if p.Categories != nil {
		out.Categories = append([]string(nil), (*p.Categories)...)
	}
	if p.Accessibility != nil {
		out.Accessibility = append([]string(nil), (*p.Accessibility)...)
	}
	if p.SearchQuery != nil {
		out.SearchQuery = *p.SearchQuery
	}
	return out
}
