package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/joshua-takyi/localinsights/internal/filter"
	"github.com/joshua-takyi/localinsights/internal/links"
	"github.com/joshua-takyi/localinsights/internal/models"
	"github.com/joshua-takyi/localinsights/internal/store"
)

// EventDetail is an event with everything the detail page links to.
type EventDetail struct {
	models.Event
	PriceLabel  string          `json:"price_label"`
	MapsURL     string          `json:"maps_url"`
	CalendarURL string          `json:"calendar_url,omitempty"`
	Artists     []models.Artist `json:"artists,omitempty"`
	InWishlist  bool            `json:"in_wishlist"`
}

type CatalogueService struct {
	shared *store.Store
	state  *StateService
	loc    *time.Location
}

func NewCatalogueService(shared *store.Store, state *StateService, loc *time.Location) *CatalogueService {
	if loc == nil {
		loc = time.UTC
	}
	return &CatalogueService{shared: shared, state: state, loc: loc}
}

// Events runs the search bar query over the catalogue.
func (cs *CatalogueService) Events(q filter.Query) []models.Event {
	q.Text = strings.TrimSpace(q.Text)
	return filter.Events(cs.shared.State().Events, q)
}

// FilteredEvents applies the device's saved filters. The distance radius
// is measured from origin, or from the profile location when origin is nil.
func (cs *CatalogueService) FilteredEvents(ctx context.Context, deviceID string, origin *models.Coordinates) ([]models.Event, models.FilterState, error) {
	s, err := cs.state.Snapshot(ctx, deviceID)
	if err != nil {
		return nil, models.FilterState{}, err
	}
	if origin == nil && s.UserProfile != nil && s.UserProfile.Location != nil {
		origin = &models.Coordinates{Latitude: s.UserProfile.Location.Lat, Longitude: s.UserProfile.Location.Lng}
	}
	return filter.Apply(s.Events, s.Filters, origin), s.Filters, nil
}

func (cs *CatalogueService) Event(ctx context.Context, deviceID, id string) (*EventDetail, error) {
	s, err := cs.state.Snapshot(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	var event *models.Event
	for i := range s.Events {
		if s.Events[i].ID == id {
			event = &s.Events[i]
			break
		}
	}
	if event == nil {
		return nil, fmt.Errorf("%w: %s", ErrEventNotFound, id)
	}

	detail := &EventDetail{
		Event:      *event,
		PriceLabel: links.PriceLabel(event.Price),
		MapsURL:    links.MapsURL(*event),
		InWishlist: s.Wishlist.Contains(id),
	}
	if cal, err := links.CalendarURL(*event, cs.loc); err == nil {
		detail.CalendarURL = cal
	}
	for _, a := range s.Artists {
		for _, eid := range a.UpcomingEvents {
			if eid == id {
				detail.Artists = append(detail.Artists, a)
				break
			}
		}
	}
	return detail, nil
}

func (cs *CatalogueService) Artists(spotlightOnly bool) []models.Artist {
	artists := cs.shared.State().Artists
	if spotlightOnly {
		return filter.SpotlightArtists(artists)
	}
	return append([]models.Artist{}, artists...)
}

func (cs *CatalogueService) Filters(ctx context.Context, deviceID string) (models.FilterState, error) {
	s, err := cs.state.Snapshot(ctx, deviceID)
	if err != nil {
		return models.FilterState{}, err
	}
	return s.Filters, nil
}

// UpdateFilters merges patch into the device's filters.
func (cs *CatalogueService) UpdateFilters(ctx context.Context, deviceID string, patch models.FilterPatch) (models.FilterState, error) {
	if err := models.Validate.Struct(patch); err != nil {
		return models.FilterState{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if patch.DateRange != nil {
		if err := validateDateRange(*patch.DateRange); err != nil {
			return models.FilterState{}, err
		}
	}
	if patch.PriceRange != nil && patch.PriceRange.Min.GreaterThan(patch.PriceRange.Max) {
		return models.FilterState{}, fmt.Errorf("%w: price min is above max", ErrInvalidInput)
	}

	_, after, err := cs.state.Update(ctx, deviceID, store.SetFilters{Patch: patch})
	if err != nil {
		return models.FilterState{}, err
	}
	return after.Filters, nil
}

func validateDateRange(r models.DateRange) error {
	var start, end time.Time
	var err error
	if r.Start != "" {
		if start, err = time.Parse(models.EventDateLayout, r.Start); err != nil {
			return fmt.Errorf("%w: start date must be YYYY-MM-DD", ErrInvalidInput)
		}
	}
	if r.End != "" {
		if end, err = time.Parse(models.EventDateLayout, r.End); err != nil {
			return fmt.Errorf("%w: end date must be YYYY-MM-DD", ErrInvalidInput)
		}
	}
	if r.Start != "" && r.End != "" && end.Before(start) {
		return fmt.Errorf("%w: end date is before start date", ErrInvalidInput)
	}
	return nil
}
