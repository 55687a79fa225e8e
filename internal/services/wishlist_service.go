package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/joshua-takyi/localinsights/internal/helpers"
	"github.com/joshua-takyi/localinsights/internal/links"
	"github.com/joshua-takyi/localinsights/internal/models"
	"github.com/joshua-takyi/localinsights/internal/monitoring"
	"github.com/joshua-takyi/localinsights/internal/store"
)

type WishlistSummary struct {
	Events     int      `json:"events"`
	Categories []string `json:"categories"`
	FreeEvents int      `json:"free_events"`
}

type WishlistService struct {
	state   *StateService
	loc     *time.Location
	monitor *monitoring.Monitor
	now     func() time.Time
}

func NewWishlistService(state *StateService, loc *time.Location, monitor *monitoring.Monitor) *WishlistService {
	if loc == nil {
		loc = time.UTC
	}
	return &WishlistService{state: state, loc: loc, monitor: monitor, now: time.Now}
}

// Add saves eventID; adding it twice keeps a single entry.
func (ws *WishlistService) Add(ctx context.Context, deviceID, eventID string) (models.Wishlist, error) {
	list, err := ws.change(ctx, deviceID, eventID, func(id string) store.Action { return store.AddToWishlist{EventID: id} })
	ws.monitor.TrackOperation("wishlist", "add", err)
	return list, err
}

func (ws *WishlistService) Remove(ctx context.Context, deviceID, eventID string) (models.Wishlist, error) {
	eventID = helpers.StringTrim(eventID)
	if eventID == "" {
		return nil, fmt.Errorf("%w: event id cannot be empty", ErrInvalidInput)
	}
	_, after, err := ws.state.Update(ctx, deviceID, store.RemoveFromWishlist{EventID: eventID})
	ws.monitor.TrackOperation("wishlist", "remove", err)
	if err != nil {
		return nil, err
	}
	return after.Wishlist, nil
}

// Toggle flips eventID and reports whether it is now saved.
func (ws *WishlistService) Toggle(ctx context.Context, deviceID, eventID string) (bool, models.Wishlist, error) {
	list, err := ws.change(ctx, deviceID, eventID, func(id string) store.Action { return store.ToggleWishlist{EventID: id} })
	ws.monitor.TrackOperation("wishlist", "toggle", err)
	if err != nil {
		return false, nil, err
	}
	return list.Contains(helpers.StringTrim(eventID)), list, nil
}

func (ws *WishlistService) change(ctx context.Context, deviceID, eventID string, action func(string) store.Action) (models.Wishlist, error) {
	eventID = helpers.StringTrim(eventID)
	if eventID == "" {
		return nil, fmt.Errorf("%w: event id cannot be empty", ErrInvalidInput)
	}
	before, after, err := ws.state.Update(ctx, deviceID, action(eventID))
	if err != nil {
		return nil, err
	}
	if !before.HasEvent(eventID) {
		return nil, fmt.Errorf("%w: %s", ErrEventNotFound, eventID)
	}
	return after.Wishlist, nil
}

// Events resolves the wishlist to events, in catalogue order.
func (ws *WishlistService) Events(ctx context.Context, deviceID string) ([]models.Event, error) {
	s, err := ws.state.Snapshot(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	return wishlistEvents(s), nil
}

func (ws *WishlistService) Summary(ctx context.Context, deviceID string) (WishlistSummary, error) {
	events, err := ws.Events(ctx, deviceID)
	if err != nil {
		return WishlistSummary{}, err
	}
	sum := WishlistSummary{Events: len(events), Categories: []string{}}
	categories := make([]string, 0, len(events))
	for _, e := range events {
		categories = append(categories, e.Category)
		if e.Price.IsFree() {
			sum.FreeEvents++
		}
	}
	sum.Categories = helpers.RemoveDuplicates(categories)
	return sum, nil
}

// ExportICS writes every wishlist event as an iCalendar file.
func (ws *WishlistService) ExportICS(ctx context.Context, deviceID string, w io.Writer) error {
	events, err := ws.Events(ctx, deviceID)
	if err != nil {
		return err
	}
	err = links.WriteICS(w, "LocalInsights wishlist", events, ws.loc, ws.now())
	ws.monitor.TrackOperation("wishlist", "export", err)
	return err
}

func wishlistEvents(s store.AppState) []models.Event {
	out := make([]models.Event, 0, len(s.Wishlist))
	for _, e := range s.Events {
		if s.Wishlist.Contains(e.ID) {
			out = append(out, e)
		}
	}
	return out
}

// ICSFilename is the download name of the wishlist calendar.
func ICSFilename(now time.Time) string {
	return "localinsights_wishlist_" + strings.ReplaceAll(now.Format(models.EventDateLayout), "-", "") + ".ics"
}
