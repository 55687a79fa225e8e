package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"github.com/joshua-takyi/localinsights/internal/models"
	"github.com/joshua-takyi/localinsights/internal/store"
)

// DeviceRepos opens the storage of one device.
type DeviceRepos func(deviceID string) models.DeviceRepo

// StateService assembles the AppState seen by one device: the shared
// catalogue and feed from the store, plus the device's own wishlist,
// filters and profile. Device changes go through store.Reduce and are
// written back.
type StateService struct {
	shared    *store.Store
	devices   DeviceRepos
	wishlists models.WishlistRepo
	locks     *keyedMutex
	logger    *slog.Logger
	now       func() time.Time
}

func NewStateService(shared *store.Store, devices DeviceRepos, wishlists models.WishlistRepo, logger *slog.Logger) *StateService {
	if logger == nil {
		logger = slog.Default()
	}
	return &StateService{
		shared:    shared,
		devices:   devices,
		wishlists: wishlists,
		locks:     newKeyedMutex(),
		logger:    logger,
		now:       time.Now,
	}
}

// Snapshot returns the state of deviceID.
func (ss *StateService) Snapshot(ctx context.Context, deviceID string) (store.AppState, error) {
	unlock := ss.locks.Lock(deviceID)
	defer unlock()
	return ss.load(ctx, deviceID)
}

// Update applies a to the device's state and persists what changed.
func (ss *StateService) Update(ctx context.Context, deviceID string, a store.Action) (before, after store.AppState, err error) {
	unlock := ss.locks.Lock(deviceID)
	defer unlock()

	before, err = ss.load(ctx, deviceID)
	if err != nil {
		return before, before, err
	}
	after = store.Reduce(before, a)
	if err := ss.save(ctx, deviceID, before, after); err != nil {
		return before, before, err
	}
	return before, after, nil
}

func (ss *StateService) load(ctx context.Context, deviceID string) (store.AppState, error) {
	s := ss.shared.State()
	repo := ss.devices(deviceID)

	list, err := ss.wishlists.LoadWishlist(ctx, deviceID)
	if err != nil {
		return s, fmt.Errorf("failed to load wishlist: %w", err)
	}
	// ids of events that left the catalogue are dropped on read
	s.Wishlist = list.Retain(s.HasEvent)

	filters, err := repo.Filters(ctx)
	if err != nil && !errors.Is(err, models.ErrCorruptRecord) {
		return s, fmt.Errorf("failed to load filters: %w", err)
	}
	if err != nil {
		ss.logger.Warn("discarding corrupt filters", "device_id", deviceID, "error", err)
	}
	if filters != nil {
		s.Filters = *filters
	} else {
		s.Filters = models.DefaultFilterState(ss.now())
	}

	profile, err := repo.Profile(ctx)
	if err != nil && !errors.Is(err, models.ErrCorruptRecord) {
		return s, fmt.Errorf("failed to load profile: %w", err)
	}
	if err != nil {
		ss.logger.Warn("discarding corrupt profile", "device_id", deviceID, "error", err)
	}
	s.UserProfile = profile

	return s, nil
}

func (ss *StateService) save(ctx context.Context, deviceID string, before, after store.AppState) error {
	repo := ss.devices(deviceID)

	if !after.Wishlist.Equal(before.Wishlist) {
		if err := ss.wishlists.SaveWishlist(ctx, deviceID, after.Wishlist); err != nil {
			return fmt.Errorf("failed to save wishlist: %w", err)
		}
	}
	if !reflect.DeepEqual(after.Filters, before.Filters) {
		if err := repo.SaveFilters(ctx, after.Filters); err != nil {
			return fmt.Errorf("failed to save filters: %w", err)
		}
	}
	if after.UserProfile != nil && !reflect.DeepEqual(after.UserProfile, before.UserProfile) {
		if err := repo.SaveProfile(ctx, *after.UserProfile); err != nil {
			return fmt.Errorf("failed to save profile: %w", err)
		}
	}
	return nil
}
