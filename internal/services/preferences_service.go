package services

import (
	"context"
	"fmt"

	"github.com/joshua-takyi/localinsights/internal/models"
	"github.com/joshua-takyi/localinsights/internal/monitoring"
)

// PreferencesService keeps theme and language per device.
type PreferencesService struct {
	devices DeviceRepos
	locks   *keyedMutex
	monitor *monitoring.Monitor
}

func NewPreferencesService(devices DeviceRepos, monitor *monitoring.Monitor) *PreferencesService {
	return &PreferencesService{devices: devices, locks: newKeyedMutex(), monitor: monitor}
}

func (ps *PreferencesService) Get(ctx context.Context, deviceID string) (models.Preferences, error) {
	prefs, err := ps.devices(deviceID).Preferences(ctx)
	if err != nil {
		return models.DefaultPreferences(), fmt.Errorf("failed to load preferences: %w", err)
	}
	return prefs, nil
}

// Update overwrites the fields set in patch and keeps the others.
func (ps *PreferencesService) Update(ctx context.Context, deviceID string, patch models.Preferences) (models.Preferences, error) {
	if err := models.Validate.Struct(patch); err != nil {
		return models.Preferences{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	prefs, err := ps.modify(ctx, deviceID, func(p models.Preferences) models.Preferences {
		if patch.Theme != "" {
			p.Theme = patch.Theme
		}
		if patch.Language != "" {
			p.Language = patch.Language
		}
		return p
	})
	ps.monitor.TrackOperation("preferences", "update", err)
	return prefs, err
}

func (ps *PreferencesService) ToggleTheme(ctx context.Context, deviceID string) (models.Preferences, error) {
	prefs, err := ps.modify(ctx, deviceID, func(p models.Preferences) models.Preferences {
		if p.Theme == models.ThemeDark {
			p.Theme = models.ThemeLight
		} else {
			p.Theme = models.ThemeDark
		}
		return p
	})
	ps.monitor.TrackOperation("preferences", "toggle_theme", err)
	return prefs, err
}

func (ps *PreferencesService) modify(ctx context.Context, deviceID string, fn func(models.Preferences) models.Preferences) (models.Preferences, error) {
	unlock := ps.locks.Lock(deviceID)
	defer unlock()

	repo := ps.devices(deviceID)
	prefs, err := repo.Preferences(ctx)
	if err != nil {
		return models.Preferences{}, fmt.Errorf("failed to load preferences: %w", err)
	}
	prefs = fn(prefs)
	if err := repo.SavePreferences(ctx, prefs); err != nil {
		return models.Preferences{}, fmt.Errorf("failed to save preferences: %w", err)
	}
	return prefs, nil
}
