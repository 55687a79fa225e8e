package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/joshua-takyi/localinsights/internal/helpers"
	"github.com/joshua-takyi/localinsights/internal/models"
	"github.com/joshua-takyi/localinsights/internal/store"
)

// ProfileService stores the onboarding answers of a device.
type ProfileService struct {
	state *StateService
	prefs *PreferencesService
}

func NewProfileService(state *StateService, prefs *PreferencesService) *ProfileService {
	return &ProfileService{state: state, prefs: prefs}
}

// Get returns nil when the device has not been onboarded.
func (ps *ProfileService) Get(ctx context.Context, deviceID string) (*models.UserProfile, error) {
	s, err := ps.state.Snapshot(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	return s.UserProfile, nil
}

// Save validates and stores profile. The chosen language also becomes the
// device's interface language.
func (ps *ProfileService) Save(ctx context.Context, deviceID string, profile models.UserProfile) (*models.UserProfile, error) {
	profile.Name = strings.TrimSpace(profile.Name)
	profile.Email = strings.TrimSpace(profile.Email)
	profile.Interests = helpers.RemoveDuplicates(profile.Interests)
	profile.Accessibility = helpers.RemoveDuplicates(profile.Accessibility)
	if err := models.Validate.Struct(profile); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	current, err := ps.Get(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	switch {
	case current != nil && current.ID != "":
		profile.ID = current.ID
	case profile.ID == "":
		profile.ID = uuid.NewString()
	}

	_, after, err := ps.state.Update(ctx, deviceID, store.SetUserProfile{Profile: &profile})
	if err != nil {
		return nil, err
	}
	if ps.prefs != nil {
		if _, err := ps.prefs.Update(ctx, deviceID, models.Preferences{Language: profile.Language}); err != nil {
			return nil, err
		}
	}
	return after.UserProfile, nil
}
