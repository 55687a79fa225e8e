// Package fixtures bundles the reference catalogue: events, artists and
// the seed community posts.
package fixtures

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/joshua-takyi/localinsights/internal/models"
)

//go:embed data/*.json
var files embed.FS

type Catalogue struct {
	Events  []models.Event
	Artists []models.Artist
	Posts   []models.CommunityPost
}

// Load decodes and validates the bundled data.
func Load() (*Catalogue, error) {
	var c Catalogue
	if err := decode("data/events.json", &c.Events); err != nil {
		return nil, err
	}
	if err := decode("data/artists.json", &c.Artists); err != nil {
		return nil, err
	}
	if err := decode("data/posts.json", &c.Posts); err != nil {
		return nil, err
	}

	for _, e := range c.Events {
		if err := models.Validate.Struct(e); err != nil {
			return nil, fmt.Errorf("invalid event %s: %w", e.ID, err)
		}
	}
	for _, p := range c.Posts {
		if err := models.Validate.Struct(p); err != nil {
			return nil, fmt.Errorf("invalid post %s: %w", p.ID, err)
		}
	}
	return &c, nil
}

func decode(name string, out interface{}) error {
	raw, err := files.ReadFile(name)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return nil
}
