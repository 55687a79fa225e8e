package models

type SocialLinks struct {
	Instagram string `json:"instagram,omitempty"`
	Spotify   string `json:"spotify,omitempty"`
	Website   string `json:"website,omitempty"`
}

type Artist struct {
	ID             string      `json:"id" validate:"required"`
	Name           string      `json:"name" validate:"required"`
	Bio            string      `json:"bio"`
	Image          string      `json:"image,omitempty"`
	Genres         []string    `json:"genres,omitempty"`
	SocialLinks    SocialLinks `json:"social_links"`
	UpcomingEvents []string    `json:"upcoming_events,omitempty"` // event ids
	IsSpotlight    bool        `json:"is_spotlight"`
}
