package store

import "github.com/joshua-takyi/localinsights/internal/models"

type ActionType string

const (
	TypeSetUserProfile     ActionType = "SET_USER_PROFILE"
	TypeSetEvents          ActionType = "SET_EVENTS"
	TypeSetArtists         ActionType = "SET_ARTISTS"
	TypeSetCommunityPosts  ActionType = "SET_COMMUNITY_POSTS"
	TypeAddCommunityPost   ActionType = "ADD_COMMUNITY_POST"
	TypeAddComment         ActionType = "ADD_COMMENT"
	TypeAddToWishlist      ActionType = "ADD_TO_WISHLIST"
	TypeRemoveFromWishlist ActionType = "REMOVE_FROM_WISHLIST"
	TypeToggleWishlist     ActionType = "TOGGLE_WISHLIST"
	TypeSetFilters         ActionType = "SET_FILTERS"
	TypeSetLoading         ActionType = "SET_LOADING"
	TypeSetError           ActionType = "SET_ERROR"
)

// Action is a state transition request. Every action is a plain value.
type Action interface {
	Type() ActionType
}

type SetUserProfile struct{ Profile *models.UserProfile }

type SetEvents struct{ Events []models.Event }

type SetArtists struct{ Artists []models.Artist }

type SetCommunityPosts struct{ Posts []models.CommunityPost }

type AddCommunityPost struct{ Post models.CommunityPost }

type AddComment struct {
	PostID  string
	Comment models.Comment
}

type AddToWishlist struct{ EventID string }

type RemoveFromWishlist struct{ EventID string }

type ToggleWishlist struct{ EventID string }

type SetFilters struct{ Patch models.FilterPatch }

type SetLoading struct{ Loading bool }

// SetError sets the error message; an empty message clears it.
type SetError struct{ Message string }

func (SetUserProfile) Type() ActionType     { return TypeSetUserProfile }
func (SetEvents) Type() ActionType          { return TypeSetEvents }
func (SetArtists) Type() ActionType         { return TypeSetArtists }
func (SetCommunityPosts) Type() ActionType  { return TypeSetCommunityPosts }
func (AddCommunityPost) Type() ActionType   { return TypeAddCommunityPost }
func (AddComment) Type() ActionType         { return TypeAddComment }
func (AddToWishlist) Type() ActionType      { return TypeAddToWishlist }
func (RemoveFromWishlist) Type() ActionType { return TypeRemoveFromWishlist }
func (ToggleWishlist) Type() ActionType     { return TypeToggleWishlist }
func (SetFilters) Type() ActionType         { return TypeSetFilters }
func (SetLoading) Type() ActionType         { return TypeSetLoading }
func (SetError) Type() ActionType           { return TypeSetError }
