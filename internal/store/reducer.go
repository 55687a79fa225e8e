package store

import (
	"github.com/joshua-takyi/localinsights/internal/models"
)

// AppState is everything the application shows. Slices inside a state are
// never modified in place; reducers build new ones.
type AppState struct {
	UserProfile    *models.UserProfile    `json:"user_profile"`
	Events         []models.Event         `json:"events"`
	Artists        []models.Artist        `json:"artists"`
	CommunityPosts []models.CommunityPost `json:"community_posts"`
	Wishlist       models.Wishlist        `json:"wishlist"`
	Filters        models.FilterState     `json:"filters"`
	Loading        bool                   `json:"loading"`
	Error          string                 `json:"error,omitempty"`
}

// Initial is an empty state with default filters.
func Initial(filters models.FilterState) AppState {
	return AppState{
		Events:         []models.Event{},
		Artists:        []models.Artist{},
		CommunityPosts: []models.CommunityPost{},
		Wishlist:       models.Wishlist{},
		Filters:        filters,
	}
}

// HasEvent reports whether id is in the event set.
func (s AppState) HasEvent(id string) bool {
	for i := range s.Events {
		if s.Events[i].ID == id {
			return true
		}
	}
	return false
}

// Reduce returns the state after applying a. Unknown actions and actions
// that would break an invariant (unknown event or post ids, duplicate post
// ids) return s unchanged.
func Reduce(s AppState, a Action) AppState {
	switch act := a.(type) {
	case SetUserProfile:
		s.UserProfile = act.Profile

	case SetEvents:
		s.Events = append([]models.Event{}, act.Events...)
		s.Wishlist = s.Wishlist.Retain(s.HasEvent)

	case SetArtists:
		s.Artists = append([]models.Artist{}, act.Artists...)

	case SetCommunityPosts:
		posts := make([]models.CommunityPost, len(act.Posts))
		for i, p := range act.Posts {
			if p.Likes < 0 {
				p.Likes = 0
			}
			if p.Comments == nil {
				p.Comments = []models.Comment{}
			}
			posts[i] = p
		}
		s.CommunityPosts = posts

	case AddCommunityPost:
		if act.Post.ID == "" || models.FindPost(s.CommunityPosts, act.Post.ID) >= 0 {
			return s
		}
		post := act.Post
		if post.Likes < 0 {
			post.Likes = 0
		}
		if post.Comments == nil {
			post.Comments = []models.Comment{}
		}
		posts := make([]models.CommunityPost, 0, len(s.CommunityPosts)+1)
		posts = append(posts, post)
		s.CommunityPosts = append(posts, s.CommunityPosts...)

	case AddComment:
		idx := models.FindPost(s.CommunityPosts, act.PostID)
		if idx < 0 {
			return s
		}
		posts := append([]models.CommunityPost{}, s.CommunityPosts...)
		target := posts[idx]
		comments := make([]models.Comment, 0, len(target.Comments)+1)
		comments = append(comments, target.Comments...)
		target.Comments = append(comments, act.Comment)
		posts[idx] = target
		s.CommunityPosts = posts

	case AddToWishlist:
		if !s.HasEvent(act.EventID) {
			return s
		}
		s.Wishlist = s.Wishlist.Add(act.EventID)

	case RemoveFromWishlist:
		s.Wishlist = s.Wishlist.Remove(act.EventID)

	case ToggleWishlist:
		if s.Wishlist.Contains(act.EventID) {
			s.Wishlist = s.Wishlist.Remove(act.EventID)
		} else if s.HasEvent(act.EventID) {
			s.Wishlist = s.Wishlist.Add(act.EventID)
		}

	case SetFilters:
		s.Filters = s.Filters.Merge(act.Patch)

	case SetLoading:
		s.Loading = act.Loading

	case SetError:
		s.Error = act.Message
	}
	return s
}
