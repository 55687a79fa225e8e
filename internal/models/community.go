package models

import (
	"time"
)

type PostType string

const (
	PostRecommendation PostType = "recommendation"
	PostReview         PostType = "review"
	PostInterview      PostType = "interview"
)

type Comment struct {
	ID       string    `bson:"id" json:"id"`
	UserID   string    `bson:"user_id,omitempty" json:"user_id,omitempty"`
	UserName string    `bson:"user_name" json:"user_name"`
	Content  string    `bson:"content" json:"content" validate:"required"`
	Date     time.Time `bson:"date" json:"date"`
}

type CommunityPost struct {
	ID         string    `bson:"_id" json:"id" validate:"required"`
	UserID     string    `bson:"user_id,omitempty" json:"user_id,omitempty"`
	UserName   string    `bson:"user_name" json:"user_name"`
	UserAvatar string    `bson:"user_avatar,omitempty" json:"user_avatar,omitempty"`
	Type       PostType  `bson:"type" json:"type" validate:"required,oneof=recommendation review interview"`
	Title      string    `bson:"title" json:"title" validate:"required"`
	Content    string    `bson:"content" json:"content" validate:"required"`
	Images     []string  `bson:"images,omitempty" json:"images,omitempty"`
	EventID    string    `bson:"event_id,omitempty" json:"event_id,omitempty"`
	Date       time.Time `bson:"date" json:"date"`
	Likes      int       `bson:"likes" json:"likes" validate:"min=0"`
	Comments   []Comment `bson:"comments" json:"comments"`
}

// PostView is a post as shown to one device: the stored like count plus
// that device's own like.
type PostView struct {
	CommunityPost
	Liked        bool   `json:"liked"`
	DisplayLikes int    `json:"display_likes"`
	EventTitle   string `json:"event_title,omitempty"`
}

// FindPost returns the index of the post with id, or -1.
func FindPost(posts []CommunityPost, id string) int {
	for i := range posts {
		if posts[i].ID == id {
			return i
		}
	}
	return -1
}
