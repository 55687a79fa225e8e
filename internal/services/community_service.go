package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/joshua-takyi/localinsights/internal/filter"
	"github.com/joshua-takyi/localinsights/internal/helpers"
	"github.com/joshua-takyi/localinsights/internal/models"
	"github.com/joshua-takyi/localinsights/internal/monitoring"
	"github.com/joshua-takyi/localinsights/internal/store"
)

const anonymousAuthor = "User"

// ImageUploader stores post images and returns their public URLs.
type ImageUploader interface {
	UploadImages(ctx context.Context, images []string, folder string) ([]string, error)
}

type NewPost struct {
	Type    models.PostType `json:"type" validate:"required,oneof=recommendation review interview"`
	Title   string          `json:"title" validate:"required"`
	Content string          `json:"content" validate:"required"`
	Images  []string        `json:"images" validate:"max=4"`
	EventID string          `json:"event_id"`
}

// CommunityService runs the shared feed. Posts live in the shared store and,
// when a PostRepo is configured, in that repository as well. Likes are kept
// per device and only added on top of the stored count when shown.
type CommunityService struct {
	shared   *store.Store
	posts    models.PostRepo
	devices  DeviceRepos
	auth     *AuthService
	uploader ImageUploader
	locks    *keyedMutex
	postsMu  sync.Mutex
	logger   *slog.Logger
	monitor  *monitoring.Monitor
	now      func() time.Time
	newID    func() string
}

func NewCommunityService(shared *store.Store, posts models.PostRepo, devices DeviceRepos, auth *AuthService, uploader ImageUploader, logger *slog.Logger, monitor *monitoring.Monitor) *CommunityService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CommunityService{
		shared:   shared,
		posts:    posts,
		devices:  devices,
		auth:     auth,
		uploader: uploader,
		locks:    newKeyedMutex(),
		logger:   logger,
		monitor:  monitor,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Bootstrap loads the feed into the store. An empty repository is seeded
// with seed; without a repository seed is used as is.
func (cs *CommunityService) Bootstrap(ctx context.Context, seed []models.CommunityPost) error {
	cs.postsMu.Lock()
	defer cs.postsMu.Unlock()

	if cs.posts == nil {
		cs.shared.Dispatch(store.SetCommunityPosts{Posts: seed})
		return nil
	}

	stored, err := cs.posts.ListPosts(ctx)
	if err != nil {
		return fmt.Errorf("failed to list posts: %w", err)
	}
	if len(stored) == 0 {
		for _, p := range seed {
			if err := cs.posts.InsertPost(ctx, p); err != nil {
				return fmt.Errorf("failed to seed post %s: %w", p.ID, err)
			}
		}
		cs.logger.Info("seeded community posts", "count", len(seed))
		stored = seed
	}
	cs.shared.Dispatch(store.SetCommunityPosts{Posts: stored})
	return nil
}

// List returns the feed as seen by deviceID, optionally narrowed to one type.
func (cs *CommunityService) List(ctx context.Context, deviceID, postType string) ([]models.PostView, error) {
	liked, err := cs.likedSet(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	s := cs.shared.State()
	return viewPosts(filter.PostsByType(s.CommunityPosts, postType), liked, models.IndexEvents(s.Events)), nil
}

// LikedPosts returns the posts this device liked, in feed order.
func (cs *CommunityService) LikedPosts(ctx context.Context, deviceID string) ([]models.PostView, error) {
	all, err := cs.List(ctx, deviceID, "")
	if err != nil {
		return nil, err
	}
	out := make([]models.PostView, 0, len(all))
	for _, v := range all {
		if v.Liked {
			out = append(out, v)
		}
	}
	return out, nil
}

// ToggleLike likes or unlikes a post for this device. The stored like count
// is left alone.
func (cs *CommunityService) ToggleLike(ctx context.Context, deviceID, postID string) (models.PostView, error) {
	view, err := cs.toggleLike(ctx, deviceID, postID)
	cs.monitor.TrackOperation("community", "like", err)
	return view, err
}

func (cs *CommunityService) toggleLike(ctx context.Context, deviceID, postID string) (models.PostView, error) {
	if _, err := cs.auth.RequireUser(ctx, deviceID); err != nil {
		return models.PostView{}, err
	}
	s := cs.shared.State()
	idx := models.FindPost(s.CommunityPosts, postID)
	if idx < 0 {
		return models.PostView{}, fmt.Errorf("%w: %s", ErrPostNotFound, postID)
	}

	unlock := cs.locks.Lock(deviceID)
	defer unlock()

	repo := cs.devices(deviceID)
	ids, err := repo.LikedPosts(ctx)
	if err != nil {
		return models.PostView{}, fmt.Errorf("failed to load liked posts: %w", err)
	}
	liked := models.Wishlist(ids).Toggle(postID)
	if err := repo.SaveLikedPosts(ctx, liked); err != nil {
		return models.PostView{}, fmt.Errorf("failed to save liked posts: %w", err)
	}

	set := make(map[string]bool, len(liked))
	for _, id := range liked {
		set[id] = true
	}
	return viewPost(s.CommunityPosts[idx], set, models.IndexEvents(s.Events)), nil
}

// AddComment appends a comment by the signed-in user.
func (cs *CommunityService) AddComment(ctx context.Context, deviceID, postID, content string) (*models.Comment, error) {
	comment, err := cs.addComment(ctx, deviceID, postID, content)
	cs.monitor.TrackOperation("community", "comment", err)
	return comment, err
}

func (cs *CommunityService) addComment(ctx context.Context, deviceID, postID, content string) (*models.Comment, error) {
	user, err := cs.auth.RequireUser(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: comment cannot be empty", ErrInvalidInput)
	}

	author := strings.TrimSpace(user.Name)
	if author == "" {
		author = anonymousAuthor
	}
	comment := models.Comment{
		ID:       cs.newID(),
		UserID:   user.ID,
		UserName: author,
		Content:  content,
		Date:     cs.now().UTC(),
	}

	cs.postsMu.Lock()
	defer cs.postsMu.Unlock()

	if models.FindPost(cs.shared.State().CommunityPosts, postID) < 0 {
		return nil, fmt.Errorf("%w: %s", ErrPostNotFound, postID)
	}
	if cs.posts != nil {
		if err := cs.posts.AppendComment(ctx, postID, comment); err != nil {
			return nil, fmt.Errorf("failed to store comment: %w", err)
		}
	}
	cs.shared.Dispatch(store.AddComment{PostID: postID, Comment: comment})
	return &comment, nil
}

// CreatePost publishes a post by the signed-in user at the top of the feed.
func (cs *CommunityService) CreatePost(ctx context.Context, deviceID string, in NewPost) (*models.PostView, error) {
	view, err := cs.createPost(ctx, deviceID, in)
	cs.monitor.TrackOperation("community", "create_post", err)
	return view, err
}

func (cs *CommunityService) createPost(ctx context.Context, deviceID string, in NewPost) (*models.PostView, error) {
	user, err := cs.auth.RequireUser(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	in.EventID = helpers.StringTrim(in.EventID)
	in.Images = helpers.RemoveDuplicates(in.Images)
	if err := models.Validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	s := cs.shared.State()
	if in.EventID != "" && !s.HasEvent(in.EventID) {
		return nil, fmt.Errorf("%w: %s", ErrEventNotFound, in.EventID)
	}

	images, err := cs.storeImages(ctx, in.Images)
	if err != nil {
		return nil, err
	}

	author := strings.TrimSpace(user.Name)
	if author == "" {
		author = anonymousAuthor
	}
	post := models.CommunityPost{
		ID:         cs.newID(),
		UserID:     user.ID,
		UserName:   author,
		UserAvatar: user.Avatar,
		Type:       in.Type,
		Title:      in.Title,
		Content:    in.Content,
		Images:     images,
		EventID:    in.EventID,
		Date:       cs.now().UTC(),
		Comments:   []models.Comment{},
	}

	cs.postsMu.Lock()
	defer cs.postsMu.Unlock()

	if cs.posts != nil {
		if err := cs.posts.InsertPost(ctx, post); err != nil {
			return nil, fmt.Errorf("failed to store post: %w", err)
		}
	}
	cs.shared.Dispatch(store.AddCommunityPost{Post: post})

	view := viewPost(post, nil, models.IndexEvents(s.Events))
	return &view, nil
}

func (cs *CommunityService) storeImages(ctx context.Context, images []string) ([]string, error) {
	if len(images) == 0 {
		return nil, nil
	}
	if cs.uploader == nil {
		if err := models.Validate.Var(images, "dive,url"); err != nil {
			return nil, fmt.Errorf("%w: images must be URLs when uploads are disabled", ErrInvalidInput)
		}
		return images, nil
	}
	urls, err := cs.uploader.UploadImages(ctx, images, helpers.PostsFolder)
	if err != nil {
		return nil, fmt.Errorf("failed to upload images: %w", err)
	}
	return urls, nil
}

func (cs *CommunityService) likedSet(ctx context.Context, deviceID string) (map[string]bool, error) {
	ids, err := cs.devices(deviceID).LikedPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load liked posts: %w", err)
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func viewPosts(posts []models.CommunityPost, liked map[string]bool, events map[string]models.Event) []models.PostView {
	out := make([]models.PostView, 0, len(posts))
	for _, p := range posts {
		out = append(out, viewPost(p, liked, events))
	}
	return out
}

func viewPost(p models.CommunityPost, liked map[string]bool, events map[string]models.Event) models.PostView {
	v := models.PostView{CommunityPost: p, Liked: liked[p.ID], DisplayLikes: p.Likes}
	if v.Liked {
		v.DisplayLikes++
	}
	if e, ok := events[p.EventID]; ok && p.EventID != "" {
		v.EventTitle = e.Title
	}
	return v
}
