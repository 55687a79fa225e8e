package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/joshua-takyi/localinsights/internal/auth"
	"github.com/joshua-takyi/localinsights/internal/filter"
	"github.com/joshua-takyi/localinsights/internal/fixtures"
	"github.com/joshua-takyi/localinsights/internal/models"
	"github.com/joshua-takyi/localinsights/internal/store"
	"github.com/joshua-takyi/localinsights/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePostRepo struct {
	posts    []models.CommunityPost
	inserted []models.CommunityPost
	comments map[string][]models.Comment
	err      error
}

func (f *fakePostRepo) ListPosts(ctx context.Context) ([]models.CommunityPost, error) {
	return f.posts, f.err
}

func (f *fakePostRepo) InsertPost(ctx context.Context, post models.CommunityPost) error {
	if f.err != nil {
		return f.err
	}
	f.inserted = append(f.inserted, post)
	return nil
}

func (f *fakePostRepo) AppendComment(ctx context.Context, postID string, comment models.Comment) error {
	if f.err != nil {
		return f.err
	}
	if f.comments == nil {
		f.comments = map[string][]models.Comment{}
	}
	f.comments[postID] = append(f.comments[postID], comment)
	return nil
}

type fakeUploader struct {
	calls  int
	folder string
}

func (f *fakeUploader) UploadImages(ctx context.Context, images []string, folder string) ([]string, error) {
	f.calls++
	f.folder = folder
	out := make([]string, len(images))
	for i := range images {
		out[i] = "https://res.cloudinary.com/demo/image/upload/" + folder + "/img.jpg"
	}
	return out, nil
}

type harness struct {
	root      *storage.MemoryKV
	shared    *store.Store
	state     *StateService
	catalogue *CatalogueService
	wishlist  *WishlistService
	prefs     *PreferencesService
	profile   *ProfileService
	auth      *AuthService
	community *CommunityService
	posts     *fakePostRepo
	uploader  *fakeUploader
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	c, err := fixtures.Load()
	require.NoError(t, err)

	now := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	shared := store.New(store.Initial(models.DefaultFilterState(now)))
	shared.Dispatch(store.SetEvents{Events: c.Events})
	shared.Dispatch(store.SetArtists{Artists: c.Artists})

	root := storage.NewMemoryKV()
	devices := func(id string) models.DeviceRepo { return storage.ForDevice(root, id) }

	h := &harness{
		root:     root,
		shared:   shared,
		posts:    &fakePostRepo{},
		uploader: &fakeUploader{},
	}
	h.state = NewStateService(shared, devices, storage.NewKVWishlists(root), nil)
	h.state.now = func() time.Time { return now }
	h.catalogue = NewCatalogueService(shared, h.state, time.UTC)
	h.wishlist = NewWishlistService(h.state, time.UTC, nil)
	h.wishlist.now = func() time.Time { return now }
	h.prefs = NewPreferencesService(devices, nil)
	h.profile = NewProfileService(h.state, h.prefs)
	h.auth = NewAuthService(devices, storage.NewKVUserDirectory(root), nil, nil,
		auth.WithClock(func() time.Time { return now }))
	h.community = NewCommunityService(shared, h.posts, devices, h.auth, h.uploader, nil, nil)
	h.community.now = func() time.Time { return now }

	require.NoError(t, h.community.Bootstrap(context.Background(), c.Posts))
	return h
}

func (h *harness) signIn(t *testing.T, deviceID, email string) {
	t.Helper()
	_, err := h.auth.Login(context.Background(), deviceID, email, "secret123")
	require.NoError(t, err)
}

func TestCatalogue_SearchAndDetail(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	got := h.catalogue.Events(filter.Query{Text: "  jazz "})
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)

	detail, err := h.catalogue.Event(ctx, "d1", "1")
	require.NoError(t, err)
	assert.Equal(t, "15-25€", detail.PriceLabel)
	assert.Contains(t, detail.MapsURL, "Le%20Petit%20Jazz%20Club")
	assert.Contains(t, detail.CalendarURL, "dates=20240115T200000Z/20240115T220000Z")
	require.Len(t, detail.Artists, 1)
	assert.Equal(t, "Sarah Chen", detail.Artists[0].Name)

	_, err = h.catalogue.Event(ctx, "d1", "404")
	assert.ErrorIs(t, err, ErrEventNotFound)

	assert.Len(t, h.catalogue.Artists(true), 2)
	assert.Len(t, h.catalogue.Artists(false), 3)
}

func TestCatalogue_FiltersArePerDevice(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	cats := []string{"Art"}
	f, err := h.catalogue.UpdateFilters(ctx, "d1", models.FilterPatch{
		Categories: &cats,
		DateRange:  &models.DateRange{Start: "2024-01-01", End: "2024-02-28"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Art"}, f.Categories)
	assert.Equal(t, float64(models.DefaultDistanceKm), f.Distance)

	events, _, err := h.catalogue.FilteredEvents(ctx, "d1", nil)
	require.NoError(t, err)
	assert.Len(t, events, 3)

	other, err := h.catalogue.Filters(ctx, "d2")
	require.NoError(t, err)
	assert.Empty(t, other.Categories)

	bad := models.DateRange{Start: "2024-02-01", End: "2024-01-01"}
	_, err = h.catalogue.UpdateFilters(ctx, "d1", models.FilterPatch{DateRange: &bad})
	assert.ErrorIs(t, err, ErrInvalidInput)

	neg := -1.0
	_, err = h.catalogue.UpdateFilters(ctx, "d1", models.FilterPatch{Distance: &neg})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestWishlist_AddRemoveToggle(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	list, err := h.wishlist.Add(ctx, "d1", "2")
	require.NoError(t, err)
	assert.Equal(t, models.Wishlist{"2"}, list)

	list, err = h.wishlist.Add(ctx, "d1", "2")
	require.NoError(t, err)
	assert.Equal(t, models.Wishlist{"2"}, list)

	_, err = h.wishlist.Add(ctx, "d1", "999")
	assert.ErrorIs(t, err, ErrEventNotFound)

	saved, list, err := h.wishlist.Toggle(ctx, "d1", "12")
	require.NoError(t, err)
	assert.True(t, saved)
	assert.True(t, list.Equal(models.Wishlist{"2", "12"}))

	saved, _, err = h.wishlist.Toggle(ctx, "d1", "12")
	require.NoError(t, err)
	assert.False(t, saved)

	list, err = h.wishlist.Remove(ctx, "d1", "2")
	require.NoError(t, err)
	assert.Empty(t, list)

	other, err := h.wishlist.Events(ctx, "d2")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestWishlist_SummaryAndExport(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	for _, id := range []string{"1", "2", "12"} {
		_, err := h.wishlist.Add(ctx, "d1", id)
		require.NoError(t, err)
	}

	sum, err := h.wishlist.Summary(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Events)
	assert.Equal(t, 2, sum.FreeEvents)
	assert.Equal(t, []string{"Musique", "Art"}, sum.Categories)

	var buf bytes.Buffer
	require.NoError(t, h.wishlist.ExportICS(ctx, "d1", &buf))
	assert.Equal(t, 3, strings.Count(buf.String(), "BEGIN:VEVENT"))
}

func TestWishlist_PrunedWhenEventsLeave(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, err := h.wishlist.Add(ctx, "d1", "1")
	require.NoError(t, err)
	_, err = h.wishlist.Add(ctx, "d1", "2")
	require.NoError(t, err)

	h.shared.Dispatch(store.SetEvents{Events: h.shared.State().Events[1:]})

	events, err := h.wishlist.Events(ctx, "d1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "2", events[0].ID)
}

func TestPreferences(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	prefs, err := h.prefs.Get(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultPreferences(), prefs)

	prefs, err = h.prefs.ToggleTheme(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, models.ThemeDark, prefs.Theme)

	prefs, err = h.prefs.Update(ctx, "d1", models.Preferences{Language: models.LanguageES})
	require.NoError(t, err)
	assert.Equal(t, models.Preferences{Theme: models.ThemeDark, Language: models.LanguageES}, prefs)

	_, err = h.prefs.Update(ctx, "d1", models.Preferences{Language: "de"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestProfile_SaveFeedsStateAndLanguage(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	p, err := h.profile.Save(ctx, "d1", models.UserProfile{
		Name:      " Camille ",
		Interests: []string{"Musique", "Musique", "Art"},
		Budget:    models.BudgetLow,
		Mood:      models.MoodSocial,
		Language:  models.LanguageEN,
		Location:  &models.ProfileLocation{Lat: 48.8566, Lng: 2.3522, City: "Paris"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Camille", p.Name)
	assert.Equal(t, []string{"Musique", "Art"}, p.Interests)
	assert.NotEmpty(t, p.ID)

	again, err := h.profile.Save(ctx, "d1", *p)
	require.NoError(t, err)
	assert.Equal(t, p.ID, again.ID)

	s, err := h.state.Snapshot(ctx, "d1")
	require.NoError(t, err)
	require.NotNil(t, s.UserProfile)
	assert.Equal(t, "Paris", s.UserProfile.Location.City)

	prefs, err := h.prefs.Get(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, models.LanguageEN, prefs.Language)

	_, err = h.profile.Save(ctx, "d1", models.UserProfile{Name: "x", Budget: "huge", Mood: models.MoodSocial, Language: models.LanguageFR})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAuth_RequireUser(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.auth.RequireUser(ctx, "d1")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	h.signIn(t, "d1", "lea@example.com")
	u, err := h.auth.RequireUser(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "lea", u.Name)

	_, err = h.auth.RequireUser(ctx, "d2")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = h.auth.Register(ctx, "d2", "Léa", "LEA@example.com", "secret123")
	require.NoError(t, err, "login never registers, so the email is still free")

	_, err = h.auth.Register(ctx, "d3", "Other", "lea@example.com", "secret123")
	assert.ErrorIs(t, err, auth.ErrEmailTaken)

	st, err := h.auth.Logout(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, auth.StatusAnonymous, st.Status())
}

func TestCommunity_LikeOverlay(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.community.ToggleLike(ctx, "d1", "1")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	h.signIn(t, "d1", "a@example.com")
	view, err := h.community.ToggleLike(ctx, "d1", "1")
	require.NoError(t, err)
	assert.True(t, view.Liked)
	assert.Equal(t, 13, view.DisplayLikes)
	assert.Equal(t, 12, view.Likes)

	feed, err := h.community.List(ctx, "d2", "")
	require.NoError(t, err)
	assert.Equal(t, 12, feed[0].DisplayLikes, "other devices see the stored count")
	assert.Equal(t, "Concert Jazz Intime - Sarah Chen", feed[0].EventTitle)

	liked, err := h.community.LikedPosts(ctx, "d1")
	require.NoError(t, err)
	require.Len(t, liked, 1)
	assert.Equal(t, "1", liked[0].ID)

	view, err = h.community.ToggleLike(ctx, "d1", "1")
	require.NoError(t, err)
	assert.False(t, view.Liked)
	assert.Equal(t, 12, view.DisplayLikes)
	assert.Equal(t, 12, h.shared.State().CommunityPosts[0].Likes)

	_, err = h.community.ToggleLike(ctx, "d1", "ghost")
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestCommunity_Comments(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.community.AddComment(ctx, "d1", "2", "hello")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	h.signIn(t, "d1", "paul@example.com")

	_, err = h.community.AddComment(ctx, "d1", "2", "   ")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = h.community.AddComment(ctx, "d1", "ghost", "hello")
	assert.ErrorIs(t, err, ErrPostNotFound)

	c, err := h.community.AddComment(ctx, "d1", "2", "  Super interview  ")
	require.NoError(t, err)
	assert.Equal(t, "Super interview", c.Content)
	assert.Equal(t, "paul", c.UserName)
	assert.NotEmpty(t, c.ID)

	posts := h.shared.State().CommunityPosts
	idx := models.FindPost(posts, "2")
	require.Len(t, posts[idx].Comments, 1)
	assert.Len(t, h.posts.comments["2"], 1)
}

func TestCommunity_CreatePost(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.signIn(t, "d1", "nora@example.com")

	_, err := h.community.CreatePost(ctx, "d1", NewPost{Type: "rant", Title: "t", Content: "c"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = h.community.CreatePost(ctx, "d1", NewPost{Type: models.PostReview, Title: "t", Content: "c", EventID: "404"})
	assert.ErrorIs(t, err, ErrEventNotFound)

	view, err := h.community.CreatePost(ctx, "d1", NewPost{
		Type:    models.PostReview,
		Title:   " Great expo ",
		Content: "Loved it",
		EventID: "2",
		Images:  []string{"data:image/png;base64,AAAA"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Great expo", view.Title)
	assert.Equal(t, "nora", view.UserName)
	assert.Equal(t, 0, view.Likes)
	assert.Equal(t, 1, h.uploader.calls)
	require.Len(t, view.Images, 1)
	assert.Contains(t, view.Images[0], "community-posts")

	posts := h.shared.State().CommunityPosts
	require.Len(t, posts, 3)
	assert.Equal(t, view.ID, posts[0].ID, "new posts go first")
	require.Len(t, h.posts.inserted, 3, "two seeds plus the new post")
}

func TestCommunity_BootstrapUsesStoredPosts(t *testing.T) {
	c, err := fixtures.Load()
	require.NoError(t, err)

	shared := store.New(store.Initial(models.FilterState{}))
	repo := &fakePostRepo{posts: []models.CommunityPost{{ID: "db", Title: "from db", Likes: -2}}}
	cs := NewCommunityService(shared, repo, nil, nil, nil, nil, nil)

	require.NoError(t, cs.Bootstrap(context.Background(), c.Posts))
	posts := shared.State().CommunityPosts
	require.Len(t, posts, 1)
	assert.Equal(t, "db", posts[0].ID)
	assert.Equal(t, 0, posts[0].Likes)
	assert.Empty(t, repo.inserted)

	repo.err = errors.New("down")
	assert.Error(t, cs.Bootstrap(context.Background(), c.Posts))
}

func TestKeyedMutex_ReleasesEntries(t *testing.T) {
	k := newKeyedMutex()
	unlock := k.Lock("a")
	done := make(chan struct{})
	go func() {
		u := k.Lock("a")
		u()
		close(done)
	}()
	unlock()
	<-done
	assert.Empty(t, k.locks)
}
