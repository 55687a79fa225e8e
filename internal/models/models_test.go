package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWishlist(t *testing.T) {
	w := Wishlist{"1", "2"}

	added := w.Add("3")
	assert.Equal(t, Wishlist{"1", "2", "3"}, added)
	assert.Equal(t, Wishlist{"1", "2"}, w, "receiver must not change")
	assert.Equal(t, added, added.Add("3"))

	assert.Equal(t, Wishlist{"2"}, w.Remove("1"))
	assert.Equal(t, w, w.Remove("9"))

	assert.True(t, w.Toggle("1").Equal(Wishlist{"2"}))
	assert.True(t, w.Toggle("4").Toggle("4").Equal(w))

	assert.True(t, Wishlist{"2", "1"}.Equal(w))
	assert.False(t, Wishlist{"1"}.Equal(w))

	kept := Wishlist{"1", "x", "2"}.Retain(func(id string) bool { return id != "x" })
	assert.Equal(t, Wishlist{"1", "2"}, kept)
}

func TestParseCoordinates(t *testing.T) {
	c, err := ParseCoordinates(" 48.8566, 2.3522 ")
	require.NoError(t, err)
	assert.Equal(t, Coordinates{Latitude: 48.8566, Longitude: 2.3522}, c)

	for _, bad := range []string{"", "48.8", "a,b", "91,0", "0,181", "1,2,3"} {
		_, err := ParseCoordinates(bad)
		assert.Error(t, err, bad)
	}
}

func TestDistanceKm(t *testing.T) {
	paris := Coordinates{Latitude: 48.8566, Longitude: 2.3522}
	lyon := Coordinates{Latitude: 45.7640, Longitude: 4.8357}

	assert.InDelta(t, 0, paris.DistanceKm(paris), 1e-9)
	assert.InDelta(t, 392, paris.DistanceKm(lyon), 5)
	assert.InDelta(t, paris.DistanceKm(lyon), lyon.DistanceKm(paris), 1e-9)
}

func TestFilterState_Merge(t *testing.T) {
	base := DefaultFilterState(time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, DateRange{Start: "2024-01-10", End: "2024-02-09"}, base.DateRange)
	assert.Equal(t, float64(DefaultDistanceKm), base.Distance)

	distance := 2.5
	cats := []string{"Musique"}
	merged := base.Merge(FilterPatch{Distance: &distance, Categories: &cats})

	assert.Equal(t, 2.5, merged.Distance)
	assert.Equal(t, []string{"Musique"}, merged.Categories)
	assert.Equal(t, base.DateRange, merged.DateRange)
	assert.True(t, merged.PriceRange.Max.Equal(decimal.NewFromInt(DefaultMaxPriceEUR)))
	assert.Equal(t, float64(DefaultDistanceKm), base.Distance, "base must not change")

	cats[0] = "Art"
	assert.Equal(t, []string{"Musique"}, merged.Categories, "merge copies slices")
}

func TestAvatarFor(t *testing.T) {
	assert.Equal(t, "https://ui-avatars.com/api/?name=Jean%20Dupont&background=random", AvatarFor("Jean Dupont"))
	assert.Equal(t, "marie@example.com", EmailKey("  Marie@Example.COM "))
}

func TestFindPost(t *testing.T) {
	posts := []CommunityPost{{ID: "a"}, {ID: "b"}}
	assert.Equal(t, 1, FindPost(posts, "b"))
	assert.Equal(t, -1, FindPost(posts, "c"))
}
