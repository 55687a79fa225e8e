package models

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const (
	wishlistNS = DefaultDbName + "." + WishlistColName
	postsNS    = DefaultDbName + "." + PostsColName
)

func TestMongodbRepo_Wishlist(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("missing wishlist is empty", func(mt *mtest.T) {
		repo := MongodbNewRepo(mt.Client, "")
		mt.AddMockResponses(mtest.CreateCursorResponse(0, wishlistNS, mtest.FirstBatch))

		list, err := repo.LoadWishlist(ctx, "device-1")
		require.NoError(mt, err)
		assert.NotNil(mt, list)
		assert.Empty(mt, list)
	})

	mt.Run("items come back in the order they were added", func(mt *mtest.T) {
		repo := MongodbNewRepo(mt.Client, "")
		first := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
		doc := bson.D{
			{Key: "owner", Value: "device-1"},
			{Key: "items", Value: bson.D{
				{Key: "7", Value: bson.D{{Key: "event_id", Value: "7"}, {Key: "added_at", Value: first.Add(time.Hour)}}},
				{Key: "3", Value: bson.D{{Key: "event_id", Value: "3"}, {Key: "added_at", Value: first}}},
			}},
		}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, wishlistNS, mtest.FirstBatch, doc))

		list, err := repo.LoadWishlist(ctx, "device-1")
		require.NoError(mt, err)
		assert.Equal(mt, Wishlist{"3", "7"}, list)
	})

	mt.Run("save upserts", func(mt *mtest.T) {
		repo := MongodbNewRepo(mt.Client, "")
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, wishlistNS, mtest.FirstBatch),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 0}),
		)

		err := repo.SaveWishlist(ctx, "device-1", Wishlist{"1", "2"})
		require.NoError(mt, err)
	})

	mt.Run("save reports write failures", func(mt *mtest.T) {
		repo := MongodbNewRepo(mt.Client, "")
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, wishlistNS, mtest.FirstBatch),
			mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Message: "bad update"}),
		)

		err := repo.SaveWishlist(ctx, "device-1", Wishlist{"1"})
		assert.ErrorContains(mt, err, "error upserting wishlist")
	})
}

func TestMongodbRepo_Posts(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()
	date := time.Date(2024, 1, 12, 9, 0, 0, 0, time.UTC)

	mt.Run("list fills in empty comments", func(mt *mtest.T) {
		repo := MongodbNewRepo(mt.Client, "")
		mt.AddMockResponses(mtest.CreateCursorResponse(0, postsNS, mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: "p1"},
				{Key: "user_name", Value: "Marie"},
				{Key: "type", Value: "review"},
				{Key: "title", Value: "Superbe soirée"},
				{Key: "content", Value: "À refaire"},
				{Key: "date", Value: date},
				{Key: "likes", Value: 4},
			},
		))

		posts, err := repo.ListPosts(ctx)
		require.NoError(mt, err)
		require.Len(mt, posts, 1)
		assert.Equal(mt, "p1", posts[0].ID)
		assert.Equal(mt, PostReview, posts[0].Type)
		assert.Equal(mt, 4, posts[0].Likes)
		assert.NotNil(mt, posts[0].Comments)
		assert.Empty(mt, posts[0].Comments)
	})

	mt.Run("insert validates before writing", func(mt *mtest.T) {
		repo := MongodbNewRepo(mt.Client, "")

		err := repo.InsertPost(ctx, CommunityPost{ID: "p2", Type: "rant", Title: "t", Content: "c"})
		assert.ErrorContains(mt, err, "invalid post data")
	})

	mt.Run("insert", func(mt *mtest.T) {
		repo := MongodbNewRepo(mt.Client, "")
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		err := repo.InsertPost(ctx, CommunityPost{
			ID: "p2", UserName: "Jean", Type: PostRecommendation,
			Title: "Jazz", Content: "Allez-y", Date: date,
		})
		require.NoError(mt, err)
	})

	mt.Run("append comment", func(mt *mtest.T) {
		repo := MongodbNewRepo(mt.Client, "")
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))

		err := repo.AppendComment(ctx, "p1", Comment{ID: "c1", UserName: "Jean", Content: "Merci", Date: date})
		require.NoError(mt, err)
	})

	mt.Run("append comment to unknown post", func(mt *mtest.T) {
		repo := MongodbNewRepo(mt.Client, "")
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		err := repo.AppendComment(ctx, "missing", Comment{ID: "c1", Content: "Merci"})
		assert.ErrorContains(mt, err, "no post found")
	})

	mt.Run("ensure indexes", func(mt *mtest.T) {
		repo := MongodbNewRepo(mt.Client, "")
		mt.AddMockResponses(mtest.CreateSuccessResponse(), mtest.CreateSuccessResponse())

		require.NoError(mt, repo.EnsureIndexes(ctx))
	})
}

func TestMongodbRepo_NoClient(t *testing.T) {
	repo := MongodbNewRepo(nil, "")

	_, err := repo.LoadWishlist(context.Background(), "device-1")
	assert.Error(t, err)
	assert.Error(t, repo.EnsureIndexes(context.Background()))
}
