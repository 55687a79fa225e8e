package models

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const PostsColName = "community_posts"

func (mdb *MongodbRepo) ListPosts(ctx context.Context) ([]CommunityPost, error) {
	col, err := mdb.GetCollection(PostsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding posts: %w", err)
	}
	defer cursor.Close(ctx)

	var posts []CommunityPost
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("error decoding posts: %w", err)
	}
	for i := range posts {
		if posts[i].Comments == nil {
			posts[i].Comments = []Comment{}
		}
	}
	return posts, nil
}

func (mdb *MongodbRepo) InsertPost(ctx context.Context, post CommunityPost) error {
	if err := Validate.Struct(post); err != nil {
		return fmt.Errorf("invalid post data: %w", err)
	}
	if post.Comments == nil {
		post.Comments = []Comment{}
	}
	col, err := mdb.GetCollection(PostsColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %w", err)
	}
	if _, err := col.InsertOne(ctx, post); err != nil {
		return fmt.Errorf("failed to insert post into database: %w", err)
	}
	return nil
}

func (mdb *MongodbRepo) AppendComment(ctx context.Context, postID string, comment Comment) error {
	col, err := mdb.GetCollection(PostsColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %w", err)
	}
	res, err := col.UpdateOne(ctx,
		bson.M{"_id": postID},
		bson.M{"$push": bson.M{"comments": comment}},
	)
	if err != nil {
		return fmt.Errorf("error appending comment: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("no post found with id %s", postID)
	}
	return nil
}
