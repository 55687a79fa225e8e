package models

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the wishlist and post queries rely on.
func (mdb *MongodbRepo) EnsureIndexes(ctx context.Context) error {
	wishlists, err := mdb.GetCollection(WishlistColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %w", err)
	}
	_, err = wishlists.Indexes().CreateOne(ctx, mongo.IndexModel{
		// one wishlist document per device
		Keys:    bson.D{{Key: "owner", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("owner_unique"),
	})
	if err != nil {
		return fmt.Errorf("error creating wishlist indexes: %w", err)
	}

	posts, err := mdb.GetCollection(PostsColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %w", err)
	}
	_, err = posts.Indexes().CreateMany(ctx, []mongo.IndexModel{
		// feed order
		{
			Keys:    bson.D{{Key: "date", Value: -1}},
			Options: options.Index().SetName("date_desc_idx"),
		},
		{
			Keys:    bson.D{{Key: "type", Value: 1}, {Key: "date", Value: -1}},
			Options: options.Index().SetName("type_date_idx"),
		},
	})
	if err != nil {
		return fmt.Errorf("error creating post indexes: %w", err)
	}
	return nil
}
