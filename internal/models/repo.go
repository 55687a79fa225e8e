package models

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/supabase-community/supabase-go"
	"go.mongodb.org/mongo-driver/mongo"
)

var Validate = validator.New()

// ErrCorruptRecord is returned when a stored value cannot be decoded.
var ErrCorruptRecord = errors.New("stored record is corrupt")

// ErrDuplicateUser is returned by AddUser when the email is already taken.
var ErrDuplicateUser = errors.New("user with this email already exists")

// DeviceRepo is everything one browser used to keep in local storage.
// Loaders return the zero value (and no error) when nothing is stored.
type DeviceRepo interface {
	LoadSession(ctx context.Context) (*User, error)
	SaveSession(ctx context.Context, user User) error
	ClearSession(ctx context.Context) error

	LikedPosts(ctx context.Context) ([]string, error)
	SaveLikedPosts(ctx context.Context, ids []string) error

	Preferences(ctx context.Context) (Preferences, error)
	SavePreferences(ctx context.Context, prefs Preferences) error

	Filters(ctx context.Context) (*FilterState, error)
	SaveFilters(ctx context.Context, filters FilterState) error

	Profile(ctx context.Context) (*UserProfile, error)
	SaveProfile(ctx context.Context, profile UserProfile) error
}

// WishlistRepo stores one wishlist per owner (a device id).
type WishlistRepo interface {
	LoadWishlist(ctx context.Context, owner string) (Wishlist, error)
	SaveWishlist(ctx context.Context, owner string, list Wishlist) error
}

// UserDirectory is the list of registered users. FindUserByEmail returns
// nil, nil when no user matches. AddUser checks the email atomically with
// the insert and returns ErrDuplicateUser on a collision.
type UserDirectory interface {
	FindUserByEmail(ctx context.Context, email string) (*User, error)
	AddUser(ctx context.Context, user User) error
}

// PostRepo persists community posts outside the process.
type PostRepo interface {
	ListPosts(ctx context.Context) ([]CommunityPost, error)
	InsertPost(ctx context.Context, post CommunityPost) error
	AppendComment(ctx context.Context, postID string, comment Comment) error
}

type SupabaseRepo struct {
	supabaseClient *supabase.Client
}

func SupabaseNewRepo(supabaseClient *supabase.Client) *SupabaseRepo {
	return &SupabaseRepo{
		supabaseClient: supabaseClient,
	}
}

type MongodbRepo struct {
	mongodbClient *mongo.Client
	dbName        string
}

func MongodbNewRepo(mongodbClient *mongo.Client, dbName string) *MongodbRepo {
	if dbName == "" {
		dbName = DefaultDbName
	}
	return &MongodbRepo{
		mongodbClient: mongodbClient,
		dbName:        dbName,
	}
}

func (mdb *MongodbRepo) GetCollection(colName string) (*mongo.Collection, error) {
	if mdb.mongodbClient == nil {
		return nil, fmt.Errorf("mongodb client is not initialized")
	}
	return mdb.mongodbClient.Database(mdb.dbName).Collection(colName), nil
}
