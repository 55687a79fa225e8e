package models

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DefaultDbName   = "localinsights"
	WishlistColName = "wishlists"
)

// Wishlist is a set of event ids. Methods never modify the receiver.
type Wishlist []string

func (w Wishlist) Contains(id string) bool {
	for _, v := range w {
		if v == id {
			return true
		}
	}
	return false
}

// Add returns w with id; adding an id already present is a no-op.
func (w Wishlist) Add(id string) Wishlist {
	if w.Contains(id) {
		return w
	}
	out := make(Wishlist, len(w), len(w)+1)
	copy(out, w)
	return append(out, id)
}

func (w Wishlist) Remove(id string) Wishlist {
	out := make(Wishlist, 0, len(w))
	for _, v := range w {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func (w Wishlist) Toggle(id string) Wishlist {
	if w.Contains(id) {
		return w.Remove(id)
	}
	return w.Add(id)
}

// Retain drops every id not accepted by keep.
func (w Wishlist) Retain(keep func(id string) bool) Wishlist {
	out := make(Wishlist, 0, len(w))
	for _, v := range w {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

// Equal compares as sets.
func (w Wishlist) Equal(o Wishlist) bool {
	a, b := w.sorted(), o.sorted()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (w Wishlist) sorted() []string {
	out := append([]string(nil), w...)
	sort.Strings(out)
	return out
}

type WishlistItem struct {
	EventID string    `bson:"event_id" json:"event_id"`
	AddedAt time.Time `bson:"added_at" json:"added_at"`
}

type wishlistDocument struct {
	Owner     string                  `bson:"owner"`
	Items     map[string]WishlistItem `bson:"items"`
	CreatedAt time.Time               `bson:"created_at,omitempty"`
	UpdatedAt time.Time               `bson:"updated_at,omitempty"`
}

func (mdb *MongodbRepo) LoadWishlist(ctx context.Context, owner string) (Wishlist, error) {
	col, err := mdb.GetCollection(WishlistColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}

	var doc wishlistDocument
	err = col.FindOne(ctx, bson.M{"owner": owner}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Wishlist{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error finding wishlist: %w", err)
	}

	items := make([]WishlistItem, 0, len(doc.Items))
	for _, it := range doc.Items {
		items = append(items, it)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].AddedAt.Before(items[j].AddedAt) })

	list := make(Wishlist, 0, len(items))
	for _, it := range items {
		list = append(list, it.EventID)
	}
	return list, nil
}

// SaveWishlist replaces the owner's items, keeping the original added_at of
// ids that were already present.
func (mdb *MongodbRepo) SaveWishlist(ctx context.Context, owner string, list Wishlist) error {
	col, err := mdb.GetCollection(WishlistColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %w", err)
	}

	var existing wishlistDocument
	err = col.FindOne(ctx, bson.M{"owner": owner}).Decode(&existing)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("error finding wishlist: %w", err)
	}

	now := time.Now()
	items := make(map[string]WishlistItem, len(list))
	for i, id := range list {
		if prev, ok := existing.Items[id]; ok {
			items[id] = prev
			continue
		}
		// keep insertion order stable for ids added in the same save
		items[id] = WishlistItem{EventID: id, AddedAt: now.Add(time.Duration(i) * time.Microsecond)}
	}

	update := bson.M{
		"$set": bson.M{
			"items":      items,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"owner":      owner,
			"created_at": now,
		},
	}
	_, err = col.UpdateOne(ctx, bson.M{"owner": owner}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("error upserting wishlist: %w", err)
	}
	return nil
}
