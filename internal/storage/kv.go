// Package storage keeps what a browser used to hold in local storage:
// small JSON values under string keys, namespaced per device.
package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("key not found")

// Persisted keys. The names match what browsers wrote before the state
// moved server-side, so exported local storage can be imported as is.
const (
	KeySession    = "localInsights_user"
	KeyUsers      = "localInsights_users"
	KeyLikedPosts = "localInsights_likedPosts"
	KeyTheme      = "theme"
	KeyLanguage   = "language"
	KeyWishlist   = "wishlist"
	KeyFilters    = "filters"
	KeyProfile    = "profile"
)

// KV is a flat key-value store. Get returns ErrNotFound for missing keys.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// DeviceNamespace is the key prefix for one device.
func DeviceNamespace(deviceID string) string {
	return "device:" + deviceID + ":"
}

type prefixed struct {
	kv     KV
	prefix string
}

// WithPrefix scopes every key of kv under prefix.
func WithPrefix(kv KV, prefix string) KV {
	return &prefixed{kv: kv, prefix: prefix}
}

func (p *prefixed) Get(ctx context.Context, key string) ([]byte, error) {
	return p.kv.Get(ctx, p.prefix+key)
}

func (p *prefixed) Set(ctx context.Context, key string, value []byte) error {
	return p.kv.Set(ctx, p.prefix+key, value)
}

func (p *prefixed) Delete(ctx context.Context, key string) error {
	return p.kv.Delete(ctx, p.prefix+key)
}
