package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/joshua-takyi/localinsights/internal/models"
)

// DeviceRepository implements models.DeviceRepo on top of a KV that is
// already scoped to one device.
type DeviceRepository struct {
	kv KV
}

func NewDeviceRepository(kv KV) *DeviceRepository {
	return &DeviceRepository{kv: kv}
}

// ForDevice scopes root to deviceID and wraps it.
func ForDevice(root KV, deviceID string) *DeviceRepository {
	return NewDeviceRepository(WithPrefix(root, DeviceNamespace(deviceID)))
}

// loadJSON decodes key into out. found is false when the key is missing.
func loadJSON(ctx context.Context, kv KV, key string, out interface{}) (bool, error) {
	raw, err := kv.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("%w: %s: %v", models.ErrCorruptRecord, key, err)
	}
	return true, nil
}

func saveJSON(ctx context.Context, kv KV, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return kv.Set(ctx, key, raw)
}

func (d *DeviceRepository) LoadSession(ctx context.Context) (*models.User, error) {
	var user models.User
	found, err := loadJSON(ctx, d.kv, KeySession, &user)
	if err != nil || !found {
		return nil, err
	}
	return &user, nil
}

func (d *DeviceRepository) SaveSession(ctx context.Context, user models.User) error {
	return saveJSON(ctx, d.kv, KeySession, user)
}

func (d *DeviceRepository) ClearSession(ctx context.Context) error {
	return d.kv.Delete(ctx, KeySession)
}

func (d *DeviceRepository) LikedPosts(ctx context.Context) ([]string, error) {
	ids := []string{}
	if _, err := loadJSON(ctx, d.kv, KeyLikedPosts, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (d *DeviceRepository) SaveLikedPosts(ctx context.Context, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	return saveJSON(ctx, d.kv, KeyLikedPosts, ids)
}

// Preferences reads theme and language, which are stored as bare strings
// under their own keys. Missing or unknown values fall back to defaults.
func (d *DeviceRepository) Preferences(ctx context.Context) (models.Preferences, error) {
	prefs := models.DefaultPreferences()

	theme, err := d.kv.Get(ctx, KeyTheme)
	switch {
	case err == nil:
		if t := models.Theme(theme); t == models.ThemeLight || t == models.ThemeDark {
			prefs.Theme = t
		}
	case !errors.Is(err, ErrNotFound):
		return prefs, err
	}

	lang, err := d.kv.Get(ctx, KeyLanguage)
	switch {
	case err == nil:
		switch l := models.Language(lang); l {
		case models.LanguageFR, models.LanguageEN, models.LanguageES:
			prefs.Language = l
		}
	case !errors.Is(err, ErrNotFound):
		return prefs, err
	}
	return prefs, nil
}

func (d *DeviceRepository) SavePreferences(ctx context.Context, prefs models.Preferences) error {
	if err := d.kv.Set(ctx, KeyTheme, []byte(prefs.Theme)); err != nil {
		return err
	}
	return d.kv.Set(ctx, KeyLanguage, []byte(prefs.Language))
}

func (d *DeviceRepository) Filters(ctx context.Context) (*models.FilterState, error) {
	var f models.FilterState
	found, err := loadJSON(ctx, d.kv, KeyFilters, &f)
	if err != nil || !found {
		return nil, err
	}
	return &f, nil
}

func (d *DeviceRepository) SaveFilters(ctx context.Context, filters models.FilterState) error {
	return saveJSON(ctx, d.kv, KeyFilters, filters)
}

func (d *DeviceRepository) Profile(ctx context.Context) (*models.UserProfile, error) {
	var p models.UserProfile
	found, err := loadJSON(ctx, d.kv, KeyProfile, &p)
	if err != nil || !found {
		return nil, err
	}
	return &p, nil
}

func (d *DeviceRepository) SaveProfile(ctx context.Context, profile models.UserProfile) error {
	return saveJSON(ctx, d.kv, KeyProfile, profile)
}

// KVWishlists keeps each owner's wishlist under its device namespace.
type KVWishlists struct {
	root KV
}

func NewKVWishlists(root KV) *KVWishlists {
	return &KVWishlists{root: root}
}

func (w *KVWishlists) LoadWishlist(ctx context.Context, owner string) (models.Wishlist, error) {
	list := models.Wishlist{}
	if _, err := loadJSON(ctx, WithPrefix(w.root, DeviceNamespace(owner)), KeyWishlist, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (w *KVWishlists) SaveWishlist(ctx context.Context, owner string, list models.Wishlist) error {
	if list == nil {
		list = models.Wishlist{}
	}
	return saveJSON(ctx, WithPrefix(w.root, DeviceNamespace(owner)), KeyWishlist, list)
}

// KVUserDirectory stores every registered user in one JSON list shared by
// all devices. Emails match case-insensitively.
type KVUserDirectory struct {
	mu   sync.Mutex
	root KV
}

func NewKVUserDirectory(root KV) *KVUserDirectory {
	return &KVUserDirectory{root: root}
}

func (u *KVUserDirectory) users(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if _, err := loadJSON(ctx, u.root, KeyUsers, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (u *KVUserDirectory) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	users, err := u.users(ctx)
	if err != nil {
		return nil, err
	}
	key := models.EmailKey(email)
	for i := range users {
		if models.EmailKey(users[i].Email) == key {
			found := users[i]
			return &found, nil
		}
	}
	return nil, nil
}

func (u *KVUserDirectory) AddUser(ctx context.Context, user models.User) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	users, err := u.users(ctx)
	if err != nil {
		return err
	}
	key := models.EmailKey(user.Email)
	for i := range users {
		if models.EmailKey(users[i].Email) == key {
			return fmt.Errorf("%w: %s", models.ErrDuplicateUser, key)
		}
	}
	return saveJSON(ctx, u.root, KeyUsers, append(users, user))
}
