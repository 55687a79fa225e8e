package container

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/joshua-takyi/localinsights/internal/config"
	"github.com/joshua-takyi/localinsights/internal/fixtures"
	"github.com/joshua-takyi/localinsights/internal/helpers"
	"github.com/joshua-takyi/localinsights/internal/models"
	"github.com/joshua-takyi/localinsights/internal/monitoring"
	"github.com/joshua-takyi/localinsights/internal/services"
	"github.com/joshua-takyi/localinsights/internal/storage"
	"github.com/joshua-takyi/localinsights/internal/store"
	"github.com/redis/go-redis/v9"
	"github.com/supabase-community/supabase-go"
	"go.mongodb.org/mongo-driver/mongo"
)

// redisKeyPrefix namespaces every key this service writes to Redis.
const redisKeyPrefix = "localinsights:"

// Clients are the external connections made by main. Any of them may be
// nil; the container falls back to the key-value store.
type Clients struct {
	Mongo      *mongo.Client
	Supabase   *supabase.Client
	Redis      *redis.Client
	Cloudinary *cloudinary.Cloudinary
}

// Container holds all application dependencies
type Container struct {
	Config   *config.Config
	Logger   *slog.Logger
	Location *time.Location
	Monitor  *monitoring.Monitor
	Clients  Clients

	KV    storage.KV
	Store *store.Store

	StateService       *services.StateService
	CatalogueService   *services.CatalogueService
	WishlistService    *services.WishlistService
	PreferencesService *services.PreferencesService
	ProfileService     *services.ProfileService
	AuthService        *services.AuthService
	CommunityService   *services.CommunityService
}

// NewContainer wires repositories and services, then loads the bundled
// catalogue into the shared store.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger, loc *time.Location, clients Clients) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if loc == nil {
		loc = time.UTC
	}

	kv, err := openKV(cfg, clients)
	if err != nil {
		return nil, err
	}

	monitor := monitoring.NewMonitor()
	shared := store.New(
		store.Initial(models.DefaultFilterState(time.Now())),
		store.WithObserver(func(t store.ActionType) { monitor.TrackAction(string(t)) }),
	)

	devices := func(deviceID string) models.DeviceRepo {
		return storage.ForDevice(kv, deviceID)
	}

	// Initialize repositories
	var wishlists models.WishlistRepo = storage.NewKVWishlists(kv)
	var posts models.PostRepo
	if clients.Mongo != nil {
		mongoRepo := models.MongodbNewRepo(clients.Mongo, cfg.MongoDBDatabase)
		if err := mongoRepo.EnsureIndexes(ctx); err != nil {
			return nil, err
		}
		wishlists = mongoRepo
		posts = mongoRepo
	}

	var users models.UserDirectory = storage.NewKVUserDirectory(kv)
	if clients.Supabase != nil {
		users = models.SupabaseNewRepo(clients.Supabase)
	}

	var uploader services.ImageUploader
	if clients.Cloudinary != nil {
		uploader = helpers.NewCloudinaryUploader(clients.Cloudinary)
	}

	stateService := services.NewStateService(shared, devices, wishlists, logger)
	prefsService := services.NewPreferencesService(devices, monitor)
	authService := services.NewAuthService(devices, users, logger, monitor)

	c := &Container{
		Config:             cfg,
		Logger:             logger,
		Location:           loc,
		Monitor:            monitor,
		Clients:            clients,
		KV:                 kv,
		Store:              shared,
		StateService:       stateService,
		CatalogueService:   services.NewCatalogueService(shared, stateService, loc),
		WishlistService:    services.NewWishlistService(stateService, loc, monitor),
		PreferencesService: prefsService,
		ProfileService:     services.NewProfileService(stateService, prefsService),
		AuthService:        authService,
		CommunityService:   services.NewCommunityService(shared, posts, devices, authService, uploader, logger, monitor),
	}

	if err := c.seed(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Container) seed(ctx context.Context) error {
	catalogue, err := fixtures.Load()
	if err != nil {
		return fmt.Errorf("failed to load catalogue: %w", err)
	}
	c.Store.Dispatch(store.SetEvents{Events: catalogue.Events})
	c.Store.Dispatch(store.SetArtists{Artists: catalogue.Artists})
	if err := c.CommunityService.Bootstrap(ctx, catalogue.Posts); err != nil {
		return fmt.Errorf("failed to load community posts: %w", err)
	}
	c.Logger.Info("catalogue loaded",
		"events", len(catalogue.Events),
		"artists", len(catalogue.Artists),
		"posts", len(c.Store.State().CommunityPosts),
	)
	return nil
}

func openKV(cfg *config.Config, clients Clients) (storage.KV, error) {
	switch cfg.StorageBackend {
	case config.BackendFile:
		kv, err := storage.OpenFileKV(cfg.DataFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open data file: %w", err)
		}
		return kv, nil
	case config.BackendRedis:
		if clients.Redis == nil {
			return nil, fmt.Errorf("redis backend selected without a redis client")
		}
		return storage.NewRedisKV(clients.Redis, redisKeyPrefix), nil
	default:
		return storage.NewMemoryKV(), nil
	}
}
