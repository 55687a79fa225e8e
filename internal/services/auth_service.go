package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joshua-takyi/localinsights/internal/auth"
	"github.com/joshua-takyi/localinsights/internal/models"
	"github.com/joshua-takyi/localinsights/internal/monitoring"
)

// AuthService runs the simulated sign-in for a device. Each call restores
// the device's auth store from its saved session first.
type AuthService struct {
	devices DeviceRepos
	users   models.UserDirectory
	locks   *keyedMutex
	logger  *slog.Logger
	monitor *monitoring.Monitor
	opts    []auth.Option
}

func NewAuthService(devices DeviceRepos, users models.UserDirectory, logger *slog.Logger, monitor *monitoring.Monitor, opts ...auth.Option) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		devices: devices,
		users:   users,
		locks:   newKeyedMutex(),
		logger:  logger,
		monitor: monitor,
		opts:    opts,
	}
}

func (as *AuthService) restore(ctx context.Context, deviceID string) (*auth.Store, error) {
	st := auth.New(as.devices(deviceID), as.users, as.opts...)
	if _, err := st.Restore(ctx); err != nil {
		return nil, err
	}
	return st, nil
}

func (as *AuthService) Current(ctx context.Context, deviceID string) (auth.State, error) {
	unlock := as.locks.Lock(deviceID)
	defer unlock()

	st, err := as.restore(ctx, deviceID)
	if err != nil {
		return auth.State{}, err
	}
	return st.State(), nil
}

// RequireUser returns the signed-in user or ErrUnauthenticated.
func (as *AuthService) RequireUser(ctx context.Context, deviceID string) (*models.User, error) {
	state, err := as.Current(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	if !state.Authenticated || state.User == nil {
		return nil, ErrUnauthenticated
	}
	return state.User, nil
}

func (as *AuthService) Login(ctx context.Context, deviceID, email, password string) (auth.State, error) {
	return as.run(ctx, deviceID, "login", func(st *auth.Store) (auth.State, error) {
		return st.Login(ctx, email, password)
	})
}

func (as *AuthService) Register(ctx context.Context, deviceID, name, email, password string) (auth.State, error) {
	return as.run(ctx, deviceID, "register", func(st *auth.Store) (auth.State, error) {
		return st.Register(ctx, name, email, password)
	})
}

func (as *AuthService) Logout(ctx context.Context, deviceID string) (auth.State, error) {
	return as.run(ctx, deviceID, "logout", func(st *auth.Store) (auth.State, error) {
		return st.Logout(ctx)
	})
}

func (as *AuthService) run(ctx context.Context, deviceID, op string, fn func(*auth.Store) (auth.State, error)) (auth.State, error) {
	unlock := as.locks.Lock(deviceID)
	defer unlock()

	st, err := as.restore(ctx, deviceID)
	if err != nil {
		as.monitor.TrackAuth(op, err)
		return auth.State{}, fmt.Errorf("failed to restore session: %w", err)
	}
	state, err := fn(st)
	as.monitor.TrackAuth(op, err)
	if err != nil {
		as.logger.Info("auth attempt rejected", "operation", op, "device_id", deviceID, "error", err)
		return state, err
	}
	as.logger.Debug("auth state changed", "operation", op, "device_id", deviceID, "status", state.Status())
	return state, nil
}
