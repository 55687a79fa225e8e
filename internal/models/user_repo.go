package models

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const RegisteredUsersTable = "registered_users"

// pgUniqueViolation is the Postgres error code PostgREST reports (with a
// 409) when the unique email_key index rejects an insert. The table is
// created by migrations/001_registered_users.sql.
const pgUniqueViolation = "23505"

// registeredUserRow mirrors the registered_users table. email_key holds the
// lower-cased email so lookups stay exact.
type registeredUserRow struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	EmailKey  string    `json:"email_key"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"created_at"`
}

func (r registeredUserRow) toUser() *User {
	return &User{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		Avatar:    r.Avatar,
		CreatedAt: r.CreatedAt,
	}
}

func (su *SupabaseRepo) FindUserByEmail(ctx context.Context, email string) (*User, error) {
	raw, status, err := su.supabaseClient.From(RegisteredUsersTable).
		Select("id,name,email,email_key,avatar,created_at", "", false).
		Eq("email_key", EmailKey(email)).
		Execute()
	if err != nil {
		if status != 0 {
			return nil, fmt.Errorf("postgrest error: status=%d body=%s err=%w", status, string(raw), err)
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	// Supabase returns an array even for single results
	var rows []registeredUserRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].toUser(), nil
}

func (su *SupabaseRepo) AddUser(ctx context.Context, user User) error {
	row := registeredUserRow{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		EmailKey:  EmailKey(user.Email),
		Avatar:    user.Avatar,
		CreatedAt: user.CreatedAt,
	}
	_, count, err := su.supabaseClient.From(RegisteredUsersTable).
		Insert(row, false, "", "", "exact").
		Execute()
	if err != nil {
		if msg := err.Error(); strings.Contains(msg, pgUniqueViolation) || strings.Contains(msg, "duplicate key") {
			return fmt.Errorf("%w: %s", ErrDuplicateUser, row.EmailKey)
		}
		return fmt.Errorf("failed to add user: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("no user row inserted")
	}
	return nil
}
