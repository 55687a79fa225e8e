package models

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supabase-community/supabase-go"
)

func newSupabaseRepo(t *testing.T, handler http.HandlerFunc) *SupabaseRepo {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := supabase.NewClient(srv.URL, "anon-key", nil)
	require.NoError(t, err)
	return SupabaseNewRepo(client)
}

func TestSupabaseRepo_FindUserByEmail(t *testing.T) {
	var gotFilter string
	repo := newSupabaseRepo(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/"+RegisteredUsersTable, r.URL.Path)
		gotFilter = r.URL.Query().Get("email_key")
		w.Header().Set("Content-Type", "application/json")
		if gotFilter == "eq.marie@example.com" {
			_, _ = io.WriteString(w, `[{"id":"u1","name":"Marie","email":"Marie@example.com","email_key":"marie@example.com","avatar":"a","created_at":"2024-01-10T12:00:00Z"}]`)
			return
		}
		_, _ = io.WriteString(w, `[]`)
	})

	user, err := repo.FindUserByEmail(context.Background(), " MARIE@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "eq.marie@example.com", gotFilter)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "Marie@example.com", user.Email)

	user, err = repo.FindUserByEmail(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestSupabaseRepo_AddUser(t *testing.T) {
	var row registeredUserRow
	repo := newSupabaseRepo(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &row))
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Range", "*/1")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("[" + string(body) + "]"))
	})

	err := repo.AddUser(context.Background(), User{
		ID:        "u2",
		Name:      "Jean Dupont",
		Email:     "Jean@Example.com",
		CreatedAt: time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, "jean@example.com", row.EmailKey)
	assert.Equal(t, "Jean Dupont", row.Name)
}

func TestSupabaseRepo_ServerError(t *testing.T) {
	repo := newSupabaseRepo(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"code":"XX000","message":"boom"}`)
	})

	_, err := repo.FindUserByEmail(context.Background(), "marie@example.com")
	assert.Error(t, err)
}

func TestSupabaseRepo_AddUserDuplicateEmail(t *testing.T) {
	repo := newSupabaseRepo(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = io.WriteString(w, `{"code":"23505","details":"Key (email_key)=(jean@example.com) already exists.","message":"duplicate key value violates unique constraint \"registered_users_email_key_unique\""}`)
	})

	err := repo.AddUser(context.Background(), User{ID: "u3", Name: "Jean", Email: "jean@example.com"})
	assert.ErrorIs(t, err, ErrDuplicateUser)
}
