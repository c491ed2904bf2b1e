package server

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"postdeck/internal/api"
	apperrors "postdeck/internal/errors"
	"postdeck/internal/memory"
	"postdeck/pkg/types"
)

// newTestClient spins up the full HTTP path: api.Client talking to the
// server handler over httptest, backed by a seeded store.
func newTestClient(t *testing.T) *api.Client {
	t.Helper()
	srv := httptest.NewServer(New(memory.NewSeeded(), "").Handler())
	t.Cleanup(srv.Close)
	return api.NewClient(srv.URL, api.WithSessionFile(filepath.Join(t.TempDir(), "session.yaml")))
}

func TestLoginLogout(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	assert.False(t, client.Authenticated())

	err := client.Login(ctx, "admin@example.com", "nope")
	require.Error(t, err)
	assert.Equal(t, "incorrect password", apperrors.UserMessage(err))
	assert.False(t, client.Authenticated())

	require.NoError(t, client.Login(ctx, "admin@example.com", "admin123"))
	assert.True(t, client.Authenticated())
	require.NotNil(t, client.CurrentUser())
	assert.Equal(t, "admin", client.CurrentUser().Username)

	require.NoError(t, client.Logout(ctx))
	assert.False(t, client.Authenticated())
}

func TestRegisterLoginProfile(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	err := client.Register(ctx, "casey", "casey@example.com", "secret123", "different")
	require.Error(t, err)
	assert.Equal(t, "password confirmation does not match", apperrors.UserMessage(err))

	err = client.Register(ctx, "admin2", "admin@example.com", "secret123", "secret123")
	require.Error(t, err)
	assert.Equal(t, "user already exists", apperrors.UserMessage(err))

	require.NoError(t, client.Register(ctx, "casey", "casey@example.com", "secret123", "secret123"))

	// Registration does not sign in; the new credentials do.
	assert.False(t, client.Authenticated())
	require.NoError(t, client.Login(ctx, "casey@example.com", "secret123"))

	profile, err := client.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "casey", profile.Username)
	assert.Equal(t, "casey@example.com", profile.Email)
}

func TestUnauthenticatedRequestsRejected(t *testing.T) {
	client := newTestClient(t)

	_, err := client.List(context.Background(), api.ListParams{})
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestCRUDOverHTTP(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	require.NoError(t, client.Login(ctx, "admin@example.com", "admin123"))

	result, err := client.List(ctx, api.ListParams{Page: 1, PerPage: 3})
	require.NoError(t, err)
	assert.Len(t, result.Items, 3)
	assert.Equal(t, 5, result.Pagination.Total)
	assert.Equal(t, 2, result.Pagination.TotalPages)

	created, err := client.Create(ctx, types.CreatePost{Title: "wire test", Content: "round trip"})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, types.StatusDraft, created.Status)

	fetched, err := client.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "wire test", fetched.Title)

	newTitle := "wire test 2"
	updated, err := client.Update(ctx, created.ID, types.UpdatePost{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, "wire test 2", updated.Title)

	published, err := client.Publish(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusPublished, published.Status)

	_, err = client.Publish(ctx, created.ID)
	require.Error(t, err)
	assert.Equal(t, "post already published", apperrors.UserMessage(err))

	require.NoError(t, client.Delete(ctx, created.ID))

	_, err = client.Get(ctx, created.ID)
	require.Error(t, err)
	assert.Equal(t, "post not found", apperrors.UserMessage(err))
}

func TestStatsOverHTTP(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	require.NoError(t, client.Login(ctx, "admin@example.com", "admin123"))

	stats, err := client.StatsSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.TotalPosts)
	assert.Equal(t, 2, stats.PublishedPosts)

	dash, err := client.DashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, dash.TotalPosts)
	assert.Equal(t, 2142, dash.TotalViews)
}

func TestSessionExpiryClearsClient(t *testing.T) {
	store := memory.NewSeeded()
	srv := httptest.NewServer(New(store, "").Handler())
	t.Cleanup(srv.Close)

	sessionPath := filepath.Join(t.TempDir(), "session.yaml")
	client := api.NewClient(srv.URL, api.WithSessionFile(sessionPath))
	ctx := context.Background()
	require.NoError(t, client.Login(ctx, "admin@example.com", "admin123"))
	require.True(t, client.Authenticated())

	// Revoke the token server-side; the next call returns a
	// 401-equivalent and the client drops its session.
	session, err := api.LoadSession(sessionPath)
	require.NoError(t, err)
	require.NotNil(t, session)
	store.RevokeToken(session.Token)

	_, err = client.List(ctx, api.ListParams{})
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthorized(err))
	assert.False(t, client.Authenticated())

	// The persisted session is gone too.
	session, err = api.LoadSession(sessionPath)
	require.NoError(t, err)
	assert.Nil(t, session)
}
