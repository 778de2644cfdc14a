package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"blogsphere/internal/auth"
	"blogsphere/internal/config"
	"blogsphere/internal/models"
	"blogsphere/internal/server"
	"blogsphere/internal/testutil"

	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const liveSecret = "client-test-secret-0123456789abcdef0123456789"

// liveAPI runs the real server over an in-memory database.
type liveAPI struct {
	client *Client
	db     *gorm.DB
	tokens *auth.Manager
}

func newLiveAPI(t *testing.T) *liveAPI {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	cfg := &config.Config{
		Env:              "test",
		JWTSecret:        liveSecret,
		JWTIssuer:        "blogsphere-api",
		JWTAudience:      "blogsphere-client",
		DBDriver:         "sqlite",
		DBQueryTimeoutMS: 5000,
		AllowedOrigins:   "*",
	}
	srv, err := server.NewServerWithDeps(cfg, db, nil)
	require.NoError(t, err)

	ts := httptest.NewServer(adaptor.FiberApp(srv.App()))
	t.Cleanup(ts.Close)

	return &liveAPI{
		client: New(ts.URL+"/api", ts.Client()),
		db:     db,
		tokens: auth.NewManager(liveSecret, cfg.JWTIssuer, cfg.JWTAudience, time.Hour),
	}
}

// login creates username and returns a session signed in as them.
func (a *liveAPI) login(t *testing.T, username string) *Session {
	t.Helper()
	u := testutil.CreateUser(t, a.db, username)
	token, _, err := a.tokens.Issue(u.ID, u.Username)
	require.NoError(t, err)

	sess := NewSession()
	require.NoError(t, a.client.Login(context.Background(), sess, token))
	return sess
}

func TestClient_Login(t *testing.T) {
	api := newLiveAPI(t)
	sess := api.login(t, "alice")

	user, ok := sess.User()
	require.True(t, ok)
	assert.Equal(t, "alice", user.Username)
	assert.NotEmpty(t, sess.Token())

	bad := NewSession()
	err := api.client.Login(context.Background(), bad, "not-a-jwt")
	assert.Error(t, err)
	assert.Empty(t, bad.Token())

	// A well-formed token for a user that does not exist is rejected by the server.
	ghost, _, err := api.tokens.Issue(999, "ghost")
	require.NoError(t, err)
	err = api.client.Login(context.Background(), bad, ghost)
	assert.Equal(t, http.StatusUnauthorized, StatusOf(err))
	assert.Empty(t, bad.Token())
}

func TestClient_ArticleRoundTrip(t *testing.T) {
	api := newLiveAPI(t)
	ctx := context.Background()
	owner := api.login(t, "owner")
	reader := api.login(t, "reader")

	created, err := api.client.CreateArticle(ctx, owner, "Hello", "World")
	require.NoError(t, err)
	assert.Equal(t, "owner", created.Author.Username)

	got, err := api.client.GetArticle(ctx, reader, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.IsLiked)
	assert.False(t, *got.IsLiked)

	liked, err := api.client.ToggleArticleLike(ctx, reader, created.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	got, err = api.client.GetArticle(ctx, reader, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.LikesCount)
	assert.Equal(t, models.LikeSet{2}, got.LikedBy)

	title := "Hijacked"
	_, err = api.client.UpdateArticle(ctx, reader, created.ID, models.ArticleUpdate{Title: &title})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Equal(t, models.CodeForbidden, apiErr.Code)

	require.NoError(t, api.client.DeleteArticle(ctx, owner, created.ID))
	_, err = api.client.GetArticle(ctx, nil, created.ID)
	assert.Equal(t, http.StatusNotFound, StatusOf(err))

	list, err := api.client.ListArticles(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestClient_AnonymousMutationIsUnauthorized(t *testing.T) {
	api := newLiveAPI(t)

	_, err := api.client.CreateArticle(context.Background(), NewSession(), "t", "c")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, models.CodeUnauthorized, apiErr.Code)
	assert.Equal(t, "Authentication required", apiErr.Message)
}

func TestClient_NonJSONErrorBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	t.Cleanup(ts.Close)

	_, err := New(ts.URL, nil).ListArticles(context.Background(), nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Empty(t, apiErr.Code)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}
