package seed

import (
	"context"
	"strings"
	"testing"
	"time"

	"blogsphere/internal/auth"
	"blogsphere/internal/models"
	"blogsphere/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testOptions() Options {
	opts := DefaultOptions
	opts.Users = 4
	opts.ArticlesPerUser = 2
	opts.FastHash = true
	opts.RandSeed = 42
	return opts
}

func TestSeeder_Random(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()
	opts := testOptions()

	res, err := NewSeeder(db, opts).Random(ctx)
	require.NoError(t, err)
	require.Len(t, res.Users, 4)
	assert.Equal(t, 8, res.Articles)

	var users, articles, comments, likes int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.Article{}).Count(&articles).Error)
	require.NoError(t, db.Model(&models.Comment{}).Count(&comments).Error)
	assert.EqualValues(t, 4, users)
	assert.EqualValues(t, 8, articles)
	assert.EqualValues(t, res.Comments, comments)

	var articleLikes, commentLikes int64
	require.NoError(t, db.Model(&models.ArticleLike{}).Count(&articleLikes).Error)
	require.NoError(t, db.Model(&models.CommentLike{}).Count(&commentLikes).Error)
	likes = articleLikes + commentLikes
	assert.EqualValues(t, res.Likes, likes)

	// Authors never like their own articles.
	var selfLikes int64
	require.NoError(t, db.Table("article_likes").
		Joins("JOIN articles ON articles.id = article_likes.article_id").
		Where("articles.author_id = article_likes.user_id").
		Count(&selfLikes).Error)
	assert.Zero(t, selfLikes)

	var stored models.User
	require.NoError(t, db.First(&stored, res.Users[0].ID).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte(DefaultPassword)))

	var a models.Article
	require.NoError(t, db.Order("created_at asc").First(&a).Error)
	assert.WithinDuration(t, time.Now(), a.CreatedAt, time.Duration(opts.MaxDays+1)*24*time.Hour)
}

func TestSeeder_ClearAll(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()
	s := NewSeeder(db, testOptions())

	_, err := s.Random(ctx)
	require.NoError(t, err)
	require.NoError(t, s.ClearAll(ctx))

	for _, model := range []any{&models.User{}, &models.Article{}, &models.Comment{}, &models.ArticleLike{}, &models.CommentLike{}} {
		var n int64
		require.NoError(t, db.Unscoped().Model(model).Count(&n).Error)
		assert.Zero(t, n, "%T", model)
	}

	// Usernames are free again after a clear.
	_, err = s.Random(ctx)
	assert.NoError(t, err)
}

func TestSeeder_ApplyDemoFixture(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	fx, err := DemoFixture()
	require.NoError(t, err)

	res, err := NewSeeder(db, testOptions()).Apply(context.Background(), fx)
	require.NoError(t, err)
	assert.Len(t, res.Users, 3)
	assert.Equal(t, 3, res.Articles)
	assert.Equal(t, 4, res.Comments)

	var hello models.Article
	require.NoError(t, db.Preload("Likes").Where("title = ?", "Hello BlogSphere").First(&hello).Error)
	hello.CollectLikes()
	assert.Equal(t, 2, hello.LikesCount)

	var comments []models.Comment
	require.NoError(t, db.Where("article_id = ?", hello.ID).Order("created_at asc").Find(&comments).Error)
	require.Len(t, comments, 2)
	for _, c := range comments {
		assert.False(t, c.CreatedAt.Before(hello.CreatedAt), "comments follow their article")
	}
}

func TestLoadFixture_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"unknown key", "users:\n  - username: a\n    email: a@x.io\n", "field email not found"},
		{"duplicate user", "users:\n  - username: a\n  - username: a\n", "listed twice"},
		{"unknown author", "users:\n  - username: a\narticles:\n  - author: b\n    title: t\n    content: c\n", `unknown user "b"`},
		{"unknown liker", "users:\n  - username: a\narticles:\n  - author: a\n    title: t\n    content: c\n    likedBy: [z]\n", `unknown user "z"`},
		{"empty title", "users:\n  - username: a\narticles:\n  - author: a\n    content: c\n", "needs a title"},
		{"empty comment", "users:\n  - username: a\narticles:\n  - author: a\n    title: t\n    content: c\n    comments:\n      - author: a\n", "has no content"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFixture(strings.NewReader(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	fx, err := LoadFixture(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, fx.Users)
}

func TestIssueTokens(t *testing.T) {
	tokens := auth.NewManager("seed-test-secret-0123456789abcdef0123456789", "blogsphere-api", "blogsphere-client", time.Hour)
	users := []models.User{{ID: 3, Username: "alice"}, {ID: 9, Username: "bob"}}

	creds, err := IssueTokens(tokens, users)
	require.NoError(t, err)
	require.Len(t, creds, 2)

	for i, c := range creds {
		assert.Equal(t, users[i].Username, c.Username)
		id, err := tokens.Parse(c.Token)
		require.NoError(t, err)
		assert.Equal(t, users[i].ID, id)
		assert.WithinDuration(t, time.Now().Add(time.Hour), c.ExpiresAt, time.Minute)
	}
}

func TestFactory_BuildIsDeterministicPerSeed(t *testing.T) {
	a := NewFactory(nil, Options{RandSeed: 7}).BuildUser()
	b := NewFactory(nil, Options{RandSeed: 7}).BuildUser()
	assert.Equal(t, a.Username, b.Username)

	article := NewFactory(nil, Options{RandSeed: 7, MaxDays: 5}).BuildArticle(&models.User{ID: 1})
	assert.Equal(t, uint(1), article.AuthorID)
	assert.NotEmpty(t, article.Title)
	assert.WithinDuration(t, time.Now(), article.CreatedAt, 6*24*time.Hour)
}
