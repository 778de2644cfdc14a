// Package testutil provides shared databases and fixtures for backend tests.
package testutil

import (
	"testing"

	"blogsphere/internal/config"
	"blogsphere/internal/database"
	"blogsphere/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// SQLiteConfig returns a test config pointing at a private in-memory database.
func SQLiteConfig() *config.Config {
	return &config.Config{
		Env:              "test",
		DBDriver:         "sqlite",
		DBPath:           "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		DBSchemaMode:     "auto",
		DBQueryTimeoutMS: 5000,
	}
}

// NewSQLiteDB opens a fresh, fully migrated in-memory database that is
// closed when the test ends.
func NewSQLiteDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := database.Connect(SQLiteConfig())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// CreateUser inserts a user with the given username.
func CreateUser(t testing.TB, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Password: "not-a-real-hash"}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateArticle inserts an article owned by authorID.
func CreateArticle(t testing.TB, db *gorm.DB, authorID uint, title string) *models.Article {
	t.Helper()
	article := &models.Article{Title: title, Content: title + " content", AuthorID: authorID}
	require.NoError(t, db.Omit("Author", "Likes").Create(article).Error)
	return article
}

// CreateComment inserts a comment by authorID on articleID.
func CreateComment(t testing.TB, db *gorm.DB, authorID, articleID uint, content string) *models.Comment {
	t.Helper()
	comment := &models.Comment{Content: content, AuthorID: authorID, ArticleID: articleID}
	require.NoError(t, db.Omit("Author", "Likes").Create(comment).Error)
	return comment
}
