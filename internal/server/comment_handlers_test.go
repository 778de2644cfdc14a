package server

import (
	"fmt"
	"net/http"
	"testing"

	"blogsphere/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentFlow(t *testing.T) {
	env := newTestEnv(t, "")
	_, author := env.user(t, "author")
	readerID, reader := env.user(t, "reader")
	article := createArticle(t, env, author, "Discuss", "Thoughts?")
	listPath := fmt.Sprintf("/api/comments/article/%d", article.ID)

	res := env.do(t, http.MethodGet, listPath, "", nil)
	require.Equal(t, http.StatusOK, res.status)
	assert.JSONEq(t, "[]", string(res.body))

	res = env.do(t, http.MethodPost, "/api/comments", reader, map[string]any{"content": "Nice post", "article": article.ID})
	require.Equal(t, http.StatusCreated, res.status, string(res.body))
	var comment models.Comment
	res.decode(t, &comment)
	assert.Equal(t, readerID, comment.AuthorID)
	assert.Equal(t, "reader", comment.Author.Username)
	assert.Equal(t, article.ID, comment.ArticleID)
	commentPath := fmt.Sprintf("/api/comments/%d", comment.ID)

	res = env.do(t, http.MethodPost, "/api/comments", author, map[string]any{"content": "Thanks", "article": article.ID})
	require.Equal(t, http.StatusCreated, res.status)

	var list []models.Comment
	env.do(t, http.MethodGet, listPath, "", nil).decode(t, &list)
	require.Len(t, list, 2)
	assert.Equal(t, "Nice post", list[0].Content, "oldest first")
	assert.Equal(t, "Thanks", list[1].Content)

	// Liking a comment returns the comment itself.
	res = env.do(t, http.MethodPost, commentPath+"/like", author, nil)
	require.Equal(t, http.StatusOK, res.status)
	body := res.object(t)
	assert.Equal(t, float64(comment.ID), body["id"])
	assert.Equal(t, float64(1), body["likesCount"])
	assert.Equal(t, []any{float64(1)}, body["likes"])

	res = env.do(t, http.MethodPost, commentPath+"/like", author, nil)
	require.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, float64(0), res.object(t)["likesCount"])

	res = env.do(t, http.MethodPut, commentPath, author, map[string]string{"content": "Edited by someone else"})
	assert.Equal(t, http.StatusForbidden, res.status)
	res = env.do(t, http.MethodDelete, commentPath, author, nil)
	assert.Equal(t, http.StatusForbidden, res.status)

	res = env.do(t, http.MethodPut, commentPath, reader, map[string]string{"content": "Very nice post"})
	require.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, "Very nice post", res.object(t)["content"])

	res = env.do(t, http.MethodPut, commentPath, reader, map[string]string{"content": " "})
	assert.Equal(t, http.StatusBadRequest, res.status)

	res = env.do(t, http.MethodDelete, commentPath, reader, nil)
	assert.Equal(t, http.StatusOK, res.status)

	env.do(t, http.MethodGet, listPath, "", nil).decode(t, &list)
	assert.Len(t, list, 1)

	res = env.do(t, http.MethodPost, commentPath+"/like", author, nil)
	assert.Equal(t, http.StatusNotFound, res.status)
}

func TestCreateCommentErrors(t *testing.T) {
	env := newTestEnv(t, "")
	_, token := env.user(t, "commenter")
	article := createArticle(t, env, token, "Target", "Body")

	tests := []struct {
		name       string
		token      string
		body       any
		wantStatus int
		wantCode   string
	}{
		{"anonymous", "", map[string]any{"content": "hi", "article": article.ID}, http.StatusUnauthorized, models.CodeUnauthorized},
		{"missing article", token, map[string]any{"content": "hi", "article": 4242}, http.StatusNotFound, models.CodeNotFound},
		{"no article id", token, map[string]any{"content": "hi"}, http.StatusBadRequest, models.CodeValidation},
		{"empty content", token, map[string]any{"content": "", "article": article.ID}, http.StatusBadRequest, models.CodeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := env.do(t, http.MethodPost, "/api/comments", tt.token, tt.body)
			assert.Equal(t, tt.wantStatus, res.status)
			assert.Equal(t, tt.wantCode, res.object(t)["code"])
		})
	}

	res := env.do(t, http.MethodGet, "/api/comments/article/4242", "", nil)
	assert.Equal(t, http.StatusNotFound, res.status)

	var count int64
	require.NoError(t, env.db.Model(&models.Comment{}).Count(&count).Error)
	assert.Zero(t, count)
}
