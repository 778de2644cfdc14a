// Package client is a typed Go client for the BlogSphere API and the view
// models built on it. Every call takes an explicit *Session; there is no
// global login state.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"blogsphere/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// Client calls the API rooted at baseURL, e.g. "http://localhost:3000/api".
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a Client. A nil httpClient gets a 10s timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

func (c *Client) do(ctx context.Context, sess *Session, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token := sess.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var payload models.ErrorResponse
		if json.NewDecoder(resp.Body).Decode(&payload) == nil && payload.Error != "" {
			apiErr.Code = payload.Code
			apiErr.Message = payload.Error
		}
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// Login resolves token to its user through the profile endpoint and stores
// both in sess. The expiry is read from the token's exp claim without
// verifying the signature; the server remains the authority.
func (c *Client) Login(ctx context.Context, sess *Session, token string) error {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return fmt.Errorf("parse token: %w", err)
	}
	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	probe := NewSession()
	probe.Login(token, models.User{}, expiresAt)
	user, err := c.Profile(ctx, probe)
	if err != nil {
		return err
	}
	sess.Login(token, *user, expiresAt)
	return nil
}

func (c *Client) ListArticles(ctx context.Context, sess *Session) ([]*models.Article, error) {
	var out []*models.Article
	if err := c.do(ctx, sess, http.MethodGet, "/articles", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetArticle returns the article with likesCount and, for a signed-in
// session, isLiked.
func (c *Client) GetArticle(ctx context.Context, sess *Session, id uint) (*models.Article, error) {
	var out models.Article
	if err := c.do(ctx, sess, http.MethodGet, fmt.Sprintf("/articles/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateArticle(ctx context.Context, sess *Session, title, content string) (*models.Article, error) {
	var out models.Article
	in := map[string]string{"title": title, "content": content}
	if err := c.do(ctx, sess, http.MethodPost, "/articles", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateArticle(ctx context.Context, sess *Session, id uint, fields models.ArticleUpdate) (*models.Article, error) {
	var out models.Article
	if err := c.do(ctx, sess, http.MethodPut, fmt.Sprintf("/articles/%d", id), fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteArticle(ctx context.Context, sess *Session, id uint) error {
	return c.do(ctx, sess, http.MethodDelete, fmt.Sprintf("/articles/%d", id), nil, nil)
}

// ToggleArticleLike flips the session user's like and reports the new state.
func (c *Client) ToggleArticleLike(ctx context.Context, sess *Session, id uint) (bool, error) {
	var out struct {
		Liked bool `json:"liked"`
	}
	if err := c.do(ctx, sess, http.MethodPost, fmt.Sprintf("/articles/%d/like", id), nil, &out); err != nil {
		return false, err
	}
	return out.Liked, nil
}

func (c *Client) ListComments(ctx context.Context, sess *Session, articleID uint) ([]*models.Comment, error) {
	var out []*models.Comment
	if err := c.do(ctx, sess, http.MethodGet, fmt.Sprintf("/comments/article/%d", articleID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateComment(ctx context.Context, sess *Session, articleID uint, content string) (*models.Comment, error) {
	var out models.Comment
	in := map[string]any{"content": content, "article": articleID}
	if err := c.do(ctx, sess, http.MethodPost, "/comments", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateComment(ctx context.Context, sess *Session, id uint, content string) (*models.Comment, error) {
	var out models.Comment
	in := map[string]string{"content": content}
	if err := c.do(ctx, sess, http.MethodPut, fmt.Sprintf("/comments/%d", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteComment(ctx context.Context, sess *Session, id uint) error {
	return c.do(ctx, sess, http.MethodDelete, fmt.Sprintf("/comments/%d", id), nil, nil)
}

// ToggleCommentLike flips the session user's like and returns the comment
// as stored afterwards.
func (c *Client) ToggleCommentLike(ctx context.Context, sess *Session, id uint) (*models.Comment, error) {
	var out models.Comment
	if err := c.do(ctx, sess, http.MethodPost, fmt.Sprintf("/comments/%d/like", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Profile(ctx context.Context, sess *Session) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, sess, http.MethodGet, "/users/profile", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ProfileUpdate holds the optional profile fields. An empty ProfilePicture
// clears the picture.
type ProfileUpdate struct {
	Bio            *string `json:"bio,omitempty"`
	ProfilePicture *string `json:"profilePicture,omitempty"`
}

func (c *Client) UpdateProfile(ctx context.Context, sess *Session, in ProfileUpdate) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, sess, http.MethodPut, "/users/profile", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
