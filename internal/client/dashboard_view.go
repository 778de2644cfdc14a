package client

import (
	"context"
	"slices"
	"sync"

	"blogsphere/internal/models"
)

// DashboardView holds the session user's own articles and keeps them in
// step with the server's answers to create, update and delete.
type DashboardView struct {
	client  *Client
	session *Session

	mu       sync.RWMutex
	articles []*models.Article
}

func NewDashboardView(c *Client, sess *Session) *DashboardView {
	return &DashboardView{client: c, session: sess}
}

// Load fetches every article and keeps the session user's, newest first.
func (v *DashboardView) Load(ctx context.Context) error {
	user, ok := v.session.User()
	if !ok {
		return ErrLoginRequired
	}
	all, err := v.client.ListArticles(ctx, v.session)
	if err != nil {
		return requestFailed(err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.articles = authoredBy(all, user.ID)
	return nil
}

func authoredBy(articles []*models.Article, userID uint) []*models.Article {
	own := make([]*models.Article, 0, len(articles))
	for _, a := range articles {
		if a.AuthorID == userID {
			own = append(own, a)
		}
	}
	return own
}

// Articles returns the loaded articles.
func (v *DashboardView) Articles() []*models.Article {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return slices.Clone(v.articles)
}

// Create publishes an article and puts the server's copy first.
func (v *DashboardView) Create(ctx context.Context, title, content string) (*models.Article, error) {
	if v.session.Token() == "" {
		return nil, ErrLoginRequired
	}
	created, err := v.client.CreateArticle(ctx, v.session, title, content)
	if err != nil {
		return nil, requestFailed(err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.articles = append([]*models.Article{created}, v.articles...)
	return created, nil
}

// Update edits an article and replaces the local copy with the server's.
func (v *DashboardView) Update(ctx context.Context, id uint, fields models.ArticleUpdate) (*models.Article, error) {
	if v.session.Token() == "" {
		return nil, ErrLoginRequired
	}
	updated, err := v.client.UpdateArticle(ctx, v.session, id, fields)
	if err != nil {
		return nil, requestFailed(err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.articles = slices.Clone(v.articles)
	for i, a := range v.articles {
		if a.ID == id {
			v.articles[i] = updated
		}
	}
	return updated, nil
}

// Delete removes an article on the server, then locally.
func (v *DashboardView) Delete(ctx context.Context, id uint) error {
	if v.session.Token() == "" {
		return ErrLoginRequired
	}
	if err := v.client.DeleteArticle(ctx, v.session, id); err != nil {
		return requestFailed(err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.articles = slices.DeleteFunc(slices.Clone(v.articles), func(a *models.Article) bool { return a.ID == id })
	return nil
}
