package client

import (
	"context"
	"slices"
	"sync"

	"blogsphere/internal/models"
)

// ProfileView is the session user's profile and published articles.
type ProfileView struct {
	client  *Client
	session *Session

	mu       sync.RWMutex
	profile  *models.User
	articles []*models.Article
}

func NewProfileView(c *Client, sess *Session) *ProfileView {
	return &ProfileView{client: c, session: sess}
}

func (v *ProfileView) Load(ctx context.Context) error {
	if v.session.Token() == "" {
		return ErrLoginRequired
	}
	profile, err := v.client.Profile(ctx, v.session)
	if err != nil {
		return requestFailed(err)
	}
	all, err := v.client.ListArticles(ctx, v.session)
	if err != nil {
		return requestFailed(err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.profile = profile
	v.articles = authoredBy(all, profile.ID)
	return nil
}

// Profile returns the loaded profile, or nil before the first Load.
func (v *ProfileView) Profile() *models.User {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.profile == nil {
		return nil
	}
	p := *v.profile
	return &p
}

func (v *ProfileView) Articles() []*models.Article {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return slices.Clone(v.articles)
}

// Save updates the profile and keeps the server's copy.
func (v *ProfileView) Save(ctx context.Context, in ProfileUpdate) error {
	if v.session.Token() == "" {
		return ErrLoginRequired
	}
	updated, err := v.client.UpdateProfile(ctx, v.session, in)
	if err != nil {
		return requestFailed(err)
	}
	v.mu.Lock()
	v.profile = updated
	v.mu.Unlock()
	return nil
}
