package client

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"blogsphere/internal/models"
)

// Options configures a view.
type Options struct {
	// PollInterval is how often Poll refetches. Zero disables polling.
	PollInterval time.Duration
	Logger       *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// ArticleView is the state behind an article page: the article, its like
// state and its comments. Mutations change local state only after the
// server confirms them.
type ArticleView struct {
	client  *Client
	session *Session
	id      uint
	opts    Options

	mu         sync.RWMutex
	article    *models.Article
	comments   []*models.Comment
	liked      bool
	likesCount int
}

func NewArticleView(c *Client, sess *Session, articleID uint, opts Options) *ArticleView {
	return &ArticleView{client: c, session: sess, id: articleID, opts: opts}
}

// Load fetches the article and its comments. On failure the previous state
// is kept.
func (v *ArticleView) Load(ctx context.Context) error {
	article, err := v.client.GetArticle(ctx, v.session, v.id)
	if err != nil {
		return requestFailed(err)
	}
	comments, err := v.client.ListComments(ctx, v.session, v.id)
	if err != nil {
		return requestFailed(err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.setArticle(article)
	v.comments = comments
	return nil
}

// setArticle must be called with mu held.
func (v *ArticleView) setArticle(a *models.Article) {
	v.article = a
	v.liked = a.IsLiked != nil && *a.IsLiked
	v.likesCount = a.LikesCount
}

// Article returns the loaded article, or nil before the first Load.
func (v *ArticleView) Article() *models.Article {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.article == nil {
		return nil
	}
	a := *v.article
	return &a
}

// Comments returns the loaded comments, oldest first.
func (v *ArticleView) Comments() []*models.Comment {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return slices.Clone(v.comments)
}

// Liked reports whether the session user likes the article.
func (v *ArticleView) Liked() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.liked
}

func (v *ArticleView) LikesCount() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.likesCount
}

// ToggleLike flips the session user's like. When the server's answer is
// not the expected flip, another client changed the like-set and the view
// reloads instead of guessing.
func (v *ArticleView) ToggleLike(ctx context.Context) error {
	if v.session.Token() == "" {
		return ErrLoginRequired
	}
	v.mu.RLock()
	expected := !v.liked
	v.mu.RUnlock()

	liked, err := v.client.ToggleArticleLike(ctx, v.session, v.id)
	if err != nil {
		return actionFailed(err)
	}
	if liked != expected {
		return v.Load(ctx)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.liked = liked
	if liked {
		v.likesCount++
	} else if v.likesCount > 0 {
		v.likesCount--
	}
	return nil
}

func (v *ArticleView) reloadComments(ctx context.Context) error {
	comments, err := v.client.ListComments(ctx, v.session, v.id)
	if err != nil {
		return requestFailed(err)
	}
	v.mu.Lock()
	v.comments = comments
	v.mu.Unlock()
	return nil
}

// AddComment posts a comment and reloads the comment list.
func (v *ArticleView) AddComment(ctx context.Context, content string) error {
	if v.session.Token() == "" {
		return ErrLoginRequired
	}
	if _, err := v.client.CreateComment(ctx, v.session, v.id, content); err != nil {
		return actionFailed(err)
	}
	return v.reloadComments(ctx)
}

// EditComment changes a comment's content and reloads the comment list.
func (v *ArticleView) EditComment(ctx context.Context, commentID uint, content string) error {
	if v.session.Token() == "" {
		return ErrLoginRequired
	}
	if _, err := v.client.UpdateComment(ctx, v.session, commentID, content); err != nil {
		return actionFailed(err)
	}
	return v.reloadComments(ctx)
}

// DeleteComment removes a comment and reloads the comment list.
func (v *ArticleView) DeleteComment(ctx context.Context, commentID uint) error {
	if v.session.Token() == "" {
		return ErrLoginRequired
	}
	if err := v.client.DeleteComment(ctx, v.session, commentID); err != nil {
		return actionFailed(err)
	}
	return v.reloadComments(ctx)
}

// ToggleCommentLike flips the session user's like on a comment and
// replaces the local copy with the server's.
func (v *ArticleView) ToggleCommentLike(ctx context.Context, commentID uint) error {
	if v.session.Token() == "" {
		return ErrLoginRequired
	}
	updated, err := v.client.ToggleCommentLike(ctx, v.session, commentID)
	if err != nil {
		return actionFailed(err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	i := slices.IndexFunc(v.comments, func(c *models.Comment) bool { return c.ID == commentID })
	if i < 0 {
		v.comments = append(v.comments, updated)
		return nil
	}
	v.comments = slices.Clone(v.comments)
	v.comments[i] = updated
	return nil
}

// Poll reloads the view every Options.PollInterval until ctx is done.
// It returns immediately when polling is disabled. Failed reloads are
// logged and keep the previous state.
func (v *ArticleView) Poll(ctx context.Context) error {
	if v.opts.PollInterval <= 0 {
		return nil
	}
	ticker := time.NewTicker(v.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := v.Load(ctx); err != nil && ctx.Err() == nil {
				v.opts.logger().Warn("article poll failed",
					slog.Uint64("article_id", uint64(v.id)),
					slog.String("error", err.Error()),
				)
			}
		}
	}
}
