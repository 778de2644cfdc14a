package service

import (
	"context"
	"log/slog"

	"blogsphere/internal/featureflags"
	"blogsphere/internal/middleware"
	"blogsphere/internal/models"
	"blogsphere/internal/repository"
	"blogsphere/internal/validation"
)

type ArticleService struct {
	articles repository.ArticleRepository
	flags    *featureflags.Manager
}

type CreateArticleInput struct {
	AuthorID uint   `json:"-"`
	Title    string `json:"title" validate:"notblank,max=300"`
	Content  string `json:"content" validate:"notblank"`
}

type UpdateArticleInput struct {
	ArticleID   uint
	RequesterID uint
	Fields      models.ArticleUpdate
}

func NewArticleService(articles repository.ArticleRepository, flags *featureflags.Manager) *ArticleService {
	return &ArticleService{articles: articles, flags: flags}
}

// List returns every article, newest first, without viewer state.
func (s *ArticleService) List(ctx context.Context) ([]*models.Article, error) {
	return s.articles.List(ctx)
}

// Get returns one article with isLiked resolved for viewerID (0 is anonymous).
func (s *ArticleService) Get(ctx context.Context, articleID, viewerID uint) (*models.Article, error) {
	article, err := s.articles.GetByID(ctx, articleID)
	if err != nil {
		return nil, err
	}
	article.MarkViewer(viewerID)
	return article, nil
}

func (s *ArticleService) Create(ctx context.Context, in CreateArticleInput) (*models.Article, error) {
	if err := requireUser(in.AuthorID); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	article := &models.Article{
		Title:    in.Title,
		Content:  in.Content,
		AuthorID: in.AuthorID,
	}
	if err := s.articles.Create(ctx, article); err != nil {
		return nil, err
	}
	return s.articles.GetByID(ctx, article.ID)
}

// Update applies the provided subset of fields. Only the author may edit.
func (s *ArticleService) Update(ctx context.Context, in UpdateArticleInput) (*models.Article, error) {
	if err := requireUser(in.RequesterID); err != nil {
		return nil, err
	}
	article, err := s.articles.GetByID(ctx, in.ArticleID)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(article, in.RequesterID, "edit"); err != nil {
		return nil, err
	}
	if err := validation.Struct(in.Fields); err != nil {
		return nil, err
	}
	if in.Fields.Empty() {
		return article, nil
	}

	if in.Fields.Title != nil {
		article.Title = *in.Fields.Title
	}
	if in.Fields.Content != nil {
		article.Content = *in.Fields.Content
	}
	if err := s.articles.Update(ctx, article); err != nil {
		return nil, err
	}
	return s.articles.GetByID(ctx, article.ID)
}

// Delete removes the article and its likes. Its comments are kept unless
// the cascade_comment_delete flag is on for the requester.
func (s *ArticleService) Delete(ctx context.Context, articleID, requesterID uint) error {
	if err := requireUser(requesterID); err != nil {
		return err
	}
	article, err := s.articles.GetByID(ctx, articleID)
	if err != nil {
		return err
	}
	if err := requireOwner(article, requesterID, "delete"); err != nil {
		return err
	}

	cascade := s.flags.Enabled(featureflags.CascadeCommentDelete, requesterID)
	if err := s.articles.Delete(ctx, articleID, cascade); err != nil {
		return err
	}
	middleware.Logger.InfoContext(ctx, "article deleted",
		slog.Uint64("article_id", uint64(articleID)),
		slog.Bool("cascade_comments", cascade),
	)
	return nil
}

// ToggleLike flips the user's membership in the article's like-set and
// reports whether the user likes the article afterwards.
func (s *ArticleService) ToggleLike(ctx context.Context, articleID, userID uint) (bool, error) {
	if err := requireUser(userID); err != nil {
		return false, err
	}
	exists, err := s.articles.Exists(ctx, articleID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, models.NewNotFoundError("Article", articleID)
	}
	liked, err := s.articles.ToggleLike(ctx, articleID, userID)
	if err != nil {
		return false, err
	}
	middleware.RecordLikeToggle("article", liked)
	return liked, nil
}
