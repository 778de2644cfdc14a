package service

import (
	"context"

	"blogsphere/internal/middleware"
	"blogsphere/internal/models"
	"blogsphere/internal/repository"
	"blogsphere/internal/validation"
)

type CommentService struct {
	comments repository.CommentRepository
	articles repository.ArticleRepository
}

type CreateCommentInput struct {
	AuthorID  uint   `json:"-"`
	ArticleID uint   `json:"article" validate:"gt=0"`
	Content   string `json:"content" validate:"notblank,max=5000"`
}

type UpdateCommentInput struct {
	CommentID   uint   `json:"-"`
	RequesterID uint   `json:"-"`
	Content     string `json:"content" validate:"notblank,max=5000"`
}

func NewCommentService(comments repository.CommentRepository, articles repository.ArticleRepository) *CommentService {
	return &CommentService{comments: comments, articles: articles}
}

func (s *CommentService) requireArticle(ctx context.Context, articleID uint) error {
	exists, err := s.articles.Exists(ctx, articleID)
	if err != nil {
		return err
	}
	if !exists {
		return models.NewNotFoundError("Article", articleID)
	}
	return nil
}

// ListByArticle returns the article's comments, oldest first.
func (s *CommentService) ListByArticle(ctx context.Context, articleID uint) ([]*models.Comment, error) {
	if err := s.requireArticle(ctx, articleID); err != nil {
		return nil, err
	}
	return s.comments.ListByArticle(ctx, articleID)
}

func (s *CommentService) Create(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if err := requireUser(in.AuthorID); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if err := s.requireArticle(ctx, in.ArticleID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Content:   in.Content,
		AuthorID:  in.AuthorID,
		ArticleID: in.ArticleID,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return s.comments.GetByID(ctx, comment.ID)
}

func (s *CommentService) Update(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	if err := requireUser(in.RequesterID); err != nil {
		return nil, err
	}
	comment, err := s.comments.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(comment, in.RequesterID, "edit"); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	comment.Content = in.Content
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, err
	}
	return s.comments.GetByID(ctx, comment.ID)
}

func (s *CommentService) Delete(ctx context.Context, commentID, requesterID uint) error {
	if err := requireUser(requesterID); err != nil {
		return err
	}
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if err := requireOwner(comment, requesterID, "delete"); err != nil {
		return err
	}
	return s.comments.Delete(ctx, commentID)
}

// ToggleLike flips the user's membership in the comment's like-set and
// returns the comment as stored afterwards.
func (s *CommentService) ToggleLike(ctx context.Context, commentID, userID uint) (*models.Comment, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if _, err := s.comments.GetByID(ctx, commentID); err != nil {
		return nil, err
	}
	liked, err := s.comments.ToggleLike(ctx, commentID, userID)
	if err != nil {
		return nil, err
	}
	middleware.RecordLikeToggle("comment", liked)
	return s.comments.GetByID(ctx, commentID)
}
