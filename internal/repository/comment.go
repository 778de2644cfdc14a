package repository

import (
	"context"
	"time"

	"blogsphere/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines persistence operations for comments and their like-sets.
type CommentRepository interface {
	ListByArticle(ctx context.Context, articleID uint) ([]*models.Comment, error)
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	Create(ctx context.Context, comment *models.Comment) error
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id uint) error
	ToggleLike(ctx context.Context, commentID, userID uint) (bool, error)
}

type commentRepository struct {
	base
}

// NewCommentRepository returns a new CommentRepository implementation.
func NewCommentRepository(db *gorm.DB, timeout time.Duration) CommentRepository {
	return &commentRepository{base: newBase(db, timeout, "comments")}
}

func (r *commentRepository) ListByArticle(ctx context.Context, articleID uint) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.run(ctx, "list_by_article", func(db *gorm.DB) error {
		return db.Preload("Author").Preload("Likes").
			Where("article_id = ?", articleID).
			Order("created_at asc, id asc").
			Find(&comments).Error
	})
	if err != nil {
		return nil, models.FromDB(err, "Comment", "list")
	}
	for _, c := range comments {
		c.CollectLikes()
	}
	return comments, nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	err := r.run(ctx, "get", func(db *gorm.DB) error {
		return db.Preload("Author").Preload("Likes").First(&comment, id).Error
	})
	if err != nil {
		return nil, models.FromDB(err, "Comment", id)
	}
	comment.CollectLikes()
	return &comment, nil
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	err := r.run(ctx, "create", func(db *gorm.DB) error {
		return db.Omit("Author", "Likes").Create(comment).Error
	})
	return models.FromDB(err, "Comment", 0)
}

func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	err := r.run(ctx, "update", func(db *gorm.DB) error {
		res := db.Model(comment).Select("Content", "UpdatedAt").Updates(comment)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return models.FromDB(err, "Comment", comment.ID)
}

// Delete removes the comment together with its like-set.
func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	err := r.run(ctx, "delete", func(db *gorm.DB) error {
		return db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("comment_id = ?", id).Delete(&models.CommentLike{}).Error; err != nil {
				return err
			}
			res := tx.Delete(&models.Comment{}, id)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
			return nil
		})
	})
	return models.FromDB(err, "Comment", id)
}

func (r *commentRepository) ToggleLike(ctx context.Context, commentID, userID uint) (bool, error) {
	var liked bool
	err := r.run(ctx, "toggle_like", func(db *gorm.DB) error {
		var err error
		liked, err = toggleMembership(db, commentLikes, commentID, userID)
		return err
	})
	if err != nil {
		return false, models.FromDB(err, "Comment", commentID)
	}
	return liked, nil
}
