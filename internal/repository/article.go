package repository

import (
	"context"
	"time"

	"blogsphere/internal/cache"
	"blogsphere/internal/models"

	"gorm.io/gorm"
)

// ArticleRepository defines persistence operations for articles and their like-sets.
type ArticleRepository interface {
	List(ctx context.Context) ([]*models.Article, error)
	GetByID(ctx context.Context, id uint) (*models.Article, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Create(ctx context.Context, article *models.Article) error
	Update(ctx context.Context, article *models.Article) error
	Delete(ctx context.Context, id uint, cascadeComments bool) error
	ToggleLike(ctx context.Context, articleID, userID uint) (bool, error)
}

type articleRepository struct {
	base
	cache *cache.Cache
}

// NewArticleRepository returns an ArticleRepository. c may be nil to disable caching.
func NewArticleRepository(db *gorm.DB, timeout time.Duration, c *cache.Cache) ArticleRepository {
	return &articleRepository{base: newBase(db, timeout, "articles"), cache: c}
}

func withDetails(db *gorm.DB) *gorm.DB {
	return db.Preload("Author").Preload("Likes")
}

func (r *articleRepository) List(ctx context.Context) ([]*models.Article, error) {
	var articles []*models.Article
	err := r.cache.Aside(ctx, cache.ArticleListKey, &articles, cache.ArticleListTTL, func() error {
		return r.run(ctx, "list", func(db *gorm.DB) error {
			if err := withDetails(db).Order("created_at desc, id desc").Find(&articles).Error; err != nil {
				return err
			}
			for _, a := range articles {
				a.CollectLikes()
			}
			return nil
		})
	})
	if err != nil {
		return nil, models.FromDB(err, "Article", "list")
	}
	for _, a := range articles {
		a.CollectLikes()
	}
	return articles, nil
}

func (r *articleRepository) GetByID(ctx context.Context, id uint) (*models.Article, error) {
	var article models.Article
	err := r.cache.Aside(ctx, cache.ArticleKey(id), &article, cache.ArticleTTL, func() error {
		return r.run(ctx, "get", func(db *gorm.DB) error {
			if err := withDetails(db).First(&article, id).Error; err != nil {
				return err
			}
			article.CollectLikes()
			return nil
		})
	})
	if err != nil {
		return nil, models.FromDB(err, "Article", id)
	}
	article.CollectLikes()
	return &article, nil
}

func (r *articleRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.run(ctx, "exists", func(db *gorm.DB) error {
		return db.Model(&models.Article{}).Where("id = ?", id).Count(&count).Error
	})
	if err != nil {
		return false, models.FromDB(err, "Article", id)
	}
	return count > 0, nil
}

func (r *articleRepository) Create(ctx context.Context, article *models.Article) error {
	err := r.run(ctx, "create", func(db *gorm.DB) error {
		return db.Omit("Author", "Likes").Create(article).Error
	})
	if err != nil {
		return models.FromDB(err, "Article", 0)
	}
	r.cache.Invalidate(ctx, cache.ArticleListKey)
	return nil
}

// Update persists title and content; author and likes are never touched.
func (r *articleRepository) Update(ctx context.Context, article *models.Article) error {
	err := r.run(ctx, "update", func(db *gorm.DB) error {
		res := db.Model(article).Select("Title", "Content", "UpdatedAt").Updates(article)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return models.FromDB(err, "Article", article.ID)
	}
	r.cache.InvalidateArticle(ctx, article.ID)
	return nil
}

// Delete removes the article and its like-set in one transaction. With
// cascadeComments the article's comments and their like-sets go too.
func (r *articleRepository) Delete(ctx context.Context, id uint, cascadeComments bool) error {
	err := r.run(ctx, "delete", func(db *gorm.DB) error {
		return db.Transaction(func(tx *gorm.DB) error {
			if cascadeComments {
				commentIDs := tx.Model(&models.Comment{}).Select("id").Where("article_id = ?", id)
				if err := tx.Where("comment_id IN (?)", commentIDs).Delete(&models.CommentLike{}).Error; err != nil {
					return err
				}
				if err := tx.Where("article_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
					return err
				}
			}
			if err := tx.Where("article_id = ?", id).Delete(&models.ArticleLike{}).Error; err != nil {
				return err
			}
			res := tx.Delete(&models.Article{}, id)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
			return nil
		})
	})
	if err != nil {
		return models.FromDB(err, "Article", id)
	}
	r.cache.InvalidateArticle(ctx, id)
	return nil
}

func (r *articleRepository) ToggleLike(ctx context.Context, articleID, userID uint) (bool, error) {
	var liked bool
	err := r.run(ctx, "toggle_like", func(db *gorm.DB) error {
		var err error
		liked, err = toggleMembership(db, articleLikes, articleID, userID)
		return err
	})
	if err != nil {
		return false, models.FromDB(err, "Article", articleID)
	}
	r.cache.InvalidateArticle(ctx, articleID)
	return liked, nil
}
