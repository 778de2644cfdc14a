// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"context"
	"fmt"
	"time"

	"blogsphere/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultPassword is the password of every generated user.
const DefaultPassword = "password123"

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db    *gorm.DB
	opts  Options
	faker *gofakeit.Faker

	// bcrypt is slow on purpose, so every user shares one hash.
	passwordHash string
}

// NewFactory creates a Factory bound to db. A zero opts.RandSeed seeds
// from the clock.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	seed := opts.RandSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Factory{db: db, opts: opts, faker: gofakeit.New(seed)}
}

func (f *Factory) hash() (string, error) {
	if f.passwordHash != "" {
		return f.passwordHash, nil
	}
	cost := bcrypt.DefaultCost
	if f.opts.FastHash {
		cost = bcrypt.MinCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	f.passwordHash = string(hashed)
	return f.passwordHash, nil
}

// backdate returns a time within the last opts.MaxDays days.
func (f *Factory) backdate() time.Time {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	back := time.Duration(f.faker.Number(0, maxDays*24*60)) * time.Minute
	return time.Now().Add(-back)
}

// BuildUser constructs a user without persisting it.
func (f *Factory) BuildUser(overrides ...func(*models.User)) *models.User {
	user := &models.User{
		Username:       fmt.Sprintf("%s%d", f.faker.Username(), f.faker.Number(100, 999)),
		Bio:            f.faker.Sentence(10),
		ProfilePicture: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", f.faker.UUID()),
	}
	for _, override := range overrides {
		override(user)
	}
	return user
}

// CreateUser persists a generated user. Overrides run before saving.
func (f *Factory) CreateUser(ctx context.Context, overrides ...func(*models.User)) (*models.User, error) {
	user := f.BuildUser(overrides...)
	if err := f.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SaveUser persists user, hashing DefaultPassword when no password is set.
func (f *Factory) SaveUser(ctx context.Context, user *models.User) error {
	if user.Password == "" {
		hashed, err := f.hash()
		if err != nil {
			return err
		}
		user.Password = hashed
	}
	if err := f.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("create user %q: %w", user.Username, err)
	}
	return nil
}

// BuildArticle constructs an article by author without persisting it.
func (f *Factory) BuildArticle(author *models.User, overrides ...func(*models.Article)) *models.Article {
	created := f.backdate()
	article := &models.Article{
		Title:     f.faker.Sentence(5),
		Content:   f.faker.Paragraph(2, 4, 12, "\n\n"),
		AuthorID:  author.ID,
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, override := range overrides {
		override(article)
	}
	return article
}

func (f *Factory) CreateArticle(ctx context.Context, author *models.User, overrides ...func(*models.Article)) (*models.Article, error) {
	article := f.BuildArticle(author, overrides...)
	if err := f.db.WithContext(ctx).Omit("Author", "Likes").Create(article).Error; err != nil {
		return nil, fmt.Errorf("create article: %w", err)
	}
	return article, nil
}

// CreateComment persists a comment by author on article, dated after the article.
func (f *Factory) CreateComment(ctx context.Context, author *models.User, article *models.Article, overrides ...func(*models.Comment)) (*models.Comment, error) {
	created := article.CreatedAt.Add(time.Duration(f.faker.Number(1, 72*60)) * time.Minute)
	if now := time.Now(); created.After(now) {
		created = now
	}
	comment := &models.Comment{
		Content:   f.faker.Sentence(12),
		AuthorID:  author.ID,
		ArticleID: article.ID,
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, override := range overrides {
		override(comment)
	}
	if err := f.db.WithContext(ctx).Omit("Author", "Likes").Create(comment).Error; err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}

// LikeArticle adds userID to the article's like-set. Existing likes are kept.
func (f *Factory) LikeArticle(ctx context.Context, articleID, userID uint) error {
	like := &models.ArticleLike{ArticleID: articleID, UserID: userID}
	return f.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(like).Error
}

// LikeComment adds userID to the comment's like-set. Existing likes are kept.
func (f *Factory) LikeComment(ctx context.Context, commentID, userID uint) error {
	like := &models.CommentLike{CommentID: commentID, UserID: userID}
	return f.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(like).Error
}
