package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"blogsphere/internal/auth"
	"blogsphere/internal/middleware"
	"blogsphere/internal/models"

	"gorm.io/gorm"
)

// Options configures the seeder.
type Options struct {
	Users              int
	ArticlesPerUser    int
	CommentsPerArticle int
	// LikePercent is the chance, 0-100, that a user likes a given article or comment.
	LikePercent int
	// MaxDays bounds how far back generated content is dated.
	MaxDays  int
	FastHash bool
	RandSeed int64
}

// DefaultOptions is a small, lively blog.
var DefaultOptions = Options{
	Users:              8,
	ArticlesPerUser:    3,
	CommentsPerArticle: 4,
	LikePercent:        35,
	MaxDays:            60,
}

// Result summarises what a seeding run created.
type Result struct {
	Users    []models.User
	Articles int
	Comments int
	Likes    int
}

// Seeder populates the database.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
	opts    Options
}

func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db, opts), opts: opts}
}

// ClearAll removes every user, article, comment and like.
func (s *Seeder) ClearAll(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{
			&models.CommentLike{},
			&models.ArticleLike{},
			&models.Comment{},
			&models.Article{},
			&models.User{},
		} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(model).Error; err != nil {
				return fmt.Errorf("clear %T: %w", model, err)
			}
		}
		return nil
	})
}

func (s *Seeder) likes() bool {
	return s.factory.faker.Number(1, 100) <= s.opts.LikePercent
}

// Random generates users, their articles, comments from other users and
// likes, all inside one transaction.
func (s *Seeder) Random(ctx context.Context) (*Result, error) {
	started := time.Now()
	res := &Result{}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		f := s.factory.withDB(tx)

		taken := make(map[string]bool, s.opts.Users)
		for len(res.Users) < s.opts.Users {
			candidate := f.BuildUser()
			if taken[candidate.Username] {
				continue
			}
			taken[candidate.Username] = true
			if err := f.SaveUser(ctx, candidate); err != nil {
				return err
			}
			res.Users = append(res.Users, *candidate)
		}

		for i := range res.Users {
			author := &res.Users[i]
			for range s.opts.ArticlesPerUser {
				article, err := f.CreateArticle(ctx, author)
				if err != nil {
					return err
				}
				res.Articles++

				if err := s.engage(ctx, f, article, res); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	middleware.Logger.Info("seeded random content",
		slog.Int("users", len(res.Users)),
		slog.Int("articles", res.Articles),
		slog.Int("comments", res.Comments),
		slog.Int("likes", res.Likes),
		slog.Duration("took", time.Since(started)),
	)
	return res, nil
}

// engage adds comments and likes from the other users to article.
func (s *Seeder) engage(ctx context.Context, f *Factory, article *models.Article, res *Result) error {
	if len(res.Users) < 2 {
		return nil
	}
	for n := f.faker.Number(0, s.opts.CommentsPerArticle); n > 0; n-- {
		commenter := &res.Users[f.faker.Number(0, len(res.Users)-1)]
		comment, err := f.CreateComment(ctx, commenter, article)
		if err != nil {
			return err
		}
		res.Comments++

		for _, u := range res.Users {
			if u.ID != commenter.ID && s.likes() {
				if err := f.LikeComment(ctx, comment.ID, u.ID); err != nil {
					return err
				}
				res.Likes++
			}
		}
	}
	for _, u := range res.Users {
		if u.ID != article.AuthorID && s.likes() {
			if err := f.LikeArticle(ctx, article.ID, u.ID); err != nil {
				return err
			}
			res.Likes++
		}
	}
	return nil
}

// withDB returns a copy of f writing through db, sharing its faker and hash.
func (f *Factory) withDB(db *gorm.DB) *Factory {
	clone := *f
	clone.db = db
	return &clone
}

// Credential is a ready-to-use bearer token for a seeded user.
type Credential struct {
	UserID    uint
	Username  string
	Token     string
	ExpiresAt time.Time
}

// IssueTokens signs a token for each user.
func IssueTokens(tokens *auth.Manager, users []models.User) ([]Credential, error) {
	creds := make([]Credential, 0, len(users))
	for _, u := range users {
		token, expiresAt, err := tokens.Issue(u.ID, u.Username)
		if err != nil {
			return nil, fmt.Errorf("issue token for %s: %w", u.Username, err)
		}
		creds = append(creds, Credential{UserID: u.ID, Username: u.Username, Token: token, ExpiresAt: expiresAt})
	}
	return creds, nil
}
