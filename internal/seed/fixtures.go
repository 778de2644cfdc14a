package seed

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"blogsphere/internal/middleware"
	"blogsphere/internal/models"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed fixtures/demo.yml
var demoFixture []byte

// Fixture is a hand-written data set, referenced by username.
type Fixture struct {
	Users    []FixtureUser    `yaml:"users"`
	Articles []FixtureArticle `yaml:"articles"`
}

type FixtureUser struct {
	Username       string `yaml:"username"`
	Bio            string `yaml:"bio"`
	ProfilePicture string `yaml:"profilePicture"`
}

type FixtureArticle struct {
	Author   string           `yaml:"author"`
	Title    string           `yaml:"title"`
	Content  string           `yaml:"content"`
	LikedBy  []string         `yaml:"likedBy"`
	Comments []FixtureComment `yaml:"comments"`
}

type FixtureComment struct {
	Author  string   `yaml:"author"`
	Content string   `yaml:"content"`
	LikedBy []string `yaml:"likedBy"`
}

// DemoFixture returns the built-in demo data set.
func DemoFixture() (*Fixture, error) {
	return LoadFixture(bytes.NewReader(demoFixture))
}

// LoadFixture decodes and checks a YAML fixture. Unknown keys are rejected.
func LoadFixture(r io.Reader) (*Fixture, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var fx Fixture
	if err := dec.Decode(&fx); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	if err := fx.check(); err != nil {
		return nil, err
	}
	return &fx, nil
}

func (fx *Fixture) check() error {
	known := make(map[string]bool, len(fx.Users))
	for _, u := range fx.Users {
		if u.Username == "" {
			return errors.New("fixture user without username")
		}
		if known[u.Username] {
			return fmt.Errorf("fixture user %q listed twice", u.Username)
		}
		known[u.Username] = true
	}

	ref := func(where, name string) error {
		if !known[name] {
			return fmt.Errorf("%s refers to unknown user %q", where, name)
		}
		return nil
	}
	for i, a := range fx.Articles {
		where := fmt.Sprintf("article %d (%q)", i+1, a.Title)
		if a.Title == "" || a.Content == "" {
			return fmt.Errorf("%s needs a title and content", where)
		}
		if err := ref(where, a.Author); err != nil {
			return err
		}
		for _, name := range a.LikedBy {
			if err := ref(where+" likedBy", name); err != nil {
				return err
			}
		}
		for j, c := range a.Comments {
			cwhere := fmt.Sprintf("%s comment %d", where, j+1)
			if c.Content == "" {
				return fmt.Errorf("%s has no content", cwhere)
			}
			if err := ref(cwhere, c.Author); err != nil {
				return err
			}
			for _, name := range c.LikedBy {
				if err := ref(cwhere+" likedBy", name); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Apply writes fx in one transaction.
func (s *Seeder) Apply(ctx context.Context, fx *Fixture) (*Result, error) {
	res := &Result{}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		f := s.factory.withDB(tx)

		byName := make(map[string]*models.User, len(fx.Users))
		for _, fu := range fx.Users {
			user := &models.User{Username: fu.Username, Bio: fu.Bio, ProfilePicture: fu.ProfilePicture}
			if err := f.SaveUser(ctx, user); err != nil {
				return err
			}
			byName[fu.Username] = user
			res.Users = append(res.Users, *user)
		}

		for _, fa := range fx.Articles {
			article, err := f.CreateArticle(ctx, byName[fa.Author], func(a *models.Article) {
				a.Title = fa.Title
				a.Content = fa.Content
			})
			if err != nil {
				return err
			}
			res.Articles++

			for _, name := range fa.LikedBy {
				if err := f.LikeArticle(ctx, article.ID, byName[name].ID); err != nil {
					return err
				}
				res.Likes++
			}

			for _, fc := range fa.Comments {
				comment, err := f.CreateComment(ctx, byName[fc.Author], article, func(c *models.Comment) {
					c.Content = fc.Content
				})
				if err != nil {
					return err
				}
				res.Comments++

				for _, name := range fc.LikedBy {
					if err := f.LikeComment(ctx, comment.ID, byName[name].ID); err != nil {
						return err
					}
					res.Likes++
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	middleware.Logger.Info("applied fixture",
		slog.Int("users", len(res.Users)),
		slog.Int("articles", res.Articles),
		slog.Int("comments", res.Comments),
	)
	return res, nil
}
