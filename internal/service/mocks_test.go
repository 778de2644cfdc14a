package service

import (
	"context"

	"blogsphere/internal/models"

	"github.com/stretchr/testify/mock"
)

type articleRepoMock struct{ mock.Mock }

func (m *articleRepoMock) List(ctx context.Context) ([]*models.Article, error) {
	args := m.Called(ctx)
	articles, _ := args.Get(0).([]*models.Article)
	return articles, args.Error(1)
}

func (m *articleRepoMock) GetByID(ctx context.Context, id uint) (*models.Article, error) {
	args := m.Called(ctx, id)
	article, _ := args.Get(0).(*models.Article)
	return article, args.Error(1)
}

func (m *articleRepoMock) Exists(ctx context.Context, id uint) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *articleRepoMock) Create(ctx context.Context, article *models.Article) error {
	return m.Called(ctx, article).Error(0)
}

func (m *articleRepoMock) Update(ctx context.Context, article *models.Article) error {
	return m.Called(ctx, article).Error(0)
}

func (m *articleRepoMock) Delete(ctx context.Context, id uint, cascadeComments bool) error {
	return m.Called(ctx, id, cascadeComments).Error(0)
}

func (m *articleRepoMock) ToggleLike(ctx context.Context, articleID, userID uint) (bool, error) {
	args := m.Called(ctx, articleID, userID)
	return args.Bool(0), args.Error(1)
}

type commentRepoMock struct{ mock.Mock }

func (m *commentRepoMock) ListByArticle(ctx context.Context, articleID uint) ([]*models.Comment, error) {
	args := m.Called(ctx, articleID)
	comments, _ := args.Get(0).([]*models.Comment)
	return comments, args.Error(1)
}

func (m *commentRepoMock) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	args := m.Called(ctx, id)
	comment, _ := args.Get(0).(*models.Comment)
	return comment, args.Error(1)
}

func (m *commentRepoMock) Create(ctx context.Context, comment *models.Comment) error {
	return m.Called(ctx, comment).Error(0)
}

func (m *commentRepoMock) Update(ctx context.Context, comment *models.Comment) error {
	return m.Called(ctx, comment).Error(0)
}

func (m *commentRepoMock) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *commentRepoMock) ToggleLike(ctx context.Context, commentID, userID uint) (bool, error) {
	args := m.Called(ctx, commentID, userID)
	return args.Bool(0), args.Error(1)
}

type userRepoMock struct{ mock.Mock }

func (m *userRepoMock) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *userRepoMock) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *userRepoMock) Exists(ctx context.Context, id uint) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *userRepoMock) Create(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *userRepoMock) UpdateProfile(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func strPtr(s string) *string { return &s }
