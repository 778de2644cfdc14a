package service

import (
	"context"
	"testing"

	"blogsphere/internal/featureflags"
	"blogsphere/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func ownedArticle(id, authorID uint, likedBy ...uint) *models.Article {
	a := &models.Article{ID: id, Title: "Hello", Content: "World", AuthorID: authorID, LikedBy: likedBy}
	a.CollectLikes()
	return a
}

func TestArticleService_CreateValidation(t *testing.T) {
	tests := []struct {
		name    string
		in      CreateArticleInput
		wantMsg string
	}{
		{"empty title", CreateArticleInput{AuthorID: 1, Content: "body"}, "title is required"},
		{"blank content", CreateArticleInput{AuthorID: 1, Title: "t", Content: "  \n"}, "content is required"},
		{"both empty", CreateArticleInput{AuthorID: 1}, "title is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &articleRepoMock{}
			svc := NewArticleService(repo, nil)

			_, err := svc.Create(context.Background(), tt.in)
			assert.True(t, models.HasCode(err, models.CodeValidation))
			assert.EqualError(t, err, tt.wantMsg)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestArticleService_CreateRequiresAuthor(t *testing.T) {
	svc := NewArticleService(&articleRepoMock{}, nil)
	_, err := svc.Create(context.Background(), CreateArticleInput{Title: "t", Content: "c"})
	assert.True(t, models.HasCode(err, models.CodeUnauthorized))
}

func TestArticleService_CreateReturnsStoredArticle(t *testing.T) {
	repo := &articleRepoMock{}
	svc := NewArticleService(repo, nil)
	ctx := context.Background()

	repo.On("Create", ctx, mock.MatchedBy(func(a *models.Article) bool {
		return a.Title == "Hello" && a.Content == "World" && a.AuthorID == 7
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Article).ID = 11
	}).Return(nil)
	stored := ownedArticle(11, 7)
	stored.Author = models.User{ID: 7, Username: "u1"}
	repo.On("GetByID", ctx, uint(11)).Return(stored, nil)

	got, err := svc.Create(ctx, CreateArticleInput{AuthorID: 7, Title: "Hello", Content: "World"})
	require.NoError(t, err)
	assert.Equal(t, "u1", got.Author.Username)
	assert.Equal(t, 0, got.LikesCount)
	repo.AssertExpectations(t)
}

func TestArticleService_GetMarksViewer(t *testing.T) {
	ctx := context.Background()
	for _, tt := range []struct {
		name   string
		viewer uint
		want   bool
	}{
		{"anonymous", 0, false},
		{"liker", 2, true},
		{"other", 3, false},
	} {
		t.Run(tt.name, func(t *testing.T) {
			repo := &articleRepoMock{}
			repo.On("GetByID", ctx, uint(1)).Return(ownedArticle(1, 9, 2), nil)
			svc := NewArticleService(repo, nil)

			got, err := svc.Get(ctx, 1, tt.viewer)
			require.NoError(t, err)
			require.NotNil(t, got.IsLiked)
			assert.Equal(t, tt.want, *got.IsLiked)
			assert.Equal(t, 1, got.LikesCount)
		})
	}
}

func TestArticleService_GetMissing(t *testing.T) {
	repo := &articleRepoMock{}
	repo.On("GetByID", mock.Anything, uint(5)).Return(nil, models.NewNotFoundError("Article", 5))
	svc := NewArticleService(repo, nil)

	_, err := svc.Get(context.Background(), 5, 0)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}

func TestArticleService_UpdateRules(t *testing.T) {
	ctx := context.Background()

	t.Run("non-owner is forbidden", func(t *testing.T) {
		repo := &articleRepoMock{}
		repo.On("GetByID", ctx, uint(1)).Return(ownedArticle(1, 9), nil)
		svc := NewArticleService(repo, nil)

		_, err := svc.Update(ctx, UpdateArticleInput{ArticleID: 1, RequesterID: 2, Fields: models.ArticleUpdate{Title: strPtr("mine now")}})
		assert.True(t, models.HasCode(err, models.CodeForbidden))
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("blank field is rejected", func(t *testing.T) {
		repo := &articleRepoMock{}
		repo.On("GetByID", ctx, uint(1)).Return(ownedArticle(1, 9), nil)
		svc := NewArticleService(repo, nil)

		_, err := svc.Update(ctx, UpdateArticleInput{ArticleID: 1, RequesterID: 9, Fields: models.ArticleUpdate{Content: strPtr(" ")}})
		assert.True(t, models.HasCode(err, models.CodeValidation))
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("missing article", func(t *testing.T) {
		repo := &articleRepoMock{}
		repo.On("GetByID", ctx, uint(4)).Return(nil, models.NewNotFoundError("Article", 4))
		svc := NewArticleService(repo, nil)

		_, err := svc.Update(ctx, UpdateArticleInput{ArticleID: 4, RequesterID: 9, Fields: models.ArticleUpdate{Title: strPtr("x")}})
		assert.True(t, models.HasCode(err, models.CodeNotFound))
	})

	t.Run("owner applies subset", func(t *testing.T) {
		repo := &articleRepoMock{}
		repo.On("GetByID", ctx, uint(1)).Return(ownedArticle(1, 9), nil).Once()
		repo.On("Update", ctx, mock.MatchedBy(func(a *models.Article) bool {
			return a.Title == "Renamed" && a.Content == "World"
		})).Return(nil)
		updated := ownedArticle(1, 9)
		updated.Title = "Renamed"
		repo.On("GetByID", ctx, uint(1)).Return(updated, nil).Once()
		svc := NewArticleService(repo, nil)

		got, err := svc.Update(ctx, UpdateArticleInput{ArticleID: 1, RequesterID: 9, Fields: models.ArticleUpdate{Title: strPtr("Renamed")}})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", got.Title)
		repo.AssertExpectations(t)
	})

	t.Run("empty update is a no-op", func(t *testing.T) {
		repo := &articleRepoMock{}
		repo.On("GetByID", ctx, uint(1)).Return(ownedArticle(1, 9), nil)
		svc := NewArticleService(repo, nil)

		got, err := svc.Update(ctx, UpdateArticleInput{ArticleID: 1, RequesterID: 9})
		require.NoError(t, err)
		assert.Equal(t, "Hello", got.Title)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestArticleService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("non-owner is forbidden", func(t *testing.T) {
		repo := &articleRepoMock{}
		repo.On("GetByID", ctx, uint(1)).Return(ownedArticle(1, 9), nil)
		svc := NewArticleService(repo, nil)

		err := svc.Delete(ctx, 1, 2)
		assert.True(t, models.HasCode(err, models.CodeForbidden))
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("keeps comments by default", func(t *testing.T) {
		repo := &articleRepoMock{}
		repo.On("GetByID", ctx, uint(1)).Return(ownedArticle(1, 9), nil)
		repo.On("Delete", ctx, uint(1), false).Return(nil)
		svc := NewArticleService(repo, featureflags.NewManager(""))

		require.NoError(t, svc.Delete(ctx, 1, 9))
		repo.AssertExpectations(t)
	})

	t.Run("cascade flag deletes comments", func(t *testing.T) {
		repo := &articleRepoMock{}
		repo.On("GetByID", ctx, uint(1)).Return(ownedArticle(1, 9), nil)
		repo.On("Delete", ctx, uint(1), true).Return(nil)
		svc := NewArticleService(repo, featureflags.NewManager("cascade_comment_delete=on"))

		require.NoError(t, svc.Delete(ctx, 1, 9))
		repo.AssertExpectations(t)
	})
}

func TestArticleService_ToggleLike(t *testing.T) {
	ctx := context.Background()

	t.Run("missing article", func(t *testing.T) {
		repo := &articleRepoMock{}
		repo.On("Exists", ctx, uint(3)).Return(false, nil)
		svc := NewArticleService(repo, nil)

		_, err := svc.ToggleLike(ctx, 3, 2)
		assert.True(t, models.HasCode(err, models.CodeNotFound))
		repo.AssertNotCalled(t, "ToggleLike", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("flips membership", func(t *testing.T) {
		repo := &articleRepoMock{}
		repo.On("Exists", ctx, uint(3)).Return(true, nil)
		repo.On("ToggleLike", ctx, uint(3), uint(2)).Return(true, nil).Once()
		repo.On("ToggleLike", ctx, uint(3), uint(2)).Return(false, nil).Once()
		svc := NewArticleService(repo, nil)

		liked, err := svc.ToggleLike(ctx, 3, 2)
		require.NoError(t, err)
		assert.True(t, liked)
		liked, err = svc.ToggleLike(ctx, 3, 2)
		require.NoError(t, err)
		assert.False(t, liked)
	})

	t.Run("timeout passes through", func(t *testing.T) {
		repo := &articleRepoMock{}
		repo.On("Exists", ctx, uint(3)).Return(false, models.NewTimeoutError(context.DeadlineExceeded))
		svc := NewArticleService(repo, nil)

		_, err := svc.ToggleLike(ctx, 3, 2)
		assert.True(t, models.HasCode(err, models.CodeTimeout))
	})

	t.Run("anonymous", func(t *testing.T) {
		svc := NewArticleService(&articleRepoMock{}, nil)
		_, err := svc.ToggleLike(ctx, 3, 0)
		assert.True(t, models.HasCode(err, models.CodeUnauthorized))
	})
}
