package service

import (
	"context"
	"strings"
	"testing"

	"blogsphere/internal/cache"
	"blogsphere/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUserService_Profile(t *testing.T) {
	ctx := context.Background()
	users := &userRepoMock{}
	users.On("GetByID", ctx, uint(3)).Return(&models.User{ID: 3, Username: "u3"}, nil)
	svc := NewUserService(users, nil)

	got, err := svc.Profile(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "u3", got.Username)

	_, err = svc.Profile(ctx, 0)
	assert.True(t, models.HasCode(err, models.CodeUnauthorized))
}

func TestUserService_UpdateProfileValidation(t *testing.T) {
	tests := []struct {
		name    string
		in      UpdateProfileInput
		wantMsg string
	}{
		{"long bio", UpdateProfileInput{UserID: 3, Bio: strPtr(strings.Repeat("b", 501))}, "bio must be at most 500 characters long"},
		{"relative picture", UpdateProfileInput{UserID: 3, ProfilePicture: strPtr("/me.png")}, "profilePicture must be a valid http(s) URL"},
		{"ftp picture", UpdateProfileInput{UserID: 3, ProfilePicture: strPtr("ftp://host/me.png")}, "profilePicture must be a valid http(s) URL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &userRepoMock{}
			svc := NewUserService(users, nil)

			_, err := svc.UpdateProfile(context.Background(), tt.in)
			assert.EqualError(t, err, tt.wantMsg)
			users.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything)
		})
	}
}

func TestUserService_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, mr.Set(cache.ArticleKey(1), "{}"))

	users := &userRepoMock{}
	users.On("GetByID", ctx, uint(3)).Return(&models.User{ID: 3, Username: "u3", Bio: "old", ProfilePicture: "https://x.io/old.png"}, nil)
	users.On("UpdateProfile", ctx, mock.MatchedBy(func(u *models.User) bool {
		return u.Bio == "new" && u.ProfilePicture == ""
	})).Return(nil)
	svc := NewUserService(users, cache.New(client))

	got, err := svc.UpdateProfile(ctx, UpdateProfileInput{UserID: 3, Bio: strPtr("new"), ProfilePicture: strPtr("")})
	require.NoError(t, err)
	assert.Equal(t, "new", got.Bio)
	assert.Empty(t, got.ProfilePicture)
	assert.False(t, mr.Exists(cache.ArticleKey(1)), "cached articles embed the author and must be dropped")
	users.AssertExpectations(t)
}
