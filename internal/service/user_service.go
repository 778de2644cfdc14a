package service

import (
	"context"

	"blogsphere/internal/cache"
	"blogsphere/internal/models"
	"blogsphere/internal/repository"
	"blogsphere/internal/validation"
)

type UserService struct {
	users repository.UserRepository
	cache *cache.Cache
}

// UpdateProfileInput carries the optional profile fields. An empty
// profilePicture clears the picture.
type UpdateProfileInput struct {
	UserID         uint    `json:"-"`
	Bio            *string `json:"bio" validate:"omitempty,max=500"`
	ProfilePicture *string `json:"profilePicture" validate:"omitempty,http_url"`
}

// NewUserService creates a UserService. c may be nil.
func NewUserService(users repository.UserRepository, c *cache.Cache) *UserService {
	return &UserService{users: users, cache: c}
}

// Profile returns the caller's own profile.
func (s *UserService) Profile(ctx context.Context, userID uint) (*models.User, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, userID)
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	if err := requireUser(in.UserID); err != nil {
		return nil, err
	}

	clearPicture := in.ProfilePicture != nil && *in.ProfilePicture == ""
	check := in
	if clearPicture {
		check.ProfilePicture = nil
	}
	if err := validation.Struct(check); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if in.Bio == nil && in.ProfilePicture == nil {
		return user, nil
	}
	if in.Bio != nil {
		user.Bio = *in.Bio
	}
	if in.ProfilePicture != nil {
		user.ProfilePicture = *in.ProfilePicture
	}
	if err := s.users.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}

	// Cached articles embed their author.
	s.cache.InvalidateAllArticles(ctx)
	return user, nil
}
