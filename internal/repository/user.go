package repository

import (
	"context"
	"time"

	"blogsphere/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Create(ctx context.Context, user *models.User) error
	UpdateProfile(ctx context.Context, user *models.User) error
}

type userRepository struct {
	base
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB, timeout time.Duration) UserRepository {
	return &userRepository{base: newBase(db, timeout, "users")}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.run(ctx, "get", func(db *gorm.DB) error {
		return db.First(&user, id).Error
	})
	if err != nil {
		return nil, models.FromDB(err, "User", id)
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.run(ctx, "get_by_username", func(db *gorm.DB) error {
		return db.Where("username = ?", username).First(&user).Error
	})
	if err != nil {
		return nil, models.FromDB(err, "User", username)
	}
	return &user, nil
}

// Exists is the uncached identity check used by the auth guard.
func (r *userRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.run(ctx, "exists", func(db *gorm.DB) error {
		return db.Model(&models.User{}).Where("id = ?", id).Count(&count).Error
	})
	if err != nil {
		return false, models.FromDB(err, "User", id)
	}
	return count > 0, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	err := r.run(ctx, "create", func(db *gorm.DB) error {
		return db.Create(user).Error
	})
	return models.FromDB(err, "User", user.Username)
}

func (r *userRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	err := r.run(ctx, "update_profile", func(db *gorm.DB) error {
		res := db.Model(user).Select("Bio", "ProfilePicture", "UpdatedAt").Updates(user)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return models.FromDB(err, "User", user.ID)
}
