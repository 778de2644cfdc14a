// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a BlogSphere account. The password hash never leaves the server.
type User struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Username       string         `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Password       string         `gorm:"not null" json:"-"`
	Bio            string         `gorm:"size:500" json:"bio"`
	ProfilePicture string         `json:"profilePicture"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}
