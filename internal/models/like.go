package models

import (
	"encoding/json"
	"slices"
	"time"
)

// ArticleLike is one member of an article's like-set.
// The composite primary key keeps membership unique.
type ArticleLike struct {
	ArticleID uint      `gorm:"primaryKey;autoIncrement:false"`
	UserID    uint      `gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt time.Time
}

// CommentLike is one member of a comment's like-set.
type CommentLike struct {
	CommentID uint      `gorm:"primaryKey;autoIncrement:false"`
	UserID    uint      `gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt time.Time
}

// LikeSet is the list of user ids that liked a resource.
type LikeSet []uint

// Has reports membership.
func (s LikeSet) Has(userID uint) bool {
	return slices.Contains(s, userID)
}

// Count is the set cardinality.
func (s LikeSet) Count() int {
	return len(s)
}

// MarshalJSON renders an empty set as [] rather than null.
func (s LikeSet) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]uint(s))
}

// Owned is implemented by resources with an immutable author.
type Owned interface {
	OwnerID() uint
}
