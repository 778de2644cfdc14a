package models

import "time"

// Article is a published piece of content owned by exactly one User.
// Likes are stored as membership rows; LikedBy, LikesCount and IsLiked are
// derived from them on every read.
type Article struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	Title     string        `gorm:"size:300;not null" json:"title"`
	Content   string        `gorm:"type:text;not null" json:"content"`
	AuthorID  uint          `gorm:"not null;index" json:"authorId"`
	Author    User          `gorm:"foreignKey:AuthorID" json:"author"`
	Likes     []ArticleLike `gorm:"foreignKey:ArticleID" json:"-"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`

	LikedBy    LikeSet `gorm:"-" json:"likes"`
	LikesCount int     `gorm:"-" json:"likesCount"`
	// IsLiked is only set on single-article reads.
	IsLiked *bool `gorm:"-" json:"isLiked,omitempty"`
}

// OwnerID implements Owned.
func (a Article) OwnerID() uint { return a.AuthorID }

// CollectLikes derives LikedBy and LikesCount from the loaded like rows.
// It is a no-op when the rows were not preloaded and LikedBy is already set.
func (a *Article) CollectLikes() {
	if a.Likes != nil || a.LikedBy == nil {
		set := make(LikeSet, 0, len(a.Likes))
		for _, l := range a.Likes {
			set = append(set, l.UserID)
		}
		a.LikedBy = set
	}
	a.LikesCount = a.LikedBy.Count()
}

// MarkViewer records whether viewerID is in the like-set. Zero is anonymous.
func (a *Article) MarkViewer(viewerID uint) {
	liked := viewerID != 0 && a.LikedBy.Has(viewerID)
	a.IsLiked = &liked
}

// ArticleUpdate carries the optional fields of a partial article update.
type ArticleUpdate struct {
	Title   *string `json:"title" validate:"omitempty,notblank,max=300"`
	Content *string `json:"content" validate:"omitempty,notblank"`
}

// Empty reports whether no field was provided.
func (u ArticleUpdate) Empty() bool {
	return u.Title == nil && u.Content == nil
}
