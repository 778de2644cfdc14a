package models

import "time"

// Comment is a reply attached to one Article and owned by one User.
// ArticleID is a plain reference: deleting an article leaves its comments
// in place unless cascading is switched on.
type Comment struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	Content   string        `gorm:"type:text;not null" json:"content"`
	AuthorID  uint          `gorm:"not null;index" json:"authorId"`
	Author    User          `gorm:"foreignKey:AuthorID" json:"author"`
	ArticleID uint          `gorm:"not null;index" json:"article"`
	Likes     []CommentLike `gorm:"foreignKey:CommentID" json:"-"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`

	LikedBy    LikeSet `gorm:"-" json:"likes"`
	LikesCount int     `gorm:"-" json:"likesCount"`
}

// OwnerID implements Owned.
func (c Comment) OwnerID() uint { return c.AuthorID }

// CollectLikes derives LikedBy and LikesCount from the loaded like rows.
func (c *Comment) CollectLikes() {
	if c.Likes != nil || c.LikedBy == nil {
		set := make(LikeSet, 0, len(c.Likes))
		for _, l := range c.Likes {
			set = append(set, l.UserID)
		}
		c.LikedBy = set
	}
	c.LikesCount = c.LikedBy.Count()
}
