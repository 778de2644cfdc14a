// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"blogsphere/internal/observability"

	"gorm.io/gorm"
)

// DefaultQueryTimeout bounds a repository call when none is configured.
const DefaultQueryTimeout = 5 * time.Second

// base bounds every call with a timeout and records a span and latency sample for it.
type base struct {
	db      *gorm.DB
	timeout time.Duration
	table   string
}

func newBase(db *gorm.DB, timeout time.Duration, table string) base {
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}
	return base{db: db, timeout: timeout, table: table}
}

// run executes fn against a session bound to a derived deadline. A driver
// error caused by the deadline is normalised to wrap context.DeadlineExceeded.
func (b base) run(ctx context.Context, op string, fn func(db *gorm.DB) error) error {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	ctx, span := observability.StartRepositorySpan(ctx, b.table, op)
	done := observability.TrackQuery(op, b.table)

	err := fn(b.db.WithContext(ctx))
	done()

	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) && !errors.Is(err, context.DeadlineExceeded) {
		err = fmt.Errorf("%w: %v", context.DeadlineExceeded, err)
	}
	observability.EndSpan(span, err)
	return err
}

// likeTable names a like-set join table and the table its rows belong to.
type likeTable struct {
	name   string
	column string
	parent string
}

var (
	articleLikes = likeTable{name: "article_likes", column: "article_id", parent: "articles"}
	commentLikes = likeTable{name: "comment_likes", column: "comment_id", parent: "comments"}
)

// toggleMembership flips userID's membership in the like-set of parentID with
// two single-statement operations: remove-if-present, otherwise
// add-if-absent. Concurrent toggles by different users touch different rows
// and cannot lose each other's update. The insert only happens while the
// parent row exists; a parent deleted underneath the toggle yields
// gorm.ErrRecordNotFound. It reports whether the membership exists afterwards.
func toggleMembership(db *gorm.DB, lt likeTable, parentID, userID uint) (bool, error) {
	res := db.Exec("DELETE FROM "+lt.name+" WHERE "+lt.column+" = ? AND user_id = ?", parentID, userID)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return false, nil
	}

	res = db.Exec("INSERT INTO "+lt.name+" ("+lt.column+", user_id, created_at) "+
		"SELECT CAST(? AS BIGINT), CAST(? AS BIGINT), CURRENT_TIMESTAMP "+
		"WHERE EXISTS (SELECT 1 FROM "+lt.parent+" WHERE id = ?) "+
		"ON CONFLICT DO NOTHING", parentID, userID, parentID)
	switch {
	case errors.Is(res.Error, gorm.ErrForeignKeyViolated):
		return false, gorm.ErrRecordNotFound
	case res.Error != nil:
		return false, res.Error
	case res.RowsAffected > 0:
		return true, nil
	}

	// Nothing inserted: either the parent is gone, or a concurrent toggle by
	// the same user already added the row and the membership still holds.
	var parents int64
	if err := db.Table(lt.parent).Where("id = ?", parentID).Count(&parents).Error; err != nil {
		return false, err
	}
	if parents == 0 {
		return false, gorm.ErrRecordNotFound
	}
	return true, nil
}
