package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"blogsphere/internal/middleware"

	"github.com/redis/go-redis/v9"
)

const (
	ArticleKeyPrefix = "article:%d"
	ArticleListKey   = "articles:all"
	articleScanMatch = "article:*"
)

const (
	ArticleTTL     = 5 * time.Minute
	ArticleListTTL = 30 * time.Second

	// generationTTL outlives any fetch a refill can be waiting on.
	generationTTL = time.Hour
)

// epochKey is bumped by bulk invalidation; every refill checks it.
const epochKey = "gen:epoch"

var errStaleFill = errors.New("cache: entry invalidated during fetch")

// ArticleKey is the cache key of one article's detail view.
func ArticleKey(articleID uint) string {
	return fmt.Sprintf(ArticleKeyPrefix, articleID)
}

// Cache is a JSON cache-aside layer over Redis. A nil *Cache, or one built
// from a nil client, is a pass-through.
type Cache struct {
	client *redis.Client
}

// New wraps client. client may be nil.
func New(client *redis.Client) *Cache {
	return &Cache{client: client}
}

func (c *Cache) enabled() bool {
	return c != nil && c.client != nil
}

// Aside loads key into dest, calling fetch to populate dest on a miss and
// storing the result for ttl. Redis failures degrade to a miss.
//
// A refill is only stored when no invalidation of key happened between the
// miss and the store, so a fetch that raced a write never overwrites the
// invalidation with data read before it.
func (c *Cache) Aside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func() error) error {
	if !c.enabled() {
		return fetch()
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if jsonErr := json.Unmarshal(raw, dest); jsonErr == nil {
			return nil
		}
		c.Invalidate(ctx, key)
	case !errors.Is(err, redis.Nil):
		middleware.Logger.WarnContext(ctx, "cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	}

	observed, genErr := generation(ctx, c.client, key)

	if err := fetch(); err != nil {
		return err
	}
	if genErr != nil {
		return nil
	}

	payload, err := json.Marshal(dest)
	if err != nil {
		return nil
	}
	c.store(ctx, key, payload, ttl, observed)
	return nil
}

func generationKey(key string) string {
	return "gen:" + key
}

type multiGetter interface {
	MGet(ctx context.Context, keys ...string) *redis.SliceCmd
}

// generation identifies the invalidation state of key.
func generation(ctx context.Context, r multiGetter, key string) (string, error) {
	vals, err := r.MGet(ctx, generationKey(key), epochKey).Result()
	if err != nil {
		return "", err
	}
	return fmt.Sprint(vals...), nil
}

// store writes payload under key if its generation is still observed.
func (c *Cache) store(ctx context.Context, key string, payload []byte, ttl time.Duration, observed string) {
	err := c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := generation(ctx, tx, key)
		if err != nil {
			return err
		}
		if current != observed {
			return errStaleFill
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, ttl)
			return nil
		})
		return err
	}, generationKey(key), epochKey)

	switch {
	case err == nil:
	case errors.Is(err, errStaleFill), errors.Is(err, redis.TxFailedErr):
		middleware.Logger.DebugContext(ctx, "cache refill skipped", slog.String("key", key))
	default:
		middleware.Logger.WarnContext(ctx, "cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}

// Invalidate removes the given keys and bumps their generations, so refills
// already in flight are discarded.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if !c.enabled() || len(keys) == 0 {
		return
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, k := range keys {
			pipe.Incr(ctx, generationKey(k))
			pipe.Expire(ctx, generationKey(k), generationTTL)
		}
		pipe.Del(ctx, keys...)
		return nil
	})
	if err != nil {
		middleware.Logger.WarnContext(ctx, "cache invalidation failed", slog.Any("keys", keys), slog.String("error", err.Error()))
	}
}

// InvalidateArticle drops one article's detail and the article list.
func (c *Cache) InvalidateArticle(ctx context.Context, articleID uint) {
	c.Invalidate(ctx, ArticleKey(articleID), ArticleListKey)
}

// InvalidateAllArticles drops every cached article view. Used when data
// embedded in many articles, such as an author's profile, changes.
func (c *Cache) InvalidateAllArticles(ctx context.Context) {
	if !c.enabled() {
		return
	}
	if err := c.client.Incr(ctx, epochKey).Err(); err != nil {
		middleware.Logger.WarnContext(ctx, "cache epoch bump failed", slog.String("error", err.Error()))
	}
	keys := []string{ArticleListKey}
	iter := c.client.Scan(ctx, 0, articleScanMatch, 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		middleware.Logger.WarnContext(ctx, "cache scan failed", slog.String("error", err.Error()))
	}
	c.Invalidate(ctx, keys...)
}

// Ping reports cache health; a disabled cache is reported as unavailable.
func (c *Cache) Ping(ctx context.Context) error {
	if !c.enabled() {
		return errors.New("cache disabled")
	}
	return c.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (c *Cache) Close() error {
	if !c.enabled() {
		return nil
	}
	return c.client.Close()
}
