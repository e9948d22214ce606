// Package cache keeps short-lived storefront state in Redis: the catalog
// stock snapshot, open checkout sessions and reserved order ids.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"storefront-service/internal/checkout"
	"storefront-service/internal/entity"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

const (
	catalogKey       = "catalog:stock"
	sessionKeyPrefix = "checkout-session:"
	orderIDKeyPrefix = "order-id:"

	CatalogTTL = 1 * time.Minute
	OrderIDTTL = 24 * time.Hour
)

// CatalogCache holds the last stock snapshot read from MySQL.
type CatalogCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCatalogCache(rdb *redis.Client, ttl time.Duration) *CatalogCache {
	if ttl <= 0 {
		ttl = CatalogTTL
	}
	return &CatalogCache{rdb: rdb, ttl: ttl}
}

// Get returns the cached snapshot. ok is false on a miss.
func (c *CatalogCache) Get(ctx context.Context) (rows []entity.ProductStock, ok bool, err error) {
	val, err := c.rdb.Get(ctx, catalogKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if err := json.Unmarshal([]byte(val), &rows); err != nil {
		logger.Warn().Err(err).Msg("Dropping unreadable catalog snapshot")
		return nil, false, c.Invalidate(ctx)
	}
	return rows, true, nil
}

func (c *CatalogCache) Set(ctx context.Context, rows []entity.ProductStock) error {
	data, err := json.Marshal(rows)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, catalogKey, data, c.ttl).Err()
}

func (c *CatalogCache) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, catalogKey).Err()
}

// SessionStore persists checkout sessions between requests.
type SessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSessionStore(rdb *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{rdb: rdb, ttl: ttl}
}

func (s *SessionStore) Save(ctx context.Context, sess *checkout.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, sessionKeyPrefix+sess.ID, data, s.ttl).Err()
}

func (s *SessionStore) Get(ctx context.Context, id string) (*checkout.Session, error) {
	val, err := s.rdb.Get(ctx, sessionKeyPrefix+id).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%s: %w", id, entity.ErrSessionNotFound)
	}
	if err != nil {
		return nil, err
	}
	var sess checkout.Session
	if err := json.Unmarshal([]byte(val), &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Update applies fn to the stored session and writes the result back. The
// key is watched, so a concurrent write makes the update fail with
// checkout.ErrInvalidTransition instead of being overwritten.
func (s *SessionStore) Update(ctx context.Context, id string, fn func(sess *checkout.Session) error) (*checkout.Session, error) {
	key := sessionKeyPrefix + id
	var sess checkout.Session

	err := s.rdb.Watch(ctx, func(tx *redis.Tx) error {
		val, err := tx.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			return fmt.Errorf("%s: %w", id, entity.ErrSessionNotFound)
		}
		if err != nil {
			return err
		}
		if err := json.Unmarshal([]byte(val), &sess); err != nil {
			return err
		}
		if err := fn(&sess); err != nil {
			return err
		}
		data, err := json.Marshal(&sess)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.ttl)
			return nil
		})
		return err
	}, key)
	if errors.Is(err, redis.TxFailedErr) {
		return nil, fmt.Errorf("checkout %s changed concurrently: %w", id, checkout.ErrInvalidTransition)
	}
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, sessionKeyPrefix+id).Err()
}

// OrderIDGuard remembers issued order ids so a clash is noticed before it
// reaches the database.
type OrderIDGuard struct {
	rdb *redis.Client
}

func NewOrderIDGuard(rdb *redis.Client) *OrderIDGuard {
	return &OrderIDGuard{rdb: rdb}
}

// Reserve claims id. It returns false if the id was already issued.
func (g *OrderIDGuard) Reserve(ctx context.Context, id string) (bool, error) {
	return g.rdb.SetNX(ctx, orderIDKeyPrefix+id, "reserved", OrderIDTTL).Result()
}
