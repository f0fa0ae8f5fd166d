package pos

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/bookpost-erp/bookpost/internal/platform/httpx"
)

// ErrStaleCart rejects a save whose generation no longer matches the stored
// cart. The caller raced a newer mutation and its result must be discarded.
var ErrStaleCart = errors.New("cart was modified by a newer request")

const cartTTL = 4 * time.Hour

// Store keeps terminal carts in Redis, one JSON document per session.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb, ttl: cartTTL}
}

func cartKey(id string) string {
	return "pos:cart:" + id
}

// Create opens a fresh cart session.
func (s *Store) Create(ctx context.Context) (Cart, error) {
	cart := Cart{ID: uuid.NewString(), Generation: 1, Lines: []CartLine{}}
	if err := s.write(ctx, cart); err != nil {
		return Cart{}, err
	}
	return cart, nil
}

// Get loads a cart by session id.
func (s *Store) Get(ctx context.Context, id string) (Cart, error) {
	raw, err := s.rdb.Get(ctx, cartKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Cart{}, fmt.Errorf("%w: cart session expired or unknown", httpx.ErrNotFound)
	}
	if err != nil {
		return Cart{}, err
	}
	var cart Cart
	if err := json.Unmarshal(raw, &cart); err != nil {
		return Cart{}, err
	}
	return cart, nil
}

// Save persists a mutated cart. The cart's generation must equal the stored
// one; on success the stored generation advances by one. A mismatch means a
// concurrent request saved first, and this result is discarded.
func (s *Store) Save(ctx context.Context, cart Cart) (Cart, error) {
	current, err := s.Get(ctx, cart.ID)
	if err != nil {
		return Cart{}, err
	}
	if current.Generation != cart.Generation {
		return Cart{}, ErrStaleCart
	}
	cart.Generation++
	if err := s.write(ctx, cart); err != nil {
		return Cart{}, err
	}
	return cart, nil
}

// Delete drops a cart session, typically after checkout.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, cartKey(id)).Err()
}

func (s *Store) write(ctx context.Context, cart Cart) error {
	raw, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, cartKey(cart.ID), raw, s.ttl).Err()
}
