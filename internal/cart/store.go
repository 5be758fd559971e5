package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	pkgerrors "github.com/berrythread/storefront-api/pkg/errors"
	"github.com/berrythread/storefront-api/pkg/logger"
	"github.com/berrythread/storefront-api/pkg/redis"
)

type snapshotStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	CartKey(scope string) string
	CartLockKey(scope string) string
	AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key string) error
}

// Store persists cart snapshots in Redis, one JSON document per scope.
type Store struct {
	redis        snapshotStore
	logg         *logger.Logger
	snapshotTTL  time.Duration
	lockTTL      time.Duration
	lockAttempts int
}

// NewStore wires a cart store over the shared Redis client.
func NewStore(redisClient snapshotStore, logg *logger.Logger, snapshotTTL, lockTTL time.Duration, lockAttempts int) (*Store, error) {
	if redisClient == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if lockAttempts < 1 {
		lockAttempts = 1
	}
	return &Store{
		redis:        redisClient,
		logg:         logg,
		snapshotTTL:  snapshotTTL,
		lockTTL:      lockTTL,
		lockAttempts: lockAttempts,
	}, nil
}

// Load returns the cart for a scope. A missing key yields an empty cart. A
// snapshot whose embedded scope disagrees with the requested scope is
// discarded rather than trusted.
func (s *Store) Load(ctx context.Context, scope string) (Cart, error) {
	if !ValidScope(scope) {
		return Cart{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid cart scope")
	}

	raw, err := s.redis.Get(ctx, s.redis.CartKey(scope))
	if err != nil {
		if err == redis.Nil {
			return emptyCart(scope), nil
		}
		return Cart{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart snapshot")
	}

	var cart Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		s.logg.Warn(s.logg.WithCartScope(ctx, scope), "discarding unreadable cart snapshot")
		return emptyCart(scope), nil
	}
	if cart.Scope != scope {
		s.logg.Warn(s.logg.WithCartScope(ctx, scope), "discarding cart snapshot with mismatched scope")
		return emptyCart(scope), nil
	}
	if cart.Items == nil {
		cart.Items = []LineItem{}
	}
	return cart, nil
}

// Save writes the snapshot under its scope key with the configured TTL.
func (s *Store) Save(ctx context.Context, cart Cart) error {
	if !ValidScope(cart.Scope) {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid cart scope")
	}
	cart.UpdatedAt = time.Now().UTC()

	raw, err := json.Marshal(cart)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart snapshot")
	}
	if err := s.redis.Set(ctx, s.redis.CartKey(cart.Scope), string(raw), s.snapshotTTL); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart snapshot")
	}
	return nil
}

// Clear drops the snapshot for a scope.
func (s *Store) Clear(ctx context.Context, scope string) error {
	if !ValidScope(scope) {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid cart scope")
	}
	if err := s.redis.Del(ctx, s.redis.CartKey(scope)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart snapshot")
	}
	return nil
}

// WithLock serializes a read-modify-write on one scope. The lock is
// best-effort with bounded retries; contention past the bound surfaces as a
// conflict so the client can retry.
func (s *Store) WithLock(ctx context.Context, scope string, fn func(ctx context.Context) error) error {
	key := s.redis.CartLockKey(scope)

	acquired := false
	for attempt := 0; attempt < s.lockAttempts; attempt++ {
		ok, err := s.redis.AcquireLock(ctx, key, s.lockTTL)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquire cart lock")
		}
		if ok {
			acquired = true
			break
		}
		select {
		case <-ctx.Done():
			return pkgerrors.Wrap(pkgerrors.CodeDependency, ctx.Err(), "acquire cart lock")
		case <-time.After(50 * time.Millisecond):
		}
	}
	if !acquired {
		return pkgerrors.New(pkgerrors.CodeConflict, "cart is busy, try again")
	}
	defer func() {
		if err := s.redis.ReleaseLock(ctx, key); err != nil {
			s.logg.Warn(s.logg.WithCartScope(ctx, scope), "failed to release cart lock")
		}
	}()

	return fn(ctx)
}
