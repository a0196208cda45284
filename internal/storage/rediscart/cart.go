package rediscart

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shopline/storefront/internal/domain/model"
)

// cartTTL bounds how long an abandoned cart is kept.
const cartTTL = 30 * 24 * time.Hour

// Store keeps per-user carts in Redis hashes keyed by product id.
type Store struct {
	client *redis.Client
	logger *slog.Logger
}

// New connects to Redis and verifies connectivity.
func New(ctx context.Context, addr string, logger *slog.Logger) (*Store, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return &Store{client: client, logger: logger}, nil
}

// Close releases the Redis connection.
func (s *Store) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

func cartKey(userID string) string {
	return "cart:" + userID
}

// Items returns the raw cart contents for the user.
func (s *Store) Items(ctx context.Context, userID string) ([]model.CartItem, error) {
	entries, err := s.client.HGetAll(ctx, cartKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("read cart: %w", err)
	}

	items := make([]model.CartItem, 0, len(entries))
	for productID, raw := range entries {
		quantity, err := strconv.Atoi(raw)
		if err != nil || quantity <= 0 {
			// Corrupt entries are dropped rather than failing the whole cart.
			s.logger.Warn("dropping invalid cart entry",
				slog.String("user", userID), slog.String("product", productID), slog.String("value", raw))
			continue
		}
		items = append(items, model.CartItem{ProductID: productID, Quantity: quantity})
	}
	return items, nil
}

// Add merges quantity into the existing cart entry.
func (s *Store) Add(ctx context.Context, userID, productID string, quantity int) error {
	key := cartKey(userID)
	pipe := s.client.TxPipeline()
	pipe.HIncrBy(ctx, key, productID, int64(quantity))
	pipe.Expire(ctx, key, cartTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("add cart item: %w", err)
	}
	return nil
}

// SetQuantity overwrites the entry; zero removes it.
func (s *Store) SetQuantity(ctx context.Context, userID, productID string, quantity int) error {
	if quantity <= 0 {
		return s.Remove(ctx, userID, productID)
	}
	key := cartKey(userID)
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, productID, quantity)
	pipe.Expire(ctx, key, cartTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("set cart quantity: %w", err)
	}
	return nil
}

// Remove deletes a single product from the cart.
func (s *Store) Remove(ctx context.Context, userID, productID string) error {
	if err := s.client.HDel(ctx, cartKey(userID), productID).Err(); err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}
	return nil
}

// Clear drops the whole cart.
func (s *Store) Clear(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, cartKey(userID)).Err(); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
