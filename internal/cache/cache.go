// Package cache decorates a recipe store with a Redis read cache. Writes
// pass through and invalidate; reads are collapsed with singleflight so a
// hot recipe id causes one store query per expiry, not one per request.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"recipeshare/internal/core/recipe"
	"recipeshare/internal/pkg/common"
	"recipeshare/internal/storage"
)

const listKey = "recipes:all"

func recipeKey(id string) string {
	return "recipe:" + id
}

// Store wraps an inner RecipeStore with caching for the two hot read paths.
type Store struct {
	inner  storage.RecipeStore
	client *redis.Client
	ttl    time.Duration
	group  singleflight.Group
}

// NewStore connects to Redis and wraps inner. Fails if Redis is not
// reachable; callers choose at startup whether to run without the cache.
func NewStore(ctx context.Context, inner storage.RecipeStore, addr string, ttl time.Duration) (*Store, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &Store{inner: inner, client: client, ttl: ttl}, nil
}

func (s *Store) getCached(ctx context.Context, key string, v interface{}) bool {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			common.LogWarn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		common.LogWarn("cache entry corrupt, dropping", zap.String("key", key), zap.Error(err))
		s.client.Del(ctx, key)
		return false
	}
	return true
}

func (s *Store) setCached(ctx context.Context, key string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		common.LogWarn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *Store) invalidate(ctx context.Context, keys ...string) {
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		common.LogWarn("cache invalidation failed", zap.Error(err))
	}
}

// ListRecipes serves the list from cache when possible.
func (s *Store) ListRecipes(ctx context.Context) ([]recipe.WithDetails, error) {
	var cached []recipe.WithDetails
	if s.getCached(ctx, listKey, &cached) {
		return cached, nil
	}

	v, err, _ := s.group.Do(listKey, func() (interface{}, error) {
		out, err := s.inner.ListRecipes(ctx)
		if err != nil {
			return nil, err
		}
		s.setCached(ctx, listKey, out)
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]recipe.WithDetails), nil
}

// SearchRecipes is a pass-through; query cardinality makes caching useless.
func (s *Store) SearchRecipes(ctx context.Context, query string) ([]recipe.Recipe, error) {
	return s.inner.SearchRecipes(ctx, query)
}

// GetRecipe serves single recipes from cache when possible.
func (s *Store) GetRecipe(ctx context.Context, id string) (*recipe.WithDetails, error) {
	key := recipeKey(id)

	var cached recipe.WithDetails
	if s.getCached(ctx, key, &cached) {
		return &cached, nil
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		out, err := s.inner.GetRecipe(ctx, id)
		if err != nil {
			return nil, err
		}
		s.setCached(ctx, key, out)
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*recipe.WithDetails), nil
}

// CreateRecipe passes through and drops the stale list.
func (s *Store) CreateRecipe(ctx context.Context, r *recipe.Recipe) (*recipe.Recipe, error) {
	created, err := s.inner.CreateRecipe(ctx, r)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, listKey)
	return created, nil
}

// UpdateRecipe passes through and drops the affected entries.
func (s *Store) UpdateRecipe(ctx context.Context, id string, updates storage.RecipeUpdate) (*recipe.Recipe, error) {
	updated, err := s.inner.UpdateRecipe(ctx, id, updates)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, recipeKey(id), listKey)
	return updated, nil
}

// DeleteRecipe passes through and drops the affected entries.
func (s *Store) DeleteRecipe(ctx context.Context, id string) error {
	if err := s.inner.DeleteRecipe(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, recipeKey(id), listKey)
	return nil
}

// AddReview passes through; reviews feed the recipe's derived scores, so
// both the recipe and the list go stale.
func (s *Store) AddReview(ctx context.Context, review *recipe.Review) (*recipe.Review, error) {
	created, err := s.inner.AddReview(ctx, review)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, recipeKey(review.RecipeID), listKey)
	return created, nil
}

// AddSwap passes through and drops the recipe entry.
func (s *Store) AddSwap(ctx context.Context, swap *recipe.IngredientSwap) (*recipe.IngredientSwap, error) {
	created, err := s.inner.AddSwap(ctx, swap)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, recipeKey(swap.RecipeID), listKey)
	return created, nil
}

// VoteSwap passes through and drops the owning recipe entry.
func (s *Store) VoteSwap(ctx context.Context, swapID string, successful bool) (*recipe.IngredientSwap, error) {
	updated, err := s.inner.VoteSwap(ctx, swapID, successful)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, recipeKey(updated.RecipeID), listKey)
	return updated, nil
}

// AddVariation passes through and drops the recipe entry.
func (s *Store) AddVariation(ctx context.Context, variation *recipe.RegionalVariation) (*recipe.RegionalVariation, error) {
	created, err := s.inner.AddVariation(ctx, variation)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, recipeKey(variation.RecipeID), listKey)
	return created, nil
}

// GetVariation is a pass-through.
func (s *Store) GetVariation(ctx context.Context, recipeID, region string) (*recipe.RegionalVariation, error) {
	return s.inner.GetVariation(ctx, recipeID, region)
}

// Ping checks both Redis and the inner store.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	return s.inner.Ping(ctx)
}

// Close closes the Redis client and the inner store.
func (s *Store) Close() error {
	if err := s.client.Close(); err != nil {
		s.inner.Close()
		return err
	}
	return s.inner.Close()
}
