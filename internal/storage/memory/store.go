// Package memory implements the recipe store over in-process maps, seeded
// with fixtures. It backs development without a database and the handler
// tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"recipeshare/internal/core/quality"
	"recipeshare/internal/core/recipe"
	"recipeshare/internal/pkg/common"
	"recipeshare/internal/storage"
)

// Store keeps all rows in maps guarded by one mutex. Mutations take the
// write lock, so the vote read-modify-write is serialized per store, which
// subsumes the required per-swap serialization.
type Store struct {
	mu         sync.RWMutex
	recipes    map[string]*recipe.Recipe
	reviews    map[string][]recipe.Review            // recipe id -> reviews
	swaps      map[string]*recipe.IngredientSwap     // swap id -> swap
	variations map[string][]recipe.RegionalVariation // recipe id -> variations
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		recipes:    make(map[string]*recipe.Recipe),
		reviews:    make(map[string][]recipe.Review),
		swaps:      make(map[string]*recipe.IngredientSwap),
		variations: make(map[string][]recipe.RegionalVariation),
	}
}

// NewStoreWithFixtures creates a store seeded with the development
// fixtures.
func NewStoreWithFixtures() *Store {
	s := NewStore()
	for i := range fixtureRecipes {
		r := fixtureRecipes[i]
		s.recipes[r.ID] = &r
	}
	for _, rv := range fixtureReviews {
		s.reviews[rv.RecipeID] = append(s.reviews[rv.RecipeID], rv)
	}
	for i := range fixtureSwaps {
		sw := fixtureSwaps[i]
		s.swaps[sw.ID] = &sw
	}
	for _, v := range fixtureVariations {
		s.variations[v.RecipeID] = append(s.variations[v.RecipeID], v)
	}
	return s
}

// ListRecipes returns all recipes with reviews attached, newest first.
func (s *Store) ListRecipes(ctx context.Context) ([]recipe.WithDetails, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]recipe.WithDetails, 0, len(s.recipes))
	for id, r := range s.recipes {
		out = append(out, recipe.WithDetails{
			Recipe:  *r,
			Reviews: append([]recipe.Review(nil), s.reviews[id]...),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// SearchRecipes matches the query against title and description,
// case-insensitive.
func (s *Store) SearchRecipes(ctx context.Context, query string) ([]recipe.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(query)
	out := make([]recipe.Recipe, 0)
	for _, r := range s.recipes {
		if strings.Contains(strings.ToLower(r.Title), q) ||
			strings.Contains(strings.ToLower(r.Description), q) {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Rating > out[j].Rating
	})
	return out, nil
}

// GetRecipe returns one recipe with all owned collections.
func (s *Store) GetRecipe(ctx context.Context, id string) (*recipe.WithDetails, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.recipes[id]
	if !ok {
		return nil, storage.ErrNotFound
	}

	details := &recipe.WithDetails{
		Recipe:             *r,
		Reviews:            append([]recipe.Review(nil), s.reviews[id]...),
		RegionalVariations: append([]recipe.RegionalVariation(nil), s.variations[id]...),
	}
	for _, sw := range s.swaps {
		if sw.RecipeID == id {
			details.IngredientSwaps = append(details.IngredientSwaps, *sw)
		}
	}
	sort.Slice(details.IngredientSwaps, func(i, j int) bool {
		return details.IngredientSwaps[i].CreatedAt.Before(details.IngredientSwaps[j].CreatedAt)
	})
	return details, nil
}

// CreateRecipe inserts a recipe with derived counters zeroed.
func (s *Store) CreateRecipe(ctx context.Context, r *recipe.Recipe) (*recipe.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *r
	stored.ID = common.GenerateUUID()
	stored.CreatedAt = time.Now().UTC()
	stored.Rating = 0
	stored.ReviewsCount = 0
	stored.ConfidenceScore = 0
	s.recipes[stored.ID] = &stored

	result := stored
	return &result, nil
}

// UpdateRecipe applies the non-nil fields of updates.
func (s *Store) UpdateRecipe(ctx context.Context, id string, updates storage.RecipeUpdate) (*recipe.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.recipes[id]
	if !ok {
		return nil, storage.ErrNotFound
	}

	if updates.Version != nil {
		r.Version = *updates.Version
	}
	if updates.Title != nil {
		r.Title = *updates.Title
	}
	if updates.Description != nil {
		r.Description = *updates.Description
	}
	if updates.Ingredients != nil {
		r.Ingredients = *updates.Ingredients
	}
	if updates.Instructions != nil {
		r.Instructions = *updates.Instructions
	}
	if updates.PrepTime != nil {
		r.PrepTime = *updates.PrepTime
	}
	if updates.CookTime != nil {
		r.CookTime = *updates.CookTime
	}
	if updates.Servings != nil {
		r.Servings = *updates.Servings
	}
	if updates.Difficulty != nil {
		r.Difficulty = *updates.Difficulty
	}
	if updates.Cuisine != nil {
		r.Cuisine = *updates.Cuisine
	}

	result := *r
	return &result, nil
}

// DeleteRecipe removes a recipe and its owned collections.
func (s *Store) DeleteRecipe(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recipes[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.recipes, id)
	delete(s.reviews, id)
	delete(s.variations, id)
	for swapID, sw := range s.swaps {
		if sw.RecipeID == id {
			delete(s.swaps, swapID)
		}
	}
	return nil
}

// AddReview appends a review to its recipe.
func (s *Store) AddReview(ctx context.Context, review *recipe.Review) (*recipe.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recipes[review.RecipeID]; !ok {
		return nil, storage.ErrNotFound
	}

	stored := *review
	stored.ID = common.GenerateUUID()
	stored.CreatedAt = time.Now().UTC()
	s.reviews[stored.RecipeID] = append(s.reviews[stored.RecipeID], stored)

	result := stored
	return &result, nil
}

// AddSwap inserts a swap with success_rate and votes_count zeroed.
func (s *Store) AddSwap(ctx context.Context, swap *recipe.IngredientSwap) (*recipe.IngredientSwap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recipes[swap.RecipeID]; !ok {
		return nil, storage.ErrNotFound
	}

	stored := *swap
	stored.ID = common.GenerateUUID()
	stored.CreatedAt = time.Now().UTC()
	stored.SuccessRate = 0
	stored.VotesCount = 0
	s.swaps[stored.ID] = &stored

	result := stored
	return &result, nil
}

// VoteSwap folds one vote into the swap under the write lock, so concurrent
// votes on the same id apply one at a time and none is lost.
func (s *Store) VoteSwap(ctx context.Context, swapID string, successful bool) (*recipe.IngredientSwap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sw, ok := s.swaps[swapID]
	if !ok {
		return nil, storage.ErrNotFound
	}

	sw.SuccessRate, sw.VotesCount = quality.ApplyVote(sw.SuccessRate, sw.VotesCount, successful)

	result := *sw
	return &result, nil
}

// AddVariation inserts a regional variation with popularity zeroed.
func (s *Store) AddVariation(ctx context.Context, variation *recipe.RegionalVariation) (*recipe.RegionalVariation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recipes[variation.RecipeID]; !ok {
		return nil, storage.ErrNotFound
	}

	stored := *variation
	stored.ID = common.GenerateUUID()
	stored.CreatedAt = time.Now().UTC()
	stored.Popularity = 0
	s.variations[stored.RecipeID] = append(s.variations[stored.RecipeID], stored)

	result := stored
	return &result, nil
}

// GetVariation returns the variation recorded for a recipe and region.
// Region matching is case-insensitive.
func (s *Store) GetVariation(ctx context.Context, recipeID, region string) (*recipe.RegionalVariation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, v := range s.variations[recipeID] {
		if strings.EqualFold(v.Region, region) {
			result := v
			return &result, nil
		}
	}
	return nil, storage.ErrNotFound
}

// Ping always succeeds for the in-process store.
func (s *Store) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}
