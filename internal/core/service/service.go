// Package service implements the recipe operations behind the HTTP
// handlers: repository access, derived quality metrics and error
// translation.
package service

import (
	"context"
	"errors"
	"math"

	"go.uber.org/zap"

	"recipeshare/internal/core/quality"
	"recipeshare/internal/core/recipe"
	"recipeshare/internal/pkg/common"
	"recipeshare/internal/storage"
)

// Service exposes the recipe domain over a pluggable store.
type Service struct {
	store storage.RecipeStore
}

// NewService creates a service on top of the given store.
func NewService(store storage.RecipeStore) *Service {
	return &Service{store: store}
}

// decorate fills the derived fields of a recipe from its reviews. Rating,
// reviews_count and confidence_score are recomputed on demand, never
// trusted from storage.
func decorate(d *recipe.WithDetails) {
	d.ReviewsCount = len(d.Reviews)
	d.ConfidenceScore = quality.ConfidenceScore(d.Reviews)

	if len(d.Reviews) == 0 {
		d.Rating = 0
		return
	}
	var sum int
	for _, rv := range d.Reviews {
		sum += rv.Rating
	}
	avg := float64(sum) / float64(len(d.Reviews))
	d.Rating = math.Round(avg*10) / 10
}

// translate maps store errors to the API error taxonomy. Store internals
// are logged, never surfaced.
func translate(err error, notFound *common.CustomError) error {
	if errors.Is(err, storage.ErrNotFound) {
		return notFound
	}
	common.LogError("store operation failed", zap.Error(err))
	return common.ErrInternalError
}

// ListRecipes returns all recipes, newest first, with derived scores set.
func (s *Service) ListRecipes(ctx context.Context) ([]recipe.WithDetails, error) {
	out, err := s.store.ListRecipes(ctx)
	if err != nil {
		return nil, translate(err, common.ErrNotFound)
	}
	for i := range out {
		decorate(&out[i])
	}
	return out, nil
}

// SearchRecipes matches a free-text query against title and description.
func (s *Service) SearchRecipes(ctx context.Context, query string) ([]recipe.Recipe, error) {
	out, err := s.store.SearchRecipes(ctx, query)
	if err != nil {
		return nil, translate(err, common.ErrNotFound)
	}
	return out, nil
}

// GetRecipe returns one recipe with its collections and derived scores.
func (s *Service) GetRecipe(ctx context.Context, id string) (*recipe.WithDetails, error) {
	details, err := s.store.GetRecipe(ctx, id)
	if err != nil {
		return nil, translate(err, common.ErrRecipeNotFound)
	}
	decorate(details)
	return details, nil
}

// CreateRecipe stores a new recipe. Derived counters start at zero
// regardless of what the client sent.
func (s *Service) CreateRecipe(ctx context.Context, r *recipe.Recipe) (*recipe.Recipe, error) {
	created, err := s.store.CreateRecipe(ctx, r)
	if err != nil {
		return nil, translate(err, common.ErrRecipeNotFound)
	}
	common.LogInfo("recipe created",
		zap.String("recipe_id", created.ID),
		zap.String("title", created.Title),
	)
	return created, nil
}

// UpdateRecipe applies a partial update.
func (s *Service) UpdateRecipe(ctx context.Context, id string, updates storage.RecipeUpdate) (*recipe.Recipe, error) {
	updated, err := s.store.UpdateRecipe(ctx, id, updates)
	if err != nil {
		return nil, translate(err, common.ErrRecipeNotFound)
	}
	return updated, nil
}

// DeleteRecipe removes a recipe and its owned collections.
func (s *Service) DeleteRecipe(ctx context.Context, id string) error {
	if err := s.store.DeleteRecipe(ctx, id); err != nil {
		return translate(err, common.ErrRecipeNotFound)
	}
	common.LogInfo("recipe deleted", zap.String("recipe_id", id))
	return nil
}

// AddReview attaches a review to a recipe.
func (s *Service) AddReview(ctx context.Context, review *recipe.Review) (*recipe.Review, error) {
	created, err := s.store.AddReview(ctx, review)
	if err != nil {
		return nil, translate(err, common.ErrRecipeNotFound)
	}
	return created, nil
}

// AddSwap records a new ingredient substitution for a recipe.
func (s *Service) AddSwap(ctx context.Context, swap *recipe.IngredientSwap) (*recipe.IngredientSwap, error) {
	created, err := s.store.AddSwap(ctx, swap)
	if err != nil {
		return nil, translate(err, common.ErrRecipeNotFound)
	}
	return created, nil
}

// VoteSwap folds one community vote into a swap's success rate. The store
// serializes the update per swap id.
func (s *Service) VoteSwap(ctx context.Context, swapID string, successful bool) (*recipe.IngredientSwap, error) {
	updated, err := s.store.VoteSwap(ctx, swapID, successful)
	if err != nil {
		return nil, translate(err, common.ErrSwapNotFound)
	}
	return updated, nil
}

// AddVariation records a regional variation for a recipe.
func (s *Service) AddVariation(ctx context.Context, variation *recipe.RegionalVariation) (*recipe.RegionalVariation, error) {
	created, err := s.store.AddVariation(ctx, variation)
	if err != nil {
		return nil, translate(err, common.ErrRecipeNotFound)
	}
	return created, nil
}

// GetVariation returns the variation recorded for a recipe and region.
func (s *Service) GetVariation(ctx context.Context, recipeID, region string) (*recipe.RegionalVariation, error) {
	v, err := s.store.GetVariation(ctx, recipeID, region)
	if err != nil {
		return nil, translate(err, common.ErrVariationNotFound)
	}
	return v, nil
}

// Ping reports store health for the readiness probe.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
