// Package storage defines the recipe store contract implemented by the
// memory, postgres and supabase backends. The backend is selected once at
// startup, never branched per call.
package storage

import (
	"context"
	"errors"

	"recipeshare/internal/core/recipe"
)

// ErrNotFound is returned when a referenced row does not exist. Backends
// translate their own miss conditions to this sentinel.
var ErrNotFound = errors.New("storage: not found")

// RecipeUpdate is a partial update. Nil fields stay untouched.
type RecipeUpdate struct {
	Version      *string
	Title        *string
	Description  *string
	Ingredients  *[]recipe.Ingredient
	Instructions *[]string
	PrepTime     *int
	CookTime     *int
	Servings     *int
	Difficulty   *string
	Cuisine      *string
}

// RecipeStore is the persistence contract for recipes and their owned
// collections.
//
// VoteSwap must apply the read-modify-write of (success_rate, votes_count)
// atomically per swap id: concurrent votes on the same swap may not lose
// updates.
type RecipeStore interface {
	ListRecipes(ctx context.Context) ([]recipe.WithDetails, error)
	SearchRecipes(ctx context.Context, query string) ([]recipe.Recipe, error)
	GetRecipe(ctx context.Context, id string) (*recipe.WithDetails, error)
	CreateRecipe(ctx context.Context, r *recipe.Recipe) (*recipe.Recipe, error)
	UpdateRecipe(ctx context.Context, id string, updates RecipeUpdate) (*recipe.Recipe, error)
	DeleteRecipe(ctx context.Context, id string) error

	AddReview(ctx context.Context, review *recipe.Review) (*recipe.Review, error)
	AddSwap(ctx context.Context, swap *recipe.IngredientSwap) (*recipe.IngredientSwap, error)
	VoteSwap(ctx context.Context, swapID string, successful bool) (*recipe.IngredientSwap, error)
	AddVariation(ctx context.Context, variation *recipe.RegionalVariation) (*recipe.RegionalVariation, error)
	GetVariation(ctx context.Context, recipeID, region string) (*recipe.RegionalVariation, error)

	Ping(ctx context.Context) error
	Close() error
}
