// Package supabase implements the recipe store over the Supabase REST
// (PostgREST) API. Votes go through the vote_ingredient_swap RPC defined in
// the schema so the read-modify-write never leaves the database.
package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"recipeshare/internal/core/recipe"
	"recipeshare/internal/pkg/common"
	"recipeshare/internal/storage"
)

// Store talks to the Supabase REST endpoint of one project.
type Store struct {
	client *resty.Client
}

// NewStore creates a store for the given project URL and service key. The
// key is a secret-managed credential, never an anonymous one.
func NewStore(baseURL, serviceKey string, timeout time.Duration) *Store {
	client := resty.New().
		SetBaseURL(baseURL+"/rest/v1").
		SetTimeout(timeout).
		SetHeader("apikey", serviceKey).
		SetHeader("Authorization", "Bearer "+serviceKey).
		SetHeader("Content-Type", "application/json")

	return &Store{client: client}
}

// pgrstError is the PostgREST error body.
type pgrstError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func restErr(op string, resp *resty.Response) error {
	var perr pgrstError
	_ = json.Unmarshal(resp.Body(), &perr)

	// 23503: insert referenced a recipe that does not exist.
	if perr.Code == "23503" {
		return storage.ErrNotFound
	}
	if resp.StatusCode() == http.StatusNotFound || resp.StatusCode() == http.StatusNotAcceptable {
		return storage.ErrNotFound
	}

	common.LogError("supabase request failed",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode()),
		zap.String("code", perr.Code),
		zap.String("message", perr.Message),
	)
	return fmt.Errorf("%s: supabase returned status %d", op, resp.StatusCode())
}

// ListRecipes returns all recipes with reviews embedded, newest first.
func (s *Store) ListRecipes(ctx context.Context) ([]recipe.WithDetails, error) {
	var out []recipe.WithDetails
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("select", "*,reviews(*)").
		SetQueryParam("order", "created_at.desc").
		SetResult(&out).
		Get("/recipes")
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	if resp.IsError() {
		return nil, restErr("list recipes", resp)
	}
	return out, nil
}

// SearchRecipes matches the query against title and description.
func (s *Store) SearchRecipes(ctx context.Context, query string) ([]recipe.Recipe, error) {
	var out []recipe.Recipe
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("or", fmt.Sprintf("(title.ilike.*%s*,description.ilike.*%s*)", query, query)).
		SetQueryParam("order", "created_at.desc").
		SetResult(&out).
		Get("/recipes")
	if err != nil {
		return nil, fmt.Errorf("failed to search recipes: %w", err)
	}
	if resp.IsError() {
		return nil, restErr("search recipes", resp)
	}
	return out, nil
}

// GetRecipe returns one recipe with reviews, swaps and variations embedded.
func (s *Store) GetRecipe(ctx context.Context, id string) (*recipe.WithDetails, error) {
	var out recipe.WithDetails
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/vnd.pgrst.object+json").
		SetQueryParam("select", "*,reviews(*),ingredient_swaps(*),regional_variations(*)").
		SetQueryParam("id", "eq."+id).
		SetResult(&out).
		Get("/recipes")
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	if resp.IsError() {
		return nil, restErr("get recipe", resp)
	}
	return &out, nil
}

// CreateRecipe inserts a recipe row.
func (s *Store) CreateRecipe(ctx context.Context, r *recipe.Recipe) (*recipe.Recipe, error) {
	body := map[string]interface{}{
		"id":           common.GenerateUUID(),
		"version":      r.Version,
		"title":        r.Title,
		"description":  r.Description,
		"ingredients":  r.Ingredients,
		"instructions": r.Instructions,
		"prep_time":    r.PrepTime,
		"cook_time":    r.CookTime,
		"servings":     r.Servings,
		"difficulty":   r.Difficulty,
		"cuisine":      r.Cuisine,
		"user_id":      r.UserID,
	}

	var out recipe.Recipe
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/vnd.pgrst.object+json").
		SetHeader("Prefer", "return=representation").
		SetBody(body).
		SetResult(&out).
		Post("/recipes")
	if err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}
	if resp.IsError() {
		return nil, restErr("create recipe", resp)
	}
	return &out, nil
}

// UpdateRecipe patches the non-nil fields of updates.
func (s *Store) UpdateRecipe(ctx context.Context, id string, updates storage.RecipeUpdate) (*recipe.Recipe, error) {
	body := map[string]interface{}{}
	if updates.Version != nil {
		body["version"] = *updates.Version
	}
	if updates.Title != nil {
		body["title"] = *updates.Title
	}
	if updates.Description != nil {
		body["description"] = *updates.Description
	}
	if updates.Ingredients != nil {
		body["ingredients"] = *updates.Ingredients
	}
	if updates.Instructions != nil {
		body["instructions"] = *updates.Instructions
	}
	if updates.PrepTime != nil {
		body["prep_time"] = *updates.PrepTime
	}
	if updates.CookTime != nil {
		body["cook_time"] = *updates.CookTime
	}
	if updates.Servings != nil {
		body["servings"] = *updates.Servings
	}
	if updates.Difficulty != nil {
		body["difficulty"] = *updates.Difficulty
	}
	if updates.Cuisine != nil {
		body["cuisine"] = *updates.Cuisine
	}

	if len(body) == 0 {
		details, err := s.GetRecipe(ctx, id)
		if err != nil {
			return nil, err
		}
		return &details.Recipe, nil
	}

	var out []recipe.Recipe
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Prefer", "return=representation").
		SetQueryParam("id", "eq."+id).
		SetBody(body).
		SetResult(&out).
		Patch("/recipes")
	if err != nil {
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}
	if resp.IsError() {
		return nil, restErr("update recipe", resp)
	}
	if len(out) == 0 {
		return nil, storage.ErrNotFound
	}
	return &out[0], nil
}

// DeleteRecipe removes a recipe row.
func (s *Store) DeleteRecipe(ctx context.Context, id string) error {
	var out []recipe.Recipe
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Prefer", "return=representation").
		SetQueryParam("id", "eq."+id).
		SetResult(&out).
		Delete("/recipes")
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	if resp.IsError() {
		return restErr("delete recipe", resp)
	}
	if len(out) == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// AddReview inserts a review row.
func (s *Store) AddReview(ctx context.Context, review *recipe.Review) (*recipe.Review, error) {
	body := map[string]interface{}{
		"id":                common.GenerateUUID(),
		"recipe_id":         review.RecipeID,
		"user_id":           review.UserID,
		"rating":            review.Rating,
		"comment":           review.Comment,
		"followed_exact":    review.FollowedExact,
		"swap_from":         review.SwapFrom,
		"swap_to":           review.SwapTo,
		"taste_rating":      review.TasteRating,
		"texture_rating":    review.TextureRating,
		"quantity_accuracy": review.QuantityAccuracy,
		"clarity_rating":    review.ClarityRating,
		"photo_url":         review.PhotoURL,
	}

	var out recipe.Review
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/vnd.pgrst.object+json").
		SetHeader("Prefer", "return=representation").
		SetBody(body).
		SetResult(&out).
		Post("/reviews")
	if err != nil {
		return nil, fmt.Errorf("failed to add review: %w", err)
	}
	if resp.IsError() {
		return nil, restErr("add review", resp)
	}
	return &out, nil
}

// AddSwap inserts a swap row with success_rate and votes_count zeroed.
func (s *Store) AddSwap(ctx context.Context, swap *recipe.IngredientSwap) (*recipe.IngredientSwap, error) {
	body := map[string]interface{}{
		"id":                     common.GenerateUUID(),
		"recipe_id":              swap.RecipeID,
		"original_ingredient":    swap.OriginalIngredient,
		"alternative_ingredient": swap.AlternativeIngredient,
		"success_rate":           0,
		"votes_count":            0,
	}

	var out recipe.IngredientSwap
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/vnd.pgrst.object+json").
		SetHeader("Prefer", "return=representation").
		SetBody(body).
		SetResult(&out).
		Post("/ingredient_swaps")
	if err != nil {
		return nil, fmt.Errorf("failed to add swap: %w", err)
	}
	if resp.IsError() {
		return nil, restErr("add swap", resp)
	}
	return &out, nil
}

// VoteSwap calls the vote_ingredient_swap RPC; the whole update runs as one
// statement inside the database.
func (s *Store) VoteSwap(ctx context.Context, swapID string, successful bool) (*recipe.IngredientSwap, error) {
	var out recipe.IngredientSwap
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"swap_id":    swapID,
			"successful": successful,
		}).
		SetResult(&out).
		Post("/rpc/vote_ingredient_swap")
	if err != nil {
		return nil, fmt.Errorf("failed to vote on swap: %w", err)
	}
	if resp.IsError() {
		return nil, restErr("vote swap", resp)
	}
	// The function returns an all-null row when no swap matched.
	if out.ID == "" {
		return nil, storage.ErrNotFound
	}
	return &out, nil
}

// AddVariation inserts a variation row with popularity zeroed.
func (s *Store) AddVariation(ctx context.Context, variation *recipe.RegionalVariation) (*recipe.RegionalVariation, error) {
	body := map[string]interface{}{
		"id":            common.GenerateUUID(),
		"recipe_id":     variation.RecipeID,
		"region":        variation.Region,
		"modifications": variation.Modifications,
		"popularity":    0,
	}

	var out recipe.RegionalVariation
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/vnd.pgrst.object+json").
		SetHeader("Prefer", "return=representation").
		SetBody(body).
		SetResult(&out).
		Post("/regional_variations")
	if err != nil {
		return nil, fmt.Errorf("failed to add variation: %w", err)
	}
	if resp.IsError() {
		return nil, restErr("add variation", resp)
	}
	return &out, nil
}

// GetVariation returns the variation recorded for a recipe and region.
func (s *Store) GetVariation(ctx context.Context, recipeID, region string) (*recipe.RegionalVariation, error) {
	var out recipe.RegionalVariation
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/vnd.pgrst.object+json").
		SetQueryParam("recipe_id", "eq."+recipeID).
		SetQueryParam("region", "ilike."+region).
		SetResult(&out).
		Get("/regional_variations")
	if err != nil {
		return nil, fmt.Errorf("failed to get variation: %w", err)
	}
	if resp.IsError() {
		return nil, restErr("get variation", resp)
	}
	return &out, nil
}

// Ping issues a minimal request to verify reachability and credentials.
func (s *Store) Ping(ctx context.Context) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("select", "id").
		SetQueryParam("limit", "1").
		Get("/recipes")
	if err != nil {
		return fmt.Errorf("failed to reach supabase: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("supabase returned status %d", resp.StatusCode())
	}
	return nil
}

// Close is a no-op; resty pools connections internally.
func (s *Store) Close() error {
	return nil
}
