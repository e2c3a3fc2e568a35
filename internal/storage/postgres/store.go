// Package postgres implements the recipe store over a Postgres database.
// See schema.sql for the expected tables.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"go.uber.org/zap"

	"recipeshare/internal/core/recipe"
	"recipeshare/internal/pkg/common"
	"recipeshare/internal/storage"
)

// Store wraps a Postgres connection pool.
type Store struct {
	db *sql.DB
}

// NewStore opens the database and verifies the connection.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &Store{db: db}, nil
}

const recipeColumns = `id, created_at, version, title, description, ingredients, instructions,
       prep_time, cook_time, servings, difficulty, cuisine, user_id`

func scanRecipe(row interface{ Scan(...interface{}) error }) (*recipe.Recipe, error) {
	var (
		r            recipe.Recipe
		ingredients  []byte
		instructions []byte
	)
	err := row.Scan(&r.ID, &r.CreatedAt, &r.Version, &r.Title, &r.Description,
		&ingredients, &instructions,
		&r.PrepTime, &r.CookTime, &r.Servings, &r.Difficulty, &r.Cuisine, &r.UserID)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(ingredients, &r.Ingredients); err != nil {
		return nil, fmt.Errorf("failed to decode ingredients: %w", err)
	}
	if err := json.Unmarshal(instructions, &r.Instructions); err != nil {
		return nil, fmt.Errorf("failed to decode instructions: %w", err)
	}
	return &r, nil
}

// ListRecipes returns all recipes with their reviews attached, newest
// first.
func (s *Store) ListRecipes(ctx context.Context) ([]recipe.WithDetails, error) {
	rows, err := s.db.QueryContext(ctx, `select `+recipeColumns+` from recipes order by created_at desc`)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer rows.Close()

	var out []recipe.WithDetails
	index := make(map[string]int)
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		index[r.ID] = len(out)
		out = append(out, recipe.WithDetails{Recipe: *r})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	reviews, err := s.allReviews(ctx)
	if err != nil {
		return nil, err
	}
	for _, rv := range reviews {
		if i, ok := index[rv.RecipeID]; ok {
			out[i].Reviews = append(out[i].Reviews, rv)
		}
	}
	return out, nil
}

func (s *Store) allReviews(ctx context.Context) ([]recipe.Review, error) {
	rows, err := s.db.QueryContext(ctx, `select `+reviewColumns+` from reviews order by created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to load reviews: %w", err)
	}
	defer rows.Close()

	var out []recipe.Review
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rv)
	}
	return out, rows.Err()
}

// SearchRecipes matches the query against title and description.
func (s *Store) SearchRecipes(ctx context.Context, query string) ([]recipe.Recipe, error) {
	rows, err := s.db.QueryContext(ctx,
		`select `+recipeColumns+` from recipes
		 where title ilike '%' || $1 || '%' or description ilike '%' || $1 || '%'
		 order by created_at desc`, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search recipes: %w", err)
	}
	defer rows.Close()

	var out []recipe.Recipe
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

const reviewColumns = `id, created_at, recipe_id, user_id, rating, comment, followed_exact,
       swap_from, swap_to, taste_rating, texture_rating, quantity_accuracy, clarity_rating, photo_url`

func scanReview(row interface{ Scan(...interface{}) error }) (*recipe.Review, error) {
	var rv recipe.Review
	err := row.Scan(&rv.ID, &rv.CreatedAt, &rv.RecipeID, &rv.UserID, &rv.Rating, &rv.Comment,
		&rv.FollowedExact, &rv.SwapFrom, &rv.SwapTo, &rv.TasteRating, &rv.TextureRating,
		&rv.QuantityAccuracy, &rv.ClarityRating, &rv.PhotoURL)
	if err != nil {
		return nil, err
	}
	return &rv, nil
}

// GetRecipe returns one recipe with reviews, swaps and variations.
func (s *Store) GetRecipe(ctx context.Context, id string) (*recipe.WithDetails, error) {
	row := s.db.QueryRowContext(ctx, `select `+recipeColumns+` from recipes where id = $1`, id)
	r, err := scanRecipe(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}

	details := &recipe.WithDetails{Recipe: *r}

	rows, err := s.db.QueryContext(ctx, `select `+reviewColumns+` from reviews where recipe_id = $1 order by created_at`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load reviews: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		details.Reviews = append(details.Reviews, *rv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	swapRows, err := s.db.QueryContext(ctx, `select `+swapColumns+` from ingredient_swaps where recipe_id = $1 order by created_at`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load swaps: %w", err)
	}
	defer swapRows.Close()
	for swapRows.Next() {
		sw, err := scanSwap(swapRows)
		if err != nil {
			return nil, err
		}
		details.IngredientSwaps = append(details.IngredientSwaps, *sw)
	}
	if err := swapRows.Err(); err != nil {
		return nil, err
	}

	varRows, err := s.db.QueryContext(ctx, `select `+variationColumns+` from regional_variations where recipe_id = $1 order by created_at`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load variations: %w", err)
	}
	defer varRows.Close()
	for varRows.Next() {
		v, err := scanVariation(varRows)
		if err != nil {
			return nil, err
		}
		details.RegionalVariations = append(details.RegionalVariations, *v)
	}
	return details, varRows.Err()
}

// CreateRecipe inserts a recipe. Derived counters are not stored; they are
// recomputed from reviews on read.
func (s *Store) CreateRecipe(ctx context.Context, r *recipe.Recipe) (*recipe.Recipe, error) {
	ingredients, err := json.Marshal(r.Ingredients)
	if err != nil {
		return nil, fmt.Errorf("failed to encode ingredients: %w", err)
	}
	instructions, err := json.Marshal(r.Instructions)
	if err != nil {
		return nil, fmt.Errorf("failed to encode instructions: %w", err)
	}

	id := common.GenerateUUID()
	row := s.db.QueryRowContext(ctx, `
insert into recipes (id, version, title, description, ingredients, instructions,
                     prep_time, cook_time, servings, difficulty, cuisine, user_id)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
returning `+recipeColumns,
		id, r.Version, r.Title, r.Description, ingredients, instructions,
		r.PrepTime, r.CookTime, r.Servings, r.Difficulty, r.Cuisine, r.UserID)

	created, err := scanRecipe(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}
	return created, nil
}

// UpdateRecipe applies the non-nil fields of updates.
func (s *Store) UpdateRecipe(ctx context.Context, id string, updates storage.RecipeUpdate) (*recipe.Recipe, error) {
	set := make([]string, 0, 10)
	args := make([]interface{}, 0, 11)
	add := func(column string, value interface{}) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if updates.Version != nil {
		add("version", *updates.Version)
	}
	if updates.Title != nil {
		add("title", *updates.Title)
	}
	if updates.Description != nil {
		add("description", *updates.Description)
	}
	if updates.Ingredients != nil {
		encoded, err := json.Marshal(*updates.Ingredients)
		if err != nil {
			return nil, fmt.Errorf("failed to encode ingredients: %w", err)
		}
		add("ingredients", encoded)
	}
	if updates.Instructions != nil {
		encoded, err := json.Marshal(*updates.Instructions)
		if err != nil {
			return nil, fmt.Errorf("failed to encode instructions: %w", err)
		}
		add("instructions", encoded)
	}
	if updates.PrepTime != nil {
		add("prep_time", *updates.PrepTime)
	}
	if updates.CookTime != nil {
		add("cook_time", *updates.CookTime)
	}
	if updates.Servings != nil {
		add("servings", *updates.Servings)
	}
	if updates.Difficulty != nil {
		add("difficulty", *updates.Difficulty)
	}
	if updates.Cuisine != nil {
		add("cuisine", *updates.Cuisine)
	}

	if len(set) == 0 {
		// Nothing to change; reuse the read path.
		details, err := s.GetRecipe(ctx, id)
		if err != nil {
			return nil, err
		}
		return &details.Recipe, nil
	}

	args = append(args, id)
	query := fmt.Sprintf("update recipes set %s where id = $%d returning %s",
		joinSet(set), len(args), recipeColumns)

	updated, err := scanRecipe(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}
	return updated, nil
}

func joinSet(set []string) string {
	out := set[0]
	for _, s := range set[1:] {
		out += ", " + s
	}
	return out
}

// DeleteRecipe removes a recipe; owned rows go with it via ON DELETE
// CASCADE.
func (s *Store) DeleteRecipe(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from recipes where id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// AddReview inserts a review for an existing recipe.
func (s *Store) AddReview(ctx context.Context, review *recipe.Review) (*recipe.Review, error) {
	row := s.db.QueryRowContext(ctx, `
insert into reviews (id, recipe_id, user_id, rating, comment, followed_exact,
                     swap_from, swap_to, taste_rating, texture_rating,
                     quantity_accuracy, clarity_rating, photo_url)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
returning `+reviewColumns,
		common.GenerateUUID(), review.RecipeID, review.UserID, review.Rating, review.Comment,
		review.FollowedExact, review.SwapFrom, review.SwapTo, review.TasteRating,
		review.TextureRating, review.QuantityAccuracy, review.ClarityRating, review.PhotoURL)

	created, err := scanReview(row)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to add review: %w", err)
	}
	return created, nil
}

const swapColumns = `id, created_at, recipe_id, original_ingredient, alternative_ingredient,
       success_rate, votes_count`

func scanSwap(row interface{ Scan(...interface{}) error }) (*recipe.IngredientSwap, error) {
	var sw recipe.IngredientSwap
	err := row.Scan(&sw.ID, &sw.CreatedAt, &sw.RecipeID, &sw.OriginalIngredient,
		&sw.AlternativeIngredient, &sw.SuccessRate, &sw.VotesCount)
	if err != nil {
		return nil, err
	}
	return &sw, nil
}

// AddSwap inserts a swap with success_rate and votes_count zeroed.
func (s *Store) AddSwap(ctx context.Context, swap *recipe.IngredientSwap) (*recipe.IngredientSwap, error) {
	row := s.db.QueryRowContext(ctx, `
insert into ingredient_swaps (id, recipe_id, original_ingredient, alternative_ingredient, success_rate, votes_count)
values ($1, $2, $3, $4, 0, 0)
returning `+swapColumns,
		common.GenerateUUID(), swap.RecipeID, swap.OriginalIngredient, swap.AlternativeIngredient)

	created, err := scanSwap(row)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to add swap: %w", err)
	}
	return created, nil
}

// VoteSwap folds one vote into the swap in a single UPDATE, so success_rate
// and votes_count change together and concurrent votes serialize on the row
// lock instead of racing through a read-then-write from here.
func (s *Store) VoteSwap(ctx context.Context, swapID string, successful bool) (*recipe.IngredientSwap, error) {
	contribution := 0.0
	if successful {
		contribution = 100.0
	}

	row := s.db.QueryRowContext(ctx, `
update ingredient_swaps
set success_rate = (success_rate * votes_count + $2) / (votes_count + 1),
    votes_count = votes_count + 1
where id = $1
returning `+swapColumns, swapID, contribution)

	updated, err := scanSwap(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to vote on swap: %w", err)
	}

	common.LogDebug("swap vote applied",
		zap.String("swap_id", swapID),
		zap.Bool("successful", successful),
		zap.Float64("success_rate", updated.SuccessRate),
		zap.Int("votes_count", updated.VotesCount),
	)
	return updated, nil
}

const variationColumns = `id, created_at, recipe_id, region, modifications, popularity`

func scanVariation(row interface{ Scan(...interface{}) error }) (*recipe.RegionalVariation, error) {
	var (
		v             recipe.RegionalVariation
		modifications []byte
	)
	err := row.Scan(&v.ID, &v.CreatedAt, &v.RecipeID, &v.Region, &modifications, &v.Popularity)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(modifications, &v.Modifications); err != nil {
		return nil, fmt.Errorf("failed to decode modifications: %w", err)
	}
	return &v, nil
}

// AddVariation inserts a regional variation with popularity zeroed.
func (s *Store) AddVariation(ctx context.Context, variation *recipe.RegionalVariation) (*recipe.RegionalVariation, error) {
	modifications, err := json.Marshal(variation.Modifications)
	if err != nil {
		return nil, fmt.Errorf("failed to encode modifications: %w", err)
	}

	row := s.db.QueryRowContext(ctx, `
insert into regional_variations (id, recipe_id, region, modifications, popularity)
values ($1, $2, $3, $4, 0)
returning `+variationColumns,
		common.GenerateUUID(), variation.RecipeID, variation.Region, modifications)

	created, err := scanVariation(row)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to add variation: %w", err)
	}
	return created, nil
}

// GetVariation returns the variation recorded for a recipe and region.
func (s *Store) GetVariation(ctx context.Context, recipeID, region string) (*recipe.RegionalVariation, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+variationColumns+` from regional_variations
		 where recipe_id = $1 and lower(region) = lower($2)
		 order by created_at limit 1`, recipeID, region)

	v, err := scanVariation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get variation: %w", err)
	}
	return v, nil
}

// Ping verifies the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// isForeignKeyViolation detects a missing parent recipe on insert
// (SQLSTATE 23503).
func isForeignKeyViolation(err error) bool {
	type sqlState interface{ SQLState() string }
	var state sqlState
	if errors.As(err, &state) {
		return state.SQLState() == "23503"
	}
	return false
}
