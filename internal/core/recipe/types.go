// Package recipe defines the domain model shared by handlers, services and
// stores. JSON field names mirror the database column names.
package recipe

import "time"

// Difficulty levels accepted on a recipe.
const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
)

// Ingredient is one structured ingredient of a stored recipe.
type Ingredient struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// Recipe is a stored recipe row.
type Recipe struct {
	ID              string       `json:"id"`
	CreatedAt       time.Time    `json:"created_at"`
	Version         string       `json:"version"`
	Title           string       `json:"title"`
	Description     string       `json:"description"`
	Ingredients     []Ingredient `json:"ingredients"`
	Instructions    []string     `json:"instructions"`
	PrepTime        int          `json:"prep_time"`
	CookTime        int          `json:"cook_time"`
	Servings        int          `json:"servings"`
	Difficulty      string       `json:"difficulty"`
	Cuisine         string       `json:"cuisine"`
	UserID          string       `json:"user_id"`
	Rating          float64      `json:"rating"`
	ReviewsCount    int          `json:"reviews_count"`
	ConfidenceScore int          `json:"confidence_score"`
}

// WithDetails is a recipe together with its owned collections.
type WithDetails struct {
	Recipe
	Reviews            []Review            `json:"reviews"`
	IngredientSwaps    []IngredientSwap    `json:"ingredient_swaps"`
	RegionalVariations []RegionalVariation `json:"regional_variations"`
}

// Review is one cook's feedback on a recipe. Optional ratings are pointers:
// absent means unset, which the confidence score treats differently from
// zero.
type Review struct {
	ID               string    `json:"id"`
	CreatedAt        time.Time `json:"created_at"`
	RecipeID         string    `json:"recipe_id"`
	UserID           string    `json:"user_id"`
	Rating           int       `json:"rating"`
	Comment          string    `json:"comment"`
	FollowedExact    *bool     `json:"followed_exact,omitempty"`
	SwapFrom         *string   `json:"swap_from,omitempty"`
	SwapTo           *string   `json:"swap_to,omitempty"`
	TasteRating      *int      `json:"taste_rating,omitempty"`
	TextureRating    *int      `json:"texture_rating,omitempty"`
	QuantityAccuracy *int      `json:"quantity_accuracy,omitempty"`
	ClarityRating    *int      `json:"clarity_rating,omitempty"`
	PhotoURL         *string   `json:"photo_url,omitempty"`
}

// IngredientSwap records a community substitution with its voted success
// rate. SuccessRate and VotesCount only change together, through the vote
// operation.
type IngredientSwap struct {
	ID                    string    `json:"id"`
	CreatedAt             time.Time `json:"created_at"`
	RecipeID              string    `json:"recipe_id"`
	OriginalIngredient    string    `json:"original_ingredient"`
	AlternativeIngredient string    `json:"alternative_ingredient"`
	SuccessRate           float64   `json:"success_rate"`
	VotesCount            int       `json:"votes_count"`
}

// RegionalVariation is a recorded regional modification set for a recipe.
type RegionalVariation struct {
	ID            string    `json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	RecipeID      string    `json:"recipe_id"`
	Region        string    `json:"region"`
	Modifications []string  `json:"modifications"`
	Popularity    int       `json:"popularity"`
}
