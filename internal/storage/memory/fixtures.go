package memory

import (
	"time"

	"recipeshare/internal/core/recipe"
)

func boolPtr(b bool) *bool    { return &b }
func intPtr(i int) *int       { return &i }
func strPtr(s string) *string { return &s }

var fixtureBase = time.Date(2025, 11, 2, 9, 30, 0, 0, time.UTC)

// Development fixtures. Ids are stable so the front end and the tests can
// reference them.
var fixtureRecipes = []recipe.Recipe{
	{
		ID:          "1",
		CreatedAt:   fixtureBase,
		Version:     "1.0",
		Title:       "Classic Margherita Pizza",
		Description: "A traditional Italian pizza with fresh basil, mozzarella, and tomato sauce. Perfect blend of simple ingredients for an authentic taste.",
		Ingredients: []recipe.Ingredient{
			{Name: "pizza dough", Amount: 1, Unit: "lb"},
			{Name: "tomato sauce", Amount: 0.5, Unit: "cup"},
			{Name: "fresh mozzarella", Amount: 8, Unit: "oz"},
			{Name: "fresh basil leaves", Amount: 10, Unit: ""},
		},
		Instructions: []string{
			"Preheat the oven to 500F with a pizza stone inside.",
			"Stretch the dough into a 12-inch round.",
			"Spread the sauce, tear the mozzarella over it, and bake for 8-10 minutes.",
			"Finish with basil and a drizzle of olive oil.",
		},
		PrepTime:   20,
		CookTime:   15,
		Servings:   4,
		Difficulty: recipe.DifficultyMedium,
		Cuisine:    "Italian",
		UserID:     "chef-maria",
	},
	{
		ID:          "2",
		CreatedAt:   fixtureBase.Add(24 * time.Hour),
		Version:     "1.1",
		Title:       "Japanese Ramen Bowl",
		Description: "Rich and flavorful ramen with tender chashu pork, soft-boiled egg, and fresh vegetables in a savory miso broth.",
		Ingredients: []recipe.Ingredient{
			{Name: "ramen noodles", Amount: 12, Unit: "oz"},
			{Name: "miso paste", Amount: 3, Unit: "tbsp"},
			{Name: "chashu pork", Amount: 0.5, Unit: "lb"},
			{Name: "eggs", Amount: 2, Unit: ""},
		},
		Instructions: []string{
			"Simmer the broth with miso paste for 20 minutes.",
			"Soft-boil the eggs and marinate in soy sauce.",
			"Cook the noodles and assemble the bowls.",
		},
		PrepTime:   45,
		CookTime:   30,
		Servings:   2,
		Difficulty: recipe.DifficultyHard,
		Cuisine:    "Japanese",
		UserID:     "chef-tanaka",
	},
	{
		ID:          "3",
		CreatedAt:   fixtureBase.Add(48 * time.Hour),
		Version:     "1.0",
		Title:       "Fresh Summer Salad",
		Description: "Light and refreshing salad with mixed greens, cherry tomatoes, cucumber, and a honey-lemon vinaigrette.",
		Ingredients: []recipe.Ingredient{
			{Name: "mixed greens", Amount: 4, Unit: "cup"},
			{Name: "cherry tomatoes", Amount: 1, Unit: "cup"},
			{Name: "cucumber", Amount: 1, Unit: ""},
			{Name: "honey", Amount: 1, Unit: "tbsp"},
		},
		Instructions: []string{
			"Whisk the honey, lemon juice and olive oil into a vinaigrette.",
			"Toss the greens with the vegetables and dress just before serving.",
		},
		PrepTime:   15,
		CookTime:   0,
		Servings:   2,
		Difficulty: recipe.DifficultyEasy,
		Cuisine:    "International",
		UserID:     "sarah-green",
	},
}

var fixtureReviews = []recipe.Review{
	{
		ID:               "r1",
		CreatedAt:        fixtureBase.Add(72 * time.Hour),
		RecipeID:         "1",
		UserID:           "home-cook-7",
		Rating:           5,
		Comment:          "Came out just like the pizzeria down the street.",
		FollowedExact:    boolPtr(true),
		TasteRating:      intPtr(5),
		QuantityAccuracy: intPtr(5),
		PhotoURL:         strPtr("https://example.com/photos/margherita.jpg"),
	},
	{
		ID:        "r2",
		CreatedAt: fixtureBase.Add(96 * time.Hour),
		RecipeID:  "1",
		UserID:    "weekend-baker",
		Rating:    4,
		Comment:   "Swapped in dried basil, still solid.",
		SwapFrom:  strPtr("fresh basil"),
		SwapTo:    strPtr("dried basil"),
	},
	{
		ID:            "r3",
		CreatedAt:     fixtureBase.Add(120 * time.Hour),
		RecipeID:      "2",
		UserID:        "noodle-fan",
		Rating:        5,
		Comment:       "The broth is worth the effort.",
		FollowedExact: boolPtr(true),
		TasteRating:   intPtr(5),
		ClarityRating: intPtr(4),
	},
}

var fixtureSwaps = []recipe.IngredientSwap{
	{
		ID:                    "s1",
		CreatedAt:             fixtureBase.Add(80 * time.Hour),
		RecipeID:              "1",
		OriginalIngredient:    "fresh mozzarella",
		AlternativeIngredient: "low-moisture mozzarella",
		SuccessRate:           75,
		VotesCount:            4,
	},
	{
		ID:                    "s2",
		CreatedAt:             fixtureBase.Add(100 * time.Hour),
		RecipeID:              "2",
		OriginalIngredient:    "chashu pork",
		AlternativeIngredient: "tofu",
		SuccessRate:           50,
		VotesCount:            2,
	},
}

var fixtureVariations = []recipe.RegionalVariation{
	{
		ID:            "v1",
		CreatedAt:     fixtureBase.Add(60 * time.Hour),
		RecipeID:      "1",
		Region:        "Naples",
		Modifications: []string{"Use San Marzano tomatoes", "Bake in a wood-fired oven"},
		Popularity:    12,
	},
	{
		ID:            "v2",
		CreatedAt:     fixtureBase.Add(110 * time.Hour),
		RecipeID:      "2",
		Region:        "Sapporo",
		Modifications: []string{"Add sweet corn and butter", "Use thick wavy noodles"},
		Popularity:    8,
	},
}
