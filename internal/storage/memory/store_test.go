package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipeshare/internal/core/recipe"
	"recipeshare/internal/storage"
)

func TestCreateAndGetRecipe(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	created, err := s.CreateRecipe(ctx, &recipe.Recipe{
		Title:       "Test Dish",
		Description: "A dish for testing",
		Difficulty:  recipe.DifficultyEasy,
		// Client-supplied counters must not survive the insert.
		Rating:          5,
		ReviewsCount:    9,
		ConfidenceScore: 99,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Zero(t, created.Rating)
	assert.Zero(t, created.ReviewsCount)
	assert.Zero(t, created.ConfidenceScore)

	got, err := s.GetRecipe(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Test Dish", got.Title)
	assert.Empty(t, got.Reviews)
}

func TestGetRecipeNotFound(t *testing.T) {
	s := NewStore()
	_, err := s.GetRecipe(context.Background(), "nope")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestListRecipesNewestFirst(t *testing.T) {
	s := NewStoreWithFixtures()

	list, err := s.ListRecipes(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)
	for i := 1; i < len(list); i++ {
		assert.False(t, list[i-1].CreatedAt.Before(list[i].CreatedAt))
	}
	// Fixture recipe 1 carries its reviews.
	for _, r := range list {
		if r.ID == "1" {
			assert.Len(t, r.Reviews, 2)
		}
	}
}

func TestSearchRecipes(t *testing.T) {
	s := NewStoreWithFixtures()

	found, err := s.SearchRecipes(context.Background(), "pizza")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "1", found[0].ID)

	found, err = s.SearchRecipes(context.Background(), "refreshing")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "3", found[0].ID)
}

func TestUpdateRecipePartial(t *testing.T) {
	s := NewStoreWithFixtures()
	ctx := context.Background()

	title := "Margherita, Revised"
	updated, err := s.UpdateRecipe(ctx, "1", storage.RecipeUpdate{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	// Untouched fields survive.
	assert.Equal(t, "Italian", updated.Cuisine)

	_, err = s.UpdateRecipe(ctx, "missing", storage.RecipeUpdate{Title: &title})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDeleteRecipeCascades(t *testing.T) {
	s := NewStoreWithFixtures()
	ctx := context.Background()

	require.NoError(t, s.DeleteRecipe(ctx, "1"))

	_, err := s.GetRecipe(ctx, "1")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = s.VoteSwap(ctx, "s1", true)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	assert.ErrorIs(t, s.DeleteRecipe(ctx, "1"), storage.ErrNotFound)
}

func TestAddReviewRequiresRecipe(t *testing.T) {
	s := NewStoreWithFixtures()
	ctx := context.Background()

	review, err := s.AddReview(ctx, &recipe.Review{RecipeID: "3", Rating: 4, Comment: "Nice and light."})
	require.NoError(t, err)
	assert.NotEmpty(t, review.ID)

	_, err = s.AddReview(ctx, &recipe.Review{RecipeID: "missing", Rating: 4})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestAddSwapZeroesCounters(t *testing.T) {
	s := NewStoreWithFixtures()

	swap, err := s.AddSwap(context.Background(), &recipe.IngredientSwap{
		RecipeID:              "3",
		OriginalIngredient:    "honey",
		AlternativeIngredient: "maple syrup",
		SuccessRate:           80,
		VotesCount:            7,
	})
	require.NoError(t, err)
	assert.Zero(t, swap.SuccessRate)
	assert.Zero(t, swap.VotesCount)
}

func TestVoteSwap(t *testing.T) {
	s := NewStoreWithFixtures()
	ctx := context.Background()

	// Fixture s2 starts at 50% over 2 votes.
	sw, err := s.VoteSwap(ctx, "s2", true)
	require.NoError(t, err)
	assert.InDelta(t, (50*2+100)/3.0, sw.SuccessRate, 1e-9)
	assert.Equal(t, 3, sw.VotesCount)

	sw, err = s.VoteSwap(ctx, "s2", false)
	require.NoError(t, err)
	assert.Equal(t, 4, sw.VotesCount)

	_, err = s.VoteSwap(ctx, "missing", true)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestVoteSwapConcurrent(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	created, err := s.CreateRecipe(ctx, &recipe.Recipe{Title: "Base"})
	require.NoError(t, err)
	swap, err := s.AddSwap(ctx, &recipe.IngredientSwap{
		RecipeID:              created.ID,
		OriginalIngredient:    "butter",
		AlternativeIngredient: "margarine",
	})
	require.NoError(t, err)

	const successes, failures = 60, 40

	var wg sync.WaitGroup
	for i := 0; i < successes+failures; i++ {
		wg.Add(1)
		go func(ok bool) {
			defer wg.Done()
			_, err := s.VoteSwap(ctx, swap.ID, ok)
			assert.NoError(t, err)
		}(i < successes)
	}
	wg.Wait()

	final, err := s.VoteSwap(ctx, swap.ID, true)
	require.NoError(t, err)
	// 100 concurrent votes plus the final one: no update may be lost, and
	// the rate must equal 100 * successful / total.
	assert.Equal(t, successes+failures+1, final.VotesCount)
	assert.InDelta(t, 100*float64(successes+1)/float64(successes+failures+1), final.SuccessRate, 1e-6)
}

func TestVariations(t *testing.T) {
	s := NewStoreWithFixtures()
	ctx := context.Background()

	v, err := s.GetVariation(ctx, "1", "naples")
	require.NoError(t, err)
	assert.Equal(t, "Naples", v.Region)

	_, err = s.GetVariation(ctx, "1", "Osaka")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	added, err := s.AddVariation(ctx, &recipe.RegionalVariation{
		RecipeID:      "1",
		Region:        "Rome",
		Modifications: []string{"Thinner, crispier base"},
		Popularity:    5,
	})
	require.NoError(t, err)
	assert.Zero(t, added.Popularity)

	v, err = s.GetVariation(ctx, "1", "Rome")
	require.NoError(t, err)
	assert.Equal(t, []string{"Thinner, crispier base"}, v.Modifications)
}
