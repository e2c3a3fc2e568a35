package supabase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipeshare/internal/core/recipe"
	"recipeshare/internal/storage"
)

// newMockStore starts a fake PostgREST endpoint and returns a store wired
// to it.
func newMockStore(t *testing.T, handler http.HandlerFunc) *Store {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewStore(srv.URL, "test-service-key", 5*time.Second)
}

func TestStoreSendsCredentialHeaders(t *testing.T) {
	var gotAPIKey, gotAuth string
	store := newMockStore(t, func(w http.ResponseWriter, r *http.Request) {
		gotAPIKey = r.Header.Get("apikey")
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	})

	_, err := store.ListRecipes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "test-service-key", gotAPIKey)
	assert.Equal(t, "Bearer test-service-key", gotAuth)
}

func TestListRecipesEmbedsReviews(t *testing.T) {
	store := newMockStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/recipes", r.URL.Path)
		assert.Equal(t, "*,reviews(*)", r.URL.Query().Get("select"))
		assert.Equal(t, "created_at.desc", r.URL.Query().Get("order"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id": "abc", "title": "Pizza", "reviews": [{"id": "r1", "rating": 5}]}]`))
	})

	list, err := store.ListRecipes(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Pizza", list[0].Title)
	require.Len(t, list[0].Reviews, 1)
	assert.Equal(t, 5, list[0].Reviews[0].Rating)
}

func TestGetRecipeNotFound(t *testing.T) {
	store := newMockStore(t, func(w http.ResponseWriter, r *http.Request) {
		// PostgREST answers 406 for a single-object request with no row.
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotAcceptable)
		w.Write([]byte(`{"code": "PGRST116", "message": "JSON object requested, multiple (or no) rows returned"}`))
	})

	_, err := store.GetRecipe(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestAddReviewForeignKeyViolation(t *testing.T) {
	store := newMockStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"code": "23503", "message": "violates foreign key constraint"}`))
	})

	_, err := store.AddReview(context.Background(), &recipe.Review{RecipeID: "missing", Rating: 5})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestVoteSwapCallsRPC(t *testing.T) {
	store := newMockStore(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/rest/v1/rpc/vote_ingredient_swap", r.URL.Path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "s1", body["swap_id"])
		assert.Equal(t, true, body["successful"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": "s1", "success_rate": 75, "votes_count": 2}`))
	})

	swap, err := store.VoteSwap(context.Background(), "s1", true)
	require.NoError(t, err)
	assert.InDelta(t, 75.0, swap.SuccessRate, 0.001)
	assert.Equal(t, 2, swap.VotesCount)
}

func TestVoteSwapUnknownSwap(t *testing.T) {
	store := newMockStore(t, func(w http.ResponseWriter, r *http.Request) {
		// The RPC returns an all-null row when no swap matched.
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": null, "success_rate": null, "votes_count": null}`))
	})

	_, err := store.VoteSwap(context.Background(), "missing", true)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUpdateRecipeNoMatch(t *testing.T) {
	store := newMockStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	})

	title := "New Title"
	_, err := store.UpdateRecipe(context.Background(), "missing", storage.RecipeUpdate{Title: &title})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
