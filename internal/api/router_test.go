package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipeshare/internal/core/recipe"
	"recipeshare/internal/infrastructure/config"
	"recipeshare/internal/storage/memory"
)

type envelope struct {
	Success bool            `json:"success"`
	Count   int             `json:"count"`
	Code    string          `json:"code"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	cfg := &config.Config{
		App:  config.AppConfig{Env: "test", Version: "test"},
		CORS: config.CORSConfig{Origin: "http://localhost:5173"},
	}
	router, err := SetupRouter(cfg, memory.NewStoreWithFixtures())
	require.NoError(t, err)
	return router
}

func perform(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body: %s", w.Body.String())
	return env
}

func TestParseIngredientsRejectsMissingOrNonStringText(t *testing.T) {
	router := newTestRouter(t)

	cases := []struct {
		name string
		body string
	}{
		{"missing text", `{}`},
		{"number text", `{"text": 42}`},
		{"null text", `{"text": null}`},
		{"array text", `{"text": ["2 cups flour"]}`},
		{"object text", `{"text": {"lines": "flour"}}`},
		{"boolean text", `{"text": true}`},
		{"not json", `flour`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := perform(t, router, http.MethodPost, "/api/recipes/parse-ingredients", tc.body)

			require.Equal(t, http.StatusBadRequest, w.Code)
			env := decode(t, w)
			assert.False(t, env.Success)
			assert.Contains(t, env.Error, `"text"`)
		})
	}
}

func TestParseIngredientsCountMatchesData(t *testing.T) {
	router := newTestRouter(t)

	body := `{"text": "2 cups flour\n1 tbsp sugar\n1/2 tsp salt"}`
	w := perform(t, router, http.MethodPost, "/api/recipes/parse-ingredients", body)

	require.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	require.True(t, env.Success)

	var entries []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &entries))
	assert.Equal(t, len(entries), env.Count)
	require.Len(t, entries, 3)

	assert.Equal(t, 2.0, entries[0]["quantity"])
	assert.Equal(t, "cup", entries[0]["unitOfMeasureID"])
	assert.Equal(t, "flour", entries[0]["description"])
	assert.Equal(t, 0.5, entries[2]["quantity"])
	assert.Equal(t, "teaspoon", entries[2]["unitOfMeasureID"])
}

func TestParseIngredientsEmptyText(t *testing.T) {
	router := newTestRouter(t)

	w := perform(t, router, http.MethodPost, "/api/recipes/parse-ingredients", `{"text": ""}`)

	require.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	assert.True(t, env.Success)
	assert.Equal(t, 0, env.Count)
}

func TestListRecipesDerivedFields(t *testing.T) {
	router := newTestRouter(t)

	w := perform(t, router, http.MethodGet, "/api/recipes", "")
	require.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)

	var list []recipe.WithDetails
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 3)

	// Newest first.
	assert.Equal(t, "3", list[0].ID)
	assert.Equal(t, "1", list[2].ID)

	margherita := list[2]
	assert.Equal(t, 2, margherita.ReviewsCount)
	assert.InDelta(t, 4.5, margherita.Rating, 0.001)
	// 0.5*40 + 0.5*20 + (4.5/5)*30 + 0.5*10
	assert.Equal(t, 62, margherita.ConfidenceScore)
	assert.Len(t, margherita.Reviews, 2)
	assert.Len(t, margherita.IngredientSwaps, 1)

	salad := list[0]
	assert.Equal(t, 0, salad.ReviewsCount)
	assert.Equal(t, 0, salad.ConfidenceScore)
	assert.Zero(t, salad.Rating)
}

func TestGetRecipe(t *testing.T) {
	router := newTestRouter(t)

	w := perform(t, router, http.MethodGet, "/api/recipes/2", "")
	require.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)

	var detail recipe.WithDetails
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.Equal(t, "Japanese Ramen Bowl", detail.Title)
	assert.Equal(t, 70, detail.ConfidenceScore)
	require.Len(t, detail.IngredientSwaps, 1)
	assert.Equal(t, "tofu", detail.IngredientSwaps[0].AlternativeIngredient)
}

func TestGetRecipeNotFound(t *testing.T) {
	router := newTestRouter(t)

	w := perform(t, router, http.MethodGet, "/api/recipes/999", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	env := decode(t, w)
	assert.False(t, env.Success)
	assert.Equal(t, "NOT_FOUND", env.Code)
}

func TestCreateRecipeZeroesDerivedCounters(t *testing.T) {
	router := newTestRouter(t)

	body := `{
		"title": "Garlic Bread",
		"description": "Crusty loaf with garlic butter.",
		"ingredients": [{"name": "baguette", "amount": 1, "unit": ""}],
		"instructions": ["Slice, butter, bake."],
		"prep_time": 10,
		"cook_time": 12,
		"servings": 4,
		"difficulty": "Easy",
		"cuisine": "French",
		"rating": 5,
		"reviews_count": 10,
		"confidence_score": 99
	}`
	w := perform(t, router, http.MethodPost, "/api/recipes", body)

	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())
	env := decode(t, w)

	var created recipe.Recipe
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.NotEmpty(t, created.ID)
	assert.Zero(t, created.Rating)
	assert.Zero(t, created.ReviewsCount)
	assert.Zero(t, created.ConfidenceScore)
}

func TestCreateRecipeRequiresTitle(t *testing.T) {
	router := newTestRouter(t)

	w := perform(t, router, http.MethodPost, "/api/recipes", `{"cuisine": "Italian"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, decode(t, w).Success)
}

func TestUpdateRecipePartial(t *testing.T) {
	router := newTestRouter(t)

	w := perform(t, router, http.MethodPut, "/api/recipes/3", `{"title": "Winter Salad"}`)
	require.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)

	var updated recipe.Recipe
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "Winter Salad", updated.Title)
	assert.Equal(t, "International", updated.Cuisine)
}

func TestDeleteRecipe(t *testing.T) {
	router := newTestRouter(t)

	w := perform(t, router, http.MethodDelete, "/api/recipes/1", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = perform(t, router, http.MethodGet, "/api/recipes/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddReviewAndRecount(t *testing.T) {
	router := newTestRouter(t)

	body := `{"user_id": "u9", "rating": 4, "comment": "Nice and light.", "followed_exact": true, "taste_rating": 4}`
	w := perform(t, router, http.MethodPost, "/api/recipes/3/reviews", body)
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())

	w = perform(t, router, http.MethodGet, "/api/recipes/3", "")
	require.Equal(t, http.StatusOK, w.Code)

	var detail recipe.WithDetails
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &detail))
	assert.Equal(t, 1, detail.ReviewsCount)
	assert.InDelta(t, 4.0, detail.Rating, 0.001)
}

func TestAddReviewUnknownRecipe(t *testing.T) {
	router := newTestRouter(t)

	w := perform(t, router, http.MethodPost, "/api/recipes/999/reviews", `{"rating": 5}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddReviewRejectsOutOfRangeRating(t *testing.T) {
	router := newTestRouter(t)

	w := perform(t, router, http.MethodPost, "/api/recipes/1/reviews", `{"rating": 6}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddSwapStartsUnvoted(t *testing.T) {
	router := newTestRouter(t)

	body := `{"original_ingredient": "honey", "alternative_ingredient": "maple syrup"}`
	w := perform(t, router, http.MethodPost, "/api/recipes/3/swaps", body)
	require.Equal(t, http.StatusCreated, w.Code)

	var swap recipe.IngredientSwap
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &swap))
	assert.Zero(t, swap.SuccessRate)
	assert.Zero(t, swap.VotesCount)
}

func TestVoteSwap(t *testing.T) {
	router := newTestRouter(t)

	w := perform(t, router, http.MethodPost, "/api/recipes/2/swaps/s2/vote", `{"successful": true}`)
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())

	var swap recipe.IngredientSwap
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &swap))
	// (50*2 + 100) / 3
	assert.InDelta(t, 66.6667, swap.SuccessRate, 0.001)
	assert.Equal(t, 3, swap.VotesCount)

	w = perform(t, router, http.MethodPost, "/api/recipes/2/swaps/s2/vote", `{"successful": false}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &swap))
	// One more vote contributing 0: (66.67*3 + 0) / 4.
	assert.InDelta(t, 50.0, swap.SuccessRate, 0.001)
	assert.Equal(t, 4, swap.VotesCount)
}

func TestVoteSwapUnknownSwap(t *testing.T) {
	router := newTestRouter(t)

	w := perform(t, router, http.MethodPost, "/api/recipes/2/swaps/nope/vote", `{"successful": true}`)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decode(t, w).Code)
}

func TestVoteSwapRequiresSuccessfulField(t *testing.T) {
	router := newTestRouter(t)

	w := perform(t, router, http.MethodPost, "/api/recipes/2/swaps/s2/vote", `{}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w).Error, "successful")
}

func TestVariationLookupIsCaseInsensitive(t *testing.T) {
	router := newTestRouter(t)

	w := perform(t, router, http.MethodGet, "/api/recipes/1/variations/naples", "")
	require.Equal(t, http.StatusOK, w.Code)

	var variation recipe.RegionalVariation
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &variation))
	assert.Equal(t, "Naples", variation.Region)

	w = perform(t, router, http.MethodGet, "/api/recipes/1/variations/Osaka", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddVariation(t *testing.T) {
	router := newTestRouter(t)

	body := `{"region": "Roma", "modifications": ["Thinner crust"]}`
	w := perform(t, router, http.MethodPost, "/api/recipes/1/variations", body)
	require.Equal(t, http.StatusCreated, w.Code)

	w = perform(t, router, http.MethodGet, "/api/recipes/1/variations/roma", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSearchRecipes(t *testing.T) {
	router := newTestRouter(t)

	w := perform(t, router, http.MethodGet, "/api/recipes/search?q=pizza", "")
	require.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	assert.Equal(t, 1, env.Count)

	var results []recipe.Recipe
	require.NoError(t, json.Unmarshal(env.Data, &results))
	require.Len(t, results, 1)
	assert.Equal(t, "1", results[0].ID)
}

func TestSearchRequiresQuery(t *testing.T) {
	router := newTestRouter(t)

	w := perform(t, router, http.MethodGet, "/api/recipes/search", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(t)

	w := perform(t, router, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)

	w = perform(t, router, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = perform(t, router, http.MethodGet, "/live", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBodySizeLimit(t *testing.T) {
	router := newTestRouter(t)

	big := `{"text": "` + strings.Repeat("a", 2<<20) + `"}`
	w := perform(t, router, http.MethodPost, "/api/recipes/parse-ingredients", big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
