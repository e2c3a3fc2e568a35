package recipe

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipeshare/internal/core/ingredient"
	recipeModel "recipeshare/internal/core/recipe"
	"recipeshare/internal/core/service"
	"recipeshare/internal/pkg/common"
	"recipeshare/internal/storage"
)

// CreateRecipeRequest is the body for POST /api/recipes.
type CreateRecipeRequest struct {
	Title        string                   `json:"title" binding:"required"`
	Description  string                   `json:"description"`
	Ingredients  []recipeModel.Ingredient `json:"ingredients"`
	Instructions []string                 `json:"instructions"`
	PrepTime     int                      `json:"prep_time" binding:"gte=0"`
	CookTime     int                      `json:"cook_time" binding:"gte=0"`
	Servings     int                      `json:"servings" binding:"gte=0"`
	Difficulty   string                   `json:"difficulty" binding:"omitempty,oneof=Easy Medium Hard"`
	Cuisine      string                   `json:"cuisine"`
	UserID       string                   `json:"user_id"`
	Version      string                   `json:"version"`
}

// UpdateRecipeRequest is the body for PUT /api/recipes/:id. Absent fields
// keep their stored value.
type UpdateRecipeRequest struct {
	Version      *string                   `json:"version"`
	Title        *string                   `json:"title"`
	Description  *string                   `json:"description"`
	Ingredients  *[]recipeModel.Ingredient `json:"ingredients"`
	Instructions *[]string                 `json:"instructions"`
	PrepTime     *int                      `json:"prep_time" binding:"omitempty,gte=0"`
	CookTime     *int                      `json:"cook_time" binding:"omitempty,gte=0"`
	Servings     *int                      `json:"servings" binding:"omitempty,gte=0"`
	Difficulty   *string                   `json:"difficulty" binding:"omitempty,oneof=Easy Medium Hard"`
	Cuisine      *string                   `json:"cuisine"`
}

// Handler serves the recipe routes.
type Handler struct {
	recipes     *service.Service
	ingredients *ingredient.Service
}

// NewHandler creates a recipe handler.
func NewHandler(recipes *service.Service, ingredients *ingredient.Service) *Handler {
	return &Handler{
		recipes:     recipes,
		ingredients: ingredients,
	}
}

// HandleListRecipes returns every recipe with its reviews, swaps and
// regional variations, newest first.
func (h *Handler) HandleListRecipes(c *gin.Context) {
	list, err := h.recipes.ListRecipes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, list)
}

// HandleSearchRecipes searches recipes by title, description or cuisine.
func (h *Handler) HandleSearchRecipes(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		respondInvalid(c, `Query parameter "q" is required.`)
		return
	}

	results, err := h.recipes.SearchRecipes(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(results),
		"data":    results,
	})
}

// HandleGetRecipe returns a single recipe with details.
func (h *Handler) HandleGetRecipe(c *gin.Context) {
	detail, err := h.recipes.GetRecipe(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, detail)
}

// HandleCreateRecipe creates a recipe. Derived counters start at zero no
// matter what the client sends.
func (h *Handler) HandleCreateRecipe(c *gin.Context) {
	reqID := requestID(c)

	var req CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("invalid create recipe request",
			zap.Error(err),
			zap.String("request_id", reqID),
		)
		respondInvalid(c, "Invalid request format")
		return
	}

	created, err := h.recipes.CreateRecipe(c.Request.Context(), &recipeModel.Recipe{
		Version:      req.Version,
		Title:        req.Title,
		Description:  req.Description,
		Ingredients:  req.Ingredients,
		Instructions: req.Instructions,
		PrepTime:     req.PrepTime,
		CookTime:     req.CookTime,
		Servings:     req.Servings,
		Difficulty:   req.Difficulty,
		Cuisine:      req.Cuisine,
		UserID:       req.UserID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	common.LogInfo("recipe created",
		zap.String("recipe_id", created.ID),
		zap.String("title", created.Title),
		zap.String("request_id", reqID),
	)
	respondData(c, http.StatusCreated, created)
}

// HandleUpdateRecipe applies a partial update.
func (h *Handler) HandleUpdateRecipe(c *gin.Context) {
	var req UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, "Invalid request format")
		return
	}

	updated, err := h.recipes.UpdateRecipe(c.Request.Context(), c.Param("id"), storage.RecipeUpdate{
		Version:      req.Version,
		Title:        req.Title,
		Description:  req.Description,
		Ingredients:  req.Ingredients,
		Instructions: req.Instructions,
		PrepTime:     req.PrepTime,
		CookTime:     req.CookTime,
		Servings:     req.Servings,
		Difficulty:   req.Difficulty,
		Cuisine:      req.Cuisine,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, updated)
}

// HandleDeleteRecipe removes a recipe and everything attached to it.
func (h *Handler) HandleDeleteRecipe(c *gin.Context) {
	id := c.Param("id")
	if err := h.recipes.DeleteRecipe(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	common.LogInfo("recipe deleted",
		zap.String("recipe_id", id),
		zap.String("request_id", requestID(c)),
	)
	respondData(c, http.StatusOK, gin.H{"id": id, "deleted": true})
}
