package recipe

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	recipeModel "recipeshare/internal/core/recipe"
	"recipeshare/internal/pkg/common"
)

// AddVariationRequest is the body for POST /api/recipes/:id/variations.
// Popularity is a counter owned by the store and always starts at zero.
type AddVariationRequest struct {
	Region        string   `json:"region" binding:"required"`
	Modifications []string `json:"modifications" binding:"required,min=1"`
}

// HandleAddVariation records a regional variation for a recipe.
func (h *Handler) HandleAddVariation(c *gin.Context) {
	recipeID := c.Param("id")

	var req AddVariationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, "Invalid request format")
		return
	}

	variation, err := h.recipes.AddVariation(c.Request.Context(), &recipeModel.RegionalVariation{
		RecipeID:      recipeID,
		Region:        req.Region,
		Modifications: req.Modifications,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	common.LogInfo("regional variation added",
		zap.String("recipe_id", recipeID),
		zap.String("region", variation.Region),
		zap.String("request_id", requestID(c)),
	)
	respondData(c, http.StatusCreated, variation)
}

// HandleGetVariation returns a recipe's variation for a region. The region
// match is case-insensitive.
func (h *Handler) HandleGetVariation(c *gin.Context) {
	variation, err := h.recipes.GetVariation(c.Request.Context(), c.Param("id"), c.Param("region"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, variation)
}
