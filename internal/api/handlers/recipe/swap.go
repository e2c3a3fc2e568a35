package recipe

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	recipeModel "recipeshare/internal/core/recipe"
	"recipeshare/internal/pkg/common"
)

// AddSwapRequest is the body for POST /api/recipes/:id/swaps.
type AddSwapRequest struct {
	OriginalIngredient    string `json:"original_ingredient" binding:"required"`
	AlternativeIngredient string `json:"alternative_ingredient" binding:"required"`
}

// VoteSwapRequest is the body for POST /api/recipes/:id/swaps/:swapId/vote.
// Successful is a pointer so an absent field is an error instead of a
// silent "false" vote.
type VoteSwapRequest struct {
	Successful *bool `json:"successful" binding:"required"`
}

// HandleAddSwap records an ingredient substitution for a recipe. The swap
// starts with no votes; its success rate only moves through voting.
func (h *Handler) HandleAddSwap(c *gin.Context) {
	recipeID := c.Param("id")

	var req AddSwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, "Invalid request format")
		return
	}

	swap, err := h.recipes.AddSwap(c.Request.Context(), &recipeModel.IngredientSwap{
		RecipeID:              recipeID,
		OriginalIngredient:    req.OriginalIngredient,
		AlternativeIngredient: req.AlternativeIngredient,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	common.LogInfo("ingredient swap added",
		zap.String("recipe_id", recipeID),
		zap.String("swap_id", swap.ID),
		zap.String("original", swap.OriginalIngredient),
		zap.String("alternative", swap.AlternativeIngredient),
		zap.String("request_id", requestID(c)),
	)
	respondData(c, http.StatusCreated, swap)
}

// HandleVoteSwap applies one vote to a swap's running success rate.
func (h *Handler) HandleVoteSwap(c *gin.Context) {
	swapID := c.Param("swapId")

	var req VoteSwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, `Request body must include a boolean "successful" field.`)
		return
	}

	swap, err := h.recipes.VoteSwap(c.Request.Context(), swapID, *req.Successful)
	if err != nil {
		respondError(c, err)
		return
	}

	common.LogInfo("swap vote applied",
		zap.String("swap_id", swapID),
		zap.Bool("successful", *req.Successful),
		zap.Float64("success_rate", swap.SuccessRate),
		zap.Int("votes_count", swap.VotesCount),
		zap.String("request_id", requestID(c)),
	)
	respondData(c, http.StatusOK, swap)
}
