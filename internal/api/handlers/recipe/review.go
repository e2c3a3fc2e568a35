package recipe

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	recipeModel "recipeshare/internal/core/recipe"
	"recipeshare/internal/pkg/common"
)

// AddReviewRequest is the body for POST /api/recipes/:id/reviews. Optional
// rating dimensions stay nil when absent; the confidence score treats
// absent differently from zero.
type AddReviewRequest struct {
	UserID           string  `json:"user_id"`
	Rating           int     `json:"rating" binding:"required,min=1,max=5"`
	Comment          string  `json:"comment"`
	FollowedExact    *bool   `json:"followed_exact"`
	SwapFrom         *string `json:"swap_from"`
	SwapTo           *string `json:"swap_to"`
	TasteRating      *int    `json:"taste_rating" binding:"omitempty,min=1,max=5"`
	TextureRating    *int    `json:"texture_rating" binding:"omitempty,min=1,max=5"`
	QuantityAccuracy *int    `json:"quantity_accuracy" binding:"omitempty,min=1,max=5"`
	ClarityRating    *int    `json:"clarity_rating" binding:"omitempty,min=1,max=5"`
	PhotoURL         *string `json:"photo_url"`
}

// HandleAddReview attaches a review to a recipe.
func (h *Handler) HandleAddReview(c *gin.Context) {
	recipeID := c.Param("id")

	var req AddReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, "Invalid request format")
		return
	}

	review, err := h.recipes.AddReview(c.Request.Context(), &recipeModel.Review{
		RecipeID:         recipeID,
		UserID:           req.UserID,
		Rating:           req.Rating,
		Comment:          req.Comment,
		FollowedExact:    req.FollowedExact,
		SwapFrom:         req.SwapFrom,
		SwapTo:           req.SwapTo,
		TasteRating:      req.TasteRating,
		TextureRating:    req.TextureRating,
		QuantityAccuracy: req.QuantityAccuracy,
		ClarityRating:    req.ClarityRating,
		PhotoURL:         req.PhotoURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	common.LogInfo("review added",
		zap.String("recipe_id", recipeID),
		zap.String("review_id", review.ID),
		zap.Int("rating", review.Rating),
		zap.String("request_id", requestID(c)),
	)
	respondData(c, http.StatusCreated, review)
}
