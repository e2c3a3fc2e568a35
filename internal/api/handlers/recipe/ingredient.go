package recipe

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipeshare/internal/pkg/common"
)

const parseIngredientsError = "Unable to parse ingredients."

// HandleParseIngredients turns free-form recipe text into structured
// ingredient entries.
//
// The text field must be present and must be a JSON string; anything else
// is rejected before the parser runs. An empty string is valid and yields
// an empty result. Parser failures surface as a generic 500 with the
// detail kept in the server log.
func (h *Handler) HandleParseIngredients(c *gin.Context) {
	reqID := requestID(c)

	// Decode into raw messages so a non-string text field is caught as a
	// type error rather than coerced. Extra fields are tolerated.
	var body map[string]json.RawMessage
	if err := common.DecodeJSONStrict(c.Request.Body, &body); err != nil {
		respondInvalid(c, `Request body must include a "text" field of type string.`)
		return
	}

	raw, ok := body["text"]
	if !ok {
		respondInvalid(c, `Request body must include a "text" field of type string.`)
		return
	}
	// json.Unmarshal accepts null for a string target, so check the token
	// itself: anything that is not a JSON string is rejected.
	var text string
	if len(raw) == 0 || raw[0] != '"' {
		respondInvalid(c, `Request body must include a "text" field of type string.`)
		return
	}
	if err := json.Unmarshal(raw, &text); err != nil {
		respondInvalid(c, `Request body must include a "text" field of type string.`)
		return
	}

	entries, err := h.ingredients.Parse(c.Request.Context(), text)
	if err != nil {
		common.LogError("ingredient parsing failed",
			zap.Error(err),
			zap.Int("text_length", len(text)),
			zap.String("request_id", reqID),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   parseIngredientsError,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(entries),
		"data":    entries,
	})
}
