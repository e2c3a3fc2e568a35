// Package api wires middleware, handlers and services into the HTTP router.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipeshare/internal/api/handlers/health"
	recipeHandler "recipeshare/internal/api/handlers/recipe"
	"recipeshare/internal/api/middleware"
	"recipeshare/internal/core/ingredient"
	"recipeshare/internal/core/service"
	"recipeshare/internal/infrastructure/config"
	"recipeshare/internal/pkg/common"
	"recipeshare/internal/storage"
)

const (
	timeoutDuration = 30 * time.Second
	// Recipe text is small; 1MB leaves generous headroom.
	maxBodySize = 1 << 20
)

// SetupRouter builds the gin engine over the given store.
func SetupRouter(cfg *config.Config, store storage.RecipeStore) (*gin.Engine, error) {
	common.LogInfo("starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORS.Origin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(maxBodySize))

	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	recipeSvc := service.NewService(store)
	ingredientSvc := ingredient.NewService()

	// Per-request deadline plus context injection for the health handler.
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Set("config", cfg)

		c.Next()

		if ctx.Err() == context.DeadlineExceeded && !c.Writer.Written() {
			common.LogError("request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetHeader("X-Request-ID")),
				zap.Duration("timeout", timeoutDuration),
			)
			c.AbortWithStatusJSON(http.StatusGatewayTimeout, common.ErrorResponse{
				Success: false,
				Code:    common.ErrCodeRequestTimeout,
				Error:   "request timeout",
			})
		}
	})

	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck(recipeSvc))
	router.GET("/live", health.LivenessCheck)

	h := recipeHandler.NewHandler(recipeSvc, ingredientSvc)

	api := router.Group("/api")
	{
		recipes := api.Group("/recipes")
		{
			recipes.GET("", h.HandleListRecipes)
			recipes.POST("", h.HandleCreateRecipe)
			recipes.GET("/search", h.HandleSearchRecipes)
			recipes.POST("/parse-ingredients", h.HandleParseIngredients)

			recipes.GET("/:id", h.HandleGetRecipe)
			recipes.PUT("/:id", h.HandleUpdateRecipe)
			recipes.DELETE("/:id", h.HandleDeleteRecipe)

			recipes.POST("/:id/reviews", h.HandleAddReview)
			recipes.POST("/:id/swaps", h.HandleAddSwap)
			recipes.POST("/:id/swaps/:swapId/vote", h.HandleVoteSwap)
			recipes.POST("/:id/variations", h.HandleAddVariation)
			recipes.GET("/:id/variations/:region", h.HandleGetVariation)
		}
	}

	common.LogInfo("router setup completed",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("environment", cfg.App.Env),
		zap.String("store_driver", cfg.Store.Driver),
		zap.Bool("rate_limit_enabled", cfg.RateLimit.Enabled),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}
