package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"recipeshare/internal/api"
	"recipeshare/internal/cache"
	"recipeshare/internal/infrastructure/config"
	"recipeshare/internal/pkg/common"
	"recipeshare/internal/storage"
	"recipeshare/internal/storage/memory"
	"recipeshare/internal/storage/postgres"
	"recipeshare/internal/storage/supabase"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("configuration loaded",
		zap.String("env", cfg.App.Env),
		zap.String("store_driver", cfg.Store.Driver),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.Int("port", cfg.Server.Port),
	)

	store, err := openStore(cfg)
	if err != nil {
		common.LogFatal("Failed to open recipe store",
			zap.Error(err),
			zap.String("driver", cfg.Store.Driver),
		)
	}

	if cfg.Cache.Enabled {
		cached, err := cache.NewStore(context.Background(), store, cfg.Cache.Addr, cfg.Cache.TTL)
		if err != nil {
			common.LogFatal("Failed to initialize cache", zap.Error(err))
		}
		store = cached
	}
	defer store.Close()

	router, err := api.SetupRouter(cfg, store)
	if err != nil {
		common.LogError("Failed to setup router", zap.Error(err))
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		common.LogInfo("starting server",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
			zap.String("addr", srv.Addr),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.LogError("Failed to start server", zap.Error(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
		os.Exit(1)
	}

	common.LogInfo("Server exited")
}

// openStore builds the store the configuration selects. The memory driver
// starts preloaded with sample recipes for local development.
func openStore(cfg *config.Config) (storage.RecipeStore, error) {
	switch cfg.Store.Driver {
	case config.StoreMemory:
		return memory.NewStoreWithFixtures(), nil
	case config.StorePostgres:
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Store.Timeout)
		defer cancel()
		return postgres.NewStore(ctx, cfg.Store.DatabaseURL)
	case config.StoreSupabase:
		return supabase.NewStore(cfg.Store.SupabaseURL, cfg.Store.SupabaseKey, cfg.Store.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
