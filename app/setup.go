package app

import (
	"fmt"
	"log"
	"time"

	"github.com/labore-tech/instituicoes-api/api"
	"github.com/labore-tech/instituicoes-api/config"
	"github.com/labore-tech/instituicoes-api/database"
	"github.com/labore-tech/instituicoes-api/router"
	"github.com/labore-tech/instituicoes-api/utils/cache"
	"github.com/labore-tech/instituicoes-api/utils/middleware"
)

func SetupAndRunServer() error {

	// Load ENV
	if err := config.LoadENV(); err != nil {
		return err
	}

	getEnv, err := config.Get()
	if err != nil {
		return err
	}

	// Initialize GORM database connection
	store, err := database.StartGORM()
	if err != nil {
		print("Check whether the Postgres is running or not\n")
		return err
	}

	if err := store.Init(); err != nil {
		print("Failed to initialize database tables\n")
		return err
	}

	// Verify the connection before taking traffic
	if err := store.HealthCheck(); err != nil {
		print("Database ping failed\n")
		return err
	}

	// Defer Closing DB
	defer store.Close()

	// Redis is optional: without it the write throttle is simply disabled
	var redisCache *cache.RedisCache
	if getEnv.REDIS_URL != "" {
		redisCache, err = cache.NewRedisCache(getEnv.REDIS_URL)
		if err != nil {
			log.Printf("Warning: Failed to connect to Redis: %v. Write throttling will be disabled.", err)
			redisCache = nil
		} else {
			defer redisCache.Close()
		}
	}

	// Init API
	var server *api.APIServer = api.NewAPIServer(fmt.Sprintf(":%d", getEnv.PORT))
	app := server.GetEngine()

	// Attach Middleware
	allowedOrigins := getEnv.ALLOWED_ORIGINS
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000,http://localhost:3001"
	}

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    allowedOrigins,
		RateLimitRequests: 300,
		RateLimitWindow:   time.Minute,
	})

	// Setup Routes
	router.SetupRoutes(app, store, redisCache, getEnv)

	// Get the PORT & Start the Server
	return server.Run()
}
