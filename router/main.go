package router

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/labore-tech/instituicoes-api/config"
	"github.com/labore-tech/instituicoes-api/database"
	"github.com/labore-tech/instituicoes-api/handlers"
	instituicao_handlers "github.com/labore-tech/instituicoes-api/handlers/instituicao"
	"github.com/labore-tech/instituicoes-api/services"
	"github.com/labore-tech/instituicoes-api/utils/cache"
	"github.com/labore-tech/instituicoes-api/utils/middleware"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, store database.Storage, redisCache *cache.RedisCache, getEnv *config.EnvironmentVariable) {
	// Get DB instance (type assert from interface)
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		log.Fatal("Failed to get GORM DB instance")
	}

	instituicaoService := services.NewInstituicaoService(db, getEnv.DB_TIMEOUT)
	instituicaoHandler := instituicao_handlers.NewInstituicaoHandler(instituicaoService)

	// A nil cache disables the write throttle
	throttle := middleware.NewMutationThrottle(redisCache, 60, time.Minute)

	// Liveness probe
	app.Get("/healthy", handlers.HandleCheckHealth)

	// Institution CRUD + aggregation
	instituicoes := app.Group("/instituicoes")
	instituicoes.Get("/", instituicaoHandler.List)
	instituicoes.Get("/aggregated", instituicaoHandler.Aggregate)
	instituicoes.Post("/", throttle.Limit(), instituicaoHandler.Create)
	instituicoes.Put("/:id", throttle.Limit(), instituicaoHandler.Update)
	instituicoes.Delete("/:id", throttle.Limit(), instituicaoHandler.Delete)
}
