package routes

import (
	"log"

	"helppro/internal/config"
	"helppro/internal/database"
	"helppro/internal/delivery/http/handler"
	v1 "helppro/internal/delivery/http/routes/v1"
	"helppro/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	cfg    config.Config
	db     database.DB
	cache  usecase.CatalogCache
	logger *log.Logger
}

func NewRegistry(cfg config.Config, db database.DB, cache usecase.CatalogCache, logger *log.Logger) *Registry {
	return &Registry{cfg: cfg, db: db, cache: cache, logger: logger}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	handler.NewHealthHandler(r.db).RegisterRoutes(app)

	api := app.Group("/api")
	v1.Register(api.Group("/v1"), r.cfg, r.db, r.cache)
}
