package app

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"helppro/internal/config"
	"helppro/internal/database/migration"
	"helppro/internal/database/seeder"
	"helppro/internal/delivery/http/middleware"
	"helppro/internal/delivery/http/routes"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

func Bootstrap(cfg config.Config, logger *log.Logger) (*App, func() error, error) {
	if logger == nil {
		logger = log.Default()
	}

	c, err := NewContainer(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	if err := prepareDatabase(c); err != nil {
		_ = c.Close()
		return nil, nil, err
	}

	f := fiber.New(fiber.Config{AppName: cfg.App.AppName})

	// CORS is wide open: the matcher (and the public catalog) are called
	// straight from browsers on the marketing site. Preflight OPTIONS is
	// answered by this middleware with no body.
	f.Use(cors.New())
	f.Use(middleware.NewAccessLogMiddleware(logger).Middleware())
	f.Use(middleware.NewErrorMiddleware(logger).Middleware())

	routes.NewRegistry(cfg, c.DB, c.Cache, logger).Register(f)

	return &App{Fiber: f, Container: c}, c.Close, nil
}

func prepareDatabase(c *Container) error {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	runner := migration.Runner{Dir: c.Config.App.MigrationsDir}
	if err := runner.Run(ctx, c.DB.SQLDB()); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	if c.Config.App.SeedOnStart {
		sr := seeder.Runner{Seeders: seeder.Defaults(c.Config.App.Environment)}
		if err := sr.Run(ctx, c.DB); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}
	return nil
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
