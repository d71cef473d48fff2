package v1

import (
	"helppro/internal/config"
	"helppro/internal/database"
	"helppro/internal/delivery/http/handler"
	"helppro/internal/delivery/http/middleware"
	"helppro/internal/pkg/jwt"
	"helppro/internal/repository"
	"helppro/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

func Register(r fiber.Router, cfg config.Config, db database.DB, cache usecase.CatalogCache) {
	if r == nil {
		return
	}

	jwtSvc := jwt.NewHMACService(cfg.Auth.JWTSecret)
	authMw := middleware.NewAuthMiddleware(jwtSvc)

	helpRequestRepo := repository.NewPostgresHelpRequestRepository(db)
	skillRepo := repository.NewPostgresSkillRepository(db)
	userSkillRepo := repository.NewPostgresUserSkillRepository(db)
	profileRepo := repository.NewPostgresProfileRepository(db)

	matchHandler := handler.NewMatchHandler(
		usecase.NewMatcherUsecase(helpRequestRepo, skillRepo, userSkillRepo, profileRepo))
	helpRequestHandler := handler.NewHelpRequestHandler(usecase.NewHelpRequestUsecase(helpRequestRepo))
	skillHandler := handler.NewSkillHandler(usecase.NewSkillUsecase(skillRepo, cache))
	userSkillHandler := handler.NewUserSkillHandler(usecase.NewUserSkillUsecase(userSkillRepo))
	profileHandler := handler.NewProfileHandler(usecase.NewProfileUsecase(profileRepo))

	// Public: the matcher (the original standalone function), the skill
	// catalog, browsing help requests and profiles.
	matchHandler.RegisterRoutes(r)
	r.Get("/skills", skillHandler.List)
	r.Get("/help-requests", helpRequestHandler.List)
	r.Get("/help-requests/:id", helpRequestHandler.Get)
	r.Get("/profiles/:user_id", profileHandler.Get)

	// Everything that writes (or reads "me") requires a platform token.
	protected := r.Group("", authMw.Middleware())
	protected.Post("/skills", skillHandler.Create)
	protected.Post("/help-requests", helpRequestHandler.Create)
	protected.Put("/help-requests/:id", helpRequestHandler.Update)
	protected.Delete("/help-requests/:id", helpRequestHandler.Delete)

	userSkillHandler.RegisterRoutes(protected)

	protected.Get("/me/profile", profileHandler.GetMine)
	protected.Put("/me/profile", profileHandler.UpdateMine)
}
