package routes

import (
	"context"
	"net/http"
	"time"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/saeid-a/EvalAdminBack/internal/config"
	"github.com/saeid-a/EvalAdminBack/internal/handlers"
	"github.com/saeid-a/EvalAdminBack/internal/middleware"
	"github.com/saeid-a/EvalAdminBack/internal/models"
	"github.com/saeid-a/EvalAdminBack/internal/repository"
	"github.com/saeid-a/EvalAdminBack/internal/services"
	sessionws "github.com/saeid-a/EvalAdminBack/internal/websocket"
	"go.uber.org/zap"
)

// RegisterRoutes wires repositories, services and handlers onto app. The live
// feed hub runs until ctx is cancelled.
func RegisterRoutes(ctx context.Context, app *fiber.App, cfg *config.Config, db *pgxpool.Pool, logger *zap.Logger) error {
	location, err := cfg.ImportLocation()
	if err != nil {
		return err
	}

	associationRepo := repository.NewAssociationRepository(db)
	userRepo := repository.NewUserRepository(db)
	cohortRepo := repository.NewCohortRepository(db)
	drillRepo := repository.NewDrillRepository(db)
	playerRepo := repository.NewPlayerRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	sessionDrillRepo := repository.NewSessionDrillRepository(db)
	scoreRepo := repository.NewScoreRepository(db)
	importRepo := repository.NewImportRepository(db)

	var storageService services.StorageService
	if cfg.StorageEnabled() {
		storageService = services.NewSupabaseStorageService(
			cfg.SupabaseURL,
			cfg.SupabaseBucket,
			cfg.SupabaseServiceKey,
			&http.Client{Timeout: 30 * time.Second},
		)
	} else {
		logger.Info("supabase storage not configured, import files will not be archived")
	}

	hub := sessionws.NewHub(logger)
	go hub.Run(ctx)

	authService := services.NewAuthService(userRepo, associationRepo, cfg.JWTSecret, time.Duration(cfg.JWTTTLHours)*time.Hour)
	userService := services.NewUserService(userRepo, associationRepo)
	associationService := services.NewAssociationService(db, associationRepo)
	cohortService := services.NewCohortService(cohortRepo)
	drillService := services.NewDrillService(drillRepo)
	playerService := services.NewPlayerService(playerRepo, cohortRepo)
	sessionService := services.NewSessionService(db, sessionRepo, sessionDrillRepo, scoreRepo, cohortRepo, hub, logger)
	scoreService := services.NewScoreService(db, sessionRepo, sessionDrillRepo, scoreRepo, playerRepo, hub)
	importService := services.NewImportService(
		db,
		cohortRepo,
		playerRepo,
		sessionRepo,
		importRepo,
		storageService,
		logger,
		services.ImportOptions{MaxRows: cfg.ImportMaxRows, Location: location},
	)

	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	associationHandler := handlers.NewAssociationHandler(associationService)
	cohortHandler := handlers.NewCohortHandler(cohortService)
	drillHandler := handlers.NewDrillHandler(drillService)
	playerHandler := handlers.NewPlayerHandler(playerService)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	scoreHandler := handlers.NewScoreHandler(scoreService)
	importHandler := handlers.NewImportHandler(importService, cfg.ImportMaxBytes)
	liveFeedHandler := handlers.NewLiveFeedHandler(hub, cfg.JWTSecret, userRepo)

	if err := registerDocsRoutes(app, cfg); err != nil {
		return err
	}

	api := app.Group("/api")

	// The feed authenticates with ?token= so it is registered ahead of the
	// header-based /v1 group.
	api.Use("/v1/ws", liveFeedHandler.WebSocketAuth)
	api.Get("/v1/ws", websocket.New(liveFeedHandler.HandleWebSocket))

	requireAuth := middleware.AuthRequired(cfg.JWTSecret, userRepo)
	adminOnly := middleware.RequireRoles(models.RoleSuperadmin, models.RoleAssociationAdmin)
	superadminOnly := middleware.RequireRoles(models.RoleSuperadmin)

	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", requireAuth, authHandler.Me)
	auth.Put("/password", requireAuth, authHandler.ChangePassword)

	v1 := api.Group("/v1", requireAuth)

	v1.Get("/templates/:file", importHandler.Template)

	users := v1.Group("/users", adminOnly)
	users.Get("", userHandler.List)
	users.Post("", userHandler.Create)
	users.Get("/:id", userHandler.Get)
	users.Patch("/:id", userHandler.Update)
	users.Post("/:id/reset-password", userHandler.ResetPassword)
	users.Post("/:id/deactivate", userHandler.Deactivate)

	v1.Get("/associations", associationHandler.List)
	v1.Post("/associations", superadminOnly, associationHandler.Create)

	scoped := v1.Group("/associations/:associationID", middleware.AssociationScope())
	scoped.Get("", associationHandler.Get)
	scoped.Put("", superadminOnly, associationHandler.Update)
	scoped.Patch("/status", superadminOnly, associationHandler.SetStatus)

	cohorts := scoped.Group("/cohorts")
	cohorts.Get("", cohortHandler.List)
	cohorts.Post("", adminOnly, cohortHandler.Create)
	cohorts.Get("/:id", cohortHandler.Get)
	cohorts.Put("/:id", adminOnly, cohortHandler.Update)
	cohorts.Delete("/:id", adminOnly, cohortHandler.Delete)

	drills := scoped.Group("/drills")
	drills.Get("", drillHandler.List)
	drills.Post("", adminOnly, drillHandler.Create)
	drills.Get("/:id", drillHandler.Get)
	drills.Put("/:id", adminOnly, drillHandler.Update)
	drills.Delete("/:id", adminOnly, drillHandler.Delete)

	players := scoped.Group("/players")
	players.Get("/export", adminOnly, importHandler.ExportPlayers)
	players.Get("", playerHandler.List)
	players.Post("", adminOnly, playerHandler.Create)
	players.Get("/:id", playerHandler.Get)
	players.Put("/:id", adminOnly, playerHandler.Update)
	players.Delete("/:id", adminOnly, playerHandler.Delete)

	sessions := scoped.Group("/sessions")
	sessions.Get("/export", adminOnly, importHandler.ExportSessions)
	sessions.Get("", sessionHandler.List)
	sessions.Post("", adminOnly, sessionHandler.Create)
	sessions.Get("/:id", sessionHandler.Get)
	sessions.Put("/:id", adminOnly, sessionHandler.Update)
	sessions.Delete("/:id", adminOnly, sessionHandler.Delete)
	sessions.Patch("/:id/status", adminOnly, sessionHandler.UpdateStatus)
	sessions.Get("/:id/drills", sessionHandler.GetDrills)
	sessions.Put("/:id/drills", adminOnly, sessionHandler.ReplaceDrills)
	sessions.Post("/:id/drills/clone-to-wave", adminOnly, sessionHandler.CloneToWave)
	sessions.Get("/:id/scores", scoreHandler.List)
	sessions.Post("/:id/scores", scoreHandler.Record)
	sessions.Get("/:id/results", scoreHandler.Results)

	imports := scoped.Group("/imports", adminOnly)
	imports.Get("", importHandler.List)
	imports.Post("/players", importHandler.ImportPlayers)
	imports.Post("/sessions", importHandler.ImportSessions)
	imports.Get("/:id/download", importHandler.Download)

	return nil
}
