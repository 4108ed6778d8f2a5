package router

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/anonto42/recipe-share/backend/internal/handlers"
	"github.com/anonto42/recipe-share/backend/internal/middleware"
	"github.com/anonto42/recipe-share/backend/internal/models"
	"github.com/anonto42/recipe-share/backend/internal/repositories"
	"github.com/anonto42/recipe-share/backend/internal/services"
	"github.com/anonto42/recipe-share/backend/internal/validators"
	"github.com/anonto42/recipe-share/backend/pkg/config"
	"github.com/anonto42/recipe-share/backend/pkg/token"
	"github.com/labstack/echo/v4"
)

// Dependencies are the process-wide handles the routes are built from.
type Dependencies struct {
	DB         *config.DB
	Tokens     *token.Manager
	Validator  *validators.Validator
	BcryptCost int
	// Firebase verifies Firebase ID tokens; nil disables /auth/firebase-login.
	Firebase services.IDTokenVerifier
	Logger   *slog.Logger
}

// SetupRoutes migrates the stores and configures all application routes.
func SetupRoutes(ctx context.Context, e *echo.Echo, deps Dependencies) error {
	if err := deps.DB.Postgres.WithContext(ctx).AutoMigrate(
		&models.User{},
		&models.SavedRecipe{},
	); err != nil {
		return fmt.Errorf("failed to auto migrate models: %w", err)
	}
	deps.Logger.Info("postgres auto-migrations completed")

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(deps.DB.Postgres)
	savedRepo := repositories.NewPostgresSavedRecipeRepository(deps.DB.Postgres)
	recipeRepo := repositories.NewMongoRecipeRepository(deps.DB.MongoDatabase())
	if err := recipeRepo.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("failed to create recipe indexes: %w", err)
	}

	authService := services.NewAuthService(userRepo, deps.Tokens, deps.Validator, deps.BcryptCost, deps.Logger)
	if deps.Firebase != nil {
		authService.WithFirebase(deps.Firebase)
	}
	recipeService := services.NewRecipeService(recipeRepo, userRepo, savedRepo, deps.Validator, deps.Logger)

	Register(e, authService, recipeService, middleware.JWTAuthMiddleware(deps.Tokens))
	deps.Logger.Info("all routes configured", slog.Bool("firebase_login", authService.FirebaseEnabled()))
	return nil
}

// Register mounts the HTTP routes on e. requireAuth guards the routes that
// need a caller identity.
func Register(e *echo.Echo, auth handlers.AuthService, recipes handlers.RecipeService, requireAuth echo.MiddlewareFunc) {
	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	handlers.NewAuthHandler(auth).RegisterAuthRoutes(e.Group("/auth"), requireAuth)
	handlers.NewRecipeHandler(recipes).RegisterRecipeRoutes(e.Group("/recipes"), requireAuth)
}
