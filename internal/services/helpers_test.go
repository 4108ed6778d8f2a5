package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/anonto42/recipe-share/backend/internal/models"
	"github.com/anonto42/recipe-share/backend/internal/repositories/memory"
	"github.com/anonto42/recipe-share/backend/internal/validators"
	"github.com/anonto42/recipe-share/backend/pkg/apperr"
	"github.com/anonto42/recipe-share/backend/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	users   *memory.UserRepository
	saved   *memory.SavedRecipeRepository
	recipes *memory.RecipeRepository
	tokens  *token.Manager
	auth    *AuthService
	recipe  *RecipeService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	tokens, err := token.NewManager("test-secret", time.Hour)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	v := validators.NewValidator()

	f := &fixture{
		users:   memory.NewUserRepository(),
		saved:   memory.NewSavedRecipeRepository(),
		recipes: memory.NewRecipeRepository(),
		tokens:  tokens,
	}
	f.auth = NewAuthService(f.users, tokens, v, 10, logger)
	f.recipe = NewRecipeService(f.recipes, f.users, f.saved, v, logger)
	return f
}

// register creates a user and returns its identity.
func (f *fixture) register(t *testing.T, name, email string) models.Identity {
	t.Helper()
	resp, err := f.auth.Register(context.Background(), models.RegisterRequest{Name: name, Email: email, Password: "pa55word"})
	require.NoError(t, err)
	return models.Identity{ID: resp.User.ID}
}

func (f *fixture) createRecipe(t *testing.T, owner models.Identity, title string) *models.Recipe {
	t.Helper()
	r, err := f.recipe.Create(context.Background(), owner, models.CreateRecipeRequest{
		Title:       title,
		Ingredients: []string{"rice", "lentils"},
		CookingTime: "30m",
		Servings:    "2",
	})
	require.NoError(t, err)
	return r
}

func assertCode(t *testing.T, err error, code apperr.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, code, apperr.CodeOf(err), "error: %v", err)
}
