package handlers

import (
	"context"
	"net/http"

	"github.com/anonto42/recipe-share/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// RecipeService is the recipe behaviour the recipe routes depend on.
type RecipeService interface {
	Create(ctx context.Context, identity models.Identity, req models.CreateRecipeRequest) (*models.Recipe, error)
	List(ctx context.Context) ([]models.Recipe, error)
	ListMine(ctx context.Context, userID string) ([]models.Recipe, error)
	DeleteMine(ctx context.Context, identity models.Identity, recipeID string) (int64, error)
	GetByID(ctx context.Context, id string) (*models.Recipe, error)
	Save(ctx context.Context, identity models.Identity, recipeID string) error
	Unsave(ctx context.Context, identity models.Identity, recipeID string) error
	ListSaved(ctx context.Context, identity models.Identity) ([]models.Recipe, error)
	Rate(ctx context.Context, identity models.Identity, recipeID string, req models.RateRecipeRequest) (*models.Recipe, error)
	Comment(ctx context.Context, identity models.Identity, req models.CreateCommentRequest) (*models.Comment, error)
	EditComment(ctx context.Context, identity models.Identity, commentID string, req models.UpdateCommentRequest) (*models.Comment, error)
	Reviews(ctx context.Context, recipeID string) (*models.Review, error)
}

// RecipeHandler handles recipe-related HTTP requests
type RecipeHandler struct {
	service RecipeService
}

// NewRecipeHandler creates a new RecipeHandler
func NewRecipeHandler(service RecipeService) *RecipeHandler {
	return &RecipeHandler{service: service}
}

// RegisterRecipeRoutes registers the /recipes routes. Static paths are
// registered alongside /:id; echo's router prefers the static match.
func (h *RecipeHandler) RegisterRecipeRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	g.POST("", h.CreateRecipe, requireAuth)
	g.GET("", h.ListRecipes, requireAuth)
	g.GET("/my", h.ListMyRecipes, requireAuth)
	g.DELETE("/my", h.DeleteMyRecipes, requireAuth)
	g.POST("/save", h.SaveRecipe, requireAuth)
	g.DELETE("/save", h.UnsaveRecipe, requireAuth)
	g.GET("/saved", h.ListSavedRecipes, requireAuth)
	g.POST("/rate", h.RateRecipe, requireAuth)
	g.POST("/comment", h.AddComment, requireAuth)
	g.PUT("/comment/:commentId", h.EditComment, requireAuth)

	g.GET("/:id", h.GetRecipe)
	g.POST("/reviews", h.GetReviews)
}

func (h *RecipeHandler) CreateRecipe(c echo.Context) error {
	identity, err := callerIdentity(c)
	if err != nil {
		return err
	}

	var req models.CreateRecipeRequest
	if err := c.Bind(&req); err != nil {
		return invalidPayload(err)
	}

	recipe, err := h.service.Create(c.Request().Context(), identity, req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) ListRecipes(c echo.Context) error {
	recipes, err := h.service.List(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, recipes)
}

// ListMyRecipes lists the recipes created by the ?userId= user.
func (h *RecipeHandler) ListMyRecipes(c echo.Context) error {
	recipes, err := h.service.ListMine(c.Request().Context(), c.QueryParam("userId"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, recipes)
}

// DeleteMyRecipes deletes the caller's recipe named by ?id=.
func (h *RecipeHandler) DeleteMyRecipes(c echo.Context) error {
	identity, err := callerIdentity(c)
	if err != nil {
		return err
	}

	deleted, err := h.service.DeleteMine(c.Request().Context(), identity, c.QueryParam("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Recipes deleted successfully",
		"deleted": deleted,
	})
}

func (h *RecipeHandler) SaveRecipe(c echo.Context) error {
	identity, err := callerIdentity(c)
	if err != nil {
		return err
	}

	var req models.SaveRecipeRequest
	if err := c.Bind(&req); err != nil {
		return invalidPayload(err)
	}

	if err := h.service.Save(c.Request().Context(), identity, req.RecipeID); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Recipe saved successfully"})
}

// UnsaveRecipe reads recipeId from the body, falling back to the query
// string for clients that send DELETE without a body.
func (h *RecipeHandler) UnsaveRecipe(c echo.Context) error {
	identity, err := callerIdentity(c)
	if err != nil {
		return err
	}

	var req models.SaveRecipeRequest
	if err := c.Bind(&req); err != nil {
		return invalidPayload(err)
	}
	if req.RecipeID == "" {
		req.RecipeID = c.QueryParam("recipeId")
	}

	if err := h.service.Unsave(c.Request().Context(), identity, req.RecipeID); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Recipe removed from saved"})
}

func (h *RecipeHandler) ListSavedRecipes(c echo.Context) error {
	identity, err := callerIdentity(c)
	if err != nil {
		return err
	}

	recipes, err := h.service.ListSaved(c.Request().Context(), identity)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, recipes)
}

func (h *RecipeHandler) GetRecipe(c echo.Context) error {
	recipe, err := h.service.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, recipe)
}

// RateRecipe records the caller's rating for the ?id= recipe.
func (h *RecipeHandler) RateRecipe(c echo.Context) error {
	identity, err := callerIdentity(c)
	if err != nil {
		return err
	}

	var req models.RateRecipeRequest
	if err := c.Bind(&req); err != nil {
		return invalidPayload(err)
	}

	recipe, err := h.service.Rate(c.Request().Context(), identity, c.QueryParam("id"), req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) AddComment(c echo.Context) error {
	identity, err := callerIdentity(c)
	if err != nil {
		return err
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return invalidPayload(err)
	}

	comment, err := h.service.Comment(c.Request().Context(), identity, req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, comment)
}

func (h *RecipeHandler) EditComment(c echo.Context) error {
	identity, err := callerIdentity(c)
	if err != nil {
		return err
	}

	var req models.UpdateCommentRequest
	if err := c.Bind(&req); err != nil {
		return invalidPayload(err)
	}

	comment, err := h.service.EditComment(c.Request().Context(), identity, c.Param("commentId"), req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, comment)
}

// GetReviews returns the rating summary and comments of the recipe in the body.
func (h *RecipeHandler) GetReviews(c echo.Context) error {
	var req models.ReviewsRequest
	if err := c.Bind(&req); err != nil {
		return invalidPayload(err)
	}

	review, err := h.service.Reviews(c.Request().Context(), req.ID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, review)
}
