package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/anonto42/recipe-share/backend/internal/metrics"
	"github.com/anonto42/recipe-share/backend/internal/models"
	"github.com/anonto42/recipe-share/backend/internal/repositories"
	"github.com/anonto42/recipe-share/backend/internal/validators"
	"github.com/anonto42/recipe-share/backend/pkg/apperr"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RecipeService implements recipe creation, listing, favorites, ratings
// and comments. Every mutation is a single read-modify-write of one
// recipe document; there is no cross-document transaction.
type RecipeService struct {
	recipes   repositories.RecipeRepository
	users     repositories.UserRepository
	saved     repositories.SavedRecipeRepository
	validator *validators.Validator
	logger    *slog.Logger
	now       func() time.Time
}

// NewRecipeService creates a RecipeService.
func NewRecipeService(
	recipes repositories.RecipeRepository,
	users repositories.UserRepository,
	saved repositories.SavedRecipeRepository,
	v *validators.Validator,
	logger *slog.Logger,
) *RecipeService {
	return &RecipeService{
		recipes:   recipes,
		users:     users,
		saved:     saved,
		validator: v,
		logger:    logger,
		now:       time.Now,
	}
}

// Create stores a new recipe owned by the caller.
func (s *RecipeService) Create(ctx context.Context, identity models.Identity, req models.CreateRecipeRequest) (recipe *models.Recipe, err error) {
	defer func() { metrics.ObserveRecipe("create", err) }()

	recipe = models.NewRecipe(identity.ID, req, s.now())
	if err := s.recipes.CreateRecipe(ctx, recipe); err != nil {
		return nil, s.internal("create recipe", err)
	}
	return recipe, nil
}

// List returns every recipe.
func (s *RecipeService) List(ctx context.Context) ([]models.Recipe, error) {
	recipes, err := s.recipes.GetAllRecipes(ctx)
	if err != nil {
		return nil, s.internal("list recipes", err)
	}
	return recipes, nil
}

// ListMine returns the recipes created by userID.
func (s *RecipeService) ListMine(ctx context.Context, userID string) ([]models.Recipe, error) {
	if userID == "" {
		return nil, apperr.Validation("userId is required")
	}
	recipes, err := s.recipes.GetRecipesByOwner(ctx, userID)
	if err != nil {
		return nil, s.internal("list recipes by owner", err)
	}
	return recipes, nil
}

// DeleteMine deletes the caller's recipes with the given id and reports
// how many were removed.
func (s *RecipeService) DeleteMine(ctx context.Context, identity models.Identity, recipeID string) (deleted int64, err error) {
	defer func() { metrics.ObserveRecipe("delete", err) }()

	if recipeID == "" {
		return 0, apperr.Validation("id is required")
	}
	deleted, err = s.recipes.DeleteRecipes(ctx, recipeID, identity.ID)
	if err != nil {
		return 0, s.internal("delete recipes", err)
	}
	if deleted > 0 {
		if err := s.saved.DeleteByRecipeID(ctx, recipeID); err != nil {
			s.logger.Warn("failed to clear saved references to deleted recipe",
				slog.String("recipe_id", recipeID), slog.String("error", err.Error()))
		}
	}
	return deleted, nil
}

// GetByID returns the recipe with the given id.
func (s *RecipeService) GetByID(ctx context.Context, id string) (*models.Recipe, error) {
	recipe, err := s.recipes.GetRecipeByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.NotFound("recipe not found")
		}
		return nil, s.internal("get recipe", err)
	}
	return recipe, nil
}

// Save adds a recipe to the caller's saved list. Saving twice is a no-op.
func (s *RecipeService) Save(ctx context.Context, identity models.Identity, recipeID string) (err error) {
	defer func() { metrics.ObserveRecipe("save", err) }()

	if recipeID == "" {
		return apperr.Validation("recipeId is required")
	}
	if _, err := s.requireUser(ctx, identity.ID); err != nil {
		return err
	}
	if _, err := s.GetByID(ctx, recipeID); err != nil {
		return err
	}

	saved, err := s.saved.IsRecipeSaved(ctx, identity.ID, recipeID)
	if err != nil {
		return s.internal("check saved recipe", err)
	}
	if saved {
		return nil
	}

	err = s.saved.SaveRecipe(ctx, &models.SavedRecipe{UserID: identity.ID, RecipeID: recipeID})
	if err != nil && !errors.Is(err, repositories.ErrDuplicate) {
		return s.internal("save recipe", err)
	}
	return nil
}

// Unsave removes a recipe from the caller's saved list. Removing a recipe
// that is not saved is a no-op.
func (s *RecipeService) Unsave(ctx context.Context, identity models.Identity, recipeID string) (err error) {
	defer func() { metrics.ObserveRecipe("unsave", err) }()

	if recipeID == "" {
		return apperr.Validation("recipeId is required")
	}
	if _, err := s.requireUser(ctx, identity.ID); err != nil {
		return err
	}
	if err := s.saved.UnsaveRecipe(ctx, identity.ID, recipeID); err != nil {
		return s.internal("unsave recipe", err)
	}
	return nil
}

// ListSaved returns the caller's saved recipes in the order they were
// saved. References to recipes that no longer exist are skipped.
func (s *RecipeService) ListSaved(ctx context.Context, identity models.Identity) ([]models.Recipe, error) {
	if _, err := s.requireUser(ctx, identity.ID); err != nil {
		return nil, err
	}

	ids, err := s.saved.GetSavedRecipeIDs(ctx, identity.ID)
	if err != nil {
		return nil, s.internal("list saved recipe ids", err)
	}
	if len(ids) == 0 {
		return []models.Recipe{}, nil
	}

	found, err := s.recipes.GetRecipesByIDs(ctx, ids)
	if err != nil {
		return nil, s.internal("resolve saved recipes", err)
	}
	byID := make(map[string]models.Recipe, len(found))
	for _, r := range found {
		byID[r.ID.Hex()] = r
	}

	out := make([]models.Recipe, 0, len(ids))
	for _, id := range ids {
		if r, ok := byID[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

// Rate records the caller's rating for a recipe, replacing any earlier
// rating by the same caller.
func (s *RecipeService) Rate(ctx context.Context, identity models.Identity, recipeID string, req models.RateRecipeRequest) (recipe *models.Recipe, err error) {
	defer func() { metrics.ObserveRecipe("rate", err) }()

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if recipeID == "" {
		return nil, apperr.Validation("id is required")
	}

	recipe, err = s.GetByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	change := recipe.UpsertRating(identity.ID, req.Value)
	if err := s.recipes.ReplaceRecipe(ctx, recipe); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.NotFound("recipe not found")
		}
		return nil, s.internal("store rating", err)
	}

	s.logger.Debug("recipe rated",
		slog.String("recipe_id", recipeID),
		slog.String("user_id", identity.ID),
		slog.Bool("updated", change == models.RatingUpdated))
	return recipe, nil
}

// Comment appends a comment by the caller, snapshotting their display name.
func (s *RecipeService) Comment(ctx context.Context, identity models.Identity, req models.CreateCommentRequest) (comment *models.Comment, err error) {
	defer func() { metrics.ObserveRecipe("comment", err) }()

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	recipe, err := s.GetByID(ctx, req.RecipeID)
	if err != nil {
		return nil, err
	}
	user, err := s.requireUser(ctx, identity.ID)
	if err != nil {
		return nil, err
	}

	c := recipe.AddComment(user.ID, user.Username, req.Text, s.now())
	if err := s.recipes.ReplaceRecipe(ctx, recipe); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.NotFound("recipe not found")
		}
		return nil, s.internal("store comment", err)
	}
	return &c, nil
}

// EditComment overwrites the text of one of the caller's comments.
func (s *RecipeService) EditComment(ctx context.Context, identity models.Identity, commentID string, req models.UpdateCommentRequest) (comment *models.Comment, err error) {
	defer func() { metrics.ObserveRecipe("edit_comment", err) }()

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	objID, perr := primitive.ObjectIDFromHex(commentID)
	if perr != nil {
		return nil, apperr.NotFound("comment not found")
	}

	recipe, err := s.recipes.GetRecipeByCommentID(ctx, commentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.NotFound("comment not found")
		}
		return nil, s.internal("find comment", err)
	}

	c, err := recipe.EditComment(objID, identity.ID, req.Text, s.now())
	switch {
	case errors.Is(err, models.ErrNotCommentOwner):
		return nil, apperr.Forbidden("you are not authorized to update this comment")
	case errors.Is(err, models.ErrCommentNotFound):
		return nil, apperr.NotFound("comment not found")
	case err != nil:
		return nil, s.internal("edit comment", err)
	}

	if err := s.recipes.ReplaceRecipe(ctx, recipe); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.NotFound("comment not found")
		}
		return nil, s.internal("store comment", err)
	}
	return &c, nil
}

// Reviews returns the average rating and comment projection of a recipe.
func (s *RecipeService) Reviews(ctx context.Context, recipeID string) (*models.Review, error) {
	if recipeID == "" {
		return nil, apperr.Validation("id is required")
	}
	recipe, err := s.GetByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	review := recipe.Review()
	return &review, nil
}

func (s *RecipeService) requireUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, s.internal("get user", err)
	}
	return user, nil
}

func (s *RecipeService) internal(op string, err error) error {
	s.logger.Error("recipe operation failed", slog.String("operation", op), slog.String("error", err.Error()))
	return apperr.Internal(err)
}
