package repositories

import (
	"context"

	"github.com/anonto42/recipe-share/backend/internal/models"
	"gorm.io/gorm"
)

// SavedRecipeRepository stores the ordered, duplicate-free list of recipes
// each user has saved.
type SavedRecipeRepository interface {
	SaveRecipe(ctx context.Context, saved *models.SavedRecipe) error
	UnsaveRecipe(ctx context.Context, userID, recipeID string) error
	IsRecipeSaved(ctx context.Context, userID, recipeID string) (bool, error)
	GetSavedRecipeIDs(ctx context.Context, userID string) ([]string, error)
	DeleteByRecipeID(ctx context.Context, recipeID string) error
}

// PostgresSavedRecipeRepository implements SavedRecipeRepository
type PostgresSavedRecipeRepository struct {
	db *gorm.DB
}

func NewPostgresSavedRecipeRepository(db *gorm.DB) *PostgresSavedRecipeRepository {
	return &PostgresSavedRecipeRepository{db: db}
}

// SaveRecipe inserts saved. A second save of the same pair yields ErrDuplicate.
func (r *PostgresSavedRecipeRepository) SaveRecipe(ctx context.Context, saved *models.SavedRecipe) error {
	return translate(r.db.WithContext(ctx).Create(saved).Error)
}

func (r *PostgresSavedRecipeRepository) UnsaveRecipe(ctx context.Context, userID, recipeID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.SavedRecipe{}).Error
}

func (r *PostgresSavedRecipeRepository) IsRecipeSaved(ctx context.Context, userID, recipeID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.SavedRecipe{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	return count > 0, err
}

// GetSavedRecipeIDs returns recipe ids in the order they were saved.
func (r *PostgresSavedRecipeRepository) GetSavedRecipeIDs(ctx context.Context, userID string) ([]string, error) {
	var saved []models.SavedRecipe
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").Order("id ASC").
		Find(&saved).Error
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(saved))
	for _, s := range saved {
		ids = append(ids, s.RecipeID)
	}
	return ids, nil
}

// DeleteByRecipeID removes a deleted recipe from every user's saved list.
func (r *PostgresSavedRecipeRepository) DeleteByRecipeID(ctx context.Context, recipeID string) error {
	return r.db.WithContext(ctx).Where("recipe_id = ?", recipeID).Delete(&models.SavedRecipe{}).Error
}
