package models

import "time"

// SavedRecipe is one entry in a user's saved-recipe list. The composite
// unique index keeps a recipe from appearing twice for the same user.
type SavedRecipe struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	UserID    string    `json:"userId" gorm:"type:uuid;index;uniqueIndex:idx_user_recipe_save"`
	RecipeID  string    `json:"recipeId" gorm:"size:24;uniqueIndex:idx_user_recipe_save"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`
}

type SaveRecipeRequest struct {
	RecipeID string `json:"recipeId" validate:"required"`
}
