// Package memory provides in-process implementations of the repository
// interfaces. Records are copied on the way in and out so callers observe
// document-store semantics: nothing changes until it is written back.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/anonto42/recipe-share/backend/internal/models"
	"github.com/anonto42/recipe-share/backend/internal/repositories"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRepository is an in-memory repositories.UserRepository.
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]models.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: map[string]models.User{}}
}

func (r *UserRepository) CreateUser(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return repositories.ErrDuplicate
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now()
	user.CreatedAt, user.UpdatedAt = now, now
	r.users[user.ID] = *user
	return nil
}

func (r *UserRepository) GetUserByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepository) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

// SavedRecipeRepository is an in-memory repositories.SavedRecipeRepository.
type SavedRecipeRepository struct {
	mu    sync.Mutex
	saved []models.SavedRecipe
	seq   uint
}

func NewSavedRecipeRepository() *SavedRecipeRepository {
	return &SavedRecipeRepository{}
}

func (r *SavedRecipeRepository) SaveRecipe(_ context.Context, saved *models.SavedRecipe) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.saved {
		if s.UserID == saved.UserID && s.RecipeID == saved.RecipeID {
			return repositories.ErrDuplicate
		}
	}
	r.seq++
	saved.ID = r.seq
	saved.CreatedAt = time.Now()
	r.saved = append(r.saved, *saved)
	return nil
}

func (r *SavedRecipeRepository) UnsaveRecipe(_ context.Context, userID, recipeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = filter(r.saved, func(s models.SavedRecipe) bool {
		return !(s.UserID == userID && s.RecipeID == recipeID)
	})
	return nil
}

func (r *SavedRecipeRepository) IsRecipeSaved(_ context.Context, userID, recipeID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.saved {
		if s.UserID == userID && s.RecipeID == recipeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *SavedRecipeRepository) GetSavedRecipeIDs(_ context.Context, userID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := []string{}
	for _, s := range r.saved {
		if s.UserID == userID {
			ids = append(ids, s.RecipeID)
		}
	}
	return ids, nil
}

func (r *SavedRecipeRepository) DeleteByRecipeID(_ context.Context, recipeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = filter(r.saved, func(s models.SavedRecipe) bool { return s.RecipeID != recipeID })
	return nil
}

func filter(in []models.SavedRecipe, keep func(models.SavedRecipe) bool) []models.SavedRecipe {
	out := in[:0]
	for _, s := range in {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out
}

// RecipeRepository is an in-memory repositories.RecipeRepository.
type RecipeRepository struct {
	mu      sync.RWMutex
	recipes map[primitive.ObjectID]models.Recipe

	// Err, when set, is returned by every call.
	Err error
}

func NewRecipeRepository() *RecipeRepository {
	return &RecipeRepository{recipes: map[primitive.ObjectID]models.Recipe{}}
}

func clone(r models.Recipe) models.Recipe {
	r.Ingredients = append([]string(nil), r.Ingredients...)
	r.Ratings = append([]models.Rating{}, r.Ratings...)
	r.Comments = append([]models.Comment{}, r.Comments...)
	return r
}

func (r *RecipeRepository) CreateRecipe(_ context.Context, recipe *models.Recipe) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	recipe.ID = primitive.NewObjectID()
	if recipe.CreatedAt.IsZero() {
		recipe.CreatedAt = time.Now()
		recipe.UpdatedAt = recipe.CreatedAt
	}
	r.recipes[recipe.ID] = clone(*recipe)
	return nil
}

func (r *RecipeRepository) GetRecipeByID(_ context.Context, id string) (*models.Recipe, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repositories.ErrNotFound
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	recipe, ok := r.recipes[objID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	c := clone(recipe)
	return &c, nil
}

func (r *RecipeRepository) GetRecipeByCommentID(_ context.Context, commentID string) (*models.Recipe, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	objID, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return nil, repositories.ErrNotFound
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, recipe := range r.recipes {
		for _, c := range recipe.Comments {
			if c.ID == objID {
				cp := clone(recipe)
				return &cp, nil
			}
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *RecipeRepository) list(keep func(models.Recipe) bool) ([]models.Recipe, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []models.Recipe{}
	for _, recipe := range r.recipes {
		if keep(recipe) {
			out = append(out, clone(recipe))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *RecipeRepository) GetAllRecipes(_ context.Context) ([]models.Recipe, error) {
	return r.list(func(models.Recipe) bool { return true })
}

func (r *RecipeRepository) GetRecipesByOwner(_ context.Context, ownerID string) ([]models.Recipe, error) {
	return r.list(func(recipe models.Recipe) bool { return recipe.CreatedBy == ownerID })
}

func (r *RecipeRepository) GetRecipesByIDs(_ context.Context, ids []string) ([]models.Recipe, error) {
	want := map[string]bool{}
	for _, id := range ids {
		want[id] = true
	}
	return r.list(func(recipe models.Recipe) bool { return want[recipe.ID.Hex()] })
}

func (r *RecipeRepository) ReplaceRecipe(_ context.Context, recipe *models.Recipe) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.recipes[recipe.ID]; !ok {
		return repositories.ErrNotFound
	}
	recipe.UpdatedAt = time.Now()
	r.recipes[recipe.ID] = clone(*recipe)
	return nil
}

func (r *RecipeRepository) DeleteRecipes(_ context.Context, id, ownerID string) (int64, error) {
	if r.Err != nil {
		return 0, r.Err
	}
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	recipe, ok := r.recipes[objID]
	if !ok || recipe.CreatedBy != ownerID {
		return 0, nil
	}
	delete(r.recipes, objID)
	return 1, nil
}

var (
	_ repositories.UserRepository        = (*UserRepository)(nil)
	_ repositories.SavedRecipeRepository = (*SavedRecipeRepository)(nil)
	_ repositories.RecipeRepository      = (*RecipeRepository)(nil)
)
