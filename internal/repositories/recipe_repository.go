package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anonto42/recipe-share/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RecipeRepository defines the interface for recipe data operations
type RecipeRepository interface {
	CreateRecipe(ctx context.Context, recipe *models.Recipe) error
	GetRecipeByID(ctx context.Context, id string) (*models.Recipe, error)
	GetRecipeByCommentID(ctx context.Context, commentID string) (*models.Recipe, error)
	GetAllRecipes(ctx context.Context) ([]models.Recipe, error)
	GetRecipesByOwner(ctx context.Context, ownerID string) ([]models.Recipe, error)
	GetRecipesByIDs(ctx context.Context, ids []string) ([]models.Recipe, error)
	ReplaceRecipe(ctx context.Context, recipe *models.Recipe) error
	DeleteRecipes(ctx context.Context, id, ownerID string) (int64, error)
}

// MongoRecipeRepository implements RecipeRepository for MongoDB
type MongoRecipeRepository struct {
	collection *mongo.Collection
}

// NewMongoRecipeRepository creates a new MongoRecipeRepository
func NewMongoRecipeRepository(db *mongo.Database) *MongoRecipeRepository {
	return &MongoRecipeRepository{collection: db.Collection("recipes")}
}

// EnsureIndexes creates the owner and comment-id indexes.
func (r *MongoRecipeRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdBy", Value: 1}}},
		{Keys: bson.D{{Key: "comments._id", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("creating recipe indexes: %w", err)
	}
	return nil
}

// CreateRecipe inserts recipe and assigns its id.
func (r *MongoRecipeRepository) CreateRecipe(ctx context.Context, recipe *models.Recipe) error {
	recipe.ID = primitive.NewObjectID()
	if recipe.CreatedAt.IsZero() {
		recipe.CreatedAt = time.Now()
		recipe.UpdatedAt = recipe.CreatedAt
	}
	_, err := r.collection.InsertOne(ctx, recipe)
	return err
}

// GetRecipeByID retrieves a recipe by ID. Malformed ids are reported as
// ErrNotFound.
func (r *MongoRecipeRepository) GetRecipeByID(ctx context.Context, id string) (*models.Recipe, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": objID})
}

// GetRecipeByCommentID retrieves the recipe holding the comment with the given id.
func (r *MongoRecipeRepository) GetRecipeByCommentID(ctx context.Context, commentID string) (*models.Recipe, error) {
	objID, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return nil, ErrNotFound
	}
	return r.findOne(ctx, bson.M{"comments._id": objID})
}

func (r *MongoRecipeRepository) findOne(ctx context.Context, filter bson.M) (*models.Recipe, error) {
	var recipe models.Recipe
	err := r.collection.FindOne(ctx, filter).Decode(&recipe)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// GetAllRecipes retrieves every recipe, newest first.
func (r *MongoRecipeRepository) GetAllRecipes(ctx context.Context) ([]models.Recipe, error) {
	return r.find(ctx, bson.M{})
}

// GetRecipesByOwner retrieves the recipes created by ownerID, newest first.
func (r *MongoRecipeRepository) GetRecipesByOwner(ctx context.Context, ownerID string) ([]models.Recipe, error) {
	return r.find(ctx, bson.M{"createdBy": ownerID})
}

// GetRecipesByIDs retrieves the recipes whose ids are listed. Malformed and
// unknown ids are skipped; order is unspecified.
func (r *MongoRecipeRepository) GetRecipesByIDs(ctx context.Context, ids []string) ([]models.Recipe, error) {
	objIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if objID, err := primitive.ObjectIDFromHex(id); err == nil {
			objIDs = append(objIDs, objID)
		}
	}
	if len(objIDs) == 0 {
		return []models.Recipe{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": objIDs}})
}

func (r *MongoRecipeRepository) find(ctx context.Context, filter bson.M) ([]models.Recipe, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	recipes := []models.Recipe{}
	if err = cursor.All(ctx, &recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

// ReplaceRecipe writes the whole document back. There is no version check:
// concurrent writers race and the last one wins.
func (r *MongoRecipeRepository) ReplaceRecipe(ctx context.Context, recipe *models.Recipe) error {
	recipe.UpdatedAt = time.Now()
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": recipe.ID}, recipe)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteRecipes deletes every recipe with the given id owned by ownerID and
// returns how many were removed.
func (r *MongoRecipeRepository) DeleteRecipes(ctx context.Context, id, ownerID string) (int64, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, nil
	}
	res, err := r.collection.DeleteMany(ctx, bson.M{"_id": objID, "createdBy": ownerID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
