package services

import (
	"context"
	"errors"
	"testing"

	"github.com/anonto42/recipe-share/backend/internal/models"
	"github.com/anonto42/recipe-share/backend/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateStampsOwner(t *testing.T) {
	f := newFixture(t)
	owner := f.register(t, "asha", "asha@example.com")

	r := f.createRecipe(t, owner, "Khichdi")
	assert.False(t, r.ID.IsZero())
	assert.Equal(t, owner.ID, r.CreatedBy)

	got, err := f.recipe.GetByID(context.Background(), r.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Khichdi", got.Title)
	assert.Equal(t, []string{"rice", "lentils"}, got.Ingredients)
}

func TestCreateSurfacesStoreFailure(t *testing.T) {
	f := newFixture(t)
	f.recipes.Err = errors.New("write concern timeout")

	_, err := f.recipe.Create(context.Background(), models.Identity{ID: "u1"}, models.CreateRecipeRequest{Title: "x"})
	assertCode(t, err, apperr.ErrCodeInternal)
	assert.Contains(t, err.Error(), "write concern timeout")
}

func TestListAndListMine(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	asha := f.register(t, "asha", "asha@example.com")
	ben := f.register(t, "ben", "ben@example.com")
	f.createRecipe(t, asha, "Dal")
	f.createRecipe(t, asha, "Roti")
	f.createRecipe(t, ben, "Pasta")

	all, err := f.recipe.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	mine, err := f.recipe.ListMine(ctx, asha.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
	for _, r := range mine {
		assert.Equal(t, asha.ID, r.CreatedBy)
	}

	_, err = f.recipe.ListMine(ctx, "")
	assertCode(t, err, apperr.ErrCodeValidation)
}

func TestDeleteMine(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	asha := f.register(t, "asha", "asha@example.com")
	ben := f.register(t, "ben", "ben@example.com")
	r := f.createRecipe(t, asha, "Dal")
	require.NoError(t, f.recipe.Save(ctx, ben, r.ID.Hex()))

	_, err := f.recipe.DeleteMine(ctx, asha, "")
	assertCode(t, err, apperr.ErrCodeValidation)

	n, err := f.recipe.DeleteMine(ctx, ben, r.ID.Hex())
	require.NoError(t, err)
	assert.Zero(t, n, "only the owner can delete")

	n, err = f.recipe.DeleteMine(ctx, asha, r.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = f.recipe.GetByID(ctx, r.ID.Hex())
	assertCode(t, err, apperr.ErrCodeNotFound)

	saved, err := f.recipe.ListSaved(ctx, ben)
	require.NoError(t, err)
	assert.Empty(t, saved)
}

func TestGetByIDNotFound(t *testing.T) {
	f := newFixture(t)

	for _, id := range []string{primitive.NewObjectID().Hex(), "garbage", ""} {
		r, err := f.recipe.GetByID(context.Background(), id)
		assertCode(t, err, apperr.ErrCodeNotFound)
		assert.Nil(t, r)
	}
}

func TestSaveIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	asha := f.register(t, "asha", "asha@example.com")
	r := f.createRecipe(t, asha, "Dal")

	require.NoError(t, f.recipe.Save(ctx, asha, r.ID.Hex()))
	require.NoError(t, f.recipe.Save(ctx, asha, r.ID.Hex()))

	ids, err := f.saved.GetSavedRecipeIDs(ctx, asha.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{r.ID.Hex()}, ids)
}

func TestSaveNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	asha := f.register(t, "asha", "asha@example.com")
	r := f.createRecipe(t, asha, "Dal")

	err := f.recipe.Save(ctx, models.Identity{ID: "ghost"}, r.ID.Hex())
	assertCode(t, err, apperr.ErrCodeNotFound)

	err = f.recipe.Save(ctx, asha, primitive.NewObjectID().Hex())
	assertCode(t, err, apperr.ErrCodeNotFound)

	err = f.recipe.Save(ctx, asha, "")
	assertCode(t, err, apperr.ErrCodeValidation)
}

func TestListSavedKeepsSaveOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	asha := f.register(t, "asha", "asha@example.com")
	first := f.createRecipe(t, asha, "First")
	second := f.createRecipe(t, asha, "Second")
	third := f.createRecipe(t, asha, "Third")

	empty, err := f.recipe.ListSaved(ctx, asha)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	for _, r := range []*models.Recipe{third, first, second} {
		require.NoError(t, f.recipe.Save(ctx, asha, r.ID.Hex()))
	}

	saved, err := f.recipe.ListSaved(ctx, asha)
	require.NoError(t, err)
	require.Len(t, saved, 3)
	assert.Equal(t, "Third", saved[0].Title)
	assert.Equal(t, "First", saved[1].Title)
	assert.Equal(t, "Second", saved[2].Title)

	require.NoError(t, f.recipe.Unsave(ctx, asha, first.ID.Hex()))
	require.NoError(t, f.recipe.Unsave(ctx, asha, first.ID.Hex()))
	saved, err = f.recipe.ListSaved(ctx, asha)
	require.NoError(t, err)
	assert.Len(t, saved, 2)

	_, err = f.recipe.ListSaved(ctx, models.Identity{ID: "ghost"})
	assertCode(t, err, apperr.ErrCodeNotFound)
}

func TestRateUpserts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	asha := f.register(t, "asha", "asha@example.com")
	ben := f.register(t, "ben", "ben@example.com")
	r := f.createRecipe(t, asha, "Dal")
	id := r.ID.Hex()

	_, err := f.recipe.Rate(ctx, ben, id, models.RateRecipeRequest{Value: 4})
	require.NoError(t, err)
	_, err = f.recipe.Rate(ctx, ben, id, models.RateRecipeRequest{Value: 2})
	require.NoError(t, err)

	got, err := f.recipe.GetByID(ctx, id)
	require.NoError(t, err)
	require.Len(t, got.Ratings, 1)
	assert.Equal(t, models.Rating{User: ben.ID, Value: 2}, got.Ratings[0])

	_, err = f.recipe.Rate(ctx, asha, id, models.RateRecipeRequest{Value: 5})
	require.NoError(t, err)
	got, err = f.recipe.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Len(t, got.Ratings, 2)
}

func TestRateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	asha := f.register(t, "asha", "asha@example.com")
	r := f.createRecipe(t, asha, "Dal")

	for _, v := range []int{0, -1, 6} {
		_, err := f.recipe.Rate(ctx, asha, r.ID.Hex(), models.RateRecipeRequest{Value: v})
		assertCode(t, err, apperr.ErrCodeValidation)
	}

	_, err := f.recipe.Rate(ctx, asha, primitive.NewObjectID().Hex(), models.RateRecipeRequest{Value: 3})
	assertCode(t, err, apperr.ErrCodeNotFound)

	_, err = f.recipe.Rate(ctx, asha, "", models.RateRecipeRequest{Value: 3})
	assertCode(t, err, apperr.ErrCodeValidation)
}

func TestCommentAppendsWithUsernameSnapshot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	asha := f.register(t, "asha", "asha@example.com")
	r := f.createRecipe(t, asha, "Dal")
	req := models.CreateCommentRequest{RecipeID: r.ID.Hex(), Text: "delicious"}

	c, err := f.recipe.Comment(ctx, asha, req)
	require.NoError(t, err)
	assert.Equal(t, "asha", c.Username)
	assert.Equal(t, asha.ID, c.User)
	assert.False(t, c.ID.IsZero())

	_, err = f.recipe.Comment(ctx, asha, req)
	require.NoError(t, err)

	got, err := f.recipe.GetByID(ctx, r.ID.Hex())
	require.NoError(t, err)
	assert.Len(t, got.Comments, 2, "repeated comments are not deduplicated")
}

func TestCommentFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	asha := f.register(t, "asha", "asha@example.com")
	r := f.createRecipe(t, asha, "Dal")

	_, err := f.recipe.Comment(ctx, asha, models.CreateCommentRequest{RecipeID: r.ID.Hex()})
	assertCode(t, err, apperr.ErrCodeValidation)

	_, err = f.recipe.Comment(ctx, asha, models.CreateCommentRequest{RecipeID: primitive.NewObjectID().Hex(), Text: "hi"})
	assertCode(t, err, apperr.ErrCodeNotFound)

	_, err = f.recipe.Comment(ctx, models.Identity{ID: "ghost"}, models.CreateCommentRequest{RecipeID: r.ID.Hex(), Text: "hi"})
	assertCode(t, err, apperr.ErrCodeNotFound)
}

func TestEditComment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	asha := f.register(t, "asha", "asha@example.com")
	ben := f.register(t, "ben", "ben@example.com")
	r := f.createRecipe(t, asha, "Dal")

	mine, err := f.recipe.Comment(ctx, asha, models.CreateCommentRequest{RecipeID: r.ID.Hex(), Text: "needs salt"})
	require.NoError(t, err)
	other, err := f.recipe.Comment(ctx, ben, models.CreateCommentRequest{RecipeID: r.ID.Hex(), Text: "great"})
	require.NoError(t, err)

	_, err = f.recipe.EditComment(ctx, ben, mine.ID.Hex(), models.UpdateCommentRequest{Text: "hijacked"})
	assertCode(t, err, apperr.ErrCodeForbidden)

	edited, err := f.recipe.EditComment(ctx, asha, mine.ID.Hex(), models.UpdateCommentRequest{Text: "perfect now"})
	require.NoError(t, err)
	assert.Equal(t, "perfect now", edited.Text)

	got, err := f.recipe.GetByID(ctx, r.ID.Hex())
	require.NoError(t, err)
	require.Len(t, got.Comments, 2)
	assert.Equal(t, "perfect now", got.Comments[0].Text)
	assert.Equal(t, "great", got.Comments[1].Text)
	assert.Equal(t, other.ID, got.Comments[1].ID)

	_, err = f.recipe.EditComment(ctx, asha, mine.ID.Hex(), models.UpdateCommentRequest{})
	assertCode(t, err, apperr.ErrCodeValidation)

	_, err = f.recipe.EditComment(ctx, asha, primitive.NewObjectID().Hex(), models.UpdateCommentRequest{Text: "x"})
	assertCode(t, err, apperr.ErrCodeNotFound)

	_, err = f.recipe.EditComment(ctx, asha, "not-an-id", models.UpdateCommentRequest{Text: "x"})
	assertCode(t, err, apperr.ErrCodeNotFound)
}

func TestReviews(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "asha", "asha@example.com")
	r := f.createRecipe(t, owner, "Dal")

	empty, err := f.recipe.Reviews(ctx, r.ID.Hex())
	require.NoError(t, err)
	assert.Zero(t, empty.AverageRating)
	assert.Empty(t, empty.Comments)

	for i, v := range []int{5, 3, 4} {
		rater := f.register(t, "rater", string(rune('a'+i))+"@example.com")
		_, err := f.recipe.Rate(ctx, rater, r.ID.Hex(), models.RateRecipeRequest{Value: v})
		require.NoError(t, err)
	}
	_, err = f.recipe.Comment(ctx, owner, models.CreateCommentRequest{RecipeID: r.ID.Hex(), Text: "family favourite"})
	require.NoError(t, err)

	review, err := f.recipe.Reviews(ctx, r.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 4.0, review.AverageRating)
	assert.Equal(t, 3, review.Count)
	assert.Equal(t, []models.ReviewComment{{Text: "family favourite", Username: "asha"}}, review.Comments)

	_, err = f.recipe.Reviews(ctx, primitive.NewObjectID().Hex())
	assertCode(t, err, apperr.ErrCodeNotFound)

	_, err = f.recipe.Reviews(ctx, "")
	assertCode(t, err, apperr.ErrCodeValidation)
}
