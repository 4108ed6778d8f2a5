package models

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Recipe is a recipe document stored in MongoDB. Ratings and comments are
// embedded so every mutation is a single-document write.
type Recipe struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title        string             `json:"title" bson:"title"`
	Description  string             `json:"description" bson:"description"`
	Ingredients  []string           `json:"ingredients" bson:"ingredients"`
	Instructions string             `json:"instructions" bson:"instructions"`
	CookingTime  string             `json:"cookingTime" bson:"cookingTime"`
	Servings     string             `json:"servings" bson:"servings"`
	Image        string             `json:"image,omitempty" bson:"image,omitempty"`
	Video        string             `json:"video,omitempty" bson:"video,omitempty"`
	Steps        string             `json:"steps,omitempty" bson:"steps,omitempty"`
	CreatedBy    string             `json:"createdBy" bson:"createdBy"` // id of the creating user, never changed
	Ratings      []Rating           `json:"ratings" bson:"ratings"`
	Comments     []Comment          `json:"comments" bson:"comments"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// CreateRecipeRequest lists the caller-supplied recipe fields. The owner
// is always taken from the authenticated identity.
type CreateRecipeRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Ingredients  []string `json:"ingredients"`
	Instructions string   `json:"instructions"`
	CookingTime  string   `json:"cookingTime"`
	Servings     string   `json:"servings"`
	Image        string   `json:"image,omitempty"`
	Video        string   `json:"video,omitempty"`
	Steps        string   `json:"steps,omitempty"`
}

// NewRecipe builds a Recipe owned by ownerID from req.
func NewRecipe(ownerID string, req CreateRecipeRequest, now time.Time) *Recipe {
	ingredients := req.Ingredients
	if ingredients == nil {
		ingredients = []string{}
	}
	return &Recipe{
		Title:        req.Title,
		Description:  req.Description,
		Ingredients:  ingredients,
		Instructions: req.Instructions,
		CookingTime:  req.CookingTime,
		Servings:     req.Servings,
		Image:        req.Image,
		Video:        req.Video,
		Steps:        req.Steps,
		CreatedBy:    ownerID,
		Ratings:      []Rating{},
		Comments:     []Comment{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Review is the aggregate view of a recipe's ratings and comments.
type Review struct {
	AverageRating float64         `json:"averageRating"`
	Count         int             `json:"count"`
	Comments      []ReviewComment `json:"comments"`
}

// ReviewComment is the public projection of a Comment.
type ReviewComment struct {
	Text     string `json:"text"`
	Username string `json:"username"`
}

type ReviewsRequest struct {
	ID     string `json:"id" validate:"required"`
	UserID string `json:"userId"`
}

// Review computes the average rating, rounded to one decimal, and the
// comment projection. A recipe without ratings averages 0.
func (r *Recipe) Review() Review {
	review := Review{Count: len(r.Ratings), Comments: make([]ReviewComment, 0, len(r.Comments))}
	if len(r.Ratings) > 0 {
		sum := 0
		for _, rating := range r.Ratings {
			sum += rating.Value
		}
		avg := float64(sum) / float64(len(r.Ratings))
		review.AverageRating = math.Round(avg*10) / 10
	}
	for _, c := range r.Comments {
		review.Comments = append(review.Comments, ReviewComment{Text: c.Text, Username: c.Username})
	}
	return review
}
