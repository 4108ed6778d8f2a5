package models

// Rating bounds.
const (
	MinRating = 1
	MaxRating = 5
)

// Rating is one user's score for a recipe. A recipe holds at most one
// Rating per user.
type Rating struct {
	User  string `json:"user" bson:"user"`
	Value int    `json:"value" bson:"value"`
}

type RateRecipeRequest struct {
	Value int `json:"value" validate:"required,min=1,max=5"`
}

// RatingChange reports what UpsertRating did.
type RatingChange int

const (
	RatingCreated RatingChange = iota
	RatingUpdated
)

// UpsertRating looks up the rating left by userID. An existing rating has
// its value overwritten; otherwise a new rating is appended.
func (r *Recipe) UpsertRating(userID string, value int) RatingChange {
	for i := range r.Ratings {
		if r.Ratings[i].User == userID {
			r.Ratings[i].Value = value
			return RatingUpdated
		}
	}
	r.Ratings = append(r.Ratings, Rating{User: userID, Value: value})
	return RatingCreated
}

// RatingBy returns the rating left by userID, if any.
func (r *Recipe) RatingBy(userID string) (Rating, bool) {
	for _, rating := range r.Ratings {
		if rating.User == userID {
			return rating, true
		}
	}
	return Rating{}, false
}
