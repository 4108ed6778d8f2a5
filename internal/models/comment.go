package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrCommentNotFound is returned when a recipe has no comment with the given id.
	ErrCommentNotFound = errors.New("comment not found")
	// ErrNotCommentOwner is returned when someone other than the author edits a comment.
	ErrNotCommentOwner = errors.New("not the comment owner")
)

// Comment is a comment embedded in a recipe. Username is a snapshot of the
// author's display name when the comment was written.
type Comment struct {
	ID        primitive.ObjectID `json:"id" bson:"_id"`
	User      string             `json:"user" bson:"user"`
	Username  string             `json:"username" bson:"username"`
	Text      string             `json:"text" bson:"text"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// CreateCommentRequest is the body of POST /recipes/comment. UserID is
// accepted for compatibility; the author is always the authenticated caller.
type CreateCommentRequest struct {
	RecipeID string `json:"id" validate:"required"`
	UserID   string `json:"userId"`
	Text     string `json:"text" validate:"required"`
}

// UpdateCommentRequest defines the request body for updating an existing comment
type UpdateCommentRequest struct {
	Text string `json:"text" validate:"required"`
}

// AddComment appends a new comment and returns it.
func (r *Recipe) AddComment(userID, username, text string, now time.Time) Comment {
	c := Comment{
		ID:        primitive.NewObjectID(),
		User:      userID,
		Username:  username,
		Text:      text,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.Comments = append(r.Comments, c)
	return c
}

// EditComment overwrites the text of the comment with the given id if it
// was written by callerID.
func (r *Recipe) EditComment(commentID primitive.ObjectID, callerID, text string, now time.Time) (Comment, error) {
	for i := range r.Comments {
		if r.Comments[i].ID != commentID {
			continue
		}
		if r.Comments[i].User != callerID {
			return Comment{}, ErrNotCommentOwner
		}
		r.Comments[i].Text = text
		r.Comments[i].UpdatedAt = now
		return r.Comments[i], nil
	}
	return Comment{}, ErrCommentNotFound
}
