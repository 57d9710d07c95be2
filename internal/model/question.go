package model

import (
	"time"

	"github.com/google/uuid"
)

// Question is a survey prompt attached to one or more coupons.
type Question struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Question  string    `json:"question" db:"question"`
	Type      string    `json:"type" db:"type"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// QuestionRequest is the request payload for creating a question.
type QuestionRequest struct {
	Question string `json:"question" validate:"required"`
	Type     string `json:"type" validate:"required"`
}

// QuestionUpdateRequest is the request payload for updating a question.
// Empty fields are left unchanged.
type QuestionUpdateRequest struct {
	Question string `json:"question" validate:"required_without=Type"`
	Type     string `json:"type"`
}

// Rating is a single user's score for a question.
type Rating struct {
	ID         uuid.UUID `json:"id" db:"id"`
	QuestionID uuid.UUID `json:"questionId" db:"question_id"`
	UserID     uuid.UUID `json:"userId" db:"user_id"`
	Rating     int       `json:"rating" db:"rating"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}

// RatingRequest is the request payload for recording a rating.
type RatingRequest struct {
	Rating int `json:"rating" validate:"required,min=1,max=5"`
}

// User is the minimal identity a rating refers to.
type User struct {
	ID    uuid.UUID `json:"id" db:"id"`
	Email string    `json:"email" db:"email"`
	Role  string    `json:"role" db:"role"`
}
