package service

import (
	"context"
	"fmt"
	"time"

	"coupon-service/internal/model"
	"coupon-service/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ratingService implements RatingService.
type ratingService struct {
	ratings   repository.RatingRepository
	questions repository.QuestionRepository
	logger    zerolog.Logger
}

// NewRatingService creates a new rating service.
func NewRatingService(ratings repository.RatingRepository, questions repository.QuestionRepository, logger zerolog.Logger) RatingService {
	return &ratingService{
		ratings:   ratings,
		questions: questions,
		logger:    logger.With().Str("service", "rating").Logger(),
	}
}

// Rate records an immutable rating. The rating user is registered on first use.
func (s *ratingService) Rate(ctx context.Context, questionID uuid.UUID, user model.User, req *model.RatingRequest) (*model.Rating, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, model.NewValidationError("Rating must be between 1 and 5")
	}
	if user.ID == uuid.Nil {
		return nil, model.NewValidationError("Rating user is required")
	}

	q, err := s.questions.GetByID(ctx, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	if q == nil {
		return nil, model.ErrQuestionNotFound
	}

	now := time.Now().UTC()
	rating := &model.Rating{
		ID:         uuid.New(),
		QuestionID: questionID,
		UserID:     user.ID,
		Rating:     req.Rating,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.ratings.Create(ctx, rating, user); err != nil {
		return nil, fmt.Errorf("failed to record rating: %w", err)
	}

	s.logger.Info().
		Str("question_id", questionID.String()).
		Str("user_id", user.ID.String()).
		Int("rating", req.Rating).
		Msg("rating recorded")

	return rating, nil
}
