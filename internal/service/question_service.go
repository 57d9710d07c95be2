package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"coupon-service/internal/model"
	"coupon-service/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// questionService implements QuestionService.
type questionService struct {
	questions repository.QuestionRepository
	coupons   repository.CouponRepository
	logger    zerolog.Logger
}

// NewQuestionService creates a new question service.
func NewQuestionService(questions repository.QuestionRepository, coupons repository.CouponRepository, logger zerolog.Logger) QuestionService {
	return &questionService{
		questions: questions,
		coupons:   coupons,
		logger:    logger.With().Str("service", "question").Logger(),
	}
}

func (s *questionService) ListByCoupon(ctx context.Context, couponID uuid.UUID) ([]model.Question, error) {
	if err := s.requireCoupon(ctx, couponID); err != nil {
		return nil, err
	}

	questions, err := s.questions.ListByCoupon(ctx, couponID)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return questions, nil
}

func (s *questionService) Create(ctx context.Context, couponID uuid.UUID, req *model.QuestionRequest) (*model.Question, error) {
	if err := s.requireCoupon(ctx, couponID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	q := &model.Question{
		ID:        uuid.New(),
		Question:  strings.TrimSpace(req.Question),
		Type:      strings.TrimSpace(req.Type),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.questions.CreateForCoupon(ctx, couponID, q); err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}

	s.logger.Info().
		Str("coupon_id", couponID.String()).
		Str("question_id", q.ID.String()).
		Msg("question created")

	return q, nil
}

func (s *questionService) Update(ctx context.Context, id uuid.UUID, req *model.QuestionUpdateRequest) (*model.Question, error) {
	q, err := s.questions.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	if q == nil {
		return nil, model.ErrQuestionNotFound
	}

	if text := strings.TrimSpace(req.Question); text != "" {
		q.Question = text
	}
	if typ := strings.TrimSpace(req.Type); typ != "" {
		q.Type = typ
	}
	q.UpdatedAt = time.Now().UTC()

	if err := s.questions.Update(ctx, q); err != nil {
		if err == model.ErrQuestionNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update question: %w", err)
	}

	s.logger.Info().Str("question_id", id.String()).Msg("question updated")

	return q, nil
}

func (s *questionService) requireCoupon(ctx context.Context, couponID uuid.UUID) error {
	c, err := s.coupons.GetByID(ctx, couponID)
	if err != nil {
		return fmt.Errorf("failed to get coupon: %w", err)
	}
	if c == nil {
		return model.ErrCouponNotFound
	}
	return nil
}
