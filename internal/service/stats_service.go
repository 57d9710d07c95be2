package service

import (
	"context"
	"fmt"

	"coupon-service/internal/model"
	"coupon-service/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// statsService implements StatsService.
type statsService struct {
	ratings repository.RatingRepository
	coupons repository.CouponRepository
	logger  zerolog.Logger
}

// NewStatsService creates a new statistics service.
func NewStatsService(ratings repository.RatingRepository, coupons repository.CouponRepository, logger zerolog.Logger) StatsService {
	return &statsService{
		ratings: ratings,
		coupons: coupons,
		logger:  logger.With().Str("service", "stats").Logger(),
	}
}

func (s *statsService) Averages(ctx context.Context, couponID uuid.UUID, window *model.DateRange) ([]model.QuestionStat, error) {
	aggregates, err := s.aggregate(ctx, couponID, window)
	if err != nil {
		return nil, err
	}

	stats := make([]model.QuestionStat, len(aggregates))
	for i, a := range aggregates {
		stats[i] = model.QuestionStat{
			QuestionID:    a.QuestionID,
			AverageRating: average(a),
			TotalRatings:  a.Count,
		}
	}
	return stats, nil
}

func (s *statsService) Totals(ctx context.Context, couponID uuid.UUID, window *model.DateRange) ([]model.QuestionTotal, error) {
	aggregates, err := s.aggregate(ctx, couponID, window)
	if err != nil {
		return nil, err
	}

	totals := make([]model.QuestionTotal, len(aggregates))
	for i, a := range aggregates {
		totals[i] = model.QuestionTotal{QuestionID: a.QuestionID, TotalRating: a.Sum}
	}
	return totals, nil
}

func (s *statsService) aggregate(ctx context.Context, couponID uuid.UUID, window *model.DateRange) ([]model.QuestionAggregate, error) {
	if window != nil && window.Start.After(window.End) {
		return nil, model.NewValidationError("startDate must not be after endDate")
	}

	c, err := s.coupons.GetByID(ctx, couponID)
	if err != nil {
		return nil, fmt.Errorf("failed to get coupon: %w", err)
	}
	if c == nil {
		return nil, model.ErrCouponNotFound
	}

	aggregates, err := s.ratings.AggregateByCoupon(ctx, couponID, window)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate ratings: %w", err)
	}

	s.logger.Debug().
		Str("coupon_id", couponID.String()).
		Int("questions", len(aggregates)).
		Bool("windowed", window != nil).
		Msg("ratings aggregated")

	return aggregates, nil
}

// average is zero when there are no ratings.
func average(a model.QuestionAggregate) float64 {
	if a.Count == 0 {
		return 0
	}
	return float64(a.Sum) / float64(a.Count)
}
