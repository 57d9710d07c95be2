package repository

import (
	"context"
	"fmt"
	"time"

	"coupon-service/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// ratingRepository implements the RatingRepository interface using PostgreSQL.
type ratingRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewRatingRepository creates a new PostgreSQL-backed rating repository.
func NewRatingRepository(pool *pgxpool.Pool, logger zerolog.Logger) RatingRepository {
	return &ratingRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "rating").Logger(),
	}
}

// Create registers the user if unknown and inserts the rating.
func (r *ratingRepository) Create(ctx context.Context, rating *model.Rating, user model.User) error {
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO users (id, email, role)
			VALUES ($1, $2, $3)
			ON CONFLICT (id) DO NOTHING
		`, user.ID, user.Email, user.Role)
		if err != nil {
			return fmt.Errorf("failed to register user: %w", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO ratings (id, question_id, user_id, rating, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, rating.ID, rating.QuestionID, rating.UserID, rating.Rating, rating.CreatedAt, rating.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert rating: %w", err)
		}
		return nil
	})
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("question_id", rating.QuestionID.String()).
			Str("user_id", rating.UserID.String()).
			Msg("failed to create rating")
		return err
	}

	r.logger.Debug().
		Str("rating_id", rating.ID.String()).
		Str("question_id", rating.QuestionID.String()).
		Int("rating", rating.Rating).
		Msg("rating created successfully")

	return nil
}

// AggregateByCoupon returns count and sum of ratings per linked question.
// A nil window aggregates every rating.
func (r *ratingRepository) AggregateByCoupon(ctx context.Context, couponID uuid.UUID, window *model.DateRange) ([]model.QuestionAggregate, error) {
	query := `
		SELECT q.id, COUNT(rt.id), COALESCE(SUM(rt.rating), 0)
		FROM coupon_questions cq
		JOIN questions q ON q.id = cq.question_id
		LEFT JOIN ratings rt ON rt.question_id = q.id
			AND ($2::timestamptz IS NULL OR rt.created_at >= $2)
			AND ($3::timestamptz IS NULL OR rt.created_at <= $3)
		WHERE cq.coupon_id = $1
		GROUP BY q.id, q.created_at
		ORDER BY q.created_at, q.id
	`

	var start, end *time.Time
	if window != nil {
		start, end = &window.Start, &window.End
	}

	rows, err := r.pool.Query(ctx, query, couponID, start, end)
	if err != nil {
		r.logger.Error().Err(err).Str("coupon_id", couponID.String()).Msg("failed to aggregate ratings")
		return nil, fmt.Errorf("failed to aggregate ratings: %w", err)
	}
	defer rows.Close()

	aggregates := []model.QuestionAggregate{}
	for rows.Next() {
		var a model.QuestionAggregate
		if err := rows.Scan(&a.QuestionID, &a.Count, &a.Sum); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan rating aggregate")
			return nil, fmt.Errorf("failed to scan rating aggregate: %w", err)
		}
		aggregates = append(aggregates, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rating aggregates: %w", err)
	}

	return aggregates, nil
}
