package repository

import (
	"context"
	"errors"
	"fmt"

	"coupon-service/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// questionRepository implements the QuestionRepository interface using PostgreSQL.
type questionRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewQuestionRepository creates a new PostgreSQL-backed question repository.
func NewQuestionRepository(pool *pgxpool.Pool, logger zerolog.Logger) QuestionRepository {
	return &questionRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "question").Logger(),
	}
}

// CreateForCoupon inserts the question and its coupon link in one transaction.
func (r *questionRepository) CreateForCoupon(ctx context.Context, couponID uuid.UUID, q *model.Question) error {
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO questions (id, question, type, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5)
		`, q.ID, q.Question, q.Type, q.CreatedAt, q.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert question: %w", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO coupon_questions (coupon_id, question_id, created_at)
			VALUES ($1, $2, $3)
		`, couponID, q.ID, q.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to link question: %w", err)
		}
		return nil
	})
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("coupon_id", couponID.String()).
			Str("question_id", q.ID.String()).
			Msg("failed to create question")
		return err
	}

	r.logger.Debug().
		Str("coupon_id", couponID.String()).
		Str("question_id", q.ID.String()).
		Msg("question created successfully")

	return nil
}

// ListByCoupon retrieves the questions linked to a coupon, oldest first.
func (r *questionRepository) ListByCoupon(ctx context.Context, couponID uuid.UUID) ([]model.Question, error) {
	query := `
		SELECT q.id, q.question, q.type, q.created_at, q.updated_at
		FROM coupon_questions cq
		JOIN questions q ON q.id = cq.question_id
		WHERE cq.coupon_id = $1
		ORDER BY q.created_at, q.id
	`

	rows, err := r.pool.Query(ctx, query, couponID)
	if err != nil {
		r.logger.Error().Err(err).Str("coupon_id", couponID.String()).Msg("failed to query questions")
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer rows.Close()

	questions := []model.Question{}
	for rows.Next() {
		var q model.Question
		if err := rows.Scan(&q.ID, &q.Question, &q.Type, &q.CreatedAt, &q.UpdatedAt); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan question row")
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, q)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating questions: %w", err)
	}

	return questions, nil
}

// GetByID retrieves a question by its ID.
func (r *questionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Question, error) {
	query := `SELECT id, question, type, created_at, updated_at FROM questions WHERE id = $1`

	var q model.Question
	err := r.pool.QueryRow(ctx, query, id).Scan(&q.ID, &q.Question, &q.Type, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("question_id", id.String()).Msg("question not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("question_id", id.String()).Msg("failed to query question")
		return nil, fmt.Errorf("failed to query question: %w", err)
	}

	return &q, nil
}

// Update writes the question text and type.
func (r *questionRepository) Update(ctx context.Context, q *model.Question) error {
	query := `UPDATE questions SET question = $2, type = $3, updated_at = $4 WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, q.ID, q.Question, q.Type, q.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("question_id", q.ID.String()).Msg("failed to update question")
		return fmt.Errorf("failed to update question: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrQuestionNotFound
	}

	return nil
}
