package repository

import (
	"context"
	"time"

	"coupon-service/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CouponRepository defines the interface for coupon data access operations.
type CouponRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// Create inserts a new coupon.
	// Returns a validation error if the coupon code is already taken.
	Create(ctx context.Context, coupon *model.Coupon) error

	// CreateIfAbsent inserts a coupon unless its code already exists.
	// Reports whether a row was inserted.
	CreateIfAbsent(ctx context.Context, coupon *model.Coupon) (bool, error)

	// GetByID retrieves a coupon by its ID. Returns nil if not found.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Coupon, error)

	// List retrieves coupons matching the filter with pagination support.
	List(ctx context.Context, filter model.CouponFilter) ([]model.Coupon, error)

	// LockByID retrieves a coupon by ID and holds a row lock until tx ends.
	LockByID(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Coupon, error)

	// LockByCode retrieves a coupon by code and holds a row lock until tx ends.
	LockByCode(ctx context.Context, tx pgx.Tx, code string) (*model.Coupon, error)

	// SaveLifecycle writes status and counters within the provided transaction.
	SaveLifecycle(ctx context.Context, tx pgx.Tx, coupon *model.Coupon) error

	// UpdateDetails writes the caller-editable fields within the provided transaction.
	UpdateDetails(ctx context.Context, tx pgx.Tx, coupon *model.Coupon) error

	// Delete removes a coupon and its question links. Reports whether it existed.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	// BusinessStats aggregates every coupon of a company.
	BusinessStats(ctx context.Context, companyName string, now time.Time) (*model.BusinessStats, error)
}

// QuestionRepository defines the interface for question data access operations.
type QuestionRepository interface {
	// CreateForCoupon inserts a question and links it to the coupon.
	CreateForCoupon(ctx context.Context, couponID uuid.UUID, question *model.Question) error

	// ListByCoupon retrieves the questions linked to a coupon.
	ListByCoupon(ctx context.Context, couponID uuid.UUID) ([]model.Question, error)

	// GetByID retrieves a question by its ID. Returns nil if not found.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Question, error)

	// Update writes the question text and type.
	Update(ctx context.Context, question *model.Question) error
}

// RatingRepository defines the interface for rating data access operations.
type RatingRepository interface {
	// Create records a rating, registering the rating user if unknown.
	Create(ctx context.Context, rating *model.Rating, user model.User) error

	// AggregateByCoupon returns count and sum of ratings for every question
	// linked to the coupon, optionally restricted to a creation date range.
	// Questions without ratings are included with zero values.
	AggregateByCoupon(ctx context.Context, couponID uuid.UUID, window *model.DateRange) ([]model.QuestionAggregate, error)
}
