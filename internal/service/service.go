package service

import (
	"context"

	"coupon-service/internal/model"
	"coupon-service/internal/payload"

	"github.com/google/uuid"
)

// CouponService defines operations for coupon management and lifecycle.
type CouponService interface {
	// Create stores a new coupon with a generated code.
	Create(ctx context.Context, req *model.CouponRequest) (*model.Coupon, error)

	// Import stores a coupon with the code it was defined with, unless that
	// code already exists. Reports whether a coupon was created.
	Import(ctx context.Context, req model.CouponRequest) (bool, error)

	// GetByID retrieves a coupon. Returns model.ErrCouponNotFound if missing.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Coupon, error)

	// List retrieves coupons with pagination.
	List(ctx context.Context, filter model.CouponFilter) ([]model.Coupon, error)

	// Update changes the caller-editable fields of a coupon.
	Update(ctx context.Context, id uuid.UUID, req *model.CouponRequest) (*model.Coupon, error)

	// Delete removes a coupon and its question links.
	Delete(ctx context.Context, id uuid.UUID) error

	// Claim reserves the coupon identified by id.
	Claim(ctx context.Context, id uuid.UUID) (*model.Coupon, error)

	// Redeem finalises the claimed coupon identified by code.
	Redeem(ctx context.Context, code string) (*model.Coupon, error)

	// BusinessStats summarises every coupon issued by a company.
	BusinessStats(ctx context.Context, companyName string) (*model.BusinessStats, error)
}

// QuestionService defines operations for coupon survey questions.
type QuestionService interface {
	// ListByCoupon retrieves the questions attached to a coupon.
	ListByCoupon(ctx context.Context, couponID uuid.UUID) ([]model.Question, error)

	// Create adds a question and attaches it to the coupon.
	Create(ctx context.Context, couponID uuid.UUID, req *model.QuestionRequest) (*model.Question, error)

	// Update changes a question's text and/or type.
	Update(ctx context.Context, id uuid.UUID, req *model.QuestionUpdateRequest) (*model.Question, error)
}

// RatingService records user ratings.
type RatingService interface {
	// Rate records user's rating of a question.
	Rate(ctx context.Context, questionID uuid.UUID, user model.User, req *model.RatingRequest) (*model.Rating, error)
}

// StatsService aggregates ratings per question of a coupon.
type StatsService interface {
	// Averages returns the mean rating and rating count per question.
	// A nil window aggregates every rating.
	Averages(ctx context.Context, couponID uuid.UUID, window *model.DateRange) ([]model.QuestionStat, error)

	// Totals returns the summed rating values per question.
	Totals(ctx context.Context, couponID uuid.UUID, window *model.DateRange) ([]model.QuestionTotal, error)
}

// QRCodeService produces and reads coupon QR artifacts.
type QRCodeService interface {
	// Generate returns the QR artifact of a coupon.
	Generate(ctx context.Context, couponID uuid.UUID) (*payload.Artifact, error)

	// Decode opens scanned QR content back into the coupon payload.
	Decode(ctx context.Context, content string) (*payload.Payload, error)
}
