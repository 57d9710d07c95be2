package handler

import (
	"context"
	"net/http"

	"coupon-service/internal/model"
	"coupon-service/internal/payload"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockCouponService is a mock implementation of CouponService.
type MockCouponService struct {
	mock.Mock
}

func (m *MockCouponService) Create(ctx context.Context, req *model.CouponRequest) (*model.Coupon, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Coupon), args.Error(1)
}

func (m *MockCouponService) Import(ctx context.Context, req model.CouponRequest) (bool, error) {
	args := m.Called(ctx, req)
	return args.Bool(0), args.Error(1)
}

func (m *MockCouponService) GetByID(ctx context.Context, id uuid.UUID) (*model.Coupon, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Coupon), args.Error(1)
}

func (m *MockCouponService) List(ctx context.Context, filter model.CouponFilter) ([]model.Coupon, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Coupon), args.Error(1)
}

func (m *MockCouponService) Update(ctx context.Context, id uuid.UUID, req *model.CouponRequest) (*model.Coupon, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Coupon), args.Error(1)
}

func (m *MockCouponService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCouponService) Claim(ctx context.Context, id uuid.UUID) (*model.Coupon, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Coupon), args.Error(1)
}

func (m *MockCouponService) Redeem(ctx context.Context, code string) (*model.Coupon, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Coupon), args.Error(1)
}

func (m *MockCouponService) BusinessStats(ctx context.Context, companyName string) (*model.BusinessStats, error) {
	args := m.Called(ctx, companyName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BusinessStats), args.Error(1)
}

// MockQuestionService is a mock implementation of QuestionService.
type MockQuestionService struct {
	mock.Mock
}

func (m *MockQuestionService) ListByCoupon(ctx context.Context, couponID uuid.UUID) ([]model.Question, error) {
	args := m.Called(ctx, couponID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Question), args.Error(1)
}

func (m *MockQuestionService) Create(ctx context.Context, couponID uuid.UUID, req *model.QuestionRequest) (*model.Question, error) {
	args := m.Called(ctx, couponID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Question), args.Error(1)
}

func (m *MockQuestionService) Update(ctx context.Context, id uuid.UUID, req *model.QuestionUpdateRequest) (*model.Question, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Question), args.Error(1)
}

// MockRatingService is a mock implementation of RatingService.
type MockRatingService struct {
	mock.Mock
}

func (m *MockRatingService) Rate(ctx context.Context, questionID uuid.UUID, user model.User, req *model.RatingRequest) (*model.Rating, error) {
	args := m.Called(ctx, questionID, user, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Rating), args.Error(1)
}

// MockStatsService is a mock implementation of StatsService.
type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) Averages(ctx context.Context, couponID uuid.UUID, window *model.DateRange) ([]model.QuestionStat, error) {
	args := m.Called(ctx, couponID, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.QuestionStat), args.Error(1)
}

func (m *MockStatsService) Totals(ctx context.Context, couponID uuid.UUID, window *model.DateRange) ([]model.QuestionTotal, error) {
	args := m.Called(ctx, couponID, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.QuestionTotal), args.Error(1)
}

// MockQRCodeService is a mock implementation of QRCodeService.
type MockQRCodeService struct {
	mock.Mock
}

func (m *MockQRCodeService) Generate(ctx context.Context, couponID uuid.UUID) (*payload.Artifact, error) {
	args := m.Called(ctx, couponID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payload.Artifact), args.Error(1)
}

func (m *MockQRCodeService) Decode(ctx context.Context, content string) (*payload.Payload, error) {
	args := m.Called(ctx, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payload.Payload), args.Error(1)
}

// withURLParams attaches chi route parameters to req.
func withURLParams(req *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}
