package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"coupon-service/internal/cache"
	"coupon-service/internal/lifecycle"
	"coupon-service/internal/model"
	"coupon-service/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

const (
	codeLength   = 10
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeAttempts = 3
)

// couponService implements CouponService.
type couponService struct {
	repo   repository.CouponRepository
	cache  cache.ArtifactCache
	now    func() time.Time
	logger zerolog.Logger
}

// NewCouponService creates a new coupon service.
func NewCouponService(repo repository.CouponRepository, artifacts cache.ArtifactCache, logger zerolog.Logger) CouponService {
	return &couponService{
		repo:   repo,
		cache:  artifacts,
		now:    time.Now,
		logger: logger.With().Str("service", "coupon").Logger(),
	}
}

// Create stores a new available coupon under a freshly generated code.
func (s *couponService) Create(ctx context.Context, req *model.CouponRequest) (*model.Coupon, error) {
	now := s.now().UTC()
	if err := validateExpiry(req, now); err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt < codeAttempts; attempt++ {
		c := newCoupon(req, generateCode(), now)

		err := s.repo.Create(ctx, c)
		if err == nil {
			s.logger.Info().
				Str("coupon_id", c.ID.String()).
				Str("coupon_code", c.CouponCode).
				Str("company_name", c.CompanyName).
				Msg("coupon created successfully")
			return c, nil
		}
		if !errors.Is(err, repository.ErrDuplicateCouponCode) {
			return nil, fmt.Errorf("failed to create coupon: %w", err)
		}

		lastErr = err
		s.logger.Warn().Str("coupon_code", c.CouponCode).Int("attempt", attempt+1).Msg("generated coupon code collided")
	}

	return nil, fmt.Errorf("failed to allocate a unique coupon code: %w", lastErr)
}

// Import stores a coupon keeping its defined code.
func (s *couponService) Import(ctx context.Context, req model.CouponRequest) (bool, error) {
	if req.CouponCode == "" {
		return false, model.NewValidationError("Coupon code is required for import")
	}

	c := newCoupon(&req, strings.ToUpper(req.CouponCode), s.now().UTC())
	created, err := s.repo.CreateIfAbsent(ctx, c)
	if err != nil {
		return false, fmt.Errorf("failed to import coupon: %w", err)
	}
	return created, nil
}

// GetByID retrieves a coupon by its ID.
func (s *couponService) GetByID(ctx context.Context, id uuid.UUID) (*model.Coupon, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get coupon: %w", err)
	}
	if c == nil {
		return nil, model.ErrCouponNotFound
	}
	return c, nil
}

// List retrieves coupons matching filter.
func (s *couponService) List(ctx context.Context, filter model.CouponFilter) ([]model.Coupon, error) {
	coupons, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list coupons: %w", err)
	}

	s.logger.Debug().
		Int("count", len(coupons)).
		Int("limit", filter.Limit).
		Int("offset", filter.Offset).
		Msg("retrieved coupons")

	return coupons, nil
}

// Update changes editable fields under a row lock. Counters are left to the
// lifecycle engine, which also re-derives the status when the expiry moved;
// capacity cannot drop below what was claimed.
func (s *couponService) Update(ctx context.Context, id uuid.UUID, req *model.CouponRequest) (*model.Coupon, error) {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update coupon: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	c, err := s.repo.LockByID(ctx, tx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update coupon: %w", err)
	}
	if c == nil {
		err = model.ErrCouponNotFound
		return nil, err
	}

	if req.TotalAvailable < c.ClaimedCount {
		err = model.NewValidationError(fmt.Sprintf(
			"totalAvailable cannot be lower than the %d units already claimed", c.ClaimedCount))
		return nil, err
	}

	c.Name = req.Name
	c.CompanyName = req.CompanyName
	c.CouponType = req.CouponType
	c.Product = req.Product
	c.Description = req.Description
	c.TotalAvailable = req.TotalAvailable
	c.ExpiryDate = req.ExpiryDate.UTC()
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
	now := s.now().UTC()
	c.UpdatedAt = now

	if err = s.repo.UpdateDetails(ctx, tx, c); err != nil {
		return nil, fmt.Errorf("failed to update coupon: %w", err)
	}

	// a moved expiry date can change the status
	reconciled, changed := lifecycle.Reconcile(*c, now)
	if changed {
		if err = s.repo.SaveLifecycle(ctx, tx, &reconciled); err != nil {
			return nil, fmt.Errorf("failed to update coupon: %w", err)
		}
		s.logger.Info().
			Str("coupon_id", id.String()).
			Str("from", string(c.Status)).
			Str("to", string(reconciled.Status)).
			Msg("coupon status reconciled after update")
		c = &reconciled
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("coupon_id", id.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to update coupon: %w", err)
	}

	s.dropArtifact(ctx, id)

	s.logger.Info().Str("coupon_id", id.String()).Msg("coupon updated successfully")

	return c, nil
}

// Delete removes a coupon permanently.
func (s *couponService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete coupon: %w", err)
	}
	if !deleted {
		return model.ErrCouponNotFound
	}

	s.dropArtifact(ctx, id)

	s.logger.Info().Str("coupon_id", id.String()).Msg("coupon deleted")
	return nil
}

// Claim reserves one unit of the coupon.
func (s *couponService) Claim(ctx context.Context, id uuid.UUID) (*model.Coupon, error) {
	return s.apply(ctx, lifecycle.Claim, func(tx pgx.Tx) (*model.Coupon, error) {
		return s.repo.LockByID(ctx, tx, id)
	})
}

// Redeem finalises the claimed coupon with the given code.
func (s *couponService) Redeem(ctx context.Context, code string) (*model.Coupon, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, model.NewValidationError("Coupon code is required")
	}

	return s.apply(ctx, lifecycle.Redeem, func(tx pgx.Tx) (*model.Coupon, error) {
		return s.repo.LockByCode(ctx, tx, code)
	})
}

// BusinessStats summarises a company's coupons.
func (s *couponService) BusinessStats(ctx context.Context, companyName string) (*model.BusinessStats, error) {
	companyName = strings.TrimSpace(companyName)
	if companyName == "" {
		return nil, model.NewValidationError("Company name is required")
	}

	stats, err := s.repo.BusinessStats(ctx, companyName, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to get business stats: %w", err)
	}

	if stats.TotalClaimed > 0 {
		stats.RedemptionRate = float64(stats.TotalRedeemed) / float64(stats.TotalClaimed)
	}
	return stats, nil
}

// apply runs one lifecycle action as a single locked read-modify-write.
// A persisted Expired outcome is committed before the error is returned.
func (s *couponService) apply(ctx context.Context, action lifecycle.Action, lock func(tx pgx.Tx) (*model.Coupon, error)) (*model.Coupon, error) {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to %s coupon: %w", action, err)
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	current, err := lock(tx)
	if err != nil {
		return nil, fmt.Errorf("failed to %s coupon: %w", action, err)
	}
	if current == nil {
		return nil, model.ErrCouponNotFound
	}

	next, outcome := lifecycle.Transition(*current, action, s.now())

	if outcome.Persist {
		if err := s.repo.SaveLifecycle(ctx, tx, &next); err != nil {
			return nil, fmt.Errorf("failed to %s coupon: %w", action, err)
		}
		if err := tx.Commit(ctx); err != nil {
			s.logger.Error().Err(err).Str("coupon_id", next.ID.String()).Msg("failed to commit transaction")
			return nil, fmt.Errorf("failed to %s coupon: %w", action, err)
		}
		committed = true
	}

	if outcome.Err != nil {
		s.logger.Info().
			Str("coupon_id", current.ID.String()).
			Str("action", action.String()).
			Str("status", string(next.Status)).
			Err(outcome.Err).
			Msg("lifecycle action refused")
		return nil, outcome.Err
	}

	s.logger.Info().
		Str("coupon_id", next.ID.String()).
		Str("action", action.String()).
		Str("status", string(next.Status)).
		Int("claimed_count", next.ClaimedCount).
		Int("redeemed_count", next.RedeemedCount).
		Msg("lifecycle action applied")

	return &next, nil
}

func (s *couponService) dropArtifact(ctx context.Context, id uuid.UUID) {
	if err := s.cache.Delete(ctx, id); err != nil {
		s.logger.Warn().Err(err).Str("coupon_id", id.String()).Msg("failed to drop cached qr artifact")
	}
}

func validateExpiry(req *model.CouponRequest, now time.Time) error {
	if !req.ExpiryDate.After(now) {
		return model.NewValidationError("Expiry date must be in the future")
	}
	return nil
}

func newCoupon(req *model.CouponRequest, code string, now time.Time) *model.Coupon {
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	return &model.Coupon{
		ID:             uuid.New(),
		Name:           req.Name,
		CompanyName:    req.CompanyName,
		CouponType:     req.CouponType,
		Product:        req.Product,
		Description:    req.Description,
		TotalAvailable: req.TotalAvailable,
		ExpiryDate:     req.ExpiryDate.UTC(),
		CouponCode:     code,
		Status:         model.CouponStatusAvailable,
		IsActive:       active,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// randomBytes are the UUIDv4 byte positions not carrying version or variant bits.
var randomBytes = [codeLength]int{0, 1, 2, 3, 4, 5, 7, 9, 10, 11}

// generateCode draws a code from a random UUID's bytes.
func generateCode() string {
	id := uuid.New()
	var b strings.Builder
	b.Grow(codeLength)
	for _, i := range randomBytes {
		b.WriteByte(codeAlphabet[int(id[i])%len(codeAlphabet)])
	}
	return b.String()
}
