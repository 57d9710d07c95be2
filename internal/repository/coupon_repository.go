package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"coupon-service/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const couponColumns = `
	id, name, company_name, coupon_type, product, description,
	total_available, claimed_count, redeemed_count, expiry_date,
	coupon_code, status, is_active, created_at, updated_at`

// ErrDuplicateCouponCode is returned when a coupon code is already in use.
var ErrDuplicateCouponCode = model.NewValidationError("Coupon code already exists")

// couponRepository implements the CouponRepository interface using PostgreSQL.
type couponRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCouponRepository creates a new PostgreSQL-backed coupon repository.
func NewCouponRepository(pool *pgxpool.Pool, logger zerolog.Logger) CouponRepository {
	return &couponRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "coupon").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *couponRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// Create inserts a new coupon.
func (r *couponRepository) Create(ctx context.Context, c *model.Coupon) error {
	query := `
		INSERT INTO coupons (` + couponColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.pool.Exec(ctx, query, couponArgs(c)...)
	if err != nil {
		if isUniqueViolation(err) {
			r.logger.Warn().Str("coupon_code", c.CouponCode).Msg("duplicate coupon code")
			return ErrDuplicateCouponCode
		}
		r.logger.Error().Err(err).Str("coupon_id", c.ID.String()).Msg("failed to create coupon")
		return fmt.Errorf("failed to create coupon: %w", err)
	}

	r.logger.Debug().
		Str("coupon_id", c.ID.String()).
		Str("coupon_code", c.CouponCode).
		Msg("coupon created successfully")

	return nil
}

// CreateIfAbsent inserts a coupon unless its code already exists.
func (r *couponRepository) CreateIfAbsent(ctx context.Context, c *model.Coupon) (bool, error) {
	query := `
		INSERT INTO coupons (` + couponColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (coupon_code) DO NOTHING
	`

	tag, err := r.pool.Exec(ctx, query, couponArgs(c)...)
	if err != nil {
		r.logger.Error().Err(err).Str("coupon_code", c.CouponCode).Msg("failed to import coupon")
		return false, fmt.Errorf("failed to import coupon: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// GetByID retrieves a coupon by its ID.
func (r *couponRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE id = $1`

	c, err := scanCoupon(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("coupon_id", id.String()).Msg("coupon not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("coupon_id", id.String()).Msg("failed to query coupon")
		return nil, fmt.Errorf("failed to query coupon: %w", err)
	}

	return c, nil
}

// List retrieves coupons matching the filter with pagination support.
func (r *couponRepository) List(ctx context.Context, filter model.CouponFilter) ([]model.Coupon, error) {
	query := `
		SELECT ` + couponColumns + `
		FROM coupons
		WHERE ($1 = '' OR company_name = $1)
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, filter.CompanyName, filter.Limit, filter.Offset)
	if err != nil {
		r.logger.Error().Err(err).
			Int("limit", filter.Limit).
			Int("offset", filter.Offset).
			Msg("failed to query coupons")
		return nil, fmt.Errorf("failed to query coupons: %w", err)
	}
	defer rows.Close()

	coupons := []model.Coupon{}
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan coupon row")
			return nil, fmt.Errorf("failed to scan coupon: %w", err)
		}
		coupons = append(coupons, *c)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating coupon rows")
		return nil, fmt.Errorf("error iterating coupons: %w", err)
	}

	return coupons, nil
}

// LockByID retrieves a coupon by ID with SELECT ... FOR UPDATE.
func (r *couponRepository) LockByID(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE id = $1 FOR UPDATE`

	c, err := scanCoupon(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("coupon_id", id.String()).Msg("failed to lock coupon")
		return nil, fmt.Errorf("failed to lock coupon: %w", err)
	}
	return c, nil
}

// LockByCode retrieves a coupon by code with SELECT ... FOR UPDATE.
func (r *couponRepository) LockByCode(ctx context.Context, tx pgx.Tx, code string) (*model.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE coupon_code = $1 FOR UPDATE`

	c, err := scanCoupon(tx.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("coupon_code", code).Msg("failed to lock coupon")
		return nil, fmt.Errorf("failed to lock coupon: %w", err)
	}
	return c, nil
}

// SaveLifecycle writes status and counters within the provided transaction.
func (r *couponRepository) SaveLifecycle(ctx context.Context, tx pgx.Tx, c *model.Coupon) error {
	query := `
		UPDATE coupons
		SET status = $2, claimed_count = $3, redeemed_count = $4, updated_at = $5
		WHERE id = $1
	`

	tag, err := tx.Exec(ctx, query, c.ID, c.Status, c.ClaimedCount, c.RedeemedCount, c.UpdatedAt)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("coupon_id", c.ID.String()).
			Str("status", string(c.Status)).
			Msg("failed to save coupon lifecycle")
		return fmt.Errorf("failed to save coupon lifecycle: %w", err)
	}
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("failed to save coupon lifecycle: coupon %s vanished", c.ID)
	}

	r.logger.Debug().
		Str("coupon_id", c.ID.String()).
		Str("status", string(c.Status)).
		Int("claimed_count", c.ClaimedCount).
		Int("redeemed_count", c.RedeemedCount).
		Msg("coupon lifecycle saved")

	return nil
}

// UpdateDetails writes the caller-editable fields within the provided transaction.
func (r *couponRepository) UpdateDetails(ctx context.Context, tx pgx.Tx, c *model.Coupon) error {
	query := `
		UPDATE coupons
		SET name = $2, company_name = $3, coupon_type = $4, product = $5, description = $6,
		    total_available = $7, expiry_date = $8, is_active = $9, updated_at = $10
		WHERE id = $1
	`

	_, err := tx.Exec(ctx, query,
		c.ID, c.Name, c.CompanyName, c.CouponType, c.Product, c.Description,
		c.TotalAvailable, c.ExpiryDate, c.IsActive, c.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("coupon_id", c.ID.String()).Msg("failed to update coupon")
		return fmt.Errorf("failed to update coupon: %w", err)
	}

	return nil
}

// Delete removes a coupon and its question links in one transaction.
func (r *couponRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	var deleted bool

	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM coupon_questions WHERE coupon_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete coupon questions: %w", err)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM coupons WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete coupon: %w", err)
		}
		deleted = tag.RowsAffected() == 1
		return nil
	})
	if err != nil {
		r.logger.Error().Err(err).Str("coupon_id", id.String()).Msg("failed to delete coupon")
		return false, err
	}

	r.logger.Debug().Str("coupon_id", id.String()).Bool("deleted", deleted).Msg("coupon delete finished")

	return deleted, nil
}

// BusinessStats aggregates every coupon of a company.
func (r *couponRepository) BusinessStats(ctx context.Context, companyName string, now time.Time) (*model.BusinessStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE is_active),
			COUNT(*) FILTER (WHERE status = 'expired' OR expiry_date < $2),
			COALESCE(SUM(total_available), 0),
			COALESCE(SUM(claimed_count), 0),
			COALESCE(SUM(redeemed_count), 0)
		FROM coupons
		WHERE company_name = $1
	`

	stats := &model.BusinessStats{CompanyName: companyName}
	err := r.pool.QueryRow(ctx, query, companyName, now).Scan(
		&stats.TotalCoupons,
		&stats.ActiveCoupons,
		&stats.ExpiredCoupons,
		&stats.TotalAvailable,
		&stats.TotalClaimed,
		&stats.TotalRedeemed,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("company_name", companyName).Msg("failed to query business stats")
		return nil, fmt.Errorf("failed to query business stats: %w", err)
	}

	return stats, nil
}

func couponArgs(c *model.Coupon) []any {
	return []any{
		c.ID, c.Name, c.CompanyName, c.CouponType, c.Product, c.Description,
		c.TotalAvailable, c.ClaimedCount, c.RedeemedCount, c.ExpiryDate,
		c.CouponCode, c.Status, c.IsActive, c.CreatedAt, c.UpdatedAt,
	}
}

func scanCoupon(row pgx.Row) (*model.Coupon, error) {
	var c model.Coupon
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.CompanyName,
		&c.CouponType,
		&c.Product,
		&c.Description,
		&c.TotalAvailable,
		&c.ClaimedCount,
		&c.RedeemedCount,
		&c.ExpiryDate,
		&c.CouponCode,
		&c.Status,
		&c.IsActive,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
