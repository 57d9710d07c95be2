package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23514"}))
	assert.False(t, isUniqueViolation(errors.New("boom")))
	assert.False(t, isUniqueViolation(nil))
}

func TestWithTx(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	c := newTestCoupon("TXCOMMIT1", 5)

	t.Run("Commits on success", func(t *testing.T) {
		err := withTx(ctx, pool, func(tx pgx.Tx) error {
			_, err := tx.Exec(ctx, `
				INSERT INTO coupons (`+couponColumns+`)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
			`, couponArgs(c)...)
			return err
		})
		require.NoError(t, err)

		var count int
		require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM coupons WHERE id = $1`, c.ID).Scan(&count))
		assert.Equal(t, 1, count)
	})

	t.Run("Rolls back on error", func(t *testing.T) {
		sentinel := errors.New("abort")
		err := withTx(ctx, pool, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, `DELETE FROM coupons WHERE id = $1`, c.ID); err != nil {
				return err
			}
			return sentinel
		})
		require.ErrorIs(t, err, sentinel)

		var count int
		require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM coupons WHERE id = $1`, c.ID).Scan(&count))
		assert.Equal(t, 1, count)
	})
}

func TestMigrations_EnforceCounterInvariants(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewCouponRepository(pool, zerolog.Nop())
	c := newTestCoupon("CHECKS01", 1)
	require.NoError(t, repo.Create(ctx, c))

	tests := []struct {
		name  string
		query string
	}{
		{name: "Claimed above total", query: `UPDATE coupons SET claimed_count = 2 WHERE id = $1`},
		{name: "Redeemed above claimed", query: `UPDATE coupons SET redeemed_count = 1 WHERE id = $1`},
		{name: "Negative counter", query: `UPDATE coupons SET claimed_count = -1 WHERE id = $1`},
		{name: "Unknown status", query: `UPDATE coupons SET status = 'gone' WHERE id = $1`},
		{name: "Code change", query: `UPDATE coupons SET coupon_code = 'OTHER' WHERE id = $1`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := pool.Exec(ctx, tt.query, c.ID)
			assert.Error(t, err)
		})
	}
}
