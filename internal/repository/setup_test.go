package repository

import (
	"context"
	"testing"
	"time"

	"coupon-service/internal/database"
	"coupon-service/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB creates a PostgreSQL testcontainer with the application schema applied.
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	require.NoError(t, database.Migrate(ctx, pool, zerolog.Nop()))

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

// newTestCoupon returns an available coupon expiring in a week.
func newTestCoupon(code string, total int) *model.Coupon {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &model.Coupon{
		ID:             uuid.New(),
		Name:           "Spring Sale",
		CompanyName:    "Acme",
		CouponType:     model.CouponTypePercentageDiscount,
		Product:        "Widget",
		TotalAvailable: total,
		ExpiryDate:     now.Add(7 * 24 * time.Hour),
		CouponCode:     code,
		Status:         model.CouponStatusAvailable,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func newTestQuestion(text string, createdAt time.Time) *model.Question {
	return &model.Question{
		ID:        uuid.New(),
		Question:  text,
		Type:      "rating",
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}
