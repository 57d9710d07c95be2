package database

import (
	"context"
	"testing"
	"time"

	"coupon-service/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDatabaseConfig() config.DatabaseConfig {
	return config.DatabaseConfig{
		Host:            "localhost",
		Port:            5432,
		User:            "postgres",
		Password:        "postgres",
		Database:        "coupons",
		MaxConnections:  20,
		MinConnections:  2,
		MaxConnLifetime: 120,
	}
}

func TestParseConfig(t *testing.T) {
	poolConfig, err := ParseConfig(testDatabaseConfig())
	require.NoError(t, err)

	assert.Equal(t, int32(20), poolConfig.MaxConns)
	assert.Equal(t, int32(2), poolConfig.MinConns)
	assert.Equal(t, 2*time.Minute, poolConfig.MaxConnLifetime)
	assert.Equal(t, 30*time.Minute, poolConfig.MaxConnIdleTime)
	assert.Equal(t, "coupons", poolConfig.ConnConfig.Database)
}

func TestNewPool_CannotConnect(t *testing.T) {
	cfg := testDatabaseConfig()
	cfg.Host = "invalid-host.invalid"

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := NewPool(ctx, cfg, zerolog.Nop())
	require.Error(t, err)
	assert.Nil(t, pool)
	assert.Contains(t, err.Error(), "failed to ping database")
}
