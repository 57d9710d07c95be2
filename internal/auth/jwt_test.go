package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)
	userID := uuid.New()

	token, err := svc.Generate(userID, "admin@example.com", RoleAdmin)
	require.NoError(t, err)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.True(t, claims.IsAdmin())
}

func TestJWTService_Generate_UnknownRole(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)

	_, err := svc.Generate(uuid.New(), "x@example.com", "root")
	assert.Error(t, err)
}

func TestJWTService_Validate(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)
	valid, err := svc.Generate(uuid.New(), "user@example.com", RoleUser)
	require.NoError(t, err)

	expired := NewJWTService("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredToken, err := expired.Generate(uuid.New(), "user@example.com", RoleUser)
	require.NoError(t, err)

	otherKey, err := NewJWTService("other-secret", time.Hour).Generate(uuid.New(), "user@example.com", RoleUser)
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		UserID: uuid.New(),
		Role:   RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name      string
		token     string
		expectErr bool
	}{
		{name: "Valid token", token: valid},
		{name: "Expired token", token: expiredToken, expectErr: true},
		{name: "Wrong key", token: otherKey, expectErr: true},
		{name: "Unsigned token", token: noneToken, expectErr: true},
		{name: "Garbage", token: "not.a.token", expectErr: true},
		{name: "Empty", token: "", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := svc.Validate(tt.token)
			if tt.expectErr {
				assert.ErrorIs(t, err, ErrInvalidToken)
				assert.Nil(t, claims)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, claims)
			}
		})
	}
}
