package cache

import (
	"context"

	"coupon-service/internal/payload"

	"github.com/google/uuid"
)

// ArtifactCache stores rendered QR artifacts per coupon.
type ArtifactCache interface {
	// Get returns the cached artifact. Returns nil on a miss.
	Get(ctx context.Context, couponID uuid.UUID) (*payload.Artifact, error)

	// Set stores the artifact.
	Set(ctx context.Context, couponID uuid.UUID, artifact *payload.Artifact) error

	// Delete drops any cached artifact for the coupon.
	Delete(ctx context.Context, couponID uuid.UUID) error
}

type noopCache struct{}

// NewNoopCache returns a cache that never stores anything.
func NewNoopCache() ArtifactCache {
	return noopCache{}
}

func (noopCache) Get(context.Context, uuid.UUID) (*payload.Artifact, error) { return nil, nil }
func (noopCache) Set(context.Context, uuid.UUID, *payload.Artifact) error { return nil }
func (noopCache) Delete(context.Context, uuid.UUID) error { return nil }
