package service

import (
	"context"
	"fmt"
	"strings"

	"coupon-service/internal/cache"
	"coupon-service/internal/model"
	"coupon-service/internal/payload"
	"coupon-service/internal/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// qrCodeService implements QRCodeService.
type qrCodeService struct {
	coupons   CouponService
	codec     payload.Codec
	cache     cache.ArtifactCache
	publisher storage.Publisher
	prefix    string
	logger    zerolog.Logger
}

// NewQRCodeService creates a QR code service. publisher may be nil, in which
// case artifacts are only returned inline.
func NewQRCodeService(
	coupons CouponService,
	codec payload.Codec,
	artifacts cache.ArtifactCache,
	publisher storage.Publisher,
	prefix string,
	logger zerolog.Logger,
) QRCodeService {
	return &qrCodeService{
		coupons:   coupons,
		codec:     codec,
		cache:     artifacts,
		publisher: publisher,
		prefix:    prefix,
		logger:    logger.With().Str("service", "qrcode").Logger(),
	}
}

// Generate returns the coupon's artifact, rendering and publishing it on a
// cache miss. The presigned URL is refreshed on every call.
func (s *qrCodeService) Generate(ctx context.Context, couponID uuid.UUID) (*payload.Artifact, error) {
	c, err := s.coupons.GetByID(ctx, couponID)
	if err != nil {
		return nil, err
	}

	artifact, err := s.cache.Get(ctx, couponID)
	if err != nil {
		s.logger.Warn().Err(err).Str("coupon_id", couponID.String()).Msg("qr cache lookup failed")
		artifact = nil
	}

	if artifact == nil {
		artifact, err = s.codec.Encode(c)
		if err != nil {
			return nil, fmt.Errorf("failed to encode qr code: %w", err)
		}

		if s.publisher != nil {
			if err := s.publisher.Publish(ctx, storage.QRCodeKey(s.prefix, c.CouponCode), artifact.PNG); err != nil {
				return nil, fmt.Errorf("failed to publish qr code: %w", err)
			}
		}

		if err := s.cache.Set(ctx, couponID, artifact); err != nil {
			s.logger.Warn().Err(err).Str("coupon_id", couponID.String()).Msg("failed to cache qr artifact")
		}

		s.logger.Info().
			Str("coupon_id", couponID.String()).
			Bool("encrypted", artifact.Encrypted).
			Bool("published", s.publisher != nil).
			Msg("qr code generated")
	}

	if s.publisher != nil {
		url, err := s.publisher.PresignURL(ctx, storage.QRCodeKey(s.prefix, c.CouponCode))
		if err != nil {
			return nil, fmt.Errorf("failed to presign qr code url: %w", err)
		}
		artifact.URL = url
	}

	return artifact, nil
}

// Decode never consults storage; the payload is self-describing.
func (s *qrCodeService) Decode(_ context.Context, content string) (*payload.Payload, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, model.NewValidationError("QR code data is required")
	}

	p, err := s.codec.Decode(content)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
