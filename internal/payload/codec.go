package payload

import (
	"errors"
	"fmt"
	"strings"

	"coupon-service/internal/model"

	"github.com/rs/zerolog"
)

// Artifact is the scannable representation of a coupon.
type Artifact struct {
	CouponCode string `json:"couponCode"`
	// Content is the exact string embedded in the QR code.
	Content   string `json:"content"`
	Encrypted bool   `json:"encrypted"`
	PNG       []byte `json:"-"`
	DataURL   string `json:"dataUrl"`
	// URL is set when the image has been published to object storage.
	URL string `json:"url,omitempty"`
}

// Codec converts coupons to QR artifacts and scanned data back to payloads.
type Codec interface {
	// Encode builds, optionally seals, and renders the coupon's payload.
	Encode(c *model.Coupon) (*Artifact, error)

	// Decode opens and parses content scanned from an artifact. Plain JSON
	// is only accepted when encryption is disabled.
	Decode(ciphertext string) (Payload, error)
}

type codec struct {
	sealer   Sealer
	renderer Renderer
	encrypt  bool
	logger   zerolog.Logger
}

// NewCodec creates a codec. When encrypt is false the QR carries the
// plain canonical JSON and Decode accepts it alongside sealed input.
func NewCodec(sealer Sealer, renderer Renderer, encrypt bool, logger zerolog.Logger) Codec {
	return &codec{
		sealer:   sealer,
		renderer: renderer,
		encrypt:  encrypt,
		logger:   logger.With().Str("component", "payload-codec").Logger(),
	}
}

func (c *codec) Encode(coupon *model.Coupon) (*Artifact, error) {
	raw, err := FromCoupon(coupon).Marshal()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	content := string(raw)
	if c.encrypt {
		content, err = c.sealer.Seal(raw)
		if err != nil {
			c.logger.Error().Err(err).Str("coupon_code", coupon.CouponCode).Msg("failed to seal payload")
			return nil, fmt.Errorf("failed to seal payload: %w", err)
		}
	}

	png, err := c.renderer.Render(content)
	if err != nil {
		c.logger.Error().Err(err).Str("coupon_code", coupon.CouponCode).Msg("failed to render qr code")
		return nil, err
	}

	c.logger.Debug().
		Str("coupon_code", coupon.CouponCode).
		Bool("encrypted", c.encrypt).
		Int("bytes", len(png)).
		Msg("qr artifact encoded")

	return &Artifact{
		CouponCode: coupon.CouponCode,
		Content:    content,
		Encrypted:  c.encrypt,
		PNG:        png,
		DataURL:    DataURL(png),
	}, nil
}

func (c *codec) Decode(ciphertext string) (Payload, error) {
	// sealed content is base64url and never starts with a brace
	if !c.encrypt && strings.HasPrefix(ciphertext, "{") {
		p, err := Parse([]byte(ciphertext))
		if err != nil {
			c.logger.Warn().Msg("plain payload is malformed")
			return Payload{}, err
		}
		return p, nil
	}

	plaintext, err := c.sealer.Open(ciphertext)
	if err != nil {
		if !errors.Is(err, model.ErrDecryptFailure) {
			c.logger.Error().Err(err).Msg("failed to open payload")
		}
		return Payload{}, err
	}

	p, err := Parse(plaintext)
	if err != nil {
		c.logger.Warn().Msg("decrypted payload is malformed")
		return Payload{}, err
	}
	return p, nil
}
