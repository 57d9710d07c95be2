// Package payload encodes a coupon's public identity into a scannable QR
// artifact and recovers it from scanned data.
package payload

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"time"

	"coupon-service/internal/model"
)

// ExpiryLayout is the canonical text form of the expiry date.
const ExpiryLayout = time.RFC3339

// Payload is the canonical field set carried by a QR code. It deliberately
// holds no counts, status or internal id.
type Payload struct {
	CouponCode  string `json:"couponCode"`
	Name        string `json:"name"`
	CompanyName string `json:"companyName"`
	Product     string `json:"product"`
	ExpiryDate  string `json:"expiryDate"`
}

// FromCoupon builds the canonical payload for c.
func FromCoupon(c *model.Coupon) Payload {
	return Payload{
		CouponCode:  c.CouponCode,
		Name:        c.Name,
		CompanyName: c.CompanyName,
		Product:     c.Product,
		ExpiryDate:  c.ExpiryDate.UTC().Format(ExpiryLayout),
	}
}

// Expiry parses the canonical expiry date.
func (p Payload) Expiry() (time.Time, error) {
	return time.Parse(ExpiryLayout, p.ExpiryDate)
}

// Marshal returns the canonical JSON encoding of p.
func (p Payload) Marshal() ([]byte, error) {
	return json.Marshal(p)
}

// Parse decodes canonical JSON into a Payload. Unknown fields, trailing
// data, a missing field or a non-canonical expiry all yield
// model.ErrMalformedPayload.
func Parse(data []byte) (Payload, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Payload{}, model.ErrMalformedPayload
	}
	for _, field := range []string{"couponCode", "name", "companyName", "product", "expiryDate"} {
		if _, ok := raw[field]; !ok {
			return Payload{}, model.ErrMalformedPayload
		}
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var p Payload
	if err := dec.Decode(&p); err != nil {
		return Payload{}, model.ErrMalformedPayload
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Payload{}, model.ErrMalformedPayload
	}

	if p.CouponCode == "" {
		return Payload{}, model.ErrMalformedPayload
	}
	if _, err := p.Expiry(); err != nil {
		return Payload{}, model.ErrMalformedPayload
	}

	return p, nil
}
