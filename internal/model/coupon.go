package model

import (
	"time"

	"github.com/google/uuid"
)

// CouponType classifies the discount a coupon grants.
type CouponType string

const (
	CouponTypePercentageDiscount CouponType = "percentageDiscount"
	CouponTypeFixedDiscount      CouponType = "fixedDiscount"
	CouponTypeOther              CouponType = "other"
)

// Valid reports whether t is one of the known coupon types.
func (t CouponType) Valid() bool {
	switch t {
	case CouponTypePercentageDiscount, CouponTypeFixedDiscount, CouponTypeOther:
		return true
	}
	return false
}

// CouponStatus is the lifecycle state of a coupon.
type CouponStatus string

const (
	CouponStatusAvailable CouponStatus = "available"
	CouponStatusClaimed   CouponStatus = "claimed"
	CouponStatusRedeemed  CouponStatus = "redeemed"
	CouponStatusExpired   CouponStatus = "expired"
)

// Coupon is a single issued coupon with its lifecycle counters.
// Status and the counters are only ever changed by the lifecycle engine.
type Coupon struct {
	ID             uuid.UUID    `json:"id" db:"id"`
	Name           string       `json:"name" db:"name"`
	CompanyName    string       `json:"companyName" db:"company_name"`
	CouponType     CouponType   `json:"couponType" db:"coupon_type"`
	Product        string       `json:"product" db:"product"`
	Description    *string      `json:"description,omitempty" db:"description"`
	TotalAvailable int          `json:"totalAvailable" db:"total_available"`
	ClaimedCount   int          `json:"claimedCount" db:"claimed_count"`
	RedeemedCount  int          `json:"redeemedCount" db:"redeemed_count"`
	ExpiryDate     time.Time    `json:"expiryDate" db:"expiry_date"`
	CouponCode     string       `json:"couponCode" db:"coupon_code"`
	Status         CouponStatus `json:"status" db:"status"`
	IsActive       bool         `json:"isActive" db:"is_active"`
	CreatedAt      time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time    `json:"updatedAt" db:"updated_at"`
}

// Remaining returns how many units can still be claimed.
func (c *Coupon) Remaining() int {
	return c.TotalAvailable - c.ClaimedCount
}

// IsExpiredAt reports whether the expiry timestamp lies before now.
func (c *Coupon) IsExpiredAt(now time.Time) bool {
	return c.ExpiryDate.Before(now)
}

// CouponRequest is the request payload for creating or updating a coupon.
type CouponRequest struct {
	Name           string     `json:"name" validate:"required"`
	CompanyName    string     `json:"companyName" validate:"required"`
	CouponType     CouponType `json:"couponType" validate:"required,oneof=percentageDiscount fixedDiscount other"`
	Product        string     `json:"product"`
	Description    *string    `json:"description,omitempty"`
	TotalAvailable int        `json:"totalAvailable" validate:"required,min=1"`
	ExpiryDate     time.Time  `json:"expiryDate" validate:"required"`
	IsActive       *bool      `json:"isActive,omitempty"`
	// CouponCode is honoured only by bulk import; the API always generates one.
	CouponCode string `json:"couponCode,omitempty" validate:"omitempty,alphanum,min=4,max=32"`
}

// RedeemRequest is the request payload for redeeming a coupon by code.
type RedeemRequest struct {
	CouponCode string `json:"couponCode" validate:"required"`
}

// CouponFilter narrows coupon listings.
type CouponFilter struct {
	CompanyName string
	Limit       int
	Offset      int
}

// BusinessStats summarises every coupon issued by one company.
type BusinessStats struct {
	CompanyName    string  `json:"companyName"`
	TotalCoupons   int     `json:"totalCoupons"`
	ActiveCoupons  int     `json:"activeCoupons"`
	ExpiredCoupons int     `json:"expiredCoupons"`
	TotalAvailable int     `json:"totalAvailable"`
	TotalClaimed   int     `json:"totalClaimed"`
	TotalRedeemed  int     `json:"totalRedeemed"`
	RedemptionRate float64 `json:"redemptionRate"`
}

// DecryptRequest is the request payload for reading scanned QR data.
type DecryptRequest struct {
	EncryptedData string `json:"encryptedData" validate:"required"`
}
