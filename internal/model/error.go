package model

import "errors"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON      = "INVALID_JSON"
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeInvalidState     = "INVALID_STATE"
	ErrCodeExhausted        = "EXHAUSTED"
	ErrCodeExpired          = "EXPIRED"
	ErrCodeAlreadyRedeemed  = "ALREADY_REDEEMED"
	ErrCodeNotClaimed       = "NOT_CLAIMED"
	ErrCodeDecryptFailure   = "DECRYPT_FAILURE"
	ErrCodeMalformedPayload = "MALFORMED_PAYLOAD"
	ErrCodeUnauthorised     = "UNAUTHORIZED"
	ErrCodeForbidden        = "FORBIDDEN"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError reports malformed caller input.
func NewValidationError(message string) *DomainError {
	return NewDomainError(ErrCodeValidation, message)
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Code == ErrCodeValidation
}

// Common domain errors
var (
	ErrCouponNotFound   = NewDomainError(ErrCodeNotFound, "Coupon not found")
	ErrQuestionNotFound = NewDomainError(ErrCodeNotFound, "Question not found")
	ErrInvalidState     = NewDomainError(ErrCodeInvalidState, "Coupon is not available for this action")
	ErrExhausted        = NewDomainError(ErrCodeExhausted, "No coupons remaining to claim")
	ErrExpired          = NewDomainError(ErrCodeExpired, "Coupon has expired")
	ErrAlreadyRedeemed  = NewDomainError(ErrCodeAlreadyRedeemed, "Coupon has already been redeemed")
	ErrNotClaimed       = NewDomainError(ErrCodeNotClaimed, "Coupon must be claimed before redemption")
	ErrDecryptFailure   = NewDomainError(ErrCodeDecryptFailure, "QR code data could not be decrypted")
	ErrMalformedPayload = NewDomainError(ErrCodeMalformedPayload, "QR code data is not a valid coupon payload")
)
