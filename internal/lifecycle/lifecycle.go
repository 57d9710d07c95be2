// Package lifecycle decides coupon status transitions.
//
// The engine is a pure function of the current record, the requested action
// and the current time. It never touches storage: callers load the record
// under a row lock, call Transition, persist the returned record when
// Outcome.Persist is set, and then report Outcome.Err.
package lifecycle

import (
	"fmt"
	"time"

	"coupon-service/internal/model"
)

// Action is a state-changing request against a coupon.
type Action int

const (
	// Claim reserves one unit of a coupon for a holder.
	Claim Action = iota + 1
	// Redeem finalises the use of a previously claimed coupon.
	Redeem
)

func (a Action) String() string {
	switch a {
	case Claim:
		return "claim"
	case Redeem:
		return "redeem"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Outcome is the result of a transition.
type Outcome struct {
	// Persist is set when the returned record differs from the input and
	// must be written, including on the Expired failure path.
	Persist bool
	// Err is nil on success, otherwise one of the model domain errors.
	Err error
}

// Transition applies action to c at time now. The input record is not
// modified; the returned copy reflects any state change.
func Transition(c model.Coupon, action Action, now time.Time) (model.Coupon, Outcome) {
	switch action {
	case Claim:
		return claim(c, now)
	case Redeem:
		return redeem(c, now)
	default:
		return c, Outcome{Err: fmt.Errorf("unknown lifecycle action %d", int(action))}
	}
}

func claim(c model.Coupon, now time.Time) (model.Coupon, Outcome) {
	if c.Status != model.CouponStatusAvailable || !c.IsActive {
		return c, Outcome{Err: model.ErrInvalidState}
	}

	if c.IsExpiredAt(now) {
		return expire(c, now)
	}

	if c.Remaining() <= 0 {
		return c, Outcome{Err: model.ErrExhausted}
	}

	c.ClaimedCount++
	c.Status = model.CouponStatusClaimed
	c.UpdatedAt = now
	return c, Outcome{Persist: true}
}

func redeem(c model.Coupon, now time.Time) (model.Coupon, Outcome) {
	if c.Status == model.CouponStatusRedeemed {
		return c, Outcome{Err: model.ErrAlreadyRedeemed}
	}

	if c.IsExpiredAt(now) {
		return expire(c, now)
	}

	if c.Status != model.CouponStatusClaimed {
		return c, Outcome{Err: model.ErrNotClaimed}
	}

	// redeemedCount may never overtake claimedCount
	if c.RedeemedCount >= c.ClaimedCount {
		return c, Outcome{Err: model.ErrNotClaimed}
	}

	c.RedeemedCount++
	c.Status = model.CouponStatusRedeemed
	c.UpdatedAt = now
	return c, Outcome{Persist: true}
}

// expire marks the record expired. The write is only needed the first time.
func expire(c model.Coupon, now time.Time) (model.Coupon, Outcome) {
	if c.Status == model.CouponStatusExpired {
		return c, Outcome{Err: model.ErrExpired}
	}
	c.Status = model.CouponStatusExpired
	c.UpdatedAt = now
	return c, Outcome{Persist: true, Err: model.ErrExpired}
}

// Reconcile re-derives the status of c after its expiry date changed. A
// coupon whose expiry has passed becomes expired unless it was redeemed; an
// expired coupon whose expiry now lies ahead returns to the status its
// counters imply. The returned bool reports whether the status changed.
func Reconcile(c model.Coupon, now time.Time) (model.Coupon, bool) {
	status := c.Status
	switch {
	case c.IsExpiredAt(now):
		if status != model.CouponStatusRedeemed {
			status = model.CouponStatusExpired
		}
	case status == model.CouponStatusExpired:
		status = countedStatus(c)
	}

	if status == c.Status {
		return c, false
	}
	c.Status = status
	c.UpdatedAt = now
	return c, true
}

func countedStatus(c model.Coupon) model.CouponStatus {
	switch {
	case c.ClaimedCount == 0:
		return model.CouponStatusAvailable
	case c.RedeemedCount < c.ClaimedCount:
		return model.CouponStatusClaimed
	default:
		return model.CouponStatusRedeemed
	}
}
