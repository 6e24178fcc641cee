package billing

import (
	"time"
)

// IsDue reports whether a membership should be charged by the sweep at the
// given instant. Memberships without a scheduled next payment date are never
// swept; paused and payment_failed memberships are excluded until resumed or
// retried.
func IsDue(m *Membership, now time.Time) bool {
	if m.Status != MembershipStatusActive {
		return false
	}
	if m.NextPaymentDate == nil {
		return false
	}
	return !now.Before(*m.NextPaymentDate)
}

// NextDueDate returns the due date one calendar month after base, anchored on
// the membership's charge day. When the charge day exceeds the number of days
// in the target month (e.g. day 31 in April), it clamps to the last day of
// that month instead of rolling into the following one.
func NextDueDate(base time.Time, chargeDay int) time.Time {
	if chargeDay < 1 {
		chargeDay = 1
	}
	year, month, _ := base.Date()
	month++
	if month > time.December {
		month = time.January
		year++
	}
	if last := daysInMonth(year, month); chargeDay > last {
		chargeDay = last
	}
	return time.Date(year, month, chargeDay, base.Hour(), base.Minute(), base.Second(), base.Nanosecond(), base.Location())
}

// manualBaseDate picks the anchor for a manual or retried payment. A future
// next payment date is kept as the base so consecutive payments stack;
// otherwise the payment re-anchors on now.
func manualBaseDate(m *Membership, now time.Time) time.Time {
	if m.NextPaymentDate != nil && m.NextPaymentDate.After(now) {
		return *m.NextPaymentDate
	}
	return now
}

// daysInMonth returns the number of days in the given month.
func daysInMonth(year int, month time.Month) int {
	// Day 0 of the next month normalizes to the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
