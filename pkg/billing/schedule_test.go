package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsDue(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name string
		m    *Membership
		want bool
	}{
		{
			name: "active and past due",
			m:    &Membership{Status: MembershipStatusActive, NextPaymentDate: &past},
			want: true,
		},
		{
			name: "active and due exactly now",
			m:    &Membership{Status: MembershipStatusActive, NextPaymentDate: &now},
			want: true,
		},
		{
			name: "active but not yet due",
			m:    &Membership{Status: MembershipStatusActive, NextPaymentDate: &future},
			want: false,
		},
		{
			name: "active with no schedule",
			m:    &Membership{Status: MembershipStatusActive},
			want: false,
		},
		{
			name: "paused",
			m:    &Membership{Status: MembershipStatusPaused, NextPaymentDate: &past},
			want: false,
		},
		{
			name: "payment failed",
			m:    &Membership{Status: MembershipStatusPaymentFailed, NextPaymentDate: &past},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDue(tt.m, now))
		})
	}
}

func TestNextDueDate(t *testing.T) {
	tests := []struct {
		name      string
		base      time.Time
		chargeDay int
		want      time.Time
	}{
		{
			name:      "plain month advance",
			base:      time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC),
			chargeDay: 15,
			want:      time.Date(2025, 2, 15, 9, 30, 0, 0, time.UTC),
		},
		{
			name:      "charge day restored after drift",
			base:      time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC),
			chargeDay: 31,
			want:      time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "clamped to last day of short month",
			base:      time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
			chargeDay: 31,
			want:      time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "clamped in leap february",
			base:      time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
			chargeDay: 31,
			want:      time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "year rollover",
			base:      time.Date(2025, 12, 8, 0, 0, 0, 0, time.UTC),
			chargeDay: 8,
			want:      time.Date(2026, 1, 8, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "zero charge day defaults to first",
			base:      time.Date(2025, 5, 3, 0, 0, 0, 0, time.UTC),
			chargeDay: 0,
			want:      time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextDueDate(tt.base, tt.chargeDay))
		})
	}
}

func TestNextDueDateAlwaysMovesForward(t *testing.T) {
	base := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	for _, day := range []int{1, 15, 28, 29, 30, 31} {
		next := NextDueDate(base, day)
		assert.True(t, next.After(base), "chargeDay=%d: %v should be after %v", day, next, base)
	}
}

func TestNextDueDateRoundTrip(t *testing.T) {
	// Twelve consecutive advances land back on the anchor one year out,
	// preserving the charge day even across short months.
	date := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		date = NextDueDate(date, 31)
	}
	assert.Equal(t, time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC), date)
}

func TestManualBaseDate(t *testing.T) {
	now := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	future := now.AddDate(0, 1, 0)
	past := now.AddDate(0, -1, 0)

	t.Run("future due date stacks", func(t *testing.T) {
		m := &Membership{NextPaymentDate: &future}
		assert.Equal(t, future, manualBaseDate(m, now))
	})

	t.Run("past due date re-anchors on now", func(t *testing.T) {
		m := &Membership{NextPaymentDate: &past}
		assert.Equal(t, now, manualBaseDate(m, now))
	})

	t.Run("no due date anchors on now", func(t *testing.T) {
		m := &Membership{}
		assert.Equal(t, now, manualBaseDate(m, now))
	})
}
