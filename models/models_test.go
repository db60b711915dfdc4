// models_test.go - Tests for fines, overdue days and membership rules

package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var now = time.Date(2024, 3, 10, 14, 30, 0, 0, time.UTC)

func TestMembershipActivity(t *testing.T) {
	past := now.Add(-time.Second)
	future := now.Add(time.Hour)

	tests := []struct {
		name   string
		user   User
		active bool
	}{
		{"basic without expiry", User{MembershipType: MembershipBasic}, true},
		{"3month expired a second ago", User{MembershipType: Membership3Month, MembershipExpiry: &past}, false},
		{"6month in term", User{MembershipType: Membership6Month, MembershipExpiry: &future}, true},
		{"3month missing expiry", User{MembershipType: Membership3Month}, false},
		{"lifetime without expiry", User{MembershipType: MembershipLifetime}, true},
		{"lifetime with stale expiry", User{MembershipType: MembershipLifetime, MembershipExpiry: &past}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.active, tt.user.IsMembershipActive(now))
		})
	}
}

func TestMembershipExpiryFrom(t *testing.T) {
	assert.Nil(t, MembershipBasic.ExpiryFrom(now))
	assert.Nil(t, MembershipLifetime.ExpiryFrom(now))
	assert.Equal(t, now.AddDate(0, 0, 90), *Membership3Month.ExpiryFrom(now))
	assert.Equal(t, now.AddDate(0, 0, 180), *Membership6Month.ExpiryFrom(now))
	assert.False(t, MembershipTier("weekly").Valid())
	assert.Equal(t, "3 Month (₹100)", Membership3Month.Label("₹"))
}

func TestCalculateFine(t *testing.T) {
	due := now
	assert.Equal(t, 150.0, CalculateFine(due, due.Add(15*24*time.Hour), 10))
	assert.Equal(t, 0.0, CalculateFine(due, due, 10), "returning exactly at due is free")
	assert.Equal(t, 0.0, CalculateFine(due, due.Add(-time.Hour), 10))
	assert.Equal(t, 0.0, CalculateFine(due, due.Add(23*time.Hour), 10), "partial days are floored")
	assert.Equal(t, 20.0, CalculateFine(due, due.Add(2*24*time.Hour+time.Minute), 10))
}

func TestLoanPredicates(t *testing.T) {
	loan := Loan{DueAt: now.Add(24 * time.Hour)}
	assert.True(t, loan.IsActive())
	assert.True(t, loan.IsDueTomorrow(now))
	assert.False(t, loan.IsOverdue(now))

	// Due date is calendar-compared: late tomorrow still counts.
	loan.DueAt = time.Date(2024, 3, 11, 23, 59, 0, 0, time.UTC)
	assert.True(t, loan.IsDueTomorrow(now))

	loan.DueAt = now.Add(-3*24*time.Hour - time.Hour)
	assert.True(t, loan.IsOverdue(now))
	assert.Equal(t, 3, loan.DaysOverdue(now))

	returned := now
	loan.ReturnedAt = &returned
	assert.False(t, loan.IsOverdue(now))
	assert.False(t, loan.IsDueTomorrow(now))
	assert.Zero(t, loan.DaysOverdue(now))
}

func TestBookCounts(t *testing.T) {
	b := Book{TotalCopies: 3, AvailableCopies: 1}
	assert.True(t, b.IsAvailable())
	assert.Equal(t, 2, b.IssuedCount())
	b.AvailableCopies = 0
	assert.False(t, b.IsAvailable())
}

func TestDedupKey(t *testing.T) {
	assert.Equal(t, "4:9:2024-03-10:overdue", DedupKey(4, 9, CalendarDay(now), KindOverdue))
}
