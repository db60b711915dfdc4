// loan.go - Defines the Loan (issued book) model and the fine rules

package models

import (
	"math"
	"strconv"
	"time"
)

const day = 24 * time.Hour

// Loan links one user and one book. It is active until ReturnedAt is set.
// A user holds at most one active loan per book; the partial unique index
// idx_loans_active enforces that in the database.
type Loan struct {
	ID         uint       `gorm:"primaryKey"`
	UserID     uint       `gorm:"not null;index;uniqueIndex:idx_loans_active,where:returned_at IS NULL"`
	User       User       `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	BookID     uint       `gorm:"not null;index;uniqueIndex:idx_loans_active,where:returned_at IS NULL"`
	Book       Book       `gorm:"foreignKey:BookID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	IssuedAt   time.Time  `gorm:"not null;index"`
	DueAt      time.Time  `gorm:"not null;index"` // IssuedAt + loan period
	ReturnedAt *time.Time // nil while the book is out
	Fine       float64    `gorm:"not null;default:0"` // Set once, on return
}

func (l *Loan) IsActive() bool {
	return l.ReturnedAt == nil
}

// IsOverdue is true for an active loan whose due time has passed.
func (l *Loan) IsOverdue(now time.Time) bool {
	return l.IsActive() && now.After(l.DueAt)
}

func (l *Loan) DaysOverdue(now time.Time) int {
	if !l.IsOverdue(now) {
		return 0
	}
	return DaysOverdue(l.DueAt, now)
}

// IsDueTomorrow compares UTC calendar dates, not exact times.
func (l *Loan) IsDueTomorrow(now time.Time) bool {
	if !l.IsActive() {
		return false
	}
	return CalendarDay(l.DueAt) == CalendarDay(now.Add(day))
}

// DaysOverdue counts whole days elapsed since due, floored. Zero when now is
// not after due.
func DaysOverdue(due, now time.Time) int {
	if !now.After(due) {
		return 0
	}
	return int(math.Floor(now.Sub(due).Hours() / 24))
}

// CalculateFine is the authoritative fine for a loan closed at now.
func CalculateFine(due, now time.Time, finePerDay float64) float64 {
	return float64(DaysOverdue(due, now)) * finePerDay
}

// CalendarDay formats t as a UTC date, used for day-scoped comparisons.
func CalendarDay(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// FormatAmount prints an amount with the currency prefix, dropping a zero
// fraction ("₹150", "₹12.5").
func FormatAmount(currency string, amount float64) string {
	return currency + strconv.FormatFloat(amount, 'f', -1, 64)
}
