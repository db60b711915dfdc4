// user.go - Defines the User model and membership rules

package models

import "time"

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

// MembershipTier is a user's borrowing plan.
type MembershipTier string

const (
	MembershipBasic    MembershipTier = "basic"
	Membership3Month   MembershipTier = "3month"
	Membership6Month   MembershipTier = "6month"
	MembershipLifetime MembershipTier = "lifetime"
)

// MembershipTiers lists the tiers in display order.
var MembershipTiers = []MembershipTier{MembershipBasic, Membership3Month, Membership6Month, MembershipLifetime}

func (t MembershipTier) Valid() bool {
	switch t {
	case MembershipBasic, Membership3Month, Membership6Month, MembershipLifetime:
		return true
	}
	return false
}

// Term is how long a paid tier lasts. Basic and lifetime have no term.
func (t MembershipTier) Term() time.Duration {
	switch t {
	case Membership3Month:
		return 90 * 24 * time.Hour
	case Membership6Month:
		return 180 * 24 * time.Hour
	}
	return 0
}

// Label is the informational name shown to users, fee included.
func (t MembershipTier) Label(currency string) string {
	switch t {
	case Membership3Month:
		return "3 Month (" + currency + "100)"
	case Membership6Month:
		return "6 Month (" + currency + "300)"
	case MembershipLifetime:
		return "Lifetime (" + currency + "600)"
	}
	return "Basic (Free)"
}

// ExpiryFrom returns the expiry a tier gets when assigned at now, or nil.
func (t MembershipTier) ExpiryFrom(now time.Time) *time.Time {
	term := t.Term()
	if term == 0 {
		return nil
	}
	expiry := now.Add(term)
	return &expiry
}

type User struct { // User represents a library member or administrator
	ID               uint           `gorm:"primaryKey"`
	Name             string         `gorm:"size:100;not null"`
	Email            string         `gorm:"size:120;unique;not null"`
	Mobile           string         `gorm:"size:15"`
	Password         string         `gorm:"not null"` // bcrypt hash
	Role             Role           `gorm:"size:20;not null;default:'student'"`
	MembershipType   MembershipTier `gorm:"size:20;not null;default:'basic'"`
	MembershipExpiry *time.Time
	CreatedAt        time.Time
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsMembershipActive reports whether the membership grants borrowing
// privileges at now. Lifetime ignores any expiry; term tiers need one in
// the future; basic with no expiry is always active.
func (u *User) IsMembershipActive(now time.Time) bool {
	if u.MembershipType == MembershipLifetime {
		return true
	}
	if u.MembershipExpiry != nil {
		return now.Before(*u.MembershipExpiry)
	}
	return u.MembershipType == MembershipBasic || u.MembershipType == ""
}
