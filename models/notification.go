// notification.go - Defines user notifications and their severities

package models

import (
	"fmt"
	"time"
)

type Severity string // Maps onto the page alert colours

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

// NotificationKind says which rule produced a notification.
type NotificationKind string

const (
	KindGeneral    NotificationKind = "general"
	KindIssued     NotificationKind = "issued"
	KindReturned   NotificationKind = "returned"
	KindDueSoon    NotificationKind = "due_tomorrow"
	KindOverdue    NotificationKind = "overdue"
	KindMembership NotificationKind = "membership"
)

// Notification is an append-only user message. Only IsRead ever changes.
// DedupKey is set for sweep-generated rows and is unique, so a second insert
// for the same (user, loan, day, kind) is dropped by the database.
type Notification struct {
	ID        uint             `gorm:"primaryKey"`
	UserID    uint             `gorm:"not null;index"`
	User      User             `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	LoanID    *uint            `gorm:"index"`
	Loan      *Loan            `gorm:"foreignKey:LoanID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	Kind      NotificationKind `gorm:"size:20;not null;default:'general'"`
	Message   string           `gorm:"type:text;not null"`
	Severity  Severity         `gorm:"size:20;not null;default:'info'"`
	DedupKey  *string          `gorm:"size:120;uniqueIndex"`
	IsRead    bool             `gorm:"not null;default:false;index"`
	CreatedAt time.Time
}

// DedupKey builds the idempotency key for a sweep notification.
func DedupKey(userID, loanID uint, day string, kind NotificationKind) string {
	return fmt.Sprintf("%d:%d:%s:%s", userID, loanID, day, kind)
}
