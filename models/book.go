// book.go - Defines the Book and Category models

package models

import "time"

// Category is a unique book classification. Books point at it by foreign key
// and the constraint refuses deletion while any book still references it.
type Category struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:50;unique;not null"`
	CreatedAt time.Time
}

type Book struct {
	ID              uint     `gorm:"primaryKey"`
	Title           string   `gorm:"size:200;not null"`
	Author          string   `gorm:"size:100;not null"`
	CategoryID      uint     `gorm:"not null;index"`
	Category        Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
	TotalCopies     int      `gorm:"not null"`
	AvailableCopies int      `gorm:"not null"` // Copies on the shelf right now
	CoverPhoto      string   `gorm:"size:255"` // File name under the upload dir
	CreatedAt       time.Time
}

func (b *Book) IsAvailable() bool {
	return b.AvailableCopies > 0
}

// IssuedCount is how many copies are currently out on loan.
func (b *Book) IssuedCount() int {
	return b.TotalCopies - b.AvailableCopies
}
