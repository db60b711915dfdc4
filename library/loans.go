// loans.go - Issues and returns books and publishes loan events

package library

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-library-backend/models"

	"gorm.io/gorm"
)

const (
	TopicLoanIssued   = "loans/issued"
	TopicLoanReturned = "loans/returned"
)

// LoanEvent is the payload published when a loan opens or closes.
type LoanEvent struct {
	LoanID     uint       `json:"loan_id"`
	UserID     uint       `json:"user_id"`
	BookID     uint       `json:"book_id"`
	BookTitle  string     `json:"book_title"`
	IssuedAt   time.Time  `json:"issued_at"`
	DueAt      time.Time  `json:"due_at"`
	ReturnedAt *time.Time `json:"returned_at,omitempty"`
	Fine       float64    `json:"fine"`
}

func loanEvent(l *models.Loan) LoanEvent {
	return LoanEvent{
		LoanID:     l.ID,
		UserID:     l.UserID,
		BookID:     l.BookID,
		BookTitle:  l.Book.Title,
		IssuedAt:   l.IssuedAt,
		DueAt:      l.DueAt,
		ReturnedAt: l.ReturnedAt,
		Fine:       l.Fine,
	}
}

// IssueBook lends one copy of bookID to userID for the configured loan
// period and tells the user. The copy is taken with a conditional decrement,
// so two concurrent issues can never drive AvailableCopies below zero.
func (s *Service) IssueBook(ctx context.Context, userID, bookID uint) (*models.Loan, error) {
	now := s.Now()
	var loan models.Loan

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			return notFound(err)
		}
		var book models.Book
		if err := tx.First(&book, bookID).Error; err != nil {
			return notFound(err)
		}
		if !book.IsAvailable() {
			return ErrBookUnavailable
		}

		var open int64
		if err := tx.Model(&models.Loan{}).
			Where("user_id = ? AND book_id = ? AND returned_at IS NULL", user.ID, book.ID).
			Count(&open).Error; err != nil {
			return err
		}
		if open > 0 {
			return ErrAlreadyIssued
		}

		res := tx.Model(&models.Book{}).
			Where("id = ? AND available_copies > 0", book.ID).
			UpdateColumn("available_copies", gorm.Expr("available_copies - 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrBookUnavailable
		}
		book.AvailableCopies--

		loan = models.Loan{
			UserID:   user.ID,
			BookID:   book.ID,
			IssuedAt: now,
			DueAt:    now.Add(s.opts.LoanPeriod),
		}
		if err := tx.Create(&loan).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) { // Lost a race with a concurrent issue
				return ErrAlreadyIssued
			}
			return err
		}
		loan.User = user
		loan.Book = book

		return s.createNotification(tx, &models.Notification{
			UserID:   user.ID,
			LoanID:   &loan.ID,
			Kind:     models.KindIssued,
			Severity: models.SeverityInfo,
			Message:  fmt.Sprintf("Book '%s' has been issued to you. Due date: %s", book.Title, loan.DueAt.Format("2006-01-02")),
		})
	})
	if err != nil {
		return nil, err
	}

	s.publish(TopicLoanIssued, loanEvent(&loan))
	return &loan, nil
}

// ReturnBook closes an active loan, fixes its fine and puts the copy back.
// Closing is conditional on returned_at still being NULL, so a loan can only
// be returned once and its fine never changes afterwards.
func (s *Service) ReturnBook(ctx context.Context, loanID uint) (*models.Loan, error) {
	now := s.Now()
	var loan models.Loan

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Book").Preload("User").First(&loan, loanID).Error; err != nil {
			return notFound(err)
		}
		if !loan.IsActive() {
			return ErrAlreadyReturned
		}

		fine := models.CalculateFine(loan.DueAt, now, s.opts.FinePerDay)
		res := tx.Model(&models.Loan{}).
			Where("id = ? AND returned_at IS NULL", loan.ID).
			Updates(map[string]interface{}{"returned_at": now, "fine": fine})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyReturned
		}
		loan.ReturnedAt = &now
		loan.Fine = fine

		// Capped at total in case the book was shrunk while copies were out.
		res = tx.Model(&models.Book{}).
			Where("id = ? AND available_copies < total_copies", loan.BookID).
			UpdateColumn("available_copies", gorm.Expr("available_copies + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			loan.Book.AvailableCopies++
		}

		msg := fmt.Sprintf("Book '%s' has been returned.", loan.Book.Title)
		if fine > 0 {
			msg += " Fine: " + s.Money(fine)
		}
		return s.createNotification(tx, &models.Notification{
			UserID:   loan.UserID,
			LoanID:   &loan.ID,
			Kind:     models.KindReturned,
			Severity: models.SeverityInfo,
			Message:  msg,
		})
	})
	if err != nil {
		return nil, err
	}

	s.publish(TopicLoanReturned, loanEvent(&loan))
	return &loan, nil
}

func (s *Service) loans(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Model(&models.Loan{}).Preload("User").Preload("Book")
}

// RecentLoans returns the latest loans first, returned ones included.
func (s *Service) RecentLoans(ctx context.Context, limit int) ([]models.Loan, error) {
	var loans []models.Loan
	q := s.loans(ctx).Order("issued_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&loans).Error
	return loans, err
}

// ActiveLoans lists every unreturned loan, oldest due date first.
func (s *Service) ActiveLoans(ctx context.Context) ([]models.Loan, error) {
	var loans []models.Loan
	err := s.loans(ctx).Where("returned_at IS NULL").Order("due_at ASC, id ASC").Find(&loans).Error
	return loans, err
}

func (s *Service) OverdueLoans(ctx context.Context) ([]models.Loan, error) {
	var loans []models.Loan
	err := s.loans(ctx).
		Where("returned_at IS NULL AND due_at < ?", s.Now()).
		Order("due_at ASC, id ASC").
		Find(&loans).Error
	return loans, err
}

// UserLoans returns one user's loans, newest first.
func (s *Service) UserLoans(ctx context.Context, userID uint) ([]models.Loan, error) {
	var loans []models.Loan
	err := s.loans(ctx).Where("user_id = ?", userID).Order("issued_at DESC, id DESC").Find(&loans).Error
	return loans, err
}
