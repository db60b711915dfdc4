// stats.go - Counters for the admin dashboard and database viewer

package library

import (
	"context"

	"go-library-backend/models"

	"gorm.io/gorm"
)

// AdminStats feeds the admin dashboard.
type AdminStats struct {
	TotalBooks      int64
	TotalStudents   int64
	IssuedBooks     int64 // active loans
	AvailableCopies int64
	OverdueBooks    int64
	RecentLoans     []models.Loan
}

// DatabaseStats summarises every table for the database viewer.
type DatabaseStats struct {
	TotalUsers          int64
	Students            int64
	Admins              int64
	TotalBooks          int64
	TotalCategories     int64
	TotalLoans          int64
	ActiveLoans         int64
	ReturnedLoans       int64
	OverdueLoans        int64
	TotalNotifications  int64
	UnreadNotifications int64
	FinesCollected      float64
}

func count(db *gorm.DB, model interface{}, dest *int64, where ...interface{}) error {
	q := db.Model(model)
	if len(where) > 0 {
		q = q.Where(where[0], where[1:]...)
	}
	return q.Count(dest).Error
}

func (s *Service) AdminStats(ctx context.Context) (*AdminStats, error) {
	db := s.db.WithContext(ctx)
	stats := &AdminStats{}

	steps := []error{
		count(db, &models.Book{}, &stats.TotalBooks),
		count(db, &models.User{}, &stats.TotalStudents, "role = ?", models.RoleStudent),
		count(db, &models.Loan{}, &stats.IssuedBooks, "returned_at IS NULL"),
		count(db, &models.Loan{}, &stats.OverdueBooks, "returned_at IS NULL AND due_at < ?", s.Now()),
		db.Model(&models.Book{}).Select("COALESCE(SUM(available_copies), 0)").Scan(&stats.AvailableCopies).Error,
	}
	for _, err := range steps {
		if err != nil {
			return nil, err
		}
	}

	recent, err := s.RecentLoans(ctx, 5)
	if err != nil {
		return nil, err
	}
	stats.RecentLoans = recent
	return stats, nil
}

func (s *Service) DatabaseStats(ctx context.Context) (*DatabaseStats, error) {
	db := s.db.WithContext(ctx)
	stats := &DatabaseStats{}

	steps := []error{
		count(db, &models.User{}, &stats.TotalUsers),
		count(db, &models.User{}, &stats.Students, "role = ?", models.RoleStudent),
		count(db, &models.User{}, &stats.Admins, "role = ?", models.RoleAdmin),
		count(db, &models.Book{}, &stats.TotalBooks),
		count(db, &models.Category{}, &stats.TotalCategories),
		count(db, &models.Loan{}, &stats.TotalLoans),
		count(db, &models.Loan{}, &stats.ActiveLoans, "returned_at IS NULL"),
		count(db, &models.Loan{}, &stats.ReturnedLoans, "returned_at IS NOT NULL"),
		count(db, &models.Loan{}, &stats.OverdueLoans, "returned_at IS NULL AND due_at < ?", s.Now()),
		count(db, &models.Notification{}, &stats.TotalNotifications),
		count(db, &models.Notification{}, &stats.UnreadNotifications, "is_read = ?", false),
		db.Model(&models.Loan{}).Select("COALESCE(SUM(fine), 0)").Scan(&stats.FinesCollected).Error,
	}
	for _, err := range steps {
		if err != nil {
			return nil, err
		}
	}
	return stats, nil
}
