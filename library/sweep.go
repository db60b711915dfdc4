// sweep.go - Due-tomorrow and overdue reminders, per user and in the background

package library

import (
	"context"
	"fmt"
	"log"
	"time"

	"go-library-backend/models"
)

// Sweep scans a user's active loans and records at most one due-tomorrow or
// overdue notification per loan per calendar day. It is idempotent within a
// day: the dedup key is unique, so reruns and concurrent sweeps insert
// nothing new. Returns the number of notifications created.
func (s *Service) Sweep(ctx context.Context, userID uint) (int, error) {
	now := s.Now()
	today := models.CalendarDay(now) // Dedup window

	var loans []models.Loan
	if err := s.db.WithContext(ctx).Preload("Book").
		Where("user_id = ? AND returned_at IS NULL", userID).
		Order("due_at ASC, id ASC").
		Find(&loans).Error; err != nil {
		return 0, err
	}

	db := s.db.WithContext(ctx)
	created := 0
	for i := range loans {
		loan := &loans[i]

		var n *models.Notification
		switch {
		case loan.IsDueTomorrow(now):
			n = &models.Notification{
				Kind:     models.KindDueSoon,
				Severity: models.SeverityWarning,
				Message:  fmt.Sprintf("Book '%s' is due tomorrow!", loan.Book.Title),
			}
		case loan.IsOverdue(now):
			days := loan.DaysOverdue(now)
			fine := float64(days) * s.opts.FinePerDay
			n = &models.Notification{
				Kind:     models.KindOverdue,
				Severity: models.SeverityDanger,
				Message:  fmt.Sprintf("Book '%s' is overdue by %d days. Fine: %s", loan.Book.Title, days, s.Money(fine)),
			}
		default:
			continue
		}
		n.UserID = loan.UserID
		n.LoanID = &loan.ID

		ok, err := s.createOnce(db, n, models.DedupKey(loan.UserID, loan.ID, today, n.Kind))
		if err != nil {
			return created, err
		}
		if ok {
			created++
		}
	}
	return created, nil
}

// SweepAll runs Sweep for every user holding an active loan.
func (s *Service) SweepAll(ctx context.Context) (int, error) {
	var userIDs []uint
	if err := s.db.WithContext(ctx).Model(&models.Loan{}).
		Where("returned_at IS NULL").
		Distinct("user_id").Pluck("user_id", &userIDs).Error; err != nil {
		return 0, err
	}

	total := 0
	for _, id := range userIDs {
		n, err := s.Sweep(ctx, id)
		total += n
		if err != nil {
			return total, fmt.Errorf("sweep user %d: %w", id, err)
		}
	}
	return total, nil
}

// StartSweeper runs SweepAll now and then every interval until ctx is done.
// The returned channel is closed once the worker has exited; with no
// interval nothing is started and the channel is already closed.
func (s *Service) StartSweeper(ctx context.Context, interval time.Duration) <-chan struct{} {
	done := make(chan struct{})
	if interval <= 0 {
		close(done)
		return done
	}
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			n, err := s.SweepAll(ctx)
			if err != nil && ctx.Err() == nil { // Errors after cancel are expected
				log.Printf("due sweep failed: %v", err)
			} else if n > 0 {
				log.Printf("due sweep created %d notifications", n)
			}

			select {
			case <-ctx.Done():
				return
			case <-ticker.C: // Next round
			}
		}
	}()
	return done
}
