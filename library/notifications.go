// notifications.go - Stores and reads user notifications

package library

import (
	"context"

	"go-library-backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// createNotification stamps the row with the service clock and inserts it
// inside the caller's transaction.
func (s *Service) createNotification(tx *gorm.DB, n *models.Notification) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.Now()
	}
	if n.Kind == "" {
		n.Kind = models.KindGeneral
	}
	if n.Severity == "" {
		n.Severity = models.SeverityInfo
	}
	return tx.Create(n).Error
}

// createOnce inserts n keyed by its dedup key. It reports false when a row
// with the same key already exists.
func (s *Service) createOnce(tx *gorm.DB, n *models.Notification, key string) (bool, error) {
	n.DedupKey = &key
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.Now()
	}
	res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(n)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Notify appends a general message for a user.
func (s *Service) Notify(ctx context.Context, userID uint, message string, severity models.Severity) (*models.Notification, error) {
	if message == "" {
		return nil, ErrMissingFields
	}
	n := &models.Notification{UserID: userID, Message: message, Severity: severity}
	if err := s.createNotification(s.db.WithContext(ctx), n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *Service) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// ListAndMarkRead returns a user's notifications newest first and marks the
// fetched unread ones as read. The returned rows keep their pre-read state so
// a page can highlight what was new.
func (s *Service) ListAndMarkRead(ctx context.Context, userID uint) ([]models.Notification, error) {
	var list []models.Notification
	db := s.db.WithContext(ctx)
	if err := db.Where("user_id = ?", userID).Order("created_at DESC, id DESC").Find(&list).Error; err != nil {
		return nil, err
	}

	var unread []uint
	for _, n := range list {
		if !n.IsRead {
			unread = append(unread, n.ID)
		}
	}
	if len(unread) == 0 {
		return list, nil
	}
	err := db.Model(&models.Notification{}).Where("id IN ?", unread).Update("is_read", true).Error
	return list, err
}
