// categories.go - Category management and per-category book counts

package library

import (
	"context"
	"strings"
	"time"

	"go-library-backend/models"

	"gorm.io/gorm"
)

// CategorySummary is a category with the number of books filed under it.
type CategorySummary struct {
	ID        uint
	Name      string
	CreatedAt time.Time
	BookCount int64
}

func (s *Service) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrCategoryNameRequired
	}

	category := &models.Category{Name: name, CreatedAt: s.Now()}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.Category{}).Where("name = ?", name).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrDuplicateCategory
		}
		return tx.Create(category).Error
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes an unused category. While books reference it the
// delete is refused with a *CategoryInUseError carrying the count.
func (s *Service) DeleteCategory(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.First(&category, id).Error; err != nil {
			return notFound(err)
		}
		var count int64
		if err := tx.Model(&models.Book{}).Where("category_id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return &CategoryInUseError{Count: count}
		}
		return tx.Delete(&category).Error
	})
}

// ListCategories returns every category with its book count, by name.
func (s *Service) ListCategories(ctx context.Context) ([]CategorySummary, error) {
	var rows []CategorySummary
	err := s.db.WithContext(ctx).Model(&models.Category{}).
		Select("categories.id, categories.name, categories.created_at, COUNT(books.id) AS book_count").
		Joins("LEFT JOIN books ON books.category_id = categories.id").
		Group("categories.id, categories.name, categories.created_at").
		Order("categories.name ASC").
		Scan(&rows).Error
	return rows, err
}

func (s *Service) AllCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := s.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	return categories, err
}

// CategoriesInUse lists only categories that at least one book belongs to.
func (s *Service) CategoriesInUse(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	db := s.db.WithContext(ctx)
	err := db.
		Where("id IN (?)", db.Model(&models.Book{}).Select("category_id")).
		Order("name ASC").
		Find(&categories).Error
	return categories, err
}
