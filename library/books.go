// books.go - Catalog: add, edit, delete and search books

package library

import (
	"context"
	"strings"

	"go-library-backend/models"

	"gorm.io/gorm"
)

// BookInput carries the admin form fields for adding or editing a book.
// An empty CoverPhoto on update keeps the existing cover.
type BookInput struct {
	Title       string
	Author      string
	CategoryID  uint
	TotalCopies int
	CoverPhoto  string
}

func (in *BookInput) normalize(tx *gorm.DB) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Author = strings.TrimSpace(in.Author)
	if in.Title == "" || in.Author == "" || in.CategoryID == 0 {
		return ErrMissingFields
	}
	if in.TotalCopies < 1 {
		return ErrInvalidCopies
	}
	var category models.Category
	if err := tx.First(&category, in.CategoryID).Error; err != nil {
		return notFound(err)
	}
	return nil
}

// CreateBook adds a book with every copy available.
func (s *Service) CreateBook(ctx context.Context, in BookInput) (*models.Book, error) {
	db := s.db.WithContext(ctx)
	if err := in.normalize(db); err != nil {
		return nil, err
	}
	book := &models.Book{
		Title:           in.Title,
		Author:          in.Author,
		CategoryID:      in.CategoryID,
		TotalCopies:     in.TotalCopies,
		AvailableCopies: in.TotalCopies,
		CoverPhoto:      in.CoverPhoto,
		CreatedAt:       s.Now(),
	}
	if err := db.Create(book).Error; err != nil {
		return nil, err
	}
	return book, nil
}

// UpdateBook edits a book. Copies already out stay out: available becomes
// the new total minus the issued count, floored at zero. When a new cover
// replaces an old one the old file name is returned for cleanup.
func (s *Service) UpdateBook(ctx context.Context, id uint, in BookInput) (*models.Book, string, error) {
	var book models.Book
	var oldCover string

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&book, id).Error; err != nil {
			return notFound(err)
		}
		if err := in.normalize(tx); err != nil {
			return err
		}

		issued := book.IssuedCount()
		book.Title = in.Title
		book.Author = in.Author
		book.CategoryID = in.CategoryID
		book.TotalCopies = in.TotalCopies
		book.AvailableCopies = in.TotalCopies - issued
		if book.AvailableCopies < 0 {
			book.AvailableCopies = 0
		}
		if in.CoverPhoto != "" && in.CoverPhoto != book.CoverPhoto {
			oldCover = book.CoverPhoto
			book.CoverPhoto = in.CoverPhoto
		}

		return tx.Model(&book).Select("title", "author", "category_id", "total_copies", "available_copies", "cover_photo").
			Updates(&book).Error
	})
	if err != nil {
		return nil, "", err
	}
	return &book, oldCover, nil
}

// DeleteBook removes a book and its loan history. A book with copies still
// issued cannot be deleted. Returns the cover file name for cleanup.
func (s *Service) DeleteBook(ctx context.Context, id uint) (string, error) {
	var book models.Book
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&book, id).Error; err != nil {
			return notFound(err)
		}

		var open int64
		if err := tx.Model(&models.Loan{}).
			Where("book_id = ? AND returned_at IS NULL", book.ID).
			Count(&open).Error; err != nil {
			return err
		}
		if open > 0 || book.IssuedCount() > 0 {
			return ErrBookIssued
		}

		history := tx.Model(&models.Loan{}).Select("id").Where("book_id = ?", book.ID)
		if err := tx.Model(&models.Notification{}).
			Where("loan_id IN (?)", history).
			Update("loan_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("book_id = ?", book.ID).Delete(&models.Loan{}).Error; err != nil {
			return err
		}
		return tx.Delete(&book).Error
	})
	if err != nil {
		return "", err
	}
	return book.CoverPhoto, nil
}

func (s *Service) GetBook(ctx context.Context, id uint) (*models.Book, error) {
	var book models.Book
	if err := s.db.WithContext(ctx).Preload("Category").First(&book, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &book, nil
}

// SearchBooks filters by a case-insensitive substring of title or author and
// optionally by category. Zero values match everything.
func (s *Service) SearchBooks(ctx context.Context, query string, categoryID uint) ([]models.Book, error) {
	q := s.db.WithContext(ctx).Preload("Category")
	if query = strings.TrimSpace(query); query != "" {
		like := "%" + strings.ToLower(query) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(author) LIKE ?", like, like)
	}
	if categoryID != 0 {
		q = q.Where("category_id = ?", categoryID)
	}

	var books []models.Book
	err := q.Order("title ASC, id ASC").Find(&books).Error
	return books, err
}

func (s *Service) ListBooks(ctx context.Context) ([]models.Book, error) {
	return s.SearchBooks(ctx, "", 0)
}

// AvailableBooks lists books with at least one copy on the shelf.
func (s *Service) AvailableBooks(ctx context.Context) ([]models.Book, error) {
	var books []models.Book
	err := s.db.WithContext(ctx).Preload("Category").
		Where("available_copies > 0").
		Order("title ASC, id ASC").
		Find(&books).Error
	return books, err
}
