// seed.go - Seeds the default admin and sample catalog data

package database

import (
	"log"

	"go-library-backend/config"
	"go-library-backend/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var defaultCategories = []string{
	"Fiction", "Science Fiction", "Romance", "Political Fiction", "Mystery",
	"Biography", "History", "Science", "Technology", "Philosophy",
}

type sampleBook struct {
	title, author, category string
	copies                  int
}

var sampleBooks = []sampleBook{
	{"The Great Gatsby", "F. Scott Fitzgerald", "Fiction", 3},
	{"To Kill a Mockingbird", "Harper Lee", "Fiction", 2},
	{"1984", "George Orwell", "Science Fiction", 4},
	{"Pride and Prejudice", "Jane Austen", "Romance", 2},
	{"The Catcher in the Rye", "J.D. Salinger", "Fiction", 3},
	{"Lord of the Flies", "William Golding", "Fiction", 2},
	{"Animal Farm", "George Orwell", "Political Fiction", 3},
	{"Brave New World", "Aldous Huxley", "Science Fiction", 2},
}

// Seed creates the default admin when configured and none exists, and fills
// an empty catalog with sample data.
func Seed(db *gorm.DB, cfg *config.Config) error {
	if err := createDefaultAdmin(db, cfg); err != nil {
		return err
	}
	if cfg.SeedSampleData {
		return createSampleData(db)
	}
	return nil
}

// createDefaultAdmin - Creates a default admin user if configured and none exists
// Credentials come from the environment instead of being hardcoded
func createDefaultAdmin(db *gorm.DB, cfg *config.Config) error {
	if !cfg.CreateAdmin {
		return nil
	}

	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := models.User{
		Name:           "Admin User",
		Email:          cfg.AdminEmail,
		Password:       string(hash),
		Role:           models.RoleAdmin,
		MembershipType: models.MembershipLifetime,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	log.Printf("created default admin %s", admin.Email)
	return nil
}

func createSampleData(db *gorm.DB) error {
	var books int64
	if err := db.Model(&models.Book{}).Count(&books).Error; err != nil {
		return err
	}
	if books > 0 {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		byName := make(map[string]uint, len(defaultCategories))
		for _, name := range defaultCategories {
			category := models.Category{Name: name}
			if err := tx.Where(models.Category{Name: name}).FirstOrCreate(&category).Error; err != nil {
				return err
			}
			byName[name] = category.ID
		}

		for _, b := range sampleBooks {
			book := models.Book{
				Title:           b.title,
				Author:          b.author,
				CategoryID:      byName[b.category],
				TotalCopies:     b.copies,
				AvailableCopies: b.copies,
			}
			if err := tx.Create(&book).Error; err != nil {
				return err
			}
		}

		var students int64
		if err := tx.Model(&models.User{}).Where("role = ?", models.RoleStudent).Count(&students).Error; err != nil {
			return err
		}
		if students == 0 {
			hash, err := bcrypt.GenerateFromPassword([]byte("student123"), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			student := models.User{
				Name:           "John Doe",
				Email:          "student@library.com",
				Mobile:         "9123456789",
				Password:       string(hash),
				Role:           models.RoleStudent,
				MembershipType: models.MembershipBasic,
			}
			if err := tx.Create(&student).Error; err != nil {
				return err
			}
		}

		log.Println("sample data created")
		return nil
	})
}
