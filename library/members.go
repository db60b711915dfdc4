// members.go - Registration, login and membership tiers

package library

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-library-backend/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// RegisterInput is the public sign-up form. Self-registration always
// creates a student on the basic tier.
type RegisterInput struct {
	Name     string
	Email    string
	Mobile   string
	Password string
}

func (s *Service) RegisterUser(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Mobile = strings.TrimSpace(in.Mobile)
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, ErrMissingFields
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &models.User{
		Name:           in.Name,
		Email:          in.Email,
		Mobile:         in.Mobile,
		Password:       string(hashedPassword),
		Role:           models.RoleStudent,
		MembershipType: models.MembershipBasic,
		CreatedAt:      s.Now(),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.User{}).Where("email = ?", in.Email).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrDuplicateEmail
		}
		return tx.Create(user).Error
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate checks an email/password pair. Unknown emails and wrong
// passwords give the same error.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

func (s *Service) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (s *Service) ListStudents(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).Where("role = ?", models.RoleStudent).Order("name ASC, id ASC").Find(&users).Error
	return users, err
}

// UpdateMembership assigns a tier starting now and tells the user.
// Term tiers expire after their term; basic and lifetime clear the expiry.
func (s *Service) UpdateMembership(ctx context.Context, userID uint, tier models.MembershipTier) (*models.User, error) {
	if !tier.Valid() {
		return nil, ErrInvalidMembership
	}
	now := s.Now()
	var user models.User

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, userID).Error; err != nil {
			return notFound(err)
		}
		user.MembershipType = tier
		user.MembershipExpiry = tier.ExpiryFrom(now)
		if err := tx.Model(&user).Updates(map[string]interface{}{
			"membership_type":   user.MembershipType,
			"membership_expiry": user.MembershipExpiry,
		}).Error; err != nil {
			return err
		}

		return s.createNotification(tx, &models.Notification{
			UserID:   user.ID,
			Kind:     models.KindMembership,
			Severity: models.SeverityInfo,
			Message:  fmt.Sprintf("Your membership has been updated to %s.", tier.Label(s.opts.Currency)),
		})
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}
