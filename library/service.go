// service.go - Service type, options and the errors it returns

// Package library holds the circulation rules: issuing and returning books,
// fines, memberships, categories and the due/overdue notification sweep.
// Handlers call into a Service; nothing here knows about HTTP.
package library

import (
	"errors"
	"fmt"
	"log"
	"time"

	"go-library-backend/models"

	"gorm.io/gorm"
)

var (
	ErrInvalidSelection     = errors.New("invalid selection")
	ErrBookUnavailable      = errors.New("book is not available for issue")
	ErrAlreadyIssued        = errors.New("student already has this book issued")
	ErrAlreadyReturned      = errors.New("loan already returned")
	ErrBookIssued           = errors.New("book has copies issued to students")
	ErrDuplicateCategory    = errors.New("category already exists")
	ErrCategoryNameRequired = errors.New("category name is required")
	ErrDuplicateEmail       = errors.New("email already registered")
	ErrMissingFields        = errors.New("required fields are missing")
	ErrInvalidCopies        = errors.New("total copies must be at least 1")
	ErrInvalidMembership    = errors.New("unknown membership type")
	ErrInvalidCredentials   = errors.New("invalid email or password")
)

// CategoryInUseError blocks deleting a category that books still reference.
type CategoryInUseError struct {
	Count int64
}

func (e *CategoryInUseError) Error() string {
	return fmt.Sprintf("category is used by %d books", e.Count)
}

// EventPublisher receives loan lifecycle events. *mqtt.Client satisfies it.
type EventPublisher interface {
	Publish(topic string, payload interface{}) error
}

type Options struct {
	FinePerDay float64
	LoanPeriod time.Duration
	Currency   string
	Now        func() time.Time // nil means time.Now
}

type Service struct {
	db     *gorm.DB
	opts   Options
	events EventPublisher
}

func NewService(db *gorm.DB, opts Options, events EventPublisher) *Service {
	if opts.LoanPeriod <= 0 {
		opts.LoanPeriod = 10 * 24 * time.Hour
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if events == nil {
		events = nopPublisher{}
	}
	return &Service{db: db, opts: opts, events: events}
}

// Now is the service clock in UTC. All stored timestamps use it.
func (s *Service) Now() time.Time {
	return s.opts.Now().UTC()
}

func (s *Service) Currency() string {
	return s.opts.Currency
}

func (s *Service) FinePerDay() float64 {
	return s.opts.FinePerDay
}

// Money formats an amount with the configured currency.
func (s *Service) Money(amount float64) string {
	return models.FormatAmount(s.opts.Currency, amount)
}

func (s *Service) publish(topic string, payload interface{}) {
	if err := s.events.Publish(topic, payload); err != nil {
		log.Printf("publish %s: %v", topic, err)
	}
}

// notFound maps gorm's missing-row error to ErrInvalidSelection.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrInvalidSelection
	}
	return err
}

type nopPublisher struct{}

func (nopPublisher) Publish(string, interface{}) error { return nil }
