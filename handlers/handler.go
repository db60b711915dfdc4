// handler.go - Shared handler state, page rendering and error messages

package handlers

import (
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go-library-backend/config"
	"go-library-backend/library"
	"go-library-backend/middleware"
	"go-library-backend/models"
	"go-library-backend/uploads"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler bundles what the HTTP layer needs. Build it with NewHandler.
type Handler struct {
	DB      *gorm.DB
	Cfg     *config.Config
	Library *library.Service
	Covers  *uploads.Store
}

func NewHandler(db *gorm.DB, cfg *config.Config, svc *library.Service, covers *uploads.Store) *Handler {
	return &Handler{DB: db, Cfg: cfg, Library: svc, Covers: covers}
}

// FuncMap is installed on the engine before templates are parsed.
func FuncMap(currency string, finePerDay float64) template.FuncMap {
	return template.FuncMap{
		"date": func(t time.Time) string { return t.UTC().Format("2006-01-02") },
		"datetime": func(t time.Time) string {
			return t.UTC().Format("2006-01-02 15:04")
		},
		"datePtr": func(t *time.Time) string {
			if t == nil {
				return "N/A"
			}
			return t.UTC().Format("2006-01-02")
		},
		"money":     func(amount float64) string { return models.FormatAmount(currency, amount) },
		"tierLabel": func(t models.MembershipTier) string { return t.Label(currency) },
		"tiers":     func() []models.MembershipTier { return models.MembershipTiers },
		"accrued": func(due, now time.Time) float64 {
			return models.CalculateFine(due, now, finePerDay)
		},
	}
}

// render adds the layout data every page needs: the current user, pending
// flashes, the unread badge and the clock used for overdue markers.
func (h *Handler) render(c *gin.Context, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	user := middleware.CurrentUser(c)
	data["CurrentUser"] = user
	data["Flashes"] = middleware.GetFlashes(c)
	data["Now"] = h.Library.Now()
	if user != nil {
		if unread, err := h.Library.UnreadCount(c.Request.Context(), user.ID); err == nil {
			data["Unread"] = unread
		}
	}
	c.HTML(http.StatusOK, name, data)
}

// redirect flashes a message and sends the browser to path.
func redirect(c *gin.Context, path, category, message string) {
	if message != "" {
		middleware.SetFlash(c, category, message)
	}
	c.Redirect(http.StatusFound, path)
}

// fail turns a service error into a flash and a redirect.
func fail(c *gin.Context, path string, err error) {
	redirect(c, path, "danger", errorMessage(err))
}

// errorMessage is the user-facing text for a service error.
func errorMessage(err error) string {
	var inUse *library.CategoryInUseError
	switch {
	case errors.As(err, &inUse):
		return fmt.Sprintf("Cannot delete category. %d books are using this category.", inUse.Count)
	case errors.Is(err, library.ErrInvalidSelection):
		return "Invalid selection."
	case errors.Is(err, library.ErrBookUnavailable):
		return "Book is not available for issue."
	case errors.Is(err, library.ErrAlreadyIssued):
		return "Student already has this book issued."
	case errors.Is(err, library.ErrAlreadyReturned):
		return "Invalid book return request."
	case errors.Is(err, library.ErrBookIssued):
		return "Cannot delete book. It is currently issued to students."
	case errors.Is(err, library.ErrDuplicateCategory):
		return "Category already exists."
	case errors.Is(err, library.ErrCategoryNameRequired):
		return "Category name is required."
	case errors.Is(err, library.ErrDuplicateEmail):
		return "Email already registered"
	case errors.Is(err, library.ErrMissingFields):
		return "Please fill in all required fields."
	case errors.Is(err, library.ErrInvalidCopies):
		return "Total copies must be at least 1."
	case errors.Is(err, library.ErrInvalidMembership):
		return "Invalid membership type."
	case errors.Is(err, library.ErrInvalidCredentials):
		return "Invalid email or password"
	case errors.Is(err, uploads.ErrFileType):
		return "Invalid file type. Please upload an image."
	case errors.Is(err, uploads.ErrFileTooLarge):
		return "Cover image is too large."
	}
	log.Printf("request failed: %v", err)
	return "Something went wrong. Please try again."
}

// paramID parses a positive numeric path parameter.
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// formID parses a positive numeric form or query field; zero when absent.
func formID(value string) uint {
	id, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}

// safeNext only accepts local paths so ?next= cannot redirect off-site.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	u, err := url.Parse(next)
	if err != nil || u.IsAbs() || u.Host != "" {
		return ""
	}
	return next
}

// home is the landing page for a user's role.
func home(user *models.User) string {
	if user != nil && user.IsAdmin() {
		return "/admin/dashboard"
	}
	return "/student/dashboard"
}

// internalError is for read-only pages where a redirect could loop.
func internalError(c *gin.Context, err error) {
	log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.String(http.StatusInternalServerError, "Internal server error")
}
