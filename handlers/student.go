// student.go - Student catalog browsing and loan history

package handlers

import (
	"go-library-backend/middleware"

	"github.com/gin-gonic/gin"
)

// StudentDashboard lists the catalog with an optional title/author search
// and category filter. Only categories that have books are offered.
func (h *Handler) StudentDashboard(c *gin.Context) {
	ctx := c.Request.Context()
	search := c.Query("search")
	categoryID := formID(c.Query("category"))

	books, err := h.Library.SearchBooks(ctx, search, categoryID)
	if err != nil {
		internalError(c, err)
		return
	}
	categories, err := h.Library.CategoriesInUse(ctx)
	if err != nil {
		internalError(c, err)
		return
	}

	h.render(c, "student_dashboard.html", gin.H{
		"Books":            books,
		"Categories":       categories,
		"Search":           search,
		"SelectedCategory": categoryID,
	})
}

// MyBooks shows the student's loans with due dates, fines and overdue marks.
func (h *Handler) MyBooks(c *gin.Context) {
	user := middleware.CurrentUser(c)
	loans, err := h.Library.UserLoans(c.Request.Context(), user.ID)
	if err != nil {
		internalError(c, err)
		return
	}
	h.render(c, "my_books.html", gin.H{"Loans": loans})
}
