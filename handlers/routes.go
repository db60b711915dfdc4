// routes.go - Registers every page and API route on the Gin engine

package handlers

import (
	"go-library-backend/middleware"

	"github.com/gin-gonic/gin"
)

// Routes wires middleware and handlers. Templates must already be loaded
// on r (see FuncMap).
func (h *Handler) Routes(r *gin.Engine) {
	r.MaxMultipartMemory = h.Cfg.MaxUploadMB << 20 // Cover upload limit
	r.Static("/uploads", h.Cfg.UploadDir)          // Serve stored covers

	r.Use(middleware.Flashes())            // One-shot messages
	r.Use(middleware.Session(h.DB, h.Cfg)) // Current user, if logged in

	// Public routes (no login required)
	r.GET("/", h.Index)
	r.GET("/login", h.LoginForm)
	r.POST("/login", h.Login)
	r.GET("/register", h.RegisterForm)
	r.POST("/register", h.Register)
	r.GET("/logout", h.Logout)

	// Authenticated routes; each request also runs the due/overdue sweep
	auth := r.Group("/")
	auth.Use(middleware.RequireLogin())
	if h.Cfg.SweepOnRequest {
		auth.Use(middleware.DueSweep(h.Library))
	}
	{
		auth.GET("/notifications", h.Notifications)
		auth.GET("/api/notifications/count", h.NotificationCount)
		auth.GET("/student/dashboard", h.StudentDashboard)
		auth.GET("/my-books", middleware.StudentOnly(), h.MyBooks)
	}

	// Admin routes (admin role required)
	admin := auth.Group("/")
	admin.Use(middleware.AdminOnly())
	{
		admin.GET("/admin/dashboard", h.AdminDashboard)

		admin.GET("/books", h.Books)
		admin.GET("/books/add", h.AddBookForm)
		admin.POST("/books/add", h.AddBook)
		admin.GET("/books/edit/:id", h.EditBookForm)
		admin.POST("/books/edit/:id", h.EditBook)
		admin.POST("/books/delete/:id", h.DeleteBook)

		admin.GET("/issue-book", h.IssueBookForm)
		admin.POST("/issue-book", h.IssueBook)
		admin.GET("/return-book", h.ReturnBookForm)
		admin.POST("/return-book", h.ReturnBook)

		admin.GET("/categories", h.Categories)
		admin.POST("/categories/add", h.AddCategory)
		admin.POST("/categories/delete/:id", h.DeleteCategory)

		admin.GET("/memberships", h.Memberships)
		admin.POST("/memberships/update/:id", h.UpdateMembership)
		admin.GET("/recent-issues", h.RecentIssues)

		admin.GET("/admin/database", h.DatabaseView)
		admin.GET("/admin/database/export", h.DatabaseExport)
	}
}
