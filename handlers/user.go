// user.go - Handles the landing page, registration, login and logout

package handlers // Declares the package name

import (
	"log"      // Logging
	"net/http" // HTTP status codes
	"net/url"  // Escaping the next parameter

	"go-library-backend/library"    // Domain service (accounts)
	"go-library-backend/middleware" // Session cookie and flashes

	"github.com/gin-gonic/gin" // Gin web framework
)

// Index sends logged-in users to their dashboard and shows the welcome page
// to everyone else.
func (h *Handler) Index(c *gin.Context) {
	if user := middleware.CurrentUser(c); user != nil {
		c.Redirect(http.StatusFound, home(user))
		return
	}
	h.render(c, "index.html", nil)
}

func (h *Handler) LoginForm(c *gin.Context) {
	h.render(c, "login.html", gin.H{"Next": safeNext(c.Query("next"))})
}

// Login checks credentials and starts a cookie session.
func (h *Handler) Login(c *gin.Context) {
	// STEP 1: Verify email and password
	next := safeNext(c.Query("next"))
	user, err := h.Library.Authenticate(c.Request.Context(), c.PostForm("email"), c.PostForm("password"))
	if err != nil {
		back := "/login"
		if next != "" {
			back += "?next=" + url.QueryEscape(next)
		}
		fail(c, back, err) // Back to the form with a flash
		return
	}

	// STEP 2: Issue the session cookie
	if err := middleware.StartSession(c, h.Cfg, user); err != nil {
		log.Printf("start session: %v", err)
		redirect(c, "/login", "danger", "Could not start a session. Please try again.")
		return
	}

	// STEP 3: Go where the visitor was headed, or to their dashboard
	if next != "" {
		c.Redirect(http.StatusFound, next)
		return
	}
	c.Redirect(http.StatusFound, home(user))
}

func (h *Handler) RegisterForm(c *gin.Context) {
	h.render(c, "register.html", nil)
}

// Register creates a student account. Administrators are only created by
// seeding, never through this form.
func (h *Handler) Register(c *gin.Context) {
	_, err := h.Library.RegisterUser(c.Request.Context(), library.RegisterInput{
		Name:     c.PostForm("name"),
		Email:    c.PostForm("email"),
		Mobile:   c.PostForm("mobile"),
		Password: c.PostForm("password"),
	})
	if err != nil {
		fail(c, "/register", err)
		return
	}
	redirect(c, "/login", "success", "Registration successful! Please login.")
}

func (h *Handler) Logout(c *gin.Context) {
	middleware.ClearSession(c, h.Cfg)
	redirect(c, "/", "info", "You have been logged out.")
}
