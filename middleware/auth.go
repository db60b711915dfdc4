// auth.go - Cookie session authentication and role gates
//
// Session Flow:
// 1. Login signs a JWT and stores it in an HttpOnly "token" cookie
// 2. Session() validates the cookie on every request
// 3. The user row is reloaded and stored on the gin context
// 4. Handlers read it back with CurrentUser(c)
//
// Gate Flow:
// 1. RequireLogin() sends anonymous visitors to /login?next=<path>
// 2. AdminOnly() / StudentOnly() send the wrong role to their own dashboard
// 3. Every denial leaves a flash message explaining why

package middleware

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"go-library-backend/config"
	"go-library-backend/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	TokenCookie = "token"
	userKey     = "current_user"
)

// Session loads the logged-in user, if any, onto the context. It never
// rejects a request; use RequireLogin for that.
func Session(db *gorm.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		// STEP 1: Read the session cookie
		tokenStr, err := c.Cookie(TokenCookie)
		if err != nil || tokenStr == "" {
			c.Next() // Anonymous request
			return
		}

		// STEP 2: Validate signature and expiry
		claims, err := ParseToken(tokenStr, cfg.JWTSecret)
		if err != nil {
			ClearSession(c, cfg) // Drop a stale or forged cookie
			c.Next()
			return
		}

		// STEP 3: Reload the user so role and membership are current
		var user models.User
		if err := db.WithContext(c.Request.Context()).First(&user, claims.UserID).Error; err != nil {
			ClearSession(c, cfg) // User was deleted since login
			c.Next()
			return
		}

		c.Set(userKey, &user) // Explicit current user for handlers
		c.Next()
	}
}

// CurrentUser returns the authenticated user or nil.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(userKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

// StartSession issues a session cookie for user.
func StartSession(c *gin.Context, cfg *config.Config, user *models.User) error {
	token, err := GenerateToken(user, cfg.JWTSecret, cfg.SessionTTL, time.Now())
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(TokenCookie, token, int(cfg.SessionTTL.Seconds()), "/", "", cfg.SecureCookie, true)
	return nil
}

func ClearSession(c *gin.Context, cfg *config.Config) {
	c.SetCookie(TokenCookie, "", -1, "/", "", cfg.SecureCookie, true)
}

// RequireLogin rejects anonymous requests. Pages redirect to the login form
// remembering where the visitor was going; /api/ routes get a 401.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) != nil {
			c.Next()
			return
		}
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		SetFlash(c, "info", "Please log in to access this page.")
		c.Redirect(http.StatusFound, "/login?next="+url.QueryEscape(c.Request.URL.RequestURI()))
		c.Abort()
	}
}

// AdminOnly lets administrators through and sends everyone else to the
// student dashboard. Must run after RequireLogin.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.IsAdmin() {
			SetFlash(c, "danger", "Access denied. Admin privileges required.")
			c.Redirect(http.StatusFound, "/student/dashboard")
			c.Abort()
			return
		}
		c.Next()
	}
}

// StudentOnly is the mirror of AdminOnly for student pages.
func StudentOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || user.IsAdmin() {
			SetFlash(c, "info", "This page is for students only.")
			c.Redirect(http.StatusFound, "/admin/dashboard")
			c.Abort()
			return
		}
		c.Next()
	}
}
