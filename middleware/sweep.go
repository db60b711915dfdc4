// sweep.go - Runs the due/overdue sweep for the logged-in user

package middleware

import (
	"log"

	"go-library-backend/library"

	"github.com/gin-gonic/gin"
)

// DueSweep checks the current user's loans before the handler runs so new
// reminders show up in the same page load. Failures are logged and the
// request continues.
func DueSweep(svc *library.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user := CurrentUser(c); user != nil {
			if _, err := svc.Sweep(c.Request.Context(), user.ID); err != nil {
				log.Printf("due sweep for user %d: %v", user.ID, err)
			}
		}
		c.Next()
	}
}
