// admin.go - Admin dashboard, memberships and circulation history

package handlers

import (
	"go-library-backend/models"

	"github.com/gin-gonic/gin"
)

const recentIssuesLimit = 50

// AdminDashboard shows counters, the five latest issues and overdue loans.
func (h *Handler) AdminDashboard(c *gin.Context) {
	ctx := c.Request.Context()
	stats, err := h.Library.AdminStats(ctx)
	if err != nil {
		internalError(c, err)
		return
	}
	overdue, err := h.Library.OverdueLoans(ctx)
	if err != nil {
		internalError(c, err)
		return
	}
	h.render(c, "admin_dashboard.html", gin.H{"Stats": stats, "Overdue": overdue})
}

func (h *Handler) RecentIssues(c *gin.Context) {
	loans, err := h.Library.RecentLoans(c.Request.Context(), recentIssuesLimit)
	if err != nil {
		internalError(c, err)
		return
	}
	h.render(c, "recent_issues.html", gin.H{"Loans": loans})
}

// Memberships lists students with their tier and whether it is active.
func (h *Handler) Memberships(c *gin.Context) {
	students, err := h.Library.ListStudents(c.Request.Context())
	if err != nil {
		internalError(c, err)
		return
	}
	h.render(c, "memberships.html", gin.H{"Students": students})
}

func (h *Handler) UpdateMembership(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		redirect(c, "/memberships", "danger", "Invalid selection.")
		return
	}
	tier := models.MembershipTier(c.PostForm("membership_type"))
	user, err := h.Library.UpdateMembership(c.Request.Context(), id, tier)
	if err != nil {
		fail(c, "/memberships", err)
		return
	}
	redirect(c, "/memberships", "success", "Membership updated successfully for "+user.Name+"!")
}
