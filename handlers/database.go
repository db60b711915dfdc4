// database.go - Read-only database viewer and spreadsheet download

package handlers

import (
	"bytes"
	"net/http"

	"go-library-backend/export"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DatabaseView renders every table plus summary statistics.
func (h *Handler) DatabaseView(c *gin.Context) {
	ctx := c.Request.Context()
	tables, err := export.Snapshot(ctx, h.DB, h.Cfg.Currency)
	if err != nil {
		internalError(c, err)
		return
	}
	stats, err := h.Library.DatabaseStats(ctx)
	if err != nil {
		internalError(c, err)
		return
	}
	h.render(c, "database.html", gin.H{"Tables": tables, "Stats": stats})
}

// DatabaseExport streams all tables as an .xlsx attachment. The workbook is
// built in memory first so a failure can still redirect with a message.
func (h *Handler) DatabaseExport(c *gin.Context) {
	tables, err := export.Snapshot(c.Request.Context(), h.DB, h.Cfg.Currency)
	if err != nil {
		fail(c, "/admin/database", err)
		return
	}
	var buf bytes.Buffer
	if err := export.WriteWorkbook(&buf, tables); err != nil {
		fail(c, "/admin/database", err)
		return
	}

	name := export.FileName(h.Library.Now())
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
