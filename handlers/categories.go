// categories.go - Admin category management

package handlers

import (
	"go-library-backend/library"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Categories(c *gin.Context) {
	categories, err := h.Library.ListCategories(c.Request.Context())
	if err != nil {
		internalError(c, err)
		return
	}
	h.render(c, "categories.html", gin.H{"Categories": categories})
}

func (h *Handler) AddCategory(c *gin.Context) {
	if _, err := h.Library.CreateCategory(c.Request.Context(), c.PostForm("name")); err != nil {
		fail(c, "/categories", err)
		return
	}
	redirect(c, "/categories", "success", "Category added successfully!")
}

// DeleteCategory refuses while books still use the category and says how
// many do.
func (h *Handler) DeleteCategory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		fail(c, "/categories", library.ErrInvalidSelection)
		return
	}
	if err := h.Library.DeleteCategory(c.Request.Context(), id); err != nil {
		fail(c, "/categories", err)
		return
	}
	redirect(c, "/categories", "success", "Category deleted successfully!")
}
