// books.go - Admin catalog management: list, add, edit, delete

package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"go-library-backend/library"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Books(c *gin.Context) {
	books, err := h.Library.ListBooks(c.Request.Context())
	if err != nil {
		internalError(c, err)
		return
	}
	h.render(c, "books.html", gin.H{"Books": books})
}

func (h *Handler) AddBookForm(c *gin.Context) {
	categories, err := h.Library.AllCategories(c.Request.Context())
	if err != nil {
		internalError(c, err)
		return
	}
	h.render(c, "add_book.html", gin.H{"Categories": categories})
}

// AddBook stores the optional cover first and deletes it again if the book
// row cannot be written.
func (h *Handler) AddBook(c *gin.Context) {
	// STEP 1: Save the cover, if one was sent
	cover, err := h.saveCover(c)
	if err != nil {
		fail(c, "/books/add", err)
		return
	}

	// STEP 2: Create the book with every copy on the shelf
	_, err = h.Library.CreateBook(c.Request.Context(), bookInput(c, cover))
	if err != nil {
		h.removeCover(cover) // Nothing references it now
		fail(c, "/books/add", err)
		return
	}
	redirect(c, "/books", "success", "Book added successfully!")
}

func (h *Handler) EditBookForm(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		fail(c, "/books", library.ErrInvalidSelection)
		return
	}
	ctx := c.Request.Context()
	book, err := h.Library.GetBook(ctx, id)
	if err != nil {
		fail(c, "/books", err)
		return
	}
	categories, err := h.Library.AllCategories(ctx)
	if err != nil {
		internalError(c, err)
		return
	}
	h.render(c, "edit_book.html", gin.H{"Book": book, "Categories": categories})
}

// EditBook updates the book; a replaced cover file is removed afterwards.
func (h *Handler) EditBook(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		fail(c, "/books", library.ErrInvalidSelection)
		return
	}
	back := "/books/edit/" + strconv.FormatUint(uint64(id), 10)

	cover, err := h.saveCover(c)
	if err != nil {
		fail(c, back, err)
		return
	}

	_, oldCover, err := h.Library.UpdateBook(c.Request.Context(), id, bookInput(c, cover))
	if err != nil {
		h.removeCover(cover)
		if errors.Is(err, library.ErrInvalidSelection) {
			back = "/books"
		}
		fail(c, back, err)
		return
	}
	h.removeCover(oldCover)
	redirect(c, "/books", "success", "Book updated successfully!")
}

func (h *Handler) DeleteBook(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		fail(c, "/books", library.ErrInvalidSelection)
		return
	}
	cover, err := h.Library.DeleteBook(c.Request.Context(), id)
	if err != nil {
		fail(c, "/books", err)
		return
	}
	h.removeCover(cover)
	redirect(c, "/books", "success", "Book deleted successfully!")
}

func bookInput(c *gin.Context, cover string) library.BookInput {
	copies, err := strconv.Atoi(strings.TrimSpace(c.PostForm("total_copies")))
	if err != nil {
		copies = 0 // Rejected by the service as invalid
	}
	return library.BookInput{
		Title:       c.PostForm("title"),
		Author:      c.PostForm("author"),
		CategoryID:  formID(c.PostForm("category_id")),
		TotalCopies: copies,
		CoverPhoto:  cover,
	}
}

// saveCover returns the stored file name, or "" when no file was chosen.
func (h *Handler) saveCover(c *gin.Context) (string, error) {
	fh, err := c.FormFile("cover_photo")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", nil
		}
		return "", err
	}
	if fh.Filename == "" {
		return "", nil
	}
	return h.Covers.Save(fh)
}

func (h *Handler) removeCover(name string) {
	if err := h.Covers.Remove(name); err != nil {
		log.Printf("remove cover %s: %v", name, err)
	}
}
