// loans.go - Admin issue and return desks

package handlers

import (
	"errors"

	"go-library-backend/library"

	"github.com/gin-gonic/gin"
)

// IssueBookForm lists students and books with a copy on the shelf.
func (h *Handler) IssueBookForm(c *gin.Context) {
	ctx := c.Request.Context()
	students, err := h.Library.ListStudents(ctx)
	if err != nil {
		internalError(c, err)
		return
	}
	books, err := h.Library.AvailableBooks(ctx)
	if err != nil {
		internalError(c, err)
		return
	}
	h.render(c, "issue_book.html", gin.H{"Students": students, "Books": books})
}

func (h *Handler) IssueBook(c *gin.Context) {
	studentID := formID(c.PostForm("student_id"))
	bookID := formID(c.PostForm("book_id"))

	_, err := h.Library.IssueBook(c.Request.Context(), studentID, bookID)
	switch {
	case errors.Is(err, library.ErrInvalidSelection):
		redirect(c, "/issue-book", "danger", "Invalid student or book selected.")
	case err != nil:
		fail(c, "/issue-book", err)
	default:
		redirect(c, "/issue-book", "success", "Book issued successfully!")
	}
}

// ReturnBookForm lists active loans with their running fine.
func (h *Handler) ReturnBookForm(c *gin.Context) {
	loans, err := h.Library.ActiveLoans(c.Request.Context())
	if err != nil {
		internalError(c, err)
		return
	}
	h.render(c, "return_book.html", gin.H{"Loans": loans})
}

func (h *Handler) ReturnBook(c *gin.Context) {
	loanID := formID(c.PostForm("issued_book_id"))

	loan, err := h.Library.ReturnBook(c.Request.Context(), loanID)
	switch {
	case errors.Is(err, library.ErrInvalidSelection), errors.Is(err, library.ErrAlreadyReturned):
		redirect(c, "/return-book", "danger", "Invalid book return request.")
	case err != nil:
		fail(c, "/return-book", err)
	case loan.Fine > 0:
		redirect(c, "/return-book", "warning", "Book returned successfully! Fine: "+h.Library.Money(loan.Fine))
	default:
		redirect(c, "/return-book", "success", "Book returned successfully!")
	}
}
