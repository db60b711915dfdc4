// export.go - Dumps every library table into display rows and an .xlsx workbook

package export

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"go-library-backend/models"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

const (
	timeLayout  = "2006-01-02 15:04:05"
	missing     = "N/A"
	notReturned = "Not Returned"
)

// Table is one sheet: a header row plus display-formatted rows.
type Table struct {
	Name        string
	Description string
	Columns     []string
	Rows        [][]string
}

// FileName is the download name for a workbook generated at now.
func FileName(now time.Time) string {
	return "library_database_export_" + now.UTC().Format("20060102_150405") + ".xlsx"
}

// Snapshot reads all tables in a fixed order: Users, Books, Issued Books,
// Notifications, Categories.
func Snapshot(ctx context.Context, db *gorm.DB, currency string) ([]Table, error) {
	db = db.WithContext(ctx)
	builders := []func(*gorm.DB, string) (Table, error){
		usersTable,
		booksTable,
		loansTable,
		notificationsTable,
		categoriesTable,
	}

	tables := make([]Table, 0, len(builders))
	for _, build := range builders {
		t, err := build(db, currency)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, nil
}

func usersTable(db *gorm.DB, _ string) (Table, error) {
	var users []models.User
	if err := db.Order("id").Find(&users).Error; err != nil {
		return Table{}, fmt.Errorf("export users: %w", err)
	}
	t := Table{
		Name:        "Users",
		Description: "Students and administrators",
		Columns:     []string{"ID", "Name", "Email", "Mobile", "Role", "Membership Type", "Membership Expiry", "Created At"},
	}
	for _, u := range users {
		t.Rows = append(t.Rows, []string{
			id(u.ID), u.Name, u.Email, orMissing(u.Mobile), string(u.Role),
			string(u.MembershipType), timePtr(u.MembershipExpiry), timeValue(u.CreatedAt),
		})
	}
	return t, nil
}

func booksTable(db *gorm.DB, _ string) (Table, error) {
	var books []models.Book
	if err := db.Preload("Category").Order("id").Find(&books).Error; err != nil {
		return Table{}, fmt.Errorf("export books: %w", err)
	}
	t := Table{
		Name:        "Books",
		Description: "Catalog with copy counts",
		Columns:     []string{"ID", "Title", "Author", "Category", "Total Copies", "Available Copies", "Cover Photo", "Created At"},
	}
	for _, b := range books {
		t.Rows = append(t.Rows, []string{
			id(b.ID), b.Title, b.Author, orMissing(b.Category.Name),
			strconv.Itoa(b.TotalCopies), strconv.Itoa(b.AvailableCopies),
			orMissing(b.CoverPhoto), timeValue(b.CreatedAt),
		})
	}
	return t, nil
}

func loansTable(db *gorm.DB, currency string) (Table, error) {
	var loans []models.Loan
	if err := db.Preload("User").Preload("Book").Order("id").Find(&loans).Error; err != nil {
		return Table{}, fmt.Errorf("export loans: %w", err)
	}
	t := Table{
		Name:        "Issued Books",
		Description: "Every loan, returned or not",
		Columns:     []string{"ID", "User ID", "User Name", "Book ID", "Book Title", "Issue Date", "Due Date", "Return Date", "Fine"},
	}
	for _, l := range loans {
		returned := notReturned
		if l.ReturnedAt != nil {
			returned = timeValue(*l.ReturnedAt)
		}
		t.Rows = append(t.Rows, []string{
			id(l.ID), id(l.UserID), orMissing(l.User.Name), id(l.BookID), orMissing(l.Book.Title),
			timeValue(l.IssuedAt), timeValue(l.DueAt), returned, models.FormatAmount(currency, l.Fine),
		})
	}
	return t, nil
}

func notificationsTable(db *gorm.DB, _ string) (Table, error) {
	var list []models.Notification
	if err := db.Preload("User").Order("id").Find(&list).Error; err != nil {
		return Table{}, fmt.Errorf("export notifications: %w", err)
	}
	t := Table{
		Name:        "Notifications",
		Description: "Messages sent to users",
		Columns:     []string{"ID", "User ID", "User Name", "Message", "Type", "Is Read", "Created At"},
	}
	for _, n := range list {
		read := "No"
		if n.IsRead {
			read = "Yes"
		}
		t.Rows = append(t.Rows, []string{
			id(n.ID), id(n.UserID), orMissing(n.User.Name), n.Message,
			string(n.Severity), read, timeValue(n.CreatedAt),
		})
	}
	return t, nil
}

type categoryRow struct {
	ID        uint
	Name      string
	CreatedAt time.Time
	BookCount int64
}

func categoriesTable(db *gorm.DB, _ string) (Table, error) {
	var rows []categoryRow
	err := db.Model(&models.Category{}).
		Select("categories.id, categories.name, categories.created_at, COUNT(books.id) AS book_count").
		Joins("LEFT JOIN books ON books.category_id = categories.id").
		Group("categories.id, categories.name, categories.created_at").
		Order("categories.id").
		Scan(&rows).Error
	if err != nil {
		return Table{}, fmt.Errorf("export categories: %w", err)
	}
	t := Table{
		Name:        "Categories",
		Description: "Book categories and usage",
		Columns:     []string{"ID", "Name", "Created At", "Books Count"},
	}
	for _, c := range rows {
		t.Rows = append(t.Rows, []string{id(c.ID), c.Name, timeValue(c.CreatedAt), strconv.FormatInt(c.BookCount, 10)})
	}
	return t, nil
}

// WriteWorkbook renders one sheet per table, bold headers, to w.
func WriteWorkbook(w io.Writer, tables []Table) error {
	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	for _, t := range tables {
		if _, err := f.NewSheet(t.Name); err != nil {
			return fmt.Errorf("sheet %s: %w", t.Name, err)
		}
		if err := writeRow(f, t.Name, 1, t.Columns); err != nil {
			return err
		}
		last, _ := excelize.CoordinatesToCellName(len(t.Columns), 1)
		if err := f.SetCellStyle(t.Name, "A1", last, header); err != nil {
			return err
		}
		for r, row := range t.Rows {
			if err := writeRow(f, t.Name, r+2, row); err != nil {
				return err
			}
		}
	}
	if len(tables) > 0 {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return err
		}
		if idx, err := f.GetSheetIndex(tables[0].Name); err == nil {
			f.SetActiveSheet(idx)
		}
	}
	return f.Write(w)
}

func writeRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return f.SetSheetRow(sheet, cell, &cells)
}

func id(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}

func orMissing(s string) string {
	if s == "" {
		return missing
	}
	return s
}

func timeValue(t time.Time) string {
	if t.IsZero() {
		return missing
	}
	return t.UTC().Format(timeLayout)
}

func timePtr(t *time.Time) string {
	if t == nil {
		return missing
	}
	return timeValue(*t)
}
