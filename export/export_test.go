// export_test.go - Tests for table snapshots and the xlsx workbook

package export

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"go-library-backend/config"
	"go-library-backend/database"
	"go-library-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

var created = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

func seededDB(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := config.Load()
	cfg.DBDriver = "sqlite"
	cfg.DBPath = filepath.Join(t.TempDir(), "export.db")
	cfg.DBLogLevel = "silent"
	db, err := database.Open(cfg)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	user := models.User{Name: "Asha", Email: "asha@example.com", Password: "x", CreatedAt: created}
	cat := models.Category{Name: "Fiction", CreatedAt: created}
	empty := models.Category{Name: "Poetry", CreatedAt: created}
	require.NoError(t, db.Create(&user).Error)
	require.NoError(t, db.Create(&cat).Error)
	require.NoError(t, db.Create(&empty).Error)

	book := models.Book{Title: "Dune", Author: "Frank Herbert", CategoryID: cat.ID, TotalCopies: 2, AvailableCopies: 1, CreatedAt: created}
	require.NoError(t, db.Create(&book).Error)

	returnedAt := created.Add(12 * 24 * time.Hour)
	loans := []models.Loan{
		{UserID: user.ID, BookID: book.ID, IssuedAt: created, DueAt: created.Add(10 * 24 * time.Hour)},
		{UserID: user.ID, BookID: book.ID, IssuedAt: created, DueAt: created.Add(10 * 24 * time.Hour), ReturnedAt: &returnedAt, Fine: 20},
	}
	require.NoError(t, db.Create(&loans).Error)

	n := models.Notification{UserID: user.ID, Message: "hello", Severity: models.SeverityWarning, IsRead: true, CreatedAt: created}
	require.NoError(t, db.Create(&n).Error)
	return db
}

func TestSnapshot(t *testing.T) {
	db := seededDB(t)
	tables, err := Snapshot(context.Background(), db, "₹")
	require.NoError(t, err)
	require.Len(t, tables, 5)

	names := make([]string, len(tables))
	for i, tbl := range tables {
		names[i] = tbl.Name
		for _, row := range tbl.Rows {
			assert.Len(t, row, len(tbl.Columns), tbl.Name)
		}
	}
	assert.Equal(t, []string{"Users", "Books", "Issued Books", "Notifications", "Categories"}, names)

	users := tables[0]
	require.Len(t, users.Rows, 1)
	assert.Equal(t, []string{"1", "Asha", "asha@example.com", "N/A", "student", "basic", "N/A", "2025-01-02 03:04:05"}, users.Rows[0])

	books := tables[1]
	require.Len(t, books.Rows, 1)
	assert.Equal(t, "Fiction", books.Rows[0][3])
	assert.Equal(t, "N/A", books.Rows[0][6])

	loans := tables[2]
	require.Len(t, loans.Rows, 2)
	assert.Equal(t, "Not Returned", loans.Rows[0][7])
	assert.Equal(t, "₹0", loans.Rows[0][8])
	assert.Equal(t, "2025-01-14 03:04:05", loans.Rows[1][7])
	assert.Equal(t, "₹20", loans.Rows[1][8])

	notes := tables[3]
	require.Len(t, notes.Rows, 1)
	assert.Equal(t, []string{"1", "1", "Asha", "hello", "warning", "Yes", "2025-01-02 03:04:05"}, notes.Rows[0])

	cats := tables[4]
	require.Len(t, cats.Rows, 2)
	assert.Equal(t, []string{"1", "Fiction", "2025-01-02 03:04:05", "1"}, cats.Rows[0])
	assert.Equal(t, "0", cats.Rows[1][3])
}

func TestWriteWorkbook(t *testing.T) {
	db := seededDB(t)
	tables, err := Snapshot(context.Background(), db, "₹")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, tables))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Users", "Books", "Issued Books", "Notifications", "Categories"}, f.GetSheetList())

	rows, err := f.GetRows("Issued Books")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, tables[2].Columns, rows[0])
	assert.Equal(t, "Not Returned", rows[1][7])
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "library_database_export_20250102_030405.xlsx", FileName(created))
}
