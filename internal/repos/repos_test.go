package repos

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mcampos/library-api/internal/db"
	"github.com/mcampos/library-api/internal/logger"
	"github.com/mcampos/library-api/internal/types"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	return gdb
}

func newTestBook(t *testing.T, gdb *gorm.DB, isbn string) *types.Book {
	t.Helper()
	book := &types.Book{
		ID:     uuid.New(),
		Title:  "As aventuras",
		Author: "Fulano",
		ISBN:   isbn,
	}
	require.NoError(t, gdb.Create(book).Error)
	return book
}

func newTestLoan(t *testing.T, gdb *gorm.DB, book *types.Book, loanDate time.Time) *types.Loan {
	t.Helper()
	loan := &types.Loan{
		ID:            uuid.New(),
		BookID:        book.ID,
		Customer:      "Beltrano",
		CustomerEmail: "beltrano@example.com",
		LoanDate:      loanDate,
	}
	require.NoError(t, gdb.Create(loan).Error)
	return loan
}

func day(offset int) time.Time {
	base := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, offset)
}

func testLogger() *logger.Logger {
	return logger.NewNop()
}
