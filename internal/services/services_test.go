package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/facebookgo/clock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mcampos/library-api/internal/db"
	"github.com/mcampos/library-api/internal/logger"
	"github.com/mcampos/library-api/internal/platform/sendgrid"
	"github.com/mcampos/library-api/internal/repos"
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

type testEnv struct {
	db          *gorm.DB
	clk         *clock.Mock
	bookService BookService
	loanService LoanService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gdb := newTestDB(t)
	log := logger.NewNop()
	clk := clock.NewMock()
	return &testEnv{
		db:          gdb,
		clk:         clk,
		bookService: NewBookService(gdb, log, repos.NewBookRepo(gdb, log)),
		loanService: NewLoanService(gdb, log, repos.NewLoanRepo(gdb, log), clk),
	}
}

func (e *testEnv) registerBook(t *testing.T, isbn string) *types.Book {
	t.Helper()
	book, err := e.bookService.Create(context.Background(), &types.Book{
		Title:  "As aventuras",
		Author: "Fulano",
		ISBN:   isbn,
	})
	require.NoError(t, err)
	return book
}

// today returns the mock clock's current day at midnight; loan dates
// in tests are expressed relative to it.
func (e *testEnv) today() time.Time {
	y, m, d := e.clk.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, e.clk.Now().Location())
}

func newUUID() uuid.UUID { return uuid.New() }

// fakeMailClient records the last request handed to the transport.
type fakeMailClient struct {
	lastReq *sendgrid.SendEmailRequest
	sendErr error
	calls   int
}

func (f *fakeMailClient) Send(_ context.Context, req sendgrid.SendEmailRequest) (*sendgrid.SendEmailResult, error) {
	f.calls++
	f.lastReq = &req
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	return &sendgrid.SendEmailResult{StatusCode: 202}, nil
}
