package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mcampos/library-api/internal/types"
)

func TestLoanRepoExistsActiveByBookID(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewLoanRepo(gdb, testLogger())
	ctx := context.Background()

	book := newTestBook(t, gdb, "123")
	loan := newTestLoan(t, gdb, book, day(0))

	exists, err := repo.ExistsActiveByBookID(ctx, nil, book.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	loan.Returned = true
	ret := day(1)
	loan.ReturnDate = &ret
	_, err = repo.Update(ctx, nil, loan)
	require.NoError(t, err)

	exists, err = repo.ExistsActiveByBookID(ctx, nil, book.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

// The partial unique index must reject a second active loan even when
// the row is inserted directly, bypassing the service check.
func TestLoanRepoActiveLoanIndex(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewLoanRepo(gdb, testLogger())
	ctx := context.Background()

	book := newTestBook(t, gdb, "123")
	first := newTestLoan(t, gdb, book, day(0))

	_, err := repo.Create(ctx, nil, &types.Loan{
		ID:            uuid.New(),
		BookID:        book.ID,
		Customer:      "Sicrano",
		CustomerEmail: "sicrano@example.com",
		LoanDate:      day(0),
	})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	// After the first loan is returned a new one is allowed.
	first.Returned = true
	ret := day(1)
	first.ReturnDate = &ret
	_, err = repo.Update(ctx, nil, first)
	require.NoError(t, err)

	_, err = repo.Create(ctx, nil, &types.Loan{
		ID:            uuid.New(),
		BookID:        book.ID,
		Customer:      "Sicrano",
		CustomerEmail: "sicrano@example.com",
		LoanDate:      day(1),
	})
	require.NoError(t, err)
}

func TestLoanRepoFindByISBNOrCustomer(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewLoanRepo(gdb, testLogger())
	ctx := context.Background()

	book := newTestBook(t, gdb, "123")
	newTestLoan(t, gdb, book, day(0))

	other := newTestBook(t, gdb, "456")
	otherLoan := &types.Loan{
		ID:            uuid.New(),
		BookID:        other.ID,
		Customer:      "Sicrano",
		CustomerEmail: "sicrano@example.com",
		LoanDate:      day(0),
	}
	require.NoError(t, gdb.Create(otherLoan).Error)

	page := types.PageRequest{Page: 0, Size: 10}

	t.Run("matches by isbn", func(t *testing.T) {
		result, err := repo.Find(ctx, nil, types.LoanFilter{ISBN: "123", Customer: "Nobody"}, page)
		require.NoError(t, err)
		assert.EqualValues(t, 1, result.Total)
		require.Len(t, result.Items, 1)
		assert.Equal(t, book.ID, result.Items[0].BookID)
		require.NotNil(t, result.Items[0].Book)
		assert.Equal(t, "123", result.Items[0].Book.ISBN)
	})

	t.Run("matches by customer", func(t *testing.T) {
		result, err := repo.Find(ctx, nil, types.LoanFilter{ISBN: "999", Customer: "Sicrano"}, page)
		require.NoError(t, err)
		assert.EqualValues(t, 1, result.Total)
		require.Len(t, result.Items, 1)
		assert.Equal(t, "Sicrano", result.Items[0].Customer)
	})

	t.Run("or across both fields", func(t *testing.T) {
		result, err := repo.Find(ctx, nil, types.LoanFilter{ISBN: "123", Customer: "Sicrano"}, page)
		require.NoError(t, err)
		assert.EqualValues(t, 2, result.Total)
	})

	t.Run("empty filter returns all", func(t *testing.T) {
		result, err := repo.Find(ctx, nil, types.LoanFilter{}, page)
		require.NoError(t, err)
		assert.EqualValues(t, 2, result.Total)
	})
}

func TestLoanRepoGetByBookID(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewLoanRepo(gdb, testLogger())
	ctx := context.Background()

	book := newTestBook(t, gdb, "123")
	first := newTestLoan(t, gdb, book, day(-10))
	first.Returned = true
	ret := day(-3)
	first.ReturnDate = &ret
	_, err := repo.Update(ctx, nil, first)
	require.NoError(t, err)
	newTestLoan(t, gdb, book, day(0))

	result, err := repo.GetByBookID(ctx, nil, book.ID, types.PageRequest{Page: 0, Size: 10})
	require.NoError(t, err)
	// Returned and active loans both count.
	assert.EqualValues(t, 2, result.Total)
	assert.Len(t, result.Items, 2)
}

func TestLoanRepoFindLate(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewLoanRepo(gdb, testLogger())
	ctx := context.Background()

	lateBook := newTestBook(t, gdb, "111")
	late := newTestLoan(t, gdb, lateBook, day(-5))

	freshBook := newTestBook(t, gdb, "222")
	newTestLoan(t, gdb, freshBook, day(0))

	returnedBook := newTestBook(t, gdb, "333")
	returned := newTestLoan(t, gdb, returnedBook, day(-5))
	returned.Returned = true
	ret := day(-1)
	returned.ReturnDate = &ret
	_, err := repo.Update(ctx, nil, returned)
	require.NoError(t, err)

	result, err := repo.FindLate(ctx, nil, day(-4))
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, late.ID, result[0].ID)
	require.NotNil(t, result[0].Book)
	assert.Equal(t, "111", result[0].Book.ISBN)
}
