package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/facebookgo/clock"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mcampos/library-api/internal/logger"
	"github.com/mcampos/library-api/internal/repos"
	"github.com/mcampos/library-api/internal/types"
)

const (
	msgBookAlreadyLoaned = "Book already loaned"
	msgLoanIDRequired    = "Loan id can not be nil"
)

type LoanService interface {
	Issue(ctx context.Context, loan *types.Loan) (*types.Loan, error)
	GetByID(ctx context.Context, id uuid.UUID) (*types.Loan, error)
	Update(ctx context.Context, loan *types.Loan) (*types.Loan, error)
	Find(ctx context.Context, filter types.LoanFilter, page types.PageRequest) (*types.LoanPage, error)
	GetLoansByBook(ctx context.Context, book *types.Book, page types.PageRequest) (*types.LoanPage, error)
	HasActiveLoan(ctx context.Context, book *types.Book) (bool, error)
	FindAllLate(ctx context.Context, asOf time.Time, graceDays int) ([]*types.Loan, error)
}

type loanService struct {
	db       *gorm.DB
	log      *logger.Logger
	loanRepo repos.LoanRepo
	clk      clock.Clock
}

func NewLoanService(db *gorm.DB, baseLog *logger.Logger, loanRepo repos.LoanRepo, clk clock.Clock) LoanService {
	return &loanService{
		db:       db,
		log:      baseLog.With("service", "LoanService"),
		loanRepo: loanRepo,
		clk:      clk,
	}
}

// Issue runs the active-loan check and the insert in one transaction.
// The check produces the contractual message; the partial unique index
// idx_loan_active_book is what actually serializes concurrent issues
// for the same book, so its duplicate-key error converts to the same
// violation.
func (ls *loanService) Issue(ctx context.Context, loan *types.Loan) (*types.Loan, error) {
	var issued *types.Loan
	err := ls.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		active, err := ls.loanRepo.ExistsActiveByBookID(ctx, tx, loan.BookID)
		if err != nil {
			return fmt.Errorf("check active loan: %w", err)
		}
		if active {
			return NewBusinessRuleViolation(msgBookAlreadyLoaned)
		}
		if loan.ID == uuid.Nil {
			loan.ID = uuid.New()
		}
		if loan.LoanDate.IsZero() {
			loan.LoanDate = today(ls.clk)
		}
		loan.Returned = false
		loan.ReturnDate = nil
		issued, err = ls.loanRepo.Create(ctx, tx, loan)
		return err
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, NewBusinessRuleViolation(msgBookAlreadyLoaned)
	}
	if err != nil {
		return nil, err
	}
	ls.log.Info("Loan issued", "loan_id", issued.ID, "book_id", issued.BookID)
	return issued, nil
}

func (ls *loanService) GetByID(ctx context.Context, id uuid.UUID) (*types.Loan, error) {
	return ls.loanRepo.GetByID(ctx, nil, id)
}

// Update persists whatever the caller mutated, principally the
// returned flag. No business rule is re-validated here; the return
// workflow is the only intended writer. The return date defaults to
// today the first time the returned flag is set.
func (ls *loanService) Update(ctx context.Context, loan *types.Loan) (*types.Loan, error) {
	if loan == nil || loan.ID == uuid.Nil {
		return nil, NewInvalidArgument(msgLoanIDRequired)
	}
	if loan.Returned && loan.ReturnDate == nil {
		d := today(ls.clk)
		loan.ReturnDate = &d
	}
	if !loan.Returned {
		loan.ReturnDate = nil
	}
	updated, err := ls.loanRepo.Update(ctx, nil, loan)
	if err != nil {
		return nil, fmt.Errorf("update loan: %w", err)
	}
	return updated, nil
}

func (ls *loanService) Find(ctx context.Context, filter types.LoanFilter, page types.PageRequest) (*types.LoanPage, error) {
	return ls.loanRepo.Find(ctx, nil, filter, page)
}

func (ls *loanService) GetLoansByBook(ctx context.Context, book *types.Book, page types.PageRequest) (*types.LoanPage, error) {
	if book == nil || book.ID == uuid.Nil {
		return nil, NewInvalidArgument(msgBookIDRequired)
	}
	return ls.loanRepo.GetByBookID(ctx, nil, book.ID, page)
}

func (ls *loanService) HasActiveLoan(ctx context.Context, book *types.Book) (bool, error) {
	if book == nil || book.ID == uuid.Nil {
		return false, NewInvalidArgument(msgBookIDRequired)
	}
	return ls.loanRepo.ExistsActiveByBookID(ctx, nil, book.ID)
}

// FindAllLate returns every not-returned loan whose loan date is on or
// before asOf minus graceDays.
func (ls *loanService) FindAllLate(ctx context.Context, asOf time.Time, graceDays int) ([]*types.Loan, error) {
	threshold := truncateToDay(asOf).AddDate(0, 0, -graceDays)
	return ls.loanRepo.FindLate(ctx, nil, threshold)
}

func today(clk clock.Clock) time.Time {
	return truncateToDay(clk.Now())
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
