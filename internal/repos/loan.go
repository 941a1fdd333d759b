package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mcampos/library-api/internal/logger"
	"github.com/mcampos/library-api/internal/types"
)

type LoanRepo interface {
	Create(ctx context.Context, tx *gorm.DB, loan *types.Loan) (*types.Loan, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Loan, error)
	Update(ctx context.Context, tx *gorm.DB, loan *types.Loan) (*types.Loan, error)
	Find(ctx context.Context, tx *gorm.DB, filter types.LoanFilter, page types.PageRequest) (*types.LoanPage, error)
	GetByBookID(ctx context.Context, tx *gorm.DB, bookID uuid.UUID, page types.PageRequest) (*types.LoanPage, error)
	ExistsActiveByBookID(ctx context.Context, tx *gorm.DB, bookID uuid.UUID) (bool, error)
	FindLate(ctx context.Context, tx *gorm.DB, threshold time.Time) ([]*types.Loan, error)
}

type loanRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLoanRepo(db *gorm.DB, baseLog *logger.Logger) LoanRepo {
	return &loanRepo{db: db, log: baseLog.With("repo", "LoanRepo")}
}

func (r *loanRepo) Create(ctx context.Context, tx *gorm.DB, loan *types.Loan) (*types.Loan, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(loan).Error; err != nil {
		return nil, err
	}
	return loan, nil
}

func (r *loanRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Loan, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var loan types.Loan
	err := transaction.WithContext(ctx).
		Preload("Book").
		Where("id = ?", id).
		First(&loan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

func (r *loanRepo) Update(ctx context.Context, tx *gorm.DB, loan *types.Loan) (*types.Loan, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Omit("Book").Save(loan).Error; err != nil {
		return nil, err
	}
	return loan, nil
}

// Find matches on book isbn OR customer across the non-empty filter
// fields. With both fields empty every loan matches.
func (r *loanRepo) Find(ctx context.Context, tx *gorm.DB, filter types.LoanFilter, page types.PageRequest) (*types.LoanPage, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	query := transaction.WithContext(ctx).
		Model(&types.Loan{}).
		Joins(`JOIN "book" ON "book".id = "loan".book_id`)

	switch {
	case filter.ISBN != "" && filter.Customer != "":
		query = query.Where(`"book".isbn = ? OR "loan".customer = ?`, filter.ISBN, filter.Customer)
	case filter.ISBN != "":
		query = query.Where(`"book".isbn = ?`, filter.ISBN)
	case filter.Customer != "":
		query = query.Where(`"loan".customer = ?`, filter.Customer)
	}
	// Session so the chain can be reused for both count and page.
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var items []*types.Loan
	if err := query.
		Preload("Book").
		Order(`"loan".created_at ASC`).
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&items).Error; err != nil {
		return nil, err
	}

	return &types.LoanPage{Items: items, Total: total, Page: page.Page, Size: page.Limit()}, nil
}

func (r *loanRepo) GetByBookID(ctx context.Context, tx *gorm.DB, bookID uuid.UUID, page types.PageRequest) (*types.LoanPage, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	query := transaction.WithContext(ctx).
		Model(&types.Loan{}).
		Where("book_id = ?", bookID).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var items []*types.Loan
	if err := query.
		Preload("Book").
		Order("loan_date ASC").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&items).Error; err != nil {
		return nil, err
	}

	return &types.LoanPage{Items: items, Total: total, Page: page.Page, Size: page.Limit()}, nil
}

func (r *loanRepo) ExistsActiveByBookID(ctx context.Context, tx *gorm.DB, bookID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Loan{}).
		Where("book_id = ? AND returned = ?", bookID, false).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindLate is unpaged: the result feeds a single notification batch.
func (r *loanRepo) FindLate(ctx context.Context, tx *gorm.DB, threshold time.Time) ([]*types.Loan, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var items []*types.Loan
	if err := transaction.WithContext(ctx).
		Preload("Book").
		Where("loan_date <= ? AND returned = ?", threshold, false).
		Order("loan_date ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
