package repos

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mcampos/library-api/internal/logger"
	"github.com/mcampos/library-api/internal/types"
)

type BookRepo interface {
	Create(ctx context.Context, tx *gorm.DB, book *types.Book) (*types.Book, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Book, error)
	GetByISBN(ctx context.Context, tx *gorm.DB, isbn string) (*types.Book, error)
	ExistsByISBN(ctx context.Context, tx *gorm.DB, isbn string) (bool, error)
	Update(ctx context.Context, tx *gorm.DB, book *types.Book) (*types.Book, error)
	Delete(ctx context.Context, tx *gorm.DB, book *types.Book) error
	Find(ctx context.Context, tx *gorm.DB, filter types.BookFilter, page types.PageRequest) (*types.BookPage, error)
}

type bookRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBookRepo(db *gorm.DB, baseLog *logger.Logger) BookRepo {
	return &bookRepo{db: db, log: baseLog.With("repo", "BookRepo")}
}

func (r *bookRepo) Create(ctx context.Context, tx *gorm.DB, book *types.Book) (*types.Book, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(book).Error; err != nil {
		return nil, err
	}
	return book, nil
}

// GetByID returns (nil, nil) when no row exists; "not found" is not an
// error at this layer.
func (r *bookRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Book, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var book types.Book
	err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *bookRepo) GetByISBN(ctx context.Context, tx *gorm.DB, isbn string) (*types.Book, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var book types.Book
	err := transaction.WithContext(ctx).
		Where("isbn = ?", isbn).
		First(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *bookRepo) ExistsByISBN(ctx context.Context, tx *gorm.DB, isbn string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Book{}).
		Where("isbn = ?", isbn).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *bookRepo) Update(ctx context.Context, tx *gorm.DB, book *types.Book) (*types.Book, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Save(book).Error; err != nil {
		return nil, err
	}
	return book, nil
}

func (r *bookRepo) Delete(ctx context.Context, tx *gorm.DB, book *types.Book) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Delete(book).Error
}

func (r *bookRepo) Find(ctx context.Context, tx *gorm.DB, filter types.BookFilter, page types.PageRequest) (*types.BookPage, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	query := transaction.WithContext(ctx).Model(&types.Book{})
	if filter.Title != "" {
		query = query.Where("LOWER(title) LIKE ?", contains(filter.Title))
	}
	if filter.Author != "" {
		query = query.Where("LOWER(author) LIKE ?", contains(filter.Author))
	}
	if filter.ISBN != "" {
		query = query.Where("LOWER(isbn) LIKE ?", contains(filter.ISBN))
	}
	// Session so the chain can be reused for both count and page.
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var items []*types.Book
	if err := query.
		Order("created_at ASC").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&items).Error; err != nil {
		return nil, err
	}

	return &types.BookPage{Items: items, Total: total, Page: page.Page, Size: page.Limit()}, nil
}

func contains(s string) string {
	return "%" + strings.ToLower(s) + "%"
}
