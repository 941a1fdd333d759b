package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mcampos/library-api/internal/logger"
	"github.com/mcampos/library-api/internal/repos"
	"github.com/mcampos/library-api/internal/types"
)

const (
	msgIsbnAlreadyRegistered = "Isbn already registered"
	msgBookIDRequired        = "Book id can not be nil"
)

type BookService interface {
	Create(ctx context.Context, book *types.Book) (*types.Book, error)
	GetByID(ctx context.Context, id uuid.UUID) (*types.Book, error)
	GetByISBN(ctx context.Context, isbn string) (*types.Book, error)
	Update(ctx context.Context, book *types.Book) (*types.Book, error)
	Delete(ctx context.Context, book *types.Book) error
	Find(ctx context.Context, filter types.BookFilter, page types.PageRequest) (*types.BookPage, error)
}

type bookService struct {
	db       *gorm.DB
	log      *logger.Logger
	bookRepo repos.BookRepo
}

func NewBookService(db *gorm.DB, baseLog *logger.Logger, bookRepo repos.BookRepo) BookService {
	return &bookService{
		db:       db,
		log:      baseLog.With("service", "BookService"),
		bookRepo: bookRepo,
	}
}

// Create rejects a duplicate isbn up front for the contractual error
// message; the unique index on book.isbn backs the check against
// concurrent writers, so a duplicate-key insert error maps to the same
// business error.
func (bs *bookService) Create(ctx context.Context, book *types.Book) (*types.Book, error) {
	var created *types.Book
	err := bs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := bs.bookRepo.ExistsByISBN(ctx, tx, book.ISBN)
		if err != nil {
			return fmt.Errorf("check isbn exists: %w", err)
		}
		if exists {
			return NewDuplicateKey(msgIsbnAlreadyRegistered)
		}
		if book.ID == uuid.Nil {
			book.ID = uuid.New()
		}
		created, err = bs.bookRepo.Create(ctx, tx, book)
		return err
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, NewDuplicateKey(msgIsbnAlreadyRegistered)
	}
	if err != nil {
		return nil, err
	}
	bs.log.Info("Book registered", "book_id", created.ID, "isbn", created.ISBN)
	return created, nil
}

func (bs *bookService) GetByID(ctx context.Context, id uuid.UUID) (*types.Book, error) {
	return bs.bookRepo.GetByID(ctx, nil, id)
}

func (bs *bookService) GetByISBN(ctx context.Context, isbn string) (*types.Book, error) {
	return bs.bookRepo.GetByISBN(ctx, nil, isbn)
}

func (bs *bookService) Update(ctx context.Context, book *types.Book) (*types.Book, error) {
	if book == nil || book.ID == uuid.Nil {
		return nil, NewInvalidArgument(msgBookIDRequired)
	}
	updated, err := bs.bookRepo.Update(ctx, nil, book)
	if err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}
	return updated, nil
}

// Delete does not check for active loans; a combined delete workflow
// sits above the registry and asks the ledger first.
func (bs *bookService) Delete(ctx context.Context, book *types.Book) error {
	if book == nil || book.ID == uuid.Nil {
		return NewInvalidArgument(msgBookIDRequired)
	}
	if err := bs.bookRepo.Delete(ctx, nil, book); err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	bs.log.Info("Book deleted", "book_id", book.ID)
	return nil
}

func (bs *bookService) Find(ctx context.Context, filter types.BookFilter, page types.PageRequest) (*types.BookPage, error) {
	return bs.bookRepo.Find(ctx, nil, filter, page)
}
