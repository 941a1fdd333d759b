package types

import (
	"time"

	"github.com/google/uuid"
)

// Loan references a Book by id; it never owns the book row. At most
// one loan with returned=false may exist per book, enforced by a
// partial unique index on (book_id) where returned=false.
type Loan struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	BookID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"book_id"`
	Book          *Book      `gorm:"foreignKey:BookID;references:ID" json:"book,omitempty"`
	Customer      string     `gorm:"column:customer;not null" json:"customer"`
	CustomerEmail string     `gorm:"column:customer_email;not null" json:"customer_email"`
	LoanDate      time.Time  `gorm:"column:loan_date;not null" json:"loan_date"`
	Returned      bool       `gorm:"column:returned;not null;default:false" json:"returned"`
	ReturnDate    *time.Time `gorm:"column:return_date" json:"return_date,omitempty"`
	CreatedAt     time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"not null" json:"updated_at"`
}

func (Loan) TableName() string { return "loan" }

// LoanFilter is an OR across its two fields: a loan matches when its
// book's isbn equals ISBN or its customer equals Customer. Note the
// asymmetry with BookFilter, which ANDs its fields.
type LoanFilter struct {
	ISBN     string
	Customer string
}
