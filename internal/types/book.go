package types

import (
	"time"

	"github.com/google/uuid"
)

type Book struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string    `gorm:"column:title;not null" json:"title"`
	Author    string    `gorm:"column:author;not null" json:"author"`
	ISBN      string    `gorm:"column:isbn;uniqueIndex;not null" json:"isbn"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Book) TableName() string { return "book" }

// BookFilter selects books by case-insensitive substring match on any
// non-empty field. Empty fields impose no constraint.
type BookFilter struct {
	Title  string
	Author string
	ISBN   string
}
