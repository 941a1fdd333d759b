package types

// PageRequest is a zero-based page number plus page size.
type PageRequest struct {
	Page int
	Size int
}

func (p PageRequest) Offset() int {
	if p.Page < 0 {
		return 0
	}
	return p.Page * p.Limit()
}

func (p PageRequest) Limit() int {
	if p.Size <= 0 {
		return 20
	}
	return p.Size
}

type BookPage struct {
	Items []*Book
	Total int64
	Page  int
	Size  int
}

type LoanPage struct {
	Items []*Loan
	Total int64
	Page  int
	Size  int
}
