package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mcampos/library-api/internal/logger"
	"github.com/mcampos/library-api/internal/services"
	"github.com/mcampos/library-api/internal/types"
)

type LoanHandler struct {
	log         *logger.Logger
	loanService services.LoanService
	bookService services.BookService
}

func NewLoanHandler(log *logger.Logger, loanService services.LoanService, bookService services.BookService) *LoanHandler {
	return &LoanHandler{
		log:         log.With("handler", "LoanHandler"),
		loanService: loanService,
		bookService: bookService,
	}
}

type loanRequest struct {
	ISBN          string `json:"isbn" binding:"required"`
	Customer      string `json:"customer" binding:"required"`
	CustomerEmail string `json:"customer_email" binding:"required,email"`
}

// Create resolves the book by isbn and issues the loan; the loan date
// defaults to today inside the service.
func (h *LoanHandler) Create(c *gin.Context) {
	var req loanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	book, err := h.bookService.GetByISBN(c.Request.Context(), req.ISBN)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	if book == nil {
		RespondError(c, http.StatusBadRequest, "book_not_found", errors.New("Book not found for passed isbn"))
		return
	}

	loan, err := h.loanService.Issue(c.Request.Context(), &types.Loan{
		BookID:        book.ID,
		Customer:      req.Customer,
		CustomerEmail: req.CustomerEmail,
	})
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": loan.ID})
}

func (h *LoanHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	loan, err := h.loanService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.log.Error("Get loan failed", "error", err, "loan_id", id)
		RespondServiceError(c, err)
		return
	}
	if loan == nil {
		RespondError(c, http.StatusNotFound, "not_found", nil)
		return
	}
	RespondOK(c, loan)
}

type returnLoanRequest struct {
	Returned *bool `json:"returned" binding:"required"`
}

func (h *LoanHandler) Return(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req returnLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	loan, err := h.loanService.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	if loan == nil {
		RespondError(c, http.StatusNotFound, "not_found", nil)
		return
	}

	loan.Returned = *req.Returned
	updated, err := h.loanService.Update(c.Request.Context(), loan)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, updated)
}

func (h *LoanHandler) Find(c *gin.Context) {
	filter := types.LoanFilter{
		ISBN:     c.Query("isbn"),
		Customer: c.Query("customer"),
	}

	result, err := h.loanService.Find(c.Request.Context(), filter, pageRequest(c))
	if err != nil {
		h.log.Error("Find loans failed", "error", err)
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{
		"content":        result.Items,
		"total_elements": result.Total,
		"page":           result.Page,
		"size":           result.Size,
	})
}

func pageRequest(c *gin.Context) types.PageRequest {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	return types.PageRequest{Page: page, Size: size}
}
