package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mcampos/library-api/internal/logger"
	"github.com/mcampos/library-api/internal/services"
	"github.com/mcampos/library-api/internal/types"
)

type BookHandler struct {
	log         *logger.Logger
	bookService services.BookService
	loanService services.LoanService
}

func NewBookHandler(log *logger.Logger, bookService services.BookService, loanService services.LoanService) *BookHandler {
	return &BookHandler{
		log:         log.With("handler", "BookHandler"),
		bookService: bookService,
		loanService: loanService,
	}
}

type bookRequest struct {
	Title  string `json:"title" binding:"required"`
	Author string `json:"author" binding:"required"`
	ISBN   string `json:"isbn" binding:"required"`
}

func (h *BookHandler) Create(c *gin.Context) {
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	book, err := h.bookService.Create(c.Request.Context(), &types.Book{
		Title:  req.Title,
		Author: req.Author,
		ISBN:   req.ISBN,
	})
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, book)
}

func (h *BookHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	book, err := h.bookService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.log.Error("Get book failed", "error", err, "book_id", id)
		RespondServiceError(c, err)
		return
	}
	if book == nil {
		RespondError(c, http.StatusNotFound, "not_found", nil)
		return
	}
	RespondOK(c, book)
}

type bookUpdateRequest struct {
	Title  string `json:"title" binding:"required"`
	Author string `json:"author" binding:"required"`
}

// Update edits title and author only; id and isbn are immutable.
func (h *BookHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req bookUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	book, err := h.bookService.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	if book == nil {
		RespondError(c, http.StatusNotFound, "not_found", nil)
		return
	}

	book.Title = req.Title
	book.Author = req.Author
	updated, err := h.bookService.Update(c.Request.Context(), book)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, updated)
}

func (h *BookHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	book, err := h.bookService.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	if book == nil {
		RespondError(c, http.StatusNotFound, "not_found", nil)
		return
	}
	if err := h.bookService.Delete(c.Request.Context(), book); err != nil {
		RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BookHandler) Find(c *gin.Context) {
	filter := types.BookFilter{
		Title:  c.Query("title"),
		Author: c.Query("author"),
		ISBN:   c.Query("isbn"),
	}
	page := pageRequest(c)

	result, err := h.bookService.Find(c.Request.Context(), filter, page)
	if err != nil {
		h.log.Error("Find books failed", "error", err)
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

func (h *BookHandler) LoansByBook(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	book, err := h.bookService.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	if book == nil {
		RespondError(c, http.StatusNotFound, "not_found", nil)
		return
	}

	result, err := h.loanService.GetLoansByBook(c.Request.Context(), book, pageRequest(c))
	if err != nil {
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
