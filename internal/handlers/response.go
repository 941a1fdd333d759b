package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mcampos/library-api/internal/services"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// RespondServiceError maps business errors to 400 with their verbatim
// contractual message; anything else is a 500.
func RespondServiceError(c *gin.Context, err error) {
	var be *services.BusinessError
	if errors.As(err, &be) {
		code := "business_rule_violation"
		switch be.Kind {
		case services.ErrKindDuplicateKey:
			code = "duplicate_key"
		case services.ErrKindInvalidArgument:
			code = "invalid_argument"
		}
		RespondError(c, http.StatusBadRequest, code, be)
		return
	}
	RespondError(c, http.StatusInternalServerError, "internal_error", err)
}
