package services

import "errors"

type ErrorKind int

const (
	// ErrKindDuplicateKey signals a uniqueness violation (isbn already
	// registered).
	ErrKindDuplicateKey ErrorKind = iota + 1
	// ErrKindBusinessRule signals a domain rule violation (book already
	// actively loaned).
	ErrKindBusinessRule
	// ErrKindInvalidArgument signals a malformed request reaching the
	// service layer (missing id on update/delete).
	ErrKindInvalidArgument
)

// BusinessError carries a message meant for direct display to the end
// user; the message text is part of the API contract.
type BusinessError struct {
	Kind    ErrorKind
	Message string
}

func (e *BusinessError) Error() string { return e.Message }

func NewDuplicateKey(message string) error {
	return &BusinessError{Kind: ErrKindDuplicateKey, Message: message}
}

func NewBusinessRuleViolation(message string) error {
	return &BusinessError{Kind: ErrKindBusinessRule, Message: message}
}

func NewInvalidArgument(message string) error {
	return &BusinessError{Kind: ErrKindInvalidArgument, Message: message}
}

func IsKind(err error, kind ErrorKind) bool {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Kind == kind
	}
	return false
}
