package application

import (
	"errors"
	"fmt"
	"net/http"
)

// APPLICATION-LEVEL ERRORS (Orchestration)

type ServiceError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

const (
	ErrCodeNotEligible     = "NOT_ELIGIBLE"
	ErrCodeAlreadyClaimed  = "ALREADY_CLAIMED"
	ErrCodeInvalidState    = "INVALID_STATE"
	ErrCodeNotClaimedByYou = "NOT_CLAIMED_BY_YOU"
	ErrCodeNotAllowed      = "NOT_ALLOWED"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeInvalidInput    = "INVALID_INPUT"
	ErrCodeInternal        = "INTERNAL_ERROR"
)

func NewNotEligibleError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeNotEligible,
		Message:    "Provider is not eligible for this request",
		HTTPStatus: http.StatusForbidden,
		Err:        err,
	}
}

func NewAlreadyClaimedError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeAlreadyClaimed,
		Message:    "Request was already claimed",
		HTTPStatus: http.StatusConflict,
		Err:        err,
	}
}

func NewInvalidStateError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeInvalidState,
		Message:    "Invalid state",
		HTTPStatus: http.StatusConflict,
		Err:        err,
	}
}

func NewNotClaimedByYouError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeNotClaimedByYou,
		Message:    "Request is claimed by another provider",
		HTTPStatus: http.StatusForbidden,
		Err:        err,
	}
}

func NewNotAllowedError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeNotAllowed,
		Message:    "Actor may not perform this operation",
		HTTPStatus: http.StatusForbidden,
		Err:        err,
	}
}

func NewNotFoundError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeNotFound,
		Message:    "Request not found",
		HTTPStatus: http.StatusNotFound,
		Err:        err,
	}
}

func NewInvalidInputError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeInvalidInput,
		Message:    "Invalid input",
		HTTPStatus: http.StatusBadRequest,
		Err:        err,
	}
}

func NewInternalError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeInternal,
		Message:    "An internal error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func IsServiceError(err error) (*ServiceError, bool) {
	var svcErr *ServiceError
	ok := errors.As(err, &svcErr)
	return svcErr, ok
}

// ToHTTPStatus maps any error to an HTTP status code for the REST layer.
func ToHTTPStatus(err error) int {
	if svcErr, ok := IsServiceError(err); ok {
		return svcErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// ToErrorCode maps any error to a stable machine-readable code.
func ToErrorCode(err error) string {
	if svcErr, ok := IsServiceError(err); ok {
		return svcErr.Code
	}
	return ErrCodeInternal
}
