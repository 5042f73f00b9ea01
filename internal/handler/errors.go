package handler

import (
	"errors"
	"net/http"

	"github.com/BloggingApp/moderation-service/internal/service"
)

var (
	errNotAuthorized           = errors.New("user is not authorized")
	errInvalidPostID           = errors.New("invalid post ID")
	errInvalidUserID           = errors.New("invalid user ID")
	errLimitAndOffsetMustBeInt = errors.New("limit and offset must be int")
)

// serviceErrStatus maps the service error taxonomy to HTTP codes; anything
// outside the taxonomy is an internal error.
func serviceErrStatus(err error) int {
	switch err {
	case service.ErrNotFound, service.ErrNotVisible:
		return http.StatusNotFound
	case service.ErrInvalidTransition:
		return http.StatusConflict
	case service.ErrNotCommentable, service.ErrInvalidOperation, service.ErrPostNotEditable:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
