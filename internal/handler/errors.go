package handler

import (
	"errors"
	"net/http"

	"github.com/BloggingApp/board-service/internal/dto"
	"github.com/BloggingApp/board-service/internal/service"
	"github.com/gin-gonic/gin"
)

var (
	errNotAuthorized = errors.New("user is not authorized")
	errInvalidClaims = errors.New("invalid token claims")
	errInvalidPostID = errors.New("invalid post ID")
	errInvalidID     = errors.New("invalid ID")
)

func errorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrPostNotFound), errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrEmailAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func newErrorResponse(c *gin.Context, err error) {
	c.JSON(errorStatus(err), dto.NewErrorResponse(err))
}
