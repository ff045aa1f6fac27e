package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	authdomain "github.com/welltrack/welltrack/internal/auth/domain"
	sessiondomain "github.com/welltrack/welltrack/internal/session/domain"
)

var (
	ErrUnauthorized   = errors.New("missing authorization")
	ErrInvalidRequest = errors.New("invalid request")
)

type errorResponse struct {
	Error string `json:"error"`
}

// ErrorHandlingMiddleware maps handler errors onto the response taxonomy:
// validation 400, auth 401, conflict 409, everything else 500.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, message := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, errorResponse{Error: message})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, authdomain.ErrMissingFields),
		errors.Is(err, sessiondomain.ErrMissingFields),
		errors.Is(err, sessiondomain.ErrNotSequence),
		errors.Is(err, sessiondomain.ErrInvalidSession):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, authdomain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, authdomain.ErrInvalidToken):
		return http.StatusUnauthorized, "invalid token"
	case errors.Is(err, authdomain.ErrUserNotFound):
		return http.StatusUnauthorized, "invalid user"
	case errors.Is(err, authdomain.ErrUserExists):
		return http.StatusConflict, "username exists"
	default:
		return http.StatusInternalServerError, "db error"
	}
}

func classifyErrorForLog(err error) (string, string) {
	status, _ := mapError(err)
	switch {
	case status == http.StatusUnauthorized:
		return "auth_error", err.Error()
	case status == http.StatusConflict:
		return "conflict", err.Error()
	case status >= http.StatusInternalServerError:
		return "storage_error", err.Error()
	default:
		return "validation_error", err.Error()
	}
}
