package middleware

import (
	"errors"
	"net/http"

	"rezo-backend/internal/delivery/http/response"
	"rezo-backend/internal/domain"
	"rezo-backend/pkg/apperror"
	"rezo-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// domainStatus maps bare domain errors that reach the handler boundary.
var domainStatus = []struct {
	err     error
	code    int
	message string
}{
	{domain.ErrNotFound, http.StatusNotFound, "Resource not found"},
	{domain.ErrInvalidTarget, http.StatusBadRequest, domain.ErrInvalidTarget.Error()},
	{domain.ErrInvalidRole, http.StatusBadRequest, "Unknown role"},
	{domain.ErrDuplicateEmail, http.StatusConflict, "Email is already registered"},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"},
	{domain.ErrInactiveUser, http.StatusForbidden, "Account is inactive"},
	{domain.ErrNotParticipant, http.StatusForbidden, "You are not a participant of this conversation"},
	{domain.ErrConversationExists, http.StatusConflict, "Conversation already exists"},
	{domain.ErrProfileExists, http.StatusConflict, "Profile already exists"},
}

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			if appErr.Code >= http.StatusInternalServerError {
				logError(c, err)
			}
			response.Error(c, appErr.Code, appErr.Message, nil)
			return
		}

		for _, m := range domainStatus {
			if errors.Is(err, m.err) {
				response.Error(c, m.code, m.message, nil)
				return
			}
		}

		// Never expose internal error details to clients
		logError(c, err)
		response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil)
	}
}

func logError(c *gin.Context, err error) {
	logger.Log.ErrorContext(c.Request.Context(), "request failed",
		"method", c.Request.Method,
		"path", c.FullPath(),
		"request_id", c.GetString(RequestIDKey),
		"error", err,
	)
}
