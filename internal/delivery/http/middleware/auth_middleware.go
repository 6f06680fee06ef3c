package middleware

import (
	"errors"
	"net/http"
	"strings"

	"rezo-backend/internal/delivery/http/response"
	"rezo-backend/internal/domain"
	"rezo-backend/pkg/apperror"
	"rezo-backend/pkg/audit"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware resolves the bearer token to an active user and stores its
// id, email and role on the gin context.
func AuthMiddleware(authUC domain.AuthUsecase, auditLog *audit.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		var tokenString string

		// 1. Try to get token from Header
		if authHeader != "" {
			tokenString = strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		} else {
			// 2. Try to get token from Cookie
			cookie, err := c.Cookie("auth_token")
			if err == nil && cookie != "" {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			response.Error(c, http.StatusUnauthorized, "Authorization header or auth_token cookie required", nil)
			c.Abort()
			return
		}

		user, err := authUC.Authenticate(c.Request.Context(), tokenString)
		if err != nil {
			auditLog.Log(audit.Event{
				Type:      audit.EventTokenRejected,
				IP:        c.ClientIP(),
				RequestID: c.GetString(RequestIDKey),
				Reason:    err.Error(),
			})

			code, message := http.StatusUnauthorized, "Invalid token"
			var appErr *apperror.AppError
			if errors.As(err, &appErr) && appErr.Code == http.StatusForbidden {
				code, message = appErr.Code, appErr.Message
			}
			response.Error(c, code, message, nil)
			c.Abort()
			return
		}

		c.Set(string(domain.KeyUserID), user.ID)
		c.Set(string(domain.KeyUserEmail), user.Email)
		c.Set(string(domain.KeyUserRole), user.Role)

		c.Next()
	}
}

// CurrentUserID returns the id set by AuthMiddleware.
func CurrentUserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(string(domain.KeyUserID))
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok && id > 0
}

// CurrentUserRole returns the role set by AuthMiddleware.
func CurrentUserRole(c *gin.Context) (domain.Role, bool) {
	v, ok := c.Get(string(domain.KeyUserRole))
	if !ok {
		return "", false
	}
	role, ok := v.(domain.Role)
	return role, ok
}
