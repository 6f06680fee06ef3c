package v1

import (
	"strconv"

	"rezo-backend/internal/delivery/http/middleware"
	"rezo-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// pathID parses a positive int64 path parameter.
func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.BadRequest("Invalid ID format")
	}
	return id, nil
}

// actorID returns the authenticated user's id.
func actorID(c *gin.Context) (int64, error) {
	id, ok := middleware.CurrentUserID(c)
	if !ok {
		return 0, apperror.Unauthorized("User not authenticated")
	}
	return id, nil
}

const maxPage = 1_000_000

// paging reads page and page_size, defaulting to 1 and 10.
func paging(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if err != nil || pageSize < 1 {
		pageSize = 10
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}
