package internal

import (
	"log/slog"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"preview-api/apiv1"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

var errMismatchedID = errors.Wrap(apiv1.BadParameterError, "id in body does not match path")

// ListResponse represents a paginated list response
type ListResponse[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Size  int   `json:"size"`
}

// ParsePage reads 1-based page and size query params, clamping bad values.
func ParsePage(c *gin.Context) (page, size int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	size, err = strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(DefaultPageSize)))
	if err != nil || size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size
}

// ParseID reads a numeric path parameter.
func ParseID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.Wrapf(apiv1.BadParameterError, "invalid %s format", name)
	}
	return uint(id), nil
}

// RegisterResource registers CRUD routes for a resource under path on group
func RegisterResource[T any](group *gin.RouterGroup, db *gorm.DB, logger *slog.Logger, path, kind string, options ...RouterOption) *Router[T] {
	r := NewRouter[T](db, logger, kind, options...)
	r.Register(group.Group(path))
	return r
}
