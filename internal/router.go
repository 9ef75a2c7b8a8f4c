package internal

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"preview-api/meta"
)

// Router serves the generic list/get/create/update/delete routes of a resource
type Router[T any] struct {
	dao     *DAO[T]
	logger  *slog.Logger
	kind    string
	filters []string
	queries []Query
}

// RouterOption configures a Router
type RouterOption func(*routerConfig)

type routerConfig struct {
	filters []string
	queries []Query
}

// WithFilters allows filtering list results by these columns via query params.
func WithFilters(columns ...string) RouterOption {
	return func(c *routerConfig) { c.filters = append(c.filters, columns...) }
}

// WithQueries applies the queries to every list and get.
func WithQueries(queries ...Query) RouterOption {
	return func(c *routerConfig) { c.queries = append(c.queries, queries...) }
}

// NewRouter creates a new router for the given resource
func NewRouter[T any](db *gorm.DB, logger *slog.Logger, kind string, options ...RouterOption) *Router[T] {
	var cfg routerConfig
	for _, o := range options {
		o(&cfg)
	}
	return &Router[T]{
		dao:     NewDAO[T](db),
		logger:  logger,
		kind:    kind,
		filters: cfg.filters,
		queries: cfg.queries,
	}
}

// RegisterReadOnly registers the list and get routes
func (r *Router[T]) RegisterReadOnly(group gin.IRoutes) {
	group.GET("", r.List)
	group.GET("/:id", r.Get)
}

// Register registers all CRUD routes for the resource
func (r *Router[T]) Register(group gin.IRoutes) {
	r.RegisterReadOnly(group)
	group.POST("", r.Create)
	group.PUT("/:id", r.Update)
	group.DELETE("/:id", r.Delete)
}

func validate(resource any) error {
	if v, ok := resource.(meta.ResourceValidator); ok {
		return v.Validate()
	}
	return nil
}

// Create handles POST requests to create a new resource
func (r *Router[T]) Create(c *gin.Context) {
	var resource T
	if err := BindJSON(c, &resource); PresentError(c, r.logger, err) {
		return
	}
	if err := validate(&resource); PresentError(c, r.logger, err) {
		return
	}
	if err := r.dao.Create(c.Request.Context(), &resource); PresentError(c, r.logger, err) {
		return
	}
	Created(c, resource, r.kind+" created")
}

// List handles GET requests to list resources
func (r *Router[T]) List(c *gin.Context) {
	page, size := ParsePage(c)

	filter := make(map[string]any)
	for _, column := range r.filters {
		if v, ok := c.GetQuery(column); ok {
			filter[column] = v
		}
	}

	items, total, err := r.dao.List(c.Request.Context(), page, size, filter, r.queries...)
	if PresentError(c, r.logger, err) {
		return
	}
	OK(c, ListResponse[T]{Items: items, Total: total, Page: page, Size: size}, r.kind+" list")
}

// Get handles GET requests to retrieve a resource by ID
func (r *Router[T]) Get(c *gin.Context) {
	id, err := ParseID(c, "id")
	if PresentError(c, r.logger, err) {
		return
	}
	resource, err := r.dao.Get(c.Request.Context(), id, r.queries...)
	if PresentError(c, r.logger, err) {
		return
	}
	OK(c, resource, r.kind+" found")
}

// Update handles PUT requests to update a resource
func (r *Router[T]) Update(c *gin.Context) {
	id, err := ParseID(c, "id")
	if PresentError(c, r.logger, err) {
		return
	}
	ctx := c.Request.Context()

	resource, err := r.dao.Get(ctx, id)
	if PresentError(c, r.logger, err) {
		return
	}
	if err := BindJSON(c, resource); PresentError(c, r.logger, err) {
		return
	}
	if err := validate(resource); PresentError(c, r.logger, err) {
		return
	}

	// the path id wins over whatever the body carried
	if obj, ok := any(resource).(interface{ GetID() uint }); ok && obj.GetID() != id {
		PresentError(c, r.logger, errMismatchedID)
		return
	}
	if err := r.dao.Save(ctx, resource); PresentError(c, r.logger, err) {
		return
	}
	OK(c, resource, r.kind+" updated")
}

// Delete handles DELETE requests to delete a resource
func (r *Router[T]) Delete(c *gin.Context) {
	id, err := ParseID(c, "id")
	if PresentError(c, r.logger, err) {
		return
	}
	if err := r.dao.Delete(c.Request.Context(), id); PresentError(c, r.logger, err) {
		return
	}
	c.Status(http.StatusNoContent)
}
