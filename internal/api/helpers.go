package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"

	"preview-api/apiv1"
	"preview-api/internal"
	"preview-api/internal/auth"
)

const dateLayout = "2006-01-02"

func (h *Handler) fail(c *gin.Context, err error) bool {
	return internal.PresentError(c, h.logger, err)
}

// principal returns the authenticated caller or writes 401.
func (h *Handler) principal(c *gin.Context) (*auth.Principal, bool) {
	p, ok := auth.CurrentPrincipal(c)
	if !ok {
		internal.Fail(c, http.StatusUnauthorized, "authentication required")
		return nil, false
	}
	return p, true
}

// currentUser returns the caller's account. Callers that have not signed in
// through social-login yet get 404.
func (h *Handler) currentUser(c *gin.Context) (*apiv1.User, bool) {
	p, ok := h.principal(c)
	if !ok {
		return nil, false
	}
	if p.User == nil {
		h.fail(c, errors.Wrap(apiv1.ErrUserNotFound, "sign in before using this endpoint"))
		return nil, false
	}
	return p.User, true
}

// authorizeUser allows the account owner and admins.
func (h *Handler) authorizeUser(c *gin.Context, userID uint) bool {
	p, ok := h.principal(c)
	if !ok {
		return false
	}
	if !p.CanAccess(userID) {
		internal.Fail(c, http.StatusForbidden, "access denied")
		return false
	}
	return true
}

func (h *Handler) pathID(c *gin.Context, name string) (uint, bool) {
	id, err := internal.ParseID(c, name)
	if err != nil {
		h.fail(c, err)
		return 0, false
	}
	return id, true
}

func queryBool(c *gin.Context, key string) (*bool, error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, errors.Wrapf(apiv1.BadParameterError, "invalid %s", key)
	}
	return &v, nil
}

func queryDate(c *gin.Context, key string) (time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(dateLayout, raw, time.Local)
	if err != nil {
		return time.Time{}, errors.Wrapf(apiv1.BadParameterError, "invalid %s, expected yyyy-MM-dd", key)
	}
	return t, nil
}
