package auth

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"

	"preview-api/apiv1"
	"preview-api/internal"
)

const principalKey = "auth.principal"

// UserLookup finds the account behind a Firebase uid
type UserLookup interface {
	GetByUID(ctx context.Context, uid string) (*apiv1.User, error)
}

// Principal is the authenticated caller of a request
type Principal struct {
	UID      string
	Role     apiv1.Role
	Identity *Identity
	// User is nil until the caller has signed in through social-login
	User *apiv1.User
}

func (p *Principal) IsAdmin() bool {
	return p.Role == apiv1.RoleAdmin
}

// UserID returns the account id, or 0 when the caller has no account yet.
func (p *Principal) UserID() uint {
	if p.User == nil {
		return 0
	}
	return p.User.ID
}

// CanAccess reports whether the caller may act on the given account.
func (p *Principal) CanAccess(userID uint) bool {
	return p.IsAdmin() || (p.User != nil && p.User.ID == userID)
}

// CurrentPrincipal returns the caller attached by Authenticate.
func CurrentPrincipal(c *gin.Context) (*Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil, false
	}
	p, ok := v.(*Principal)
	return p, ok
}

// SetPrincipal attaches p to the request.
func SetPrincipal(c *gin.Context, p *Principal) {
	c.Set(principalKey, p)
}

type Option func(*Authenticator)

// WithPublicPaths lets requests under these path prefixes through without a token.
func WithPublicPaths(prefixes ...string) Option {
	return func(a *Authenticator) {
		a.public = append(a.public, prefixes...)
	}
}

// Permissive turns off every access check. Tokens are still read when present.
func Permissive() Option {
	return func(a *Authenticator) {
		a.permissive = true
	}
}

// Authenticator resolves bearer tokens into principals and guards routes by role
type Authenticator struct {
	verifier   TokenVerifier
	users      UserLookup
	logger     *slog.Logger
	public     []string
	permissive bool
}

func NewAuthenticator(verifier TokenVerifier, users UserLookup, logger *slog.Logger, options ...Option) *Authenticator {
	a := &Authenticator{
		verifier: verifier,
		users:    users,
		logger:   logger,
	}
	for _, o := range options {
		o(a)
	}
	return a
}

func (a *Authenticator) isPublic(path string) bool {
	for _, prefix := range a.public {
		if path == prefix || strings.HasPrefix(path, strings.TrimSuffix(prefix, "/")+"/") {
			return true
		}
	}
	return false
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

func (a *Authenticator) resolve(ctx context.Context, token string) (*Principal, error) {
	id, err := a.verifier.Verify(ctx, token)
	if err != nil {
		return nil, err
	}
	p := &Principal{UID: id.UID, Role: apiv1.RoleFree, Identity: id}

	user, err := a.users.GetByUID(ctx, id.UID)
	switch {
	case errors.Is(err, apiv1.ErrUserNotFound):
		return p, nil
	case err != nil:
		return nil, err
	}
	if !user.Active {
		return nil, errors.Wrap(apiv1.ForbiddenError, "account is deactivated")
	}
	p.User = user
	p.Role = user.Role
	return p, nil
}

// IsPermissive reports whether token verification and role checks are relaxed.
func (a *Authenticator) IsPermissive() bool {
	return a.permissive
}

// Authenticate attaches the caller's principal to the request. Outside public
// paths a missing or invalid token ends the request with 401.
func (a *Authenticator) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		public := a.isPublic(c.Request.URL.Path)
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			if public || a.permissive {
				c.Next()
				return
			}
			internal.Fail(c, http.StatusUnauthorized, "authentication required")
			return
		}

		p, err := a.resolve(c.Request.Context(), token)
		if err != nil {
			if public {
				a.logger.DebugContext(c.Request.Context(), "ignoring invalid token on public path", "error", err)
				c.Next()
				return
			}
			internal.PresentError(c, a.logger, err)
			return
		}
		SetPrincipal(c, p)
		c.Next()
	}
}

// RequireAuth rejects requests without a principal.
func (a *Authenticator) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentPrincipal(c); !ok && !a.permissive {
			internal.Fail(c, http.StatusUnauthorized, "authentication required")
			return
		}
		c.Next()
	}
}

// RequireRoles rejects callers whose role is not one of roles.
func (a *Authenticator) RequireRoles(roles ...apiv1.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if a.permissive {
			c.Next()
			return
		}
		p, ok := CurrentPrincipal(c)
		if !ok {
			internal.Fail(c, http.StatusUnauthorized, "authentication required")
			return
		}
		if !slices.Contains(roles, p.Role) {
			internal.Fail(c, http.StatusForbidden, "access denied")
			return
		}
		c.Next()
	}
}
