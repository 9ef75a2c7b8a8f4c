package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"preview-api/apiv1"
)

// Identity is the caller described by a verified ID token
type Identity struct {
	UID           string
	Email         string
	Name          string
	Picture       string
	EmailVerified bool
	// SignInProvider is the Firebase provider id, e.g. google.com or apple.com
	SignInProvider string
	ExpiresAt      time.Time
}

// Provider maps the Firebase sign-in provider to the account provider.
func (i *Identity) Provider() apiv1.Provider {
	switch i.SignInProvider {
	case "apple.com":
		return apiv1.ProviderApple
	case "password":
		return apiv1.ProviderEmail
	default:
		return apiv1.ProviderGoogle
	}
}

// TokenVerifier turns a bearer token into an Identity
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// UnverifiedVerifier reads ID token claims without checking the signature.
// It only serves local development, where any string that is not a JWT is
// taken as the uid itself.
type UnverifiedVerifier struct {
	parser *jwt.Parser
}

func NewUnverifiedVerifier() *UnverifiedVerifier {
	return &UnverifiedVerifier{parser: jwt.NewParser()}
}

func (v *UnverifiedVerifier) Verify(_ context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, errors.Wrap(apiv1.UnAuthorizedError, "missing token")
	}
	claims := jwt.MapClaims{}
	if _, _, err := v.parser.ParseUnverified(token, claims); err != nil {
		return &Identity{UID: token, ExpiresAt: time.Now().Add(time.Hour)}, nil
	}

	id := &Identity{}
	if uid, _ := claims["user_id"].(string); uid != "" {
		id.UID = uid
	} else if sub, err := claims.GetSubject(); err == nil {
		id.UID = sub
	}
	if id.UID == "" {
		return nil, errors.Wrap(apiv1.UnAuthorizedError, "token has no subject")
	}
	id.Email, _ = claims["email"].(string)
	id.Name, _ = claims["name"].(string)
	id.Picture, _ = claims["picture"].(string)
	id.EmailVerified, _ = claims["email_verified"].(bool)
	if fb, ok := claims["firebase"].(map[string]any); ok {
		id.SignInProvider, _ = fb["sign_in_provider"].(string)
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		id.ExpiresAt = exp.Time
	}
	return id, nil
}

const (
	cacheSize = 10000
	cacheTTL  = 10 * time.Minute
	// expirySkew keeps tokens out of the cache shortly before they expire
	expirySkew = 30 * time.Second
)

// CachingVerifier remembers verified tokens until shortly before they expire
type CachingVerifier struct {
	next  TokenVerifier
	cache *expirable.LRU[string, *Identity]
	now   func() time.Time
}

func NewCachingVerifier(next TokenVerifier) *CachingVerifier {
	return &CachingVerifier{
		next:  next,
		cache: expirable.NewLRU[string, *Identity](cacheSize, nil, cacheTTL),
		now:   time.Now,
	}
}

func tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (v *CachingVerifier) fresh(id *Identity) bool {
	return id.ExpiresAt.IsZero() || id.ExpiresAt.After(v.now().Add(expirySkew))
}

func (v *CachingVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	key := tokenKey(token)
	if id, ok := v.cache.Get(key); ok {
		if v.fresh(id) {
			return id, nil
		}
		v.cache.Remove(key)
	}

	id, err := v.next.Verify(ctx, token)
	if err != nil {
		return nil, err
	}
	if v.fresh(id) {
		v.cache.Add(key, id)
	}
	return id, nil
}
