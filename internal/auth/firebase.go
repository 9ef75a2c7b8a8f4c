package auth

import (
	"context"
	"time"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"github.com/cockroachdb/errors"
	"google.golang.org/api/option"

	"preview-api/apiv1"
)

type idTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// FirebaseVerifier checks ID tokens with the Firebase Admin SDK
type FirebaseVerifier struct {
	client idTokenVerifier
}

// NewFirebaseVerifier initialises the Firebase app. Without a credentials file
// the application default credentials are used.
func NewFirebaseVerifier(ctx context.Context, projectID, credentialsFile string) (*FirebaseVerifier, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "error initializing firebase app")
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "error getting firebase auth client")
	}
	return &FirebaseVerifier{client: client}, nil
}

func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	t, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, errors.Wrap(apiv1.UnAuthorizedError, err.Error())
	}
	return identityFromToken(t), nil
}

func identityFromToken(t *fbauth.Token) *Identity {
	id := &Identity{
		UID:            t.UID,
		SignInProvider: t.Firebase.SignInProvider,
		ExpiresAt:      time.Unix(t.Expires, 0),
	}
	id.Email, _ = t.Claims["email"].(string)
	id.Name, _ = t.Claims["name"].(string)
	id.Picture, _ = t.Claims["picture"].(string)
	id.EmailVerified, _ = t.Claims["email_verified"].(bool)
	return id
}
