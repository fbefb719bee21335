package firebase

import (
	"context"
	"ecommerce-backend/internal/domain"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"github.com/go-faster/errors"
	"google.golang.org/api/option"
)

// TokenVerifier checks Firebase ID tokens issued to the storefront.
type TokenVerifier struct {
	client *fbauth.Client
}

// NewTokenVerifier initialises the Admin SDK. With an empty credentialsFile
// it falls back to Application Default Credentials.
func NewTokenVerifier(ctx context.Context, projectID, credentialsFile string) (*TokenVerifier, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "init firebase app")
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "init firebase auth client")
	}
	return &TokenVerifier{client: client}, nil
}

func (v *TokenVerifier) Authenticate(ctx context.Context, idToken string) (*domain.Identity, error) {
	if idToken == "" {
		return nil, domain.ErrUnauthorized
	}
	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, errors.Wrap(domain.ErrUnauthorized, "verify firebase token")
	}

	email, _ := token.Claims["email"].(string)
	return &domain.Identity{Subject: token.UID, Email: email}, nil
}
